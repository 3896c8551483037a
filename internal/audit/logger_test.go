package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *Logger {
	return NewLogger(dealstore.NewPathLocker(time.Second), 3, nil)
}

func testDeal() *deal.Deal {
	return &deal.Deal{ID: "the-frank-20240101", PropertyName: "The Frank"}
}

func advanceEntry(stage int) Entry {
	return Entry{
		Stage:       stage,
		StageName:   "Strategic Qualification",
		Decision:    enums.DecisionAdvance,
		Reasoning:   "Deal meets strategic qualification criteria",
		KeyFindings: []string{"Occupancy: 95.0%"},
		NextAction:  "Proceed to Market Intelligence stage",
	}
}

func TestInitializeCreatesActiveLog(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()

	auditLog, err := logg.Initialize(context.Background(), dealPath, testDeal())
	require.NoError(t, err)
	assert.Equal(t, 1, auditLog.CurrentStage)
	assert.Equal(t, enums.JourneyStatusActive, auditLog.CurrentStatus)
	assert.Empty(t, auditLog.Entries)

	_, err = os.Stat(filepath.Join(dealPath, JourneyDir, LogFile))
	require.NoError(t, err)
}

func TestInitializeTwiceConflicts(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()
	ctx := context.Background()

	_, err := logg.Initialize(ctx, dealPath, testDeal())
	require.NoError(t, err)

	_, err = logg.Initialize(ctx, dealPath, testDeal())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConflict))
}

func TestAppendWithoutInitializeFailsPrecondition(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()

	_, err := logg.Append(context.Background(), dealPath, advanceEntry(1))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodePrecondition))

	// The failed append must not leave a log behind.
	_, statErr := os.Stat(filepath.Join(dealPath, JourneyDir, LogFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAppendTracksCurrentStage(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()
	ctx := context.Background()

	_, err := logg.Initialize(ctx, dealPath, testDeal())
	require.NoError(t, err)

	for stage := 1; stage <= 3; stage++ {
		auditLog, err := logg.Append(ctx, dealPath, advanceEntry(stage))
		require.NoError(t, err)
		assert.Equal(t, stage, auditLog.CurrentStage)
		assert.Len(t, auditLog.Entries, stage)
	}

	status, err := logg.Status(ctx, dealPath)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Stage)
	assert.Equal(t, enums.JourneyStatusActive, status.Status)
	require.NotNil(t, status.LastEntry)
	assert.Equal(t, 3, status.LastEntry.Stage)
}

func TestRejectSetsRejectedStatus(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()
	ctx := context.Background()

	_, err := logg.Initialize(ctx, dealPath, testDeal())
	require.NoError(t, err)

	entry := advanceEntry(1)
	entry.Decision = enums.DecisionReject
	auditLog, err := logg.Append(ctx, dealPath, entry)
	require.NoError(t, err)
	assert.Equal(t, enums.JourneyStatusRejected, auditLog.CurrentStatus)
}

func TestFinalStageAdvanceCompletes(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()
	ctx := context.Background()

	_, err := logg.Initialize(ctx, dealPath, testDeal())
	require.NoError(t, err)

	auditLog, err := logg.Append(ctx, dealPath, advanceEntry(6))
	require.NoError(t, err)
	assert.Equal(t, enums.JourneyStatusCompleted, auditLog.CurrentStatus)
}

func TestRevisionIncrementsPerAppend(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()
	ctx := context.Background()

	_, err := logg.Initialize(ctx, dealPath, testDeal())
	require.NoError(t, err)

	first, err := logg.Append(ctx, dealPath, advanceEntry(1))
	require.NoError(t, err)
	second, err := logg.Append(ctx, dealPath, advanceEntry(2))
	require.NoError(t, err)
	assert.Equal(t, first.Revision+1, second.Revision)
}

func TestStatusNilWhenAbsent(t *testing.T) {
	status, err := testLogger().Status(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestSummarizeRendersHistory(t *testing.T) {
	dealPath := t.TempDir()
	logg := testLogger()
	ctx := context.Background()

	_, err := logg.Initialize(ctx, dealPath, testDeal())
	require.NoError(t, err)
	_, err = logg.Append(ctx, dealPath, advanceEntry(1))
	require.NoError(t, err)

	summary, err := logg.Summarize(ctx, dealPath)
	require.NoError(t, err)
	assert.Contains(t, summary, "# Audit Trail Summary")
	assert.Contains(t, summary, "The Frank")
	assert.Contains(t, summary, "### Strategic Qualification (Stage 1)")
	assert.Contains(t, summary, "- **Decision**: ADVANCE")
}

func TestStatusForIsPure(t *testing.T) {
	hold := Entry{Stage: 2, Decision: enums.DecisionHold}
	assert.Equal(t, enums.JourneyStatusOnHold, StatusFor(hold, enums.FinalAnalysisStage))

	midAdvance := Entry{Stage: 3, Decision: enums.DecisionAdvance}
	assert.Equal(t, enums.JourneyStatusActive, StatusFor(midAdvance, enums.FinalAnalysisStage))
}
