package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/domoslabs/underwriter/internal/audit"
	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/extract"
	"github.com/domoslabs/underwriter/internal/intake"
	"github.com/domoslabs/underwriter/internal/pipeline"
	"github.com/domoslabs/underwriter/internal/policy"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, root string) *Runner {
	t.Helper()
	store := dealstore.NewStore()
	return New(Options{
		Builder: intake.NewBuilder(filepath.Join(root, "processed-deals"),
			extract.NewExtractor(nil), store, nil, nil),
		Store:          store,
		AuditLogger:    audit.NewLogger(dealstore.NewPathLocker(time.Second), 3, nil),
		Underwriting:   policy.NewUnderwritingPolicy(),
		PipelinePolicy: policy.NewPipelinePolicy(),
		Mover:          pipeline.NewMover(filepath.Join(root, "pipeline"), store, nil, nil, nil),
		Scanner:        pipeline.NewScanner(filepath.Join(root, "pipeline")),
	})
}

func seedDeal(t *testing.T, root string, mutate func(*deal.Deal)) string {
	t.Helper()
	dealPath := filepath.Join(root, "deals", "the-frank-20240101")
	require.NoError(t, os.MkdirAll(dealPath, 0o755))

	now := time.Now().UTC()
	d := &deal.Deal{
		ID:           "the-frank-20240101",
		PropertyName: "The Frank",
		BasicInfo:    deal.BasicInfo{TotalUnits: 50},
		LIHTCInfo:    deal.LIHTCInfo{CurrentlyLIHTC: true},
		FinancialData: deal.FinancialData{
			NetOperatingIncome: 30000, // $600/unit
			OccupancyRate:      75,
		},
		Status:    enums.DealStatusIncoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mutate != nil {
		mutate(d)
	}
	require.NoError(t, dealstore.NewStore().SaveTriple(dealPath, d, nil, &deal.FinancialSummary{}))
	return dealPath
}

func TestRunStageAdvancesViableDeal(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)
	dealPath := seedDeal(t, root, nil)

	result, err := r.RunStage(context.Background(), dealPath, enums.StagePreliminary)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionAdvance, result.Decision)

	// The audit log and stage report both exist afterwards.
	status, err := r.auditLogger.Status(context.Background(), dealPath)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, 1, status.Stage)

	report := filepath.Join(dealPath, "Outputs", "Stage01_StrategicQualification.md")
	_, err = os.Stat(report)
	require.NoError(t, err)
}

func TestRunStageRejectsLowOccupancy(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)
	dealPath := seedDeal(t, root, func(d *deal.Deal) {
		d.FinancialData.OccupancyRate = 65
	})

	result, err := r.RunStage(context.Background(), dealPath, enums.StagePreliminary)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionReject, result.Decision)
	assert.Contains(t, result.Reasoning, "Occupancy")

	status, err := r.auditLogger.Status(context.Background(), dealPath)
	require.NoError(t, err)
	assert.Equal(t, enums.JourneyStatusRejected, status.Status)
}

func TestRunToStageHaltsOnReject(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)
	dealPath := seedDeal(t, root, func(d *deal.Deal) {
		d.FinancialData.OccupancyRate = 65
	})

	result, err := r.RunToStage(context.Background(), dealPath, enums.StageClosing)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionReject, result.Decision)

	status, err := r.auditLogger.Status(context.Background(), dealPath)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Stage)
}

func TestRunToStageRunsAllStages(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)
	dealPath := seedDeal(t, root, nil)

	result, err := r.RunToStage(context.Background(), dealPath, enums.StageClosing)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionAdvance, result.Decision)

	status, err := r.auditLogger.Status(context.Background(), dealPath)
	require.NoError(t, err)
	assert.Equal(t, 6, status.Stage)
	assert.Equal(t, enums.JourneyStatusCompleted, status.Status)
}

func TestRunToStageRefusesRejectedDeal(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)
	dealPath := seedDeal(t, root, func(d *deal.Deal) {
		d.FinancialData.OccupancyRate = 65
	})

	_, err := r.RunToStage(context.Background(), dealPath, enums.StageUnderwriting)
	require.NoError(t, err)

	_, err = r.RunToStage(context.Background(), dealPath, enums.StageUnderwriting)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodePrecondition))
}

func TestRunToStageRefusesCompletedTarget(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)
	dealPath := seedDeal(t, root, nil)

	_, err := r.RunToStage(context.Background(), dealPath, enums.StageUnderwriting)
	require.NoError(t, err)

	_, err = r.RunToStage(context.Background(), dealPath, enums.StagePreliminary)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodePrecondition))
	assert.Contains(t, err.Error(), "already at or beyond")
}

func TestProcessFolderThenRunStage(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)

	folder := filepath.Join(root, "the-frank")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "rent-roll.csv"),
		[]byte("Unit,Tenant,Rent\n101,J. Smith,1200\n102,A. Jones,1300\n103,vacant,0\n104,B. Brown,1250\n105,C. White,1100\n"),
		0o644))

	dealPath, err := r.ProcessFolder(context.Background(), folder)
	require.NoError(t, err)

	result, err := r.RunStage(context.Background(), dealPath, enums.StagePreliminary)
	require.NoError(t, err)
	// 4 of 5 units occupied is 80%, NOI is unknown so the stage holds.
	assert.Equal(t, enums.DecisionHold, result.Decision)
}

func TestProcessPendingMovesDeals(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root)

	// Seed a viable deal directly in the intake stage folder.
	dealFolder := filepath.Join(root, "pipeline", "A-initial-intake", "not-started", "the-frank-20240101")
	require.NoError(t, os.MkdirAll(dealFolder, 0o755))
	now := time.Now().UTC()
	d := &deal.Deal{
		ID:           "the-frank-20240101",
		PropertyName: "The Frank",
		BasicInfo: deal.BasicInfo{
			TotalUnits:   50,
			YearBuilt:    2005,
			PropertyType: "multifamily",
			AskingPrice:  5000000,
			PricePerUnit: 100000,
		},
		FinancialData: deal.FinancialData{
			NetOperatingIncome: 300000,
			OccupancyRate:      95,
		},
		Status:    enums.DealStatusIncoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, dealstore.NewStore().SaveTriple(dealFolder, d, nil, &deal.FinancialSummary{}))

	processed, err := r.ProcessPending(context.Background())
	require.NoError(t, err)
	require.Len(t, processed, 1)

	// The deal advanced into the next stage's not-started folder.
	moved := filepath.Join(root, "pipeline", "B-preliminary-review", "not-started", "the-frank-20240101")
	_, err = os.Stat(filepath.Join(moved, "Structured", "deal.json"))
	require.NoError(t, err)

	// The screening analysis was saved before the move and travelled along.
	_, err = os.Stat(filepath.Join(moved, "A-initial-intake-analysis.json"))
	require.NoError(t, err)
}
