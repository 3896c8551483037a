package policy

import (
	"testing"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qualifyingDeal() *deal.Deal {
	return &deal.Deal{
		ID:           "test-deal",
		PropertyName: "The Frank",
		BasicInfo: deal.BasicInfo{
			TotalUnits:   50,
			AskingPrice:  5000000,
			PricePerUnit: 100000,
		},
		LIHTCInfo: deal.LIHTCInfo{CurrentlyLIHTC: true},
		FinancialData: deal.FinancialData{
			NetOperatingIncome: 30000,
			OccupancyRate:      95,
		},
	}
}

func TestStage1PriceBoundaries(t *testing.T) {
	policy := NewUnderwritingPolicy()
	cases := []struct {
		pricePerUnit float64
		want         enums.Decision
	}{
		{29999, enums.DecisionReject},
		{30000, enums.DecisionAdvance},
		{200000, enums.DecisionAdvance},
		{200001, enums.DecisionReject},
	}
	for _, tc := range cases {
		d := qualifyingDeal()
		d.BasicInfo.PricePerUnit = tc.pricePerUnit

		result, err := policy.Evaluate(enums.StagePreliminary, d)
		require.NoError(t, err)
		assert.Equalf(t, tc.want, result.Decision, "price per unit %v", tc.pricePerUnit)
	}
}

func TestStage1UnknownPriceNeverRejectsOnPrice(t *testing.T) {
	d := qualifyingDeal()
	d.BasicInfo.AskingPrice = 0
	d.BasicInfo.PricePerUnit = 0

	result, err := NewUnderwritingPolicy().Evaluate(enums.StagePreliminary, d)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionAdvance, result.Decision)
}

func TestStage1LowOccupancyRejects(t *testing.T) {
	d := qualifyingDeal()
	d.FinancialData.OccupancyRate = 65

	result, err := NewUnderwritingPolicy().Evaluate(enums.StagePreliminary, d)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionReject, result.Decision)
	assert.Contains(t, result.Reasoning, "Occupancy rate")
}

func TestStage1LowNOIHolds(t *testing.T) {
	d := qualifyingDeal()
	d.FinancialData.NetOperatingIncome = 10000 // $200/unit across 50 units

	result, err := NewUnderwritingPolicy().Evaluate(enums.StagePreliminary, d)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionHold, result.Decision)
}

func TestStage1RejectWinsOverHold(t *testing.T) {
	d := qualifyingDeal()
	d.FinancialData.OccupancyRate = 65
	d.FinancialData.NetOperatingIncome = 0

	result, err := NewUnderwritingPolicy().Evaluate(enums.StagePreliminary, d)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionReject, result.Decision)
}

func TestStage3ViolationHistoryFlagsRisk(t *testing.T) {
	d := qualifyingDeal()
	d.LIHTCInfo.ViolationHistory = true

	result, err := NewUnderwritingPolicy().Evaluate(enums.StageICReview, d)
	require.NoError(t, err)
	assert.Equal(t, enums.DecisionAdvance, result.Decision)
	assert.Contains(t, result.Analysis.Risks, "History of LIHTC compliance violations")
	assert.Equal(t, confidenceWithRedFlags, result.Confidence)
}

func TestConfidenceScores(t *testing.T) {
	clean, err := NewUnderwritingPolicy().Evaluate(enums.StagePreliminary, qualifyingDeal())
	require.NoError(t, err)
	assert.Equal(t, confidenceClean, clean.Confidence)

	flagged := qualifyingDeal()
	flagged.LIHTCInfo.CurrentlyLIHTC = false
	result, err := NewUnderwritingPolicy().Evaluate(enums.StagePreliminary, flagged)
	require.NoError(t, err)
	assert.Equal(t, confidenceWithRedFlags, result.Confidence)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	policy := NewUnderwritingPolicy()
	first, err := policy.Evaluate(enums.StagePreliminary, qualifyingDeal())
	require.NoError(t, err)
	second, err := policy.Evaluate(enums.StagePreliminary, qualifyingDeal())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluateRejectsIntakeStage(t *testing.T) {
	_, err := NewUnderwritingPolicy().Evaluate(enums.StageIntake, qualifyingDeal())
	require.Error(t, err)
}

func TestLaterStagesAdvance(t *testing.T) {
	policy := NewUnderwritingPolicy()
	for _, stage := range []enums.Stage{enums.StageLegal, enums.StageApproval, enums.StageClosing} {
		result, err := policy.Evaluate(stage, qualifyingDeal())
		require.NoError(t, err)
		assert.Equalf(t, enums.DecisionAdvance, result.Decision, "stage %s", stage)
	}
}
