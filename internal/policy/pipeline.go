package policy

import (
	"fmt"
	"time"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
)

const minViableUnits = 5

// PipelinePolicy is the looser screening rule set applied when deals move
// through the lettered pipeline folders.
type PipelinePolicy struct {
	now func() time.Time
}

func NewPipelinePolicy() *PipelinePolicy {
	return &PipelinePolicy{now: time.Now}
}

// WithClock fixes the clock, for deterministic evaluation in tests.
func (p *PipelinePolicy) WithClock(now func() time.Time) *PipelinePolicy {
	p.now = now
	return p
}

func (p *PipelinePolicy) Name() string {
	return "pipeline"
}

func (p *PipelinePolicy) Evaluate(stage enums.Stage, d *deal.Deal) (*Result, error) {
	if !stage.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid stage %q", stage))
	}
	if d == nil {
		return nil, errors.New(errors.CodeValidation, "deal is required")
	}

	analysis := Analysis{
		DealID:    d.ID,
		Stage:     stage.Number(),
		StageName: stage.PipelineName(),
		Metrics: map[string]float64{
			"pricePerUnit":  d.BasicInfo.PricePerUnit,
			"occupancyRate": d.FinancialData.OccupancyRate,
			"expenseRatio":  d.FinancialData.ExpenseRatio,
		},
		Findings: []string{
			fmt.Sprintf("Property: %s (%d units)", d.PropertyName, d.BasicInfo.TotalUnits),
			fmt.Sprintf("Price: $%.0f ($%.0f/unit)", d.BasicInfo.AskingPrice, d.BasicInfo.PricePerUnit),
			fmt.Sprintf("LIHTC Status: %s", lihtcLabel(d.LIHTCInfo.CurrentlyLIHTC)),
			fmt.Sprintf("NOI: $%.0f", d.FinancialData.NetOperatingIncome),
			fmt.Sprintf("Current Stage: %s", stage.PipelineName()),
		},
		Risks: p.identifyRisks(d),
	}

	result := &Result{
		Analysis:  analysis,
		NextSteps: nextStepsFor(stage),
	}

	switch stage {
	case enums.StageIntake:
		p.decideIntake(d, result)
	case enums.StagePreliminary:
		result.Decision = enums.DecisionAdvance
		result.Reasoning = "Preliminary screening passed"
		result.NextAction = "Proceed to underwriting"
		result.Confidence = 75
	case enums.StageUnderwriting:
		result.Decision = enums.DecisionAdvance
		result.Reasoning = "Underwriting screening passed"
		result.NextAction = "Proceed to IC review"
		result.Confidence = 80
	default:
		result.Decision = enums.DecisionAdvance
		result.Reasoning = fmt.Sprintf("%s review complete", stage.PipelineName())
		result.NextAction = "Continue to next stage"
		result.Confidence = 75
	}

	return result, nil
}

func (p *PipelinePolicy) decideIntake(d *deal.Deal, result *Result) {
	result.Confidence = confidenceFor(result.Analysis.Risks)
	gaps := dataGaps(d)
	result.Analysis.Metrics["dataGaps"] = float64(len(gaps))

	priceKnown := d.BasicInfo.PricePerUnit > 0
	switch {
	case d.BasicInfo.TotalUnits < minViableUnits:
		result.Decision = enums.DecisionReject
		result.Reasoning = fmt.Sprintf(
			"Unit count (%d) below minimum viable size", d.BasicInfo.TotalUnits)
		result.NextAction = "Deal too small for the pipeline"
	case priceKnown && (d.BasicInfo.PricePerUnit < 30000 || d.BasicInfo.PricePerUnit > 200000):
		result.Decision = enums.DecisionReject
		result.Reasoning = fmt.Sprintf(
			"Price per unit ($%.0f) outside acceptable range ($30k-$200k)",
			d.BasicInfo.PricePerUnit)
		result.NextAction = "Deal does not meet pricing criteria"
	case len(gaps) > 2:
		result.Decision = enums.DecisionRequestMoreInfo
		result.Reasoning = fmt.Sprintf(
			"Insufficient data for screening: %d fields missing", len(gaps))
		result.NextAction = "Request missing documentation from broker"
	default:
		result.Decision = enums.DecisionAdvance
		result.Reasoning = "Initial intake screening passed"
		result.NextAction = "Proceed to preliminary review"
	}
}

func (p *PipelinePolicy) identifyRisks(d *deal.Deal) []string {
	var risks []string
	if d.BasicInfo.YearBuilt > 0 && d.BasicInfo.YearBuilt < 1990 {
		risks = append(risks, "Older property may require significant capital improvements")
	}
	if d.FinancialData.ExpenseRatio > 45 {
		risks = append(risks, "High expense ratio may indicate operational inefficiencies")
	}
	if end, err := time.Parse("2006-01-02", d.LIHTCInfo.ExtendedUseEnd); err == nil {
		if end.Sub(p.now()) < 5*365*24*time.Hour {
			risks = append(risks, "Preservation urgency - less than 5 years remaining")
		}
	}
	if d.LIHTCInfo.ViolationHistory {
		risks = append(risks, "History of LIHTC compliance violations")
	}
	return risks
}

func dataGaps(d *deal.Deal) []string {
	var gaps []string
	if d.BasicInfo.AskingPrice == 0 {
		gaps = append(gaps, "askingPrice")
	}
	if d.BasicInfo.YearBuilt == 0 {
		gaps = append(gaps, "yearBuilt")
	}
	if d.BasicInfo.PropertyType == "" {
		gaps = append(gaps, "propertyType")
	}
	if d.FinancialData.OccupancyRate == 0 {
		gaps = append(gaps, "occupancyRate")
	}
	if d.FinancialData.NetOperatingIncome == 0 {
		gaps = append(gaps, "netOperatingIncome")
	}
	return gaps
}

var pipelineNextSteps = map[enums.Stage][]string{
	enums.StageIntake: {
		"Gather additional financial documents",
		"Schedule property tour",
		"Prepare for preliminary analysis",
	},
	enums.StagePreliminary: {
		"Commission property condition assessment",
		"Obtain detailed rent rolls",
		"Prepare for full underwriting",
	},
	enums.StageUnderwriting: {
		"Finalize financing terms",
		"Complete due diligence",
		"Prepare IC presentation",
	},
	enums.StageICReview: {
		"Address IC feedback",
		"Prepare LOI documentation",
		"Coordinate with legal team",
	},
	enums.StageLegal: {
		"Execute purchase agreement",
		"Coordinate due diligence period",
		"Prepare for closing",
	},
	enums.StageApproval: {
		"Finalize all documentation",
		"Coordinate closing logistics",
		"Prepare transition plan",
	},
	enums.StageClosing: {
		"Complete transaction",
		"Transfer property management",
		"Begin asset management",
	},
}

func nextStepsFor(stage enums.Stage) []string {
	if steps, ok := pipelineNextSteps[stage]; ok {
		return steps
	}
	return []string{"Continue to next stage"}
}
