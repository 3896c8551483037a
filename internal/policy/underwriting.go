package policy

import (
	"fmt"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/shopspring/decimal"
)

// Threshold values for the numbered underwriting stages.
var (
	minPricePerUnit   = decimal.NewFromInt(30000)
	maxPricePerUnit   = decimal.NewFromInt(200000)
	minOccupancy      = decimal.NewFromInt(70)
	minNOIPerUnit     = decimal.NewFromInt(500)
	coverageAdvance   = decimal.NewFromInt(80)
	coverageReject    = decimal.NewFromInt(60)
	irrAdvanceFloor   = decimal.NewFromInt(8)
	irrRejectCeiling  = decimal.NewFromInt(6)
	dscrAdvanceFloor  = decimal.NewFromFloat(1.15)
	dscrRejectCeiling = decimal.NewFromFloat(1.10)
)

// Placeholder metrics until real models are wired in.
const (
	placeholderCoverage = 85.0
	placeholderGrowth   = 2.5
	placeholderIRR      = 9.5
	placeholderDSCR     = 1.25
)

// UnderwritingPolicy is the canonical rule set for the six numbered
// analysis stages.
type UnderwritingPolicy struct{}

func NewUnderwritingPolicy() *UnderwritingPolicy {
	return &UnderwritingPolicy{}
}

func (p *UnderwritingPolicy) Name() string {
	return "underwriting"
}

func (p *UnderwritingPolicy) Evaluate(stage enums.Stage, d *deal.Deal) (*Result, error) {
	spec, ok := SpecFor(stage)
	if !ok {
		return nil, errors.New(errors.CodeValidation,
			fmt.Sprintf("stage %s is not an analysis stage", stage))
	}
	if d == nil {
		return nil, errors.New(errors.CodeValidation, "deal is required")
	}

	analysis := p.analyze(spec, d)
	result := p.decide(spec, analysis)
	result.Confidence = confidenceFor(analysis.Risks)
	return result, nil
}

func (p *UnderwritingPolicy) analyze(spec StageSpec, d *deal.Deal) Analysis {
	analysis := Analysis{
		DealID:    d.ID,
		Stage:     spec.StageNumber,
		StageName: spec.StageName,
		Metrics:   map[string]float64{},
	}

	switch spec.StageNumber {
	case 1:
		analysis.Findings = append(analysis.Findings,
			fmt.Sprintf("Property: %s with %d units", d.PropertyName, d.BasicInfo.TotalUnits),
			fmt.Sprintf("LIHTC Status: %s", lihtcLabel(d.LIHTCInfo.CurrentlyLIHTC)),
			fmt.Sprintf("Price per unit: $%.0f", d.BasicInfo.PricePerUnit),
			fmt.Sprintf("Occupancy: %.1f%%", d.FinancialData.OccupancyRate),
		)
		analysis.Metrics["pricePerUnit"] = d.BasicInfo.PricePerUnit
		analysis.Metrics["occupancyRate"] = d.FinancialData.OccupancyRate
		analysis.Metrics["noiPerUnit"] = deal.NOIPerUnit(
			d.FinancialData.NetOperatingIncome, d.BasicInfo.TotalUnits)

		if !d.LIHTCInfo.CurrentlyLIHTC {
			analysis.Risks = append(analysis.Risks, "Property not currently under LIHTC program")
		}
		if d.FinancialData.OccupancyRate < 85 {
			analysis.Risks = append(analysis.Risks, "Below-average occupancy rate")
		}
		if d.BasicInfo.PricePerUnit > 150000 {
			analysis.Risks = append(analysis.Risks, "High price per unit relative to typical LIHTC deals")
		}

		analysis.Opportunities = append(analysis.Opportunities, "LIHTC preservation opportunity")
		if d.FinancialData.OccupancyRate > 90 {
			analysis.Opportunities = append(analysis.Opportunities, "Strong operational performance")
		}
		analysis.Recommendations = append(analysis.Recommendations, "Proceed to market analysis if criteria met")

	case 2:
		analysis.Findings = append(analysis.Findings,
			"Market analysis based on property location and type")
		if d.BasicInfo.TotalUnits > 0 {
			monthly := d.FinancialData.AnnualGrossRent / 12 / float64(d.BasicInfo.TotalUnits)
			analysis.Findings = append(analysis.Findings,
				fmt.Sprintf("Market rent estimate: $%.0f/month", monthly))
		}
		analysis.Metrics["marketRentCoverage"] = placeholderCoverage
		analysis.Metrics["marketGrowth"] = placeholderGrowth
		analysis.Recommendations = append(analysis.Recommendations, "Conduct detailed property inspection")

	case 3:
		analysis.Findings = append(analysis.Findings,
			"Property condition assessment",
			"LIHTC compliance review",
		)
		if d.LIHTCInfo.ViolationHistory {
			analysis.Risks = append(analysis.Risks, "History of LIHTC compliance violations")
		}
		analysis.Recommendations = append(analysis.Recommendations, "Proceed to financial modeling")

	case 4:
		analysis.Findings = append(analysis.Findings,
			fmt.Sprintf("Estimated IRR: %.1f%%", placeholderIRR),
			fmt.Sprintf("Estimated DSCR: %.2fx", placeholderDSCR),
			fmt.Sprintf("NOI: $%.0f", d.FinancialData.NetOperatingIncome),
		)
		analysis.Metrics["estimatedIRR"] = placeholderIRR
		analysis.Metrics["estimatedDSCR"] = placeholderDSCR
		analysis.Metrics["noi"] = d.FinancialData.NetOperatingIncome
		if placeholderIRR >= 8 && placeholderDSCR >= 1.15 {
			analysis.Opportunities = append(analysis.Opportunities, "Strong financial returns projected")
		}
		analysis.Recommendations = append(analysis.Recommendations, "Prepare Investment Committee presentation")

	case 5:
		analysis.Findings = append(analysis.Findings,
			"Investment Committee presentation prepared",
			"Final terms under negotiation",
		)
		analysis.Recommendations = append(analysis.Recommendations, "Address IC feedback and finalize terms")

	case 6:
		analysis.Findings = append(analysis.Findings,
			"Final approvals in process",
			"Closing preparation underway",
		)
		analysis.Recommendations = append(analysis.Recommendations, "Execute transaction and close deal")
	}

	return analysis
}

// decide applies the stage rule ladder. Conditions are checked in severity
// order so a REJECT always wins over a HOLD, and a HOLD over an ADVANCE.
func (p *UnderwritingPolicy) decide(spec StageSpec, analysis Analysis) *Result {
	result := &Result{
		Analysis:  analysis,
		Decision:  enums.DecisionAdvance,
		NextSteps: analysis.Recommendations,
	}

	switch spec.StageNumber {
	case 1:
		pricePerUnit := decimal.NewFromFloat(analysis.Metrics["pricePerUnit"])
		occupancy := decimal.NewFromFloat(analysis.Metrics["occupancyRate"])
		noiPerUnit := decimal.NewFromFloat(analysis.Metrics["noiPerUnit"])

		// A zero price per unit means the value is still TBD and must
		// not trigger a price rejection.
		priceKnown := pricePerUnit.IsPositive()
		switch {
		case priceKnown && (pricePerUnit.LessThan(minPricePerUnit) || pricePerUnit.GreaterThan(maxPricePerUnit)):
			result.Decision = enums.DecisionReject
			result.Reasoning = fmt.Sprintf(
				"Price per unit ($%s) outside acceptable range ($30k-$200k)",
				pricePerUnit.Round(0))
			result.NextAction = "Deal does not meet strategic criteria"
		case occupancy.LessThan(minOccupancy):
			result.Decision = enums.DecisionReject
			result.Reasoning = fmt.Sprintf(
				"Occupancy rate (%s%%) too low for viable operation",
				occupancy.Round(1))
			result.NextAction = "Deal does not meet operational criteria"
		case noiPerUnit.LessThan(minNOIPerUnit):
			result.Decision = enums.DecisionHold
			result.Reasoning = fmt.Sprintf(
				"NOI per unit ($%s) requires additional analysis",
				noiPerUnit.Round(0))
			result.NextAction = "Request additional financial documentation"
		default:
			result.Reasoning = "Deal meets strategic qualification criteria"
			result.NextAction = "Proceed to Market Intelligence stage"
		}

	case 2:
		coverage := decimal.NewFromFloat(analysis.Metrics["marketRentCoverage"])
		switch {
		case coverage.LessThan(coverageReject):
			result.Decision = enums.DecisionReject
			result.Reasoning = "Market conditions do not support investment"
			result.NextAction = "Deal does not meet market criteria"
		case coverage.LessThan(coverageAdvance):
			result.Decision = enums.DecisionHold
			result.Reasoning = "Market conditions require additional analysis"
			result.NextAction = "Conduct additional market research"
		default:
			result.Reasoning = "Market conditions support investment thesis"
			result.NextAction = "Proceed to Due Diligence stage"
		}

	case 3:
		result.Reasoning = "Due diligence completed satisfactorily"
		result.NextAction = "Proceed to Financial Underwriting stage"

	case 4:
		irr := decimal.NewFromFloat(analysis.Metrics["estimatedIRR"])
		dscr := decimal.NewFromFloat(analysis.Metrics["estimatedDSCR"])
		switch {
		case irr.LessThan(irrRejectCeiling) || dscr.LessThan(dscrRejectCeiling):
			result.Decision = enums.DecisionReject
			result.Reasoning = "Financial returns do not meet minimum criteria"
			result.NextAction = "Deal does not meet return requirements"
		case irr.LessThan(irrAdvanceFloor) || dscr.LessThan(dscrAdvanceFloor):
			result.Decision = enums.DecisionHold
			result.Reasoning = "Financial returns require optimization"
			result.NextAction = "Optimize financing structure and terms"
		default:
			result.Reasoning = fmt.Sprintf(
				"Financial returns meet criteria (IRR: %s%%, DSCR: %sx)",
				irr.Round(1), dscr.Round(2))
			result.NextAction = "Proceed to IC Review stage"
		}

	case 5:
		result.Reasoning = "Investment Committee approval received"
		result.NextAction = "Proceed to Final Approval stage"

	case 6:
		result.Reasoning = "Final approvals completed"
		result.NextAction = "Close transaction"
	}

	return result
}

func lihtcLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}
