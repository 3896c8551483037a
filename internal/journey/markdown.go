// Package journey renders the human-readable markdown artifacts that sit
// alongside the structured deal data.
package journey

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/internal/policy"
	"github.com/domoslabs/underwriter/pkg/enums"
)

// StageReportFileName builds the output file name for a numbered stage,
// e.g. Stage01_StrategicQualification.md.
func StageReportFileName(stageNumber int, stageName string) string {
	return fmt.Sprintf("Stage0%d_%s.md", stageNumber, strings.ReplaceAll(stageName, " ", ""))
}

// RenderInitial builds the AnalysisJourney.md written at intake.
func RenderInitial(d *deal.Deal, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis Journey: %s\n\n", d.PropertyName)
	fmt.Fprintf(&b, "**Deal ID:** %s  \n", d.ID)
	fmt.Fprintf(&b, "**Created:** %s  \n", now.UTC().Format(time.RFC3339))
	b.WriteString("**Status:** Initial Intake\n\n---\n\n")

	b.WriteString("## Deal Intake Summary\n\n")
	b.WriteString("### Property Information\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", d.PropertyName)
	fmt.Fprintf(&b, "- **Address:** %s, %s, %s %s\n",
		d.Address.Street, d.Address.City, d.Address.State, d.Address.Zip)
	fmt.Fprintf(&b, "- **Type:** %s\n", d.BasicInfo.PropertyType)
	fmt.Fprintf(&b, "- **Total Units:** %d\n", d.BasicInfo.TotalUnits)
	fmt.Fprintf(&b, "- **Year Built:** %d\n\n", d.BasicInfo.YearBuilt)

	b.WriteString("### Financial Overview\n")
	fmt.Fprintf(&b, "- **Annual Gross Rent:** $%.0f\n", d.FinancialData.AnnualGrossRent)
	fmt.Fprintf(&b, "- **Net Operating Income:** $%.0f\n", d.FinancialData.NetOperatingIncome)
	fmt.Fprintf(&b, "- **Occupancy Rate:** %.1f%%\n", d.FinancialData.OccupancyRate)
	fmt.Fprintf(&b, "- **Expense Ratio:** %.1f%%\n\n", d.FinancialData.ExpenseRatio)

	b.WriteString("### LIHTC Status\n")
	fmt.Fprintf(&b, "- **Currently LIHTC:** %s\n", yesNo(d.LIHTCInfo.CurrentlyLIHTC))
	fmt.Fprintf(&b, "- **Preservation Opportunity:** %s\n", preservationLabel(d.LIHTCInfo.CurrentlyLIHTC))
	fmt.Fprintf(&b, "- **Target AMI Restriction:** %d%%\n", d.LIHTCInfo.AMIRestriction)
	fmt.Fprintf(&b, "- **Set-Aside Requirement:** %s\n\n", d.LIHTCInfo.SetAsideRequirement)

	b.WriteString("### Initial Assessment\n")
	b.WriteString("**Deal Parsed Successfully**\n")
	b.WriteString("- Structured data extracted from due diligence documents\n")
	b.WriteString("- Financial statements processed\n")
	b.WriteString("- Tenant information compiled\n")
	b.WriteString("- Ready for pipeline analysis\n\n")

	b.WriteString("### Next Steps\n")
	b.WriteString("1. Move to Stage 1: Initial Intake Analysis\n")
	b.WriteString("2. Apply gate criteria and screening filters\n")
	b.WriteString("3. Perform preliminary underwriting assessment\n\n")

	b.WriteString("---\n\n")
	b.WriteString("*This analysis journey will be updated as the deal progresses through each pipeline stage.*\n")
	return b.String()
}

// RenderStageReport builds the per-stage markdown saved under Outputs/.
func RenderStageReport(result *policy.Result, now time.Time) string {
	analysis := result.Analysis

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (Stage %d)\n\n", analysis.StageName, analysis.Stage)
	fmt.Fprintf(&b, "**Deal**: %s\n", analysis.DealID)
	fmt.Fprintf(&b, "**Date**: %s\n", now.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "**Decision**: %s\n\n", result.Decision)

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "%s\n\n", result.Reasoning)

	b.WriteString("## Key Findings\n\n")
	for _, finding := range analysis.Findings {
		fmt.Fprintf(&b, "- %s\n", finding)
	}
	b.WriteString("\n")

	if len(analysis.Metrics) > 0 {
		b.WriteString("## Key Metrics\n\n")
		keys := make([]string, 0, len(analysis.Metrics))
		for key := range analysis.Metrics {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "- **%s**: %v\n", key, analysis.Metrics[key])
		}
		b.WriteString("\n")
	}

	if len(analysis.Risks) > 0 {
		b.WriteString("## Risks Identified\n\n")
		for _, risk := range analysis.Risks {
			fmt.Fprintf(&b, "- %s\n", risk)
		}
		b.WriteString("\n")
	}

	if len(analysis.Opportunities) > 0 {
		b.WriteString("## Opportunities\n\n")
		for _, opportunity := range analysis.Opportunities {
			fmt.Fprintf(&b, "- %s\n", opportunity)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	for _, rec := range analysis.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	b.WriteString("\n")

	b.WriteString("## Next Action\n\n")
	fmt.Fprintf(&b, "%s\n\n", result.NextAction)

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*Generated by the underwriting pipeline on %s*\n",
		now.UTC().Format(time.RFC3339))
	return b.String()
}

// RenderMoveRecord builds the journey appendix written after a pipeline move.
func RenderMoveRecord(from, to enums.Stage, decision enums.Decision, substate enums.Substate, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n## Pipeline Move: %s\n\n", now.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "- **From:** %s\n", from.PipelineName())
	fmt.Fprintf(&b, "- **To:** %s (%s)\n", to.PipelineName(), substate)
	fmt.Fprintf(&b, "- **Decision:** %s\n", decision)
	return b.String()
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func preservationLabel(currentlyLIHTC bool) string {
	if currentlyLIHTC {
		return "Yes - Maintain LIHTC"
	}
	return "Yes - Convert to LIHTC"
}
