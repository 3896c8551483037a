package policy

import "github.com/domoslabs/underwriter/pkg/enums"

// StageSpec is the static description of an analysis stage.
type StageSpec struct {
	StageNumber      int              `json:"stageNumber"`
	StageName        string           `json:"stageName"`
	Description      string           `json:"description"`
	Objectives       []string         `json:"objectives"`
	RequiredInputs   []string         `json:"requiredInputs"`
	DecisionCriteria DecisionCriteria `json:"decisionCriteria"`
	OutputFormat     string           `json:"outputFormat"`
}

type DecisionCriteria struct {
	AdvanceRequirements []string `json:"advanceRequirements"`
	RejectConditions    []string `json:"rejectConditions"`
	HoldConditions      []string `json:"holdConditions"`
}

var stageSpecs = map[int]StageSpec{
	1: {
		StageNumber: 1,
		StageName:   "Strategic Qualification",
		Description: "Initial qualification of deal alignment with investment strategy",
		Objectives: []string{
			"Validate LIHTC preservation opportunity",
			"Confirm basic financial viability",
			"Assess strategic fit with portfolio",
		},
		RequiredInputs: []string{"deal.json", "tenants.json", "financialSummary.json"},
		DecisionCriteria: DecisionCriteria{
			AdvanceRequirements: []string{
				"Currently LIHTC property",
				"Price per unit $30k-$200k",
				"Occupancy rate >80%",
				"NOI >$500/unit/year",
			},
			RejectConditions: []string{
				"Price per unit >$200k or <$30k",
				"Occupancy rate <70%",
				"Negative NOI",
			},
			HoldConditions: []string{
				"Missing critical financial data",
				"Occupancy rate 70-80%",
				"Requires additional documentation",
			},
		},
		OutputFormat: "markdown",
	},
	2: {
		StageNumber: 2,
		StageName:   "Market Intelligence",
		Description: "Market analysis and competitive positioning",
		Objectives: []string{
			"Analyze local market conditions",
			"Compare to market comps",
			"Assess competitive position",
		},
		RequiredInputs: []string{"deal.json", "market-data"},
		DecisionCriteria: DecisionCriteria{
			AdvanceRequirements: []string{
				"Market rent coverage >80%",
				"Market growing or stable",
				"Reasonable price vs comps",
			},
			RejectConditions: []string{
				"Market rent coverage <60%",
				"Declining market",
				"Price >20% above comps",
			},
			HoldConditions: []string{
				"Need additional market research",
				"Borderline market metrics",
			},
		},
		OutputFormat: "markdown",
	},
	3: {
		StageNumber: 3,
		StageName:   "Due Diligence",
		Description: "Comprehensive property and legal due diligence",
		Objectives: []string{
			"Validate property condition",
			"Review legal compliance",
			"Assess operational risks",
		},
		RequiredInputs: []string{"deal.json", "property-inspection", "legal-docs"},
		DecisionCriteria: DecisionCriteria{
			AdvanceRequirements: []string{
				"Property condition acceptable",
				"LIHTC compliance current",
				"No material legal issues",
			},
			RejectConditions: []string{
				"Major structural issues",
				"LIHTC violations",
				"Unresolvable legal problems",
			},
			HoldConditions: []string{
				"Minor issues need resolution",
				"Additional inspections required",
			},
		},
		OutputFormat: "markdown",
	},
	4: {
		StageNumber: 4,
		StageName:   "Financial Underwriting",
		Description: "Detailed financial modeling and return analysis",
		Objectives: []string{
			"Complete financial model",
			"Validate return assumptions",
			"Stress test scenarios",
		},
		RequiredInputs: []string{"deal.json", "financialSummary.json", "market-assumptions"},
		DecisionCriteria: DecisionCriteria{
			AdvanceRequirements: []string{
				"IRR >8%",
				"DSCR >1.15",
				"Positive cash flow year 1",
			},
			RejectConditions: []string{
				"IRR <6%",
				"DSCR <1.10",
				"Negative cash flow >2 years",
			},
			HoldConditions: []string{
				"IRR 6-8%",
				"Need financing optimization",
				"Scenario analysis required",
			},
		},
		OutputFormat: "markdown",
	},
	5: {
		StageNumber: 5,
		StageName:   "IC Review",
		Description: "Investment Committee review and recommendation",
		Objectives: []string{
			"Present investment thesis",
			"Address IC questions",
			"Finalize investment terms",
		},
		RequiredInputs: []string{"all-prior-stages", "ic-presentation"},
		DecisionCriteria: DecisionCriteria{
			AdvanceRequirements: []string{
				"IC approval received",
				"Terms negotiated",
				"Ready for closing",
			},
			RejectConditions: []string{
				"IC rejection",
				"Terms unacceptable",
				"Material issues discovered",
			},
			HoldConditions: []string{
				"IC requests changes",
				"Need term modifications",
				"Additional analysis required",
			},
		},
		OutputFormat: "markdown",
	},
	6: {
		StageNumber: 6,
		StageName:   "Final Approval",
		Description: "Final approvals and closing preparation",
		Objectives: []string{
			"Complete final approvals",
			"Prepare closing documents",
			"Execute transaction",
		},
		RequiredInputs: []string{"ic-approval", "legal-docs", "financing-docs"},
		DecisionCriteria: DecisionCriteria{
			AdvanceRequirements: []string{
				"All approvals received",
				"Closing documents ready",
				"Funds available",
			},
			RejectConditions: []string{
				"Approval withdrawn",
				"Financing falls through",
				"Material adverse change",
			},
			HoldConditions: []string{
				"Minor closing issues",
				"Documentation delays",
			},
		},
		OutputFormat: "markdown",
	},
}

// SpecFor returns the static spec for a numbered analysis stage.
func SpecFor(stage enums.Stage) (StageSpec, bool) {
	spec, ok := stageSpecs[stage.Number()]
	return spec, ok
}
