package enums

import "fmt"

// Decision is the outcome a stage policy hands back for a deal.
type Decision string

const (
	DecisionAdvance           Decision = "ADVANCE"
	DecisionReject            Decision = "REJECT"
	DecisionHold              Decision = "HOLD"
	DecisionRequestMoreInfo   Decision = "REQUEST_MORE_INFO"
	DecisionRevisionsRequired Decision = "REVISIONS_REQUIRED"
)

var validDecisions = []Decision{
	DecisionAdvance,
	DecisionReject,
	DecisionHold,
	DecisionRequestMoreInfo,
	DecisionRevisionsRequired,
}

// Decision severity for tie-breaking. Higher wins.
var decisionSeverity = map[Decision]int{
	DecisionAdvance:           0,
	DecisionRequestMoreInfo:   1,
	DecisionRevisionsRequired: 1,
	DecisionHold:              2,
	DecisionReject:            3,
}

// String implements fmt.Stringer.
func (d Decision) String() string {
	return string(d)
}

// IsValid reports whether the value is a known Decision.
func (d Decision) IsValid() bool {
	for _, candidate := range validDecisions {
		if candidate == d {
			return true
		}
	}
	return false
}

// Severity orders decisions for tie-breaking, REJECT over HOLD over ADVANCE.
func (d Decision) Severity() int {
	return decisionSeverity[d]
}

// ParseDecision converts raw input into a Decision.
func ParseDecision(value string) (Decision, error) {
	for _, candidate := range validDecisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid decision %q", value)
}
