package enums

import "fmt"

// Substate is the work state a deal folder sits in within a pipeline stage.
type Substate string

const (
	SubstateNotStarted Substate = "not-started"
	SubstateInProgress Substate = "in-progress"
	SubstateRejected   Substate = "rejected"
)

var validSubstates = []Substate{
	SubstateNotStarted,
	SubstateInProgress,
	SubstateRejected,
}

// String implements fmt.Stringer.
func (s Substate) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Substate.
func (s Substate) IsValid() bool {
	for _, candidate := range validSubstates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubstate converts raw input into a Substate.
func ParseSubstate(value string) (Substate, error) {
	for _, candidate := range validSubstates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid substate %q", value)
}

// SubstateForDecision maps a stage decision onto the substate the deal
// lands in after moving. Unknown decisions fall back to not-started.
func SubstateForDecision(decision Decision) Substate {
	switch decision {
	case DecisionAdvance:
		return SubstateNotStarted
	case DecisionReject:
		return SubstateRejected
	case DecisionRequestMoreInfo, DecisionRevisionsRequired:
		return SubstateInProgress
	default:
		return SubstateNotStarted
	}
}
