package audit

import (
	"time"

	"github.com/domoslabs/underwriter/pkg/enums"
)

// Log is the append-only record of every stage decision for a deal. The
// revision counter guards concurrent read-modify-write cycles.
type Log struct {
	DealID        string              `json:"dealId"`
	PropertyName  string              `json:"propertyName"`
	Entries       []Entry             `json:"entries"`
	CurrentStage  int                 `json:"currentStage"`
	CurrentStatus enums.JourneyStatus `json:"currentStatus"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdated   time.Time           `json:"lastUpdated"`
	Revision      int                 `json:"revision"`
}

// Entry records one stage decision.
type Entry struct {
	Stage           int            `json:"stage"`
	StageName       string         `json:"stageName"`
	Timestamp       time.Time      `json:"timestamp"`
	Decision        enums.Decision `json:"decision"`
	Reasoning       string         `json:"reasoning"`
	KeyFindings     []string       `json:"keyFindings"`
	NextAction      string         `json:"nextAction"`
	ConfidenceScore int            `json:"confidenceScore,omitempty"`
	RedFlags        []string       `json:"redFlags,omitempty"`
	Analyst         string         `json:"analyst,omitempty"`
	Documentation   []string       `json:"documentation,omitempty"`
}

// StatusFor derives the journey status from the entry just appended. The
// status is a pure function of the last entry alone.
func StatusFor(entry Entry, finalStage int) enums.JourneyStatus {
	switch {
	case entry.Decision == enums.DecisionReject:
		return enums.JourneyStatusRejected
	case entry.Decision == enums.DecisionHold:
		return enums.JourneyStatusOnHold
	case entry.Stage >= finalStage && entry.Decision == enums.DecisionAdvance:
		return enums.JourneyStatusCompleted
	default:
		return enums.JourneyStatusActive
	}
}
