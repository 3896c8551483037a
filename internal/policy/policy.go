package policy

import (
	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/pkg/enums"
)

// Analysis is the deterministic evaluation of one deal at one stage.
// Identical inputs always produce identical output, findings order included.
type Analysis struct {
	DealID          string             `json:"dealId"`
	Stage           int                `json:"stage"`
	StageName       string             `json:"stageName"`
	Findings        []string           `json:"findings"`
	Metrics         map[string]float64 `json:"metrics"`
	Risks           []string           `json:"risks"`
	Opportunities   []string           `json:"opportunities"`
	Recommendations []string           `json:"recommendations"`
}

// Result couples the analysis with the stage decision.
type Result struct {
	Analysis   Analysis       `json:"analysis"`
	Decision   enums.Decision `json:"recommendation"`
	Reasoning  string         `json:"reasoning"`
	NextAction string         `json:"nextAction"`
	Confidence int            `json:"confidence"`
	NextSteps  []string       `json:"nextSteps"`
}

// StagePolicy evaluates a deal at a pipeline stage. Implementations are pure
// apart from any injected clock.
type StagePolicy interface {
	Name() string
	Evaluate(stage enums.Stage, d *deal.Deal) (*Result, error)
}

const (
	confidenceWithRedFlags = 70
	confidenceClean        = 85
)

func confidenceFor(risks []string) int {
	if len(risks) > 0 {
		return confidenceWithRedFlags
	}
	return confidenceClean
}
