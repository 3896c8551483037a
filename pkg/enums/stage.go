package enums

import "fmt"

// Stage identifies a position in the due-diligence pipeline, from intake
// through closing. Analysis stages 1-6 map onto positions two through seven.
type Stage string

const (
	StageIntake       Stage = "intake"
	StagePreliminary  Stage = "preliminary"
	StageUnderwriting Stage = "underwriting"
	StageICReview     Stage = "ic_review"
	StageLegal        Stage = "legal"
	StageApproval     Stage = "approval"
	StageClosing      Stage = "closing"
)

var validStages = []Stage{
	StageIntake,
	StagePreliminary,
	StageUnderwriting,
	StageICReview,
	StageLegal,
	StageApproval,
	StageClosing,
}

// Analysis stage numbers. Intake is not an analysis stage and has number 0.
var stageNumbers = map[Stage]int{
	StageIntake:       0,
	StagePreliminary:  1,
	StageUnderwriting: 2,
	StageICReview:     3,
	StageLegal:        4,
	StageApproval:     5,
	StageClosing:      6,
}

var stageAnalysisNames = map[Stage]string{
	StagePreliminary:  "Strategic Qualification",
	StageUnderwriting: "Market Intelligence",
	StageICReview:     "Due Diligence",
	StageLegal:        "Financial Underwriting",
	StageApproval:     "IC Review",
	StageClosing:      "Final Approval",
}

var stageFolderIDs = map[Stage]string{
	StageIntake:       "A-initial-intake",
	StagePreliminary:  "B-preliminary-review",
	StageUnderwriting: "C-underwriting",
	StageICReview:     "D-ic-review",
	StageLegal:        "E-legal-diligence",
	StageApproval:     "F-final-approval",
	StageClosing:      "G-closing",
}

var stagePipelineNames = map[Stage]string{
	StageIntake:       "Initial Intake",
	StagePreliminary:  "Preliminary Review",
	StageUnderwriting: "Underwriting",
	StageICReview:     "IC Review",
	StageLegal:        "Legal & Diligence",
	StageApproval:     "Final Approval",
	StageClosing:      "Closing",
}

// FinalAnalysisStage is the last numbered analysis stage.
const FinalAnalysisStage = 6

// String implements fmt.Stringer.
func (s Stage) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Stage.
func (s Stage) IsValid() bool {
	for _, candidate := range validStages {
		if candidate == s {
			return true
		}
	}
	return false
}

// Number returns the analysis stage number, 1 through 6. Intake returns 0.
func (s Stage) Number() int {
	return stageNumbers[s]
}

// AnalysisName returns the display name used in stage reports, empty for intake.
func (s Stage) AnalysisName() string {
	return stageAnalysisNames[s]
}

// FolderID returns the lettered pipeline directory name for the stage.
func (s Stage) FolderID() string {
	return stageFolderIDs[s]
}

// PipelineName returns the human-readable pipeline board name.
func (s Stage) PipelineName() string {
	return stagePipelineNames[s]
}

// Next returns the following stage. Closing has no successor.
func (s Stage) Next() (Stage, bool) {
	for i, candidate := range validStages {
		if candidate == s && i+1 < len(validStages) {
			return validStages[i+1], true
		}
	}
	return "", false
}

// ParseStage converts raw input into a Stage.
func ParseStage(value string) (Stage, error) {
	for _, candidate := range validStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stage %q", value)
}

// ParseStageNumber resolves an analysis stage number, 1 through 6.
func ParseStageNumber(number int) (Stage, error) {
	for stage, n := range stageNumbers {
		if n == number && n != 0 {
			return stage, nil
		}
	}
	return "", fmt.Errorf("invalid stage number %d", number)
}

// ParseStageFolder resolves a lettered pipeline directory name.
func ParseStageFolder(folder string) (Stage, error) {
	for stage, id := range stageFolderIDs {
		if id == folder {
			return stage, nil
		}
	}
	return "", fmt.Errorf("invalid stage folder %q", folder)
}

// AnalysisStages returns the numbered stages in pipeline order.
func AnalysisStages() []Stage {
	return []Stage{
		StagePreliminary,
		StageUnderwriting,
		StageICReview,
		StageLegal,
		StageApproval,
		StageClosing,
	}
}
