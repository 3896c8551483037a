package enums

import "testing"

func TestStageNumbersRoundTrip(t *testing.T) {
	for _, stage := range AnalysisStages() {
		parsed, err := ParseStageNumber(stage.Number())
		if err != nil {
			t.Fatalf("parse number %d: %v", stage.Number(), err)
		}
		if parsed != stage {
			t.Fatalf("stage %s round-tripped to %s", stage, parsed)
		}
	}
}

func TestStageFolderRoundTrip(t *testing.T) {
	for _, stage := range []Stage{StageIntake, StageUnderwriting, StageClosing} {
		parsed, err := ParseStageFolder(stage.FolderID())
		if err != nil {
			t.Fatalf("parse folder %s: %v", stage.FolderID(), err)
		}
		if parsed != stage {
			t.Fatalf("stage %s round-tripped to %s", stage, parsed)
		}
	}
}

func TestStageNext(t *testing.T) {
	next, ok := StageIntake.Next()
	if !ok || next != StagePreliminary {
		t.Fatalf("expected intake to advance to preliminary, got %s", next)
	}
	if _, ok := StageClosing.Next(); ok {
		t.Fatalf("closing must not have a successor")
	}
}

func TestDecisionSeverityOrdering(t *testing.T) {
	if DecisionReject.Severity() <= DecisionHold.Severity() {
		t.Fatalf("reject must outrank hold")
	}
	if DecisionHold.Severity() <= DecisionAdvance.Severity() {
		t.Fatalf("hold must outrank advance")
	}
}

func TestSubstateForDecision(t *testing.T) {
	cases := map[Decision]Substate{
		DecisionAdvance:           SubstateNotStarted,
		DecisionReject:            SubstateRejected,
		DecisionRequestMoreInfo:   SubstateInProgress,
		DecisionRevisionsRequired: SubstateInProgress,
		DecisionHold:              SubstateNotStarted,
	}
	for decision, want := range cases {
		if got := SubstateForDecision(decision); got != want {
			t.Fatalf("decision %s mapped to %s, want %s", decision, got, want)
		}
	}
}

func TestCategorizeDocument(t *testing.T) {
	cases := map[string]DocumentCategory{
		"Rent Roll.xlsx":   DocumentCategoryRentRoll,
		"T12 2024.pdf":     DocumentCategoryFinancial,
		"lease-master.pdf": DocumentCategoryLegal,
		"notes.md":         DocumentCategoryDocumentation,
		"random.bin":       DocumentCategoryOther,
	}
	for name, want := range cases {
		if got := CategorizeDocument(name); got != want {
			t.Fatalf("%s categorized as %s, want %s", name, got, want)
		}
	}
}
