package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
)

// PendingDeal is one deal folder waiting for analysis in the pipeline.
type PendingDeal struct {
	Path     string
	Stage    enums.Stage
	Substate enums.Substate
}

// Substates a deal can be picked up from.
var scannableSubstates = []enums.Substate{
	enums.SubstateNotStarted,
	enums.SubstateInProgress,
}

// Scanner walks the pipeline directory tree for deals awaiting work.
type Scanner struct {
	pipelineDir string
}

func NewScanner(pipelineDir string) *Scanner {
	return &Scanner{pipelineDir: pipelineDir}
}

// Scan returns pending deals in stable order: stage, then substate, then
// folder name.
func (s *Scanner) Scan(ctx context.Context) ([]PendingDeal, error) {
	if _, err := os.Stat(s.pipelineDir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.CodeIO, err, "reading pipeline directory")
	}

	var pending []PendingDeal
	for _, stage := range allStagesInOrder() {
		for _, substate := range scannableSubstates {
			dir := filepath.Join(s.pipelineDir, stage.FolderID(), substate.String())
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			names := make([]string, 0, len(entries))
			for _, entry := range entries {
				if entry.IsDir() {
					names = append(names, entry.Name())
				}
			}
			sort.Strings(names)
			for _, name := range names {
				pending = append(pending, PendingDeal{
					Path:     filepath.Join(dir, name),
					Stage:    stage,
					Substate: substate,
				})
			}
		}
	}
	return pending, nil
}

func allStagesInOrder() []enums.Stage {
	return append([]enums.Stage{enums.StageIntake}, enums.AnalysisStages()...)
}
