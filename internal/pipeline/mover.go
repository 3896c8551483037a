package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/journey"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/domoslabs/underwriter/pkg/logger"
	"github.com/domoslabs/underwriter/pkg/metrics"
)

// Subdirectories carried along when a deal folder is copied forward.
var carriedSubdirs = []string{
	dealstore.StructuredDir,
	"AnalysisJourney",
	"Outputs",
}

// Mover copies deal folders between pipeline stage directories. The source
// copy is left untouched; the index marks the new copy canonical.
type Mover struct {
	pipelineDir string
	store       *dealstore.Store
	index       *dealstore.Index
	metrics     *metrics.PipelineMetrics
	log         *logger.Logger
}

func NewMover(pipelineDir string, store *dealstore.Store, index *dealstore.Index, m *metrics.PipelineMetrics, log *logger.Logger) *Mover {
	return &Mover{
		pipelineDir: pipelineDir,
		store:       store,
		index:       index,
		metrics:     m,
		log:         log,
	}
}

// Move copies the deal folder into the destination stage directory, patches
// the copied deal record's status and appends a move record to the journey
// at the new location. Returns the new deal path.
func (m *Mover) Move(ctx context.Context, dealPath string, from, to enums.Stage, decision enums.Decision) (string, error) {
	substate := enums.SubstateForDecision(decision)
	dealFolder := filepath.Base(dealPath)
	destination := filepath.Join(m.pipelineDir, to.FolderID(), substate.String(), dealFolder)

	// A decision that keeps the deal in its current stage and substate
	// resolves to the source path; copying a file onto itself would
	// truncate it.
	if sameDealPath(dealPath, destination) {
		if m.log != nil {
			m.log.Info(ctx, "deal already at "+to.FolderID()+"/"+substate.String())
		}
		return dealPath, nil
	}

	if err := os.MkdirAll(destination, 0o755); err != nil {
		return "", errors.Wrap(errors.CodeIO, err, "creating destination stage directory")
	}
	if err := copyDealFolder(dealPath, destination); err != nil {
		return "", err
	}

	if err := m.patchDealStatus(destination, decision); err != nil {
		return "", err
	}
	if err := appendMoveRecord(destination, from, to, decision, substate); err != nil {
		return "", err
	}

	if m.index != nil {
		d, err := m.store.LoadDeal(destination)
		if err == nil {
			if err := m.index.RecordSnapshot(ctx, d.ID, destination, to, substate); err != nil && m.log != nil {
				m.log.Warn(ctx, "recording snapshot: "+err.Error())
			}
		}
	}

	m.metrics.IncMove(from.String(), to.String())
	if m.log != nil {
		m.log.Info(ctx, "moved deal to "+to.FolderID()+"/"+substate.String())
	}
	return destination, nil
}

// patchDealStatus updates the copied deal.json only. The original record at
// the source location keeps its previous status.
func (m *Mover) patchDealStatus(destination string, decision enums.Decision) error {
	d, err := m.store.LoadDeal(destination)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil
		}
		return err
	}
	if decision == enums.DecisionReject {
		d.Status = enums.DealStatusRejected
	} else {
		d.Status = enums.DealStatusProcessing
	}
	d.UpdatedAt = time.Now().UTC()
	return m.store.SaveDeal(destination, d)
}

func appendMoveRecord(destination string, from, to enums.Stage, decision enums.Decision, substate enums.Substate) error {
	record := journey.RenderMoveRecord(from, to, decision, substate, time.Now())
	path := filepath.Join(destination, "AnalysisJourney.md")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(errors.CodeIO, err, "opening journey file")
	}
	defer file.Close()
	if _, err := file.WriteString(record); err != nil {
		return errors.Wrap(errors.CodeIO, err, "appending move record")
	}
	return nil
}

// copyDealFolder copies top-level files plus one level of the known
// subdirectories, so the structured triple and journey travel with the deal.
func copyDealFolder(source, destination string) error {
	entries, err := os.ReadDir(source)
	if err != nil {
		return errors.Wrap(errors.CodeIO, err, "reading deal folder")
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			if err := copyFile(
				filepath.Join(source, entry.Name()),
				filepath.Join(destination, entry.Name())); err != nil {
				return err
			}
		}
	}

	for _, subdir := range carriedSubdirs {
		sourceDir := filepath.Join(source, subdir)
		children, err := os.ReadDir(sourceDir)
		if err != nil {
			continue
		}
		destDir := filepath.Join(destination, subdir)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return errors.Wrap(errors.CodeIO, err, "creating "+subdir)
		}
		for _, child := range children {
			if child.IsDir() {
				continue
			}
			if err := copyFile(
				filepath.Join(sourceDir, child.Name()),
				filepath.Join(destDir, child.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func sameDealPath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return errors.Wrap(errors.CodeIO, err, "opening "+filepath.Base(source))
	}
	defer in.Close()

	out, err := os.Create(destination)
	if err != nil {
		return errors.Wrap(errors.CodeIO, err, "creating "+filepath.Base(destination))
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(errors.CodeIO, err, "copying "+filepath.Base(source))
	}
	return nil
}
