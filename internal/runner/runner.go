// Package runner drives deals through the analysis stages and the pipeline.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/domoslabs/underwriter/internal/audit"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/internal/intake"
	"github.com/domoslabs/underwriter/internal/journey"
	"github.com/domoslabs/underwriter/internal/pipeline"
	"github.com/domoslabs/underwriter/internal/policy"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/domoslabs/underwriter/pkg/logger"
	"github.com/domoslabs/underwriter/pkg/metrics"
)

// Runner wires the builder, policies, audit log and mover together.
type Runner struct {
	builder        *intake.Builder
	store          *dealstore.Store
	index          *dealstore.Index
	auditLogger    *audit.Logger
	underwriting   policy.StagePolicy
	pipelinePolicy policy.StagePolicy
	mover          *pipeline.Mover
	scanner        *pipeline.Scanner
	metrics        *metrics.PipelineMetrics
	log            *logger.Logger
}

type Options struct {
	Builder        *intake.Builder
	Store          *dealstore.Store
	Index          *dealstore.Index
	AuditLogger    *audit.Logger
	Underwriting   policy.StagePolicy
	PipelinePolicy policy.StagePolicy
	Mover          *pipeline.Mover
	Scanner        *pipeline.Scanner
	Metrics        *metrics.PipelineMetrics
	Log            *logger.Logger
}

func New(opts Options) *Runner {
	return &Runner{
		builder:        opts.Builder,
		store:          opts.Store,
		index:          opts.Index,
		auditLogger:    opts.AuditLogger,
		underwriting:   opts.Underwriting,
		pipelinePolicy: opts.PipelinePolicy,
		mover:          opts.Mover,
		scanner:        opts.Scanner,
		metrics:        opts.Metrics,
		log:            opts.Log,
	}
}

// ProcessFolder runs intake for a due diligence folder and returns the new
// deal path.
func (r *Runner) ProcessFolder(ctx context.Context, folder string) (string, error) {
	dealPath, _, err := r.builder.ProcessFolder(ctx, folder)
	return dealPath, err
}

// RunStage evaluates one numbered analysis stage for a processed deal: load
// the structured data, apply the underwriting policy, append the decision to
// the audit log and render the stage report.
func (r *Runner) RunStage(ctx context.Context, dealPath string, stage enums.Stage) (*policy.Result, error) {
	started := time.Now()
	if r.log != nil {
		ctx = r.log.WithDealPath(ctx, dealPath)
		ctx = r.log.WithStage(ctx, stage.String())
	}

	d, err := r.store.LoadDeal(dealPath)
	if err != nil {
		return nil, err
	}

	result, err := r.underwriting.Evaluate(stage, d)
	if err != nil {
		return nil, err
	}

	if status, err := r.auditLogger.Status(ctx, dealPath); err != nil {
		return nil, err
	} else if status == nil {
		if _, err := r.auditLogger.Initialize(ctx, dealPath, d); err != nil {
			return nil, err
		}
	}

	reportName := journey.StageReportFileName(result.Analysis.Stage, result.Analysis.StageName)
	entry := audit.Entry{
		Stage:           result.Analysis.Stage,
		StageName:       result.Analysis.StageName,
		Decision:        result.Decision,
		Reasoning:       result.Reasoning,
		KeyFindings:     result.Analysis.Findings,
		NextAction:      result.NextAction,
		ConfidenceScore: result.Confidence,
		RedFlags:        result.Analysis.Risks,
		Documentation:   []string{reportName},
	}
	auditLog, err := r.auditLogger.Append(ctx, dealPath, entry)
	if err != nil {
		return nil, err
	}

	if err := r.writeStageReport(dealPath, reportName, result); err != nil {
		return nil, err
	}

	r.metrics.IncStageRun(stage.String(), "completed")
	r.metrics.IncDecision(stage.String(), result.Decision.String())
	r.metrics.ObserveStageDuration(stage.String(), time.Since(started))

	if r.index != nil {
		r.updateIndexStatus(ctx, d.ID, auditLog.CurrentStatus)
	}
	if r.log != nil {
		r.log.Info(ctx, fmt.Sprintf("stage %d completed: %s", entry.Stage, result.Decision))
	}
	return result, nil
}

// RunToStage resumes from the audit log and runs stages up to and including
// the target, halting when a stage does not advance.
func (r *Runner) RunToStage(ctx context.Context, dealPath string, target enums.Stage) (*policy.Result, error) {
	targetNumber := target.Number()
	if targetNumber == 0 {
		return nil, errors.New(errors.CodeValidation, "target is not an analysis stage")
	}

	startNumber := 1
	if status, err := r.auditLogger.Status(ctx, dealPath); err != nil {
		return nil, err
	} else if status != nil {
		switch status.Status {
		case enums.JourneyStatusRejected:
			return nil, errors.New(errors.CodePrecondition, "deal already rejected")
		case enums.JourneyStatusCompleted:
			return nil, errors.New(errors.CodePrecondition, "deal already completed")
		}
		if status.LastEntry != nil {
			startNumber = status.LastEntry.Stage + 1
		}
	}
	if startNumber > targetNumber {
		return nil, errors.New(errors.CodePrecondition,
			fmt.Sprintf("deal already at or beyond stage %d", targetNumber))
	}

	var last *policy.Result
	for number := startNumber; number <= targetNumber; number++ {
		stage, err := enums.ParseStageNumber(number)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "resolving stage")
		}
		result, err := r.RunStage(ctx, dealPath, stage)
		if err != nil {
			return last, err
		}
		last = result
		if result.Decision != enums.DecisionAdvance {
			break
		}
	}
	return last, nil
}

// ProcessPending scans the pipeline and screens every waiting deal with the
// pipeline policy, then moves it according to the decision. A failure on one
// deal halts that deal only.
func (r *Runner) ProcessPending(ctx context.Context) ([]pipeline.PendingDeal, error) {
	pending, err := r.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	var processed []pipeline.PendingDeal
	for _, item := range pending {
		if err := r.processPendingDeal(ctx, item); err != nil {
			if r.log != nil {
				r.log.Error(ctx, "processing "+item.Path, err)
			}
			continue
		}
		processed = append(processed, item)
	}
	return processed, nil
}

func (r *Runner) processPendingDeal(ctx context.Context, item pipeline.PendingDeal) error {
	d, err := r.store.LoadDeal(item.Path)
	if err != nil {
		return err
	}

	result, err := r.pipelinePolicy.Evaluate(item.Stage, d)
	if err != nil {
		return err
	}
	if err := r.saveAnalysis(item.Path, item.Stage, result); err != nil {
		return err
	}

	destination := item.Stage
	if result.Decision == enums.DecisionAdvance {
		next, ok := item.Stage.Next()
		if !ok {
			// Final stage; nothing to move forward to.
			return nil
		}
		destination = next
	}

	_, err = r.mover.Move(ctx, item.Path, item.Stage, destination, result.Decision)
	return err
}

func (r *Runner) saveAnalysis(dealPath string, stage enums.Stage, result *policy.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding analysis")
	}
	name := stage.FolderID() + "-analysis.json"
	if err := os.WriteFile(filepath.Join(dealPath, name), data, 0o644); err != nil {
		return errors.Wrap(errors.CodeIO, err, "writing analysis")
	}
	return nil
}

func (r *Runner) writeStageReport(dealPath, reportName string, result *policy.Result) error {
	outputs := filepath.Join(dealPath, "Outputs")
	if err := os.MkdirAll(outputs, 0o755); err != nil {
		return errors.Wrap(errors.CodeIO, err, "creating outputs directory")
	}
	report := journey.RenderStageReport(result, time.Now())
	if err := os.WriteFile(filepath.Join(outputs, reportName), []byte(report), 0o644); err != nil {
		return errors.Wrap(errors.CodeIO, err, "writing stage report")
	}
	return nil
}

func (r *Runner) updateIndexStatus(ctx context.Context, dealID string, journeyStatus enums.JourneyStatus) {
	var status enums.DealStatus
	switch journeyStatus {
	case enums.JourneyStatusRejected:
		status = enums.DealStatusRejected
	case enums.JourneyStatusCompleted:
		status = enums.DealStatusCompleted
	default:
		status = enums.DealStatusProcessing
	}
	if err := r.index.UpdateStatus(ctx, dealID, status); err != nil && r.log != nil {
		r.log.Warn(ctx, "updating index status: "+err.Error())
	}
}
