package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/domoslabs/underwriter/internal/deal"
	"github.com/domoslabs/underwriter/internal/dealstore"
	"github.com/domoslabs/underwriter/pkg/enums"
	"github.com/domoslabs/underwriter/pkg/errors"
	"github.com/domoslabs/underwriter/pkg/logger"
	"github.com/sethvargo/go-retry"
)

const (
	JourneyDir = "AnalysisJourney"
	LogFile    = "auditLog.json"
)

const retryBackoff = 100 * time.Millisecond

// StatusInfo is the condensed view of a deal's journey.
type StatusInfo struct {
	Stage     int                 `json:"stage"`
	Status    enums.JourneyStatus `json:"status"`
	LastEntry *Entry              `json:"lastEntry,omitempty"`
}

// Logger owns the audit log files. All writes go through the per-path lock
// and a revision check, with a bounded retry on conflicts.
type Logger struct {
	locker      *dealstore.PathLocker
	maxAttempts uint64
	log         *logger.Logger
}

func NewLogger(locker *dealstore.PathLocker, maxAttempts uint, log *logger.Logger) *Logger {
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	return &Logger{locker: locker, maxAttempts: uint64(maxAttempts), log: log}
}

func logPath(dealPath string) string {
	return filepath.Join(dealPath, JourneyDir, LogFile)
}

// Initialize creates the audit log for a new deal at stage 1. A CONFLICT is
// returned when a log already exists.
func (l *Logger) Initialize(ctx context.Context, dealPath string, d *deal.Deal) (*Log, error) {
	release, err := l.locker.Lock(dealPath)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := os.Stat(logPath(dealPath)); err == nil {
		return nil, errors.New(errors.CodeConflict, "audit log already initialized")
	}

	now := time.Now().UTC()
	auditLog := &Log{
		DealID:        d.ID,
		PropertyName:  d.PropertyName,
		Entries:       []Entry{},
		CurrentStage:  1,
		CurrentStatus: enums.JourneyStatusActive,
		CreatedAt:     now,
		LastUpdated:   now,
	}
	if err := l.write(dealPath, auditLog); err != nil {
		return nil, err
	}
	if l.log != nil {
		l.log.Info(ctx, "initialized audit log for "+d.PropertyName)
	}
	return auditLog, nil
}

// Append records a stage decision. The whole read-modify-write cycle is
// retried on revision conflicts, bounded by the configured attempt count.
// Appending before Initialize is a precondition failure and writes nothing.
func (l *Logger) Append(ctx context.Context, dealPath string, entry Entry) (*Log, error) {
	var result *Log
	backoff := retry.WithMaxRetries(l.maxAttempts-1, retry.NewConstant(retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		auditLog, err := l.appendOnce(dealPath, entry)
		if err != nil {
			if errors.HasCode(err, errors.CodeConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = auditLog
		return nil
	})
	if err != nil {
		return nil, err
	}
	if l.log != nil {
		l.log.Info(ctx, fmt.Sprintf("logged stage %d decision: %s", entry.Stage, entry.Decision))
	}
	return result, nil
}

func (l *Logger) appendOnce(dealPath string, entry Entry) (*Log, error) {
	release, err := l.locker.Lock(dealPath)
	if err != nil {
		return nil, err
	}
	defer release()

	auditLog, err := l.read(dealPath)
	if err != nil {
		return nil, err
	}
	if auditLog == nil {
		return nil, errors.New(errors.CodePrecondition, "audit log not initialized")
	}
	expectedRevision := auditLog.Revision

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	auditLog.Entries = append(auditLog.Entries, entry)
	auditLog.CurrentStage = entry.Stage
	auditLog.CurrentStatus = StatusFor(entry, enums.FinalAnalysisStage)
	auditLog.LastUpdated = time.Now().UTC()

	// Re-read before writing so an external writer that slipped past the
	// advisory lock still surfaces as a conflict.
	current, err := l.read(dealPath)
	if err != nil {
		return nil, err
	}
	if current == nil || current.Revision != expectedRevision {
		return nil, errors.New(errors.CodeConflict, "audit log revision mismatch")
	}

	auditLog.Revision = expectedRevision + 1
	if err := l.write(dealPath, auditLog); err != nil {
		return nil, err
	}
	return auditLog, nil
}

// Status returns the condensed journey state, nil when no log exists.
func (l *Logger) Status(ctx context.Context, dealPath string) (*StatusInfo, error) {
	auditLog, err := l.read(dealPath)
	if err != nil {
		return nil, err
	}
	if auditLog == nil {
		return nil, nil
	}
	info := &StatusInfo{
		Stage:  auditLog.CurrentStage,
		Status: auditLog.CurrentStatus,
	}
	if len(auditLog.Entries) > 0 {
		last := auditLog.Entries[len(auditLog.Entries)-1]
		info.LastEntry = &last
	}
	return info, nil
}

// Load returns the full audit log, nil when absent.
func (l *Logger) Load(ctx context.Context, dealPath string) (*Log, error) {
	return l.read(dealPath)
}

// Summarize renders the chronological audit trail as markdown.
func (l *Logger) Summarize(ctx context.Context, dealPath string) (string, error) {
	auditLog, err := l.read(dealPath)
	if err != nil {
		return "", err
	}
	if auditLog == nil {
		return "No audit log found", nil
	}

	var b strings.Builder
	b.WriteString("# Audit Trail Summary\n\n")
	fmt.Fprintf(&b, "**Deal**: %s (%s)\n", auditLog.PropertyName, auditLog.DealID)
	fmt.Fprintf(&b, "**Status**: %s\n", auditLog.CurrentStatus)
	fmt.Fprintf(&b, "**Current Stage**: %d\n", auditLog.CurrentStage)
	fmt.Fprintf(&b, "**Started**: %s\n\n", auditLog.CreatedAt.Format("2006-01-02"))

	b.WriteString("## Stage History\n\n")
	for _, entry := range auditLog.Entries {
		fmt.Fprintf(&b, "### %s (Stage %d)\n", entry.StageName, entry.Stage)
		fmt.Fprintf(&b, "- **Decision**: %s\n", entry.Decision)
		fmt.Fprintf(&b, "- **Date**: %s\n", entry.Timestamp.Format("2006-01-02"))
		fmt.Fprintf(&b, "- **Reasoning**: %s\n", entry.Reasoning)
		if len(entry.KeyFindings) > 0 {
			b.WriteString("- **Key Findings**:\n")
			for _, finding := range entry.KeyFindings {
				fmt.Fprintf(&b, "  - %s\n", finding)
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (l *Logger) read(dealPath string) (*Log, error) {
	data, err := os.ReadFile(logPath(dealPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.CodeIO, err, "reading audit log")
	}
	var auditLog Log
	if err := json.Unmarshal(data, &auditLog); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "decoding audit log")
	}
	return &auditLog, nil
}

func (l *Logger) write(dealPath string, auditLog *Log) error {
	dir := filepath.Join(dealPath, JourneyDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.CodeIO, err, "creating journey directory")
	}
	data, err := json.MarshalIndent(auditLog, "", "  ")
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding audit log")
	}
	if err := os.WriteFile(logPath(dealPath), data, 0o644); err != nil {
		return errors.Wrap(errors.CodeIO, err, "writing audit log")
	}
	return nil
}
