package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records stage runs and deal movement.
type PipelineMetrics struct {
	stageRuns *prometheus.CounterVec
	decisions *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	moves     *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	stageRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stage_runs_total",
		Help: "Stage analyses executed, by stage and outcome.",
	}, []string{"stage", "outcome"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stage_decisions_total",
		Help: "Decisions recorded per stage.",
	}, []string{"stage", "decision"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stage_duration_seconds",
		Help:    "Duration of stage analyses in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	moves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_moves_total",
		Help: "Deal folders moved between pipeline stages.",
	}, []string{"from", "to"})
	reg.MustRegister(stageRuns, decisions, duration, moves)
	return &PipelineMetrics{
		stageRuns: stageRuns,
		decisions: decisions,
		duration:  duration,
		moves:     moves,
	}
}

// IncStageRun counts a completed stage run with its outcome label.
func (p *PipelineMetrics) IncStageRun(stage, outcome string) {
	if p == nil || p.stageRuns == nil {
		return
	}
	p.stageRuns.WithLabelValues(normalizeLabel(stage), normalizeLabel(outcome)).Inc()
}

// IncDecision counts a decision emitted by a stage policy.
func (p *PipelineMetrics) IncDecision(stage, decision string) {
	if p == nil || p.decisions == nil {
		return
	}
	p.decisions.WithLabelValues(normalizeLabel(stage), normalizeLabel(decision)).Inc()
}

// ObserveStageDuration records how long a stage analysis took.
func (p *PipelineMetrics) ObserveStageDuration(stage string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// IncMove counts a deal folder moved between pipeline stages.
func (p *PipelineMetrics) IncMove(from, to string) {
	if p == nil || p.moves == nil {
		return
	}
	p.moves.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
