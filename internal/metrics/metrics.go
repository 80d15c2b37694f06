// Package metrics provides optional Prometheus instrumentation for
// AgentLoop iterations, tool dispatches, and Forest task execution.
// A nil *Recorder is always safe to use — every method on it is a
// nil-receiver no-op, so the hot path costs one nil check when metrics
// are not wired up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects counters for the core's suspension points.
type Recorder struct {
	LoopIterations    *prometheus.CounterVec
	LoopCompletions   *prometheus.CounterVec
	ToolDispatches    *prometheus.CounterVec
	ToolDuration      *prometheus.HistogramVec
	ForestTaskResults *prometheus.CounterVec
}

// NewRecorder registers the core's metrics against reg. Pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() in tests to avoid collisions between runs.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		LoopIterations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentforest_loop_iterations_total",
				Help: "Total number of AgentLoop LLM-call iterations, by agent id.",
			},
			[]string{"agent_id"},
		),
		LoopCompletions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentforest_loop_completions_total",
				Help: "Total number of AgentLoop.chat completions, by agent id and outcome.",
			},
			[]string{"agent_id", "outcome"},
		),
		ToolDispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentforest_tool_dispatches_total",
				Help: "Total number of tool dispatches, by tool name and outcome.",
			},
			[]string{"tool", "outcome"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentforest_tool_duration_seconds",
				Help:    "Tool execution latency in seconds.",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"tool"},
		),
		ForestTaskResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentforest_forest_task_results_total",
				Help: "Total number of TaskPlan task completions, by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

func (r *Recorder) loopIteration(agentID string) {
	if r == nil {
		return
	}
	r.LoopIterations.WithLabelValues(agentID).Inc()
}

func (r *Recorder) loopCompletion(agentID, outcome string) {
	if r == nil {
		return
	}
	r.LoopCompletions.WithLabelValues(agentID, outcome).Inc()
}

func (r *Recorder) toolDispatch(tool, outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.ToolDispatches.WithLabelValues(tool, outcome).Inc()
	r.ToolDuration.WithLabelValues(tool).Observe(seconds)
}

func (r *Recorder) forestTaskResult(outcome string) {
	if r == nil {
		return
	}
	r.ForestTaskResults.WithLabelValues(outcome).Inc()
}

// LoopIteration records one AgentLoop LLM-call iteration for agentID.
func (r *Recorder) LoopIteration(agentID string) { r.loopIteration(agentID) }

// LoopCompletion records the terminal outcome of one AgentLoop.chat
// call ("final", "max_iterations", "cancelled", or "error").
func (r *Recorder) LoopCompletion(agentID, outcome string) { r.loopCompletion(agentID, outcome) }

// ToolDispatch records one tool execution's outcome ("success" or
// "error") and wall-clock duration in seconds.
func (r *Recorder) ToolDispatch(tool, outcome string, seconds float64) {
	r.toolDispatch(tool, outcome, seconds)
}

// ForestTaskResult records one TaskPlan task's terminal outcome
// ("completed", "failed", or "blocked").
func (r *Recorder) ForestTaskResult(outcome string) { r.forestTaskResult(outcome) }
