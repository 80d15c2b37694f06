package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecorder_RecordsLoopIterationsAndCompletions(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.LoopIteration("agent-1")
	r.LoopIteration("agent-1")
	r.LoopCompletion("agent-1", "final")

	if got := counterValue(t, r.LoopIterations.WithLabelValues("agent-1")); got != 2 {
		t.Fatalf("got %v loop iterations, want 2", got)
	}
	if got := counterValue(t, r.LoopCompletions.WithLabelValues("agent-1", "final")); got != 1 {
		t.Fatalf("got %v loop completions, want 1", got)
	}
}

func TestRecorder_RecordsToolDispatchAndDuration(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.ToolDispatch("search", "success", 0.02)

	if got := counterValue(t, r.ToolDispatches.WithLabelValues("search", "success")); got != 1 {
		t.Fatalf("got %v tool dispatches, want 1", got)
	}
}

func TestRecorder_RecordsForestTaskResult(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.ForestTaskResult("completed")
	r.ForestTaskResult("failed")

	if got := counterValue(t, r.ForestTaskResults.WithLabelValues("completed")); got != 1 {
		t.Fatalf("got %v completed results, want 1", got)
	}
}

func TestNilRecorder_EveryMethodIsANoOp(t *testing.T) {
	var r *Recorder
	r.LoopIteration("agent-1")
	r.LoopCompletion("agent-1", "final")
	r.ToolDispatch("search", "success", 0.1)
	r.ForestTaskResult("completed")
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	return m.GetCounter().GetValue()
}
