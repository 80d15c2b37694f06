package state

import (
	"testing"

	"github.com/aldenhollow/agentforest/pkg/models"
)

func TestSharedContext_SetGet(t *testing.T) {
	ctx := NewSharedContext()
	ctx.Set("current_task", "write a doc")
	v, ok := ctx.Get("current_task")
	if !ok || v != "write a doc" {
		t.Fatalf("got (%v, %v), want (\"write a doc\", true)", v, ok)
	}
	if _, ok := ctx.Get("missing"); ok {
		t.Fatal("expected missing key to report ok=false")
	}
}

func TestSharedContext_RecentMessagesRingEvictsOldest(t *testing.T) {
	ctx := NewSharedContextWithCap(2)
	ctx.RecordMessage(models.AgentMessage{Content: "one"})
	ctx.RecordMessage(models.AgentMessage{Content: "two"})
	ctx.RecordMessage(models.AgentMessage{Content: "three"})

	got := ctx.RecentMessages()
	if len(got) != 2 {
		t.Fatalf("expected ring capped at 2, got %d", len(got))
	}
	if got[0].Content != "two" || got[1].Content != "three" {
		t.Fatalf("expected the oldest entry evicted, got %+v", got)
	}
}

func TestSharedContext_PlanRoundTrip(t *testing.T) {
	ctx := NewSharedContext()
	if ctx.Plan() != nil {
		t.Fatal("expected no plan installed initially")
	}
	plan := &TaskPlan{Objective: "test"}
	ctx.SetPlan(plan)
	if ctx.Plan() != plan {
		t.Fatal("expected Plan() to return the installed plan")
	}
}

func TestSharedContext_MutatePlanIsNoOpWithoutAPlan(t *testing.T) {
	ctx := NewSharedContext()
	called := false
	ctx.MutatePlan(func(p *TaskPlan) { called = true })
	if called {
		t.Fatal("expected MutatePlan to skip fn when no plan is installed")
	}
}

func TestSharedContext_SnapshotIsACopy(t *testing.T) {
	ctx := NewSharedContext()
	ctx.Set("a", 1)
	snap := ctx.Snapshot()
	snap["a"] = 2
	if v, _ := ctx.Get("a"); v != 1 {
		t.Fatal("expected Snapshot to return an independent copy")
	}
}
