// Package forest implements the multi-agent coordination layer of
// spec.md §4.4: the Forest type, which owns a MessageBus for
// direct/broadcast routing and a SharedContext for forest-wide state
// and the current TaskPlan (both defined in package state), and drives
// collaborative task execution across a set of named agents.
package forest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/aldenhollow/agentforest/internal/agent"
	"github.com/aldenhollow/agentforest/internal/errs"
	"github.com/aldenhollow/agentforest/internal/forest/planning"
	"github.com/aldenhollow/agentforest/internal/forest/state"
	"github.com/aldenhollow/agentforest/internal/metrics"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// Forest owns a set of named agents, a MessageBus, and a
// SharedContext. It never owns an individual Agent's ChatSession,
// memory, or ToolRegistry — those remain exclusively the Agent's.
type Forest struct {
	mu            sync.RWMutex
	agents        map[models.AgentID]*agent.Agent
	bus           *state.MessageBus
	context       *state.SharedContext
	maxIterations int
	recorder      *metrics.Recorder
	tracer        trace.Tracer
	clock         state.Clock
}

// Options configures a new Forest.
type Options struct {
	MaxIterations int
	Recorder      *metrics.Recorder
	Tracer        trace.Tracer
	Clock         state.Clock
}

// New returns an empty Forest.
func New(opts Options) *Forest {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = agent.DefaultRunOptions().MaxIterations
	}
	return &Forest{
		agents:        make(map[models.AgentID]*agent.Agent),
		bus:           state.NewMessageBus(),
		context:       state.NewSharedContext(),
		maxIterations: maxIterations,
		recorder:      opts.Recorder,
		tracer:        opts.Tracer,
		clock:         opts.Clock,
	}
}

// AddAgent registers a, keyed by its own id. Registering a duplicate
// id replaces the previous agent under that id.
func (f *Forest) AddAgent(a *agent.Agent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agents[a.ID()] = a
}

// Agent looks up a registered agent by id.
func (f *Forest) Agent(id models.AgentID) (*agent.Agent, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	a, ok := f.agents[id]
	return a, ok
}

// Context exposes the Forest's SharedContext.
func (f *Forest) Context() *state.SharedContext { return f.context }

// Bus exposes the Forest's MessageBus.
func (f *Forest) Bus() *state.MessageBus { return f.bus }

func (f *Forest) availableAgentIDs() map[models.AgentID]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[models.AgentID]bool, len(f.agents))
	for id := range f.agents {
		out[id] = true
	}
	return out
}

// SendMessage enqueues a message on the bus and records it in the
// shared recent-message ring. to == "" broadcasts to every other
// agent.
func (f *Forest) SendMessage(from, to models.AgentID, content string) {
	now := state.CallClock(f.clock)
	f.bus.Send(from, to, content, now)
	f.context.RecordMessage(models.AgentMessage{From: from, To: to, Content: content, Timestamp: now})
}

// ProcessMessages drains the bus and appends each message's content to
// the recipient session(s) as a user-role message annotated "[Message
// from <sender>]". Broadcasts are delivered to every agent except the
// sender; deliveries interleave across recipients only at message
// granularity.
func (f *Forest) ProcessMessages(_ context.Context) error {
	for _, msg := range f.bus.Drain() {
		annotated := fmt.Sprintf("[Message from %s] %s", msg.From, msg.Content)
		if msg.IsBroadcast() {
			f.mu.RLock()
			recipients := make([]*agent.Agent, 0, len(f.agents))
			for id, a := range f.agents {
				if id != msg.From {
					recipients = append(recipients, a)
				}
			}
			f.mu.RUnlock()
			for _, a := range recipients {
				a.Session().Append(models.NewChatMessage(models.RoleUser, annotated))
			}
			continue
		}
		recipient, ok := f.Agent(msg.To)
		if !ok {
			return errs.New(errs.NotFound, "unknown agent id: "+string(msg.To), errs.ErrUnknownAgent)
		}
		recipient.Session().Append(models.NewChatMessage(models.RoleUser, annotated))
	}
	return nil
}

// ExecuteCollaborativeTask drives spec.md §4.4's five-step
// coordinator-driven plan: the coordinator is given a transient
// planning toolset and asked to either answer directly or produce a
// TaskPlan, which the Forest then executes task-by-task in dependency
// order before re-invoking the coordinator to synthesise a final
// answer.
func (f *Forest) ExecuteCollaborativeTask(ctx context.Context, coordinatorID models.AgentID, objective string, availableAgents []models.AgentID) (string, error) {
	ctx, endSpan := startSpan(ctx, f.tracer, "agentforest.Forest.ExecuteCollaborativeTask")
	defer endSpan()

	coordinator, ok := f.Agent(coordinatorID)
	if !ok {
		return "", errs.New(errs.NotFound, "unknown coordinator agent id: "+string(coordinatorID), errs.ErrUnknownAgent)
	}

	available := f.availableAgentIDs()
	if len(availableAgents) > 0 {
		available = make(map[models.AgentID]bool, len(availableAgents))
		for _, id := range availableAgents {
			available[id] = true
		}
	}

	createPlan := planning.NewCreatePlanTool(f.context, available)
	updateMemory := planning.NewUpdateTaskMemoryTool(f.context)
	if err := coordinator.Registry().Register(createPlan); err != nil {
		return "", err
	}
	if err := coordinator.Registry().Register(updateMemory); err != nil {
		return "", err
	}
	defer coordinator.Registry().Unregister(createPlan.Name())
	defer coordinator.Registry().Unregister(updateMemory.Name())

	prompt := buildPlanningPrompt(objective, available)
	directAnswer, err := coordinator.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}

	plan := f.context.Plan()
	if plan == nil {
		return directAnswer, nil
	}

	if err := f.executePlan(ctx, plan); err != nil {
		return "", err
	}

	return f.synthesize(ctx, coordinator, objective, plan)
}

func buildPlanningPrompt(objective string, available map[models.AgentID]bool) string {
	ids := make([]string, 0, len(available))
	for id := range available {
		ids = append(ids, string(id))
	}
	return fmt.Sprintf(
		"Objective: %s\nAvailable agents: %s\nIf this task needs collaboration, call create_plan; otherwise answer directly.",
		objective, strings.Join(ids, ", "),
	)
}

// executePlan repeats dependency-ready task selection until every task
// is Completed or Failed, or no further progress is possible, then
// marks any still-Pending tasks Failed as blocked.
func (f *Forest) executePlan(ctx context.Context, plan *state.TaskPlan) error {
	for {
		var ready []*models.Task
		f.context.MutatePlan(func(p *state.TaskPlan) { ready = p.ReadyTasks() })
		if len(ready) == 0 {
			break
		}

		for _, task := range ready {
			f.context.Set("current_task", string(task.ID))
			f.context.MutatePlan(func(p *state.TaskPlan) { p.Tasks[task.ID].Status = models.TaskInProgress })
			f.context.Set("task_status:"+string(task.ID), "in_progress")

			worker, ok := f.Agent(task.AssignedTo)
			if !ok {
				f.failTask(plan, task.ID, "assigned agent not found")
				continue
			}

			prompt := buildTaskPrompt(plan, task)
			result, err := worker.Chat(ctx, prompt)
			if err != nil {
				f.failTask(plan, task.ID, err.Error())
				f.recorder.ForestTaskResult("failed")
				continue
			}

			f.context.MutatePlan(func(p *state.TaskPlan) {
				p.Tasks[task.ID].Result = result
				p.Tasks[task.ID].Status = models.TaskCompleted
			})
			f.context.Set("task_status:"+string(task.ID), "completed")
			f.recorder.ForestTaskResult("completed")
		}
	}

	// BlockedTasks only detects a direct Failed dependency, so a chain
	// of pending tasks (t1 -> t2 -> t3) needs repeated passes: marking
	// t2 Failed on the first pass makes t3 detectable as blocked on the
	// second. Keep mutating until a pass finds nothing new, then set
	// the shared-context keys after MutatePlan returns — Set takes the
	// same lock MutatePlan already holds and would deadlock otherwise.
	var blockedIDs []models.TaskID
	f.context.MutatePlan(func(p *state.TaskPlan) {
		for {
			blocked := p.BlockedTasks()
			if len(blocked) == 0 {
				break
			}
			for _, task := range blocked {
				task.Status = models.TaskFailed
				task.FailReason = "blocked"
				blockedIDs = append(blockedIDs, task.ID)
			}
		}
	})
	for _, id := range blockedIDs {
		f.context.Set("task_status:"+string(id), "failed")
		f.recorder.ForestTaskResult("blocked")
	}
	return nil
}

func (f *Forest) failTask(plan *state.TaskPlan, id models.TaskID, reason string) {
	f.context.MutatePlan(func(p *state.TaskPlan) {
		p.Tasks[id].Status = models.TaskFailed
		p.Tasks[id].FailReason = reason
	})
	f.context.Set("task_status:"+string(id), "failed")
}

func buildTaskPrompt(plan *state.TaskPlan, task *models.Task) string {
	var deps strings.Builder
	for depID := range task.Dependencies {
		dep := plan.Tasks[depID]
		if dep == nil {
			continue
		}
		fmt.Fprintf(&deps, "\n- %s: %s", dep.ID, dep.Result)
	}
	return fmt.Sprintf(
		"Objective: %s\nYour task: %s\nResults from dependencies:%s",
		plan.Objective, task.Description, deps.String(),
	)
}

func (f *Forest) synthesize(ctx context.Context, coordinator *agent.Agent, objective string, plan *state.TaskPlan) (string, error) {
	ordered, err := plan.TasksInOrder()
	if err != nil {
		return "", err
	}

	var completed strings.Builder
	for _, task := range ordered {
		if task.Status != models.TaskCompleted {
			continue
		}
		fmt.Fprintf(&completed, "\n- %s: %s", task.ID, task.Result)
	}

	prompt := fmt.Sprintf("Objective: %s\nCompleted task results:%s\nSynthesise a final answer.", objective, completed.String())
	return coordinator.Chat(ctx, prompt)
}

func startSpan(ctx context.Context, tracer trace.Tracer, name string) (context.Context, func()) {
	if tracer == nil {
		return ctx, func() {}
	}
	ctx, span := tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}
