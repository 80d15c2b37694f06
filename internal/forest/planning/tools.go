// Package planning implements the built-in tools a Forest coordinator
// uses to structure collaborative work: create_plan installs a
// TaskPlan into SharedContext, update_task_memory records a task's
// result, and send_message lets any agent queue a message on the
// MessageBus from inside its own reasoning loop; delivery to the
// recipient sessions still happens on the Forest's next
// ProcessMessages call.
package planning

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aldenhollow/agentforest/internal/errs"
	"github.com/aldenhollow/agentforest/internal/forest/state"
	"github.com/aldenhollow/agentforest/internal/tools"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// CreatePlanTool installs a TaskPlan into a SharedContext when the
// coordinator's LLM calls it. It holds shared, non-owning references
// to the context it mutates and the set of agents a plan may assign
// work to.
type CreatePlanTool struct {
	context         *state.SharedContext
	availableAgents map[models.AgentID]bool
}

// NewCreatePlanTool binds the tool to one Forest's shared context and
// the agent ids it is permitted to assign tasks to.
func NewCreatePlanTool(ctx *state.SharedContext, availableAgents map[models.AgentID]bool) *CreatePlanTool {
	return &CreatePlanTool{context: ctx, availableAgents: availableAgents}
}

func (t *CreatePlanTool) Name() string { return "create_plan" }

func (t *CreatePlanTool) Description() string {
	return "Creates a structured task plan with dependencies, assigning each task to an available agent."
}

func (t *CreatePlanTool) Parameters() map[string]tools.ToolParameter {
	return map[string]tools.ToolParameter{
		"objective": {Type: tools.TypeString, Description: "the overall goal the plan accomplishes", Required: true},
		"tasks":     {Type: tools.TypeArray, Description: "array of {id, description, assigned_to, dependencies}", Required: true},
	}
}

func (t *CreatePlanTool) ParamOrder() []string { return []string{"objective", "tasks"} }

type createPlanArgs struct {
	Objective string             `json:"objective"`
	Tasks     []state.TaskSpec  `json:"tasks"`
}

func (t *CreatePlanTool) Execute(_ context.Context, raw json.RawMessage) (*models.ToolResult, error) {
	var args createPlanArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return &models.ToolResult{Success: false, Error: "invalid arguments: " + err.Error()}, nil
	}

	plan, err := state.NewTaskPlan(args.Objective, args.Tasks, t.availableAgents)
	if err != nil {
		return &models.ToolResult{Success: false, Error: err.Error()}, nil
	}

	t.context.SetPlan(plan)
	t.context.Set("current_task", args.Objective)
	t.context.Set("involved_agents", involvedAgents(plan))

	return &models.ToolResult{Success: true, Output: fmt.Sprintf("plan created with %d tasks", len(plan.Tasks))}, nil
}

func involvedAgents(plan *state.TaskPlan) []models.AgentID {
	seen := make(map[models.AgentID]bool)
	var out []models.AgentID
	for _, id := range plan.CreationOrder {
		agent := plan.Tasks[id].AssignedTo
		if !seen[agent] {
			seen[agent] = true
			out = append(out, agent)
		}
	}
	return out
}

// UpdateTaskMemoryTool lets any agent record its result against a task
// in the Forest's current plan.
type UpdateTaskMemoryTool struct {
	context *state.SharedContext
}

// NewUpdateTaskMemoryTool binds the tool to one Forest's shared
// context.
func NewUpdateTaskMemoryTool(ctx *state.SharedContext) *UpdateTaskMemoryTool {
	return &UpdateTaskMemoryTool{context: ctx}
}

func (t *UpdateTaskMemoryTool) Name() string { return "update_task_memory" }

func (t *UpdateTaskMemoryTool) Description() string {
	return "Records the result text for a task, completing it if currently in progress."
}

func (t *UpdateTaskMemoryTool) Parameters() map[string]tools.ToolParameter {
	return map[string]tools.ToolParameter{
		"task_id":     {Type: tools.TypeString, Description: "the id of the task to update", Required: true},
		"result_text": {Type: tools.TypeString, Description: "the task's result", Required: true},
	}
}

func (t *UpdateTaskMemoryTool) ParamOrder() []string { return []string{"task_id", "result_text"} }

type updateTaskMemoryArgs struct {
	TaskID     models.TaskID `json:"task_id"`
	ResultText string        `json:"result_text"`
}

func (t *UpdateTaskMemoryTool) Execute(_ context.Context, raw json.RawMessage) (*models.ToolResult, error) {
	var args updateTaskMemoryArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return &models.ToolResult{Success: false, Error: "invalid arguments: " + err.Error()}, nil
	}

	plan := t.context.Plan()
	if plan == nil {
		return &models.ToolResult{Success: false, Error: errs.New(errs.NotFound, "no task plan is installed", nil).Error()}, nil
	}

	var updateErr error
	t.context.MutatePlan(func(p *state.TaskPlan) {
		updateErr = p.UpdateTaskMemory(args.TaskID, args.ResultText)
	})
	if updateErr != nil {
		return &models.ToolResult{Success: false, Error: updateErr.Error()}, nil
	}
	t.context.Set("task_status:"+string(args.TaskID), "completed")
	return &models.ToolResult{Success: true, Output: "task memory updated"}, nil
}

// SendMessageTool lets an agent route a message through the Forest's
// MessageBus from within its own reasoning loop, rather than only
// through the Forest's own direct API. Grounded in the source's
// send_message demonstration, where agents proactively coordinate by
// calling a tool instead of waiting for the coordinator to relay
// everything.
type SendMessageTool struct {
	self models.AgentID
	bus  *state.MessageBus
	ctx  *state.SharedContext
	now  state.Clock
}

// NewSendMessageTool binds the tool to one agent's identity and the
// Forest's bus and shared context. now defaults to time.Now.
func NewSendMessageTool(self models.AgentID, bus *state.MessageBus, ctx *state.SharedContext, now state.Clock) *SendMessageTool {
	return &SendMessageTool{self: self, bus: bus, ctx: ctx, now: now}
}

func (t *SendMessageTool) Name() string { return "send_message" }

func (t *SendMessageTool) Description() string {
	return "Sends a message to another agent, or to every other agent when 'to' is omitted."
}

func (t *SendMessageTool) Parameters() map[string]tools.ToolParameter {
	return map[string]tools.ToolParameter{
		"to":      {Type: tools.TypeString, Description: "recipient agent id, or omitted to broadcast", Required: false},
		"content": {Type: tools.TypeString, Description: "the message body", Required: true},
	}
}

func (t *SendMessageTool) ParamOrder() []string { return []string{"to", "content"} }

type sendMessageArgs struct {
	To      models.AgentID `json:"to"`
	Content string         `json:"content"`
}

func (t *SendMessageTool) Execute(_ context.Context, raw json.RawMessage) (*models.ToolResult, error) {
	var args sendMessageArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return &models.ToolResult{Success: false, Error: "invalid arguments: " + err.Error()}, nil
		}
	}
	if args.Content == "" {
		return &models.ToolResult{Success: false, Error: "content must not be empty"}, nil
	}

	now := state.CallClock(t.now)
	t.bus.Send(t.self, args.To, args.Content, now)
	t.ctx.RecordMessage(models.AgentMessage{From: t.self, To: args.To, Content: args.Content, Timestamp: now})

	if args.To == "" {
		return &models.ToolResult{Success: true, Output: "broadcast queued"}, nil
	}
	return &models.ToolResult{Success: true, Output: "message queued for " + string(args.To)}, nil
}
