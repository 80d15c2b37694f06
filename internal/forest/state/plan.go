package state

import (
	"sort"

	"github.com/aldenhollow/agentforest/internal/errs"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// TaskPlan is a DAG of Tasks produced by a coordinator agent, keyed by
// TaskID with a parallel creation-order list so iteration can be both
// O(1)-lookup and deterministic, grounded in the teacher's
// BuildDependencyGraph staged topological sort.
type TaskPlan struct {
	Objective     string
	Tasks         map[models.TaskID]*models.Task
	CreationOrder []models.TaskID
}

// NewTaskPlan validates specs and builds a plan, or returns an error
// matching create_plan's documented failure conditions: unknown
// assigned agent, unknown dependency id, duplicate task id, or a
// dependency cycle.
func NewTaskPlan(objective string, specs []TaskSpec, availableAgents map[models.AgentID]bool) (*TaskPlan, error) {
	plan := &TaskPlan{Objective: objective, Tasks: make(map[models.TaskID]*models.Task, len(specs))}

	for _, spec := range specs {
		if _, exists := plan.Tasks[spec.ID]; exists {
			return nil, errs.New(errs.InvalidInput, "duplicate task id: "+string(spec.ID), errs.ErrDuplicateTask)
		}
		if !availableAgents[spec.AssignedTo] {
			return nil, errs.New(errs.InvalidInput, "unknown agent id: "+string(spec.AssignedTo), errs.ErrUnknownAgent)
		}
		deps := make(map[models.TaskID]bool, len(spec.Dependencies))
		for _, d := range spec.Dependencies {
			deps[d] = true
		}
		plan.Tasks[spec.ID] = &models.Task{
			ID:           spec.ID,
			Description:  spec.Description,
			AssignedTo:   spec.AssignedTo,
			Dependencies: deps,
			Status:       models.TaskPending,
		}
		plan.CreationOrder = append(plan.CreationOrder, spec.ID)
	}

	for _, spec := range specs {
		for _, d := range spec.Dependencies {
			if _, ok := plan.Tasks[d]; !ok {
				return nil, errs.New(errs.InvalidInput, "unknown dependency id: "+string(d), errs.ErrUnknownTask)
			}
		}
	}

	if _, err := plan.tasksInOrder(); err != nil {
		return nil, err
	}

	return plan, nil
}

// TaskSpec is the create_plan tool's input shape for one task.
type TaskSpec struct {
	ID           models.TaskID   `json:"id"`
	Description  string          `json:"description"`
	AssignedTo   models.AgentID  `json:"assigned_to"`
	Dependencies []models.TaskID `json:"dependencies"`
}

// TasksInOrder yields tasks in a topological order consistent with
// their dependency graph, ties broken by creation order. It returns
// ErrDependencyCycle if the graph is not a DAG.
func (p *TaskPlan) TasksInOrder() ([]*models.Task, error) {
	return p.tasksInOrder()
}

func (p *TaskPlan) tasksInOrder() ([]*models.Task, error) {
	indegree := make(map[models.TaskID]int, len(p.Tasks))
	dependents := make(map[models.TaskID][]models.TaskID, len(p.Tasks))
	for id, t := range p.Tasks {
		indegree[id] = len(t.Dependencies)
		for dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	creationIndex := make(map[models.TaskID]int, len(p.CreationOrder))
	for i, id := range p.CreationOrder {
		creationIndex[id] = i
	}

	var ready []models.TaskID
	for _, id := range p.CreationOrder {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	var out []*models.Task
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return creationIndex[ready[i]] < creationIndex[ready[j]] })
		id := ready[0]
		ready = ready[1:]
		out = append(out, p.Tasks[id])

		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(out) != len(p.Tasks) {
		return nil, errs.New(errs.InvalidInput, "task plan contains a dependency cycle", errs.ErrDependencyCycle)
	}
	return out, nil
}

// GetProgress returns the number of Completed tasks and the total
// task count.
func (p *TaskPlan) GetProgress() (completed, total int) {
	for _, t := range p.Tasks {
		if t.Status == models.TaskCompleted {
			completed++
		}
	}
	return completed, len(p.Tasks)
}

// ReadyTasks returns the Pending tasks whose dependencies are all
// Completed, ordered by creation order.
func (p *TaskPlan) ReadyTasks() []*models.Task {
	var ready []*models.Task
	for _, id := range p.CreationOrder {
		t := p.Tasks[id]
		if t.Status != models.TaskPending {
			continue
		}
		if p.dependenciesCompleted(t) {
			ready = append(ready, t)
		}
	}
	return ready
}

func (p *TaskPlan) dependenciesCompleted(t *models.Task) bool {
	for dep := range t.Dependencies {
		if p.Tasks[dep].Status != models.TaskCompleted {
			return false
		}
	}
	return true
}

// BlockedTasks returns Pending tasks that can never become ready
// because at least one dependency has Failed.
func (p *TaskPlan) BlockedTasks() []*models.Task {
	var blocked []*models.Task
	for _, id := range p.CreationOrder {
		t := p.Tasks[id]
		if t.Status != models.TaskPending {
			continue
		}
		for dep := range t.Dependencies {
			if p.Tasks[dep].Status == models.TaskFailed {
				blocked = append(blocked, t)
				break
			}
		}
	}
	return blocked
}

// UpdateTaskMemory implements update_task_memory's semantics: sets
// result text and, if the task is InProgress, transitions it to
// Completed. Returns an error for an unknown or already-terminal task.
func (p *TaskPlan) UpdateTaskMemory(id models.TaskID, resultText string) error {
	t, ok := p.Tasks[id]
	if !ok {
		return errs.New(errs.NotFound, "unknown task id: "+string(id), errs.ErrUnknownTask)
	}
	if t.Status == models.TaskCompleted || t.Status == models.TaskFailed {
		return errs.New(errs.Conflict, "task is already terminal: "+string(id), errs.ErrTerminalTask)
	}
	t.Result = resultText
	if t.Status == models.TaskInProgress {
		t.Status = models.TaskCompleted
	}
	return nil
}
