package state

import (
	"sync"

	"github.com/aldenhollow/agentforest/pkg/models"
)

// DefaultRecentMessagesCap bounds SharedContext.recentMessages, the
// ring buffer of recently routed AgentMessage values.
const DefaultRecentMessagesCap = 100

// SharedContext is the Forest-wide key/value map, recent-message ring,
// and current TaskPlan. It is guarded by a single readers-writer lock;
// the scale of a Forest (tens of agents) does not justify finer
// locking, mirroring the teacher's InMemorySwarmContext.
type SharedContext struct {
	mu sync.RWMutex

	data           map[string]any
	recentMessages []models.AgentMessage
	recentCap      int
	plan           *TaskPlan
}

// NewSharedContext returns an empty context with the default
// recent-message ring capacity.
func NewSharedContext() *SharedContext {
	return NewSharedContextWithCap(DefaultRecentMessagesCap)
}

// NewSharedContextWithCap returns an empty context with a custom
// recent-message ring capacity.
func NewSharedContextWithCap(cap int) *SharedContext {
	if cap <= 0 {
		cap = DefaultRecentMessagesCap
	}
	return &SharedContext{data: make(map[string]any), recentCap: cap}
}

// Set stores value under key.
func (c *SharedContext) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Get returns the value stored under key, if any.
func (c *SharedContext) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Snapshot returns a copy of the full key/value map.
func (c *SharedContext) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

// RecordMessage appends msg to the recent-message ring, evicting the
// oldest entry once the ring is at capacity.
func (c *SharedContext) RecordMessage(msg models.AgentMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recentMessages = append(c.recentMessages, msg)
	if over := len(c.recentMessages) - c.recentCap; over > 0 {
		c.recentMessages = c.recentMessages[over:]
	}
}

// RecentMessages returns a copy of the current ring contents, oldest
// first.
func (c *SharedContext) RecentMessages() []models.AgentMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.AgentMessage, len(c.recentMessages))
	copy(out, c.recentMessages)
	return out
}

// SetPlan installs plan as the current TaskPlan, replacing any
// previous plan.
func (c *SharedContext) SetPlan(plan *TaskPlan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plan = plan
}

// Plan returns the current TaskPlan, or nil if none has been
// installed.
func (c *SharedContext) Plan() *TaskPlan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.plan
}

// MutatePlan runs fn under the context's write lock, serialising every
// TaskPlan mutation as spec requires even when tasks execute
// concurrently.
func (c *SharedContext) MutatePlan(fn func(plan *TaskPlan)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.plan != nil {
		fn(c.plan)
	}
}
