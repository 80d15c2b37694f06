package state

import (
	"sync"
	"time"

	"github.com/aldenhollow/agentforest/pkg/models"
)

// MessageBus is the Forest's unbounded, mutex-guarded queue of routed
// AgentMessage values. Messages are delivered FIFO per (sender,
// recipient) pair: Drain never reorders messages originating from the
// same sender.
type MessageBus struct {
	mu    sync.Mutex
	queue []models.AgentMessage
}

// NewMessageBus returns an empty bus.
func NewMessageBus() *MessageBus {
	return &MessageBus{}
}

// Clock lets tests and callers supply deterministic timestamps; the
// zero value uses time.Now.
type Clock func() time.Time

// CallClock invokes clock if non-nil, otherwise time.Now.
func CallClock(clock Clock) time.Time {
	if clock == nil {
		return time.Now()
	}
	return clock()
}

// Send enqueues a message. to == "" marks a broadcast.
func (b *MessageBus) Send(from, to models.AgentID, content string, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, models.AgentMessage{From: from, To: to, Content: content, Timestamp: now})
}

// Drain removes and returns every queued message, in FIFO order.
func (b *MessageBus) Drain() []models.AgentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

// Len reports the number of messages currently queued.
func (b *MessageBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}
