// Package chatsession implements the ordered, role-tagged message
// history owned by exactly one Agent.
package chatsession

import (
	"sync"

	"github.com/aldenhollow/agentforest/pkg/models"
)

// Session is an ordered sequence of ChatMessage, optionally seeded
// with a system prompt. It is safe for concurrent use, though the
// owning Agent's per-call locking is what actually prevents concurrent
// chat() calls from interleaving writes.
type Session struct {
	mu       sync.Mutex
	messages []models.ChatMessage
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// NewWithSystemPrompt creates a session seeded with a system message.
func NewWithSystemPrompt(systemPrompt string) *Session {
	s := New()
	if systemPrompt != "" {
		s.messages = append(s.messages, models.NewChatMessage(models.RoleSystem, systemPrompt))
	}
	return s
}

// Append adds a message to the end of the session.
func (s *Session) Append(msg models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the current message slice.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear empties the session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Len reports the number of messages currently stored.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// LastAssistantToolCall finds the tool call with the given id among
// assistant messages, used to validate the invariant that every
// tool-role message's ToolCallID matches an earlier advertised call.
func (s *Session) LastAssistantToolCall(id string) (models.ToolCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		m := s.messages[i]
		if m.Role != models.RoleAssistant {
			continue
		}
		for _, tc := range m.ToolCalls {
			if tc.ID == id {
				return tc, true
			}
		}
	}
	return models.ToolCall{}, false
}
