// Package models provides the shared domain types that cross package
// boundaries in agentforest: chat messages, tool calls, and the
// multi-agent coordination primitives (tasks, plans, forest messages).
package models

import (
	"encoding/json"
	"time"
)

// Role indicates the author of a ChatMessage.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ChatMessage is one turn in a ChatSession.
//
// Invariant: for any tool-role message, ToolCallID must match the ID of
// a tool call advertised by an earlier assistant-role message in the
// same session.
type ChatMessage struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is an LLM-emitted request to invoke a named tool with JSON
// arguments.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the outcome of executing a ToolCall. A tool's Execute
// produces at most one ToolResult per call.
type ToolResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewChatMessage is a convenience constructor used throughout the core
// and its tests.
func NewChatMessage(role Role, content string) ChatMessage {
	return ChatMessage{Role: role, Content: content}
}

// AgentID identifies an Agent within a Forest.
type AgentID string

// TaskID identifies a Task within a TaskPlan.
type TaskID string

// AgentMessage is a routed message on the MessageBus. To == "" means
// broadcast to every agent other than From.
type AgentMessage struct {
	From      AgentID   `json:"from"`
	To        AgentID   `json:"to,omitempty"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// IsBroadcast reports whether the message has no single recipient.
func (m AgentMessage) IsBroadcast() bool {
	return m.To == ""
}

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Task is one node in a TaskPlan's dependency graph.
type Task struct {
	ID           TaskID          `json:"id"`
	Description  string          `json:"description"`
	AssignedTo   AgentID         `json:"assigned_to"`
	Dependencies map[TaskID]bool `json:"dependencies,omitempty"`
	Status       TaskStatus      `json:"status"`
	Result       string          `json:"result,omitempty"`
	FailReason   string          `json:"fail_reason,omitempty"`
}

// DependsOn reports whether the task declares dep as a dependency.
func (t *Task) DependsOn(dep TaskID) bool {
	return t.Dependencies[dep]
}
