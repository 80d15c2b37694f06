package agent

import (
	"context"

	"github.com/aldenhollow/agentforest/internal/tools"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// ChatRequest is everything an LLMCapability needs to produce one
// completion: the full message history, the tool schemas currently
// registered on the calling agent, and generation parameters.
type ChatRequest struct {
	Messages    []models.ChatMessage
	Tools       []tools.ToolSchema
	Temperature float64
	MaxTokens   int
	Stop        []string
}

// ChatResponse is one LLM completion: either plain text, or text plus
// one or more tool calls the AgentLoop should dispatch.
type ChatResponse struct {
	Content   string
	ToolCalls []models.ToolCall
}

// LLMCapability is the blocking chat-completion capability the core
// consumes. The wire protocol to an actual model provider is
// deliberately out of scope; callers supply an implementation backed
// by whatever transport they like.
type LLMCapability interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// StreamSink receives content token fragments as an assistant turn is
// generated. OnFragment returning false signals the streaming
// capability that the caller wants to stop. The AgentLoop itself only
// sees a cancellation when the sink also implements Cancellable and
// reports Cancelled() == true; it then stops after the current LLM
// call, before dispatching that turn's tool calls.
type StreamSink interface {
	OnFragment(fragment string) bool
}

// Cancellable is an optional extension a StreamSink may implement to
// report, after a call completes, whether cancellation was requested
// mid-stream.
type Cancellable interface {
	Cancelled() bool
}

// StreamingLLMCapability additionally supports delivering content
// tokens live to a StreamSink. Tool-call deltas are never streamed —
// only the content portion of an assistant turn is.
type StreamingLLMCapability interface {
	LLMCapability
	ChatStream(ctx context.Context, req ChatRequest, sink StreamSink) (ChatResponse, error)
}

func sinkCancelled(sink StreamSink) bool {
	c, ok := sink.(Cancellable)
	return ok && c.Cancelled()
}
