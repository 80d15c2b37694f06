package agent

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/aldenhollow/agentforest/internal/chatsession"
	"github.com/aldenhollow/agentforest/internal/metrics"
	"github.com/aldenhollow/agentforest/internal/tools"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// Agent binds an identity, a conversation session, a tool registry,
// and scratch memory to one Loop. Chat and ChatStream hold an
// exclusivity mutex for the agent's lifetime of the call, mirroring
// the teacher's per-session lock: two goroutines calling Chat on the
// same Agent concurrently serialize rather than interleave turns.
type Agent struct {
	id            models.AgentID
	systemPrompt  string
	session       *chatsession.Session
	registry      *tools.Registry
	memory        *Memory
	maxIterations int
	loop          *Loop

	mu sync.Mutex
}

// Config describes the knobs needed to construct an Agent.
type Config struct {
	ID            models.AgentID
	SystemPrompt  string
	Capability    LLMCapability
	Registry      *tools.Registry
	MaxIterations int
	Recorder      *metrics.Recorder
	Tracer        trace.Tracer
}

// New builds an Agent. A nil Registry is replaced with an empty one so
// the agent always has somewhere to register tools later.
func New(cfg Config) *Agent {
	registry := cfg.Registry
	if registry == nil {
		registry = tools.NewRegistry()
	}
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultRunOptions().MaxIterations
	}

	var sess *chatsession.Session
	if cfg.SystemPrompt != "" {
		sess = chatsession.NewWithSystemPrompt(cfg.SystemPrompt)
	} else {
		sess = chatsession.New()
	}

	return &Agent{
		id:            cfg.ID,
		systemPrompt:  cfg.SystemPrompt,
		session:       sess,
		registry:      registry,
		memory:        NewMemory(),
		maxIterations: maxIterations,
		loop:          NewLoop(cfg.Capability, cfg.Recorder, cfg.Tracer),
	}
}

// ID returns the agent's identity.
func (a *Agent) ID() models.AgentID { return a.id }

// Registry exposes the agent's tool registry so callers (and Forest)
// can register additional tools, including coordination tools.
func (a *Agent) Registry() *tools.Registry { return a.registry }

// Memory exposes the agent's scratch memory.
func (a *Agent) Memory() *Memory { return a.memory }

// Session exposes the agent's conversation history.
func (a *Agent) Session() *chatsession.Session { return a.session }

// Chat appends userMessage to the session and runs the reason/act loop
// to completion, returning the final assistant content.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	return a.chat(ctx, userMessage, nil)
}

// ChatStream behaves like Chat but streams the content fragments of
// every assistant turn of the loop to sink, when the underlying
// capability supports streaming.
func (a *Agent) ChatStream(ctx context.Context, userMessage string, sink StreamSink) (string, error) {
	return a.chat(ctx, userMessage, sink)
}

func (a *Agent) chat(ctx context.Context, userMessage string, sink StreamSink) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session.Append(models.NewChatMessage(models.RoleUser, userMessage))

	opts := RunOptions{MaxIterations: a.maxIterations, Temperature: 0.7, MaxTokens: 4096}
	return a.loop.Run(ctx, string(a.id), a.session, a.registry, opts, sink)
}
