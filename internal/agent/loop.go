package agent

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/aldenhollow/agentforest/internal/chatsession"
	"github.com/aldenhollow/agentforest/internal/errs"
	"github.com/aldenhollow/agentforest/internal/metrics"
	"github.com/aldenhollow/agentforest/internal/tools"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// maxIterationsMessage is returned when the loop exhausts its
// iteration budget without ever producing a tool-call-free assistant
// turn, and the last assistant turn's content was empty.
const maxIterationsMessage = "max iterations reached"

// RunOptions configures one AgentLoop invocation.
type RunOptions struct {
	MaxIterations int
	Temperature   float64
	MaxTokens     int
	Stop          []string
}

// DefaultRunOptions returns sane defaults matching the teacher's
// DefaultLoopConfig.
func DefaultRunOptions() RunOptions {
	return RunOptions{MaxIterations: 10, Temperature: 0.7, MaxTokens: 4096}
}

func sanitizeRunOptions(opts RunOptions) RunOptions {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultRunOptions().MaxIterations
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultRunOptions().MaxTokens
	}
	return opts
}

// Loop is the per-agent reason/act controller of spec.md §4.3: it
// composes messages and the tool schema, calls the LLM capability,
// dispatches any tool calls the response carries, and iterates until a
// plain-text final response or the iteration cap.
type Loop struct {
	capability LLMCapability
	streaming  StreamingLLMCapability
	recorder   *metrics.Recorder
	tracer     trace.Tracer
}

// NewLoop builds a Loop around capability. If capability also
// implements StreamingLLMCapability, Run will stream content tokens to
// a supplied sink; otherwise sinks are silently ignored (no partial
// delivery is possible without transport support).
func NewLoop(capability LLMCapability, recorder *metrics.Recorder, tracer trace.Tracer) *Loop {
	streaming, _ := capability.(StreamingLLMCapability)
	return &Loop{capability: capability, streaming: streaming, recorder: recorder, tracer: tracer}
}

func startSpan(ctx context.Context, tracer trace.Tracer, name string) (context.Context, func()) {
	if tracer == nil {
		return ctx, func() {}
	}
	ctx, span := tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

// Run executes the reason/act loop against sess and registry, the
// caller having already appended the user's message to sess. agentID
// is used only to label metrics/spans.
func (l *Loop) Run(ctx context.Context, agentID string, sess *chatsession.Session, registry *tools.Registry, opts RunOptions, sink StreamSink) (string, error) {
	opts = sanitizeRunOptions(opts)

	ctx, endSpan := startSpan(ctx, l.tracer, "agentforest.AgentLoop.Run")
	defer endSpan()

	var lastContent string
	for i := 0; i < opts.MaxIterations; i++ {
		l.recorder.LoopIteration(agentID)

		iterCtx, endIter := startSpan(ctx, l.tracer, "agentforest.AgentLoop.iteration")
		req := ChatRequest{
			Messages:    sess.Messages(),
			Tools:       registry.Export(),
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
			Stop:        opts.Stop,
		}

		resp, err := l.call(iterCtx, req, sink)
		endIter()
		if err != nil {
			l.recorder.LoopCompletion(agentID, "error")
			return "", errs.New(errs.Upstream, "llm capability failed", err)
		}

		sess.Append(models.ChatMessage{
			Role:      models.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		lastContent = resp.Content

		if sink != nil && sinkCancelled(sink) {
			l.recorder.LoopCompletion(agentID, "cancelled")
			return resp.Content, nil
		}

		if len(resp.ToolCalls) == 0 {
			l.recorder.LoopCompletion(agentID, "final")
			return resp.Content, nil
		}

		for _, call := range resp.ToolCalls {
			l.dispatch(ctx, sess, registry, call)
		}
	}

	l.recorder.LoopCompletion(agentID, "max_iterations")
	if lastContent != "" {
		return lastContent, nil
	}
	return maxIterationsMessage, nil
}

func (l *Loop) call(ctx context.Context, req ChatRequest, sink StreamSink) (ChatResponse, error) {
	if sink != nil && l.streaming != nil {
		return l.streaming.ChatStream(ctx, req, sink)
	}
	return l.capability.Chat(ctx, req)
}

// dispatch executes one tool call in order and appends its tool-role
// result to sess, regardless of success or failure — a failed dispatch
// never aborts the loop, it is fed back to the LLM as spec.md §7
// requires.
func (l *Loop) dispatch(ctx context.Context, sess *chatsession.Session, registry *tools.Registry, call models.ToolCall) {
	start := time.Now()
	result, err := registry.Execute(ctx, call.Name, call.Arguments)
	elapsed := time.Since(start).Seconds()

	var content string
	outcome := "success"
	switch {
	case err != nil:
		content = err.Error()
		outcome = "error"
	case result == nil:
		content = "tool not found: " + call.Name
		outcome = "error"
	case result.Success:
		content = result.Output
	default:
		content = result.Error
		outcome = "error"
	}
	l.recorder.ToolDispatch(call.Name, outcome, elapsed)

	sess.Append(models.ChatMessage{
		Role:       models.RoleTool,
		Content:    content,
		ToolCallID: call.ID,
	})
}
