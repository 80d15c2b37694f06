package main

import (
	"context"
	"fmt"

	"github.com/aldenhollow/agentforest/internal/agent"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// echoCapability is the CLI's built-in agent.LLMCapability. The core
// deliberately has no wire protocol to a real model provider (spec.md
// §1 scopes the LLM transport out), so the CLI ships this stand-in for
// local smoke-testing of the agent/forest wiring: it never calls a
// tool and echoes the latest user turn back prefixed with the agent's
// id. Point a real deployment at an LLMCapability backed by whatever
// HTTP client your provider needs instead.
type echoCapability struct {
	agentID string
}

func (e echoCapability) Chat(_ context.Context, req agent.ChatRequest) (agent.ChatResponse, error) {
	last := lastUserContent(req.Messages)
	return agent.ChatResponse{Content: fmt.Sprintf("[%s] echo: %s", e.agentID, last)}, nil
}

func lastUserContent(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
