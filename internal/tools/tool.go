// Package tools defines the Tool contract, its JSON-schema parameter
// description, and the registry that dispatches tool calls by name.
package tools

import (
	"context"
	"encoding/json"

	"github.com/aldenhollow/agentforest/pkg/models"
)

// ParamType is the JSON-schema primitive type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// ToolParameter declaratively describes one named argument a Tool
// accepts.
type ToolParameter struct {
	Type        ParamType
	Description string
	Required    bool
}

// ToolSchema bundles a tool's name, description, and parameter map for
// LLM-facing schema export. Order preserves declaration order (used by
// ToolBuilder to map DSL positions onto function arguments); it is
// optional metadata and never changes Parameters' semantics.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]ToolParameter
	Order       []string
}

// Tool is the polymorphic unit of external effect an Agent can invoke.
// Implementations must be safe for concurrent Execute calls — Tool
// instances are long-lived and shared across every agent that
// registers them.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]ToolParameter
	Execute(ctx context.Context, args json.RawMessage) (*models.ToolResult, error)
}

// Schema renders a Tool's static description as a ToolSchema, reading
// Order from the tool's ParamOrder() []string method when it has one.
func Schema(t Tool) ToolSchema {
	s := ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
	if ot, ok := t.(interface{ ParamOrder() []string }); ok {
		s.Order = ot.ParamOrder()
	}
	return s
}
