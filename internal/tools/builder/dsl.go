// Package builder implements ToolBuilder: constructing a tools.Tool
// from a typed Go function by inferring JSON argument extraction from
// a parameter DSL string, the way the system this core was distilled
// from builds tools with its ftool/ftool3/ftool4 helpers.
package builder

import (
	"fmt"
	"strings"

	"github.com/aldenhollow/agentforest/internal/tools"
)

// paramSpec is one parsed "name:type:description" triple from the DSL.
type paramSpec struct {
	Name        string
	Kind        Kind
	Description string
}

// Kind is a DSL type token. Kind carries both the JSON-schema type it
// maps to (for ToolSchema export) and the compile-time Go type it must
// match (checked against the generic type parameter at build time).
type Kind string

const (
	KindInt32   Kind = "i32"
	KindInt64   Kind = "i64"
	KindUint32  Kind = "u32"
	KindUint64  Kind = "u64"
	KindFloat32 Kind = "f32"
	KindFloat64 Kind = "f64"
	KindBool    Kind = "bool"
	KindString  Kind = "string"
)

// JSONType maps a DSL Kind to its ToolParameter JSON-schema type.
func (k Kind) JSONType() tools.ParamType {
	switch k {
	case KindInt32, KindInt64, KindUint32, KindUint64:
		return tools.TypeInteger
	case KindFloat32, KindFloat64:
		return tools.TypeNumber
	case KindBool:
		return tools.TypeBoolean
	default:
		return tools.TypeString
	}
}

// GoTypeName returns the Go type name a Kind is expected to bind to,
// used to sanity-check the DSL against the generic type parameter the
// caller instantiated NewTool1..NewTool4 with.
func (k Kind) GoTypeName() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

func parseKind(token string) (Kind, error) {
	switch Kind(strings.TrimSpace(token)) {
	case KindInt32, KindInt64, KindUint32, KindUint64, KindFloat32, KindFloat64, KindBool, KindString:
		return Kind(strings.TrimSpace(token)), nil
	default:
		return "", fmt.Errorf("unsupported parameter type %q (want one of i32,i64,u32,u64,f32,f64,bool,string)", token)
	}
}

// parseDSL parses the trivial comma-separated "name:type:description"
// DSL. Whitespace around tokens is insignificant.
func parseDSL(dsl string) ([]paramSpec, error) {
	dsl = strings.TrimSpace(dsl)
	if dsl == "" {
		return nil, nil
	}
	parts := strings.Split(dsl, ",")
	specs := make([]paramSpec, 0, len(parts))
	for _, part := range parts {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed parameter triple %q, want name:type:description", part)
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, fmt.Errorf("parameter name must not be empty in %q", part)
		}
		kind, err := parseKind(fields[1])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		specs = append(specs, paramSpec{
			Name:        name,
			Kind:        kind,
			Description: strings.TrimSpace(fields[2]),
		})
	}
	return specs, nil
}

func schemaFromSpecs(name, description string, specs []paramSpec) tools.ToolSchema {
	params := make(map[string]tools.ToolParameter, len(specs))
	order := make([]string, 0, len(specs))
	for _, s := range specs {
		params[s.Name] = tools.ToolParameter{
			Type:        s.Kind.JSONType(),
			Description: s.Description,
			Required:    true,
		}
		order = append(order, s.Name)
	}
	return tools.ToolSchema{Name: name, Description: description, Parameters: params, Order: order}
}
