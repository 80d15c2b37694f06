package builder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aldenhollow/agentforest/internal/tools"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// invokeFunc extracts arguments from a decoded JSON object, calls the
// wrapped function, and formats its result as text.
type invokeFunc func(args map[string]any) (string, error)

// builtTool is the Tool produced by every NewToolN constructor.
type builtTool struct {
	schema tools.ToolSchema
	invoke invokeFunc
}

func newBuiltTool(schema tools.ToolSchema, invoke invokeFunc) tools.Tool {
	return &builtTool{schema: schema, invoke: invoke}
}

func (t *builtTool) Name() string        { return t.schema.Name }
func (t *builtTool) Description() string { return t.schema.Description }
func (t *builtTool) Parameters() map[string]tools.ToolParameter {
	return t.schema.Parameters
}
func (t *builtTool) ParamOrder() []string { return t.schema.Order }

func (t *builtTool) Execute(_ context.Context, raw json.RawMessage) (*models.ToolResult, error) {
	args := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return &models.ToolResult{Success: false, Error: "invalid arguments: not a JSON object"}, nil
		}
	}
	output, err := t.invoke(args)
	if err != nil {
		return &models.ToolResult{Success: false, Error: err.Error()}, nil
	}
	return &models.ToolResult{Success: true, Output: output}, nil
}

func checkArity(fnName string, specs []paramSpec, want int) error {
	if len(specs) != want {
		return fmt.Errorf("%s: parameter DSL declares %d parameters, want %d", fnName, len(specs), want)
	}
	return nil
}

func checkKind[T Extractable](fnName string, spec paramSpec) error {
	if want := goTypeName[T](); spec.Kind.GoTypeName() != want {
		return fmt.Errorf("%s: parameter %q declared as %s in the DSL but bound to Go type %s", fnName, spec.Name, spec.Kind, want)
	}
	return nil
}

// NewTool0 builds a Tool from a zero-argument function. No parameter
// DSL is needed.
func NewTool0[R any](name, description string, fn func() R) (tools.Tool, error) {
	schema := tools.ToolSchema{Name: name, Description: description, Parameters: map[string]tools.ToolParameter{}}
	invoke := func(map[string]any) (string, error) {
		return fmt.Sprint(fn()), nil
	}
	return newBuiltTool(schema, invoke), nil
}

// NewTool1 builds a Tool from a 1-ary function, inferring extraction
// for its single parameter from dsl.
func NewTool1[P1 Extractable, R any](name, description, dsl string, fn func(P1) R) (tools.Tool, error) {
	specs, err := parseDSL(dsl)
	if err != nil {
		return nil, err
	}
	if err := checkArity("NewTool1", specs, 1); err != nil {
		return nil, err
	}
	if err := checkKind[P1]("NewTool1", specs[0]); err != nil {
		return nil, err
	}
	n0 := specs[0].Name
	invoke := func(args map[string]any) (string, error) {
		v0, ok := args[n0]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n0)
		}
		p1, err := extractValue[P1](n0, v0)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(fn(p1)), nil
	}
	return newBuiltTool(schemaFromSpecs(name, description, specs), invoke), nil
}

// NewTool2 builds a Tool from a 2-ary function (the common case — most
// calculator-style tools take two operands).
func NewTool2[P1, P2 Extractable, R any](name, description, dsl string, fn func(P1, P2) R) (tools.Tool, error) {
	specs, err := parseDSL(dsl)
	if err != nil {
		return nil, err
	}
	if err := checkArity("NewTool2", specs, 2); err != nil {
		return nil, err
	}
	if err := checkKind[P1]("NewTool2", specs[0]); err != nil {
		return nil, err
	}
	if err := checkKind[P2]("NewTool2", specs[1]); err != nil {
		return nil, err
	}
	n0, n1 := specs[0].Name, specs[1].Name
	invoke := func(args map[string]any) (string, error) {
		v0, ok := args[n0]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n0)
		}
		v1, ok := args[n1]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n1)
		}
		p1, err := extractValue[P1](n0, v0)
		if err != nil {
			return "", err
		}
		p2, err := extractValue[P2](n1, v1)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(fn(p1, p2)), nil
	}
	return newBuiltTool(schemaFromSpecs(name, description, specs), invoke), nil
}

// NewTool3 builds a Tool from a 3-ary function.
func NewTool3[P1, P2, P3 Extractable, R any](name, description, dsl string, fn func(P1, P2, P3) R) (tools.Tool, error) {
	specs, err := parseDSL(dsl)
	if err != nil {
		return nil, err
	}
	if err := checkArity("NewTool3", specs, 3); err != nil {
		return nil, err
	}
	if err := checkKind[P1]("NewTool3", specs[0]); err != nil {
		return nil, err
	}
	if err := checkKind[P2]("NewTool3", specs[1]); err != nil {
		return nil, err
	}
	if err := checkKind[P3]("NewTool3", specs[2]); err != nil {
		return nil, err
	}
	n0, n1, n2 := specs[0].Name, specs[1].Name, specs[2].Name
	invoke := func(args map[string]any) (string, error) {
		v0, ok := args[n0]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n0)
		}
		v1, ok := args[n1]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n1)
		}
		v2, ok := args[n2]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n2)
		}
		p1, err := extractValue[P1](n0, v0)
		if err != nil {
			return "", err
		}
		p2, err := extractValue[P2](n1, v1)
		if err != nil {
			return "", err
		}
		p3, err := extractValue[P3](n2, v2)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(fn(p1, p2, p3)), nil
	}
	return newBuiltTool(schemaFromSpecs(name, description, specs), invoke), nil
}

// NewTool4 builds a Tool from a 4-ary function, the widest arity the
// core specializes. The DSL has no object or array kind, so a wider
// signature cannot be expressed through these builders.
func NewTool4[P1, P2, P3, P4 Extractable, R any](name, description, dsl string, fn func(P1, P2, P3, P4) R) (tools.Tool, error) {
	specs, err := parseDSL(dsl)
	if err != nil {
		return nil, err
	}
	if err := checkArity("NewTool4", specs, 4); err != nil {
		return nil, err
	}
	if err := checkKind[P1]("NewTool4", specs[0]); err != nil {
		return nil, err
	}
	if err := checkKind[P2]("NewTool4", specs[1]); err != nil {
		return nil, err
	}
	if err := checkKind[P3]("NewTool4", specs[2]); err != nil {
		return nil, err
	}
	if err := checkKind[P4]("NewTool4", specs[3]); err != nil {
		return nil, err
	}
	n0, n1, n2, n3 := specs[0].Name, specs[1].Name, specs[2].Name, specs[3].Name
	invoke := func(args map[string]any) (string, error) {
		v0, ok := args[n0]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n0)
		}
		v1, ok := args[n1]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n1)
		}
		v2, ok := args[n2]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n2)
		}
		v3, ok := args[n3]
		if !ok {
			return "", fmt.Errorf("invalid argument %s", n3)
		}
		p1, err := extractValue[P1](n0, v0)
		if err != nil {
			return "", err
		}
		p2, err := extractValue[P2](n1, v1)
		if err != nil {
			return "", err
		}
		p3, err := extractValue[P3](n2, v2)
		if err != nil {
			return "", err
		}
		p4, err := extractValue[P4](n3, v3)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(fn(p1, p2, p3, p4)), nil
	}
	return newBuiltTool(schemaFromSpecs(name, description, specs), invoke), nil
}
