package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"
	jsonschemav5 "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aldenhollow/agentforest/internal/errs"
	"github.com/aldenhollow/agentforest/pkg/models"
)

// Tool name/argument ceilings, mirrored from the teacher's resource
// exhaustion guard on the LLM-driven tool boundary.
const (
	MaxToolNameLength = 256
	MaxToolParamsSize = 10 << 20
)

// Registry is a thread-safe name -> Tool map with last-registration-
// wins semantics and O(1) lookup.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]Tool
	validators map[string]*jsonschemav5.Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:      make(map[string]Tool),
		validators: make(map[string]*jsonschemav5.Schema),
	}
}

// Register adds tool to the registry, replacing any existing tool of
// the same name. The tool's JSON schema is compiled eagerly so a bad
// schema fails fast at registration rather than at first dispatch.
func (r *Registry) Register(t Tool) error {
	schema := Schema(t)
	compiled, err := compileSchema(schema)
	if err != nil {
		return errs.New(errs.InvalidInput, fmt.Sprintf("tool %q has an invalid schema", t.Name()), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
	r.validators[t.Name()] = compiled
	return nil
}

// Unregister removes a tool by name. Unregistering an unknown name is
// a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
	delete(r.validators, name)
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Execute dispatches a tool call by name. Oversized input, an unknown
// name, and arguments that fail schema validation come back as
// ToolResult{Success: false} with a nil error; the registry itself
// never returns a non-nil error. The tool's own Execute result and
// error are returned unchanged.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (*models.ToolResult, error) {
	if len(name) > MaxToolNameLength {
		return &models.ToolResult{Success: false, Error: fmt.Sprintf("tool name exceeds maximum length of %d characters", MaxToolNameLength)}, nil
	}
	if len(args) > MaxToolParamsSize {
		return &models.ToolResult{Success: false, Error: fmt.Sprintf("tool arguments exceed maximum size of %d bytes", MaxToolParamsSize)}, nil
	}

	r.mu.RLock()
	t, ok := r.tools[name]
	validator := r.validators[name]
	r.mu.RUnlock()
	if !ok {
		return &models.ToolResult{Success: false, Error: "tool not found: " + name}, nil
	}

	if validator != nil {
		if err := validateArgs(validator, args); err != nil {
			return &models.ToolResult{Success: false, Error: "invalid arguments: " + err.Error()}, nil
		}
	}

	return t.Execute(ctx, args)
}

// Export renders every registered tool's schema for the LLM, sorted by
// name for deterministic output.
func (r *Registry) Export() []ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolSchema, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, Schema(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// compileSchema renders a ToolSchema into a JSON-schema document via
// invopop/jsonschema and compiles it for argument validation via
// santhosh-tekuri/jsonschema/v5.
func compileSchema(s ToolSchema) (*jsonschemav5.Schema, error) {
	props := jsonschema.NewProperties()
	var required []string

	names := s.Order
	if len(names) == 0 {
		for name := range s.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	for _, name := range names {
		p, ok := s.Parameters[name]
		if !ok {
			continue
		}
		props.Set(name, &jsonschema.Schema{
			Type:        string(p.Type),
			Description: p.Description,
		})
		if p.Required {
			required = append(required, name)
		}
	}

	doc := &jsonschema.Schema{
		Type:        "object",
		Description: s.Description,
		Properties:  props,
		Required:    required,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	url := "mem://agentforest/tools/" + s.Name + ".json"
	compiler := jsonschemav5.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

func validateArgs(schema *jsonschemav5.Schema, args json.RawMessage) error {
	raw := args
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return schema.Validate(v)
}
