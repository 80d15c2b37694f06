package builder

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewTool0_ExecutesWithNoArguments(t *testing.T) {
	tool, err := NewTool0("ping", "returns pong", func() string { return "pong" })
	if err != nil {
		t.Fatalf("NewTool0 returned error: %v", err)
	}
	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !result.Success || result.Output != "pong" {
		t.Fatalf("got %+v, want success output \"pong\"", result)
	}
}

func TestNewTool1_ExtractsSingleArgument(t *testing.T) {
	tool, err := NewTool1[string, string]("shout", "appends an exclamation mark", "text:string:input text", func(s string) string { return s + "!" })
	if err != nil {
		t.Fatalf("NewTool1 returned error: %v", err)
	}
	args, _ := json.Marshal(map[string]any{"text": "hi"})
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "hi!" {
		t.Fatalf("got %q, want \"hi!\"", result.Output)
	}
}

func TestNewTool2_AddsTwoIntegers(t *testing.T) {
	tool, err := NewTool2[int32, int32, int32]("add", "adds", "a:i32:first, b:i32:second", func(a, b int32) int32 { return a + b })
	if err != nil {
		t.Fatalf("NewTool2 returned error: %v", err)
	}
	args, _ := json.Marshal(map[string]any{"a": 2, "b": 3})
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "5" {
		t.Fatalf("got %q, want \"5\"", result.Output)
	}
}

func TestNewTool2_MissingArgumentFails(t *testing.T) {
	tool, err := NewTool2[int32, int32, int32]("add", "adds", "a:i32:first, b:i32:second", func(a, b int32) int32 { return a + b })
	if err != nil {
		t.Fatalf("NewTool2 returned error: %v", err)
	}
	args, _ := json.Marshal(map[string]any{"a": 2})
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute returned unexpected plumbing error: %v", err)
	}
	if result.Success {
		t.Fatal("expected failure for a missing argument")
	}
}

func TestNewTool2_RejectsDSLArityMismatch(t *testing.T) {
	_, err := NewTool2[int32, int32, int32]("add", "adds", "a:i32:first", func(a, b int32) int32 { return a + b })
	if err == nil {
		t.Fatal("expected an error for a DSL declaring the wrong arity")
	}
}

func TestNewTool2_RejectsKindMismatch(t *testing.T) {
	_, err := NewTool2[int32, string, int32]("add", "adds", "a:i32:first, b:i32:second", func(a int32, b string) int32 { return a })
	if err == nil {
		t.Fatal("expected an error when a DSL kind does not match the bound Go type")
	}
}

func TestNewTool3_ExecutesAllThreeArguments(t *testing.T) {
	tool, err := NewTool3[string, int32, bool]("describe", "builds a description", "name:string:n, age:i32:a, active:bool:b",
		func(name string, age int32, active bool) string {
			if active {
				return name
			}
			return "inactive"
		})
	if err != nil {
		t.Fatalf("NewTool3 returned error: %v", err)
	}
	args, _ := json.Marshal(map[string]any{"name": "ada", "age": 30, "active": true})
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "ada" {
		t.Fatalf("got %q, want \"ada\"", result.Output)
	}
}

func TestNewTool4_ExecutesAllFourArguments(t *testing.T) {
	tool, err := NewTool4[int32, int32, int32, int32]("sum4", "sums four ints", "a:i32:a, b:i32:b, c:i32:c, d:i32:d",
		func(a, b, c, d int32) int32 { return a + b + c + d })
	if err != nil {
		t.Fatalf("NewTool4 returned error: %v", err)
	}
	args, _ := json.Marshal(map[string]any{"a": 1, "b": 2, "c": 3, "d": 4})
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Output != "10" {
		t.Fatalf("got %q, want \"10\"", result.Output)
	}
}

func TestBuiltTool_InvalidJSONArgumentsFail(t *testing.T) {
	tool, err := NewTool1[string, string]("echo", "echoes", "text:string:t", func(s string) string { return s })
	if err != nil {
		t.Fatalf("NewTool1 returned error: %v", err)
	}
	result, err := tool.Execute(context.Background(), []byte("not json"))
	if err != nil {
		t.Fatalf("Execute returned unexpected plumbing error: %v", err)
	}
	if result.Success {
		t.Fatal("expected failure for malformed JSON arguments")
	}
}

func TestBuiltTool_ExposesSchemaOrderAndParameters(t *testing.T) {
	tool, err := NewTool2[int32, string, string]("mixed", "mixed params", "count:i32:c, label:string:l",
		func(c int32, l string) string { return l })
	if err != nil {
		t.Fatalf("NewTool2 returned error: %v", err)
	}
	ordered, ok := tool.(interface{ ParamOrder() []string })
	if !ok {
		t.Fatal("expected the built tool to expose ParamOrder")
	}
	if order := ordered.ParamOrder(); len(order) != 2 || order[0] != "count" || order[1] != "label" {
		t.Fatalf("got order %v, want [count label]", order)
	}
	params := tool.Parameters()
	if !params["count"].Required || !params["label"].Required {
		t.Fatal("expected both parameters to be marked required")
	}
}
