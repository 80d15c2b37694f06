package builder

import "fmt"

// Extractable enumerates the Go types ToolBuilder can bind a DSL
// parameter to: signed/unsigned 32- and 64-bit integers, 32- and
// 64-bit floats, booleans, and text.
type Extractable interface {
	int32 | int64 | uint32 | uint64 | float32 | float64 | bool | string
}

// goTypeName returns the runtime name of T, used to cross-check the
// DSL's declared type against the compile-time signature.
func goTypeName[T Extractable]() string {
	var zero T
	switch any(zero).(type) {
	case int32:
		return "int32"
	case int64:
		return "int64"
	case uint32:
		return "uint32"
	case uint64:
		return "uint64"
	case float32:
		return "float32"
	case float64:
		return "float64"
	case bool:
		return "bool"
	default:
		return "string"
	}
}

// extractValue coerces a decoded JSON value (string, bool, or
// float64 — the types encoding/json produces for a json.RawMessage
// unmarshaled into interface{}) into T, or returns an error naming
// the offending parameter.
func extractValue[T Extractable](name string, raw any) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int32:
		f, ok := raw.(float64)
		if !ok {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(int32(f)).(T), nil
	case int64:
		f, ok := raw.(float64)
		if !ok {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(int64(f)).(T), nil
	case uint32:
		f, ok := raw.(float64)
		if !ok || f < 0 {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(uint32(f)).(T), nil
	case uint64:
		f, ok := raw.(float64)
		if !ok || f < 0 {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(uint64(f)).(T), nil
	case float32:
		f, ok := raw.(float64)
		if !ok {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(float32(f)).(T), nil
	case float64:
		f, ok := raw.(float64)
		if !ok {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(f).(T), nil
	case bool:
		b, ok := raw.(bool)
		if !ok {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(b).(T), nil
	default: // string
		s, ok := raw.(string)
		if !ok {
			return zero, fmt.Errorf("invalid argument %s", name)
		}
		return any(s).(T), nil
	}
}
