// Where: internal/domain/value/value.go
// What: Value coercion helpers for loosely-typed manifest data.
// Why: Manifest entries arrive as map[string]any; keep normalisation free of infrastructure.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AsMap converts a value to map form when possible.
// Maps decoded with string keys from other decoders are accepted as well.
func AsMap(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[AsString(key)] = item
		}
		return out
	}
	return nil
}

// AsString returns the string representation of a value.
func AsString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// AsStringDefault returns a trimmed string representation or the fallback.
func AsStringDefault(value any, fallback string) string {
	if out := strings.TrimSpace(AsString(value)); out != "" {
		return out
	}
	return fallback
}

// AsStringPointer returns nil for nil or blank values.
func AsStringPointer(value any) *string {
	out := strings.TrimSpace(AsString(value))
	if out == "" {
		return nil
	}
	return &out
}

// AsIntPointer attempts to coerce a value into an int pointer.
// Fractional floats are rejected rather than truncated.
func AsIntPointer(value any) (*int, bool) {
	switch typed := value.(type) {
	case int:
		return &typed, true
	case int32:
		intVal := int(typed)
		return &intVal, true
	case int64:
		intVal := int(typed)
		return &intVal, true
	case uint64:
		intVal := int(typed)
		return &intVal, true
	case float64:
		if typed != math.Trunc(typed) {
			return nil, false
		}
		intVal := int(typed)
		return &intVal, true
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return &parsed, true
		}
	}
	return nil, false
}

// AsIntDefault converts a value to int or returns the fallback.
func AsIntDefault(value any, fallback int) int {
	if val, ok := AsIntPointer(value); ok {
		return *val
	}
	return fallback
}

// AsStringSlice converts a list (or a single scalar) into trimmed strings.
func AsStringSlice(value any) []string {
	var items []any
	switch typed := value.(type) {
	case nil:
		return nil
	case []any:
		items = typed
	case []string:
		return typed
	default:
		items = []any{typed}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(AsString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SortedKeys returns map keys in lexical order for deterministic iteration.
func SortedKeys[V any](values map[string]V) []string {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
