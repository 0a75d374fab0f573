package handlers

import "github.com/datanaut/naqo/internal/domain"

// section extracts one nested result map from a resolved input. Upstream
// results arrive either as TaskResult or as plain maps depending on how the
// reference was resolved.
func section(input map[string]any, key string) map[string]any {
	switch v := input[key].(type) {
	case domain.TaskResult:
		return map[string]any(v)
	case map[string]any:
		return v
	default:
		return nil
	}
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func floatValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func stringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func anySlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []map[string]any:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	default:
		return nil
	}
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case domain.TaskResult:
		return map[string]any(m)
	default:
		return nil
	}
}
