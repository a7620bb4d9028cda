package loader

import (
	"strings"
)

// setByPath stores value under a dotted path, creating intermediate maps.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// flatten turns a nested map into dotted keys.
func flatten(data map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(data, "", out)
	return out
}

func flattenInto(data map[string]any, prefix string, out map[string]any) {
	for key, val := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenInto(nested, full, out)
			continue
		}
		out[full] = val
	}
}

// normalize rewrites decoder-specific number types to float64 and int64
// to a common shape, and expands dotted keys inside tables.
func normalize(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, val := range data {
		if nested, ok := val.(map[string]any); ok {
			val = normalize(nested)
		} else {
			val = normalizeValue(val)
		}
		if strings.Contains(key, ".") {
			setByPath(out, key, val)
			continue
		}
		if existing, ok := out[key].(map[string]any); ok {
			if nested, ok := val.(map[string]any); ok {
				for k, v := range nested {
					existing[k] = v
				}
				continue
			}
		}
		out[key] = val
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = normalizeValue(item)
		}
		return list
	case map[string]any:
		return normalize(val)
	default:
		return v
	}
}
