package config

import (
	"sort"
	"strings"
)

// splitPath splits a dotted key, rejecting empty segments.
func splitPath(path string) ([]string, bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

func getPath(m map[string]any, path string) (any, bool) {
	parts, ok := splitPath(path)
	if !ok {
		return nil, false
	}
	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func setPath(m map[string]any, path string, value any) error {
	parts, ok := splitPath(path)
	if !ok {
		return ErrInvalidPath
	}
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			if _, exists := current[part]; exists {
				return ErrInvalidPath
			}
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// deepMerge copies src over dst. Tables merge recursively; other values
// replace.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
	return dst
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func flatten(data map[string]any, prefix string, out map[string]any) {
	for key, val := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, full, out)
			continue
		}
		out[full] = val
	}
}

type diffEntry struct {
	path     string
	oldValue any
	newValue any
	removed  bool
}

// diff lists the leaf settings that differ between two trees, sorted by key.
func diff(oldTree, newTree map[string]any) []diffEntry {
	oldFlat := make(map[string]any)
	newFlat := make(map[string]any)
	flatten(oldTree, "", oldFlat)
	flatten(newTree, "", newFlat)

	var out []diffEntry
	for path, nv := range newFlat {
		ov, exists := oldFlat[path]
		if !exists || !valuesEqual(ov, nv) {
			out = append(out, diffEntry{path: path, oldValue: ov, newValue: nv})
		}
	}
	for path, ov := range oldFlat {
		if _, exists := newFlat[path]; !exists {
			out = append(out, diffEntry{path: path, oldValue: ov, removed: true})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

func valuesEqual(a, b any) bool {
	switch va := a.(type) {
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valuesEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, v := range va {
			if !valuesEqual(v, vb[k]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// normalizeValue stores every number as float64 so lookups need not care
// which decoder produced it.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, s := range val {
			out[k] = s
		}
		return out
	default:
		return v
	}
}
