package openapi

import "strings"

var refPrefixes = []string{"#/$defs/", "#/definitions/", "#/components/schemas/"}

// extractDefs returns the local definitions of the document.
func extractDefs(doc map[string]any) map[string]any {
	defs := map[string]any{}
	for _, key := range []string{"$defs", "definitions"} {
		if m, ok := doc[key].(map[string]any); ok {
			for k, v := range m {
				defs[k] = v
			}
		}
	}
	if comp, ok := doc["components"].(map[string]any); ok {
		if m, ok := comp["schemas"].(map[string]any); ok {
			for k, v := range m {
				defs[k] = v
			}
		}
	}
	if len(defs) == 0 {
		return nil
	}
	return defs
}

// resolveRefsInPlace expands local $refs under properties and items.
func resolveRefsInPlace(node map[string]any, defs map[string]any, d *simpleDiag, visited map[string]bool) {
	if node == nil {
		return
	}
	if pm, ok := node["properties"].(map[string]any); ok {
		for k, raw := range pm {
			if sch, ok := raw.(map[string]any); ok {
				pm[k] = resolveOne(sch, defs, d, visited)
			}
		}
	}
	if it, ok := node["items"].(map[string]any); ok {
		node["items"] = resolveOne(it, defs, d, visited)
	}
}

// resolveOne expands a single schema map with local $ref, performing a shallow
// merge that prefers fields set next to the $ref.
func resolveOne(s map[string]any, defs map[string]any, d *simpleDiag, visited map[string]bool) map[string]any {
	if s == nil {
		return nil
	}
	ref, ok := s["$ref"].(string)
	if !ok {
		resolveRefsInPlace(s, defs, d, visited)
		return s
	}
	key, ok := localRef(ref)
	if !ok {
		d.warnf("$ref %q not supported (local definitions only)", ref)
		return s
	}
	base, ok := defs[key].(map[string]any)
	if !ok {
		d.warnf("$ref to unknown definition %s", key)
		return s
	}
	if visited[key] {
		d.warnf("cyclic $ref detected at %s (skipping expansion)", key)
		return s
	}
	visited[key] = true
	cp := deepCopyMap(base)
	resolveRefsInPlace(cp, defs, d, visited)
	delete(visited, key)

	out := make(map[string]any, len(s)+len(cp))
	for k, v := range cp {
		out[k] = v
	}
	for k, v := range s {
		if k != "$ref" {
			out[k] = v
		}
	}
	return out
}

func localRef(ref string) (string, bool) {
	for _, p := range refPrefixes {
		if strings.HasPrefix(ref, p) {
			return strings.TrimPrefix(ref, p), true
		}
	}
	return "", false
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = deepCopyValue(t[i])
		}
		return out
	}
	return v
}
