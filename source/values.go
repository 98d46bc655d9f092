package source

import (
	"net/url"
	"sort"
	"strings"
)

// Values converts form or query values into a record. A key with one value
// maps to a string, a repeated key to []any. Keys ending in "[]" always map to
// []any under the bare name so single-item checkbox groups stay arrays.
func Values(v url.Values) map[string]any {
	out := make(map[string]any, len(v))
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vs := v[k]
		if name, ok := strings.CutSuffix(k, "[]"); ok {
			prev, _ := out[name].([]any)
			for _, s := range vs {
				prev = append(prev, s)
			}
			out[name] = prev
			continue
		}
		switch len(vs) {
		case 0:
		case 1:
			out[k] = vs[0]
		default:
			items := make([]any, len(vs))
			for i, s := range vs {
				items[i] = s
			}
			out[k] = items
		}
	}
	return out
}
