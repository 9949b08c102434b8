// Package configmerge resolves layered configuration trees.
package configmerge

import (
	"fmt"

	"dario.cat/mergo"
)

// Merge deep-merges layers left to right into a new tree. Nested maps merge per key;
// any other value, arrays included, replaces what the earlier layers held.
// The inputs are never modified and the result shares no maps with them.
func Merge(layers ...map[string]any) (map[string]any, error) {
	out := map[string]any{}
	for i, layer := range layers {
		if layer == nil {
			continue
		}
		// mergo writes into nested maps of dst and may hand src's maps to dst,
		// so it only ever sees private copies.
		if err := mergo.Merge(&out, deepCopy(layer), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge config layer %d: %w", i, err)
		}
	}
	return out, nil
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
