package typeadapter

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CompileYAML decodes a YAML schema document and compiles it. Only the first
// document of a multi-document stream is used.
func CompileYAML(data []byte, opts Options) (*TypeAdapter, Diag, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, nil, fmt.Errorf("typeadapter: invalid schema YAML: %w", err)
	}
	switch t := node.(type) {
	case bool:
		return Compile(t, opts)
	case nil:
		return nil, nil, errors.New("typeadapter: empty YAML document")
	default:
		m := yamlAnyToStringMap(node)
		if m == nil {
			return nil, nil, fmt.Errorf("typeadapter: schema YAML is %T, want a mapping or bool", node)
		}
		return Compile(m, opts)
	}
}

// yamlAnyToStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func yamlAnyToStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = yamlNormalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return yamlAnyToStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
