package jsonschema

// Fragment is one JSON-Schema-shaped node: a mapping from keyword to a
// JSON-compatible value (nested mappings, sequences, primitives). The compiler
// treats fragments as immutable; merges operate on deep copies.
type Fragment = map[string]any

// Definition container keywords. Both spellings are accepted, preferring
// "$defs" when present.
const (
	KeyDefs        = "$defs"
	KeyDefinitions = "definitions"
)

// DeepCopy returns a structural copy of the fragment. Mappings and sequences
// are copied recursively; primitive leaves are shared.
func DeepCopy(m Fragment) Fragment {
	if m == nil {
		return nil
	}
	out := make(Fragment, len(m))
	for k, v := range m {
		out[k] = DeepCopyValue(v)
	}
	return out
}

// DeepCopyValue copies an arbitrary JSON-compatible value.
func DeepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return DeepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = DeepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// IsObjectShaped reports whether a fragment describes an object: it declares
// type "object", or carries "properties" or "additionalProperties".
func IsObjectShaped(s Fragment) bool {
	if t, _ := s["type"].(string); t == "object" {
		return true
	}
	if _, ok := s["properties"]; ok {
		return true
	}
	if _, ok := s["additionalProperties"]; ok {
		return true
	}
	return false
}

// Definitions returns the definitions container at this fragment, or nil.
func Definitions(s Fragment) map[string]any {
	if m, ok := s[KeyDefs].(map[string]any); ok {
		return m
	}
	if m, ok := s[KeyDefinitions].(map[string]any); ok {
		return m
	}
	return nil
}
