package compile

import "encoding/json"

// numberKindOf classifies json.Number values left by decoders configured with
// UseNumber. Anything else is an opaque literal.
func numberKindOf(v any) string {
	n, ok := v.(json.Number)
	if !ok {
		return "literal"
	}
	if _, err := n.Int64(); err == nil {
		return "int"
	}
	if f, err := n.Float64(); err == nil {
		if f == float64(int64(f)) {
			return "int"
		}
		return "float"
	}
	return "literal"
}
