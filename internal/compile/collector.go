package compile

import (
	"sort"

	js "github.com/akshaylive/typeadapter/jsonschema"
)

// Definition is one named sub-schema extracted from a definitions container.
// Path joins nested container segments with "/" (for example "Address/Country"
// for a Country defined inside Address's own $defs).
type Definition struct {
	Path   string
	Schema any // mapping fragment, or a boolean degenerate schema
}

// CollectDefinitions recursively gathers every named sub-schema declared under
// "$defs" (or the legacy "definitions" container; "$defs" wins when both are
// present at the same level). Definitions may nest inside other definitions.
//
// The result is ordered depth-first, entry before its nested children, with
// sibling names sorted, so that last-write-wins on normalized-key collisions
// is deterministic. Non-mapping entries are recorded but contribute nothing
// below themselves.
func CollectDefinitions(doc map[string]any) []Definition {
	var out []Definition
	collectInto(doc, "", &out)
	return out
}

func collectInto(doc map[string]any, path string, out *[]Definition) {
	defs := js.Definitions(doc)
	if defs == nil {
		return
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		full := name
		if path != "" {
			full = path + "/" + name
		}
		*out = append(*out, Definition{Path: full, Schema: defs[name]})
		if def, ok := defs[name].(map[string]any); ok {
			collectInto(def, full, out)
		}
	}
}
