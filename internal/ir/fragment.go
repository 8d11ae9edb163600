package ir

import (
	js "github.com/akshaylive/typeadapter/jsonschema"
)

// ToFragment reconstructs the schema fragment described by a compiled type.
// Output is a fresh document on every call; verbatim parts are deep-copied so
// callers cannot corrupt the compiled representation.
//
// Supported constructs round-trip exactly: keywords absent from the source
// fragment are absent from the output (no items/additionalProperties filler),
// and generated titles are not emitted.
func ToFragment(t Type) map[string]any {
	switch n := t.(type) {
	case *Any:
		return map[string]any{}
	case *Never:
		// The canonical unsatisfiable fragment.
		return map[string]any{"not": map[string]any{}}
	case *Primitive:
		out := map[string]any{"type": n.Name}
		copyVerbatim(out, n.Constraints)
		return out
	case *Array:
		out := map[string]any{"type": "array"}
		if n.HasItems {
			out["items"] = ToFragment(n.Elem)
		}
		copyVerbatim(out, n.Constraints)
		return out
	case *Tuple:
		items := make([]any, len(n.Items))
		for i, it := range n.Items {
			items[i] = ToFragment(it)
		}
		kw := n.Keyword
		if kw == "" {
			kw = "prefixItems"
		}
		return map[string]any{"type": "array", kw: items}
	case *Object:
		return objectFragment(n)
	case *Enum:
		out := map[string]any{"enum": js.DeepCopyValue(n.Values)}
		if n.TypeName != "" {
			out["type"] = n.TypeName
		}
		if n.TitleSet {
			out["title"] = n.Name
		}
		if n.Description != "" {
			out["description"] = n.Description
		}
		return out
	case *Const:
		out := map[string]any{"const": js.DeepCopyValue(n.Value)}
		if n.Description != "" {
			out["description"] = n.Description
		}
		return out
	case *Union:
		alts := make([]any, len(n.Alts))
		for i, a := range n.Alts {
			alts[i] = ToFragment(a)
		}
		kw := n.Keyword
		if kw == "" {
			kw = "anyOf"
		}
		return map[string]any{kw: alts}
	case *Intersection:
		if n.HasRefs {
			// The branch list alone cannot resolve its references; degrade to
			// an unconstrained shape.
			return map[string]any{}
		}
		branches := make([]any, len(n.Fragments))
		for i, f := range n.Fragments {
			branches[i] = js.DeepCopy(f)
		}
		return map[string]any{"allOf": branches}
	case *Not:
		if n.Fragment == nil {
			// The negated branch was a boolean schema.
			return map[string]any{"not": ToFragment(n.Inner)}
		}
		return map[string]any{"not": js.DeepCopy(n.Fragment)}
	case *Ref:
		return map[string]any{"$ref": n.RawRef}
	default:
		return map[string]any{}
	}
}

func objectFragment(o *Object) map[string]any {
	out := map[string]any{"type": "object"}
	if o.TitleSet {
		out["title"] = o.Name
	}
	if o.Description != "" {
		out["description"] = o.Description
	}
	if o.Open {
		copyVerbatim(out, o.Constraints)
		if o.APSet {
			out["additionalProperties"] = js.DeepCopyValue(o.AdditionalProperties)
		}
		return out
	}
	props := make(map[string]any, len(o.Fields))
	for _, f := range o.Fields {
		pf := ToFragment(f.Type)
		if f.HasDefault {
			pf["default"] = js.DeepCopyValue(f.Default)
		}
		props[f.Name] = pf
	}
	out["properties"] = props
	if o.RequiredRaw != nil {
		out["required"] = js.DeepCopyValue(o.RequiredRaw)
	}
	if o.APSet {
		out["additionalProperties"] = js.DeepCopyValue(o.AdditionalProperties)
	}
	return out
}

func copyVerbatim(dst map[string]any, src map[string]any) {
	for k, v := range src {
		dst[k] = js.DeepCopyValue(v)
	}
}
