package compile

import (
	"fmt"

	"github.com/akshaylive/typeadapter/internal/ir"
	js "github.com/akshaylive/typeadapter/jsonschema"
)

// compileAllOf decides between structural merge and runtime intersection for
// an allOf branch list.
//
//   - empty list degenerates to Any
//   - a false branch makes the whole composition unsatisfiable
//   - any $ref or nested-composition branch forces a runtime intersection
//     (the merge cannot see through them)
//   - object-shaped branches merge into one object schema, with type conflicts
//     rejected at compile time
//   - non-object branches sharing one declared type merge structurally,
//     first-branch-wins for everything but "type"
//   - anything else validates as a runtime intersection: every branch must
//     independently accept the value
func (c *Compiler) compileAllOf(raw []any, parent map[string]any) (ir.Type, error) {
	if len(raw) == 0 {
		return &ir.Any{}, nil
	}
	branches := make([]map[string]any, 0, len(raw))
	for i, b := range raw {
		switch t := b.(type) {
		case map[string]any:
			branches = append(branches, t)
		case bool:
			if !t {
				return &ir.Never{Reason: "allOf contains a false schema"}, nil
			}
			branches = append(branches, map[string]any{})
		default:
			return nil, fmt.Errorf("allOf branch %d is not a schema: %w", i, ErrUnsupportedSchema)
		}
	}

	if hasRefBranch(branches) || hasCompositionBranch(branches) {
		return c.intersection(branches)
	}
	if mergeableAsObject(branches) {
		merged, err := mergeObjectSchemas(branches)
		if err != nil {
			return nil, err
		}
		name, explicit := c.combinedName(parent)
		return c.compileObjectNamed(merged, name, explicit)
	}
	if t, ok := commonDeclaredType(branches); ok && t != "" {
		return c.Compile(mergeConstraintSchemas(branches))
	}
	return c.intersection(branches)
}

func hasRefBranch(branches []map[string]any) bool {
	for _, b := range branches {
		if _, ok := b["$ref"]; ok {
			return true
		}
	}
	return false
}

// hasCompositionBranch reports whether any branch is itself a composition.
// The structural merge only understands flat object fragments; nested
// compositions would silently lose their inner requirements, so they force
// the runtime-intersection path instead.
func hasCompositionBranch(branches []map[string]any) bool {
	for _, b := range branches {
		for _, k := range []string{"allOf", "anyOf", "oneOf", "not"} {
			if _, ok := b[k]; ok {
				return true
			}
		}
	}
	return false
}

// mergeableAsObject mirrors the object decision rule: at least one branch
// declares properties, or every branch is object-shaped.
func mergeableAsObject(branches []map[string]any) bool {
	allObjects := true
	for _, b := range branches {
		if _, ok := b["properties"]; ok {
			return true
		}
		if !js.IsObjectShaped(b) {
			allObjects = false
		}
	}
	return allObjects
}

// commonDeclaredType reports the shared "type" keyword when every branch
// declares the same one.
func commonDeclaredType(branches []map[string]any) (string, bool) {
	var common string
	for _, b := range branches {
		t, ok := b["type"].(string)
		if !ok {
			return "", false
		}
		if common == "" {
			common = t
		} else if common != t {
			return "", false
		}
	}
	return common, true
}

// mergeObjectSchemas folds object-shaped branches into one object fragment:
// field-by-field union of properties, union of required names with duplicates
// removed, most-restrictive-wins for additionalProperties (false beats any
// permissive value, first non-null wins otherwise). A property declared with
// two different types, or a branch declaring a non-object type, is a type
// conflict. No property is ever silently dropped.
func mergeObjectSchemas(branches []map[string]any) (map[string]any, error) {
	mergedProps := make(map[string]any)
	var mergedRequired []string
	seenRequired := make(map[string]struct{})
	var mergedAP any

	for _, sub := range branches {
		if t, ok := sub["type"].(string); ok && t != "object" {
			return nil, fmt.Errorf("%w: expected \"object\", got %q", ErrTypeConflict, t)
		}
		if ap, ok := sub["additionalProperties"]; ok {
			if ap == false {
				mergedAP = false
			} else if mergedAP == nil {
				mergedAP = ap
			}
		}
		if props, ok := sub["properties"].(map[string]any); ok {
			for name, rawProp := range props {
				prop, _ := rawProp.(map[string]any)
				rawExisting, present := mergedProps[name]
				if !present {
					mergedProps[name] = js.DeepCopyValue(rawProp)
					continue
				}
				existing, ok := rawExisting.(map[string]any)
				if !ok {
					continue // keep the first occurrence
				}
				existingType, _ := existing["type"].(string)
				newType, _ := prop["type"].(string)
				if existingType != "" && newType != "" && existingType != newType {
					return nil, fmt.Errorf("%w: property %q declared as %q and %q",
						ErrTypeConflict, name, existingType, newType)
				}
				// Unify metadata: a key already set is never overwritten.
				for _, key := range []string{"title", "description", "default", "type"} {
					if v, ok := prop[key]; ok {
						if _, set := existing[key]; !set {
							existing[key] = js.DeepCopyValue(v)
						}
					}
				}
			}
		}
		for _, name := range stringSlice(sub["required"]) {
			if _, dup := seenRequired[name]; dup {
				continue
			}
			seenRequired[name] = struct{}{}
			mergedRequired = append(mergedRequired, name)
		}
	}

	merged := map[string]any{
		"type":       "object",
		"properties": mergedProps,
	}
	if len(mergedRequired) > 0 {
		req := make([]any, len(mergedRequired))
		for i, n := range mergedRequired {
			req[i] = n
		}
		merged["required"] = req
	}
	if mergedAP != nil {
		merged["additionalProperties"] = js.DeepCopyValue(mergedAP)
	}
	return merged, nil
}

// mergeConstraintSchemas folds non-object branches that share a declared type:
// start from the first branch, then add keys from later branches only when not
// already set.
func mergeConstraintSchemas(branches []map[string]any) map[string]any {
	merged := js.DeepCopy(branches[0])
	for _, sub := range branches[1:] {
		for k, v := range sub {
			if k == "type" {
				continue // equality already established by the caller
			}
			if _, ok := merged[k]; !ok {
				merged[k] = js.DeepCopyValue(v)
			}
		}
	}
	return merged
}

// intersection compiles each branch independently; at validation time the
// value must satisfy every branch and is returned untransformed. The verbatim
// branch list is kept for schema reproduction.
func (c *Compiler) intersection(branches []map[string]any) (ir.Type, error) {
	n := &ir.Intersection{
		Branches:  make([]ir.Type, 0, len(branches)),
		Fragments: make([]map[string]any, 0, len(branches)),
		HasRefs:   hasRefBranch(branches),
	}
	for i, b := range branches {
		t, err := c.Compile(b)
		if err != nil {
			return nil, fmt.Errorf("allOf branch %d: %w", i, err)
		}
		n.Branches = append(n.Branches, t)
		n.Fragments = append(n.Fragments, js.DeepCopy(b))
	}
	return n, nil
}

// combinedName picks the title for a merged allOf result: the parent's
// explicit title when present, otherwise a generated CombinedModel_<n>.
func (c *Compiler) combinedName(parent map[string]any) (string, bool) {
	if t, ok := parent["title"].(string); ok && t != "" {
		return t, true
	}
	name := fmt.Sprintf("CombinedModel_%d", c.nextCombined)
	c.nextCombined++
	return name, false
}
