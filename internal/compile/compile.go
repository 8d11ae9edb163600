package compile

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/akshaylive/typeadapter/internal/ir"
	js "github.com/akshaylive/typeadapter/jsonschema"
)

// Compiler converts schema fragments into IR types. One instance serves one
// top-level compilation: it owns the per-call namespace and the counters that
// title anonymous results (DynamicType_<n>, CombinedModel_<n>) in first-seen
// order. Not safe for concurrent use.
type Compiler struct {
	ns     *Namespace
	shared *Namespace // optional caller-supplied registry, may be nil
	diag   *Diag

	nextDynamic  int
	nextCombined int
}

// New builds a Compiler. shared may be nil for per-call isolation.
func New(shared *Namespace, d *Diag) *Compiler {
	if d == nil {
		d = NewDiag()
	}
	return &Compiler{ns: NewNamespace(), shared: shared, diag: d}
}

// Namespace exposes the per-call namespace (tests and the bind step).
func (c *Compiler) Namespace() *Namespace { return c.ns }

// CompileDocument runs the full pipeline: collect definitions, compile each
// into the namespace (later definitions may forward-reference earlier or later
// ones by name), compile the root, then bind so every outstanding forward
// reference resolves.
func (c *Compiler) CompileDocument(doc map[string]any) (ir.Type, error) {
	for _, def := range CollectDefinitions(doc) {
		t, err := c.compileAny(def.Schema)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", def.Path, err)
		}
		key := NormalizeKey(def.Path)
		c.ns.Define(key, t)
		if c.shared != nil {
			c.shared.Define(key, t)
		}
	}
	root, err := c.Compile(doc)
	if err != nil {
		return nil, err
	}
	roots := append(c.ns.All(), root)
	if err := Bind(roots, c.ns, c.shared); err != nil {
		return nil, err
	}
	return root, nil
}

// compileAny compiles a fragment that may also be a boolean degenerate schema.
func (c *Compiler) compileAny(v any) (ir.Type, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return &ir.Any{}, nil
		}
		return &ir.Never{Reason: "schema is false"}, nil
	case map[string]any:
		return c.Compile(t)
	case nil:
		return &ir.Any{}, nil
	default:
		return nil, fmt.Errorf("fragment is %T, not a mapping: %w", v, ErrUnsupportedSchema)
	}
}

// Compile converts one schema fragment. Dispatch order is significant and
// first match wins: $ref, allOf, anyOf, oneOf, not, const, enum-without-type,
// conditional pass-through, type-directed handling, empty schema, and finally
// bare-constraint inference.
func (c *Compiler) Compile(s map[string]any) (ir.Type, error) {
	if raw, ok := s["$ref"]; ok {
		ref, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("$ref is %T, not a string: %w", raw, ErrUnsupportedSchema)
		}
		if len(ref) < 2 || ref[:2] != "#/" {
			c.diag.Warnf("external $ref %q degraded to its final segment", ref)
		}
		return &ir.Ref{Key: RefKey(ref), RawRef: ref}, nil
	}
	if raw, ok := s["allOf"].([]any); ok {
		return c.compileAllOf(raw, s)
	}
	if raw, ok := s["anyOf"].([]any); ok {
		return c.compileUnion(raw, "anyOf")
	}
	if raw, ok := s["oneOf"].([]any); ok {
		c.diag.Warnf("oneOf treated as anyOf: exactly-one-match exclusivity is not enforced")
		return c.compileUnion(raw, "oneOf")
	}
	if raw, ok := s["not"]; ok {
		inner, err := c.compileAny(raw)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		frag, _ := raw.(map[string]any)
		return &ir.Not{Inner: inner, Fragment: js.DeepCopy(frag)}, nil
	}
	if v, ok := s["const"]; ok {
		k := &ir.Const{Value: js.DeepCopyValue(v)}
		k.Description, _ = s["description"].(string)
		return k, nil
	}
	if _, hasType := s["type"]; !hasType {
		if raw, ok := s["enum"]; ok {
			return c.compileEnum(raw, "", s)
		}
		if _, ok := s["if"]; ok {
			// Conditionals are a trivial pass-through without a base type.
			c.diag.Warnf("if/then/else without a base type treated as unconstrained")
			return &ir.Any{}, nil
		}
	}
	if rawType, ok := s["type"]; ok {
		switch t := rawType.(type) {
		case string:
			return c.compileTyped(t, s)
		case []any:
			// A type list is a union over each listed type.
			alts := make([]ir.Type, 0, len(t))
			for _, e := range t {
				name, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("type list entry %v: %w", e, ErrUnsupportedSchema)
				}
				alt, err := c.compileTyped(name, s)
				if err != nil {
					return nil, err
				}
				alts = append(alts, alt)
			}
			return &ir.Union{Alts: alts, Keyword: "anyOf"}, nil
		default:
			return nil, fmt.Errorf("type is %T: %w", rawType, ErrUnsupportedSchema)
		}
	}
	if len(s) == 0 {
		return &ir.Any{}, nil
	}
	if t, ok := c.inferFromConstraints(s); ok {
		return t, nil
	}
	return nil, fmt.Errorf("no dispatch rule matches keys %v: %w", sortedKeys(s), ErrUnsupportedSchema)
}

func (c *Compiler) compileUnion(raw []any, keyword string) (ir.Type, error) {
	alts := make([]ir.Type, 0, len(raw))
	for i, b := range raw {
		t, err := c.compileAny(b)
		if err != nil {
			return nil, fmt.Errorf("%s branch %d: %w", keyword, i, err)
		}
		alts = append(alts, t)
	}
	return &ir.Union{Alts: alts, Keyword: keyword}, nil
}

func (c *Compiler) compileTyped(typeName string, s map[string]any) (ir.Type, error) {
	if raw, ok := s["enum"]; ok {
		return c.compileEnum(raw, typeName, s)
	}
	switch typeName {
	case "string":
		return c.compilePrimitive("string", s, "minLength", "maxLength", "pattern")
	case "integer", "number":
		return c.compilePrimitive(typeName, s,
			"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf")
	case "boolean", "null":
		return c.compilePrimitive(typeName, s)
	case "array":
		return c.compileArray(s)
	case "object":
		name, explicit := c.dynamicName(s)
		return c.compileObjectNamed(s, name, explicit)
	default:
		// Unknown type names degrade to unconstrained, as observed upstream.
		c.diag.Warnf("unknown type %q treated as unconstrained", typeName)
		return &ir.Any{}, nil
	}
}

func (c *Compiler) compilePrimitive(name string, s map[string]any, keys ...string) (ir.Type, error) {
	p := &ir.Primitive{Name: name, Constraints: pickVerbatim(s, append(keys, "title", "description")...)}
	if pat, ok := s["pattern"].(string); ok {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pat, err)
		}
		p.Pattern = re
	}
	return p, nil
}

func (c *Compiler) compileArray(s map[string]any) (ir.Type, error) {
	if raw, ok := s["prefixItems"].([]any); ok {
		return c.compileTuple(raw, "prefixItems")
	}
	if raw, ok := s["items"].([]any); ok {
		// Legacy tuple form: items as an ordered schema list.
		return c.compileTuple(raw, "items")
	}
	arr := &ir.Array{
		Elem:        ir.Type(&ir.Any{}),
		Constraints: pickVerbatim(s, "minItems", "maxItems", "uniqueItems", "title", "description"),
	}
	if raw, ok := s["items"]; ok {
		elem, err := c.compileAny(raw)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		arr.Elem = elem
		arr.HasItems = true
	}
	return arr, nil
}

func (c *Compiler) compileTuple(raw []any, keyword string) (ir.Type, error) {
	items := make([]ir.Type, 0, len(raw))
	for i, e := range raw {
		t, err := c.compileAny(e)
		if err != nil {
			return nil, fmt.Errorf("%s position %d: %w", keyword, i, err)
		}
		items = append(items, t)
	}
	return &ir.Tuple{Items: items, Keyword: keyword}, nil
}

// compileObjectNamed lowers an object fragment. name titles the result;
// explicit reports whether it came from the source (generated names are not
// reproduced in schema output).
func (c *Compiler) compileObjectNamed(s map[string]any, name string, explicit bool) (ir.Type, error) {
	desc, _ := s["description"].(string)
	props, ok := s["properties"].(map[string]any)
	if !ok {
		obj := &ir.Object{
			Name:        name,
			TitleSet:    explicit,
			Description: desc,
			Open:        true,
			Constraints: pickVerbatim(s, "minProperties", "maxProperties"),
		}
		if ap, set := s["additionalProperties"]; set {
			obj.AdditionalProperties = js.DeepCopyValue(ap)
			obj.APSet = true
		}
		return obj, nil
	}

	required := stringSlice(s["required"])
	requiredSet := make(map[string]struct{}, len(required))
	for _, r := range required {
		requiredSet[r] = struct{}{}
	}

	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)

	obj := &ir.Object{Name: name, TitleSet: explicit, Description: desc}
	for _, fieldName := range names {
		ft, err := c.compileAny(props[fieldName])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", fieldName, err)
		}
		f := ir.Field{Name: fieldName, Type: ft}
		if pf, ok := props[fieldName].(map[string]any); ok {
			if dv, ok := pf["default"]; ok {
				f.HasDefault = true
				f.Default = js.DeepCopyValue(dv)
			}
		}
		// An explicit default wins over a required listing.
		_, listed := requiredSet[fieldName]
		f.Required = listed && !f.HasDefault
		obj.Fields = append(obj.Fields, f)
	}
	if raw, ok := s["required"]; ok {
		obj.RequiredRaw = js.DeepCopyValue(raw)
	}
	if ap, set := s["additionalProperties"]; set {
		if _, isSchema := ap.(map[string]any); isSchema {
			c.diag.Warnf("additionalProperties schema on %q treated as permissive", name)
		}
		obj.AdditionalProperties = js.DeepCopyValue(ap)
		obj.APSet = true
	}
	return obj, nil
}

// dynamicName picks the object title: the explicit "title" when present and
// non-empty, otherwise a generated DynamicType_<n>.
func (c *Compiler) dynamicName(s map[string]any) (string, bool) {
	if t, ok := s["title"].(string); ok && t != "" {
		return t, true
	}
	name := fmt.Sprintf("DynamicType_%d", c.nextDynamic)
	c.nextDynamic++
	return name, false
}

// compileEnum builds an enumeration. An empty value set rejects everything; a
// boolean member or mixed runtime kinds force a literal set compared by
// equality; otherwise the common primitive kind (or the declared type, when
// given) becomes the base.
func (c *Compiler) compileEnum(raw any, typeName string, s map[string]any) (ir.Type, error) {
	values, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("enum is %T, not a list: %w", raw, ErrUnsupportedSchema)
	}
	if len(values) == 0 {
		return &ir.Never{Reason: "empty enum"}, nil
	}
	e := &ir.Enum{Values: js.DeepCopyValue(values).([]any), TypeName: typeName}
	if t, ok := s["title"].(string); ok && t != "" {
		e.Name = t
		e.TitleSet = true
	} else {
		e.Name = "DynamicEnum"
	}
	e.Description, _ = s["description"].(string)

	if typeName != "" {
		switch typeName {
		case "string":
			e.Base = ir.BaseString
		case "integer":
			e.Base = ir.BaseInt
		case "number":
			e.Base = ir.BaseFloat
		default:
			e.Base = ir.BaseLiteral
		}
		return e, nil
	}

	kinds := make(map[string]struct{})
	for _, v := range values {
		k := valueKind(v)
		if k == "bool" {
			e.Base = ir.BaseLiteral
			return e, nil
		}
		kinds[k] = struct{}{}
	}
	if len(kinds) != 1 {
		e.Base = ir.BaseLiteral
		return e, nil
	}
	switch valueKind(values[0]) {
	case "string":
		e.Base = ir.BaseString
	case "int":
		e.Base = ir.BaseInt
	case "float":
		e.Base = ir.BaseFloat
	default:
		e.Base = ir.BaseLiteral
	}
	return e, nil
}

// inferFromConstraints implements bare-constraint inference for fragments
// carrying only constraint keywords and no type: numeric bounds imply number,
// string length/pattern imply string, array length implies a sequence of
// anything, object shape keywords imply an open object.
func (c *Compiler) inferFromConstraints(s map[string]any) (ir.Type, bool) {
	if hasAnyKey(s, "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf") {
		t, err := c.compilePrimitive("number", s,
			"minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf")
		if err != nil {
			return nil, false
		}
		return t, true
	}
	if hasAnyKey(s, "minLength", "maxLength", "pattern") {
		t, err := c.compilePrimitive("string", s, "minLength", "maxLength", "pattern")
		if err != nil {
			return nil, false
		}
		return t, true
	}
	if hasAnyKey(s, "minItems", "maxItems", "uniqueItems") {
		return &ir.Array{
			Elem:        &ir.Any{},
			Constraints: pickVerbatim(s, "minItems", "maxItems", "uniqueItems"),
		}, true
	}
	// Object-shape keywords without a declared type stay an open, unenforced
	// mapping; properties and required are not promoted to a typed object.
	if hasAnyKey(s, "minProperties", "maxProperties", "properties", "required",
		"additionalProperties", "patternProperties", "propertyNames") {
		return &ir.Object{Open: true, Constraints: pickVerbatim(s, "minProperties", "maxProperties")}, true
	}
	return nil, false
}

// ---- small helpers ----

func pickVerbatim(s map[string]any, keys ...string) map[string]any {
	var out map[string]any
	for _, k := range keys {
		if v, ok := s[k]; ok {
			if out == nil {
				out = make(map[string]any)
			}
			out[k] = js.DeepCopyValue(v)
		}
	}
	return out
}

func hasAnyKey(s map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := s[k]; ok {
			return true
		}
	}
	return false
}

func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func sortedKeys(s map[string]any) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// valueKind classifies an enum member's runtime kind the way JSON decoding
// presents it: integral numbers are "int", fractional ones "float".
func valueKind(v any) string {
	switch t := v.(type) {
	case bool:
		return "bool"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		if t == float64(int64(t)) {
			return "int"
		}
		return "float"
	default:
		return numberKindOf(v)
	}
}
