package ir

// Package ir defines the compiled, host-independent representation of a
// validated shape. The compiler lowers schema fragments into these nodes; the
// runtime engine in the root package walks them. This package is internal and
// not part of the public API.

import "regexp"

// Kind identifies an IR node type.
type Kind int

const (
	KindAny Kind = iota
	KindNever
	KindPrimitive
	KindArray
	KindTuple
	KindObject
	KindEnum
	KindConst
	KindUnion
	KindIntersection
	KindNot
	KindRef
)

// Type is the root IR node interface.
type Type interface {
	Kind() Kind
}

// Any accepts every value (empty schema, boolean schema true).
type Any struct{}

func (*Any) Kind() Kind { return KindAny }

// Never rejects every value (boolean schema false, empty enum).
type Never struct {
	Reason string
}

func (*Never) Kind() Kind { return KindNever }

// Primitive represents string/integer/number/boolean/null.
type Primitive struct {
	Name string // JSON Schema type name
	// Constraints holds the recognized keywords for this primitive verbatim
	// (length/pattern for strings, bounds/multipleOf for numbers, plus
	// title/description). Values are passed through to the runtime engine
	// uninterpreted so the original fragment can be reproduced exactly.
	Constraints map[string]any
	// Pattern is the precompiled "pattern" constraint, when present.
	Pattern *regexp.Regexp
}

func (*Primitive) Kind() Kind { return KindPrimitive }

// Array represents a homogeneous sequence.
type Array struct {
	Elem     Type
	HasItems bool // whether the source fragment carried an "items" schema
	// Constraints holds minItems/maxItems/uniqueItems plus title/description,
	// verbatim.
	Constraints map[string]any
}

func (*Array) Kind() Kind { return KindArray }

// Tuple represents positional validation (prefixItems, or list-form items).
type Tuple struct {
	Items   []Type
	Keyword string // "prefixItems" or "items", for schema reproduction
}

func (*Tuple) Kind() Kind { return KindTuple }

// Field maps an object property name to its compiled type and metadata.
type Field struct {
	Name string
	Type Type
	// Required is the effective requirement used by validation: the property is
	// listed under "required" and carries no default. A declared default makes
	// the field optional even when listed required (default-wins policy).
	Required   bool
	HasDefault bool
	Default    any
}

// Object represents a record with named, typed fields, or an open string-keyed
// mapping when Open is set.
type Object struct {
	// Name titles the object: the explicit "title" when present, otherwise a
	// generated DynamicType_<n> / CombinedModel_<n>. Only explicit titles
	// (TitleSet) are reproduced in schema output.
	Name        string
	TitleSet    bool
	Description string

	Fields []Field // sorted by name for deterministic behavior
	// RequiredRaw is the source "required" value verbatim, reproduced as-is by
	// schema output regardless of the default-wins policy above.
	RequiredRaw any
	// AdditionalProperties carries the source keyword verbatim; APSet records
	// whether it was present. false triggers unknown-key rejection; any other
	// value is permissive.
	AdditionalProperties any
	APSet                bool

	// Open marks an object without "properties": an untyped string-keyed map.
	Open bool
	// Constraints holds minProperties/maxProperties verbatim for open objects.
	Constraints map[string]any
}

func (*Object) Kind() Kind { return KindObject }

// Enum base kinds.
const (
	BaseLiteral = "" // heterogeneous or boolean values, compared by equality
	BaseString  = "string"
	BaseInt     = "int"
	BaseFloat   = "float"
)

// Enum represents an ordered set of literal values.
type Enum struct {
	Values      []any  // verbatim, in declaration order
	TypeName    string // declared "type" keyword, "" when absent
	Base        string // one of the Base* kinds
	Name        string
	TitleSet    bool
	Description string
}

func (*Enum) Kind() Kind { return KindEnum }

// Const accepts exactly one literal value, compared by value.
type Const struct {
	Value       any
	Description string
}

func (*Const) Kind() Kind { return KindConst }

// Union represents anyOf/oneOf alternatives. oneOf exclusivity is not
// enforced; both keywords validate as "at least one branch matches".
type Union struct {
	Alts    []Type
	Keyword string // "anyOf" or "oneOf", for schema reproduction
}

func (*Union) Kind() Kind { return KindUnion }

// Intersection validates a value against every branch independently and
// returns the original input unchanged.
type Intersection struct {
	Branches []Type
	// Fragments preserves the source allOf branch list verbatim for schema
	// output. When HasRefs is set the output degrades to an unconstrained
	// fragment because the references cannot be resolved from the shape alone.
	Fragments []map[string]any
	HasRefs   bool
}

func (*Intersection) Kind() Kind { return KindIntersection }

// Not accepts a value only when the inner type rejects it.
type Not struct {
	Inner    Type
	Fragment map[string]any // source "not" fragment verbatim
}

func (*Not) Kind() Kind { return KindNot }

// Ref is a forward reference into the namespace, resolved at bind time.
type Ref struct {
	Key    string // normalized namespace key
	RawRef string // source $ref string, for schema reproduction
	Target Type   // set by Bind; nil before binding
}

func (*Ref) Kind() Kind { return KindRef }
