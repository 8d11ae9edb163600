package typeadapter

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/akshaylive/typeadapter/internal/compile"
	"github.com/akshaylive/typeadapter/internal/ir"
)

// Options tunes compilation.
type Options struct {
	// Namespace, when set, is consulted for references the document itself does
	// not define, and every definition the document declares is published into
	// it. Leaving it nil keeps each Compile call fully isolated.
	Namespace *Namespace
}

// Namespace is a shared registry of compiled definitions. Two documents
// compiled against the same Namespace can reference each other's definitions
// by name. The zero value is not usable; call NewNamespace.
type Namespace struct {
	inner *compile.Namespace
}

// NewNamespace returns an empty shared registry.
func NewNamespace() *Namespace {
	return &Namespace{inner: compile.NewNamespace()}
}

// Len reports how many definitions the namespace holds.
func (n *Namespace) Len() int {
	if n == nil || n.inner == nil {
		return 0
	}
	return n.inner.Len()
}

// Diag carries non-fatal observations from compilation: semantics that were
// degraded rather than rejected (oneOf exclusivity, external references,
// unknown type names, conditional pass-through).
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

// Compile converts a JSON Schema document into a TypeAdapter. schema may be a
// map[string]any, a bool (the degenerate schemas true/false), raw JSON bytes,
// or any value that marshals to a JSON object.
func Compile(schema any, opts Options) (*TypeAdapter, Diag, error) {
	doc, isBool, boolVal, err := coerceSchema(schema)
	if err != nil {
		return nil, nil, err
	}

	d := compile.NewDiag()
	var shared *compile.Namespace
	if opts.Namespace != nil {
		shared = opts.Namespace.inner
	}
	c := compile.New(shared, d)

	if isBool {
		return &TypeAdapter{root: compileBool(boolVal)}, d, nil
	}

	root, err := c.CompileDocument(doc)
	if err != nil {
		return nil, d, err
	}
	return &TypeAdapter{root: root}, d, nil
}

// MustCompile is Compile for package-level adapters; it panics on error and
// discards diagnostics.
func MustCompile(schema any) *TypeAdapter {
	ta, _, err := Compile(schema, Options{})
	if err != nil {
		panic(err)
	}
	return ta
}

func compileBool(v bool) ir.Type {
	if v {
		return &ir.Any{}
	}
	return &ir.Never{Reason: "schema is false"}
}

// coerceSchema normalizes the accepted input forms into a mapping (or a
// degenerate boolean schema).
func coerceSchema(schema any) (doc map[string]any, isBool, boolVal bool, err error) {
	switch s := schema.(type) {
	case nil:
		return nil, true, true, nil
	case bool:
		return nil, true, s, nil
	case map[string]any:
		return s, false, false, nil
	case []byte:
		return decodeSchemaJSON(s)
	case json.RawMessage:
		return decodeSchemaJSON(s)
	case string:
		return decodeSchemaJSON([]byte(s))
	default:
		// Anything else must round-trip through JSON into an object.
		raw, merr := json.Marshal(s)
		if merr != nil {
			return nil, false, false, fmt.Errorf("typeadapter: schema of type %T is not JSON-representable: %w", schema, merr)
		}
		return decodeSchemaJSON(raw)
	}
}

func decodeSchemaJSON(raw []byte) (map[string]any, bool, bool, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, false, fmt.Errorf("typeadapter: invalid schema JSON: %w", err)
	}
	switch t := v.(type) {
	case bool:
		return nil, true, t, nil
	case map[string]any:
		return t, false, false, nil
	default:
		return nil, false, false, fmt.Errorf("typeadapter: schema JSON is %T, want an object or bool", v)
	}
}
