package typeadapter

import (
	"context"

	"github.com/akshaylive/typeadapter/internal/ir"
)

// Model is the object-centric view of a compiled schema: named fields,
// requiredness, defaults. Only schemas whose root compiles to an object (after
// following references) can be viewed this way.
type Model struct {
	adapter *TypeAdapter
	obj     *ir.Object
}

// FieldInfo describes one model field.
type FieldInfo struct {
	Name       string
	Required   bool
	HasDefault bool
	Default    any
}

// Transform compiles schema and exposes it as a Model. It fails with
// ErrNotAnObject for any non-object root, including unions and primitives.
//
// Deprecated: Transform predates Compile and only handles object schemas.
// Use Compile, which accepts every schema shape, and call Validate on the
// resulting TypeAdapter.
func Transform(schema any, opts Options) (*Model, Diag, error) {
	ta, d, err := Compile(schema, opts)
	if err != nil {
		return nil, d, err
	}
	obj, ok := objectRoot(ta.root)
	if !ok {
		return nil, d, ErrNotAnObject
	}
	return &Model{adapter: ta, obj: obj}, d, nil
}

func objectRoot(t ir.Type) (*ir.Object, bool) {
	for {
		switch n := t.(type) {
		case *ir.Object:
			return n, true
		case *ir.Ref:
			if n.Target == nil {
				return nil, false
			}
			t = n.Target
		default:
			return nil, false
		}
	}
}

// Name returns the model title.
func (m *Model) Name() string { return m.obj.Name }

// Fields lists the model's fields in name order.
func (m *Model) Fields() []FieldInfo {
	out := make([]FieldInfo, 0, len(m.obj.Fields))
	for _, f := range m.obj.Fields {
		out = append(out, FieldInfo{
			Name:       f.Name,
			Required:   f.Required,
			HasDefault: f.HasDefault,
			Default:    f.Default,
		})
	}
	return out
}

// Instantiate builds an instance from the given values: defaults fill missing
// optional fields, missing required fields and invalid values are errors.
func (m *Model) Instantiate(ctx context.Context, values map[string]any) (map[string]any, error) {
	if values == nil {
		values = map[string]any{}
	}
	out, err := m.adapter.Validate(ctx, values)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// Validate checks v against the model's schema.
func (m *Model) Validate(ctx context.Context, v any) (any, error) {
	return m.adapter.Validate(ctx, v)
}

// Schema re-serializes the model's schema fragment.
func (m *Model) Schema() map[string]any { return m.adapter.Schema() }
