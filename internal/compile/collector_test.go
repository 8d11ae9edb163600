package compile

import (
	"testing"

	"github.com/akshaylive/typeadapter/internal/ir"
)

func TestCollectDefinitions_NestedAndOrdered(t *testing.T) {
	doc := map[string]any{
		"$defs": map[string]any{
			"Zeta": map[string]any{"type": "string"},
			"Address": map[string]any{
				"type": "object",
				"$defs": map[string]any{
					"Country": map[string]any{"type": "string"},
				},
			},
		},
	}
	defs := CollectDefinitions(doc)
	paths := make([]string, len(defs))
	for i, d := range defs {
		paths[i] = d.Path
	}
	want := []string{"Address", "Address/Country", "Zeta"}
	if len(paths) != len(want) {
		t.Fatalf("got paths %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("got paths %v, want %v", paths, want)
		}
	}
}

func TestCollectDefinitions_DefsWinsOverDefinitions(t *testing.T) {
	doc := map[string]any{
		"$defs":       map[string]any{"A": map[string]any{"type": "string"}},
		"definitions": map[string]any{"B": map[string]any{"type": "integer"}},
	}
	defs := CollectDefinitions(doc)
	if len(defs) != 1 || defs[0].Path != "A" {
		t.Fatalf("expected only $defs entries, got %v", defs)
	}
}

func TestCollectDefinitions_BooleanEntryRecorded(t *testing.T) {
	doc := map[string]any{
		"$defs": map[string]any{"Nothing": false},
	}
	defs := CollectDefinitions(doc)
	if len(defs) != 1 || defs[0].Schema != false {
		t.Fatalf("boolean definitions should be recorded, got %v", defs)
	}
}

func TestCompileDocument_LastWriteWinsOnKeyCollision(t *testing.T) {
	// "foo" and "Foo" normalize to the same key; the later sibling wins.
	c := New(nil, nil)
	_, err := c.CompileDocument(map[string]any{
		"$defs": map[string]any{
			"Foo": map[string]any{"type": "integer"},
			"foo": map[string]any{"type": "string"},
		},
		"$ref": "#/$defs/foo",
	})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	got, ok := c.Namespace().Resolve("Foo")
	if !ok {
		t.Fatalf("expected key Foo to exist")
	}
	p, ok := got.(*ir.Primitive)
	if !ok || p.Name != "string" {
		t.Fatalf("expected the later sibling (string) to win, got %#v", got)
	}
}
