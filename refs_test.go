package typeadapter_test

import (
	"errors"
	"testing"

	ta "github.com/akshaylive/typeadapter"
)

func TestRefs_SelfReferentialList(t *testing.T) {
	adapter := mustCompile(t, map[string]any{
		"$defs": map[string]any{
			"Node": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"value": map[string]any{"type": "integer"},
					"next": map[string]any{
						"anyOf": []any{
							map[string]any{"$ref": "#/$defs/Node"},
							map[string]any{"type": "null"},
						},
					},
				},
				"required": []any{"value"},
			},
		},
		"$ref": "#/$defs/Node",
	})

	mustValidate(t, adapter, map[string]any{"value": 1, "next": nil})
	mustValidate(t, adapter, map[string]any{
		"value": 1,
		"next":  map[string]any{"value": 2, "next": nil},
	})
	iss := mustFail(t, adapter, map[string]any{
		"value": 1,
		"next":  map[string]any{"next": nil},
	})
	if iss[0].Code != ta.CodeUnionNoMatch {
		t.Fatalf("expected the inner node to fail the union, got %v", iss)
	}
}

func TestRefs_ForwardReferenceAcrossDefinitions(t *testing.T) {
	// "Account" references "Profile" even though Account sorts first.
	adapter := mustCompile(t, map[string]any{
		"$defs": map[string]any{
			"Account": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"profile": map[string]any{"$ref": "#/$defs/Profile"},
				},
				"required": []any{"profile"},
			},
			"Profile": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"bio": map[string]any{"type": "string"},
				},
			},
		},
		"$ref": "#/$defs/Account",
	})
	mustValidate(t, adapter, map[string]any{
		"profile": map[string]any{"bio": "hi"},
	})
	mustFail(t, adapter, map[string]any{"profile": "not an object"})
}

func TestRefs_NestedDefinitionKey(t *testing.T) {
	adapter := mustCompile(t, map[string]any{
		"$defs": map[string]any{
			"Address": map[string]any{
				"$defs": map[string]any{
					"Country": map[string]any{"type": "string", "minLength": 2},
				},
				"type": "object",
				"properties": map[string]any{
					"country": map[string]any{"$ref": "#/$defs/Address/$defs/Country"},
				},
				"required": []any{"country"},
			},
		},
		"$ref": "#/$defs/Address",
	})
	mustValidate(t, adapter, map[string]any{"country": "JP"})
	mustFail(t, adapter, map[string]any{"country": "J"})
}

func TestRefs_Unresolved(t *testing.T) {
	_, _, err := ta.Compile(map[string]any{"$ref": "#/$defs/Missing"}, ta.Options{})
	if !errors.Is(err, ta.ErrUnresolvedReference) {
		t.Fatalf("expected ErrUnresolvedReference, got %v", err)
	}
}

func TestRefs_NonStringRefFailsCompile(t *testing.T) {
	for _, bad := range []any{5, true, []any{"#/$defs/X"}, map[string]any{}} {
		_, _, err := ta.Compile(map[string]any{"$ref": bad}, ta.Options{})
		if !errors.Is(err, ta.ErrUnsupportedSchema) {
			t.Fatalf("expected ErrUnsupportedSchema for $ref %v, got %v", bad, err)
		}
	}
}

func TestRefs_SharedNamespaceAcrossDocuments(t *testing.T) {
	ns := ta.NewNamespace()

	_, _, err := ta.Compile(map[string]any{
		"$defs": map[string]any{
			"User": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []any{"name"},
			},
		},
		"type": "object",
	}, ta.Options{Namespace: ns})
	if err != nil {
		t.Fatalf("first compile failed: %v", err)
	}
	if ns.Len() == 0 {
		t.Fatalf("expected the namespace to receive definitions")
	}

	second, _, err := ta.Compile(map[string]any{"$ref": "#/$defs/User"}, ta.Options{Namespace: ns})
	if err != nil {
		t.Fatalf("second compile should resolve through the shared namespace: %v", err)
	}
	mustValidate(t, second, map[string]any{"name": "rin"})

	// Without the namespace the same reference is unresolved.
	_, _, err = ta.Compile(map[string]any{"$ref": "#/$defs/User"}, ta.Options{})
	if !errors.Is(err, ta.ErrUnresolvedReference) {
		t.Fatalf("expected isolation without a shared namespace, got %v", err)
	}
}

func TestRefs_ExternalRefDegradesToFinalSegment(t *testing.T) {
	adapter, diag, err := ta.Compile(map[string]any{
		"$defs": map[string]any{
			"Widget": map[string]any{"type": "integer"},
		},
		"type": "object",
		"properties": map[string]any{
			"w": map[string]any{"$ref": "https://example.com/schemas/widget"},
		},
		"required": []any{"w"},
	}, ta.Options{})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !diag.HasWarnings() {
		t.Fatalf("expected a warning for the external reference")
	}
	// The final segment "widget" normalizes to the local "Widget" definition.
	mustValidate(t, adapter, map[string]any{"w": 3})
	mustFail(t, adapter, map[string]any{"w": "three"})
}
