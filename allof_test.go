package typeadapter_test

import (
	"errors"
	"strings"
	"testing"

	ta "github.com/akshaylive/typeadapter"
)

func TestAllOf_ObjectMerge(t *testing.T) {
	adapter := mustCompile(t, map[string]any{
		"title": "Account",
		"allOf": []any{
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{"type": "integer"},
				},
				"required": []any{"id"},
			},
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{"type": "string"},
				},
				"required": []any{"id", "email"},
			},
		},
	})

	mustValidate(t, adapter, map[string]any{"id": 1, "email": "a@b"})

	// Both requirements survive the merge; "id" is required once, not twice.
	iss := mustFail(t, adapter, map[string]any{"id": 1})
	if len(iss) != 1 || iss[0].Code != ta.CodeRequired || iss[0].Path != "/email" {
		t.Fatalf("expected one required issue at /email, got %v", iss)
	}
}

func TestAllOf_PropertyTypeConflictFailsCompile(t *testing.T) {
	_, _, err := ta.Compile(map[string]any{
		"allOf": []any{
			map[string]any{
				"type":       "object",
				"properties": map[string]any{"x": map[string]any{"type": "string"}},
			},
			map[string]any{
				"type":       "object",
				"properties": map[string]any{"x": map[string]any{"type": "integer"}},
			},
		},
	}, ta.Options{})
	if !errors.Is(err, ta.ErrTypeConflict) {
		t.Fatalf("expected ErrTypeConflict, got %v", err)
	}
	if !strings.Contains(err.Error(), `"x"`) {
		t.Fatalf("conflict should name the property, got %v", err)
	}
}

func TestAllOf_IncompatiblePrimitivesCompileButNeverValidate(t *testing.T) {
	// No shared declared type, nothing object-shaped: runtime intersection.
	adapter := mustCompile(t, map[string]any{
		"allOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "integer"},
		},
	})
	iss := mustFail(t, adapter, "hello")
	if iss[0].Code != ta.CodeIntersection {
		t.Fatalf("expected intersection failure, got %v", iss)
	}
	mustFail(t, adapter, 5)
}

func TestAllOf_SharedTypeMergesConstraints(t *testing.T) {
	adapter := mustCompile(t, map[string]any{
		"allOf": []any{
			map[string]any{"type": "integer", "minimum": 0},
			map[string]any{"type": "integer", "maximum": 10, "minimum": 5},
		},
	})
	// First branch wins on overlap: minimum stays 0.
	mustValidate(t, adapter, 3)
	mustValidate(t, adapter, 10)
	mustFail(t, adapter, -1)
	mustFail(t, adapter, 11)
}

func TestAllOf_Empty(t *testing.T) {
	adapter := mustCompile(t, map[string]any{"allOf": []any{}})
	mustValidate(t, adapter, map[string]any{"free": true})
	mustValidate(t, adapter, nil)
}

func TestAllOf_FalseBranch(t *testing.T) {
	adapter := mustCompile(t, map[string]any{
		"allOf": []any{true, false},
	})
	iss := mustFail(t, adapter, 1)
	if iss[0].Code != ta.CodeNeverValid {
		t.Fatalf("expected never_valid, got %v", iss)
	}
}

func TestAllOf_WithRefIsRuntimeIntersection(t *testing.T) {
	adapter := mustCompile(t, map[string]any{
		"$defs": map[string]any{
			"Base": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{"type": "integer"},
				},
				"required": []any{"id"},
			},
		},
		"allOf": []any{
			map[string]any{"$ref": "#/$defs/Base"},
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
			},
		},
	})

	in := map[string]any{"id": 1, "name": "n"}
	out := mustValidate(t, adapter, in)
	// Intersections return the input untouched.
	if m, ok := out.(map[string]any); !ok || len(m) != 2 {
		t.Fatalf("expected the original value back, got %v", out)
	}

	iss := mustFail(t, adapter, map[string]any{"name": "n"})
	if iss[0].Code != ta.CodeIntersection {
		t.Fatalf("expected intersection failure, got %v", iss)
	}
	if _, ok := ta.AsIssues(iss[0].Cause); !ok {
		t.Fatalf("expected the branch issues as cause, got %v", iss[0].Cause)
	}
}

func TestAllOf_NestedComposition(t *testing.T) {
	adapter := mustCompile(t, map[string]any{
		"allOf": []any{
			map[string]any{
				"allOf": []any{
					map[string]any{
						"type": "object",
						"properties": map[string]any{
							"a": map[string]any{"type": "string"},
						},
						"required": []any{"a"},
					},
				},
			},
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"b": map[string]any{"type": "integer"},
				},
			},
		},
	})
	mustValidate(t, adapter, map[string]any{"a": "x", "b": 2})
	mustFail(t, adapter, map[string]any{"b": 2})
}
