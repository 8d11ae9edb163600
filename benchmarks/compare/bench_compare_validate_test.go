package compare_test

import (
	"context"
	"encoding/json"
	"testing"

	ta "github.com/akshaylive/typeadapter"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Minimal schema that requires id:string; unknowns allowed
const jsonSchemaUser = `{
  "type": "object",
  "properties": {"id": {"type": "string"}},
  "required": ["id"],
  "additionalProperties": true
}`

// ParseAndValidateSchema: use jsonschema/v5 on small payload.
func Benchmark_ParseAndValidateSchema_jsonschema_v5_Small(b *testing.B) {
	comp := jschema.MustCompileString("mem:user", jsonSchemaUser)
	data := []byte(`{"id":"u_1","name":"alice"}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := comp.Validate(bytesToAny(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// Same condition on the typeadapter validation side.
func Benchmark_ParseAndValidateSchema_typeadapter_Small_Object(b *testing.B) {
	ctx := context.Background()
	adapter := ta.MustCompile([]byte(jsonSchemaUser))
	data := []byte(`{"id":"u_1","name":"alice"}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := adapter.ValidateJSON(ctx, data); err != nil {
			b.Fatal(err)
		}
	}
}

// CompileSchema: one-shot compilation cost, both stacks.
func Benchmark_CompileSchema_jsonschema_v5(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jschema.CompileString("mem:user", jsonSchemaUser); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_CompileSchema_typeadapter(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := ta.Compile([]byte(jsonSchemaUser), ta.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

// bytesToAny decodes JSON into any using the stdlib for jsonschema v5 input.
func bytesToAny(b []byte) any {
	var v any
	_ = json.Unmarshal(b, &v)
	return v
}
