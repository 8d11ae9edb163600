package typeadapter

// Package typeadapter compiles JSON Schema documents into runtime validators.
//
// - Compile lowers a schema (mapping, bool, raw JSON, or YAML via CompileYAML)
//   into a TypeAdapter whose Validate walks plain decoded values
// - A stable error model via Issues (JSON Pointer, code, message)
// - $ref, allOf/anyOf/oneOf, not, const and enum handling, with forward and
//   self references resolved through a deferred bind step
// - Schema re-serializes the compiled form without inventing keywords the
//   source never had
//
// Design policy:
// - Keep only public APIs in the root package; put the compiler under internal/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  ta, diag, err := typeadapter.Compile(doc, typeadapter.Options{})
//  out, err := ta.Validate(ctx, value)
//  out, err = ta.ValidateJSON(ctx, raw)
//
//  ns := typeadapter.NewNamespace()
//  a, _, _ := typeadapter.Compile(docA, typeadapter.Options{Namespace: ns})
//  b, _, _ := typeadapter.Compile(docB, typeadapter.Options{Namespace: ns})
//
