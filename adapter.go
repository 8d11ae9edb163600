package typeadapter

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/akshaylive/typeadapter/internal/ir"
)

// TypeAdapter validates runtime values against a compiled schema. It is
// immutable after Compile and safe for concurrent use.
type TypeAdapter struct {
	root ir.Type
}

// Validate checks v against the compiled schema. On success it returns the
// accepted value, which may differ from the input: objects come back with
// defaults injected and unknown keys stripped (unless additionalProperties
// forbids them, which is an error instead). On failure the error is an Issues
// value; use AsIssues to inspect individual entries.
func (ta *TypeAdapter) Validate(ctx context.Context, v any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, iss := validateAt(ctx, "/", ta.root, v)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ValidateJSON decodes raw JSON and validates the result. Numbers are decoded
// as json.Number so integer inputs survive without float rounding.
func (ta *TypeAdapter) ValidateJSON(ctx context.Context, raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{issueWithCause("/", CodeParseError, err)}
	}
	// Trailing garbage after the first value is a parse error too.
	var trailing any
	if err := dec.Decode(&trailing); err == nil {
		return nil, Issues{issueAt("/", CodeParseError, map[string]any{"reason": "trailing data"})}
	}
	return ta.Validate(ctx, v)
}

// Schema re-serializes the compiled form back into a JSON Schema fragment.
// Keywords absent from the source are absent here too.
func (ta *TypeAdapter) Schema() map[string]any {
	return ir.ToFragment(ta.root)
}

// MarshalJSON emits the Schema projection.
func (ta *TypeAdapter) MarshalJSON() ([]byte, error) {
	return json.Marshal(ta.Schema())
}

func issueWithCause(path, code string, cause error) Issue {
	i := issueAt(path, code, nil)
	i.Cause = cause
	i.Message = fmt.Sprintf("%s: %v", i.Message, cause)
	return i
}
