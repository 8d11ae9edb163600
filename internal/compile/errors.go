package compile

import "errors"

// Compile-time failures. All of them abort the entire compilation; there is no
// partial or best-effort result. The root package re-exports these sentinels
// so callers can test them with errors.Is.
var (
	// ErrUnsupportedSchema reports a fragment that matches none of the
	// dispatch rules.
	ErrUnsupportedSchema = errors.New("typeadapter: unsupported schema")

	// ErrTypeConflict reports allOf branches declaring incompatible types, or
	// overlapping object properties with incompatible declared types.
	ErrTypeConflict = errors.New("typeadapter: incompatible types in allOf")

	// ErrUnresolvedReference reports a $ref whose namespace key is absent at
	// bind time.
	ErrUnresolvedReference = errors.New("typeadapter: unresolved reference")
)
