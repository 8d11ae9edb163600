package typeadapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akshaylive/typeadapter/internal/compile"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodeTooSmall     = "too_small"
	CodeTooBig       = "too_big"
	CodeTooShort     = "too_short"
	CodeTooLong      = "too_long"
	CodePattern      = "pattern"
	CodeInvalidEnum  = "invalid_enum"
	CodeInvalidConst = "invalid_const"
	CodeNotMultiple  = "not_multiple_of"
	CodeUniqueness   = "uniqueness"
	// Composition outcomes
	CodeUnionNoMatch = "union_no_match"
	CodeIntersection = "intersection"
	CodeNotMatched   = "not_matched"
	CodeNeverValid   = "never_valid"
	CodeParseError   = "parse_error"
)

// Compile-time failures. These are sentinel errors for errors.Is; the wrapped
// message carries the offending fragment's detail.
var (
	// ErrUnsupportedSchema reports a fragment no compilation rule accepts.
	ErrUnsupportedSchema = compile.ErrUnsupportedSchema
	// ErrTypeConflict reports an allOf whose branches declare incompatible
	// shapes for the same property.
	ErrTypeConflict = compile.ErrTypeConflict
	// ErrUnresolvedReference reports a $ref whose target never appears in the
	// document or the shared namespace.
	ErrUnresolvedReference = compile.ErrUnresolvedReference
	// ErrNotAnObject is returned by Transform when the compiled result is not
	// an object model.
	ErrNotAnObject = errors.New("typeadapter: schema does not describe an object; use Compile instead of Transform")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected values, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
