package typeadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/akshaylive/typeadapter/internal/ir"
)

// validateAt walks the compiled tree alongside the value. It returns the
// accepted value (post defaults and unknown-key stripping) and any issues,
// each anchored at a JSON Pointer under path.
func validateAt(ctx context.Context, path string, t ir.Type, v any) (any, Issues) {
	switch n := t.(type) {
	case *ir.Any:
		return v, nil
	case *ir.Never:
		return nil, Issues{issueAt(path, CodeNeverValid, map[string]any{"reason": n.Reason})}
	case *ir.Primitive:
		return validatePrimitive(path, n, v)
	case *ir.Array:
		return validateArray(ctx, path, n, v)
	case *ir.Tuple:
		return validateTuple(ctx, path, n, v)
	case *ir.Object:
		return validateObject(ctx, path, n, v)
	case *ir.Enum:
		return validateEnum(path, n, v)
	case *ir.Const:
		if looseEqual(n.Value, v) {
			return v, nil
		}
		return nil, Issues{issueAt(path, CodeInvalidConst, map[string]any{"expected": n.Value, "got": v})}
	case *ir.Union:
		return validateUnion(ctx, path, n, v)
	case *ir.Intersection:
		return validateIntersection(ctx, path, n, v)
	case *ir.Not:
		return validateNot(ctx, path, n, v)
	case *ir.Ref:
		if n.Target == nil {
			return nil, Issues{issueWithCause(path, CodeParseError,
				fmt.Errorf("unbound reference %q", n.RawRef))}
		}
		return validateAt(ctx, path, n.Target, v)
	default:
		return nil, Issues{issueWithCause(path, CodeParseError,
			fmt.Errorf("unhandled node kind %v", t.Kind()))}
	}
}

func joinPath(base, seg string) string {
	if base == "/" {
		return "/" + seg
	}
	return base + "/" + seg
}

// ---- primitives ----

func validatePrimitive(path string, p *ir.Primitive, v any) (any, Issues) {
	switch p.Name {
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, Issues{typeIssue(path, "string", v)}
		}
		return s, stringConstraints(path, p, s)
	case "boolean":
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, Issues{typeIssue(path, "boolean", v)}
	case "null":
		if v == nil {
			return nil, nil
		}
		return nil, Issues{typeIssue(path, "null", v)}
	case "integer":
		f, ok := asFloat(v)
		if !ok || !isIntegral(f) {
			return nil, Issues{typeIssue(path, "integer", v)}
		}
		return v, numberConstraints(path, p, f)
	case "number":
		f, ok := asFloat(v)
		if !ok {
			return nil, Issues{typeIssue(path, "number", v)}
		}
		return v, numberConstraints(path, p, f)
	default:
		return nil, Issues{typeIssue(path, p.Name, v)}
	}
}

func stringConstraints(path string, p *ir.Primitive, s string) Issues {
	var iss Issues
	n := utf8.RuneCountInString(s)
	if min, ok := intConstraint(p.Constraints, "minLength"); ok && n < min {
		iss = AppendIssues(iss, issueAt(path, CodeTooShort, map[string]any{"min": min, "got": n}))
	}
	if max, ok := intConstraint(p.Constraints, "maxLength"); ok && n > max {
		iss = AppendIssues(iss, issueAt(path, CodeTooLong, map[string]any{"max": max, "got": n}))
	}
	if p.Pattern != nil && !p.Pattern.MatchString(s) {
		iss = AppendIssues(iss, issueAt(path, CodePattern, map[string]any{"pattern": p.Pattern.String()}))
	}
	return iss
}

func numberConstraints(path string, p *ir.Primitive, f float64) Issues {
	var iss Issues
	if min, ok := floatConstraint(p.Constraints, "minimum"); ok && f < min {
		iss = AppendIssues(iss, issueAt(path, CodeTooSmall, map[string]any{"min": min, "got": f}))
	}
	if max, ok := floatConstraint(p.Constraints, "maximum"); ok && f > max {
		iss = AppendIssues(iss, issueAt(path, CodeTooBig, map[string]any{"max": max, "got": f}))
	}
	if min, ok := floatConstraint(p.Constraints, "exclusiveMinimum"); ok && f <= min {
		iss = AppendIssues(iss, issueAt(path, CodeTooSmall, map[string]any{"exclusiveMin": min, "got": f}))
	}
	if max, ok := floatConstraint(p.Constraints, "exclusiveMaximum"); ok && f >= max {
		iss = AppendIssues(iss, issueAt(path, CodeTooBig, map[string]any{"exclusiveMax": max, "got": f}))
	}
	if m, ok := floatConstraint(p.Constraints, "multipleOf"); ok && m != 0 {
		// Quotient integrality with a relative tolerance: fractional moduli
		// like 0.1 do not divide exactly in binary floating point.
		q := f / m
		if math.Abs(q-math.Round(q)) > 1e-9*math.Max(1, math.Abs(q)) {
			iss = AppendIssues(iss, issueAt(path, CodeNotMultiple, map[string]any{"multipleOf": m, "got": f}))
		}
	}
	return iss
}

// ---- sequences ----

func validateArray(ctx context.Context, path string, a *ir.Array, v any) (any, Issues) {
	items, ok := v.([]any)
	if !ok {
		return nil, Issues{typeIssue(path, "array", v)}
	}
	var iss Issues
	if min, ok := intConstraint(a.Constraints, "minItems"); ok && len(items) < min {
		iss = AppendIssues(iss, issueAt(path, CodeTooShort, map[string]any{"min": min, "got": len(items)}))
	}
	if max, ok := intConstraint(a.Constraints, "maxItems"); ok && len(items) > max {
		iss = AppendIssues(iss, issueAt(path, CodeTooLong, map[string]any{"max": max, "got": len(items)}))
	}
	if uniq, ok := a.Constraints["uniqueItems"].(bool); ok && uniq {
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if looseEqual(items[i], items[j]) {
					iss = AppendIssues(iss, issueAt(joinPath(path, fmt.Sprint(j)), CodeUniqueness,
						map[string]any{"firstIndex": i}))
				}
			}
		}
	}
	out := make([]any, len(items))
	for i, e := range items {
		ev, eiss := validateAt(ctx, joinPath(path, fmt.Sprint(i)), a.Elem, e)
		if len(eiss) > 0 {
			iss = AppendIssues(iss, eiss...)
			continue
		}
		out[i] = ev
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func validateTuple(ctx context.Context, path string, tp *ir.Tuple, v any) (any, Issues) {
	items, ok := v.([]any)
	if !ok {
		return nil, Issues{typeIssue(path, "array", v)}
	}
	if len(items) != len(tp.Items) {
		return nil, Issues{issueAt(path, CodeInvalidType,
			map[string]any{"expectedLength": len(tp.Items), "got": len(items)})}
	}
	var iss Issues
	out := make([]any, len(items))
	for i, e := range items {
		ev, eiss := validateAt(ctx, joinPath(path, fmt.Sprint(i)), tp.Items[i], e)
		if len(eiss) > 0 {
			iss = AppendIssues(iss, eiss...)
			continue
		}
		out[i] = ev
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ---- objects ----

func validateObject(ctx context.Context, path string, o *ir.Object, v any) (any, Issues) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{typeIssue(path, "object", v)}
	}
	var iss Issues
	if o.Open {
		if min, ok := intConstraint(o.Constraints, "minProperties"); ok && len(m) < min {
			iss = AppendIssues(iss, issueAt(path, CodeTooShort, map[string]any{"min": min, "got": len(m)}))
		}
		if max, ok := intConstraint(o.Constraints, "maxProperties"); ok && len(m) > max {
			iss = AppendIssues(iss, issueAt(path, CodeTooLong, map[string]any{"max": max, "got": len(m)}))
		}
		if ap, isBool := o.AdditionalProperties.(bool); o.APSet && isBool && !ap && len(m) > 0 {
			for _, k := range sortedMapKeys(m) {
				iss = AppendIssues(iss, issueAt(joinPath(path, k), CodeUnknownKey, nil))
			}
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return m, nil
	}

	out := make(map[string]any, len(o.Fields))
	known := make(map[string]struct{}, len(o.Fields))
	for _, f := range o.Fields {
		known[f.Name] = struct{}{}
		fv, present := m[f.Name]
		if !present {
			switch {
			case f.HasDefault:
				out[f.Name] = f.Default
			case f.Required:
				iss = AppendIssues(iss, issueAt(joinPath(path, f.Name), CodeRequired, nil))
			default:
				out[f.Name] = nil
			}
			continue
		}
		// Optional fields accept an explicit null without consulting the
		// field type; required fields do not.
		if fv == nil && !f.Required {
			out[f.Name] = nil
			continue
		}
		got, fiss := validateAt(ctx, joinPath(path, f.Name), f.Type, fv)
		if len(fiss) > 0 {
			iss = AppendIssues(iss, fiss...)
			continue
		}
		out[f.Name] = got
	}

	if extras := extraKeys(m, known); len(extras) > 0 {
		if ap, isBool := o.AdditionalProperties.(bool); o.APSet && isBool && !ap {
			for _, k := range extras {
				iss = AppendIssues(iss, issueAt(joinPath(path, k), CodeUnknownKey, nil))
			}
		}
		// Otherwise unknown keys are dropped from the accepted value.
	}

	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func extraKeys(m map[string]any, known map[string]struct{}) []string {
	var out []string
	for k := range m {
		if _, ok := known[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func sortedMapKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ---- value sets ----

func validateEnum(path string, e *ir.Enum, v any) (any, Issues) {
	// A declared base narrows what runtime kinds are even considered.
	switch e.Base {
	case ir.BaseString:
		if _, ok := v.(string); !ok {
			return nil, Issues{typeIssue(path, "string", v)}
		}
	case ir.BaseInt:
		f, ok := asFloat(v)
		if !ok || !isIntegral(f) {
			return nil, Issues{typeIssue(path, "integer", v)}
		}
	case ir.BaseFloat:
		if _, ok := asFloat(v); !ok {
			return nil, Issues{typeIssue(path, "number", v)}
		}
	}
	for _, allowed := range e.Values {
		if looseEqual(allowed, v) {
			return v, nil
		}
	}
	return nil, Issues{issueAt(path, CodeInvalidEnum, map[string]any{"allowed": e.Values, "got": v})}
}

// ---- composition ----

func validateUnion(ctx context.Context, path string, u *ir.Union, v any) (any, Issues) {
	for _, alt := range u.Alts {
		out, iss := validateAt(ctx, path, alt, v)
		if len(iss) == 0 {
			return out, nil
		}
	}
	return nil, Issues{issueAt(path, CodeUnionNoMatch,
		map[string]any{"alternatives": len(u.Alts), "keyword": u.Keyword})}
}

// validateIntersection requires every branch to accept the value and, when all
// do, hands back the input untouched: branch-level coercions and defaults are
// not merged.
func validateIntersection(ctx context.Context, path string, in *ir.Intersection, v any) (any, Issues) {
	for i, b := range in.Branches {
		if _, biss := validateAt(ctx, path, b, v); len(biss) > 0 {
			it := issueAt(path, CodeIntersection, map[string]any{"branch": i})
			it.Cause = biss
			return nil, Issues{it}
		}
	}
	return v, nil
}

func validateNot(ctx context.Context, path string, n *ir.Not, v any) (any, Issues) {
	_, inner := validateAt(ctx, path, n.Inner, v)
	if len(inner) == 0 {
		return nil, Issues{issueAt(path, CodeNotMatched, map[string]any{"schema": n.Fragment})}
	}
	// Infrastructure failures inside the negated branch are real errors, not
	// mismatches.
	for _, it := range inner {
		if it.Code == CodeParseError {
			return nil, inner
		}
	}
	return v, nil
}

// ---- value helpers ----

func typeIssue(path, want string, got any) Issue {
	i := issueAt(path, CodeInvalidType, map[string]any{"expected": want, "got": typeName(got)})
	i.Message = fmt.Sprintf("%s: expected %s, got %s", i.Message, want, typeName(got))
	return i
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// asFloat widens numeric runtime kinds. Booleans are deliberately excluded.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func isIntegral(f float64) bool { return f == float64(int64(f)) }

// looseEqual compares values the way JSON equality does: numbers by numeric
// value regardless of decoded kind, containers element-wise, booleans never
// equal to numbers.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	if _, ok := b.(bool); ok {
		return false
	}
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	switch at := a.(type) {
	case string:
		bs, ok := b.(string)
		return ok && at == bs
	case []any:
		bl, ok := b.([]any)
		if !ok || len(at) != len(bl) {
			return false
		}
		for i := range at {
			if !looseEqual(at[i], bl[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bm, ok := b.(map[string]any)
		if !ok || len(at) != len(bm) {
			return false
		}
		for k, av := range at {
			bv, ok := bm[k]
			if !ok || !looseEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func intConstraint(c map[string]any, key string) (int, bool) {
	f, ok := floatConstraint(c, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func floatConstraint(c map[string]any, key string) (float64, bool) {
	v, ok := c[key]
	if !ok {
		return 0, false
	}
	return asFloat(v)
}
