package compile

import (
	"fmt"

	"github.com/akshaylive/typeadapter/internal/ir"
)

// Namespace maps normalized definition keys to compiled types. One instance is
// created per top-level compilation; an optional second, caller-supplied
// instance may be shared across calls so externally-held forward references
// stay resolvable. Writes are sequential (definitions in collection order,
// last write wins); reads happen at bind time.
type Namespace struct {
	types map[string]ir.Type
}

func NewNamespace() *Namespace {
	return &Namespace{types: make(map[string]ir.Type)}
}

// Define records a compiled type under key, overwriting any earlier entry.
func (n *Namespace) Define(key string, t ir.Type) { n.types[key] = t }

// Resolve looks up a key.
func (n *Namespace) Resolve(key string) (ir.Type, bool) {
	t, ok := n.types[key]
	return t, ok
}

// Len reports the number of entries.
func (n *Namespace) Len() int { return len(n.types) }

// All returns the recorded types in unspecified order.
func (n *Namespace) All() []ir.Type {
	out := make([]ir.Type, 0, len(n.types))
	for _, t := range n.types {
		out = append(out, t)
	}
	return out
}

// Bind resolves every forward reference reachable from the given roots,
// consulting local first and shared second. Self- and mutually-recursive
// shapes are handled by marking nodes before descending. A key absent from
// both namespaces aborts with ErrUnresolvedReference.
func Bind(roots []ir.Type, local, shared *Namespace) error {
	seen := make(map[ir.Type]struct{})
	for _, r := range roots {
		if err := bind(r, local, shared, seen); err != nil {
			return err
		}
	}
	return nil
}

func bind(t ir.Type, local, shared *Namespace, seen map[ir.Type]struct{}) error {
	if t == nil {
		return nil
	}
	if _, ok := seen[t]; ok {
		return nil
	}
	seen[t] = struct{}{}
	switch n := t.(type) {
	case *ir.Array:
		return bind(n.Elem, local, shared, seen)
	case *ir.Tuple:
		for _, it := range n.Items {
			if err := bind(it, local, shared, seen); err != nil {
				return err
			}
		}
	case *ir.Object:
		for _, f := range n.Fields {
			if err := bind(f.Type, local, shared, seen); err != nil {
				return err
			}
		}
	case *ir.Union:
		for _, a := range n.Alts {
			if err := bind(a, local, shared, seen); err != nil {
				return err
			}
		}
	case *ir.Intersection:
		for _, b := range n.Branches {
			if err := bind(b, local, shared, seen); err != nil {
				return err
			}
		}
	case *ir.Not:
		return bind(n.Inner, local, shared, seen)
	case *ir.Ref:
		if n.Target != nil {
			return nil
		}
		target, ok := local.Resolve(n.Key)
		if !ok && shared != nil {
			target, ok = shared.Resolve(n.Key)
		}
		if !ok {
			return fmt.Errorf("%w: %q (from %q)", ErrUnresolvedReference, n.Key, n.RawRef)
		}
		n.Target = target
		// Targets live in a namespace and are bound as roots; no descent here.
	}
	return nil
}
