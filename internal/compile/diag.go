package compile

import "fmt"

// Diag collects non-fatal warnings produced during compilation: degraded
// behavior such as external references, the oneOf exclusivity gap, or
// permissive additionalProperties handling.
type Diag struct{ ws []string }

func NewDiag() *Diag { return &Diag{} }

func (d *Diag) HasWarnings() bool  { return len(d.ws) > 0 }
func (d *Diag) Warnings() []string { return append([]string(nil), d.ws...) }

func (d *Diag) Warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
