package lower

import (
	"fmt"

	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/pattern"
)

// IncompletePolicy selects what happens to constructs whose lowering
// leaves part of the semantics unexpressed: a try without its catch arm,
// an undiscriminated case fan-out, a closure group without bindings.
type IncompletePolicy uint8

const (
	// IncompleteReject fails the function with an UnsupportedError.
	IncompleteReject IncompletePolicy = iota
	// IncompleteWarn emits the partial graph and records an Incomplete.
	IncompleteWarn
)

func (p IncompletePolicy) String() string {
	switch p {
	case IncompleteReject:
		return "reject"
	case IncompleteWarn:
		return "warn"
	default:
		return "unknown"
	}
}

// ParseIncompletePolicy parses "reject" or "warn".
func ParseIncompletePolicy(s string) (IncompletePolicy, error) {
	switch s {
	case "", "reject":
		return IncompleteReject, nil
	case "warn":
		return IncompleteWarn, nil
	default:
		return IncompleteReject, fmt.Errorf("unknown incomplete policy %q (want reject or warn)", s)
	}
}

// Options configures the lowering of one function.
type Options struct {
	Incomplete IncompletePolicy
	// Compiler, when set, turns every case into a decision tree instead of
	// an undiscriminated fan-out.
	Compiler pattern.Compiler
}

// Incomplete records a construct lowered partially under IncompleteWarn.
type Incomplete struct {
	Construct hir.ExprKind
	SSA       ir.SSAID
	Reason    string
}

func (i Incomplete) String() string {
	return fmt.Sprintf("%s %s: %s", i.Construct, i.SSA, i.Reason)
}
