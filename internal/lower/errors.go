package lower

import (
	"errors"
	"fmt"

	"eir/internal/hir"
	"eir/internal/ir"
)

var (
	// ErrUnsupported matches every *UnsupportedError.
	ErrUnsupported = errors.New("unsupported construct")
	// ErrInvariant matches every *InvariantError.
	ErrInvariant = errors.New("malformed HIR")
)

// UnsupportedError reports a well-formed construct the lowering cannot
// produce a complete graph for. Only the function being lowered fails.
type UnsupportedError struct {
	Construct hir.ExprKind
	SSA       ir.SSAID
	Reason    string
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("lower: %s %s is not supported", e.Construct, e.SSA)
	}
	return fmt.Sprintf("lower: %s %s is not supported: %s", e.Construct, e.SSA, e.Reason)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// InvariantError reports HIR that upstream should never have produced.
// It is fatal for the whole compilation unit.
type InvariantError struct {
	Kind   hir.ExprKind
	SSA    ir.SSAID
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("lower: invariant violated at %s %s: %s", e.Kind, e.SSA, e.Reason)
}

// Is reports whether target is ErrInvariant.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

func invariant(e *hir.SingleExpr, format string, args ...any) error {
	return &InvariantError{Kind: e.Kind, SSA: e.SSA, Reason: fmt.Sprintf(format, args...)}
}

func payload(e *hir.SingleExpr) error {
	return invariant(e, "unexpected payload %T", e.Data)
}
