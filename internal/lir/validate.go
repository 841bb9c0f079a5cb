package lir

import (
	"fmt"
	"slices"

	"eir/internal/ir"
)

// ViolationKind classifies a Violation.
type ViolationKind uint8

const (
	// DoubleAssign: an id is written more than once.
	DoubleAssign ViolationKind = iota
	// UseOfUnassigned: an id is read but never written.
	UseOfUnassigned
	// BadTarget: a successor label does not address a block.
	BadTarget
	// PhiNotPredecessor: a phi entry names a block that has no edge here.
	PhiNotPredecessor
	// EmptyTarget: a reachable block has no phis, ops or successors.
	EmptyTarget
)

func (k ViolationKind) String() string {
	switch k {
	case DoubleAssign:
		return "double assignment"
	case UseOfUnassigned:
		return "use of unassigned"
	case BadTarget:
		return "bad target"
	case PhiNotPredecessor:
		return "phi entry from non-predecessor"
	case EmptyTarget:
		return "empty jump target"
	default:
		return "unknown"
	}
}

// Loc points at the phi or op a Violation was found in.
type Loc struct {
	Block Label
	Phi   bool
	Index int
}

func (l Loc) String() string {
	if l.Phi {
		return fmt.Sprintf("bb%d phi %d", l.Block, l.Index)
	}
	if l.Index < 0 {
		return fmt.Sprintf("bb%d", l.Block)
	}
	return fmt.Sprintf("bb%d op %d", l.Block, l.Index)
}

// Violation is one finding of ValidateSSA or ValidateStructure.
type Violation struct {
	Kind  ViolationKind
	SSA   ir.SSAID
	Label Label
	Loc   Loc
}

func (v Violation) String() string {
	switch v.Kind {
	case DoubleAssign, UseOfUnassigned:
		return fmt.Sprintf("%s: %s of %s", v.Loc, v.Kind, v.SSA)
	default:
		return fmt.Sprintf("%s: %s bb%d", v.Loc, v.Kind, v.Label)
	}
}

// ValidateSSA reports every id written more than once and every id read
// by an op or a phi entry without being written. It checks existence
// only: a write in an unreachable block satisfies a read anywhere.
// Violations are ordered by block, then phis before ops.
func ValidateSSA(f *FunctionCfg) []Violation {
	if f == nil {
		return nil
	}
	var out []Violation
	written := make(map[ir.SSAID]struct{})
	define := func(id ir.SSAID, loc Loc) {
		if _, dup := written[id]; dup {
			out = append(out, Violation{Kind: DoubleAssign, SSA: id, Loc: loc})
			return
		}
		written[id] = struct{}{}
	}
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		for j := range blk.Phis {
			define(blk.Phis[j].Dst, Loc{Block: blk.Label, Phi: true, Index: j})
		}
		for j := range blk.Ops {
			for _, w := range blk.Ops[j].Writes {
				define(w, Loc{Block: blk.Label, Index: j})
			}
		}
	}

	use := func(id ir.SSAID, loc Loc) {
		if _, ok := written[id]; !ok {
			out = append(out, Violation{Kind: UseOfUnassigned, SSA: id, Loc: loc})
		}
	}
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		for j := range blk.Phis {
			for _, e := range blk.Phis[j].Entries {
				use(e.Src, Loc{Block: blk.Label, Phi: true, Index: j})
			}
		}
		for j := range blk.Ops {
			for _, r := range blk.Ops[j].Reads {
				if r.Kind == SourceVar {
					use(r.Var, Loc{Block: blk.Label, Index: j})
				}
			}
		}
	}
	return out
}

// ValidateStructure reports successor labels outside the graph, phi
// entries whose block is not a predecessor, and reachable blocks left
// completely empty.
func ValidateStructure(f *FunctionCfg) []Violation {
	if f == nil {
		return nil
	}
	var out []Violation
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		for _, s := range blk.Succs {
			if !f.Has(s) {
				out = append(out, Violation{Kind: BadTarget, Label: s, Loc: Loc{Block: blk.Label, Index: -1}})
			}
		}
	}

	preds := f.Preds()
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		for j := range blk.Phis {
			for _, e := range blk.Phis[j].Entries {
				if !slices.Contains(preds[i], e.Pred) {
					out = append(out, Violation{Kind: PhiNotPredecessor, SSA: blk.Phis[j].Dst, Label: e.Pred,
						Loc: Loc{Block: blk.Label, Phi: true, Index: j}})
				}
			}
		}
	}

	reachable := Reachable(f)
	for i := range f.Blocks {
		if reachable[i] && f.Blocks[i].Empty() {
			l := f.Blocks[i].Label
			out = append(out, Violation{Kind: EmptyTarget, Label: l, Loc: Loc{Block: l, Index: -1}})
		}
	}
	return out
}
