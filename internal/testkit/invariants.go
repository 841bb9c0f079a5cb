// Package testkit holds graph checks shared by the tests of several
// packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"eir/internal/lir"
)

// CheckCFG runs the minimal invariants every lowered graph satisfies:
// 1) every block's Label is its arena index and Entry addresses a block
// 2) ValidateSSA and ValidateStructure report nothing
// 3) every phi has exactly one entry per incoming edge
func CheckCFG(f *lir.FunctionCfg) error {
	if f == nil {
		return fmt.Errorf("nil graph")
	}
	if !f.Has(f.Entry) {
		return fmt.Errorf("entry bb%d does not exist", f.Entry)
	}
	for i := range f.Blocks {
		idx, err := safecast.Conv[int32](i)
		if err != nil {
			return fmt.Errorf("block index %d: %w", i, err)
		}
		if got := f.Blocks[i].Label; got != lir.Label(idx) {
			return fmt.Errorf("block at index %d is labelled bb%d", i, got)
		}
	}

	if v := lir.ValidateSSA(f); len(v) > 0 {
		return fmt.Errorf("SSA: %v", v)
	}
	if v := lir.ValidateStructure(f); len(v) > 0 {
		return fmt.Errorf("structure: %v", v)
	}

	preds := f.Preds()
	for i := range f.Blocks {
		b := &f.Blocks[i]
		for pi, phi := range b.Phis {
			want := make(map[lir.Label]int, len(preds[i]))
			for _, p := range preds[i] {
				want[p]++
			}
			for _, e := range phi.Entries {
				want[e.Pred]--
			}
			for p, n := range want {
				if n != 0 {
					return fmt.Errorf("bb%d phi %d: %d edges from bb%d without a matching entry", b.Label, pi, n, p)
				}
			}
		}
	}
	return nil
}
