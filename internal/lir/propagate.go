package lir

import (
	"eir/internal/ir"
)

// PropagateConstants removes every move of an inline literal and replaces
// the reads of its destination with the literal. It returns the number of
// moves removed.
//
// The two phases must not interleave: a literal may be defined in a block
// that comes after a use in label order. Phi entries citing a removed id
// are left in place.
func PropagateConstants(f *FunctionCfg) int {
	if f == nil {
		return 0
	}

	consts := make(map[ir.SSAID]ir.Literal)
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		kept := blk.Ops[:0]
		for _, op := range blk.Ops {
			if isConstMove(&op) {
				consts[op.Writes[0]] = op.Reads[0].Const
				continue
			}
			kept = append(kept, op)
		}
		clear(blk.Ops[len(kept):])
		blk.Ops = kept
	}
	if len(consts) == 0 {
		return 0
	}

	for i := range f.Blocks {
		blk := &f.Blocks[i]
		for j := range blk.Ops {
			reads := blk.Ops[j].Reads
			for k := range reads {
				if reads[k].Kind != SourceVar {
					continue
				}
				if lit, ok := consts[reads[k].Var]; ok {
					reads[k] = Const(lit)
				}
			}
		}
	}
	return len(consts)
}

func isConstMove(op *Op) bool {
	return op.Kind == OpMove &&
		len(op.Reads) == 1 &&
		len(op.Writes) == 1 &&
		op.Reads[0].Kind == SourceConst
}
