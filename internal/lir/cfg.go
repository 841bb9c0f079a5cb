// Package lir defines the Low-level IR: one control-flow graph of basic
// blocks per function, in SSA form with explicit phi nodes.
//
// Blocks live in an arena addressed by dense Labels; each block owns the
// ordered list of its successors. The graph is built once by the HIR
// lowering through a Builder, rewritten in place by passes and then handed
// to code generation.
package lir

import (
	"eir/internal/ir"
)

// Label addresses a block within its FunctionCfg.
type Label int32

// NoLabel is the invalid label.
const NoLabel Label = -1

// PhiEntry is the value Src flowing in from predecessor Pred.
type PhiEntry struct {
	Pred Label
	Src  ir.SSAID
}

// Phi merges one value per predecessor into Dst.
type Phi struct {
	Dst     ir.SSAID
	Entries []PhiEntry
}

// Block is a list of phi nodes followed by straight-line ops. Succs is
// ordered: kinds that dispatch per edge (calls, case, match) rely on it.
type Block struct {
	Label Label
	Phis  []Phi
	Ops   []Op
	Succs []Label
}

// Empty reports whether the block has no content and no outgoing edges.
func (b *Block) Empty() bool {
	return b == nil || (len(b.Phis) == 0 && len(b.Ops) == 0 && len(b.Succs) == 0)
}

// FunctionCfg is the graph of one function.
type FunctionCfg struct {
	Blocks []Block
	Entry  Label
}

// NewFunctionCfg creates a graph holding one empty entry block.
func NewFunctionCfg() *FunctionCfg {
	return &FunctionCfg{
		Blocks: []Block{{Label: 0}},
		Entry:  0,
	}
}

// Block returns the block with the given label, or nil.
func (f *FunctionCfg) Block(l Label) *Block {
	if f == nil || l < 0 || int(l) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[l]
}

// Has reports whether l addresses a block of f.
func (f *FunctionCfg) Has(l Label) bool {
	return f.Block(l) != nil
}

// Preds computes the predecessor lists of every block, in label order.
func (f *FunctionCfg) Preds() [][]Label {
	if f == nil {
		return nil
	}
	preds := make([][]Label, len(f.Blocks))
	for i := range f.Blocks {
		for _, s := range f.Blocks[i].Succs {
			if f.Has(s) {
				preds[s] = append(preds[s], f.Blocks[i].Label)
			}
		}
	}
	return preds
}
