package lir

import (
	"fmt"

	"fortio.org/safecast"

	"eir/internal/ir"
)

// Builder appends blocks, ops, edges and phi entries to one FunctionCfg.
// It keeps a cursor on the current block. It does not check dominance,
// termination or SSA discipline; ValidateSSA and ValidateStructure do.
type Builder struct {
	f   *FunctionCfg
	cur Label
}

// NewBuilder returns a builder positioned on the entry block of f.
func NewBuilder(f *FunctionCfg) *Builder {
	return &Builder{f: f, cur: f.Entry}
}

// Cfg returns the graph under construction.
func (b *Builder) Cfg() *FunctionCfg {
	return b.f
}

// AddBlock creates an empty block and returns its label. The cursor does
// not move.
func (b *Builder) AddBlock() Label {
	if b == nil || b.f == nil {
		return NoLabel
	}
	raw, err := safecast.Conv[int32](len(b.f.Blocks))
	if err != nil {
		panic(fmt.Errorf("lir: block id overflow: %w", err))
	}
	l := Label(raw)
	b.f.Blocks = append(b.f.Blocks, Block{Label: l})
	return l
}

// SetBlock moves the cursor to l.
func (b *Builder) SetBlock(l Label) {
	b.cur = l
}

// Block returns the label under the cursor.
func (b *Builder) Block() Label {
	return b.cur
}

func (b *Builder) curBlock() *Block {
	if b == nil {
		return nil
	}
	return b.f.Block(b.cur)
}

// BasicOp appends an op without payload to the current block.
func (b *Builder) BasicOp(kind OpKind, reads []Source, writes []ir.SSAID) {
	b.Op(Op{Kind: kind, Reads: reads, Writes: writes})
}

// Op appends op to the current block.
func (b *Builder) Op(op Op) {
	blk := b.curBlock()
	if blk == nil {
		return
	}
	blk.Ops = append(blk.Ops, op)
}

// AddJump appends to as a successor of from.
func (b *Builder) AddJump(from, to Label) {
	blk := b.f.Block(from)
	if blk == nil {
		return
	}
	blk.Succs = append(blk.Succs, to)
}

// AddPhi records that fromSSA flows from fromBlock into the phi of toBlock
// that defines toSSA, creating the phi on first use.
func (b *Builder) AddPhi(fromBlock Label, fromSSA ir.SSAID, toBlock Label, toSSA ir.SSAID) {
	blk := b.f.Block(toBlock)
	if blk == nil {
		return
	}
	entry := PhiEntry{Pred: fromBlock, Src: fromSSA}
	for i := range blk.Phis {
		if blk.Phis[i].Dst == toSSA {
			blk.Phis[i].Entries = append(blk.Phis[i].Entries, entry)
			return
		}
	}
	blk.Phis = append(blk.Phis, Phi{Dst: toSSA, Entries: []PhiEntry{entry}})
}
