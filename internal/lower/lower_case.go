package lower

import (
	"fmt"
	"slices"

	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/lir"
	"eir/internal/pattern"
)

// lowerCase opens one block per clause, each ending in a jump to a shared
// done block whose phi merges the clause results into e's id. The cursor
// ends on the done block.
//
// Without a pattern compiler the block the case started in gets a Case op
// and one edge per clause, in clause order. With one, it jumps into the
// lowered decision tree instead. Guards are not evaluated.
func (l *funcLowerer) lowerCase(e *hir.SingleExpr) (ir.SSAID, error) {
	data, ok := e.Data.(hir.CaseData)
	if !ok {
		return ir.NoSSAID, payload(e)
	}
	if len(data.Clauses) == 0 {
		return ir.NoSSAID, invariant(e, "case without clauses")
	}
	if l.opts.Compiler == nil {
		if err := l.partial(e, "clauses are not discriminated without a pattern compiler"); err != nil {
			return ir.NoSSAID, err
		}
	}

	vars, err := l.lowerAll(e, data.Val.Values)
	if err != nil {
		return ir.NoSSAID, err
	}
	values, err := l.lowerAll(e, data.Values)
	if err != nil {
		return ir.NoSSAID, err
	}

	from := l.b.Block()
	done := l.b.AddBlock()

	leaves := make([]lir.Label, len(data.Clauses))
	for i := range data.Clauses {
		c := &data.Clauses[i]
		if len(c.Patterns) != len(vars) {
			return ir.NoSSAID, invariant(e, "clause %d has %d patterns for %d values", i, len(c.Patterns), len(vars))
		}
		leaves[i] = l.b.AddBlock()
		l.b.SetBlock(leaves[i])

		if binds := c.BindingSSAs(); len(binds) > 0 {
			l.b.Op(lir.Op{Kind: lir.OpBindClause, Clause: i, Reads: lir.Vars(vars...), Writes: binds})
		}
		ret, err := l.lowerChild(e, c.Body)
		if err != nil {
			return ir.NoSSAID, err
		}
		l.b.BasicOp(lir.OpJump, nil, nil)
		exit := l.b.Block()
		l.b.AddJump(exit, done)
		l.b.AddPhi(exit, ret, done, e.SSA)
	}

	l.b.SetBlock(from)
	if l.opts.Compiler != nil {
		if err := l.lowerDecisionTree(e, &data, vars, values, leaves); err != nil {
			return ir.NoSSAID, err
		}
	} else {
		clauses := make([]lir.CaseClause, len(data.Clauses))
		for i := range data.Clauses {
			clauses[i] = lir.CaseClause{Patterns: data.Clauses[i].ClonePatterns()}
		}
		l.b.Op(lir.Op{
			Kind:  lir.OpCase,
			Reads: lir.Vars(slices.Concat(vars, values)...),
			Case:  lir.CaseOp{Scrutinees: len(vars), Clauses: clauses},
		})
		for _, leaf := range leaves {
			l.b.AddJump(from, leaf)
		}
	}

	l.b.SetBlock(done)
	return e.SSA, nil
}

func (l *funcLowerer) lowerDecisionTree(e *hir.SingleExpr, data *hir.CaseData, vars, values []ir.SSAID, leaves []lir.Label) error {
	from := l.b.Block()
	tree, err := l.opts.Compiler.Compile(pattern.Input{
		Scrutinees: vars,
		Clauses:    data.Clauses,
		Values:     values,
	})
	if err != nil {
		return &UnsupportedError{Construct: e.Kind, SSA: e.SSA, Reason: fmt.Sprintf("pattern compiler: %v", err)}
	}
	if err := pattern.Validate(tree, len(leaves)); err != nil {
		return invariant(e, "decision tree: %v", err)
	}

	tl := &treeLowerer{
		b:      l.b,
		tree:   tree,
		leaves: leaves,
		labels: make(map[pattern.NodeID]lir.Label),
		fail:   lir.NoLabel,
	}
	entry := tl.node(tree.Node(tree.Root).Edges[0].Target)

	l.b.SetBlock(from)
	l.b.BasicOp(lir.OpJump, nil, nil)
	l.b.AddJump(from, entry)
	return nil
}

// treeLowerer maps decision tree nodes to blocks. Shared subtrees map to
// one block.
type treeLowerer struct {
	b      *lir.Builder
	tree   *pattern.Tree
	leaves []lir.Label
	labels map[pattern.NodeID]lir.Label
	fail   lir.Label
}

func (t *treeLowerer) node(id pattern.NodeID) lir.Label {
	if lbl, ok := t.labels[id]; ok {
		return lbl
	}
	n := t.tree.Node(id)
	var lbl lir.Label
	switch n.Kind {
	case pattern.NodeLeaf:
		lbl = t.leaves[n.Leaf]
	case pattern.NodeFail:
		if t.fail == lir.NoLabel {
			t.fail = t.b.AddBlock()
			t.b.SetBlock(t.fail)
			t.b.BasicOp(lir.OpReturnThrow, nil, nil)
		}
		lbl = t.fail
	case pattern.NodeMatch:
		lbl = t.b.AddBlock()
		tests := make([]pattern.Test, len(n.Edges))
		targets := make([]lir.Label, len(n.Edges))
		for i, edge := range n.Edges {
			tests[i] = edge.Test
			targets[i] = t.node(edge.Target)
		}
		t.b.SetBlock(lbl)
		t.b.Op(lir.Op{Kind: lir.OpMatch, Reads: lir.Vars(n.Var), Tests: tests})
		for _, target := range targets {
			t.b.AddJump(lbl, target)
		}
	}
	t.labels[id] = lbl
	return lbl
}
