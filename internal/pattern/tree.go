// Package pattern defines the boundary between case lowering and the
// pattern-match compiler.
//
// A Compiler turns the scrutinees and ordered clause patterns of one case
// into a decision Tree. The lowering turns every Match node into a block
// that tests one variable, and every Leaf into a jump to the clause block
// it names. The decision-tree algorithm itself lives outside this module.
package pattern

import (
	"fmt"

	"eir/internal/hir"
	"eir/internal/ir"
)

// NodeID indexes Tree.Nodes.
type NodeID int32

// NodeKind enumerates decision tree node kinds.
type NodeKind uint8

const (
	// NodeRoot is the entry; it has exactly one edge.
	NodeRoot NodeKind = iota
	// NodeMatch tests Var and follows the first edge whose test holds.
	NodeMatch
	// NodeFail is reached when no clause matches.
	NodeFail
	// NodeLeaf selects clause Leaf.
	NodeLeaf
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeMatch:
		return "match"
	case NodeFail:
		return "fail"
	case NodeLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// TestKind enumerates the tests on a Match edge.
type TestKind uint8

const (
	// TestWildcard always holds.
	TestWildcard TestKind = iota
	// TestLiteral holds when the value equals Lit.
	TestLiteral
	// TestTuple holds for a tuple of Arity elements.
	TestTuple
	// TestCons holds for a non-empty list.
	TestCons
	// TestNil holds for the empty list.
	TestNil
	// TestMap holds for a map.
	TestMap
)

// Test is the condition guarding one Match edge.
type Test struct {
	Kind  TestKind
	Lit   ir.Literal
	Arity uint32
}

func (t Test) String() string {
	switch t.Kind {
	case TestWildcard:
		return "_"
	case TestLiteral:
		return t.Lit.String()
	case TestTuple:
		return fmt.Sprintf("tuple/%d", t.Arity)
	case TestCons:
		return "cons"
	case TestNil:
		return "nil"
	case TestMap:
		return "map"
	default:
		return "?"
	}
}

// Edge leads from a Match or Root node to Target.
type Edge struct {
	Test   Test
	Target NodeID
}

// Node is one decision tree node.
type Node struct {
	Kind  NodeKind
	Var   ir.SSAID // NodeMatch
	Edges []Edge   // NodeRoot, NodeMatch
	Leaf  int      // NodeLeaf: clause index
}

// Tree is a decision tree over one case.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil || id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

// Input is what a Compiler receives for one case.
type Input struct {
	Scrutinees []ir.SSAID
	Clauses    []hir.Clause
	Values     []ir.SSAID
}

// Compiler builds decision trees.
type Compiler interface {
	Compile(in Input) (*Tree, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(in Input) (*Tree, error)

// Compile calls f(in).
func (f CompilerFunc) Compile(in Input) (*Tree, error) { return f(in) }
