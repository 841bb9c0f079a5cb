package pattern

import (
	"errors"
	"fmt"
)

// Validate checks that t is a well-formed tree for a case with clauses
// clauses: a Root with one edge, edge targets in range, no cycles, leaves
// naming existing clauses and Match nodes testing a valid variable.
func Validate(t *Tree, clauses int) error {
	if t == nil {
		return errors.New("nil decision tree")
	}
	root := t.Node(t.Root)
	if root == nil {
		return fmt.Errorf("root n%d does not exist", t.Root)
	}
	if root.Kind != NodeRoot {
		return fmt.Errorf("root n%d is a %s node", t.Root, root.Kind)
	}

	var errs []error
	for i := range t.Nodes {
		n := &t.Nodes[i]
		switch n.Kind {
		case NodeRoot:
			if NodeID(i) != t.Root {
				errs = append(errs, fmt.Errorf("n%d: second root", i))
			}
			if len(n.Edges) != 1 {
				errs = append(errs, fmt.Errorf("n%d: root has %d edges, want 1", i, len(n.Edges)))
			}
		case NodeMatch:
			if !n.Var.IsValid() {
				errs = append(errs, fmt.Errorf("n%d: match without variable", i))
			}
			if len(n.Edges) == 0 {
				errs = append(errs, fmt.Errorf("n%d: match without edges", i))
			}
		case NodeLeaf:
			if n.Leaf < 0 || n.Leaf >= clauses {
				errs = append(errs, fmt.Errorf("n%d: leaf selects clause %d of %d", i, n.Leaf, clauses))
			}
			if len(n.Edges) != 0 {
				errs = append(errs, fmt.Errorf("n%d: leaf has edges", i))
			}
		case NodeFail:
			if len(n.Edges) != 0 {
				errs = append(errs, fmt.Errorf("n%d: fail has edges", i))
			}
		default:
			errs = append(errs, fmt.Errorf("n%d: unknown node kind %d", i, n.Kind))
		}
		for j, e := range n.Edges {
			if t.Node(e.Target) == nil {
				errs = append(errs, fmt.Errorf("n%d edge %d: target n%d does not exist", i, j, e.Target))
			} else if e.Target == t.Root {
				errs = append(errs, fmt.Errorf("n%d edge %d: targets the root", i, j))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return checkAcyclic(t)
}

func checkAcyclic(t *Tree) error {
	const (
		unvisited = iota
		active
		done
	)
	state := make([]uint8, len(t.Nodes))
	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		switch state[id] {
		case active:
			return fmt.Errorf("cycle through n%d", id)
		case done:
			return nil
		}
		state[id] = active
		for _, e := range t.Nodes[id].Edges {
			if err := visit(e.Target); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	return visit(t.Root)
}
