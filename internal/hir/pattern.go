package hir

import (
	"eir/internal/ir"
)

// PatternKind enumerates pattern node kinds.
type PatternKind uint8

const (
	// PatternVariable binds the matched value.
	PatternVariable PatternKind = iota
	// PatternBind binds the matched value and matches it against Sub.
	PatternBind
	// PatternAtomic matches a literal.
	PatternAtomic
	// PatternTuple matches a tuple element-wise.
	PatternTuple
	// PatternList matches [Elems... | Tail].
	PatternList
	// PatternMap matches map entries whose keys are the case's pattern values.
	PatternMap
)

func (k PatternKind) String() string {
	switch k {
	case PatternVariable:
		return "var"
	case PatternBind:
		return "bind"
	case PatternAtomic:
		return "atomic"
	case PatternTuple:
		return "tuple"
	case PatternList:
		return "list"
	case PatternMap:
		return "map"
	default:
		return "unknown"
	}
}

// MapPatternEntry matches the value stored under the key ValueIdx points
// at in the enclosing case's pattern values.
type MapPatternEntry struct {
	ValueIdx int
	Pat      *PatternNode
}

// PatternNode is one node of a pattern tree.
type PatternNode struct {
	Kind PatternKind

	Var     ir.Variable       // Variable, Bind
	Sub     *PatternNode      // Bind
	Lit     ir.Literal        // Atomic
	Elems   []*PatternNode    // Tuple, List head
	Tail    *PatternNode      // List
	Entries []MapPatternEntry // Map
}

// Binding pairs a pattern variable with the SSA id it receives on match.
type Binding struct {
	Var ir.Variable
	SSA ir.SSAID
}

// Pattern is a pattern tree plus the bindings it introduces.
type Pattern struct {
	Bindings []Binding
	Node     *PatternNode
}

// Clause is one arm of a case or receive.
type Clause struct {
	Patterns []Pattern // one per scrutinized value
	Guard    *SingleExpr
	Body     *SingleExpr
}

// NewPattern wraps node and assigns a fresh SSA id to each variable it
// binds, in CollectBindings order.
func NewPattern(node *PatternNode) Pattern {
	vars := node.CollectBindings(nil)
	bindings := make([]Binding, len(vars))
	for i, v := range vars {
		bindings[i] = Binding{Var: v, SSA: ir.NextSSA()}
	}
	return Pattern{Bindings: bindings, Node: node}
}

// CollectBindings appends the variables bound by the pattern to out:
// depth-first, left to right, list tail after head, map entries in
// declared order.
func (p *PatternNode) CollectBindings(out []ir.Variable) []ir.Variable {
	if p == nil {
		return out
	}
	switch p.Kind {
	case PatternVariable:
		out = append(out, p.Var)
	case PatternBind:
		out = append(out, p.Var)
		out = p.Sub.CollectBindings(out)
	case PatternAtomic:
	case PatternTuple:
		for _, e := range p.Elems {
			out = e.CollectBindings(out)
		}
	case PatternList:
		for _, e := range p.Elems {
			out = e.CollectBindings(out)
		}
		out = p.Tail.CollectBindings(out)
	case PatternMap:
		for _, e := range p.Entries {
			out = e.Pat.CollectBindings(out)
		}
	}
	return out
}

// BindingSSAs returns the SSA ids of every binding of every pattern of the
// clause, in pattern order.
func (c *Clause) BindingSSAs() []ir.SSAID {
	var out []ir.SSAID
	for i := range c.Patterns {
		for _, b := range c.Patterns[i].Bindings {
			out = append(out, b.SSA)
		}
	}
	return out
}

// ClonePatterns returns a deep copy of the clause's patterns.
func (c *Clause) ClonePatterns() []Pattern {
	out := make([]Pattern, len(c.Patterns))
	for i, p := range c.Patterns {
		out[i] = Pattern{
			Bindings: append([]Binding(nil), p.Bindings...),
			Node:     p.Node.Clone(),
		}
	}
	return out
}

// Clone returns a deep copy of the pattern tree.
func (p *PatternNode) Clone() *PatternNode {
	if p == nil {
		return nil
	}
	out := &PatternNode{Kind: p.Kind, Var: p.Var, Lit: p.Lit}
	out.Sub = p.Sub.Clone()
	out.Tail = p.Tail.Clone()
	if p.Elems != nil {
		out.Elems = make([]*PatternNode, len(p.Elems))
		for i, e := range p.Elems {
			out.Elems[i] = e.Clone()
		}
	}
	if p.Entries != nil {
		out.Entries = make([]MapPatternEntry, len(p.Entries))
		for i, e := range p.Entries {
			out.Entries[i] = MapPatternEntry{ValueIdx: e.ValueIdx, Pat: e.Pat.Clone()}
		}
	}
	return out
}
