// Package samples holds small HIR modules built in code. They give the CLI
// something to lower without an upstream front end.
package samples

import (
	"fmt"
	"io"
	"sort"

	"github.com/mattn/go-runewidth"

	"eir/internal/hir"
	"eir/internal/ir"
)

// Sample is a named module constructor. Build allocates fresh SSA ids on
// every call.
type Sample struct {
	Name    string
	Summary string
	Build   func() *hir.Module
}

var registry = []Sample{
	{Name: "literals", Summary: "tuples, lists and maps of constants", Build: literals},
	{Name: "calls", Summary: "local and remote calls bound by let", Build: calls},
	{Name: "case", Summary: "three-clause case over one argument", Build: caseOf},
	{Name: "closures", Summary: "inline lambda lifted out of its parent", Build: closures},
	{Name: "primop", Summary: "built-in operation whose result is never written", Build: primop},
	{Name: "unsupported", Summary: "receive and try, rejected by default", Build: unsupported},
}

// All returns the samples sorted by name.
func All() []Sample {
	out := append([]Sample(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a sample by name.
func Lookup(name string) (Sample, bool) {
	for _, s := range registry {
		if s.Name == name {
			return s, true
		}
	}
	return Sample{}, false
}

// List writes one aligned "name  summary" line per sample.
func List(w io.Writer) error {
	all := All()
	width := 0
	for _, s := range all {
		width = max(width, runewidth.StringWidth(s.Name))
	}
	for _, s := range all {
		if _, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(s.Name, width), s.Summary); err != nil {
			return err
		}
	}
	return nil
}

func atom(a ir.Atom) *hir.SingleExpr { return hir.Atomic(ir.AtomLit(a)) }

func literals() *hir.Module {
	list := hir.List([]*hir.SingleExpr{hir.Atomic(ir.IntLit(1)), hir.Atomic(ir.IntLit(2))}, hir.Atomic(ir.NilLit()))
	dict := hir.Map(hir.MapEntry{Key: atom("name"), Value: hir.Atomic(ir.StringLit("eir"))})
	return &hir.Module{
		Name: "literals",
		Functions: []hir.FunctionDefinition{{
			Ident: ir.Ident("main", 0),
			Fun:   &hir.Function{Body: hir.Tuple(atom("ok"), list, dict)},
		}},
	}
}

func calls() *hir.Module {
	k := hir.NewVar("K")
	v := hir.NewVar("V")
	lookup := hir.Call(atom("store"), atom("lookup"), hir.Ref(k))
	local := hir.Apply(hir.FunRef("wrap", 1, false), hir.Ref(v))

	x := hir.NewVar("X")
	return &hir.Module{
		Name: "calls",
		Functions: []hir.FunctionDefinition{
			{
				Ident: ir.Ident("fetch", 1),
				Fun: &hir.Function{
					Args: []hir.AVariable{k},
					Body: hir.Let([]hir.AVariable{v}, []*hir.SingleExpr{lookup}, local),
				},
			},
			{
				Ident: ir.Ident("wrap", 1),
				Fun:   &hir.Function{Args: []hir.AVariable{x}, Body: hir.Tuple(atom("ok"), hir.Ref(x))},
			},
		},
	}
}

func caseOf() *hir.Module {
	x := hir.NewVar("X")
	other := hir.NewPattern(hir.PVar("Y"))
	y := hir.AVariable{Var: "Y", SSA: other.Bindings[0].SSA}
	body := hir.CaseOf([]*hir.SingleExpr{hir.Ref(x)}, nil,
		hir.Clause{Patterns: []hir.Pattern{hir.NewPattern(hir.PLit(ir.IntLit(0)))}, Body: atom("zero")},
		hir.Clause{Patterns: []hir.Pattern{hir.NewPattern(hir.PLit(ir.IntLit(1)))}, Body: atom("one")},
		hir.Clause{Patterns: []hir.Pattern{other}, Body: hir.Tuple(atom("other"), hir.Ref(y))},
	)
	return &hir.Module{
		Name: "case",
		Functions: []hir.FunctionDefinition{{
			Ident: ir.Ident("classify", 1),
			Fun:   &hir.Function{Args: []hir.AVariable{x}, Body: body},
		}},
	}
}

func closures() *hir.Module {
	n := hir.NewVar("N")
	m := hir.NewVar("M")
	lambda := ir.FunctionIdent{Name: "adder", Arity: 1, HasLambda: true}
	inner := &hir.Function{Args: []hir.AVariable{m}, Body: hir.Tuple(atom("add"), hir.Ref(m))}
	bind := hir.BindClosure(hir.Closure{Target: hir.InlineTarget{Target: lambda, Fun: inner}, Env: 0, HasEnv: true}, 0)
	return &hir.Module{
		Name:       "closures",
		LambdaEnvs: []hir.LambdaEnv{{Captures: []ir.Variable{n.Var}}},
		Functions: []hir.FunctionDefinition{{
			Ident: ir.Ident("adder", 1),
			Fun:   &hir.Function{Args: []hir.AVariable{n}, Body: bind},
		}},
	}
}

func primop() *hir.Module {
	a := hir.NewVar("A")
	b := hir.NewVar("B")
	return &hir.Module{
		Name: "primop",
		Functions: []hir.FunctionDefinition{{
			Ident: ir.Ident("add", 2),
			Fun:   &hir.Function{Args: []hir.AVariable{a, b}, Body: hir.PrimOp("+", hir.Ref(a), hir.Ref(b))},
		}},
	}
}

func unsupported() *hir.Module {
	timeout := hir.Atomic(ir.AtomLit("infinity"))
	msg := hir.NewPattern(hir.PVar("Msg"))
	recv := hir.Receive(nil, timeout, atom("timeout"),
		hir.Clause{Patterns: []hir.Pattern{msg}, Body: hir.Ref(hir.AVariable{Var: "Msg", SSA: msg.Bindings[0].SSA})},
	)

	v := hir.NewVar("V")
	protected := hir.Call(atom("store"), atom("load"))
	catchVars := []hir.AVariable{hir.NewVar("C"), hir.NewVar("R"), hir.NewVar("S")}
	try := hir.Try([]*hir.SingleExpr{protected}, []hir.AVariable{v}, hir.Ref(v), catchVars, atom("error"))

	return &hir.Module{
		Name: "unsupported",
		Functions: []hir.FunctionDefinition{
			{Ident: ir.Ident("loop", 0), Fun: &hir.Function{Body: recv}},
			{Ident: ir.Ident("load", 0), Fun: &hir.Function{Body: try}},
		},
	}
}
