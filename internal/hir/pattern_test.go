package hir_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"eir/internal/hir"
	"eir/internal/ir"
)

func TestCollectBindingsOrder(t *testing.T) {
	// {A, [B, C = {D} | T], ~{#0 := E}~}
	pat := hir.PTuple(
		hir.PVar("A"),
		hir.PList(
			[]*hir.PatternNode{hir.PVar("B"), hir.PBind("C", hir.PTuple(hir.PVar("D")))},
			hir.PVar("T"),
		),
		hir.PMap(hir.MapPatternEntry{ValueIdx: 0, Pat: hir.PVar("E")}),
		hir.PLit(ir.AtomLit("ok")),
	)

	got := pat.CollectBindings(nil)
	want := []ir.Variable{"A", "B", "C", "D", "T", "E"}
	if !slices.Equal(got, want) {
		t.Errorf("bindings = %v, want %v", got, want)
	}
}

func TestNewPatternAssignsFreshIDs(t *testing.T) {
	p := hir.NewPattern(hir.PList([]*hir.PatternNode{hir.PVar("H")}, hir.PVar("T")))
	if len(p.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(p.Bindings))
	}
	if p.Bindings[0].Var != "H" || p.Bindings[1].Var != "T" {
		t.Errorf("unexpected binding order %+v", p.Bindings)
	}
	if p.Bindings[0].SSA == p.Bindings[1].SSA || !p.Bindings[0].SSA.IsValid() {
		t.Errorf("bindings share or lack ids: %+v", p.Bindings)
	}
}

func TestClonePatternsIsDeep(t *testing.T) {
	c := hir.Clause{Patterns: []hir.Pattern{hir.NewPattern(hir.PTuple(hir.PVar("X")))}}
	clone := c.ClonePatterns()
	clone[0].Node.Elems[0].Var = "Y"
	clone[0].Bindings[0].Var = "Y"

	if c.Patterns[0].Node.Elems[0].Var != "X" {
		t.Error("clone shares pattern nodes with the original")
	}
	if c.Patterns[0].Bindings[0].Var != "X" {
		t.Error("clone shares bindings with the original")
	}
	if got := c.BindingSSAs(); len(got) != 1 || got[0] != c.Patterns[0].Bindings[0].SSA {
		t.Errorf("BindingSSAs() = %v", got)
	}
}

func TestEnvLiftAndJoin(t *testing.T) {
	m := &hir.Module{LambdaEnvs: []hir.LambdaEnv{{Captures: []ir.Variable{"X"}}}}
	env := hir.NewEnv(m)

	if _, ok := env.LambdaEnv(0); !ok {
		t.Error("env 0 should exist")
	}
	if _, ok := env.LambdaEnv(1); ok {
		t.Error("env 1 should not exist")
	}

	ident := ir.FunctionIdent{Name: "f", HasLambda: true}
	fork := env.Fork()
	if err := fork.Lift(ident, &hir.Function{}); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := fork.Lift(ident, &hir.Function{}); err == nil {
		t.Error("expected duplicate lift error")
	}
	if err := env.Join(fork); err != nil {
		t.Fatalf("join: %v", err)
	}
	lifted := env.TakeLifted()
	if len(lifted) != 1 || lifted[0].Ident != ident {
		t.Errorf("lifted = %+v", lifted)
	}
	if len(env.TakeLifted()) != 0 {
		t.Error("TakeLifted should clear the queue")
	}
}

func TestDumpModule(t *testing.T) {
	x := hir.NewVar("X")
	body := hir.CaseOf([]*hir.SingleExpr{hir.Ref(x)}, nil,
		hir.Clause{
			Patterns: []hir.Pattern{hir.NewPattern(hir.PLit(ir.IntLit(0)))},
			Body:     hir.Atomic(ir.AtomLit("zero")),
		},
		hir.Clause{
			Patterns: []hir.Pattern{hir.NewPattern(hir.PVar("N"))},
			Body: hir.Call(hir.Atomic(ir.AtomLit("erlang")), hir.Atomic(ir.AtomLit("abs")),
				hir.Ref(x)),
		},
	)
	m := &hir.Module{
		Name: "demo",
		Functions: []hir.FunctionDefinition{{
			Ident: ir.Ident("sign", 1),
			Fun:   &hir.Function{Args: []hir.AVariable{x}, Body: body},
		}},
	}

	var buf bytes.Buffer
	if err := hir.Dump(&buf, m); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"module demo", "fun sign/1(X", "case <X", "call erlang", "zero"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}
