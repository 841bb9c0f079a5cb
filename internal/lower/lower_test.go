package lower_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/lir"
	"eir/internal/lower"
	"eir/internal/testkit"
)

func mustLower(t *testing.T, fn *hir.Function, env *hir.Env, opts lower.Options) *lower.Result {
	t.Helper()
	res, err := lower.LowerFunction(fn, env, opts)
	if err != nil {
		t.Fatalf("LowerFunction: %v", err)
	}
	if err := testkit.CheckCFG(res.CFG); err != nil {
		t.Fatalf("lowered graph: %v", err)
	}
	return res
}

func kinds(b *lir.Block) []lir.OpKind {
	out := make([]lir.OpKind, len(b.Ops))
	for i := range b.Ops {
		out[i] = b.Ops[i].Kind
	}
	return out
}

func lastOp(b *lir.Block) *lir.Op {
	return &b.Ops[len(b.Ops)-1]
}

func opOfKind(t *testing.T, cfg *lir.FunctionCfg, kind lir.OpKind) *lir.Op {
	t.Helper()
	for i := range cfg.Blocks {
		for j := range cfg.Blocks[i].Ops {
			if cfg.Blocks[i].Ops[j].Kind == kind {
				return &cfg.Blocks[i].Ops[j]
			}
		}
	}
	t.Fatalf("no %s op", kind)
	return nil
}

func TestLowerLiteral(t *testing.T) {
	lit := hir.Atomic(ir.IntLit(5))
	res := mustLower(t, &hir.Function{Body: lit}, nil, lower.Options{})
	cfg := res.CFG

	if len(cfg.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(cfg.Blocks))
	}
	entry := cfg.Block(cfg.Entry)
	want := []lir.OpKind{lir.OpArguments, lir.OpMove, lir.OpReturnOk}
	if got := kinds(entry); !slices.Equal(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	mv := entry.Ops[1]
	if mv.Reads[0] != lir.Const(ir.IntLit(5)) || mv.Writes[0] != lit.SSA {
		t.Errorf("move = %s", lir.FormatOp(&mv))
	}
	if ret := entry.Ops[2]; ret.Reads[0] != lir.Var(lit.SSA) {
		t.Errorf("return = %s", lir.FormatOp(&ret))
	}
}

func TestLowerArgumentsAndVariable(t *testing.T) {
	a, b := hir.NewVar("A"), hir.NewVar("B")
	res := mustLower(t, &hir.Function{Args: []hir.AVariable{a, b}, Body: hir.Ref(b)}, nil, lower.Options{})
	entry := res.CFG.Block(0)
	if got := entry.Ops[0].Writes; !slices.Equal(got, []ir.SSAID{a.SSA, b.SSA}) {
		t.Errorf("arguments write %v", got)
	}
	if want := []lir.OpKind{lir.OpArguments, lir.OpReturnOk}; !slices.Equal(kinds(entry), want) {
		t.Errorf("ops = %v, want %v", kinds(entry), want)
	}
	if entry.Ops[1].Reads[0] != lir.Var(b.SSA) {
		t.Errorf("returns %v", entry.Ops[1].Reads[0])
	}
}

func TestLowerCallSplitsBlock(t *testing.T) {
	tests := []struct {
		name string
		kind lir.OpKind
		mk   func(args []hir.AVariable) *hir.SingleExpr
	}{
		{
			name: "inter_module",
			kind: lir.OpCall,
			mk: func(args []hir.AVariable) *hir.SingleExpr {
				return hir.Call(hir.Atomic(ir.AtomLit("lists")), hir.Atomic(ir.AtomLit("reverse")), hir.Ref(args[0]))
			},
		},
		{
			name: "apply",
			kind: lir.OpApply,
			mk: func(args []hir.AVariable) *hir.SingleExpr {
				return hir.Apply(hir.Ref(args[1]), hir.Ref(args[0]))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []hir.AVariable{hir.NewVar("X"), hir.NewVar("F")}
			call := tt.mk(args)
			res := mustLower(t, &hir.Function{Args: args, Body: call}, nil, lower.Options{})
			cfg := res.CFG

			if len(cfg.Blocks) != 3 {
				t.Fatalf("blocks = %d, want 3", len(cfg.Blocks))
			}
			entry := cfg.Block(0)
			op := lastOp(entry)
			if op.Kind != tt.kind || !slices.Equal(op.Writes, []ir.SSAID{call.SSA}) {
				t.Fatalf("last entry op = %s", lir.FormatOp(op))
			}
			throw, resume := lir.Label(1), lir.Label(2)
			if !slices.Equal(entry.Succs, []lir.Label{resume, throw}) {
				t.Fatalf("succs = %v, want [resume throw]", entry.Succs)
			}
			if want := []lir.OpKind{lir.OpReturnThrow}; !slices.Equal(kinds(cfg.Block(throw)), want) {
				t.Errorf("throw block ops = %v", kinds(cfg.Block(throw)))
			}
			if len(cfg.Block(throw).Succs) != 0 {
				t.Errorf("throw block has successors")
			}
			if want := []lir.OpKind{lir.OpReturnOk}; !slices.Equal(kinds(cfg.Block(resume)), want) {
				t.Errorf("resume block ops = %v", kinds(cfg.Block(resume)))
			}
		})
	}
}

func TestLowerCallReadOrder(t *testing.T) {
	x := hir.NewVar("X")
	mod, name := hir.Atomic(ir.AtomLit("m")), hir.Atomic(ir.AtomLit("f"))
	arg := hir.Atomic(ir.IntLit(2))
	call := hir.Call(mod, name, hir.Ref(x), arg)
	res := mustLower(t, &hir.Function{Args: []hir.AVariable{x}, Body: call}, nil, lower.Options{})

	op := opOfKind(t, res.CFG, lir.OpCall)
	want := lir.Vars(mod.SSA, name.SSA, x.SSA, arg.SSA)
	if !slices.Equal(op.Reads, want) {
		t.Errorf("reads = %v, want %v", op.Reads, want)
	}
}

func TestLowerListReadsTailFirst(t *testing.T) {
	a, b, tl := hir.NewVar("A"), hir.NewVar("B"), hir.NewVar("T")
	list := hir.List([]*hir.SingleExpr{hir.Ref(a), hir.Ref(b)}, hir.Ref(tl))
	res := mustLower(t, &hir.Function{Args: []hir.AVariable{a, b, tl}, Body: list}, nil, lower.Options{})

	op := opOfKind(t, res.CFG, lir.OpMakeList)
	if want := lir.Vars(tl.SSA, a.SSA, b.SSA); !slices.Equal(op.Reads, want) {
		t.Errorf("reads = %v, want %v", op.Reads, want)
	}
	if !slices.Equal(op.Writes, []ir.SSAID{list.SSA}) {
		t.Errorf("writes = %v", op.Writes)
	}
}

func TestLowerMapInterleavesKeysAndValues(t *testing.T) {
	k1, k2 := hir.Atomic(ir.AtomLit("a")), hir.Atomic(ir.AtomLit("b"))
	v1, v2 := hir.Atomic(ir.IntLit(1)), hir.Atomic(ir.IntLit(2))
	m := hir.Map(hir.MapEntry{Key: k1, Value: v1}, hir.MapEntry{Key: k2, Value: v2})
	res := mustLower(t, &hir.Function{Body: m}, nil, lower.Options{})

	entry := res.CFG.Block(0)
	var movesInOrder []ir.SSAID
	for _, op := range entry.Ops {
		if op.Kind == lir.OpMove {
			movesInOrder = append(movesInOrder, op.Writes[0])
		}
	}
	want := []ir.SSAID{k1.SSA, v1.SSA, k2.SSA, v2.SSA}
	if !slices.Equal(movesInOrder, want) {
		t.Errorf("evaluation order = %v, want %v", movesInOrder, want)
	}
	op := opOfKind(t, res.CFG, lir.OpMakeMap)
	if !slices.Equal(op.Reads, lir.Vars(want...)) {
		t.Errorf("reads = %v", op.Reads)
	}
}

func TestLowerTupleAndPrimOp(t *testing.T) {
	x := hir.NewVar("X")
	prim := hir.PrimOp("raise", hir.Ref(x))
	tup := hir.Tuple(hir.Ref(x), hir.Atomic(ir.AtomLit("ok")))
	body := hir.Seq([]*hir.SingleExpr{prim}, tup)
	res := mustLower(t, &hir.Function{Args: []hir.AVariable{x}, Body: body}, nil, lower.Options{})

	p := opOfKind(t, res.CFG, lir.OpPrimOp)
	if p.PrimOp != "raise" || len(p.Writes) != 0 || !slices.Equal(p.Reads, lir.Vars(x.SSA)) {
		t.Errorf("primop = %s", lir.FormatOp(p))
	}
	mk := opOfKind(t, res.CFG, lir.OpMakeTuple)
	if len(mk.Reads) != 2 || mk.Reads[0] != lir.Var(x.SSA) || mk.Writes[0] != tup.SSA {
		t.Errorf("tuple = %s", lir.FormatOp(mk))
	}
	ret := lastOp(res.CFG.Block(0))
	if ret.Kind != lir.OpReturnOk || ret.Reads[0] != lir.Var(tup.SSA) {
		t.Errorf("do must yield its tail: %s", lir.FormatOp(ret))
	}
}

func TestLowerLetAliasesBoundVariables(t *testing.T) {
	v := hir.NewVar("V")
	val := hir.Atomic(ir.IntLit(1))
	tup := hir.Tuple(hir.Ref(v), hir.Ref(v))
	let := hir.Let([]hir.AVariable{v}, []*hir.SingleExpr{val}, tup)
	res := mustLower(t, &hir.Function{Body: let}, nil, lower.Options{})

	mk := opOfKind(t, res.CFG, lir.OpMakeTuple)
	if !slices.Equal(mk.Reads, lir.Vars(val.SSA, val.SSA)) {
		t.Errorf("reads = %v, want the bound value's id twice", mk.Reads)
	}
	ret := lastOp(res.CFG.Block(0))
	if ret.Reads[0] != lir.Var(tup.SSA) {
		t.Errorf("let must yield its body: %s", lir.FormatOp(ret))
	}
}

func TestLowerLetArityMismatch(t *testing.T) {
	let := hir.Let([]hir.AVariable{hir.NewVar("A"), hir.NewVar("B")}, []*hir.SingleExpr{hir.Atomic(ir.NilLit())}, hir.Atomic(ir.NilLit()))
	_, err := lower.LowerFunction(&hir.Function{Body: let}, nil, lower.Options{})
	if !errors.Is(err, lower.ErrInvariant) {
		t.Fatalf("err = %v, want invariant error", err)
	}
}

func TestLowerLetAliasCycle(t *testing.T) {
	a, b := hir.NewVar("A"), hir.NewVar("B")
	let := hir.Let([]hir.AVariable{a, b}, []*hir.SingleExpr{hir.Ref(b), hir.Ref(a)}, hir.Ref(a))

	done := make(chan error, 1)
	go func() {
		_, err := lower.LowerFunction(&hir.Function{Body: let}, nil, lower.Options{})
		done <- err
	}()
	select {
	case err := <-done:
		var inv *lower.InvariantError
		if !errors.As(err, &inv) || inv.SSA != let.SSA {
			t.Fatalf("err = %v, want invariant error at the let", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("LowerFunction did not return")
	}
}

func TestLowerLetRebindsThroughChain(t *testing.T) {
	a, b := hir.NewVar("A"), hir.NewVar("B")
	five := hir.Atomic(ir.IntLit(5))
	inner := hir.Let([]hir.AVariable{b}, []*hir.SingleExpr{hir.Ref(a)}, hir.Ref(b))
	outer := hir.Let([]hir.AVariable{a}, []*hir.SingleExpr{five}, inner)
	res := mustLower(t, &hir.Function{Body: outer}, nil, lower.Options{})

	ret := lastOp(res.CFG.Block(res.CFG.Entry))
	if ret.Kind != lir.OpReturnOk || ret.Reads[0] != lir.Var(five.SSA) {
		t.Errorf("return = %s, want a read of %s", lir.FormatOp(ret), five.SSA)
	}
}

func TestLowerNamedFunction(t *testing.T) {
	named := hir.FunRef("helper", 2, false)
	lambda := hir.FunRef("self", 0, true)
	body := hir.Seq([]*hir.SingleExpr{lambda}, named)
	res := mustLower(t, &hir.Function{Body: body}, nil, lower.Options{})

	op := opOfKind(t, res.CFG, lir.OpCaptureNamedFunction)
	if op.Ident != ir.Ident("helper", 2) || op.Writes[0] != named.SSA {
		t.Errorf("capture = %s", lir.FormatOp(op))
	}
	for _, o := range res.CFG.Block(0).Ops {
		if slices.Contains(o.Writes, lambda.SSA) {
			t.Errorf("lambda-local reference must not emit ops, got %s", lir.FormatOp(&o))
		}
	}
}

func TestLowerBindClosure(t *testing.T) {
	inner := &hir.Function{Body: hir.Atomic(ir.AtomLit("inner"))}
	ident := ir.FunctionIdent{Name: "f", Arity: 0, HasLambda: true, LambdaEnv: 0, LambdaIndex: 0}
	m := &hir.Module{Name: "m", LambdaEnvs: []hir.LambdaEnv{{Captures: []ir.Variable{"X"}}}}
	env := hir.NewEnv(m)

	bind := hir.BindClosure(hir.Closure{Target: hir.InlineTarget{Target: ident, Fun: inner}, Env: 0, HasEnv: true}, 0)
	res := mustLower(t, &hir.Function{Body: bind}, env, lower.Options{})

	want := []lir.OpKind{lir.OpArguments, lir.OpMakeClosureEnv, lir.OpBindClosure, lir.OpReturnOk}
	if got := kinds(res.CFG.Block(0)); !slices.Equal(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	data := bind.Data.(hir.BindClosureData)
	mk := res.CFG.Block(0).Ops[1]
	if mk.Env != 0 || mk.Writes[0] != data.EnvSSA {
		t.Errorf("env op = %s", lir.FormatOp(&mk))
	}
	bc := res.CFG.Block(0).Ops[2]
	if bc.Ident != ident || bc.Reads[0] != lir.Var(data.EnvSSA) || bc.Writes[0] != bind.SSA {
		t.Errorf("bind op = %s", lir.FormatOp(&bc))
	}

	lifted := env.TakeLifted()
	if len(lifted) != 1 || lifted[0].Ident != ident || lifted[0].Fun != inner {
		t.Errorf("lifted = %+v", lifted)
	}
}

func TestLowerBindClosureInvariants(t *testing.T) {
	named := hir.NamedTarget{Target: ir.Ident("g", 1)}
	m := &hir.Module{LambdaEnvs: []hir.LambdaEnv{{}}}

	tests := []struct {
		name  string
		expr  func() *hir.SingleExpr
		noEnv bool
	}{
		{
			name: "missing_env_index",
			expr: func() *hir.SingleExpr {
				e := hir.BindClosure(hir.Closure{Target: named}, 0)
				d := e.Data.(hir.BindClosureData)
				d.HasEnv = false
				e.Data = d
				return e
			},
		},
		{
			name: "unknown_env",
			expr: func() *hir.SingleExpr { return hir.BindClosure(hir.Closure{Target: named}, 7) },
		},
		{
			name: "no_target",
			expr: func() *hir.SingleExpr { return hir.BindClosure(hir.Closure{}, 0) },
		},
		{
			name: "inline_without_env",
			expr: func() *hir.SingleExpr {
				inline := hir.InlineTarget{
					Target: ir.FunctionIdent{Name: "f", HasLambda: true},
					Fun:    &hir.Function{Body: hir.Atomic(ir.NilLit())},
				}
				return hir.BindClosure(hir.Closure{Target: inline, Env: 0, HasEnv: true}, 0)
			},
			noEnv: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.expr()
			env := hir.NewEnv(m)
			if tt.noEnv {
				env = nil
			}
			_, err := lower.LowerFunction(&hir.Function{Body: e}, env, lower.Options{})
			var inv *lower.InvariantError
			if !errors.As(err, &inv) {
				t.Fatalf("err = %v, want *InvariantError", err)
			}
			if inv.Kind != hir.ExprBindClosure || inv.SSA != e.SSA {
				t.Errorf("invariant error = %+v", inv)
			}
			if errors.Is(err, lower.ErrUnsupported) {
				t.Error("invariant error must not match ErrUnsupported")
			}
		})
	}
}

func TestLowerBindClosures(t *testing.T) {
	body := hir.Atomic(ir.AtomLit("done"))
	group := hir.BindClosures([]hir.Closure{{Target: hir.NamedTarget{Target: ir.Ident("g", 0)}}}, 0, body)

	_, err := lower.LowerFunction(&hir.Function{Body: group}, nil, lower.Options{})
	if !errors.Is(err, lower.ErrUnsupported) {
		t.Fatalf("reject: err = %v", err)
	}

	res := mustLower(t, &hir.Function{Body: group}, nil, lower.Options{Incomplete: lower.IncompleteWarn})
	if len(res.Incomplete) != 1 || res.Incomplete[0].Construct != hir.ExprBindClosures {
		t.Fatalf("incomplete = %v", res.Incomplete)
	}
	want := []lir.OpKind{lir.OpArguments, lir.OpMakeClosureEnv, lir.OpMove, lir.OpReturnOk}
	if got := kinds(res.CFG.Block(0)); !slices.Equal(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestLowerTry(t *testing.T) {
	v := hir.NewVar("V")
	protected := hir.Call(hir.Atomic(ir.AtomLit("m")), hir.Atomic(ir.AtomLit("f")))
	then := hir.Tuple(hir.Atomic(ir.AtomLit("ok")), hir.Ref(v))
	catchVars := []hir.AVariable{hir.NewVar("C"), hir.NewVar("R"), hir.NewVar("S")}
	try := hir.Try([]*hir.SingleExpr{protected}, []hir.AVariable{v}, then, catchVars, hir.Atomic(ir.AtomLit("error")))
	fn := &hir.Function{Body: try}

	_, err := lower.LowerFunction(fn, nil, lower.Options{})
	var unsup *lower.UnsupportedError
	if !errors.As(err, &unsup) || unsup.Construct != hir.ExprTry || unsup.SSA != try.SSA {
		t.Fatalf("reject: err = %v", err)
	}

	res := mustLower(t, fn, nil, lower.Options{Incomplete: lower.IncompleteWarn})
	if len(res.Incomplete) != 1 || res.Incomplete[0].SSA != try.SSA {
		t.Fatalf("incomplete = %v", res.Incomplete)
	}
	mk := opOfKind(t, res.CFG, lir.OpMakeTuple)
	if mk.Reads[1] != lir.Var(protected.SSA) {
		t.Errorf("then var must alias the protected value, reads = %v", mk.Reads)
	}
	resume := res.CFG.Block(res.CFG.Block(0).Succs[0])
	if ret := lastOp(resume); ret.Kind != lir.OpReturnOk || ret.Reads[0] != lir.Var(then.SSA) {
		t.Errorf("try must yield its then arm: %s", lir.FormatOp(ret))
	}
}

func TestLowerAlwaysRejected(t *testing.T) {
	tests := []struct {
		name    string
		expr    *hir.SingleExpr
		wantErr error
	}{
		{
			name:    "receive",
			expr:    hir.Receive(nil, hir.Atomic(ir.AtomLit("infinity")), hir.Atomic(ir.AtomLit("true"))),
			wantErr: lower.ErrUnsupported,
		},
		{
			name:    "test",
			expr:    &hir.SingleExpr{SSA: ir.NextSSA(), Kind: hir.ExprTest, Data: hir.TestData{}},
			wantErr: lower.ErrInvariant,
		},
		{
			name:    "unknown_kind",
			expr:    &hir.SingleExpr{SSA: ir.NextSSA(), Kind: hir.ExprKind(200)},
			wantErr: lower.ErrInvariant,
		},
		{
			name:    "payload_mismatch",
			expr:    &hir.SingleExpr{SSA: ir.NextSSA(), Kind: hir.ExprTuple, Data: hir.AtomicData{}},
			wantErr: lower.ErrInvariant,
		},
		{
			name:    "missing_operand",
			expr:    hir.Tuple(nil),
			wantErr: lower.ErrInvariant,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, policy := range []lower.IncompletePolicy{lower.IncompleteReject, lower.IncompleteWarn} {
				_, err := lower.LowerFunction(&hir.Function{Body: tt.expr}, nil, lower.Options{Incomplete: policy})
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("%s: err = %v, want %v", policy, err, tt.wantErr)
				}
			}
		})
	}
}

func TestLowerFunctionWithoutBody(t *testing.T) {
	if _, err := lower.LowerFunction(&hir.Function{}, nil, lower.Options{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseIncompletePolicy(t *testing.T) {
	for in, want := range map[string]lower.IncompletePolicy{
		"":       lower.IncompleteReject,
		"reject": lower.IncompleteReject,
		"warn":   lower.IncompleteWarn,
	} {
		got, err := lower.ParseIncompletePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseIncompletePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := lower.ParseIncompletePolicy("maybe"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
