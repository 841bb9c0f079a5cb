package lower

import (
	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/lir"
)

func (l *funcLowerer) lowerExpr(e *hir.SingleExpr) (ir.SSAID, error) {
	switch e.Kind {
	case hir.ExprAtomic:
		data, ok := e.Data.(hir.AtomicData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		l.b.BasicOp(lir.OpMove, []lir.Source{lir.Const(data.Value)}, []ir.SSAID{e.SSA})
		return e.SSA, nil

	case hir.ExprVariable:
		return l.resolve(e.SSA), nil

	case hir.ExprNamedFunction:
		data, ok := e.Data.(hir.NamedFunctionData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		if data.IsLambda {
			return e.SSA, nil
		}
		l.b.Op(lir.Op{
			Kind:   lir.OpCaptureNamedFunction,
			Ident:  ir.Ident(data.Name.Name, data.Name.Arity),
			Writes: []ir.SSAID{e.SSA},
		})
		return e.SSA, nil

	case hir.ExprApplyCall:
		data, ok := e.Data.(hir.ApplyCallData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		fun, err := l.lowerChild(e, data.Fun)
		if err != nil {
			return ir.NoSSAID, err
		}
		args, err := l.lowerAll(e, data.Args)
		if err != nil {
			return ir.NoSSAID, err
		}
		l.b.BasicOp(lir.OpApply, lir.Vars(append([]ir.SSAID{fun}, args...)...), []ir.SSAID{e.SSA})
		l.splitCall()
		return e.SSA, nil

	case hir.ExprInterModuleCall:
		data, ok := e.Data.(hir.InterModuleCallData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		module, err := l.lowerChild(e, data.Module)
		if err != nil {
			return ir.NoSSAID, err
		}
		name, err := l.lowerChild(e, data.Name)
		if err != nil {
			return ir.NoSSAID, err
		}
		args, err := l.lowerAll(e, data.Args)
		if err != nil {
			return ir.NoSSAID, err
		}
		l.b.BasicOp(lir.OpCall, lir.Vars(append([]ir.SSAID{module, name}, args...)...), []ir.SSAID{e.SSA})
		l.splitCall()
		return e.SSA, nil

	case hir.ExprLet:
		data, ok := e.Data.(hir.LetData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		if len(data.Vars) != len(data.Val.Values) {
			return ir.NoSSAID, invariant(e, "let binds %d variables to %d values", len(data.Vars), len(data.Val.Values))
		}
		vals, err := l.lowerAll(e, data.Val.Values)
		if err != nil {
			return ir.NoSSAID, err
		}
		for i, v := range data.Vars {
			if err := l.bind(e, v.SSA, vals[i]); err != nil {
				return ir.NoSSAID, err
			}
		}
		return l.lowerChild(e, data.Body)

	case hir.ExprTry:
		return l.lowerTry(e)

	case hir.ExprCase:
		return l.lowerCase(e)

	case hir.ExprTuple:
		data, ok := e.Data.(hir.TupleData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		elems, err := l.lowerAll(e, data.Elems)
		if err != nil {
			return ir.NoSSAID, err
		}
		l.b.BasicOp(lir.OpMakeTuple, lir.Vars(elems...), []ir.SSAID{e.SSA})
		return e.SSA, nil

	case hir.ExprList:
		data, ok := e.Data.(hir.ListData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		tail, err := l.lowerChild(e, data.Tail)
		if err != nil {
			return ir.NoSSAID, err
		}
		head, err := l.lowerAll(e, data.Head)
		if err != nil {
			return ir.NoSSAID, err
		}
		l.b.BasicOp(lir.OpMakeList, lir.Vars(append([]ir.SSAID{tail}, head...)...), []ir.SSAID{e.SSA})
		return e.SSA, nil

	case hir.ExprMap:
		data, ok := e.Data.(hir.MapData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		reads := make([]lir.Source, 0, 2*len(data.Entries))
		for _, ent := range data.Entries {
			k, err := l.lowerChild(e, ent.Key)
			if err != nil {
				return ir.NoSSAID, err
			}
			v, err := l.lowerChild(e, ent.Value)
			if err != nil {
				return ir.NoSSAID, err
			}
			reads = append(reads, lir.Var(k), lir.Var(v))
		}
		l.b.BasicOp(lir.OpMakeMap, reads, []ir.SSAID{e.SSA})
		return e.SSA, nil

	case hir.ExprPrimOp:
		data, ok := e.Data.(hir.PrimOpData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		args, err := l.lowerAll(e, data.Args)
		if err != nil {
			return ir.NoSSAID, err
		}
		l.b.Op(lir.Op{Kind: lir.OpPrimOp, PrimOp: data.Name, Reads: lir.Vars(args...)})
		return e.SSA, nil

	case hir.ExprDo:
		data, ok := e.Data.(hir.DoData)
		if !ok {
			return ir.NoSSAID, payload(e)
		}
		if _, err := l.lowerAll(e, data.First.Values); err != nil {
			return ir.NoSSAID, err
		}
		return l.lowerChild(e, data.Then)

	case hir.ExprReceive:
		return ir.NoSSAID, &UnsupportedError{Construct: e.Kind, SSA: e.SSA, Reason: "receive has no lowering"}

	case hir.ExprBindClosure:
		return l.lowerBindClosure(e)

	case hir.ExprBindClosures:
		return l.lowerBindClosures(e)

	case hir.ExprTest:
		return ir.NoSSAID, invariant(e, "test expressions are never lowered")

	default:
		return ir.NoSSAID, invariant(e, "unknown expression kind %d", e.Kind)
	}
}

func (l *funcLowerer) lowerChild(parent, child *hir.SingleExpr) (ir.SSAID, error) {
	if child == nil {
		return ir.NoSSAID, invariant(parent, "missing sub-expression")
	}
	return l.lowerExpr(child)
}

func (l *funcLowerer) lowerAll(parent *hir.SingleExpr, es []*hir.SingleExpr) ([]ir.SSAID, error) {
	out := make([]ir.SSAID, len(es))
	for i, e := range es {
		id, err := l.lowerChild(parent, e)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// lowerTry lowers the protected values and the success continuation. The
// catch arm has no edge into the graph.
func (l *funcLowerer) lowerTry(e *hir.SingleExpr) (ir.SSAID, error) {
	data, ok := e.Data.(hir.TryData)
	if !ok {
		return ir.NoSSAID, payload(e)
	}
	if len(data.ThenVars) != len(data.Body.Values) {
		return ir.NoSSAID, invariant(e, "try binds %d variables to %d values", len(data.ThenVars), len(data.Body.Values))
	}
	if err := l.partial(e, "catch arm is not connected to the exception edge"); err != nil {
		return ir.NoSSAID, err
	}
	vals, err := l.lowerAll(e, data.Body.Values)
	if err != nil {
		return ir.NoSSAID, err
	}
	for i, v := range data.ThenVars {
		if err := l.bind(e, v.SSA, vals[i]); err != nil {
			return ir.NoSSAID, err
		}
	}
	return l.lowerChild(e, data.Then)
}

func (l *funcLowerer) lowerBindClosure(e *hir.SingleExpr) (ir.SSAID, error) {
	data, ok := e.Data.(hir.BindClosureData)
	if !ok {
		return ir.NoSSAID, payload(e)
	}
	if err := l.closureEnv(e, data.HasEnv, data.LambdaEnv, data.EnvSSA); err != nil {
		return ir.NoSSAID, err
	}
	if err := l.liftClosure(e, &data.Closure); err != nil {
		return ir.NoSSAID, err
	}
	l.b.Op(lir.Op{
		Kind:   lir.OpBindClosure,
		Ident:  data.Closure.Target.Ident(),
		Reads:  lir.Vars(data.EnvSSA),
		Writes: []ir.SSAID{e.SSA},
	})
	return e.SSA, nil
}

// lowerBindClosures materializes the shared environment and lowers the
// body. The closures themselves are not bound to values.
func (l *funcLowerer) lowerBindClosures(e *hir.SingleExpr) (ir.SSAID, error) {
	data, ok := e.Data.(hir.BindClosuresData)
	if !ok {
		return ir.NoSSAID, payload(e)
	}
	if err := l.partial(e, "closure group binds no values"); err != nil {
		return ir.NoSSAID, err
	}
	if err := l.closureEnv(e, data.HasEnv, data.LambdaEnv, data.EnvSSA); err != nil {
		return ir.NoSSAID, err
	}
	for i := range data.Closures {
		if err := l.liftClosure(e, &data.Closures[i]); err != nil {
			return ir.NoSSAID, err
		}
	}
	return l.lowerChild(e, data.Body)
}

func (l *funcLowerer) closureEnv(e *hir.SingleExpr, has bool, idx ir.LambdaEnvIdx, dst ir.SSAID) error {
	if !has {
		return invariant(e, "closure without environment index")
	}
	if _, ok := l.env.LambdaEnv(idx); !ok {
		return invariant(e, "unknown closure environment %s", idx)
	}
	if !dst.IsValid() {
		return invariant(e, "closure environment has no SSA id")
	}
	l.b.Op(lir.Op{Kind: lir.OpMakeClosureEnv, Env: idx, Writes: []ir.SSAID{dst}})
	return nil
}

func (l *funcLowerer) liftClosure(e *hir.SingleExpr, c *hir.Closure) error {
	if c.Target == nil {
		return invariant(e, "closure without target")
	}
	t, ok := c.Target.(hir.InlineTarget)
	if !ok {
		return nil
	}
	if t.Fun == nil {
		return invariant(e, "inline closure %s without body", t.Target)
	}
	if l.env == nil {
		return invariant(e, "inline closure %s has no environment to be lifted into", t.Target)
	}
	if err := l.env.Lift(t.Target, t.Fun); err != nil {
		return invariant(e, "%v", err)
	}
	return nil
}
