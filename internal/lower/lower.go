// Package lower turns HIR functions into LIR control-flow graphs.
//
// Every HIR node is lowered into the block under the builder's cursor and
// yields the SSA id that holds its value. Calls split the current block
// into a resume and a throw successor; case opens one block per clause and
// merges the clause results with a phi in a shared continuation block.
//
// Variables bound by let and by the success arm of try do not get ops of
// their own: their ids are aliased to the ids of the values they name, so
// every read in the graph cites a written id.
package lower

import (
	"errors"

	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/lir"
)

// Result is the lowered form of one function.
type Result struct {
	CFG        *lir.FunctionCfg
	Incomplete []Incomplete
}

// LowerFunction lowers fn into a fresh graph. Inline lambdas met on the
// way are queued on env. With a nil env an inline lambda is an
// InvariantError.
func LowerFunction(fn *hir.Function, env *hir.Env, opts Options) (*Result, error) {
	if fn == nil || fn.Body == nil {
		return nil, errors.New("lower: function without body")
	}
	cfg := lir.NewFunctionCfg()
	l := &funcLowerer{
		b:     lir.NewBuilder(cfg),
		env:   env,
		opts:  opts,
		alias: make(map[ir.SSAID]ir.SSAID),
	}

	params := make([]ir.SSAID, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = a.SSA
	}
	l.b.BasicOp(lir.OpArguments, nil, params)

	ret, err := l.lowerExpr(fn.Body)
	if err != nil {
		return nil, err
	}
	l.b.BasicOp(lir.OpReturnOk, lir.Vars(ret), nil)

	return &Result{CFG: cfg, Incomplete: l.incomplete}, nil
}

type funcLowerer struct {
	b    *lir.Builder
	env  *hir.Env
	opts Options

	alias      map[ir.SSAID]ir.SSAID
	incomplete []Incomplete
}

// bind aliases v to val. The alias graph stays acyclic: binding v to a
// value that already resolves through v is malformed HIR.
func (l *funcLowerer) bind(e *hir.SingleExpr, v ir.SSAID, val ir.SSAID) error {
	if v == val {
		return nil
	}
	for id := val; ; {
		if id == v {
			return invariant(e, "variable %s is bound to itself through %s", v, val)
		}
		next, ok := l.alias[id]
		if !ok {
			break
		}
		id = next
	}
	l.alias[v] = val
	return nil
}

func (l *funcLowerer) resolve(id ir.SSAID) ir.SSAID {
	for {
		next, ok := l.alias[id]
		if !ok {
			return id
		}
		id = next
	}
}

// partial applies the incomplete-lowering policy to e.
func (l *funcLowerer) partial(e *hir.SingleExpr, reason string) error {
	if l.opts.Incomplete == IncompleteReject {
		return &UnsupportedError{Construct: e.Kind, SSA: e.SSA, Reason: reason}
	}
	l.incomplete = append(l.incomplete, Incomplete{Construct: e.Kind, SSA: e.SSA, Reason: reason})
	return nil
}

// splitCall ends the current block after a call: successor 0 resumes,
// successor 1 unwinds. The cursor moves to the resume block.
func (l *funcLowerer) splitCall() {
	prev := l.b.Block()

	throw := l.b.AddBlock()
	l.b.SetBlock(throw)
	l.b.BasicOp(lir.OpReturnThrow, nil, nil)

	resume := l.b.AddBlock()
	l.b.SetBlock(resume)

	l.b.AddJump(prev, resume)
	l.b.AddJump(prev, throw)
}
