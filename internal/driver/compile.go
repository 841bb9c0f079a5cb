// Package driver lowers whole HIR modules: every function and every lambda
// lifted out of them, in parallel, followed by the configured passes.
//
// Results and diagnostics are deterministic: they come out in declaration
// order, then in lifting order, whatever the number of workers.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"eir/internal/diag"
	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/lir"
	"eir/internal/lower"
	"eir/internal/observ"
	"eir/internal/trace"
)

// Options configures Compile.
type Options struct {
	Lower lower.Options
	// Jobs bounds concurrent lowering. Zero means GOMAXPROCS.
	Jobs           int
	Passes         []Pass
	MaxDiagnostics int
	// Timer, when set, accumulates lowering and per-pass durations.
	Timer *observ.Timer
}

// FuncResult is one successfully lowered function.
type FuncResult struct {
	Ident  ir.FunctionIdent
	CFG    *lir.FunctionCfg
	Lifted bool
}

// Result holds the graphs of a module and everything reported about it.
// Functions rejected as unsupported have a diagnostic and no entry.
type Result struct {
	Module    ir.Atom
	Functions []FuncResult
	Bag       *diag.Bag
}

type job struct {
	ident  ir.FunctionIdent
	fun    *hir.Function
	lifted bool
}

type outcome struct {
	cfg *lir.FunctionCfg
	bag *diag.Bag
	env *hir.Env
}

// Compile lowers every function of m. Unsupported constructs fail only
// their function, and lambdas it lifted before failing are dropped. An
// *lower.InvariantError aborts the module and is returned.
func Compile(ctx context.Context, m *hir.Module, opts Options) (*Result, error) {
	if m == nil {
		return nil, errors.New("driver: nil module")
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	span := trace.SpanFromContext(ctx).Child(trace.ScopeModule, "module:"+m.Name.String())
	ctx = trace.WithSpan(ctx, span)

	res := &Result{Module: m.Name, Bag: diag.NewBag(opts.MaxDiagnostics)}
	env := hir.NewEnv(m)
	queue := make([]job, len(m.Functions))
	for i, def := range m.Functions {
		queue[i] = job{ident: def.Ident, fun: def.Fun}
	}

	for len(queue) > 0 {
		outs := make([]outcome, len(queue))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(queue)))
		for i, j := range queue {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := lowerFunc(gctx, j, env.Fork(), &opts)
				outs[i] = out
				return err
			})
		}
		if err := g.Wait(); err != nil {
			span.End("failed")
			return nil, err
		}

		var next []job
		for i, out := range outs {
			parent := queue[i].ident
			res.Bag.Merge(out.bag)
			if out.cfg != nil {
				res.Functions = append(res.Functions, FuncResult{Ident: parent, CFG: out.cfg, Lifted: queue[i].lifted})
			}
			if err := env.Join(out.env); err != nil {
				span.End("failed")
				return nil, fmt.Errorf("driver: %s: %w", parent, err)
			}
			for _, l := range env.TakeLifted() {
				diag.ReportInfo(diag.BagReporter{Bag: res.Bag}, diag.LowerLambda,
					diag.FuncLocation(parent.String()), "lifted "+l.Ident.String()).Emit()
				next = append(next, job{ident: l.Ident, fun: l.Fun, lifted: true})
			}
		}
		queue = next
	}

	span.WithExtra("functions", strconv.Itoa(len(res.Functions))).End("")
	return res, nil
}

func lowerFunc(ctx context.Context, j job, env *hir.Env, opts *Options) (outcome, error) {
	name := j.ident.String()
	span := trace.SpanFromContext(ctx).Child(trace.ScopeFunction, "function:"+name)
	out := outcome{bag: diag.NewBag(0), env: env}
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: out.bag})

	start := time.Now()
	res, err := lower.LowerFunction(j.fun, env, opts.Lower)
	addTiming(opts.Timer, "lower", time.Since(start))
	if err != nil {
		if errors.Is(err, lower.ErrUnsupported) {
			diag.ReportError(rep, diag.LowerUnsupported, diag.FuncLocation(name), err.Error()).Emit()
			span.End("unsupported")
			out.env = nil
			return out, nil
		}
		span.End("failed")
		return outcome{}, fmt.Errorf("driver: %s: %w", name, err)
	}
	for _, inc := range res.Incomplete {
		diag.ReportWarning(rep, diag.LowerIncomplete, diag.FuncLocation(name), inc.String()).Emit()
	}

	for _, p := range opts.Passes {
		ps := span.Child(trace.ScopePass, p.Name)
		start := time.Now()
		detail := p.run(name, res.CFG, rep)
		addTiming(opts.Timer, p.Name, time.Since(start))
		ps.End(detail)
	}

	out.cfg = res.CFG
	if trace.FromContext(ctx).Level().ShouldEmit(trace.ScopeFunction) {
		nodes := 0
		hir.WalkFunction(j.fun, hir.WalkSkipClosures, func(*hir.SingleExpr) { nodes++ })
		span.WithExtra("hir_nodes", strconv.Itoa(nodes))
	}
	span.WithExtra("blocks", strconv.Itoa(len(res.CFG.Blocks))).End("")
	return out, nil
}

func addTiming(t *observ.Timer, name string, d time.Duration) {
	if t != nil {
		t.Add(name, d)
	}
}
