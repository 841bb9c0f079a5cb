package driver_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"eir/internal/diag"
	"eir/internal/driver"
	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/lir"
	"eir/internal/lower"
	"eir/internal/observ"
	"eir/internal/samples"
	"eir/internal/testkit"
	"eir/internal/trace"
)

func build(t *testing.T, name string) *hir.Module {
	t.Helper()
	s, ok := samples.Lookup(name)
	if !ok {
		t.Fatalf("no sample %q", name)
	}
	return s.Build()
}

func allPasses(t *testing.T) []driver.Pass {
	t.Helper()
	passes, err := driver.ParsePasses(driver.PassNames())
	if err != nil {
		t.Fatalf("ParsePasses: %v", err)
	}
	return passes
}

func dumpAll(t *testing.T, res *driver.Result) string {
	t.Helper()
	var buf bytes.Buffer
	for _, fr := range res.Functions {
		if err := lir.DumpFunc(&buf, fr.Ident.String(), fr.CFG); err != nil {
			t.Fatalf("DumpFunc: %v", err)
		}
	}
	buf.WriteString(diag.FormatShort(res.Bag.Items(), true))
	return buf.String()
}

func codes(res *driver.Result) []diag.Code {
	var out []diag.Code
	for _, d := range res.Bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCompileIsDeterministic(t *testing.T) {
	mods := []*hir.Module{build(t, "calls"), build(t, "closures"), build(t, "case")}
	opts := driver.Options{
		Lower:  lower.Options{Incomplete: lower.IncompleteWarn},
		Passes: allPasses(t),
	}
	for _, m := range mods {
		opts.Jobs = 1
		seq, err := driver.Compile(context.Background(), m, opts)
		if err != nil {
			t.Fatalf("%s sequential: %v", m.Name, err)
		}
		opts.Jobs = 8
		par, err := driver.Compile(context.Background(), m, opts)
		if err != nil {
			t.Fatalf("%s parallel: %v", m.Name, err)
		}
		if a, b := dumpAll(t, seq), dumpAll(t, par); a != b {
			t.Errorf("%s: output depends on job count:\n%s\n---\n%s", m.Name, a, b)
		}
	}
}

func TestCompileLowersLiftedLambdas(t *testing.T) {
	res, err := driver.Compile(context.Background(), build(t, "closures"), driver.Options{Passes: allPasses(t)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.Functions) != 2 {
		t.Fatalf("functions = %d, want 2", len(res.Functions))
	}
	parent, lambda := res.Functions[0], res.Functions[1]
	if parent.Ident != ir.Ident("adder", 1) || parent.Lifted {
		t.Errorf("first function = %s lifted=%v", parent.Ident, parent.Lifted)
	}
	if !lambda.Ident.HasLambda || !lambda.Lifted {
		t.Errorf("second function = %s lifted=%v", lambda.Ident, lambda.Lifted)
	}
	if got := codes(res); len(got) != 1 || got[0] != diag.LowerLambda {
		t.Errorf("diagnostics = %v, want one lifted-lambda note", got)
	}
	for _, fr := range res.Functions {
		if err := testkit.CheckCFG(fr.CFG); err != nil {
			t.Errorf("%s: %v", fr.Ident, err)
		}
	}
}

func TestCompileReportsUnsupportedPerFunction(t *testing.T) {
	m := build(t, "unsupported")

	res, err := driver.Compile(context.Background(), m, driver.Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.Functions) != 0 {
		t.Errorf("functions = %d, want 0", len(res.Functions))
	}
	if got := codes(res); len(got) != 2 || got[0] != diag.LowerUnsupported || got[1] != diag.LowerUnsupported {
		t.Errorf("reject diagnostics = %v", got)
	}

	res, err = driver.Compile(context.Background(), m, driver.Options{Lower: lower.Options{Incomplete: lower.IncompleteWarn}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.Functions) != 1 || res.Functions[0].Ident != ir.Ident("load", 0) {
		t.Fatalf("warn functions = %+v", res.Functions)
	}
	if got := codes(res); len(got) != 2 || got[0] != diag.LowerUnsupported || got[1] != diag.LowerIncomplete {
		t.Errorf("warn diagnostics = %v", got)
	}
}

func TestCompileValidatePass(t *testing.T) {
	m := build(t, "primop")

	res, err := driver.Compile(context.Background(), m, driver.Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Errorf("no passes configured, got %v", codes(res))
	}

	res, err = driver.Compile(context.Background(), m, driver.Options{Passes: allPasses(t)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got := diag.FormatShort(res.Bag.Items(), false)
	if !strings.Contains(got, "add/2:bb0:") || !strings.Contains(got, "SSA2002: use of unassigned") {
		t.Errorf("diagnostics:\n%s", got)
	}
}

func TestCompileRepeatedPassReportsOnce(t *testing.T) {
	m := build(t, "primop")
	count := func(names ...string) int {
		t.Helper()
		passes, err := driver.ParsePasses(names)
		if err != nil {
			t.Fatalf("ParsePasses: %v", err)
		}
		res, err := driver.Compile(context.Background(), m, driver.Options{Passes: passes})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		return res.Bag.Len()
	}

	once := count("validate")
	if once == 0 {
		t.Fatal("validate reported nothing for primop")
	}
	if twice := count("validate", "validate"); twice != once {
		t.Errorf("validate twice reported %d diagnostics, want %d", twice, once)
	}
}

func TestCompileAbortsOnInvariant(t *testing.T) {
	bad := hir.BindClosure(hir.Closure{Target: hir.NamedTarget{Target: ir.Ident("g", 0)}}, 3)
	m := &hir.Module{
		Name:       "broken",
		LambdaEnvs: []hir.LambdaEnv{{}},
		Functions: []hir.FunctionDefinition{
			{Ident: ir.Ident("ok", 0), Fun: &hir.Function{Body: hir.Atomic(ir.IntLit(1))}},
			{Ident: ir.Ident("bad", 0), Fun: &hir.Function{Body: bad}},
		},
	}
	res, err := driver.Compile(context.Background(), m, driver.Options{Jobs: 2})
	if !errors.Is(err, lower.ErrInvariant) {
		t.Fatalf("err = %v, want ErrInvariant", err)
	}
	if res != nil {
		t.Error("aborted compile must not return a result")
	}
	if !strings.Contains(err.Error(), "bad/0") {
		t.Errorf("error must name the function: %v", err)
	}
}

func TestCompileTracesAndTimes(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	timer := observ.NewTimer()

	_, err := driver.Compile(ctx, build(t, "literals"), driver.Options{Passes: allPasses(t), Timer: timer})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	want := "module:literals function:main/0 validate propagate-constants"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("spans = %q, want %q", got, want)
	}

	phases := map[string]int{}
	for _, p := range timer.Report().Phases {
		phases[p.Name] = p.Count
	}
	if phases["lower"] != 1 || phases["validate"] != 1 || phases["propagate-constants"] != 1 {
		t.Errorf("timer phases = %v", phases)
	}
}

func TestParsePasses(t *testing.T) {
	passes, err := driver.ParsePasses([]string{"propagate-constants", "validate"})
	if err != nil || len(passes) != 2 || passes[0].Name != "propagate-constants" {
		t.Fatalf("ParsePasses = %v, %v", passes, err)
	}
	if _, err := driver.ParsePasses([]string{"inline"}); !errors.Is(err, driver.ErrUnknownPass) {
		t.Errorf("err = %v, want ErrUnknownPass", err)
	}
}
