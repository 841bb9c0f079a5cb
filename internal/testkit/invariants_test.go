package testkit_test

import (
	"strings"
	"testing"

	"eir/internal/ir"
	"eir/internal/lir"
	"eir/internal/testkit"
)

// diamond branches from bb0 to bb1 and bb2, which both jump to bb3 and
// feed its phi.
func diamond() (*lir.FunctionCfg, ir.SSAID) {
	cfg := lir.NewFunctionCfg()
	b := lir.NewBuilder(cfg)
	a, x, y, r := ir.NextSSA(), ir.NextSSA(), ir.NextSSA(), ir.NextSSA()
	b.BasicOp(lir.OpArguments, nil, []ir.SSAID{a})
	left, right, done := b.AddBlock(), b.AddBlock(), b.AddBlock()
	b.AddJump(0, left)
	b.AddJump(0, right)
	for _, arm := range []struct {
		l   lir.Label
		dst ir.SSAID
	}{{left, x}, {right, y}} {
		b.SetBlock(arm.l)
		b.Op(lir.Op{Kind: lir.OpMove, Reads: lir.Vars(a), Writes: []ir.SSAID{arm.dst}})
		b.BasicOp(lir.OpJump, nil, nil)
		b.AddJump(arm.l, done)
		b.AddPhi(arm.l, arm.dst, done, r)
	}
	b.SetBlock(done)
	b.BasicOp(lir.OpReturnOk, lir.Vars(r), nil)
	return cfg, r
}

func TestCheckCFG(t *testing.T) {
	cfg, _ := diamond()
	if err := testkit.CheckCFG(cfg); err != nil {
		t.Fatalf("diamond: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*lir.FunctionCfg)
		want   string
	}{
		{"bad_entry", func(f *lir.FunctionCfg) { f.Entry = 9 }, "entry bb9"},
		{"label_mismatch", func(f *lir.FunctionCfg) { f.Blocks[2].Label = 7 }, "index 2 is labelled bb7"},
		{"missing_entry", func(f *lir.FunctionCfg) { f.Blocks[3].Phis[0].Entries = f.Blocks[3].Phis[0].Entries[:1] }, "without a matching entry"},
		{"unassigned", func(f *lir.FunctionCfg) { f.Blocks[1].Ops = f.Blocks[1].Ops[1:] }, "SSA:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := diamond()
			tt.mutate(cfg)
			err := testkit.CheckCFG(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
