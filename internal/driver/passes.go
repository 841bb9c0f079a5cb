package driver

import (
	"errors"
	"fmt"
	"strings"

	"eir/internal/diag"
	"eir/internal/lir"
)

// ErrUnknownPass is returned by ParsePasses for a name not in the registry.
var ErrUnknownPass = errors.New("unknown pass")

// Pass is one step run over every lowered graph, in configuration order.
// It reports findings through rep and returns a short trace detail.
type Pass struct {
	Name string
	run  func(fn string, cfg *lir.FunctionCfg, rep diag.Reporter) string
}

var registry = []Pass{
	{Name: "validate", run: runValidate},
	{Name: "propagate-constants", run: runPropagate},
}

// PassNames lists the registered passes.
func PassNames() []string {
	names := make([]string, len(registry))
	for i, p := range registry {
		names[i] = p.Name
	}
	return names
}

// ParsePasses resolves names against the registry, keeping their order.
func ParsePasses(names []string) ([]Pass, error) {
	passes := make([]Pass, 0, len(names))
	for _, name := range names {
		found := false
		for _, p := range registry {
			if p.Name == name {
				passes = append(passes, p)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownPass, name, strings.Join(PassNames(), ", "))
		}
	}
	return passes, nil
}

var violationCodes = map[lir.ViolationKind]diag.Code{
	lir.DoubleAssign:      diag.SSADoubleAssign,
	lir.UseOfUnassigned:   diag.SSAUseOfUnassigned,
	lir.BadTarget:         diag.CFGBadTarget,
	lir.PhiNotPredecessor: diag.CFGPhiNotPredecessor,
	lir.EmptyTarget:       diag.CFGEmptyTarget,
}

func runValidate(fn string, cfg *lir.FunctionCfg, rep diag.Reporter) string {
	violations := append(lir.ValidateSSA(cfg), lir.ValidateStructure(cfg)...)
	for _, v := range violations {
		loc := diag.BlockLocation(fn, int32(v.Loc.Block), v.Loc.Index, v.Loc.Phi)
		var msg string
		switch v.Kind {
		case lir.DoubleAssign, lir.UseOfUnassigned:
			msg = fmt.Sprintf("%s of %s", v.Kind, v.SSA)
		default:
			msg = fmt.Sprintf("%s bb%d", v.Kind, v.Label)
		}
		diag.ReportError(rep, violationCodes[v.Kind], loc, msg).Emit()
	}
	return fmt.Sprintf("%d violations", len(violations))
}

func runPropagate(_ string, cfg *lir.FunctionCfg, _ diag.Reporter) string {
	return fmt.Sprintf("%d moves removed", lir.PropagateConstants(cfg))
}
