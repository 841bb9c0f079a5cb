package lir

import (
	"fmt"
	"io"
	"strings"

	"eir/internal/ir"
)

// DumpFunc writes a human-readable representation of one graph.
func DumpFunc(w io.Writer, name string, f *FunctionCfg) error {
	if w == nil || f == nil {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "fn %s entry=bb%d:\n", name, f.Entry)
	reachable := Reachable(f)
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if reachable[i] {
			fmt.Fprintf(&sb, "  bb%d:\n", bb.Label)
		} else {
			fmt.Fprintf(&sb, "  bb%d: ; unreachable\n", bb.Label)
		}
		for j := range bb.Phis {
			sb.WriteString("    ")
			sb.WriteString(formatPhi(&bb.Phis[j]))
			sb.WriteByte('\n')
		}
		for j := range bb.Ops {
			sb.WriteString("    ")
			sb.WriteString(FormatOp(&bb.Ops[j]))
			sb.WriteByte('\n')
		}
		if len(bb.Succs) > 0 {
			sb.WriteString("    -> ")
			for j, s := range bb.Succs {
				if j > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "bb%d", s)
			}
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatPhi(p *Phi) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = phi", p.Dst)
	for i, e := range p.Entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, " [bb%d: %s]", e.Pred, e.Src)
	}
	return sb.String()
}

// FormatOp renders one op as "writes = kind payload reads".
func FormatOp(op *Op) string {
	if op == nil {
		return "<nil>"
	}
	var sb strings.Builder
	if len(op.Writes) > 0 {
		sb.WriteString(joinIDs(op.Writes))
		sb.WriteString(" = ")
	}
	sb.WriteString(op.Kind.String())
	switch op.Kind {
	case OpPrimOp:
		fmt.Fprintf(&sb, " %s", op.PrimOp)
	case OpCaptureNamedFunction, OpBindClosure:
		fmt.Fprintf(&sb, " %s", op.Ident)
	case OpMakeClosureEnv:
		fmt.Fprintf(&sb, " %s", op.Env)
	case OpBindClause:
		fmt.Fprintf(&sb, " #%d", op.Clause)
	case OpCase:
		fmt.Fprintf(&sb, " scrutinees=%d clauses=%d", op.Case.Scrutinees, len(op.Case.Clauses))
	case OpMatch:
		sb.WriteString(" [")
		for i, t := range op.Tests {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.String())
		}
		sb.WriteByte(']')
	}
	if len(op.Reads) > 0 {
		sb.WriteByte(' ')
		for i, r := range op.Reads {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(r.String())
		}
	}
	return sb.String()
}

func joinIDs(ids []ir.SSAID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
