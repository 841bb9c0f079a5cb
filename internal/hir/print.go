package hir

import (
	"fmt"
	"io"
	"strings"

	"eir/internal/ir"
)

// Printer is used to dump HIR to text format.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes the HIR module to the writer.
func Dump(w io.Writer, m *Module) error {
	return NewPrinter(w).PrintModule(m)
}

// PrintModule prints a complete module.
func (p *Printer) PrintModule(m *Module) error {
	if m == nil {
		return nil
	}
	p.printf("module %s\n", m.Name)
	for i, env := range m.LambdaEnvs {
		caps := make([]string, len(env.Captures))
		for j, c := range env.Captures {
			caps[j] = string(c)
		}
		p.printf("  env%d: [%s]\n", i, strings.Join(caps, ", "))
	}
	p.printf("\n")
	for _, fd := range m.Functions {
		if err := p.PrintFunc(fd.Ident, fd.Fun); err != nil {
			return err
		}
		p.printf("\n")
	}
	return p.err
}

// PrintFunc prints one function.
func (p *Printer) PrintFunc(ident ir.FunctionIdent, f *Function) error {
	if f == nil {
		return nil
	}
	p.printf("fun %s(", ident)
	p.printVars(f.Args)
	p.printf(") {\n")
	p.indent++
	p.printIndent()
	p.printExpr(f.Body)
	p.printf("\n")
	p.indent--
	p.printf("}\n")
	return p.err
}

func (p *Printer) printVars(vs []AVariable) {
	for i, v := range vs {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s%s", v.Var, v.SSA)
	}
}

func (p *Printer) printList(es []*SingleExpr) {
	for i, e := range es {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(e)
	}
}

func (p *Printer) printSeq(e Expr) {
	p.printf("<")
	p.printList(e.Values)
	p.printf(">")
}

func (p *Printer) printExpr(e *SingleExpr) {
	if e == nil {
		p.printf("<nil>")
		return
	}

	switch d := e.Data.(type) {
	case AtomicData:
		p.printf("%s", d.Value)
	case VariableData:
		p.printf("%s%s", d.Var.Var, d.Var.SSA)
		return
	case NamedFunctionData:
		if d.IsLambda {
			p.printf("lambda ")
		}
		p.printf("fun %s", d.Name)
	case TupleData:
		p.printf("{")
		p.printList(d.Elems)
		p.printf("}")
	case ListData:
		p.printf("[")
		p.printList(d.Head)
		p.printf(" | ")
		p.printExpr(d.Tail)
		p.printf("]")
	case MapData:
		p.printf("~{")
		for i, ent := range d.Entries {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(ent.Key)
			p.printf(" => ")
			p.printExpr(ent.Value)
		}
		p.printf("}~")
	case PrimOpData:
		p.printf("primop %s(", d.Name)
		p.printList(d.Args)
		p.printf(")")
	case ApplyCallData:
		p.printf("apply ")
		p.printExpr(d.Fun)
		p.printf("(")
		p.printList(d.Args)
		p.printf(")")
	case InterModuleCallData:
		p.printf("call ")
		p.printExpr(d.Module)
		p.printf(":")
		p.printExpr(d.Name)
		p.printf("(")
		p.printList(d.Args)
		p.printf(")")
	case LetData:
		p.printf("let <")
		p.printVars(d.Vars)
		p.printf("> = ")
		p.printSeq(d.Val)
		p.printf(" in\n")
		p.indent++
		p.printIndent()
		p.printExpr(d.Body)
		p.indent--
	case DoData:
		p.printf("do ")
		p.printSeq(d.First)
		p.printf("\n")
		p.indent++
		p.printIndent()
		p.printExpr(d.Then)
		p.indent--
	case TryData:
		p.printf("try ")
		p.printSeq(d.Body)
		p.printf(" of <")
		p.printVars(d.ThenVars)
		p.printf("> ->\n")
		p.indent++
		p.printIndent()
		p.printExpr(d.Then)
		p.printf("\n")
		p.indent--
		p.printIndent()
		p.printf("catch <")
		p.printVars(d.CatchVars)
		p.printf("> ->\n")
		p.indent++
		p.printIndent()
		p.printExpr(d.Catch)
		p.indent--
	case CaseData:
		p.printf("case ")
		p.printSeq(d.Val)
		if len(d.Values) > 0 {
			p.printf(" values [")
			p.printList(d.Values)
			p.printf("]")
		}
		p.printf(" of\n")
		p.printClauses(d.Clauses)
		p.printIndent()
		p.printf("end")
	case ReceiveData:
		p.printf("receive\n")
		p.printClauses(d.Clauses)
		p.printIndent()
		p.printf("after ")
		p.printExpr(d.TimeoutTime)
		p.printf(" ->\n")
		p.indent++
		p.printIndent()
		p.printExpr(d.TimeoutBody)
		p.indent--
	case BindClosureData:
		p.printf("closure ")
		p.printClosure(&d.Closure)
		if d.HasEnv {
			p.printf(" in %s%s", d.LambdaEnv, d.EnvSSA)
		}
	case BindClosuresData:
		p.printf("letrec")
		if d.HasEnv {
			p.printf(" %s%s", d.LambdaEnv, d.EnvSSA)
		}
		p.printf("\n")
		p.indent++
		for i := range d.Closures {
			p.printIndent()
			p.printClosure(&d.Closures[i])
			p.printf("\n")
		}
		p.indent--
		p.printIndent()
		p.printf("in ")
		p.printExpr(d.Body)
	case TestData:
		p.printf("test")
	default:
		p.printf("<%s>", e.Kind)
	}
	p.printf("%s", e.SSA)
}

func (p *Printer) printClosure(c *Closure) {
	if c.HasAlias {
		p.printf("%s = ", c.Alias)
	}
	switch t := c.Target.(type) {
	case NamedTarget:
		p.printf("fun %s", t.Target)
	case InlineTarget:
		p.printf("fun %s(", t.Target)
		if t.Fun != nil {
			p.printVars(t.Fun.Args)
			p.printf(") -> ")
			p.printExpr(t.Fun.Body)
		} else {
			p.printf(")")
		}
	default:
		p.printf("<no target>")
	}
}

func (p *Printer) printClauses(cs []Clause) {
	p.indent++
	for i := range cs {
		c := &cs[i]
		p.printIndent()
		p.printf("<")
		for j := range c.Patterns {
			if j > 0 {
				p.printf(", ")
			}
			p.printPattern(c.Patterns[j].Node)
		}
		p.printf(">")
		if c.Guard != nil {
			p.printf(" when ")
			p.printExpr(c.Guard)
		}
		p.printf(" ->\n")
		p.indent++
		p.printIndent()
		p.printExpr(c.Body)
		p.printf("\n")
		p.indent--
	}
	p.indent--
}

func (p *Printer) printPattern(n *PatternNode) {
	if n == nil {
		p.printf("_")
		return
	}
	switch n.Kind {
	case PatternVariable:
		p.printf("%s", n.Var)
	case PatternBind:
		p.printf("%s = ", n.Var)
		p.printPattern(n.Sub)
	case PatternAtomic:
		p.printf("%s", n.Lit)
	case PatternTuple:
		p.printf("{")
		for i, e := range n.Elems {
			if i > 0 {
				p.printf(", ")
			}
			p.printPattern(e)
		}
		p.printf("}")
	case PatternList:
		p.printf("[")
		for i, e := range n.Elems {
			if i > 0 {
				p.printf(", ")
			}
			p.printPattern(e)
		}
		p.printf(" | ")
		p.printPattern(n.Tail)
		p.printf("]")
	case PatternMap:
		p.printf("~{")
		for i, e := range n.Entries {
			if i > 0 {
				p.printf(", ")
			}
			p.printf("#%d := ", e.ValueIdx)
			p.printPattern(e.Pat)
		}
		p.printf("}~")
	}
}

func (p *Printer) printIndent() {
	for range p.indent {
		p.printf("  ")
	}
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
