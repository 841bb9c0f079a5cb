package lir

import (
	"eir/internal/hir"
	"eir/internal/ir"
	"eir/internal/pattern"
)

// OpKind enumerates LIR op kinds.
type OpKind uint8

const (
	// OpArguments defines the function parameters. Writes: one per parameter.
	OpArguments OpKind = iota
	// OpMove copies its single read into its single write.
	OpMove
	// OpCall calls module:name(args). Reads: [module, name, args...].
	// Succs of its block: [resume, throw].
	OpCall
	// OpApply calls a function value. Reads: [fun, args...].
	// Succs of its block: [resume, throw].
	OpApply
	// OpReturnOk returns its single read.
	OpReturnOk
	// OpReturnThrow unwinds with the pending exception.
	OpReturnThrow
	// OpJump transfers control to the single successor.
	OpJump
	// OpCase describes a case whose clauses are the block's successors,
	// in order. Reads: [scrutinees..., pattern values...]. Discrimination
	// is left to code generation.
	OpCase
	// OpMatch tests its single read; successor i is taken when test i holds.
	OpMatch
	// OpBindClause defines the variables bound by a matched clause.
	OpBindClause
	// OpMakeTuple builds a tuple from its reads.
	OpMakeTuple
	// OpMakeList builds a list. Reads: [tail, head0, head1, ...].
	OpMakeList
	// OpMakeMap builds a map. Reads: [key0, value0, key1, value1, ...].
	OpMakeMap
	// OpPrimOp calls a built-in operation with its reads.
	OpPrimOp
	// OpCaptureNamedFunction turns a named function into a value.
	OpCaptureNamedFunction
	// OpMakeClosureEnv materializes a closure environment.
	OpMakeClosureEnv
	// OpBindClosure binds a call target to an environment. Reads: [env].
	OpBindClosure
)

// String returns the mnemonic of the kind.
func (k OpKind) String() string {
	switch k {
	case OpArguments:
		return "arguments"
	case OpMove:
		return "move"
	case OpCall:
		return "call"
	case OpApply:
		return "apply"
	case OpReturnOk:
		return "return_ok"
	case OpReturnThrow:
		return "return_throw"
	case OpJump:
		return "jump"
	case OpCase:
		return "case"
	case OpMatch:
		return "match"
	case OpBindClause:
		return "bind_clause"
	case OpMakeTuple:
		return "make_tuple"
	case OpMakeList:
		return "make_list"
	case OpMakeMap:
		return "make_map"
	case OpPrimOp:
		return "primop"
	case OpCaptureNamedFunction:
		return "capture_named_function"
	case OpMakeClosureEnv:
		return "make_closure_env"
	case OpBindClosure:
		return "bind_closure"
	default:
		return "unknown"
	}
}

// SourceKind distinguishes read operands.
type SourceKind uint8

const (
	// SourceVar reads a previously written SSA id.
	SourceVar SourceKind = iota
	// SourceConst is an inline literal.
	SourceConst
)

// Source is one read operand.
type Source struct {
	Kind  SourceKind
	Var   ir.SSAID
	Const ir.Literal
}

// Var builds a variable operand.
func Var(id ir.SSAID) Source {
	return Source{Kind: SourceVar, Var: id}
}

// Const builds a literal operand.
func Const(lit ir.Literal) Source {
	return Source{Kind: SourceConst, Const: lit}
}

// Vars builds one variable operand per id.
func Vars(ids ...ir.SSAID) []Source {
	out := make([]Source, len(ids))
	for i, id := range ids {
		out[i] = Var(id)
	}
	return out
}

func (s Source) String() string {
	if s.Kind == SourceConst {
		return s.Const.String()
	}
	return s.Var.String()
}

// CaseClause is the copy of one clause's patterns carried by OpCase.
type CaseClause struct {
	Patterns []hir.Pattern
}

// CaseOp is the payload of OpCase. The op's reads are the scrutinees
// followed by the pattern values referenced by map patterns.
type CaseOp struct {
	Scrutinees int
	Clauses    []CaseClause
}

// Op is one LIR operation. Payload fields are set according to Kind.
type Op struct {
	Kind   OpKind
	Reads  []Source
	Writes []ir.SSAID

	PrimOp ir.Atom          // OpPrimOp
	Ident  ir.FunctionIdent // OpCaptureNamedFunction, OpBindClosure
	Env    ir.LambdaEnvIdx  // OpMakeClosureEnv
	Clause int              // OpBindClause
	Case   CaseOp           // OpCase
	Tests  []pattern.Test   // OpMatch, one per successor
}
