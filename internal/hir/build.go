package hir

import (
	"eir/internal/ir"
)

// The constructors below allocate a fresh SSA id for the node they build.
// They stand in for the upstream HIR construction in samples and tests.

// NewVar returns a variable annotated with a fresh SSA id.
func NewVar(name ir.Variable) AVariable {
	return AVariable{Var: name, SSA: ir.NextSSA()}
}

func node(kind ExprKind, data ExprData) *SingleExpr {
	return &SingleExpr{SSA: ir.NextSSA(), Kind: kind, Data: data}
}

// Atomic builds a literal node.
func Atomic(lit ir.Literal) *SingleExpr {
	return node(ExprAtomic, AtomicData{Value: lit})
}

// Ref builds a reference to v. The node carries v's id: a variable
// reference produces no new value.
func Ref(v AVariable) *SingleExpr {
	return &SingleExpr{SSA: v.SSA, Kind: ExprVariable, Data: VariableData{Var: v}}
}

// FunRef builds a reference to a named function.
func FunRef(name ir.Atom, arity uint32, isLambda bool) *SingleExpr {
	return node(ExprNamedFunction, NamedFunctionData{
		Name:     ir.FunctionName{Name: name, Arity: arity},
		IsLambda: isLambda,
	})
}

// Tuple builds a tuple constructor.
func Tuple(elems ...*SingleExpr) *SingleExpr {
	return node(ExprTuple, TupleData{Elems: elems})
}

// List builds [head... | tail].
func List(head []*SingleExpr, tail *SingleExpr) *SingleExpr {
	return node(ExprList, ListData{Head: head, Tail: tail})
}

// Map builds a map constructor.
func Map(entries ...MapEntry) *SingleExpr {
	return node(ExprMap, MapData{Entries: entries})
}

// PrimOp builds a primitive operation call.
func PrimOp(name ir.Atom, args ...*SingleExpr) *SingleExpr {
	return node(ExprPrimOp, PrimOpData{Name: name, Args: args})
}

// Apply builds a call through a function value.
func Apply(fun *SingleExpr, args ...*SingleExpr) *SingleExpr {
	return node(ExprApplyCall, ApplyCallData{Fun: fun, Args: args})
}

// Call builds module:name(args...).
func Call(module, name *SingleExpr, args ...*SingleExpr) *SingleExpr {
	return node(ExprInterModuleCall, InterModuleCallData{Module: module, Name: name, Args: args})
}

// Let binds vars to the values of val in body.
func Let(vars []AVariable, val []*SingleExpr, body *SingleExpr) *SingleExpr {
	return node(ExprLet, LetData{Vars: vars, Val: Expr{Values: val}, Body: body})
}

// Seq builds a do-sequence: first is evaluated for effect.
func Seq(first []*SingleExpr, then *SingleExpr) *SingleExpr {
	return node(ExprDo, DoData{First: Expr{Values: first}, Then: then})
}

// Try builds a try expression.
func Try(body []*SingleExpr, thenVars []AVariable, then *SingleExpr, catchVars []AVariable, catch *SingleExpr) *SingleExpr {
	return node(ExprTry, TryData{
		Body:      Expr{Values: body},
		ThenVars:  thenVars,
		Then:      then,
		CatchVars: catchVars,
		Catch:     catch,
	})
}

// CaseOf builds a case over scrutinees.
func CaseOf(scrutinees []*SingleExpr, values []*SingleExpr, clauses ...Clause) *SingleExpr {
	return node(ExprCase, CaseData{Val: Expr{Values: scrutinees}, Clauses: clauses, Values: values})
}

// Receive builds a receive expression.
func Receive(values []*SingleExpr, timeout, after *SingleExpr, clauses ...Clause) *SingleExpr {
	return node(ExprReceive, ReceiveData{
		Clauses:       clauses,
		TimeoutTime:   timeout,
		TimeoutBody:   after,
		PatternValues: values,
	})
}

// BindClosure builds a single closure creation over env.
func BindClosure(c Closure, env ir.LambdaEnvIdx) *SingleExpr {
	return node(ExprBindClosure, BindClosureData{
		Closure:   c,
		LambdaEnv: env,
		HasEnv:    true,
		EnvSSA:    ir.NextSSA(),
	})
}

// BindClosures builds a letrec-style group of closures.
func BindClosures(cs []Closure, env ir.LambdaEnvIdx, body *SingleExpr) *SingleExpr {
	return node(ExprBindClosures, BindClosuresData{
		Closures:  cs,
		LambdaEnv: env,
		HasEnv:    true,
		Body:      body,
		EnvSSA:    ir.NextSSA(),
	})
}

// PVar is a variable pattern.
func PVar(v ir.Variable) *PatternNode {
	return &PatternNode{Kind: PatternVariable, Var: v}
}

// PLit is a literal pattern.
func PLit(lit ir.Literal) *PatternNode {
	return &PatternNode{Kind: PatternAtomic, Lit: lit}
}

// PTuple is a tuple pattern.
func PTuple(elems ...*PatternNode) *PatternNode {
	return &PatternNode{Kind: PatternTuple, Elems: elems}
}

// PList is a [head... | tail] pattern.
func PList(head []*PatternNode, tail *PatternNode) *PatternNode {
	return &PatternNode{Kind: PatternList, Elems: head, Tail: tail}
}

// PBind is a v = sub pattern.
func PBind(v ir.Variable, sub *PatternNode) *PatternNode {
	return &PatternNode{Kind: PatternBind, Var: v, Sub: sub}
}

// PMap is a map pattern.
func PMap(entries ...MapPatternEntry) *PatternNode {
	return &PatternNode{Kind: PatternMap, Entries: entries}
}
