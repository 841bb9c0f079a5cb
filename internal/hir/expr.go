package hir

import (
	"eir/internal/ir"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprAtomic is an inline literal.
	ExprAtomic ExprKind = iota
	// ExprVariable references an already-defined variable.
	ExprVariable
	// ExprNamedFunction references a function by name and arity.
	ExprNamedFunction
	// ExprBindClosure creates one closure over a captured environment.
	ExprBindClosure
	// ExprBindClosures creates a group of mutually recursive closures.
	ExprBindClosures
	// ExprTuple constructs a tuple.
	ExprTuple
	// ExprList constructs a list from head elements and a tail.
	ExprList
	// ExprMap constructs a map.
	ExprMap
	// ExprPrimOp calls a built-in operation.
	ExprPrimOp
	// ExprApplyCall calls a function value.
	ExprApplyCall
	// ExprInterModuleCall calls module:name(args).
	ExprInterModuleCall
	// ExprLet binds values and evaluates a body.
	ExprLet
	// ExprTry evaluates a body with then/catch continuations.
	ExprTry
	// ExprCase matches values against clauses.
	ExprCase
	// ExprTest is reserved for guard test sequences and is never lowered.
	ExprTest
	// ExprDo evaluates a prefix for effect, then a tail.
	ExprDo
	// ExprReceive waits on the mailbox with a timeout.
	ExprReceive
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprAtomic:
		return "Atomic"
	case ExprVariable:
		return "Variable"
	case ExprNamedFunction:
		return "NamedFunction"
	case ExprBindClosure:
		return "BindClosure"
	case ExprBindClosures:
		return "BindClosures"
	case ExprTuple:
		return "Tuple"
	case ExprList:
		return "List"
	case ExprMap:
		return "Map"
	case ExprPrimOp:
		return "PrimOp"
	case ExprApplyCall:
		return "ApplyCall"
	case ExprInterModuleCall:
		return "InterModuleCall"
	case ExprLet:
		return "Let"
	case ExprTry:
		return "Try"
	case ExprCase:
		return "Case"
	case ExprTest:
		return "Test"
	case ExprDo:
		return "Do"
	case ExprReceive:
		return "Receive"
	default:
		return "Unknown"
	}
}

// SingleExpr is one HIR tree node. SSA names the value the node produces.
type SingleExpr struct {
	SSA  ir.SSAID
	Kind ExprKind
	Data ExprData // Kind-specific payload
}

// Expr is an ordered sequence of nodes evaluated in turn, e.g. the values
// bound by a let.
type Expr struct {
	Values []*SingleExpr
}

// SSAs returns the identifiers of every value in the sequence.
func (e *Expr) SSAs() []ir.SSAID {
	if e == nil {
		return nil
	}
	out := make([]ir.SSAID, len(e.Values))
	for i, v := range e.Values {
		out[i] = v.SSA
	}
	return out
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// AtomicData holds an inline literal.
type AtomicData struct {
	Value ir.Literal
}

// VariableData references a variable defined earlier.
type VariableData struct {
	Var AVariable
}

// NamedFunctionData references a function. IsLambda marks a binding local
// to the enclosing lambda group, which is already in scope.
type NamedFunctionData struct {
	Name     ir.FunctionName
	IsLambda bool
}

// BindClosureData creates one closure. EnvSSA receives the materialized
// environment value.
type BindClosureData struct {
	Closure   Closure
	LambdaEnv ir.LambdaEnvIdx
	HasEnv    bool
	EnvSSA    ir.SSAID
}

// BindClosuresData creates a group of closures sharing one environment and
// evaluates Body with all of them in scope.
type BindClosuresData struct {
	Closures  []Closure
	LambdaEnv ir.LambdaEnvIdx
	HasEnv    bool
	Body      *SingleExpr
	EnvSSA    ir.SSAID
}

// TupleData constructs a tuple.
type TupleData struct {
	Elems []*SingleExpr
}

// ListData constructs [Head... | Tail].
type ListData struct {
	Head []*SingleExpr
	Tail *SingleExpr
}

// MapEntry is one key/value pair of a map constructor.
type MapEntry struct {
	Key   *SingleExpr
	Value *SingleExpr
}

// MapData constructs a map.
type MapData struct {
	Entries []MapEntry
}

// PrimOpData calls a built-in operation.
type PrimOpData struct {
	Name ir.Atom
	Args []*SingleExpr
}

// ApplyCallData calls a function value.
type ApplyCallData struct {
	Fun  *SingleExpr
	Args []*SingleExpr
}

// InterModuleCallData calls Module:Name(Args...).
type InterModuleCallData struct {
	Module *SingleExpr
	Name   *SingleExpr
	Args   []*SingleExpr
}

// LetData binds the values of Val to Vars and evaluates Body.
type LetData struct {
	Vars []AVariable
	Val  Expr
	Body *SingleExpr
}

// TryData evaluates Body; on success its values bind ThenVars for Then, on
// failure the exception triple binds CatchVars for Catch. Then and Catch
// bind the same number of variables.
type TryData struct {
	Body      Expr
	ThenVars  []AVariable
	Then      *SingleExpr
	CatchVars []AVariable
	Catch     *SingleExpr
}

// CaseData matches the values of Val against Clauses. Values holds the
// expressions that map patterns refer to by index.
type CaseData struct {
	Val     Expr
	Clauses []Clause
	Values  []*SingleExpr
}

// TestData is reserved; no producer emits it yet.
type TestData struct{}

// DoData evaluates First for effect, then Then.
type DoData struct {
	First Expr
	Then  *SingleExpr
}

// ReceiveData matches mailbox messages against Clauses, running
// TimeoutBody once TimeoutTime elapses.
type ReceiveData struct {
	Clauses       []Clause
	TimeoutTime   *SingleExpr
	TimeoutBody   *SingleExpr
	PatternValues []*SingleExpr
}

func (AtomicData) exprData()          {}
func (VariableData) exprData()        {}
func (NamedFunctionData) exprData()   {}
func (BindClosureData) exprData()     {}
func (BindClosuresData) exprData()    {}
func (TupleData) exprData()           {}
func (ListData) exprData()            {}
func (MapData) exprData()             {}
func (PrimOpData) exprData()          {}
func (ApplyCallData) exprData()       {}
func (InterModuleCallData) exprData() {}
func (LetData) exprData()             {}
func (TryData) exprData()             {}
func (CaseData) exprData()            {}
func (TestData) exprData()            {}
func (DoData) exprData()              {}
func (ReceiveData) exprData()         {}
