// Package hir provides the High-level Intermediate Representation.
//
// HIR is a tree: every producing node carries the SSA identifier of the
// value it computes, but control structure (let, case, try, receive) is
// still nested. It is built and SSA-numbered upstream and consumed by the
// lowering to LIR.
//
// The HIR layer is designed to be the input for:
// - Rewrites that need a uniform deep visit (see Walk)
// - Lowering to the LIR control-flow graph
package hir

import (
	"eir/internal/ir"
)

// AVariable is a variable annotated with the SSA id it was assigned.
type AVariable struct {
	Var ir.Variable
	SSA ir.SSAID
}

// Function represents one function body.
type Function struct {
	Args []AVariable
	Body *SingleExpr
}

// FunctionDefinition is a named top-level function of a module.
type FunctionDefinition struct {
	Ident ir.FunctionIdent
	Fun   *Function
}

// Module is the unit handed over by the upstream HIR construction.
type Module struct {
	Name       ir.Atom
	Functions  []FunctionDefinition
	LambdaEnvs []LambdaEnv
}

// LambdaEnv describes one closure environment: the variables captured
// from the defining scope, in slot order.
type LambdaEnv struct {
	Captures []ir.Variable
}

// ClosureTarget is either NamedTarget or InlineTarget.
type ClosureTarget interface {
	Ident() ir.FunctionIdent
	closureTarget()
}

// NamedTarget binds a previously defined function into a new environment.
type NamedTarget struct {
	Target ir.FunctionIdent
}

// InlineTarget is a lambda whose body is owned by the closure.
type InlineTarget struct {
	Target ir.FunctionIdent
	Fun    *Function
}

func (t NamedTarget) Ident() ir.FunctionIdent  { return t.Target }
func (t InlineTarget) Ident() ir.FunctionIdent { return t.Target }

func (NamedTarget) closureTarget()  {}
func (InlineTarget) closureTarget() {}

// Closure is one closure created by BindClosure or BindClosures.
type Closure struct {
	Alias    ir.FunctionName // surface name, valid if HasAlias
	HasAlias bool
	Target   ClosureTarget
	Env      ir.LambdaEnvIdx // valid if HasEnv
	HasEnv   bool
}

// InlineFun returns the owned lambda body, or nil for a named target.
func (c *Closure) InlineFun() *Function {
	if c == nil {
		return nil
	}
	if t, ok := c.Target.(InlineTarget); ok {
		return t.Fun
	}
	return nil
}
