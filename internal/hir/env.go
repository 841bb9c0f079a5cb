package hir

import (
	"fmt"

	"eir/internal/ir"
)

// LiftedLambda is an inline closure body discovered while lowering its
// parent. It is lowered afterwards as a function of its own.
type LiftedLambda struct {
	Ident ir.FunctionIdent
	Fun   *Function
}

// Env is the scope state threaded through the lowering of one module. It
// is owned by exactly one lowering at a time; parallel drivers hand each
// worker a Fork and Join the forks back in order.
type Env struct {
	envs   []LambdaEnv
	lifted []LiftedLambda
	seen   map[ir.FunctionIdent]struct{}
}

// NewEnv creates an environment over the module's closure-environment
// table.
func NewEnv(m *Module) *Env {
	env := &Env{seen: make(map[ir.FunctionIdent]struct{})}
	if m != nil {
		env.envs = m.LambdaEnvs
	}
	return env
}

// LambdaEnv looks up a closure environment. An Env built without a table
// accepts any index and reports an empty environment.
func (e *Env) LambdaEnv(idx ir.LambdaEnvIdx) (LambdaEnv, bool) {
	if e == nil || e.envs == nil {
		return LambdaEnv{}, true
	}
	if int(idx) >= len(e.envs) {
		return LambdaEnv{}, false
	}
	return e.envs[idx], true
}

// Lift queues an inline lambda body. Lifting the same identifier twice is
// an error: every lambda has exactly one owning closure.
func (e *Env) Lift(ident ir.FunctionIdent, fun *Function) error {
	if e == nil {
		return nil
	}
	if _, dup := e.seen[ident]; dup {
		return fmt.Errorf("lambda %s lifted twice", ident)
	}
	e.seen[ident] = struct{}{}
	e.lifted = append(e.lifted, LiftedLambda{Ident: ident, Fun: fun})
	return nil
}

// TakeLifted returns and clears the queued lambdas.
func (e *Env) TakeLifted() []LiftedLambda {
	if e == nil {
		return nil
	}
	out := e.lifted
	e.lifted = nil
	return out
}

// Fork returns an Env sharing the read-only environment table with an
// empty lambda queue.
func (e *Env) Fork() *Env {
	fork := &Env{seen: make(map[ir.FunctionIdent]struct{})}
	if e != nil {
		fork.envs = e.envs
	}
	return fork
}

// Join appends the lambdas queued on fork, in order.
func (e *Env) Join(fork *Env) error {
	if e == nil || fork == nil {
		return nil
	}
	for _, l := range fork.lifted {
		if err := e.Lift(l.Ident, l.Fun); err != nil {
			return err
		}
	}
	fork.lifted = nil
	return nil
}
