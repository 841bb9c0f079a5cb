package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Atom is an interned symbolic constant.
type Atom string

func (a Atom) String() string {
	s := string(a)
	if s == "" {
		return "''"
	}
	first := s[0]
	if first < 'a' || first > 'z' || strings.ContainsAny(s, " -.:'\"") {
		return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
	}
	return s
}

// Variable is a surface variable name.
type Variable string

// FunctionName identifies a function by name and arity.
type FunctionName struct {
	Name  Atom
	Arity uint32
}

func (n FunctionName) String() string {
	return fmt.Sprintf("%s/%d", n.Name, n.Arity)
}

// FunctionIdent is a resolved call target. Lambda bodies lifted out of
// their parent carry the environment they close over and their position
// within it.
type FunctionIdent struct {
	Name  Atom
	Arity uint32

	HasLambda   bool
	LambdaEnv   LambdaEnvIdx
	LambdaIndex int
}

// Ident builds a non-lambda FunctionIdent.
func Ident(name Atom, arity uint32) FunctionIdent {
	return FunctionIdent{Name: name, Arity: arity}
}

// FunctionName drops the lambda part of the identifier.
func (f FunctionIdent) FunctionName() FunctionName {
	return FunctionName{Name: f.Name, Arity: f.Arity}
}

func (f FunctionIdent) String() string {
	if !f.HasLambda {
		return fmt.Sprintf("%s/%d", f.Name, f.Arity)
	}
	return f.Name.String() + "-" + f.LambdaEnv.String() + "-" + strconv.Itoa(f.LambdaIndex) + "/" + strconv.FormatUint(uint64(f.Arity), 10)
}
