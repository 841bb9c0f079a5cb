package diag

import (
	"fmt"
)

// Location points into a lowered module. Block is -1 for findings about a
// whole function; Index is -1 for findings about a whole block.
type Location struct {
	Func  string
	Block int32
	Index int
	Phi   bool
}

// FuncLocation points at a whole function.
func FuncLocation(fn string) Location {
	return Location{Func: fn, Block: -1, Index: -1}
}

// BlockLocation points at a block or, with index >= 0, at one of its ops
// or phis.
func BlockLocation(fn string, block int32, index int, phi bool) Location {
	return Location{Func: fn, Block: block, Index: index, Phi: phi}
}

func (l Location) String() string {
	switch {
	case l.Block < 0:
		return l.Func
	case l.Index < 0:
		return fmt.Sprintf("%s:bb%d", l.Func, l.Block)
	case l.Phi:
		return fmt.Sprintf("%s:bb%d:phi%d", l.Func, l.Block, l.Index)
	default:
		return fmt.Sprintf("%s:bb%d:%d", l.Func, l.Block, l.Index)
	}
}

// Less orders locations by function, block, phis before ops, then index.
func (l Location) Less(o Location) bool {
	if l.Func != o.Func {
		return l.Func < o.Func
	}
	if l.Block != o.Block {
		return l.Block < o.Block
	}
	if l.Phi != o.Phi {
		return l.Phi
	}
	return l.Index < o.Index
}

type Note struct {
	Loc Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, primary Location, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Location, msg string) *Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d *Diagnostic) WithNote(loc Location, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}
