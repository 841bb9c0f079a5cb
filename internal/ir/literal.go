package ir

import "strconv"

// LiteralKind enumerates atomic literal kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralAtom
	LiteralNil
	LiteralChar
	LiteralString
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralInt:
		return "int"
	case LiteralFloat:
		return "float"
	case LiteralAtom:
		return "atom"
	case LiteralNil:
		return "nil"
	case LiteralChar:
		return "char"
	case LiteralString:
		return "string"
	default:
		return "unknown"
	}
}

// Literal is an atomic constant. Integers and floats keep their decimal
// text so arbitrary precision survives until code generation. Literal is
// comparable.
type Literal struct {
	Kind LiteralKind

	// Text holds the digits of an int (with optional leading '-'), the
	// text of a float, the name of an atom and the contents of a string.
	Text string
	Char rune
}

// IntLit builds an integer literal.
func IntLit(v int64) Literal {
	return Literal{Kind: LiteralInt, Text: strconv.FormatInt(v, 10)}
}

// BigIntLit builds an integer literal from sign and decimal digits.
func BigIntLit(negative bool, digits string) Literal {
	if negative {
		digits = "-" + digits
	}
	return Literal{Kind: LiteralInt, Text: digits}
}

// FloatLit builds a float literal from its source text.
func FloatLit(text string) Literal {
	return Literal{Kind: LiteralFloat, Text: text}
}

// AtomLit builds an atom literal.
func AtomLit(a Atom) Literal {
	return Literal{Kind: LiteralAtom, Text: string(a)}
}

// NilLit builds the empty list literal.
func NilLit() Literal {
	return Literal{Kind: LiteralNil}
}

// CharLit builds a character literal.
func CharLit(r rune) Literal {
	return Literal{Kind: LiteralChar, Char: r}
}

// StringLit builds a string literal.
func StringLit(s string) Literal {
	return Literal{Kind: LiteralString, Text: s}
}

func (l Literal) String() string {
	switch l.Kind {
	case LiteralInt, LiteralFloat:
		return l.Text
	case LiteralAtom:
		return Atom(l.Text).String()
	case LiteralNil:
		return "[]"
	case LiteralChar:
		return "$" + string(l.Char)
	case LiteralString:
		return strconv.Quote(l.Text)
	default:
		return "<?>"
	}
}
