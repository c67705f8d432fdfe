package rest

import (
	"fmt"
	"strings"
)

// ErrorKind distinguishes grammar violations from contextually illegal
// constructs. Both are fatal to the current compile.
type ErrorKind int

const (
	// SyntaxError is a grammar violation: a missing or unexpected token.
	SyntaxError ErrorKind = iota
	// SemanticError is well-formed grammar used illegally: a wrong-context
	// attribute, a duplicate range bound, an invalid verb or role.
	SemanticError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case SemanticError:
		return "semantic error"
	}
	return "error"
}

// Error is the single diagnostic type of the compiler. Every error carries
// the exact offending position; rendering is left to the host.
type Error struct {
	Kind     ErrorKind
	Pos      Position
	Msg      string
	Expected []string
	Got      string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Pos.String())
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s", strings.Join(e.Expected, " or "))
		if e.Got != "" {
			fmt.Fprintf(&b, ", found %q", e.Got)
		}
		b.WriteString(")")
	}
	return b.String()
}

func Syntaxf(pos Position, format string, args ...any) *Error {
	return &Error{Kind: SyntaxError, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func Semanticf(pos Position, format string, args ...any) *Error {
	return &Error{Kind: SemanticError, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
