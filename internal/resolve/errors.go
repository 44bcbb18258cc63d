package resolve

import (
	"fmt"

	"github.com/gnolang/lam/internal/syntax"
)

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	// UnboundVariable: a name has no visible binding at its point of use.
	UnboundVariable ErrorKind = iota
	// InvalidRecursiveBinding: a `let rec` whose bound term is not a lambda.
	InvalidRecursiveBinding
	// MalformedTerm: a hand-built surface tree the parser could never produce.
	MalformedTerm
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundVariable:
		return "UnboundVariable"
	case InvalidRecursiveBinding:
		return "InvalidRecursiveBinding"
	case MalformedTerm:
		return "MalformedTerm"
	default:
		return "?"
	}
}

// Error reports a resolution failure.
type Error struct {
	Kind ErrorKind
	Name string
	Pos  syntax.Pos
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s(%q)", e.Kind, e.Name)
	if e.Pos.IsValid() {
		msg += " at " + e.Pos.String()
	}
	return msg
}
