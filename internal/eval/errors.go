package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnolang/lam/internal/names"
)

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	// UnboundSymbol means a resolved term referenced a symbol with no
	// binding. A correct resolver never produces such a term.
	UnboundSymbol ErrorKind = iota
	TypeMismatch
	DivisionByZero
	NotAFunction
	ConditionNotBoolean
	// StackExhausted is a resource limit, not a semantic error.
	StackExhausted
	// MalformedTerm means the evaluator met a node it does not know.
	MalformedTerm
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundSymbol:
		return "UnboundSymbol"
	case TypeMismatch:
		return "TypeMismatch"
	case DivisionByZero:
		return "DivisionByZero"
	case NotAFunction:
		return "NotAFunction"
	case ConditionNotBoolean:
		return "ConditionNotBoolean"
	case StackExhausted:
		return "StackExhausted"
	case MalformedTerm:
		return "MalformedTerm"
	default:
		return "?"
	}
}

// Error reports a runtime failure. Which fields are set depends on Kind.
type Error struct {
	Kind     ErrorKind
	Op       string        // TypeMismatch
	Operands []Kind        // TypeMismatch
	Value    Value         // NotAFunction, ConditionNotBoolean
	Symbol   *names.Symbol // UnboundSymbol
	Depth    int           // StackExhausted
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnboundSymbol:
		return fmt.Sprintf("UnboundSymbol(%s)", e.Symbol)
	case TypeMismatch:
		kinds := make([]string, len(e.Operands))
		for i, k := range e.Operands {
			kinds[i] = k.String()
		}
		return fmt.Sprintf("TypeMismatch(%s, [%s])", e.Op, strings.Join(kinds, ", "))
	case NotAFunction, ConditionNotBoolean:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Value)
	case StackExhausted:
		return fmt.Sprintf("StackExhausted(depth %d)", e.Depth)
	default:
		return e.Kind.String()
	}
}

// IsKind reports whether err is a runtime error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var eerr *Error
	return errors.As(err, &eerr) && eerr.Kind == kind
}

func typeMismatch(op string, operands ...Value) *Error {
	kinds := make([]Kind, len(operands))
	for i, v := range operands {
		kinds[i] = v.Kind()
	}
	return &Error{Kind: TypeMismatch, Op: op, Operands: kinds}
}
