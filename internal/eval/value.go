package eval

import (
	"fmt"

	"github.com/gnolang/lam/internal/names"
	"github.com/gnolang/lam/internal/resolve"
)

// Kind is the runtime type of a value.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindClosure:
		return "Closure"
	default:
		return "?"
	}
}

// Value is the result of evaluating a term.
type Value interface {
	isValue()
	Kind() Kind
	String() string
	Equal(other Value) bool
}

var (
	_ Value = IntValue{}
	_ Value = BoolValue{}
	_ Value = (*Closure)(nil)
)

// IntValue is a 32-bit signed integer.
type IntValue struct {
	Val int32
}

func (IntValue) isValue() {}
func (IntValue) Kind() Kind { return KindInt }
func (v IntValue) String() string {
	return fmt.Sprintf("Int(%d)", v.Val)
}

func (v IntValue) Equal(other Value) bool {
	if o, ok := other.(IntValue); ok {
		return v.Val == o.Val
	}
	return false
}

// BoolValue is a boolean.
type BoolValue struct {
	Val bool
}

func (BoolValue) isValue() {}
func (BoolValue) Kind() Kind { return KindBool }
func (v BoolValue) String() string {
	return fmt.Sprintf("Bool(%t)", v.Val)
}

func (v BoolValue) Equal(other Value) bool {
	if o, ok := other.(BoolValue); ok {
		return v.Val == o.Val
	}
	return false
}

// Closure pairs a lambda with the environment it was evaluated in.
type Closure struct {
	Env   *Env
	Self  *names.Symbol
	Param *names.Symbol
	Body  resolve.Term
}

func (*Closure) isValue() {}
func (*Closure) Kind() Kind { return KindClosure }

// String renders the captured environment opaquely, by size only.
func (c *Closure) String() string {
	return fmt.Sprintf("Closure(<env:%d>, %s, %s, %s)", c.Env.Len(), c.Self, c.Param, c.Body)
}

// Equal reports identity: closures have no structural equality.
func (c *Closure) Equal(other Value) bool {
	o, ok := other.(*Closure)
	return ok && c == o
}

// Int is a shorthand for IntValue{Val: v}.
func Int(v int32) Value {
	return IntValue{Val: v}
}

// Bool is a shorthand for BoolValue{Val: v}.
func Bool(v bool) Value {
	return BoolValue{Val: v}
}
