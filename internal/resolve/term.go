package resolve

import (
	"strconv"

	"github.com/gnolang/lam/internal/names"
	"github.com/gnolang/lam/internal/syntax"
)

// Term is a node of the resolved tree. It mirrors syntax.Term except that
// every binder and every variable occurrence carries a unique symbol.
type Term interface {
	isTerm()
	String() string
}

var (
	_ Term = (*Int)(nil)
	_ Term = (*Bool)(nil)
	_ Term = (*Var)(nil)
	_ Term = (*Unary)(nil)
	_ Term = (*Binary)(nil)
	_ Term = (*Lambda)(nil)
	_ Term = (*Apply)(nil)
	_ Term = (*LetIn)(nil)
	_ Term = (*If)(nil)
)

type Int struct {
	Value int32
}

type Bool struct {
	Value bool
}

type Var struct {
	Sym *names.Symbol
}

type Unary struct {
	Op      syntax.UnaryOp
	Operand Term
}

type Binary struct {
	Op    syntax.BinaryOp
	Left  Term
	Right Term
}

// Lambda is a single-parameter abstraction. Self is bound to the closure
// itself whenever it is applied.
type Lambda struct {
	Self  *names.Symbol
	Param *names.Symbol
	Body  Term
}

type Apply struct {
	Fn  Term
	Arg Term
}

type LetIn struct {
	Sym   *names.Symbol
	Bound Term
	Body  Term
}

type If struct {
	Cond Term
	Then Term
	Else Term
}

func (*Int) isTerm() {}
func (*Bool) isTerm() {}
func (*Var) isTerm() {}
func (*Unary) isTerm() {}
func (*Binary) isTerm() {}
func (*Lambda) isTerm() {}
func (*Apply) isTerm() {}
func (*LetIn) isTerm() {}
func (*If) isTerm() {}

func (t *Int) String() string { return strconv.FormatInt(int64(t.Value), 10) }
func (t *Bool) String() string { return strconv.FormatBool(t.Value) }
func (t *Var) String() string { return t.Sym.String() }

func (t *Unary) String() string {
	return "(" + t.Op.String() + t.Operand.String() + ")"
}

func (t *Binary) String() string {
	return "(" + t.Left.String() + " " + t.Op.String() + " " + t.Right.String() + ")"
}

func (t *Lambda) String() string {
	return "(fun[" + t.Self.String() + "] " + t.Param.String() + " -> " + t.Body.String() + ")"
}

func (t *Apply) String() string {
	return "(" + t.Fn.String() + " " + t.Arg.String() + ")"
}

func (t *LetIn) String() string {
	return "(let " + t.Sym.String() + " = " + t.Bound.String() + " in " + t.Body.String() + ")"
}

func (t *If) String() string {
	return "(if " + t.Cond.String() + " then " + t.Then.String() + " else " + t.Else.String() + ")"
}
