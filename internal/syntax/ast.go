package syntax

import (
	"strconv"
	"strings"
)

// Term is a node of the surface syntax tree. Variables refer to their
// binders by name; the resolver turns them into symbols.
type Term interface {
	isTerm()
	Pos() Pos
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

// Int is an integer literal.
type Int struct {
	Position Pos
	Value    int32
}

func (*Int) isTerm() {}
func (t *Int) Pos() Pos { return t.Position }
func (t *Int) String() string {
	return strconv.FormatInt(int64(t.Value), 10)
}

// Bool is a boolean literal.
type Bool struct {
	Position Pos
	Value    bool
}

func (*Bool) isTerm() {}
func (t *Bool) Pos() Pos { return t.Position }
func (t *Bool) String() string {
	return strconv.FormatBool(t.Value)
}

// Var is a variable occurrence.
type Var struct {
	Position Pos
	Name     string
}

func (*Var) isTerm() {}
func (t *Var) Pos() Pos { return t.Position }
func (t *Var) String() string { return t.Name }

// Unary applies a prefix operator.
type Unary struct {
	Position Pos
	Op       UnaryOp
	Operand  Term
}

func (*Unary) isTerm() {}
func (t *Unary) Pos() Pos { return t.Position }
func (t *Unary) String() string {
	return "(" + t.Op.String() + t.Operand.String() + ")"
}

// Binary applies an infix operator.
type Binary struct {
	Position Pos
	Op       BinaryOp
	Left     Term
	Right    Term
}

func (*Binary) isTerm() {}
func (t *Binary) Pos() Pos { return t.Position }
func (t *Binary) String() string {
	return "(" + t.Left.String() + " " + t.Op.String() + " " + t.Right.String() + ")"
}

// Lambda is a function abstraction over one or more parameters.
//
// Self names the function inside its own body and may be empty. Only the
// outermost abstraction of a multi-parameter lambda carries the self name.
type Lambda struct {
	Position Pos
	Self     string
	Params   []string
	Body     Term
}

func (*Lambda) isTerm() {}
func (t *Lambda) Pos() Pos { return t.Position }
func (t *Lambda) String() string {
	return "(fun " + strings.Join(t.Params, " ") + " -> " + t.Body.String() + ")"
}

// Apply is function application.
type Apply struct {
	Position Pos
	Fn       Term
	Arg      Term
}

func (*Apply) isTerm() {}
func (t *Apply) Pos() Pos { return t.Position }
func (t *Apply) String() string {
	return "(" + t.Fn.String() + " " + t.Arg.String() + ")"
}

// LetIn binds Name to Bound inside Body. When Rec is set Bound must be a
// Lambda, which may then refer to itself by Name.
type LetIn struct {
	Position Pos
	Name     string
	Rec      bool
	Bound    Term
	Body     Term
}

func (*LetIn) isTerm() {}
func (t *LetIn) Pos() Pos { return t.Position }
func (t *LetIn) String() string {
	if lam, ok := t.Bound.(*Lambda); ok && t.Rec {
		return "(let rec " + t.Name + " " + strings.Join(lam.Params, " ") +
			" = " + lam.Body.String() + " in " + t.Body.String() + ")"
	}
	return "(let " + t.Name + " = " + t.Bound.String() + " in " + t.Body.String() + ")"
}

// If is a conditional; only the selected branch is evaluated.
type If struct {
	Position Pos
	Cond     Term
	Then     Term
	Else     Term
}

func (*If) isTerm() {}
func (t *If) Pos() Pos { return t.Position }
func (t *If) String() string {
	return "(if " + t.Cond.String() + " then " + t.Then.String() + " else " + t.Else.String() + ")"
}

// Helper functions to construct surface terms without positions.

// IntLit creates an integer literal.
func IntLit(v int32) Term {
	return &Int{Value: v}
}

// BoolLit creates a boolean literal.
func BoolLit(v bool) Term {
	return &Bool{Value: v}
}

// Ref creates a variable occurrence.
func Ref(name string) Term {
	return &Var{Name: name}
}

// Neg creates an integer negation.
func Neg(t Term) Term {
	return &Unary{Op: OpNeg, Operand: t}
}

// Not creates a logical negation.
func Not(t Term) Term {
	return &Unary{Op: OpNot, Operand: t}
}

// Bin creates a binary operation.
func Bin(op BinaryOp, left, right Term) Term {
	return &Binary{Op: op, Left: left, Right: right}
}

// Fun creates an anonymous lambda over params.
func Fun(params []string, body Term) Term {
	return &Lambda{Params: params, Body: body}
}

// App applies fn to args one at a time, left to right.
func App(fn Term, args ...Term) Term {
	for _, arg := range args {
		fn = &Apply{Fn: fn, Arg: arg}
	}
	return fn
}

// Let creates a non-recursive binding.
func Let(name string, bound, body Term) Term {
	return &LetIn{Name: name, Bound: bound, Body: body}
}

// LetRec creates a recursive function binding.
func LetRec(name string, params []string, fnBody, body Term) Term {
	return &LetIn{
		Name:  name,
		Rec:   true,
		Bound: &Lambda{Self: name, Params: params, Body: fnBody},
		Body:  body,
	}
}

// IfThenElse creates a conditional.
func IfThenElse(cond, then, els Term) Term {
	return &If{Cond: cond, Then: then, Else: els}
}
