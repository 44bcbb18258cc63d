package resolve

import (
	"fmt"

	"github.com/gnolang/lam/internal/names"
)

// ReasonCode says why two resolved terms were found different.
type ReasonCode int

const (
	ReasonNone ReasonCode = iota
	ReasonDifferentShape
	ReasonDifferentLiteral
	ReasonDifferentOperator
	ReasonInconsistentRenaming
	ReasonDifferentFreeSymbol
)

func (r ReasonCode) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonDifferentShape:
		return "different node kinds"
	case ReasonDifferentLiteral:
		return "different literal values"
	case ReasonDifferentOperator:
		return "different operators"
	case ReasonInconsistentRenaming:
		return "binders are not renamed consistently"
	case ReasonDifferentFreeSymbol:
		return "different free symbols"
	default:
		return "unknown"
	}
}

// Report is the outcome of comparing two resolved terms.
type Report struct {
	Equivalent bool
	Reason     ReasonCode
	Detail     string
}

// AlphaEquivalent reports whether a and b have the same shape and differ
// only by a consistent, one-to-one renaming of their binders.
func AlphaEquivalent(a, b Term) bool {
	return Compare(a, b).Equivalent
}

// Compare checks a and b for alpha-equivalence and explains the first
// difference found.
func Compare(a, b Term) Report {
	c := &comparer{
		fwd: make(map[*names.Symbol]*names.Symbol),
		rev: make(map[*names.Symbol]*names.Symbol),
	}
	if err := c.term(a, b); err != nil {
		return Report{Reason: err.reason, Detail: err.detail}
	}
	return Report{Equivalent: true, Reason: ReasonNone}
}

type mismatch struct {
	reason ReasonCode
	detail string
}

// comparer keeps the binder bijection. Symbols are unique per binder, so a
// single map serves every scope.
type comparer struct {
	fwd map[*names.Symbol]*names.Symbol
	rev map[*names.Symbol]*names.Symbol
}

func (c *comparer) bind(x, y *names.Symbol) *mismatch {
	if mapped, ok := c.fwd[x]; ok {
		if mapped != y {
			return &mismatch{ReasonInconsistentRenaming, fmt.Sprintf("%s maps to both %s and %s", x, mapped, y)}
		}
		return nil
	}
	if mapped, ok := c.rev[y]; ok {
		return &mismatch{ReasonInconsistentRenaming, fmt.Sprintf("%s is the image of both %s and %s", y, mapped, x)}
	}
	c.fwd[x] = y
	c.rev[y] = x
	return nil
}

func (c *comparer) occurrence(x, y *names.Symbol) *mismatch {
	if mapped, ok := c.fwd[x]; ok {
		if mapped != y {
			return &mismatch{ReasonInconsistentRenaming, fmt.Sprintf("%s is bound to %s, found %s", x, mapped, y)}
		}
		return nil
	}
	if _, ok := c.rev[y]; ok || x != y {
		return &mismatch{ReasonDifferentFreeSymbol, fmt.Sprintf("%s vs %s", x, y)}
	}
	return nil
}

func (c *comparer) term(a, b Term) *mismatch {
	switch x := a.(type) {
	case *Int:
		y, ok := b.(*Int)
		if !ok {
			return shape(a, b)
		}
		if x.Value != y.Value {
			return &mismatch{ReasonDifferentLiteral, fmt.Sprintf("%d vs %d", x.Value, y.Value)}
		}
		return nil

	case *Bool:
		y, ok := b.(*Bool)
		if !ok {
			return shape(a, b)
		}
		if x.Value != y.Value {
			return &mismatch{ReasonDifferentLiteral, fmt.Sprintf("%t vs %t", x.Value, y.Value)}
		}
		return nil

	case *Var:
		y, ok := b.(*Var)
		if !ok {
			return shape(a, b)
		}
		return c.occurrence(x.Sym, y.Sym)

	case *Unary:
		y, ok := b.(*Unary)
		if !ok {
			return shape(a, b)
		}
		if x.Op != y.Op {
			return &mismatch{ReasonDifferentOperator, fmt.Sprintf("%s vs %s", x.Op, y.Op)}
		}
		return c.term(x.Operand, y.Operand)

	case *Binary:
		y, ok := b.(*Binary)
		if !ok {
			return shape(a, b)
		}
		if x.Op != y.Op {
			return &mismatch{ReasonDifferentOperator, fmt.Sprintf("%s vs %s", x.Op, y.Op)}
		}
		if m := c.term(x.Left, y.Left); m != nil {
			return m
		}
		return c.term(x.Right, y.Right)

	case *Lambda:
		y, ok := b.(*Lambda)
		if !ok {
			return shape(a, b)
		}
		if m := c.bind(x.Self, y.Self); m != nil {
			return m
		}
		if m := c.bind(x.Param, y.Param); m != nil {
			return m
		}
		return c.term(x.Body, y.Body)

	case *Apply:
		y, ok := b.(*Apply)
		if !ok {
			return shape(a, b)
		}
		if m := c.term(x.Fn, y.Fn); m != nil {
			return m
		}
		return c.term(x.Arg, y.Arg)

	case *LetIn:
		y, ok := b.(*LetIn)
		if !ok {
			return shape(a, b)
		}
		// bind first: a recursive lambda's self is the let symbol
		if m := c.bind(x.Sym, y.Sym); m != nil {
			return m
		}
		if m := c.term(x.Bound, y.Bound); m != nil {
			return m
		}
		return c.term(x.Body, y.Body)

	case *If:
		y, ok := b.(*If)
		if !ok {
			return shape(a, b)
		}
		if m := c.term(x.Cond, y.Cond); m != nil {
			return m
		}
		if m := c.term(x.Then, y.Then); m != nil {
			return m
		}
		return c.term(x.Else, y.Else)

	default:
		return shape(a, b)
	}
}

func shape(a, b Term) *mismatch {
	return &mismatch{ReasonDifferentShape, fmt.Sprintf("%T vs %T", a, b)}
}
