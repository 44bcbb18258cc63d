package resolve

import (
	"github.com/gnolang/lam/internal/names"
	"github.com/gnolang/lam/internal/syntax"
)

// Resolver rewrites surface terms into resolved terms. Fresh symbols come
// from the resolver's own generator, so two resolvers never share state.
type Resolver struct {
	gen *names.Generator
}

// New creates a resolver drawing symbols from gen. A nil gen gets a new
// generator.
func New(gen *names.Generator) *Resolver {
	if gen == nil {
		gen = names.NewGenerator()
	}
	return &Resolver{gen: gen}
}

// Generator returns the generator the resolver allocates symbols from.
func (r *Resolver) Generator() *names.Generator {
	return r.gen
}

// Resolve resolves a closed surface term with a fresh generator.
func Resolve(t syntax.Term) (Term, error) {
	return New(nil).Resolve(EmptyContext(), t)
}

// Resolve resolves t under ctx.
func (r *Resolver) Resolve(ctx *Context, t syntax.Term) (Term, error) {
	if ctx == nil {
		ctx = EmptyContext()
	}
	return r.resolve(ctx, t)
}

func (r *Resolver) resolve(ctx *Context, t syntax.Term) (Term, error) {
	switch t := t.(type) {
	case *syntax.Int:
		return &Int{Value: t.Value}, nil

	case *syntax.Bool:
		return &Bool{Value: t.Value}, nil

	case *syntax.Var:
		sym, ok := ctx.Lookup(t.Name)
		if !ok {
			return nil, &Error{Kind: UnboundVariable, Name: t.Name, Pos: t.Position}
		}
		return &Var{Sym: sym}, nil

	case *syntax.Unary:
		operand, err := r.resolve(ctx, t.Operand)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: t.Op, Operand: operand}, nil

	case *syntax.Binary:
		left, err := r.resolve(ctx, t.Left)
		if err != nil {
			return nil, err
		}
		right, err := r.resolve(ctx, t.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: t.Op, Left: left, Right: right}, nil

	case *syntax.Lambda:
		return r.resolveLambda(ctx, t, nil)

	case *syntax.Apply:
		fn, err := r.resolve(ctx, t.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := r.resolve(ctx, t.Arg)
		if err != nil {
			return nil, err
		}
		return &Apply{Fn: fn, Arg: arg}, nil

	case *syntax.LetIn:
		if t.Rec {
			return r.resolveLetRec(ctx, t)
		}
		// the bound term cannot see the name it is bound to
		bound, err := r.resolve(ctx, t.Bound)
		if err != nil {
			return nil, err
		}
		sym := r.gen.Fresh(t.Name)
		body, err := r.resolve(ctx.Bind(t.Name, sym), t.Body)
		if err != nil {
			return nil, err
		}
		return &LetIn{Sym: sym, Bound: bound, Body: body}, nil

	case *syntax.If:
		cond, err := r.resolve(ctx, t.Cond)
		if err != nil {
			return nil, err
		}
		then, err := r.resolve(ctx, t.Then)
		if err != nil {
			return nil, err
		}
		els, err := r.resolve(ctx, t.Else)
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: then, Else: els}, nil

	default:
		return nil, malformed(t)
	}
}

// resolveLetRec resolves `let rec f = fun ... in body`. The lambda's self
// symbol is the let-bound symbol, which makes f callable inside its body.
func (r *Resolver) resolveLetRec(ctx *Context, t *syntax.LetIn) (Term, error) {
	lam, ok := t.Bound.(*syntax.Lambda)
	if !ok {
		return nil, &Error{Kind: InvalidRecursiveBinding, Name: t.Name, Pos: t.Position}
	}

	sym := r.gen.Fresh(t.Name)
	inner := ctx.Bind(t.Name, sym)

	bound, err := r.resolveLambda(inner, lam, sym)
	if err != nil {
		return nil, err
	}
	body, err := r.resolve(inner, t.Body)
	if err != nil {
		return nil, err
	}
	return &LetIn{Sym: sym, Bound: bound, Body: body}, nil
}

// resolveLambda desugars `fun x1 .. xn -> body` into nested single-parameter
// lambdas. Only the outermost one gets self; the inner ones get fresh
// symbols no name can reach. A nil self allocates a fresh one.
func (r *Resolver) resolveLambda(ctx *Context, lam *syntax.Lambda, self *names.Symbol) (Term, error) {
	if len(lam.Params) == 0 {
		return nil, &Error{Kind: MalformedTerm, Name: "lambda without parameters", Pos: lam.Position}
	}

	if self == nil {
		self = r.gen.Fresh(lam.Self)
	}
	if lam.Self != "" {
		ctx = ctx.Bind(lam.Self, self)
	}

	selves := make([]*names.Symbol, len(lam.Params))
	params := make([]*names.Symbol, len(lam.Params))
	for i, name := range lam.Params {
		if i == 0 {
			selves[i] = self
		} else {
			selves[i] = r.gen.Fresh("")
		}
		params[i] = r.gen.Fresh(name)
		// later parameters shadow earlier ones and the self name
		ctx = ctx.Bind(name, params[i])
	}

	body, err := r.resolve(ctx, lam.Body)
	if err != nil {
		return nil, err
	}
	for i := len(params) - 1; i >= 0; i-- {
		body = &Lambda{Self: selves[i], Param: params[i], Body: body}
	}
	return body, nil
}

func malformed(t syntax.Term) *Error {
	if t == nil {
		return &Error{Kind: MalformedTerm, Name: "nil term"}
	}
	return &Error{Kind: MalformedTerm, Name: t.String(), Pos: t.Pos()}
}
