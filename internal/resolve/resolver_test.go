package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/lam/internal/names"
	"github.com/gnolang/lam/internal/syntax"
)

func mustParse(t *testing.T, src string) syntax.Term {
	t.Helper()
	term, err := syntax.Parse(src)
	require.NoError(t, err)
	return term
}

func TestResolve_Printing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "literals pass through",
			src:  "1 + 2",
			want: "(1 + 2)",
		},
		{
			name: "shadowing",
			src:  "let x = 1 in let x = 2 in x",
			want: "(let x_1 = 1 in (let x_2 = 2 in x_2))",
		},
		{
			name: "bound term cannot see its own name",
			src:  "let x = 1 in let x = x + 1 in x",
			want: "(let x_1 = 1 in (let x_2 = (x_1 + 1) in x_2))",
		},
		{
			name: "anonymous lambda",
			src:  "fun x -> x",
			want: "(fun[__1] x_2 -> x_2)",
		},
		{
			name: "multi-parameter lambda desugars",
			src:  "fun a b -> a - b",
			want: "(fun[__1] a_2 -> (fun[__3] b_4 -> (a_2 - b_4)))",
		},
		{
			name: "let rec aliases self to the let symbol",
			src:  "let rec f n = f n in f 1",
			want: "(let f_1 = (fun[f_1] n_2 -> (f_1 n_2)) in (f_1 1))",
		},
		{
			name: "parameter shadows self name",
			src:  "let rec f f = f in f",
			want: "(let f_1 = (fun[f_1] f_2 -> f_2) in f_1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(mustParse(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolve_UnboundVariable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "free variable", src: "x + 1", want: "x"},
		{name: "non-recursive let cannot self-reference", src: "let f n = f n in f 1", want: "f"},
		{name: "scope ends with the let body", src: "(let y = 1 in y) + y", want: "y"},
		{name: "lambda parameter is local", src: "(fun z -> z) z", want: "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(mustParse(t, tt.src))
			require.Error(t, err)

			var rerr *Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, UnboundVariable, rerr.Kind)
			assert.Equal(t, tt.want, rerr.Name)
			assert.True(t, rerr.Pos.IsValid())
		})
	}
}

func TestResolve_UnboundVariableMessage(t *testing.T) {
	t.Parallel()
	_, err := Resolve(syntax.Bin(syntax.OpAdd, syntax.Ref("x"), syntax.IntLit(1)))
	require.Error(t, err)
	assert.Equal(t, `UnboundVariable("x")`, err.Error())
}

func TestResolve_InvalidRecursiveBinding(t *testing.T) {
	t.Parallel()
	term := &syntax.LetIn{Name: "x", Rec: true, Bound: syntax.IntLit(1), Body: syntax.Ref("x")}

	_, err := Resolve(term)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, InvalidRecursiveBinding, rerr.Kind)
	assert.Equal(t, "x", rerr.Name)
}

func TestResolve_MalformedTerm(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		_, err := Resolve(nil)
		var rerr *Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, MalformedTerm, rerr.Kind)
	})

	t.Run("lambda without parameters", func(t *testing.T) {
		_, err := Resolve(syntax.Fun(nil, syntax.IntLit(1)))
		var rerr *Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, MalformedTerm, rerr.Kind)
	})
}

func TestResolve_WithContext(t *testing.T) {
	t.Parallel()
	gen := names.NewGenerator()
	y := gen.Fresh("y")
	ctx := EmptyContext().Bind("y", y)

	got, err := New(gen).Resolve(ctx, syntax.Bin(syntax.OpMul, syntax.Ref("y"), syntax.Ref("y")))
	require.NoError(t, err)

	bin, ok := got.(*Binary)
	require.True(t, ok)
	assert.Same(t, y, bin.Left.(*Var).Sym)
	assert.Same(t, y, bin.Right.(*Var).Sym)
}

func TestResolve_SymbolsAreUniquePerBinder(t *testing.T) {
	t.Parallel()
	got, err := Resolve(mustParse(t, "let x = 1 in let x = 2 in x"))
	require.NoError(t, err)

	outer := got.(*LetIn)
	inner := outer.Body.(*LetIn)
	assert.NotSame(t, outer.Sym, inner.Sym)
	assert.Equal(t, outer.Sym.Name, inner.Sym.Name)
	assert.Same(t, inner.Sym, inner.Body.(*Var).Sym)
}

func TestResolve_LetRecSelfIsLetSymbol(t *testing.T) {
	t.Parallel()
	got, err := Resolve(mustParse(t, "let rec go a b = go b a in go"))
	require.NoError(t, err)

	let := got.(*LetIn)
	outer := let.Bound.(*Lambda)
	inner := outer.Body.(*Lambda)

	assert.Same(t, let.Sym, outer.Self)
	assert.NotSame(t, let.Sym, inner.Self)
	assert.Equal(t, "", inner.Self.Name)
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()
	src := "let rec fact n = if n <= 1 then 1 else n * fact (n - 1) in fact 5"

	first, err := Resolve(mustParse(t, src))
	require.NoError(t, err)
	second, err := Resolve(mustParse(t, src))
	require.NoError(t, err)

	// fresh generators number symbols identically
	assert.Equal(t, first.String(), second.String())
}

func TestResolve_ShareGeneratorStaysAlphaEquivalent(t *testing.T) {
	t.Parallel()
	surface := mustParse(t, "let x = 1 in let f = fun y -> x + y in let x = 100 in f 2")
	r := New(nil)

	first, err := r.Resolve(EmptyContext(), surface)
	require.NoError(t, err)
	second, err := r.Resolve(EmptyContext(), surface)
	require.NoError(t, err)

	assert.NotEqual(t, first.String(), second.String())
	report := Compare(first, second)
	assert.True(t, report.Equivalent, report.Detail)
}
