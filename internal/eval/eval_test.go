package eval

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/lam/internal/names"
	"github.com/gnolang/lam/internal/resolve"
	"github.com/gnolang/lam/internal/syntax"
)

func compile(t *testing.T, src string) resolve.Term {
	t.Helper()
	surface, err := syntax.Parse(src)
	require.NoError(t, err)
	term, err := resolve.Resolve(surface)
	require.NoError(t, err)
	return term
}

func run(t *testing.T, src string) (Value, error) {
	t.Helper()
	return Evaluate(NewEnv(), compile(t, src))
}

func TestEvaluate_Values(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{name: "integer literal", src: "7", want: Int(7)},
		{name: "boolean literal", src: "false", want: Bool(false)},
		{name: "shadowing", src: "let x = 1 in let x = 2 in x", want: Int(2)},
		{
			name: "recursion",
			src:  "let rec fact n = if n <= 1 then 1 else n * fact (n - 1) in fact 5",
			want: Int(120),
		},
		{
			name: "closure captures definition scope",
			src:  "let x = 1 in let f = fun y -> x + y in let x = 100 in f 2",
			want: Int(3),
		},
		{name: "if short-circuits", src: "if true then 1 else (1 / 0)", want: Int(1)},
		{name: "else branch", src: "if 1 > 2 then 1 else 2", want: Int(2)},
		{name: "arithmetic precedence", src: "1 + 2 * 3 - 4 / 2", want: Int(5)},
		{name: "division truncates toward zero", src: "-7 / 2", want: Int(-3)},
		{name: "comparisons", src: "1 <= 1 && !(2 >= 3)", want: Bool(true)},
		{name: "equality", src: "(3 == 3) && (3 != 4)", want: Bool(true)},
		{name: "or", src: "false || true", want: Bool(true)},
		{name: "not", src: "!(1 < 2)", want: Bool(false)},
		{name: "negation", src: "-(2 + 3)", want: Int(-5)},
		{name: "curried application", src: "let add a b = a + b in add 1 2", want: Int(3)},
		{
			name: "partial application",
			src:  "let add a b = a + b in let inc = add 1 in inc 41",
			want: Int(42),
		},
		{
			name: "higher-order function",
			src:  "let twice f x = f (f x) in twice (fun x -> x * 2) 5",
			want: Int(20),
		},
		{
			name: "multi-parameter recursion",
			src:  "let rec pow b e = if e == 0 then 1 else b * pow b (e - 1) in pow 2 10",
			want: Int(1024),
		},
		{
			name: "recursive function passed as value",
			src:  "let rec fib n = if n < 2 then n else fib (n - 1) + fib (n - 2) in let apply f x = f x in apply fib 15",
			want: Int(610),
		},
		{name: "addition wraps", src: "2147483647 + 1", want: Int(math.MinInt32)},
		{name: "min int divided by minus one wraps", src: "(-2147483647 - 1) / -1", want: Int(math.MinInt32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		kind ErrorKind
		msg  string
	}{
		{name: "and does not short-circuit", src: "false && (1 / 0 == 0)", kind: DivisionByZero, msg: "DivisionByZero"},
		{name: "or does not short-circuit", src: "true || (1 / 0 == 0)", kind: DivisionByZero, msg: "DivisionByZero"},
		{name: "int plus bool", src: "1 + true", kind: TypeMismatch, msg: "TypeMismatch(Add, [Int, Bool])"},
		{name: "non-boolean condition", src: "if 1 then 2 else 3", kind: ConditionNotBoolean, msg: "ConditionNotBoolean(Int(1))"},
		{name: "not on int", src: "!1", kind: TypeMismatch, msg: "TypeMismatch(Not, [Int])"},
		{name: "negate bool", src: "-true", kind: TypeMismatch, msg: "TypeMismatch(Neg, [Bool])"},
		{name: "compare bools", src: "true < false", kind: TypeMismatch, msg: "TypeMismatch(Lt, [Bool, Bool])"},
		{name: "and on ints", src: "1 && 2", kind: TypeMismatch, msg: "TypeMismatch(And, [Int, Int])"},
		{name: "equality on bools", src: "(1 < 2) == true", kind: TypeMismatch, msg: "TypeMismatch(Eq, [Bool, Bool])"},
		{name: "inequality on bools", src: "true != false", kind: TypeMismatch, msg: "TypeMismatch(Neq, [Bool, Bool])"},
		{name: "compare closures", src: "(fun x -> x) == (fun x -> x)", kind: TypeMismatch, msg: "TypeMismatch(Eq, [Closure, Closure])"},
		{name: "apply an integer", src: "1 2", kind: NotAFunction, msg: "NotAFunction(Int(1))"},
		{name: "left operand fails first", src: "(1 / 0) + (1 + true)", kind: DivisionByZero},
		{name: "right operand still evaluated", src: "(1 + 2) + (1 + true)", kind: TypeMismatch},
		{name: "argument evaluated before callee check", src: "1 (1 / 0)", kind: DivisionByZero},
		{name: "callee failure comes first", src: "(1 2) (1 / 0)", kind: NotAFunction},
		{name: "argument of non-function evaluated", src: "let f = 1 in f (1 / 0)", kind: DivisionByZero},
		{name: "failing let binding aborts", src: "let x = 1 / 0 in 5", kind: DivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, err.Error())
			}
		})
	}
}

func TestEvaluate_UnboundSymbol(t *testing.T) {
	t.Parallel()
	sym := names.NewGenerator().Fresh("ghost")

	_, err := Evaluate(NewEnv(), &resolve.Var{Sym: sym})

	var eerr *Error
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, UnboundSymbol, eerr.Kind)
	assert.Same(t, sym, eerr.Symbol)
	assert.Equal(t, "UnboundSymbol(ghost_1)", err.Error())
}

func TestEvaluate_MalformedTerm(t *testing.T) {
	t.Parallel()
	_, err := Evaluate(nil, nil)
	assert.True(t, IsKind(err, MalformedTerm))
}

func TestEvaluate_StackExhausted(t *testing.T) {
	t.Parallel()
	src := "let rec down n = if n == 0 then 0 else 1 + down (n - 1) in down 200"

	t.Run("limit reached", func(t *testing.T) {
		ev := NewEvaluator(Config{MaxDepth: 50})
		_, err := ev.Eval(NewEnv(), compile(t, src))

		var eerr *Error
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, StackExhausted, eerr.Kind)
		assert.Equal(t, 50, eerr.Depth)
	})

	t.Run("out of range limits are clamped", func(t *testing.T) {
		for _, limit := range []int{0, -1, MaxDepthLimit + 1} {
			ev := NewEvaluator(Config{MaxDepth: limit})
			got, err := ev.Eval(NewEnv(), compile(t, src))
			require.NoError(t, err)
			assert.Equal(t, Int(200), got)
		}

		ev := NewEvaluator(Config{MaxDepth: 0})
		_, err := ev.Eval(NewEnv(), compile(t, "let rec loop n = loop n in loop 0"))
		var eerr *Error
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, MaxDepthLimit, eerr.Depth)
	})

	t.Run("evaluator is reusable after exhaustion", func(t *testing.T) {
		ev := NewEvaluator(Config{MaxDepth: 50})
		_, err := ev.Eval(NewEnv(), compile(t, src))
		require.Error(t, err)

		got, err := ev.Eval(NewEnv(), compile(t, "1 + 1"))
		require.NoError(t, err)
		assert.Equal(t, Int(2), got)
	})
}

func TestEvaluate_TailCalls(t *testing.T) {
	t.Parallel()

	t.Run("bounded loop completes", func(t *testing.T) {
		ev := NewEvaluator(DefaultConfig())
		got, err := ev.Eval(NewEnv(), compile(t, "let rec loop n = if n == 0 then true else loop (n - 1) in loop 20000"))
		require.NoError(t, err)
		assert.Equal(t, Bool(true), got)
		assert.Greater(t, ev.Stats().PeakDepth, 20000)
		assert.Greater(t, ev.Stats().Steps, 20000)
	})

	t.Run("divergent loop exhausts the stack", func(t *testing.T) {
		_, err := run(t, "let rec loop n = loop n in loop 0")

		var eerr *Error
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, StackExhausted, eerr.Kind)
		assert.Equal(t, DefaultMaxDepth, eerr.Depth)
	})

	t.Run("depth is released when a loop returns", func(t *testing.T) {
		ev := NewEvaluator(Config{MaxDepth: 500})
		src := "let rec loop n = if n == 0 then 0 else loop (n - 1) in loop 100 + loop 100 + loop 100 + loop 100"
		got, err := ev.Eval(NewEnv(), compile(t, src))
		require.NoError(t, err)
		assert.Equal(t, Int(0), got)
		assert.Less(t, ev.Stats().PeakDepth, 500)
	})
}

func TestEvaluate_Context(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := NewEvaluator(Config{MaxDepth: MaxDepthLimit})
	_, err := ev.EvalContext(ctx, NewEnv(), compile(t, "let rec loop n = loop n in loop 0"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsKind(err, StackExhausted))
	assert.LessOrEqual(t, ev.Stats().Steps, checkInterval)

	got, err := ev.Eval(NewEnv(), compile(t, "1 + 1"))
	require.NoError(t, err)
	assert.Equal(t, Int(2), got)
}

func TestEvaluate_ClosureValue(t *testing.T) {
	t.Parallel()
	got, err := run(t, "let k = 5 in fun x -> x + k")
	require.NoError(t, err)

	clo, ok := got.(*Closure)
	require.True(t, ok)
	assert.Equal(t, KindClosure, clo.Kind())
	assert.Equal(t, 1, clo.Env.Len())
	assert.Equal(t, "Closure(<env:1>, __2, x_3, (x_3 + k_1))", clo.String())
	assert.True(t, clo.Equal(clo))
	assert.False(t, clo.Equal(Int(5)))
}

func TestEvaluate_WithEnvironment(t *testing.T) {
	t.Parallel()
	gen := names.NewGenerator()
	x := gen.Fresh("x")
	ctx := resolve.EmptyContext().Bind("x", x)

	term, err := resolve.New(gen).Resolve(ctx, syntax.Bin(syntax.OpMul, syntax.Ref("x"), syntax.IntLit(3)))
	require.NoError(t, err)

	got, err := Evaluate(NewEnv().Extend(x, Int(14)), term)
	require.NoError(t, err)
	assert.Equal(t, Int(42), got)
}

func TestEnv_Persistent(t *testing.T) {
	t.Parallel()
	gen := names.NewGenerator()
	a, b := gen.Fresh("a"), gen.Fresh("a")

	base := NewEnv().Extend(a, Int(1))
	left := base.Extend(b, Int(2))
	right := base.Extend(a, Int(3))

	v, ok := base.Lookup(a)
	require.True(t, ok)
	assert.Equal(t, Int(1), v)

	_, ok = base.Lookup(b)
	assert.False(t, ok, "extending must not leak into the parent")

	v, ok = left.Lookup(b)
	require.True(t, ok)
	assert.Equal(t, Int(2), v)

	v, ok = right.Lookup(a)
	require.True(t, ok)
	assert.Equal(t, Int(3), v)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, left.Len())
	assert.Equal(t, []*names.Symbol{a, b}, left.Symbols())
}

func TestValue_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Int(-3)", Int(-3).String())
	assert.Equal(t, "Bool(true)", Bool(true).String())
	assert.False(t, Int(1).Equal(Bool(true)))
	assert.Equal(t, "Int", KindInt.String())
}
