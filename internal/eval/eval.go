package eval

import (
	"context"
	"fmt"

	"github.com/gnolang/lam/internal/resolve"
)

const (
	// DefaultMaxDepth bounds evaluation nesting when no limit is configured.
	DefaultMaxDepth = 100000
	// MaxDepthLimit is the largest accepted limit. Deeper nesting would
	// risk overflowing the goroutine stack before StackExhausted fires.
	MaxDepthLimit = 1000000
)

// interrupts are polled every checkInterval steps.
const checkInterval = 1 << 10

// Config holds configuration for the evaluator.
type Config struct {
	// MaxDepth is the deepest nesting allowed before evaluation fails with
	// StackExhausted. Values outside 1..MaxDepthLimit are clamped to
	// MaxDepthLimit.
	MaxDepth int
}

// DefaultConfig returns the default evaluation configuration.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth}
}

// ValidMaxDepth reports whether n is an accepted depth limit.
func ValidMaxDepth(n int) bool {
	return n > 0 && n <= MaxDepthLimit
}

// Stats describes the last evaluation run.
type Stats struct {
	Steps     int
	PeakDepth int
}

// Evaluator reduces resolved terms to values. It is not safe for
// concurrent use; the terms and environments it works on are.
type Evaluator struct {
	config Config
	ctx    context.Context
	depth  int
	stats  Stats
}

// NewEvaluator creates a new evaluator with the given configuration.
func NewEvaluator(config Config) *Evaluator {
	if !ValidMaxDepth(config.MaxDepth) {
		config.MaxDepth = MaxDepthLimit
	}
	return &Evaluator{config: config}
}

// Evaluate reduces t under env with the default configuration.
func Evaluate(env *Env, t resolve.Term) (Value, error) {
	return NewEvaluator(DefaultConfig()).Eval(env, t)
}

// Eval reduces t under env. A nil env is treated as empty.
func (ev *Evaluator) Eval(env *Env, t resolve.Term) (Value, error) {
	return ev.EvalContext(context.Background(), env, t)
}

// EvalContext is like Eval but gives up with ctx's error, wrapped, once
// ctx is done.
func (ev *Evaluator) EvalContext(ctx context.Context, env *Env, t resolve.Term) (Value, error) {
	if env == nil {
		env = NewEnv()
	}
	ev.ctx = ctx
	ev.depth = 0
	ev.stats = Stats{}
	defer func() { ev.ctx = nil }()
	return ev.eval(env, t)
}

// Stats returns counters from the last call to Eval.
func (ev *Evaluator) Stats() Stats {
	return ev.stats
}

// eval is a big-step reduction. Tail positions (let body, taken branch,
// closure body) loop instead of recursing so the goroutine stack stays
// shallow, but every iteration is still charged as one level of nesting
// until eval returns. A divergent tail loop thus ends in StackExhausted
// exactly as the nested calls it stands for would.
func (ev *Evaluator) eval(env *Env, term resolve.Term) (Value, error) {
	frames := 0
	defer func() { ev.depth -= frames }()

	for {
		ev.depth++
		frames++
		ev.stats.Steps++
		if ev.depth > ev.stats.PeakDepth {
			ev.stats.PeakDepth = ev.depth
		}
		if ev.depth > ev.config.MaxDepth {
			return nil, &Error{Kind: StackExhausted, Depth: ev.config.MaxDepth}
		}
		if ev.stats.Steps%checkInterval == 0 && ev.ctx != nil {
			if err := ev.ctx.Err(); err != nil {
				return nil, fmt.Errorf("evaluation interrupted after %d steps: %w", ev.stats.Steps, err)
			}
		}

		switch t := term.(type) {
		case *resolve.Int:
			return IntValue{Val: t.Value}, nil

		case *resolve.Bool:
			return BoolValue{Val: t.Value}, nil

		case *resolve.Var:
			v, ok := env.Lookup(t.Sym)
			if !ok {
				return nil, &Error{Kind: UnboundSymbol, Symbol: t.Sym}
			}
			return v, nil

		case *resolve.Unary:
			operand, err := ev.eval(env, t.Operand)
			if err != nil {
				return nil, err
			}
			return evalUnary(t.Op, operand)

		case *resolve.Binary:
			// both operands, always, left first: && and || do not short-circuit
			left, err := ev.eval(env, t.Left)
			if err != nil {
				return nil, err
			}
			right, err := ev.eval(env, t.Right)
			if err != nil {
				return nil, err
			}
			return evalBinary(t.Op, left, right)

		case *resolve.Lambda:
			return &Closure{Env: env, Self: t.Self, Param: t.Param, Body: t.Body}, nil

		case *resolve.Apply:
			fn, err := ev.eval(env, t.Fn)
			if err != nil {
				return nil, err
			}
			arg, err := ev.eval(env, t.Arg)
			if err != nil {
				return nil, err
			}
			clo, ok := fn.(*Closure)
			if !ok {
				return nil, &Error{Kind: NotAFunction, Value: fn}
			}
			// the callee runs in its captured scope, never the caller's
			env = clo.Env.Extend(clo.Self, clo).Extend(clo.Param, arg)
			term = clo.Body

		case *resolve.LetIn:
			bound, err := ev.eval(env, t.Bound)
			if err != nil {
				return nil, err
			}
			env = env.Extend(t.Sym, bound)
			term = t.Body

		case *resolve.If:
			cond, err := ev.eval(env, t.Cond)
			if err != nil {
				return nil, err
			}
			b, ok := cond.(BoolValue)
			if !ok {
				return nil, &Error{Kind: ConditionNotBoolean, Value: cond}
			}
			if b.Val {
				term = t.Then
			} else {
				term = t.Else
			}

		default:
			return nil, &Error{Kind: MalformedTerm}
		}
	}
}
