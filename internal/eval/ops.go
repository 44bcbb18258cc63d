package eval

import "github.com/gnolang/lam/internal/syntax"

// Integer arithmetic wraps on overflow like Go's int32.
var arithmetic = map[syntax.BinaryOp]func(a, b int32) (int32, *Error){
	syntax.OpAdd: func(a, b int32) (int32, *Error) { return a + b, nil },
	syntax.OpSub: func(a, b int32) (int32, *Error) { return a - b, nil },
	syntax.OpMul: func(a, b int32) (int32, *Error) { return a * b, nil },
	syntax.OpDiv: func(a, b int32) (int32, *Error) {
		if b == 0 {
			return 0, &Error{Kind: DivisionByZero}
		}
		return a / b, nil
	},
}

var comparisons = map[syntax.BinaryOp]func(a, b int32) bool{
	syntax.OpLte: func(a, b int32) bool { return a <= b },
	syntax.OpGte: func(a, b int32) bool { return a >= b },
	syntax.OpLt:  func(a, b int32) bool { return a < b },
	syntax.OpGt:  func(a, b int32) bool { return a > b },
	syntax.OpEq:  func(a, b int32) bool { return a == b },
	syntax.OpNeq: func(a, b int32) bool { return a != b },
}

// logical operators see both operands already evaluated.
var logical = map[syntax.BinaryOp]func(a, b bool) bool{
	syntax.OpAnd: func(a, b bool) bool { return a && b },
	syntax.OpOr:  func(a, b bool) bool { return a || b },
}

func evalUnary(op syntax.UnaryOp, operand Value) (Value, error) {
	switch op {
	case syntax.OpNot:
		if b, ok := operand.(BoolValue); ok {
			return BoolValue{Val: !b.Val}, nil
		}
	case syntax.OpNeg:
		if i, ok := operand.(IntValue); ok {
			return IntValue{Val: -i.Val}, nil
		}
	}
	return nil, typeMismatch(op.Name(), operand)
}

func evalBinary(op syntax.BinaryOp, left, right Value) (Value, error) {
	l, lInt := left.(IntValue)
	r, rInt := right.(IntValue)
	if lInt && rInt {
		if f, ok := arithmetic[op]; ok {
			v, err := f(l.Val, r.Val)
			if err != nil {
				return nil, err
			}
			return IntValue{Val: v}, nil
		}
		if f, ok := comparisons[op]; ok {
			return BoolValue{Val: f(l.Val, r.Val)}, nil
		}
	}

	lb, lBool := left.(BoolValue)
	rb, rBool := right.(BoolValue)
	if lBool && rBool {
		if f, ok := logical[op]; ok {
			return BoolValue{Val: f(lb.Val, rb.Val)}, nil
		}
	}

	return nil, typeMismatch(op.Name(), left, right)
}
