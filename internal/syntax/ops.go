package syntax

// UnaryOp represents prefix operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	default:
		return "?"
	}
}

// Name returns the operator's tag as used in diagnostics.
func (op UnaryOp) Name() string {
	switch op {
	case OpNeg:
		return "Neg"
	case OpNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// BinaryOp represents infix operators.
type BinaryOp int

const (
	_ BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLte
	OpGte
	OpLt
	OpGt
	OpEq
	OpNeq
	OpAnd
	OpOr
)

var binaryOps = [...]struct {
	symbol string
	name   string
}{
	OpAdd: {"+", "Add"},
	OpSub: {"-", "Sub"},
	OpMul: {"*", "Mul"},
	OpDiv: {"/", "Div"},
	OpLte: {"<=", "Lte"},
	OpGte: {">=", "Gte"},
	OpLt:  {"<", "Lt"},
	OpGt:  {">", "Gt"},
	OpEq:  {"==", "Eq"},
	OpNeq: {"!=", "Neq"},
	OpAnd: {"&&", "And"},
	OpOr:  {"||", "Or"},
}

func (op BinaryOp) valid() bool {
	return op > 0 && int(op) < len(binaryOps)
}

func (op BinaryOp) String() string {
	if !op.valid() {
		return "?"
	}
	return binaryOps[op].symbol
}

// Name returns the operator's tag as used in diagnostics.
func (op BinaryOp) Name() string {
	if !op.valid() {
		return "Unknown"
	}
	return binaryOps[op].name
}

// IsArithmetic reports whether op maps two integers to an integer.
func (op BinaryOp) IsArithmetic() bool {
	return op >= OpAdd && op <= OpDiv
}

// IsComparison reports whether op maps two integers to a boolean.
func (op BinaryOp) IsComparison() bool {
	return op >= OpLte && op <= OpNeq
}

// IsLogical reports whether op maps two booleans to a boolean.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// Binding powers, lowest to highest.
const (
	precLowest = iota
	precLogical
	precEquality
	precCompare
	precSum
	precProduct
	precPrefix
	precApply
)

func (op BinaryOp) precedence() int {
	switch {
	case op.IsLogical():
		return precLogical
	case op == OpEq || op == OpNeq:
		return precEquality
	case op.IsComparison():
		return precCompare
	case op == OpAdd || op == OpSub:
		return precSum
	case op == OpMul || op == OpDiv:
		return precProduct
	default:
		return precLowest
	}
}
