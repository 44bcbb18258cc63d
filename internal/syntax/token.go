package syntax

import "fmt"

// TokenType defines the kinds of tokens produced by the lexer.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenInt
	TokenIdent

	// keywords
	TokenLet
	TokenRec
	TokenIn
	TokenFun
	TokenIf
	TokenThen
	TokenElse
	TokenTrue
	TokenFalse

	// punctuation
	TokenLParen // (
	TokenRParen // )
	TokenArrow  // ->
	TokenAssign // =

	// operators
	TokenPlus  // +
	TokenMinus // -
	TokenStar  // *
	TokenSlash // /
	TokenLte   // <=
	TokenGte   // >=
	TokenLt    // <
	TokenGt    // >
	TokenEq    // ==
	TokenNeq   // !=
	TokenAnd   // &&
	TokenOr    // ||
	TokenBang  // !
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "end of input",
	TokenInt:    "integer",
	TokenIdent:  "identifier",
	TokenLet:    "'let'",
	TokenRec:    "'rec'",
	TokenIn:     "'in'",
	TokenFun:    "'fun'",
	TokenIf:     "'if'",
	TokenThen:   "'then'",
	TokenElse:   "'else'",
	TokenTrue:   "'true'",
	TokenFalse:  "'false'",
	TokenLParen: "'('",
	TokenRParen: "')'",
	TokenArrow:  "'->'",
	TokenAssign: "'='",
	TokenPlus:   "'+'",
	TokenMinus:  "'-'",
	TokenStar:   "'*'",
	TokenSlash:  "'/'",
	TokenLte:    "'<='",
	TokenGte:    "'>='",
	TokenLt:     "'<'",
	TokenGt:     "'>'",
	TokenEq:     "'=='",
	TokenNeq:    "'!='",
	TokenAnd:    "'&&'",
	TokenOr:     "'||'",
	TokenBang:   "'!'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]TokenType{
	"let":   TokenLet,
	"rec":   TokenRec,
	"in":    TokenIn,
	"fun":   TokenFun,
	"if":    TokenIf,
	"then":  TokenThen,
	"else":  TokenElse,
	"true":  TokenTrue,
	"false": TokenFalse,
}

var infixOps = map[TokenType]BinaryOp{
	TokenPlus:  OpAdd,
	TokenMinus: OpSub,
	TokenStar:  OpMul,
	TokenSlash: OpDiv,
	TokenLte:   OpLte,
	TokenGte:   OpGte,
	TokenLt:    OpLt,
	TokenGt:    OpGt,
	TokenEq:    OpEq,
	TokenNeq:   OpNeq,
	TokenAnd:   OpAnd,
	TokenOr:    OpOr,
}

// Pos is a location in the source text. Line and Column are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position was set by the lexer.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType
	Value    string
	Position Pos
}

func (t Token) String() string {
	switch t.Type {
	case TokenInt, TokenIdent:
		return fmt.Sprintf("%s %q", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}
