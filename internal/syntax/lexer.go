package syntax

import "unicode/utf8"

// Lexer is responsible for scanning the input string and producing tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	line     int
	column   int
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
		tokens: make([]Token, 0),
	}
}

// Tokenize processes the entire input and produces the list of tokens,
// terminated by a TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		start := l.pos()
		c := l.input[l.position]

		switch {
		case c == '#':
			l.skipComment()

		case isWhitespace(c):
			l.advance(1)

		case isDigit(c):
			l.lexWhile(TokenInt, start, isDigit)

		case isIdentStart(c):
			l.lexIdent(start)

		default:
			if !l.lexOperator(start) {
				r, _ := utf8.DecodeRuneInString(l.input[l.position:])
				return nil, errorf(start, "unexpected character %q", r)
			}
		}
	}

	l.addToken(TokenEOF, "", l.pos())
	return l.tokens, nil
}

// two-character operators must be tried before their one-character prefixes.
var operators = []struct {
	text string
	typ  TokenType
}{
	{"->", TokenArrow},
	{"<=", TokenLte},
	{">=", TokenGte},
	{"==", TokenEq},
	{"!=", TokenNeq},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"=", TokenAssign},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"<", TokenLt},
	{">", TokenGt},
	{"!", TokenBang},
}

func (l *Lexer) lexOperator(start Pos) bool {
	rest := l.input[l.position:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && rest[:len(op.text)] == op.text {
			l.addToken(op.typ, op.text, start)
			l.advance(len(op.text))
			return true
		}
	}
	return false
}

func (l *Lexer) lexIdent(start Pos) {
	begin := l.position
	for l.position < len(l.input) && isIdentPart(l.input[l.position]) {
		l.advance(1)
	}
	word := l.input[begin:l.position]
	if kw, ok := keywords[word]; ok {
		l.addToken(kw, word, start)
		return
	}
	l.addToken(TokenIdent, word, start)
}

func (l *Lexer) lexWhile(typ TokenType, start Pos, pred func(byte) bool) {
	begin := l.position
	for l.position < len(l.input) && pred(l.input[l.position]) {
		l.advance(1)
	}
	l.addToken(typ, l.input[begin:l.position], start)
}

// skipComment consumes a '#' comment up to, not including, the newline.
func (l *Lexer) skipComment() {
	for l.position < len(l.input) && l.input[l.position] != '\n' {
		l.advance(1)
	}
}

// advance moves n bytes forward, keeping line and column in sync.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.position < len(l.input); i++ {
		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.position++
	}
}

func (l *Lexer) pos() Pos {
	return Pos{Offset: l.position, Line: l.line, Column: l.column}
}

// addToken is a helper to append a new token to the lexer's token list.
func (l *Lexer) addToken(tokenType TokenType, value string, pos Pos) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '\''
}
