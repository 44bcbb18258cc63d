package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexer_Tokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenType{TokenEOF},
		},
		{
			name:  "let binding",
			input: "let x = 1 in x",
			want:  []TokenType{TokenLet, TokenIdent, TokenAssign, TokenInt, TokenIn, TokenIdent, TokenEOF},
		},
		{
			name:  "two character operators",
			input: "<= >= == != && || ->",
			want:  []TokenType{TokenLte, TokenGte, TokenEq, TokenNeq, TokenAnd, TokenOr, TokenArrow, TokenEOF},
		},
		{
			name:  "one character operators",
			input: "+ - * / < > ! = ( )",
			want: []TokenType{
				TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenLt, TokenGt,
				TokenBang, TokenAssign, TokenLParen, TokenRParen, TokenEOF,
			},
		},
		{
			name:  "keywords and identifiers",
			input: "rec fun if then else true false letter x' _y",
			want: []TokenType{
				TokenRec, TokenFun, TokenIf, TokenThen, TokenElse, TokenTrue, TokenFalse,
				TokenIdent, TokenIdent, TokenIdent, TokenEOF,
			},
		},
		{
			name:  "comments are skipped",
			input: "1 # one\n+ 2 # two",
			want:  []TokenType{TokenInt, TokenPlus, TokenInt, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokenTypes(tokens))
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	t.Parallel()
	tokens, err := NewLexer("let\n  foo = 42").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, Pos{Offset: 0, Line: 1, Column: 1}, tokens[0].Position)
	assert.Equal(t, Pos{Offset: 6, Line: 2, Column: 3}, tokens[1].Position)
	assert.Equal(t, "foo", tokens[1].Value)
	assert.Equal(t, Pos{Offset: 12, Line: 2, Column: 9}, tokens[3].Position)
	assert.Equal(t, "42", tokens[3].Value)
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	t.Parallel()
	_, err := NewLexer("1 + $").Tokenize()
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 5, serr.Pos.Column)
	assert.Contains(t, serr.Msg, "'$'")
	assert.False(t, serr.Incomplete)
}

func TestLexer_NonASCIIWhitespace(t *testing.T) {
	t.Parallel()
	for _, src := range []string{"1 +\xa02", "1\x85+ 2", "1\u00a0+ 2", "1\v+ 2"} {
		_, err := NewLexer(src).Tokenize()
		var serr *Error
		require.ErrorAs(t, err, &serr, "source %q", src)
		assert.Contains(t, serr.Msg, "unexpected character")
	}
}
