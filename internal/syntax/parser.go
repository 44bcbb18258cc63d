package syntax

import "strconv"

// Parser consumes tokens produced by the lexer and builds a surface term
// with a Pratt (precedence climbing) loop.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a new Parser over tokens, which must end with TokenEOF.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes and parses a complete program.
func Parse(src string) (Term, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse parses a single term and requires that it spans all tokens.
func (p *Parser) Parse() (Term, error) {
	term, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, errorf(tok.Position, "unexpected %s after end of term", tok)
	}
	return term, nil
}

// parseExpr parses a term whose infix operators all bind tighter than minPrec.
func (p *Parser) parseExpr(minPrec int) (Term, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()

		if startsPrimary(tok.Type) {
			if precApply <= minPrec {
				break
			}
			arg, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			left = &Apply{Position: left.Pos(), Fn: left, Arg: arg}
			continue
		}

		op, ok := infixOps[tok.Type]
		if !ok || op.precedence() <= minPrec {
			break
		}
		p.next()

		// left-associative: the right operand may only hold tighter operators
		right, err := p.parseExpr(op.precedence())
		if err != nil {
			return nil, err
		}
		left = &Binary{Position: tok.Position, Op: op, Left: left, Right: right}
	}

	return left, nil
}

// parsePrefix handles '-' and '!', which bind looser than application.
func (p *Parser) parsePrefix() (Term, error) {
	tok := p.peek()
	var op UnaryOp
	switch tok.Type {
	case TokenMinus:
		op = OpNeg
	case TokenBang:
		op = OpNot
	default:
		return p.parsePrimary()
	}
	p.next()

	operand, err := p.parseExpr(precPrefix)
	if err != nil {
		return nil, err
	}
	return &Unary{Position: tok.Position, Op: op, Operand: operand}, nil
}

func startsPrimary(t TokenType) bool {
	switch t {
	case TokenInt, TokenIdent, TokenTrue, TokenFalse, TokenLParen,
		TokenLet, TokenFun, TokenIf:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePrimary() (Term, error) {
	tok := p.peek()

	switch tok.Type {
	case TokenInt:
		p.next()
		v, err := strconv.ParseInt(tok.Value, 10, 32)
		if err != nil {
			return nil, errorf(tok.Position, "integer literal %s out of range", tok.Value)
		}
		return &Int{Position: tok.Position, Value: int32(v)}, nil

	case TokenTrue, TokenFalse:
		p.next()
		return &Bool{Position: tok.Position, Value: tok.Type == TokenTrue}, nil

	case TokenIdent:
		p.next()
		return &Var{Position: tok.Position, Name: tok.Value}, nil

	case TokenLParen:
		p.next()
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenFun:
		return p.parseLambda()

	case TokenLet:
		return p.parseLet()

	case TokenIf:
		return p.parseIf()

	default:
		return nil, p.unexpected(tok, "a term")
	}
}

// parseLambda parses `fun x1 .. xn -> body`.
func (p *Parser) parseLambda() (Term, error) {
	start := p.next()

	params, err := p.parseParams(1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &Lambda{Position: start.Position, Params: params, Body: body}, nil
}

// parseLet parses the three let forms:
//
//	let x = m in n
//	let f x1 .. xn = m in n
//	let rec f x1 .. xn = m in n
func (p *Parser) parseLet() (Term, error) {
	start := p.next()

	rec := false
	if p.peek().Type == TokenRec {
		p.next()
		rec = true
	}

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	minParams := 0
	if rec {
		minParams = 1
	}
	params, err := p.parseParams(minParams)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}
	bound, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}

	if len(params) > 0 {
		lam := &Lambda{Position: name.Position, Params: params, Body: bound}
		if rec {
			lam.Self = name.Value
		}
		bound = lam
	}

	return &LetIn{
		Position: start.Position,
		Name:     name.Value,
		Rec:      rec,
		Bound:    bound,
		Body:     body,
	}, nil
}

// parseIf parses `if c then t else e`.
func (p *Parser) parseIf() (Term, error) {
	start := p.next()

	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenThen); err != nil {
		return nil, err
	}
	then, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenElse); err != nil {
		return nil, err
	}
	els, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return &If{Position: start.Position, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseParams(min int) ([]string, error) {
	var params []string
	for p.peek().Type == TokenIdent {
		params = append(params, p.next().Value)
	}
	if len(params) < min {
		return nil, p.unexpected(p.peek(), "a parameter name")
	}
	return params, nil
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

// next consumes and returns the current token.
func (p *Parser) next() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) expect(t TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != t {
		return tok, p.unexpected(tok, t.String())
	}
	return p.next(), nil
}

func (p *Parser) unexpected(tok Token, want string) *Error {
	if tok.Type == TokenEOF {
		err := errorf(tok.Position, "unexpected end of input, expected %s", want)
		err.Incomplete = true
		return err
	}
	return errorf(tok.Position, "unexpected %s, expected %s", tok, want)
}
