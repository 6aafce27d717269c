package expr

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseError reports a structural grammar violation at a token position.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

// Parse parses a filter expression string into an AST.
//
// Grammar, lowest to highest precedence:
//
//	Or      := And  ( '||' And )*
//	And     := Cmp  ( '&&' Cmp )*
//	Cmp     := AddSub ( CmpTail )?        // at most one comparison per level
//	AddSub  := MulDiv ( ('+'|'-') MulDiv )*
//	MulDiv  := Unary  ( ('*'|'/') Unary )*
//	Unary   := ('!'|'-'|'+') Unary | Primary
//	Primary := Number | String | Field | NULL | '(' Or ')'
func Parse(input string) (Expr, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.match(TokEOF) {
		return nil, p.errorf("unexpected token %q after expression", p.current().Text)
	}
	return e, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.matchOp("||") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}

	for p.matchOp("&&") {
		p.advance()
		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpAnd, Left: left, Right: right}
	}

	return left, nil
}

// parseCmp parses at most one comparison tail. Chained comparisons like
// a < b < c are deliberately not a production; the leftover token is
// rejected by whichever level runs out of grammar.
func (p *parser) parseCmp() (Expr, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}

	if p.match(TokOp) {
		var op BinaryOp
		switch p.current().Text {
		case "==", "=":
			op = OpEq
		case "!=":
			op = OpNe
		case "<":
			op = OpLt
		case ">":
			op = OpGt
		case "<=":
			op = OpLe
		case ">=":
			op = OpGe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		return rewriteNullCmp(op, left, right), nil
	}

	if p.match(TokKeyword) {
		switch p.current().Text {
		case "in", "not in":
			return p.parseIn(left)
		case "like", "not like":
			return p.parseLike(left)
		case "between", "not between":
			return p.parseBetween(left)
		case "is null":
			p.advance()
			return Binary{Op: OpIsNull, Left: left}, nil
		case "is not null":
			p.advance()
			return Binary{Op: OpIsNotNull, Left: left}, nil
		case "is empty":
			p.advance()
			return Binary{Op: OpIsEmpty, Left: left}, nil
		case "is not empty":
			p.advance()
			return Binary{Op: OpIsNotEmpty, Left: left}, nil
		}
	}

	return left, nil
}

// rewriteNullCmp normalizes comparisons against the NULL literal:
// x == NULL and x = NULL become "x is null", x != NULL becomes
// "x is not null". Other operators keep the literal and fail in the
// compiler, which rejects ordering against NULL.
func rewriteNullCmp(op BinaryOp, left, right Expr) Expr {
	if op != OpEq && op != OpNe {
		return Binary{Op: op, Left: left, Right: right}
	}
	other, ok := nullOperand(left, right)
	if !ok {
		return Binary{Op: op, Left: left, Right: right}
	}
	if op == OpEq {
		return Binary{Op: OpIsNull, Left: other}
	}
	return Binary{Op: OpIsNotNull, Left: other}
}

func nullOperand(left, right Expr) (Expr, bool) {
	if c, ok := right.(Const); ok && c.Value.IsNull() {
		return left, true
	}
	if c, ok := left.(Const); ok && c.Value.IsNull() {
		return right, true
	}
	return nil, false
}

func (p *parser) parseIn(left Expr) (Expr, error) {
	negate := p.current().Text == "not in"
	p.advance()

	if !p.match(TokLBrace) {
		return nil, p.errorf("expected '{' after %q", keywordName(negate, "in"))
	}
	p.advance()

	var values []Expr
	for {
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.match(TokComma) {
			p.advance()
			continue
		}
		break
	}

	if !p.match(TokRBrace) {
		return nil, p.errorf("expected '}' to close value list, got %q", p.current().Text)
	}
	p.advance()

	return In{Left: left, Values: values, Negate: negate}, nil
}

func (p *parser) parseLike(left Expr) (Expr, error) {
	negate := p.current().Text == "not like"
	p.advance()

	right, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	like := Binary{Op: OpLike, Left: left, Right: right}
	if negate {
		return Unary{Op: OpNot, Operand: like}, nil
	}
	return like, nil
}

func (p *parser) parseBetween(left Expr) (Expr, error) {
	negate := p.current().Text == "not between"
	p.advance()

	lo, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	if !p.match(TokKeyword) || p.current().Text != "and" {
		return nil, p.errorf("expected 'and' in between range, got %q", p.current().Text)
	}
	p.advance()
	hi, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}

	return Between{Left: left, Lo: lo, Hi: hi, Negate: negate}, nil
}

func (p *parser) parseAddSub() (Expr, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}

	for p.matchOp("+") || p.matchOp("-") {
		var op BinaryOp
		if p.current().Text == "+" {
			op = OpAdd
		} else {
			op = OpSub
		}
		p.advance()
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseMulDiv() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.matchOp("*") || p.matchOp("/") {
		var op BinaryOp
		if p.current().Text == "*" {
			op = OpMul
		} else {
			op = OpDiv
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.match(TokOp) {
		var op UnaryOp
		switch p.current().Text {
		case "!":
			op = OpNot
		case "-":
			op = OpNeg
		case "+":
			op = OpPlus
		default:
			return p.parsePrimary()
		}
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case TokNumber:
		d, err := decimal.NewFromString(tok.Text)
		if err != nil {
			return nil, p.errorf("invalid number %q", tok.Text)
		}
		p.advance()
		return Const{Value: Number(d)}, nil
	case TokString:
		p.advance()
		return Const{Value: Text(tok.Text)}, nil
	case TokField:
		if tok.Text == "" {
			return nil, p.errorf("empty field reference")
		}
		p.advance()
		return FieldRef{Name: tok.Text}, nil
	case TokNull:
		p.advance()
		return Const{Value: Null()}, nil
	case TokLParen:
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(TokRParen) {
			return nil, p.errorf("expected ')', got %q", p.current().Text)
		}
		p.advance()
		return e, nil
	case TokEOF:
		return nil, p.errorf("unexpected end of expression")
	default:
		return nil, p.errorf("unknown token %q", tok.Text)
	}
}

func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: TokEOF}
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) match(kind TokenKind) bool {
	return p.current().Kind == kind
}

func (p *parser) matchOp(text string) bool {
	return p.current().Kind == TokOp && p.current().Text == text
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.current().Pos, Msg: fmt.Sprintf(format, args...)}
}

func keywordName(negate bool, base string) string {
	if negate {
		return "not " + base
	}
	return base
}
