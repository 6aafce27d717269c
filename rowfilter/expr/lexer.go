package expr

import (
	"fmt"
	"strings"
	"unicode"
)

// Token represents a lexical token
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// TokenKind is the type of token
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokField   // [Name]
	TokString  // '...'
	TokNumber  // 123 or 123.45
	TokNull    // NULL
	TokKeyword // in, not in, like, between, and, is null, ...
	TokOp      // || && == = != <= >= < > + - * / !
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokComma
	TokIdent // bare word fallback; the parser rejects these
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokField:
		return "Field"
	case TokString:
		return "String"
	case TokNumber:
		return "Number"
	case TokNull:
		return "Null"
	case TokKeyword:
		return "Keyword"
	case TokOp:
		return "Op"
	case TokLParen:
		return "LParen"
	case TokRParen:
		return "RParen"
	case TokLBrace:
		return "LBrace"
	case TokRBrace:
		return "RBrace"
	case TokComma:
		return "Comma"
	case TokIdent:
		return "Ident"
	default:
		return "Unknown"
	}
}

// LexError reports an unterminated literal or field reference.
type LexError struct {
	Pos int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d: %s", e.Pos, e.Msg)
}

// Lexer tokenizes a filter expression string
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a new lexer for the input string
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Lex tokenizes the entire input
func Lex(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}

	return tokens, nil
}

// Next returns the next token. The lexer is permissive: characters that match
// no pattern come back as TokIdent and the parser is the one that rejects
// them. Only an unterminated string or field reference is a lexer error.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Text: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Text: ")", Pos: start}, nil
	case '{':
		l.pos++
		return Token{Kind: TokLBrace, Text: "{", Pos: start}, nil
	case '}':
		l.pos++
		return Token{Kind: TokRBrace, Text: "}", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokComma, Text: ",", Pos: start}, nil
	case '[':
		return l.scanField()
	case '\'':
		return l.scanString()
	}

	// Two-character symbol operators before their one-character prefixes.
	for _, op := range []string{"||", "&&", "==", "!=", "<=", ">="} {
		if l.hasPrefix(op) {
			l.pos += 2
			return Token{Kind: TokOp, Text: op, Pos: start}, nil
		}
	}
	switch ch {
	case '<', '>', '=', '+', '-', '*', '/', '!':
		l.pos++
		return Token{Kind: TokOp, Text: string(ch), Pos: start}, nil
	}

	if unicode.IsDigit(ch) {
		return l.scanNumber(), nil
	}

	if isWordStart(ch) {
		return l.scanWord(), nil
	}

	// Pass-through garbage token for the parser to reject.
	l.pos++
	return Token{Kind: TokIdent, Text: string(ch), Pos: start}, nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.pos+len(s) > len(l.input) {
		return false
	}
	return string(l.input[l.pos:l.pos+len(s)]) == s
}

func (l *Lexer) scanField() (Token, error) {
	start := l.pos
	l.pos++ // consume '['
	nameStart := l.pos
	for l.pos < len(l.input) {
		if l.input[l.pos] == ']' {
			name := string(l.input[nameStart:l.pos])
			l.pos++ // consume ']'
			return Token{Kind: TokField, Text: name, Pos: start}, nil
		}
		l.pos++
	}
	return Token{}, &LexError{Pos: start, Msg: "unterminated field reference"}
}

// scanString scans a single-quoted literal. There is no escape sequence: an
// embedded quote terminates the literal.
func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++ // consume opening quote
	strStart := l.pos
	for l.pos < len(l.input) {
		if l.input[l.pos] == '\'' {
			s := string(l.input[strStart:l.pos])
			l.pos++ // consume closing quote
			return Token{Kind: TokString, Text: s, Pos: start}, nil
		}
		l.pos++
	}
	return Token{}, &LexError{Pos: start, Msg: "unterminated string literal"}
}

// scanNumber matches [0-9]+(\.[0-9]+)? — a leading sign is never part of the
// literal, so -5 lexes as the operator '-' followed by 5.
func (l *Lexer) scanNumber() Token {
	start := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && unicode.IsDigit(l.input[l.pos+1]) {
		l.pos++ // consume '.'
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	return Token{Kind: TokNumber, Text: string(l.input[start:l.pos]), Pos: start}
}

// scanWord scans a bare word and classifies it. Multi-word keyword operators
// are matched longest-first so that e.g. "is not empty" is a single token and
// "not" followed by anything else stays a plain identifier.
func (l *Lexer) scanWord() Token {
	start := l.pos
	word := strings.ToLower(l.word())

	switch word {
	case "null":
		return Token{Kind: TokNull, Text: "null", Pos: start}
	case "in", "like", "between", "and":
		return Token{Kind: TokKeyword, Text: word, Pos: start}
	case "not":
		save := l.pos
		switch strings.ToLower(l.word()) {
		case "in":
			return Token{Kind: TokKeyword, Text: "not in", Pos: start}
		case "like":
			return Token{Kind: TokKeyword, Text: "not like", Pos: start}
		case "between":
			return Token{Kind: TokKeyword, Text: "not between", Pos: start}
		}
		l.pos = save
	case "is":
		save := l.pos
		switch strings.ToLower(l.word()) {
		case "null":
			return Token{Kind: TokKeyword, Text: "is null", Pos: start}
		case "empty":
			return Token{Kind: TokKeyword, Text: "is empty", Pos: start}
		case "not":
			switch strings.ToLower(l.word()) {
			case "null":
				return Token{Kind: TokKeyword, Text: "is not null", Pos: start}
			case "empty":
				return Token{Kind: TokKeyword, Text: "is not empty", Pos: start}
			}
		}
		l.pos = save
	}

	return Token{Kind: TokIdent, Text: string(l.input[start:l.pos]), Pos: start}
}

// word consumes and returns the next whitespace-separated word, or "" when
// the next character does not start one.
func (l *Lexer) word() string {
	l.skipWhitespace()
	if l.pos >= len(l.input) || !isWordStart(l.input[l.pos]) {
		return ""
	}
	start := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func isWordStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isWordChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}
