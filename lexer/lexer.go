// Package lexer turns quack source text into tokens. Literals, including
// format strings with embedded expressions, are fully recognized here; the
// expressions inside format strings are handed to an ExprParser.
package lexer

import (
	"github.com/takoeight0821/quack/literal"
	"github.com/takoeight0821/quack/token"
)

// DefaultMaxDepth bounds how deeply format strings may nest inside each
// other's interpolations.
const DefaultMaxDepth = 32

type Option func(*Lexer)

// WithDepth sets the interpolation depth the lexer runs at. Parsers use it
// when lexing the inside of an interpolation.
func WithDepth(depth int) Option {
	return func(l *Lexer) { l.depth = depth }
}

func WithMaxDepth(n int) Option {
	return func(l *Lexer) {
		if n > 0 {
			l.maxDepth = n
		}
	}
}

// Lexer produces tokens on demand, starting at a given position. It stops
// at the first error.
type Lexer struct {
	s        *Scanner
	parser   ExprParser
	depth    int
	maxDepth int
}

func New(src *Source, at token.Position, parser ExprParser, opts ...Option) *Lexer {
	l := &Lexer{
		s:        NewScanner(src, at),
		parser:   parser,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lex tokenizes the whole source. The returned tokens end with EOF.
func Lex(src *Source, parser ExprParser, opts ...Option) ([]token.Token, error) {
	l := New(src, token.Start, parser, opts...)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// LexLiteral recognizes the literal starting at at. If no literal starts
// there it returns nil and at, and the caller lexes something else.
func LexLiteral(src *Source, at token.Position, parser ExprParser, opts ...Option) (literal.Literal, token.Position, error) {
	l := New(src, at, parser, opts...)
	lit, err := l.literal()
	if err != nil || lit == nil {
		return nil, at, err
	}
	return lit, l.s.Pos(), nil
}

func (l *Lexer) Pos() token.Position {
	return l.s.Pos()
}

func (l *Lexer) literal() (literal.Literal, error) {
	c, ok := l.s.Peek()
	if !ok {
		return nil, l.s.Err()
	}

	in := interpolation{s: l.s, parser: l.parser, depth: l.depth, maxDepth: l.maxDepth}
	switch c {
	case '"':
		return in.scan(l.s.Pos(), false)
	case 'f':
		if next, ok := l.s.PeekN(1); ok && next == '"' {
			_, start, _ := l.s.Advance()
			return in.scan(start, true)
		}
	}
	return scalar(l.s)
}

// Next returns the next token. After an error, the cursor has moved past
// the offending input so callers may keep skipping tokens.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	start := l.s.Pos()

	tok, err := l.scanToken(start)
	if err != nil {
		if l.s.Pos().Offset == start.Offset {
			l.s.skip()
		}
		return token.Token{Pos: start}, err
	}
	return tok, nil
}

func (l *Lexer) skipWhitespace() {
	for {
		c, ok := l.s.Peek()
		if !ok {
			return
		}
		switch {
		case isSpace(c):
			l.s.Advance()
		case c == '/' && l.depth == 0:
			// line comment, top level only
			if next, ok := l.s.PeekN(1); !ok || next != '/' {
				return
			}
			for c, ok := l.s.Peek(); ok && c != '\n'; c, ok = l.s.Peek() {
				l.s.Advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanToken(start token.Position) (token.Token, error) {
	if l.s.AtEnd() {
		return token.Token{Kind: token.EOF, Lexeme: "", Pos: start}, nil
	}

	lit, err := l.literal()
	if err != nil {
		return token.Token{}, err
	}
	if lit != nil {
		return l.token(lit.Kind(), start, lit), nil
	}

	c, _, ok := l.s.Advance()
	if !ok {
		return token.Token{}, l.s.Err()
	}

	if k, ok := reservedSymbols[c]; ok {
		// :: is the only two-character token starting with a reserved symbol.
		if c == ':' {
			if next, ok := l.s.Peek(); ok && next == ':' {
				l.s.Advance()
				return l.token(token.SCOPE, start, nil), nil
			}
		}
		return l.token(k, start, nil), nil
	}
	if isIdentStart(c) {
		tok := l.identifier(start)
		if tok.Kind == token.GO {
			return l.inlineGo(tok)
		}
		return tok, nil
	}
	if isOperatorChar(c) {
		return l.operator(c, start), nil
	}

	return token.Token{}, errorAt(UnexpectedCharacter, start, "%q", c)
}

func (l *Lexer) token(kind token.Kind, start token.Position, lit literal.Literal) token.Token {
	tok := token.Token{Kind: kind, Lexeme: l.s.slice(start), Pos: start}
	if lit != nil {
		tok.Literal = lit
	}
	return tok
}

func (l *Lexer) identifier(start token.Position) token.Token {
	for {
		c, ok := l.s.Peek()
		if !ok || !isIdentPart(c) {
			break
		}
		l.s.Advance()
	}

	if k, ok := keywords[l.s.slice(start)]; ok {
		return l.token(k, start, nil)
	}
	return l.token(token.IDENT, start, nil)
}

// inlineGo reads the block after the go keyword: at least one whitespace
// character, then a brace-balanced body whose text is kept verbatim in
// Token.Literal. Without the block, go stands alone as a keyword.
func (l *Lexer) inlineGo(keyword token.Token) (token.Token, error) {
	mark := l.s.Checkpoint()
	spaced := false
	for c, ok := l.s.Peek(); ok && isSpace(c); c, ok = l.s.Peek() {
		l.s.Advance()
		spaced = true
	}
	if c, ok := l.s.Peek(); !spaced || !ok || c != '{' {
		l.s.Restore(mark)
		return keyword, nil
	}

	_, open, _ := l.s.Advance()
	body := l.s.Pos()
	for depth := 1; ; {
		c, at, ok := l.s.Advance()
		if !ok {
			if err := l.s.Err(); err != nil {
				return token.Token{}, err
			}
			return token.Token{}, errorAt(UnterminatedInlineGo, open, "")
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				tok := l.token(token.INLINEGO, keyword.Pos, nil)
				tok.Literal = l.s.src.Slice(body, at)
				return tok, nil
			}
		}
	}
}

// operator reads the longest known operator starting with c.
func (l *Lexer) operator(c rune, start token.Position) token.Token {
	if next, ok := l.s.Peek(); ok {
		if k, ok := twoCharOperators[string([]rune{c, next})]; ok {
			l.s.Advance()
			return l.token(k, start, nil)
		}
	}
	if c == '=' {
		return l.token(token.EQUAL, start, nil)
	}
	return l.token(token.OPERATOR, start, nil)
}

var keywords = map[string]token.Kind{
	"as":       token.AS,
	"break":    token.BREAK,
	"continue": token.CONTINUE,
	"duck":     token.DUCK,
	"else":     token.ELSE,
	"fn":       token.FN,
	"go":       token.GO,
	"if":       token.IF,
	"let":      token.LET,
	"match":    token.MATCH,
	"module":   token.MODULE,
	"return":   token.RETURN,
	"struct":   token.STRUCT,
	"type":     token.TYPE,
	"use":      token.USE,
	"while":    token.WHILE,
}

// These characters are reserved symbols, but they are not included in operator.
var reservedSymbols = map[rune]token.Kind{
	'(': token.LEFTPAREN,
	')': token.RIGHTPAREN,
	'{': token.LEFTBRACE,
	'}': token.RIGHTBRACE,
	'[': token.LEFTBRACKET,
	']': token.RIGHTBRACKET,
	':': token.COLON,
	',': token.COMMA,
	'.': token.DOT,
	';': token.SEMICOLON,
}

var twoCharOperators = map[string]token.Kind{
	"->": token.ARROW,
	"==": token.OPERATOR,
	"!=": token.OPERATOR,
	"<=": token.OPERATOR,
	">=": token.OPERATOR,
	"&&": token.OPERATOR,
	"||": token.OPERATOR,
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isOperatorChar(c rune) bool {
	switch c {
	case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|':
		return true
	default:
		return false
	}
}
