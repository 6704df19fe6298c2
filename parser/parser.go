// Package parser parses quack expressions and let statements.
//
// Tokens are pulled from the lexer one at a time, so a parse that starts in
// the middle of a format string never looks further than the token right
// after the expression.
package parser

import (
	"errors"
	"strings"

	"github.com/takoeight0821/quack/ast"
	"github.com/takoeight0821/quack/infix"
	"github.com/takoeight0821/quack/lexer"
	"github.com/takoeight0821/quack/literal"
	"github.com/takoeight0821/quack/token"
	"github.com/takoeight0821/quack/utils"
)

type Parser struct {
	maxDepth int
	infix    *infix.Resolver
}

func NewParser() *Parser {
	return &Parser{maxDepth: lexer.DefaultMaxDepth, infix: infix.NewResolver()}
}

// SetMaxDepth bounds how deeply format strings may nest.
func (p *Parser) SetMaxDepth(n int) {
	if n > 0 {
		p.maxDepth = n
	}
}

// ParseExpr implements lexer.ExprParser. The returned position is where the
// token after the expression starts.
func (p *Parser) ParseExpr(src *lexer.Source, at token.Position, depth int) (literal.Expr, token.Position, error) {
	st := p.newState(src, at, depth)
	node, err := st.run(st.expr)
	if err != nil {
		return nil, at, err
	}
	return node, st.peek().Pos, nil
}

// ParseExprString parses a whole source as a single expression.
func (p *Parser) ParseExprString(src *lexer.Source) (ast.Node, error) {
	st := p.newState(src, token.Start, 0)
	return st.run(func() ast.Node {
		expr := st.expr()
		st.consume(token.EOF)
		return expr
	})
}

// ParseProgram parses a sequence of statements. A statement that fails to
// parse is skipped up to the next semicolon and parsing goes on; all errors
// are returned joined.
func (p *Parser) ParseProgram(src *lexer.Source) ([]ast.Node, error) {
	st := p.newState(src, token.Start, 0)
	var (
		nodes []ast.Node
		errs  []error
	)
	for !st.isAtEnd() {
		node, err := st.run(st.stmt)
		if err != nil {
			errs = append(errs, err)
			st.synchronize()
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, errors.Join(errs...)
}

type state struct {
	p   *Parser
	lex *lexer.Lexer

	tok    token.Token // lookahead
	tokErr error
	peeked bool
}

func (p *Parser) newState(src *lexer.Source, at token.Position, depth int) *state {
	return &state{
		p:   p,
		lex: lexer.New(src, at, p, lexer.WithDepth(depth), lexer.WithMaxDepth(p.maxDepth)),
	}
}

type raise struct{ err error }

func (s *state) raise(err error) {
	panic(raise{err: err})
}

// run calls parse and turns a raised error into a return value. The
// result is resolved for operator precedence.
func (s *state) run(parse func() ast.Node) (node ast.Node, err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case raise:
			node, err = nil, r.err
		default:
			panic(r)
		}
	}()

	return s.p.infix.Resolve(parse())
}

// stmt = let | expr ";" ;
func (s *state) stmt() ast.Node {
	if s.match(token.LET) {
		return s.let()
	}
	expr := s.expr()
	s.consume(token.SEMICOLON)
	return expr
}

// let = "let" IDENT (":" type)? "=" expr ";" ;
func (s *state) let() *ast.Let {
	s.consume(token.LET)
	name := s.consume(token.IDENT)
	var typ ast.Node
	if s.match(token.COLON) {
		s.advance()
		typ = s.typ()
	}
	s.consume(token.EQUAL)
	expr := s.expr()
	s.consume(token.SEMICOLON)

	return &ast.Let{Name: name, Type: typ, Expr: expr}
}

// type = IDENT ("::" IDENT)* ;
func (s *state) typ() ast.Node {
	var typ ast.Node = &ast.Var{Name: s.consume(token.IDENT)}
	for s.match(token.SCOPE) {
		s.advance()
		typ = &ast.Scope{Receiver: typ, Name: s.consume(token.IDENT)}
	}
	return typ
}

// expr = unary (OPERATOR unary)* ;
func (s *state) expr() ast.Node {
	expr := s.unary()
	for s.matchBinary() {
		op := s.advance()
		right := s.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// unary = ("-" | "!") unary | postfix ;
func (s *state) unary() ast.Node {
	if s.matchOp("-") || s.matchOp("!") {
		op := s.advance()
		return &ast.Unary{Op: op, Expr: s.unary()}
	}
	return s.postfix()
}

// postfix = atom (accessTail | scopeTail | callTail)* ;
// accessTail = "." IDENT ;
// scopeTail = "::" IDENT ;
func (s *state) postfix() ast.Node {
	expr := s.atom()
	for {
		switch {
		case s.match(token.DOT):
			s.advance()
			expr = &ast.Access{Receiver: expr, Name: s.consume(token.IDENT)}
		case s.match(token.SCOPE):
			s.advance()
			expr = &ast.Scope{Receiver: expr, Name: s.consume(token.IDENT)}
		case s.match(token.LEFTPAREN):
			expr = s.callTail(expr)
		default:
			return expr
		}
	}
}

// callTail = "(" ")" | "(" expr ("," expr)* ","? ")" ;
func (s *state) callTail(fun ast.Node) ast.Node {
	s.consume(token.LEFTPAREN)
	args := []ast.Node{}
	if !s.match(token.RIGHTPAREN) {
		args = append(args, s.expr())
		for s.match(token.COMMA) {
			s.advance()
			if s.match(token.RIGHTPAREN) {
				break
			}
			args = append(args, s.expr())
		}
	}
	s.consume(token.RIGHTPAREN)

	return &ast.Call{Func: fun, Args: args}
}

// atom = IDENT | literal | "(" expr ")" ;
// literal = STRING | INTEGER | FLOAT | CHAR | BOOL ;
func (s *state) atom() ast.Node {
	tok := s.peek()
	switch {
	case s.tokErr != nil:
		s.raise(s.tokErr)

		return nil
	case tok.Kind == token.IDENT:
		return &ast.Var{Name: s.advance()}
	case tok.Kind.IsLiteral():
		return &ast.Literal{Token: s.advance()}
	case tok.Kind == token.LEFTPAREN:
		s.advance()
		expr := s.expr()
		s.consume(token.RIGHTPAREN)

		return &ast.Paren{Expr: expr}
	default:
		s.raise(unexpectedToken(tok, "expression"))

		return nil
	}
}

func (s *state) peek() token.Token {
	if !s.peeked {
		s.tok, s.tokErr = s.lex.Next()
		s.peeked = true
	}
	return s.tok
}

// advance consumes the lookahead. A lexical error in the lookahead is
// raised here, when the token is actually needed.
func (s *state) advance() token.Token {
	tok := s.peek()
	if s.tokErr != nil {
		s.raise(s.tokErr)
	}
	if tok.Kind != token.EOF {
		s.peeked = false
	}
	return tok
}

func (s *state) isAtEnd() bool {
	return s.tokErr == nil && s.peek().Kind == token.EOF
}

func (s *state) match(kind token.Kind) bool {
	tok := s.peek()
	return s.tokErr == nil && tok.Kind == kind
}

func (s *state) matchOp(lexeme string) bool {
	return s.match(token.OPERATOR) && s.tok.Lexeme == lexeme
}

func (s *state) matchBinary() bool {
	return s.match(token.OPERATOR) && !s.matchOp("!")
}

func (s *state) consume(kind token.Kind) token.Token {
	if s.match(kind) {
		return s.advance()
	}
	if s.tokErr != nil {
		s.raise(s.tokErr)
	}

	s.raise(unexpectedToken(s.peek(), strings.ToLower(kind.String())))

	return s.peek()
}

// synchronize skips to just after the next semicolon.
func (s *state) synchronize() {
	for {
		tok := s.peek()
		err := s.tokErr
		s.peeked = false
		if err == nil && (tok.Kind == token.SEMICOLON || tok.Kind == token.EOF) {
			if tok.Kind == token.EOF {
				s.peeked = true
			}
			return
		}
	}
}

type UnexpectedTokenError struct {
	Expected []string
}

func (e UnexpectedTokenError) Error() string {
	return "unexpected token: expected " + strings.Join(e.Expected, ", ")
}

func unexpectedToken(t token.Token, expected ...string) error {
	return &utils.PosError{Where: t, Err: UnexpectedTokenError{Expected: expected}}
}
