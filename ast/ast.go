package ast

import (
	"fmt"
	"strings"

	"github.com/takoeight0821/quack/literal"
	"github.com/takoeight0821/quack/token"
)

// AST

type Node interface {
	fmt.Stringer
	Base() token.Token
	// Plate applies the given function to each child node.
	// If f returns an error, f also must return the original argument n.
	// It is similar to Visitor pattern.
	// FYI: https://hackage.haskell.org/package/lens-5.2.3/docs/Control-Lens-Plated.html
	Plate(error, func(Node, error) (Node, error)) (Node, error)
}

type Var struct {
	Name token.Token
}

func (v Var) String() string {
	return parenthesize("var", text(v.Name.Lexeme)).String()
}

func (v *Var) Base() token.Token {
	return v.Name
}

func (v *Var) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return v, err
}

var _ Node = &Var{}

// Literal wraps a literal token. Token.Literal holds the literal.Literal.
type Literal struct {
	token.Token
}

func (l Literal) Value() literal.Literal {
	lit, _ := l.Token.Literal.(literal.Literal)
	return lit
}

func (l Literal) String() string {
	if lit := l.Value(); lit != nil {
		return lit.String()
	}
	return parenthesize("literal", text(l.Lexeme)).String()
}

func (l *Literal) Base() token.Token {
	return l.Token
}

// Plate visits the expressions embedded in a format string.
func (l *Literal) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	s, ok := l.Value().(*literal.String)
	if !ok {
		return l, err
	}
	for _, in := range s.Interpolations() {
		if n, ok := in.Expr.(Node); ok {
			in.Expr, err = f(n, err)
		}
	}
	return l, err
}

var _ Node = &Literal{}

type Paren struct {
	Expr Node
}

func (p Paren) String() string {
	return parenthesize("paren", p.Expr).String()
}

func (p *Paren) Base() token.Token {
	return p.Expr.Base()
}

func (p *Paren) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	p.Expr, err = f(p.Expr, err)
	return p, err
}

var _ Node = &Paren{}

// Access is a field access receiver.name.
type Access struct {
	Receiver Node
	Name     token.Token
}

func (a Access) String() string {
	return parenthesize("access", a.Receiver, text(a.Name.Lexeme)).String()
}

func (a *Access) Base() token.Token {
	return a.Name
}

func (a *Access) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Receiver, err = f(a.Receiver, err)
	return a, err
}

var _ Node = &Access{}

// Scope is a path step module::name.
type Scope struct {
	Receiver Node
	Name     token.Token
}

func (s Scope) String() string {
	return parenthesize("scope", s.Receiver, text(s.Name.Lexeme)).String()
}

func (s *Scope) Base() token.Token {
	return s.Name
}

func (s *Scope) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	s.Receiver, err = f(s.Receiver, err)
	return s, err
}

var _ Node = &Scope{}

type Call struct {
	Func Node
	Args []Node
}

func (c Call) String() string {
	return parenthesize("call", c.Func, concat(c.Args)).String()
}

func (c *Call) Base() token.Token {
	return c.Func.Base()
}

func (c *Call) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	c.Func, err = f(c.Func, err)
	for i, arg := range c.Args {
		c.Args[i], err = f(arg, err)
	}
	return c, err
}

var _ Node = &Call{}

type Unary struct {
	Op   token.Token
	Expr Node
}

func (u Unary) String() string {
	return parenthesize("unary", text(u.Op.Lexeme), u.Expr).String()
}

func (u *Unary) Base() token.Token {
	return u.Op
}

func (u *Unary) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	u.Expr, err = f(u.Expr, err)
	return u, err
}

var _ Node = &Unary{}

type Binary struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (b Binary) String() string {
	return parenthesize("binary", b.Left, text(b.Op.Lexeme), b.Right).String()
}

func (b *Binary) Base() token.Token {
	return b.Op
}

func (b *Binary) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	b.Left, err = f(b.Left, err)
	b.Right, err = f(b.Right, err)
	return b, err
}

var _ Node = &Binary{}

// Let is the statement `let name: Type = expr;`. Type may be nil.
type Let struct {
	Name token.Token
	Type Node
	Expr Node
}

func (l Let) String() string {
	if l.Type == nil {
		return parenthesize("let", text(l.Name.Lexeme), l.Expr).String()
	}
	return parenthesize("let", text(l.Name.Lexeme), l.Type, l.Expr).String()
}

func (l *Let) Base() token.Token {
	return l.Name
}

func (l *Let) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	if l.Type != nil {
		l.Type, err = f(l.Type, err)
	}
	l.Expr, err = f(l.Expr, err)
	return l, err
}

var _ Node = &Let{}

type text string

func (t text) String() string {
	return string(t)
}

// parenthesize takes a head string and a variadic number of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is parenthesized and separated by a space.
// If the head string is not empty, it is added at the beginning of the string.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		// ignore empty string
		// e.g. concat({}) == ""
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}

// Traverse the [Node] in depth-first order.
// f is called for each node.
// If f returns an error, f also must return the original argument n.
// Children, including expressions embedded in format strings, are visited before n.
func Traverse(n Node, f func(Node, error) (Node, error)) (Node, error) {
	n, err := n.Plate(nil, func(n Node, err error) (Node, error) {
		m, childErr := Traverse(n, f)
		if err != nil {
			return m, err
		}
		return m, childErr
	})
	return f(n, err)
}

func Children(n Node) []Node {
	var children []Node
	_, err := n.Plate(nil, func(n Node, _ error) (Node, error) {
		children = append(children, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return children
}

func Universe(n Node) []Node {
	var nodes []Node
	_, err := Traverse(n, func(n Node, _ error) (Node, error) {
		nodes = append(nodes, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return nodes
}
