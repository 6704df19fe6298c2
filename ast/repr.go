package ast

import (
	"log"

	"github.com/takoeight0821/quack/token"
)

// Repr is an interpretation of the syntax tree. Fold evaluates a tree in it
// bottom-up.
type Repr[T any] interface {
	Var(name token.Token) T
	Literal(value token.Token) T
	Paren(expr T) T
	Access(receiver T, name token.Token) T
	Scope(receiver T, name token.Token) T
	Call(callee T, args []T) T
	Unary(op token.Token, expr T) T
	Binary(left T, op token.Token, right T) T
	// Let gets a nil-valued typ when the statement has no type annotation.
	Let(name token.Token, typ *T, expr T) T
}

func Fold[T any](n Node, r Repr[T]) T {
	switch n := n.(type) {
	case *Var:
		return r.Var(n.Name)
	case *Literal:
		return r.Literal(n.Token)
	case *Paren:
		return r.Paren(Fold(n.Expr, r))
	case *Access:
		return r.Access(Fold(n.Receiver, r), n.Name)
	case *Scope:
		return r.Scope(Fold(n.Receiver, r), n.Name)
	case *Call:
		args := make([]T, len(n.Args))
		for i, arg := range n.Args {
			args[i] = Fold(arg, r)
		}
		return r.Call(Fold(n.Func, r), args)
	case *Unary:
		return r.Unary(n.Op, Fold(n.Expr, r))
	case *Binary:
		return r.Binary(Fold(n.Left, r), n.Op, Fold(n.Right, r))
	case *Let:
		var typ *T
		if n.Type != nil {
			t := Fold(n.Type, r)
			typ = &t
		}
		return r.Let(n.Name, typ, Fold(n.Expr, r))
	default:
		log.Panicf("unexpected node: %v", n)
		panic("unreachable")
	}
}
