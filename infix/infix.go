// Package infix fixes operator precedence after parsing.
//
// The parser reads every binary operator as left-associative with the same
// precedence. Resolve re-associates those chains using a fixity table.
package infix

import (
	"fmt"

	"github.com/takoeight0821/quack/ast"
	"github.com/takoeight0821/quack/token"
)

type Assoc int

const (
	Left Assoc = iota
	Right
	None
)

type Fixity struct {
	Prec  int
	Assoc Assoc
}

// DefaultFixities is the operator table of the language. Higher binds tighter.
var DefaultFixities = map[string]Fixity{
	"||": {1, Left},
	"&&": {2, Left},
	"==": {3, None},
	"!=": {3, None},
	"<":  {3, None},
	"<=": {3, None},
	">":  {3, None},
	">=": {3, None},
	"|":  {4, Left},
	"&":  {5, Left},
	"+":  {6, Left},
	"-":  {6, Left},
	"*":  {7, Left},
	"/":  {7, Left},
	"%":  {7, Left},
}

type Resolver struct {
	fixities map[string]Fixity
}

func NewResolver() *Resolver {
	return &Resolver{fixities: DefaultFixities}
}

// MixError is returned when two operators of the same precedence cannot be
// combined without parentheses, as in a == b == c.
type MixError struct {
	Left, Right token.Token
}

func (e *MixError) Error() string {
	return fmt.Sprintf("%v: cannot mix %s and %s. need parentheses", e.Right.Pos, e.Left.Lexeme, e.Right.Lexeme)
}

func (e *MixError) Position() token.Position {
	return e.Right.Pos
}

// Resolve rewrites every binary chain in n. Parenthesized expressions are
// kept as they are, so resolving a resolved tree changes nothing.
func (r *Resolver) Resolve(n ast.Node) (ast.Node, error) {
	return ast.Traverse(n, func(n ast.Node, err error) (ast.Node, error) {
		if err != nil {
			return n, err
		}
		if b, ok := n.(*ast.Binary); ok {
			resolved, err := r.mkBinary(b.Op, b.Left, b.Right)
			if err != nil {
				return n, err
			}
			return resolved, nil
		}
		return n, nil
	})
}

func (r Resolver) fixity(op token.Token) Fixity {
	if f, ok := r.fixities[op.Lexeme]; ok {
		return f
	}
	return Fixity{Prec: 0, Assoc: Left}
}

func (r Resolver) mkBinary(op token.Token, left, right ast.Node) (ast.Node, error) {
	if left, ok := left.(*ast.Binary); ok {
		// (left.Left left.Op left.Right) op right
		toRight, err := r.assocRight(left.Op, op)
		if err != nil {
			return nil, err
		}
		if toRight {
			// left.Left left.Op (left.Right op right)
			newRight, err := r.mkBinary(op, left.Right, right)
			if err != nil {
				return nil, err
			}
			return &ast.Binary{Left: left.Left, Op: left.Op, Right: newRight}, nil
		}
	}
	return &ast.Binary{Left: left, Op: op, Right: right}, nil
}

func (r Resolver) assocRight(op1, op2 token.Token) (bool, error) {
	f1 := r.fixity(op1)
	f2 := r.fixity(op2)
	if f1.Prec > f2.Prec {
		return false, nil
	} else if f1.Prec < f2.Prec {
		return true, nil
	}
	// same precedence
	if f1.Assoc != f2.Assoc || f1.Assoc == None {
		return false, &MixError{Left: op1, Right: op2}
	}
	return f1.Assoc == Right, nil
}
