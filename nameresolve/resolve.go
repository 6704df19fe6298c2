// Package nameresolve binds every variable reference to the let statement,
// or predefined name, it refers to. References inside format string
// interpolations are resolved like any other expression.
package nameresolve

import (
	"errors"
	"fmt"

	"github.com/takoeight0821/quack/ast"
	"github.com/takoeight0821/quack/token"
)

// Resolver gives each binding a unique number and stores it in the
// Literal field of the name token, both at the binding and at every
// reference to it. A later let shadows an earlier one.
type Resolver struct {
	supply     int
	env        *env
	predefined []string
}

func NewResolver(predefined ...string) *Resolver {
	return &Resolver{
		supply:     0,
		env:        newEnv(nil),
		predefined: predefined,
	}
}

type env struct {
	parent *env
	table  map[string]int
}

func newEnv(parent *env) *env {
	return &env{
		parent: parent,
		table:  make(map[string]int),
	}
}

func (r *Resolver) Name() string {
	return "nameresolve.Resolver"
}

// Init defines the predefined names in a scope of their own, so that the
// program can shadow them.
func (r *Resolver) Init([]ast.Node) error {
	r.env = newEnv(nil)
	for _, name := range r.predefined {
		r.env.table[name] = r.supply
		r.supply++
	}
	r.env = newEnv(r.env)
	return nil
}

func (r *Resolver) Run(program []ast.Node) ([]ast.Node, error) {
	var errs []error
	for _, node := range program {
		if err := r.solve(node); err != nil {
			errs = append(errs, err)
		}
	}
	return program, errors.Join(errs...)
}

func (r *Resolver) define(name *token.Token) {
	r.env.table[name.Lexeme] = r.supply
	name.Literal = r.supply
	r.supply++
}

type NotDefinedError struct {
	Name token.Token
}

func (e NotDefinedError) Error() string {
	return fmt.Sprintf("%v: %s is not defined", e.Name.Pos, e.Name.Lexeme)
}

func (e NotDefinedError) Position() token.Position {
	return e.Name.Pos
}

func (e *env) lookup(name token.Token) (int, error) {
	if uniq, ok := e.table[name.Lexeme]; ok {
		return uniq, nil
	}

	if e.parent != nil {
		return e.parent.lookup(name)
	}

	return 0, NotDefinedError{Name: name}
}

// solve resolves all variables in the node and reports every undefined one.
func (r *Resolver) solve(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Var:
		uniq, err := r.env.lookup(n.Name)
		if err != nil {
			return err
		}
		n.Name.Literal = uniq
		return nil
	case *ast.Scope:
		// Paths name modules and types, which let does not bind.
		return nil
	case *ast.Access:
		return r.solve(n.Receiver)
	case *ast.Let:
		// The type is a path, and the name is not visible in its own
		// initializer.
		err := r.solve(n.Expr)
		r.define(&n.Name)
		return err
	default:
		_, err := node.Plate(nil, func(child ast.Node, err error) (ast.Node, error) {
			return child, errors.Join(err, r.solve(child))
		})
		return err
	}
}
