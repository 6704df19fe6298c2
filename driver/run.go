package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/takoeight0821/quack/ast"
	"github.com/takoeight0821/quack/lexer"
	"github.com/takoeight0821/quack/literal"
	"github.com/takoeight0821/quack/parser"
	"github.com/takoeight0821/quack/token"
	"golang.org/x/sync/errgroup"
)

// Pass is a program-wide stage run after parsing.
type Pass interface {
	Name() string
	Init([]ast.Node) error
	Run([]ast.Node) ([]ast.Node, error)
}

// Runner lexes and parses source units, then runs its passes over them. A
// Runner holds no per-unit state, so one Runner may process several units
// at once; every unit gets fresh passes.
type Runner struct {
	maxDepth int
	logger   *slog.Logger
	passes   []func() Pass
}

func NewRunner() *Runner {
	return &Runner{maxDepth: lexer.DefaultMaxDepth, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// SetMaxDepth bounds how deeply format strings may nest.
func (r *Runner) SetMaxDepth(n int) {
	if n > 0 {
		r.maxDepth = n
	}
}

func (r *Runner) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// AddPass adds a pass to the end of the pass list. newPass is called once
// per source unit.
func (r *Runner) AddPass(newPass func() Pass) {
	r.passes = append(r.passes, newPass)
}

// Run executes passes in order.
// If an error occurs, it stops the execution and returns the current program.
func (r *Runner) Run(program []ast.Node) ([]ast.Node, error) {
	for _, newPass := range r.passes {
		pass := newPass()
		err := pass.Init(program)
		if err != nil {
			return program, fmt.Errorf("init: %w", err)
		}
		program, err = pass.Run(program)
		if err != nil {
			return program, fmt.Errorf("run: %w", err)
		}
		r.logger.Debug("pass done", "pass", pass.Name())
	}

	return program, nil
}

func (r *Runner) parser() *parser.Parser {
	p := parser.NewParser()
	p.SetMaxDepth(r.maxDepth)
	return p
}

// Tokens lexes a whole source unit.
func (r *Runner) Tokens(src *lexer.Source) ([]token.Token, error) {
	tokens, err := lexer.Lex(src, r.parser(), lexer.WithMaxDepth(r.maxDepth))
	if err != nil {
		return tokens, fmt.Errorf("lex: %w", err)
	}
	r.logger.Debug("lexed", "source", src.Name, "tokens", len(tokens))
	return tokens, nil
}

// RunSource parses the source as a program of statements and executes
// passes in order. If parsing fails and the source is a single expression,
// the passes run on that expression instead.
func (r *Runner) RunSource(src *lexer.Source) ([]ast.Node, error) {
	p := r.parser()

	program, errProgram := p.ParseProgram(src)
	if errProgram == nil {
		r.logger.Debug("parsed", "source", src.Name, "statements", len(program), "literals", len(Literals(program)))
		return r.Run(program)
	}

	expr, errExpr := p.ParseExprString(src)
	if errExpr == nil {
		r.logger.Debug("parsed expression", "source", src.Name, "literals", len(Literals([]ast.Node{expr})))
		return r.Run([]ast.Node{expr})
	}

	return nil, fmt.Errorf("parse: %w", errProgram)
}

// Unit is the result of running one file.
type Unit struct {
	Source *lexer.Source
	Nodes  []ast.Node
	Err    error
}

// RunFiles reads and parses every path concurrently, one goroutine per
// file. Parse errors are reported per unit; the returned error is only set
// when a file cannot be read or ctx is done.
func (r *Runner) RunFiles(ctx context.Context, paths []string) ([]Unit, error) {
	units := make([]Unit, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			src := lexer.NewSource(path, string(b))
			nodes, err := r.RunSource(src)
			units[i] = Unit{Source: src, Nodes: nodes, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

// Errors joins the errors of every failed unit, each prefixed with its
// source name.
func Errors(units []Unit) error {
	var errs []error
	for _, u := range units {
		if u.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.Source.Name, u.Err))
		}
	}
	return errors.Join(errs...)
}

// Literals collects every literal in the program, including the ones
// embedded in format strings, in depth-first order.
func Literals(program []ast.Node) []literal.Literal {
	var lits []literal.Literal
	for _, node := range program {
		for _, n := range ast.Universe(node) {
			if l, ok := n.(*ast.Literal); ok {
				lits = append(lits, l.Value())
			}
		}
	}
	return lits
}
