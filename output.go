package main

import (
	"fmt"
	"io"

	"github.com/takoeight0821/quack/ast"
	"github.com/takoeight0821/quack/lexer"
	"github.com/takoeight0821/quack/literal"
	"github.com/takoeight0821/quack/token"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

type tokenEntry struct {
	At      string          `yaml:"at"`
	Kind    string          `yaml:"kind"`
	Lexeme  string          `yaml:"lexeme"`
	Literal literal.Literal `yaml:"literal,omitempty"`
	Body    string          `yaml:"body,omitempty"`
}

func writeTokens(w io.Writer, format string, tokens []token.Token) error {
	if format != formatYAML {
		_, err := io.WriteString(w, lexer.Dump(tokens))
		return err
	}

	entries := make([]tokenEntry, 0, len(tokens))
	for _, tok := range tokens {
		e := tokenEntry{At: tok.Pos.String(), Kind: tok.Kind.String(), Lexeme: tok.Lexeme}
		switch lit := tok.Literal.(type) {
		case literal.Literal:
			e.Literal = lit
		case string:
			e.Body = lit
		}
		entries = append(entries, e)
	}
	return encodeYAML(w, entries)
}

// treeNode is the YAML shape of a syntax tree node.
type treeNode struct {
	Node     string          `yaml:"node"`
	At       string          `yaml:"at"`
	Name     string          `yaml:"name,omitempty"`
	Op       string          `yaml:"op,omitempty"`
	Literal  literal.Literal `yaml:"literal,omitempty"`
	Type     *treeNode       `yaml:"type,omitempty"`
	Children []*treeNode     `yaml:"children,omitempty"`
}

type treeRepr struct{}

var _ ast.Repr[*treeNode] = treeRepr{}

func (treeRepr) Var(name token.Token) *treeNode {
	return &treeNode{Node: "var", At: name.Pos.String(), Name: name.Lexeme}
}

func (treeRepr) Literal(value token.Token) *treeNode {
	lit, _ := value.Literal.(literal.Literal)
	return &treeNode{Node: "literal", At: value.Pos.String(), Literal: lit}
}

func (treeRepr) Paren(expr *treeNode) *treeNode {
	return &treeNode{Node: "paren", At: expr.At, Children: []*treeNode{expr}}
}

func (treeRepr) Access(receiver *treeNode, name token.Token) *treeNode {
	return &treeNode{Node: "access", At: name.Pos.String(), Name: name.Lexeme, Children: []*treeNode{receiver}}
}

func (treeRepr) Scope(receiver *treeNode, name token.Token) *treeNode {
	return &treeNode{Node: "scope", At: name.Pos.String(), Name: name.Lexeme, Children: []*treeNode{receiver}}
}

func (treeRepr) Call(callee *treeNode, args []*treeNode) *treeNode {
	return &treeNode{Node: "call", At: callee.At, Children: append([]*treeNode{callee}, args...)}
}

func (treeRepr) Unary(op token.Token, expr *treeNode) *treeNode {
	return &treeNode{Node: "unary", At: op.Pos.String(), Op: op.Lexeme, Children: []*treeNode{expr}}
}

func (treeRepr) Binary(left *treeNode, op token.Token, right *treeNode) *treeNode {
	return &treeNode{Node: "binary", At: op.Pos.String(), Op: op.Lexeme, Children: []*treeNode{left, right}}
}

func (treeRepr) Let(name token.Token, typ **treeNode, expr *treeNode) *treeNode {
	n := &treeNode{Node: "let", At: name.Pos.String(), Name: name.Lexeme, Children: []*treeNode{expr}}
	if typ != nil {
		n.Type = *typ
	}
	return n
}

func writeNodes(w io.Writer, format string, nodes []ast.Node) error {
	if format != formatYAML {
		for _, n := range nodes {
			if _, err := fmt.Fprintln(w, n); err != nil {
				return err
			}
		}
		return nil
	}

	trees := make([]*treeNode, 0, len(nodes))
	for _, n := range nodes {
		trees = append(trees, ast.Fold(n, treeRepr{}))
	}
	return encodeYAML(w, trees)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
