package literal

import (
	"fmt"
)

// node is the YAML shape of a literal or segment. Fields are ordered the
// way they are emitted.
type node struct {
	Kind     string `yaml:"kind"`
	At       string `yaml:"at"`
	Value    any    `yaml:"value,omitempty"`
	Source   string `yaml:"source,omitempty"`
	Segments []any  `yaml:"segments,omitempty"`
	Expr     string `yaml:"expr,omitempty"`
}

func (s *String) MarshalYAML() (any, error) {
	kind := "string"
	if s.Format {
		kind = "fstring"
	}
	segs := make([]any, len(s.Segments))
	for i, seg := range s.Segments {
		segs[i] = seg
	}
	n := node{Kind: kind, At: s.Pos.String(), Source: s.Source(), Segments: segs}
	if v, ok := s.Value(); ok && !s.Format {
		n.Value = v
	}
	return n, nil
}

func (t *Text) MarshalYAML() (any, error) {
	return node{Kind: "text", At: t.Pos.String(), Value: t.Value}, nil
}

func (i *Interpolated) MarshalYAML() (any, error) {
	return node{Kind: "interp", At: i.Pos.String(), Source: i.Raw, Expr: i.Expr.String()}, nil
}

func (b *Bool) MarshalYAML() (any, error) {
	return node{Kind: "bool", At: b.Pos.String(), Value: b.Value, Source: b.Source()}, nil
}

func (i *Int) MarshalYAML() (any, error) {
	return node{Kind: "int", At: i.Pos.String(), Value: i.Value, Source: i.Digits}, nil
}

func (f *Float) MarshalYAML() (any, error) {
	return node{Kind: "float", At: f.Pos.String(), Value: f.Value, Source: f.Raw}, nil
}

func (c *Char) MarshalYAML() (any, error) {
	return node{Kind: "char", At: c.Pos.String(), Value: fmt.Sprintf("%c", c.Value), Source: c.Raw}, nil
}
