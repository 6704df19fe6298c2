package lexer

import "github.com/takoeight0821/quack/token"

// Source is an immutable source unit. Scanners over the same Source never
// share a cursor.
type Source struct {
	Name string
	Text string
}

func NewSource(name, text string) *Source {
	return &Source{Name: name, Text: text}
}

// Slice returns the source text between two positions.
func (s *Source) Slice(from, to token.Position) string {
	return s.Text[from.Offset:to.Offset]
}
