// Package literal defines the typed values produced by the lexer for
// string, f-string, bool, int, float and char literals.
package literal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/takoeight0821/quack/token"
)

// Expr is an expression embedded in an f-string. Its structure belongs to
// the expression parser; literals only record it.
type Expr interface {
	fmt.Stringer
}

// Literal is one of *String, *Bool, *Int, *Float or *Char.
type Literal interface {
	fmt.Stringer
	// Position is where the literal starts in the source, including any
	// prefix such as the f of an f-string.
	Position() token.Position
	// Source reproduces the literal's original source text.
	Source() string
	Kind() token.Kind
	literal()
}

// Segment is one of *Text or *Interpolated.
type Segment interface {
	fmt.Stringer
	Position() token.Position
	segment()
}

// String is a plain or format string. A plain string has exactly one Text
// segment. A format string alternates Text and Interpolated segments and
// always begins and ends with a (possibly empty) Text.
type String struct {
	Pos      token.Position
	Format   bool
	Segments []Segment
}

func (s *String) Position() token.Position { return s.Pos }
func (s *String) Kind() token.Kind         { return token.STRING }
func (*String) literal()                   {}

func (s *String) String() string {
	head := "string"
	if s.Format {
		head = "fstring"
	}
	elems := make([]string, 0, len(s.Segments)+1)
	elems = append(elems, head)
	for _, seg := range s.Segments {
		elems = append(elems, seg.String())
	}
	return "(" + strings.Join(elems, " ") + ")"
}

func (s *String) Source() string {
	var b strings.Builder
	if s.Format {
		b.WriteByte('f')
	}
	b.WriteByte('"')
	for _, seg := range s.Segments {
		switch seg := seg.(type) {
		case *Text:
			b.WriteString(seg.Raw)
		case *Interpolated:
			b.WriteByte('{')
			b.WriteString(seg.Raw)
			b.WriteByte('}')
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Value returns the resolved text of a plain string. It reports false for
// format strings that contain an interpolation.
func (s *String) Value() (string, bool) {
	var b strings.Builder
	for _, seg := range s.Segments {
		text, ok := seg.(*Text)
		if !ok {
			return "", false
		}
		b.WriteString(text.Value)
	}
	return b.String(), true
}

// Interpolations returns the embedded expressions in source order.
func (s *String) Interpolations() []*Interpolated {
	var out []*Interpolated
	for _, seg := range s.Segments {
		if in, ok := seg.(*Interpolated); ok {
			out = append(out, in)
		}
	}
	return out
}

// Quote returns a canonical spelling of s: text is re-escaped and
// interpolations keep their original source.
func (s *String) Quote() string {
	var b strings.Builder
	if s.Format {
		b.WriteByte('f')
	}
	b.WriteByte('"')
	for _, seg := range s.Segments {
		switch seg := seg.(type) {
		case *Text:
			b.WriteString(escape(seg.Value, '"', s.Format))
		case *Interpolated:
			b.WriteByte('{')
			b.WriteString(seg.Raw)
			b.WriteByte('}')
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Text is a run of escape-resolved characters. Raw is the same run as it
// appears in the source, escapes included.
type Text struct {
	Pos   token.Position
	Value string
	Raw   string
}

func (t *Text) Position() token.Position { return t.Pos }
func (*Text) segment()                   {}

func (t *Text) String() string {
	return "(text " + strconv.Quote(t.Value) + ")"
}

// Interpolated is an expression between { and } in a format string. Pos is
// the position of the opening marker, Raw the source between the markers.
type Interpolated struct {
	Pos  token.Position
	Expr Expr
	Raw  string
}

func (i *Interpolated) Position() token.Position { return i.Pos }
func (*Interpolated) segment()                   {}

func (i *Interpolated) String() string {
	return "(interp " + i.Expr.String() + ")"
}

type Bool struct {
	Pos   token.Position
	Value bool
}

func (b *Bool) Position() token.Position { return b.Pos }
func (b *Bool) Kind() token.Kind         { return token.BOOL }
func (*Bool) literal()                   {}
func (b *Bool) String() string           { return fmt.Sprintf("(bool %t)", b.Value) }
func (b *Bool) Source() string           { return strconv.FormatBool(b.Value) }

// Int keeps the digits as written so that leading zeros survive.
type Int struct {
	Pos    token.Position
	Digits string
	Value  int64
}

func (i *Int) Position() token.Position { return i.Pos }
func (i *Int) Kind() token.Kind         { return token.INTEGER }
func (*Int) literal()                   {}
func (i *Int) String() string           { return fmt.Sprintf("(int %d)", i.Value) }
func (i *Int) Source() string           { return i.Digits }

type Float struct {
	Pos   token.Position
	Raw   string
	Value float64
}

func (f *Float) Position() token.Position { return f.Pos }
func (f *Float) Kind() token.Kind         { return token.FLOAT }
func (*Float) literal()                   {}
func (f *Float) String() string {
	return "(float " + strconv.FormatFloat(f.Value, 'g', -1, 64) + ")"
}
func (f *Float) Source() string { return f.Raw }

// Char holds a single Unicode scalar value. Raw includes the quotes.
type Char struct {
	Pos   token.Position
	Raw   string
	Value rune
}

func (c *Char) Position() token.Position { return c.Pos }
func (c *Char) Kind() token.Kind         { return token.CHAR }
func (*Char) literal()                   {}
func (c *Char) String() string           { return "(char " + QuoteChar(c.Value) + ")" }
func (c *Char) Source() string           { return c.Raw }

// QuoteChar returns the canonical spelling of r as a char literal.
func QuoteChar(r rune) string {
	return "'" + escape(string(r), '\'', false) + "'"
}

var (
	_ Literal = &String{}
	_ Literal = &Bool{}
	_ Literal = &Int{}
	_ Literal = &Float{}
	_ Literal = &Char{}
	_ Segment = &Text{}
	_ Segment = &Interpolated{}
)

// escape is the inverse of the lexer's escape resolution for the given
// delimiter. In format strings { is escaped as well.
func escape(s string, quote rune, format bool) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == quote:
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == 0:
			b.WriteString(`\0`)
		case r == '{' && format:
			b.WriteString(`\{`)
		case !strconv.IsPrint(r):
			fmt.Fprintf(&b, `\u{%x}`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
