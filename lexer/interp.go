package lexer

import (
	"errors"
	"strings"

	"github.com/takoeight0821/quack/literal"
	"github.com/takoeight0821/quack/token"
)

// ExprParser parses one expression of the embedding language. ParseExpr
// starts at the given position and returns the expression together with
// the position of the first token it did not consume. depth is the
// interpolation nesting depth of the expression; any lexer the parser
// creates for its own tokens must be created with that depth.
//
// Implementations must be reentrant: an expression may itself contain
// format strings, which call back into the parser.
type ExprParser interface {
	ParseExpr(src *Source, at token.Position, depth int) (literal.Expr, token.Position, error)
}

// interpolation scans string and format-string literals.
type interpolation struct {
	s        *Scanner
	parser   ExprParser
	depth    int
	maxDepth int
}

// scan reads a string literal. The cursor is on the opening quote; start
// is the position of the literal, which is the f prefix for format
// strings. The format flag decides whether { starts an interpolation.
func (in *interpolation) scan(start token.Position, format bool) (*literal.String, error) {
	s := in.s
	_, quote, _ := s.Advance() // '"'

	var (
		segments  []literal.Segment
		text      strings.Builder
		textStart = s.Pos()
	)
	flush := func() {
		segments = append(segments, &literal.Text{Pos: textStart, Value: text.String(), Raw: s.slice(textStart)})
		text.Reset()
	}

	for {
		c, ok := s.Peek()
		if !ok {
			if err := s.Err(); err != nil {
				return nil, err
			}
			return nil, errorAt(UnterminatedString, quote, "")
		}

		switch {
		case c == '"':
			flush()
			s.Advance()
			return &literal.String{Pos: start, Format: format, Segments: segments}, nil

		case c == '\\':
			_, at, _ := s.Advance()
			r, err := resolveEscape(s, at, stringQuoting)
			if errors.Is(err, errEndOfSource) {
				return nil, errorAt(UnterminatedString, quote, "")
			}
			if err != nil {
				return nil, err
			}
			text.WriteRune(r)

		case c == '{' && format:
			flush()
			seg, err := in.embedded()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			textStart = s.Pos()

		default:
			s.Advance()
			text.WriteRune(c)
		}
	}
}

// embedded hands the expression after { to the parser and expects the
// matching } where the parser stopped.
func (in *interpolation) embedded() (*literal.Interpolated, error) {
	s := in.s
	_, open, _ := s.Advance() // '{'

	depth := in.depth + 1
	if depth > in.maxDepth {
		return nil, errorAt(InterpolationTooDeeplyNested, open, "more than %d levels", in.maxDepth)
	}
	if in.parser == nil {
		return nil, errorAt(MissingExprParser, open, "")
	}

	inner := s.Pos()
	expr, end, err := in.parser.ParseExpr(s.src, inner, depth)
	if err != nil {
		return nil, err
	}
	s.Seek(end)

	if c, ok := s.Peek(); !ok || c != '}' {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, errorAt(UnterminatedInterpolation, open, "expected } after %q", s.src.Slice(inner, end))
	}
	raw := s.slice(inner)
	s.Advance()

	return &literal.Interpolated{Pos: open, Expr: expr, Raw: raw}, nil
}
