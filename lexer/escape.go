package lexer

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/takoeight0821/quack/token"
)

// quoting describes the literal an escape sequence appears in.
type quoting struct {
	quote rune // delimiter that may be escaped
	brace bool // whether \{ is accepted
}

var (
	stringQuoting = quoting{quote: '"', brace: true}
	charQuoting   = quoting{quote: '\''}
)

// errEndOfSource is returned by resolveEscape when the source ends inside
// the sequence. Callers turn it into the error of the enclosing literal.
var errEndOfSource = errors.New("end of source in escape sequence")

// resolveEscape consumes an escape sequence. The cursor is right after the
// backslash, which is at pos.
func resolveEscape(s *Scanner, pos token.Position, q quoting) (rune, error) {
	c, _, ok := s.Advance()
	if !ok {
		if err := s.Err(); err != nil {
			return 0, err
		}
		return 0, errEndOfSource
	}

	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\':
		return '\\', nil
	case q.quote:
		return c, nil
	case '{':
		if q.brace {
			return '{', nil
		}
	case 'u':
		return resolveUnicode(s, pos)
	}

	return 0, errorAt(InvalidEscape, pos, "%s", s.slice(pos))
}

// resolveUnicode reads the {H...} part of a \u{H...} sequence.
func resolveUnicode(s *Scanner, pos token.Position) (rune, error) {
	c, ok := s.Peek()
	if !ok {
		if err := s.Err(); err != nil {
			return 0, err
		}
		return 0, errEndOfSource
	}
	if c != '{' {
		return 0, errorAt(InvalidEscape, pos, "%s: expected {", s.slice(pos))
	}
	s.Advance()

	start := s.Pos()
	for {
		c, ok := s.Peek()
		if !ok {
			if err := s.Err(); err != nil {
				return 0, err
			}
			return 0, errEndOfSource
		}
		if c == '}' {
			break
		}
		if !isHex(c) || s.Pos().Offset-start.Offset >= 6 {
			return 0, errorAt(InvalidEscape, pos, "%s: expected 1 to 6 hex digits", s.slice(pos))
		}
		s.Advance()
	}

	hex := s.slice(start)
	s.Advance() // '}'
	if hex == "" {
		return 0, errorAt(InvalidEscape, pos, "%s: expected 1 to 6 hex digits", s.slice(pos))
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, errorAt(InvalidEscape, pos, "%s: not a Unicode scalar value", s.slice(pos))
	}
	return rune(v), nil
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
