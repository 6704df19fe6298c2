package lexer

import (
	"errors"
	"strconv"
	"unicode"

	"github.com/takoeight0821/quack/literal"
)

// scalar recognizes a bool, int, float or char literal at the cursor. It
// returns nil without consuming anything if none starts there.
func scalar(s *Scanner) (literal.Literal, error) {
	c, ok := s.Peek()
	if !ok {
		return nil, s.Err()
	}

	switch {
	case c == 't' || c == 'f':
		return boolean(s), nil
	case isDigit(c):
		return number(s)
	case c == '.':
		if next, ok := s.PeekN(1); ok && isDigit(next) {
			return nil, errorAt(MalformedFloat, s.Pos(), "missing digits before the decimal point")
		}
		return nil, nil
	case c == '\'':
		return char(s)
	}
	return nil, nil
}

func boolean(s *Scanner) literal.Literal {
	mark := s.Checkpoint()
	start := s.Pos()
	for {
		c, ok := s.Peek()
		if !ok || !isIdentPart(c) {
			break
		}
		s.Advance()
	}

	switch s.slice(start) {
	case "true":
		return &literal.Bool{Pos: start, Value: true}
	case "false":
		return &literal.Bool{Pos: start, Value: false}
	}
	s.Restore(mark)
	return nil
}

func number(s *Scanner) (literal.Literal, error) {
	start := s.Pos()
	digits(s)

	if c, ok := s.Peek(); ok && c == '.' {
		if next, ok := s.PeekN(1); !ok || !isDigit(next) {
			return nil, errorAt(MalformedFloat, start, "missing digits after the decimal point in %s.", s.slice(start))
		}
		s.Advance()
		digits(s)
		raw := s.slice(start)
		if err := numberEnd(s, raw); err != nil {
			return nil, err
		}
		if c, ok := s.Peek(); ok && c == '.' {
			return nil, errorAt(MalformedFloat, start, "unexpected . after %s", raw)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errorAt(MalformedFloat, start, "%s is out of range", raw)
		}
		return &literal.Float{Pos: start, Raw: raw, Value: v}, nil
	}

	raw := s.slice(start)
	if err := numberEnd(s, raw); err != nil {
		return nil, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, errorAt(IntOverflow, start, "%s", raw)
		}
		return nil, errorAt(MalformedNumber, start, "%s", raw)
	}
	return &literal.Int{Pos: start, Digits: raw, Value: v}, nil
}

func digits(s *Scanner) {
	for {
		c, ok := s.Peek()
		if !ok || !isDigit(c) {
			return
		}
		s.Advance()
	}
}

// numberEnd rejects a number that runs straight into an identifier, as in
// 1_000, 0x1f or 1e9. Separators, bases and exponents are not part of the
// literal syntax.
func numberEnd(s *Scanner, raw string) error {
	if c, ok := s.Peek(); ok && isIdentPart(c) {
		return errorAt(MalformedNumber, s.Pos(), "unexpected %q after %s", c, raw)
	}
	return nil
}

func char(s *Scanner) (literal.Literal, error) {
	_, start, _ := s.Advance() // '\''

	c, at, ok := s.Advance()
	if !ok {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, errorAt(InvalidCharLiteral, start, "unterminated char literal")
	}

	var value rune
	switch c {
	case '\'':
		return nil, errorAt(InvalidCharLiteral, start, "empty char literal")
	case '\\':
		r, err := resolveEscape(s, at, charQuoting)
		if errors.Is(err, errEndOfSource) {
			return nil, errorAt(InvalidCharLiteral, start, "unterminated char literal")
		}
		if err != nil {
			return nil, err
		}
		value = r
	default:
		value = c
	}

	c, ok = s.Peek()
	if !ok {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, errorAt(InvalidCharLiteral, start, "unterminated char literal")
	}
	if c != '\'' {
		return nil, errorAt(InvalidCharLiteral, start, "more than one character in char literal")
	}
	s.Advance()

	return &literal.Char{Pos: start, Raw: s.slice(start), Value: value}, nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c)
}
