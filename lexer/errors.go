package lexer

import (
	"fmt"

	"github.com/takoeight0821/quack/token"
)

// ErrorKind classifies lexical errors. Each kind is itself an error so it can
// be used as the target of errors.Is.
type ErrorKind int

const (
	InvalidEncoding ErrorKind = iota + 1
	UnterminatedString
	UnterminatedInterpolation
	InvalidEscape
	InvalidCharLiteral
	IntOverflow
	MalformedFloat
	MalformedNumber
	InterpolationTooDeeplyNested
	UnexpectedCharacter
	UnterminatedInlineGo
	MissingExprParser
)

var errorKindNames = [...]string{
	InvalidEncoding:              "invalid UTF-8 encoding",
	UnterminatedString:           "unterminated string literal",
	UnterminatedInterpolation:    "unterminated interpolation",
	InvalidEscape:                "invalid escape sequence",
	InvalidCharLiteral:           "invalid char literal",
	IntOverflow:                  "integer literal overflows int64",
	MalformedFloat:               "malformed float literal",
	MalformedNumber:              "malformed number literal",
	InterpolationTooDeeplyNested: "interpolation too deeply nested",
	UnexpectedCharacter:          "unexpected character",
	UnterminatedInlineGo:         "unterminated inline go block",
	MissingExprParser:            "no expression parser for interpolation",
}

func (k ErrorKind) String() string {
	if k <= 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

func (k ErrorKind) Error() string {
	return k.String()
}

// Error is a lexical error. Pos is where the offending literal or sequence
// starts: the opening quote of an unterminated string (after the f of a
// format string), the { of an unterminated interpolation or inline go
// block, the backslash of an invalid escape.
type Error struct {
	Kind   ErrorKind
	Pos    token.Position
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %v", e.Pos, e.Kind)
	}
	return fmt.Sprintf("%v: %v: %s", e.Pos, e.Kind, e.Detail)
}

func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

func (e *Error) Position() token.Position {
	return e.Pos
}

func errorAt(kind ErrorKind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Detail: fmt.Sprintf(format, args...)}
}
