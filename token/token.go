package token

import "fmt"

type Kind int

const (
	EOF Kind = iota

	// Single-character tokens.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	LEFTBRACKET
	RIGHTBRACKET
	COLON
	COMMA
	DOT
	SEMICOLON

	// Literals and identifiers.
	IDENT
	OPERATOR
	STRING
	INTEGER
	FLOAT
	CHAR
	BOOL
	INLINEGO

	// Keywords.
	ARROW
	AS
	BREAK
	CONTINUE
	DUCK
	ELSE
	EQUAL
	FN
	GO
	IF
	LET
	MATCH
	MODULE
	RETURN
	SCOPE
	STRUCT
	TYPE
	USE
	WHILE
)

var kindNames = [...]string{
	EOF:          "EOF",
	LEFTPAREN:    "LEFTPAREN",
	RIGHTPAREN:   "RIGHTPAREN",
	LEFTBRACE:    "LEFTBRACE",
	RIGHTBRACE:   "RIGHTBRACE",
	LEFTBRACKET:  "LEFTBRACKET",
	RIGHTBRACKET: "RIGHTBRACKET",
	COLON:        "COLON",
	COMMA:        "COMMA",
	DOT:          "DOT",
	SEMICOLON:    "SEMICOLON",
	IDENT:        "IDENT",
	OPERATOR:     "OPERATOR",
	STRING:       "STRING",
	INTEGER:      "INTEGER",
	FLOAT:        "FLOAT",
	CHAR:         "CHAR",
	BOOL:         "BOOL",
	INLINEGO:     "INLINEGO",
	ARROW:        "ARROW",
	AS:           "AS",
	BREAK:        "BREAK",
	CONTINUE:     "CONTINUE",
	DUCK:         "DUCK",
	ELSE:         "ELSE",
	EQUAL:        "EQUAL",
	FN:           "FN",
	GO:           "GO",
	IF:           "IF",
	LET:          "LET",
	MATCH:        "MATCH",
	MODULE:       "MODULE",
	RETURN:       "RETURN",
	SCOPE:        "SCOPE",
	STRUCT:       "STRUCT",
	TYPE:         "TYPE",
	USE:          "USE",
	WHILE:        "WHILE",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsLiteral reports whether tokens of kind k carry a literal.Literal in Token.Literal.
func (k Kind) IsLiteral() bool {
	switch k {
	case STRING, INTEGER, FLOAT, CHAR, BOOL:
		return true
	default:
		return false
	}
}

// Position is a location in a source unit. Offset is a 0-based byte offset,
// Line and Column are 1-based and Column counts codepoints.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Start is the position of the first byte of a source unit.
var Start = Position{Offset: 0, Line: 1, Column: 1}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p was produced by a scanner.
func (p Position) IsValid() bool {
	return p.Line > 0
}

type Token struct {
	Kind    Kind
	Lexeme  string
	Pos     Position
	Literal any
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %v, %v}", t.Kind, t.Lexeme, t.Pos, t.Literal)
}
