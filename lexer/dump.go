package lexer

import (
	"fmt"
	"strings"

	"github.com/takoeight0821/quack/token"
)

// Dump renders tokens one per line as "line:col KIND lexeme", followed by
// the literal's structure for literal tokens and the quoted body of inline
// go blocks.
func Dump(tokens []token.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&b, "%v %v %q", tok.Pos, tok.Kind, tok.Lexeme)
		switch lit := tok.Literal.(type) {
		case nil:
		case string:
			fmt.Fprintf(&b, " %q", lit)
		default:
			fmt.Fprintf(&b, " %v", lit)
		}
		b.WriteString("\n")
	}
	return b.String()
}
