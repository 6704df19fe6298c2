package lexer_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sebdah/goldie/v2"
	"github.com/takoeight0821/quack/ast"
	"github.com/takoeight0821/quack/lexer"
	"github.com/takoeight0821/quack/literal"
	"github.com/takoeight0821/quack/parser"
	"github.com/takoeight0821/quack/token"
	"github.com/takoeight0821/quack/utils"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Fatalf("failed to find test files: %v", err)
	}

	for _, testfile := range testfiles {
		source, err := os.ReadFile(testfile)
		if err != nil {
			t.Fatalf("failed to read %s: %v", testfile, err)
		}

		tokens, err := lexer.Lex(lexer.NewSource(testfile, string(source)), parser.NewParser())
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			continue
		}

		g := goldie.New(t)
		g.Assert(t, strings.TrimSuffix(filepath.Base(testfile), ".quack"), []byte(lexer.Dump(tokens)))
	}
}

func lexLiteral(input string, opts ...lexer.Option) (literal.Literal, error) {
	lit, _, err := lexer.LexLiteral(lexer.NewSource("test", input), token.Start, parser.NewParser(), opts...)
	return lit, err
}

func TestPlainStringRoundTrip(t *testing.T) {
	t.Parallel()

	values := []string{
		"",
		"hello",
		"tab\there",
		`quote " and \ backslash`,
		"line\nbreak\r\n",
		"{not an interpolation}",
		"nul\x00byte",
		"ünïcødé ☃",
		" ",
	}
	for _, v := range values {
		quoted := (&literal.String{Segments: []literal.Segment{&literal.Text{Value: v}}}).Quote()
		lit, err := lexLiteral(quoted)
		if err != nil {
			t.Errorf("lex %s returned error: %v", quoted, err)
			continue
		}
		s, ok := lit.(*literal.String)
		if !ok {
			t.Errorf("lex %s returned %T, want *literal.String", quoted, lit)
			continue
		}
		got, ok := s.Value()
		if !ok || got != v {
			t.Errorf("lex %s = %q, want %q", quoted, got, v)
		}
		if s.Format || len(s.Segments) != 1 {
			t.Errorf("lex %s = %v, want a single text segment", quoted, s)
		}
	}
}

func TestFormatStringSegments(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input  string
		raws   []string
		texts  []string
		pieces int
	}{
		{`f""`, nil, []string{""}, 1},
		{`f"plain"`, nil, []string{"plain"}, 1},
		{`f"{a}"`, []string{"a"}, []string{"", ""}, 3},
		{`f"{a}{b}"`, []string{"a", "b"}, []string{"", "", ""}, 5},
		{`f"x {a + 1} y {g(b, c)} z"`, []string{"a + 1", "g(b, c)"}, []string{"x ", " y ", " z"}, 5},
		{`f"esc \{a} {a}"`, []string{"a"}, []string{"esc {a} ", ""}, 3},
		{`f"{ a }"`, []string{" a "}, []string{"", ""}, 3},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			lit, err := lexLiteral(tc.input)
			if err != nil {
				t.Fatalf("lex returned error: %v", err)
			}
			s := lit.(*literal.String)
			if !s.Format {
				t.Errorf("Format = false, want true")
			}
			if len(s.Segments) != tc.pieces {
				t.Errorf("got %d segments, want %d: %v", len(s.Segments), tc.pieces, s)
			}

			var raws []string
			for _, in := range s.Interpolations() {
				raws = append(raws, in.Raw)
			}
			if diff := cmp.Diff(tc.raws, raws); diff != "" {
				t.Errorf("interpolations mismatch (-want +got):\n%s", diff)
			}

			var texts []string
			for i, seg := range s.Segments {
				// Text and Interpolated alternate, starting and ending with Text.
				text, isText := seg.(*literal.Text)
				if isText != (i%2 == 0) {
					t.Fatalf("segment %d is %T", i, seg)
				}
				if isText {
					texts = append(texts, text.Value)
				}
			}
			if diff := cmp.Diff(tc.texts, texts); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}

			if got := s.Source(); got != tc.input {
				t.Errorf("Source() = %s, want %s", got, tc.input)
			}
		})
	}
}

func TestFormatStringStructure(t *testing.T) {
	t.Parallel()

	lit, err := lexLiteral(`f"a{1}b"`)
	if err != nil {
		t.Fatalf("lex returned error: %v", err)
	}

	want := &literal.String{
		Format: true,
		Segments: []literal.Segment{
			&literal.Text{Value: "a", Raw: "a"},
			&literal.Interpolated{
				Expr: &ast.Literal{Token: token.Token{
					Kind:    token.INTEGER,
					Lexeme:  "1",
					Literal: &literal.Int{Digits: "1", Value: 1},
				}},
				Raw: "1",
			},
			&literal.Text{Value: "b", Raw: "b"},
		},
	}
	if diff := cmp.Diff(want, lit, cmpopts.IgnoreTypes(token.Position{})); diff != "" {
		t.Errorf("f-string mismatch (-want +got):\n%s", diff)
	}

	s := lit.(*literal.String)
	if got, want := s.Segments[1].Position(), (token.Position{Offset: 3, Line: 1, Column: 4}); got != want {
		t.Errorf("interpolation at %v, want %v", got, want)
	}
}

func TestNestedFormatString(t *testing.T) {
	t.Parallel()

	lit, err := lexLiteral(`f"a{f"b{f"c{1}"}"}"`)
	if err != nil {
		t.Fatalf("lex returned error: %v", err)
	}

	depth := 0
	for lit != nil {
		s, ok := lit.(*literal.String)
		if !ok {
			break
		}
		depth++
		ins := s.Interpolations()
		if len(ins) != 1 {
			t.Fatalf("level %d has %d interpolations, want 1", depth, len(ins))
		}
		inner, ok := ins[0].Expr.(*ast.Literal)
		if !ok {
			t.Fatalf("level %d embeds %T, want *ast.Literal", depth, ins[0].Expr)
		}
		lit = inner.Value()
	}
	if depth != 3 {
		t.Errorf("nesting depth = %d, want 3", depth)
	}
	if i, ok := lit.(*literal.Int); !ok || i.Value != 1 {
		t.Errorf("innermost literal = %v, want (int 1)", lit)
	}
}

func TestNestedFormatStringText(t *testing.T) {
	t.Parallel()

	lit, err := lexLiteral(`f"outer {f"inner {1}"} end"`)
	if err != nil {
		t.Fatalf("lex returned error: %v", err)
	}
	want := `(fstring (text "outer ") (interp (fstring (text "inner ") (interp (int 1)) (text ""))) (text " end"))`
	if diff := cmp.Diff(want, lit.String()); diff != "" {
		t.Errorf("literal mismatch (-want +got):\n%s", diff)
	}
}

func TestCommentInsideInterpolation(t *testing.T) {
	t.Parallel()

	// The // is two operators here, so the expression is malformed instead
	// of running on to the next line.
	_, err := lexLiteral("f\"x {a //}\"\n}\"")
	var perr *utils.PosError
	if !errors.As(err, &perr) {
		t.Fatalf("lex returned %v, want a parse error", err)
	}
	if got := perr.Position().String(); got != "1:9" {
		t.Errorf("error at %s, want 1:9", got)
	}

	tokens, err := lexer.Lex(lexer.NewSource("test", "f\"{a}\" // {b}\nc"), parser.NewParser())
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	var kinds []token.Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	if diff := cmp.Diff([]token.Kind{token.STRING, token.IDENT, token.EOF}, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func nest(n int) string {
	if n == 0 {
		return "1"
	}
	return `f"{` + nest(n-1) + `}"`
}

func TestNestingDepth(t *testing.T) {
	t.Parallel()

	if _, err := lexLiteral(nest(lexer.DefaultMaxDepth)); err != nil {
		t.Errorf("nesting %d levels returned error: %v", lexer.DefaultMaxDepth, err)
	}
	_, err := lexLiteral(nest(lexer.DefaultMaxDepth + 1))
	if !errors.Is(err, lexer.InterpolationTooDeeplyNested) {
		t.Errorf("nesting %d levels returned %v, want %v", lexer.DefaultMaxDepth+1, err, lexer.InterpolationTooDeeplyNested)
	}

	p := parser.NewParser()
	p.SetMaxDepth(3)
	src := lexer.NewSource("test", nest(4))
	_, _, err = lexer.LexLiteral(src, token.Start, p, lexer.WithMaxDepth(3))
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) || lexErr.Kind != lexer.InterpolationTooDeeplyNested {
		t.Fatalf("got %v, want %v", err, lexer.InterpolationTooDeeplyNested)
	}
	// the fourth {
	if want := (token.Position{Offset: 11, Line: 1, Column: 12}); lexErr.Pos != want {
		t.Errorf("error at %v, want %v", lexErr.Pos, want)
	}
}

func TestScalars(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input string
		want  literal.Literal
	}{
		{"true", &literal.Bool{Value: true}},
		{"false", &literal.Bool{Value: false}},
		{"0", &literal.Int{Digits: "0", Value: 0}},
		{"007", &literal.Int{Digits: "007", Value: 7}},
		{"9223372036854775807", &literal.Int{Digits: "9223372036854775807", Value: 9223372036854775807}},
		{"3.14", &literal.Float{Raw: "3.14", Value: 3.14}},
		{"0.50", &literal.Float{Raw: "0.50", Value: 0.5}},
		{"'A'", &literal.Char{Raw: "'A'", Value: 'A'}},
		{`'\n'`, &literal.Char{Raw: `'\n'`, Value: '\n'}},
		{`'\''`, &literal.Char{Raw: `'\''`, Value: '\''}},
		{`'"'`, &literal.Char{Raw: `'"'`, Value: '"'}},
		{`'\u{1F986}'`, &literal.Char{Raw: `'\u{1F986}'`, Value: '🦆'}},
		{"'é'", &literal.Char{Raw: "'é'", Value: 'é'}},
	}

	for _, tc := range testcases {
		lit, err := lexLiteral(tc.input)
		if err != nil {
			t.Errorf("lex %s returned error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, lit, cmpopts.IgnoreTypes(token.Position{})); diff != "" {
			t.Errorf("lex %s mismatch (-want +got):\n%s", tc.input, diff)
		}
		if got := lit.Source(); got != tc.input {
			t.Errorf("Source() = %s, want %s", got, tc.input)
		}
	}
}

func TestNoLiteral(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"foo", "trueish", "f", "fals", "x1", "(", "+", ""} {
		src := lexer.NewSource("test", input)
		lit, end, err := lexer.LexLiteral(src, token.Start, parser.NewParser())
		if lit != nil || err != nil {
			t.Errorf("LexLiteral(%q) = %v, %v, want no literal", input, lit, err)
		}
		if end != token.Start {
			t.Errorf("LexLiteral(%q) moved to %v", input, end)
		}
	}
}

func TestLexLiteralMidSource(t *testing.T) {
	t.Parallel()

	src := lexer.NewSource("test", "let x = 42;")
	at := token.Position{Offset: 8, Line: 1, Column: 9}
	lit, end, err := lexer.LexLiteral(src, at, parser.NewParser())
	if err != nil {
		t.Fatalf("LexLiteral returned error: %v", err)
	}
	if diff := cmp.Diff(&literal.Int{Pos: at, Digits: "42", Value: 42}, lit); diff != "" {
		t.Errorf("literal mismatch (-want +got):\n%s", diff)
	}
	if want := (token.Position{Offset: 10, Line: 1, Column: 11}); end != want {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input string
		kind  lexer.ErrorKind
		at    string
	}{
		{`"unterminated`, lexer.UnterminatedString, "1:1"},
		{`f"unterminated`, lexer.UnterminatedString, "1:2"},
		{"\"ends in escape \\", lexer.UnterminatedString, "1:1"},
		{`f"broken {1"`, lexer.UnterminatedInterpolation, "1:10"},
		{`f"{1 2}"`, lexer.UnterminatedInterpolation, "1:3"},
		{`f"{"`, lexer.UnterminatedString, "1:4"},
		{`"bad \q"`, lexer.InvalidEscape, "1:6"},
		{`"\u{110000}"`, lexer.InvalidEscape, "1:2"},
		{`"\u{D800}"`, lexer.InvalidEscape, "1:2"},
		{`"\u{}"`, lexer.InvalidEscape, "1:2"},
		{`"\u{1234567}"`, lexer.InvalidEscape, "1:2"},
		{`"\u0041"`, lexer.InvalidEscape, "1:2"},
		{`'\{'`, lexer.InvalidEscape, "1:2"},
		{"\"abc\xff\"", lexer.InvalidEncoding, "1:5"},
		{"''", lexer.InvalidCharLiteral, "1:1"},
		{"'AB'", lexer.InvalidCharLiteral, "1:1"},
		{"'A", lexer.InvalidCharLiteral, "1:1"},
		{"'", lexer.InvalidCharLiteral, "1:1"},
		{"9223372036854775808", lexer.IntOverflow, "1:1"},
		{"99999999999999999999999", lexer.IntOverflow, "1:1"},
		{"3.", lexer.MalformedFloat, "1:1"},
		{".14", lexer.MalformedFloat, "1:1"},
		{"1.2.3", lexer.MalformedFloat, "1:1"},
		{"1_000", lexer.MalformedNumber, "1:2"},
		{"0x1f", lexer.MalformedNumber, "1:2"},
		{"1e9", lexer.MalformedNumber, "1:2"},
		{"1.5e3", lexer.MalformedNumber, "1:4"},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			lit, err := lexLiteral(tc.input)
			if err == nil {
				t.Fatalf("lex returned %v, want %v", lit, tc.kind)
			}
			if !errors.Is(err, tc.kind) {
				t.Errorf("lex returned %v, want %v", err, tc.kind)
			}
			var lexErr *lexer.Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("lex returned %T, want *lexer.Error", err)
			}
			if got := lexErr.Pos.String(); got != tc.at {
				t.Errorf("error at %s, want %s", got, tc.at)
			}
		})
	}
}

func TestEmbeddedParseError(t *testing.T) {
	t.Parallel()

	_, err := lexLiteral(`f"{}"`)
	var perr *utils.PosError
	if !errors.As(err, &perr) {
		t.Fatalf("lex returned %v, want a parse error", err)
	}
	if got := perr.Position().String(); got != "1:4" {
		t.Errorf("error at %s, want 1:4", got)
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex(lexer.NewSource("test", `a.b::c(x, -1) == "s" -> [y]; // comment`), parser.NewParser())
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	var kinds []token.Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{
		token.IDENT, token.DOT, token.IDENT, token.SCOPE, token.IDENT,
		token.LEFTPAREN, token.IDENT, token.COMMA, token.OPERATOR, token.INTEGER, token.RIGHTPAREN,
		token.OPERATOR, token.STRING, token.ARROW,
		token.LEFTBRACKET, token.IDENT, token.RIGHTBRACKET, token.SEMICOLON,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex(lexer.NewSource("test", "let fn if else while return match as type use go letter"), nil)
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	want := []token.Kind{
		token.LET, token.FN, token.IF, token.ELSE, token.WHILE, token.RETURN,
		token.MATCH, token.AS, token.TYPE, token.USE, token.GO, token.IDENT, token.EOF,
	}
	var kinds []token.Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineGo(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input string
		body  string
	}{
		{"go { {} }", " {} "},
		{"go { xx }", " xx "},
		{"go {}", ""},
		{"go {{}{}{}}", "{}{}{}"},
		{"go\n{\n\tx := 1\n}", "\n\tx := 1\n"},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			tokens, err := lexer.Lex(lexer.NewSource("test", tc.input), nil)
			if err != nil {
				t.Fatalf("Lex returned error: %v", err)
			}
			if len(tokens) < 2 || tokens[0].Kind != token.INLINEGO {
				t.Fatalf("Lex returned %v, want one INLINEGO token", tokens)
			}
			if body, ok := tokens[0].Literal.(string); !ok || body != tc.body {
				t.Errorf("body = %q, want %q", tokens[0].Literal, tc.body)
			}
			if !strings.HasPrefix(tc.input, tokens[0].Lexeme) || tokens[0].Pos != token.Start {
				t.Errorf("token = %v, want it to start the input", tokens[0])
			}
		})
	}
}

func TestInlineGoKeyword(t *testing.T) {
	t.Parallel()

	for input, want := range map[string][]token.Kind{
		"go{}":      {token.GO, token.LEFTBRACE, token.RIGHTBRACE, token.EOF},
		"go x":      {token.GO, token.IDENT, token.EOF},
		"go":        {token.GO, token.EOF},
		"gopher {}": {token.IDENT, token.LEFTBRACE, token.RIGHTBRACE, token.EOF},
		"go {} x":   {token.INLINEGO, token.IDENT, token.EOF},
	} {
		tokens, err := lexer.Lex(lexer.NewSource("test", input), nil)
		if err != nil {
			t.Errorf("Lex(%q) returned error: %v", input, err)
			continue
		}
		var kinds []token.Kind
		for _, tok := range tokens {
			kinds = append(kinds, tok.Kind)
		}
		if diff := cmp.Diff(want, kinds); diff != "" {
			t.Errorf("Lex(%q) kinds mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestUnterminatedInlineGo(t *testing.T) {
	t.Parallel()

	_, err := lexer.Lex(lexer.NewSource("test", "go { {}"), nil)
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) || lexErr.Kind != lexer.UnterminatedInlineGo {
		t.Fatalf("Lex returned %v, want %v", err, lexer.UnterminatedInlineGo)
	}
	if got := lexErr.Pos.String(); got != "1:4" {
		t.Errorf("error at %s, want 1:4", got)
	}
}

func TestNextAfterError(t *testing.T) {
	t.Parallel()

	l := lexer.New(lexer.NewSource("test", "@ x ☃ y"), token.Start, nil)

	_, err := l.Next()
	if !errors.Is(err, lexer.UnexpectedCharacter) {
		t.Fatalf("Next returned %v, want %v", err, lexer.UnexpectedCharacter)
	}
	tok, err := l.Next()
	if err != nil || tok.Kind != token.IDENT || tok.Lexeme != "x" {
		t.Fatalf("Next returned %v, %v, want IDENT x", tok, err)
	}
	_, err = l.Next()
	if !errors.Is(err, lexer.UnexpectedCharacter) {
		t.Fatalf("Next returned %v, want %v", err, lexer.UnexpectedCharacter)
	}
	tok, err = l.Next()
	if err != nil || tok.Lexeme != "y" || tok.Pos.Column != 7 {
		t.Errorf("Next returned %v, %v, want IDENT y at 1:7", tok, err)
	}
}

func TestInterpolationWithoutParser(t *testing.T) {
	t.Parallel()

	src := lexer.NewSource("test", `f"{x}"`)
	_, _, err := lexer.LexLiteral(src, token.Start, nil)
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) || lexErr.Kind != lexer.MissingExprParser {
		t.Fatalf("LexLiteral without a parser returned %v, want %v", err, lexer.MissingExprParser)
	}
	if got := lexErr.Pos.String(); got != "1:3" {
		t.Errorf("error at %s, want 1:3", got)
	}
	// Plain strings never need one.
	if _, _, err := lexer.LexLiteral(lexer.NewSource("test", `"{x}"`), token.Start, nil); err != nil {
		t.Errorf("LexLiteral returned error: %v", err)
	}
}
