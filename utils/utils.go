package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/takoeight0821/quack/token"
	"gopkg.in/yaml.v3"
)

// PosError attaches a source position to an error.
type PosError struct {
	Where token.Token
	Err   error
}

func (e *PosError) Error() string {
	if e.Where.Kind == token.EOF {
		return fmt.Sprintf("%v: at end: %s", e.Where.Pos, e.Err.Error())
	}
	return fmt.Sprintf("%v: at `%s`, %s", e.Where.Pos, e.Where.Lexeme, e.Err.Error())
}

func (e *PosError) Unwrap() error {
	return e.Err
}

func (e *PosError) Position() token.Position {
	return e.Where.Pos
}

// Positioned is implemented by every error that knows where it happened.
type Positioned interface {
	error
	Position() token.Position
}

// Snippet renders err with the source line it points at and a caret under
// the offending column. Joined errors are rendered one after another.
// Errors without a position are returned as their message.
func Snippet(err error, name, src string) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var parts []string
		for _, e := range joined.Unwrap() {
			parts = append(parts, Snippet(e, name, src))
		}
		return strings.Join(parts, "\n")
	}

	var perr Positioned
	if !errors.As(err, &perr) {
		return err.Error()
	}
	pos := perr.Position()

	lines := strings.Split(src, "\n")
	line := max(pos.Line, 1)
	line = min(line, len(lines))
	col := max(pos.Column, 1)

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "error in %s: %v\n", name, err)
	} else {
		fmt.Fprintf(&b, "error: %v\n", err)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", caretPad(lines[line-1], col))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// caretPad keeps tabs so the caret lines up under the column in a terminal.
func caretPad(line string, col int) string {
	var b strings.Builder
	i := 1
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		i++
	}
	for ; i < col; i++ {
		b.WriteByte(' ')
	}
	return b.String()
}

type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

func ReadTestData(s []byte) ([]TestData, error) {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		return nil, fmt.Errorf("read test data: %w", err)
	}

	// Remove disabled test cases.
	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data, nil
}

// FindSourceFiles returns every .quack file under root.
func FindSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".quack" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find source files: %w", err)
	}
	return files, nil
}
