package lexer

import (
	"unicode/utf8"

	"github.com/takoeight0821/quack/token"
)

// Scanner is a cursor over the codepoints of a Source.
type Scanner struct {
	src *Source
	pos token.Position
}

// Mark is a saved cursor returned by Checkpoint.
type Mark struct {
	pos token.Position
}

func NewScanner(src *Source, at token.Position) *Scanner {
	if !at.IsValid() {
		at = token.Start
	}
	return &Scanner{src: src, pos: at}
}

func (s *Scanner) Source() *Source {
	return s.src
}

func (s *Scanner) Pos() token.Position {
	return s.pos
}

func (s *Scanner) AtEnd() bool {
	return s.pos.Offset >= len(s.src.Text)
}

func (s *Scanner) decode(offset int) (rune, int, bool) {
	if offset >= len(s.src.Text) {
		return 0, 0, false
	}
	r, size := utf8.DecodeRuneInString(s.src.Text[offset:])
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, false
	}
	return r, size, true
}

// Peek returns the codepoint at the cursor. It reports false at the end of
// the source and on invalid UTF-8; Err tells the two apart.
func (s *Scanner) Peek() (rune, bool) {
	r, _, ok := s.decode(s.pos.Offset)
	return r, ok
}

// PeekN returns the codepoint n positions after the cursor.
func (s *Scanner) PeekN(n int) (rune, bool) {
	offset := s.pos.Offset
	for j := 0; j < n; j++ {
		_, size, ok := s.decode(offset)
		if !ok {
			return 0, false
		}
		offset += size
	}
	r, _, ok := s.decode(offset)
	return r, ok
}

// Advance consumes the codepoint at the cursor and returns it with its
// position.
func (s *Scanner) Advance() (rune, token.Position, bool) {
	r, size, ok := s.decode(s.pos.Offset)
	if !ok {
		return 0, s.pos, false
	}
	at := s.pos
	s.pos.Offset += size
	if r == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
	return r, at, true
}

// Err returns an InvalidEncoding error if the bytes at the cursor are not
// valid UTF-8, and nil otherwise.
func (s *Scanner) Err() error {
	if s.AtEnd() {
		return nil
	}
	if _, _, ok := s.decode(s.pos.Offset); ok {
		return nil
	}
	return errorAt(InvalidEncoding, s.pos, "byte 0x%02x at offset %d", s.src.Text[s.pos.Offset], s.pos.Offset)
}

func (s *Scanner) Checkpoint() Mark {
	return Mark{pos: s.pos}
}

func (s *Scanner) Restore(m Mark) {
	s.pos = m.pos
}

// Seek moves the cursor to a position obtained from another scanner over
// the same source. The cursor never moves backwards through Seek.
func (s *Scanner) Seek(pos token.Position) {
	if pos.Offset < s.pos.Offset {
		panic("lexer: Seek before cursor") // If this happens, there's a bug.
	}
	s.pos = pos
}

// skip steps over one codepoint, or one byte if the input does not decode,
// so that a caller skipping past an error always makes progress.
func (s *Scanner) skip() {
	if s.AtEnd() {
		return
	}
	if _, _, ok := s.Advance(); ok {
		return
	}
	s.pos.Offset++
	s.pos.Column++
}

func (s *Scanner) slice(from token.Position) string {
	return s.src.Text[from.Offset:s.pos.Offset]
}
