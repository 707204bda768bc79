// Copyright © 2024 The ELPS authors

package token

import (
	"strings"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from an in-memory source
// buffer.  PHP lexing needs unbounded lookahead (heredoc labels, cast
// spellings) so the whole source is held at once.
type Scanner struct {
	file  string
	src   string
	start int // start of the current token
	next  int // offset of the next unscanned byte
	line  int // line number at next
	sline int // line number at start
	c     rune
}

// NewScanner initializes and returns a new Scanner over src.
func NewScanner(file string, src []byte) *Scanner {
	return &Scanner{
		file:  file,
		src:   string(src),
		line:  1,
		sline: 1,
	}
}

// File returns the name of the source stream.
func (s *Scanner) File() string {
	return s.file
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type: typ,
		Text: s.Text(),
		Line: s.sline,
		Pos:  s.start,
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.sline = s.line
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.next]
}

// Rune returns the most recently scanned rune.
func (s *Scanner) Rune() rune {
	return s.c
}

// EOF returns true when every byte of the source has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.src)
}

// Peek returns the next rune to be scanned, if there is one.
func (s *Scanner) Peek() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[s.next:])
	return c, true
}

// PeekByte returns the byte n bytes past the next unscanned byte, or 0 if
// that position is beyond the end of the source.
func (s *Scanner) PeekByte(n int) byte {
	if s.next+n >= len(s.src) {
		return 0
	}
	return s.src[s.next+n]
}

// HasPrefix reports whether the unscanned input starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.next:], prefix)
}

// HasPrefixFold is like HasPrefix but ignores ASCII case.
func (s *Scanner) HasPrefixFold(prefix string) bool {
	rest := s.src[s.next:]
	return len(rest) >= len(prefix) && strings.EqualFold(rest[:len(prefix)], prefix)
}

// AtLineStart reports whether the next unscanned byte begins a line.
func (s *Scanner) AtLineStart() bool {
	return s.next == 0 || s.src[s.next-1] == '\n'
}

// Rest returns the unscanned input.
func (s *Scanner) Rest() string {
	return s.src[s.next:]
}

// ScanRune scans the next rune into the current token.  It returns false at
// the end of the source.
func (s *Scanner) ScanRune() bool {
	if s.EOF() {
		return false
	}
	c, n := utf8.DecodeRuneInString(s.src[s.next:])
	s.c = c
	s.next += n
	if c == '\n' {
		s.line++
	}
	return true
}

// Skip scans n bytes into the current token.
func (s *Scanner) Skip(n int) {
	for i := 0; i < n && !s.EOF(); i++ {
		if s.src[s.next] == '\n' {
			s.line++
		}
		s.c = rune(s.src[s.next])
		s.next++
	}
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune()
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqAny(charset string) int {
	var n int
	for s.AcceptAny(charset) {
		n++
	}
	return n
}

// AcceptString scans literal if the unscanned input starts with it.
func (s *Scanner) AcceptString(literal string) bool {
	if !s.HasPrefix(literal) {
		return false
	}
	s.Skip(len(literal))
	return true
}

// AcceptStringFold is like AcceptString but ignores ASCII case.
func (s *Scanner) AcceptStringFold(literal string) bool {
	if !s.HasPrefixFold(literal) {
		return false
	}
	s.Skip(len(literal))
	return true
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	col := 1 + s.start - (strings.LastIndexByte(s.src[:s.start], '\n') + 1)
	return &Location{
		File: s.file,
		Line: s.sline,
		Col:  col,
		Pos:  s.start,
	}
}
