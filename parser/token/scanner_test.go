// Copyright © 2018 The ELPS authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScannerEmit(t *testing.T) {
	s := NewScanner("test", []byte("ab\ncd"))
	assert.True(t, s.ScanRune())
	assert.True(t, s.ScanRune())
	tok := s.EmitToken(STRING)
	assert.Equal(t, &Token{Type: STRING, Text: "ab", Line: 1, Pos: 0}, tok)

	assert.True(t, s.AcceptRune('\n'))
	s.Ignore()
	assert.Equal(t, 2, s.AcceptSeq(func(c rune) bool { return c != 'x' }))
	tok = s.EmitToken(STRING)
	assert.Equal(t, &Token{Type: STRING, Text: "cd", Line: 2, Pos: 3}, tok)
	assert.True(t, s.EOF())
	assert.False(t, s.ScanRune())
	_, ok := s.Peek()
	assert.False(t, ok)
}

func TestScannerPrefix(t *testing.T) {
	s := NewScanner("test", []byte("<?PHP echo"))
	assert.False(t, s.HasPrefix("<?php"))
	assert.True(t, s.HasPrefixFold("<?php"))
	assert.True(t, s.AcceptStringFold("<?php"))
	assert.Equal(t, byte(' '), s.PeekByte(0))
	assert.Equal(t, byte(0), s.PeekByte(100))
	assert.Equal(t, " echo", s.Rest())
	assert.False(t, s.AcceptString("echo"))
	assert.Equal(t, 1, s.AcceptSeqAny(" \t"))
	assert.True(t, s.AcceptString("echo"))
	assert.Equal(t, "<?PHP echo", s.Text())
}

func TestScannerLocation(t *testing.T) {
	s := NewScanner("test.php", []byte("<?php\n  $a"))
	s.Skip(8)
	s.Ignore()
	assert.False(t, s.AtLineStart())
	s.Skip(2)
	loc := s.LocStart()
	assert.Equal(t, &Location{File: "test.php", Line: 2, Col: 3, Pos: 8}, loc)
	assert.Equal(t, "test.php:2:3", loc.String())
}

func TestScannerMultibyte(t *testing.T) {
	s := NewScanner("test", []byte("é$"))
	assert.True(t, s.ScanRune())
	assert.Equal(t, 'é', s.Rune())
	assert.True(t, s.AcceptAny("$"))
	assert.Equal(t, "é$", s.EmitToken(STRING).Text)
}
