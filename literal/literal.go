// Copyright © 2024 The ELPS authors

// Package literal evaluates PHP string and number literals without
// executing them.  Evaluated values let two token streams be compared by
// meaning rather than spelling, e.g. 'a' and "a", or 0x1F and 31.
package literal

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Unquote returns the value of a single- or double-quoted string literal,
// including its quotes.  A "b" prefix is accepted.
func Unquote(text string) (string, error) {
	s := text
	if len(s) > 0 && (s[0] == 'b' || s[0] == 'B') {
		s = s[1:]
	}
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return "", errors.Errorf("malformed string literal %q", text)
	}
	inner := s[1 : len(s)-1]
	switch s[0] {
	case '\'':
		return unescapeSingle(inner), nil
	case '"':
		return UnescapeDouble(inner)
	}
	return "", errors.Errorf("malformed string literal %q", text)
}

func unescapeSingle(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '\'') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// UnescapeDouble interprets the escape sequences of a double-quoted
// string body.
func UnescapeDouble(s string) (string, error) {
	return unescape(s, '"')
}

// UnescapeHeredoc interprets the escape sequences of a heredoc body.  A
// double quote cannot be escaped in a heredoc, so `\"` is kept.
func UnescapeHeredoc(s string) (string, error) {
	return unescape(s, 0)
}

// UnescapeBacktick interprets the escape sequences of a shell command body.
func UnescapeBacktick(s string) (string, error) {
	return unescape(s, '`')
}

var simpleEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'v':  '\v',
	'e':  0x1b,
	'f':  '\f',
	'\\': '\\',
	'$':  '$',
}

func unescape(s string, quote byte) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		if r, ok := simpleEscapes[next]; ok {
			b.WriteByte(r)
			i++
			continue
		}
		switch {
		case quote != 0 && next == quote:
			b.WriteByte(quote)
			i++
		case isOctal(next):
			j := i + 1
			for j < len(s) && j < i+4 && isOctal(s[j]) {
				j++
			}
			n, _ := strconv.ParseUint(s[i+1:j], 8, 16)
			b.WriteByte(byte(n))
			i = j - 1
		case next == 'x' && i+2 < len(s) && isHex(s[i+2]):
			j := i + 2
			for j < len(s) && j < i+4 && isHex(s[j]) {
				j++
			}
			n, _ := strconv.ParseUint(s[i+2:j], 16, 8)
			b.WriteByte(byte(n))
			i = j - 1
		case next == 'u' && i+2 < len(s) && s[i+2] == '{':
			end := strings.IndexByte(s[i+3:], '}')
			if end < 0 {
				return "", errors.Errorf("invalid UTF-8 codepoint escape sequence at offset %d", i)
			}
			digits := s[i+3 : i+3+end]
			n, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || n > utf8.MaxRune {
				return "", errors.Errorf("invalid UTF-8 codepoint escape sequence %q", `\u{`+digits+`}`)
			}
			b.WriteRune(rune(n))
			i += 3 + end
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isOctal(c byte) bool { return '0' <= c && c <= '7' }

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// EvaluateNumber returns a canonical decimal spelling of an integer or
// floating point literal.  Integers too large for int64 are evaluated as
// floats, as PHP does.
func EvaluateNumber(text string) (string, error) {
	s := strings.ReplaceAll(text, "_", "")
	if s == "" {
		return "", errors.New("empty number literal")
	}
	base, digits := 10, s
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, s[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, s[2:]
	case strings.HasPrefix(lower, "0o"):
		base, digits = 8, s[2:]
	case len(s) > 1 && s[0] == '0' && !strings.ContainsAny(lower, ".e"):
		base, digits = 8, s[1:]
	case strings.ContainsAny(lower, ".e"):
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return "", errors.Wrapf(err, "invalid number literal %q", text)
		}
		return formatFloat(f), nil
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	if !errors.Is(err, strconv.ErrRange) {
		return "", errors.Wrapf(err, "invalid number literal %q", text)
	}
	i, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return "", errors.Errorf("invalid number literal %q", text)
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	return formatFloat(f), nil
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) {
		return "INF"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
