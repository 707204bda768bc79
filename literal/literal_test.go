// Copyright © 2024 The ELPS authors

package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{`'abc'`, "abc"},
		{`'a\'b'`, "a'b"},
		{`'a\\b'`, `a\b`},
		{`'a\nb'`, `a\nb`},
		{`"a\nb"`, "a\nb"},
		{`"a\"b"`, `a"b`},
		{`"\$x"`, "$x"},
		{`"\101\x42\u{43}"`, "ABC"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"\q"`, `\q`},
		{`"\xZ"`, `\xZ`},
		{`"\e"`, "\x1b"},
		{`b'x'`, "x"},
		{`""`, ""},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			out, err := Unquote(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.out, out)
		})
	}
}

func TestUnquoteErrors(t *testing.T) {
	for _, in := range []string{`'abc`, `x`, `"\u{zz}"`, `"\u{41"`, `"\u{110000}"`} {
		_, err := Unquote(in)
		assert.Error(t, err, in)
	}
}

func TestUnescapeVariants(t *testing.T) {
	s, err := UnescapeHeredoc(`a\"b\tc`)
	require.NoError(t, err)
	assert.Equal(t, "a\\\"b\tc", s)

	s, err = UnescapeBacktick("a\\`b\\\"")
	require.NoError(t, err)
	assert.Equal(t, "a`b\\\"", s)

	s, err = UnescapeDouble(`trailing\`)
	require.NoError(t, err)
	assert.Equal(t, `trailing\`, s)
}

func TestEvaluateNumber(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"0", "0"},
		{"42", "42"},
		{"1_000", "1000"},
		{"0x1F", "31"},
		{"0X1f", "31"},
		{"0b101", "5"},
		{"017", "15"},
		{"0o17", "15"},
		{"1.5", "1.5"},
		{".5", "0.5"},
		{"1e3", "1000.0"},
		{"1.0", "1.0"},
		{"9223372036854775807", "9223372036854775807"},
		{"9223372036854775808", "9.223372036854776e+18"},
		{"0xFFFFFFFFFFFFFFFF", "1.8446744073709552e+19"},
		{"1e400", "INF"},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			out, err := EvaluateNumber(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.out, out)
		})
	}
}

func TestEvaluateNumberErrors(t *testing.T) {
	for _, in := range []string{"", "0xZ", "09"} {
		_, err := EvaluateNumber(in)
		assert.Error(t, err, in)
	}
}
