// Copyright © 2024 The ELPS authors

package lexer

import (
	"strings"
	"testing"

	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testToken struct {
	typ  token.Type
	text string
}

func tok(typ token.Type, text string) testToken {
	return testToken{typ, text}
}

func lexCode(t *testing.T, input string, opts ...Option) []testToken {
	t.Helper()
	tokens, err := Tokenize("test", []byte(input), opts...)
	require.NoError(t, err)
	var out []testToken
	var b strings.Builder
	for _, tk := range tokens {
		b.WriteString(tk.Text)
		if tk.Type == token.WHITESPACE {
			continue
		}
		out = append(out, testToken{tk.Type, tk.Text})
	}
	assert.Equal(t, input, b.String(), "token text does not reproduce the source")
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []testToken
	}{
		{"", nil},
		{"<html>", []testToken{tok(token.INLINE_HTML, "<html>")}},
		{"<?php\n$a = 1;", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.VARIABLE, "$a"),
			tok(token.EQUAL, "="),
			tok(token.LNUMBER, "1"),
			tok(token.SEMICOLON, ";"),
		}},
		{"<p><?= $x ?>\n</p>", []testToken{
			tok(token.INLINE_HTML, "<p>"),
			tok(token.OPEN_TAG_WITH_ECHO, "<?="),
			tok(token.VARIABLE, "$x"),
			tok(token.CLOSE_TAG, "?>\n"),
			tok(token.INLINE_HTML, "</p>"),
		}},
		{"<?php $a?->b ?? $c::D <=> 0x1F ** 1.5e3;", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.VARIABLE, "$a"),
			tok(token.NULLSAFE_OBJECT_OPERATOR, "?->"),
			tok(token.STRING, "b"),
			tok(token.COALESCE, "??"),
			tok(token.VARIABLE, "$c"),
			tok(token.DOUBLE_COLON, "::"),
			tok(token.STRING, "D"),
			tok(token.SPACESHIP, "<=>"),
			tok(token.LNUMBER, "0x1F"),
			tok(token.POW, "**"),
			tok(token.DNUMBER, "1.5e3"),
			tok(token.SEMICOLON, ";"),
		}},
		{"<?php // one\n# two\n/* three */ /** four */", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.COMMENT, "// one"),
			tok(token.COMMENT, "# two"),
			tok(token.COMMENT, "/* three */"),
			tok(token.DOC_COMMENT, "/** four */"),
		}},
		{"<?php ( INT )$a; (array) $b; (foo)", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.INT_CAST, "( INT )"),
			tok(token.VARIABLE, "$a"),
			tok(token.SEMICOLON, ";"),
			tok(token.ARRAY_CAST, "(array)"),
			tok(token.VARIABLE, "$b"),
			tok(token.SEMICOLON, ";"),
			tok(token.OPEN_PAREN, "("),
			tok(token.STRING, "foo"),
			tok(token.CLOSE_PAREN, ")"),
		}},
		{"<?php use Foo\\Bar, \\Baz, namespace\\Qux;", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.USE, "use"),
			tok(token.NAME_QUALIFIED, "Foo\\Bar"),
			tok(token.COMMA, ","),
			tok(token.NAME_FULLY_QUALIFIED, "\\Baz"),
			tok(token.COMMA, ","),
			tok(token.NAME_RELATIVE, "namespace\\Qux"),
			tok(token.SEMICOLON, ";"),
		}},
		{"<?php use Foo\\{Bar};", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.USE, "use"),
			tok(token.STRING, "Foo"),
			tok(token.NS_SEPARATOR, "\\"),
			tok(token.OPEN_BRACE, "{"),
			tok(token.STRING, "Bar"),
			tok(token.CLOSE_BRACE, "}"),
			tok(token.SEMICOLON, ";"),
		}},
		{"<?php $a->list; A::class; yield  FROM $b;", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.VARIABLE, "$a"),
			tok(token.OBJECT_OPERATOR, "->"),
			tok(token.STRING, "list"),
			tok(token.SEMICOLON, ";"),
			tok(token.STRING, "A"),
			tok(token.DOUBLE_COLON, "::"),
			tok(token.CLASS, "class"),
			tok(token.SEMICOLON, ";"),
			tok(token.YIELD_FROM, "yield  FROM"),
			tok(token.VARIABLE, "$b"),
			tok(token.SEMICOLON, ";"),
		}},
		{`<?php "a $b[0] {$c->d} ${e} $f->g"`, []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.DOUBLE_QUOTE, `"`),
			tok(token.ENCAPSED_AND_WHITESPACE, "a "),
			tok(token.VARIABLE, "$b"),
			tok(token.OPEN_BRACKET, "["),
			tok(token.NUM_STRING, "0"),
			tok(token.CLOSE_BRACKET, "]"),
			tok(token.ENCAPSED_AND_WHITESPACE, " "),
			tok(token.CURLY_OPEN, "{"),
			tok(token.VARIABLE, "$c"),
			tok(token.OBJECT_OPERATOR, "->"),
			tok(token.STRING, "d"),
			tok(token.CLOSE_BRACE, "}"),
			tok(token.ENCAPSED_AND_WHITESPACE, " "),
			tok(token.DOLLAR_OPEN_CURLY_BRACES, "${"),
			tok(token.STRING_VARNAME, "e"),
			tok(token.CLOSE_BRACE, "}"),
			tok(token.ENCAPSED_AND_WHITESPACE, " "),
			tok(token.VARIABLE, "$f"),
			tok(token.OBJECT_OPERATOR, "->"),
			tok(token.STRING, "g"),
			tok(token.DOUBLE_QUOTE, `"`),
		}},
		{`<?php 'a\'b'; "c\"d";`, []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.CONSTANT_ENCAPSED_STRING, `'a\'b'`),
			tok(token.SEMICOLON, ";"),
			tok(token.CONSTANT_ENCAPSED_STRING, `"c\"d"`),
			tok(token.SEMICOLON, ";"),
		}},
		{"<?php #[Attr] function f() {}", []testToken{
			tok(token.OPEN_TAG, "<?php"),
			tok(token.ATTRIBUTE, "#["),
			tok(token.STRING, "Attr"),
			tok(token.CLOSE_BRACKET, "]"),
			tok(token.FUNCTION, "function"),
			tok(token.STRING, "f"),
			tok(token.OPEN_PAREN, "("),
			tok(token.CLOSE_PAREN, ")"),
			tok(token.OPEN_BRACE, "{"),
			tok(token.CLOSE_BRACE, "}"),
		}},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.tokens, lexCode(t, test.input))
		})
	}
}

func TestLexerHeredoc(t *testing.T) {
	input := "<?php\n$a = <<<EOF\n  foo $b\n  bar\n  EOF;\n$c = <<<'NOW'\n$x\nNOW;\n$d = <<<EOF\nEOF;"
	assert.Equal(t, []testToken{
		tok(token.OPEN_TAG, "<?php"),
		tok(token.VARIABLE, "$a"),
		tok(token.EQUAL, "="),
		tok(token.START_HEREDOC, "<<<EOF\n"),
		tok(token.ENCAPSED_AND_WHITESPACE, "  foo "),
		tok(token.VARIABLE, "$b"),
		tok(token.ENCAPSED_AND_WHITESPACE, "\n  bar\n"),
		tok(token.END_HEREDOC, "  EOF"),
		tok(token.SEMICOLON, ";"),
		tok(token.VARIABLE, "$c"),
		tok(token.EQUAL, "="),
		tok(token.START_HEREDOC, "<<<'NOW'\n"),
		tok(token.ENCAPSED_AND_WHITESPACE, "$x\n"),
		tok(token.END_HEREDOC, "NOW"),
		tok(token.SEMICOLON, ";"),
		tok(token.VARIABLE, "$d"),
		tok(token.EQUAL, "="),
		tok(token.START_HEREDOC, "<<<EOF\n"),
		tok(token.END_HEREDOC, "EOF"),
		tok(token.SEMICOLON, ";"),
	}, lexCode(t, input))
}

func TestLexerLegacyNames(t *testing.T) {
	assert.Equal(t, []testToken{
		tok(token.OPEN_TAG, "<?php"),
		tok(token.NS_SEPARATOR, "\\"),
		tok(token.STRING, "Foo"),
		tok(token.NS_SEPARATOR, "\\"),
		tok(token.STRING, "Bar"),
		tok(token.SEMICOLON, ";"),
		tok(token.COMMENT, "#[Attr]"),
	}, lexCode(t, "<?php \\Foo\\Bar; #[Attr]", WithLegacyNames(true)))
}

func TestLexerHaltCompiler(t *testing.T) {
	assert.Equal(t, []testToken{
		tok(token.OPEN_TAG, "<?php"),
		tok(token.HALT_COMPILER, "__halt_compiler"),
		tok(token.OPEN_PAREN, "("),
		tok(token.CLOSE_PAREN, ")"),
		tok(token.SEMICOLON, ";"),
		tok(token.INLINE_HTML, " raw <?php data"),
	}, lexCode(t, "<?php __halt_compiler(); raw <?php data"))
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"<?php /* open",
		"<?php 'open",
		"<?php \"open $a",
		"<?php <<<EOF\nno end",
	} {
		_, err := Tokenize("test.php", []byte(input))
		assert.Error(t, err, input)
		var lerr *token.LocationError
		assert.ErrorAs(t, err, &lerr, input)
	}
}

func TestLexerLines(t *testing.T) {
	tokens, err := Tokenize("test", []byte("<?php\n\n$a\n  = 1;"))
	require.NoError(t, err)
	lines := map[string]int{}
	for _, tk := range tokens {
		lines[tk.Text] = tk.Line
	}
	assert.Equal(t, 1, lines["<?php"])
	assert.Equal(t, 3, lines["$a"])
	assert.Equal(t, 4, lines["="])
}
