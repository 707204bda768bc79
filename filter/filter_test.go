// Copyright © 2024 The ELPS authors

package filter

import (
	"testing"

	"github.com/luthersystems/prettyphp/parser/lexer"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string, opts ...lexer.Option) []*token.Token {
	t.Helper()
	tokens, err := lexer.Tokenize("test.php", []byte(src), opts...)
	require.NoError(t, err)
	return tokens
}

func code(t *testing.T, src string, opts ...lexer.Option) []*token.Token {
	t.Helper()
	tokens, err := RemoveWhitespace{}.Filter(lexAll(t, src, opts...))
	require.NoError(t, err)
	return tokens
}

func texts(tokens []*token.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestName(t *testing.T) {
	assert.Equal(t, "remove-whitespace", Name(RemoveWhitespace{}))
	assert.Equal(t, "sort-imports", Name(&SortImports{}))
	assert.Equal(t, "remove-heredoc-indentation", Name(RemoveHeredocIndentation{}))
}

func TestRemove(t *testing.T) {
	tokens := lexAll(t, "<?php $a; // x\n/** y */ $b;")
	tokens, err := Apply(tokens, RemoveWhitespace{}, RemoveComments{})
	require.NoError(t, err)
	assert.Equal(t, []string{"<?php", "$a", ";", "$b", ";"}, texts(tokens))
}

func TestCollectColumn(t *testing.T) {
	tokens := lexAll(t, "<?php\n\t$a = 1;")
	_, err := CollectColumn{TabSize: 4}.Filter(tokens)
	require.NoError(t, err)
	cols := map[string]int{}
	for _, tok := range tokens {
		cols[tok.Text] = tok.Col
	}
	assert.Equal(t, 1, cols["<?php"])
	assert.Equal(t, 5, cols["$a"])
	assert.Equal(t, 8, cols["="])
	assert.Equal(t, 10, cols["1"])
}

func TestNormaliseNames(t *testing.T) {
	tokens := code(t, `<?php \Foo\Bar; Foo\Baz; namespace\Qux; Foo \ Bar; use A\{B};`, lexer.WithLegacyNames(true))
	tokens, err := NormaliseNames{}.Filter(tokens)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<?php", `\Foo\Bar`, ";", `Foo\Baz`, ";", `namespace\Qux`, ";",
		"Foo", `\`, "Bar", ";", "use", "A", `\`, "{", "B", "}", ";",
	}, texts(tokens))
	assert.Equal(t, token.NAME_FULLY_QUALIFIED, tokens[1].Type)
	assert.Equal(t, token.NAME_QUALIFIED, tokens[3].Type)
	assert.Equal(t, token.NAME_RELATIVE, tokens[5].Type)
	assert.Equal(t, token.NS_SEPARATOR, tokens[13].Type)
}

func TestNormaliseCasts(t *testing.T) {
	tokens := code(t, "<?php ( INT )$a; (binary)$b; (Double)$c; yield  FROM $d;")
	tokens, err := NormaliseCasts{}.Filter(tokens)
	require.NoError(t, err)
	assert.Equal(t, "(int)", tokens[1].Text)
	assert.Equal(t, "(string)", tokens[4].Text)
	assert.Equal(t, "(float)", tokens[7].Text)
	assert.Equal(t, "yield from", tokens[10].Text)

	tokens = code(t, "<?php ( INT )$a;")
	tokens, err = TrimCasts{}.Filter(tokens)
	require.NoError(t, err)
	assert.Equal(t, "(INT)", tokens[1].Text)
}

func TestRemoveHeredocIndentation(t *testing.T) {
	tokens := code(t, "<?php $a = <<<EOF\n    foo\n      bar $b\n    EOF;\n$c = <<<EOF\nx\nEOF;")
	tokens, err := RemoveHeredocIndentation{}.Filter(tokens)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<?php", "$a", "=", "<<<EOF\n", "foo\n  bar ", "$b", "\n", "EOF", ";",
		"$c", "=", "<<<EOF\n", "x\n", "EOF", ";",
	}, texts(tokens))
}

func TestSortImports(t *testing.T) {
	src := "<?php\nuse B\\C; // c\nuse A;\nuse function z;\nuse const Y;\nuse function a;\n$x = 1;\n"
	tokens, err := SortImports{Order: SortByName}.Filter(code(t, src))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<?php",
		"use", "A", ";",
		"use", `B\C`, ";", "// c",
		"use", "function", "a", ";",
		"use", "function", "z", ";",
		"use", "const", "Y", ";",
		"$x", "=", "1", ";",
	}, texts(tokens))
	lines := make([]int, len(tokens))
	for i, tok := range tokens {
		lines[i] = tok.Line
	}
	assert.Equal(t, []int{1, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 6, 6, 6, 6, 7, 7, 7, 7}, lines)

	again, err := SortImports{Order: SortByName}.Filter(tokens)
	require.NoError(t, err)
	assert.Equal(t, texts(tokens), texts(again))
}

func TestSortImportsLeadingComments(t *testing.T) {
	src := "<?php\nuse D; // d\nuse C;\n// x\nuse B;\nuse A;\n"
	tokens, err := SortImports{Order: SortByDepth}.Filter(code(t, src))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<?php",
		"use", "A", ";",
		"// x",
		"use", "B", ";",
		"use", "C", ";",
		"use", "D", ";", "// d",
	}, texts(tokens))
	lines := make([]int, len(tokens))
	for i, tok := range tokens {
		lines[i] = tok.Line
	}
	assert.Equal(t, []int{1, 2, 2, 2, 3, 4, 4, 4, 5, 5, 5, 6, 6, 6, 6}, lines)

	again, err := SortImports{Order: SortByDepth}.Filter(tokens)
	require.NoError(t, err)
	assert.Equal(t, texts(tokens), texts(again))

	// A comment that is not followed by an import ends the run.
	src = "<?php\nuse B;\n// x\n$a = 1;\nuse A;\n"
	tokens, err = SortImports{Order: SortByDepth}.Filter(code(t, src))
	require.NoError(t, err)
	assert.Equal(t, []string{"<?php", "use", "B", ";", "// x", "$a", "=", "1", ";", "use", "A", ";"}, texts(tokens))
}

func TestSortImportsOrder(t *testing.T) {
	src := "<?php use A\\Z\\X; use A\\B;"
	tokens, err := SortImports{Order: SortByName}.Filter(code(t, src))
	require.NoError(t, err)
	assert.Equal(t, `A\B`, tokens[2].Text)
	tokens, err = SortImports{Order: SortByDepth}.Filter(code(t, src))
	require.NoError(t, err)
	assert.Equal(t, `A\Z\X`, tokens[2].Text)
	tokens, err = SortImports{Order: SortNone}.Filter(code(t, src))
	require.NoError(t, err)
	assert.Equal(t, `A\Z\X`, tokens[2].Text)
}

func TestSortImportsScope(t *testing.T) {
	tests := []struct {
		src    string
		sorted bool
	}{
		{"<?php class X { use B; use A; }", false},
		{"<?php $f = function () use ($b) { use_b(); };", false},
		{"<?php namespace N { use B; use A; }", true},
		{"<?php namespace N\\M { use B; use A; }", true},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			tokens, err := SortImports{Order: SortByName}.Filter(code(t, test.src))
			require.NoError(t, err)
			var names []string
			for i, tok := range tokens {
				if tok.Type == token.USE && i+1 < len(tokens) && tokens[i+1].Type == token.STRING {
					names = append(names, tokens[i+1].Text)
				}
			}
			if test.sorted {
				assert.Equal(t, []string{"A", "B"}, names)
			} else if len(names) > 0 {
				assert.Equal(t, []string{"B", "A"}, names)
			}
		})
	}
}

func TestParseImportSortOrder(t *testing.T) {
	for _, o := range []ImportSortOrder{SortNone, SortByName, SortByDepth} {
		parsed, err := ParseImportSortOrder(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}
	_, err := ParseImportSortOrder("random")
	assert.Error(t, err)
}

func TestMoveComments(t *testing.T) {
	idx := typeindex.New(typeindex.Mixed)
	tests := []struct {
		src  string
		want []string
	}{
		{"<?php $a /* c */ = 1 // d\n;", []string{"<?php", "$a", "=", "/* c */", "1", ";", "// d"}},
		{"<?php f($a /* c */, $b);", []string{"<?php", "f", "(", "$a", ",", "/* c */", "$b", ")", ";"}},
		{"<?php $a = ! /* c */ $b;", []string{"<?php", "$a", "=", "/* c */", "!", "$b", ";"}},
		{"<?php $a = $b ? $c /* c */ : $d;", []string{"<?php", "$a", "=", "$b", "?", "$c", "/* c */", ":", "$d", ";"}},
		{"<?php switch ($a) { case 1 /* c */ : }", []string{"<?php", "switch", "(", "$a", ")", "{", "case", "1", ":", "/* c */", "}"}},
		{"<?php $a;", []string{"<?php", "$a", ";"}},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			tokens, err := MoveComments{Index: idx}.Filter(code(t, test.src))
			require.NoError(t, err)
			assert.Equal(t, test.want, texts(tokens))
		})
	}
}

func TestEvaluateStrings(t *testing.T) {
	src := "<?php 'a\\'b'; \"c\\td $e\"; <<<EOF\n\\t$f\nEOF;\n<<<'NOW'\n\\t\nNOW;\n`\\x41`;"
	tokens, err := EvaluateStrings{}.Filter(code(t, src))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<?php", "a'b", ";",
		`"`, "c\td ", "$e", `"`, ";",
		"<<<EOF\n", "\t", "$f", "\n", "EOF", ";",
		"<<<'NOW'\n", "\\t\n", "NOW", ";",
		"`", "A", "`", ";",
	}, texts(tokens))
}

func TestEvaluateNumbers(t *testing.T) {
	tokens, err := EvaluateNumbers{}.Filter(code(t, "<?php 0x1F + 1_000 + 1.50;"))
	require.NoError(t, err)
	assert.Equal(t, []string{"<?php", "31", "+", "1000", "+", "1.5", ";"}, texts(tokens))
}
