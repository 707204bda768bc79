// Copyright © 2024 The ELPS authors

package rule

import (
	"context"
	"testing"

	"github.com/luthersystems/prettyphp/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleTest struct {
	name   string
	enable []string
	in     string
	out    string
}

func format(t *testing.T, cfg *Config, enable []string, src string) (string, *document.Document) {
	t.Helper()
	specs, err := Resolve(enable, nil)
	require.NoError(t, err)
	doc := parse(t, cfg, src)
	require.NoError(t, NewPipeline(cfg, specs).Run(context.Background(), doc))
	return cfg.Renderer.Render(doc), doc
}

func runRuleTests(t *testing.T, tests []ruleTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, _ := format(t, DefaultConfig(), test.enable, test.in)
			assert.Equal(t, test.out, out)
			again, _ := format(t, DefaultConfig(), test.enable, out)
			assert.Equal(t, out, again, "not idempotent")
		})
	}
}

func TestSpacingRules(t *testing.T) {
	runRuleTests(t, []ruleTest{
		{
			name: "assignment",
			in:   "<?php\n$a=1;\n",
			out:  "<?php\n$a = 1;\n",
		},
		{
			name: "calls and indexes",
			in:   "<?php\nfoo ( $a [ 0 ] , $b->c ( ) );\n",
			out:  "<?php\nfoo($a[0], $b->c());\n",
		},
		{
			name: "unary and casts",
			in:   "<?php\n$a = ! $b;\n$c = - 1;\n$d = (int)$e;\n$f ++;\n",
			out:  "<?php\n$a = !$b;\n$c = -1;\n$d = (int) $e;\n$f++;\n",
		},
		{
			name: "ternary",
			in:   "<?php\n$a = $b?$c:$d;\n$e = $f?:$g;\n",
			out:  "<?php\n$a = $b ? $c : $d;\n$e = $f ?: $g;\n",
		},
		{
			name: "control structure",
			in:   "<?php\nif($a){\nb();\n}else{\nc();\n}\n",
			out:  "<?php\nif ($a) {\n    b();\n} else {\n    c();\n}\n",
		},
		{
			name: "braceless body",
			in:   "<?php\nif ($a) b();\n",
			out:  "<?php\nif ($a)\n    b();\n",
		},
		{
			name: "declaration braces",
			in:   "<?php\nclass A{\nfunction f(){return 1;}\n}\n",
			out:  "<?php\nclass A\n{\n    function f()\n    {\n        return 1;\n    }\n}\n",
		},
		{
			name: "empty braces",
			in:   "<?php\nclass A {\n}\n",
			out:  "<?php\nclass A {}\n",
		},
		{
			name: "match arm conditions",
			in:   "<?php\n$b = match($a) {1, 2 => 'x', 3 => f(4, 5), default => 'y',};\n",
			out:  "<?php\n$b = match ($a) {\n    1, 2 => 'x',\n    3 => f(4, 5),\n    default => 'y',\n};\n",
		},
		{
			name: "grouped import",
			in:   "<?php\nuse A\\{B, C};\nuse D\\{E};\n",
			out:  "<?php\nuse A\\{B, C};\nuse D\\{E};\n",
		},
		{
			name: "fully qualified name",
			in:   "<?php\nreturn \\strlen($a);\n",
			out:  "<?php\nreturn \\strlen($a);\n",
		},
	})
}

func TestIndentationRules(t *testing.T) {
	runRuleTests(t, []ruleTest{
		{
			name: "alternative syntax",
			in:   "<?php\nif ($a):\nb();\nelse:\ne();\nendif;\n",
			out:  "<?php\nif ($a):\n    b();\nelse:\n    e();\nendif;\n",
		},
		{
			name: "switch",
			in:   "<?php\nswitch ($a) {\ncase 1:\nb();\nbreak;\ndefault:\nc();\n}\n",
			out:  "<?php\nswitch ($a) {\n    case 1:\n        b();\n        break;\n    default:\n        c();\n}\n",
		},
		{
			name: "hanging",
			in:   "<?php\n$a = $b\n+ $c\n+ $d;\n",
			out:  "<?php\n$a = $b\n    + $c\n    + $d;\n",
		},
		{
			name: "method chain",
			in:   "<?php\n$a\n->b()\n->c();\n",
			out:  "<?php\n$a\n    ->b()\n    ->c();\n",
		},
	})
}

func TestListRules(t *testing.T) {
	runRuleTests(t, []ruleTest{
		{
			name: "symmetrical",
			in:   "<?php\n[$a,\n$b];\n",
			out:  "<?php\n[\n    $a,\n    $b\n];\n",
		},
		{
			name: "one line",
			in:   "<?php\nfoo($a, $b);\n",
			out:  "<?php\nfoo($a, $b);\n",
		},
		{
			name:   "strict",
			enable: []string{"strict-lists"},
			in:     "<?php\nfoo(\n$a, $b,\n$c);\n",
			out:    "<?php\nfoo(\n    $a,\n    $b,\n    $c\n);\n",
		},
		{
			name:   "aligned",
			enable: []string{"align-lists"},
			in:     "<?php\nfoo($a,\n$b);\n",
			out:    "<?php\nfoo($a,\n    $b);\n",
		},
	})
}

func TestCommentRules(t *testing.T) {
	runRuleTests(t, []ruleTest{
		{
			name: "placement",
			in:   "<?php\n$a = 1;   // one\n// two\n$b = 2;\n",
			out:  "<?php\n$a = 1; // one\n// two\n$b = 2;\n",
		},
		{
			name: "comments before braceless body",
			in:   "<?php\nif ($a)\n// one\n// two\nb();\nc();\n",
			out:  "<?php\nif ($a)\n    // one\n    // two\n    b();\nc();\n",
		},
		{
			name: "comment before closing brace",
			in:   "<?php\nif ($a) {\nb();\n// one\n}\n",
			out:  "<?php\nif ($a) {\n    b();\n    // one\n}\n",
		},
		{
			name:   "aligned",
			enable: []string{"align-comments"},
			in:     "<?php\n$a = 1; // one\n$bbb = 2; // two\n",
			out:    "<?php\n$a = 1;   // one\n$bbb = 2; // two\n",
		},
	})
}

func TestNewlineRules(t *testing.T) {
	runRuleTests(t, []ruleTest{
		{
			name: "blank lines",
			in:   "<?php\n$a = 1;\n\n\n$b = 2;\n",
			out:  "<?php\n$a = 1;\n\n$b = 2;\n",
		},
		{
			name: "declarations",
			in:   "<?php\nnamespace A;\nuse B;\nuse C;\nfunction f() {}\n$x = 1;\n",
			out:  "<?php\nnamespace A;\n\nuse B;\nuse C;\n\nfunction f() {}\n\n$x = 1;\n",
		},
		{
			name:   "blank line before return",
			enable: []string{"blank-line-before-return"},
			in:     "<?php\nfunction f()\n{\n$a = 1;\nreturn $a;\n}\n",
			out:    "<?php\nfunction f()\n{\n    $a = 1;\n\n    return $a;\n}\n",
		},
		{
			name:   "one line statements",
			enable: []string{"preserve-one-line-statements"},
			in:     "<?php\nif ($a) { b(); }\n",
			out:    "<?php\nif ($a) { b(); }\n",
		},
	})
}

func TestAlignAssignments(t *testing.T) {
	runRuleTests(t, []ruleTest{{
		name:   "run",
		enable: []string{"align-assignments"},
		in:     "<?php\n$a = 1;\n$bbb = 2;\n\n$c = 3;\n",
		out:    "<?php\n$a   = 1;\n$bbb = 2;\n\n$c = 3;\n",
	}})

	out, doc := format(t, DefaultConfig(), []string{"align-assignments"}, "<?php\n$a = 1;\n$b\n->c = 2;\n")
	assert.Equal(t, "<?php\n$a = 1;\n$b\n    ->c = 2;\n", out)
	require.Len(t, doc.Problems(), 1)
	assert.Equal(t, `cannot align "=": assignment does not start on one line`, doc.Problems()[0].Message())
}

func TestHeredocIndentation(t *testing.T) {
	src := "<?php\n$a = <<<EOF\nx\nEOF;\n"
	tests := []struct {
		mode HeredocIndent
		out  string
	}{
		{HeredocNone, "<?php\n$a = <<<EOF\nx\nEOF;\n"},
		{HeredocLine, "<?php\n$a = <<<EOF\nx\nEOF;\n"},
		{HeredocMixed, "<?php\n$a = <<<EOF\n    x\n    EOF;\n"},
		{HeredocHanging, "<?php\n$a = <<<EOF\n    x\n    EOF;\n"},
	}
	for _, test := range tests {
		t.Run(test.mode.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.HeredocIndent = test.mode
			out, _ := format(t, cfg, nil, src)
			assert.Equal(t, test.out, out)
		})
	}
}

func TestEssentialWhitespace(t *testing.T) {
	cfg := DefaultConfig()
	doc := parse(t, cfg, "<?php\n$a - -1;\n")
	var minus []*document.Token
	for _, tok := range doc.Tokens {
		if tok.Text == "-" {
			minus = append(minus, tok)
		}
	}
	require.Len(t, minus, 2)
	minus[1].MaskBefore(document.None)
	assert.Equal(t, document.None, minus[1].WhitespaceBefore())

	(&EssentialWhitespace{}).BeforeRender(doc)
	assert.Equal(t, document.Space, minus[1].WhitespaceBefore())

	for _, test := range []struct {
		prev, next string
		want       bool
	}{
		{"as", "$a", true},
		{"1", ".", true},
		{".", "5", true},
		{"=", "=", true},
		{"?", ">", true},
		{"(", "$a", false},
		{"$a", ";", false},
	} {
		prev := &document.Token{Text: test.prev}
		next := &document.Token{Text: test.next}
		assert.Equal(t, test.want, needsSpace(prev, next), "%q %q", test.prev, test.next)
	}
}
