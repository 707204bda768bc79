// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	if r == nil {
		r = &Renderer{Color: ColorNever}
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderError(t *testing.T) {
	got := render(t, nil, Diagnostic{
		Severity: Error,
		Message:  "unterminated heredoc",
		Span: &Span{
			File:  "a.php",
			Start: Position{Line: 2, Col: 6},
			Label: "heredoc starts here",
		},
		Source: []byte("<?php\n$a = <<<EOF\nx"),
	})
	assert.Equal(t, "error: unterminated heredoc\n"+
		"  --> a.php:2:6\n"+
		"   |\n"+
		" 2 |  $a = <<<EOF\n"+
		"   |       ^^^^^^ heredoc starts here\n"+
		"   |\n", got)
}

func TestRenderMultiline(t *testing.T) {
	got := render(t, nil, Diagnostic{
		Severity: Warning,
		Message:  "list spans lines",
		Span: &Span{
			File:  "a.php",
			Start: Position{Line: 2, Col: 1},
			End:   Position{Line: 4, Col: 2},
			Label: "here",
		},
		Source: []byte("<?php\n$a = [\n    1,\n];\n"),
		Notes:  []string{"reported by strict-lists"},
	})
	assert.Equal(t, "warning: list spans lines\n"+
		"  --> a.php:2:1\n"+
		"   |\n"+
		" 2 |    $a = [\n"+
		"   |   _^\n"+
		" 3 |  |     1,\n"+
		" 4 |  | ];\n"+
		"   |  |__^ here\n"+
		"   |\n"+
		"   = note: reported by strict-lists\n", got)
}

func TestRenderMultilineWidth(t *testing.T) {
	src := "<?php\n"
	for i := 2; i < 10; i++ {
		src += "//\n"
	}
	src += "$a\n    = 1;\n"
	got := render(t, nil, Diagnostic{
		Severity: Warning,
		Message:  "split",
		Span:     &Span{File: "a.php", Start: Position{Line: 10, Col: 1}, End: Position{Line: 11, Col: 5}},
		Source:   []byte(src),
	})
	assert.Contains(t, got, " 10 |    $a\n")
	assert.Contains(t, got, "    |   _^\n")
	assert.Contains(t, got, " 11 |  |     = 1;\n")
	assert.Contains(t, got, "    |  |_____^\n")
}

func TestRenderSpanEnd(t *testing.T) {
	tests := []struct {
		name string
		end  Position
		want string
	}{
		{"zero", Position{}, " 2 |  $a = $b;\n   |  ^^\n"},
		{"before start", Position{Line: 1, Col: 1}, " 2 |  $a = $b;\n   |  ^^\n"},
		{"same line", Position{Line: 2, Col: 6}, " 2 |  $a = $b;\n   |  ^^^^^^^\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := render(t, nil, Diagnostic{
				Severity: Warning,
				Message:  "m",
				Span:     &Span{File: "a.php", Start: Position{Line: 2, Col: 1}, End: test.end},
				Source:   []byte("<?php\n$a = $b;\n"),
			})
			assert.Contains(t, got, test.want)
		})
	}
}

func TestRenderNoSource(t *testing.T) {
	got := render(t, nil, Diagnostic{
		Severity: Error,
		Message:  "some error",
		Span:     &Span{File: "<stdin>", Start: Position{Line: 5, Col: 3}},
	})
	assert.Equal(t, "error: some error\n  --> <stdin>:5:3\n   |\n", got)

	got = render(t, nil, Diagnostic{
		Severity: Error,
		Message:  "past the end",
		Span:     &Span{File: "a.php", Start: Position{Line: 5, Col: 3}},
		Source:   []byte("<?php\n"),
	})
	assert.NotContains(t, got, "^")
}

func TestRenderAutoEndCol(t *testing.T) {
	got := render(t, nil, Diagnostic{
		Severity: Error,
		Message:  "unexpected variable",
		Span:     &Span{File: "a.php", Start: Position{Line: 1, Col: 11}},
		Source:   []byte("<?php foo($bar);"),
	})
	// "$bar" ends at the closing parenthesis.
	assert.Contains(t, got, "           ^^^^\n")
	assert.NotContains(t, got, "^^^^^")
}

func TestRenderTabs(t *testing.T) {
	got := render(t, &Renderer{Color: ColorNever, TabSize: 2}, Diagnostic{
		Severity: Warning,
		Message:  "tabbed",
		Span:     &Span{File: "a.php", Start: Position{Line: 1, Col: 2}},
		Source:   []byte("\t$a;"),
	})
	assert.Contains(t, got, "warning: tabbed")
	assert.Contains(t, got, "|    $a;")
	assert.Contains(t, got, "|    ^^\n")
}

func TestRenderNoSpan(t *testing.T) {
	got := render(t, nil, Diagnostic{
		Severity: Error,
		Message:  "a.php: formatted output differs",
	})
	assert.Equal(t, "error: a.php: formatted output differs\n", got)
}

func TestRenderColor(t *testing.T) {
	got := render(t, &Renderer{Color: ColorAlways}, Diagnostic{Severity: Warning, Message: "m"})
	assert.Equal(t, "\033[1;33mwarning\033[0m: \033[1mm\033[0m\n", got)

	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	require.NoError(t, (&Renderer{}).Render(&buf, Diagnostic{Severity: Error, Message: "m"}))
	assert.Equal(t, "error: m\n", buf.String())
}

func TestParseColorMode(t *testing.T) {
	for s, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, ok := ParseColorMode(s)
		assert.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}
	_, ok := ParseColorMode("sometimes")
	assert.False(t, ok)
}
