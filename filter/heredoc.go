// Copyright © 2024 The ELPS authors

package filter

import (
	"strings"

	"github.com/luthersystems/prettyphp/parser/token"
)

// RemoveHeredocIndentation strips the indentation of a heredoc's closing
// identifier from every line of its body, leaving the body as it would be
// evaluated.  The closing identifier is left unindented.
type RemoveHeredocIndentation struct{}

func (RemoveHeredocIndentation) Filter(tokens []*token.Token) ([]*token.Token, error) {
	var starts []int
	for i, t := range tokens {
		switch t.Type {
		case token.START_HEREDOC:
			starts = append(starts, i)
		case token.END_HEREDOC:
			if len(starts) == 0 {
				continue
			}
			start := starts[len(starts)-1]
			starts = starts[:len(starts)-1]
			label := strings.TrimLeft(t.Text, " \t")
			indent := t.Text[:len(t.Text)-len(label)]
			if indent == "" {
				continue
			}
			t.Text = label
			atLineStart := true
			for _, u := range tokens[start+1 : i] {
				if u.Type != token.ENCAPSED_AND_WHITESPACE {
					atLineStart = false
					continue
				}
				u.Text = dedent(u.Text, indent, atLineStart)
				atLineStart = strings.HasSuffix(u.Text, "\n")
			}
		}
	}
	return tokens, nil
}

// dedent removes up to len(indent) bytes of indent from the start of every
// line in s.  The first line is only considered when atLineStart is set.
func dedent(s, indent string, atLineStart bool) string {
	lines := strings.SplitAfter(s, "\n")
	for i, line := range lines {
		if i == 0 && !atLineStart {
			continue
		}
		n := 0
		for n < len(indent) && n < len(line) && line[n] == indent[n] {
			n++
		}
		lines[i] = line[n:]
	}
	return strings.Join(lines, "")
}
