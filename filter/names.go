// Copyright © 2024 The ELPS authors

package filter

import (
	"strings"

	"github.com/luthersystems/prettyphp/parser/token"
)

// NormaliseNames merges the fragments of a namespaced name into a single
// name token, as produced by lexers that predate name tokens.  A separator
// before "{" in a group import is left alone.
type NormaliseNames struct{}

func (NormaliseNames) Filter(tokens []*token.Token) ([]*token.Token, error) {
	out := make([]*token.Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		j := nameEnd(tokens, i)
		if j-i < 2 {
			out = append(out, tokens[i])
			i++
			continue
		}
		out = append(out, mergeName(tokens[i:j]))
		i = j
	}
	return out, nil
}

// nameEnd returns the index after the last fragment of the name starting at
// i.  Fragments must touch in the source.
func nameEnd(tokens []*token.Token, i int) int {
	j := i
	switch tokens[i].Type {
	case token.STRING, token.NAMESPACE:
		j++
	case token.NS_SEPARATOR:
	default:
		return i
	}
	for j+1 < len(tokens) &&
		tokens[j].Type == token.NS_SEPARATOR && isIdentifier(tokens[j+1].Text) &&
		(j == i || adjacent(tokens[j-1], tokens[j])) && adjacent(tokens[j], tokens[j+1]) {
		j += 2
	}
	return j
}

func adjacent(a, b *token.Token) bool {
	return a.Pos+len(a.Text) == b.Pos
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || c >= 0x80 || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || i > 0 && '0' <= c && c <= '9' {
			continue
		}
		return false
	}
	return true
}

func mergeName(parts []*token.Token) *token.Token {
	var b strings.Builder
	for _, t := range parts {
		b.WriteString(t.Text)
	}
	first := parts[0]
	typ := token.NAME_QUALIFIED
	switch first.Type {
	case token.NS_SEPARATOR:
		typ = token.NAME_FULLY_QUALIFIED
	case token.NAMESPACE:
		typ = token.NAME_RELATIVE
	}
	return &token.Token{
		Type: typ,
		Text: b.String(),
		Line: first.Line,
		Col:  first.Col,
		Pos:  first.Pos,
	}
}
