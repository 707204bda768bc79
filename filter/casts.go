// Copyright © 2024 The ELPS authors

package filter

import (
	"strings"
	"unicode"

	"github.com/luthersystems/prettyphp/parser/token"
)

var castText = map[token.Type]string{
	token.ARRAY_CAST:  "(array)",
	token.BOOL_CAST:   "(bool)",
	token.DOUBLE_CAST: "(float)",
	token.INT_CAST:    "(int)",
	token.OBJECT_CAST: "(object)",
	token.STRING_CAST: "(string)",
	token.UNSET_CAST:  "(unset)",
}

// NormaliseCasts gives casts and "yield from" their canonical spelling.
type NormaliseCasts struct{}

func (NormaliseCasts) Filter(tokens []*token.Token) ([]*token.Token, error) {
	for _, t := range tokens {
		if text, ok := castText[t.Type]; ok {
			t.Text = text
		} else if t.Type == token.YIELD_FROM {
			t.Text = "yield from"
		}
	}
	return tokens, nil
}

// TrimCasts removes whitespace inside casts without changing their
// spelling.
type TrimCasts struct{}

func (TrimCasts) Filter(tokens []*token.Token) ([]*token.Token, error) {
	for _, t := range tokens {
		if _, ok := castText[t.Type]; ok {
			t.Text = strings.Map(func(r rune) rune {
				if unicode.IsSpace(r) {
					return -1
				}
				return r
			}, t.Text)
		}
	}
	return tokens, nil
}
