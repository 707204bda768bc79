// Copyright © 2024 The ELPS authors

// Package filter transforms flat token streams before they are linked into
// a document.  Formatting filters normalise spelling and placement;
// comparison filters reduce two streams to a form where equal code compares
// equal.
package filter

import (
	"reflect"

	"github.com/iancoleman/strcase"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/pkg/errors"
)

// Filter rewrites a token stream.  A filter may modify tokens in place and
// may return a different slice.
type Filter interface {
	Filter(tokens []*token.Token) ([]*token.Token, error)
}

// Name returns the kebab-case name of f's type, e.g. "remove-whitespace".
func Name(f Filter) string {
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strcase.ToKebab(t.Name())
}

// Apply runs filters over tokens in order.
func Apply(tokens []*token.Token, filters ...Filter) ([]*token.Token, error) {
	var err error
	for _, f := range filters {
		tokens, err = f.Filter(tokens)
		if err != nil {
			return nil, errors.Wrap(err, Name(f))
		}
	}
	return tokens, nil
}

// RemoveWhitespace drops whitespace tokens.
type RemoveWhitespace struct{}

func (RemoveWhitespace) Filter(tokens []*token.Token) ([]*token.Token, error) {
	return remove(tokens, func(t *token.Token) bool { return t.Type == token.WHITESPACE }), nil
}

// RemoveComments drops comments, doc comments and attribute comments.
type RemoveComments struct{}

func (RemoveComments) Filter(tokens []*token.Token) ([]*token.Token, error) {
	return remove(tokens, func(t *token.Token) bool {
		return t.Type == token.COMMENT || t.Type == token.DOC_COMMENT || t.Type == token.ATTRIBUTE_COMMENT
	}), nil
}

func remove(tokens []*token.Token, fn func(*token.Token) bool) []*token.Token {
	out := tokens[:0:0]
	for _, t := range tokens {
		if !fn(t) {
			out = append(out, t)
		}
	}
	return out
}

// CollectColumn records the source column of every token.  It must run
// before whitespace is removed.
type CollectColumn struct {
	TabSize int
}

func (f CollectColumn) Filter(tokens []*token.Token) ([]*token.Token, error) {
	tab := f.TabSize
	if tab <= 0 {
		tab = 4
	}
	col := 1
	for _, t := range tokens {
		t.Col = col
		for _, c := range t.Text {
			switch c {
			case '\n':
				col = 1
			case '\t':
				col += tab - (col-1)%tab
			default:
				col++
			}
		}
	}
	return tokens, nil
}
