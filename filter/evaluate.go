// Copyright © 2024 The ELPS authors

package filter

import (
	"strings"

	"github.com/luthersystems/prettyphp/literal"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/pkg/errors"
)

// EvaluateStrings replaces the text of string literals and string content
// with its evaluated value.
type EvaluateStrings struct{}

type stringContext struct {
	typ   token.Type // DOUBLE_QUOTE, BACKTICK or START_HEREDOC
	raw   bool       // nowdoc
	depth int        // brace depth when the string was opened
}

func (EvaluateStrings) Filter(tokens []*token.Token) ([]*token.Token, error) {
	var stack []stringContext
	depth := 0
	top := func() *stringContext {
		if len(stack) == 0 {
			return nil
		}
		return &stack[len(stack)-1]
	}
	for _, t := range tokens {
		var err error
		switch t.Type {
		case token.OPEN_BRACE, token.CURLY_OPEN, token.DOLLAR_OPEN_CURLY_BRACES:
			depth++
		case token.CLOSE_BRACE:
			depth--
		case token.DOUBLE_QUOTE, token.BACKTICK:
			if s := top(); s != nil && s.typ == t.Type && s.depth == depth {
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, stringContext{typ: t.Type, depth: depth})
			}
		case token.START_HEREDOC:
			stack = append(stack, stringContext{
				typ:   token.START_HEREDOC,
				raw:   strings.Contains(t.Text, "'"),
				depth: depth,
			})
		case token.END_HEREDOC:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case token.CONSTANT_ENCAPSED_STRING:
			t.Text, err = literal.Unquote(t.Text)
		case token.ENCAPSED_AND_WHITESPACE:
			s := top()
			switch {
			case s == nil || s.raw:
			case s.typ == token.DOUBLE_QUOTE:
				t.Text, err = literal.UnescapeDouble(t.Text)
			case s.typ == token.BACKTICK:
				t.Text, err = literal.UnescapeBacktick(t.Text)
			default:
				t.Text, err = literal.UnescapeHeredoc(t.Text)
			}
		}
		if err != nil {
			return nil, &token.LocationError{
				Err:    err,
				Source: &token.Location{Pos: t.Pos, Line: t.Line, Col: t.Col},
			}
		}
	}
	return tokens, nil
}

// EvaluateNumbers replaces the text of number literals with a canonical
// decimal spelling.
type EvaluateNumbers struct{}

func (EvaluateNumbers) Filter(tokens []*token.Token) ([]*token.Token, error) {
	for _, t := range tokens {
		if t.Type != token.LNUMBER && t.Type != token.DNUMBER {
			continue
		}
		text, err := literal.EvaluateNumber(t.Text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", t.Line)
		}
		t.Text = text
	}
	return tokens, nil
}
