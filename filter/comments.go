// Copyright © 2024 The ELPS authors

package filter

import (
	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
)

// MoveComments keeps comments attached to the code they describe.  A
// delimiter written after a comment is moved before it, and a comment
// written between "!" and its operand is moved before the "!".  Moved
// tokens keep their source lines.
type MoveComments struct {
	Index *typeindex.Index
}

func (f MoveComments) Filter(tokens []*token.Token) ([]*token.Token, error) {
	if !hasComment(tokens) {
		return tokens, nil
	}
	movable, err := f.movable(tokens)
	if err != nil {
		return nil, err
	}
	out := make([]*token.Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		switch {
		case isComment(tokens[i]):
			j := i
			for j < len(tokens) && isComment(tokens[j]) {
				j++
			}
			k := j
			if i > 0 {
				for k < len(tokens) && movable[k] {
					k++
				}
			}
			out = append(out, tokens[j:k]...)
			out = append(out, tokens[i:j]...)
			i = k
		case tokens[i].Type == token.LOGICAL_NOT:
			j := i
			for j < len(tokens) && tokens[j].Type == token.LOGICAL_NOT {
				j++
			}
			k := j
			for k < len(tokens) && isComment(tokens[k]) {
				k++
			}
			out = append(out, tokens[j:k]...)
			out = append(out, tokens[i:j]...)
			i = k
		default:
			out = append(out, tokens[i])
			i++
		}
	}
	return out, nil
}

func hasComment(tokens []*token.Token) bool {
	for _, t := range tokens {
		if isComment(t) {
			return true
		}
	}
	return false
}

// movable reports for each token whether it may be moved before a
// preceding comment.  Colons are classified by linking a scratch document;
// only ternary colons stay where they are.
func (f MoveComments) movable(tokens []*token.Token) ([]bool, error) {
	movable := make([]bool, len(tokens))
	hasColon := false
	for i, t := range tokens {
		switch t.Type {
		case token.COMMA, token.SEMICOLON, token.EQUAL:
			movable[i] = true
		case token.COLON:
			hasColon = true
		}
	}
	if !hasColon {
		return movable, nil
	}
	doc, err := document.New("", tokens, f.Index)
	if err != nil {
		return nil, err
	}
	err = func() (err error) {
		defer document.Recover(&err)
		i := 0
		for _, t := range doc.Tokens {
			if t.IsVirtual {
				continue
			}
			if t.Type == token.COLON && t.SubType() != document.TernaryColon {
				movable[i] = true
			}
			i++
		}
		return nil
	}()
	return movable, err
}
