// Copyright © 2024 The ELPS authors

package rule

import (
	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
)

// PreserveOneLine keeps the tokens from start to end on one line if they
// were on one line in the source, or unconditionally if force is set.  Line
// breaks between them become spaces.  It reports whether the tokens were
// kept together.
func PreserveOneLine(start, end *document.Token, force bool) bool {
	if start == nil || end == nil || end.Index < start.Index {
		return false
	}
	if !force && start.Line != end.EndLine() {
		return false
	}
	c := start.Doc().Collect(start, end)
	for _, t := range c.Tokens()[1:] {
		if !t.IsVirtual && t.HasNewlineBefore() {
			t.AddBefore(document.Space)
		}
	}
	c.MaskInnerWhitespace(document.Space)
	return true
}

// MirrorBracket gives the close bracket matching open the same kind of
// gap the open bracket has after it: a line break if the content starts on
// a new line, otherwise no whitespace at all.
func MirrorBracket(open *document.Token) {
	closer := open.ClosedBy()
	if closer == nil {
		return
	}
	if open.HasNewlineAfter() {
		closer.AddBefore(document.Line)
		return
	}
	closer.MaskBefore(document.None)
}

// prevReal returns the token before t, skipping virtual tokens.
func prevReal(t *document.Token) *document.Token {
	p := t.Prev()
	for p != nil && p.IsVirtual {
		p = p.Prev()
	}
	return p
}

// nextReal returns the token after t, skipping virtual tokens.
func nextReal(t *document.Token) *document.Token {
	n := t.Next()
	for n != nil && n.IsVirtual {
		n = n.Next()
	}
	return n
}

func isComment(t *document.Token) bool {
	return t.Is(token.COMMENT, token.DOC_COMMENT, token.ATTRIBUTE_COMMENT)
}

// isStandalone reports whether the comment t started a line in the source.
func isStandalone(t *document.Token) bool {
	p := prevReal(t)
	return p == nil || p.Type == token.OPEN_TAG || t.Line > p.EndLine()
}

// leadingComment returns the first of the standalone comments immediately
// before t, or t if there are none.
func leadingComment(t *document.Token) *document.Token {
	first := t
	for p := prevReal(t); p != nil && isComment(p) && isStandalone(p); p = prevReal(p) {
		first = p
	}
	return first
}

// isSwitchBody reports whether open is the brace or colon that opens the
// body of a switch statement.
func isSwitchBody(open *document.Token) bool {
	if !open.IsOpenBracket() || !open.Is(token.OPEN_BRACE, token.COLON) {
		return false
	}
	prev := open.PrevCode()
	if prev == nil || prev.Type != token.CLOSE_PAREN {
		return false
	}
	kw := prev.OpenedBy().PrevCode()
	return kw != nil && kw.Type == token.SWITCH
}

// isCaseLabel reports whether the statement starting at t is a "case" or
// "default" label of a switch.
func isCaseLabel(t *document.Token) bool {
	if !t.Is(token.CASE, token.DEFAULT) {
		return false
	}
	p := t.Parent()
	return p != nil && isSwitchBody(p)
}

// endsBlockLine reports whether t is a colon that ends a line of its own,
// such as a switch case label.
func endsBlockLine(t *document.Token) bool {
	if t.Type != token.COLON || t.PrevCode() == nil {
		return false
	}
	switch t.SubType() {
	case document.AltSyntaxColon, document.SwitchCaseColon, document.LabelColon:
		return true
	}
	return false
}

// isAttributeEnd reports whether t closes an attribute.
func isAttributeEnd(t *document.Token) bool {
	if t.Type != token.CLOSE_BRACKET {
		return false
	}
	open := t.OpenedBy()
	return open != nil && open.Type == token.ATTRIBUTE
}

// hasNewlineInside reports whether there is a line break between open and
// the first code token after it.
func hasNewlineInside(open *document.Token) bool {
	end := open.NextCode()
	for t := open.Next(); t != nil; t = t.Next() {
		if !t.IsVirtual && t.HasNewlineBefore() {
			return true
		}
		if t == end {
			break
		}
	}
	return false
}

// isMultiLine reports whether any item of a list, or the bracket closing
// it, starts on a new line.
func isMultiLine(parent *document.Token, items *document.Collection) bool {
	for _, item := range items.Tokens() {
		if item.HasNewlineBefore() {
			return true
		}
	}
	closer := parent.ClosedBy()
	return closer != nil && closer.HasNewlineBefore()
}

// apply runs fn on every token from start to end inclusive.
func apply(start, end *document.Token, fn func(*document.Token)) {
	for t := start; t != nil; t = t.Next() {
		fn(t)
		if t == end {
			return
		}
	}
}
