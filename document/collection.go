// Copyright © 2024 The ELPS authors

package document

import "github.com/luthersystems/prettyphp/parser/token"

// Collection is an ordered list of tokens.  A collection made by
// Document.Collect is contiguous and supports operations on the gaps
// between its members.
type Collection struct {
	tokens     []*Token
	contiguous bool
}

// Collect returns the tokens from from to to inclusive.  If to precedes
// from the collection is empty.
func (doc *Document) Collect(from, to *Token) *Collection {
	c := &Collection{contiguous: true}
	if from == nil || to == nil || to.Index < from.Index {
		return c
	}
	c.tokens = doc.Tokens[from.Index : to.Index+1 : to.Index+1]
	return c
}

// NewCollection returns a collection holding tokens, which need not be
// adjacent.
func NewCollection(tokens ...*Token) *Collection {
	return &Collection{tokens: tokens}
}

// Tokens returns the members of c.
func (c *Collection) Tokens() []*Token { return c.tokens }

// Len returns the number of members of c.
func (c *Collection) Len() int { return len(c.tokens) }

// First returns the first member of c, or nil if c is empty.
func (c *Collection) First() *Token {
	if len(c.tokens) == 0 {
		return nil
	}
	return c.tokens[0]
}

// Last returns the last member of c, or nil if c is empty.
func (c *Collection) Last() *Token {
	if len(c.tokens) == 0 {
		return nil
	}
	return c.tokens[len(c.tokens)-1]
}

// HasOneOf reports whether any member of c has one of types.
func (c *Collection) HasOneOf(types ...token.Type) bool {
	return c.GetFirstOf(types...) != nil
}

// GetFirstOf returns the first member of c with one of types.
func (c *Collection) GetFirstOf(types ...token.Type) *Token {
	for _, t := range c.tokens {
		if t.Is(types...) {
			return t
		}
	}
	return nil
}

// Filter returns the members of c for which fn returns true.  The result
// is not contiguous.
func (c *Collection) Filter(fn func(*Token) bool) *Collection {
	out := &Collection{}
	for _, t := range c.tokens {
		if fn(t) {
			out.tokens = append(out.tokens, t)
		}
	}
	return out
}

// AddBefore requests ws before every member of c.
func (c *Collection) AddBefore(ws Whitespace) {
	for _, t := range c.tokens {
		t.AddBefore(ws)
	}
}

// AddAfter requests ws after every member of c.
func (c *Collection) AddAfter(ws Whitespace) {
	for _, t := range c.tokens {
		t.AddAfter(ws)
	}
}

// MaskBefore narrows the gap before every member of c.
func (c *Collection) MaskBefore(ws Whitespace) {
	for _, t := range c.tokens {
		t.MaskBefore(ws)
	}
}

// MaskAfter narrows the gap after every member of c.
func (c *Collection) MaskAfter(ws Whitespace) {
	for _, t := range c.tokens {
		t.MaskAfter(ws)
	}
}

// MaskInnerWhitespace narrows every gap between members of c, leaving the
// gaps before the first and after the last member alone.
func (c *Collection) MaskInnerWhitespace(ws Whitespace) {
	c.mustBeContiguous("MaskInnerWhitespace")
	for i := 1; i < len(c.tokens); i++ {
		c.tokens[i].MaskBefore(ws)
	}
}

// HasNewline reports whether any gap between members of c resolves to a
// line break.
func (c *Collection) HasNewline() bool {
	c.mustBeContiguous("HasNewline")
	for i := 1; i < len(c.tokens); i++ {
		if !c.tokens[i].IsVirtual && c.tokens[i].HasNewlineBefore() {
			return true
		}
	}
	return false
}

// Text returns the text of the members of c joined without whitespace.
func (c *Collection) Text() string {
	var n int
	for _, t := range c.tokens {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range c.tokens {
		b = append(b, t.Text...)
	}
	return string(b)
}

func (c *Collection) mustBeContiguous(op string) {
	if !c.contiguous {
		contractf(c.First(), "%s requires a contiguous collection", op)
	}
}
