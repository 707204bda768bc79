// Copyright © 2024 The ELPS authors

package rule

import (
	"strings"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/render"
	"github.com/luthersystems/prettyphp/typeindex"
)

// SpecPlaceComments places comments on their own line or after code,
// following their position in the source.
var SpecPlaceComments = &Spec{
	Doc:  "Keep comments that start a line on their own line and trailing comments after the code they follow.",
	Kind: Mandatory,
	New:  func(*Config) Rule { return &PlaceComments{} },
}

// PlaceComments places standalone and trailing comments.  Before the
// document is rendered, comments on their own lines take the indentation
// of the line they precede.
type PlaceComments struct{}

func (*PlaceComments) Priority(m Method) (int, bool) {
	switch m {
	case MethodToken:
		return 90, true
	case MethodBeforeRender:
		return 950, true
	}
	return 0, false
}

func (*PlaceComments) Reset() {}

func (*PlaceComments) TokenTypes(idx *typeindex.Index) *typeindex.Table { return &idx.Comment }

func (*PlaceComments) ProcessToken(t *document.Token) {
	if t.IsOneLineComment() {
		t.CriticalAfter(document.Line)
	}
	if isStandalone(t) || t.Type == token.DOC_COMMENT {
		t.AddBefore(document.Line)
		t.AddAfter(document.Line)
		if t.Type == token.DOC_COMMENT {
			t.MaskAfter(document.Line)
		}
		return
	}
	t.AddBefore(document.Space)
	t.MaskBefore(document.Space)
	t.AddAfter(document.Space)
	if p := t.Prev(); p != nil {
		t.AddAfter(p.Spacing().After & (document.Line | document.Blank))
	}
}

// BeforeRender walks backwards so each comment in a run copies the
// counters of the comment or code below it.
func (*PlaceComments) BeforeRender(doc *document.Document) {
	for i := len(doc.Tokens) - 1; i >= 0; i-- {
		c := doc.Tokens[i]
		if !isComment(c) || !c.HasNewlineBefore() || !c.HasNewlineAfter() {
			continue
		}
		next := c.Next()
		if next == nil || next.IsCloseBracket() || !next.IsCode && !isComment(next) {
			continue
		}
		if d := document.Between(c, next); !d.IsZero() {
			d.Apply(c)
		}
	}
}

// SpecAlignComments aligns trailing comments on consecutive lines.
var SpecAlignComments = &Spec{
	Doc:  "Align comments that trail code on consecutive lines.",
	Kind: Optional,
	New:  func(cfg *Config) Rule { return &AlignComments{r: cfg.Renderer} },
}

// AlignComments pads trailing comments so they start in the same column
// as the others in their run.
type AlignComments struct {
	r *render.Renderer
}

func (*AlignComments) Priority(m Method) (int, bool) { return 360, m == MethodBlock }
func (*AlignComments) Reset()                        {}

func (a *AlignComments) ProcessBlock(lines []*document.Collection) {
	var run []*document.Token
	for _, line := range lines {
		if c := trailingComment(line); c != nil {
			run = append(run, c)
			continue
		}
		a.align(run)
		run = nil
	}
	a.align(run)
}

func (a *AlignComments) align(run []*document.Token) {
	if len(run) < 2 {
		return
	}
	cols := make([]int, len(run))
	max := 0
	for i, c := range run {
		cols[i] = a.r.Column(c)
		if cols[i] > max {
			max = cols[i]
		}
	}
	for i, c := range run {
		c.Padding += max - cols[i]
	}
}

// trailingComment returns the comment that ends line after code on the
// same line, or nil.
func trailingComment(line *document.Collection) *document.Token {
	last := line.Last()
	if last == nil || line.Len() < 2 || !isComment(last) || last.Type == token.DOC_COMMENT {
		return nil
	}
	for _, t := range line.Tokens() {
		if t != last && strings.Contains(t.Text, "\n") {
			return nil
		}
	}
	return last
}
