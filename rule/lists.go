// Copyright © 2024 The ELPS authors

package rule

import (
	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/render"
	"github.com/luthersystems/prettyphp/typeindex"
)

// SpecSymmetricalBrackets gives the closing bracket of a list the same
// placement as its opening bracket.
var SpecSymmetricalBrackets = &Spec{
	Doc:  "Put the closing bracket of a list on its own line if the list's content starts on a new line.",
	Kind: Default,
	New:  func(*Config) Rule { return &SymmetricalBrackets{} },
}

type SymmetricalBrackets struct{}

func (*SymmetricalBrackets) Priority(m Method) (int, bool) {
	switch m {
	case MethodList:
		return 98, true
	case MethodToken:
		return 99, true
	}
	return 0, false
}

func (*SymmetricalBrackets) Reset() {}

func (*SymmetricalBrackets) TokenTypes(*typeindex.Index) *typeindex.Table { return &bracketTypes }

var bracketTypes = typeindex.Of(token.OPEN_PAREN, token.OPEN_BRACKET, token.ATTRIBUTE)

// ProcessList breaks the line after the open bracket and before the close
// bracket of a list that spans lines.
func (*SymmetricalBrackets) ProcessList(parent *document.Token, items *document.Collection) {
	if !isMultiLine(parent, items) {
		return
	}
	parent.AddAfter(document.Line)
	if closer := parent.ClosedBy(); closer != nil {
		closer.AddBefore(document.Line)
	}
}

// ProcessToken places the close bracket of every bracket pair on its own
// line if the content after the open bracket starts on a new line.
func (*SymmetricalBrackets) ProcessToken(t *document.Token) {
	if t.InString() || !t.IsOpenBracket() {
		return
	}
	MirrorBracket(t)
}

// SpecStrictLists puts every item of a list that spans lines on its own
// line.
var SpecStrictLists = &Spec{
	Doc:          "Put every item of a list that spans lines on its own line.",
	Kind:         Optional,
	Incompatible: []string{"align-lists"},
	New:          func(*Config) Rule { return &StrictLists{} },
}

type StrictLists struct{}

func (*StrictLists) Priority(m Method) (int, bool) { return 98, m == MethodList }
func (*StrictLists) Reset()                        {}

func (*StrictLists) ProcessList(parent *document.Token, items *document.Collection) {
	if !isMultiLine(parent, items) {
		return
	}
	for _, item := range items.Tokens() {
		leadingComment(item).AddBefore(document.Line)
	}
}

// SpecAlignLists aligns the items of a list with its first item.
var SpecAlignLists = &Spec{
	Doc:          "Align the items of a list that spans lines with the first item, which stays next to the open bracket.",
	Kind:         Optional,
	Incompatible: []string{"strict-lists"},
	New:          func(cfg *Config) Rule { return &AlignLists{r: cfg.Renderer} },
}

// AlignLists keeps the first item of a multi-line list on the line of its
// open bracket and aligns the items that start later lines with it.
type AlignLists struct {
	r     *render.Renderer
	lists []alignedList
}

type alignedList struct {
	parent *document.Token
	items  []*document.Token
}

func (*AlignLists) Priority(m Method) (int, bool) {
	switch m {
	case MethodList:
		return 97, true
	case MethodCallback:
		return 720, true
	}
	return 0, false
}

func (a *AlignLists) Reset() { a.lists = nil }

func (a *AlignLists) ProcessList(parent *document.Token, items *document.Collection) {
	first := items.First()
	if first == nil || !isMultiLine(parent, items) || first.HasNewlineBefore() {
		return
	}
	if first.Prev() != parent {
		return
	}
	first.MaskBefore(document.None)
	a.lists = append(a.lists, alignedList{parent: parent, items: items.Tokens()})
}

// Callback pads each item that starts a line so it begins in the column of
// the first item.  Lists are aligned outermost first so nested lists see
// their final column.
func (a *AlignLists) Callback(doc *document.Document) {
	for _, l := range a.lists {
		col := a.r.Column(l.items[0])
		closer := l.parent.ClosedBy()
		for i, item := range l.items {
			if i == 0 || !item.HasNewlineBefore() {
				continue
			}
			end := closer.Prev()
			if i+1 < len(l.items) {
				end = l.items[i+1].Prev()
			}
			delta := col - a.r.Column(item)
			if delta == 0 {
				continue
			}
			apply(item, end, func(t *document.Token) {
				if delta > 0 {
					t.LinePadding += delta
				} else {
					t.LineUnpadding -= delta
				}
			})
		}
	}
}
