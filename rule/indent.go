// Copyright © 2024 The ELPS authors

package rule

import (
	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
)

// SpecStandardIndentation indents the content of brackets that span lines.
var SpecStandardIndentation = &Spec{
	Doc:  "Indent the content of blocks and brackets by one level when it starts on a new line.",
	Kind: Mandatory,
	New:  func(*Config) Rule { return &StandardIndentation{} },
}

type StandardIndentation struct{}

func (*StandardIndentation) Priority(m Method) (int, bool) { return 600, m == MethodToken }
func (*StandardIndentation) Reset()                        {}

func (*StandardIndentation) TokenTypes(idx *typeindex.Index) *typeindex.Table { return &idx.All }

func (*StandardIndentation) ProcessToken(t *document.Token) {
	if t.IsCloseBracket() {
		t.Indent = t.OpenedBy().Indent
		return
	}
	p := t.Parent()
	if p == nil {
		t.Indent = 0
		return
	}
	t.Indent = p.Indent
	if hasNewlineInside(p) {
		t.Indent++
	}
}

// SpecSwitchIndentation indents the statements of a switch case below its
// label.
var SpecSwitchIndentation = &Spec{
	Doc:  "Indent the statements of a switch case one level past the case label.",
	Kind: Default,
	New:  func(*Config) Rule { return &SwitchIndentation{} },
}

type SwitchIndentation struct{}

func (*SwitchIndentation) Priority(m Method) (int, bool) { return 600, m == MethodToken }
func (*SwitchIndentation) Reset()                        {}

var switchTypes = typeindex.Of(token.OPEN_BRACE, token.COLON)

func (*SwitchIndentation) TokenTypes(*typeindex.Index) *typeindex.Table { return &switchTypes }

func (*SwitchIndentation) ProcessToken(t *document.Token) {
	if t.PrevCode() == nil || !isSwitchBody(t) {
		return
	}
	closer := t.ClosedBy()
	for u := t.Next(); u != nil && u != closer; u = u.Next() {
		if u.Parent() != t {
			continue
		}
		switch {
		case u.IsCode && u.IsStatementStart() && !isCaseLabel(u):
			end := u.EndStatement()
			apply(u, end, func(v *document.Token) { v.Indent++ })
			u = end
		case isComment(u):
			if n := u.NextCode(); n != nil && n != closer && !isCaseLabel(n) {
				u.Indent++
			}
		}
	}
}

// SpecHangingIndentation indents lines that continue a statement.
var SpecHangingIndentation = &Spec{
	Doc:  "Indent lines that continue an expression or statement by one level.",
	Kind: Mandatory,
	New:  func(cfg *Config) Rule { return &HangingIndentation{idx: cfg.Index} },
}

// HangingIndentation indents every line of a statement after the first
// one that starts mid-expression.  A statement is indented at most once.
type HangingIndentation struct {
	idx  *typeindex.Index
	seen map[*document.Token]bool
}

func (*HangingIndentation) Priority(m Method) (int, bool) { return 800, m == MethodToken }

func (h *HangingIndentation) Reset() { h.seen = make(map[*document.Token]bool) }

func (*HangingIndentation) TokenTypes(idx *typeindex.Index) *typeindex.Table { return &idx.All }

func (h *HangingIndentation) ProcessToken(t *document.Token) {
	if !t.IsCode || t.InString() || !t.HasNewlineBefore() {
		return
	}
	if t.IsStatementStart() || t.IsCloseBracket() || t.Type == token.OPEN_BRACE && t.Structural {
		return
	}
	prev := t.PrevCode()
	if prev == nil || prev.IsOpenBracket() || prev.Type == token.COMMA || prev.Terminates ||
		endsBlockLine(prev) || isAttributeEnd(prev) || h.opensBody(prev) {
		return
	}
	s := t.Statement()
	if s == nil || h.seen[s] {
		return
	}
	if h.seen == nil {
		h.seen = make(map[*document.Token]bool)
	}
	h.seen[s] = true
	apply(leadingComment(t), t.EndStatement(), func(u *document.Token) { u.HangingIndent++ })
}

// opensBody reports whether the code after prev is the unbraced body of a
// control structure.
func (h *HangingIndentation) opensBody(prev *document.Token) bool {
	if prev.Is(token.ELSE, token.DO) {
		return true
	}
	if prev.Type != token.CLOSE_PAREN {
		return false
	}
	head := prev.OpenedBy().PrevCode()
	return head != nil && h.idx.HasBody.Has(head.Type)
}

// SpecHeredocIndentation sets how far heredoc bodies are indented.
var SpecHeredocIndentation = &Spec{
	Doc:  "Indent heredoc and nowdoc bodies according to the heredoc indentation setting.",
	Kind: Mandatory,
	New:  func(cfg *Config) Rule { return &HeredocIndentation{mode: cfg.HeredocIndent} },
}

type HeredocIndentation struct {
	mode HeredocIndent
}

func (*HeredocIndentation) Priority(m Method) (int, bool) { return 900, m == MethodToken }
func (*HeredocIndentation) Reset()                        {}

var heredocTypes = typeindex.Of(token.START_HEREDOC)

func (*HeredocIndentation) TokenTypes(*typeindex.Index) *typeindex.Table { return &heredocTypes }

func (h *HeredocIndentation) ProcessToken(t *document.Token) {
	switch h.mode {
	case HeredocNone:
		t.HeredocIndent = document.NoHeredocIndent
	case HeredocLine:
		t.HeredocIndent = 0
	case HeredocMixed:
		if t.HasNewlineBefore() {
			t.HeredocIndent = 0
		} else {
			t.HeredocIndent = 1
		}
	case HeredocHanging:
		t.HeredocIndent = 1
	}
}
