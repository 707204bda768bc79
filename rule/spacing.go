// Copyright © 2024 The ELPS authors

package rule

import (
	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
)

// Masks that remove one kind of whitespace from a gap.
const (
	noSpace = document.Line | document.Blank
	noBlank = document.Space | document.Line
)

// SpecProtectStrings keeps the text of strings, heredocs and inline HTML
// exactly as written.
var SpecProtectStrings = &Spec{
	Doc:  "Keep whitespace inside strings, heredocs and inline HTML unchanged.",
	Kind: Mandatory,
	New:  func(*Config) Rule { return &ProtectStrings{} },
}

// ProtectStrings suppresses whitespace inside strings and next to inline
// HTML through the critical mask.
type ProtectStrings struct{}

func (*ProtectStrings) Priority(m Method) (int, bool) { return 40, m == MethodToken }
func (*ProtectStrings) Reset()                        {}

func (*ProtectStrings) TokenTypes(idx *typeindex.Index) *typeindex.Table { return &idx.All }

func (*ProtectStrings) ProcessToken(t *document.Token) {
	if t.InString() {
		t.CriticalMaskBefore(document.None)
	}
	switch t.Type {
	case token.INLINE_HTML:
		t.CriticalMaskBefore(document.None)
		t.CriticalMaskAfter(document.None)
	case token.CLOSE_TAG:
		t.CriticalMaskAfter(document.None)
	}
}

// SpecIndexSpacing removes whitespace inside brackets and around member
// access.
var SpecIndexSpacing = &Spec{
	Doc:  "Remove spaces inside brackets, around \"->\" and \"::\" and before argument lists and indexes.",
	Kind: Mandatory,
	New: func(cfg *Config) Rule {
		idx := cfg.Index
		r := &IndexSpacing{idx: idx}
		r.types = idx.OpenBracket.Union(idx.CloseBracket, idx.Chain).
			Add(token.DOUBLE_COLON, token.COMMA, token.SEMICOLON)
		r.calls = idx.Name.Union(idx.MagicConstant).Add(
			token.VARIABLE, token.CLOSE_PAREN, token.CLOSE_BRACKET, token.CLOSE_BRACE,
			token.ARRAY, token.LIST, token.ISSET, token.EMPTY, token.EXIT, token.EVAL,
			token.UNSET, token.DECLARE, token.STATIC, token.CONSTANT_ENCAPSED_STRING,
			token.END_HEREDOC, token.DOUBLE_QUOTE,
		)
		return r
	},
}

// IndexSpacing removes spaces inside brackets, around member access and
// before argument lists and indexes.
type IndexSpacing struct {
	idx   *typeindex.Index
	types typeindex.Table
	calls typeindex.Table // tokens an argument list or index may follow
}

func (*IndexSpacing) Priority(m Method) (int, bool) { return 78, m == MethodToken }
func (*IndexSpacing) Reset()                        {}

func (r *IndexSpacing) TokenTypes(*typeindex.Index) *typeindex.Table { return &r.types }

func (r *IndexSpacing) ProcessToken(t *document.Token) {
	if t.InString() {
		return
	}
	switch {
	case t.Is(token.OPEN_PAREN, token.OPEN_BRACKET, token.ATTRIBUTE):
		t.MaskAfter(noSpace)
		if t.Type == token.ATTRIBUTE {
			return
		}
		prev := t.Prev()
		if prev != nil && prev == t.PrevCode() && r.calls.Has(prev.Type) &&
			!(prev.Type == token.CLOSE_BRACE && prev.Structural) {
			t.MaskBefore(document.None)
		}
	case t.Is(token.CLOSE_PAREN, token.CLOSE_BRACKET):
		t.MaskBefore(noSpace)
	case t.Type == token.DOUBLE_COLON:
		t.MaskBefore(document.None)
		t.MaskAfter(document.None)
	case r.idx.Chain.Has(t.Type):
		t.MaskBefore(document.Line)
		t.MaskAfter(document.None)
	case t.Is(token.COMMA, token.SEMICOLON):
		t.MaskBefore(document.None)
	}
}

// SpecOperatorSpacing surrounds binary operators with spaces and attaches
// unary operators to their operands.
var SpecOperatorSpacing = &Spec{
	Doc:  "Put spaces around binary, assignment and ternary operators and attach unary operators to their operands.",
	Kind: Mandatory,
	New: func(cfg *Config) Rule {
		idx := cfg.Index
		r := &OperatorSpacing{idx: idx}
		r.types = idx.Binary.Union(idx.Assignment, idx.Unary).
			Add(token.DOUBLE_ARROW, token.ELLIPSIS, token.AND, token.OR, token.INC, token.DEC)
		return r
	},
}

// OperatorSpacing applies spacing to operators by sub-type.
type OperatorSpacing struct {
	idx   *typeindex.Index
	types typeindex.Table
}

func (*OperatorSpacing) Priority(m Method) (int, bool) { return 80, m == MethodToken }
func (*OperatorSpacing) Reset()                        {}

func (r *OperatorSpacing) TokenTypes(*typeindex.Index) *typeindex.Table { return &r.types }

func (r *OperatorSpacing) ProcessToken(t *document.Token) {
	if t.InString() || t.PrevCode() == nil && t.Type == token.COLON {
		return
	}
	idx := r.idx
	switch t.Type {
	case token.QUESTION:
		if t.SubType() == document.NullableQuestion {
			t.MaskAfter(document.None)
			return
		}
		t.AddBefore(document.Space)
		if n := t.NextCode(); n != nil && n.Type == token.COLON && n == t.Next() {
			// "?:"
			t.MaskAfter(document.None)
			return
		}
		t.AddAfter(document.Space)
		return
	case token.COLON:
		if t.SubType() != document.TernaryColon {
			return
		}
		if p := t.Prev(); p == nil || p.Type != token.QUESTION {
			t.AddBefore(document.Space)
		}
		t.AddAfter(document.Space)
		return
	case token.DOUBLE_ARROW:
		t.AddBefore(document.Space)
		t.AddAfter(document.Space)
		return
	case token.ELLIPSIS:
		t.AddBefore(document.Space)
		t.MaskAfter(document.None)
		return
	}

	switch t.SubType() {
	case document.TypeOperator:
		t.MaskBefore(document.None)
		t.MaskAfter(document.None)
		return
	case document.ReferenceOperator:
		t.AddBefore(document.Space)
		t.MaskAfter(document.None)
		return
	case document.UnaryOperator:
		t.MaskAfter(document.None)
		return
	case document.PostfixOperator:
		t.MaskBefore(document.None)
		return
	}

	switch {
	case idx.Cast.Has(t.Type):
		t.AddAfter(document.Space)
	case idx.Unary.Has(t.Type):
		t.MaskAfter(document.None)
	case idx.Assignment.Has(t.Type):
		if t.Type == token.EQUAL && inDeclare(t) {
			t.MaskBefore(document.None)
			t.MaskAfter(document.None)
			return
		}
		t.AddBefore(document.Space)
		t.AddAfter(document.Space)
	case idx.Binary.Has(t.Type):
		t.AddBefore(document.Space)
		t.AddAfter(document.Space)
	}
}

// inDeclare reports whether t is inside the parentheses of a declare
// statement.
func inDeclare(t *document.Token) bool {
	p := t.Parent()
	if p == nil || p.Type != token.OPEN_PAREN {
		return false
	}
	kw := p.PrevCode()
	return kw != nil && kw.Type == token.DECLARE
}

// SpecStandardSpacing applies the spacing of keywords, delimiters, braces
// and tags.
var SpecStandardSpacing = &Spec{
	Doc:  "Space keywords, commas, statement terminators, braces, colons, attributes and tags.",
	Kind: Mandatory,
	New: func(cfg *Config) Rule {
		idx := cfg.Index
		r := &StandardSpacing{idx: idx}
		r.types = idx.Keyword.Union(idx.OpenBracket, idx.CloseBracket, idx.Name).Add(
			token.COMMA, token.SEMICOLON, token.COLON, token.OPEN_TAG,
			token.OPEN_TAG_WITH_ECHO, token.CLOSE_TAG, token.VARIABLE, token.END_ALT_SYNTAX,
		)
		r.words = idx.Keyword.Union(idx.Value).Remove(token.NS_SEPARATOR)
		return r
	},
}

// StandardSpacing spaces keywords, delimiters, braces and tags.
type StandardSpacing struct {
	idx   *typeindex.Index
	types typeindex.Table
	words typeindex.Table // tokens separated from a following name by a space
}

func (*StandardSpacing) Priority(m Method) (int, bool) { return 80, m == MethodToken }
func (*StandardSpacing) Reset()                        {}

func (r *StandardSpacing) TokenTypes(*typeindex.Index) *typeindex.Table { return &r.types }

func (r *StandardSpacing) ProcessToken(t *document.Token) {
	if t.InString() {
		return
	}
	idx := r.idx
	switch {
	case t.IsVirtual:
		t.MaskBefore(noBlank)
		return
	case idx.Keyword.Has(t.Type):
		r.keyword(t)
		return
	case idx.Name.Has(t.Type), t.Type == token.VARIABLE:
		// A namespace separator only follows a keyword with a space.
		if p := t.PrevCode(); p != nil && p == prevReal(t) && r.words.Has(p.Type) &&
			(t.Type != token.NS_SEPARATOR || idx.Keyword.Has(p.Type)) {
			t.AddBefore(document.Space)
		}
		return
	}

	switch t.Type {
	case token.OPEN_TAG, token.OPEN_TAG_WITH_ECHO:
		t.AddAfter(document.Space)
	case token.CLOSE_TAG:
		t.AddBefore(document.Space)
	case token.COMMA:
		t.MaskBefore(document.None)
		t.AddAfter(document.Space)
		if p := t.Parent(); p != nil && document.IsMatchBrace(p) && endsMatchArm(t) {
			t.AddAfter(document.Line)
		}
	case token.SEMICOLON:
		r.semicolon(t)
	case token.COLON:
		r.colon(t)
	case token.OPEN_BRACE:
		r.openBrace(t)
	case token.CLOSE_BRACE:
		r.closeBrace(t)
	case token.ATTRIBUTE, token.OPEN_PAREN, token.OPEN_BRACKET:
		t.MaskAfter(noBlank)
	case token.CLOSE_BRACKET:
		t.MaskBefore(noBlank)
		if isAttributeEnd(t) {
			if t.OpenedBy().InBlock() {
				t.AddAfter(document.Line)
			} else {
				t.AddAfter(document.Space)
			}
		}
	case token.CLOSE_PAREN:
		t.MaskBefore(noBlank)
	}
}

func (r *StandardSpacing) keyword(t *document.Token) {
	t.AddBefore(document.Space)
	t.AddAfter(document.Space)
	switch t.Type {
	case token.ELSE, token.ELSEIF, token.CATCH, token.FINALLY:
		if p := t.PrevCode(); p != nil && p.Type == token.CLOSE_BRACE && p.Structural {
			t.MaskBefore(document.Space)
		}
	case token.WHILE:
		if p := t.PrevCode(); p != nil && p.Type == token.CLOSE_BRACE && p.Structural {
			if head := p.OpenedBy().PrevCode(); head != nil && head.Type == token.DO {
				t.MaskBefore(document.Space)
			}
		}
	}
}

func (r *StandardSpacing) semicolon(t *document.Token) {
	if !t.InBlock() {
		t.AddAfter(document.Space)
		return
	}
	if n := nextReal(t); n != nil && n.Type == token.CLOSE_TAG {
		t.AddAfter(document.Space)
		return
	}
	t.AddAfter(document.Line)
}

func (r *StandardSpacing) colon(t *document.Token) {
	if t.PrevCode() == nil {
		return
	}
	switch t.SubType() {
	case document.AltSyntaxColon, document.SwitchCaseColon, document.LabelColon:
		t.MaskBefore(document.None)
		t.AddAfter(document.Line)
		if t.IsOpenBracket() {
			t.MaskAfter(noBlank)
		}
	case document.NamedArgumentColon, document.ReturnTypeColon, document.EnumBackingColon:
		t.MaskBefore(document.None)
		t.AddAfter(document.Space)
	}
}

func (r *StandardSpacing) openBrace(t *document.Token) {
	closer := t.ClosedBy()
	if closer == nil {
		return
	}
	empty := t.Next() == closer
	t.MaskAfter(noBlank)
	switch {
	case t.Structural:
		if !empty && r.declarationBody(t) {
			t.AddBefore(document.Line)
		} else {
			t.AddBefore(document.Space)
		}
	case document.IsMatchBrace(t):
		t.AddBefore(document.Space)
	default:
		return
	}
	if empty {
		t.MaskAfter(document.None)
		return
	}
	t.AddAfter(document.Line)
}

// declarationBody reports whether the structural brace t is the body of a
// class-like or function declaration.
func (r *StandardSpacing) declarationBody(t *document.Token) bool {
	s := t.Statement()
	if s == nil {
		return false
	}
	d := s.Declaration()
	return d != nil && (d.Kind.IsClassLike() || d.Kind == document.Function)
}

func (r *StandardSpacing) closeBrace(t *document.Token) {
	open := t.OpenedBy()
	if open == nil {
		return
	}
	t.MaskBefore(noBlank)
	if !t.Structural && !document.IsMatchBrace(open) {
		return
	}
	t.AddBefore(document.Line)
	if t.Terminates {
		t.AddAfter(document.Line)
	}
}

// SpecControlStructureSpacing moves the body of a control structure written
// without braces onto a line of its own.
var SpecControlStructureSpacing = &Spec{
	Doc:  "Put the body of a control structure without braces on its own line, indented one level.",
	Kind: Default,
	New:  func(*Config) Rule { return &ControlStructureSpacing{} },
}

// ControlStructureSpacing indents the unbraced body of if, else, for,
// foreach, while and do.
type ControlStructureSpacing struct{}

func (*ControlStructureSpacing) Priority(m Method) (int, bool) { return 83, m == MethodToken }
func (*ControlStructureSpacing) Reset()                        {}

func (*ControlStructureSpacing) TokenTypes(idx *typeindex.Index) *typeindex.Table {
	return &idx.HasBody
}

func (*ControlStructureSpacing) ProcessToken(t *document.Token) {
	if t.InString() {
		return
	}
	head := t
	switch t.Type {
	case token.ELSE, token.DO:
	case token.WHILE:
		if p := t.PrevCode(); p != nil && p.Type == token.CLOSE_BRACE && p.Structural {
			if kw := p.OpenedBy().PrevCode(); kw != nil && kw.Type == token.DO {
				return
			}
		}
		fallthrough
	default:
		paren := t.NextCode()
		if paren == nil || paren.Type != token.OPEN_PAREN {
			return
		}
		head = paren.ClosedBy()
	}
	body := head.NextCode()
	if body == nil || body.Is(token.OPEN_BRACE, token.COLON, token.SEMICOLON, token.CLOSE_TAG) {
		return
	}
	if t.Type == token.ELSE && body.Type == token.IF {
		return
	}
	end := body.EndStatement()
	if end == nil || end.Index < body.Index {
		return
	}
	body.AddBefore(document.Line)
	apply(body, end, func(u *document.Token) { u.PreIndent++ })
}

// endsMatchArm reports whether the comma t follows the "=>" of a match arm
// rather than separating the arm's conditions.
func endsMatchArm(t *document.Token) bool {
	for s := t.PrevSibling(); s != nil && s.Type != token.COMMA; s = s.PrevSibling() {
		if s.Type == token.DOUBLE_ARROW {
			return true
		}
	}
	return false
}
