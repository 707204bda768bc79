// Copyright © 2024 The ELPS authors

package rule

import (
	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
)

// SpecPreserveNewlines keeps line breaks from the source where the newline
// policy allows them.
var SpecPreserveNewlines = &Spec{
	Doc:  "Keep line breaks and blank lines from the source next to tokens that allow them.",
	Kind: Default,
	New:  func(cfg *Config) Rule { return &PreserveNewlines{idx: cfg.Index} },
}

// PreserveNewlines requests a line break, or a blank line, wherever the
// source had one and the type index allows it.
type PreserveNewlines struct {
	idx *typeindex.Index
}

func (*PreserveNewlines) Priority(m Method) (int, bool) { return 93, m == MethodToken }
func (*PreserveNewlines) Reset()                        {}

func (*PreserveNewlines) TokenTypes(idx *typeindex.Index) *typeindex.Table { return &idx.All }

func (r *PreserveNewlines) ProcessToken(t *document.Token) {
	if t.IsVirtual || t.InString() {
		return
	}
	prev := prevReal(t)
	if prev == nil {
		return
	}
	n := t.LinesBefore()
	if n == 0 {
		return
	}
	idx := r.idx
	if n > 1 && (idx.PreserveBlankBefore.Has(t.Type) || idx.PreserveBlankAfter.Has(prev.Type)) {
		t.AddBefore(document.Blank)
		return
	}
	if idx.PreserveNewlineBefore.Has(t.Type) || idx.PreserveNewlineAfter.Has(prev.Type) {
		t.AddBefore(document.Line)
	}
}

// SpecPreserveOneLineStatements keeps statements written on one line on
// one line.
var SpecPreserveOneLineStatements = &Spec{
	Doc:  "Keep statements that fit on one line in the source on one line.",
	Kind: Optional,
	New:  func(*Config) Rule { return &PreserveOneLineStatements{} },
}

type PreserveOneLineStatements struct{}

func (*PreserveOneLineStatements) Priority(m Method) (int, bool) { return 95, m == MethodStatement }
func (*PreserveOneLineStatements) Reset()                        {}

func (*PreserveOneLineStatements) ProcessStatement(start, end *document.Token) {
	PreserveOneLine(start, end, false)
}

// SpecBlankLineBeforeReturn separates return and yield statements from the
// statements before them.
var SpecBlankLineBeforeReturn = &Spec{
	Doc:  "Add a blank line before return and yield statements that follow another statement.",
	Kind: Optional,
	New:  func(*Config) Rule { return &BlankLineBeforeReturn{} },
}

type BlankLineBeforeReturn struct{}

func (*BlankLineBeforeReturn) Priority(m Method) (int, bool) { return 97, m == MethodStatement }
func (*BlankLineBeforeReturn) Reset()                        {}

func (*BlankLineBeforeReturn) ProcessStatement(start, end *document.Token) {
	if !start.Is(token.RETURN, token.YIELD, token.YIELD_FROM) {
		return
	}
	prev := start.PrevCode()
	if prev == nil {
		return
	}
	if prev.Type == token.SEMICOLON || prev.Type == token.CLOSE_BRACE && prev.Structural {
		leadingComment(start).AddBefore(document.Blank)
	}
}

// SpecDeclarationSpacing separates declarations with blank lines.
var SpecDeclarationSpacing = &Spec{
	Doc: `Add blank lines between declarations.

Classes, functions with a body and declarations that follow a different
kind of statement are separated from the statement before them.  Runs of
the same kind of declaration, such as "use" imports or properties, keep
the spacing they have in the source.`,
	Kind: Default,
	New:  func(*Config) Rule { return &DeclarationSpacing{} },
}

type DeclarationSpacing struct{}

func (*DeclarationSpacing) Priority(m Method) (int, bool) { return 620, m == MethodDeclaration }
func (*DeclarationSpacing) Reset()                        {}

func (*DeclarationSpacing) DeclarationKinds() []document.DeclarationKind { return nil }

func (*DeclarationSpacing) ProcessDeclaration(d *document.Declaration) {
	if hasBody(d) {
		if next := d.End.NextCode(); next != nil && !next.IsCloseBracket() {
			leadingComment(next).AddBefore(document.Blank)
		}
	}
	prev := d.Start.PrevCode()
	if prev == nil || prev.IsOpenBracket() {
		return
	}
	blank := d.Kind.IsClassLike() || d.Kind == document.Function && hasBody(d)
	if !blank {
		var before *document.Declaration
		if s := prev.Statement(); s != nil {
			before = s.Declaration()
		}
		blank = before == nil || before.Kind != d.Kind || hasBody(before)
	}
	if blank {
		leadingComment(d.Start).AddBefore(document.Blank)
	}
}

// hasBody reports whether d ends with a brace-delimited body.
func hasBody(d *document.Declaration) bool {
	return d.End != nil && d.End.Type == token.CLOSE_BRACE
}
