// Copyright © 2024 The ELPS authors

// Package document links a flat token stream into a graph: tokens learn
// their neighbours, their code neighbours, their siblings at the same
// bracket depth, the brackets enclosing them and the statement and
// declaration they belong to.  Tokens also carry the whitespace and
// indentation state that formatting rules manipulate.
package document

import (
	"strings"

	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/typeindex"
	"github.com/pkg/errors"
)

// Option configures how a document is linked.
type Option func(*Document)

// WithAttributeComments treats comments that start with "#[" as attributes
// written for an interpreter that does not support them.
func WithAttributeComments(enable bool) Option {
	return func(doc *Document) { doc.attributeComments = enable }
}

// WithStructuralMatchBraces lets the braces of a match expression be
// structural when their content ends with a statement terminator.
func WithStructuralMatchBraces(enable bool) Option {
	return func(doc *Document) { doc.matchStructural = enable }
}

// Document is a linked token graph.
type Document struct {
	File         string
	Tokens       []*Token
	Index        *typeindex.Index
	Declarations []*Declaration

	attributeComments bool
	matchStructural   bool
	problems          []*Problem
}

// New links tokens into a document.  The tokens are copied; tokens is not
// modified.  Unbalanced brackets are reported as an error.
func New(file string, tokens []*token.Token, idx *typeindex.Index, opts ...Option) (doc *Document, err error) {
	doc = &Document{
		File:   file,
		Tokens: make([]*Token, 0, len(tokens)),
		Index:  idx,
	}
	for _, opt := range opts {
		opt(doc)
	}
	defer Recover(&err)
	b := &builder{
		doc:      doc,
		idx:      idx,
		raw:      tokens,
		lastCode: none,
		openTag:  none,
		siblings: make(map[int]int),
	}
	for i, tok := range tokens {
		b.pos = i
		if err := b.add(tok); err != nil {
			return nil, err
		}
	}
	if err := b.finish(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Report records a problem found while formatting the document.
func (doc *Document) Report(p *Problem) {
	doc.problems = append(doc.problems, p)
}

// Problems returns the problems reported so far, in the order reported.
func (doc *Document) Problems() []*Problem {
	return doc.problems
}

// First returns the first token of the document, or nil if it is empty.
func (doc *Document) First() *Token {
	if len(doc.Tokens) == 0 {
		return nil
	}
	return doc.Tokens[0]
}

// Last returns the last token of the document, or nil if it is empty.
func (doc *Document) Last() *Token {
	if len(doc.Tokens) == 0 {
		return nil
	}
	return doc.Tokens[len(doc.Tokens)-1]
}

// Statements returns the first token of every statement directly inside
// the top level of the file or a block.
func (doc *Document) Statements() []*Token {
	var stmts []*Token
	for _, t := range doc.Tokens {
		if t.IsCode && t.IsStatementStart() && t.InBlock() {
			stmts = append(stmts, t)
		}
	}
	return stmts
}

type builder struct {
	doc      *Document
	idx      *typeindex.Index
	raw      []*token.Token
	pos      int // index in raw of the token being added
	stack    []int
	strs     []int
	lastCode int
	openTag  int
	maxLine  int
	siblings map[int]int // parent index -> last sibling seen
}

func (b *builder) tok(i int) *Token {
	if i == none {
		return nil
	}
	return b.doc.Tokens[i]
}

func (b *builder) top() *Token {
	if len(b.stack) == 0 {
		return nil
	}
	return b.tok(b.stack[len(b.stack)-1])
}

func (b *builder) add(raw *token.Token) error {
	t := newToken(b.doc, raw)
	if b.doc.attributeComments && t.Type == token.COMMENT && strings.HasPrefix(t.Text, "#[") {
		t.Type = token.ATTRIBUTE_COMMENT
	}
	if b.closesAltSyntax(t) {
		v := newToken(b.doc, &token.Token{Type: token.END_ALT_SYNTAX, Line: t.Line, Col: t.Col, Pos: t.Pos})
		v.IsVirtual = true
		if err := b.link(v); err != nil {
			return err
		}
	}
	return b.link(t)
}

// closesAltSyntax reports whether a virtual token must be inserted before t
// to close an alternative syntax block.
func (b *builder) closesAltSyntax(t *Token) bool {
	top := b.top()
	if top == nil || top.sub != AltSyntaxColon {
		return false
	}
	if b.idx.AltSyntaxEnd.Has(t.Type) {
		return true
	}
	if !b.idx.AltSyntaxContinue.Has(t.Type) {
		return false
	}
	// "else" and "elseif" of an if statement nested inside the block
	// continue that statement unless they start alternative syntax.
	return b.startsAltSyntax(t.Type)
}

// startsAltSyntax reports whether the continuation keyword kw at b.pos is
// followed by an alternative syntax colon.
func (b *builder) startsAltSyntax(kw token.Type) bool {
	next := b.nextRawCode(b.pos + 1)
	if kw == token.ELSEIF {
		if next == none || b.raw[next].Type != token.OPEN_PAREN {
			return false
		}
		depth := 0
		i := next
		for ; i < len(b.raw); i++ {
			switch b.raw[i].Type {
			case token.OPEN_PAREN:
				depth++
			case token.CLOSE_PAREN:
				depth--
			}
			if depth == 0 {
				break
			}
		}
		next = b.nextRawCode(i + 1)
	}
	return next != none && b.raw[next].Type == token.COLON
}

func (b *builder) nextRawCode(i int) int {
	for ; i < len(b.raw); i++ {
		if !b.idx.NotCode.Has(b.raw[i].Type) {
			return i
		}
	}
	return none
}

func (b *builder) link(t *Token) error {
	doc := b.doc
	t.Index = len(doc.Tokens)
	doc.Tokens = append(doc.Tokens, t)
	if t.Index > 0 {
		t.prev = t.Index - 1
		doc.Tokens[t.prev].next = t.Index
	}
	t.prevEndLine = b.maxLine
	if !t.IsVirtual {
		if end := t.EndLine(); end > b.maxLine {
			b.maxLine = end
		}
	}

	b.linkTags(t)

	t.IsCode = !b.idx.NotCode.Has(t.Type)
	t.prevCode = b.lastCode
	if t.Type == token.CLOSE_TAG {
		if prev := b.tok(b.lastCode); prev != nil &&
			!prev.Is(token.SEMICOLON, token.OPEN_BRACE, token.CLOSE_BRACE, token.COLON, token.CLOSE_TAG) {
			t.IsCode = true
		}
	}

	if err := b.linkBrackets(t); err != nil {
		return err
	}
	b.linkString(t)
	if t.IsCode {
		b.linkSibling(t)
		b.lastCode = t.Index
	}
	return nil
}

func (b *builder) linkTags(t *Token) {
	switch t.Type {
	case token.OPEN_TAG, token.OPEN_TAG_WITH_ECHO:
		b.openTag = t.Index
		t.openTag = t.Index
	case token.CLOSE_TAG:
		t.openTag = b.openTag
		if b.openTag != none {
			for _, u := range b.doc.Tokens[b.openTag : t.Index+1] {
				u.closeTag = t.Index
			}
		}
		b.openTag = none
	default:
		t.openTag = b.openTag
	}
}

func (b *builder) linkBrackets(t *Token) error {
	t.stack = b.stack
	t.parent = none
	if top := b.top(); top != nil {
		t.parent = top.Index
	}
	switch {
	case t.IsVirtual, t.IsCode && b.idx.CloseBracket.Has(t.Type):
		open := b.top()
		if open == nil || !matches(open.Type, t.Type) {
			return b.errorf(t, "unexpected %q", t.Text)
		}
		t.openedBy = open.Index
		open.closedBy = t.Index
		b.stack = b.stack[:len(b.stack)-1]
		t.stack = open.stack
		t.parent = open.parent
	case !t.IsCode:
	case b.idx.OpenBracket.Has(t.Type):
		b.push(t)
	case t.Type == token.COLON && b.isAltSyntaxColon(t):
		t.sub = AltSyntaxColon
		b.push(t)
	}
	return nil
}

func (b *builder) push(t *Token) {
	// The full slice expression forces a copy so stacks already stored on
	// earlier tokens are never overwritten.
	b.stack = append(b.stack[:len(b.stack):len(b.stack)], t.Index)
}

func (b *builder) isAltSyntaxColon(t *Token) bool {
	prev := b.tok(b.lastCode)
	switch {
	case prev == nil:
		return false
	case prev.Type == token.ELSE:
		return true
	case prev.Type == token.CLOSE_PAREN:
		kw := prev.OpenedBy().PrevCode()
		return kw != nil && b.idx.AltSyntaxStart.Has(kw.Type)
	}
	return false
}

func matches(open, close token.Type) bool {
	switch close {
	case token.CLOSE_PAREN:
		return open == token.OPEN_PAREN
	case token.CLOSE_BRACKET:
		return open == token.OPEN_BRACKET || open == token.ATTRIBUTE
	case token.CLOSE_BRACE:
		return open == token.OPEN_BRACE || open == token.CURLY_OPEN || open == token.DOLLAR_OPEN_CURLY_BRACES
	case token.END_ALT_SYNTAX:
		return open == token.COLON
	}
	return false
}

func (b *builder) linkString(t *Token) {
	t.str = none
	if n := len(b.strs); n > 0 {
		t.str = b.strs[n-1]
	}
	if open := b.tok(t.str); open != nil && b.idx.StringEnd.Has(t.Type) &&
		closesString(open.Type, t.Type) && len(open.stack) == len(t.stack) {
		open.strClosedBy = t.Index
		b.strs = b.strs[:len(b.strs)-1]
		return
	}
	if b.idx.StringStart.Has(t.Type) {
		b.strs = append(b.strs, t.Index)
	}
}

func closesString(open, close token.Type) bool {
	switch close {
	case token.DOUBLE_QUOTE, token.BACKTICK:
		return open == close
	case token.END_HEREDOC:
		return open == token.START_HEREDOC
	}
	return false
}

func (b *builder) linkSibling(t *Token) {
	if t.IsCloseBracket() {
		return
	}
	if prev, ok := b.siblings[t.parent]; ok {
		t.prevSibling = prev
		b.doc.Tokens[prev].nextSibling = t.Index
	}
	b.siblings[t.parent] = t.Index
}

func (b *builder) errorf(t *Token, format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    errors.Errorf(format, v...),
		Source: t.Location(),
	}
}

func (b *builder) finish() error {
	if open := b.top(); open != nil {
		return b.errorf(open, "%q is never closed", open.Text)
	}
	tokens := b.doc.Tokens
	next := none
	for i := len(tokens) - 1; i >= 0; i-- {
		tokens[i].nextCode = next
		if tokens[i].IsCode {
			next = i
		}
	}
	for _, t := range tokens {
		if t.Type == token.CLOSE_BRACE && t.IsCloseBracket() {
			open := t.OpenedBy()
			if open.Type == token.OPEN_BRACE && b.isStructural(open, t) {
				open.Structural = true
				t.Structural = true
			}
		}
	}
	for _, t := range tokens {
		if t.IsCode {
			b.linkStatement(t)
		}
	}
	for _, t := range tokens {
		if t.IsCode && t.IsStatementStart() && t.InBlock() {
			if kind := b.declarationKind(t); kind != NoDeclaration {
				d := &Declaration{Kind: kind, Start: t, End: t.EndStatement()}
				t.decl = d
				b.doc.Declarations = append(b.doc.Declarations, d)
			}
		}
	}
	return nil
}

func (b *builder) isStructural(open, close *Token) bool {
	prev := open.PrevCode()
	if IsMatchBrace(open) && !b.doc.matchStructural {
		return false
	}
	inner := close.PrevCode()
	if inner == open {
		return prev == nil || !prev.Is(
			token.OBJECT_OPERATOR, token.NULLSAFE_OBJECT_OPERATOR, token.DOUBLE_COLON,
			token.DOLLAR, token.NS_SEPARATOR, token.VARIABLE, token.CLOSE_BRACKET,
		)
	}
	switch inner.Type {
	case token.SEMICOLON, token.CLOSE_TAG:
		return true
	case token.CLOSE_BRACE:
		return inner.Structural
	case token.COLON:
		return isCaseColon(inner)
	}
	return false
}

// isCaseColon reports whether the colon t ends a "case" or "default" label.
// Statements are not linked yet when braces are classified, so the label is
// found by walking back through siblings.
func isCaseColon(t *Token) bool {
	for s := t.PrevSibling(); s != nil; s = s.PrevSibling() {
		switch s.Type {
		case token.CASE, token.DEFAULT:
			return true
		case token.SEMICOLON, token.COLON, token.CLOSE_BRACE:
			return false
		}
	}
	return false
}

// IsMatchBrace reports whether open is the brace that opens the body of a
// match expression.
func IsMatchBrace(open *Token) bool {
	if open.Type != token.OPEN_BRACE {
		return false
	}
	prev := open.PrevCode()
	if prev == nil || prev.Type != token.CLOSE_PAREN {
		return false
	}
	kw := prev.OpenedBy().PrevCode()
	return kw != nil && kw.Type == token.MATCH
}

func (b *builder) linkStatement(t *Token) {
	switch {
	case t.IsCloseBracket():
		t.statement = t.OpenedBy().statement
	case t.prevSibling == none || b.endsStatement(t.PrevSibling()):
		t.statement = t.Index
	default:
		t.statement = t.PrevSibling().statement
	}
	b.doc.Tokens[t.statement].endStmt = t.Index
	t.Terminates = b.isTerminator(t)
}

// endsStatement reports whether the sibling s is the last sibling of its
// statement.
func (b *builder) endsStatement(s *Token) bool {
	if s.IsOpenBracket() {
		return s.ClosedBy().Terminates
	}
	return s.Terminates
}

func (b *builder) isTerminator(t *Token) bool {
	switch t.Type {
	case token.SEMICOLON, token.CLOSE_TAG:
		return true
	case token.COMMA:
		p := t.Parent()
		return p != nil && !p.IsBlock()
	case token.COLON:
		if t.sub == AltSyntaxColon {
			return false
		}
		sub := t.SubType()
		return sub == SwitchCaseColon || sub == LabelColon
	case token.CLOSE_BRACE:
		return t.Structural && !b.continuesAfter(t)
	}
	return false
}

var controlHeads = []token.Type{
	token.IF, token.ELSEIF, token.ELSE, token.WHILE, token.FOR, token.FOREACH,
	token.SWITCH, token.CATCH, token.DECLARE, token.TRY, token.FINALLY, token.DO,
}

// continuesAfter reports whether the statement containing the structural
// close brace t continues after it.
func (b *builder) continuesAfter(t *Token) bool {
	next := t.NextCode()
	if next == nil {
		return false
	}
	open := t.OpenedBy()
	switch next.Type {
	case token.ELSE, token.ELSEIF, token.CATCH, token.FINALLY:
		return true
	case token.WHILE:
		if prev := open.PrevCode(); prev != nil && prev.Type == token.DO {
			return true
		}
	}
	if isBlockBrace(open) {
		return false
	}
	idx := b.idx
	return next.Is(token.CLOSE_PAREN, token.CLOSE_BRACKET, token.COMMA, token.SEMICOLON,
		token.DOUBLE_COLON, token.OPEN_PAREN, token.OPEN_BRACKET, token.AS, token.INSTANCEOF) ||
		idx.Chain.Has(next.Type) || idx.Binary.Has(next.Type) || idx.Assignment.Has(next.Type)
}

// isBlockBrace reports whether open is the body of a control structure or
// a named declaration, after which no expression can continue.
func isBlockBrace(open *Token) bool {
	head := open.PrevCode()
	if head != nil && head.Type == token.CLOSE_PAREN {
		head = head.OpenedBy().PrevCode()
		if head != nil && head.Type == token.STRING {
			if fn := head.PrevCode(); fn != nil && fn.Is(token.FUNCTION, token.AND) {
				return true
			}
		}
	}
	if head != nil && head.Is(controlHeads...) {
		return true
	}
	start := open.Statement()
	if start == nil {
		return false
	}
	for start.Type == token.ATTRIBUTE {
		if start = start.ClosedBy().NextCode(); start == nil {
			return false
		}
	}
	return start.Is(token.CLASS, token.INTERFACE, token.TRAIT, token.ENUM, token.ABSTRACT,
		token.FINAL, token.READONLY, token.NAMESPACE)
}

func (b *builder) declarationKind(s *Token) DeclarationKind {
	t := s
	for t != nil && t.Type == token.ATTRIBUTE {
		t = t.ClosedBy().NextCode()
	}
	modifiers := false
	for t != nil && b.idx.Modifier.Has(t.Type) {
		// "static fn" and "static function" are closures, "static::" a
		// scope.
		if t.Type == token.STATIC && !modifiers {
			if n := t.NextCode(); n != nil && n.Is(token.FN, token.DOUBLE_COLON, token.OPEN_PAREN) {
				return NoDeclaration
			}
		}
		modifiers = true
		t = t.NextCode()
	}
	if t == nil {
		return NoDeclaration
	}
	body := s.Parent()
	switch t.Type {
	case token.NAMESPACE:
		return Namespace
	case token.USE:
		if body != nil && classLikeBody(body) != token.INVALID {
			return UseTrait
		}
		if n := t.NextCode(); n != nil {
			switch n.Type {
			case token.FUNCTION:
				return UseFunction
			case token.CONST:
				return UseConst
			}
		}
		return Use
	case token.CONST:
		return Const
	case token.CLASS:
		return Class
	case token.INTERFACE:
		return Interface
	case token.TRAIT:
		return Trait
	case token.ENUM:
		return Enum
	case token.CASE:
		if body != nil && classLikeBody(body) == token.ENUM {
			return EnumCase
		}
	case token.FUNCTION:
		n := t.NextCode()
		if n != nil && n.Type == token.AND {
			n = n.NextCode()
		}
		if n != nil && n.Type == token.STRING {
			return Function
		}
	case token.DECLARE:
		if body == nil || body.Type != token.OPEN_BRACE {
			return Declare
		}
	default:
		if modifiers && body != nil && classLikeBody(body) != token.INVALID {
			return Property
		}
	}
	return NoDeclaration
}

// classLikeBody returns the keyword that declared the type whose body is
// the brace open, or INVALID if open is not the body of a type.
func classLikeBody(open *Token) token.Type {
	if open.Type != token.OPEN_BRACE {
		return token.INVALID
	}
	for t := open.PrevSibling(); t != nil; t = t.PrevSibling() {
		if t.Is(token.CLASS, token.INTERFACE, token.TRAIT, token.ENUM) {
			if p := t.PrevCode(); p != nil && p.Type == token.DOUBLE_COLON {
				return token.INVALID
			}
			return t.Type
		}
		if t.IsStatementStart() {
			break
		}
	}
	return token.INVALID
}
