// Copyright © 2024 The ELPS authors

package document

import (
	"strings"

	"github.com/luthersystems/prettyphp/parser/token"
)

const none = -1

// Token is a token in a linked document.  Relationships are stored as
// indices into the document's token arena and exposed through accessors
// that return nil when there is no related token.
type Token struct {
	doc *Document

	Index int
	Type  token.Type
	Text  string
	Line  int // source line of the first byte of Text
	Col   int // source column, when collected
	Pos   int

	// OriginalText is the text produced by the lexer, before any filter
	// changed it.
	OriginalText string

	IsCode     bool
	IsVirtual  bool
	Terminates bool // t is the last token of its statement
	Structural bool // an OPEN_BRACE/CLOSE_BRACE pair delimiting statements

	prev, next         int
	prevCode, nextCode int
	prevSibling        int
	nextSibling        int
	parent             int
	openedBy, closedBy int
	stack              []int
	str, strClosedBy   int
	openTag, closeTag  int
	statement, endStmt int
	decl               *Declaration
	sub                SubType
	prevEndLine        int

	ws spacing

	// Indentation counters.  The sum PreIndent + Indent + HangingIndent -
	// Deindent is the indentation level of a line starting with t;
	// LinePadding - LineUnpadding is added to it in columns.
	PreIndent     int
	Indent        int
	Deindent      int
	HangingIndent int
	LinePadding   int
	LineUnpadding int

	// Padding is a number of spaces inserted before t after its resolved
	// whitespace, used to align tokens within a line.
	Padding int

	// HeredocIndent is set on START_HEREDOC tokens to the number of levels
	// the heredoc body is indented past the line it starts on, or
	// NoHeredocIndent to render the body at column zero.
	HeredocIndent int

	// Output is the position of t in the rendered document, or nil until
	// the document is rendered.
	Output *Position
}

// NoHeredocIndent places a heredoc body at column zero.
const NoHeredocIndent = -1

// Position is a line and column in rendered output.
type Position struct {
	Line int
	Col  int
}

func newToken(doc *Document, tok *token.Token) *Token {
	return &Token{
		doc:          doc,
		Type:         tok.Type,
		Text:         tok.Text,
		OriginalText: tok.Text,
		Line:         tok.Line,
		Col:          tok.Col,
		Pos:          tok.Pos,
		prev:         none,
		next:         none,
		prevCode:     none,
		nextCode:     none,
		prevSibling:  none,
		nextSibling:  none,
		parent:       none,
		openedBy:     none,
		closedBy:     none,
		str:          none,
		strClosedBy:  none,
		openTag:      none,
		closeTag:     none,
		statement:    none,
		endStmt:      none,
		ws:           newSpacing(),
	}
}

func (t *Token) at(i int) *Token {
	if i == none {
		return nil
	}
	return t.doc.Tokens[i]
}

// Doc returns the document t belongs to.
func (t *Token) Doc() *Document { return t.doc }

// Is reports whether t has one of the given types.
func (t *Token) Is(types ...token.Type) bool {
	for _, typ := range types {
		if t.Type == typ {
			return true
		}
	}
	return false
}

func (t *Token) Prev() *Token        { return t.at(t.prev) }
func (t *Token) Next() *Token        { return t.at(t.next) }
func (t *Token) PrevCode() *Token    { return t.at(t.prevCode) }
func (t *Token) NextCode() *Token    { return t.at(t.nextCode) }
func (t *Token) PrevSibling() *Token { return t.at(t.prevSibling) }
func (t *Token) NextSibling() *Token { return t.at(t.nextSibling) }

// Parent returns the innermost open bracket enclosing t.
func (t *Token) Parent() *Token { return t.at(t.parent) }

// OpenedBy returns the open bracket matched by the close bracket t.
func (t *Token) OpenedBy() *Token { return t.at(t.openedBy) }

// ClosedBy returns the close bracket matching the open bracket t.
func (t *Token) ClosedBy() *Token { return t.at(t.closedBy) }

// EnclosingString returns the innermost string, heredoc or backtick command
// enclosing t.
func (t *Token) EnclosingString() *Token { return t.at(t.str) }

// StringClosedBy returns the delimiter closing the string opened by t.
func (t *Token) StringClosedBy() *Token { return t.at(t.strClosedBy) }

// OpenTag returns the open tag of the code block containing t.
func (t *Token) OpenTag() *Token { return t.at(t.openTag) }

// CloseTag returns the close tag of the code block containing t, if the
// block is closed.
func (t *Token) CloseTag() *Token { return t.at(t.closeTag) }

// Statement returns the first token of the statement containing t.
func (t *Token) Statement() *Token { return t.at(t.statement) }

// EndStatement returns the last token of the statement containing t.
func (t *Token) EndStatement() *Token {
	if s := t.Statement(); s != nil {
		return s.at(s.endStmt)
	}
	return nil
}

// Declaration returns the declaration started by t, if any.
func (t *Token) Declaration() *Declaration { return t.decl }

// BracketStack returns the open brackets enclosing t, outermost first.
func (t *Token) BracketStack() []*Token {
	stack := make([]*Token, len(t.stack))
	for i, j := range t.stack {
		stack[i] = t.doc.Tokens[j]
	}
	return stack
}

// Depth returns the number of open brackets enclosing t.
func (t *Token) Depth() int { return len(t.stack) }

// IsOpenBracket reports whether t opens a bracket pair, including the colon
// that opens an alternative syntax block.
func (t *Token) IsOpenBracket() bool { return t.closedBy != none }

// IsCloseBracket reports whether t closes a bracket pair, including the
// virtual token that closes an alternative syntax block.
func (t *Token) IsCloseBracket() bool { return t.openedBy != none }

// InString reports whether t is inside a string, heredoc or backtick
// command, including its closing delimiter.
func (t *Token) InString() bool { return t.str != none }

// EndLine returns the source line of the last byte of t.
func (t *Token) EndLine() int {
	return t.Line + strings.Count(t.Text, "\n")
}

// LinesBefore returns the number of line breaks between t and the furthest
// source line reached by any earlier token.
func (t *Token) LinesBefore() int {
	if t.prev == none {
		return 0
	}
	if n := t.Line - t.prevEndLine; n > 0 {
		return n
	}
	return 0
}

// IsStatementStart reports whether t is the first token of its statement.
func (t *Token) IsStatementStart() bool {
	return t.statement == t.Index
}

// IsOneLineComment reports whether t is a "//" or "#" comment.  Attribute
// comments are "#" comments too.
func (t *Token) IsOneLineComment() bool {
	switch t.Type {
	case token.COMMENT:
		return strings.HasPrefix(t.Text, "//") || strings.HasPrefix(t.Text, "#")
	case token.ATTRIBUTE_COMMENT:
		return true
	}
	return false
}

// IsBlock reports whether t opens a sequence of statements: a structural
// brace or an alternative syntax colon.
func (t *Token) IsBlock() bool {
	return t.Structural && t.Type == token.OPEN_BRACE || t.sub == AltSyntaxColon
}

// InBlock reports whether t is directly inside the top level of a file or
// a block.
func (t *Token) InBlock() bool {
	p := t.Parent()
	return p == nil || p.IsBlock()
}

// IndentLevel returns the indentation level of a line starting with t.
func (t *Token) IndentLevel() int {
	return t.PreIndent + t.Indent + t.HangingIndent - t.Deindent
}

// LinePaddingColumns returns the alignment padding of a line starting with
// t.
func (t *Token) LinePaddingColumns() int {
	return t.LinePadding - t.LineUnpadding
}

// Location returns the source location of t.
func (t *Token) Location() *token.Location {
	return &token.Location{File: t.doc.File, Pos: t.Pos, Line: t.Line, Col: t.Col}
}
