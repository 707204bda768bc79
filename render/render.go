// Copyright © 2024 The ELPS authors

// Package render turns a formatted document into text.  Rules decide the
// whitespace and indentation counters of every token; the renderer only
// translates them into characters.
package render

import (
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
)

// DefaultTabSize is the width of one indentation level when no width is
// configured.
const DefaultTabSize = 4

// Renderer converts resolved whitespace and indentation counters into text.
type Renderer struct {
	Tab     bool // indent with tabs instead of spaces
	TabSize int  // columns per indentation level
}

// New returns a renderer indenting with tabs if tab is set, otherwise with
// size spaces per level.
func New(tab bool, size int) *Renderer {
	if size <= 0 {
		size = DefaultTabSize
	}
	return &Renderer{Tab: tab, TabSize: size}
}

func (r *Renderer) size() int {
	if r.TabSize <= 0 {
		return DefaultTabSize
	}
	return r.TabSize
}

// Levels returns the text of n indentation levels.
func (r *Renderer) Levels(n int) string {
	if n <= 0 {
		return ""
	}
	if r.Tab {
		return strings.Repeat("\t", n)
	}
	return strings.Repeat(" ", n*r.size())
}

// Indent returns the leading whitespace of a line starting with t.  Negative
// padding removes columns from the indentation when indenting with spaces.
func (r *Renderer) Indent(t *document.Token) string {
	level, pad := t.IndentLevel(), t.LinePaddingColumns()
	if pad < 0 && !r.Tab {
		cols := level*r.size() + pad
		if cols <= 0 {
			return ""
		}
		return strings.Repeat(" ", cols)
	}
	s := r.Levels(level)
	if pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// WhitespaceBefore returns the text rendered between t and the previous
// token.
func (r *Renderer) WhitespaceBefore(t *document.Token) string {
	var s string
	switch t.WhitespaceBefore() {
	case document.Blank:
		s = "\n\n" + r.Indent(t)
	case document.Line:
		s = "\n" + r.Indent(t)
	case document.Space:
		s = " "
	}
	if t.Padding > 0 {
		s += strings.Repeat(" ", t.Padding)
	}
	return s
}

// WhitespaceAfter returns the text rendered between t and the next token.
func (r *Renderer) WhitespaceAfter(t *document.Token) string {
	for n := t.Next(); n != nil; n = n.Next() {
		if !n.IsVirtual {
			return r.WhitespaceBefore(n)
		}
	}
	return ""
}

// Render returns the text of doc and records the output position of every
// token.
func (r *Renderer) Render(doc *document.Document) string {
	first, last := doc.First(), doc.Last()
	if first == nil {
		return ""
	}
	w := &writer{r: r, line: 1, col: 1, positions: true}
	w.render(first, last, true)
	out := w.b.String()
	if end := lastReal(last); end != nil && end.Type != token.INLINE_HTML && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// RenderRange returns the text of the tokens from from to to inclusive.
// The whitespace before from is not included.  Output positions are not
// recorded.
func (r *Renderer) RenderRange(from, to *document.Token) string {
	if from == nil || to == nil || to.Index < from.Index {
		return ""
	}
	w := &writer{r: r, line: 1, col: 1}
	w.lineIndent = r.Indent(LineStart(from))
	w.render(from, to, false)
	return w.b.String()
}

// Collection returns the text of a contiguous collection.
func (r *Renderer) Collection(c *document.Collection) string {
	return r.RenderRange(c.First(), c.Last())
}

// Column returns the 1-based output column at which t will be rendered.
func (r *Renderer) Column(t *document.Token) int {
	start := LineStart(t)
	text := r.Indent(start)
	if start.Padding > 0 {
		text += strings.Repeat(" ", start.Padding)
	}
	if start != t {
		text += r.RenderRange(start, t.Prev()) + r.WhitespaceBefore(t)
	}
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return utf8.RuneCountInString(text) + 1
}

// LineStart returns the first token rendered on the same line as t.
func LineStart(t *document.Token) *document.Token {
	for {
		if !t.IsVirtual && t.HasNewlineBefore() {
			return t
		}
		p := t.Prev()
		if p == nil {
			return t
		}
		if !p.IsVirtual && strings.HasSuffix(p.Text, "\n") {
			return t
		}
		t = p
	}
}

func lastReal(t *document.Token) *document.Token {
	for t != nil && t.IsVirtual {
		t = t.Prev()
	}
	return t
}

type writer struct {
	r          *Renderer
	b          strings.Builder
	line, col  int
	lineIndent string
	positions  bool
	heredocs   map[*document.Token]string
}

func (w *writer) render(from, to *document.Token, leading bool) {
	for t := from; t != nil; t = t.Next() {
		if !t.IsVirtual {
			if t != from || leading {
				w.gap(t)
			}
			if w.positions {
				t.Output = &document.Position{Line: w.line, Col: w.col}
			}
			w.token(t)
		}
		if t == to {
			return
		}
	}
}

func (w *writer) gap(t *document.Token) {
	if t.Prev() == nil {
		return
	}
	ws := w.r.WhitespaceBefore(t)
	if t.HasNewlineBefore() {
		w.lineIndent = w.r.Indent(t)
	}
	w.write(ws)
}

func (w *writer) token(t *document.Token) {
	if h := heredoc(t); h != nil {
		w.heredocText(t, w.heredocIndent(h))
		if t.Type == token.END_HEREDOC {
			w.lineIndent = w.heredocIndent(h)
		}
		return
	}
	switch {
	case t.Type == token.DOC_COMMENT:
		w.write(DocComment(t.Text, w.lineIndent))
	case t.IsOneLineComment():
		w.write(strings.TrimRight(t.Text, " \t\r\n"))
	case t.Type == token.COMMENT:
		w.write(trimLines(t.Text))
	default:
		w.write(t.Text)
	}
	if t.Type == token.START_HEREDOC {
		w.startHeredoc(t)
	}
}

func (w *writer) startHeredoc(t *document.Token) {
	if w.heredocs == nil {
		w.heredocs = make(map[*document.Token]string)
	}
	if t.HeredocIndent == document.NoHeredocIndent {
		w.heredocs[t] = ""
		return
	}
	w.heredocs[t] = w.lineIndent + w.r.Levels(t.HeredocIndent)
}

func (w *writer) heredocIndent(h *document.Token) string {
	if s, ok := w.heredocs[h]; ok {
		return s
	}
	if h.HeredocIndent == document.NoHeredocIndent {
		return ""
	}
	return w.r.Indent(LineStart(h)) + w.r.Levels(h.HeredocIndent)
}

// heredocText writes text that belongs to a heredoc body, indenting every
// non-empty line that starts inside it.
func (w *writer) heredocText(t *document.Token, indent string) {
	text := t.Text
	atLineStart := t.Prev() != nil && strings.HasSuffix(t.Prev().Text, "\n")
	for text != "" {
		if atLineStart && text[0] != '\n' && indent != "" {
			w.write(indent)
		}
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			w.write(text)
			return
		}
		w.write(text[:i+1])
		text = text[i+1:]
		atLineStart = true
	}
}

// heredoc returns the heredoc whose body directly contains t.
func heredoc(t *document.Token) *document.Token {
	h := t.EnclosingString()
	if h == nil || h.Type != token.START_HEREDOC {
		return nil
	}
	if t.Type == token.END_HEREDOC || t.Prev() != nil && strings.HasSuffix(t.Prev().Text, "\n") ||
		t.Type == token.ENCAPSED_AND_WHITESPACE {
		return h
	}
	return nil
}

func (w *writer) write(s string) {
	if s == "" {
		return
	}
	w.b.WriteString(s)
	if n := strings.Count(s, "\n"); n > 0 {
		w.line += n
		s = s[strings.LastIndexByte(s, '\n')+1:]
		w.col = 1
	}
	w.col += utf8.RuneCountInString(s)
}

func trimLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// DocComment normalises a "/**" comment spanning more than one line.  Every
// content line is prefixed with " * ", trailing empty lines are collapsed
// into one and every line after the first is indented with indent.
func DocComment(text, indent string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 || !strings.HasPrefix(text, "/**") || !strings.HasSuffix(text, "*/") {
		return trimLines(text)
	}
	head := strings.TrimRight(lines[0], " \t\r")
	var body []string
	for _, line := range lines[1 : len(lines)-1] {
		body = append(body, docLine(line))
	}
	tail := strings.TrimSpace(lines[len(lines)-1])
	tail = strings.TrimSpace(strings.TrimSuffix(tail, "*/"))
	if tail != "" && tail != "*" {
		body = append(body, docLine(tail))
	}
	if head != "/**" {
		body = append([]string{docLine(strings.TrimPrefix(head, "/**"))}, body...)
		head = "/**"
	}
	n := len(body)
	for n > 0 && body[n-1] == "" {
		n--
	}
	if n < len(body) && n > 0 {
		body = body[:n+1]
	}
	if n == 0 {
		body = nil
	}

	var b strings.Builder
	b.WriteString(head)
	for _, line := range body {
		b.WriteString("\n" + indent + " *")
		if line != "" {
			b.WriteString(" " + line)
		}
	}
	b.WriteString("\n" + indent + " */")
	return b.String()
}

// docLine returns the content of one line of a doc comment without its
// leading asterisk and the whitespace around it.
func docLine(line string) string {
	line = strings.TrimLeft(line, " \t")
	if strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "*/") {
		line = line[1:]
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			line = line[1:]
		}
	}
	return strings.TrimRight(line, " \t\r")
}
