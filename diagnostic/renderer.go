// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// tokenBreaks end the token a marker is drawn under when a span does not
// say where the token ends.
const tokenBreaks = " \t()[]{};,"

// Renderer writes diagnostics as annotated source excerpts.
type Renderer struct {
	// Color controls ANSI color output.  Default is ColorAuto.
	Color ColorMode

	// TabSize is the width tabs are expanded to in source lines.  Default
	// is 4.
	TabSize int
}

// Render writes d to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	ew := &errWriter{w: bufio.NewWriter(w)}
	ew.p = choosePalette(r.Color, w)
	ew.printf("%s%s%s: %s%s%s\n", ew.p.severity(d.Severity), d.Severity, ew.p.reset,
		ew.p.message, d.Message, ew.p.reset)
	if d.Span != nil {
		r.writeSpan(ew, d.Span, sourceLines(d.Source))
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", ew.p.note, ew.p.reset, note)
	}
	if ew.err != nil {
		return ew.err
	}
	return ew.w.Flush()
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   *bufio.Writer
	p   palette
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

// excerpt writes the gutter of width digits, labelled with num when it is
// not zero, followed by text.
func (ew *errWriter) excerpt(width, num int, text string) {
	label := strings.Repeat(" ", width)
	if num > 0 {
		label = fmt.Sprintf("%*d", width, num)
	}
	ew.printf(" %s%s |%s%s\n", ew.p.gutter, label, ew.p.reset, text)
}

func (ew *errWriter) marker(s string) string {
	return ew.p.marker + s + ew.p.reset
}

func (r *Renderer) writeSpan(ew *errWriter, span *Span, lines []string) {
	start, last := span.Start, span.last()
	ew.printf("  %s-->%s %s\n", ew.p.gutter, ew.p.reset, location(span.File, start))
	if start.Line < 1 || last.Line > len(lines) {
		ew.printf("   %s|%s\n", ew.p.gutter, ew.p.reset)
		return
	}

	width := len(strconv.Itoa(last.Line))
	label := ""
	if span.Label != "" {
		label = " " + ew.marker(span.Label)
	}
	first := lines[start.Line-1]
	from := offset(first, start.Col)
	ew.excerpt(width, 0, "")

	if last.Line == start.Line {
		to := tokenEnd(first, last.Col)
		if to < from {
			to = from
		}
		n := r.displayWidth(first[from:to])
		if n < 1 {
			n = 1
		}
		ew.excerpt(width, start.Line, "  "+r.expandTabs(first))
		ew.excerpt(width, 0, "  "+strings.Repeat(" ", r.displayWidth(first[:from]))+
			ew.marker(strings.Repeat("^", n))+label)
		ew.excerpt(width, 0, "")
		return
	}

	// Lines after the first carry a margin that joins the start and end
	// markers.
	ew.excerpt(width, start.Line, "    "+r.expandTabs(first))
	ew.excerpt(width, 0, "   "+ew.marker(strings.Repeat("_", r.displayWidth(first[:from])+1)+"^"))
	for n := start.Line + 1; n <= last.Line; n++ {
		ew.excerpt(width, n, "  "+ew.marker("|")+" "+r.expandTabs(lines[n-1]))
	}
	end := lines[last.Line-1]
	to := r.displayWidth(end[:tokenEnd(end, last.Col)])
	if to < 1 {
		to = 1
	}
	ew.excerpt(width, 0, "  "+ew.marker("|"+strings.Repeat("_", to)+"^")+label)
	ew.excerpt(width, 0, "")
}

func location(file string, pos Position) string {
	switch {
	case pos.Line <= 0:
		return file
	case pos.Col <= 0:
		return fmt.Sprintf("%s:%d", file, pos.Line)
	}
	return fmt.Sprintf("%s:%d:%d", file, pos.Line, pos.Col)
}

func sourceLines(src []byte) []string {
	if src == nil {
		return nil
	}
	lines := strings.Split(string(src), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// offset returns the byte offset of the 1-based column col in line.
func offset(line string, col int) int {
	switch {
	case col < 1:
		return 0
	case col > len(line):
		return len(line)
	}
	return col - 1
}

// tokenEnd returns the byte offset just past the token that starts at the
// 1-based column col of line.
func tokenEnd(line string, col int) int {
	i := offset(line, col)
	if i == len(line) {
		return i
	}
	j := i
	for j < len(line) {
		ch, size := utf8.DecodeRuneInString(line[j:])
		if strings.ContainsRune(tokenBreaks, ch) {
			break
		}
		j += size
	}
	if j == i {
		_, size := utf8.DecodeRuneInString(line[i:])
		j += size
	}
	return j
}

func (r *Renderer) tabSize() int {
	if r.TabSize <= 0 {
		return 4
	}
	return r.TabSize
}

func (r *Renderer) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", r.tabSize()))
}

// displayWidth returns the number of columns s takes once tabs are
// expanded.
func (r *Renderer) displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += r.tabSize()
		} else {
			w++
		}
	}
	return w
}
