// Copyright © 2024 The ELPS authors

package document

// IndentDelta is a difference between the indentation counters of two
// tokens.
type IndentDelta struct {
	PreIndent     int
	Indent        int
	Deindent      int
	HangingIndent int
	LinePadding   int
	LineUnpadding int
}

// Between returns the delta that takes the counters of from to those of to.
func Between(from, to *Token) IndentDelta {
	return IndentDelta{
		PreIndent:     to.PreIndent - from.PreIndent,
		Indent:        to.Indent - from.Indent,
		Deindent:      to.Deindent - from.Deindent,
		HangingIndent: to.HangingIndent - from.HangingIndent,
		LinePadding:   to.LinePadding - from.LinePadding,
		LineUnpadding: to.LineUnpadding - from.LineUnpadding,
	}
}

// Apply adds d to the counters of t.
func (d IndentDelta) Apply(t *Token) {
	t.PreIndent += d.PreIndent
	t.Indent += d.Indent
	t.Deindent += d.Deindent
	t.HangingIndent += d.HangingIndent
	t.LinePadding += d.LinePadding
	t.LineUnpadding += d.LineUnpadding
}

// IsZero reports whether d changes nothing.
func (d IndentDelta) IsZero() bool {
	return d == IndentDelta{}
}
