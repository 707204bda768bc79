// Copyright © 2024 The ELPS authors

// Package diagnostic renders formatting errors and problems as annotated
// excerpts of the PHP source they refer to.  A span may cover part of a
// line or run over several lines, the way a problem reported between two
// tokens of a statement does.
package diagnostic

// Severity is how serious a diagnostic is.
type Severity int

const (
	// Error means the file could not be formatted.
	Error Severity = iota
	// Warning means the file was formatted but a rule reported a problem.
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Position is a 1-based line and column in source text.  Columns count
// bytes, the way the lexer reports them.
type Position struct {
	Line int
	Col  int
}

// IsZero reports whether p is unset.
func (p Position) IsZero() bool { return p.Line == 0 }

// Span is a range of source text to mark.  Start is the position of the
// first token covered and End the position of the last.  A zero End marks
// the token at Start only.  The marker extends to the end of the token at
// End.
type Span struct {
	File  string
	Start Position
	End   Position
	Label string
}

// last returns the position of the last token covered by s.
func (s *Span) last() Position {
	if s.End.IsZero() || s.End.Line < s.Start.Line ||
		s.End.Line == s.Start.Line && s.End.Col < s.Start.Col {
		return s.Start
	}
	return s.End
}

// Diagnostic is a message with an optional span and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     *Span
	// Source is the text Span refers to.  Without it only the location is
	// shown.
	Source []byte
	Notes  []string
}
