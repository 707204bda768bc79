// Copyright © 2024 The ELPS authors

package document

import "fmt"

// Problem is an advisory message about a range of a document.  Problems
// never change formatting output.
type Problem struct {
	Format string
	Values []interface{}
	File   string
	Start  *Token
	End    *Token // nil when the problem covers only Start
}

// NewProblem returns a problem whose message is fmt.Sprintf(format,
// values...).
func NewProblem(format, file string, start, end *Token, values ...interface{}) *Problem {
	return &Problem{
		Format: format,
		Values: values,
		File:   file,
		Start:  start,
		End:    end,
	}
}

// Message returns the problem's message without a location.
func (p *Problem) Message() string {
	return fmt.Sprintf(p.Format, p.Values...)
}

// Positions returns the start and end positions of p.  Rendered positions
// are used when every token of p has one, otherwise source positions are
// used for both.  end is nil when p has no end token.
func (p *Problem) Positions() (start, end *Position, rendered bool) {
	if p.Start == nil {
		return nil, nil, false
	}
	rendered = p.Start.Output != nil && (p.End == nil || p.End.Output != nil)
	if rendered {
		start = p.Start.Output
		if p.End != nil {
			end = p.End.Output
		}
		return start, end, true
	}
	start = &Position{Line: p.Start.Line, Col: p.Start.Col}
	if p.End != nil {
		end = &Position{Line: p.End.Line, Col: p.End.Col}
	}
	return start, end, false
}

func (p *Problem) String() string {
	msg := p.Message()
	start, end, _ := p.Positions()
	if start == nil {
		if p.File == "" {
			return msg
		}
		return fmt.Sprintf("%s: %s", p.File, msg)
	}
	loc := formatPosition(start)
	if end != nil && *end != *start {
		loc += "-" + formatPosition(end)
	}
	if p.File != "" {
		loc = p.File + ":" + loc
	}
	return fmt.Sprintf("%s: %s", loc, msg)
}

func formatPosition(pos *Position) string {
	if pos.Col == 0 {
		return fmt.Sprint(pos.Line)
	}
	return fmt.Sprintf("%d:%d", pos.Line, pos.Col)
}
