// Copyright © 2024 The ELPS authors

package rule

import (
	"strings"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/render"
	"github.com/luthersystems/prettyphp/typeindex"
)

// SpecAlignAssignments aligns assignment operators on consecutive lines.
var SpecAlignAssignments = &Spec{
	Doc: `Align the assignment operators of consecutive assignment statements.

An assignment whose operator is not on the first line of its statement
cannot be aligned and is reported as a problem.`,
	Kind: Optional,
	New: func(cfg *Config) Rule {
		return &AlignAssignments{idx: cfg.Index, r: cfg.Renderer}
	},
}

// AlignAssignments pads assignment operators so those in a run of
// consecutive lines start in the same column.
type AlignAssignments struct {
	idx *typeindex.Index
	r   *render.Renderer
}

func (*AlignAssignments) Priority(m Method) (int, bool) { return 340, m == MethodBlock }
func (*AlignAssignments) Reset()                        {}

func (a *AlignAssignments) ProcessBlock(lines []*document.Collection) {
	var run, split []*document.Token
	aligned := 0
	for _, line := range lines {
		op, ok := a.assignment(line)
		switch {
		case op != nil && ok:
			run = append(run, op)
			aligned++
			continue
		case op != nil:
			split = append(split, op)
		}
		a.align(run)
		run = nil
	}
	a.align(run)

	if aligned == 0 {
		return
	}
	for _, op := range split {
		doc := op.Doc()
		doc.Report(document.NewProblem(
			"cannot align %q: assignment does not start on one line",
			doc.File, op.Statement(), op, op.Text,
		))
	}
}

// assignment returns the assignment operator of the statement starting
// line, if any.  ok is false when the operator is not on line.
func (a *AlignAssignments) assignment(line *document.Collection) (op *document.Token, ok bool) {
	first := line.First()
	if first == nil || !first.IsCode || !first.IsStatementStart() {
		return nil, false
	}
	end := first.EndStatement()
	last := line.Last()
	for t := first; t != nil && t.PreIndent == first.PreIndent; t = t.Next() {
		if t.Depth() == first.Depth() && a.idx.Assignment.Has(t.Type) {
			op = t
			break
		}
		if t == end {
			break
		}
	}
	if op == nil {
		return nil, false
	}
	if op.Index > last.Index {
		return op, false
	}
	for t := first; t != op; t = t.Next() {
		if strings.Contains(t.Text, "\n") {
			return op, false
		}
	}
	return op, true
}

func (a *AlignAssignments) align(run []*document.Token) {
	if len(run) < 2 {
		return
	}
	cols := make([]int, len(run))
	max := 0
	for i, op := range run {
		cols[i] = a.r.Column(op)
		if cols[i] > max {
			max = cols[i]
		}
	}
	for i, op := range run {
		op.Padding += max - cols[i]
	}
}
