// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/prettyphp/diagnostic"
	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/formatter"
	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/pkg/errors"
)

func colorMode() diagnostic.ColorMode {
	mode, _ := diagnostic.ParseColorMode(colorFlag)
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// errorToDiagnostic converts a formatting error to a Diagnostic for
// display.  Positions in err refer to src.
func errorToDiagnostic(err error, src []byte) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.Error,
		Message:  err.Error(),
		Source:   src,
	}

	var (
		lerr     *token.LocationError
		verr     *formatter.VerificationError
		terr     *formatter.InvalidTypeError
		cerr     *document.ContractError
		conflict *formatter.IncompatibleRulesError
	)
	switch {
	case errors.As(err, &lerr) && lerr.Source != nil:
		d.Message = lerr.Err.Error()
		d.Span = &diagnostic.Span{
			File:  lerr.Source.File,
			Start: diagnostic.Position{Line: lerr.Source.Line, Col: lerr.Source.Col},
		}
	case errors.As(err, &verr):
		d.Message = "formatted output does not have the same code as the input"
		if verr.Want != nil {
			d.Span = &diagnostic.Span{
				File:  verr.File,
				Start: diagnostic.Position{Line: verr.Want.Line, Col: verr.Want.Col},
				Label: fmt.Sprintf("expected %q", verr.Want.Text),
			}
		}
		if verr.Got != nil {
			d.Notes = append(d.Notes, fmt.Sprintf("formatted output has %q on line %d", verr.Got.Text, verr.Got.Line))
		}
		d.Notes = append(d.Notes, "this is a bug in prettyphp; the file was not changed")
	case errors.As(err, &terr):
		d.Span = &diagnostic.Span{
			File:  terr.File,
			Start: diagnostic.Position{Line: terr.Token.Line, Col: terr.Token.Col},
		}
	case errors.As(err, &cerr):
		d.Message = cerr.Msg
		if cerr.Token != nil {
			loc := cerr.Token.Location()
			d.Span = &diagnostic.Span{File: loc.File, Start: diagnostic.Position{Line: loc.Line, Col: loc.Col}}
		}
		d.Notes = append(d.Notes, "this is a bug in a formatting rule")
	case errors.As(err, &conflict):
		d.Notes = append(d.Notes, "disable one of them with --disable or remove it from --enable")
	}
	return d
}

// problemToDiagnostic converts a formatting problem to a warning.  The span
// runs from the first token of the problem to the last, in the formatted
// output out when the problem has been rendered and in src otherwise.
func problemToDiagnostic(p *document.Problem, src, out []byte) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.Warning,
		Message:  p.Message(),
		Source:   out,
	}
	start, end, rendered := p.Positions()
	if !rendered {
		d.Source = src
	}
	if start != nil {
		d.Span = &diagnostic.Span{
			File:  p.File,
			Start: diagnostic.Position{Line: start.Line, Col: start.Col},
		}
		if end != nil {
			d.Span.End = diagnostic.Position{Line: end.Line, Col: end.Col}
		}
	}
	if !rendered {
		d.Notes = append(d.Notes, "line and column refer to the input")
	}
	return d
}

// renderError renders err with diagnostic formatting to the command's
// stderr.  src is the input err refers to, if any.
func (c *cmdConfig) renderError(err error, src []byte) {
	_ = newRenderer().Render(c.stderr, errorToDiagnostic(err, src))
}

// renderProblems renders problems with diagnostic formatting to the
// command's stderr, separated by blank lines.
func (c *cmdConfig) renderProblems(problems []*document.Problem, src, out []byte) {
	r := newRenderer()
	for i, p := range problems {
		if i > 0 {
			fmt.Fprintln(c.stderr)
		}
		_ = r.Render(c.stderr, problemToDiagnostic(p, src, out))
	}
}
