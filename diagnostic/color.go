// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when writing to a terminal and NO_COLOR is unset
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode returns the mode named s: "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, bool) {
	switch s {
	case "auto", "":
		return ColorAuto, true
	case "always":
		return ColorAlways, true
	case "never":
		return ColorNever, true
	}
	return ColorAuto, false
}

// palette holds an escape sequence for each part of a diagnostic.
type palette struct {
	error   string
	warning string
	message string
	gutter  string
	marker  string
	note    string
	reset   string
}

var ansiPalette = palette{
	error:   "\033[1;31m",
	warning: "\033[1;33m",
	message: "\033[1m",
	gutter:  "\033[1;34m",
	marker:  "\033[1;31m",
	note:    "\033[1;36m",
	reset:   "\033[0m",
}

func (p *palette) severity(s Severity) string {
	if s == Warning {
		return p.warning
	}
	return p.error
}

// choosePalette selects the palette for mode and the destination w.
func choosePalette(mode ColorMode, w io.Writer) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return palette{}
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ansiPalette
	}
	return palette{}
}
