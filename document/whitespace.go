// Copyright © 2024 The ELPS authors

package document

import "strings"

// Whitespace is a set of whitespace kinds.  As a request it names the
// whitespace wanted in a gap; as a mask it names the kinds a gap may hold.
type Whitespace uint8

const (
	None  Whitespace = 0
	Space Whitespace = 1
	Line  Whitespace = 2
	Blank Whitespace = 4
	All   Whitespace = Space | Line | Blank
)

func (ws Whitespace) String() string {
	if ws == None {
		return "none"
	}
	var parts []string
	if ws&Space != 0 {
		parts = append(parts, "space")
	}
	if ws&Line != 0 {
		parts = append(parts, "line")
	}
	if ws&Blank != 0 {
		parts = append(parts, "blank")
	}
	return strings.Join(parts, "|")
}

// Strongest returns the single kind that wins when ws is rendered.  A blank
// line dominates a line break, which dominates a space.
func (ws Whitespace) Strongest() Whitespace {
	switch {
	case ws&Blank != 0:
		return Blank
	case ws&Line != 0:
		return Line
	case ws&Space != 0:
		return Space
	}
	return None
}

// HasNewline reports whether ws contains a line break.
func (ws Whitespace) HasNewline() bool {
	return ws&(Line|Blank) != 0
}

// Spacing is a snapshot of the whitespace state of one token.
type Spacing struct {
	Before, After         Whitespace
	MaskPrev, MaskNext    Whitespace
	CritBefore, CritAfter Whitespace
	CritMaskPrev          Whitespace
	CritMaskNext          Whitespace
}

type spacing struct {
	before, after              Whitespace
	maskPrev, maskNext         Whitespace
	critBefore, critAfter      Whitespace
	critMaskPrev, critMaskNext Whitespace
}

func newSpacing() spacing {
	return spacing{
		maskPrev:     All,
		maskNext:     All,
		critMaskPrev: All,
		critMaskNext: All,
	}
}

// Spacing returns the current whitespace state of t.
func (t *Token) Spacing() Spacing {
	return Spacing{
		Before:       t.ws.before,
		After:        t.ws.after,
		MaskPrev:     t.ws.maskPrev,
		MaskNext:     t.ws.maskNext,
		CritBefore:   t.ws.critBefore,
		CritAfter:    t.ws.critAfter,
		CritMaskPrev: t.ws.critMaskPrev,
		CritMaskNext: t.ws.critMaskNext,
	}
}

// AddBefore requests ws in the gap before t.
func (t *Token) AddBefore(ws Whitespace) {
	t.ws.before |= ws
}

// AddAfter requests ws in the gap after t.
func (t *Token) AddAfter(ws Whitespace) {
	t.ws.after |= ws
}

// MaskBefore narrows the gap before t to the kinds in ws.  Both sides of
// the gap are updated.
func (t *Token) MaskBefore(ws Whitespace) {
	t.ws.maskPrev &= ws
	if p := t.Prev(); p != nil {
		p.ws.maskNext &= ws
	}
}

// MaskAfter narrows the gap after t to the kinds in ws.  Both sides of the
// gap are updated.
func (t *Token) MaskAfter(ws Whitespace) {
	t.ws.maskNext &= ws
	if n := t.Next(); n != nil {
		n.ws.maskPrev &= ws
	}
}

// CriticalBefore requests ws before t regardless of any mask.
func (t *Token) CriticalBefore(ws Whitespace) {
	t.ws.critBefore |= ws
}

// CriticalAfter requests ws after t regardless of any mask.
func (t *Token) CriticalAfter(ws Whitespace) {
	t.ws.critAfter |= ws
}

// CriticalMaskBefore narrows the gap before t to the kinds in ws.  Only
// critical requests can place whitespace the critical mask removes.
func (t *Token) CriticalMaskBefore(ws Whitespace) {
	t.ws.critMaskPrev &= ws
	if p := t.Prev(); p != nil {
		p.ws.critMaskNext &= ws
	}
}

// CriticalMaskAfter narrows the gap after t to the kinds in ws.
func (t *Token) CriticalMaskAfter(ws Whitespace) {
	t.ws.critMaskNext &= ws
	if n := t.Next(); n != nil {
		n.ws.critMaskPrev &= ws
	}
}

// WhitespaceBefore resolves the gap between t and the previous real token.
// Virtual tokens in the gap are transparent: their requests are combined
// with the requests of the real tokens and their masks narrow the result.
// The strongest kind is returned.
func (t *Token) WhitespaceBefore() Whitespace {
	p := t.Prev()
	if p == nil {
		return None
	}
	crit := t.ws.critBefore
	req := t.ws.before
	mask := t.ws.maskPrev & t.ws.critMaskPrev
	for p.IsVirtual {
		crit |= p.ws.critBefore | p.ws.critAfter
		req |= p.ws.before | p.ws.after
		mask &= p.ws.maskPrev & p.ws.maskNext & p.ws.critMaskPrev & p.ws.critMaskNext
		if p = p.Prev(); p == nil {
			return (crit | req&mask).Strongest()
		}
	}
	crit |= p.ws.critAfter
	req |= p.ws.after
	mask &= p.ws.maskNext & p.ws.critMaskNext
	return (crit | req&mask).Strongest()
}

// WhitespaceAfter resolves the gap between t and the next real token.
func (t *Token) WhitespaceAfter() Whitespace {
	n := t.Next()
	for n != nil && n.IsVirtual {
		n = n.Next()
	}
	if n == nil {
		return None
	}
	return n.WhitespaceBefore()
}

// HasNewlineBefore reports whether t will be rendered at the start of a line.
func (t *Token) HasNewlineBefore() bool {
	return t.WhitespaceBefore().HasNewline()
}

// HasNewlineAfter reports whether a line break will follow t.
func (t *Token) HasNewlineAfter() bool {
	return t.WhitespaceAfter().HasNewline()
}
