// Copyright © 2024 The ELPS authors

package filter

import (
	"sort"
	"strings"

	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/pkg/errors"
)

// ImportSortOrder selects how import statements are ordered.
type ImportSortOrder int

const (
	SortNone ImportSortOrder = iota
	// SortByName orders imports alphabetically by name.
	SortByName
	// SortByDepth orders imports alphabetically, except that names in a
	// sub-namespace come before names directly in the namespace.
	SortByDepth
)

var sortOrderStrings = []string{"none", "name", "depth"}

func (o ImportSortOrder) String() string {
	if o < 0 || int(o) >= len(sortOrderStrings) {
		return "invalid"
	}
	return sortOrderStrings[o]
}

// ParseImportSortOrder returns the order named s.
func ParseImportSortOrder(s string) (ImportSortOrder, error) {
	for i, name := range sortOrderStrings {
		if strings.EqualFold(s, name) {
			return ImportSortOrder(i), nil
		}
	}
	return SortNone, errors.Errorf("unknown import sort order %q", s)
}

// SortImports sorts runs of consecutive import statements at file scope
// and in namespace blocks.  Comments trailing an import move with it, as
// do comments on the lines above an import inside a run.
// Line numbers of the sorted statements are renumbered so they remain
// ascending.
type SortImports struct {
	Order ImportSortOrder
}

type importUnit struct {
	tokens []*token.Token
	kind   int
	name   string
	text   string
}

func (f SortImports) Filter(tokens []*token.Token) ([]*token.Token, error) {
	if f.Order == SortNone {
		return tokens, nil
	}
	var scopes []bool // true for namespace braces
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Type {
		case token.OPEN_BRACE:
			scopes = append(scopes, isNamespaceBrace(tokens, i))
		case token.CURLY_OPEN, token.DOLLAR_OPEN_CURLY_BRACES, token.OPEN_PAREN,
			token.OPEN_BRACKET, token.ATTRIBUTE:
			scopes = append(scopes, false)
		case token.CLOSE_BRACE, token.CLOSE_PAREN, token.CLOSE_BRACKET:
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
		case token.USE:
			if len(scopes) > 0 && !scopes[len(scopes)-1] || !atStatementStart(tokens, i) {
				continue
			}
			units, end := collectImports(tokens, i)
			if len(units) > 1 {
				f.sort(units)
				renumber(units, tokens[i].Line)
				j := i
				for _, u := range units {
					j += copy(tokens[j:], u.tokens)
				}
			}
			if end > i {
				i = end - 1
			}
		}
	}
	return tokens, nil
}

func isNamespaceBrace(tokens []*token.Token, i int) bool {
	p := prevCode(tokens, i)
	if p >= 0 && tokens[p].Type == token.NAMESPACE {
		return true
	}
	if p >= 0 && isNameType(tokens[p].Type) {
		pp := prevCode(tokens, p)
		return pp >= 0 && tokens[pp].Type == token.NAMESPACE
	}
	return false
}

func isNameType(typ token.Type) bool {
	switch typ {
	case token.STRING, token.NAME_QUALIFIED, token.NAME_FULLY_QUALIFIED, token.NAME_RELATIVE:
		return true
	}
	return false
}

func isComment(t *token.Token) bool {
	return t.Type == token.COMMENT || t.Type == token.DOC_COMMENT
}

func prevCode(tokens []*token.Token, i int) int {
	for i--; i >= 0; i-- {
		if !isComment(tokens[i]) && tokens[i].Type != token.WHITESPACE {
			return i
		}
	}
	return -1
}

func atStatementStart(tokens []*token.Token, i int) bool {
	p := prevCode(tokens, i)
	if p < 0 {
		return true
	}
	switch tokens[p].Type {
	case token.SEMICOLON, token.OPEN_BRACE, token.CLOSE_BRACE, token.OPEN_TAG, token.CLOSE_TAG:
		return true
	}
	return false
}

func endLine(t *token.Token) int {
	return t.Line + strings.Count(t.Text, "\n")
}

func commentStyle(t *token.Token) string {
	switch {
	case strings.HasPrefix(t.Text, "//"):
		return "//"
	case strings.HasPrefix(t.Text, "#"):
		return "#"
	}
	return ""
}

// collectImports returns the run of import statements starting at i and
// the index after the run.  Comments on the lines before an import other
// than the first belong to that import.
func collectImports(tokens []*token.Token, i int) ([]*importUnit, int) {
	var units []*importUnit
	j := i
	for j < len(tokens) {
		start := j
		for j < len(tokens) && isComment(tokens[j]) {
			j++
		}
		if j == len(tokens) || tokens[j].Type != token.USE {
			j = start
			break
		}
		k, depth := j, 0
	scan:
		for ; k < len(tokens); k++ {
			switch tokens[k].Type {
			case token.OPEN_BRACE:
				depth++
			case token.CLOSE_BRACE:
				depth--
			case token.SEMICOLON, token.CLOSE_TAG:
				if depth == 0 {
					break scan
				}
			}
		}
		if k == len(tokens) || tokens[k].Type == token.CLOSE_TAG {
			j = start
			break
		}
		end := k + 1
		if end < len(tokens) && isComment(tokens[end]) && tokens[end].Line == endLine(tokens[k]) {
			style := commentStyle(tokens[end])
			line := tokens[end].Line
			end++
			for style != "" && end < len(tokens) && commentStyle(tokens[end]) == style &&
				tokens[end].Line == line+1 {
				line++
				end++
			}
		}
		units = append(units, newImportUnit(tokens[start:end:end]))
		j = end
	}
	return units, j
}

func newImportUnit(tokens []*token.Token) *importUnit {
	u := &importUnit{tokens: append([]*token.Token(nil), tokens...)}
	var name, text strings.Builder
	n := 0
	for _, t := range tokens {
		if isComment(t) {
			continue
		}
		text.WriteString(t.Text)
		switch {
		case n == 0, t.Type == token.SEMICOLON:
		case n == 1 && t.Type == token.FUNCTION:
			u.kind = 1
		case n == 1 && t.Type == token.CONST:
			u.kind = 2
		default:
			name.WriteString(t.Text)
		}
		text.WriteByte(' ')
		n++
	}
	u.name = strings.TrimPrefix(strings.ToLower(name.String()), `\`)
	u.text = text.String()
	return u
}

func (f SortImports) sort(units []*importUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if c := f.compareNames(a.name, b.name); c != 0 {
			return c < 0
		}
		return a.text < b.text
	})
}

func (f SortImports) compareNames(a, b string) int {
	if f.Order != SortByDepth {
		return strings.Compare(a, b)
	}
	as, bs := strings.Split(a, `\`), strings.Split(b, `\`)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		aLeaf, bLeaf := i == len(as)-1, i == len(bs)-1
		if aLeaf != bLeaf {
			if bLeaf {
				return -1
			}
			return 1
		}
		return strings.Compare(as[i], bs[i])
	}
	return len(as) - len(bs)
}

// renumber shifts the line numbers of units so they occupy consecutive
// lines starting at line.
func renumber(units []*importUnit, line int) {
	for _, u := range units {
		first, last := u.tokens[0], u.tokens[len(u.tokens)-1]
		span := endLine(last) - first.Line + 1
		delta := line - first.Line
		for _, t := range u.tokens {
			t.Line += delta
		}
		line += span
	}
}
