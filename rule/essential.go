// Copyright © 2024 The ELPS authors

package rule

import (
	"unicode/utf8"

	"github.com/luthersystems/prettyphp/document"
	"github.com/luthersystems/prettyphp/parser/token"
)

// SpecEssentialWhitespace keeps adjacent tokens from merging.
var SpecEssentialWhitespace = &Spec{
	Doc:  "Add a space between tokens that would otherwise be read as one token.",
	Kind: Mandatory,
	New:  func(*Config) Rule { return &EssentialWhitespace{} },
}

type EssentialWhitespace struct{}

func (*EssentialWhitespace) Priority(m Method) (int, bool) { return 999, m == MethodBeforeRender }
func (*EssentialWhitespace) Reset()                        {}

// mergingPairs are the operators and comment delimiters formed by the last
// character of one token and the first character of the next.
var mergingPairs = map[string]bool{
	"!=": true, "%=": true, "&&": true, "&=": true, "**": true, "*=": true,
	"++": true, "+=": true, "--": true, "-=": true, "->": true, ".=": true,
	"/=": true, "//": true, "/*": true, "*/": true, "::": true, "<<": true,
	"<=": true, "<>": true, "<?": true, "==": true, "=>": true, ">=": true,
	">>": true, "??": true, "?>": true, "^=": true, "|=": true, "||": true,
}

func (*EssentialWhitespace) BeforeRender(doc *document.Document) {
	for _, t := range doc.Tokens {
		if t.IsVirtual || t.InString() || t.Text == "" {
			continue
		}
		prev := prevReal(t)
		if prev == nil || prev.Text == "" || t.WhitespaceBefore() != document.None {
			continue
		}
		if prev.Is(token.INLINE_HTML, token.CLOSE_TAG) || t.Is(token.INLINE_HTML, token.CLOSE_TAG) {
			continue
		}
		if needsSpace(prev, t) {
			t.CriticalBefore(document.Space)
		}
	}
}

func needsSpace(prev, t *document.Token) bool {
	if prev.Type == token.OPEN_TAG {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(prev.Text)
	first, _ := utf8.DecodeRuneInString(t.Text)
	switch {
	case isWordRune(last) && (isWordRune(first) || first == '$'):
		return true
	case isDigit(last) && first == '.', last == '.' && isDigit(first):
		return true
	}
	return mergingPairs[string([]rune{last, first})]
}

func isWordRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || isDigit(r) || r >= 0x80
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
