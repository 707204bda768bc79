// Copyright © 2024 The ELPS authors

// Package lexer converts PHP source text into a flat stream of typed tokens.
// Whitespace, comments and inline markup are returned as tokens so that
// concatenating the text of every token reproduces the source exactly.
package lexer

import (
	"io"
	"strings"

	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/pkg/errors"
)

type mode int

const (
	modeHTML mode = iota
	modeScript
	modeDouble
	modeBacktick
	modeHeredoc
	modeVarOffset
	modeProperty
	modeVarname
)

type frame struct {
	mode   mode
	interp bool   // modeScript: entered via "{$" or "${"
	braces int    // modeScript: unmatched "{" since entering
	label  string // modeHeredoc: closing identifier
	nowdoc bool
}

// Lexer reads tokens from a token.Scanner.
type Lexer struct {
	scanner *token.Scanner
	legacy  bool
	stack   []frame
	prev    token.Type // last token other than whitespace or a comment
	halting bool       // __halt_compiler seen, waiting for its terminator
	halted  bool
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLegacyNames makes the lexer tokenize like PHP 7: namespaced names are
// split into T_STRING and T_NS_SEPARATOR fragments and "#[" starts a comment.
func WithLegacyNames(legacy bool) Option {
	return func(lex *Lexer) { lex.legacy = legacy }
}

// New returns a lexer reading from s.
func New(s *token.Scanner, opts ...Option) *Lexer {
	lex := &Lexer{
		scanner: s,
		stack:   []frame{{mode: modeHTML}},
	}
	for _, opt := range opts {
		opt(lex)
	}
	return lex
}

// Tokenize returns every token in src.
func Tokenize(file string, src []byte, opts ...Option) ([]*token.Token, error) {
	lex := New(token.NewScanner(file, src), opts...)
	var tokens []*token.Token
	for {
		toks, err := lex.ReadToken()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, toks...)
	}
}

// ReadToken returns the next token(s) in the stream.  At the end of the
// stream ReadToken returns io.EOF.
func (lex *Lexer) ReadToken() ([]*token.Token, error) {
	s := lex.scanner
	if s.EOF() {
		if m := lex.top().mode; m != modeHTML && m != modeScript || lex.top().interp {
			return nil, lex.errorf("unexpected end of file")
		}
		return nil, io.EOF
	}
	if lex.halted {
		s.Skip(len(s.Rest()))
		return lex.emit(token.INLINE_HTML)
	}
	switch lex.top().mode {
	case modeHTML:
		return lex.readHTML()
	case modeDouble:
		return lex.readEncapsed('"', token.DOUBLE_QUOTE)
	case modeBacktick:
		return lex.readEncapsed('`', token.BACKTICK)
	case modeHeredoc:
		return lex.readHeredoc()
	case modeVarOffset:
		return lex.readVarOffset()
	case modeProperty:
		return lex.readProperty()
	case modeVarname:
		return lex.readVarname()
	default:
		return lex.readScript()
	}
}

func (lex *Lexer) top() *frame {
	return &lex.stack[len(lex.stack)-1]
}

func (lex *Lexer) push(f frame) {
	lex.stack = append(lex.stack, f)
}

func (lex *Lexer) pop() {
	if len(lex.stack) > 1 {
		lex.stack = lex.stack[:len(lex.stack)-1]
	}
}

func (lex *Lexer) emit(typ token.Type) ([]*token.Token, error) {
	tok := lex.scanner.EmitToken(typ)
	if typ != token.WHITESPACE && typ != token.COMMENT && typ != token.DOC_COMMENT {
		lex.prev = typ
	}
	if lex.halting && (typ == token.SEMICOLON || typ == token.CLOSE_TAG) {
		lex.halted = true
	}
	return []*token.Token{tok}, nil
}

func (lex *Lexer) errorf(format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    errors.Errorf(format, v...),
		Source: lex.scanner.LocStart(),
	}
}

func (lex *Lexer) readHTML() ([]*token.Token, error) {
	s := lex.scanner
	i := openTagIndex(s.Rest())
	if i < 0 {
		s.Skip(len(s.Rest()))
		return lex.emit(token.INLINE_HTML)
	}
	if i > 0 {
		s.Skip(i)
		return lex.emit(token.INLINE_HTML)
	}
	lex.top().mode = modeScript
	if s.AcceptString("<?=") {
		return lex.emit(token.OPEN_TAG_WITH_ECHO)
	}
	s.Skip(len("<?php"))
	return lex.emit(token.OPEN_TAG)
}

// openTagIndex returns the offset of the first "<?php" or "<?=" in text, or
// -1 if there is none.
func openTagIndex(text string) int {
	offset := 0
	for {
		i := strings.Index(text[offset:], "<?")
		if i < 0 {
			return -1
		}
		i += offset
		rest := text[i:]
		if strings.HasPrefix(rest, "<?=") {
			return i
		}
		if len(rest) >= 5 && strings.EqualFold(rest[:5], "<?php") &&
			(len(rest) == 5 || isSpace(rune(rest[5]))) {
			return i
		}
		offset = i + 2
	}
}

func (lex *Lexer) readScript() ([]*token.Token, error) {
	s := lex.scanner
	c, _ := s.Peek()
	switch {
	case isSpace(c):
		s.AcceptSeq(isSpace)
		return lex.emit(token.WHITESPACE)
	case s.HasPrefix("?>"):
		s.Skip(2)
		if !s.AcceptString("\r\n") {
			s.AcceptRune('\n')
		}
		lex.top().mode = modeHTML
		return lex.emit(token.CLOSE_TAG)
	case s.HasPrefix("#[") && !lex.legacy:
		s.Skip(2)
		return lex.emit(token.ATTRIBUTE)
	case c == '#' || s.HasPrefix("//"):
		for !s.EOF() && !s.HasPrefix("?>") && !s.HasPrefix("\n") && !s.HasPrefix("\r\n") {
			s.ScanRune()
		}
		return lex.emit(token.COMMENT)
	case s.HasPrefix("/*"):
		end := strings.Index(s.Rest()[2:], "*/")
		if end < 0 {
			return nil, lex.errorf("unterminated comment")
		}
		s.Skip(end + 4)
		text := s.Text()
		if strings.HasPrefix(text, "/**") && len(text) > 4 && isSpace(rune(text[3])) {
			return lex.emit(token.DOC_COMMENT)
		}
		return lex.emit(token.COMMENT)
	case c == '$':
		s.ScanRune()
		if r, ok := s.Peek(); ok && isNameStart(r) {
			s.AcceptSeq(isName)
			return lex.emit(token.VARIABLE)
		}
		return lex.emit(token.DOLLAR)
	case isNameStart(c) || c == '\\':
		return lex.readName()
	case isDigit(c) || c == '.' && isDigit(rune(s.PeekByte(1))):
		return lex.readNumber()
	case c == '\'':
		return lex.readSingleQuoted()
	case c == '"':
		return lex.readDoubleQuoted()
	case c == '`':
		s.ScanRune()
		lex.push(frame{mode: modeBacktick})
		return lex.emit(token.BACKTICK)
	case s.HasPrefix("<<<"):
		if toks, ok := lex.readStartHeredoc(); ok {
			return toks, nil
		}
	case c == '(':
		if n, typ := castLength(s.Rest()); n > 0 {
			s.Skip(n)
			return lex.emit(typ)
		}
	case c == '{':
		if lex.top().interp {
			lex.top().braces++
		}
		s.ScanRune()
		return lex.emit(token.OPEN_BRACE)
	case c == '}':
		s.ScanRune()
		if f := lex.top(); f.interp {
			if f.braces == 0 {
				lex.pop()
			} else {
				f.braces--
			}
		}
		return lex.emit(token.CLOSE_BRACE)
	}
	for _, op := range operators {
		if s.AcceptString(op.text) {
			return lex.emit(op.typ)
		}
	}
	s.ScanRune()
	return nil, lex.errorf("unexpected character %q", s.Rune())
}

func (lex *Lexer) readName() ([]*token.Token, error) {
	s := lex.scanner
	if s.HasPrefix("\\") {
		if lex.legacy || !isNameStart(rune(s.PeekByte(1))) {
			s.Skip(1)
			return lex.emit(token.NS_SEPARATOR)
		}
		s.Skip(1)
		s.AcceptSeq(isName)
		lex.acceptNameParts()
		return lex.emit(token.NAME_FULLY_QUALIFIED)
	}
	s.AcceptSeq(isName)
	word := s.Text()
	lower := strings.ToLower(word)
	if !lex.legacy && s.HasPrefix("\\") && isNameStart(rune(s.PeekByte(1))) {
		lex.acceptNameParts()
		if lower == "namespace" {
			return lex.emit(token.NAME_RELATIVE)
		}
		return lex.emit(token.NAME_QUALIFIED)
	}
	switch lex.prev {
	case token.OBJECT_OPERATOR, token.NULLSAFE_OBJECT_OPERATOR, token.FUNCTION, token.CONST:
		return lex.emit(token.STRING)
	case token.DOUBLE_COLON:
		if lower != "class" {
			return lex.emit(token.STRING)
		}
	}
	typ, ok := token.Keywords[lower]
	if !ok {
		return lex.emit(token.STRING)
	}
	switch typ {
	case token.YIELD:
		if n := yieldFromLength(s.Rest()); n > 0 {
			s.Skip(n)
			return lex.emit(token.YIELD_FROM)
		}
	case token.ENUM:
		rest := s.Rest()
		trimmed := strings.TrimLeft(rest, " \t\r\n")
		if len(trimmed) == len(rest) || trimmed == "" || !isNameStart(rune(trimmed[0])) ||
			hasWordPrefixFold(trimmed, "extends") || hasWordPrefixFold(trimmed, "implements") {
			return lex.emit(token.STRING)
		}
	case token.READONLY:
		if s.HasPrefix("(") {
			return lex.emit(token.STRING)
		}
	case token.HALT_COMPILER:
		lex.halting = true
	}
	return lex.emit(typ)
}

// acceptNameParts scans any remaining "\name" segments of a namespaced name.
func (lex *Lexer) acceptNameParts() {
	s := lex.scanner
	for s.HasPrefix("\\") && isNameStart(rune(s.PeekByte(1))) {
		s.Skip(1)
		s.AcceptSeq(isName)
	}
}

func (lex *Lexer) readNumber() ([]*token.Token, error) {
	s := lex.scanner
	switch {
	case s.HasPrefixFold("0x"):
		s.Skip(2)
		s.AcceptSeq(func(c rune) bool { return isHexDigit(c) || c == '_' })
		return lex.emit(token.LNUMBER)
	case s.HasPrefixFold("0b"):
		s.Skip(2)
		s.AcceptSeqAny("01_")
		return lex.emit(token.LNUMBER)
	case s.HasPrefixFold("0o"):
		s.Skip(2)
		s.AcceptSeqAny("01234567_")
		return lex.emit(token.LNUMBER)
	}
	typ := token.LNUMBER
	s.AcceptSeq(isDigitOrSeparator)
	if s.HasPrefix(".") && !s.HasPrefix("...") && !s.HasPrefix("..") {
		s.Skip(1)
		s.AcceptSeq(isDigitOrSeparator)
		typ = token.DNUMBER
	}
	if r, _ := s.Peek(); r == 'e' || r == 'E' {
		next := s.PeekByte(1)
		if isDigit(rune(next)) || (next == '+' || next == '-') && isDigit(rune(s.PeekByte(2))) {
			s.Skip(2)
			s.AcceptSeq(isDigitOrSeparator)
			typ = token.DNUMBER
		}
	}
	return lex.emit(typ)
}

func (lex *Lexer) readSingleQuoted() ([]*token.Token, error) {
	s := lex.scanner
	s.ScanRune()
	for s.ScanRune() {
		switch s.Rune() {
		case '\\':
			s.ScanRune()
		case '\'':
			return lex.emit(token.CONSTANT_ENCAPSED_STRING)
		}
	}
	return nil, lex.errorf("unterminated string literal")
}

func (lex *Lexer) readDoubleQuoted() ([]*token.Token, error) {
	s := lex.scanner
	rest := s.Rest()
	for i := 1; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '"':
			s.Skip(i + 1)
			return lex.emit(token.CONSTANT_ENCAPSED_STRING)
		case '$':
			if i+1 < len(rest) && (isNameStart(rune(rest[i+1])) || rest[i+1] == '{') {
				s.ScanRune()
				lex.push(frame{mode: modeDouble})
				return lex.emit(token.DOUBLE_QUOTE)
			}
		case '{':
			if i+1 < len(rest) && rest[i+1] == '$' {
				s.ScanRune()
				lex.push(frame{mode: modeDouble})
				return lex.emit(token.DOUBLE_QUOTE)
			}
		}
	}
	return nil, lex.errorf("unterminated string literal")
}

// readInterpolation lexes the start of an interpolated expression inside a
// string or heredoc.  It returns false if the input does not start one.
func (lex *Lexer) readInterpolation() ([]*token.Token, bool) {
	s := lex.scanner
	switch {
	case s.HasPrefix("{$"):
		s.Skip(1)
		lex.push(frame{mode: modeScript, interp: true})
		toks, _ := lex.emit(token.CURLY_OPEN)
		return toks, true
	case s.HasPrefix("${"):
		s.Skip(2)
		lex.push(frame{mode: modeVarname})
		toks, _ := lex.emit(token.DOLLAR_OPEN_CURLY_BRACES)
		return toks, true
	case s.HasPrefix("$") && isNameStart(rune(s.PeekByte(1))):
		s.Skip(1)
		s.AcceptSeq(isName)
		switch {
		case s.HasPrefix("["):
			lex.push(frame{mode: modeVarOffset})
		case s.HasPrefix("->") && isNameStart(rune(s.PeekByte(2))),
			s.HasPrefix("?->") && isNameStart(rune(s.PeekByte(3))):
			lex.push(frame{mode: modeProperty})
		}
		toks, _ := lex.emit(token.VARIABLE)
		return toks, true
	}
	return nil, false
}

func (lex *Lexer) readEncapsed(quote rune, typ token.Type) ([]*token.Token, error) {
	s := lex.scanner
	if s.AcceptRune(quote) {
		lex.pop()
		return lex.emit(typ)
	}
	if toks, ok := lex.readInterpolation(); ok {
		return toks, nil
	}
	for !s.EOF() {
		if r, _ := s.Peek(); r == quote || lex.atInterpolation() {
			break
		}
		if s.AcceptRune('\\') {
			s.ScanRune()
			continue
		}
		s.ScanRune()
	}
	if s.EOF() {
		return nil, lex.errorf("unterminated string literal")
	}
	return lex.emit(token.ENCAPSED_AND_WHITESPACE)
}

func (lex *Lexer) atInterpolation() bool {
	s := lex.scanner
	return s.HasPrefix("{$") || s.HasPrefix("${") ||
		s.HasPrefix("$") && isNameStart(rune(s.PeekByte(1)))
}

func (lex *Lexer) readStartHeredoc() ([]*token.Token, bool) {
	s := lex.scanner
	rest := s.Rest()
	i := 3
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	quote := byte(0)
	if i < len(rest) && (rest[i] == '"' || rest[i] == '\'') {
		quote = rest[i]
		i++
	}
	start := i
	for i < len(rest) && isName(rune(rest[i])) {
		i++
	}
	if i == start || !isNameStart(rune(rest[start])) {
		return nil, false
	}
	label := rest[start:i]
	if quote != 0 {
		if i >= len(rest) || rest[i] != quote {
			return nil, false
		}
		i++
	}
	switch {
	case strings.HasPrefix(rest[i:], "\r\n"):
		i += 2
	case strings.HasPrefix(rest[i:], "\n"):
		i++
	default:
		return nil, false
	}
	s.Skip(i)
	lex.push(frame{mode: modeHeredoc, label: label, nowdoc: quote == '\''})
	toks, _ := lex.emit(token.START_HEREDOC)
	return toks, true
}

// atHeredocEnd reports whether the scanner is positioned at the closing
// identifier of the current heredoc.
func (lex *Lexer) atHeredocEnd() bool {
	s := lex.scanner
	if !s.AtLineStart() {
		return false
	}
	rest := strings.TrimLeft(s.Rest(), " \t")
	label := lex.top().label
	if !strings.HasPrefix(rest, label) {
		return false
	}
	return len(rest) == len(label) || !isName(rune(rest[len(label)]))
}

func (lex *Lexer) readHeredoc() ([]*token.Token, error) {
	s := lex.scanner
	f := lex.top()
	if lex.atHeredocEnd() {
		s.AcceptSeqAny(" \t")
		s.Skip(len(f.label))
		lex.pop()
		return lex.emit(token.END_HEREDOC)
	}
	if !f.nowdoc {
		if toks, ok := lex.readInterpolation(); ok {
			return toks, nil
		}
	}
	for !s.EOF() {
		if !f.nowdoc {
			if lex.atInterpolation() {
				break
			}
			if s.AcceptRune('\\') {
				s.ScanRune()
				continue
			}
		}
		s.ScanRune()
		if s.Rune() == '\n' && lex.atHeredocEnd() {
			break
		}
	}
	if s.EOF() {
		return nil, lex.errorf("unterminated heredoc")
	}
	return lex.emit(token.ENCAPSED_AND_WHITESPACE)
}

func (lex *Lexer) readVarOffset() ([]*token.Token, error) {
	s := lex.scanner
	c, _ := s.Peek()
	switch {
	case c == '[':
		s.ScanRune()
		return lex.emit(token.OPEN_BRACKET)
	case c == ']':
		s.ScanRune()
		lex.pop()
		return lex.emit(token.CLOSE_BRACKET)
	case c == '-':
		s.ScanRune()
		return lex.emit(token.MINUS)
	case isDigit(c):
		s.AcceptSeq(isName)
		return lex.emit(token.NUM_STRING)
	case c == '$' && isNameStart(rune(s.PeekByte(1))):
		s.ScanRune()
		s.AcceptSeq(isName)
		return lex.emit(token.VARIABLE)
	case isNameStart(c):
		s.AcceptSeq(isName)
		return lex.emit(token.STRING)
	}
	s.ScanRune()
	return nil, lex.errorf("unexpected character %q in string offset", s.Rune())
}

func (lex *Lexer) readProperty() ([]*token.Token, error) {
	s := lex.scanner
	switch {
	case s.AcceptString("->"):
		return lex.emit(token.OBJECT_OPERATOR)
	case s.AcceptString("?->"):
		return lex.emit(token.NULLSAFE_OBJECT_OPERATOR)
	}
	s.AcceptSeq(isName)
	lex.pop()
	return lex.emit(token.STRING)
}

func (lex *Lexer) readVarname() ([]*token.Token, error) {
	s := lex.scanner
	*lex.top() = frame{mode: modeScript, interp: true}
	rest := s.Rest()
	i := 0
	for i < len(rest) && isName(rune(rest[i])) {
		i++
	}
	if i > 0 && isNameStart(rune(rest[0])) && i < len(rest) && (rest[i] == '[' || rest[i] == '}') {
		s.Skip(i)
		return lex.emit(token.STRING_VARNAME)
	}
	return lex.readScript()
}

// castLength returns the length of the cast operator at the start of text,
// or zero if text does not start with one.
func castLength(text string) (int, token.Type) {
	i := 1
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	start := i
	for i < len(text) && isLetter(rune(text[i])) {
		i++
	}
	typ, ok := token.Casts[strings.ToLower(text[start:i])]
	if !ok {
		return 0, token.INVALID
	}
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i >= len(text) || text[i] != ')' {
		return 0, token.INVALID
	}
	return i + 1, typ
}

// yieldFromLength returns the length of the whitespace and "from" keyword
// following "yield", or zero.
func yieldFromLength(text string) int {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if len(trimmed) == len(text) || !hasWordPrefixFold(trimmed, "from") {
		return 0
	}
	return len(text) - len(trimmed) + len("from")
}

func hasWordPrefixFold(text, word string) bool {
	return len(text) >= len(word) && strings.EqualFold(text[:len(word)], word) &&
		(len(text) == len(word) || !isName(rune(text[len(word)])))
}

var operators = []struct {
	text string
	typ  token.Type
}{
	{"<=>", token.SPACESHIP},
	{"**=", token.POW_EQUAL},
	{"...", token.ELLIPSIS},
	{"<<=", token.SL_EQUAL},
	{">>=", token.SR_EQUAL},
	{"===", token.IS_IDENTICAL},
	{"!==", token.IS_NOT_IDENTICAL},
	{"??=", token.COALESCE_EQUAL},
	{"?->", token.NULLSAFE_OBJECT_OPERATOR},
	{"++", token.INC},
	{"--", token.DEC},
	{"->", token.OBJECT_OPERATOR},
	{"=>", token.DOUBLE_ARROW},
	{"::", token.DOUBLE_COLON},
	{"==", token.IS_EQUAL},
	{"!=", token.IS_NOT_EQUAL},
	{"<>", token.IS_NOT_EQUAL},
	{"<=", token.IS_SMALLER_OR_EQUAL},
	{">=", token.IS_GREATER_OR_EQUAL},
	{"&&", token.BOOLEAN_AND},
	{"||", token.BOOLEAN_OR},
	{"??", token.COALESCE},
	{"+=", token.PLUS_EQUAL},
	{"-=", token.MINUS_EQUAL},
	{"*=", token.MUL_EQUAL},
	{"/=", token.DIV_EQUAL},
	{".=", token.CONCAT_EQUAL},
	{"%=", token.MOD_EQUAL},
	{"&=", token.AND_EQUAL},
	{"|=", token.OR_EQUAL},
	{"^=", token.XOR_EQUAL},
	{"<<", token.SL},
	{">>", token.SR},
	{"**", token.POW},
	{"(", token.OPEN_PAREN},
	{")", token.CLOSE_PAREN},
	{"[", token.OPEN_BRACKET},
	{"]", token.CLOSE_BRACKET},
	{";", token.SEMICOLON},
	{",", token.COMMA},
	{":", token.COLON},
	{"?", token.QUESTION},
	{"=", token.EQUAL},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.MUL},
	{"/", token.DIV},
	{"%", token.MOD},
	{".", token.CONCAT},
	{"!", token.LOGICAL_NOT},
	{"&", token.AND},
	{"|", token.OR},
	{"^", token.XOR},
	{"~", token.NOT},
	{">", token.GREATER},
	{"<", token.SMALLER},
	{"@", token.AT},
	{"$", token.DOLLAR},
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNameStart(c rune) bool {
	return isLetter(c) || c == '_' || c >= 0x80
}

func isName(c rune) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isDigitOrSeparator(c rune) bool {
	return isDigit(c) || c == '_'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
