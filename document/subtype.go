// Copyright © 2024 The ELPS authors

package document

import "github.com/luthersystems/prettyphp/parser/token"

// SubType distinguishes the roles a token type can play.  Colons, question
// marks and some operators are ambiguous on their own; their role depends
// on the tokens around them.
type SubType uint8

const (
	unresolved SubType = iota
	NoSubType
	TernaryColon
	AltSyntaxColon
	SwitchCaseColon
	LabelColon
	NamedArgumentColon
	ReturnTypeColon
	EnumBackingColon
	TernaryQuestion
	NullableQuestion
	UnaryOperator
	BinaryOperator
	ReferenceOperator
	TypeOperator
	PostfixOperator
)

var subTypeStrings = [...]string{
	unresolved:         "unresolved",
	NoSubType:          "none",
	TernaryColon:       "ternary-colon",
	AltSyntaxColon:     "alt-syntax-colon",
	SwitchCaseColon:    "switch-case-colon",
	LabelColon:         "label-colon",
	NamedArgumentColon: "named-argument-colon",
	ReturnTypeColon:    "return-type-colon",
	EnumBackingColon:   "enum-backing-colon",
	TernaryQuestion:    "ternary-question",
	NullableQuestion:   "nullable-question",
	UnaryOperator:      "unary",
	BinaryOperator:     "binary",
	ReferenceOperator:  "reference",
	TypeOperator:       "type",
	PostfixOperator:    "postfix",
}

func (s SubType) String() string {
	if int(s) < len(subTypeStrings) {
		return subTypeStrings[s]
	}
	return "invalid"
}

// SubType returns the role of t, classifying it on first use.  Classifying
// a colon with no code before it is a contract violation.
func (t *Token) SubType() SubType {
	if t.sub == unresolved {
		t.sub = t.classify()
	}
	return t.sub
}

func (t *Token) classify() SubType {
	switch t.Type {
	case token.COLON:
		return t.classifyColon()
	case token.QUESTION:
		return t.classifyQuestion()
	case token.AND, token.OR:
		return t.classifyAmpersandOrPipe()
	case token.PLUS, token.MINUS:
		if endsValue(t.PrevCode()) {
			return BinaryOperator
		}
		return UnaryOperator
	case token.INC, token.DEC:
		if endsValue(t.PrevCode()) {
			return PostfixOperator
		}
		return UnaryOperator
	}
	return NoSubType
}

func (t *Token) classifyColon() SubType {
	prev := t.PrevCode()
	if prev == nil {
		contractf(t, "colon with no preceding code")
	}
	if t.statement != none {
		open := 0
		for s := t.PrevSibling(); s != nil && s.statement == t.statement; s = s.PrevSibling() {
			switch {
			case s.Type == token.QUESTION && s.SubType() == TernaryQuestion:
				open++
			case s.Type == token.COLON && s.SubType() == TernaryColon:
				open--
			}
		}
		if open > 0 {
			return TernaryColon
		}
		if start := t.Statement(); start != nil && start.Is(token.CASE, token.DEFAULT) {
			return SwitchCaseColon
		}
	}
	if prev.Type == token.CLOSE_PAREN && isFunctionHead(prev.OpenedBy().PrevCode()) {
		return ReturnTypeColon
	}
	if prev.Type == token.STRING {
		if pp := prev.PrevCode(); pp != nil && pp.Type == token.ENUM {
			return EnumBackingColon
		}
	}
	idx := t.doc.Index
	if p := t.Parent(); p != nil && p.Type == token.OPEN_PAREN &&
		(idx.Name.Has(prev.Type) || idx.Keyword.Has(prev.Type)) {
		if pp := prev.PrevCode(); pp == p || pp.Type == token.COMMA {
			return NamedArgumentColon
		}
	}
	if prev.Type == token.STRING && prev.IsStatementStart() && prev.InBlock() {
		return LabelColon
	}
	return TernaryColon
}

// isFunctionHead reports whether kw is the token before the parameter list
// of a function, closure, arrow function or closure "use" clause.
func isFunctionHead(kw *Token) bool {
	if kw == nil {
		return false
	}
	switch kw.Type {
	case token.FUNCTION, token.FN, token.USE:
		return true
	case token.AND:
		pp := kw.PrevCode()
		return pp != nil && pp.Is(token.FUNCTION, token.FN)
	case token.STRING:
		pp := kw.PrevCode()
		if pp != nil && pp.Type == token.AND {
			pp = pp.PrevCode()
		}
		return pp != nil && pp.Type == token.FUNCTION
	}
	return false
}

func (t *Token) classifyQuestion() SubType {
	prev, next := t.PrevCode(), t.NextCode()
	if prev == nil || next == nil || !isTypeName(next) {
		return TernaryQuestion
	}
	switch {
	case prev.Is(token.OPEN_PAREN, token.COMMA):
		if p := t.Parent(); p != nil && p.Type == token.OPEN_PAREN && isFunctionHead(p.PrevCode()) {
			return NullableQuestion
		}
	case prev.Type == token.COLON && prev.SubType() == ReturnTypeColon:
		return NullableQuestion
	case t.doc.Index.Modifier.Has(prev.Type), prev.Type == token.CONST:
		return NullableQuestion
	case prev.Type == token.CLOSE_BRACKET && prev.OpenedBy().Type == token.ATTRIBUTE:
		return NullableQuestion
	}
	return TernaryQuestion
}

func isTypeName(t *Token) bool {
	return t.doc.Index.Name.Has(t.Type) || t.Is(token.ARRAY, token.CALLABLE, token.STATIC)
}

func (t *Token) classifyAmpersandOrPipe() SubType {
	if t.isTypeOperator() {
		return TypeOperator
	}
	if t.Type == token.AND {
		if !endsValue(t.PrevCode()) {
			return ReferenceOperator
		}
		if next := t.NextCode(); next != nil && next.Is(token.VARIABLE, token.ELLIPSIS) {
			if p := t.Parent(); p != nil && p.Type == token.OPEN_PAREN && isFunctionHead(p.PrevCode()) {
				return ReferenceOperator
			}
		}
	}
	return BinaryOperator
}

// isTypeOperator reports whether t joins the members of a union or
// intersection type.
func (t *Token) isTypeOperator() bool {
	names := 0
	n := t.NextCode()
	for n != nil && (isTypeName(n) || n.Is(token.OR, token.AND, token.QUESTION)) {
		if isTypeName(n) {
			names++
		}
		if n.Type == token.AND {
			if nn := n.NextCode(); nn != nil && nn.Is(token.VARIABLE, token.ELLIPSIS) {
				break
			}
		}
		n = n.NextCode()
	}
	if names > 0 && n != nil && n.Is(token.VARIABLE, token.ELLIPSIS, token.AND) {
		return true
	}
	p := t.PrevCode()
	for p != nil && (isTypeName(p) || p.Is(token.OR, token.AND, token.QUESTION)) {
		p = p.PrevCode()
	}
	return p != nil && p != t.PrevCode() && p.Type == token.COLON && p.SubType() == ReturnTypeColon
}

// endsValue reports whether t can be the last token of an operand.
func endsValue(t *Token) bool {
	if t == nil {
		return false
	}
	switch {
	case t.doc.Index.Value.Has(t.Type):
		return true
	case t.Is(token.CLOSE_PAREN, token.CLOSE_BRACKET):
		return true
	case t.Type == token.CLOSE_BRACE:
		return !t.Structural
	case t.Type == token.END_HEREDOC:
		return true
	case t.Is(token.DOUBLE_QUOTE, token.BACKTICK):
		open := t.EnclosingString()
		return open != nil && open.strClosedBy == t.Index
	case t.Is(token.INC, token.DEC):
		return t.SubType() == PostfixOperator
	case t.Type == token.CLASS:
		p := t.PrevCode()
		return p != nil && p.Type == token.DOUBLE_COLON
	}
	return false
}
