// Copyright © 2024 The ELPS authors

// Package typeindex classifies token types.  An Index is built once per
// formatter and shared, read-only, by the document builder, the filters and
// every rule.
package typeindex

import (
	"fmt"
	"strings"

	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/pkg/errors"
)

// NewlinePolicy determines where a line break may be preserved around a
// binary operator that is wrapped onto two lines.
type NewlinePolicy int

const (
	// Mixed preserves newlines on either side of binary operators.
	Mixed NewlinePolicy = iota
	// Leading preserves newlines before binary operators only, so wrapped
	// lines start with the operator.
	Leading
	// Trailing preserves newlines after binary operators only.
	Trailing
)

var policyStrings = []string{"mixed", "leading", "trailing"}

func (p NewlinePolicy) String() string {
	if p < 0 || int(p) >= len(policyStrings) {
		return fmt.Sprintf("NewlinePolicy(%d)", int(p))
	}
	return policyStrings[p]
}

// ParseNewlinePolicy returns the policy named s.
func ParseNewlinePolicy(s string) (NewlinePolicy, error) {
	for i, name := range policyStrings {
		if strings.EqualFold(s, name) {
			return NewlinePolicy(i), nil
		}
	}
	return Mixed, errors.Errorf("unknown newline policy: %q", s)
}

// Index holds every named token type category.
type Index struct {
	Policy NewlinePolicy

	// All contains every type the lexer can produce and every virtual
	// type.  Rules that apply to "all types" share this table.
	All Table

	NotCode    Table
	Comment    Table
	Markup     Table
	Whitespace Table
	Virtual    Table

	OpenBracket         Table
	CloseBracket        Table
	StringDelimiter     Table
	StringStart         Table
	StringEnd           Table
	StringContent       Table
	StatementTerminator Table

	Keyword           Table
	MagicConstant     Table
	Name              Table
	Value             Table
	Cast              Table
	Visibility        Table
	Modifier          Table
	DeclarationPart   Table
	AltSyntaxStart    Table
	AltSyntaxContinue Table
	AltSyntaxEnd      Table
	HasBody           Table // may be followed by a braceless body
	SpaceBeforeParen  Table // keywords separated from a following "("

	Arithmetic Table
	Assignment Table
	Bitwise    Table
	Comparison Table
	Logical    Table
	Ternary    Table
	Chain      Table
	Unary      Table // always prefix operators
	Binary     Table // operators with an operand on both sides

	// PreserveNewlineBefore and PreserveNewlineAfter depend on Policy.
	PreserveNewlineBefore Table
	PreserveNewlineAfter  Table
	// PreserveBlankBefore and PreserveBlankAfter allow a blank line to
	// survive, not just a newline.
	PreserveBlankBefore Table
	PreserveBlankAfter  Table
}

// New returns an index whose newline tables follow policy.
func New(policy NewlinePolicy) *Index {
	idx := &Index{}
	idx.build()
	idx.derive(policy)
	return idx
}

// WithPolicy returns a copy of idx with its newline tables re-derived for
// policy.  idx is not modified.
func (idx *Index) WithPolicy(policy NewlinePolicy) *Index {
	cp := *idx
	cp.derive(policy)
	return &cp
}

func (idx *Index) build() {
	idx.All = Range(token.INVALID+1, token.END_ALT_SYNTAX)

	idx.Comment = Of(token.COMMENT, token.DOC_COMMENT, token.ATTRIBUTE_COMMENT)
	idx.Markup = Of(token.INLINE_HTML, token.OPEN_TAG, token.OPEN_TAG_WITH_ECHO, token.CLOSE_TAG)
	idx.Whitespace = Of(token.WHITESPACE)
	idx.Virtual = Of(token.END_ALT_SYNTAX)
	idx.NotCode = idx.Comment.Union(idx.Markup, idx.Whitespace, idx.Virtual)

	idx.OpenBracket = Of(
		token.OPEN_PAREN, token.OPEN_BRACKET, token.OPEN_BRACE,
		token.ATTRIBUTE, token.CURLY_OPEN, token.DOLLAR_OPEN_CURLY_BRACES,
	)
	idx.CloseBracket = Of(token.CLOSE_PAREN, token.CLOSE_BRACKET, token.CLOSE_BRACE)
	idx.StringStart = Of(token.DOUBLE_QUOTE, token.BACKTICK, token.START_HEREDOC)
	idx.StringEnd = Of(token.DOUBLE_QUOTE, token.BACKTICK, token.END_HEREDOC)
	idx.StringDelimiter = idx.StringStart.Union(idx.StringEnd)
	idx.StringContent = Of(token.ENCAPSED_AND_WHITESPACE, token.STRING_VARNAME, token.NUM_STRING)
	idx.StatementTerminator = Of(token.SEMICOLON, token.CLOSE_TAG)

	idx.Keyword = Range(token.ABSTRACT, token.YIELD_FROM)
	idx.MagicConstant = Range(token.CLASS_C, token.TRAIT_C)
	idx.Name = Of(
		token.STRING, token.NAME_QUALIFIED, token.NAME_FULLY_QUALIFIED,
		token.NAME_RELATIVE, token.NS_SEPARATOR,
	)
	idx.Value = idx.Name.Union(idx.MagicConstant).Add(
		token.VARIABLE, token.LNUMBER, token.DNUMBER, token.CONSTANT_ENCAPSED_STRING,
	)
	idx.Cast = Range(token.ARRAY_CAST, token.UNSET_CAST)
	idx.Visibility = Of(token.PUBLIC, token.PROTECTED, token.PRIVATE)
	idx.Modifier = idx.Visibility.Add(
		token.ABSTRACT, token.FINAL, token.STATIC, token.READONLY, token.VAR,
	)
	idx.DeclarationPart = idx.Modifier.Add(
		token.CLASS, token.CONST, token.ENUM, token.FUNCTION, token.INTERFACE,
		token.NAMESPACE, token.TRAIT, token.USE, token.DECLARE, token.ATTRIBUTE,
		token.ATTRIBUTE_COMMENT,
	)
	idx.AltSyntaxStart = Of(
		token.IF, token.ELSEIF, token.WHILE, token.FOR, token.FOREACH,
		token.SWITCH, token.DECLARE,
	)
	idx.AltSyntaxContinue = Of(token.ELSE, token.ELSEIF)
	idx.AltSyntaxEnd = Of(
		token.ENDIF, token.ENDWHILE, token.ENDFOR, token.ENDFOREACH,
		token.ENDSWITCH, token.ENDDECLARE,
	)
	idx.HasBody = Of(
		token.IF, token.ELSEIF, token.ELSE, token.WHILE, token.FOR,
		token.FOREACH, token.DO, token.DECLARE,
	)
	idx.SpaceBeforeParen = Of(
		token.IF, token.ELSEIF, token.WHILE, token.FOR, token.FOREACH,
		token.SWITCH, token.CATCH, token.MATCH, token.FUNCTION, token.FN,
		token.USE,
	)

	idx.Arithmetic = Of(token.PLUS, token.MINUS, token.MUL, token.DIV, token.MOD, token.POW)
	idx.Assignment = Of(
		token.EQUAL, token.AND_EQUAL, token.COALESCE_EQUAL, token.CONCAT_EQUAL,
		token.DIV_EQUAL, token.MINUS_EQUAL, token.MOD_EQUAL, token.MUL_EQUAL,
		token.OR_EQUAL, token.PLUS_EQUAL, token.POW_EQUAL, token.SL_EQUAL,
		token.SR_EQUAL, token.XOR_EQUAL,
	)
	idx.Bitwise = Of(token.AND, token.OR, token.XOR, token.NOT, token.SL, token.SR)
	idx.Comparison = Of(
		token.IS_EQUAL, token.IS_IDENTICAL, token.IS_NOT_EQUAL,
		token.IS_NOT_IDENTICAL, token.IS_SMALLER_OR_EQUAL,
		token.IS_GREATER_OR_EQUAL, token.GREATER, token.SMALLER,
		token.SPACESHIP, token.INSTANCEOF,
	)
	idx.Logical = Of(
		token.BOOLEAN_AND, token.BOOLEAN_OR, token.LOGICAL_AND,
		token.LOGICAL_OR, token.LOGICAL_XOR, token.LOGICAL_NOT,
	)
	idx.Ternary = Of(token.QUESTION, token.COLON, token.COALESCE)
	idx.Chain = Of(token.OBJECT_OPERATOR, token.NULLSAFE_OBJECT_OPERATOR)
	idx.Unary = idx.Cast.Add(token.LOGICAL_NOT, token.NOT, token.INC, token.DEC, token.AT, token.DOLLAR)
	idx.Binary = idx.Arithmetic.Union(idx.Bitwise, idx.Comparison, idx.Logical, idx.Ternary).
		Add(token.CONCAT).
		Remove(token.NOT, token.LOGICAL_NOT)
}

// derive recomputes the tables that depend on the newline policy.
func (idx *Index) derive(policy NewlinePolicy) {
	idx.Policy = policy

	before := idx.CloseBracket.Union(idx.Chain, idx.Comment).
		Add(token.ATTRIBUTE, token.CLOSE_TAG, token.END_ALT_SYNTAX, token.DOUBLE_ARROW)
	after := idx.OpenBracket.Union(idx.Comment, idx.Assignment, idx.StatementTerminator).
		Add(token.COMMA, token.OPEN_TAG, token.OPEN_TAG_WITH_ECHO, token.CLOSE_BRACE,
			token.CLOSE_BRACKET, token.DOUBLE_ARROW)

	wrapped := idx.Binary.Diff(idx.Assignment).Remove(token.INSTANCEOF)
	switch policy {
	case Leading:
		before = before.Union(wrapped)
	case Trailing:
		after = after.Union(wrapped)
	default:
		before = before.Union(wrapped)
		after = after.Union(wrapped)
	}
	idx.PreserveNewlineBefore = before
	idx.PreserveNewlineAfter = after

	idx.PreserveBlankBefore = idx.Comment.Add(token.CLOSE_TAG)
	idx.PreserveBlankAfter = idx.Comment.Union(idx.StatementTerminator).
		Add(token.OPEN_TAG, token.CLOSE_BRACE, token.COMMA, token.COLON)
}
