// Copyright © 2024 The ELPS authors

package token

import "fmt"

// Token is a single lexical unit produced by the lexer.  Tokens carry no
// relationships; those are derived later when a document is linked.
type Token struct {
	Type Type
	Text string
	Line int // line number (starting at 1)
	Col  int // column number (starting at 1), zero until collected
	Pos  int // byte offset of the first byte of Text
}

// String returns a compact representation of tok for test failure output.
func (tok *Token) String() string {
	return fmt.Sprintf("%v(%q)@%d", tok.Type, tok.Text, tok.Line)
}

// Type identifies the lexical category of a token.  The set of types is
// closed: every value below numTokenTypes is known to the type index.
type Type uint16

// Type constants for the PHP lexer.  Names follow the tokenizer extension
// without its T_ prefix; single-character tokens have descriptive names.
const (
	INVALID Type = iota

	// Markup and trivia
	INLINE_HTML
	OPEN_TAG
	OPEN_TAG_WITH_ECHO
	CLOSE_TAG
	WHITESPACE
	COMMENT
	DOC_COMMENT
	ATTRIBUTE_COMMENT // virtual: a "#[" comment in a version without attributes

	// Names and literals
	VARIABLE
	STRING // identifier
	NAME_QUALIFIED
	NAME_FULLY_QUALIFIED
	NAME_RELATIVE
	NS_SEPARATOR
	LNUMBER
	DNUMBER
	CONSTANT_ENCAPSED_STRING
	ENCAPSED_AND_WHITESPACE
	START_HEREDOC
	END_HEREDOC
	CURLY_OPEN
	DOLLAR_OPEN_CURLY_BRACES
	STRING_VARNAME
	NUM_STRING
	ATTRIBUTE

	// Single-character tokens
	OPEN_PAREN
	CLOSE_PAREN
	OPEN_BRACKET
	CLOSE_BRACKET
	OPEN_BRACE
	CLOSE_BRACE
	SEMICOLON
	COMMA
	COLON
	QUESTION
	EQUAL
	PLUS
	MINUS
	MUL
	DIV
	MOD
	CONCAT
	LOGICAL_NOT
	AND
	OR
	XOR
	NOT
	GREATER
	SMALLER
	AT
	DOLLAR
	DOUBLE_QUOTE
	BACKTICK

	// Multi-character operators
	AND_EQUAL
	BOOLEAN_AND
	BOOLEAN_OR
	COALESCE
	COALESCE_EQUAL
	CONCAT_EQUAL
	DEC
	DIV_EQUAL
	DOUBLE_ARROW
	DOUBLE_COLON
	ELLIPSIS
	INC
	IS_EQUAL
	IS_GREATER_OR_EQUAL
	IS_IDENTICAL
	IS_NOT_EQUAL
	IS_NOT_IDENTICAL
	IS_SMALLER_OR_EQUAL
	MINUS_EQUAL
	MOD_EQUAL
	MUL_EQUAL
	NULLSAFE_OBJECT_OPERATOR
	OBJECT_OPERATOR
	OR_EQUAL
	PLUS_EQUAL
	POW
	POW_EQUAL
	SL
	SL_EQUAL
	SPACESHIP
	SR
	SR_EQUAL
	XOR_EQUAL
	AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG
	AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG

	// Casts
	ARRAY_CAST
	BOOL_CAST
	DOUBLE_CAST
	INT_CAST
	OBJECT_CAST
	STRING_CAST
	UNSET_CAST

	// Keywords
	ABSTRACT
	ARRAY
	AS
	BREAK
	CALLABLE
	CASE
	CATCH
	CLASS
	CLONE
	CONST
	CONTINUE
	DECLARE
	DEFAULT
	DO
	ECHO
	ELSE
	ELSEIF
	EMPTY
	ENDDECLARE
	ENDFOR
	ENDFOREACH
	ENDIF
	ENDSWITCH
	ENDWHILE
	ENUM
	EVAL
	EXIT
	EXTENDS
	FINAL
	FINALLY
	FN
	FOR
	FOREACH
	FUNCTION
	GLOBAL
	GOTO
	HALT_COMPILER
	IF
	IMPLEMENTS
	INCLUDE
	INCLUDE_ONCE
	INSTANCEOF
	INSTEADOF
	INTERFACE
	ISSET
	LIST
	LOGICAL_AND
	LOGICAL_OR
	LOGICAL_XOR
	MATCH
	NAMESPACE
	NEW
	PRINT
	PRIVATE
	PROTECTED
	PUBLIC
	READONLY
	REQUIRE
	REQUIRE_ONCE
	RETURN
	STATIC
	SWITCH
	THROW
	TRAIT
	TRY
	UNSET
	USE
	VAR
	WHILE
	YIELD
	YIELD_FROM

	// Magic constants
	CLASS_C
	DIR
	FILE
	FUNC_C
	LINE
	METHOD_C
	NS_C
	TRAIT_C

	// Virtual tokens
	END_ALT_SYNTAX

	numTokenTypes
)

// NumTypes is the size of the token type universe.
const NumTypes = int(numTokenTypes)

var typeStrings = [numTokenTypes]string{
	INVALID:                  "invalid",
	INLINE_HTML:              "T_INLINE_HTML",
	OPEN_TAG:                 "T_OPEN_TAG",
	OPEN_TAG_WITH_ECHO:       "T_OPEN_TAG_WITH_ECHO",
	CLOSE_TAG:                "T_CLOSE_TAG",
	WHITESPACE:               "T_WHITESPACE",
	COMMENT:                  "T_COMMENT",
	DOC_COMMENT:              "T_DOC_COMMENT",
	ATTRIBUTE_COMMENT:        "T_ATTRIBUTE_COMMENT",
	VARIABLE:                 "T_VARIABLE",
	STRING:                   "T_STRING",
	NAME_QUALIFIED:           "T_NAME_QUALIFIED",
	NAME_FULLY_QUALIFIED:     "T_NAME_FULLY_QUALIFIED",
	NAME_RELATIVE:            "T_NAME_RELATIVE",
	NS_SEPARATOR:             "T_NS_SEPARATOR",
	LNUMBER:                  "T_LNUMBER",
	DNUMBER:                  "T_DNUMBER",
	CONSTANT_ENCAPSED_STRING: "T_CONSTANT_ENCAPSED_STRING",
	ENCAPSED_AND_WHITESPACE:  "T_ENCAPSED_AND_WHITESPACE",
	START_HEREDOC:            "T_START_HEREDOC",
	END_HEREDOC:              "T_END_HEREDOC",
	CURLY_OPEN:               "T_CURLY_OPEN",
	DOLLAR_OPEN_CURLY_BRACES: "T_DOLLAR_OPEN_CURLY_BRACES",
	STRING_VARNAME:           "T_STRING_VARNAME",
	NUM_STRING:               "T_NUM_STRING",
	ATTRIBUTE:                "T_ATTRIBUTE",

	OPEN_PAREN:    "(",
	CLOSE_PAREN:   ")",
	OPEN_BRACKET:  "[",
	CLOSE_BRACKET: "]",
	OPEN_BRACE:    "{",
	CLOSE_BRACE:   "}",
	SEMICOLON:     ";",
	COMMA:         ",",
	COLON:         ":",
	QUESTION:      "?",
	EQUAL:         "=",
	PLUS:          "+",
	MINUS:         "-",
	MUL:           "*",
	DIV:           "/",
	MOD:           "%",
	CONCAT:        ".",
	LOGICAL_NOT:   "!",
	AND:           "&",
	OR:            "|",
	XOR:           "^",
	NOT:           "~",
	GREATER:       ">",
	SMALLER:       "<",
	AT:            "@",
	DOLLAR:        "$",
	DOUBLE_QUOTE:  `"`,
	BACKTICK:      "`",

	AND_EQUAL:                               "T_AND_EQUAL",
	BOOLEAN_AND:                             "T_BOOLEAN_AND",
	BOOLEAN_OR:                              "T_BOOLEAN_OR",
	COALESCE:                                "T_COALESCE",
	COALESCE_EQUAL:                          "T_COALESCE_EQUAL",
	CONCAT_EQUAL:                            "T_CONCAT_EQUAL",
	DEC:                                     "T_DEC",
	DIV_EQUAL:                               "T_DIV_EQUAL",
	DOUBLE_ARROW:                            "T_DOUBLE_ARROW",
	DOUBLE_COLON:                            "T_DOUBLE_COLON",
	ELLIPSIS:                                "T_ELLIPSIS",
	INC:                                     "T_INC",
	IS_EQUAL:                                "T_IS_EQUAL",
	IS_GREATER_OR_EQUAL:                     "T_IS_GREATER_OR_EQUAL",
	IS_IDENTICAL:                            "T_IS_IDENTICAL",
	IS_NOT_EQUAL:                            "T_IS_NOT_EQUAL",
	IS_NOT_IDENTICAL:                        "T_IS_NOT_IDENTICAL",
	IS_SMALLER_OR_EQUAL:                     "T_IS_SMALLER_OR_EQUAL",
	MINUS_EQUAL:                             "T_MINUS_EQUAL",
	MOD_EQUAL:                               "T_MOD_EQUAL",
	MUL_EQUAL:                               "T_MUL_EQUAL",
	NULLSAFE_OBJECT_OPERATOR:                "T_NULLSAFE_OBJECT_OPERATOR",
	OBJECT_OPERATOR:                         "T_OBJECT_OPERATOR",
	OR_EQUAL:                                "T_OR_EQUAL",
	PLUS_EQUAL:                              "T_PLUS_EQUAL",
	POW:                                     "T_POW",
	POW_EQUAL:                               "T_POW_EQUAL",
	SL:                                      "T_SL",
	SL_EQUAL:                                "T_SL_EQUAL",
	SPACESHIP:                               "T_SPACESHIP",
	SR:                                      "T_SR",
	SR_EQUAL:                                "T_SR_EQUAL",
	XOR_EQUAL:                               "T_XOR_EQUAL",
	AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG:     "T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG",
	AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG: "T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG",

	ARRAY_CAST:  "T_ARRAY_CAST",
	BOOL_CAST:   "T_BOOL_CAST",
	DOUBLE_CAST: "T_DOUBLE_CAST",
	INT_CAST:    "T_INT_CAST",
	OBJECT_CAST: "T_OBJECT_CAST",
	STRING_CAST: "T_STRING_CAST",
	UNSET_CAST:  "T_UNSET_CAST",

	ABSTRACT:      "T_ABSTRACT",
	ARRAY:         "T_ARRAY",
	AS:            "T_AS",
	BREAK:         "T_BREAK",
	CALLABLE:      "T_CALLABLE",
	CASE:          "T_CASE",
	CATCH:         "T_CATCH",
	CLASS:         "T_CLASS",
	CLONE:         "T_CLONE",
	CONST:         "T_CONST",
	CONTINUE:      "T_CONTINUE",
	DECLARE:       "T_DECLARE",
	DEFAULT:       "T_DEFAULT",
	DO:            "T_DO",
	ECHO:          "T_ECHO",
	ELSE:          "T_ELSE",
	ELSEIF:        "T_ELSEIF",
	EMPTY:         "T_EMPTY",
	ENDDECLARE:    "T_ENDDECLARE",
	ENDFOR:        "T_ENDFOR",
	ENDFOREACH:    "T_ENDFOREACH",
	ENDIF:         "T_ENDIF",
	ENDSWITCH:     "T_ENDSWITCH",
	ENDWHILE:      "T_ENDWHILE",
	ENUM:          "T_ENUM",
	EVAL:          "T_EVAL",
	EXIT:          "T_EXIT",
	EXTENDS:       "T_EXTENDS",
	FINAL:         "T_FINAL",
	FINALLY:       "T_FINALLY",
	FN:            "T_FN",
	FOR:           "T_FOR",
	FOREACH:       "T_FOREACH",
	FUNCTION:      "T_FUNCTION",
	GLOBAL:        "T_GLOBAL",
	GOTO:          "T_GOTO",
	HALT_COMPILER: "T_HALT_COMPILER",
	IF:            "T_IF",
	IMPLEMENTS:    "T_IMPLEMENTS",
	INCLUDE:       "T_INCLUDE",
	INCLUDE_ONCE:  "T_INCLUDE_ONCE",
	INSTANCEOF:    "T_INSTANCEOF",
	INSTEADOF:     "T_INSTEADOF",
	INTERFACE:     "T_INTERFACE",
	ISSET:         "T_ISSET",
	LIST:          "T_LIST",
	LOGICAL_AND:   "T_LOGICAL_AND",
	LOGICAL_OR:    "T_LOGICAL_OR",
	LOGICAL_XOR:   "T_LOGICAL_XOR",
	MATCH:         "T_MATCH",
	NAMESPACE:     "T_NAMESPACE",
	NEW:           "T_NEW",
	PRINT:         "T_PRINT",
	PRIVATE:       "T_PRIVATE",
	PROTECTED:     "T_PROTECTED",
	PUBLIC:        "T_PUBLIC",
	READONLY:      "T_READONLY",
	REQUIRE:       "T_REQUIRE",
	REQUIRE_ONCE:  "T_REQUIRE_ONCE",
	RETURN:        "T_RETURN",
	STATIC:        "T_STATIC",
	SWITCH:        "T_SWITCH",
	THROW:         "T_THROW",
	TRAIT:         "T_TRAIT",
	TRY:           "T_TRY",
	UNSET:         "T_UNSET",
	USE:           "T_USE",
	VAR:           "T_VAR",
	WHILE:         "T_WHILE",
	YIELD:         "T_YIELD",
	YIELD_FROM:    "T_YIELD_FROM",

	CLASS_C:  "T_CLASS_C",
	DIR:      "T_DIR",
	FILE:     "T_FILE",
	FUNC_C:   "T_FUNC_C",
	LINE:     "T_LINE",
	METHOD_C: "T_METHOD_C",
	NS_C:     "T_NS_C",
	TRAIT_C:  "T_TRAIT_C",

	END_ALT_SYNTAX: "T_END_ALT_SYNTAX",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Valid reports whether typ belongs to the token type universe.
func (typ Type) Valid() bool {
	return typ > INVALID && typ < numTokenTypes
}

// Keywords maps lower-case reserved words to their token types.
var Keywords = map[string]Type{
	"abstract":        ABSTRACT,
	"array":           ARRAY,
	"as":              AS,
	"break":           BREAK,
	"callable":        CALLABLE,
	"case":            CASE,
	"catch":           CATCH,
	"class":           CLASS,
	"clone":           CLONE,
	"const":           CONST,
	"continue":        CONTINUE,
	"declare":         DECLARE,
	"default":         DEFAULT,
	"die":             EXIT,
	"do":              DO,
	"echo":            ECHO,
	"else":            ELSE,
	"elseif":          ELSEIF,
	"empty":           EMPTY,
	"enddeclare":      ENDDECLARE,
	"endfor":          ENDFOR,
	"endforeach":      ENDFOREACH,
	"endif":           ENDIF,
	"endswitch":       ENDSWITCH,
	"endwhile":        ENDWHILE,
	"enum":            ENUM,
	"eval":            EVAL,
	"exit":            EXIT,
	"extends":         EXTENDS,
	"final":           FINAL,
	"finally":         FINALLY,
	"fn":              FN,
	"for":             FOR,
	"foreach":         FOREACH,
	"function":        FUNCTION,
	"global":          GLOBAL,
	"goto":            GOTO,
	"__halt_compiler": HALT_COMPILER,
	"if":              IF,
	"implements":      IMPLEMENTS,
	"include":         INCLUDE,
	"include_once":    INCLUDE_ONCE,
	"instanceof":      INSTANCEOF,
	"insteadof":       INSTEADOF,
	"interface":       INTERFACE,
	"isset":           ISSET,
	"list":            LIST,
	"and":             LOGICAL_AND,
	"or":              LOGICAL_OR,
	"xor":             LOGICAL_XOR,
	"match":           MATCH,
	"namespace":       NAMESPACE,
	"new":             NEW,
	"print":           PRINT,
	"private":         PRIVATE,
	"protected":       PROTECTED,
	"public":          PUBLIC,
	"readonly":        READONLY,
	"require":         REQUIRE,
	"require_once":    REQUIRE_ONCE,
	"return":          RETURN,
	"static":          STATIC,
	"switch":          SWITCH,
	"throw":           THROW,
	"trait":           TRAIT,
	"try":             TRY,
	"unset":           UNSET,
	"use":             USE,
	"var":             VAR,
	"while":           WHILE,
	"yield":           YIELD,
	"__class__":       CLASS_C,
	"__dir__":         DIR,
	"__file__":        FILE,
	"__function__":    FUNC_C,
	"__line__":        LINE,
	"__method__":      METHOD_C,
	"__namespace__":   NS_C,
	"__trait__":       TRAIT_C,
}

// Casts maps normalised cast type names to cast token types.
var Casts = map[string]Type{
	"int":     INT_CAST,
	"integer": INT_CAST,
	"bool":    BOOL_CAST,
	"boolean": BOOL_CAST,
	"float":   DOUBLE_CAST,
	"double":  DOUBLE_CAST,
	"real":    DOUBLE_CAST,
	"string":  STRING_CAST,
	"binary":  STRING_CAST,
	"array":   ARRAY_CAST,
	"object":  OBJECT_CAST,
	"unset":   UNSET_CAST,
}

// Location identifies a position in a named source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError is an error that occurred at a particular source location.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

// Unwrap returns the underlying error.
func (err *LocationError) Unwrap() error {
	return err.Err
}
