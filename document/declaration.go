// Copyright © 2024 The ELPS authors

package document

import "strings"

// DeclarationKind identifies what a declaration statement declares.
type DeclarationKind int

const (
	NoDeclaration DeclarationKind = iota
	Namespace
	Use
	UseFunction
	UseConst
	UseTrait
	Const
	Class
	Interface
	Trait
	Enum
	EnumCase
	Function
	Property
	Declare
	numDeclarationKinds
)

var declarationStrings = [numDeclarationKinds]string{
	"none", "namespace", "use", "use-function", "use-const", "use-trait",
	"const", "class", "interface", "trait", "enum", "enum-case", "function",
	"property", "declare",
}

func (k DeclarationKind) String() string {
	if k < 0 || k >= numDeclarationKinds {
		return declarationStrings[NoDeclaration]
	}
	return declarationStrings[k]
}

// ParseDeclarationKind returns the kind named s, or NoDeclaration.
func ParseDeclarationKind(s string) DeclarationKind {
	for i, name := range declarationStrings {
		if strings.EqualFold(s, name) {
			return DeclarationKind(i)
		}
	}
	return NoDeclaration
}

// IsClassLike reports whether k declares a type with a body of members.
func (k DeclarationKind) IsClassLike() bool {
	return k == Class || k == Interface || k == Trait || k == Enum
}

// IsImport reports whether k is a file-level import.
func (k DeclarationKind) IsImport() bool {
	return k == Use || k == UseFunction || k == UseConst
}

// Declaration is a statement that declares something.
type Declaration struct {
	Kind  DeclarationKind
	Start *Token // first token, including attributes and modifiers
	End   *Token // last token, including any body
}
