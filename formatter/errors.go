// Copyright © 2024 The ELPS authors

package formatter

import (
	"fmt"

	"github.com/luthersystems/prettyphp/parser/token"
	"github.com/luthersystems/prettyphp/rule"
)

// IncompatibleRulesError is returned by New when the configuration enables
// rules that cannot run together.
type IncompatibleRulesError = rule.IncompatibleRulesError

// InvalidTypeError is returned when the lexer produces a token the type
// index does not know.
type InvalidTypeError struct {
	File  string
	Token *token.Token
}

func (err *InvalidTypeError) Error() string {
	return fmt.Sprintf("%s:%d: invalid token type %v", err.File, err.Token.Line, err.Token.Type)
}

// VerificationError is returned when the formatted output does not contain
// the same code as the input.  Want is the first input token that differs
// and Got the output token in its place.  Either may be nil when one
// stream ends first.
type VerificationError struct {
	File string
	Want *token.Token
	Got  *token.Token
}

func (err *VerificationError) Error() string {
	switch {
	case err.Got == nil:
		return fmt.Sprintf("%s:%d: formatted output ends before %v %q",
			err.File, err.Want.Line, err.Want.Type, err.Want.Text)
	case err.Want == nil:
		return fmt.Sprintf("%s: formatted output has unexpected %v %q on line %d",
			err.File, err.Got.Type, err.Got.Text, err.Got.Line)
	}
	return fmt.Sprintf("%s:%d: formatted output has %v %q on line %d, expected %v %q",
		err.File, err.Want.Line, err.Got.Type, err.Got.Text, err.Got.Line, err.Want.Type, err.Want.Text)
}
