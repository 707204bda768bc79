// Copyright © 2024 The ELPS authors

package document

import "fmt"

// ContractError reports a request a caller should never make, such as the
// sub-type of a colon with nothing before it.  It indicates a bug in a rule
// rather than a problem with the input.  Contract violations are raised with
// panic and recovered by the rule pipeline.
type ContractError struct {
	Token *Token
	Msg   string
}

func (err *ContractError) Error() string {
	if err.Token == nil {
		return err.Msg
	}
	return fmt.Sprintf("%s: %s (%v %q)", err.Token.Location(), err.Msg, err.Token.Type, err.Token.Text)
}

func contractf(t *Token, format string, v ...interface{}) {
	panic(&ContractError{Token: t, Msg: fmt.Sprintf(format, v...)})
}

// Recover converts a ContractError panic into an error stored in *err.  It
// must be deferred.  Other panics are propagated.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if cerr, ok := r.(*ContractError); ok {
		*err = cerr
		return
	}
	panic(r)
}
