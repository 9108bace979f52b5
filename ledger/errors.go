package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is the machine readable kind of a transition failure.
type Code string

const (
	CodeAlreadyInitialized Code = "already_initialized"
	CodeNotInitialized     Code = "not_initialized"
	CodeAlreadyRegistered  Code = "already_registered"
	CodeNotRegistered      Code = "not_registered"
	CodeUnauthorized       Code = "unauthorized"
	CodeInvalidScore       Code = "invalid_score"
	CodeCounterOverflow    Code = "counter_overflow"
)

// Error is a rejected transition. Two Errors match under errors.Is when
// their codes are equal, so callers compare against the Err* values below.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrAlreadyInitialized = &Error{Code: CodeAlreadyInitialized, Message: "game state already initialized"}
	ErrNotInitialized     = &Error{Code: CodeNotInitialized, Message: "game state not initialized"}
	ErrAlreadyRegistered  = &Error{Code: CodeAlreadyRegistered, Message: "player already registered"}
	ErrNotRegistered      = &Error{Code: CodeNotRegistered, Message: "player not registered"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "initiator does not own the player record"}
	ErrInvalidScore       = &Error{Code: CodeInvalidScore, Message: "score must be greater than 0"}
	ErrCounterOverflow    = &Error{Code: CodeCounterOverflow, Message: "counter would overflow"}
)

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
