// Package apperr separates mistakes in user input from failures of the tool.
//
// A UserError is printed as its message only and exits with code 1, without
// repeating command usage. Everything else is a plain error wrapped with
// fmt.Errorf("context: %w", err).
package apperr

import (
	"errors"
	"fmt"
)

// UserError is caused by invalid or missing user input.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error { return e.Err }

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// Wrap marks err as a user error with msg as context. A nil err returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &UserError{Message: msg, Err: err}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}
