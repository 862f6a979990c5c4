package server

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrNotInSession     = errors.New("user is not in a session")
	ErrAlreadyInSession = errors.New("user is already in a session")
)

// InvalidInputError reports a missing, mistyped, or out-of-range field.
// It always names the offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func errInvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}
