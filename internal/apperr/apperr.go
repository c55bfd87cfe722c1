// Package apperr defines the error kinds shared by the booking, review and catalog
// services. Transport code maps them to HTTP statuses with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")
)

// FieldError reports which request field failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func Validation(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// NotFound wraps ErrNotFound with a user-facing message.
func NotFound(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrNotFound)
}

func Conflict(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrConflict)
}

// Storage wraps a persistence failure. The cause stays reachable through errors.Is/As
// for logging but is never meant for the client.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Message returns the user-facing part of err: the field description for validation
// errors and the wrapped prefix for NotFound/Conflict.
func Message(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	for _, kind := range []error{ErrNotFound, ErrConflict} {
		if errors.Is(err, kind) {
			return strings.TrimSuffix(err.Error(), ": "+kind.Error())
		}
	}
	return err.Error()
}
