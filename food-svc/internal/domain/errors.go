package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("you must be logged in")
	ErrForbidden          = errors.New("not allowed for this account")
	ErrUserNotFound       = errors.New("user data not found")
	ErrNotFound           = errors.New("not found")
	ErrRead               = errors.New("read failed")
	ErrWrite              = errors.New("write failed")
	ErrRestaurantExists   = errors.New("you have already added a restaurant")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownRole        = errors.New("unrecognized user role")
)

// ValidationError reports a missing or malformed field. It is caught before any
// store round trip and matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func ReadError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRead, err)
}

func WriteError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrWrite, err)
}
