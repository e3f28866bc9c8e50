package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict signals a second open order for a customer that already has one.
	ErrConflict = errors.New("conflict")
	// ErrCalculation signals a corrupt line item encountered during amount recomputation.
	ErrCalculation = errors.New("calculation error")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
)
