package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions the caller branches on with errors.Is.
var (
	// ErrAliasTaken is returned when a registration alias is already held by
	// a different participant of the same form.
	ErrAliasTaken = errors.New("alias already taken")

	// ErrNotOwner is returned when an operation requires course ownership.
	ErrNotOwner = errors.New("user is not an owner of the course")
)

// ValidationError rejects an input value, naming the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
}

// NewNotFoundError creates a not-found error for the given resource kind.
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// InvalidStateError rejects an operation not allowed in the form's current
// lifecycle state.
type InvalidStateError struct {
	Op     string
	Status FormStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a form in state %s", e.Op, e.Status)
}
