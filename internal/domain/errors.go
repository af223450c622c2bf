package domain

import (
	"errors"
	"strings"
)

var (
	// ErrFormNotFound is returned when a form id does not resolve.
	ErrFormNotFound = errors.New("form not found")
	// ErrFormInactive is returned when a form no longer accepts responses.
	ErrFormInactive = errors.New("form is no longer accepting responses")
	// ErrUserNotFound is returned when no admin matches the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError collects every problem found in one input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Problems, "; ")
}

// NewValidationError builds a ValidationError from a list of problems.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: append([]string(nil), problems...)}
}
