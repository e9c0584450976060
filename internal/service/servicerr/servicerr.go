package servicerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized is returned when an auth-required operation is
	// called without a valid session credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when an order or customer id is unknown.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries per-field detail for malformed input. It is
// detected at the boundary and returned before any store access.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message

	return e
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}
