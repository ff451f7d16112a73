// Package errs holds the sentinel errors shared by the store, service and http layers
// so that handlers can map failures to status codes without knowing which backend produced them.
package errs

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for a malformed resource identifier.
	ErrInvalidID = errors.New("invalid id")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is the single outcome for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated is returned when an operation runs without a resolved identity.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// FieldViolation describes one failed constraint on a request field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationError carries every violation found in a request.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation is a shortcut for a single-field validation error.
func NewValidation(field, rule, param, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{
		Field:   field,
		Rule:    rule,
		Param:   param,
		Message: message,
	}}}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
