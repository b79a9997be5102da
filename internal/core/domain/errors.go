package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors form the error taxonomy. Repositories and services return
// these (or wrap them); the HTTP error handler maps each to a status code.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSongNotFound       = errors.New("song not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccessDenied       = errors.New("access denied")
	ErrNoSecret           = errors.New("token secret is not configured")
)

// FieldError is a single failed check on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field errors so one response can report every
// invalid field at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError from non-nil field errors.
// Returns nil when every check passed, so callers can return it directly.
func NewValidationError(fields ...*FieldError) error {
	ve := &ValidationError{}
	for _, f := range fields {
		if f != nil {
			ve.Fields = append(ve.Fields, *f)
		}
	}
	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}
