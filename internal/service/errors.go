// Package service provides the application-level account and token services.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error categories - sentinel errors used across service implementations.
// Callers check categories with errors.Is() and extract payloads with
// errors.As() on the concrete types below. The API layer maps these to
// transport-level responses.
var (
	// ErrNotFound indicates a lookup failed. The concrete NotFoundError
	// carries the lookup data.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness violation. The concrete
	// AlreadyExistsError carries the conflicting field.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidData indicates field validation failed. The concrete
	// InvalidDataError carries a per-field error mapping.
	ErrInvalidData = errors.New("invalid data")

	// ErrAuth indicates the authentication scheme is missing or invalid,
	// the presented token is invalid, or the email is unverified.
	ErrAuth = errors.New("authentication failed")

	// ErrUnknown indicates an infrastructure failure: a repository write
	// failed or a notification could not be dispatched.
	ErrUnknown = errors.New("unknown error")

	// ErrCompensationFailed indicates that a best-effort compensating action
	// (deleting a just-created account or token after a notification failure)
	// itself failed, possibly leaving orphaned records behind. Operators
	// should alert on this error.
	ErrCompensationFailed = fmt.Errorf("%w: compensation failed", ErrUnknown)
)

// NotFoundError reports a failed lookup together with the data that was used
// to perform it.
type NotFoundError struct {
	Entity string
	Lookup map[string]string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Lookup) == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s not found (%s)", e.Entity, formatFields(e.Lookup))
}

// Unwrap makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyExistsError reports a uniqueness violation on a specific field.
type AlreadyExistsError struct {
	Entity string
	Field  string
	Value  string
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s %q already exists", e.Entity, e.Field, e.Value)
}

// Unwrap makes errors.Is(err, ErrAlreadyExists) hold.
func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// InvalidDataError reports failed field validation with a structured
// per-field error mapping suitable for form-level display.
type InvalidDataError struct {
	Message string
	Fields  map[string]string
}

// Error implements the error interface.
func (e *InvalidDataError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "data validation failed"
	}
	if len(e.Fields) == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, formatFields(e.Fields))
}

// Unwrap makes errors.Is(err, ErrInvalidData) hold.
func (e *InvalidDataError) Unwrap() error { return ErrInvalidData }

// AuthError reports a failed authentication attempt. The reason is safe to
// log but must not be leaked verbatim to unauthenticated callers.
type AuthError struct {
	Reason string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// Unwrap makes errors.Is(err, ErrAuth) hold.
func (e *AuthError) Unwrap() error { return ErrAuth }

// UnknownError reports an infrastructure failure, wrapping the underlying
// cause when one is available.
type UnknownError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *UnknownError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause chained behind ErrUnknown.
func (e *UnknownError) Unwrap() error {
	return errorChain{ErrUnknown, e.Err}
}

// errorChain lets UnknownError match both ErrUnknown and its wrapped cause
// through errors.Is/errors.As.
type errorChain [2]error

func (c errorChain) Error() string { return c[0].Error() }

func (c errorChain) Is(target error) bool {
	for _, err := range c {
		if err != nil && errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (c errorChain) As(target any) bool {
	for _, err := range c {
		if err != nil && errors.As(err, target) {
			return true
		}
	}
	return false
}

// formatFields renders a field map deterministically for error messages.
func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return strings.Join(parts, "; ")
}
