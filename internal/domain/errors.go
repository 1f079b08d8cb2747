// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrEmptyAccountID is returned when an account ID is missing.
	ErrEmptyAccountID = errors.New("account ID cannot be empty")

	// ErrEmptyEmail is returned when an email address is missing.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyPassword is returned when neither a plaintext password nor a
	// stored hash is present.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordTooShort is returned when a password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's input limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrEmptyTokenTarget is returned when a token has no owning account.
	ErrEmptyTokenTarget = errors.New("token target cannot be empty")

	// ErrInvalidTokenType is returned when a token type is not one of the
	// known types.
	ErrInvalidTokenType = errors.New("invalid token type")
)
