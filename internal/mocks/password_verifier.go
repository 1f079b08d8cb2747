package mocks

import (
	"errors"
	"strings"

	"github.com/sampleapp/account-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by the mock verifier on mismatch.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordVerifier implements auth.PasswordVerifier for testing.
// It accepts hashes of the form "hashed:<plaintext>" as produced by the mock
// account store, avoiding real bcrypt work in unit tests.
type PasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

// Ensure PasswordVerifier implements auth.PasswordVerifier
var _ auth.PasswordVerifier = (*PasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface.
func (m *PasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if strings.TrimPrefix(hashedPassword, "hashed:") == password {
		return nil
	}
	return ErrPasswordMismatch
}
