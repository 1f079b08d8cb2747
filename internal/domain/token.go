package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenType distinguishes the flows a token can serve.
type TokenType string

const (
	// TokenTypeMail is a short-lived token delivered by email for account
	// confirmation and password reset links.
	TokenTypeMail TokenType = "mail"

	// TokenTypeAuth is a long-lived token used as a bearer credential.
	TokenTypeAuth TokenType = "auth"
)

// Valid reports whether the token type is one of the known types.
func (t TokenType) Valid() bool {
	return t == TokenTypeMail || t == TokenTypeAuth
}

// Token is an opaque, typed, expiring capability bound to an account.
// The ID doubles as the secret: it is a random UUID delivered out-of-band
// and must never be derivable from account data.
type Token struct {
	ID        uuid.UUID `json:"id"`
	TargetID  uuid.UUID `json:"target_id"`
	Type      TokenType `json:"type"`
	Timeout   time.Time `json:"timeout"`
	CreatedAt time.Time `json:"created_at"`
}

// NewToken creates a new Token of the given type bound to the target account,
// expiring after the given lifetime.
func NewToken(targetID uuid.UUID, tokenType TokenType, lifetime time.Duration) (*Token, error) {
	if targetID == uuid.Nil {
		return nil, ErrEmptyTokenTarget
	}
	if !tokenType.Valid() {
		return nil, ErrInvalidTokenType
	}

	now := time.Now().UTC()
	return &Token{
		ID:        uuid.New(),
		TargetID:  targetID,
		Type:      tokenType,
		Timeout:   now.Add(lifetime),
		CreatedAt: now,
	}, nil
}

// IsValid reports whether the token is still usable at the given instant.
// Expired tokens are inert even if not yet deleted from storage.
func (t *Token) IsValid(now time.Time) bool {
	return now.Before(t.Timeout)
}
