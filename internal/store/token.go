package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
)

// TokenStore defines the interface for token persistence.
// Tokens are capabilities: the ID is the secret, so implementations must never
// log or expose stored IDs outside of lookups by the ID itself.
type TokenStore interface {
	// Create saves a new token to the store.
	Create(ctx context.Context, token *domain.Token) error

	// GetByID retrieves a token by its unique ID.
	// Returns ErrTokenNotFound if the token does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error)

	// ListByTarget retrieves all tokens owned by the given account, filtered
	// by type. The result is ordered by creation time then ID so that renewal
	// decisions are deterministic.
	ListByTarget(ctx context.Context, targetID uuid.UUID, tokenType domain.TokenType) ([]*domain.Token, error)

	// Delete removes a token from the store by its ID.
	// Returns ErrTokenNotFound if the token does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByTarget removes every token owned by the given account,
	// regardless of type. Used when an account is removed so that no orphaned
	// tokens remain. Deleting zero tokens is not an error.
	DeleteByTarget(ctx context.Context, targetID uuid.UUID) error

	// WithTx returns a new TokenStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
