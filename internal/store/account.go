package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
)

// AccountStore defines the interface for account data persistence.
type AccountStore interface {
	// Create saves a new account to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Account if data is invalid.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique ID.
	// Returns ErrAccountNotFound if the account does not exist.
	// The returned account contains all fields except the plaintext password.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByEmail retrieves an account by its email address.
	// Returns ErrAccountNotFound if the account does not exist.
	// The returned account contains all fields except the plaintext password.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Update modifies an existing account's details.
	// The caller MUST provide a complete account object including HashedPassword.
	// If a new plaintext Password is provided, it will be hashed and the
	// HashedPassword will be replaced.
	// Returns ErrAccountNotFound if the account does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes an account from the store by its ID.
	// Returns ErrAccountNotFound if the account does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new AccountStore instance that uses the provided transaction.
	// This allows multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) AccountStore
}
