// Package mocks provides hand-rolled test doubles for the store and
// notification interfaces.
package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/store"
)

// AccountStore implements store.AccountStore for testing.
// Function fields override individual methods; otherwise the in-memory
// default implementation is used.
type AccountStore struct {
	CreateFn     func(ctx context.Context, account *domain.Account) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Account, error)
	UpdateFn     func(ctx context.Context, account *domain.Account) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	// Data for the default implementation, keyed by account ID.
	Accounts map[uuid.UUID]*domain.Account

	// Call counters for interaction assertions.
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

// NewAccountStore creates a new mock store with initialized defaults.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		Accounts: make(map[uuid.UUID]*domain.Account),
	}
}

// Ensure AccountStore implements store.AccountStore
var _ store.AccountStore = (*AccountStore)(nil)

// Create implements the AccountStore interface.
func (m *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	m.CreateCalls++
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}

	for _, existing := range m.Accounts {
		if existing.Email == account.Email {
			return store.ErrEmailExists
		}
	}

	// Mirror the real store: the plaintext never reaches storage.
	if account.Password != "" {
		account.HashedPassword = "hashed:" + account.Password
		account.Password = ""
	}

	copied := *account
	m.Accounts[account.ID] = &copied
	return nil
}

// GetByID implements the AccountStore interface.
func (m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	account, ok := m.Accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// GetByEmail implements the AccountStore interface.
func (m *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	for _, account := range m.Accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// Update implements the AccountStore interface.
func (m *AccountStore) Update(ctx context.Context, account *domain.Account) error {
	m.UpdateCalls++
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, account)
	}

	if _, ok := m.Accounts[account.ID]; !ok {
		return store.ErrAccountNotFound
	}

	for id, existing := range m.Accounts {
		if id != account.ID && existing.Email == account.Email {
			return store.ErrEmailExists
		}
	}

	if account.Password != "" {
		account.HashedPassword = "hashed:" + account.Password
		account.Password = ""
	}

	copied := *account
	m.Accounts[account.ID] = &copied
	return nil
}

// Delete implements the AccountStore interface.
func (m *AccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalls++
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, ok := m.Accounts[id]; !ok {
		return store.ErrAccountNotFound
	}
	delete(m.Accounts, id)
	return nil
}

// WithTx implements the AccountStore interface. The mock ignores transactions.
func (m *AccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return m
}
