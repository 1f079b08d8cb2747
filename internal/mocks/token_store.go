package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/store"
)

// TokenStore implements store.TokenStore for testing.
// Function fields override individual methods; otherwise the in-memory
// default implementation is used.
type TokenStore struct {
	CreateFn         func(ctx context.Context, token *domain.Token) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Token, error)
	ListByTargetFn   func(ctx context.Context, targetID uuid.UUID, tokenType domain.TokenType) ([]*domain.Token, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	DeleteByTargetFn func(ctx context.Context, targetID uuid.UUID) error

	// Data for the default implementation, keyed by token ID.
	Tokens map[uuid.UUID]*domain.Token

	// Call counters for interaction assertions.
	CreateCalls int
	DeleteCalls int
}

// NewTokenStore creates a new mock store with initialized defaults.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		Tokens: make(map[uuid.UUID]*domain.Token),
	}
}

// Ensure TokenStore implements store.TokenStore
var _ store.TokenStore = (*TokenStore)(nil)

// Create implements the TokenStore interface.
func (m *TokenStore) Create(ctx context.Context, token *domain.Token) error {
	m.CreateCalls++
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}

	copied := *token
	m.Tokens[token.ID] = &copied
	return nil
}

// GetByID implements the TokenStore interface.
func (m *TokenStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	token, ok := m.Tokens[id]
	if !ok {
		return nil, store.ErrTokenNotFound
	}
	copied := *token
	return &copied, nil
}

// ListByTarget implements the TokenStore interface.
// Matches the real store's stable order: creation time, then ID.
func (m *TokenStore) ListByTarget(
	ctx context.Context,
	targetID uuid.UUID,
	tokenType domain.TokenType,
) ([]*domain.Token, error) {
	if m.ListByTargetFn != nil {
		return m.ListByTargetFn(ctx, targetID, tokenType)
	}

	var tokens []*domain.Token
	for _, token := range m.Tokens {
		if token.TargetID == targetID && token.Type == tokenType {
			copied := *token
			tokens = append(tokens, &copied)
		}
	}

	sort.Slice(tokens, func(i, j int) bool {
		if !tokens[i].CreatedAt.Equal(tokens[j].CreatedAt) {
			return tokens[i].CreatedAt.Before(tokens[j].CreatedAt)
		}
		return tokens[i].ID.String() < tokens[j].ID.String()
	})

	return tokens, nil
}

// Delete implements the TokenStore interface.
func (m *TokenStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalls++
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, ok := m.Tokens[id]; !ok {
		return store.ErrTokenNotFound
	}
	delete(m.Tokens, id)
	return nil
}

// DeleteByTarget implements the TokenStore interface.
func (m *TokenStore) DeleteByTarget(ctx context.Context, targetID uuid.UUID) error {
	if m.DeleteByTargetFn != nil {
		return m.DeleteByTargetFn(ctx, targetID)
	}

	for id, token := range m.Tokens {
		if token.TargetID == targetID {
			delete(m.Tokens, id)
		}
	}
	return nil
}

// WithTx implements the TokenStore interface. The mock ignores transactions.
func (m *TokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
