package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("mail token gets the mail lifetime", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		token, err := f.tokenSvc.Create(ctx, account, domain.TokenTypeMail)

		require.NoError(t, err)
		assert.Equal(t, account.ID, token.TargetID)
		assert.Equal(t, domain.TokenTypeMail, token.Type)
		assert.WithinDuration(t, time.Now().Add(60*time.Minute), token.Timeout, time.Minute)
		assert.Contains(t, f.tokens.Tokens, token.ID)
	})

	t.Run("auth token gets the auth lifetime", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		token, err := f.tokenSvc.Create(ctx, account, domain.TokenTypeAuth)

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(120*time.Minute), token.Timeout, time.Minute)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		_, err := f.tokenSvc.Create(ctx, account, domain.TokenType("session"))

		assert.ErrorIs(t, err, domain.ErrInvalidTokenType)
		assert.Empty(t, f.tokens.Tokens)
	})

	t.Run("store failure is propagated", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		f.tokens.CreateFn = func(ctx context.Context, token *domain.Token) error {
			return errors.New("insert failed")
		}

		_, err := f.tokenSvc.Create(ctx, account, domain.TokenTypeMail)

		assert.Error(t, err)
	})
}

func TestTokenService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored token", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		seeded := f.seedToken(t, account, domain.TokenTypeAuth, time.Now().Add(time.Hour))

		token, err := f.tokenSvc.Get(ctx, seeded.ID)

		require.NoError(t, err)
		assert.Equal(t, seeded.ID, token.ID)
	})

	t.Run("unknown id wraps the store sentinel", func(t *testing.T) {
		f := newFixture()

		_, err := f.tokenSvc.Get(ctx, uuid.New())

		assert.ErrorIs(t, err, store.ErrTokenNotFound)
	})
}

func TestTokenService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by type and orders by creation time", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		newer := f.seedToken(t, account, domain.TokenTypeAuth, time.Now().Add(time.Hour))
		older := f.seedToken(t, account, domain.TokenTypeAuth, time.Now().Add(time.Hour))
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		f.seedToken(t, account, domain.TokenTypeMail, time.Now().Add(time.Hour))

		tokens, err := f.tokenSvc.GetAll(ctx, account, domain.TokenTypeAuth)

		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.Equal(t, older.ID, tokens[0].ID)
		assert.Equal(t, newer.ID, tokens[1].ID)
	})

	t.Run("no tokens yields an empty list", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		tokens, err := f.tokenSvc.GetAll(ctx, account, domain.TokenTypeAuth)

		require.NoError(t, err)
		assert.Empty(t, tokens)
	})
}

func TestTokenService_IsValid(t *testing.T) {
	f := newFixture()

	t.Run("nil token is invalid", func(t *testing.T) {
		assert.False(t, f.tokenSvc.IsValid(nil))
	})

	t.Run("future timeout is valid", func(t *testing.T) {
		token := &domain.Token{Timeout: time.Now().Add(time.Minute)}
		assert.True(t, f.tokenSvc.IsValid(token))
	})

	t.Run("past timeout is invalid", func(t *testing.T) {
		token := &domain.Token{Timeout: time.Now().Add(-time.Minute)}
		assert.False(t, f.tokenSvc.IsValid(token))
	})
}

func TestTokenService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the token", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		token := f.seedToken(t, account, domain.TokenTypeAuth, time.Now().Add(time.Hour))

		require.NoError(t, f.tokenSvc.Remove(ctx, token))
		assert.NotContains(t, f.tokens.Tokens, token.ID)
	})

	t.Run("removing an already removed token is a no-op", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		token := f.seedToken(t, account, domain.TokenTypeAuth, time.Now().Add(time.Hour))

		require.NoError(t, f.tokenSvc.Remove(ctx, token))
		assert.NoError(t, f.tokenSvc.Remove(ctx, token))
	})
}

func TestTokenService_RemoveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes every token of the account regardless of type", func(t *testing.T) {
		f := newFixture()
		account := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		other := f.seedAccount(t, "john@example.com", "s3cretpass", false)

		f.seedToken(t, account, domain.TokenTypeAuth, time.Now().Add(time.Hour))
		f.seedToken(t, account, domain.TokenTypeMail, time.Now().Add(time.Hour))
		kept := f.seedToken(t, other, domain.TokenTypeAuth, time.Now().Add(time.Hour))

		require.NoError(t, f.tokenSvc.RemoveAll(ctx, account))

		assert.Len(t, f.tokens.Tokens, 1)
		assert.Contains(t, f.tokens.Tokens, kept.ID)
	})
}
