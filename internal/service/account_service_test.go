package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("password authentication succeeds for verified account", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)

		account, err := f.svc.Authenticate(ctx, service.AuthData{
			Email:    "jane@example.com",
			Password: "s3cretpass",
		}, false)

		require.NoError(t, err)
		assert.Equal(t, seeded.ID, account.ID)
		assert.Nil(t, account.LastVisitAt, "no trace requested")
	})

	t.Run("trace updates the last visit timestamp", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)

		account, err := f.svc.Authenticate(ctx, service.AuthData{
			Email:    "jane@example.com",
			Password: "s3cretpass",
		}, true)

		require.NoError(t, err)
		require.NotNil(t, account.LastVisitAt)
		assert.WithinDuration(t, time.Now(), *account.LastVisitAt, time.Minute)
		assert.NotNil(t, f.accounts.Accounts[seeded.ID].LastVisitAt, "trace must be persisted")
	})

	t.Run("wrong password fails authentication", func(t *testing.T) {
		f := newFixture()
		f.seedAccount(t, "jane@example.com", "s3cretpass", true)

		account, err := f.svc.Authenticate(ctx, service.AuthData{
			Email:    "jane@example.com",
			Password: "not-the-password",
		}, false)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, service.ErrAuth)
	})

	t.Run("unverified email fails even with correct password", func(t *testing.T) {
		f := newFixture()
		f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		account, err := f.svc.Authenticate(ctx, service.AuthData{
			Email:    "jane@example.com",
			Password: "s3cretpass",
		}, false)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, service.ErrAuth)
	})

	t.Run("unknown email yields not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Authenticate(ctx, service.AuthData{
			Email:    "ghost@example.com",
			Password: "s3cretpass",
		}, false)

		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("token authentication succeeds for valid token", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)
		token := f.seedToken(t, seeded, domain.TokenTypeAuth, time.Now().Add(time.Hour))

		account, err := f.svc.Authenticate(ctx, service.AuthData{
			Token: token.ID.String(),
		}, false)

		require.NoError(t, err)
		assert.Equal(t, seeded.ID, account.ID)
	})

	t.Run("expired token fails authentication", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)
		token := f.seedToken(t, seeded, domain.TokenTypeAuth, time.Now().Add(-time.Hour))

		_, err := f.svc.Authenticate(ctx, service.AuthData{Token: token.ID.String()}, false)

		assert.ErrorIs(t, err, service.ErrAuth)
	})

	t.Run("unknown token fails authentication", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Authenticate(ctx, service.AuthData{Token: uuid.NewString()}, false)

		assert.ErrorIs(t, err, service.ErrAuth)
	})

	t.Run("malformed token fails authentication", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Authenticate(ctx, service.AuthData{Token: "not-a-uuid"}, false)

		assert.ErrorIs(t, err, service.ErrAuth)
	})

	t.Run("missing scheme fails authentication", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Authenticate(ctx, service.AuthData{Email: "jane@example.com"}, false)

		var authErr *service.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "invalid authentication scheme", authErr.Reason)
	})
}

func TestAccountService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token verifies the account and is consumed", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		token := f.seedToken(t, seeded, domain.TokenTypeMail, time.Now().Add(time.Hour))

		account, err := f.svc.Confirm(ctx, service.ConfirmData{Token: token.ID.String()})

		require.NoError(t, err)
		assert.True(t, account.EmailVerified)
		assert.True(t, f.accounts.Accounts[seeded.ID].EmailVerified)
		assert.NotContains(t, f.tokens.Tokens, token.ID, "token must be single-use")
	})

	t.Run("second confirmation with the same token fails", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		token := f.seedToken(t, seeded, domain.TokenTypeMail, time.Now().Add(time.Hour))

		_, err := f.svc.Confirm(ctx, service.ConfirmData{Token: token.ID.String()})
		require.NoError(t, err)

		_, err = f.svc.Confirm(ctx, service.ConfirmData{Token: token.ID.String()})
		assert.ErrorIs(t, err, service.ErrInvalidData)
	})

	t.Run("unknown token leaves the account untouched", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		updatesBefore := f.accounts.UpdateCalls

		_, err := f.svc.Confirm(ctx, service.ConfirmData{Token: uuid.NewString()})

		assert.ErrorIs(t, err, service.ErrInvalidData)
		assert.False(t, f.accounts.Accounts[seeded.ID].EmailVerified)
		assert.Equal(t, updatesBefore, f.accounts.UpdateCalls)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		token := f.seedToken(t, seeded, domain.TokenTypeMail, time.Now().Add(-time.Minute))

		_, err := f.svc.Confirm(ctx, service.ConfirmData{Token: token.ID.String()})

		assert.ErrorIs(t, err, service.ErrInvalidData)
		assert.False(t, f.accounts.Accounts[seeded.ID].EmailVerified)
	})

	t.Run("already confirmed account is rejected without consuming the token", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)
		token := f.seedToken(t, seeded, domain.TokenTypeMail, time.Now().Add(time.Hour))

		_, err := f.svc.Confirm(ctx, service.ConfirmData{Token: token.ID.String()})

		assert.ErrorIs(t, err, service.ErrInvalidData)
		assert.Contains(t, f.tokens.Tokens, token.ID)
	})
}

func TestAccountService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup by email", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		account, err := f.svc.Get(ctx, service.LookupData{Email: "jane@example.com"})

		require.NoError(t, err)
		assert.Equal(t, seeded.ID, account.ID)
		assert.False(t, account.EmailVerified, "accounts start unverified")
	})

	t.Run("lookup by id", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		account, err := f.svc.Get(ctx, service.LookupData{ID: &seeded.ID})

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", account.Email)
	})

	t.Run("unknown email yields not found with lookup payload", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Get(ctx, service.LookupData{Email: "ghost@example.com"})

		var nfErr *service.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.ErrorIs(t, err, service.ErrNotFound)
		assert.Equal(t, "ghost@example.com", nfErr.Lookup["email"])
	})

	t.Run("empty lookup yields not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Get(ctx, service.LookupData{})

		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("malformed email is rejected as invalid data", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Get(ctx, service.LookupData{Email: "not-an-email"})

		var invErr *service.InvalidDataError
		require.ErrorAs(t, err, &invErr)
		assert.Contains(t, invErr.Fields, "email")
	})
}

func TestAccountService_Update(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("applies partial fields and keeps identity", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)

		account, err := f.svc.Update(ctx, seeded, service.Fields{
			FirstName: strPtr("Janet"),
		})

		require.NoError(t, err)
		assert.Equal(t, seeded.ID, account.ID)
		assert.Equal(t, "Janet", account.FirstName)
		assert.Equal(t, "Doe", account.LastName, "untouched fields keep their value")
		assert.Equal(t, "Janet", f.accounts.Accounts[seeded.ID].FirstName)
	})

	t.Run("new password is hashed before persisting", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)

		_, err := f.svc.Update(ctx, seeded, service.Fields{
			Password: strPtr("newpassword1"),
		})

		require.NoError(t, err)
		stored := f.accounts.Accounts[seeded.ID]
		assert.Empty(t, stored.Password)
		assert.Equal(t, "hashed:newpassword1", stored.HashedPassword)
	})

	t.Run("email conflict yields already exists", func(t *testing.T) {
		f := newFixture()
		f.seedAccount(t, "taken@example.com", "s3cretpass", true)
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)

		_, err := f.svc.Update(ctx, seeded, service.Fields{
			Email: strPtr("taken@example.com"),
		})

		assert.ErrorIs(t, err, service.ErrAlreadyExists)
	})

	t.Run("deleted account yields not found", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", true)
		delete(f.accounts.Accounts, seeded.ID)

		_, err := f.svc.Update(ctx, seeded, service.Fields{FirstName: strPtr("Janet")})

		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestAccountService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token replaces the password and forces verification", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		token := f.seedToken(t, seeded, domain.TokenTypeMail, time.Now().Add(time.Hour))

		account, err := f.svc.ResetPassword(ctx, service.ResetPasswordData{
			Token:    token.ID.String(),
			Password: "brandnewpass",
		})

		require.NoError(t, err)
		assert.True(t, account.EmailVerified, "reset proves mailbox control")

		stored := f.accounts.Accounts[seeded.ID]
		assert.Equal(t, "hashed:brandnewpass", stored.HashedPassword)
		assert.NotContains(t, f.tokens.Tokens, token.ID, "token must be single-use")
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		f := newFixture()
		f.seedAccount(t, "jane@example.com", "s3cretpass", false)

		_, err := f.svc.ResetPassword(ctx, service.ResetPasswordData{
			Token:    uuid.NewString(),
			Password: "brandnewpass",
		})

		assert.ErrorIs(t, err, service.ErrInvalidData)
	})

	t.Run("too short password is rejected before the token is consumed", func(t *testing.T) {
		f := newFixture()
		seeded := f.seedAccount(t, "jane@example.com", "s3cretpass", false)
		token := f.seedToken(t, seeded, domain.TokenTypeMail, time.Now().Add(time.Hour))

		_, err := f.svc.ResetPassword(ctx, service.ResetPasswordData{
			Token:    token.ID.String(),
			Password: "short",
		})

		var invErr *service.InvalidDataError
		require.ErrorAs(t, err, &invErr)
		assert.Contains(t, invErr.Fields, "password")
		assert.Contains(t, f.tokens.Tokens, token.ID)
	})
}

func TestAccountServiceErrors(t *testing.T) {
	t.Run("unknown error matches both category and cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &service.UnknownError{Message: "failed to create account", Err: cause}

		assert.ErrorIs(t, err, service.ErrUnknown)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("compensation failure is an unknown error", func(t *testing.T) {
		assert.ErrorIs(t, service.ErrCompensationFailed, service.ErrUnknown)
	})

	t.Run("typed errors unwrap to their category", func(t *testing.T) {
		assert.ErrorIs(t, &service.NotFoundError{Entity: "account"}, service.ErrNotFound)
		assert.ErrorIs(t, &service.AlreadyExistsError{Entity: "account"}, service.ErrAlreadyExists)
		assert.ErrorIs(t, &service.InvalidDataError{}, service.ErrInvalidData)
		assert.ErrorIs(t, &service.AuthError{}, service.ErrAuth)
	})

	t.Run("invalid data error renders fields deterministically", func(t *testing.T) {
		err := &service.InvalidDataError{
			Message: "account data validation failed",
			Fields:  map[string]string{"password": "too short", "email": "invalid email format"},
		}
		assert.Equal(t,
			"account data validation failed: email: invalid email format; password: too short",
			err.Error())
	})
}
