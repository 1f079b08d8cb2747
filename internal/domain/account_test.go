package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("builds an unverified account with generated id", func(t *testing.T) {
		account, err := domain.NewAccount("jane@example.com", "s3cretpass", "Jane", "Doe")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, account.ID)
		assert.Equal(t, "jane@example.com", account.Email)
		assert.False(t, account.EmailVerified)
		assert.Nil(t, account.LastVisitAt)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			email    string
			password string
			wantErr  error
		}{
			{"empty email", "", "s3cretpass", domain.ErrEmptyEmail},
			{"missing at sign", "janeexample.com", "s3cretpass", domain.ErrInvalidEmail},
			{"missing domain dot", "jane@examplecom", "s3cretpass", domain.ErrInvalidEmail},
			{"trailing at sign", "jane@", "s3cretpass", domain.ErrInvalidEmail},
			{"empty password", "jane@example.com", "", domain.ErrEmptyPassword},
			{"short password", "jane@example.com", "short", domain.ErrPasswordTooShort},
			{"long password", "jane@example.com", strings.Repeat("x", 73), domain.ErrPasswordTooLong},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				account, err := domain.NewAccount(tt.email, tt.password, "Jane", "Doe")
				assert.Nil(t, account)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestAccountValidate(t *testing.T) {
	valid := func() *domain.Account {
		return &domain.Account{
			ID:             uuid.New(),
			Email:          "jane@example.com",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		}
	}

	t.Run("stored account with only a hash is valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("nil id is rejected", func(t *testing.T) {
		account := valid()
		account.ID = uuid.Nil
		assert.ErrorIs(t, account.Validate(), domain.ErrEmptyAccountID)
	})

	t.Run("malformed gravatar email is rejected", func(t *testing.T) {
		account := valid()
		account.GravatarEmail = "not-an-email"
		assert.ErrorIs(t, account.Validate(), domain.ErrInvalidEmail)
	})

	t.Run("maximum length password passes", func(t *testing.T) {
		account := valid()
		account.Password = strings.Repeat("x", domain.MaxPasswordLength)
		assert.NoError(t, account.Validate())
	})
}
