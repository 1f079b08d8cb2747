package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sampleapp/account-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows maps to not found", sql.ErrNoRows, store.ErrNotFound},
		{"unique violation maps to duplicate", pgError("23505", "accounts_email_key"), store.ErrDuplicate},
		{"foreign key violation maps to invalid entity", pgError("23503", "tokens_target_id_fkey"), store.ErrInvalidEntity},
		{"check violation maps to invalid entity", pgError("23514", "tokens_type_check"), store.ErrInvalidEntity},
		{"not null violation maps to invalid entity", pgError("23502", ""), store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("unrelated errors pass through unchanged", func(t *testing.T) {
		err := errors.New("connection refused")
		assert.Equal(t, err, MapError(err))
	})

	t.Run("wrapped pg errors are still recognized", func(t *testing.T) {
		err := fmt.Errorf("insert account: %w", pgError("23505", "accounts_email_key"))
		assert.ErrorIs(t, MapError(err), store.ErrDuplicate)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(pgError("23505", "accounts_email_key")))
	assert.False(t, IsUniqueViolation(pgError("23503", "tokens_target_id_fkey")))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Run("affected rows pass", func(t *testing.T) {
		assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), "account"))
	})

	t.Run("zero rows yields not found with entity name", func(t *testing.T) {
		err := CheckRowsAffected(sqlmock.NewResult(0, 0), "account")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "account")
	})

	t.Run("nil result is an error", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, "account"))
	})
}
