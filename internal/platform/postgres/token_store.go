package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/platform/logger"
	"github.com/sampleapp/account-api/internal/store"
)

// TokenStore implements the store.TokenStore interface
// using a PostgreSQL database as the storage backend.
type TokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTokenStore creates a new PostgreSQL implementation of the TokenStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewTokenStore(db store.DBTX, logger *slog.Logger) *TokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

// Ensure TokenStore implements store.TokenStore interface
var _ store.TokenStore = (*TokenStore)(nil)

// Create implements store.TokenStore.Create
// Returns store.ErrInvalidEntity if the target account does not exist
// (foreign key violation).
func (s *TokenStore) Create(ctx context.Context, token *domain.Token) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tokens (id, target_id, type, timeout, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.ID,
		token.TargetID,
		string(token.Type),
		token.Timeout,
		token.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during token creation",
				slog.String("target_id", token.TargetID.String()))
			return fmt.Errorf("%w: account with ID %s not found",
				store.ErrInvalidEntity, token.TargetID)
		}

		log.Error("failed to create token",
			slog.String("error", err.Error()),
			slog.String("target_id", token.TargetID.String()))
		return MapError(err)
	}

	log.Info("token created successfully",
		slog.String("target_id", token.TargetID.String()),
		slog.String("type", string(token.Type)))
	return nil
}

// GetByID implements store.TokenStore.GetByID
// Returns store.ErrTokenNotFound if the token does not exist.
func (s *TokenStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Token, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, target_id, type, timeout, created_at
		FROM tokens
		WHERE id = $1
	`

	var token domain.Token
	var tokenType string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&token.ID,
		&token.TargetID,
		&tokenType,
		&token.Timeout,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("token not found")
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get token by ID",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	token.Type = domain.TokenType(tokenType)
	return &token, nil
}

// ListByTarget implements store.TokenStore.ListByTarget
// The result is ordered by creation time then ID for deterministic renewal.
func (s *TokenStore) ListByTarget(
	ctx context.Context,
	targetID uuid.UUID,
	tokenType domain.TokenType,
) ([]*domain.Token, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, target_id, type, timeout, created_at
		FROM tokens
		WHERE target_id = $1 AND type = $2
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, targetID, string(tokenType))
	if err != nil {
		log.Error("failed to list tokens",
			slog.String("error", err.Error()),
			slog.String("target_id", targetID.String()),
			slog.String("type", string(tokenType)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tokens []*domain.Token
	for rows.Next() {
		var token domain.Token
		var rowType string
		if err := rows.Scan(
			&token.ID,
			&token.TargetID,
			&rowType,
			&token.Timeout,
			&token.CreatedAt,
		); err != nil {
			log.Error("failed to scan token row",
				slog.String("error", err.Error()),
				slog.String("target_id", targetID.String()))
			return nil, MapError(err)
		}
		token.Type = domain.TokenType(rowType)
		tokens = append(tokens, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tokens, nil
}

// Delete implements store.TokenStore.Delete
// Returns store.ErrTokenNotFound if the token does not exist.
func (s *TokenStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete token",
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "token"); err != nil {
		log.Debug("token not found during delete")
		return store.ErrTokenNotFound
	}

	log.Info("token deleted successfully")
	return nil
}

// DeleteByTarget implements store.TokenStore.DeleteByTarget
// Deleting zero tokens is not an error.
func (s *TokenStore) DeleteByTarget(ctx context.Context, targetID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE target_id = $1`, targetID)
	if err != nil {
		log.Error("failed to delete tokens for target",
			slog.String("error", err.Error()),
			slog.String("target_id", targetID.String()))
		return MapError(err)
	}

	log.Info("tokens deleted for target",
		slog.String("target_id", targetID.String()))
	return nil
}

// WithTx implements store.TokenStore.WithTx
// It returns a new store bound to the given transaction.
func (s *TokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &TokenStore{
		db:     tx,
		logger: s.logger,
	}
}
