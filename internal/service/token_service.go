package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/config"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/store"
)

// TokenService wraps the token store with the domain rules for issued tokens:
// type scoping, expiry windows and single use. It never stores account data
// itself; tokens carry only a back-reference to the owning account.
type TokenService struct {
	tokens       store.TokenStore
	mailLifetime time.Duration
	authLifetime time.Duration
	timeFunc     func() time.Time // Injectable for testing
	logger       *slog.Logger
}

// NewTokenService creates a new TokenService using the expiry windows from
// the given token configuration.
func NewTokenService(tokens store.TokenStore, cfg config.TokenConfig, logger *slog.Logger) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{
		tokens:       tokens,
		mailLifetime: cfg.MailLifetime(),
		authLifetime: cfg.AuthLifetime(),
		timeFunc:     time.Now,
		logger:       logger.With("component", "token_service"),
	}
}

// Create issues a new token of the given type bound to the account and
// persists it. The returned token includes its generated ID, which is the
// capability delivered to the user out-of-band (e.g., inside an email link).
func (s *TokenService) Create(
	ctx context.Context,
	account *domain.Account,
	tokenType domain.TokenType,
) (*domain.Token, error) {
	lifetime, err := s.lifetimeFor(tokenType)
	if err != nil {
		return nil, err
	}

	token, err := domain.NewToken(account.ID, tokenType, lifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to build token: %w", err)
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		s.logger.Error("failed to persist token",
			"error", err,
			"account_id", account.ID,
			"type", tokenType)
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	s.logger.Debug("token issued",
		"account_id", account.ID,
		"type", tokenType,
		"timeout", token.Timeout)

	return token, nil
}

// Get retrieves a token by its ID.
// Returns an error wrapping store.ErrTokenNotFound if no such token exists.
func (s *TokenService) Get(ctx context.Context, id uuid.UUID) (*domain.Token, error) {
	token, err := s.tokens.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrTokenNotFound) {
			s.logger.Error("failed to retrieve token", "error", err)
		}
		return nil, fmt.Errorf("failed to retrieve token: %w", err)
	}
	return token, nil
}

// GetAll returns the tokens owned by the account, filtered by type.
// The order is stable (creation time, then ID) so renewal decisions are
// deterministic.
func (s *TokenService) GetAll(
	ctx context.Context,
	account *domain.Account,
	tokenType domain.TokenType,
) ([]*domain.Token, error) {
	tokens, err := s.tokens.ListByTarget(ctx, account.ID, tokenType)
	if err != nil {
		s.logger.Error("failed to list tokens",
			"error", err,
			"account_id", account.ID,
			"type", tokenType)
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return tokens, nil
}

// IsValid reports whether the token is usable: it exists and the current time
// is before its timeout. Expired tokens are inert even if not yet deleted.
func (s *TokenService) IsValid(token *domain.Token) bool {
	return token != nil && token.IsValid(s.timeFunc())
}

// Remove deletes a specific token immediately. It is idempotent: removing a
// token that is already gone is a no-op.
func (s *TokenService) Remove(ctx context.Context, token *domain.Token) error {
	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil
		}
		s.logger.Error("failed to remove token",
			"error", err,
			"account_id", token.TargetID)
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// RemoveAll deletes every token owned by the account, regardless of type.
// Used when an account is removed so no orphaned tokens remain.
func (s *TokenService) RemoveAll(ctx context.Context, account *domain.Account) error {
	if err := s.tokens.DeleteByTarget(ctx, account.ID); err != nil {
		s.logger.Error("failed to remove tokens for account",
			"error", err,
			"account_id", account.ID)
		return fmt.Errorf("failed to remove tokens: %w", err)
	}
	return nil
}

func (s *TokenService) lifetimeFor(tokenType domain.TokenType) (time.Duration, error) {
	switch tokenType {
	case domain.TokenTypeMail:
		return s.mailLifetime, nil
	case domain.TokenTypeAuth:
		return s.authLifetime, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTokenType, tokenType)
	}
}
