package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/config"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/i18n"
	"github.com/sampleapp/account-api/internal/mocks"
	"github.com/sampleapp/account-api/internal/service"
	"github.com/stretchr/testify/require"
)

// fixture wires an AccountService against in-memory mocks.
type fixture struct {
	accounts *mocks.AccountStore
	tokens   *mocks.TokenStore
	notifier *mocks.Notifier
	tokenSvc *service.TokenService
	svc      *service.AccountServiceImpl
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	accounts := mocks.NewAccountStore()
	tokens := mocks.NewTokenStore()
	notifier := mocks.NewNotifier()

	tokenSvc := service.NewTokenService(tokens, config.TokenConfig{
		MailLifetimeMinutes: 60,
		AuthLifetimeMinutes: 120,
	}, logger)

	svc := service.NewAccountService(
		accounts,
		tokenSvc,
		&mocks.PasswordVerifier{},
		notifier,
		i18n.New(i18n.DefaultLocale),
		"SampleApp",
		logger,
	)

	return &fixture{
		accounts: accounts,
		tokens:   tokens,
		notifier: notifier,
		tokenSvc: tokenSvc,
		svc:      svc,
	}
}

// seedAccount creates an account directly through the service without
// triggering notification email.
func (f *fixture) seedAccount(t *testing.T, email, password string, verified bool) *domain.Account {
	t.Helper()

	account, err := f.svc.Create(context.Background(), service.CreateData{
		Email:     email,
		Password:  password,
		FirstName: "Jane",
		LastName:  "Doe",
	}, false)
	require.NoError(t, err)

	if verified {
		f.accounts.Accounts[account.ID].EmailVerified = true
		account.EmailVerified = true
	}
	return account
}

// seedToken inserts a token with a chosen timeout directly into the store.
func (f *fixture) seedToken(
	t *testing.T,
	account *domain.Account,
	tokenType domain.TokenType,
	timeout time.Time,
) *domain.Token {
	t.Helper()

	token := &domain.Token{
		ID:        uuid.New(),
		TargetID:  account.ID,
		Type:      tokenType,
		Timeout:   timeout,
		CreatedAt: time.Now().UTC(),
	}
	f.tokens.Tokens[token.ID] = token
	return token
}
