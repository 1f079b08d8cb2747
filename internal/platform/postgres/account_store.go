package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/platform/logger"
	"github.com/sampleapp/account-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type AccountStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewAccountStore creates a new PostgreSQL implementation of the AccountStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. A non-positive bcryptCost selects
// bcrypt.DefaultCost. If logger is nil, a default logger will be used.
func NewAccountStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "account_store")),
	}
}

// Ensure AccountStore implements store.AccountStore interface
var _ store.AccountStore = (*AccountStore)(nil)

// Create implements store.AccountStore.Create
// It validates the account, hashes the plaintext password and inserts the row.
// The unique index on email is the authoritative uniqueness guard: a violation
// is mapped to store.ErrEmailExists regardless of any pre-check the caller did.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if account.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		account.HashedPassword = string(hashed)
		account.Password = ""
	}

	query := `
		INSERT INTO accounts (id, email, hashed_password, firstname, lastname,
			gravatar_email, email_verified, date_lastvisit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.HashedPassword,
		account.FirstName,
		account.LastName,
		nullString(account.GravatarEmail),
		account.EmailVerified,
		account.LastVisitAt,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("attempted to create account with existing email",
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return MapError(err)
	}

	log.Info("account created successfully",
		slog.String("account_id", account.ID.String()))
	return nil
}

const accountColumns = `id, email, hashed_password, firstname, lastname,
		gravatar_email, email_verified, date_lastvisit, created_at, updated_at`

// GetByID implements store.AccountStore.GetByID
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := s.scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.String("account_id", id.String()))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by ID",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return nil, MapError(err)
	}

	return account, nil
}

// GetByEmail implements store.AccountStore.GetByEmail
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := s.scanAccount(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found by email")
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account by email",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return account, nil
}

// Update implements store.AccountStore.Update
// If a new plaintext Password is set on the account, it is hashed and replaces
// the stored hash. UpdatedAt is refreshed on every successful update.
func (s *AccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if account.Password != "" {
		if err := account.Validate(); err != nil {
			log.Warn("account validation failed during update",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		account.HashedPassword = string(hashed)
		account.Password = ""
	} else if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	account.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET email = $2, hashed_password = $3, firstname = $4, lastname = $5,
			gravatar_email = $6, email_verified = $7, date_lastvisit = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.HashedPassword,
		account.FirstName,
		account.LastName,
		nullString(account.GravatarEmail),
		account.EmailVerified,
		account.LastVisitAt,
		account.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("attempted to update account to existing email",
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}

		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "account"); err != nil {
		log.Debug("account not found during update",
			slog.String("account_id", account.ID.String()))
		return store.ErrAccountNotFound
	}

	log.Info("account updated successfully",
		slog.String("account_id", account.ID.String()))
	return nil
}

// Delete implements store.AccountStore.Delete
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *AccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "account"); err != nil {
		log.Debug("account not found during delete",
			slog.String("account_id", id.String()))
		return store.ErrAccountNotFound
	}

	log.Info("account deleted successfully",
		slog.String("account_id", id.String()))
	return nil
}

// WithTx implements store.AccountStore.WithTx
// It returns a new store bound to the given transaction.
func (s *AccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &AccountStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}

// scanAccount scans a single account row.
func (s *AccountStore) scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	var gravatarEmail sql.NullString
	var lastVisit sql.NullTime

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.HashedPassword,
		&account.FirstName,
		&account.LastName,
		&gravatarEmail,
		&account.EmailVerified,
		&lastVisit,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gravatarEmail.Valid {
		account.GravatarEmail = gravatarEmail.String
	}
	if lastVisit.Valid {
		visitedAt := lastVisit.Time
		account.LastVisitAt = &visitedAt
	}

	return &account, nil
}

// nullString converts an empty string to a NULL-able value.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
