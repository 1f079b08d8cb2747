package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
	"github.com/sampleapp/account-api/internal/i18n"
	"github.com/sampleapp/account-api/internal/mail"
	"github.com/sampleapp/account-api/internal/service/auth"
	"github.com/sampleapp/account-api/internal/store"
)

// AuthData carries the credentials for an authentication attempt.
// Either Token or Email+Password must be present.
type AuthData struct {
	Token    string
	Email    string `validate:"omitempty,email"`
	Password string
}

// LookupData identifies an account by ID or email.
type LookupData struct {
	ID    *uuid.UUID
	Email string `validate:"omitempty,email"`
}

// CreateData carries the fields of a new account.
type CreateData struct {
	Email         string `validate:"required,email"`
	Password      string `validate:"required,min=8,max=72"`
	FirstName     string `validate:"required,max=64"`
	LastName      string `validate:"required,max=64"`
	GravatarEmail string `validate:"omitempty,email"`
}

// ConfirmData carries the confirmation token presented by the user.
type ConfirmData struct {
	Token string
}

// ResetPasswordData carries a reset token and the replacement password.
type ResetPasswordData struct {
	Token    string
	Password string `validate:"required,min=8,max=72"`
}

// Fields is a partial account update. Nil members are left untouched.
// There is deliberately no ID member: account identity is immutable, so an
// ID supplied by a caller can never reach the persistence layer.
type Fields struct {
	Email         *string
	Password      *string
	FirstName     *string
	LastName      *string
	GravatarEmail *string
	EmailVerified *bool
	LastVisitAt   *time.Time
}

// AccountService orchestrates authentication, creation, update, confirmation,
// password reset and removal of accounts. It coordinates the account store,
// the token service, the credential verifier and the notifier; it is the only
// layer that owns the account/token state machine.
type AccountService interface {
	// Authenticate resolves an account from either a bearer token or an
	// email/password pair and verifies its email has been confirmed.
	// When trace is true the account's last-visit timestamp is updated
	// before returning.
	Authenticate(ctx context.Context, data AuthData, trace bool) (*domain.Account, error)

	// Confirm consumes a mail token and marks the target account's email as
	// verified. A second call with the same token fails: the token is gone.
	Confirm(ctx context.Context, data ConfirmData) (*domain.Account, error)

	// Create registers a new account. When sendEmail is true a confirmation
	// token is issued and a welcome notification dispatched; if dispatch
	// fails, both the account and the token are deleted again.
	Create(ctx context.Context, data CreateData, sendEmail bool) (*domain.Account, error)

	// ForgotPassword issues a mail token for the account and dispatches
	// reset instructions. On dispatch failure the token is deleted; the
	// account is kept.
	ForgotPassword(ctx context.Context, data LookupData) (*domain.Account, error)

	// Get loads an account by ID or email after validating the lookup data.
	Get(ctx context.Context, data LookupData) (*domain.Account, error)

	// GetAuthenticationToken returns a bearer token for the account. With
	// renew, every existing auth token is deleted and a fresh one issued;
	// without, the oldest existing token is reused when one exists.
	// A nil account yields no token and no error.
	GetAuthenticationToken(ctx context.Context, account *domain.Account, renew bool) (*domain.Token, error)

	// Remove deletes the account, cascades token removal and sends a
	// farewell notification from a pre-deletion snapshot. A nil account
	// yields false and no side effects.
	Remove(ctx context.Context, account *domain.Account) (bool, error)

	// ResetPassword consumes a mail token, replaces the password of the
	// target account and forces its email to verified.
	ResetPassword(ctx context.Context, data ResetPasswordData) (*domain.Account, error)

	// Update applies the given fields to the account and persists it.
	Update(ctx context.Context, account *domain.Account, fields Fields) (*domain.Account, error)
}

// AccountServiceImpl implements the AccountService interface.
type AccountServiceImpl struct {
	accounts   store.AccountStore
	tokens     *TokenService
	verifier   auth.PasswordVerifier
	notifier   mail.Notifier
	translator *i18n.Translator
	appName    string
	validate   *validator.Validate
	timeFunc   func() time.Time // Injectable for testing
	logger     *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	accounts store.AccountStore,
	tokens *TokenService,
	verifier auth.PasswordVerifier,
	notifier mail.Notifier,
	translator *i18n.Translator,
	appName string,
	logger *slog.Logger,
) *AccountServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountServiceImpl{
		accounts:   accounts,
		tokens:     tokens,
		verifier:   verifier,
		notifier:   notifier,
		translator: translator,
		appName:    appName,
		validate:   validator.New(),
		timeFunc:   time.Now,
		logger:     logger.With("component", "account_service"),
	}
}

// Ensure AccountServiceImpl implements the AccountService interface
var _ AccountService = (*AccountServiceImpl)(nil)

// Authenticate implements AccountService.Authenticate.
func (s *AccountServiceImpl) Authenticate(
	ctx context.Context,
	data AuthData,
	trace bool,
) (*domain.Account, error) {
	var account *domain.Account

	switch {
	// If a token is present, authenticate through this token.
	case data.Token != "":
		tokenID, err := uuid.Parse(data.Token)
		if err != nil {
			return nil, &AuthError{Reason: "token authentication failed"}
		}

		token, err := s.tokens.Get(ctx, tokenID)
		if err != nil {
			if errors.Is(err, store.ErrTokenNotFound) {
				return nil, &AuthError{Reason: "token authentication failed"}
			}
			return nil, &UnknownError{Message: "failed to resolve token", Err: err}
		}

		if !s.tokens.IsValid(token) {
			return nil, &AuthError{Reason: "token authentication failed"}
		}

		account, err = s.Get(ctx, LookupData{ID: &token.TargetID})
		if err != nil {
			return nil, err
		}

	// Else, check password authentication.
	case data.Password != "":
		var err error
		account, err = s.Get(ctx, LookupData{Email: data.Email})
		if err != nil {
			return nil, err
		}

		if err := s.verifier.Compare(account.HashedPassword, data.Password); err != nil {
			s.logger.Debug("password authentication failed",
				"account_id", account.ID)
			return nil, &AuthError{Reason: "standard authentication failed"}
		}

	// Missing authentication parameter.
	default:
		return nil, &AuthError{Reason: "invalid authentication scheme"}
	}

	// Either path requires a confirmed email.
	if !account.EmailVerified {
		return nil, &AuthError{Reason: "email has not been verified"}
	}

	// Trace the authentication if requested. An update failure here
	// propagates as the update's own error.
	if trace {
		now := s.timeFunc().UTC()
		return s.Update(ctx, account, Fields{LastVisitAt: &now})
	}

	return account, nil
}

// Confirm implements AccountService.Confirm.
// The token is consumed before the account update is attempted, so a failed
// update leaves the token gone. Callers then go through ForgotPassword to
// obtain a fresh one.
func (s *AccountServiceImpl) Confirm(ctx context.Context, data ConfirmData) (*domain.Account, error) {
	token, err := s.resolveMailToken(ctx, data.Token)
	if err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, LookupData{ID: &token.TargetID})
	if err != nil {
		return nil, err
	}

	if account.EmailVerified {
		return nil, &InvalidDataError{Message: "account is already confirmed"}
	}

	if err := s.tokens.Remove(ctx, token); err != nil {
		return nil, &UnknownError{Message: "failed to consume token", Err: err}
	}

	verified := true
	return s.Update(ctx, account, Fields{EmailVerified: &verified})
}

// Create implements AccountService.Create.
func (s *AccountServiceImpl) Create(
	ctx context.Context,
	data CreateData,
	sendEmail bool,
) (*domain.Account, error) {
	if err := s.validate.Struct(data); err != nil {
		return nil, &InvalidDataError{
			Message: "account data validation failed",
			Fields:  validationFieldErrors(err),
		}
	}

	// Best-effort existence pre-check. The unique index on email remains the
	// authoritative guard; a concurrent create slipping past this check is
	// caught below as a store-level duplicate.
	if _, err := s.Get(ctx, LookupData{Email: data.Email}); err == nil {
		return nil, &AlreadyExistsError{Entity: "account", Field: "email", Value: data.Email}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	account, err := domain.NewAccount(data.Email, data.Password, data.FirstName, data.LastName)
	if err != nil {
		return nil, &InvalidDataError{Message: err.Error()}
	}
	account.GravatarEmail = data.GravatarEmail

	if err := s.accounts.Create(ctx, account); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return nil, &AlreadyExistsError{Entity: "account", Field: "email", Value: data.Email}
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, &InvalidDataError{Message: err.Error()}
		default:
			return nil, &UnknownError{Message: "failed to create account", Err: err}
		}
	}

	// A temporary token is only necessary if an email has to be sent.
	if sendEmail {
		token, err := s.tokens.Create(ctx, account, domain.TokenTypeMail)
		if err != nil {
			if compErr := s.compensateCreate(ctx, account, nil); compErr != nil {
				return nil, compErr
			}
			return nil, &UnknownError{Message: "failed to issue confirmation token", Err: err}
		}

		// The account cannot stay if the welcome mail is not sent.
		if err := s.sendEmail(ctx, account, mail.KindCreate, token); err != nil {
			s.logger.Warn("welcome notification failed, rolling back account",
				"error", err,
				"account_id", account.ID)

			if compErr := s.compensateCreate(ctx, account, token); compErr != nil {
				return nil, compErr
			}
			return nil, &UnknownError{
				Message: fmt.Sprintf("unable to send email to %s", data.Email),
				Err:     err,
			}
		}
	}

	s.logger.Info("account created", "account_id", account.ID)
	return account, nil
}

// ForgotPassword implements AccountService.ForgotPassword.
func (s *AccountServiceImpl) ForgotPassword(
	ctx context.Context,
	data LookupData,
) (*domain.Account, error) {
	account, err := s.Get(ctx, data)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Create(ctx, account, domain.TokenTypeMail)
	if err != nil {
		return nil, &UnknownError{Message: "failed to issue reset token", Err: err}
	}

	// The token must not stay behind if the mail is not sent. The account is
	// kept: it existed before this request.
	if err := s.sendEmail(ctx, account, mail.KindForgotPassword, token); err != nil {
		s.logger.Warn("reset notification failed, removing token",
			"error", err,
			"account_id", account.ID)

		if remErr := s.tokens.Remove(ctx, token); remErr != nil {
			s.logger.Error("failed to remove token after notification failure",
				"error", remErr,
				"account_id", account.ID)
			return nil, fmt.Errorf("%w: token for account %s", ErrCompensationFailed, account.ID)
		}
		return nil, &UnknownError{
			Message: fmt.Sprintf("unable to send email to %s", account.Email),
			Err:     err,
		}
	}

	return account, nil
}

// Get implements AccountService.Get.
func (s *AccountServiceImpl) Get(ctx context.Context, data LookupData) (*domain.Account, error) {
	if err := s.validate.Struct(data); err != nil {
		return nil, &InvalidDataError{
			Message: "account data validation failed",
			Fields:  validationFieldErrors(err),
		}
	}

	var account *domain.Account
	var err error

	switch {
	case data.ID != nil:
		account, err = s.accounts.GetByID(ctx, *data.ID)
	case data.Email != "":
		account, err = s.accounts.GetByEmail(ctx, data.Email)
	default:
		return nil, &NotFoundError{Entity: "account", Lookup: data.lookupMap()}
	}

	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, &NotFoundError{Entity: "account", Lookup: data.lookupMap()}
		}
		return nil, &UnknownError{Message: "failed to load account", Err: err}
	}

	return account, nil
}

// GetAuthenticationToken implements AccountService.GetAuthenticationToken.
// Renewal deletes every existing auth token before issuing the fresh one, so
// callers relying on a new token ID on each renewal keep that guarantee.
func (s *AccountServiceImpl) GetAuthenticationToken(
	ctx context.Context,
	account *domain.Account,
	renew bool,
) (*domain.Token, error) {
	if account == nil || account.ID == uuid.Nil {
		return nil, nil
	}

	existing, err := s.tokens.GetAll(ctx, account, domain.TokenTypeAuth)
	if err != nil {
		return nil, &UnknownError{Message: "failed to list auth tokens", Err: err}
	}

	if renew {
		for _, token := range existing {
			if err := s.tokens.Remove(ctx, token); err != nil {
				return nil, &UnknownError{Message: "failed to renew auth token", Err: err}
			}
		}
		existing = nil
	}

	if len(existing) > 0 {
		return existing[0], nil
	}

	token, err := s.tokens.Create(ctx, account, domain.TokenTypeAuth)
	if err != nil {
		return nil, &UnknownError{Message: "failed to issue auth token", Err: err}
	}
	return token, nil
}

// Remove implements AccountService.Remove.
// The farewell notification is sent from a snapshot taken before deletion;
// a notification failure does NOT restore the account or its tokens.
func (s *AccountServiceImpl) Remove(ctx context.Context, account *domain.Account) (bool, error) {
	if account == nil || account.ID == uuid.Nil {
		return false, nil
	}

	// Snapshot before deletion: the notification needs the data afterwards.
	snapshot := *account

	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return false, &NotFoundError{Entity: "account", Lookup: map[string]string{"id": account.ID.String()}}
		}
		return false, &UnknownError{Message: "failed to delete account", Err: err}
	}

	// Cascade: no orphaned tokens may remain.
	if err := s.tokens.RemoveAll(ctx, &snapshot); err != nil {
		return false, &UnknownError{Message: "failed to remove account tokens", Err: err}
	}

	if err := s.sendEmail(ctx, &snapshot, mail.KindRemove, nil); err != nil {
		s.logger.Warn("farewell notification failed; account stays deleted",
			"error", err,
			"account_id", snapshot.ID)
		return false, &UnknownError{
			Message: fmt.Sprintf("unable to send email to %s", snapshot.Email),
			Err:     err,
		}
	}

	s.logger.Info("account removed", "account_id", snapshot.ID)
	return true, nil
}

// ResetPassword implements AccountService.ResetPassword.
// A successful reset proves control of the mailbox, so the email is marked
// verified regardless of its prior state.
func (s *AccountServiceImpl) ResetPassword(
	ctx context.Context,
	data ResetPasswordData,
) (*domain.Account, error) {
	if err := s.validate.Struct(data); err != nil {
		return nil, &InvalidDataError{
			Message: "account data validation failed",
			Fields:  validationFieldErrors(err),
		}
	}

	token, err := s.resolveMailToken(ctx, data.Token)
	if err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, LookupData{ID: &token.TargetID})
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Remove(ctx, token); err != nil {
		return nil, &UnknownError{Message: "failed to consume token", Err: err}
	}

	verified := true
	return s.Update(ctx, account, Fields{
		EmailVerified: &verified,
		Password:      &data.Password,
	})
}

// Update implements AccountService.Update.
// The store layer hashes a newly supplied plaintext password before persisting.
func (s *AccountServiceImpl) Update(
	ctx context.Context,
	account *domain.Account,
	fields Fields,
) (*domain.Account, error) {
	fields.applyTo(account)

	if err := s.accounts.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			return nil, &NotFoundError{Entity: "account", Lookup: map[string]string{"id": account.ID.String()}}
		case errors.Is(err, store.ErrEmailExists):
			return nil, &AlreadyExistsError{Entity: "account", Field: "email", Value: account.Email}
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, &InvalidDataError{Message: err.Error()}
		default:
			return nil, &UnknownError{Message: "failed to update account", Err: err}
		}
	}

	return account, nil
}

// resolveMailToken parses, loads and validates a token presented in a
// confirmation or reset flow. Every failure surfaces as invalid data: the
// caller must not learn whether the token ever existed.
func (s *AccountServiceImpl) resolveMailToken(ctx context.Context, raw string) (*domain.Token, error) {
	tokenID, err := uuid.Parse(raw)
	if err != nil {
		return nil, &InvalidDataError{Message: "token is not valid"}
	}

	token, err := s.tokens.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, &InvalidDataError{Message: "token is not valid"}
		}
		return nil, &UnknownError{Message: "failed to resolve token", Err: err}
	}

	if !s.tokens.IsValid(token) {
		return nil, &InvalidDataError{Message: "token is not valid"}
	}

	return token, nil
}

// compensateCreate deletes a just-created account and its confirmation token
// after a notification failure. A failed compensating delete is surfaced as
// ErrCompensationFailed so operators can detect orphaned records.
func (s *AccountServiceImpl) compensateCreate(
	ctx context.Context,
	account *domain.Account,
	token *domain.Token,
) error {
	var failed []string

	if err := s.accounts.Delete(ctx, account.ID); err != nil && !errors.Is(err, store.ErrAccountNotFound) {
		s.logger.Error("failed to delete account during compensation",
			"error", err,
			"account_id", account.ID)
		failed = append(failed, "account")
	}

	if token != nil {
		if err := s.tokens.Remove(ctx, token); err != nil {
			s.logger.Error("failed to delete token during compensation",
				"error", err,
				"account_id", account.ID)
			failed = append(failed, "token")
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s for account %s",
			ErrCompensationFailed, strings.Join(failed, ", "), account.ID)
	}
	return nil
}

// sendEmail resolves the notification title for the given kind, renders the
// account payload (plus token data when supplied) and dispatches it through
// the notifier.
func (s *AccountServiceImpl) sendEmail(
	ctx context.Context,
	account *domain.Account,
	kind mail.Kind,
	token *domain.Token,
) error {
	title := s.translator.Translate(mail.Titles[kind], map[string]string{":title": s.appName})
	headers := s.notifier.BuildHeaders(account.Email, title)

	data := mail.TemplateData{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
	if token != nil {
		data.Token = token.ID.String()
		data.TokenTimeout = token.Timeout
		data.HasToken = true
	}

	content, err := s.notifier.RenderTemplate(kind.TemplateName(), data)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	return s.notifier.Send(ctx, headers, content)
}

// lookupMap renders the lookup data for NotFoundError payloads.
func (d LookupData) lookupMap() map[string]string {
	lookup := make(map[string]string, 2)
	if d.ID != nil {
		lookup["id"] = d.ID.String()
	}
	if d.Email != "" {
		lookup["email"] = d.Email
	}
	return lookup
}

// applyTo copies the non-nil members of the patch onto the account.
func (f Fields) applyTo(account *domain.Account) {
	if f.Email != nil {
		account.Email = *f.Email
	}
	if f.Password != nil {
		account.Password = *f.Password
	}
	if f.FirstName != nil {
		account.FirstName = *f.FirstName
	}
	if f.LastName != nil {
		account.LastName = *f.LastName
	}
	if f.GravatarEmail != nil {
		account.GravatarEmail = *f.GravatarEmail
	}
	if f.EmailVerified != nil {
		account.EmailVerified = *f.EmailVerified
	}
	if f.LastVisitAt != nil {
		account.LastVisitAt = f.LastVisitAt
	}
}

// validationFieldErrors converts validator errors into the per-field error
// mapping carried by InvalidDataError.
func validationFieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = validationTagMessage(fe)
	}
	return fields
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
