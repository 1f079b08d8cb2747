package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/sampleapp/account-api/internal/domain"
)

// CreateAccountRequest is the payload for account registration.
type CreateAccountRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	GravatarEmail string `json:"gravatar_email,omitempty"`
}

// AuthRequest is the payload for authentication. Either a token or an
// email/password pair is expected.
type AuthRequest struct {
	Token    string `json:"token,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// ConfirmRequest is the payload for email confirmation.
type ConfirmRequest struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest is the payload for requesting reset instructions.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload for resetting a password with a token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UpdateAccountRequest is the patch payload for account updates. There is no
// ID member: an "id" in the request body is silently dropped during decoding,
// because account identity is immutable.
type UpdateAccountRequest struct {
	Email         *string `json:"email,omitempty"`
	Password      *string `json:"password,omitempty"`
	FirstName     *string `json:"firstname,omitempty"`
	LastName      *string `json:"lastname,omitempty"`
	GravatarEmail *string `json:"gravatar_email,omitempty"`
}

// AccountResponse is the public representation of an account.
type AccountResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstname"`
	LastName      string     `json:"lastname"`
	GravatarEmail string     `json:"gravatar_email,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	LastVisitAt   *time.Time `json:"date_lastvisit,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AuthResponse carries an authenticated account and its bearer token.
type AuthResponse struct {
	Account AccountResponse `json:"account"`
	Token   string          `json:"token"`
	Timeout time.Time       `json:"token_timeout"`
}

// newAccountResponse maps a domain account to its public representation.
func newAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		Email:         account.Email,
		FirstName:     account.FirstName,
		LastName:      account.LastName,
		GravatarEmail: account.GravatarEmail,
		EmailVerified: account.EmailVerified,
		LastVisitAt:   account.LastVisitAt,
		CreatedAt:     account.CreatedAt,
	}
}
