package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered account of the application.
// It contains identity, credential and profile details.
type Account struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Password       string     `json:"-"` // Plaintext password, used transiently during creation/updates
	HashedPassword string     `json:"-"` // Never expose the password hash in JSON
	FirstName      string     `json:"firstname"`
	LastName       string     `json:"lastname"`
	GravatarEmail  string     `json:"gravatar_email,omitempty"`
	EmailVerified  bool       `json:"email_verified"`
	LastVisitAt    *time.Time `json:"date_lastvisit,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewAccount creates a new Account with the given email, password and profile names.
// It generates a new UUID for the account ID and sets the creation/update timestamps.
// The account starts unverified; EmailVerified only flips through confirmation or a
// password reset.
//
// NOTE: This function only sets up the account structure with the plaintext password.
// The caller is responsible for hashing the password before storing the account.
func NewAccount(email, password, firstName, lastName string) (*Account, error) {
	account := &Account{
		ID:        uuid.New(),
		Email:     email,
		Password:  password, // Plaintext password - must be hashed before storage
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
// Returns an error if any field fails validation.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if a.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(a.Email) {
		return ErrInvalidEmail
	}

	if a.GravatarEmail != "" && !validateEmailFormat(a.GravatarEmail) {
		return ErrInvalidEmail
	}

	// During creation/update a plaintext password is present and must meet the
	// length requirements. Existing accounts loaded from storage carry only the
	// hash.
	if a.Password != "" {
		if !validatePasswordLength(a.Password) {
			if len(a.Password) < MinPasswordLength {
				return ErrPasswordTooShort
			}
			return ErrPasswordTooLong
		}
	} else if a.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// Password length bounds. The upper bound is bcrypt's practical input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
// Structural validation of request payloads is handled separately by the
// validator library; this guards entities built in code.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}

// validatePasswordLength checks if a password meets the length requirements.
// Length is the only enforced dimension; longer passwords provide better
// security than shorter ones with special character requirements.
func validatePasswordLength(password string) bool {
	passLen := len(password)
	return passLen >= MinPasswordLength && passLen <= MaxPasswordLength
}
