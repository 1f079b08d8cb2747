// Package mail provides notification email rendering and dispatch for
// account lifecycle transitions.
package mail

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the account transition a notification belongs to.
type Kind string

const (
	KindCreate         Kind = "CREATE"
	KindForgotPassword Kind = "FORGOT_PASSWORD"
	KindRemove         Kind = "REMOVE"
)

// TemplateName returns the name of the template rendered for this kind.
func (k Kind) TemplateName() string {
	switch k {
	case KindCreate:
		return "AccountCreate"
	case KindForgotPassword:
		return "AccountForgotPassword"
	case KindRemove:
		return "AccountRemove"
	default:
		return ""
	}
}

// Titles maps each notification kind to its subject template. The :title
// placeholder is substituted with the application display name through the
// i18n translator before sending.
var Titles = map[Kind]string{
	KindCreate:         "Welcome on :title",
	KindForgotPassword: "How to reset your password on :title",
	KindRemove:         "Goodbye from :title",
}

// Headers is the addressing envelope of a notification.
type Headers struct {
	To      string
	Subject string
}

// TemplateData is the payload available to notification templates.
// Token fields are zero-valued when the notification carries no token.
type TemplateData struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	Token        string
	TokenTimeout time.Time
	HasToken     bool
}

// Notifier renders a named template with data and dispatches it to an
// address. Implementations are external collaborators; the account service
// only observes success or failure.
type Notifier interface {
	// BuildHeaders builds the addressing envelope for a notification.
	BuildHeaders(to, subject string) Headers

	// RenderTemplate renders the named template with the given data.
	RenderTemplate(name string, data TemplateData) (string, error)

	// Send dispatches rendered content to the address in the headers.
	Send(ctx context.Context, headers Headers, content string) error
}
