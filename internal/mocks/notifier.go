package mocks

import (
	"context"

	"github.com/sampleapp/account-api/internal/mail"
)

// SentMail records one dispatched notification.
type SentMail struct {
	Headers mail.Headers
	Content string
}

// Notifier implements mail.Notifier for testing. It records every rendered
// and sent notification; SendErr makes dispatch fail.
type Notifier struct {
	SendErr   error
	RenderErr error

	Rendered []string
	Sent     []SentMail
}

// NewNotifier creates a new mock notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Ensure Notifier implements mail.Notifier
var _ mail.Notifier = (*Notifier)(nil)

// BuildHeaders implements the Notifier interface.
func (m *Notifier) BuildHeaders(to, subject string) mail.Headers {
	return mail.Headers{To: to, Subject: subject}
}

// RenderTemplate implements the Notifier interface.
// Templates are not actually rendered; the template name is recorded so tests
// can assert which notification kind was dispatched.
func (m *Notifier) RenderTemplate(name string, data mail.TemplateData) (string, error) {
	if m.RenderErr != nil {
		return "", m.RenderErr
	}
	m.Rendered = append(m.Rendered, name)
	return "rendered:" + name, nil
}

// Send implements the Notifier interface.
func (m *Notifier) Send(ctx context.Context, headers mail.Headers, content string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, SentMail{Headers: headers, Content: content})
	return nil
}
