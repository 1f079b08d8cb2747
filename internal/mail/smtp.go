package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sampleapp/account-api/internal/config"
)

// SMTPNotifier delivers notifications over SMTP.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

// NewSMTPNotifier creates a Notifier backed by the configured SMTP server.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Ensure SMTPNotifier implements the Notifier interface
var _ Notifier = (*SMTPNotifier)(nil)

// BuildHeaders implements Notifier.BuildHeaders.
func (n *SMTPNotifier) BuildHeaders(to, subject string) Headers {
	return Headers{To: to, Subject: subject}
}

// RenderTemplate implements Notifier.RenderTemplate using the embedded
// notification templates.
func (n *SMTPNotifier) RenderTemplate(name string, data TemplateData) (string, error) {
	return renderTemplate(name, data)
}

// Send implements Notifier.Send. It writes a plain-text MIME message and
// delivers it through the configured SMTP server, using an implicit TLS
// connection when the secure flag is set.
func (n *SMTPNotifier) Send(_ context.Context, headers Headers, content string) error {
	if !n.cfg.Enabled() {
		return fmt.Errorf("email is not configured")
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", n.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", headers.To))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", headers.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(content)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	if n.cfg.Secure {
		tlsCfg := &tls.Config{
			ServerName: n.cfg.Host,
		}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		client, err := smtp.NewClient(conn, n.cfg.Host)
		if err != nil {
			return err
		}
		defer func() { _ = client.Quit() }()

		if n.cfg.Username != "" {
			auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
			if err := client.Auth(auth); err != nil {
				return err
			}
		}

		if err := client.Mail(n.cfg.From); err != nil {
			return err
		}
		if err := client.Rcpt(headers.To); err != nil {
			return err
		}

		w, err := client.Data()
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(msg.String())); err != nil {
			return err
		}
		return w.Close()
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	return smtp.SendMail(addr, auth, n.cfg.From, []string{headers.To}, []byte(msg.String()))
}
