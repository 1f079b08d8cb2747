package mail

import (
	"context"
	"log/slog"
)

// LogNotifier renders templates normally but logs instead of sending.
// It is wired when SMTP is not configured, which keeps development instances
// usable without a mail server.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only Notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

// Ensure LogNotifier implements the Notifier interface
var _ Notifier = (*LogNotifier)(nil)

// BuildHeaders implements Notifier.BuildHeaders.
func (n *LogNotifier) BuildHeaders(to, subject string) Headers {
	return Headers{To: to, Subject: subject}
}

// RenderTemplate implements Notifier.RenderTemplate.
func (n *LogNotifier) RenderTemplate(name string, data TemplateData) (string, error) {
	return renderTemplate(name, data)
}

// Send implements Notifier.Send by logging the notification.
func (n *LogNotifier) Send(ctx context.Context, headers Headers, content string) error {
	n.logger.InfoContext(ctx, "notification email suppressed (no SMTP configured)",
		"to", headers.To,
		"subject", headers.Subject,
		"bytes", len(content))
	return nil
}
