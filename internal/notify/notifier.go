// Package notify delivers new-lead email notifications. Delivery is
// best-effort: the leads service logs and swallows failures so a lost email
// never fails a captured lead.
package notify

import (
	"context"
	"log/slog"
)

// Lead is the notification payload for one captured lead event.
type Lead struct {
	Kind      string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Source    string
	Detail    string
}

// Notifier sends a notification for a newly captured lead.
type Notifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

// LogNotifier is the fallback when SMTP is not configured. It records the
// lead in the log and never fails.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyLead(ctx context.Context, lead Lead) error {
	n.logger.InfoContext(ctx, "lead captured (smtp not configured, logging only)",
		"kind", lead.Kind,
		"name", lead.FirstName+" "+lead.LastName,
		"email", lead.Email,
		"source", lead.Source,
	)
	return nil
}
