package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"homeleads/internal/platform/config"
)

// SMTPNotifier sends lead notifications over plain SMTP with AUTH. No
// retries or queuing: callers treat delivery as fire-and-forget.
type SMTPNotifier struct {
	cfg config.SMTPConfig
	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: smtp.SendMail}
}

func (n *SMTPNotifier) NotifyLead(_ context.Context, lead Lead) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	msg := buildMessage(n.cfg.From, n.cfg.To, lead)
	if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("send lead notification: %w", err)
	}
	return nil
}

func buildMessage(from, to string, lead Lead) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: New lead: %s %s (%s)\r\n", lead.FirstName, lead.LastName, lead.Kind)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "Name: %s %s\n", lead.FirstName, lead.LastName)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	}
	fmt.Fprintf(&b, "Source: %s\n", lead.Source)
	if lead.Detail != "" {
		fmt.Fprintf(&b, "\n%s\n", lead.Detail)
	}
	return []byte(b.String())
}
