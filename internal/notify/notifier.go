// Package notify sends outbound email notifications.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/fundedhub/backend/internal/common/config"
	"github.com/fundedhub/backend/internal/common/logger"
)

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPNotifier struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, log: log}
}

// Send delivers a plain-text message. smtp.SendMail negotiates STARTTLS
// when the server advertises it, which covers the standard 587 submission
// port.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if n.cfg.From == "" || n.cfg.Password == "" {
		n.log.Warn("smtp notifier not configured, skipping email")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", n.cfg.From, to, subject, body)
	addr := n.cfg.Host + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.Host)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, n.cfg.From, []string{to}, []byte(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
