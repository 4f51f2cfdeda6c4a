package mailer

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"

	"github.com/Kwanddwo/conflow-service/internal/config"
)

// Mailer sends emails over SMTP. A nil Mailer (unconfigured SMTP) drops
// messages silently; email is a best-effort side channel.
type Mailer struct {
	dialer *mail.Dialer
	from   string
}

// New builds a Mailer from SMTP config; returns nil when SMTP_HOST is unset
func New(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &Mailer{
		dialer: d,
		from:   cfg.From,
	}
}

// Send delivers an HTML email to the given recipients
func (m *Mailer) Send(to []string, subject, html string) error {
	if m == nil {
		return nil
	}
	if len(to) == 0 {
		return nil
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
