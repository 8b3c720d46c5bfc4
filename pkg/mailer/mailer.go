package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer sends an HTML email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer for the given relay address
// (host:port) and From header.
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: addr,
		from: from,
	}
}

// Send delivers a single HTML message. No retries are attempted; the
// caller decides how a delivery failure surfaces.
func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, html))

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
