package mail

import (
	"fmt"
	"net/smtp"

	"github.com/mkrajewski/task-manager-api/internal/config"
)

// Mailer sends a plain-text email. The reminder runner only depends on this
// interface so tests can substitute a fake.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail over authenticated SMTP.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
}

// NewSMTPMailer creates an SMTPMailer from config. The configured username
// is used as the From address.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.username, to, subject, body)

	if err := smtp.SendMail(addr, auth, m.username, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
