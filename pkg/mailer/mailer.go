package mailer

import (
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/ryanwills/accounts-backend/pkg/logger"
)

var (
	// ErrAuthFailed indicates the SMTP server rejected the configured credentials.
	ErrAuthFailed = errors.New("smtp authentication failed")
	// ErrUnreachable indicates the SMTP server could not be reached.
	ErrUnreachable = errors.New("smtp server unreachable")
)

// Mailer delivers a message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	From     string
	Password string
}

type smtpMailer struct {
	cfg Config
}

// NewSMTPMailer creates a Mailer backed by an SMTP server.
// When no credentials are configured the mailer runs in dev mode and
// logs outgoing messages instead of sending them.
func NewSMTPMailer(cfg Config) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.cfg.From == "" || m.cfg.Password == "" {
		logger.Info("[DEV MODE] Email not sent, SMTP credentials missing", map[string]interface{}{
			"to":      to,
			"subject": subject,
			"body":    body,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.From, to, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, message); err != nil {
		classified := classify(err)
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return classified
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}

// classify maps a raw SMTP error onto the taxonomy callers report on:
// authentication failure, connectivity failure, or unknown.
func classify(err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
	}

	var netErr net.Error
	var opErr *net.OpError
	if errors.As(err, &opErr) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "username and password not accepted"),
		strings.Contains(msg, "authentication"):
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return fmt.Errorf("mail delivery failed: %w", err)
}
