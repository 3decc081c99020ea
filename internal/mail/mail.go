// Package mail delivers transactional email (verification codes).
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/BRajendra10/yotube-backend/internal/logger"
)

type Sender interface {
	// Send delivers a single plain-text message
	Send(ctx context.Context, to string, subject string, body string) error
}

type SMTPConfig struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

type smtpSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, to string, subject string, body string) error {
	host := s.cfg.Addr
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.cfg.From, to, subject, body)

	err := smtp.SendMail(s.cfg.Addr, auth, s.cfg.From, []string{to}, []byte(msg))
	if err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

type logSender struct {
	logger logger.Logger
}

// NewLogSender writes messages to the log instead of delivering them.
// Used in development when no SMTP relay is configured.
func NewLogSender(l logger.Logger) Sender {
	return &logSender{logger: l}
}

func (s *logSender) Send(_ context.Context, to string, subject string, body string) error {
	s.logger.Info("mail not delivered, smtp is not configured", "to", to, "subject", subject, "body", body)
	return nil
}
