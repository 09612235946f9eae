package mail

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/uofr/urcourses-teststudent/internal/config"
)

// Mailer delivers outbound notifications.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer constructs the mailer.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers a plain-text message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email", zap.String("to", to), zap.Error(err))
		return err
	}

	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
