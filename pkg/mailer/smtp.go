package mailer

import (
	"fmt"
	"net/smtp"

	"user-auth/pkg/utils"

	"go.uber.org/zap"
)

type smtpMailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

// NewSMTPMailer sends plain-text mail through the configured SMTP relay.
func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	return &smtpMailer{
		config: config,
		log:    log,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	auth := smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.config.From, to, subject, body,
	))

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}
