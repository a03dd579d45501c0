package mailer

import (
	"go.uber.org/zap"
)

type logMailer struct {
	log *zap.Logger
}

// NewLogMailer logs mail instead of sending it. Used in development when no
// SMTP host is configured.
func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) Send(to, subject, body string) error {
	m.log.Info("Email (log only, SMTP not configured)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
