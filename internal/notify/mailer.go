// Package notify delivers transactional email to teachers.
package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eduplatform/teacher-store/internal/config"
)

// Message is one outbound email.
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer sends email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid mailer when an API key is configured, otherwise a
// mailer that only logs.
func New(cfg config.NotificationConfig, appName string, logger *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.SendgridAPIKey) == "" {
		logger.Info("SENDGRID_API_KEY not set; emails will be logged only")
		return NewLogMailer(logger)
	}
	return NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFrom, cfg.EmailFromName, appName)
}

type logMailer struct {
	logger *zap.Logger
}

// NewLogMailer records emails in the log instead of sending them.
func NewLogMailer(logger *zap.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject))
	return nil
}
