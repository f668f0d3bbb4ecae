package auth

import (
	"context"
)

// LogMailer is a Mailer that only logs the outbound notification.
// Useful for development and as the default collaborator in tests.
type LogMailer struct {
	logger Logger
}

// NewLogMailer creates a mailer that writes to the given logger
func NewLogMailer(logger Logger) *LogMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogMailer{logger: logger}
}

// SendWelcome logs the welcome notification with its confirmation link
func (m *LogMailer) SendWelcome(ctx context.Context, principal *PrincipalRecord, confirmationURL string) error {
	m.logger.Info(
		"sending welcome email",
		"to", principal.Email,
		"name", principal.FullName(),
		"link", confirmationURL,
	)
	return nil
}

var _ Mailer = (*LogMailer)(nil)
