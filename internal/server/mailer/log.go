package mailer

import (
	"context"

	"github.com/dmitrijs2005/funrun/internal/logging"
)

// LogMailer writes the reset link to the log instead of sending mail. It is
// used when no SMTP host is configured.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	m.log.Warn(ctx, "smtp not configured, reset link logged only", "to", msg.To, "url", msg.ResetURL)
	return nil
}
