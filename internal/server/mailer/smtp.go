package mailer

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/funrun/internal/logging"
	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends through an SMTP relay, authenticating only when a
// username is configured.
type SMTPMailer struct {
	cfg SMTPConfig
	log logging.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log logging.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// dialAndSend is a seam for tests.
var dialAndSend = func(ctx context.Context, c *mail.Client, msgs ...*mail.Msg) error {
	return c.DialAndSendWithContext(ctx, msgs...)
}

func (m *SMTPMailer) buildMessage(msg PasswordReset) (*mail.Msg, error) {
	body, err := RenderPasswordReset(msg)
	if err != nil {
		return nil, fmt.Errorf("render reset mail: %w", err)
	}

	mm := mail.NewMsg()
	if err := mm.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	mm.Subject(resetSubject)
	mm.SetBodyString(mail.TypeTextHTML, body)

	return mm, nil
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, msg PasswordReset) error {
	mm, err := m.buildMessage(msg)
	if err != nil {
		return err
	}

	c, err := m.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := dialAndSend(ctx, c, mm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.log.Info(ctx, "password reset mail sent", "host", m.cfg.Host)
	return nil
}
