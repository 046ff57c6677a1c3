// Package mailer renders and delivers the password reset e-mail.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

const resetSubject = "Password Reset Instructions"

// PasswordReset is the data the reset e-mail needs.
type PasswordReset struct {
	To       string
	Name     string
	ResetURL string
	ValidFor time.Duration
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, msg PasswordReset) error
}

// validity renders a token lifetime in whole hours or minutes where it can.
func validity(d time.Duration) string {
	unit := func(n int64, name string) string {
		if n == 1 {
			return "1 " + name
		}
		return fmt.Sprintf("%d %ss", n, name)
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return unit(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return unit(int64(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

var resetTemplate = template.Must(template.New("reset").Funcs(template.FuncMap{"validity": validity}).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Reset Your Password</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your password for your STI Surigao Fun Run account.</p>
  <p>Click the button below to reset your password. This link is valid for {{validity .ValidFor}}.</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.ResetURL}}" style="background-color: #0070f3; color: white; padding: 12px 20px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
  </div>
  <p>If you didn't request this password reset, you can safely ignore this email.</p>
  <p>Regards,<br>STI Surigao Fun Run Team</p>
</div>
`))

// RenderPasswordReset returns the HTML body of the reset e-mail.
func RenderPasswordReset(msg PasswordReset) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, msg); err != nil {
		return "", err
	}
	return buf.String(), nil
}
