package email

import (
	"fmt"
	"log"

	"eduapp/backend/config"
)

// Mailer delivers account emails. Delivery failures are logged and swallowed
// so registration never fails on a mail outage.
type Mailer interface {
	SendVerificationEmail(toEmail, verificationURL string)
}

// NewMailer picks the SendGrid mailer when an API key is configured and falls
// back to console output otherwise.
func NewMailer(cfg *config.Config, logger *log.Logger) Mailer {
	if cfg.SendGridAPIKey != "" {
		return NewSendGridMailer(cfg, logger)
	}
	return NewConsoleMailer(logger)
}

type consoleMailer struct {
	logger *log.Logger
}

func NewConsoleMailer(logger *log.Logger) Mailer {
	return &consoleMailer{logger: logger}
}

func (m *consoleMailer) SendVerificationEmail(toEmail, verificationURL string) {
	m.logger.Printf("verification mail for %s: %s", toEmail, verificationURL)
}

func verificationHTML(verificationURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Welcome to EduApp!</h2>
			<p>Click the button below to verify your email address:</p>
			<a href="%[1]s" style="background: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">
				Verify Email Address
			</a>
			<p>Or copy this link: %[1]s</p>
		</div>
	`, verificationURL)
}
