package email

import (
	"log"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"eduapp/backend/config"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendGridMailer struct {
	key    string
	from   *sgmail.Email
	logger *log.Logger
}

func NewSendGridMailer(cfg *config.Config, logger *log.Logger) Mailer {
	return &sendGridMailer{
		key:    cfg.SendGridAPIKey,
		from:   sgmail.NewEmail(cfg.EmailFromName, cfg.EmailFrom),
		logger: logger,
	}
}

func (m *sendGridMailer) SendVerificationEmail(toEmail, verificationURL string) {
	p := sgmail.NewPersonalization()
	p.Subject = "Verify Your EduApp Account"
	p.AddTos(sgmail.NewEmail("", toEmail))

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/html", verificationHTML(verificationURL)))

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(msg)

	res, err := sendgrid.API(req)
	if err != nil {
		m.logger.Printf("sendgrid delivery to %s failed: %v", toEmail, err)
		return
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Printf("sendgrid delivery to %s failed with status %d", toEmail, res.StatusCode)
	}
}
