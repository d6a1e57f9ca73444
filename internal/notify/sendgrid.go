package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendgridMailer struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

// NewSendgridMailer sends email through the SendGrid v3 API.
func NewSendgridMailer(apiKey, fromEmail, fromName, appName string) Mailer {
	prefix := ""
	if appName != "" {
		prefix = "[" + appName + "] "
	}
	return &sendgridMailer{
		key:        apiKey,
		host:       sendgridHost,
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: prefix,
	}
}

func (m *sendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", msg.PlainText))
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return v3
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
