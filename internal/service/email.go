package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"clubhub-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendFunc delivers one message and reports the provider status code.
type sendFunc func(ctx context.Context, msg *mail.SGMailV3) (status int, body string, err error)

type emailService struct {
	fromEmail string
	fromName  string
	send      sendFunc
}

// NewEmailService sends mail through SendGrid. Without an API key it returns a
// service that only logs what it would have sent.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return &logEmailService{}
	}
	client := sendgrid.NewSendClient(apiKey)
	return &emailService{
		fromEmail: fromEmail,
		fromName:  fromName,
		send: func(ctx context.Context, msg *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, msg)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
	}
}

func (s *emailService) SendNotificationDigest(ctx context.Context, toEmail, username string, messages []string) error {
	subject, plain, htmlContent := digestContent(username, messages)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(username, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plain, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", toEmail, "messages", len(messages))
	status, body, err := s.send(ctx, message)
	if err == nil && status >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", status, body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", toEmail, "status", status)
	if err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	return nil
}

type logEmailService struct{}

func (logEmailService) SendNotificationDigest(ctx context.Context, toEmail, username string, messages []string) error {
	logger.InfoContext(ctx, "Email disabled, digest not sent", "to", toEmail, "messages", len(messages))
	return nil
}

func digestContent(username string, messages []string) (subject, plain, htmlContent string) {
	subject = fmt.Sprintf("You have %d unread ClubHub notifications", len(messages))

	var p, h strings.Builder
	fmt.Fprintf(&p, "Hello %s,\n\nHere is what you missed:\n\n", username)
	fmt.Fprintf(&h, "<html><body><p>Hello %s,</p><p>Here is what you missed:</p><ul>", html.EscapeString(username))
	for _, m := range messages {
		fmt.Fprintf(&p, "- %s\n", m)
		fmt.Fprintf(&h, "<li>%s</li>", html.EscapeString(m))
	}
	p.WriteString("\nThe ClubHub Team")
	h.WriteString("</ul><p>The ClubHub Team</p></body></html>")
	return subject, p.String(), h.String()
}
