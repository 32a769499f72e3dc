package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/hauseeHQ/intake-service/internal/config"
	"github.com/hauseeHQ/intake-service/internal/models"
)

// HTML template for the buyer-facing confirmation email.
const confirmationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>We received your request!</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f9fa; margin: 0; padding: 20px; }
  .container { max-width: 500px; margin: auto; background: #ffffff; border: 1px solid #e9ecef; border-radius: 8px; overflow: hidden; }
  .header { background-color: #1f6f5c; color: white; padding: 20px; text-align: center; }
  .header h1 { margin: 0; font-size: 24px; }
  .content { padding: 30px; text-align: left; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
  p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Your agent match is underway!</h1>
    </div>
    <div class="content">
      <p>Hi %s,</p>
      <p>We've received your answers and started matching you with an agent who fits your plans. Expect to hear from us within one business day.</p>
      <p>You can review your journey anytime from your Hausee dashboard.</p>
    </div>
    <div class="footer">
      © %d Hausee. All rights reserved.
    </div>
  </div>
</body>
</html>`

// HTML template for the internal matching-team notification.
const internalNotificationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: monospace; line-height: 1.5; }
  .container { border: 1px solid #ccc; padding: 15px; max-width: 600px; }
  h2 { margin-top: 0; }
  ul { list-style: none; padding: 0; }
  li { margin-bottom: 5px; }
  strong { color: #000; }
</style>
</head>
<body>
  <div class="container">
    <h2>New Intake Submission</h2>
    <ul>
      <li><strong>Intent:</strong> %s</li>
      <li><strong>Email:</strong> %s</li>
      <li><strong>Phone:</strong> %s</li>
      <li><strong>Submitted (UTC):</strong> %s</li>
    </ul>
  </div>
</body>
</html>`

// NotificationService sends the post-submission emails. Failures are
// the caller's to log; a lost email never fails a submission.
type NotificationService interface {
	SendSubmissionConfirmation(ctx context.Context, toEmail, firstName string) error
	SendInternalNotification(ctx context.Context, sub *models.Submission) error
}

type notificationService struct {
	cfg            *config.Config
	sendgridClient *sendgrid.Client
}

func NewNotificationService(cfg *config.Config) NotificationService {
	return &notificationService{
		cfg:            cfg,
		sendgridClient: sendgrid.NewSendClient(cfg.SendgridAPIKey),
	}
}

func (s *notificationService) SendSubmissionConfirmation(_ context.Context, toEmail, firstName string) error {
	from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(firstName, toEmail)

	subject := "We received your agent-matching request!"
	plainTextContent := fmt.Sprintf(
		"Hi %s,\n\nWe received your answers and started matching you with an agent. Expect to hear from us within one business day.\n\n— Team Hausee",
		firstName,
	)
	htmlContent := fmt.Sprintf(confirmationEmailHTML, firstName, time.Now().Year())

	msg := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	_, err := s.sendgridClient.Send(msg)
	return err
}

func (s *notificationService) SendInternalNotification(_ context.Context, sub *models.Submission) error {
	from := mail.NewEmail(s.cfg.OrganizationName+" Intake-Bot", s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail("Matching Team", s.cfg.InternalNotifyEmail)

	subject := fmt.Sprintf("[Intake][%s] %s", sub.PropertyIntent, sub.Email)
	plainTextContent := fmt.Sprintf(
		"A new intake was submitted.\n\nIntent: %s\nEmail: %s\nPhone: %s",
		sub.PropertyIntent, sub.Email, sub.Phone,
	)
	htmlContent := fmt.Sprintf(
		internalNotificationEmailHTML,
		sub.PropertyIntent,
		sub.Email,
		sub.Phone,
		sub.SubmittedAt.UTC().Format(time.RFC1123Z),
	)

	msg := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	_, err := s.sendgridClient.Send(msg)
	return err
}
