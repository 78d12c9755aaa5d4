package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SkAltmash/ZapSplit/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendDueReminder(ctx context.Context, email, name string, amount decimal.Decimal, dueDate time.Time) error {
	subject := "Your ZupPayLater due is coming up"
	plainText := fmt.Sprintf("Hi %s,\n\nYour ZupPayLater due of ₹%s falls on %s. Pay from your wallet or extend the due date from the app.\n\nZapSplit", name, amount.String(), dueDate.Format("02 Jan 2006"))
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Your ZupPayLater due of <strong>₹%s</strong> falls on <strong>%s</strong>.</p>
			<p>Pay from your wallet or extend the due date from the app.</p>
			<p>ZapSplit</p>
		</body>
		</html>`, name, amount.String(), dueDate.Format("02 Jan 2006"))

	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *emailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "send", err, "to", to)

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
