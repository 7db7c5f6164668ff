package services

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// emailTimeout bounds one provider call; an email that takes longer than
// this counts as a failed dispatch
const emailTimeout = 10 * time.Second

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	sendgrid.DefaultClient = &rest.Client{HTTPClient: &http.Client{Timeout: emailTimeout}}
	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendDoseReminder emails a patient that a dose is due. Failures are
// reported to the caller and never retried here; the slot stays marked as
// fired either way so the patient is not spammed on the next minute.
func (s *EmailService) SendDoseReminder(toName, toEmail, medicineName, dosage string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	subject := fmt.Sprintf("Medication Reminder: %s", medicineName)

	plainContent := fmt.Sprintf("It's time to take your medication: %s (%s).", medicineName, dosage)
	htmlContent := fmt.Sprintf(
		"<div style=\"font-family:Arial,sans-serif\"><h2>Time for your medication</h2>"+
			"<p>It's time to take <strong>%s</strong>.</p>"+
			"<p>Dosage: <strong>%s</strong></p>"+
			"<p>Stay healthy!</p></div>",
		medicineName, dosage)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)

	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("email provider returned %d for %s", response.StatusCode, toEmail)
	}
	return nil
}
