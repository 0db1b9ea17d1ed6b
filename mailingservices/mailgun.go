package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailer is the outbound mail surface the services depend on
type Mailer interface {
	SendWelcomeMessage(recipient string, subject string) (string, error)
	SendResetPasswordMail(recipient string, resetLink string) (string, error)
}

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init() {
	domain := os.Getenv("MG_DOMAIN")
	apiKey := os.Getenv("MG_PUBLIC_API_KEY")
	m.Client = mailgun.NewMailgun(domain, apiKey)
	m.From = os.Getenv("EMAIL_FROM")
	log.Println("Mailgun client initialized")
}

func (m *Mailgun) send(recipient, subject, body string) (string, error) {
	message := m.Client.NewMessage(m.From, subject, body, recipient)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("mailgun send failed: %w", err)
	}
	return id, nil
}

func (m *Mailgun) SendWelcomeMessage(recipient string, subject string) (string, error) {
	body := "Welcome to Chatterbox! Sign in and start a conversation."
	return m.send(recipient, subject, body)
}

func (m *Mailgun) SendResetPasswordMail(recipient string, resetLink string) (string, error) {
	body := fmt.Sprintf("A password reset was requested for your account.\n\nReset it here: %s\n\nThe link expires in 20 minutes. If you didn't ask for this, ignore this mail.", resetLink)
	return m.send(recipient, "Reset your Chatterbox password", body)
}
