package services

import (
	"context"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/techagentng/chatterbox/db"
	"github.com/techagentng/chatterbox/models"
	"google.golang.org/api/option"
)

// PushService notifies members who are not connected over a socket
type PushService interface {
	NotifyNewMessage(msg *models.Message, conv *models.Conversation, excludeUserIDs map[uint]bool)
}

type pushService struct {
	client   *messaging.Client
	authRepo db.AuthRepository
}

// NewPushService builds a Firebase-backed push service. It returns a no-op
// service when no credentials file is configured.
func NewPushService(credentialsFile string, authRepo db.AuthRepository) PushService {
	if credentialsFile == "" {
		log.Println("push notifications disabled: no Firebase credentials configured")
		return &pushService{authRepo: authRepo}
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("error initializing Firebase app: %v", err)
		return &pushService{authRepo: authRepo}
	}
	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("error getting Messaging client: %v", err)
		return &pushService{authRepo: authRepo}
	}
	log.Println("Firebase Messaging client initialized")
	return &pushService{client: client, authRepo: authRepo}
}

// NotifyNewMessage pushes a notification to every member's registered device,
// skipping the excluded users (typically the sender and anyone online).
func (p *pushService) NotifyNewMessage(msg *models.Message, conv *models.Conversation, excludeUserIDs map[uint]bool) {
	if p.client == nil {
		return
	}

	var recipients []uint
	for _, u := range conv.Participants {
		if !excludeUserIDs[u.ID] {
			recipients = append(recipients, u.ID)
		}
	}
	tokens, err := p.authRepo.GetDeviceTokens(recipients)
	if err != nil {
		log.Printf("push: could not fetch device tokens: %v", err)
		return
	}

	title := msg.Sender.Name
	if conv.IsGroup {
		title = conv.Name
	}
	body := msg.Body
	if msg.ImageURL != "" {
		body = "Sent an image"
	}

	for _, t := range tokens {
		message := &messaging.Message{
			Token: t.Token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
		}
		if _, err := p.client.Send(context.Background(), message); err != nil {
			log.Printf("push: error sending to token %d: %v", t.ID, err)
		}
	}
}
