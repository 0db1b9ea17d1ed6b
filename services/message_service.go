package services

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	apiError "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/gorm"
)

// MessageService interface
type MessageService interface {
	SendMessage(sender *models.User, req *models.SendMessageRequest) (*models.Message, *models.Conversation, *apiError.Error)
	ListMessages(viewer *models.User, conversationID uuid.UUID) ([]models.Message, *apiError.Error)
	MarkLastMessageSeen(viewer *models.User, conversationID uuid.UUID) (*models.Message, *apiError.Error)
}

type messageService struct {
	Config           *config.Config
	messageRepo      db.MessageRepository
	conversationRepo db.ConversationRepository
}

// NewMessageService instantiate a messageService
func NewMessageService(messageRepo db.MessageRepository, conversationRepo db.ConversationRepository, conf *config.Config) MessageService {
	return &messageService{
		Config:           conf,
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
	}
}

// SendMessage stores a message in a conversation the sender belongs to. The
// seen-set starts with the sender; the conversation's activity timestamp is
// bumped so it sorts to the top of the list.
func (s *messageService) SendMessage(sender *models.User, req *models.SendMessageRequest) (*models.Message, *models.Conversation, *apiError.Error) {
	if sender == nil {
		return nil, nil, apiError.ErrUnauthorized
	}
	if req.Body == "" && req.ImageURL == "" {
		return nil, nil, apiError.New("message needs a body or an image", http.StatusBadRequest)
	}

	conv, err := s.conversationRepo.FindByID(req.ConversationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apiError.New("invalid conversation id", http.StatusBadRequest)
		}
		log.Printf("SendMessage error finding conversation: %v", err)
		return nil, nil, apiError.ErrInternalServerError
	}
	if !conv.HasParticipant(sender.ID) {
		return nil, nil, apiError.New("not a participant", http.StatusForbidden)
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		Body:           req.Body,
		ImageURL:       req.ImageURL,
		SeenBy:         []models.User{*sender},
	}
	saved, err := s.messageRepo.SaveMessage(msg)
	if err != nil {
		log.Printf("SendMessage error: %v", err)
		return nil, nil, apiError.ErrInternalServerError
	}

	if err := s.messageRepo.UpdateConversationLastMessage(conv.ID, time.Now()); err != nil {
		log.Printf("SendMessage error updating conversation: %v", err)
	}

	return saved, conv, nil
}

func (s *messageService) ListMessages(viewer *models.User, conversationID uuid.UUID) ([]models.Message, *apiError.Error) {
	if viewer == nil {
		return nil, apiError.ErrUnauthorized
	}
	ok, err := s.conversationRepo.IsParticipant(conversationID, viewer.ID)
	if err != nil {
		log.Printf("ListMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !ok {
		return nil, apiError.New("not a participant", http.StatusForbidden)
	}

	messages, err := s.messageRepo.ListByConversation(conversationID)
	if err != nil {
		log.Printf("ListMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return messages, nil
}

// MarkLastMessageSeen adds the viewer to the seen-set of the conversation's
// last message. Nothing happens when the conversation has no messages yet.
func (s *messageService) MarkLastMessageSeen(viewer *models.User, conversationID uuid.UUID) (*models.Message, *apiError.Error) {
	if viewer == nil {
		return nil, apiError.ErrUnauthorized
	}
	ok, err := s.conversationRepo.IsParticipant(conversationID, viewer.ID)
	if err != nil {
		log.Printf("MarkLastMessageSeen error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !ok {
		return nil, apiError.New("not a participant", http.StatusForbidden)
	}

	last, err := s.messageRepo.LastInConversation(conversationID)
	if err != nil {
		log.Printf("MarkLastMessageSeen error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if last == nil {
		return nil, nil
	}

	if err := s.messageRepo.MarkSeen(last.ID, viewer.ID); err != nil {
		log.Printf("MarkLastMessageSeen error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	refreshed, err := s.messageRepo.LastInConversation(conversationID)
	if err != nil {
		log.Printf("MarkLastMessageSeen error reloading: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return refreshed, nil
}
