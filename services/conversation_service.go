package services

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	apiError "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/gorm"
)

// ConversationService interface
type ConversationService interface {
	CreateDirect(requester *models.User, targetID uint) (*models.Conversation, *apiError.Error)
	CreateGroup(requester *models.User, memberIDs []uint, name string) (*models.Conversation, *apiError.Error)
	GetConversation(requester *models.User, conversationID uuid.UUID) (*models.Conversation, *apiError.Error)
	ListConversations(requester *models.User) ([]models.Conversation, *apiError.Error)
	DeleteConversation(requester *models.User, conversationID uuid.UUID) (int64, *apiError.Error)
}

type conversationService struct {
	Config           *config.Config
	conversationRepo db.ConversationRepository
	authRepo         db.AuthRepository
}

// NewConversationService instantiate a conversationService
func NewConversationService(conversationRepo db.ConversationRepository, authRepo db.AuthRepository, conf *config.Config) ConversationService {
	return &conversationService{
		Config:           conf,
		conversationRepo: conversationRepo,
		authRepo:         authRepo,
	}
}

// CreateDirect returns the existing direct conversation between requester and
// target, or creates one. Calling it twice with the same pair, in either
// order, yields the same conversation.
func (s *conversationService) CreateDirect(requester *models.User, targetID uint) (*models.Conversation, *apiError.Error) {
	if requester == nil {
		return nil, apiError.ErrUnauthorized
	}
	if targetID == 0 || targetID == requester.ID {
		return nil, apiError.New("invalid target user", http.StatusBadRequest)
	}

	target, err := s.authRepo.FindUserByID(targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.New("target user not found", http.StatusBadRequest)
		}
		log.Printf("CreateDirect error finding target: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	conv, created, err := s.conversationRepo.GetOrCreateDirect(requester, target)
	if err != nil {
		log.Printf("CreateDirect error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if created {
		log.Printf("created direct conversation %s for users %d and %d", conv.ID, requester.ID, target.ID)
	}
	return conv, nil
}

// CreateGroup creates a named group conversation. The requester is always a
// member on top of the invited list.
func (s *conversationService) CreateGroup(requester *models.User, memberIDs []uint, name string) (*models.Conversation, *apiError.Error) {
	if requester == nil {
		return nil, apiError.ErrUnauthorized
	}
	if len(memberIDs) < 2 || name == "" {
		return nil, apiError.New("a group needs a name and at least 2 members", http.StatusBadRequest)
	}

	participants := []models.User{*requester}
	seen := map[uint]bool{requester.ID: true}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		member, err := s.authRepo.FindUserByID(id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apiError.New("member not found", http.StatusBadRequest)
			}
			log.Printf("CreateGroup error finding member %d: %v", id, err)
			return nil, apiError.ErrInternalServerError
		}
		participants = append(participants, *member)
		seen[id] = true
	}

	conv, err := s.conversationRepo.CreateGroup(name, participants)
	if err != nil {
		log.Printf("CreateGroup error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return conv, nil
}

func (s *conversationService) GetConversation(requester *models.User, conversationID uuid.UUID) (*models.Conversation, *apiError.Error) {
	if requester == nil {
		return nil, apiError.ErrUnauthorized
	}
	conv, err := s.conversationRepo.FindByID(conversationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.New("invalid conversation id", http.StatusBadRequest)
		}
		log.Printf("GetConversation error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !conv.HasParticipant(requester.ID) {
		return nil, apiError.New("not a participant", http.StatusForbidden)
	}
	return conv, nil
}

func (s *conversationService) ListConversations(requester *models.User) ([]models.Conversation, *apiError.Error) {
	if requester == nil {
		return nil, apiError.ErrUnauthorized
	}
	convs, err := s.conversationRepo.ListForUser(requester.ID)
	if err != nil {
		log.Printf("ListConversations error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return convs, nil
}

// DeleteConversation removes the conversation when the requester is a member.
// A non-member's request deletes nothing and reports zero affected rows.
func (s *conversationService) DeleteConversation(requester *models.User, conversationID uuid.UUID) (int64, *apiError.Error) {
	if requester == nil {
		return 0, apiError.ErrUnauthorized
	}

	if _, err := s.conversationRepo.FindByID(conversationID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apiError.New("invalid conversation id", http.StatusBadRequest)
		}
		log.Printf("DeleteConversation error: %v", err)
		return 0, apiError.ErrInternalServerError
	}

	count, err := s.conversationRepo.DeleteScoped(conversationID, requester.ID)
	if err != nil {
		log.Printf("DeleteConversation error: %v", err)
		return 0, apiError.ErrInternalServerError
	}
	return count, nil
}
