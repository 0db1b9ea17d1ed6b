package db

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	GetOrCreateDirect(requester *models.User, target *models.User) (*models.Conversation, bool, error)
	CreateGroup(name string, participants []models.User) (*models.Conversation, error)
	FindByID(id uuid.UUID) (*models.Conversation, error)
	ListForUser(userID uint) ([]models.Conversation, error)
	IsParticipant(conversationID uuid.UUID, userID uint) (bool, error)
	DeleteScoped(conversationID uuid.UUID, userID uint) (int64, error)
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// GetOrCreateDirect returns the existing direct conversation between the two
// users, or creates it. The unique index on pair_key closes the window
// between the lookup and the insert: the loser of a concurrent create gets a
// uniqueness violation and re-reads the winner's row.
func (r *conversationRepo) GetOrCreateDirect(requester *models.User, target *models.User) (*models.Conversation, bool, error) {
	pairKey := models.DirectPairKey(requester.ID, target.ID)

	existing, err := r.findDirectByPairKey(pairKey)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	conv := &models.Conversation{
		ID:           uuid.New(),
		IsGroup:      false,
		PairKey:      &pairKey,
		Participants: []models.User{*requester, *target},
	}
	if err := r.DB.Create(conv).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the race; the other request created it first.
			existing, ferr := r.findDirectByPairKey(pairKey)
			if ferr != nil {
				return nil, false, ferr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		log.Printf("GetOrCreateDirect error: %v", err)
		return nil, false, errors.Wrap(err, "could not create conversation")
	}

	created, err := r.FindByID(conv.ID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (r *conversationRepo) findDirectByPairKey(pairKey string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.DB.Where("pair_key = ?", pairKey).Preload("Participants").First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not look up direct conversation")
	}
	return &conv, nil
}

func (r *conversationRepo) CreateGroup(name string, participants []models.User) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:           uuid.New(),
		Name:         name,
		IsGroup:      true,
		Participants: participants,
	}
	if err := r.DB.Create(conv).Error; err != nil {
		log.Printf("CreateGroup error: %v", err)
		return nil, errors.Wrap(err, "could not create group conversation")
	}
	return r.FindByID(conv.ID)
}

func (r *conversationRepo) FindByID(id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.DB.Preload("Participants").First(&conv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListForUser returns the user's conversations, most recently active first,
// with participants and messages (sender and seen-set included) attached.
func (r *conversationRepo) ListForUser(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("COALESCE(conversations.last_message_at, conversations.created_at) DESC").
		Preload("Participants").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		Preload("Messages.Sender").
		Preload("Messages.SeenBy").
		Find(&convs).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list conversations")
	}
	return convs, nil
}

func (r *conversationRepo) IsParticipant(conversationID uuid.UUID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Table("conversation_participants").
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "could not check membership")
	}
	return count > 0, nil
}

// DeleteScoped removes the conversation only when the requester is a member.
// A non-member's request matches zero rows and is a no-op, mirroring
// delete-many-with-filter semantics. The conversation and its membership,
// message, and seen rows go in one transaction.
func (r *conversationRepo) DeleteScoped(conversationID uuid.UUID, userID uint) (int64, error) {
	var affected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("id = ? AND EXISTS (SELECT 1 FROM conversation_participants cp WHERE cp.conversation_id = conversations.id AND cp.user_id = ?)",
				conversationID, userID).
			Delete(&models.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		if err := tx.Exec("DELETE FROM conversation_participants WHERE conversation_id = ?", conversationID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM message_seen WHERE message_id IN (SELECT id FROM messages WHERE conversation_id = ?)", conversationID).Error; err != nil {
			return err
		}
		return tx.Where("conversation_id = ?", conversationID).Delete(&models.Message{}).Error
	})
	if err != nil {
		log.Printf("DeleteScoped error: %v", err)
		return 0, errors.Wrap(err, "could not delete conversation")
	}
	return affected, nil
}
