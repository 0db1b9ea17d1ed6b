package db

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	SaveMessage(msg *models.Message) (*models.Message, error)
	ListByConversation(conversationID uuid.UUID) ([]models.Message, error)
	LastInConversation(conversationID uuid.UUID) (*models.Message, error)
	MarkSeen(messageID uuid.UUID, userID uint) error
	UpdateConversationLastMessage(conversationID uuid.UUID, at time.Time) error
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

// SaveMessage persists a message with its initial seen-set (the sender) and
// returns it with sender and seen-set populated.
func (r *messageRepo) SaveMessage(msg *models.Message) (*models.Message, error) {
	if err := r.DB.Create(msg).Error; err != nil {
		log.Printf("SaveMessage error: %v", err)
		return nil, errors.Wrap(err, "could not save message")
	}

	var saved models.Message
	err := r.DB.Preload("Sender").Preload("SeenBy").First(&saved, "id = ?", msg.ID).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not reload message")
	}
	return &saved, nil
}

func (r *messageRepo) ListByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Preload("Sender").
		Preload("SeenBy").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list messages")
	}
	return messages, nil
}

func (r *messageRepo) LastInConversation(conversationID uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Preload("Sender").
		Preload("SeenBy").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch last message")
	}
	return &msg, nil
}

// MarkSeen appends the user to the message's seen-set. The conflict clause
// makes a repeat mark a no-op, so concurrent marks cannot trip over the join
// table's primary key; the set never shrinks.
func (r *messageRepo) MarkSeen(messageID uuid.UUID, userID uint) error {
	err := r.DB.Exec("INSERT INTO message_seen (message_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		messageID, userID).Error
	if err != nil {
		return errors.Wrap(err, "could not mark message seen")
	}
	return nil
}

func (r *messageRepo) UpdateConversationLastMessage(conversationID uuid.UUID, at time.Time) error {
	return r.DB.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at).Error
}
