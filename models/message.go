package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message belongs to exactly one conversation and always has a sender.
// SeenBy is append-only: users are added as they read, never removed.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uint      `gorm:"not null" json:"sender_id"`
	Sender         User      `gorm:"foreignKey:SenderID" json:"sender"`
	Body           string    `json:"body,omitempty"`
	ImageURL       string    `json:"image,omitempty"`
	SeenBy         []User    `gorm:"many2many:message_seen;" json:"seen"`
	CreatedAt      time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type SendMessageRequest struct {
	ConversationID uuid.UUID `json:"conversationId" binding:"required"`
	Body           string    `json:"message"`
	ImageURL       string    `json:"image"`
}

// DeviceToken stores a user's push registration for message notifications.
type DeviceToken struct {
	Model
	UserID uint   `gorm:"index" json:"user_id"`
	Token  string `gorm:"uniqueIndex" json:"token"`
}
