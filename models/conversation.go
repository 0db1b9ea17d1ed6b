package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is either a direct chat (two participants, no name) or a
// group chat (named, three or more participants).
//
// PairKey is set only for direct conversations: "<minID>:<maxID>" of the two
// participant IDs. The unique index on it is what prevents two concurrent
// requests from creating duplicate direct conversations between the same pair.
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `json:"name,omitempty"`
	IsGroup       bool       `json:"is_group"`
	PairKey       *string    `gorm:"uniqueIndex" json:"-"`
	Participants  []User     `gorm:"many2many:conversation_participants;" json:"participants"`
	Messages      []Message  `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateConversationRequest struct {
	UserID  uint   `json:"userId"`
	IsGroup bool   `json:"isGroup"`
	Members []uint `json:"members"`
	Name    string `json:"name"`
}

type DeleteConversationResponse struct {
	Count int64 `json:"count"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DirectPairKey builds the order-independent dedup key for a direct
// conversation between two users.
func DirectPairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// HasParticipant reports whether the given user is a member of the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	for _, u := range c.Participants {
		if u.ID == userID {
			return true
		}
	}
	return false
}
