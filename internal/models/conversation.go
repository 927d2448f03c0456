package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation represents a 1:1 chat thread between exactly two users.
// Group chat uses an unrelated Group entity in the main platform; this core
// is strictly pairwise.
type Conversation struct {
	// ID is the unique identifier for the conversation (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// PairKey is the canonical "min:max" encoding of the two member IDs.
	// The unique index on it is what makes find-or-create race-safe: two
	// concurrent creations for the same pair collide here and the loser
	// re-reads the winner's row.
	PairKey   string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Members []ConversationMember `gorm:"foreignKey:ConversationID" json:"members,omitempty"`
}

// ConversationMember is one membership row; every conversation has exactly two.
type ConversationMember struct {
	ConversationID string    `gorm:"primaryKey" json:"conversation_id"`
	UserID         string    `gorm:"primaryKey;index" json:"user_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// ConversationPairKey canonicalizes an unordered user-id pair into the
// order-independent key stored on the conversation row.
func ConversationPairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// BeforeCreate generates the conversation UUID if the ID is not already set.
func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
