package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// User is the slice of the platform's user record that the realtime core needs.
// Profile data (name, avatar, friends) lives in the main CRUD services; here we
// only keep delivery-related state.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex" json:"username"`

	// TelegramChatID, when non-zero, is the linked Telegram chat used as an
	// offline delivery channel for notifications.
	TelegramChatID int64 `gorm:"index" json:"-"`

	// MutedConversationIDs holds conversations the user silenced. Message
	// notifications for these are persisted but never pushed.
	MutedConversationIDs pq.StringArray `gorm:"type:text[]" json:"-"`
}

// BeforeCreate is a GORM hook which generates a new UUID for the user
// if the ID is not already set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
