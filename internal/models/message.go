package models

import "time"

// Message types understood by clients. Anything else is passed through as-is.
const (
	MessageTypeText  = "text"
	MessageTypeMedia = "media"
)

// Delivery status values for a MessageStatus row. Transitions are strictly
// forward: sent -> seen, never back.
const (
	StatusSent = "sent"
	StatusSeen = "seen"
)

// Message is a persisted chat message. Immutable once created; only the
// associated MessageStatus rows change afterwards.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"type:uuid;not null;index:idx_conv_msg" json:"conversation_id"`
	SenderID       string    `gorm:"type:text;not null;index:idx_conv_msg" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Type           string    `gorm:"type:text;not null" json:"type"`
	CreatedAt      time.Time `json:"created_at"`

	Statuses []MessageStatus `gorm:"foreignKey:MessageID" json:"statuses,omitempty"`
}

// MessageStatus tracks delivery state of one message for one recipient.
// A row is created as "sent" for every member other than the sender when the
// message is persisted, and flipped to "seen" on acknowledgement.
type MessageStatus struct {
	MessageID uint      `gorm:"primaryKey" json:"message_id"`
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	Status    string    `gorm:"not null" json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
