package models

import "time"

// Notification kinds emitted by the collaborating platform services.
const (
	NotificationTypeMessage = "message"
	NotificationTypeComment = "comment"
	NotificationTypeLike    = "like"
	NotificationTypeFollow  = "follow"
	NotificationTypeEvent   = "event"
	NotificationTypeSystem  = "system"
)

// Notification is the durable record behind the realtime push channel.
// The record is the system of record; the live emit on top of it is
// best-effort and may simply not happen when the user is offline.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// UserID is the recipient.
	UserID string `gorm:"not null;index" json:"user_id"`
	// ActorID is the user whose action produced the notification, if any.
	ActorID string `json:"actor_id,omitempty"`
	Type    string `gorm:"not null" json:"type"`
	// EntityID points at the subject entity (post, conversation, event).
	EntityID  string    `json:"entity_id,omitempty"`
	Content   string    `gorm:"type:text" json:"content"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
