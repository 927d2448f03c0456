package models

// Event types carried over the socket and the redis event bus.
const (
	// client -> server
	EventTyping            = "typing"
	EventMessageSend       = "message:send"
	EventMessageSeen       = "message:seen"
	EventConversationJoin  = "conversation:join"
	EventConversationLeave = "conversation:leave"

	// server -> clients
	EventUserOnline   = "user:online"
	EventUserOffline  = "user:offline"
	EventMessageNew   = "message:new"
	EventNotification = "notification"
	EventAck          = "ack"
)

// Event is the single JSON envelope used in both directions on the socket and
// as the payload on the redis bus. Fields are populated per event type.
type Event struct {
	Type string `json:"type"`
	// Ref is an opaque client correlation id; the ack for a client-initiated
	// event echoes it back.
	Ref            string `json:"ref,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	MessageID      uint   `json:"message_id,omitempty"`
	Content        string `json:"content,omitempty"`
	ContentType    string `json:"content_type,omitempty"`

	Message      *Message      `json:"message,omitempty"`
	Notification *Notification `json:"notification,omitempty"`

	// Recipients carries the member user ids of the conversation a
	// message:new event belongs to, so every instance can address the
	// per-user groups without a storage round-trip.
	Recipients []string `json:"recipients,omitempty"`

	// Ack fields.
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}
