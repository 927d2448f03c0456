package chathub

import (
	"errors"
	"log"
	"time"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/config"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/storage"
)

// ManagerService is the realtime hub. It is the exclusive owner of the
// connection registry and the subscriber groups; all mutation happens inside
// the single Run goroutine, fed over channels, so no locking is needed.
type ManagerService struct {
	// Clients maps user id -> most recent connection. Last connection wins:
	// a second connection from the same user overwrites the entry, and any
	// disconnect for that user clears it.
	Clients map[string]Client

	// userGroups maps user id -> every live connection for that user. This
	// is the addressing mechanism for notification push and, unlike
	// Clients, holds all simultaneous connections.
	userGroups map[string]map[Client]bool

	// convGroups maps conversation id -> connections that joined it.
	// Message and typing traffic is scoped to these groups.
	convGroups map[string]map[Client]bool

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan Inbound
	PubSubCh     chan models.Event

	Storage storage.Storage
}

// NewManagerService creates the hub around a storage backend.
func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		userGroups:   make(map[string]map[Client]bool),
		convGroups:   make(map[string]map[Client]bool),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan Inbound),
		PubSubCh:     make(chan models.Event),
		Storage:      s,
	}
}

// Run is the hub's main dispatch loop. Everything that touches the registry
// or the groups runs here.
func (m *ManagerService) Run() {
	m.StartPubSubListener()

	ticker := time.NewTicker(config.PresenceRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-m.RegisterCh:
			m.handleRegister(client)
		case client := <-m.UnregisterCh:
			m.handleUnregister(client)
		case in := <-m.IncomingCh:
			m.handleIncoming(in)
		case evt := <-m.PubSubCh:
			m.dispatch(evt)
		case <-ticker.C:
			m.refreshPresence()
		}
	}
}

// EmitNotification pushes a notification onto the event bus for every live
// connection of the user. The durable record must already exist; this is the
// best-effort realtime layer on top of it.
func (m *ManagerService) EmitNotification(userID string, n *models.Notification) error {
	return m.Storage.PublishEvent(models.Event{
		Type:         models.EventNotification,
		UserID:       userID,
		Notification: n,
	})
}

func (m *ManagerService) handleRegister(client Client) {
	userID := client.GetUserID()
	if userID == "" {
		// No identity, no presence and no groups. The connection stays
		// functionally inert.
		log.Println("WARNING: Ignoring connection without a user id")
		return
	}

	m.Clients[userID] = client
	if m.userGroups[userID] == nil {
		m.userGroups[userID] = make(map[Client]bool)
	}
	m.userGroups[userID][client] = true

	if err := m.Storage.SetUserOnline(userID); err != nil {
		log.Printf("ERROR: Failed to record presence for user %s: %v", userID, err)
	}
	if err := m.Storage.PublishEvent(models.Event{Type: models.EventUserOnline, UserID: userID}); err != nil {
		log.Printf("ERROR: Failed to publish user:online for %s: %v", userID, err)
	}
	log.Printf("Client registered for user %s", userID)
}

func (m *ManagerService) handleUnregister(client Client) {
	userID := client.GetUserID()
	if userID == "" || !m.userGroups[userID][client] {
		return // never registered, or already unregistered
	}

	// Last connection's disconnect always clears the registry slot, even if
	// an older connection for the same user is still open.
	delete(m.Clients, userID)

	delete(m.userGroups[userID], client)
	if len(m.userGroups[userID]) == 0 {
		delete(m.userGroups, userID)
	}
	for convID, group := range m.convGroups {
		delete(group, client)
		if len(group) == 0 {
			delete(m.convGroups, convID)
		}
	}
	client.Close()

	if err := m.Storage.SetUserOffline(userID); err != nil {
		log.Printf("ERROR: Failed to clear presence for user %s: %v", userID, err)
	}
	if err := m.Storage.PublishEvent(models.Event{Type: models.EventUserOffline, UserID: userID}); err != nil {
		log.Printf("ERROR: Failed to publish user:offline for %s: %v", userID, err)
	}
	log.Printf("Client unregistered for user %s", userID)
}

func (m *ManagerService) handleIncoming(in Inbound) {
	switch in.Event.Type {
	case models.EventConversationJoin:
		m.joinConversation(in.Client, in.Event.ConversationID)
	case models.EventConversationLeave:
		m.leaveConversation(in.Client, in.Event.ConversationID)
	case models.EventTyping:
		m.handleTyping(in.Event)
	case models.EventMessageSend:
		m.handleSend(in.Client, in.Event)
	case models.EventMessageSeen:
		m.handleSeen(in.Client, in.Event)
	default:
		log.Printf("WARNING: Unknown event type %q from user %s", in.Event.Type, in.Client.GetUserID())
	}
}

// joinConversation subscribes the connection to a conversation group after a
// membership check, so broadcasts stay scoped to actual members.
func (m *ManagerService) joinConversation(client Client, convID string) {
	if convID == "" {
		return
	}
	ok, err := m.Storage.IsConversationMember(convID, client.GetUserID())
	if err != nil {
		log.Printf("ERROR: Membership check failed for conversation %s: %v", convID, err)
		return
	}
	if !ok {
		log.Printf("WARNING: User %s tried to join conversation %s without membership", client.GetUserID(), convID)
		return
	}
	if m.convGroups[convID] == nil {
		m.convGroups[convID] = make(map[Client]bool)
	}
	m.convGroups[convID][client] = true
}

func (m *ManagerService) leaveConversation(client Client, convID string) {
	if group := m.convGroups[convID]; group != nil {
		delete(group, client)
		if len(group) == 0 {
			delete(m.convGroups, convID)
		}
	}
}

// handleTyping relays a typing indicator to the conversation group. Nothing
// is persisted; delivery is best-effort and last-write-wins on the client UI.
func (m *ManagerService) handleTyping(evt models.Event) {
	if evt.ConversationID == "" {
		return
	}
	err := m.Storage.PublishEvent(models.Event{
		Type:           models.EventTyping,
		UserID:         evt.UserID,
		ConversationID: evt.ConversationID,
	})
	if err != nil {
		log.Printf("ERROR: Failed to publish typing event: %v", err)
	}
}

// handleSend persists the message, then broadcasts it. The order is strict:
// a message:new event is only ever published for a committed row.
func (m *ManagerService) handleSend(client Client, evt models.Event) {
	if evt.ConversationID == "" || evt.Content == "" {
		m.ack(client, evt.Ref, nil, errors.New("conversation_id and content are required"))
		return
	}

	msg := &models.Message{
		ConversationID: evt.ConversationID,
		SenderID:       evt.UserID,
		Content:        evt.Content,
		Type:           evt.ContentType,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		m.ack(client, evt.Ref, nil, errors.New("failed to save message"))
		return
	}

	recipients, err := m.Storage.GetConversationMemberIDs(evt.ConversationID)
	if err != nil {
		// The row is committed; fall back to the conversation group only.
		recipients = nil
	}
	err = m.Storage.PublishEvent(models.Event{
		Type:           models.EventMessageNew,
		UserID:         evt.UserID,
		ConversationID: evt.ConversationID,
		Message:        msg,
		Recipients:     recipients,
	})
	if err != nil {
		log.Printf("ERROR: Failed to publish message:new for conversation %s: %v", evt.ConversationID, err)
	}

	m.ack(client, evt.Ref, msg, nil)
}

// handleSeen records the read receipt and broadcasts it to the conversation.
func (m *ManagerService) handleSeen(client Client, evt models.Event) {
	if evt.MessageID == 0 {
		m.ack(client, evt.Ref, nil, errors.New("message_id is required"))
		return
	}

	msg, updated, err := m.Storage.MarkMessageSeen(evt.MessageID, evt.UserID)
	if err != nil {
		m.ack(client, evt.Ref, nil, errors.New("failed to update message status"))
		return
	}

	// No status row changed (repeat, or the sender marking their own
	// message): ack the no-op without broadcasting a receipt.
	if updated {
		err = m.Storage.PublishEvent(models.Event{
			Type:           models.EventMessageSeen,
			UserID:         evt.UserID,
			MessageID:      evt.MessageID,
			ConversationID: msg.ConversationID,
		})
		if err != nil {
			log.Printf("ERROR: Failed to publish message:seen for message %d: %v", evt.MessageID, err)
		}
	}

	m.ack(client, evt.Ref, nil, nil)
}

// dispatch delivers a bus event to the local connections it addresses.
func (m *ManagerService) dispatch(evt models.Event) {
	switch evt.Type {
	case models.EventUserOnline, models.EventUserOffline:
		// Presence goes to everyone except the user it is about.
		for userID, group := range m.userGroups {
			if userID == evt.UserID {
				continue
			}
			for client := range group {
				m.deliver(client, evt)
			}
		}

	case models.EventTyping, models.EventMessageSeen:
		for client := range m.convGroups[evt.ConversationID] {
			if client.GetUserID() == evt.UserID {
				continue
			}
			m.deliver(client, evt)
		}

	case models.EventMessageNew:
		// Conversation group first, then the members' user groups so a
		// member who has not opened the conversation still hears about it.
		delivered := make(map[Client]bool)
		for client := range m.convGroups[evt.ConversationID] {
			delivered[client] = true
			m.deliver(client, evt)
		}
		for _, userID := range evt.Recipients {
			for client := range m.userGroups[userID] {
				if delivered[client] {
					continue
				}
				m.deliver(client, evt)
			}
		}

	case models.EventNotification:
		for client := range m.userGroups[evt.UserID] {
			m.deliver(client, evt)
		}
	}
}

// deliver writes an event to one client without ever blocking the loop.
// A client whose buffer is full is dropped, like any other dead connection.
func (m *ManagerService) deliver(client Client, evt models.Event) {
	if !m.userGroups[client.GetUserID()][client] {
		return // unregistered, its channel may already be closed
	}
	select {
	case client.GetSendChannel() <- evt:
	default:
		log.Printf("WARNING: Dropping slow client for user %s", client.GetUserID())
		m.handleUnregister(client)
	}
}

func (m *ManagerService) ack(client Client, ref string, msg *models.Message, err error) {
	evt := models.Event{Type: models.EventAck, Ref: ref, OK: err == nil, Message: msg}
	if err != nil {
		evt.Error = err.Error()
	}
	m.deliver(client, evt)
}

// refreshPresence re-arms the redis TTL for every locally connected user.
func (m *ManagerService) refreshPresence() {
	for userID := range m.userGroups {
		if err := m.Storage.RefreshPresence(userID); err != nil {
			log.Printf("ERROR: Failed to refresh presence for user %s: %v", userID, err)
		}
	}
}
