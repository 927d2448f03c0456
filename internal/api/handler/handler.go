package handler

import (
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/chathub"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/storage"
)

// OfflineNotifier is an optional fallback delivery channel used when a
// notification is emitted for a user with no live connection anywhere.
type OfflineNotifier interface {
	Deliver(userID string, n *models.Notification) error
}

// Handler owns the HTTP surface: the websocket upgrade and the REST mirror
// of the realtime operations.
type Handler struct {
	Hub       *chathub.ManagerService
	Storage   storage.Storage
	JWTSecret []byte
	// Offline may be nil; then undeliverable notifications stay pull-only.
	Offline OfflineNotifier
}

func NewHandler(hub *chathub.ManagerService, s storage.Storage, jwtSecret []byte, offline OfflineNotifier) *Handler {
	return &Handler{Hub: hub, Storage: s, JWTSecret: jwtSecret, Offline: offline}
}
