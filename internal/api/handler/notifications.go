package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

type emitNotificationRequest struct {
	UserID   string `json:"user_id"`
	ActorID  string `json:"actor_id"`
	Type     string `json:"type"`
	EntityID string `json:"entity_id"`
	Content  string `json:"content"`
}

// EmitNotification is the collaborator-facing entry point of the fan-out
// channel: post/comment/follow services call it after their own writes.
// The durable record is created first; the realtime emit on top of it is
// best-effort and its failure never fails the request.
func (h *Handler) EmitNotification(c *gin.Context) {
	var req emitNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and type are required"})
		return
	}

	n := &models.Notification{
		UserID:   req.UserID,
		ActorID:  req.ActorID,
		Type:     req.Type,
		EntityID: req.EntityID,
		Content:  req.Content,
	}
	if err := h.Storage.SaveNotification(n); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save notification"})
		return
	}

	if h.isMuted(req.UserID, n) {
		c.JSON(http.StatusCreated, n)
		return
	}

	if err := h.Hub.EmitNotification(req.UserID, n); err != nil {
		log.Printf("ERROR: Failed to emit notification %d for user %s: %v", n.ID, req.UserID, err)
	}

	// When nobody is connected anywhere, try the linked offline channel.
	if h.Offline != nil {
		online, err := h.Storage.IsUserOnline(req.UserID)
		if err == nil && !online {
			if err := h.Offline.Deliver(req.UserID, n); err != nil {
				log.Printf("WARNING: Offline delivery failed for user %s: %v", req.UserID, err)
			}
		}
	}

	c.JSON(http.StatusCreated, n)
}

// isMuted suppresses message notifications for conversations the recipient
// silenced. The durable record is kept either way.
func (h *Handler) isMuted(userID string, n *models.Notification) bool {
	if n.Type != models.NotificationTypeMessage || n.EntityID == "" {
		return false
	}
	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		return false
	}
	for _, convID := range user.MutedConversationIDs {
		if convID == n.EntityID {
			return true
		}
	}
	return false
}

// ListNotifications is the pull-based listing backing the realtime channel.
func (h *Handler) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.Storage.GetNotificationsForUser(currentUserID(c), unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead acknowledges one notification for the caller.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.Storage.MarkNotificationRead(uint(id), currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_read": true})
}
