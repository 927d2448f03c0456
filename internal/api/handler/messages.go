package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// SendMessage is the request/response mirror of the socket's message:send.
// It validates and persists exactly the same way, returns the persisted
// record synchronously, and does not broadcast.
func (h *Handler) SendMessage(c *gin.Context) {
	me := currentUserID(c)
	convID := c.Param("id")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if convID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id is required"})
		return
	}

	member, err := h.Storage.IsConversationMember(convID, me)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this conversation"})
		return
	}

	msg := &models.Message{
		ConversationID: convID,
		SenderID:       me,
		Content:        req.Content,
		Type:           req.Type,
	}
	if err := h.Storage.SaveMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkMessageSeen is the REST mirror of the socket's message:seen. Unlike
// SendMessage it does publish the receipt, so live members see the state
// change regardless of which path recorded it.
func (h *Handler) MarkMessageSeen(c *gin.Context) {
	me := currentUserID(c)

	messageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || messageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	msg, updated, err := h.Storage.MarkMessageSeen(uint(messageID), me)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message status"})
		return
	}

	// A no-op update (repeat call, or no status row for this user) gets no
	// receipt broadcast.
	if updated {
		err = h.Storage.PublishEvent(models.Event{
			Type:           models.EventMessageSeen,
			UserID:         me,
			MessageID:      uint(messageID),
			ConversationID: msg.ConversationID,
		})
		if err != nil {
			log.Printf("ERROR: Failed to publish message:seen for message %d: %v", messageID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message_id": messageID, "status": models.StatusSeen})
}
