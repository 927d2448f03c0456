package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type resolveConversationRequest struct {
	UserID string `json:"user_id"`
}

// ResolveConversation finds or creates the 1:1 conversation between the
// caller and the given user. Idempotent: the same pair always resolves to
// the same conversation.
func (h *Handler) ResolveConversation(c *gin.Context) {
	me := currentUserID(c)

	var req resolveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if req.UserID == me {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot start a conversation with yourself"})
		return
	}

	conv, err := h.Storage.FindOrCreateConversation(me, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve conversation"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListConversations returns the caller's conversations, newest first.
func (h *Handler) ListConversations(c *gin.Context) {
	convs, err := h.Storage.GetConversationsForUser(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, convs)
}

// ListMessages pages through a conversation's history. Membership is checked
// so users cannot read threads they are not part of.
func (h *Handler) ListMessages(c *gin.Context) {
	me := currentUserID(c)
	convID := c.Param("id")

	member, err := h.Storage.IsConversationMember(convID, me)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this conversation"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.Storage.GetConversationMessages(convID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}
