package storage

import (
	"errors"
	"log"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/config"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

	"gorm.io/gorm"
)

// SaveMessage persists a message and creates one "sent" status row per member
// other than the sender, all in a single transaction. The message ID and
// created timestamp are filled in by GORM on the way out.
func (s *Service) SaveMessage(msg *models.Message) error {
	if msg.Type == "" {
		msg.Type = models.MessageTypeText
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		var recipientIDs []string
		if err := tx.Model(&models.ConversationMember{}).
			Where("conversation_id = ? AND user_id <> ?", msg.ConversationID, msg.SenderID).
			Pluck("user_id", &recipientIDs).Error; err != nil {
			return err
		}
		if len(recipientIDs) == 0 {
			return nil
		}

		statuses := make([]models.MessageStatus, 0, len(recipientIDs))
		for _, uid := range recipientIDs {
			statuses = append(statuses, models.MessageStatus{
				MessageID: msg.ID,
				UserID:    uid,
				Status:    models.StatusSent,
			})
		}
		return tx.Create(&statuses).Error
	})
	if err != nil {
		log.Printf("ERROR: Failed to save message for conversation %s: %v", msg.ConversationID, err)
		return err
	}
	return nil
}

// GetConversationMessages loads a page of message history in creation order.
func (s *Service) GetConversationMessages(conversationID string, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > config.MaxHistoryLimit {
		limit = config.DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	var messages []models.Message
	err := s.DB.Preload("Statuses").
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for conversation %s: %v", conversationID, err)
		return nil, err
	}
	return messages, nil
}

// MarkMessageSeen flips the (message, user) status row from sent to seen and
// returns the message so callers can scope the broadcast. The WHERE on the
// current status keeps the transition forward-only; a repeat call, or a call
// by a user with no status row (the sender), matches nothing and reports
// updated=false so callers skip the receipt broadcast.
func (s *Service) MarkMessageSeen(messageID uint, userID string) (*models.Message, bool, error) {
	var msg models.Message
	err := s.DB.First(&msg, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, errors.New("message not found")
	}
	if err != nil {
		return nil, false, err
	}

	res := s.DB.Model(&models.MessageStatus{}).
		Where("message_id = ? AND user_id = ? AND status = ?", messageID, userID, models.StatusSent).
		Update("status", models.StatusSeen)
	if res.Error != nil {
		log.Printf("ERROR: Failed to mark message %d seen by %s: %v", messageID, userID, res.Error)
		return nil, false, res.Error
	}
	return &msg, res.RowsAffected > 0, nil
}

// BackfillMessageStatuses inserts missing "sent" status rows for messages that
// predate the status table. Used by the admin CLI only.
func (s *Service) BackfillMessageStatuses() (int64, error) {
	rawSQL := `
        INSERT INTO message_statuses (message_id, user_id, status, updated_at)
        SELECT m.id, cm.user_id, 'sent', NOW()
        FROM messages m
        JOIN conversation_members cm
            ON cm.conversation_id = m.conversation_id AND cm.user_id <> m.sender_id
        WHERE NOT EXISTS (
            SELECT 1 FROM message_statuses ms
            WHERE ms.message_id = m.id AND ms.user_id = cm.user_id
        )
    `
	res := s.DB.Exec(rawSQL)
	if res.Error != nil {
		log.Printf("ERROR: Status backfill failed: %v", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
