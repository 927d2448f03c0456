package storage

import (
	"errors"
	"log"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

	"gorm.io/gorm"
)

// FindOrCreateConversation resolves the single conversation for an unordered
// user pair, creating it together with its two membership rows when none
// exists yet. The unique index on pair_key closes the create race: when two
// calls collide, one insert fails and falls back to reading the winner's row,
// so repeated calls always converge on the same conversation id.
func (s *Service) FindOrCreateConversation(userA, userB string) (*models.Conversation, error) {
	if userA == userB {
		return nil, errors.New("a conversation needs two distinct users")
	}

	key := models.ConversationPairKey(userA, userB)

	var conv models.Conversation
	err := s.DB.Where("pair_key = ?", key).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("ERROR: Failed to look up conversation for pair %s: %v", key, err)
		return nil, err
	}

	conv = models.Conversation{PairKey: key}
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		members := []models.ConversationMember{
			{ConversationID: conv.ID, UserID: userA},
			{ConversationID: conv.ID, UserID: userB},
		}
		return tx.Create(&members).Error
	})
	if txErr != nil {
		// Most likely the pair_key unique constraint fired because a
		// concurrent call created the conversation first. Re-read it.
		var existing models.Conversation
		if err := s.DB.Where("pair_key = ?", key).First(&existing).Error; err == nil {
			return &existing, nil
		}
		log.Printf("ERROR: Failed to create conversation for pair %s: %v", key, txErr)
		return nil, txErr
	}

	return &conv, nil
}

// GetConversationByID returns a conversation with its membership rows preloaded.
func (s *Service) GetConversationByID(id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.Preload("Members").Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("conversation not found")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get conversation %s: %v", id, err)
		return nil, err
	}
	return &conv, nil
}

// GetConversationsForUser lists every conversation the user is a member of,
// newest first.
func (s *Service) GetConversationsForUser(userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.DB.Preload("Members").
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id").
		Where("cm.user_id = ?", userID).
		Order("conversations.created_at desc").
		Find(&convs).Error
	if err != nil {
		log.Printf("ERROR: Failed to list conversations for user %s: %v", userID, err)
		return nil, err
	}
	return convs, nil
}

// GetConversationMemberIDs returns the user ids of both members.
func (s *Service) GetConversationMemberIDs(conversationID string) ([]string, error) {
	var ids []string
	err := s.DB.Model(&models.ConversationMember{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &ids).Error
	if err != nil {
		log.Printf("ERROR: Failed to get members of conversation %s: %v", conversationID, err)
		return nil, err
	}
	return ids, nil
}

// IsConversationMember reports whether the user has a membership row.
func (s *Service) IsConversationMember(conversationID, userID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
