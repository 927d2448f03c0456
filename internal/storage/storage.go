package storage

import (
	"context"
	"errors"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Storage interface {
	// Users
	GetUserByID(id string) (*models.User, error)
	GetUserByTelegramChatID(chatID int64) (*models.User, error)
	SaveUser(user *models.User) error

	// Conversations
	FindOrCreateConversation(userA, userB string) (*models.Conversation, error)
	GetConversationByID(id string) (*models.Conversation, error)
	GetConversationsForUser(userID string) ([]models.Conversation, error)
	GetConversationMemberIDs(conversationID string) ([]string, error)
	IsConversationMember(conversationID, userID string) (bool, error)

	// Messages
	SaveMessage(msg *models.Message) error
	GetConversationMessages(conversationID string, limit, offset int) ([]models.Message, error)
	MarkMessageSeen(messageID uint, userID string) (*models.Message, bool, error)

	// Notifications
	SaveNotification(n *models.Notification) error
	GetNotificationsForUser(userID string, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(id uint, userID string) error

	// Presence (shared across instances via redis)
	SetUserOnline(userID string) error
	SetUserOffline(userID string) error
	RefreshPresence(userID string) error
	IsUserOnline(userID string) (bool, error)
	GetOnlineUserIDs() ([]string, error)

	// Event bus
	PublishEvent(evt models.Event) error
	SubscribeEvents() *redis.PubSub
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// GetUserByID loads a user row from PostgreSQL.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByTelegramChatID finds the user a Telegram chat is linked to.
func (s *Service) GetUserByTelegramChatID(chatID int64) (*models.User, error) {
	var user models.User
	err := s.DB.Where("telegram_chat_id = ?", chatID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("no user linked to this chat")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser upserts a user row in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}
