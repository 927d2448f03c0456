package storage

import (
	"log"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"
)

// SaveNotification creates the durable notification record. This always
// happens before any realtime emit; the row is the system of record.
func (s *Service) SaveNotification(n *models.Notification) error {
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to save notification for user %s: %v", n.UserID, err)
		return err
	}
	return nil
}

// GetNotificationsForUser lists a user's notifications, newest first.
func (s *Service) GetNotificationsForUser(userID string, unreadOnly bool) ([]models.Notification, error) {
	q := s.DB.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := q.Order("created_at desc").Find(&notifications).Error; err != nil {
		log.Printf("ERROR: Failed to list notifications for user %s: %v", userID, err)
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification read. The user id in the WHERE
// keeps users from acknowledging each other's notifications.
func (s *Service) MarkNotificationRead(id uint, userID string) error {
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}
