package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/config"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

	"github.com/redis/go-redis/v9"
)

// Presence lives in redis so it is visible across instances. Keys carry a TTL
// and are refreshed while the connection stays alive; a crashed instance's
// users therefore expire on their own instead of sticking online forever.

func presenceKey(userID string) string {
	return config.PresenceKeyPrefix + userID
}

// SetUserOnline writes the presence key with the configured TTL.
func (s *Service) SetUserOnline(userID string) error {
	return s.Redis.Set(s.Ctx, presenceKey(userID), time.Now().UTC().Format(time.RFC3339), config.PresenceTTL).Err()
}

// SetUserOffline removes the presence key unconditionally.
func (s *Service) SetUserOffline(userID string) error {
	return s.Redis.Del(s.Ctx, presenceKey(userID)).Err()
}

// RefreshPresence re-arms the TTL for a user that is still connected.
func (s *Service) RefreshPresence(userID string) error {
	return s.SetUserOnline(userID)
}

// IsUserOnline reports whether any instance currently tracks a connection
// for this user.
func (s *Service) IsUserOnline(userID string) (bool, error) {
	n, err := s.Redis.Exists(s.Ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetOnlineUserIDs lists every user with a live presence key.
func (s *Service) GetOnlineUserIDs() ([]string, error) {
	keys, err := s.Redis.Keys(s.Ctx, config.PresenceKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, config.PresenceKeyPrefix))
	}
	return ids, nil
}

// PublishEvent puts a realtime event on the shared bus. Every instance's
// subscriber picks it up and delivers to its local connections.
func (s *Service) PublishEvent(evt models.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.EventsChannel, string(payload)).Err()
}

// SubscribeEvents subscribes to the realtime event bus.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.EventsChannel)
}
