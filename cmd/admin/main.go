package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "online":
		ids, err := storageSvc.GetOnlineUserIDs()
		if err != nil {
			log.Fatalf("Error listing online users: %v", err)
		}
		if len(ids) == 0 {
			fmt.Println("No users online.")
			return
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	case "notify":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin notify <user_id> <text>")
			os.Exit(1)
		}
		userID := os.Args[2]
		text := strings.Join(os.Args[3:], " ")
		if err := notifyUser(storageSvc, userID, text); err != nil {
			log.Fatalf("Error sending notification: %v", err)
		}
		fmt.Printf("Notification sent to %s.\n", userID)
	case "backfill-statuses":
		n, err := storageSvc.BackfillMessageStatuses()
		if err != nil {
			log.Fatalf("Error backfilling message statuses: %v", err)
		}
		fmt.Printf("Created %d missing status rows.\n", n)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// notifyUser persists a system notification and emits it on the event bus,
// same write-then-notify order as the service itself.
func notifyUser(s storage.Storage, userID, text string) error {
	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeSystem,
		Content: text,
	}
	if err := s.SaveNotification(n); err != nil {
		return err
	}
	return s.PublishEvent(models.Event{
		Type:         models.EventNotification,
		UserID:       userID,
		Notification: n,
	})
}
