// Package telegram integrates the Telegram Bot API as an offline delivery
// channel: when a notification is emitted for a user with no live connection
// on any instance, the bridge pushes it to the user's linked Telegram chat.
package telegram

import (
	"fmt"
	"log"
	"strings"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"
	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bridge owns the bot connection and the link between platform users and
// Telegram chats.
type Bridge struct {
	BotAPI  *tgbotapi.BotAPI
	Storage storage.Storage
}

// NewBridge authorizes the bot with the given token.
func NewBridge(token string, s storage.Storage) (*Bridge, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	bot.Debug = false
	log.Printf("Authorized on Telegram account %s", bot.Self.UserName)

	return &Bridge{BotAPI: bot, Storage: s}, nil
}

// Deliver pushes one notification to the user's linked chat. A user without
// a link is skipped silently; the durable record already covers them.
func (b *Bridge) Deliver(userID string, n *models.Notification) error {
	user, err := b.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.TelegramChatID == 0 {
		return nil
	}

	text := n.Content
	if text == "" {
		text = fmt.Sprintf("You have a new %s notification", n.Type)
	}

	_, err = b.BotAPI.Send(tgbotapi.NewMessage(user.TelegramChatID, text))
	return err
}

// Run processes bot updates. The only commands are /link <user_id> and
// /unlink, which attach or detach the chat as the user's offline channel.
func (b *Bridge) Run() {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	for update := range b.BotAPI.GetUpdatesChan(updateConfig) {
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
}

func (b *Bridge) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch {
	case strings.HasPrefix(msg.Text, "/link "):
		userID := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/link "))
		if err := b.linkChat(userID, chatID); err != nil {
			log.Printf("ERROR: Failed to link chat %d to user %s: %v", chatID, userID, err)
			b.reply(chatID, "Could not link this chat. Check the user id and try again.")
			return
		}
		b.reply(chatID, "Linked. You will receive notifications here while you are offline.")

	case msg.Text == "/unlink":
		if err := b.unlinkChat(chatID); err != nil {
			log.Printf("ERROR: Failed to unlink chat %d: %v", chatID, err)
			b.reply(chatID, "Could not unlink this chat.")
			return
		}
		b.reply(chatID, "Unlinked. No more notifications will be sent here.")

	default:
		b.reply(chatID, "Commands: /link <user_id>, /unlink")
	}
}

func (b *Bridge) linkChat(userID string, chatID int64) error {
	user, err := b.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.TelegramChatID = chatID
	return b.Storage.SaveUser(user)
}

func (b *Bridge) unlinkChat(chatID int64) error {
	user, err := b.Storage.GetUserByTelegramChatID(chatID)
	if err != nil {
		return err
	}
	user.TelegramChatID = 0
	return b.Storage.SaveUser(user)
}

func (b *Bridge) reply(chatID int64, text string) {
	if _, err := b.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Failed to send Telegram reply to chat %d: %v", chatID, err)
	}
}
