package chathub

import (
	"encoding/json"
	"log"

	"github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"
)

// StartPubSubListener starts the goroutine that feeds bus events into the
// hub loop. Every instance subscribes to the same channel, so an event
// published anywhere is delivered by each instance to its own connections.
func (m *ManagerService) StartPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeEvents()
		if pubsub == nil {
			log.Println("WARNING: Event bus subscription unavailable; cross-instance delivery disabled")
			return
		}
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var evt models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("ERROR: Failed to decode bus event: %v", err)
				continue
			}
			m.PubSubCh <- evt
		}
	}()
}
