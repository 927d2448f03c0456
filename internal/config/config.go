package config

import "time"

const (
	// WebSocket
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096
	SendBufferSize = 256

	// Presence
	// PresenceTTL must outlive one refresh interval so a live connection
	// never flickers offline between refreshes.
	PresenceTTL             = 90 * time.Second
	PresenceRefreshInterval = 30 * time.Second
	PresenceKeyPrefix       = "presence:"

	// Event bus
	EventsChannel = "realtime:events"

	// History listing
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)
