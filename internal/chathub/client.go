package chathub

import "github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

// Client is the interface for one live connection, whatever the transport.
// It abstracts the underlying communication mechanism, allowing the hub to
// manage different client types uniformly.
type Client interface {
	// GetUserID returns the verified user id the connection belongs to.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes outbound events to.
	// It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's outbound channel. Safe to call more
	// than once.
	Close()
}

// Inbound pairs a client-originated event with the connection it came from,
// so the hub can answer with an ack on the same connection.
type Inbound struct {
	Client Client
	Event  models.Event
}
