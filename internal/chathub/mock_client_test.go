package chathub_test

import "github.com/meymunahao/GroupM-CSC419Project-sub000/internal/models"

// mockClient is an in-memory chathub.Client; delivered events pile up in
// RecvChannel where tests can inspect them.
type mockClient struct {
	userID      string
	RecvChannel chan models.Event
	closed      bool
}

func newMockClient(userID string) *mockClient {
	return &mockClient{
		userID:      userID,
		RecvChannel: make(chan models.Event, 16),
	}
}

func (c *mockClient) GetUserID() string                   { return c.userID }
func (c *mockClient) GetSendChannel() chan<- models.Event { return c.RecvChannel }
func (c *mockClient) Run()                                {}

func (c *mockClient) Close() {
	if !c.closed {
		c.closed = true
		close(c.RecvChannel)
	}
}
