package events

import "context"

// EventPublisher defines the interface for sending and receiving events.
// This interface allows for loose coupling and easier testing by depending
// on behavior rather than concrete implementation.
type EventPublisher interface {
	// Connect verifies the broker is reachable and starts batching
	Connect(ctx context.Context) error

	// SendEvent queues an event to be published
	SendEvent(event Event) error

	// Listen starts receiving events for the current subscription
	Listen(ctx context.Context) (<-chan Event, error)

	// Subscribe changes the subscription to a specific board ("" for all boards)
	Subscribe(boardID string) error

	// Close stops all goroutines after flushing queued events
	Close() error
}

// Compile-time verification that *Client implements EventPublisher
var _ EventPublisher = (*Client)(nil)
