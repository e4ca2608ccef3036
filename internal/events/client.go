package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// publishTimeout bounds each flush to the broker
const publishTimeout = 5 * time.Second

// Client publishes board events to redis pub/sub and listens for events
// from other viewers. It handles batching, sequencing, and subscriptions.
type Client struct {
	broker broker
	mu     sync.Mutex

	// Batching configuration
	eventQueue chan Event
	debounce   time.Duration
	closed     bool // Prevent double-close panics
	connected  bool

	// Subscription state
	currentBoardID string
	sub            subscription

	// Event tracking
	lastSequence int64

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// Batching goroutine
	batcherDone chan struct{}
}

// NewClient creates a new event client on top of a redis client but does not connect.
// The debounce duration controls event batching (default 100ms, OPSBOARD_EVENT_DEBOUNCE_MS overrides).
func NewClient(rdb *redis.Client) (*Client, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newClient(&redisBroker{rdb: rdb}), nil
}

func newClient(b broker) *Client {
	debounceMs := 100
	if envVal := os.Getenv("OPSBOARD_EVENT_DEBOUNCE_MS"); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			debounceMs = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		broker:      b,
		eventQueue:  make(chan Event, 100),
		debounce:    time.Duration(debounceMs) * time.Millisecond,
		ctx:         ctx,
		cancel:      cancel,
		batcherDone: make(chan struct{}),
	}
}

// SetDebounce overrides the batching window. It must be called before Connect.
func (c *Client) SetDebounce(d time.Duration) {
	if d > 0 {
		c.debounce = d
	}
}

// Connect verifies the broker is reachable and starts the batching goroutine.
// Calling Connect again on a connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	if c.connected {
		return nil
	}

	if err := c.broker.Ping(ctx); err != nil {
		return ClassifyConnectionError(err)
	}

	c.connected = true
	go c.startBatcher()

	return nil
}

// SendEvent queues an event to be published.
// Events are flushed in bursts every debounce window.
// Returns ErrQueueFull if the queue is full (non-blocking send).
func (c *Client) SendEvent(event Event) error {
	if c == nil {
		return ErrNotConnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.eventQueue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// startBatcher runs in a goroutine and batches events from the queue.
// Queued events are published in arrival order once per debounce window.
func (c *Client) startBatcher() {
	defer close(c.batcherDone)

	ticker := time.NewTicker(c.debounce)
	defer ticker.Stop()

	var pending []Event

	flushPending := func() {
		for _, event := range pending {
			if err := c.publish(event); err != nil {
				if !isConnectionError(err) {
					slog.Warn("failed to publish batched event",
						"event_type", event.Type,
						"board_id", event.BoardID,
						"error", err)
				}
			}
		}
		pending = pending[:0]
	}

	for {
		select {
		case event, ok := <-c.eventQueue:
			if !ok {
				// Channel closed - flush and exit
				flushPending()
				return
			}
			pending = append(pending, event)

			// Drain anything else queued during this batch window
		drainLoop:
			for {
				select {
				case evt, ok := <-c.eventQueue:
					if !ok {
						flushPending()
						return
					}
					pending = append(pending, evt)
				default:
					break drainLoop
				}
			}

		case <-ticker.C:
			flushPending()
		}
	}
}

// publish stamps the event with the next global sequence id and sends it.
func (c *Client) publish(event Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	seq, err := c.broker.NextSequence(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate sequence id: %w", err)
	}
	event.SequenceID = seq

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return c.broker.Publish(ctx, Channel(event.BoardID), data)
}

// Listen starts receiving events for the current subscription.
// The channel is closed when ctx is done or the client is closed.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	if c == nil {
		closed := make(chan Event)
		close(closed)
		return closed, ErrNotConnected
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClientClosed
	}
	if !c.connected {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	if c.sub == nil {
		sub, err := c.broker.Subscribe(ctx, c.currentBoardID)
		if err != nil {
			c.mu.Unlock()
			return nil, ClassifyConnectionError(err)
		}
		c.sub = sub
	}
	c.mu.Unlock()

	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

var errSubscriptionClosed = errors.New("subscription closed")

// listenLoop follows the current subscription, switching over when Subscribe replaces it.
func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		c.mu.Lock()
		sub := c.sub
		closed := c.closed
		c.mu.Unlock()

		if closed || sub == nil {
			return
		}

		if err := c.readEvents(ctx, sub, eventChan); !errors.Is(err, errSubscriptionClosed) {
			return
		}

		c.mu.Lock()
		replaced := c.sub != sub
		c.mu.Unlock()
		if !replaced {
			return
		}
	}
}

// readEvents decodes messages from the subscription and forwards them in sequence order.
func (c *Client) readEvents(ctx context.Context, sub subscription, eventChan chan Event) error {
	messages := sub.Messages()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.ctx.Done():
			return ErrClientClosed
		case msg, ok := <-messages:
			if !ok {
				return errSubscriptionClosed
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.Debug("dropping undecodable event", "channel", msg.Channel, "error", err)
				continue
			}

			// Drop duplicates and events older than the last one delivered
			c.mu.Lock()
			if event.SequenceID <= c.lastSequence {
				c.mu.Unlock()
				continue
			}
			c.lastSequence = event.SequenceID
			c.mu.Unlock()

			select {
			case eventChan <- event:
			case <-ctx.Done():
				return ctx.Err()
			case <-c.ctx.Done():
				return ErrClientClosed
			}
		}
	}
}

// Subscribe changes the subscription to a specific board.
// An empty boardID subscribes to all boards.
func (c *Client) Subscribe(boardID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	c.currentBoardID = boardID

	// Not listening yet: Listen picks up the new board
	if c.sub == nil {
		return nil
	}

	sub, err := c.broker.Subscribe(c.ctx, boardID)
	if err != nil {
		return ClassifyConnectionError(err)
	}
	old := c.sub
	c.sub = sub
	if err := old.Close(); err != nil {
		slog.Debug("error closing previous subscription", "error", err)
	}
	return nil
}

// Close flushes queued events and stops all goroutines.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	// Close the event queue so the batcher flushes pending events before exiting
	close(c.eventQueue)
	started := c.connected
	c.mu.Unlock()

	if started {
		<-c.batcherDone
	}

	// Cancel context to stop listeners
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil {
		err := c.sub.Close()
		c.sub = nil
		return err
	}
	return nil
}
