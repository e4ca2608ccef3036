package events

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ============================================================================
// Test Helpers
// ============================================================================

type publishedMessage struct {
	channel string
	event   Event
}

// fakeBroker records publishes and hands out in-memory subscriptions
type fakeBroker struct {
	mu         sync.Mutex
	seq        int64
	published  []publishedMessage
	subs       []*fakeSubscription
	pingErr    error
	publishErr error
}

func (b *fakeBroker) Ping(ctx context.Context) error {
	return b.pingErr
}

func (b *fakeBroker) NextSequence(ctx context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	return b.seq, nil
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	var event Event
	if err := event.UnmarshalJSON(payload); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, publishedMessage{channel: channel, event: event})
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, boardID string) (subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &fakeSubscription{boardID: boardID, ch: make(chan *redis.Message, 10)}
	b.subs = append(b.subs, sub)
	return sub, nil
}

func (b *fakeBroker) publishedEvents() []publishedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]publishedMessage(nil), b.published...)
}

func (b *fakeBroker) subscription(i int) *fakeSubscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i >= len(b.subs) {
		return nil
	}
	return b.subs[i]
}

type fakeSubscription struct {
	boardID string
	ch      chan *redis.Message
	once    sync.Once
	closed  bool
	mu      sync.Mutex
}

func (s *fakeSubscription) Messages() <-chan *redis.Message { return s.ch }

func (s *fakeSubscription) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.ch)
	})
	return nil
}

func (s *fakeSubscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// deliver pushes an encoded event as if redis had delivered it
func (s *fakeSubscription) deliver(event Event) {
	data, err := event.MarshalJSON()
	if err != nil {
		panic(err)
	}
	s.ch <- &redis.Message{Channel: Channel(event.BoardID), Payload: string(data)}
}
