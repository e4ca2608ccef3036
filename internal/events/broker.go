package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "opsboard:board:"
	sequenceKey   = "opsboard:events:seq"
)

// Channel returns the pub/sub channel carrying a board's events
func Channel(boardID string) string {
	return channelPrefix + boardID
}

// broker is the slice of the pub/sub service the client needs
type broker interface {
	Ping(ctx context.Context) error
	NextSequence(ctx context.Context) (int64, error)
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, boardID string) (subscription, error)
}

type subscription interface {
	Messages() <-chan *redis.Message
	Close() error
}

type redisBroker struct {
	rdb *redis.Client
}

func (b *redisBroker) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *redisBroker) NextSequence(ctx context.Context) (int64, error) {
	return b.rdb.Incr(ctx, sequenceKey).Result()
}

func (b *redisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe listens to one board, or every board via a pattern when boardID is empty
func (b *redisBroker) Subscribe(ctx context.Context, boardID string) (subscription, error) {
	var ps *redis.PubSub
	if boardID == "" {
		ps = b.rdb.PSubscribe(ctx, channelPrefix+"*")
	} else {
		ps = b.rdb.Subscribe(ctx, Channel(boardID))
	}

	// Wait for the subscription confirmation so no message published after
	// Subscribe returns can be missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return &redisSubscription{ps: ps, ch: ps.Channel()}, nil
}

type redisSubscription struct {
	ps *redis.PubSub
	ch <-chan *redis.Message
}

func (s *redisSubscription) Messages() <-chan *redis.Message { return s.ch }
func (s *redisSubscription) Close() error                    { return s.ps.Close() }
