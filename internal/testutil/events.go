package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/opsboard/internal/events"
)

// RecordingPublisher is an events.EventPublisher that keeps every event sent to it
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

var _ events.EventPublisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Connect(ctx context.Context) error { return nil }
func (p *RecordingPublisher) Subscribe(boardID string) error    { return nil }
func (p *RecordingPublisher) Close() error                      { return nil }

func (p *RecordingPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	ch := make(chan events.Event)
	close(ch)
	return ch, nil
}

func (p *RecordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// Types returns the recorded event types in send order
func (p *RecordingPublisher) Types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
