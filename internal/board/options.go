package board

import (
	"log/slog"

	"github.com/thenoetrevino/opsboard/internal/events"
)

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the structured logger; board_id is added to every record
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPublisher publishes board events after successful writes
func WithPublisher(publisher events.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

// WithMetrics shares a metrics instance between engines
func WithMetrics(metrics *Metrics) Option {
	return func(e *Engine) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

// WithActor names who is making changes in published events
func WithActor(actor string) Option {
	return func(e *Engine) {
		e.actor = actor
	}
}

// WithReloadAfterCommit reloads the board after every successful commit so
// changes by other viewers show up
func WithReloadAfterCommit(reload bool) Option {
	return func(e *Engine) {
		e.reloadAfterCommit = reload
	}
}
