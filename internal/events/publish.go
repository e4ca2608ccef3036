package events

import (
	"errors"
	"log/slog"
	"time"
)

const (
	// queueDrainWait is one default flush window; a full queue has room
	// again once the batcher publishes its burst.
	queueDrainWait = 100 * time.Millisecond
	// backoffBase is the first wait after a broker error; it doubles per attempt.
	backoffBase = 50 * time.Millisecond
)

// sleep is replaced in tests
var sleep = time.Sleep

// retryDelay reports how long to wait before sending again after err.
// ok is false when another attempt cannot succeed.
func retryDelay(err error, attempt int) (delay time.Duration, ok bool) {
	switch {
	case errors.Is(err, ErrClientClosed),
		errors.Is(err, ErrNotConnected),
		errors.Is(err, ErrUnknownEventType):
		return 0, false
	case errors.Is(err, ErrQueueFull):
		return queueDrainWait, true
	default:
		return backoffBase * (1 << attempt), true
	}
}

// PublishWithRetry sends a board event, making up to maxRetries attempts.
// A full queue waits for the next flush; broker errors back off
// exponentially; a closed or unconnected client fails at once.
// Returns the error from the final attempt if all retries fail.
func PublishWithRetry(client EventPublisher, event Event, maxRetries int) error {
	if client == nil {
		return nil // Live updates disabled
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < maxRetries; attempt++ {
		attempts++
		err := client.SendEvent(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"event_type", event.Type,
					"board_id", event.BoardID)
			}
			return nil
		}
		lastErr = err

		delay, ok := retryDelay(err, attempt)
		if !ok {
			break
		}
		if attempt < maxRetries-1 {
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			sleep(delay)
		}
	}

	slog.Warn("event publish failed",
		"attempts", attempts,
		"event_type", event.Type,
		"board_id", event.BoardID,
		"error", lastErr)

	return lastErr
}
