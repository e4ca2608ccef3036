package events

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrQueueFull        = errors.New("event queue full")
	ErrClientClosed     = errors.New("event client closed")
	ErrNotConnected     = errors.New("not connected to event broker")
)

// ErrorCode represents broker connection error types.
type ErrorCode int

const (
	ErrBrokerUnavailable ErrorCode = iota
	ErrConnectionRefused
	ErrBrokerTimeout
	ErrBrokerClosed
)

// ConnectionError represents a structured broker error with context.
type ConnectionError struct {
	Code    ErrorCode
	Message string
	Hint    string
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

// ClassifyConnectionError maps common errors to structured ConnectionError types.
func ClassifyConnectionError(err error) *ConnectionError {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.ErrClosed) || errors.Is(err, ErrClientClosed) {
		return &ConnectionError{
			Code:    ErrBrokerClosed,
			Message: "Event client is closed",
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return &ConnectionError{
			Code:    ErrConnectionRefused,
			Message: "Connection refused",
			Hint:    "Check that redis is running at the configured redis.addr",
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ConnectionError{
			Code:    ErrBrokerTimeout,
			Message: "Timed out talking to redis",
			Hint:    "Check network connectivity to redis.addr",
		}
	}

	return &ConnectionError{
		Code:    ErrBrokerUnavailable,
		Message: "Event broker unavailable",
		Hint:    "Live updates are disabled until redis is reachable",
	}
}

// isConnectionError checks if an error is a network connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, redis.ErrClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "use of closed network connection")
}
