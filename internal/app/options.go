package app

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/session"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	logger      *slog.Logger
	redis       *redis.Client
	cacheTTL    time.Duration
	session     *session.Session
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithCache puts a redis read cache in front of the repository
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(cfg *appConfig) {
		cfg.redis = client
		cfg.cacheTTL = ttl
	}
}

// WithSession sets who the application acts as
func WithSession(s *session.Session) Option {
	return func(cfg *appConfig) {
		cfg.session = s
	}
}
