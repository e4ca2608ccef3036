package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/opsboard/internal/board"
	"github.com/thenoetrevino/opsboard/internal/config"
	"github.com/thenoetrevino/opsboard/internal/database"
	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
	boardservice "github.com/thenoetrevino/opsboard/internal/services/board"
	columnservice "github.com/thenoetrevino/opsboard/internal/services/column"
	taskservice "github.com/thenoetrevino/opsboard/internal/services/task"
	"github.com/thenoetrevino/opsboard/internal/session"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	db          *sql.DB
	repo        database.DataStore
	redis       *redis.Client
	eventClient events.EventPublisher
	session     *session.Session
	metrics     *board.Metrics
	logger      *slog.Logger

	// Engines shares one ordering engine per board across services
	Engines *board.Registry

	// Service layer (business logic)
	BoardService  boardservice.Service
	ColumnService columnservice.Service
	TaskService   taskservice.Service
}

// New creates a new App with all services initialized over an open database.
func New(db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.session == nil {
		cfg.session = session.Anonymous()
	}

	var repo database.DataStore = database.NewRepository(db)
	if cfg.redis != nil {
		repo = database.NewCache(repo, cfg.redis, cfg.cacheTTL)
	}

	actor := cfg.session.Actor()
	metrics := board.NewMetrics()
	engineOpts := []board.Option{
		board.WithLogger(cfg.logger),
		board.WithMetrics(metrics),
		board.WithActor(actor),
	}
	if cfg.eventClient != nil {
		engineOpts = append(engineOpts, board.WithPublisher(cfg.eventClient))
	}
	engines := board.NewRegistry(repo, engineOpts...)

	return &App{
		db:            db,
		repo:          repo,
		redis:         cfg.redis,
		eventClient:   cfg.eventClient,
		session:       cfg.session,
		metrics:       metrics,
		logger:        cfg.logger,
		Engines:       engines,
		BoardService:  boardservice.NewService(repo, cfg.eventClient, actor),
		ColumnService: columnservice.NewService(repo, engines, cfg.eventClient, actor),
		TaskService:   taskservice.NewService(repo, engines, cfg.eventClient, actor),
	}
}

// Open builds the application from configuration: it opens the database and,
// when redis is configured and reachable, the read cache and event client.
// An unreachable redis is logged and the app runs without cache or events.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		p, err := database.DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	db, err := database.InitDB(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sess, err := newSession(cfg.Session)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureFreshToken(ctx, sess); err != nil {
		_ = db.Close()
		return nil, err
	}
	opts = append([]Option{WithSession(sess)}, opts...)

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, running without cache and events",
				"addr", cfg.Redis.Addr, "error", err)
			_ = rdb.Close()
		} else {
			opts = append(opts, WithCache(rdb, cfg.Redis.CacheTTL))
			if ec := connectEvents(ctx, rdb, cfg.Events); ec != nil {
				opts = append(opts, WithEventPublisher(ec))
			}
		}
	}

	application := New(db, opts...)
	recordActor(ctx, application)
	return application, nil
}

// recordActor stores the session's user so tasks assigned to them resolve a
// display name. The write is skipped when the stored name is current, since
// it evicts every cached task list.
func recordActor(ctx context.Context, a *App) {
	u := &models.User{ID: a.session.Actor(), DisplayName: a.session.DisplayName()}
	existing, err := a.repo.GetUser(ctx, u.ID)
	if err != nil {
		a.logger.Warn("failed to look up session user", "user_id", u.ID, "error", err)
		return
	}
	if existing != nil && existing.DisplayName == u.DisplayName {
		return
	}
	if err := a.repo.UpsertUser(ctx, u); err != nil {
		a.logger.Warn("failed to record session user", "user_id", u.ID, "error", err)
	}
}

// ensureFreshToken refreshes a configured token that is about to expire.
// A token the identity provider rejects fails startup; a refresh that could
// not reach the provider is logged and the current token is kept.
func ensureFreshToken(ctx context.Context, sess *session.Session) error {
	if !sess.Authenticated() {
		return nil
	}
	if _, err := sess.AccessToken(ctx); err != nil {
		if session.IsAuthError(err) {
			return fmt.Errorf("session cannot be used: %w", err)
		}
		slog.Warn("session refresh failed, keeping the current token",
			"expires_at", sess.ExpiresAt(), "error", err)
	}
	return nil
}

func newSession(cfg config.SessionConfig) (*session.Session, error) {
	var sessOpts []session.Option
	if cfg.RefreshURL != "" {
		sessOpts = append(sessOpts, session.WithRefresher(session.NewOAuth2Refresher(cfg.RefreshURL, cfg.ClientID)))
	}
	s, err := session.New(cfg.Token, cfg.RefreshToken, sessOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	return s, nil
}

// connectEvents returns nil when the event client cannot start
func connectEvents(ctx context.Context, rdb *redis.Client, cfg config.EventsConfig) *events.Client {
	client, err := events.NewClient(rdb)
	if err != nil {
		slog.Warn("event client unavailable", "error", err)
		return nil
	}
	client.SetDebounce(cfg.Debounce)
	if err := client.Connect(ctx); err != nil {
		slog.Warn("event client failed to connect", "error", events.ClassifyConnectionError(err))
		_ = client.Close()
		return nil
	}
	return client
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Session returns who the application acts as
func (a *App) Session() *session.Session {
	return a.session
}

// Events returns the event client, or nil when events are unavailable
func (a *App) Events() events.EventPublisher {
	return a.eventClient
}

// Metrics returns the counters shared by all board engines
func (a *App) Metrics() *board.Metrics {
	return a.metrics
}

// Close flushes pending events and releases redis and the database
func (a *App) Close() error {
	a.logger.Debug("engine metrics", "metrics", a.metrics.Snapshot())

	var errs []error
	if a.eventClient != nil {
		errs = append(errs, a.eventClient.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
