// Package session holds the identity a process acts as: an access token with
// its claims, an optional refresh token, and the actor name stamped on events.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/sync/singleflight"
)

const (
	defaultLeeway  = 30 * time.Second
	refreshTimeout = 10 * time.Second
)

// Tokens is the result of a refresh
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Refresher exchanges a refresh token for new tokens
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
}

// Session is safe for concurrent use. Concurrent AccessToken calls that need a
// refresh share a single in-flight request.
type Session struct {
	mu        sync.RWMutex
	access    string
	refresh   string
	subject   string
	name      string
	expiresAt time.Time
	closed    bool

	refresher Refresher
	leeway    time.Duration
	now       func() time.Time
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures a Session
type Option func(*Session)

// WithRefresher sets how expiring tokens are renewed
func WithRefresher(r Refresher) Option {
	return func(s *Session) { s.refresher = r }
}

// WithLeeway sets how long before expiry a token is refreshed
func WithLeeway(d time.Duration) Option {
	return func(s *Session) { s.leeway = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a session from an access token and an optional refresh token.
// An empty access token yields an anonymous session.
func New(accessToken, refreshToken string, opts ...Option) (*Session, error) {
	s := &Session{
		leeway: defaultLeeway,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if accessToken == "" {
		return s, nil
	}
	if err := s.setTokens(accessToken, refreshToken); err != nil {
		return nil, err
	}
	return s, nil
}

// Anonymous returns a session without credentials
func Anonymous() *Session {
	s, _ := New("", "")
	return s
}

type tokenClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// setTokens stores a token pair after reading the access token's claims.
// The signature is not checked; the identity provider does that.
func (s *Session) setTokens(accessToken, refreshToken string) error {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	s.access = accessToken
	if refreshToken != "" {
		s.refresh = refreshToken
	}
	s.subject = claims.Subject
	s.name = claims.Name
	s.expiresAt = time.Time{}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
	return nil
}

// Authenticated reports whether the session holds an access token
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && s.access != ""
}

// ExpiresAt returns the access token expiry; zero when the token has none
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// DisplayName is the token's name claim, falling back to Actor
func (s *Session) DisplayName() string {
	s.mu.RLock()
	name := s.name
	closed := s.closed
	s.mu.RUnlock()
	if name != "" && !closed {
		return name
	}
	return s.Actor()
}

// Actor names who is acting: the token subject, or the local OS user for
// anonymous sessions
func (s *Session) Actor() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.subject != "" && !s.closed {
		return s.subject
	}
	return localUsername()
}

// AccessToken returns a token valid for at least the leeway, refreshing it first if needed
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	closed, access, fresh, canRefresh := s.closed, s.access, s.freshLocked(), s.canRefreshLocked()
	expired := !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt)
	s.mu.RUnlock()

	if closed || access == "" {
		return "", ErrNoSession
	}
	if fresh {
		return access, nil
	}
	if !canRefresh {
		if expired {
			return "", ErrTokenExpired
		}
		return access, nil
	}

	v, err, shared := s.group.Do("refresh", func() (any, error) {
		return s.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.logger.Debug("joined in-flight token refresh")
	}
	return v.(string), nil
}

func (s *Session) doRefresh(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", ErrNoSession
	}
	if s.freshLocked() {
		access := s.access
		s.mu.RUnlock()
		return access, nil
	}
	refreshToken := s.refresh
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
	defer cancel()

	tokens, err := s.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("token refresh failed", "error", err)
		return "", fmt.Errorf("failed to refresh session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrNoSession
	}
	if err := s.setTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return "", err
	}
	s.logger.Info("session refreshed", "subject", s.subject, "expires_at", s.expiresAt)
	return s.access, nil
}

func (s *Session) freshLocked() bool {
	return s.expiresAt.IsZero() || s.now().Add(s.leeway).Before(s.expiresAt)
}

func (s *Session) canRefreshLocked() bool {
	return s.refresher != nil && s.refresh != ""
}

// Logout forgets all tokens. Later AccessToken calls return ErrNoSession.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.access = ""
	s.refresh = ""
	s.subject = ""
	s.expiresAt = time.Time{}
}

// localUsername returns the OS user, then $USER, then "unknown"
func localUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// IsAuthError reports whether err means the caller must sign in again
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrMalformedToken)
}
