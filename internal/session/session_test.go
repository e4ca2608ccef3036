package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": sub}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

type countingRefresher struct {
	calls   atomic.Int32
	next    func() Tokens
	err     error
	release chan struct{}
}

func (r *countingRefresher) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return Tokens{}, r.err
	}
	return r.next(), nil
}

func TestFreshTokenReturnedAsIs(t *testing.T) {
	tok := signToken(t, "user-1", time.Now().Add(time.Hour))
	r := &countingRefresher{}
	s, err := New(tok, "refresh", WithRefresher(r))
	require.NoError(t, err)

	got, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tok, got)
	assert.Equal(t, int32(0), r.calls.Load())
	assert.Equal(t, "user-1", s.Actor())
	assert.True(t, s.Authenticated())
}

func TestExpiringTokenIsRefreshed(t *testing.T) {
	old := signToken(t, "user-1", time.Now().Add(5*time.Second))
	renewed := signToken(t, "user-1", time.Now().Add(time.Hour))
	r := &countingRefresher{next: func() Tokens { return Tokens{AccessToken: renewed} }}

	s, err := New(old, "refresh", WithRefresher(r), WithLeeway(time.Minute))
	require.NoError(t, err)

	got, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, renewed, got)
	assert.Equal(t, int32(1), r.calls.Load())
	assert.True(t, s.ExpiresAt().After(time.Now().Add(30*time.Minute)))
}

func TestConcurrentCallersShareOneRefresh(t *testing.T) {
	old := signToken(t, "user-1", time.Now().Add(-time.Second))
	renewed := signToken(t, "user-1", time.Now().Add(time.Hour))
	r := &countingRefresher{
		next:    func() Tokens { return Tokens{AccessToken: renewed} },
		release: make(chan struct{}),
	}
	s, err := New(old, "refresh", WithRefresher(r))
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.AccessToken(context.Background())
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(r.release)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, renewed, results[i])
	}
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestExpiredWithoutRefresher(t *testing.T) {
	tok := signToken(t, "user-1", time.Now().Add(-time.Minute))
	s, err := New(tok, "")
	require.NoError(t, err)

	_, err = s.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.True(t, IsAuthError(err))
}

func TestRefreshFailure(t *testing.T) {
	tok := signToken(t, "user-1", time.Now().Add(-time.Minute))
	boom := errors.New("idp down")
	s, err := New(tok, "refresh", WithRefresher(&countingRefresher{err: boom}))
	require.NoError(t, err)

	_, err = s.AccessToken(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestTokenWithoutExpiryNeverRefreshes(t *testing.T) {
	tok := signToken(t, "svc", time.Time{})
	r := &countingRefresher{}
	s, err := New(tok, "refresh", WithRefresher(r))
	require.NoError(t, err)

	got, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tok, got)
	assert.Zero(t, r.calls.Load())
}

func TestLogout(t *testing.T) {
	tok := signToken(t, "user-1", time.Now().Add(time.Hour))
	s, err := New(tok, "refresh")
	require.NoError(t, err)

	s.Logout()
	_, err = s.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, s.Authenticated())
	assert.NotEqual(t, "user-1", s.Actor())
}

func TestAnonymousSession(t *testing.T) {
	s := Anonymous()
	_, err := s.AccessToken(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NotEmpty(t, s.Actor())
	assert.False(t, s.Authenticated())
}

func TestMalformedToken(t *testing.T) {
	_, err := New("not-a-jwt", "")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestOAuth2Refresher(t *testing.T) {
	renewed := signToken(t, "user-1", time.Now().Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("grant_type") != "refresh_token" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"unsupported_grant_type"}`))
			return
		}
		assert.Equal(t, "opsboard-cli", r.PostForm.Get("client_id"))
		if r.PostForm.Get("refresh_token") != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + renewed + `","token_type":"Bearer","refresh_token":"rotated","expires_in":3600}`))
	}))
	defer srv.Close()

	r := NewOAuth2Refresher(srv.URL, "opsboard-cli")

	tokens, err := r.Refresh(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, renewed, tokens.AccessToken)
	assert.Equal(t, "rotated", tokens.RefreshToken)

	_, err = r.Refresh(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDisplayName(t *testing.T) {
	claims := jwt.MapClaims{"sub": "u-42", "name": "Dana K."}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	s, err := New(tok, "")
	require.NoError(t, err)
	assert.Equal(t, "u-42", s.Actor())
	assert.Equal(t, "Dana K.", s.DisplayName())

	noName, err := New(signToken(t, "u-7", time.Time{}), "")
	require.NoError(t, err)
	assert.Equal(t, "u-7", noName.DisplayName())
}
