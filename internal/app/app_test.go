package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/opsboard/internal/config"
	"github.com/thenoetrevino/opsboard/internal/database"
	boardservice "github.com/thenoetrevino/opsboard/internal/services/board"
	taskservice "github.com/thenoetrevino/opsboard/internal/services/task"
	"github.com/thenoetrevino/opsboard/internal/session"
	"github.com/thenoetrevino/opsboard/internal/testutil"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)

	app := New(db)
	require.NotNil(t, app)

	assert.NotNil(t, app.BoardService, "Expected BoardService to be initialized")
	assert.NotNil(t, app.ColumnService, "Expected ColumnService to be initialized")
	assert.NotNil(t, app.TaskService, "Expected TaskService to be initialized")
	assert.NotNil(t, app.Engines)
	assert.False(t, app.Session().Authenticated())
	assert.IsType(t, &database.Repository{}, app.Repo())
}

func TestNewWithCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := New(db, WithCache(rdb, time.Minute))
	_, isCache := app.Repo().(*database.Cache)
	assert.True(t, isCache, "Expected the repository to be wrapped by the cache")

	ctx := context.Background()
	b, err := app.BoardService.CreateBoard(ctx, boardservice.CreateBoardRequest{Name: "Ops"})
	require.NoError(t, err)
	task, err := app.TaskService.CreateTask(ctx, taskservice.CreateTaskRequest{BoardID: b.ID, Status: "todo", Title: "A"})
	require.NoError(t, err)

	_, err = app.TaskService.MoveTask(ctx, taskservice.MoveTaskRequest{TaskID: task.ID, OntoColumn: "done"})
	require.NoError(t, err)

	groups, err := app.TaskService.ListTasks(ctx, b.ID)
	require.NoError(t, err)
	for _, g := range groups {
		if g.Column.Key == "done" {
			require.Len(t, g.Tasks, 1)
			assert.Equal(t, task.ID, g.Tasks[0].ID)
		}
	}

	assert.Equal(t, int64(1), app.Metrics().Snapshot().Commits)
	require.NoError(t, app.Close())
}

func TestOpen(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "opsboard.db")

	app, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	boards, err := app.BoardService.ListBoards(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, boards)

	user, err := app.Repo().GetUser(context.Background(), app.Session().Actor())
	require.NoError(t, err)
	require.NotNil(t, user, "Expected the session user to be recorded")
	assert.Equal(t, app.Session().DisplayName(), user.DisplayName)
	assert.NoError(t, app.Close())
}

func TestOpenWithUnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "opsboard.db")
	cfg.Redis.Addr = addr

	app, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	_, isCache := app.Repo().(*database.Cache)
	assert.False(t, isCache, "Expected no cache when redis is down")
}

func TestOpenWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "opsboard.db")
	cfg.Redis.Addr = mr.Addr()

	app, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	_, isCache := app.Repo().(*database.Cache)
	assert.True(t, isCache)
	assert.NotNil(t, app.eventClient)
	assert.NoError(t, app.Close())
}

func TestOpenRejectsMalformedToken(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "opsboard.db")
	cfg.Session.Token = "garbage"

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestOpenRefreshesExpiringToken(t *testing.T) {
	renewed := signedToken(t, "u-1", time.Now().Add(time.Hour))
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + renewed + `","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "opsboard.db")
	cfg.Session.Token = signedToken(t, "u-1", time.Now().Add(5*time.Second))
	cfg.Session.RefreshToken = "refresh-1"
	cfg.Session.RefreshURL = srv.URL

	app, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, 1, calls)
	assert.True(t, app.Session().ExpiresAt().After(time.Now().Add(30*time.Minute)))
}

func TestOpenRejectsExpiredTokenWithoutRefresh(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "opsboard.db")
	cfg.Session.Token = signedToken(t, "u-1", time.Now().Add(-time.Minute))

	_, err := Open(context.Background(), cfg)
	assert.ErrorIs(t, err, session.ErrTokenExpired)
	assert.True(t, session.IsAuthError(err))
}

func TestOpenRejectedRefreshFailsStartup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "opsboard.db")
	cfg.Session.Token = signedToken(t, "u-1", time.Now().Add(-time.Minute))
	cfg.Session.RefreshToken = "revoked"
	cfg.Session.RefreshURL = srv.URL

	_, err := Open(context.Background(), cfg)
	assert.ErrorIs(t, err, session.ErrTokenExpired)
}
