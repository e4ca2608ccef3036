package database

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// Cache wraps a DataStore with Redis-backed caching of the per-board reads
// the ordering engine issues on every load. Any write touching a board
// bumps that board's generation and evicts its entries. A read only fills
// the cache when the generation it saw before reading the store is still
// current, so a snapshot taken before a write is never cached after it.
type Cache struct {
	DataStore
	redis *redis.Client
	ttl   time.Duration
}

var _ DataStore = (*Cache)(nil)

var errStaleFill = errors.New("board changed while reading")

// NewCache creates a caching wrapper around base using the provided Redis client and TTL.
func NewCache(base DataStore, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("database.NewCache: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{DataStore: base, redis: client, ttl: ttl}
}

func (c *Cache) GetColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	var columns []*models.Column
	if c.load(ctx, columnsCacheKey(boardID), &columns) {
		return columns, nil
	}

	gen, cacheable := c.generation(ctx, boardID)
	columns, err := c.DataStore.GetColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.store(ctx, boardID, gen, columnsCacheKey(boardID), columns)
	}
	return columns, nil
}

func (c *Cache) GetTasks(ctx context.Context, boardID string) ([]*models.Task, error) {
	var tasks []*models.Task
	if c.load(ctx, tasksCacheKey(boardID), &tasks) {
		return tasks, nil
	}

	gen, cacheable := c.generation(ctx, boardID)
	tasks, err := c.DataStore.GetTasks(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.store(ctx, boardID, gen, tasksCacheKey(boardID), tasks)
	}
	return tasks, nil
}

func (c *Cache) DeleteBoard(ctx context.Context, boardID string) error {
	if err := c.DataStore.DeleteBoard(ctx, boardID); err != nil {
		return err
	}
	c.evict(ctx, boardID)
	return nil
}

func (c *Cache) CreateColumn(ctx context.Context, boardID string, meta models.ColumnMetadata) (*models.Column, error) {
	col, err := c.DataStore.CreateColumn(ctx, boardID, meta)
	if err != nil {
		return nil, err
	}
	c.evict(ctx, boardID)
	return col, nil
}

func (c *Cache) UpdateColumn(ctx context.Context, columnID string, meta models.ColumnMetadata) (*models.Column, error) {
	col, err := c.DataStore.UpdateColumn(ctx, columnID, meta)
	if err != nil {
		return nil, err
	}
	c.evict(ctx, col.BoardID)
	return col, nil
}

func (c *Cache) DeleteColumn(ctx context.Context, columnID string) error {
	col, lookupErr := c.DataStore.GetColumnByID(ctx, columnID)
	if err := c.DataStore.DeleteColumn(ctx, columnID); err != nil {
		return err
	}
	if lookupErr == nil {
		c.evict(ctx, col.BoardID)
	}
	return nil
}

func (c *Cache) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	created, err := c.DataStore.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	c.evict(ctx, created.BoardID)
	return created, nil
}

func (c *Cache) UpdateTask(ctx context.Context, task *models.Task) error {
	if err := c.DataStore.UpdateTask(ctx, task); err != nil {
		return err
	}
	c.evictTaskBoard(ctx, task.ID)
	return nil
}

func (c *Cache) UpdateTaskFields(ctx context.Context, taskID string, fields models.TaskFields) error {
	if err := c.DataStore.UpdateTaskFields(ctx, taskID, fields); err != nil {
		return err
	}
	c.evictTaskBoard(ctx, taskID)
	return nil
}

func (c *Cache) BulkReassignStatus(ctx context.Context, boardID, fromKey, toKey string) error {
	if err := c.DataStore.BulkReassignStatus(ctx, boardID, fromKey, toKey); err != nil {
		return err
	}
	c.evict(ctx, boardID)
	return nil
}

func (c *Cache) DeleteTask(ctx context.Context, taskID string) error {
	task, lookupErr := c.DataStore.GetTask(ctx, taskID)
	if err := c.DataStore.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	if lookupErr == nil {
		c.evict(ctx, task.BoardID)
	}
	return nil
}

// UpsertUser changes resolved assignee names, so every cached task list may be stale.
func (c *Cache) UpsertUser(ctx context.Context, user *models.User) error {
	if err := c.DataStore.UpsertUser(ctx, user); err != nil {
		return err
	}
	if c.redis == nil {
		return nil
	}
	iter := c.redis.Scan(ctx, 0, "opsboard:tasks:*", 100).Iterator()
	for iter.Next(ctx) {
		_ = c.redis.Del(ctx, iter.Val()).Err()
	}
	if err := iter.Err(); err != nil {
		slog.Warn("failed to scan cached task lists", "error", err)
	}
	return nil
}

func (c *Cache) load(ctx context.Context, key string, dst any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing store without failing.
			slog.Debug("cache read failed", "key", key, "error", err)
			_ = c.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

// generation returns the board's current write generation. The second
// result is false when redis cannot be read and the result must not be cached.
func (c *Cache) generation(ctx context.Context, boardID string) (int64, bool) {
	if c.redis == nil || c.ttl == 0 {
		return 0, false
	}
	gen, err := c.redis.Get(ctx, generationKey(boardID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Debug("cache generation read failed", "board_id", boardID, "error", err)
		return 0, false
	}
	return gen, true
}

// store fills key unless a write bumped the board generation after gen was read
func (c *Cache) store(ctx context.Context, boardID string, gen int64, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	genKey := generationKey(boardID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, errStaleFill) && !errors.Is(err, redis.TxFailedErr) {
		slog.Debug("cache fill failed", "key", key, "error", err)
	}
}

func (c *Cache) evictTaskBoard(ctx context.Context, taskID string) {
	task, err := c.DataStore.GetTask(ctx, taskID)
	if err != nil {
		return
	}
	c.evict(ctx, task.BoardID)
}

func (c *Cache) evict(ctx context.Context, boardID string) {
	if c.redis == nil {
		return
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(boardID))
		pipe.Del(ctx, columnsCacheKey(boardID), tasksCacheKey(boardID))
		return nil
	})
	if err != nil {
		slog.Warn("failed to evict board cache", "board_id", boardID, "error", err)
	}
}

func generationKey(boardID string) string {
	return "opsboard:gen:" + boardID
}

func columnsCacheKey(boardID string) string {
	return "opsboard:columns:" + boardID
}

func tasksCacheKey(boardID string) string {
	return "opsboard:tasks:" + boardID
}
