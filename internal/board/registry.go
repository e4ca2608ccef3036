package board

import (
	"context"
	"sync"
)

// Registry keeps one engine per board, all sharing the same store and options
type Registry struct {
	mu      sync.Mutex
	store   Store
	opts    []Option
	engines map[string]*Engine
}

// NewRegistry creates a registry whose engines are built with opts
func NewRegistry(store Store, opts ...Option) *Registry {
	return &Registry{
		store:   store,
		opts:    opts,
		engines: make(map[string]*Engine),
	}
}

// Engine returns the board's engine with a freshly loaded view. Writes made
// outside the engine (task creation, deletion) show up on the next call.
func (r *Registry) Engine(ctx context.Context, boardID string) (*Engine, error) {
	r.mu.Lock()
	e, ok := r.engines[boardID]
	if !ok {
		e = New(r.store, boardID, r.opts...)
		r.engines[boardID] = e
	}
	r.mu.Unlock()

	if e.Stale() {
		e.logger.Info("reloading board view left stale by a failed commit", "board_id", boardID)
	}
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Forget drops the engine of a deleted board
func (r *Registry) Forget(boardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, boardID)
}
