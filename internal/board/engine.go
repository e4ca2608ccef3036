package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
)

// publishRetries bounds event publishing attempts after a write
const publishRetries = 3

// Engine holds the local view of one board and runs drag gestures against it.
// The view is a cache of the store; only the store is authoritative.
type Engine struct {
	store             Store
	boardID           string
	logger            *slog.Logger
	publisher         events.EventPublisher
	metrics           *Metrics
	actor             string
	reloadAfterCommit bool

	mu      sync.Mutex
	loaded  bool
	stale   bool
	columns []*models.Column
	tasks   []*models.Task // load order, used to break position ties
	gesture gesture
}

// CommitResult describes the writes a released gesture issued
type CommitResult struct {
	NoOp          bool
	TaskID        string
	From          string
	To            string
	StatusChanged bool
	Writes        []PositionWrite // Position writes that succeeded, in issue order
}

// New creates an engine for one board. Call Load before starting gestures.
func New(store Store, boardID string, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		boardID: boardID,
		logger:  slog.Default(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("board_id", boardID)
	return e
}

// BoardID returns the board this engine orders
func (e *Engine) BoardID() string {
	return e.boardID
}

// Metrics returns the engine's counters
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Load fetches columns and tasks and replaces the local view
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reloadLocked(ctx)
}

// Reload is Load under the name callers use after an error or a remote change
func (e *Engine) Reload(ctx context.Context) error {
	return e.Load(ctx)
}

func (e *Engine) reloadLocked(ctx context.Context) error {
	var (
		columns []*models.Column
		tasks   []*models.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := e.store.GetColumns(gctx, e.boardID)
		if err != nil {
			return fmt.Errorf("failed to load columns: %w", err)
		}
		columns = c
		return nil
	})
	g.Go(func() error {
		t, err := e.store.GetTasks(gctx, e.boardID)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		tasks = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	e.columns = cloneColumns(columns)
	e.tasks = cloneTasks(tasks)
	e.loaded = true
	e.stale = false
	e.metrics.IncReloads()
	return nil
}

// Stale reports whether a failed commit left the view out of sync with the store
func (e *Engine) Stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stale
}

// Columns returns the board's columns in display order
func (e *Engine) Columns() []*models.Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneColumns(e.columns)
}

// Tasks returns every task in load order
func (e *Engine) Tasks() []*models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTasks(e.tasks)
}

// Task returns one task from the local view
func (e *Engine) Task(id string) (*models.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t := e.findTask(id); t != nil {
		return t.Clone(), true
	}
	return nil, false
}

// Groups returns the kanban view: one group per column, tasks in rank order
func (e *Engine) Groups() []Group {
	e.mu.Lock()
	defer e.mu.Unlock()

	return GroupTasks(cloneColumns(e.columns), cloneTasks(e.tasks))
}

// State returns the phase of the current gesture
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gesture.state
}

// Highlighted returns the column key under the pointer, or ""
func (e *Engine) Highlighted() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gesture.highlight
}

// ActiveTaskID returns the task being dragged, or ""
func (e *Engine) ActiveTaskID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gesture.activeID
}

// Pickup starts a gesture on a task
func (e *Engine) Pickup(taskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	if e.gesture.state != Idle {
		return ErrGestureInProgress
	}
	t := e.findTask(taskID)
	if t == nil {
		return ErrTaskNotFound
	}
	if err := e.gesture.transition(Dragging); err != nil {
		return err
	}

	e.gesture.activeID = t.ID
	e.gesture.originStatus = t.Status
	e.gesture.originPosition = t.Position
	e.metrics.IncGesturesStarted()
	return nil
}

// Hover resolves the element under the pointer and returns the column key to
// highlight. A nil or unknown target clears the highlight. Nothing is written.
func (e *Engine) Hover(target *Target) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.gesture.transition(HoverResolved); err != nil {
		return "", err
	}
	e.gesture.highlight = resolveTarget(e.columns, e.tasks, target)
	return e.gesture.highlight, nil
}

// Cancel abandons the current gesture without side effects
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gesture.state == Dragging || e.gesture.state == HoverResolved {
		_ = e.gesture.transition(Idle)
		e.gesture.clear()
	}
}

// Release drops the active task on target and commits the result.
//
// Position writes are issued one at a time: the source group first, then the
// destination group, each in ascending rank. The first failed write stops the
// sequence and forces a full reload; the returned *CommitError says where it
// stopped. Once the first write is issued the commit ignores cancellation of ctx.
func (e *Engine) Release(ctx context.Context, target *Target) (*CommitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gesture.state == Dragging {
		if err := e.gesture.transition(HoverResolved); err != nil {
			return nil, err
		}
		e.gesture.highlight = resolveTarget(e.columns, e.tasks, target)
	}
	if e.gesture.state != HoverResolved {
		return nil, fmt.Errorf("%w: release while %s", ErrInvalidTransition, e.gesture.state)
	}

	activeID := e.gesture.activeID
	originPosition := e.gesture.originPosition
	active := e.findTask(activeID)
	plan, ok := planDrop(e.columns, e.tasks, active, target)
	if !ok {
		_ = e.gesture.transition(Idle)
		e.gesture.clear()
		e.metrics.IncNoOps()
		return &CommitResult{NoOp: true, TaskID: activeID}, nil
	}

	if err := e.gesture.transition(Committing); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	result, err := e.commitLocked(ctx, active, plan)
	if err != nil {
		_ = e.gesture.transition(RolledBack)
		e.gesture.clear()
		e.recoverLocked(ctx, err)
		_ = e.gesture.transition(Idle)
		return result, err
	}

	_ = e.gesture.transition(Idle)
	e.gesture.clear()
	e.metrics.IncCommits()

	e.logger.Debug("commit complete",
		"task_id", result.TaskID,
		"from", result.From,
		"from_position", originPosition,
		"to", result.To,
		"writes", len(result.Writes))
	e.publishCommit(result, plan)

	if e.reloadAfterCommit {
		if err := e.reloadLocked(ctx); err != nil {
			e.logger.Warn("reload after commit failed", "error", err)
			e.stale = true
		}
	}
	return result, nil
}

func (e *Engine) commitLocked(ctx context.Context, active *models.Task, plan dropPlan) (*CommitResult, error) {
	result := &CommitResult{
		TaskID: active.ID,
		From:   plan.from,
		To:     plan.to,
	}

	if plan.statusChange {
		active.Status = plan.to
		e.metrics.IncStoreWrites()
		if err := e.store.UpdateTaskFields(ctx, active.ID, models.StatusField(plan.to)); err != nil {
			return result, &CommitError{
				Step:        StepStatus,
				TaskID:      active.ID,
				WriteTaskID: active.ID,
				From:        plan.from,
				To:          plan.to,
				Err:         err,
			}
		}
		result.StatusChanged = true
	}

	writes := plan.writes()
	byID := make(map[string]*models.Task, len(e.tasks))
	for _, t := range e.tasks {
		byID[t.ID] = t
	}
	for _, w := range writes {
		byID[w.TaskID].Position = w.Position
	}

	for _, w := range writes {
		e.metrics.IncStoreWrites()
		if err := e.store.UpdateTaskFields(ctx, w.TaskID, models.PositionField(w.Position)); err != nil {
			return result, &CommitError{
				Step:        StepPosition,
				TaskID:      active.ID,
				WriteTaskID: w.TaskID,
				From:        plan.from,
				To:          plan.to,
				Err:         err,
			}
		}
		result.Writes = append(result.Writes, w)
	}
	return result, nil
}

// recoverLocked logs a failed commit and replaces the view with the store's state
func (e *Engine) recoverLocked(ctx context.Context, err error) {
	e.metrics.IncFailures()

	attrs := []any{"error", err}
	var ce *CommitError
	if errors.As(err, &ce) {
		attrs = append(attrs,
			"task_id", ce.TaskID,
			"write_task_id", ce.WriteTaskID,
			"step", ce.Step,
			"from", ce.From,
			"to", ce.To)
		e.publish(events.CommitFailed{
			TaskID: ce.TaskID,
			Step:   ce.Step,
			From:   ce.From,
			To:     ce.To,
			Error:  ce.Err.Error(),
		})
	}
	e.logger.Error("commit failed, reloading board", attrs...)

	if reloadErr := e.reloadLocked(ctx); reloadErr != nil {
		e.stale = true
		if ce != nil {
			ce.Stale = true
		}
		e.logger.Error("reload after failed commit failed", "error", reloadErr)
	}
}

func (e *Engine) publishCommit(result *CommitResult, plan dropPlan) {
	if result.StatusChanged {
		e.publish(events.TaskMoved{TaskID: result.TaskID, From: result.From, To: result.To})
	}
	if plan.source != nil {
		e.publish(events.TasksReordered{Status: plan.sourceKey, TaskIDs: taskIDs(plan.source)})
	}
	e.publish(events.TasksReordered{Status: plan.to, TaskIDs: taskIDs(plan.destination)})
}

func (e *Engine) publish(payload events.Payload) {
	if e.publisher == nil {
		return
	}
	ev := events.NewEvent(e.boardID, e.actor, payload)
	if err := events.PublishWithRetry(e.publisher, ev, publishRetries); err != nil {
		e.logger.Debug("event not published", "event_type", ev.Type, "error", err)
	}
}

// Compact rewrites the ranks of one column to 0..n-1, writing only the tasks
// whose rank changes. Used after a task leaves a column outside a gesture.
func (e *Engine) Compact(ctx context.Context, key string) (*CommitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return nil, ErrNotLoaded
	}
	if e.gesture.state != Idle {
		return nil, ErrGestureInProgress
	}

	group := groupFor(GroupTasks(e.columns, e.tasks), key)
	if group == nil {
		return nil, ErrColumnNotFound
	}

	result := &CommitResult{From: key, To: key}
	if isContiguous(group) {
		result.NoOp = true
		return result, nil
	}

	ctx = context.WithoutCancel(ctx)
	for i, t := range group {
		if t.Position == i {
			continue
		}
		t.Position = i
		e.metrics.IncStoreWrites()
		if err := e.store.UpdateTaskFields(ctx, t.ID, models.PositionField(i)); err != nil {
			cerr := &CommitError{Step: StepPosition, TaskID: t.ID, WriteTaskID: t.ID, From: key, To: key, Err: err}
			e.recoverLocked(ctx, cerr)
			return result, cerr
		}
		result.Writes = append(result.Writes, PositionWrite{TaskID: t.ID, Status: key, Position: i})
	}

	e.metrics.IncCommits()
	e.publish(events.TasksReordered{Status: key, TaskIDs: taskIDs(group)})
	return result, nil
}

func (e *Engine) findTask(id string) *models.Task {
	for _, t := range e.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func taskIDs(tasks []*models.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func cloneTasks(tasks []*models.Task) []*models.Task {
	out := make([]*models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func cloneColumns(columns []*models.Column) []*models.Column {
	out := make([]*models.Column, len(columns))
	for i, c := range columns {
		cc := *c
		out[i] = &cc
	}
	return out
}
