package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thenoetrevino/opsboard/internal/events"
	"github.com/thenoetrevino/opsboard/internal/models"
)

// ============================================================================
// Test Helpers
// ============================================================================

var errInjected = errors.New("injected store failure")

// storeCall is one write the engine issued, in order
type storeCall struct {
	Op       string // "status", "position", "reassign", "create_column", "delete_column"
	ID       string
	Status   string
	Position int
}

func statusCall(id, status string) storeCall {
	return storeCall{Op: "status", ID: id, Status: status}
}

func positionCall(id string, position int) storeCall {
	return storeCall{Op: "position", ID: id, Position: position}
}

// fakeStore is an in-memory Store that records writes and can fail on demand
type fakeStore struct {
	mu      sync.Mutex
	boardID string
	columns []*models.Column
	tasks   []*models.Task
	calls   []storeCall

	getTasksCalls int

	failWriteAt        int // 1-based UpdateTaskFields call that fails; 0 never fails
	writeCount         int
	readsFailAfterFail bool
	readsBroken        bool

	reassignErr     error
	deleteColumnErr error
}

func newFakeStore(keys ...string) *fakeStore {
	s := &fakeStore{boardID: "board-1"}
	for i, k := range keys {
		s.columns = append(s.columns, &models.Column{
			ID: "col-" + k, Key: k, BoardID: s.boardID, Position: i, Name: k,
		})
	}
	return s
}

func (s *fakeStore) addTask(id, status string, position int) *fakeStore {
	s.tasks = append(s.tasks, &models.Task{
		ID: id, BoardID: s.boardID, Status: status, Position: position, Title: id,
	})
	return s
}

func (s *fakeStore) GetColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readsBroken {
		return nil, errInjected
	}
	return cloneColumns(s.columns), nil
}

func (s *fakeStore) GetTasks(ctx context.Context, boardID string) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getTasksCalls++
	if s.readsBroken {
		return nil, errInjected
	}
	return cloneTasks(s.tasks), nil
}

func (s *fakeStore) UpdateTaskFields(ctx context.Context, taskID string, fields models.TaskFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	call := storeCall{ID: taskID}
	if fields.Status != nil {
		call.Op = "status"
		call.Status = *fields.Status
	} else {
		call.Op = "position"
		call.Position = *fields.Position
	}
	s.calls = append(s.calls, call)

	s.writeCount++
	if s.failWriteAt == s.writeCount {
		if s.readsFailAfterFail {
			s.readsBroken = true
		}
		return errInjected
	}

	for _, t := range s.tasks {
		if t.ID == taskID {
			if fields.Status != nil {
				t.Status = *fields.Status
			}
			if fields.Position != nil {
				t.Position = *fields.Position
			}
			return nil
		}
	}
	return models.ErrTaskNotFound
}

func (s *fakeStore) BulkReassignStatus(ctx context.Context, boardID, fromKey, toKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{Op: "reassign", ID: fromKey, Status: toKey})
	if s.reassignErr != nil {
		return s.reassignErr
	}
	for _, t := range s.tasks {
		if t.Status == fromKey {
			t.Status = toKey
		}
	}
	return nil
}

func (s *fakeStore) CreateColumn(ctx context.Context, boardID string, meta models.ColumnMetadata) (*models.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{Op: "create_column", ID: meta.Key})
	col := &models.Column{
		ID: "col-" + meta.Key, Key: meta.Key, BoardID: boardID,
		Position: len(s.columns), Name: meta.Name,
	}
	s.columns = append(s.columns, col)
	c := *col
	return &c, nil
}

func (s *fakeStore) DeleteColumn(ctx context.Context, columnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storeCall{Op: "delete_column", ID: columnID})
	if s.deleteColumnErr != nil {
		return s.deleteColumnErr
	}
	for i, c := range s.columns {
		if c.ID == columnID {
			s.columns = append(s.columns[:i], s.columns[i+1:]...)
			return nil
		}
	}
	return models.ErrColumnNotFound
}

func (s *fakeStore) recorded() []storeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storeCall(nil), s.calls...)
}

func (s *fakeStore) resetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *fakeStore) stored(id string) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return *t
		}
	}
	panic(fmt.Sprintf("no task %s", id))
}

// recordingPublisher collects events synchronously
type recordingPublisher struct {
	mu   sync.Mutex
	sent []events.Event
}

func (p *recordingPublisher) Connect(ctx context.Context) error { return nil }
func (p *recordingPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	return nil, nil
}
func (p *recordingPublisher) Subscribe(boardID string) error { return nil }
func (p *recordingPublisher) Close() error                   { return nil }

func (p *recordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, event)
	return nil
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.sent))
	for i, e := range p.sent {
		out[i] = e.Type
	}
	return out
}
