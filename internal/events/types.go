package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType indicates what kind of change occurred
type EventType string

const (
	EventTaskMoved      EventType = "task_moved"
	EventTasksReordered EventType = "tasks_reordered"
	EventColumnCreated  EventType = "column_created"
	EventColumnDeleted  EventType = "column_deleted"
	EventCommitFailed   EventType = "commit_failed"
	EventBoardChanged   EventType = "board_changed"
)

// Payload is the variant part of an Event. Only the types in this package implement it.
type Payload interface {
	eventType() EventType
}

// TaskMoved reports a status change of one task
type TaskMoved struct {
	TaskID string `json:"task_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// TasksReordered reports the final order of one status group after a commit
type TasksReordered struct {
	Status  string   `json:"status"`
	TaskIDs []string `json:"task_ids"`
}

// ColumnCreated reports a new column
type ColumnCreated struct {
	ColumnID string `json:"column_id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
}

// ColumnDeleted reports a removed column and where its tasks went
type ColumnDeleted struct {
	ColumnID    string `json:"column_id"`
	Key         string `json:"key"`
	FallbackKey string `json:"fallback_key"`
	Reassigned  int    `json:"reassigned"`
}

// CommitFailed is a debug event emitted when a commit sequence stops early
type CommitFailed struct {
	TaskID string `json:"task_id"`
	Step   string `json:"step"`
	From   string `json:"from"`
	To     string `json:"to"`
	Error  string `json:"error"`
}

// BoardChanged is a coarse notice that a board needs reloading
type BoardChanged struct {
	Reason string `json:"reason,omitempty"`
}

func (TaskMoved) eventType() EventType      { return EventTaskMoved }
func (TasksReordered) eventType() EventType { return EventTasksReordered }
func (ColumnCreated) eventType() EventType  { return EventColumnCreated }
func (ColumnDeleted) eventType() EventType  { return EventColumnDeleted }
func (CommitFailed) eventType() EventType   { return EventCommitFailed }
func (BoardChanged) eventType() EventType   { return EventBoardChanged }

// Event represents a board change notification
type Event struct {
	Type       EventType
	BoardID    string    // For filtering - which board was modified
	Actor      string    // Who made the change
	Timestamp  time.Time // When the event occurred
	SequenceID int64     // Monotonically increasing sequence number for ordering
	Payload    Payload
}

// NewEvent builds an event whose Type matches the payload variant
func NewEvent(boardID, actor string, payload Payload) Event {
	return Event{
		Type:      payload.eventType(),
		BoardID:   boardID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

type wireEvent struct {
	Type       EventType       `json:"type"`
	BoardID    string          `json:"board_id"`
	Actor      string          `json:"actor,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	SequenceID int64           `json:"sequence_id"`
	Payload    json.RawMessage `json:"payload"`
}

// MarshalJSON writes the type tag alongside the variant payload
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("event %q has no payload", e.Type)
	}
	if e.Type != e.Payload.eventType() {
		return nil, fmt.Errorf("event type %q does not match payload %T", e.Type, e.Payload)
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return json.Marshal(wireEvent{
		Type:       e.Type,
		BoardID:    e.BoardID,
		Actor:      e.Actor,
		Timestamp:  e.Timestamp,
		SequenceID: e.SequenceID,
		Payload:    payload,
	})
}

// UnmarshalJSON dispatches on the type tag and rejects unknown types
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var (
		payload Payload
		err     error
	)
	switch w.Type {
	case EventTaskMoved:
		payload, err = decodePayload[TaskMoved](w.Payload)
	case EventTasksReordered:
		payload, err = decodePayload[TasksReordered](w.Payload)
	case EventColumnCreated:
		payload, err = decodePayload[ColumnCreated](w.Payload)
	case EventColumnDeleted:
		payload, err = decodePayload[ColumnDeleted](w.Payload)
	case EventCommitFailed:
		payload, err = decodePayload[CommitFailed](w.Payload)
	case EventBoardChanged:
		payload, err = decodePayload[BoardChanged](w.Payload)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, w.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", w.Type, err)
	}

	*e = Event{
		Type:       w.Type,
		BoardID:    w.BoardID,
		Actor:      w.Actor,
		Timestamp:  w.Timestamp,
		SequenceID: w.SequenceID,
		Payload:    payload,
	}
	return nil
}

func decodePayload[T Payload](raw json.RawMessage) (Payload, error) {
	var p T
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}
