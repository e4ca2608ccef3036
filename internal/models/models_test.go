package models

import (
	"errors"
	"testing"
)

// ============================================================================
// Error Tests
// ============================================================================

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		err             error
		expectedMessage string
	}{
		{ErrColumnLimitReached, "board already has the maximum of 10 columns"},
		{ErrTaskNotFound, "task not found"},
		{ErrColumnNotFound, "column not found"},
		{ErrBoardNotFound, "board not found"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expectedMessage {
			t.Errorf("Expected error message '%s', got '%s'", tt.expectedMessage, tt.err.Error())
		}
	}
}

func TestErrors_Unique(t *testing.T) {
	if errors.Is(ErrTaskNotFound, ErrColumnNotFound) {
		t.Error("ErrTaskNotFound should not equal ErrColumnNotFound")
	}
	if errors.Is(ErrColumnLimitReached, ErrDuplicateColumnKey) {
		t.Error("ErrColumnLimitReached should not equal ErrDuplicateColumnKey")
	}
}

// ============================================================================
// TaskFields Tests
// ============================================================================

func TestTaskFields_IsEmpty(t *testing.T) {
	if !(TaskFields{}).IsEmpty() {
		t.Error("Zero TaskFields should be empty")
	}
	if StatusField("todo").IsEmpty() {
		t.Error("StatusField should not be empty")
	}
	if PositionField(0).IsEmpty() {
		t.Error("PositionField(0) should not be empty")
	}
}

func TestTaskFields_Builders(t *testing.T) {
	f := StatusField("doing")
	if f.Status == nil || *f.Status != "doing" {
		t.Errorf("Expected status 'doing', got %v", f.Status)
	}
	if f.Position != nil {
		t.Error("StatusField should not set position")
	}

	p := PositionField(3)
	if p.Position == nil || *p.Position != 3 {
		t.Errorf("Expected position 3, got %v", p.Position)
	}
	if p.Status != nil {
		t.Error("PositionField should not set status")
	}
}

func TestTask_Clone(t *testing.T) {
	orig := &Task{ID: "a", Status: "todo", Position: 1}
	c := orig.Clone()
	c.Position = 5

	if orig.Position != 1 {
		t.Errorf("Clone should not alias original, got position %d", orig.Position)
	}
}

func TestDefaultColumns(t *testing.T) {
	if len(DefaultColumns) == 0 {
		t.Fatal("Expected default columns")
	}
	if len(DefaultColumns) > MaxColumnsPerBoard {
		t.Errorf("Default columns exceed cap: %d", len(DefaultColumns))
	}
	seen := map[string]bool{}
	for _, c := range DefaultColumns {
		if seen[c.Key] {
			t.Errorf("Duplicate default key %q", c.Key)
		}
		seen[c.Key] = true
	}
}
