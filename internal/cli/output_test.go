package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// ============================================================================
// Test Helpers
// ============================================================================

// captureStdout runs fn with os.Stdout redirected and returns what it wrote
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

type mockDataWithoutID struct {
	Name  string
	Value int
}

// ============================================================================
// Success Method Tests
// ============================================================================

func TestOutputFormatter_Success_JSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		validate func(t *testing.T, result map[string]any)
	}{
		{
			name: "map data",
			data: map[string]any{"test": "value"},
			validate: func(t *testing.T, result map[string]any) {
				dataMap := result["data"].(map[string]any)
				if dataMap["test"] != "value" {
					t.Errorf("Expected data.test to be 'value', got %v", dataMap["test"])
				}
			},
		},
		{
			name: "model with ID",
			data: &models.Board{ID: "b-1", Name: "Test"},
			validate: func(t *testing.T, result map[string]any) {
				dataMap := result["data"].(map[string]any)
				if dataMap["Name"] != "Test" {
					t.Errorf("Expected data.Name to be 'Test', got %v", dataMap["Name"])
				}
			},
		},
		{
			name: "nil data",
			data: nil,
			validate: func(t *testing.T, result map[string]any) {
				if result["data"] != nil {
					t.Errorf("Expected data to be nil, got %v", result["data"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &OutputFormatter{JSON: true}
			output := captureStdout(t, func() {
				if err := formatter.Success(tt.data); err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			})

			var result map[string]any
			if err := json.Unmarshal([]byte(output), &result); err != nil {
				t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, output)
			}
			if result["success"] != true {
				t.Error("Expected success to be true")
			}
			tt.validate(t, result)
		})
	}
}

func TestOutputFormatter_Success_Quiet(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		wantOutput string
	}{
		{"board", &models.Board{ID: "board-1"}, "board-1"},
		{"column", &models.Column{ID: "column-1"}, "column-1"},
		{"task", &models.Task{ID: "task-1"}, "task-1"},
		{"struct without GetID falls through", mockDataWithoutID{Name: "Test", Value: 42}, "{Name:Test Value:42}"},
		{"string", "plain string output", "plain string output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &OutputFormatter{Quiet: true}
			output := captureStdout(t, func() {
				if err := formatter.Success(tt.data); err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			})
			if got := strings.TrimSpace(output); got != tt.wantOutput {
				t.Errorf("Expected output '%s', got '%s'", tt.wantOutput, got)
			}
		})
	}
}

func TestNewFormatter_JSONWinsOverQuiet(t *testing.T) {
	f := NewFormatter(true, true)
	if !f.JSON || f.Quiet {
		t.Errorf("Expected JSON only, got %+v", f)
	}
}

func TestJSONSuccess(t *testing.T) {
	formatter := &OutputFormatter{JSON: true}
	output := captureStdout(t, func() {
		_ = formatter.JSONSuccess(map[string]any{"task_id": "t-1"})
	})

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, output)
	}
	if result["success"] != true || result["task_id"] != "t-1" {
		t.Errorf("Unexpected output %v", result)
	}
}

// ============================================================================
// Error Method Tests
// ============================================================================

func TestOutputFormatter_Error_JSON(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{"standard error", "TEST_ERROR", "something went wrong", ""},
		{"special characters", "SPECIAL_CHAR", "error with \"quotes\" and \n newlines", ""},
		{"with suggestion", "NO_BOARD", "no board specified", "Set OPSBOARD_BOARD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &OutputFormatter{JSON: true}
			output := captureStdout(t, func() {
				if err := formatter.ErrorWithSuggestion(tt.code, tt.message, tt.suggestion); err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			})

			var result map[string]any
			if err := json.Unmarshal([]byte(output), &result); err != nil {
				t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, output)
			}
			if result["success"] != false {
				t.Error("Expected success to be false")
			}

			errorData := result["error"].(map[string]any)
			if errorData["code"] != tt.code {
				t.Errorf("Expected code '%s', got '%v'", tt.code, errorData["code"])
			}
			if errorData["message"] != tt.message {
				t.Errorf("Expected message '%s', got '%v'", tt.message, errorData["message"])
			}
			_, hasSuggestion := errorData["suggestion"]
			if hasSuggestion != (tt.suggestion != "") {
				t.Errorf("Unexpected suggestion presence in %v", errorData)
			}
		})
	}
}

func TestOutputFormatter_Error_HumanWritesNothingToStdout(t *testing.T) {
	formatter := &OutputFormatter{}
	output := captureStdout(t, func() {
		_ = formatter.Error("TEST_ERROR", "goes to stderr")
	})
	if output != "" {
		t.Errorf("Expected no stdout output, got %q", output)
	}
}
