package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// NewFormatter builds a formatter from the --json and --quiet flags.
// JSON wins when both are set.
func NewFormatter(jsonOutput, quietMode bool) *OutputFormatter {
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode && !jsonOutput}
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() string }); ok {
			fmt.Println(idGetter.GetID())
			return nil
		}
	}

	if f.JSON {
		return f.JSONSuccess(map[string]any{"data": data})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// JSONSuccess writes fields alongside "success": true as one JSON object
func (f *OutputFormatter) JSONSuccess(fields map[string]any) error {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["success"] = true
	return json.NewEncoder(os.Stdout).Encode(out)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
	}
	return nil
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data any) error {
	fmt.Printf("%+v\n", data)
	return nil
}
