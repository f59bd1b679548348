package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-parselet/pkg/value"
)

// Issue is one validation failure.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// Result aggregates the outcome of a validation run.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Err converts an invalid result into an error.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Issues: r.Issues}
}

// Error is returned when a value fails validation.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "validation: value is invalid"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "validation: " + strings.Join(parts, "; ")
}

// jsonValue converts v into the generic shape produced by encoding/json so
// validators see numbers as float64 regardless of how constants were typed.
func jsonValue(v value.Value) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("validation: encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("validation: decode value: %w", err)
	}
	return out, nil
}

// fieldPath turns an instance pointer such as "/tweets/0/author" into
// "tweets.0.author".
func fieldPath(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}
