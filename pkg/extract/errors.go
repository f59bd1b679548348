package extract

import (
	"errors"
	"fmt"
)

// ErrNoMatch is reported when a regex accessor finds nothing in a node's text.
var ErrNoMatch = errors.New("extract: no match")

// MatchError describes the node a regex accessor failed on.
type MatchError struct {
	Pattern  string
	Text     string
	Position int
}

func (e *MatchError) Error() string {
	text := e.Text
	if runes := []rune(text); len(runes) > 60 {
		text = string(runes[:57]) + "..."
	}
	return fmt.Sprintf("extract: pattern %q has no match in node %d text %q", e.Pattern, e.Position, text)
}

// Unwrap lets errors.Is match ErrNoMatch.
func (e *MatchError) Unwrap() error {
	return ErrNoMatch
}
