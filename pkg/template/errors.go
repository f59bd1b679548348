package template

import (
	"errors"
	"fmt"
)

// ErrMalformedShape marks template values that are not one of the known
// variants, or that appear in a pass they do not belong to.
var ErrMalformedShape = errors.New("template: malformed shape")

// ShapeError names the offending field path.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("template: field %s: %s", path, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedShape.
func (e *ShapeError) Unwrap() error {
	return ErrMalformedShape
}

func shapeError(path, format string, args ...any) error {
	return &ShapeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
