package definition

import "fmt"

// PathError reports a problem at a field path of a definition file.
type PathError struct {
	Source string
	Path   string
	Reason string
	Line   int
}

func (e *PathError) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	msg := "definition: "
	if e.Source != "" {
		msg += e.Source
		if e.Line > 0 {
			msg += fmt.Sprintf(":%d", e.Line)
		}
		msg += ": "
	}
	return msg + "field " + path + ": " + e.Reason
}

func pathError(path, reason string) error {
	return &PathError{Path: path, Reason: reason}
}
