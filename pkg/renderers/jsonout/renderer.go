// Package jsonout renders extraction results as JSON, keeping the field
// order of the definition.
package jsonout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/value"
)

// Name is the registry key of the JSON renderer.
const Name = "json"

// Renderer writes results as JSON.
type Renderer struct{}

// New returns a JSON renderer.
func New() *Renderer {
	return &Renderer{}
}

func (*Renderer) Name() string {
	return Name
}

func (*Renderer) ContentType() string {
	return "application/json"
}

// Render encodes result without HTML escaping. Output ends with a newline.
func (*Renderer) Render(_ context.Context, result value.Value, options render.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !options.Compact {
		enc.SetIndent("", strings.Repeat(" ", options.IndentOr(2)))
	}
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("json renderer: encode: %w", err)
	}
	return buf.Bytes(), nil
}
