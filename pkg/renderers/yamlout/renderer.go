// Package yamlout renders extraction results as YAML.
package yamlout

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/value"
)

// Name is the registry key of the YAML renderer.
const Name = "yaml"

// Renderer writes results as a YAML document.
type Renderer struct{}

// New returns a YAML renderer.
func New() *Renderer {
	return &Renderer{}
}

func (*Renderer) Name() string {
	return Name
}

func (*Renderer) ContentType() string {
	return "application/yaml"
}

// Render encodes result. Compact has no effect on YAML output.
func (*Renderer) Render(_ context.Context, result value.Value, options render.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(options.IndentOr(2))
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("yaml renderer: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml renderer: flush: %w", err)
	}
	return buf.Bytes(), nil
}
