package render

import (
	"context"

	"github.com/goliatone/go-parselet/pkg/value"
)

// Renderer converts an extraction result into bytes (JSON, YAML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, result value.Value, options RenderOptions) ([]byte, error)
}
