// Package parselet extracts structured data from HTML pages. A definition maps
// output fields to selectors; repeatable records are rebuilt from document
// order, so values that share no common container still group correctly.
//
// The root package re-exports the common entry points. Lower level building
// blocks live under pkg/: extract (positioned values), template (grouping),
// definition (parselet files), orchestrator (the full pipeline).
package parselet

import (
	"context"

	"github.com/goliatone/go-parselet/pkg/document"
	"github.com/goliatone/go-parselet/pkg/extract"
	"github.com/goliatone/go-parselet/pkg/orchestrator"
	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/source"
	"github.com/goliatone/go-parselet/pkg/template"
	"github.com/goliatone/go-parselet/pkg/value"
)

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads the page and the definition, extracts, and renders with the
// named renderer ("json" when empty).
func Generate(ctx context.Context, page, def source.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:           page,
		DefinitionSource: def,
		Renderer:         rendererName,
	})
}

// ExtractAndGroup runs the extraction and grouping passes over a template
// built by the caller against doc.
func ExtractAndGroup(doc *document.Document, root *template.Record) (*value.Object, error) {
	return template.ExtractAndGroup(root, doc.PositionFunc())
}

// PositionOf returns the position function for doc, for callers driving
// extract.Extract directly.
func PositionOf(doc *document.Document) extract.PositionFunc {
	return doc.PositionFunc()
}

// LoadDocument reads and parses an HTML page with a loader built from
// options.
func LoadDocument(ctx context.Context, src source.Source, options ...source.LoaderOption) (*document.Document, error) {
	raw, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return document.Parse(src, raw)
}
