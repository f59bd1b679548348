package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalLoader "github.com/goliatone/go-parselet/internal/source/loader"
	"github.com/goliatone/go-parselet/pkg/definition"
	"github.com/goliatone/go-parselet/pkg/document"
	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/renderers/jsonout"
	"github.com/goliatone/go-parselet/pkg/renderers/pongo"
	"github.com/goliatone/go-parselet/pkg/renderers/yamlout"
	"github.com/goliatone/go-parselet/pkg/source"
	"github.com/goliatone/go-parselet/pkg/template"
	"github.com/goliatone/go-parselet/pkg/validation"
	"github.com/goliatone/go-parselet/pkg/value"
)

const defaultRendererName = jsonout.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom loader for documents and definitions.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that rewrites results after the
// shape check and before JSON Schema validation and rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger routes pipeline diagnostics to logger. The default discards
// them.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithShapeCheck toggles validating results against the shape derived from
// the definition. Enabled by default.
func WithShapeCheck(enabled bool) Option {
	return func(o *Orchestrator) {
		o.skipShapeCheck = !enabled
	}
}

// Orchestrator runs definitions against documents. It applies defaults (file
// and fs loader, json/yaml/template renderers) while remaining open to
// dependency injection.
type Orchestrator struct {
	loader          source.Loader
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	logger          *slog.Logger
	skipShapeCheck  bool
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one extraction.
type Request struct {
	// Source identifies the HTML page. Optional when Document is supplied.
	Source source.Source

	// Document bypasses loading and parsing of the page.
	Document *document.Document

	// DefinitionSource identifies the parselet file. Optional when Definition
	// is supplied.
	DefinitionSource source.Source

	// Definition bypasses loading and parsing of the parselet file.
	Definition *definition.Definition

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// RenderOptions is passed to the renderer. The document location and the
	// definition name are added to Globals as "source" and "definition" unless
	// already set.
	RenderOptions render.RenderOptions
}

// Result is the outcome of Extract.
type Result struct {
	Value      *value.Object
	Document   *document.Document
	Definition *definition.Definition
}

// Extract runs the pipeline up to, but excluding, rendering.
func (o *Orchestrator) Extract(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.ready(); err != nil {
		return Result{}, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return Result{}, err
	}
	def, err := o.resolveDefinition(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if checker, ok := o.transformer.(DefinitionChecker); ok {
		if err := checker.CheckDefinition(def); err != nil {
			return Result{}, fmt.Errorf("orchestrator: transformer: %w", err)
		}
	}

	tpl, err := definition.Compile(def, doc)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: compile definition: %w", err)
	}
	out, err := template.ExtractAndGroup(tpl, doc.PositionFunc())
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: extract: %w", err)
	}
	o.logger.Debug("extracted",
		"document", doc.Location(),
		"definition", def.Name,
		"fields", out.Len(),
	)

	if !o.skipShapeCheck {
		if err := validation.CheckShape(def, out).Err(); err != nil {
			return Result{}, fmt.Errorf("orchestrator: shape check: %w", err)
		}
	}
	if err := o.applyTransformer(ctx, out); err != nil {
		return Result{}, err
	}
	if len(def.Schema) > 0 {
		result, err := validation.Validate(def.Schema, out)
		if err != nil {
			return Result{}, fmt.Errorf("orchestrator: definition schema: %w", err)
		}
		if err := result.Err(); err != nil {
			return Result{}, fmt.Errorf("orchestrator: schema validation: %w", err)
		}
		o.logger.Debug("schema validated", "definition", def.Name)
	}

	return Result{Value: out, Document: doc, Definition: def}, nil
}

// Generate runs the full pipeline and returns the rendered bytes (indented
// JSON for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	options.Globals = withDefaults(options.Globals, map[string]any{
		"source":     result.Document.Location(),
		"definition": result.Definition.Name,
	})

	output, err := renderer.Render(ctx, result.Value, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("rendered", "renderer", renderer.Name(), "bytes", len(output))
	return output, nil
}

// Registry exposes the renderer registry, mainly for discovery in tools.
func (o *Orchestrator) Registry() *render.Registry {
	o.applyDefaults()
	return o.registry
}

func (o *Orchestrator) ready() error {
	if err := o.initialiseErr; err != nil {
		return err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (*document.Document, error) {
	if req.Document != nil {
		return req.Document, nil
	}
	if req.Source == nil {
		return nil, errors.New("orchestrator: source or document is required")
	}
	raw, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load document: %w", err)
	}
	doc, err := document.Parse(req.Source, raw)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse document: %w", err)
	}
	o.logger.Debug("document loaded",
		"source", req.Source.Location(),
		"bytes", len(raw),
		"elements", doc.Positions().Len(),
	)
	return doc, nil
}

func (o *Orchestrator) resolveDefinition(ctx context.Context, req Request) (*definition.Definition, error) {
	if req.Definition != nil {
		if err := req.Definition.Validate(); err != nil {
			return nil, fmt.Errorf("orchestrator: definition: %w", err)
		}
		return req.Definition, nil
	}
	if req.DefinitionSource == nil {
		return nil, errors.New("orchestrator: definition or definition source is required")
	}
	raw, err := o.loader.Load(ctx, req.DefinitionSource)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load definition: %w", err)
	}
	def, err := definition.Parse(req.DefinitionSource, raw)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse definition: %w", err)
	}
	o.logger.Debug("definition loaded", "source", req.DefinitionSource.Location(), "name", def.Name)
	return def, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, out *value.Object) error {
	if o.transformer == nil || out == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, out); err != nil {
		return fmt.Errorf("orchestrator: transform result: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(source.NewLoaderOptions())
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
		tpl, err := pongo.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default template renderer: %w", err)
		} else {
			o.registry.MustRegister(tpl)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}

// DefaultRegistry returns a registry holding the json and yaml renderers.
func DefaultRegistry() *render.Registry {
	registry, err := render.NewRegistry(jsonout.New(), yamlout.New())
	if err != nil {
		panic(err)
	}
	return registry
}

func withDefaults(globals, defaults map[string]any) map[string]any {
	out := make(map[string]any, len(globals)+len(defaults))
	for key, v := range defaults {
		out[key] = v
	}
	for key, v := range globals {
		out[key] = v
	}
	return out
}
