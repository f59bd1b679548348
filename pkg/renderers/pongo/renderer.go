// Package pongo renders extraction results through pongo2 templates.
//
// Result fields are available at the top level of the template context and
// as a whole under "result". RenderOptions.Globals are visible as well,
// without overriding result fields.
package pongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rendertemplate "github.com/goliatone/go-parselet/pkg/render/template"
	"github.com/goliatone/go-parselet/pkg/render/template/gotemplate"

	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/value"
)

// Name is the registry key of the template renderer.
const Name = "template"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateRenderer rendertemplate.TemplateRenderer
	contentType      string
}

// WithTemplateRenderer injects a preconfigured engine. Named templates are
// then resolved by that engine instead of relative to the template path.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithContentType overrides the reported content type.
func WithContentType(contentType string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(contentType) != "" {
			cfg.contentType = contentType
		}
	}
}

// Renderer executes the template named by RenderOptions.Template.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	contentType string
}

// New constructs the template renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{contentType: "text/plain; charset=utf-8"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Renderer{templates: cfg.templateRenderer, contentType: cfg.contentType}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return r.contentType
}

// Render executes options.Template, which is either inline template content
// or the path of a template file.
func (r *Renderer) Render(ctx context.Context, result value.Value, options render.RenderOptions) ([]byte, error) {
	tpl := strings.TrimSpace(options.Template)
	if tpl == "" {
		return nil, errors.New("template renderer: a template is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		out string
		err error
	)
	if r.templates != nil {
		out, err = r.renderInjected(tpl, result, options)
	} else {
		out, err = renderStandalone(tpl, result, options)
	}
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}
	return []byte(out), nil
}

// renderInjected hands the template to the injected engine. Its globals are
// fixed, so request globals are merged into the data instead.
func (r *Renderer) renderInjected(tpl string, result value.Value, options render.RenderOptions) (string, error) {
	data := contextData(result, options.Globals)
	if isTemplateContent(tpl) {
		return r.templates.RenderString(options.Template, data)
	}
	return r.templates.RenderTemplate(tpl, data)
}

// renderStandalone builds an engine for a single render. Request globals
// seed the engine and template files resolve includes against their own
// directory.
func renderStandalone(tpl string, result value.Value, options render.RenderOptions) (string, error) {
	data := contextData(result, nil)
	if isTemplateContent(tpl) {
		engine, err := gotemplate.New(gotemplate.WithGlobalData(options.Globals))
		if err != nil {
			return "", err
		}
		return engine.RenderString(options.Template, data)
	}

	ext := filepath.Ext(tpl)
	engine, err := gotemplate.New(
		gotemplate.WithBaseDir(filepath.Dir(tpl)),
		gotemplate.WithExtension(ext),
		gotemplate.WithGlobalData(options.Globals),
	)
	if err != nil {
		return "", err
	}
	if ext == "" {
		content, err := os.ReadFile(tpl)
		if err != nil {
			return "", err
		}
		return engine.RenderString(string(content), data)
	}
	return engine.RenderTemplate(filepath.Base(tpl), data)
}

func isTemplateContent(tpl string) bool {
	return strings.Contains(tpl, "{{") || strings.Contains(tpl, "{%")
}

func contextData(result value.Value, globals map[string]any) map[string]any {
	plain := value.Plain(result)
	data := make(map[string]any, len(globals)+1)
	for key, v := range globals {
		data[key] = v
	}
	if fields, ok := plain.(map[string]any); ok {
		for key, v := range fields {
			data[key] = v
		}
	}
	data["result"] = plain
	return data
}
