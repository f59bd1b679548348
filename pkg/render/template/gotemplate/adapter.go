// Package gotemplate builds github.com/goliatone/go-template engines
// configured for rendering extraction results.
package gotemplate

import (
	"encoding/json"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-parselet/pkg/render/template"
)

var _ template.TemplateRenderer = (*gotemplatepkg.Engine)(nil)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
	globals   map[string]any
}

// WithBaseDir loads named templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads named templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets the suffix appended to template names that lack it.
// Defaults to ".tpl".
func WithExtension(ext string) Option {
	return func(cfg *config) {
		cfg.extension = strings.TrimSpace(ext)
	}
}

// WithGlobalData seeds values visible to every template. Render data wins
// over globals with the same key.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// New constructs a go-template engine with the tojson filter registered.
// Without WithBaseDir or WithFS, named templates resolve against the working
// directory.
func New(options ...Option) (*gotemplatepkg.Engine, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	opts := []gotemplatepkg.Option{
		gotemplatepkg.WithTemplateFunc(map[string]any{"tojson": filterJSON}),
	}
	if cfg.templates != nil {
		opts = append(opts, gotemplatepkg.WithFS(cfg.templates))
	}
	if cfg.baseDir != "" || cfg.templates == nil {
		dir := cfg.baseDir
		if dir == "" {
			dir = "."
		}
		opts = append(opts, gotemplatepkg.WithBaseDir(dir))
	}
	if cfg.extension != "" {
		opts = append(opts, gotemplatepkg.WithExtension(cfg.extension))
	}
	if len(cfg.globals) > 0 {
		opts = append(opts, gotemplatepkg.WithGlobalData(cfg.globals))
	}
	return gotemplatepkg.NewRenderer(opts...)
}

// filterJSON renders its input as compact JSON. The output is marked safe.
func filterJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw, err := json.Marshal(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsSafeValue(string(raw)), nil
}
