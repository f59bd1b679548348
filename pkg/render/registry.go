package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownRenderer is returned by Get for names that were never registered.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry stores output renderers by name. Names are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates a registry holding renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]Renderer)}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a renderer under its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	name, err := rendererKey(renderer)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// Replace registers renderer, overwriting any renderer of the same name.
func (r *Registry) Replace(renderer Renderer) error {
	name, err := rendererKey(renderer)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.renderers[name] = renderer
	r.mu.Unlock()
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownRenderer, name, strings.Join(r.namesLocked(), ", "))
	}
	return renderer, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[normalize(name)]
	return ok
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func rendererKey(renderer Renderer) (string, error) {
	if renderer == nil {
		return "", errors.New("render: renderer is required")
	}
	name := normalize(renderer.Name())
	if name == "" {
		return "", errors.New("render: renderer name is required")
	}
	return name, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
