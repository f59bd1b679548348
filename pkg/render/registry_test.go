package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/value"
)

type stubRenderer struct {
	name string
	out  string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }

func (s stubRenderer) Render(context.Context, value.Value, render.RenderOptions) ([]byte, error) {
	return []byte(s.out), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg, err := render.NewRegistry(stubRenderer{name: "yaml"}, stubRenderer{name: "JSON"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if diff := cmp.Diff([]string{"json", "yaml"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has(" Json ") {
		t.Fatal("expected case-insensitive lookup")
	}
	if _, err := reg.Get("json"); err != nil {
		t.Fatalf("get json: %v", err)
	}

	_, err = reg.Get("xml")
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
	if !strings.Contains(err.Error(), "available: json, yaml") {
		t.Fatalf("expected available names in error, got %v", err)
	}
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	if _, err := render.NewRegistry(stubRenderer{name: "a"}, stubRenderer{name: "A"}); err == nil {
		t.Fatal("expected duplicate error")
	}

	reg, err := render.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("expected error for nil renderer")
	}
	if err := reg.Register(stubRenderer{name: "  "}); err == nil {
		t.Fatal("expected error for blank name")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected MustRegister to panic on duplicates")
		}
	}()
	reg.MustRegister(stubRenderer{name: "json"})
	reg.MustRegister(stubRenderer{name: "json"})
}

func TestRegistry_Replace(t *testing.T) {
	reg, err := render.NewRegistry(stubRenderer{name: "json", out: "old"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := reg.Replace(stubRenderer{name: "json", out: "new"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	r, err := reg.Get("json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	out, _ := r.Render(context.Background(), nil, render.RenderOptions{})
	if string(out) != "new" {
		t.Fatalf("expected replaced renderer, got %q", out)
	}
}

func TestRenderOptions_IndentOr(t *testing.T) {
	if got := (render.RenderOptions{}).IndentOr(2); got != 2 {
		t.Fatalf("expected fallback, got %d", got)
	}
	if got := (render.RenderOptions{Indent: 4}).IndentOr(2); got != 4 {
		t.Fatalf("expected explicit indent, got %d", got)
	}
}
