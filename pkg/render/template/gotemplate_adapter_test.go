package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-parselet/pkg/render/template"
	"github.com/goliatone/go-parselet/pkg/render/template/gotemplate"
	"github.com/goliatone/go-parselet/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	assertGolden(t, "hello", result, written)
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	assertGolden(t, "use-global", result, written)
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	assertGolden(t, "use-filter", result, written)
}

func TestGoTemplateEngine_RenderStringWithResultTree(t *testing.T) {
	engine := newEngine(t)

	data := map[string]any{
		"title": "  Tweet wall ",
		"tweets": []any{
			map[string]any{"author": "ann", "tags": []string{"go", "html"}},
			map[string]any{"author": "bob"},
		},
	}
	got, err := engine.Render(`{{ title|trim }}:{% for t in tweets %} {{ t.author }}{% endfor %} {{ tweets.0.tags|tojson }}`, data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	want := `Tweet wall: ann bob ["go","html"]`
	if got != want {
		t.Fatalf("render string mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestGoTemplateEngine_WithGlobalData(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithGlobalData(map[string]any{"settings": map[string]any{"env": "staging"}}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})
	assertGolden(t, "use-global", result, written)
}

func TestGoTemplateEngine_WithExtensionAndBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "card.html"), []byte("<b>{{ name }}</b>"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithExtension(".html"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderTemplate("card", map[string]any{"name": "Ada & Bob"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if want := "<b>Ada &amp; Bob</b>"; got != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, got)
	}
}

func assertGolden(t *testing.T, name, result, written string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if testsupport.WriteMaybeGolden(t, path, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, path)
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func newEngine(t *testing.T) template.TemplateRenderer {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
