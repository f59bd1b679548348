package parselet_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parselet"
	"github.com/goliatone/go-parselet/pkg/document"
	"github.com/goliatone/go-parselet/pkg/extract"
	"github.com/goliatone/go-parselet/pkg/orchestrator"
	"github.com/goliatone/go-parselet/pkg/source"
	"github.com/goliatone/go-parselet/pkg/template"
)

func TestExtractAndGroup_CallerBuiltTemplate(t *testing.T) {
	doc := document.MustParseString(`<dl>
<dt>go</dt><dd>fast</dd><dd>simple</dd>
<dt>html</dt><dd>markup</dd>
</dl>`)

	root := template.NewRecord().Set("terms", template.Repeat(template.NewRecord().
		Set("term", template.Select(doc.Find("dt"))).
		Set("notes", template.Many(doc.Find("dd")))))

	out, err := parselet.ExtractAndGroup(doc, root)
	if err != nil {
		t.Fatalf("extract and group: %v", err)
	}
	got, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"terms":[{"term":"go","notes":["fast","simple"]},{"term":"html","notes":["markup"]}]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestPositionOf_DrivesExtract(t *testing.T) {
	doc := document.MustParseString(`<p>a</p><p>b</p>`)
	seq, err := extract.Extract(doc.Find("p").Nodes, nil, parselet.PositionOf(doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, seq.Simple()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_FromFS(t *testing.T) {
	files := fstest.MapFS{
		"page.html": {Data: []byte(`<h1>Hi</h1><a href="/x">x</a><a href="/y">y</a>`)},
		"def.yaml":  {Data: []byte("title: h1\nlinks: [\"a | @href\"]\n")},
	}
	loader := parselet.NewLoader(source.WithFileSystem(files))

	out, err := parselet.Generate(context.Background(),
		source.FromFS("page.html"), source.FromFS("def.yaml"), "json",
		orchestrator.WithLoader(loader),
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "{\n  \"title\": \"Hi\",\n  \"links\": [\n    \"/x\",\n    \"/y\"\n  ]\n}\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_ExampleDefinitions(t *testing.T) {
	defs, err := filepath.Glob(filepath.Join("examples", "*", "*.yaml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	for _, defPath := range defs {
		page := filepath.Join(filepath.Dir(defPath), "page.html")
		if _, err := os.Stat(page); err != nil {
			continue
		}
		if _, err := parselet.Generate(context.Background(), source.FromFile(page), source.FromFile(defPath), ""); err != nil {
			t.Fatalf("%s: %v", defPath, err)
		}
	}
}

func TestLoadDocument_XPathExample(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join("examples", "hackernews")

	doc, err := parselet.LoadDocument(ctx, source.FromFile(filepath.Join(dir, "page.html")))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	gen := parselet.NewOrchestrator()
	res, err := gen.Extract(ctx, parselet.Request{
		Document:         doc,
		DefinitionSource: source.FromFile(filepath.Join(dir, "stories.yaml")),
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	got, err := json.Marshal(res.Value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"stories":[` +
		`{"title":"Go 1.22 is released","url":"https://go.dev/blog/go1.22","points":"412","user":"gopher"},` +
		`{"title":"Parsing HTML without a browser","url":"https://example.org/html-parsing","points":"97","user":"scraper"}]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}
