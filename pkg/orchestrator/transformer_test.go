package orchestrator_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parselet/pkg/definition"
	"github.com/goliatone/go-parselet/pkg/document"
	"github.com/goliatone/go-parselet/pkg/orchestrator"
	"github.com/goliatone/go-parselet/pkg/testsupport"
)

func mustPreset(t *testing.T, raw string) *orchestrator.JSONPresetTransformer {
	t.Helper()
	preset, err := orchestrator.NewJSONPresetTransformer([]byte(raw))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	return preset
}

func TestJSONPresetTransformer_FixtureDocument(t *testing.T) {
	t.Parallel()

	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "wall.html"))
	def := testsupport.LoadDefinition(t, filepath.Join("testdata", "tweets.yaml"))
	preset := mustPreset(t, `{"drop": ["tweets.tags", "tweets.link"], "set": {"tweets.source": "wall"}}`)

	result, err := orchestrator.New(orchestrator.WithTransformer(preset)).Extract(testsupport.Context(), orchestrator.Request{
		Document:   doc,
		Definition: def,
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	tweets, ok := result.Value.Get("tweets")
	if !ok {
		t.Fatal("tweets missing from result")
	}
	type tweet struct {
		Author string `json:"author"`
		Year   string `json:"year"`
		Source string `json:"source"`
	}
	got := testsupport.MustJSON(t, tweets)
	want := testsupport.MustJSON(t, []tweet{
		{Author: "ann", Year: "2014", Source: "wall"},
		{Author: "bob", Year: "2015", Source: "wall"},
		{Author: "cy", Year: "2016", Source: "wall"},
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tweets mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONPresetTransformer_AbsentFieldsAreSkipped(t *testing.T) {
	t.Parallel()

	def := definition.MustParse(`
fields:
  items:
    - author: ".t .a"
      tags: [".t .tag"]
`)
	preset := mustPreset(t, `{"drop": ["items.tags"], "rename": {"items.tags": "labels"}}`)

	pages := map[string]string{
		"no tags":  `<div class="t"><b class="a">ann</b></div><div class="t"><b class="a">bob</b></div>`,
		"no items": `<p>nothing here</p>`,
	}
	wants := map[string]string{
		"no tags":  `{"items":[{"author":"ann"},{"author":"bob"}]}`,
		"no items": `{"items":[]}`,
	}
	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			result, err := orchestrator.New(orchestrator.WithTransformer(preset)).Extract(context.Background(), orchestrator.Request{
				Document:   document.MustParseString(page),
				Definition: def,
			})
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			got := strings.Join(strings.Fields(testsupport.MustJSON(t, result.Value)), "")
			if diff := cmp.Diff(wants[name], got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONPresetTransformer_CheckDefinition(t *testing.T) {
	t.Parallel()

	def := definition.MustParse(`
fields:
  title: h1
  meta:
    lang: "html | @lang"
  tweets:
    - author: ".tweet .author"
`)
	tests := []struct {
		name    string
		preset  string
		wantErr string
	}{
		{name: "known paths", preset: `{"drop": ["title"], "rename": {"tweets.author": "user"}, "set": {"origin": "x", "meta.v": 1, "tweets.kind": "t"}}`},
		{name: "unknown drop", preset: `{"drop": ["tweets.tag"]}`, wantErr: `drop "tweets.tag"`},
		{name: "unknown rename", preset: `{"rename": {"titel": "name"}}`, wantErr: `rename "titel"`},
		{name: "set under leaf", preset: `{"set": {"title.x": 1}}`, wantErr: `set "title.x"`},
		{name: "set under unknown", preset: `{"set": {"nope.x": 1}}`, wantErr: `set "nope.x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mustPreset(t, tt.preset).CheckDefinition(def)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
