package jsonout

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/value"
)

func result() *value.Object {
	tweet := value.NewObject()
	tweet.Set("author", value.String("ann"))
	tweet.Set("tags", value.Strings("go"))

	out := value.NewObject()
	out.Set("title", value.String("wall"))
	out.Set("tweets", value.List{tweet})
	out.Set("empty", value.List(nil))
	return out
}

func TestRenderer_IndentedKeepsOrder(t *testing.T) {
	got, err := New().Render(context.Background(), result(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{
  "title": "wall",
  "tweets": [
    {
      "author": "ann",
      "tags": [
        "go"
      ]
    }
  ],
  "empty": []
}
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_Compact(t *testing.T) {
	got, err := New().Render(context.Background(), result(), render.RenderOptions{Compact: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{"title":"wall","tweets":[{"author":"ann","tags":["go"]}],"empty":[]}` + "\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_KeepsMarkupUnescaped(t *testing.T) {
	tweet := value.NewObject()
	tweet.Set("body", value.String(`<b>Go</b> & "HTML"`))
	tweet.Set("meta", value.Scalar{V: map[string]any{"link": "<a href=\"/x?a=1&b=2\">x</a>"}})
	out := value.NewObject()
	out.Set("tweets", value.List{tweet})

	got, err := New().Render(context.Background(), out, render.RenderOptions{Compact: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{"tweets":[{"body":"<b>Go</b> & \"HTML\"","meta":{"link":"<a href=\"/x?a=1&b=2\">x</a>"}}]}` + "\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
