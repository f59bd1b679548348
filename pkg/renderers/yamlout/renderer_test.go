package yamlout

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parselet/pkg/render"
	"github.com/goliatone/go-parselet/pkg/value"
)

func TestRenderer_KeepsOrder(t *testing.T) {
	tweet := value.NewObject()
	tweet.Set("author", value.String("ann"))
	tweet.Set("tags", value.Strings("go", "html"))

	out := value.NewObject()
	out.Set("title", value.String("wall"))
	out.Set("count", value.Scalar{V: 2})
	out.Set("tweets", value.List{tweet})

	got, err := New().Render(context.Background(), out, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `title: wall
count: 2
tweets:
  - author: ann
    tags:
      - go
      - html
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
