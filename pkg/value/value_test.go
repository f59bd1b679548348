package value

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func sample() *Object {
	inner := NewObject()
	inner.Set("zeta", String("z"))
	inner.Set("alpha", Strings("a", "b"))

	root := NewObject()
	root.Set("title", String("Wall"))
	root.Set("items", List{inner})
	root.Set("empty", List(nil))
	return root
}

func TestObject_JSONKeepsKeyOrder(t *testing.T) {
	data, err := json.Marshal(sample())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"Wall","items":[{"zeta":"z","alpha":["a","b"]}],"empty":[]}`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_YAMLKeepsKeyOrder(t *testing.T) {
	data, err := yaml.Marshal(sample())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	if strings.Index(out, "title") > strings.Index(out, "items") {
		t.Fatalf("expected title before items:\n%s", out)
	}
	if strings.Index(out, "zeta") > strings.Index(out, "alpha") {
		t.Fatalf("expected zeta before alpha:\n%s", out)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["title"] != "Wall" {
		t.Fatalf("unexpected decoded title %v", decoded["title"])
	}
}

func TestObject_SetKeepsFirstPosition(t *testing.T) {
	obj := NewObject()
	obj.Set("a", String("1"))
	obj.Set("b", String("2"))
	obj.Set("a", String("3"))

	if diff := cmp.Diff([]string{"a", "b"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	got, _ := obj.Get("a")
	if got != String("3") {
		t.Fatalf("expected overwritten value, got %v", got)
	}
}

func TestObject_Reorder(t *testing.T) {
	obj := NewObject()
	obj.Set("c", String("c"))
	obj.Set("x", String("x"))
	obj.Set("a", String("a"))
	obj.Reorder([]string{"a", "missing", "c"})

	if diff := cmp.Diff([]string{"a", "c", "x"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(sample(), sample()) {
		t.Fatalf("identical trees must be equal")
	}
	other := sample()
	other.Set("title", String("other"))
	if Equal(sample(), other) {
		t.Fatalf("different titles must not be equal")
	}
	reordered := sample()
	reordered.Reorder([]string{"items"})
	if Equal(sample(), reordered) {
		t.Fatalf("key order is part of equality")
	}
}

func TestPlain(t *testing.T) {
	want := map[string]any{
		"title": "Wall",
		"items": []any{map[string]any{"zeta": "z", "alpha": []any{"a", "b"}}},
		"empty": []any{},
	}
	if diff := cmp.Diff(want, Plain(sample())); diff != "" {
		t.Fatalf("plain mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_DeleteAndRename(t *testing.T) {
	obj := sample()
	if !obj.Rename("title", "heading") {
		t.Fatalf("rename should report the key as present")
	}
	if obj.Has("title") {
		t.Fatalf("old key still present")
	}
	if !obj.Delete("empty") {
		t.Fatalf("delete should report the key as present")
	}
	if obj.Delete("empty") {
		t.Fatalf("second delete should report a missing key")
	}
	if obj.Rename("missing", "x") {
		t.Fatalf("rename of a missing key should fail")
	}
	if diff := cmp.Diff([]string{"heading", "items"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}
