package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-parselet/pkg/definition"
	"github.com/goliatone/go-parselet/pkg/value"
)

// Transformer rewrites an extraction result in place.
type Transformer interface {
	Transform(ctx context.Context, result *value.Object) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, result *value.Object) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, result *value.Object) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, result)
}

// DefinitionChecker is implemented by transformers that can reject a
// definition before extraction runs. The orchestrator calls it once per
// request.
type DefinitionChecker interface {
	CheckDefinition(def *definition.Definition) error
}

// JSONPresetTransformer applies declarative rewrites loaded from JSON. Paths
// are dotted field names; lists along a path are traversed element by
// element:
//
//	{
//	  "set":    {"origin": "wall"},
//	  "rename": {"tweets.author": "user"},
//	  "drop":   ["tweets.tags"]
//	}
//
// Drops run first, then renames, then sets.
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Set    map[string]any    `json:"set"`
	Rename map[string]string `json:"rename"`
	Drop   []string          `json:"drop"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for path, target := range document.Rename {
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("json preset transformer: rename of %q has no target", path)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a transformer document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// CheckDefinition reports preset paths that name no field of def. Drop and
// rename paths must be field paths; a set path must sit directly under the
// root, a record or a repeatable record.
func (t *JSONPresetTransformer) CheckDefinition(def *definition.Definition) error {
	if def == nil {
		return errors.New("json preset transformer: definition is nil")
	}
	fields := map[string]definition.Kind{}
	err := def.Walk(func(path string, spec *definition.Spec) error {
		fields[strings.ReplaceAll(path, "[]", "")] = spec.Kind
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range t.document.Drop {
		if _, ok := fields[strings.TrimSpace(path)]; !ok {
			return fmt.Errorf("json preset transformer: drop %q: no such field in definition %q", path, def.Name)
		}
	}
	for _, path := range sortedKeys(t.document.Rename) {
		if _, ok := fields[strings.TrimSpace(path)]; !ok {
			return fmt.Errorf("json preset transformer: rename %q: no such field in definition %q", path, def.Name)
		}
	}
	for _, path := range sortedKeys(t.document.Set) {
		parent, ok := parentPath(path)
		if !ok {
			continue
		}
		kind, ok := fields[parent]
		if !ok || (kind != definition.KindRecord && kind != definition.KindWrapper) {
			return fmt.Errorf("json preset transformer: set %q: parent is not a record in definition %q", path, def.Name)
		}
	}
	return nil
}

// Transform applies the preset onto result. A path that matches nothing is
// skipped: optional fields and empty lists are normal extraction outcomes.
// Use CheckDefinition to catch misspelled paths.
func (t *JSONPresetTransformer) Transform(ctx context.Context, result *value.Object) error {
	if result == nil {
		return errors.New("json preset transformer: result is nil")
	}

	for _, path := range t.document.Drop {
		if err := ctx.Err(); err != nil {
			return err
		}
		applyAtPath(result, path, func(obj *value.Object, key string) bool {
			return obj.Delete(key)
		})
	}

	for _, path := range sortedKeys(t.document.Rename) {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := strings.TrimSpace(t.document.Rename[path])
		applyAtPath(result, path, func(obj *value.Object, key string) bool {
			return obj.Rename(key, target)
		})
	}

	for _, path := range sortedKeys(t.document.Set) {
		constant := value.Scalar{V: t.document.Set[path]}
		applyAtPath(result, path, func(obj *value.Object, key string) bool {
			obj.Set(key, constant)
			return true
		})
	}
	return nil
}

// applyAtPath calls fn with every object holding the last path segment and
// returns how many calls reported a change.
func applyAtPath(root *value.Object, path string, fn func(obj *value.Object, key string) bool) int {
	segments := strings.Split(strings.TrimSpace(path), ".")
	if len(segments) == 0 || segments[0] == "" {
		return 0
	}
	return walkPath(root, segments, fn)
}

func walkPath(v value.Value, segments []string, fn func(*value.Object, string) bool) int {
	switch tv := v.(type) {
	case *value.Object:
		if len(segments) == 1 {
			if fn(tv, segments[0]) {
				return 1
			}
			return 0
		}
		child, ok := tv.Get(segments[0])
		if !ok {
			return 0
		}
		return walkPath(child, segments[1:], fn)
	case value.List:
		count := 0
		for _, item := range tv {
			count += walkPath(item, segments, fn)
		}
		return count
	default:
		return 0
	}
}

// parentPath returns the path without its last segment, or false for a
// top-level path.
func parentPath(path string) (string, bool) {
	path = strings.TrimSpace(path)
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", false
	}
	return path[:i], true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
