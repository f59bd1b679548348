package template

import (
	"sort"

	"github.com/goliatone/go-parselet/pkg/value"
)

// Group replaces every Wrapper reachable from root with Groups. Nested
// wrappers are expanded before the wrapper that contains them, so an outer
// partition only ever sees finished inner groups. A tree without wrappers is
// left unchanged.
func Group(root *Record) error {
	if root == nil {
		return shapeError("", "template root is nil")
	}
	return groupRecord(root, "")
}

func groupRecord(r *Record, path string) error {
	for i, f := range r.fields {
		fieldPath := joinPath(path, f.Name)
		switch n := f.Node.(type) {
		case *Record:
			if n == nil {
				return shapeError(fieldPath, "nil record")
			}
			if err := groupRecord(n, fieldPath); err != nil {
				return err
			}
		case *Wrapper:
			groups, err := expand(n, fieldPath)
			if err != nil {
				return err
			}
			r.replace(i, groups)
		}
	}
	return nil
}

// entry is one positioned value on a wrapper's timeline.
type entry struct {
	path       []string
	value      value.Value
	position   int
	repeatable bool
}

type constant struct {
	path  []string
	value any
}

func expand(w *Wrapper, path string) (*Groups, error) {
	if w == nil || w.Record == nil {
		return nil, shapeError(path, "repeatable wrapper without a record")
	}
	inner := path + "[]"
	if err := groupRecord(w.Record, inner); err != nil {
		return nil, err
	}

	var (
		entries   []entry
		constants []constant
	)
	if err := flatten(w.Record, nil, inner, &entries, &constants); err != nil {
		return nil, err
	}

	// Entries were appended in field order, which is the tie-break for equal
	// positions.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].position < entries[j].position
	})

	builders := partition(entries)
	out := &Groups{Items: make([]Instance, 0, len(builders))}
	for _, b := range builders {
		for _, c := range constants {
			b.set(c.path, value.Scalar{V: c.value})
		}
		orderKeys(b.root, w.Record)
		out.Items = append(out.Items, Instance{Position: b.position, Value: b.root})
	}
	return out, nil
}

// flatten collects the direct fields of r, and the fields of plain records
// nested in it, as timeline entries. Nested wrappers have already been turned
// into Groups; each of their groups becomes one repeatable entry.
func flatten(r *Record, prefix []string, path string, entries *[]entry, constants *[]constant) error {
	for _, f := range r.fields {
		fieldPath := joinPath(path, f.Name)
		keyPath := appendPath(prefix, f.Name)
		switch n := f.Node.(type) {
		case *PositionedLeaf:
			if n == nil {
				return shapeError(fieldPath, "nil positioned leaf")
			}
			for _, v := range n.Sequence.Values {
				*entries = append(*entries, entry{
					path:       keyPath,
					value:      value.String(v.Value),
					position:   v.Position,
					repeatable: n.Sequence.Repeatable,
				})
			}
		case *Groups:
			if n == nil {
				return shapeError(fieldPath, "nil groups")
			}
			for _, g := range n.Items {
				*entries = append(*entries, entry{
					path:       keyPath,
					value:      g.Value,
					position:   g.Position,
					repeatable: true,
				})
			}
		case *Record:
			if n == nil {
				return shapeError(fieldPath, "nil record")
			}
			if err := flatten(n, keyPath, fieldPath, entries, constants); err != nil {
				return err
			}
		case Scalar:
			*constants = append(*constants, constant{path: keyPath, value: n.Value})
		case *LeafSource:
			return shapeError(fieldPath, "leaf source was not extracted before grouping")
		default:
			return shapeError(fieldPath, "unsupported value %s", describeNode(f.Node))
		}
	}
	return nil
}

// partition walks the sorted timeline and opens a new group whenever a
// non-repeatable key is about to be set a second time. Repeatable keys never
// close a group on their own, so a record made only of repeatable fields
// collects everything into a single group.
func partition(entries []entry) []*groupBuilder {
	current := newGroupBuilder()
	groups := []*groupBuilder{current}

	for _, e := range entries {
		if !e.repeatable && current.has(e.path) {
			current = newGroupBuilder()
			groups = append(groups, current)
		}
		current.add(e)
	}

	if len(groups) == 1 && current.empty() {
		return nil
	}
	return groups
}

type groupBuilder struct {
	root     *value.Object
	position int
	filled   bool
}

func newGroupBuilder() *groupBuilder {
	return &groupBuilder{root: value.NewObject()}
}

func (b *groupBuilder) empty() bool {
	return !b.filled
}

func (b *groupBuilder) has(path []string) bool {
	parent := b.parent(path, false)
	return parent != nil && parent.Has(path[len(path)-1])
}

func (b *groupBuilder) add(e entry) {
	if !b.filled {
		b.filled = true
		b.position = e.position
	}
	parent := b.parent(e.path, true)
	key := e.path[len(e.path)-1]

	if !e.repeatable {
		parent.Set(key, e.value)
		return
	}
	existing, _ := parent.Get(key)
	list, _ := existing.(value.List)
	parent.Set(key, append(list, e.value))
}

func (b *groupBuilder) set(path []string, v value.Value) {
	b.parent(path, true).Set(path[len(path)-1], v)
}

// parent walks to the object holding the last path segment, creating
// intermediate objects when create is set.
func (b *groupBuilder) parent(path []string, create bool) *value.Object {
	obj := b.root
	for _, segment := range path[:len(path)-1] {
		next, ok := obj.Get(segment)
		child, isObj := next.(*value.Object)
		if !ok || !isObj {
			if !create {
				return nil
			}
			child = value.NewObject()
			obj.Set(segment, child)
		}
		obj = child
	}
	return obj
}

// orderKeys makes group keys follow the template's field order, including
// plain records nested inside the group.
func orderKeys(obj *value.Object, r *Record) {
	obj.Reorder(r.Names())
	for _, f := range r.fields {
		nested, ok := f.Node.(*Record)
		if !ok {
			continue
		}
		child, _ := obj.Get(f.Name)
		if childObj, ok := child.(*value.Object); ok {
			orderKeys(childObj, nested)
		}
	}
}

func appendPath(prefix []string, name string) []string {
	out := make([]string, 0, len(prefix)+1)
	out = append(out, prefix...)
	return append(out, name)
}
