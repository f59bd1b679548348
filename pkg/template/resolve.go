package template

import (
	"sort"

	"github.com/goliatone/go-parselet/pkg/extract"
	"github.com/goliatone/go-parselet/pkg/value"
)

// Resolve converts a grouped template into a plain value tree. Leaves outside
// any wrapper resolve by document order: repeatable leaves to a list of every
// value, non-repeatable leaves to their first value. A non-repeatable leaf
// without values is left out of its record.
func Resolve(root *Record) (*value.Object, error) {
	if root == nil {
		return nil, shapeError("", "template root is nil")
	}
	return resolveRecord(root, "")
}

// ExtractAndGroup runs Extract, Group and Resolve on root. It either returns
// the complete tree or the first error; root is mutated in place either way.
func ExtractAndGroup(root *Record, positionOf extract.PositionFunc) (*value.Object, error) {
	if err := Extract(root, positionOf); err != nil {
		return nil, err
	}
	if err := Group(root); err != nil {
		return nil, err
	}
	return Resolve(root)
}

func resolveRecord(r *Record, path string) (*value.Object, error) {
	out := value.NewObject()
	for _, f := range r.fields {
		fieldPath := joinPath(path, f.Name)
		v, ok, err := resolveNode(f.Node, fieldPath)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Set(f.Name, v)
		}
	}
	return out, nil
}

func resolveNode(n Node, path string) (value.Value, bool, error) {
	switch tn := n.(type) {
	case *PositionedLeaf:
		if tn == nil {
			return nil, false, shapeError(path, "nil positioned leaf")
		}
		return resolveLeaf(tn.Sequence)
	case *Record:
		if tn == nil {
			return nil, false, shapeError(path, "nil record")
		}
		obj, err := resolveRecord(tn, path)
		if err != nil {
			return nil, false, err
		}
		return obj, true, nil
	case *Groups:
		if tn == nil {
			return nil, false, shapeError(path, "nil groups")
		}
		list := make(value.List, 0, len(tn.Items))
		for _, g := range tn.Items {
			list = append(list, g.Value)
		}
		return list, true, nil
	case Scalar:
		return value.Scalar{V: tn.Value}, true, nil
	case *Wrapper:
		return nil, false, shapeError(path, "repeatable wrapper was not grouped")
	case *LeafSource:
		return nil, false, shapeError(path, "leaf source was not extracted")
	default:
		return nil, false, shapeError(path, "unsupported value %s", describeNode(n))
	}
}

func resolveLeaf(seq extract.Sequence) (value.Value, bool, error) {
	ordered := append([]extract.Value(nil), seq.Values...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	if seq.Repeatable {
		list := make(value.List, 0, len(ordered))
		for _, v := range ordered {
			list = append(list, value.String(v.Value))
		}
		return list, true, nil
	}
	if len(ordered) == 0 {
		return nil, false, nil
	}
	return value.String(ordered[0].Value), true, nil
}
