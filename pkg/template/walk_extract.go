package template

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-parselet/pkg/extract"
)

// Extract replaces every LeafSource reachable from root, through records and
// wrapper records, with a PositionedLeaf. Positioned leaves, groups and
// scalars are left as they are, so running Extract twice is harmless. The
// first failure aborts the pass.
func Extract(root *Record, positionOf extract.PositionFunc) error {
	if root == nil {
		return shapeError("", "template root is nil")
	}
	if positionOf == nil {
		return errors.New("template: position function is required")
	}
	return extractRecord(root, "", positionOf)
}

func extractRecord(r *Record, path string, positionOf extract.PositionFunc) error {
	for i, f := range r.fields {
		fieldPath := joinPath(path, f.Name)
		switch n := f.Node.(type) {
		case *LeafSource:
			if n == nil {
				return shapeError(fieldPath, "nil leaf source")
			}
			seq, err := extract.Extract(n.Nodes, n.Accessor, positionOf)
			if err != nil {
				return fmt.Errorf("template: field %s: %w", fieldPath, err)
			}
			seq.Repeatable = n.Repeatable
			r.replace(i, &PositionedLeaf{Sequence: seq})
		case *Record:
			if n == nil {
				return shapeError(fieldPath, "nil record")
			}
			if err := extractRecord(n, fieldPath, positionOf); err != nil {
				return err
			}
		case *Wrapper:
			if n == nil || n.Record == nil {
				return shapeError(fieldPath, "repeatable wrapper without a record")
			}
			if err := extractRecord(n.Record, fieldPath+"[]", positionOf); err != nil {
				return err
			}
		case *PositionedLeaf, *Groups, Scalar:
		default:
			return shapeError(fieldPath, "unsupported value %s", describeNode(f.Node))
		}
	}
	return nil
}
