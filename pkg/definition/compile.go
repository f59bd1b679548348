package definition

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-parselet/pkg/document"
	"github.com/goliatone/go-parselet/pkg/template"
)

// Compile binds every selector of def to doc and returns the template ready
// for template.Extract.
func Compile(def *Definition, doc *document.Document) (*template.Record, error) {
	if def == nil {
		return nil, errors.New("definition: definition is nil")
	}
	if doc == nil {
		return nil, errors.New("definition: document is nil")
	}
	if def.Fields == nil {
		return nil, errors.New("definition: definition has no fields")
	}
	return compileFields(def.Fields.Fields, "", doc)
}

func compileFields(fields []Field, path string, doc *document.Document) (*template.Record, error) {
	record := template.NewRecord()
	for _, f := range fields {
		fieldPath := joinPath(path, f.Name)
		node, err := compileSpec(f.Spec, fieldPath, doc)
		if err != nil {
			return nil, err
		}
		record.Set(f.Name, node)
	}
	return record, nil
}

func compileSpec(s *Spec, path string, doc *document.Document) (template.Node, error) {
	if s == nil {
		return nil, pathError(path, "missing spec")
	}
	switch s.Kind {
	case KindLeaf:
		accessor, err := s.Selector.AccessorFunc()
		if err != nil {
			return nil, fmt.Errorf("definition: field %s: %w", path, err)
		}
		nodes := s.Selector.Select(doc)
		for _, n := range nodes {
			if doc.PositionOf(n) < 0 {
				return nil, pathError(path, fmt.Sprintf("selector %q matched a node with no document position", s.Selector.Raw))
			}
		}
		return &template.LeafSource{
			Nodes:      nodes,
			Accessor:   accessor,
			Repeatable: s.Repeatable,
		}, nil
	case KindRecord:
		return compileFields(s.Fields, path, doc)
	case KindWrapper:
		inner, err := compileFields(s.Fields, path+"[]", doc)
		if err != nil {
			return nil, err
		}
		return template.Repeat(inner), nil
	case KindConstant:
		return template.Scalar{Value: s.Value}, nil
	default:
		return nil, pathError(path, "unknown spec kind")
	}
}
