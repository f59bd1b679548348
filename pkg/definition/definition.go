package definition

import (
	"encoding/json"
	"errors"

	"github.com/goliatone/go-parselet/pkg/source"
)

// Kind enumerates field spec variants.
type Kind int

const (
	KindLeaf Kind = iota + 1
	KindRecord
	KindWrapper
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindRecord:
		return "record"
	case KindWrapper:
		return "wrapper"
	case KindConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Definition is a parsed parselet file.
type Definition struct {
	Name        string
	Description string
	Fields      *Spec
	// Schema optionally holds a JSON Schema that results must satisfy.
	Schema json.RawMessage

	source source.Source
}

// Source returns where the definition was read from.
func (d *Definition) Source() source.Source {
	return d.source
}

// Spec describes one field of a definition.
type Spec struct {
	Kind Kind

	// Leaf
	Selector   Selector
	Repeatable bool

	// Record and Wrapper
	Fields []Field

	// Constant
	Value any
}

// Field is a named spec.
type Field struct {
	Name string
	Spec *Spec
}

// Leaf builds a leaf spec from a selector expression.
func Leaf(raw string, repeatable bool) (*Spec, error) {
	sel, err := ParseSelector(raw)
	if err != nil {
		return nil, err
	}
	return &Spec{Kind: KindLeaf, Selector: sel, Repeatable: repeatable}, nil
}

// Record builds a record spec.
func Record(fields ...Field) *Spec {
	return &Spec{Kind: KindRecord, Fields: fields}
}

// Wrapper builds a repeatable record spec.
func Wrapper(fields ...Field) *Spec {
	return &Spec{Kind: KindWrapper, Fields: fields}
}

// Constant builds a constant spec.
func Constant(v any) *Spec {
	return &Spec{Kind: KindConstant, Value: v}
}

// New assembles a definition from a root record and validates it.
func New(name string, fields *Spec) (*Definition, error) {
	def := &Definition{Name: name, Fields: fields, source: source.Named(name)}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Validate checks the structural rules: a record root, unique non-empty
// field names and known spec kinds.
func (d *Definition) Validate() error {
	if d == nil {
		return errors.New("definition: definition is nil")
	}
	if d.Fields == nil || d.Fields.Kind != KindRecord {
		return errors.New("definition: fields must be a mapping")
	}
	if len(d.Schema) > 0 && !json.Valid(d.Schema) {
		return errors.New("definition: schema is not valid JSON")
	}
	return validateFields(d.Fields.Fields, "")
}

func validateFields(fields []Field, path string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		fieldPath := joinPath(path, f.Name)
		if f.Name == "" {
			return pathError(path, "empty field name")
		}
		if _, dup := seen[f.Name]; dup {
			return pathError(fieldPath, "duplicate field name")
		}
		seen[f.Name] = struct{}{}

		if f.Spec == nil {
			return pathError(fieldPath, "missing spec")
		}
		switch f.Spec.Kind {
		case KindLeaf, KindConstant:
		case KindRecord:
			if err := validateFields(f.Spec.Fields, fieldPath); err != nil {
				return err
			}
		case KindWrapper:
			if err := validateFields(f.Spec.Fields, fieldPath+"[]"); err != nil {
				return err
			}
		default:
			return pathError(fieldPath, "unknown spec kind")
		}
	}
	return nil
}

// Walk visits every field depth first. Paths use "." between record fields
// and "[]" after wrappers.
func (d *Definition) Walk(fn func(path string, spec *Spec) error) error {
	if d == nil || d.Fields == nil {
		return nil
	}
	return walkFields(d.Fields.Fields, "", fn)
}

func walkFields(fields []Field, path string, fn func(string, *Spec) error) error {
	for _, f := range fields {
		fieldPath := joinPath(path, f.Name)
		if err := fn(fieldPath, f.Spec); err != nil {
			return err
		}
		switch f.Spec.Kind {
		case KindRecord:
			if err := walkFields(f.Spec.Fields, fieldPath, fn); err != nil {
				return err
			}
		case KindWrapper:
			if err := walkFields(f.Spec.Fields, fieldPath+"[]", fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
