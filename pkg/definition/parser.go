package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-parselet/pkg/source"
)

const (
	keyName        = "name"
	keyDescription = "description"
	keySchema      = "schema"
	keyFields      = "fields"
	keyConst       = "$const"
)

// Parse reads a definition from JSON or YAML. Documents with a top level
// "fields" mapping use the envelope form (name, description, schema,
// fields); any other mapping is treated as the field set itself.
func Parse(src source.Source, raw []byte) (*Definition, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("definition: empty document")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("definition: decode %s: %w", location(src), err)
	}

	p := &parser{location: location(src)}
	root := resolve(&doc)
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = resolve(root.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return nil, p.errorf(root, "", "document must be a mapping")
	}

	def := &Definition{source: src}
	if def.source == nil {
		def.source = source.Named("definition")
	}

	fieldsNode := root
	if envelope := lookup(root, keyFields); envelope != nil && resolve(envelope).Kind == yaml.MappingNode {
		if err := p.envelope(root, def); err != nil {
			return nil, err
		}
		fieldsNode = resolve(envelope)
	}

	fields, err := p.record(fieldsNode, "")
	if err != nil {
		return nil, err
	}
	def.Fields = Record(fields...)
	if err := def.Validate(); err != nil {
		var pe *PathError
		if errors.As(err, &pe) && pe.Source == "" {
			pe.Source = p.location
		}
		return nil, err
	}
	return def, nil
}

// MustParse panics when raw is invalid. Useful for tests and fixtures.
func MustParse(raw string) *Definition {
	def, err := Parse(nil, []byte(raw))
	if err != nil {
		panic(err)
	}
	return def
}

type parser struct {
	location string
}

func (p *parser) errorf(n *yaml.Node, path, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line
	}
	return &PathError{Source: p.location, Path: path, Reason: fmt.Sprintf(format, args...), Line: line}
}

func (p *parser) envelope(root *yaml.Node, def *Definition) error {
	seen := map[string]struct{}{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], resolve(root.Content[i+1])
		if _, dup := seen[key.Value]; dup {
			return p.errorf(key, key.Value, "duplicate key")
		}
		seen[key.Value] = struct{}{}

		switch key.Value {
		case keyName:
			if err := val.Decode(&def.Name); err != nil {
				return p.errorf(val, key.Value, "must be a string")
			}
		case keyDescription:
			if err := val.Decode(&def.Description); err != nil {
				return p.errorf(val, key.Value, "must be a string")
			}
		case keySchema:
			var schema any
			if err := val.Decode(&schema); err != nil {
				return p.errorf(val, key.Value, "decode schema: %v", err)
			}
			encoded, err := json.Marshal(schema)
			if err != nil {
				return p.errorf(val, key.Value, "schema is not JSON compatible: %v", err)
			}
			def.Schema = encoded
		case keyFields:
		default:
			return p.errorf(key, key.Value, "unknown top level key")
		}
	}
	return nil
}

func (p *parser) record(n *yaml.Node, path string) ([]Field, error) {
	if len(n.Content) == 0 {
		return nil, p.errorf(n, path, "record has no fields")
	}
	fields := make([]Field, 0, len(n.Content)/2)
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, p.errorf(key, path, "field names must be non-empty strings")
		}
		name := key.Value
		fieldPath := joinPath(path, name)
		if _, dup := seen[name]; dup {
			return nil, p.errorf(key, fieldPath, "duplicate field name")
		}
		seen[name] = struct{}{}

		spec, err := p.spec(resolve(n.Content[i+1]), fieldPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Spec: spec})
	}
	return fields, nil
}

func (p *parser) spec(n *yaml.Node, path string) (*Spec, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return p.scalar(n, path, false)
	case yaml.SequenceNode:
		if len(n.Content) != 1 {
			return nil, p.errorf(n, path, "a list must hold exactly one selector or record, got %d items", len(n.Content))
		}
		item := resolve(n.Content[0])
		switch {
		case item.Kind == yaml.ScalarNode && item.Tag == "!!str":
			return p.scalar(item, path, true)
		case item.Kind == yaml.MappingNode && !isConstant(item):
			fields, err := p.record(item, path+"[]")
			if err != nil {
				return nil, err
			}
			return Wrapper(fields...), nil
		default:
			return nil, p.errorf(item, path, "a list must hold a selector string or a record")
		}
	case yaml.MappingNode:
		if isConstant(n) {
			var v any
			if err := n.Content[1].Decode(&v); err != nil {
				return nil, p.errorf(n, path, "decode constant: %v", err)
			}
			return Constant(v), nil
		}
		fields, err := p.record(n, path)
		if err != nil {
			return nil, err
		}
		return Record(fields...), nil
	default:
		return nil, p.errorf(n, path, "unsupported value")
	}
}

// scalar turns a string into a leaf. Non-string scalars are passed through
// as constants.
func (p *parser) scalar(n *yaml.Node, path string, repeatable bool) (*Spec, error) {
	switch n.Tag {
	case "!!str":
		spec, err := Leaf(n.Value, repeatable)
		if err != nil {
			return nil, p.errorf(n, path, "%s", strings.TrimPrefix(err.Error(), "definition: "))
		}
		return spec, nil
	case "!!null":
		return nil, p.errorf(n, path, "missing selector")
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, p.errorf(n, path, "decode constant: %v", err)
		}
		return Constant(v), nil
	}
}

func isConstant(n *yaml.Node) bool {
	return n.Kind == yaml.MappingNode && len(n.Content) == 2 && n.Content[0].Value == keyConst
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func location(src source.Source) string {
	if src == nil {
		return ""
	}
	return src.Location()
}
