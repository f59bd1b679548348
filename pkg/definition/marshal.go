package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the definition in the envelope form accepted by Parse.
func (d *Definition) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	if d.Name != "" {
		root.Content = append(root.Content, str(keyName), str(d.Name))
	}
	if d.Description != "" {
		root.Content = append(root.Content, str(keyDescription), str(d.Description))
	}
	if len(d.Schema) > 0 {
		var schema yaml.Node
		// JSON is a subset of YAML.
		if err := yaml.Unmarshal(d.Schema, &schema); err != nil {
			return nil, fmt.Errorf("definition: encode schema: %w", err)
		}
		body := &schema
		if schema.Kind == yaml.DocumentNode && len(schema.Content) > 0 {
			body = schema.Content[0]
		}
		root.Content = append(root.Content, str(keySchema), body)
	}

	fields := &yaml.Node{Kind: yaml.MappingNode}
	if d.Fields != nil {
		var err error
		if fields, err = encodeFields(d.Fields.Fields); err != nil {
			return nil, err
		}
	}
	root.Content = append(root.Content, str(keyFields), fields)
	return root, nil
}

// Encode renders d as YAML.
func Encode(d *Definition) ([]byte, error) {
	return yaml.Marshal(d)
}

func encodeFields(fields []Field) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		n, err := encodeSpec(f.Spec)
		if err != nil {
			return nil, fmt.Errorf("definition: encode %s: %w", f.Name, err)
		}
		out.Content = append(out.Content, str(f.Name), n)
	}
	return out, nil
}

func encodeSpec(s *Spec) (*yaml.Node, error) {
	switch s.Kind {
	case KindLeaf:
		leaf := str(s.Selector.Raw)
		if s.Repeatable {
			return &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle, Content: []*yaml.Node{leaf}}, nil
		}
		return leaf, nil
	case KindRecord:
		return encodeFields(s.Fields)
	case KindWrapper:
		inner, err := encodeFields(s.Fields)
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{inner}}, nil
	case KindConstant:
		var v yaml.Node
		if err := v.Encode(s.Value); err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str(keyConst), &v}}, nil
	default:
		return nil, fmt.Errorf("unknown spec kind %d", s.Kind)
	}
}

func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
