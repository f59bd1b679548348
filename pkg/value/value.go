// Package value models the plain result tree produced by extraction: strings,
// lists and objects whose keys keep the order of the template that produced
// them.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind enumerates the value variants.
type Kind int

const (
	KindString Kind = iota + 1
	KindList
	KindObject
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Value is one node of a result tree.
type Value interface {
	Kind() Kind
}

// String is an extracted string.
type String string

// Kind implements Value.
func (String) Kind() Kind { return KindString }

// List is an ordered sequence of values.
type List []Value

// Kind implements Value.
func (List) Kind() Kind { return KindList }

// MarshalJSON renders nil lists as [].
func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return marshalJSON([]Value(l))
}

// Scalar carries a caller-provided constant through extraction unchanged.
type Scalar struct {
	V any
}

// Kind implements Value.
func (Scalar) Kind() Kind { return KindScalar }

// MarshalJSON renders the wrapped value.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return marshalJSON(s.V)
}

// MarshalYAML renders the wrapped value.
func (s Scalar) MarshalYAML() (any, error) {
	return s.V, nil
}

// Object is a string-keyed mapping that remembers insertion order.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Kind implements Value.
func (*Object) Kind() Kind { return KindObject }

// Set stores v under key. Existing keys keep their position.
func (o *Object) Set(key string, v Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Delete removes key. It reports whether the key was present.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Rename moves the value under from to to, keeping its position. An existing
// value under to is replaced and its slot dropped.
func (o *Object) Rename(from, to string) bool {
	if o == nil || from == to {
		return o.Has(from)
	}
	v, ok := o.values[from]
	if !ok {
		return false
	}
	o.Delete(to)
	for i, k := range o.keys {
		if k == from {
			o.keys[i] = to
			break
		}
	}
	delete(o.values, from)
	o.values[to] = v
	return true
}

// Reorder moves the listed keys to the front in the given order. Keys not in
// order keep their relative position after them; unknown names are ignored.
func (o *Object) Reorder(order []string) {
	if o == nil || len(o.keys) < 2 {
		return
	}
	out := make([]string, 0, len(o.keys))
	placed := make(map[string]struct{}, len(o.keys))
	for _, key := range order {
		if _, ok := o.values[key]; !ok {
			continue
		}
		if _, dup := placed[key]; dup {
			continue
		}
		placed[key] = struct{}{}
		out = append(out, key)
	}
	for _, key := range o.keys {
		if _, ok := placed[key]; !ok {
			out = append(out, key)
		}
	}
	o.keys = out
}

// Equal reports deep equality including key order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i, key := range o.Keys() {
		if other.keys[i] != key {
			return false
		}
		if !Equal(o.values[key], other.values[key]) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalJSON(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalJSON(o.values[key])
		if err != nil {
			return nil, fmt.Errorf("value: marshal %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node so key order survives.
func (o *Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range o.Keys() {
		var child yaml.Node
		if err := child.Encode(o.values[key]); err != nil {
			return nil, fmt.Errorf("value: encode %q: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&child,
		)
	}
	return node, nil
}

// Equal compares two values structurally.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case String:
		return av == b.(String)
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		return av.Equal(b.(*Object))
	case Scalar:
		return fmt.Sprint(av.V) == fmt.Sprint(b.(Scalar).V)
	default:
		return false
	}
}

// Plain converts the tree into map[string]any, []any and string values, the
// shape encoding/json produces when decoding into any. Key order is lost.
func Plain(v Value) any {
	switch tv := v.(type) {
	case nil:
		return nil
	case String:
		return string(tv)
	case List:
		out := make([]any, 0, len(tv))
		for _, item := range tv {
			out = append(out, Plain(item))
		}
		return out
	case *Object:
		out := make(map[string]any, tv.Len())
		for _, key := range tv.keys {
			out[key] = Plain(tv.values[key])
		}
		return out
	case Scalar:
		return tv.V
	default:
		return nil
	}
}

// Strings builds a List of String values.
func Strings(items ...string) List {
	out := make(List, 0, len(items))
	for _, item := range items {
		out = append(out, String(item))
	}
	return out
}

// marshalJSON encodes v without escaping <, > and &. Extracted text often
// carries markup.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
