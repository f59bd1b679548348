package template

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/goliatone/go-parselet/pkg/extract"
	"github.com/goliatone/go-parselet/pkg/value"
)

// Node is one template variant. The set is closed: LeafSource,
// PositionedLeaf, *Record, *Wrapper, Scalar and *Groups.
type Node interface {
	isNode()
}

// LeafSource is the pre-extraction state of a field: zero or more nodes and
// the accessor that turns each into a string.
type LeafSource struct {
	Nodes      []*html.Node
	Accessor   extract.Accessor
	Repeatable bool
}

func (*LeafSource) isNode() {}

// Select builds a non-repeatable leaf reading the text of every node in sel.
func Select(sel *goquery.Selection) *LeafSource {
	return SelectWith(sel, nil)
}

// SelectWith builds a non-repeatable leaf with a custom accessor.
func SelectWith(sel *goquery.Selection, accessor extract.Accessor) *LeafSource {
	return &LeafSource{Nodes: selectionNodes(sel), Accessor: accessor}
}

// Many builds a repeatable leaf: within one group the field collects every
// value instead of starting a new group.
func Many(sel *goquery.Selection) *LeafSource {
	return ManyWith(sel, nil)
}

// ManyWith builds a repeatable leaf with a custom accessor.
func ManyWith(sel *goquery.Selection, accessor extract.Accessor) *LeafSource {
	leaf := SelectWith(sel, accessor)
	leaf.Repeatable = true
	return leaf
}

func selectionNodes(sel *goquery.Selection) []*html.Node {
	if sel == nil {
		return nil
	}
	return append([]*html.Node(nil), sel.Nodes...)
}

// PositionedLeaf is an extracted field.
type PositionedLeaf struct {
	Sequence extract.Sequence
}

func (*PositionedLeaf) isNode() {}

// Positioned wraps an already extracted sequence.
func Positioned(seq extract.Sequence) *PositionedLeaf {
	return &PositionedLeaf{Sequence: seq}
}

// Scalar is a constant carried through both passes unchanged.
type Scalar struct {
	Value any
}

func (Scalar) isNode() {}

// Field is a named record entry.
type Field struct {
	Name string
	Node Node
}

// Record is an ordered set of uniquely named fields.
type Record struct {
	fields []Field
	index  map[string]int
}

func (*Record) isNode() {}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// Set adds or replaces a field and returns the record for chaining. Replaced
// fields keep their original position.
func (r *Record) Set(name string, node Node) *Record {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Node = node
		return r
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Node: node})
	return r
}

// Get returns the node stored under name.
func (r *Record) Get(name string) (Node, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Node, true
}

// Fields returns a copy of the fields in declaration order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	return append([]Field(nil), r.fields...)
}

// Names returns the field names in declaration order.
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		names = append(names, f.Name)
	}
	return names
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

func (r *Record) replace(i int, node Node) {
	r.fields[i].Node = node
}

// Wrapper marks a record as a pattern instantiated zero or more times.
type Wrapper struct {
	Record *Record
}

func (*Wrapper) isNode() {}

// Repeat wraps record as a repeatable sub-template.
func Repeat(record *Record) *Wrapper {
	return &Wrapper{Record: record}
}

// Instance is one reconstructed record instance. Position is the rank of its
// first value so enclosing wrappers can place it on their own timeline.
type Instance struct {
	Position int
	Value    *value.Object
}

// Groups is a wrapper after grouping.
type Groups struct {
	Items []Instance
}

func (*Groups) isNode() {}

// Objects returns the group values in order.
func (g *Groups) Objects() []*value.Object {
	if g == nil {
		return nil
	}
	out := make([]*value.Object, 0, len(g.Items))
	for _, item := range g.Items {
		out = append(out, item.Value)
	}
	return out
}

func describeNode(n Node) string {
	switch tn := n.(type) {
	case nil:
		return "nil"
	case *LeafSource:
		return "leaf source"
	case *PositionedLeaf:
		return "positioned leaf"
	case *Record:
		return "record"
	case *Wrapper:
		return "repeatable wrapper"
	case *Groups:
		return "groups"
	case Scalar:
		return fmt.Sprintf("scalar %T", tn.Value)
	default:
		return fmt.Sprintf("%T", n)
	}
}
