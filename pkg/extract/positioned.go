package extract

import (
	"strconv"
	"strings"
)

// Value is a string tagged with the document-order rank of its source node.
type Value struct {
	Value    string `json:"value"`
	Position int    `json:"position"`
}

// String renders the value in the <value(position)> debug form.
func (v Value) String() string {
	return "<" + v.Value + "(" + strconv.Itoa(v.Position) + ")>"
}

// Sequence is an ordered list of positioned values. Repeatable marks fields
// that may occur several times within one group.
type Sequence struct {
	Values     []Value `json:"values"`
	Repeatable bool    `json:"repeatable,omitempty"`
}

// Len returns the number of values.
func (s Sequence) Len() int {
	return len(s.Values)
}

// Simple returns the plain strings in sequence order.
func (s Sequence) Simple() []string {
	out := make([]string, 0, len(s.Values))
	for _, v := range s.Values {
		out = append(out, v.Value)
	}
	return out
}

// AsRepeatable returns a copy flagged as repeatable.
func (s Sequence) AsRepeatable() Sequence {
	s.Repeatable = true
	return s
}

// String renders the sequence for debugging.
func (s Sequence) String() string {
	var b strings.Builder
	b.WriteString("<Sequence[")
	for i, v := range s.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteString("]>")
	return b.String()
}
