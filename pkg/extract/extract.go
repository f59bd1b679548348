package extract

import (
	"errors"

	"golang.org/x/net/html"
)

// PositionFunc reports the document-order rank of a node.
type PositionFunc = func(*html.Node) int

// Extract applies accessor to every node in input order and tags each result
// with positionOf(node). The returned sequence is not sorted by position. A
// nil accessor means Text. The first accessor failure aborts the call and no
// partial sequence is returned.
func Extract(nodes []*html.Node, accessor Accessor, positionOf PositionFunc) (Sequence, error) {
	if positionOf == nil {
		return Sequence{}, errors.New("extract: position function is required")
	}
	if accessor == nil {
		accessor = Text()
	}

	values := make([]Value, 0, len(nodes))
	for _, n := range nodes {
		pos := positionOf(n)
		value, err := accessor.Access(n)
		if err != nil {
			var matchErr *MatchError
			if errors.As(err, &matchErr) {
				matchErr.Position = pos
			}
			return Sequence{}, err
		}
		values = append(values, Value{Value: value, Position: pos})
	}
	return Sequence{Values: values}, nil
}
