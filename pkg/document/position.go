package document

import "golang.org/x/net/html"

// PositionFunc reports the document-order rank of a node.
type PositionFunc = func(*html.Node) int

// PositionIndex maps every element of one document to its 0-based rank among
// all elements in document order, mirroring a getElementsByTagName("*") scan.
// Non-element nodes resolve to their nearest element ancestor.
type PositionIndex struct {
	ranks map[*html.Node]int
}

// NewPositionIndex walks root once in document order.
func NewPositionIndex(root *html.Node) *PositionIndex {
	idx := &PositionIndex{ranks: make(map[*html.Node]int)}
	if root == nil {
		return idx
	}

	next := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			idx.ranks[n] = next
			next++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return idx
}

// Len returns the number of indexed elements.
func (p *PositionIndex) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ranks)
}

// Of returns the rank of n. Nodes outside the indexed document return -1.
func (p *PositionIndex) Of(n *html.Node) int {
	if p == nil {
		return -1
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if rank, ok := p.ranks[cur]; ok {
			return rank
		}
		if cur.Type == html.ElementNode {
			return -1
		}
	}
	return -1
}

// Contains reports whether n is an element of the indexed document.
func (p *PositionIndex) Contains(n *html.Node) bool {
	if p == nil || n == nil {
		return false
	}
	_, ok := p.ranks[n]
	return ok
}
