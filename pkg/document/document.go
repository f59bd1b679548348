package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/goliatone/go-parselet/pkg/source"
)

// Document wraps a parsed HTML tree and its origin.
type Document struct {
	source    source.Source
	root      *html.Node
	query     *goquery.Document
	positions *PositionIndex
}

// Parse builds a Document from raw HTML bytes.
func Parse(src source.Source, raw []byte) (*Document, error) {
	if src == nil {
		return nil, errors.New("document: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("document: %s is empty", src.Location())
	}
	return FromReader(src, bytes.NewReader(raw))
}

// FromReader parses HTML from r.
func FromReader(src source.Source, r io.Reader) (*Document, error) {
	if src == nil {
		return nil, errors.New("document: source is required")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", src.Location(), err)
	}
	return FromNode(src, root), nil
}

// FromNode wraps an already parsed tree. The position index is built
// immediately; later mutations of the tree are not reflected in it.
func FromNode(src source.Source, root *html.Node) *Document {
	if src == nil {
		src = source.Named("")
	}
	return &Document{
		source:    src,
		root:      root,
		query:     goquery.NewDocumentFromNode(root),
		positions: NewPositionIndex(root),
	}
}

// MustParseString parses an HTML string and panics on failure. Useful for tests.
func MustParseString(markup string) *Document {
	doc, err := Parse(source.Named("inline"), []byte(markup))
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d *Document) Source() source.Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d *Document) Location() string {
	if d == nil || d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Root returns the parsed document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Query exposes the goquery view of the document.
func (d *Document) Query() *goquery.Document {
	return d.query
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.query.Find(selector)
}

// Positions returns the precomputed position index.
func (d *Document) Positions() *PositionIndex {
	return d.positions
}

// PositionOf returns the document-order rank of n.
func (d *Document) PositionOf(n *html.Node) int {
	return d.positions.Of(n)
}

// PositionFunc returns the index lookup as a PositionFunc.
func (d *Document) PositionFunc() PositionFunc {
	return d.positions.Of
}

// Title returns the trimmed text of the first <title> element.
func (d *Document) Title() string {
	return trimmedText(d.query.Find("title").First())
}

func trimmedText(sel *goquery.Selection) string {
	return string(bytes.TrimSpace([]byte(sel.Text())))
}
