package definition

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/goliatone/go-parselet/pkg/document"
	"github.com/goliatone/go-parselet/pkg/extract"
)

// Engine names the query language of a selector.
type Engine string

const (
	EngineCSS   Engine = "css"
	EngineXPath Engine = "xpath"
)

const xpathPrefix = "xpath:"

// Selector is a parsed "<query> [| accessor]" expression.
type Selector struct {
	Raw      string
	Engine   Engine
	Query    string
	Accessor string

	css   cascadia.SelectorGroup
	xpath *xpath.Expr
}

// ParseSelector validates raw and compiles its query.
func ParseSelector(raw string) (Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Selector{}, fmt.Errorf("definition: empty selector")
	}

	query, accessor := splitAccessor(trimmed)
	sel := Selector{Raw: trimmed, Engine: EngineCSS, Query: query, Accessor: accessor}

	if rest, ok := strings.CutPrefix(query, xpathPrefix); ok {
		sel.Engine = EngineXPath
		sel.Query = strings.TrimSpace(rest)
		if sel.Query == "" {
			return Selector{}, fmt.Errorf("definition: selector %q has an empty xpath", raw)
		}
		expr, err := xpath.Compile(sel.Query)
		if err != nil {
			return Selector{}, fmt.Errorf("definition: selector %q: %w", raw, err)
		}
		sel.xpath = expr
	} else {
		group, err := cascadia.ParseGroup(query)
		if err != nil {
			return Selector{}, fmt.Errorf("definition: selector %q: %w", raw, err)
		}
		sel.css = group
	}

	if _, err := extract.ParseAccessor(sel.Accessor); err != nil {
		return Selector{}, fmt.Errorf("definition: selector %q: %w", raw, err)
	}
	return sel, nil
}

// MustParseSelector panics when raw is invalid. Useful for tests.
func MustParseSelector(raw string) Selector {
	sel, err := ParseSelector(raw)
	if err != nil {
		panic(err)
	}
	return sel
}

// Select returns the matching nodes in document order.
func (s Selector) Select(doc *document.Document) []*html.Node {
	if doc == nil {
		return nil
	}
	switch s.Engine {
	case EngineXPath:
		if s.xpath == nil {
			return nil
		}
		return selectXPath(doc.Root(), s.xpath)
	default:
		if s.css == nil {
			return nil
		}
		return cascadia.QueryAll(doc.Root(), s.css)
	}
}

// selectXPath evaluates expr like htmlquery.QuerySelectorAll, except that an
// attribute match becomes a text node holding the attribute value whose
// Parent is the owning element. It is not linked into the tree, so the
// document is unchanged, but it ranks at its owner.
func selectXPath(root *html.Node, expr *xpath.Expr) []*html.Node {
	var (
		nodes []*html.Node
		seen  = map[*html.Node]bool{}
	)
	iter := expr.Select(htmlquery.CreateXPathNavigator(root))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*htmlquery.NodeNavigator)
		if !ok {
			continue
		}
		if nav.NodeType() == xpath.AttributeNode {
			nodes = append(nodes, &html.Node{
				Type:   html.TextNode,
				Data:   nav.Value(),
				Parent: nav.Current(),
			})
			continue
		}
		n := nav.Current()
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// AccessorFunc returns the compiled accessor.
func (s Selector) AccessorFunc() (extract.Accessor, error) {
	return extract.ParseAccessor(s.Accessor)
}

func (s Selector) String() string {
	return s.Raw
}

// splitAccessor cuts raw at the leftmost "|" whose remainder is a valid
// accessor. Other pipes belong to the query (XPath unions, regex
// alternations).
func splitAccessor(raw string) (string, string) {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '|' {
			continue
		}
		candidate := strings.TrimSpace(raw[i+1:])
		if candidate == "" {
			continue
		}
		if _, err := extract.ParseAccessor(candidate); err != nil {
			continue
		}
		query := strings.TrimSpace(raw[:i])
		if query == "" {
			continue
		}
		return query, candidate
	}
	return raw, ""
}
