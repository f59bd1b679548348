package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

const page = `<html><body>
<ul>
  <li><a href="/a">Alpha</a> <span class="when">posted 2014-03-01</span></li>
  <li><a href="/b">Beta</a> <span class="when">posted 2015-07-22</span></li>
  <li><a>Gamma</a> <span class="when">undated</span></li>
</ul>
<div class="body"><p onclick="x()">Hello <b>there</b></p><script>evil()</script></div>
</body></html>`

func parse(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

// rankOf numbers elements in document order, the same way the document
// package does.
func rankOf(doc *goquery.Document) PositionFunc {
	ranks := map[*html.Node]int{}
	next := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			ranks[n] = next
			next++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc.Nodes[0])
	return func(n *html.Node) int { return ranks[n] }
}

func TestExtract_DefaultTextPreservesInputOrder(t *testing.T) {
	doc := parse(t)
	nodes := doc.Find("a").Nodes
	// Reverse the input to show that output follows input, not document order.
	reversed := []*html.Node{nodes[2], nodes[0], nodes[1]}

	seq, err := Extract(reversed, nil, rankOf(doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if seq.Len() != len(reversed) {
		t.Fatalf("expected %d values, got %d", len(reversed), seq.Len())
	}
	if diff := cmp.Diff([]string{"Gamma", "Alpha", "Beta"}, seq.Simple()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !(seq.Values[1].Position < seq.Values[2].Position && seq.Values[2].Position < seq.Values[0].Position) {
		t.Fatalf("positions should follow document order, got %s", seq)
	}
	if seq.Repeatable {
		t.Fatalf("extracted sequences start non-repeatable")
	}
}

func TestExtract_Empty(t *testing.T) {
	doc := parse(t)
	seq, err := Extract(doc.Find("table").Nodes, Text(), rankOf(doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if seq.Len() != 0 {
		t.Fatalf("expected empty sequence, got %s", seq)
	}
}

func TestExtract_Attr(t *testing.T) {
	doc := parse(t)
	seq, err := Extract(doc.Find("a").Nodes, Attr("href"), rankOf(doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff([]string{"/a", "/b", ""}, seq.Simple()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_RegexFirstMatch(t *testing.T) {
	doc := parse(t)
	nodes := doc.Find("span.when").Nodes[:2]
	seq, err := Extract(nodes, Regex(regexp.MustCompile(`\d{4}`)), rankOf(doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff([]string{"2014", "2015"}, seq.Simple()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_RegexNoMatchAborts(t *testing.T) {
	doc := parse(t)
	positionOf := rankOf(doc)
	nodes := doc.Find("span.when").Nodes

	seq, err := Extract(nodes, Regex(regexp.MustCompile(`\d{4}`)), positionOf)
	if err == nil {
		t.Fatalf("expected no-match error")
	}
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	var matchErr *MatchError
	if !errors.As(err, &matchErr) {
		t.Fatalf("expected *MatchError, got %T", err)
	}
	if matchErr.Position != positionOf(nodes[2]) {
		t.Fatalf("expected failing node position %d, got %d", positionOf(nodes[2]), matchErr.Position)
	}
	if seq.Len() != 0 {
		t.Fatalf("no partial output expected, got %s", seq)
	}
}

func TestExtract_HTMLIsSanitised(t *testing.T) {
	doc := parse(t)
	seq, err := Extract(doc.Find("div.body").Nodes, HTML(), rankOf(doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	got := seq.Simple()[0]
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("expected sanitised markup, got %q", got)
	}
	if !strings.Contains(got, "<b>there</b>") {
		t.Fatalf("expected inline markup to survive, got %q", got)
	}
}

func TestExtract_Func(t *testing.T) {
	doc := parse(t)
	upper := Func(func(n *html.Node) string {
		return strings.ToUpper(goquery.NewDocumentFromNode(n).Text())
	})
	seq, err := Extract(doc.Find("a").Nodes[:1], upper, rankOf(doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if seq.Simple()[0] != "ALPHA" {
		t.Fatalf("unexpected value %q", seq.Simple()[0])
	}
}

func TestExtract_RequiresPositionFunc(t *testing.T) {
	if _, err := Extract(nil, nil, nil); err == nil {
		t.Fatalf("expected error without position function")
	}
}

func TestParseAccessor(t *testing.T) {
	doc := parse(t)
	node := doc.Find("li").Nodes[0]

	tests := []struct {
		expr string
		want string
		desc string
	}{
		{expr: "", want: "Alpha posted 2014-03-01", desc: "text|trim"},
		{expr: "@class", want: "", desc: "@class"},
		{expr: "/\\d{4}-\\d{2}/", want: "2014-03", desc: "/\\d{4}-\\d{2}/"},
		{expr: "text|trim", want: "Alpha posted 2014-03-01", desc: "text|trim"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			acc, err := ParseAccessor(tt.expr)
			if err != nil {
				t.Fatalf("parse accessor: %v", err)
			}
			if tt.expr == "" {
				acc = Trim(acc)
			}
			got, err := acc.Access(node)
			if err != nil {
				t.Fatalf("access: %v", err)
			}
			if got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
			if Describe(acc) != tt.desc {
				t.Fatalf("describe: want %q, got %q", tt.desc, Describe(acc))
			}
		})
	}
}

func TestParseAccessor_Errors(t *testing.T) {
	for _, expr := range []string{"@", "//", "/(/", "xpath", "/(/|trim"} {
		if _, err := ParseAccessor(expr); err == nil {
			t.Fatalf("expected error for %q", expr)
		}
	}
}

func TestSequence_String(t *testing.T) {
	seq := Sequence{Values: []Value{{Value: "a", Position: 3}, {Value: "b", Position: 9}}}
	if seq.String() != "<Sequence[<a(3)>, <b(9)>]>" {
		t.Fatalf("unexpected debug form %q", seq.String())
	}
	if !seq.AsRepeatable().Repeatable || seq.Repeatable {
		t.Fatalf("AsRepeatable must copy")
	}
}

func TestMatchError_TruncatesOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("é", 56) + "日本語テキスト"
	err := &MatchError{Pattern: `\d+`, Text: text, Position: 3}

	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Fatalf("error message is not valid UTF-8: %q", msg)
	}
	want := strings.Repeat("é", 56) + "日..."
	if !strings.Contains(msg, strconv.Quote(want)) {
		t.Fatalf("expected truncated text %q in %q", want, msg)
	}
}
