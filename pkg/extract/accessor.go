package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Accessor derives the string value of a single node.
type Accessor interface {
	Access(n *html.Node) (string, error)
}

// AccessorFunc adapts a plain function to the Accessor interface.
type AccessorFunc func(n *html.Node) (string, error)

// Access calls f(n).
func (f AccessorFunc) Access(n *html.Node) (string, error) {
	return f(n)
}

// Func wraps an infallible node-to-string function.
func Func(fn func(n *html.Node) string) Accessor {
	return AccessorFunc(func(n *html.Node) (string, error) {
		return fn(n), nil
	})
}

type textAccessor struct{}

func (textAccessor) Access(n *html.Node) (string, error) {
	return selectionOf(n).Text(), nil
}

func (textAccessor) String() string { return "text" }

// Text returns the rendered text content of the node. It is the default
// accessor.
func Text() Accessor {
	return textAccessor{}
}

type attrAccessor struct {
	name string
}

func (a attrAccessor) Access(n *html.Node) (string, error) {
	value, _ := selectionOf(n).Attr(a.name)
	return value, nil
}

func (a attrAccessor) String() string { return "@" + a.name }

// Attr reads the named attribute. A missing attribute yields "".
func Attr(name string) Accessor {
	return attrAccessor{name: name}
}

type regexAccessor struct {
	re *regexp.Regexp
}

func (a regexAccessor) Access(n *html.Node) (string, error) {
	text := selectionOf(n).Text()
	loc := a.re.FindStringIndex(text)
	if loc == nil {
		return "", &MatchError{Pattern: a.re.String(), Text: text}
	}
	return text[loc[0]:loc[1]], nil
}

func (a regexAccessor) String() string { return "/" + a.re.String() + "/" }

// Regex returns the first match of re in the node's text. A node without a
// match fails the extraction with a *MatchError.
func Regex(re *regexp.Regexp) Accessor {
	return regexAccessor{re: re}
}

type htmlAccessor struct {
	policy *bluemonday.Policy
}

func (a htmlAccessor) Access(n *html.Node) (string, error) {
	markup, err := selectionOf(n).Html()
	if err != nil {
		return "", fmt.Errorf("extract: render inner html: %w", err)
	}
	return strings.TrimSpace(a.policy.Sanitize(markup)), nil
}

func (htmlAccessor) String() string { return "html" }

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

func defaultMarkupPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.UGCPolicy()
	})
	return markupPolicy
}

// HTML returns the node's inner markup sanitised with bluemonday's UGC policy.
func HTML() Accessor {
	return htmlAccessor{policy: defaultMarkupPolicy()}
}

// HTMLWithPolicy returns the inner markup sanitised with a custom policy.
func HTMLWithPolicy(policy *bluemonday.Policy) Accessor {
	if policy == nil {
		policy = defaultMarkupPolicy()
	}
	return htmlAccessor{policy: policy}
}

type trimAccessor struct {
	inner Accessor
}

func (a trimAccessor) Access(n *html.Node) (string, error) {
	value, err := a.inner.Access(n)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(value), " "), nil
}

func (a trimAccessor) String() string {
	return describe(a.inner) + "|trim"
}

// Trim collapses whitespace runs in the inner accessor's result.
func Trim(inner Accessor) Accessor {
	if inner == nil {
		inner = Text()
	}
	return trimAccessor{inner: inner}
}

// ParseAccessor maps the textual accessor shorthands:
//
//	"", "text"   rendered text
//	"@name"      attribute
//	"/pattern/"  first regex match in the text
//	"html"       sanitised inner markup
//
// A trailing "|trim" collapses whitespace in the result.
func ParseAccessor(expr string) (Accessor, error) {
	expr = strings.TrimSpace(expr)

	if base, ok := strings.CutSuffix(expr, "|trim"); ok {
		inner, err := ParseAccessor(base)
		if err != nil {
			return nil, err
		}
		return Trim(inner), nil
	}

	switch {
	case expr == "" || expr == "text":
		return Text(), nil
	case expr == "html":
		return HTML(), nil
	case strings.HasPrefix(expr, "@"):
		name := strings.TrimSpace(expr[1:])
		if name == "" {
			return nil, errors.New("extract: attribute accessor requires a name")
		}
		return Attr(name), nil
	case len(expr) >= 2 && strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/"):
		pattern := expr[1 : len(expr)-1]
		if pattern == "" {
			return nil, errors.New("extract: regex accessor requires a pattern")
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("extract: compile %q: %w", pattern, err)
		}
		return Regex(re), nil
	default:
		return nil, fmt.Errorf("extract: unknown accessor %q", expr)
	}
}

// Describe returns the shorthand form of a built-in accessor, or "func" for
// caller-supplied ones.
func Describe(a Accessor) string {
	return describe(a)
}

func describe(a Accessor) string {
	if s, ok := a.(fmt.Stringer); ok {
		return s.String()
	}
	if a == nil {
		return "text"
	}
	return "func"
}

func selectionOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}
