// Package dom is the minimal document tree the extractors work against.
// Selecting, counting and stripping only go through Node and Document so the
// HTML engine underneath can be swapped.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

type Node interface {
	// Tag is the lowercase element name.
	Tag() string
	// Text is the node's text content with block boundaries turned into spaces
	// and whitespace collapsed.
	Text() string
	Attr(name string) (string, bool)
	Children() []Node
	// Find returns descendants matching a CSS selector in document order.
	// An invalid selector matches nothing.
	Find(selector string) []Node
}

type Document interface {
	Node
	// Body is the <body> element, or the document root when there is none.
	Body() Node
	// RemoveFunc detaches every element for which match returns true and
	// returns how many were removed.
	RemoveFunc(match func(Node) bool) int
	// HTML renders the current tree.
	HTML() (string, error)
}

// Parse builds a Document from HTML without sanitizing it.
func Parse(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &document{doc: doc}, nil
}

// ParseString is Parse for an in-memory string.
func ParseString(s string) (Document, error) {
	return Parse(strings.NewReader(s))
}

var sanitizer = newSanitizer()

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Landmark and widget elements survive sanitizing so the denylist can
	// drop them with their content.
	p.AllowElements("nav", "header", "footer", "aside", "main", "article", "section",
		"figure", "figcaption", "caption", "blockquote", "pre",
		"button", "form", "iframe", "svg")
	p.AllowStyling()
	p.AllowAttrs("role").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	p.AllowDataURIImages()
	return p
}

// ParseSanitized sanitizes untrusted HTML and parses the result.
// Scripts, styles, event handlers and unknown elements are removed first.
func ParseSanitized(r io.Reader) (Document, error) {
	clean := sanitizer.SanitizeReader(r)
	return Parse(clean)
}

type document struct {
	doc *goquery.Document
}

func (d *document) root() *selNode { return &selNode{sel: d.doc.Selection} }

func (d *document) Tag() string                     { return "#document" }
func (d *document) Text() string                    { return d.Body().Text() }
func (d *document) Attr(name string) (string, bool) { return "", false }
func (d *document) Children() []Node                { return d.root().Children() }
func (d *document) Find(selector string) []Node     { return d.root().Find(selector) }

func (d *document) Body() Node {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		return d.root()
	}
	return &selNode{sel: body}
}

func (d *document) RemoveFunc(match func(Node) bool) int {
	var doomed []*html.Node
	d.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if match(&selNode{sel: s}) {
			doomed = append(doomed, s.Nodes...)
		}
	})
	if len(doomed) == 0 {
		return 0
	}
	d.doc.FindNodes(doomed...).Remove()
	return len(doomed)
}

func (d *document) HTML() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}

type selNode struct {
	sel *goquery.Selection
}

func (n *selNode) Tag() string {
	if len(n.sel.Nodes) == 0 || n.sel.Nodes[0].Type != html.ElementNode {
		return ""
	}
	return n.sel.Nodes[0].Data
}

func (n *selNode) Text() string {
	var b strings.Builder
	for _, node := range n.sel.Nodes {
		writeText(&b, node)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func (n *selNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *selNode) Children() []Node {
	return wrap(n.sel.Children())
}

func (n *selNode) Find(selector string) []Node {
	return wrap(n.sel.Find(selector))
}

func wrap(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &selNode{sel: s})
	})
	return out
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"caption": true, "dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true, "tr": true,
	"ul": true,
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte(' ')
	}
}
