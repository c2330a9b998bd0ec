package extractor

import (
	"strings"

	"github.com/BerylCAtieno/document-analytics-api/internal/dom"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
)

// ExtractStructure counts structural elements in a boilerplate-stripped tree.
func ExtractStructure(root dom.Node) models.StructureMetrics {
	return models.StructureMetrics{
		Headings:        len(root.Find("h1, h2, h3, h4, h5, h6")),
		Lists:           len(root.Find("ul, ol, dl")),
		BoldInstances:   len(root.Find("b, strong")),
		ItalicInstances: len(root.Find("i, em")),
		Links:           countLinks(root),
		Images:          len(root.Find("img")),
		Tables:          len(root.Find("table")),
		Footnotes:       countFootnotes(root),
	}
}

func countLinks(root dom.Node) int {
	n := 0
	for _, a := range root.Find("a[href]") {
		if !isFootnoteMarker(a) {
			n++
		}
	}
	return n
}

// isFootnoteMarker matches goldmark's footnote reference and back-reference
// anchors. They are navigation inside the document, not links.
func isFootnoteMarker(n dom.Node) bool {
	if n.Tag() != "a" {
		return false
	}
	if role, ok := n.Attr("role"); ok && (role == "doc-noteref" || role == "doc-backlink") {
		return true
	}
	class, _ := n.Attr("class")
	for _, tok := range strings.Fields(class) {
		if tok == "footnote-ref" || tok == "footnote-backref" {
			return true
		}
	}
	return false
}

// countFootnotes recognises goldmark (li#fn:N), converted DOCX (li#footnote-N)
// and DPUB-ARIA footnote/endnote roles.
func countFootnotes(root dom.Node) int {
	n := 0
	for _, el := range root.Find("li[id], [role]") {
		if role, ok := el.Attr("role"); ok {
			if role == "doc-footnote" || role == "doc-endnote" {
				n++
				continue
			}
		}
		if el.Tag() != "li" {
			continue
		}
		id, _ := el.Attr("id")
		id = strings.ToLower(id)
		if strings.HasPrefix(id, "fn") || strings.HasPrefix(id, "footnote") {
			n++
		}
	}
	return n
}
