package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"path"
	"strconv"
	"strings"
)

const (
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	relHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	// maxPartSize bounds how much of a single zip entry is read.
	maxPartSize = 64 << 20
)

type docxAdapter struct{}

func (docxAdapter) SupportedTypes() []string { return []string{MimeDOCX} }

// Convert renders word/document.xml as HTML. Headings come from paragraph
// styles, runs keep bold/italic, hyperlinks resolve through the part
// relationships, images are inlined as data URIs and footnotes are appended
// as an ordered list.
func (docxAdapter) Convert(data []byte) (*Output, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX as ZIP: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	documentXML, err := readPart(files, "word/document.xml")
	if err != nil {
		return nil, err
	}
	if documentXML == nil {
		return nil, errors.New("document.xml not found in DOCX")
	}

	rels, err := readRelationships(files, "word/_rels/document.xml.rels")
	if err != nil {
		return nil, err
	}

	c := &docxConverter{files: files, rels: rels}
	if err := c.convertBody(documentXML); err != nil {
		return nil, fmt.Errorf("failed to parse document.xml: %w", err)
	}

	footnotesXML, err := readPart(files, "word/footnotes.xml")
	if err != nil {
		return nil, err
	}
	if footnotesXML != nil {
		if err := c.convertFootnotes(footnotesXML); err != nil {
			return nil, fmt.Errorf("failed to parse footnotes.xml: %w", err)
		}
	}

	return &Output{HTML: c.out.String()}, nil
}

func readPart(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type relationships struct {
	Items []relationship `xml:"Relationship"`
}

func readRelationships(files map[string]*zip.File, name string) (map[string]relationship, error) {
	data, err := readPart(files, name)
	if err != nil || data == nil {
		return map[string]relationship{}, err
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	out := make(map[string]relationship, len(rels.Items))
	for _, r := range rels.Items {
		out[r.ID] = r
	}
	return out, nil
}

type docxConverter struct {
	files map[string]*zip.File
	rels  map[string]relationship
	out   strings.Builder

	inList bool
	inText bool
	// tableDepth > 0 means paragraphs are rendered inside a cell.
	tableDepth int

	para *docxParagraph
	run  *docxRun
}

type docxParagraph struct {
	style    string
	numbered bool
	body     strings.Builder
}

type docxRun struct {
	bold, italic bool
	text         strings.Builder
	images       []string
}

func (c *docxConverter) convertBody(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := c.start(d, t); err != nil {
				return err
			}
		case xml.EndElement:
			c.end(t)
		case xml.CharData:
			if c.run != nil && c.inText {
				c.run.text.Write(t)
			}
		}
	}
	c.closeList()
	return nil
}

func (c *docxConverter) start(d *xml.Decoder, t xml.StartElement) error {
	// Alternate content and text boxes duplicate or nest body text.
	if t.Name.Local == "Fallback" || t.Name.Local == "txbxContent" {
		return d.Skip()
	}
	if t.Name.Local == "blip" {
		if c.run != nil {
			if src := c.imageDataURI(attr(t, "embed")); src != "" {
				c.run.images = append(c.run.images, src)
			}
		}
		return nil
	}
	if t.Name.Space != wordNS {
		return nil
	}

	switch t.Name.Local {
	case "tbl":
		c.closeList()
		c.tableDepth++
		c.out.WriteString("<table>")
	case "tr":
		c.out.WriteString("<tr>")
	case "tc":
		c.out.WriteString("<td>")
	case "p":
		c.para = &docxParagraph{}
	case "pStyle":
		if c.para != nil {
			c.para.style = attr(t, "val")
		}
	case "numPr":
		if c.para != nil {
			c.para.numbered = true
		}
	case "hyperlink":
		if c.para != nil {
			c.para.body.WriteString(`<a href="` + html.EscapeString(c.hyperlinkTarget(t)) + `">`)
		}
	case "r":
		c.run = &docxRun{}
	case "b":
		if c.run != nil {
			c.run.bold = toggleOn(t)
		}
	case "i":
		if c.run != nil {
			c.run.italic = toggleOn(t)
		}
	case "t":
		c.inText = true
	case "tab", "br", "cr":
		if c.run != nil {
			c.run.text.WriteByte(' ')
		}
	case "footnoteReference":
		if c.para != nil {
			id := attr(t, "id")
			c.para.body.WriteString(`<sup><a href="#footnote-` + html.EscapeString(id) + `" class="footnote-ref" role="doc-noteref">` + html.EscapeString(id) + `</a></sup>`)
		}
	}
	return nil
}

func (c *docxConverter) end(t xml.EndElement) {
	if t.Name.Space != wordNS {
		return
	}

	switch t.Name.Local {
	case "t":
		c.inText = false
	case "r":
		c.flushRun()
	case "hyperlink":
		if c.para != nil {
			c.para.body.WriteString("</a>")
		}
	case "p":
		c.flushParagraph()
	case "tc":
		c.out.WriteString("</td>")
	case "tr":
		c.out.WriteString("</tr>")
	case "tbl":
		c.out.WriteString("</table>")
		if c.tableDepth > 0 {
			c.tableDepth--
		}
	}
}

func (c *docxConverter) flushRun() {
	r := c.run
	c.run = nil
	if r == nil || c.para == nil {
		return
	}

	text := html.EscapeString(r.text.String())
	if strings.TrimSpace(text) != "" {
		if r.italic {
			text = "<em>" + text + "</em>"
		}
		if r.bold {
			text = "<strong>" + text + "</strong>"
		}
	}
	c.para.body.WriteString(text)

	for _, src := range r.images {
		c.para.body.WriteString(`<img src="` + src + `" alt="">`)
	}
}

func (c *docxConverter) flushParagraph() {
	p := c.para
	c.para = nil
	if p == nil {
		return
	}
	body := p.body.String()
	if strings.TrimSpace(body) == "" {
		return
	}

	if c.tableDepth > 0 {
		c.out.WriteString("<p>" + body + "</p>")
		return
	}

	if level := headingLevel(p.style); level > 0 {
		c.closeList()
		tag := "h" + strconv.Itoa(level)
		c.out.WriteString("<" + tag + ">" + body + "</" + tag + ">\n")
		return
	}

	if p.numbered || strings.HasPrefix(strings.ToLower(p.style), "list") {
		if !c.inList {
			c.out.WriteString("<ul>")
			c.inList = true
		}
		c.out.WriteString("<li>" + body + "</li>")
		return
	}

	c.closeList()
	c.out.WriteString("<p>" + body + "</p>\n")
}

func (c *docxConverter) closeList() {
	if c.inList {
		c.out.WriteString("</ul>\n")
		c.inList = false
	}
}

// headingLevel maps Title and Heading1..Heading6 styles ("heading 2" in some writers).
func headingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if s == "title" {
		return 1
	}
	if strings.HasPrefix(s, "heading") {
		if n, err := strconv.Atoi(strings.TrimPrefix(s, "heading")); err == nil && n >= 1 && n <= 6 {
			return n
		}
	}
	return 0
}

func (c *docxConverter) hyperlinkTarget(t xml.StartElement) string {
	if anchor := attr(t, "anchor"); anchor != "" {
		return "#" + anchor
	}
	if rel, ok := c.rels[attr(t, "id")]; ok && rel.Type == relHyperlink {
		return rel.Target
	}
	return "#"
}

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

func (c *docxConverter) imageDataURI(relID string) string {
	rel, ok := c.rels[relID]
	if !ok || rel.TargetMode == "External" {
		return ""
	}
	mimeType, ok := imageTypes[strings.ToLower(path.Ext(rel.Target))]
	if !ok {
		return ""
	}
	data, err := readPart(c.files, path.Clean(path.Join("word", rel.Target)))
	if err != nil || len(data) == 0 {
		return ""
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

type footnotesPart struct {
	Notes []struct {
		ID         string `xml:"id,attr"`
		Type       string `xml:"type,attr"`
		Paragraphs []struct {
			Runs []struct {
				Text []string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"footnote"`
}

func (c *docxConverter) convertFootnotes(data []byte) error {
	var part footnotesPart
	if err := xml.Unmarshal(data, &part); err != nil {
		return err
	}

	var items []string
	for _, note := range part.Notes {
		if note.Type == "separator" || note.Type == "continuationSeparator" || note.Type == "continuationNotice" {
			continue
		}
		var texts []string
		for _, p := range note.Paragraphs {
			var b strings.Builder
			for _, r := range p.Runs {
				for _, t := range r.Text {
					b.WriteString(t)
				}
			}
			if s := strings.TrimSpace(b.String()); s != "" {
				texts = append(texts, s)
			}
		}
		if len(texts) == 0 {
			continue
		}
		items = append(items, `<li id="footnote-`+html.EscapeString(note.ID)+`"><p>`+html.EscapeString(strings.Join(texts, " "))+`</p></li>`)
	}

	if len(items) > 0 {
		c.out.WriteString("<ol>" + strings.Join(items, "") + "</ol>\n")
	}
	return nil
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggleOn reads OOXML on/off properties such as <w:b/> or <w:b w:val="0"/>.
func toggleOn(t xml.StartElement) bool {
	switch strings.ToLower(attr(t, "val")) {
	case "0", "false", "off":
		return false
	}
	return true
}
