package extractor

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/BerylCAtieno/document-analytics-api/internal/models"
)

const (
	pdfHeadingFontSize = 16.0
	pdfCapsHeadingLen  = 15
	pdfMinListItemLen  = 5
	// A vertical gap this many times the typical line gap starts a new paragraph.
	pdfParagraphGap = 1.5
)

// PDFWarning is attached to every PDF result.
const PDFWarning = "PDF structure is reconstructed heuristically; counts are approximate"

var listMarker = regexp.MustCompile(`^\s*(?:[•●▪◦‣∙·*+\-–]|\d{1,3}[.)])\s+`)

type pdfAdapter struct{}

func (pdfAdapter) SupportedTypes() []string { return []string{MimePDF} }

// Convert rebuilds structure and paragraphs from text runs. Headings are
// large or long all-caps lines, emphasis comes from font names and list items
// from bullet-prefixed lines.
func (pdfAdapter) Convert(data []byte) (out *Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var lines []pdfLine
	var structure models.StructureMetrics

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		lines = append(lines, buildLines(i, pageTexts(page))...)
		structure.Links += countLinkAnnotations(page)
		structure.Images += countImageXObjects(page)
	}

	paragraphs, derived := layoutLines(lines)
	structure.Headings = derived.Headings
	structure.Lists = derived.Lists
	structure.BoldInstances = derived.BoldInstances
	structure.ItalicInstances = derived.ItalicInstances

	if len(paragraphs) == 0 && structure.Headings == 0 {
		return nil, fmt.Errorf("no text could be extracted from PDF: %w", ErrEmptyDocument)
	}

	return &Output{
		Paragraphs: paragraphs,
		Structure:  &structure,
		Warnings:   []string{PDFWarning},
	}, nil
}

// pageTexts reads positioned text runs, recovering per page so one broken
// content stream does not lose the whole document.
func pageTexts(page pdf.Page) (texts []pdf.Text) {
	defer func() {
		if recover() != nil {
			texts = nil
		}
	}()
	return page.Content().Text
}

type pdfLine struct {
	Page       int
	Y          float64
	Text       string
	FontSize   float64
	BoldRuns   int
	ItalicRuns int
}

// buildLines groups runs sharing a baseline, orders them left to right and
// inserts spaces where the horizontal gap suggests a word break.
func buildLines(pageNum int, texts []pdf.Text) []pdfLine {
	byRow := make(map[int64][]pdf.Text)
	var rows []int64
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		key := int64(math.Round(t.Y))
		if _, ok := byRow[key]; !ok {
			rows = append(rows, key)
		}
		byRow[key] = append(byRow[key], t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i] > rows[j] })

	lines := make([]pdfLine, 0, len(rows))
	for _, y := range rows {
		runs := byRow[y]
		sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

		line := pdfLine{Page: pageNum, Y: float64(y)}
		var b strings.Builder
		prevBold, prevItalic := false, false
		for i, r := range runs {
			if i > 0 && needsSpace(runs[i-1], r) {
				b.WriteByte(' ')
			}
			b.WriteString(r.S)
			if r.FontSize > line.FontSize {
				line.FontSize = r.FontSize
			}

			bold, italic := fontStyle(r.Font)
			if bold && !prevBold && strings.TrimSpace(r.S) != "" {
				line.BoldRuns++
			}
			if italic && !prevItalic && strings.TrimSpace(r.S) != "" {
				line.ItalicRuns++
			}
			prevBold, prevItalic = bold, italic
		}
		line.Text = strings.TrimSpace(cleanPDFText(b.String()))
		if line.Text != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func needsSpace(prev, next pdf.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	width := prev.W
	if width <= 0 {
		width = float64(len([]rune(prev.S))) * prev.FontSize * 0.5
	}
	gap := next.X - (prev.X + width)
	size := prev.FontSize
	if size <= 0 {
		size = 10
	}
	return gap > size*0.15
}

func fontStyle(font string) (bold, italic bool) {
	f := strings.ToLower(font)
	return strings.Contains(f, "bold"), strings.Contains(f, "italic") || strings.Contains(f, "oblique")
}

// layoutLines turns ordered lines into paragraph texts and structure counts.
// Headings are counted but, as with HTML headings, not emitted as content.
func layoutLines(lines []pdfLine) ([]string, models.StructureMetrics) {
	var s models.StructureMetrics
	var paragraphs []string
	var current []string
	inList := false
	gap := typicalLineGap(lines)

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, joinLines(current))
			current = nil
		}
	}

	for i, line := range lines {
		s.BoldInstances += line.BoldRuns
		s.ItalicInstances += line.ItalicRuns

		switch {
		case isPDFHeading(line):
			flush()
			inList = false
			s.Headings++
		case isPDFListItem(line.Text):
			flush()
			if !inList {
				s.Lists++
				inList = true
			}
			paragraphs = append(paragraphs, strings.TrimSpace(listMarker.ReplaceAllString(line.Text, "")))
		default:
			inList = false
			if i > 0 && len(current) > 0 && paragraphBreak(lines[i-1], line, gap) {
				flush()
			}
			current = append(current, line.Text)
		}
	}
	flush()
	return paragraphs, s
}

func isPDFHeading(line pdfLine) bool {
	if line.FontSize > pdfHeadingFontSize {
		return true
	}
	return len([]rune(line.Text)) > pdfCapsHeadingLen && isAllCaps(line.Text)
}

func isPDFListItem(text string) bool {
	return len([]rune(text)) > pdfMinListItemLen && listMarker.MatchString(text)
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				return false
			}
			letters++
		}
	}
	return letters > 0
}

func paragraphBreak(prev, next pdfLine, typical float64) bool {
	if prev.Page != next.Page {
		return true
	}
	if typical <= 0 {
		return false
	}
	return prev.Y-next.Y > typical*pdfParagraphGap
}

// typicalLineGap is the median distance between consecutive lines on a page.
func typicalLineGap(lines []pdfLine) float64 {
	var gaps []float64
	for i := 1; i < len(lines); i++ {
		if lines[i].Page != lines[i-1].Page {
			continue
		}
		if g := lines[i-1].Y - lines[i].Y; g > 0 {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	sort.Float64s(gaps)
	return gaps[len(gaps)/2]
}

var lineEndHyphen = regexp.MustCompile(`(\p{L})-$`)

// joinLines joins wrapped lines, repairing words hyphenated across a break.
func joinLines(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i == 0 {
			b.WriteString(l)
			continue
		}
		prev := lines[i-1]
		if lineEndHyphen.MatchString(prev) && startsLower(l) {
			s := b.String()
			b.Reset()
			b.WriteString(strings.TrimSuffix(s, "-"))
			b.WriteString(l)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(l)
	}
	return b.String()
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

var ligatures = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬆ", "st",
	"\u00ad", "",
	"\x00", "",
)

// cleanPDFText expands ligatures and applies NFC normalisation.
func cleanPDFText(s string) string {
	s = ligatures.Replace(s)
	normalized, _, err := transform.String(norm.NFC, s)
	if err != nil {
		return s
	}
	return normalized
}

func countLinkAnnotations(page pdf.Page) int {
	annots := page.V.Key("Annots")
	n := 0
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.Key("Subtype").Name() != "Link" {
			continue
		}
		if !a.Key("A").Key("URI").IsNull() {
			n++
		}
	}
	return n
}

func countImageXObjects(page pdf.Page) int {
	xobjects := page.Resources().Key("XObject")
	n := 0
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			n++
		}
	}
	return n
}
