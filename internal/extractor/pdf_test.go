package extractor

import (
	"errors"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLines(t *testing.T) {
	texts := []pdf.Text{
		{Font: "Helvetica", FontSize: 10, X: 60, Y: 700.2, W: 20, S: "world"},
		{Font: "Helvetica", FontSize: 10, X: 10, Y: 700, W: 25, S: "Hello"},
		{Font: "Helvetica-Bold", FontSize: 10, X: 38, Y: 699.8, W: 20, S: "big"},
		{Font: "Times-Italic", FontSize: 10, X: 10, Y: 680, W: 30, S: "Second"},
		{Font: "Times-Italic", FontSize: 10, X: 40, Y: 680, W: 20, S: "line"},
		{Font: "Helvetica", FontSize: 10, X: 10, Y: 660, W: 0, S: ""},
	}

	lines := buildLines(2, texts)
	require.Len(t, lines, 2)

	assert.Equal(t, "Hello big world", lines[0].Text)
	assert.Equal(t, 2, lines[0].Page)
	assert.Equal(t, 1, lines[0].BoldRuns)
	assert.Equal(t, 0, lines[0].ItalicRuns)

	assert.Equal(t, "Secondline", lines[1].Text, "touching runs are not separated")
	assert.Equal(t, 1, lines[1].ItalicRuns, "consecutive italic runs count once")
}

func TestLayoutLines(t *testing.T) {
	lines := []pdfLine{
		{Page: 1, Y: 750, Text: "Annual Report", FontSize: 20},
		{Page: 1, Y: 720, Text: "The first paragraph starts here and", FontSize: 10},
		{Page: 1, Y: 708, Text: "continues on a second line.", FontSize: 10, BoldRuns: 1},
		{Page: 1, Y: 684, Text: "A new paragraph after a gap.", FontSize: 10},
		{Page: 1, Y: 672, Text: "• First bullet entry", FontSize: 10},
		{Page: 1, Y: 660, Text: "• Second bullet entry", FontSize: 10, ItalicRuns: 2},
		{Page: 1, Y: 648, Text: "BACKGROUND AND CONTEXT", FontSize: 10},
		{Page: 2, Y: 750, Text: "Text on the next page.", FontSize: 10},
	}

	paragraphs, s := layoutLines(lines)

	assert.Equal(t, []string{
		"The first paragraph starts here and continues on a second line.",
		"A new paragraph after a gap.",
		"First bullet entry",
		"Second bullet entry",
		"Text on the next page.",
	}, paragraphs)
	assert.Equal(t, 2, s.Headings)
	assert.Equal(t, 1, s.Lists)
	assert.Equal(t, 1, s.BoldInstances)
	assert.Equal(t, 2, s.ItalicInstances)
}

func TestLayoutLines_PageBreakStartsParagraph(t *testing.T) {
	lines := []pdfLine{
		{Page: 1, Y: 100, Text: "End of the first page"},
		{Page: 2, Y: 700, Text: "start of the second page"},
	}
	paragraphs, _ := layoutLines(lines)
	assert.Equal(t, []string{"End of the first page", "start of the second page"}, paragraphs)
}

func TestJoinLines(t *testing.T) {
	assert.Equal(t, "a hyphenated word", joinLines([]string{"a hyphen-", "ated word"}))
	assert.Equal(t, "well- Known", joinLines([]string{"well-", "Known"}))
	assert.Equal(t, "one two", joinLines([]string{"one", "two"}))
	assert.Equal(t, "", joinLines(nil))
}

func TestPDFHeuristics(t *testing.T) {
	assert.True(t, isPDFHeading(pdfLine{Text: "Intro", FontSize: 18}))
	assert.True(t, isPDFHeading(pdfLine{Text: "RESULTS AND FINDINGS", FontSize: 10}))
	assert.False(t, isPDFHeading(pdfLine{Text: "SHORT CAPS", FontSize: 10}))
	assert.False(t, isPDFHeading(pdfLine{Text: "Regular sentence text here.", FontSize: 12}))

	assert.True(t, isPDFListItem("1. Numbered entry"))
	assert.True(t, isPDFListItem("- dashed entry"))
	assert.False(t, isPDFListItem("• a"))
	assert.False(t, isPDFListItem("2024 was a good year"))

	assert.False(t, isAllCaps("123 456"))
	assert.True(t, isAllCaps("ÉTAT 2"))
}

func TestCleanPDFText(t *testing.T) {
	assert.Equal(t, "efficient flow", cleanPDFText("eﬃcient ﬂow"))
	assert.Equal(t, "hyphenation", cleanPDFText("hyphen\u00adation"))
	assert.Equal(t, "caf\u00e9", cleanPDFText("cafe\u0301"))
}

func TestTypicalLineGap(t *testing.T) {
	lines := []pdfLine{
		{Page: 1, Y: 100}, {Page: 1, Y: 88}, {Page: 1, Y: 76}, {Page: 1, Y: 40},
		{Page: 2, Y: 700},
	}
	assert.Equal(t, 12.0, typicalLineGap(lines))
	assert.Equal(t, 0.0, typicalLineGap(lines[:1]))
}

func TestNormalize_InvalidPDF(t *testing.T) {
	_, err := Normalize([]byte("%PDF-1.4 truncated"), MimePDF)

	var convErr *FormatConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, MimePDF, convErr.MimeType)
}
