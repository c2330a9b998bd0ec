package extractor

import (
	"fmt"
	"mime"
	"sort"
	"strings"

	"github.com/BerylCAtieno/document-analytics-api/internal/dom"
	"github.com/BerylCAtieno/document-analytics-api/internal/models"
	"github.com/BerylCAtieno/document-analytics-api/internal/segmenter"
	"github.com/BerylCAtieno/document-analytics-api/internal/textutil"
)

const (
	MimeHTML     = "text/html"
	MimeText     = "text/plain"
	MimeMarkdown = "text/markdown"
	MimePDF      = "application/pdf"
	MimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var mimeAliases = map[string]string{
	"application/xhtml+xml": MimeHTML,
	"text/txt":              MimeText,
	"application/txt":       MimeText,
	"application/x-txt":     MimeText,
	"text/x-markdown":       MimeMarkdown,
	"text/md":               MimeMarkdown,
	"application/x-pdf":     MimePDF,
	"application/docx":      MimeDOCX,
	"application/x-docx":    MimeDOCX,
	"application/vnd.openxmlformats-officedocument.wordprocessingml": MimeDOCX,
}

// Canonical strips parameters from a MIME type and resolves known aliases.
func Canonical(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(mimeType))
	}
	if alias, ok := mimeAliases[mt]; ok {
		return alias
	}
	return mt
}

// Output is what an Adapter hands back. Tree-based formats fill HTML;
// formats without a tree fill Paragraphs and Structure.
type Output struct {
	HTML string
	// Article enables main-content extraction before block scanning.
	Article bool

	Paragraphs []string
	Structure  *models.StructureMetrics
	Warnings   []string
}

// Adapter converts one source format.
type Adapter interface {
	Convert(data []byte) (*Output, error)
	SupportedTypes() []string
}

// Result is a normalized document plus how it was produced.
type Result struct {
	Document     *models.ParsedDocument
	MimeType     string
	Segmentation segmenter.Method
	Warnings     []string
}

type Normalizer struct {
	adapters  map[string]Adapter
	denylist  dom.Denylist
	splitter  textutil.SentenceSplitter
	extractor segmenter.ArticleExtractor
}

type Option func(*Normalizer)

func WithDenylist(d dom.Denylist) Option {
	return func(n *Normalizer) { n.denylist = d }
}

func WithSplitter(s textutil.SentenceSplitter) Option {
	return func(n *Normalizer) { n.splitter = s }
}

// WithArticleExtractor replaces the readability extractor. Nil disables it.
func WithArticleExtractor(e segmenter.ArticleExtractor) Option {
	return func(n *Normalizer) { n.extractor = e }
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		adapters:  make(map[string]Adapter),
		denylist:  dom.DefaultDenylist(),
		splitter:  textutil.DefaultSplitter,
		extractor: segmenter.ReadabilityExtractor{},
	}
	for _, a := range []Adapter{htmlAdapter{}, textAdapter{}, markdownAdapter{}, docxAdapter{}, pdfAdapter{}} {
		n.Register(a)
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Normalizer) Register(a Adapter) {
	for _, t := range a.SupportedTypes() {
		n.adapters[Canonical(t)] = a
	}
}

func (n *Normalizer) Supports(mimeType string) bool {
	_, ok := n.adapters[Canonical(mimeType)]
	return ok
}

func (n *Normalizer) SupportedTypes() []string {
	types := make([]string, 0, len(n.adapters))
	for t := range n.adapters {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

var defaultNormalizer = NewNormalizer()

// Normalize converts data of the declared MIME type with default settings.
func Normalize(data []byte, mimeType string) (*models.ParsedDocument, error) {
	res, err := defaultNormalizer.Normalize(data, mimeType)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

func (n *Normalizer) Normalize(data []byte, mimeType string) (*Result, error) {
	mt := Canonical(mimeType)
	adapter, ok := n.adapters[mt]
	if !ok {
		return nil, &UnsupportedFormatError{MimeType: mimeType}
	}

	out, err := convert(adapter, data)
	if err != nil {
		return nil, &FormatConversionError{MimeType: mt, Err: err}
	}

	seg := &segmenter.Segmenter{Splitter: n.splitter}
	res := &Result{MimeType: mt, Warnings: out.Warnings}

	if out.Structure != nil {
		res.Document = &models.ParsedDocument{
			Structure: *out.Structure,
			TextData:  seg.SegmentText(out.Paragraphs),
		}
		res.Segmentation = segmenter.MethodBlocks
		if len(res.Document.TextData.ParagraphSentences) == 0 {
			res.Segmentation = segmenter.MethodEmpty
		}
		return res, nil
	}

	doc, err := dom.ParseSanitized(strings.NewReader(out.HTML))
	if err != nil {
		return nil, &FormatConversionError{MimeType: mt, Err: err}
	}
	dom.StripBoilerplate(doc, n.denylist)
	// Reference numbers would otherwise be glued onto the preceding word.
	doc.RemoveFunc(isFootnoteMarker)

	if out.Article {
		seg.Extractor = n.extractor
	}
	text, method := seg.Segment(doc)

	res.Document = &models.ParsedDocument{
		Structure: ExtractStructure(doc),
		TextData:  text,
	}
	res.Segmentation = method
	return res, nil
}

func convert(a Adapter, data []byte) (out *Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("converter panic: %v", r)
		}
	}()
	return a.Convert(data)
}
