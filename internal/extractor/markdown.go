package extractor

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
)

type markdownAdapter struct{}

func (markdownAdapter) SupportedTypes() []string { return []string{MimeMarkdown} }

func (markdownAdapter) Convert(data []byte) (*Output, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	src, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("decode markdown: %w", err)
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return &Output{HTML: buf.String()}, nil
}
