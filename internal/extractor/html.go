package extractor

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

type htmlAdapter struct{}

func (htmlAdapter) SupportedTypes() []string { return []string{MimeHTML} }

func (htmlAdapter) Convert(data []byte) (*Output, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	// Honour <meta charset> and BOMs; falls back to UTF-8 / windows-1252 sniffing.
	r, err := charset.NewReader(bytes.NewReader(data), MimeHTML)
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode html: %w", err)
	}

	return &Output{HTML: string(decoded), Article: true}, nil
}
