package extractor

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type textAdapter struct{}

func (textAdapter) SupportedTypes() []string { return []string{MimeText} }

// Convert decodes the text and wraps blank-line separated blocks in <p>.
// Text that is actually HTML markup takes the HTML path unchanged.
func (textAdapter) Convert(data []byte) (*Output, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}

	if looksLikeHTML(text) {
		return &Output{HTML: text, Article: true}, nil
	}

	var b strings.Builder
	for _, para := range splitParagraphs(text) {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(para))
		b.WriteString("</p>\n")
	}
	return &Output{HTML: b.String()}, nil
}

func decodeText(data []byte) (string, error) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return string(data[3:]), nil
	}

	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), data)
	}

	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), data)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	if s, err := decodeWith(charmap.Windows1252.NewDecoder(), data); err == nil {
		return s, nil
	}
	return decodeWith(charmap.ISO8859_1.NewDecoder(), data)
}

func decodeWith(t transform.Transformer, data []byte) (string, error) {
	decoded, _, err := transform.Bytes(t, data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

var htmlMarker = regexp.MustCompile(`(?i)<(!doctype\s+html|html[\s>]|body[\s>]|p[\s>]|div[\s>]|h[1-6][\s>])`)

func looksLikeHTML(s string) bool {
	head := s
	if len(head) > 4096 {
		head = head[:4096]
	}
	return htmlMarker.MatchString(head)
}

// splitParagraphs normalises line endings and returns blank-line separated
// blocks with their inner line breaks joined by spaces.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paras
}
