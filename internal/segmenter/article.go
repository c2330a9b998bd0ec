package segmenter

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/BerylCAtieno/document-analytics-api/internal/dom"
)

// ArticleExtractor isolates the main content of a page.
type ArticleExtractor interface {
	Extract(doc dom.Document) (dom.Document, error)
}

var ErrNoArticle = errors.New("no article content found")

// documentURL is only used to resolve relative links inside the article.
var documentURL = &url.URL{Scheme: "http", Host: "document.local", Path: "/"}

// ReadabilityExtractor runs Mozilla-style readability scoring over the page.
type ReadabilityExtractor struct{}

func (ReadabilityExtractor) Extract(doc dom.Document) (out dom.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("readability panic: %v", r)
		}
	}()

	src, err := doc.HTML()
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(strings.NewReader(src), documentURL)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, ErrNoArticle
	}

	return dom.ParseString(article.Content)
}
