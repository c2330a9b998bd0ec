package extractor

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is wrapped by FormatConversionError when a converter
// produced no usable content at all.
var ErrEmptyDocument = errors.New("document contains no text")

type UnsupportedFormatError struct {
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q", e.MimeType)
}

// FormatConversionError reports a converter failure for a supported format.
type FormatConversionError struct {
	MimeType string
	Err      error
}

func (e *FormatConversionError) Error() string {
	return fmt.Sprintf("convert %s document: %v", FileType(e.MimeType), e.Err)
}

func (e *FormatConversionError) Unwrap() error {
	return e.Err
}

// FileType is the short name of a MIME type used in error responses.
func FileType(mimeType string) string {
	switch Canonical(mimeType) {
	case MimeHTML:
		return "html"
	case MimeText:
		return "txt"
	case MimeMarkdown:
		return "markdown"
	case MimePDF:
		return "pdf"
	case MimeDOCX:
		return "docx"
	default:
		if mimeType == "" {
			return "unknown"
		}
		return mimeType
	}
}
