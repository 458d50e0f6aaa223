// Package extract provides text extraction from supported document formats.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

// ErrUnsupportedKind is returned when a document kind is not supported.
var ErrUnsupportedKind = errors.New("unsupported document kind")

// ExtractionError reports a failed extraction for a supported kind, carrying
// the underlying parser diagnostic. Extraction is all-or-nothing: when an
// ExtractionError is returned, no partial text is produced.
type ExtractionError struct {
	Kind Kind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor extracts plain text from raw document bytes.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract extracts text from content of the given kind. Unsupported kinds
// fail with ErrUnsupportedKind; corrupt bytes for a supported kind fail with
// an ExtractionError wrapping the parser diagnostic.
func (e *Extractor) Extract(content []byte, kind Kind) (string, error) {
	switch kind {
	case KindPDF:
		text, err := extractPDF(content)
		if err != nil {
			return "", &ExtractionError{Kind: KindPDF, Err: err}
		}
		return text, nil
	case KindDOCX:
		text, err := extractDOCX(content)
		if err != nil {
			return "", &ExtractionError{Kind: KindDOCX, Err: err}
		}
		return text, nil
	case KindText:
		return extractPlain(content), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

// ExtractSniffed extracts text when the kind is unknown: it tries PDF first
// and falls back to plain text. Mirrors upload handling for files that carry
// neither a usable MIME type nor a recognizable extension.
func (e *Extractor) ExtractSniffed(content []byte) (string, error) {
	if text, err := extractPDF(content); err == nil {
		return text, nil
	}
	return extractPlain(content), nil
}

// DetectKind maps a MIME type and/or filename to a document kind. The MIME
// type wins when it gives a signal; otherwise the file extension decides.
// Returns false when neither does.
func DetectKind(mime, filename string) (Kind, bool) {
	mime = strings.ToLower(mime)
	switch {
	case strings.Contains(mime, "pdf"):
		return KindPDF, true
	case strings.Contains(mime, "msword"),
		strings.Contains(mime, "officedocument"),
		strings.Contains(mime, "word"):
		return KindDOCX, true
	case strings.Contains(mime, "text"):
		return KindText, true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDOCX, true
	case ".txt", ".md", ".rst":
		return KindText, true
	}
	return "", false
}
