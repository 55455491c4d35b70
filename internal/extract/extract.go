// Package extract turns uploaded file bytes into plain text by file type.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFileType rejects uploads whose extension has no extractor.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrExtraction marks a supported file whose text could not be read.
	ErrExtraction = errors.New("text extraction failed")
)

// TikaExtractor is the optional word-processor path; *tika.Client satisfies
// it. Nil means doc/docx uploads are rejected as unsupported.
type TikaExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

type Extractor struct {
	tika TikaExtractor
}

func New(tika TikaExtractor) *Extractor {
	return &Extractor{tika: tika}
}

// SupportedTypes lists the accepted file extensions, dot included.
func (e *Extractor) SupportedTypes() []string {
	types := []string{".pdf", ".txt"}
	if e.tika != nil {
		types = append(types, ".doc", ".docx")
	}
	return types
}

// Text extracts plain text from data. ext is the lower-cased file extension
// including the dot.
func (e *Extractor) Text(ext, filename string, data []byte) (string, error) {
	switch ext {
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid utf-8", ErrExtraction, filename)
		}
		return string(data), nil
	case ".pdf":
		text, err := pdfText(data)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrExtraction, filename, err)
		}
		return text, nil
	case ".doc", ".docx":
		if e.tika == nil {
			return "", fmt.Errorf("%w: %s (no tika server configured)", ErrUnsupportedFileType, ext)
		}
		text, err := e.tika.ExtractText(filename, data)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrExtraction, filename, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}

// NormalizeExt returns the lower-cased extension of filename, dot included.
func NormalizeExt(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx:])
}
