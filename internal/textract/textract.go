// Package textract converts resume documents (PDF, DOCX, HTML, plain text) into raw text.
// It is the only place that understands document formats; everything downstream works on strings.
package textract

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported document format
type Format string

// Supported formats
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
	FormatText Format = "txt"
)

// Document is the result of text extraction
type Document struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	Format    Format `json:"format"`
}

// SupportedExtensions lists the file extensions Extract understands
var SupportedExtensions = []string{".pdf", ".docx", ".html", ".htm", ".txt", ".text", ".md"}

// IsSupported reports whether name has an extension Extract understands
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// DetectFormat picks the document format from the file name, falling back to content sniffing.
func DetectFormat(data []byte, name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".txt", ".text", ".md":
		return FormatText, nil
	}

	contentType := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return FormatPDF, nil
	case strings.HasPrefix(contentType, "application/zip"):
		return FormatDOCX, nil
	case strings.HasPrefix(contentType, "text/html"):
		return FormatHTML, nil
	case strings.HasPrefix(contentType, "text/plain"):
		return FormatText, nil
	}
	return "", &UnsupportedFormatError{Name: name, ContentType: contentType}
}

// Extract converts a document into text. Any failure to read the document is
// reported as an *UnreadableError so callers can skip the document and continue.
func Extract(ctx context.Context, data []byte, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := DetectFormat(data, name)
	if err != nil {
		return nil, &UnreadableError{Name: name, Message: "unsupported format", Cause: err}
	}

	var doc *Document
	switch format {
	case FormatPDF:
		doc, err = extractPDF(data)
	case FormatDOCX:
		doc, err = extractDOCX(data)
	case FormatHTML:
		doc, err = extractHTML(data)
	default:
		doc, err = extractPlain(data)
	}
	if err != nil {
		return nil, &UnreadableError{Name: name, Format: format, Message: "failed to extract text", Cause: err}
	}
	doc.Format = format
	return doc, nil
}

func extractPlain(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, &InvalidEncodingError{}
	}
	return &Document{Text: string(data), PageCount: 1}, nil
}
