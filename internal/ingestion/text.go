// Package ingestion turns source documents into the cleaned text and line sequence the extractors consume.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/resume-extract/internal/textract"
)

var (
	inlineSpaceRe   = regexp.MustCompile(`[ \t\x{00A0}\x{2007}\x{202F}]+`)
	excessBlankRe   = regexp.MustCompile(`\n\n\n+`)
	ligatureReplace = strings.NewReplacer(
		"\ufb00", "ff", "\ufb01", "fi", "\ufb02", "fl", "\ufb03", "ffi", "\ufb04", "ffl",
		"\u00ad", "", "\u200b", "", "\ufeff", "",
		"\u2018", "'", "\u2019", "'", "\u201c", `"`, "\u201d", `"`,
		"\f", "\n\n",
	)
)

// CleanText cleans and normalizes extracted text while preserving line and paragraph structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Undo PDF ligatures, soft hyphens and smart quotes
	content = ligatureReplace.Replace(content)

	// 3. Process each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 4. Join lines and keep at most one blank line between paragraphs
	result := strings.Join(cleanedLines, "\n")
	result = excessBlankRe.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses runs of inline whitespace (including non-breaking spaces)
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return inlineSpaceRe.ReplaceAllString(line, " ")
}

// Lines returns the whitespace-trimmed, non-empty lines of text in document order
func Lines(text string) []string {
	if text == "" {
		return []string{}
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// IngestFromFile reads a document, extracts and cleans its text, and returns the text with metadata.
// Documents that cannot be converted to text are reported as *textract.UnreadableError.
func IngestFromFile(ctx context.Context, path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return IngestBytes(ctx, content, filepath.Base(path), path)
}

// IngestBytes extracts and cleans the text of an in-memory document.
// name is used for format detection and source records where the document came from.
func IngestBytes(ctx context.Context, content []byte, name, source string) (string, *Metadata, error) {
	doc, err := textract.Extract(ctx, content, name)
	if err != nil {
		return "", nil, err
	}

	cleanedText := CleanText(doc.Text)
	return cleanedText, newMetadata(source, len(content), doc, cleanedText), nil
}
