package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jonathan/resume-extract/internal/textract"
)

// Metadata describes where an ingested resume came from and what its text looks like
type Metadata struct {
	Source     string    `json:"source,omitempty"` // File path or object location
	IngestedAt time.Time `json:"ingested_at"`
	Hash       string    `json:"hash"` // SHA256 of the cleaned text
	Format     string    `json:"format,omitempty"`
	PageCount  int       `json:"page_count,omitempty"`
	Bytes      int       `json:"bytes"` // Size of the original document
	Lines      int       `json:"lines"` // Non-empty lines of the cleaned text
	Words      int       `json:"words"`
}

func newMetadata(source string, size int, doc *textract.Document, cleaned string) *Metadata {
	return &Metadata{
		Source:     source,
		IngestedAt: time.Now().UTC(),
		Hash:       textHash(cleaned),
		Format:     string(doc.Format),
		PageCount:  doc.PageCount,
		Bytes:      size,
		Lines:      len(Lines(cleaned)),
		Words:      len(strings.Fields(cleaned)),
	}
}

// textHash identifies a document by its cleaned text, so re-encodings of the same resume match
func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
