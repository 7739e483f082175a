// Package source lists and reads resume documents from a local directory or an S3 bucket,
// and watches a directory for new documents.
package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-extract/internal/textract"
)

// Document is the raw content of one resume document
type Document struct {
	Name     string // Name relative to the source, used for format detection
	Location string // Full path or s3:// URL
	Data     []byte
}

// Source lists and reads documents
type Source interface {
	// List returns the names of all supported documents, sorted
	List(ctx context.Context) ([]string, error)
	// Read returns the document with the given name
	Read(ctx context.Context, name string) (*Document, error)
}

// Dir is a Source backed by a local directory tree
type Dir struct {
	root     string
	maxBytes int64
}

// NewDir creates a Source over root. Documents larger than maxBytes are rejected; 0 means unlimited.
func NewDir(root string, maxBytes int64) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("cannot open directory %s", root), Cause: err}
	}
	if !info.IsDir() {
		return nil, &Error{Message: fmt.Sprintf("%s is not a directory", root)}
	}
	return &Dir{root: root, maxBytes: maxBytes}, nil
}

// List walks the directory tree, skipping hidden files and directories
func (d *Dir) List(ctx context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != d.root && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !textract.IsSupported(entry.Name()) {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to list %s", d.root), Cause: err}
	}
	sort.Strings(names)
	return names, nil
}

// Read loads one document by its name relative to the root
func (d *Dir) Read(ctx context.Context, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(d.root, filepath.FromSlash(name))
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to open %s", name), Cause: err}
	}
	defer func() { _ = f.Close() }()

	data, err := readLimited(f, name, d.maxBytes)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Location: path, Data: data}, nil
}

// readLimited reads r fully, failing with *TooLargeError past limit bytes
func readLimited(r io.Reader, name string, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("failed to read %s", name), Cause: err}
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read %s", name), Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &TooLargeError{Name: name, Limit: limit}
	}
	return data, nil
}
