package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the resume_extract binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_extract"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resume_extract ./cmd/resume_extract'", binaryPath)
	}

	return binaryPath
}

// testdataPath joins elem onto the repository testdata directory
func testdataPath(elem ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, elem...)...)
}
