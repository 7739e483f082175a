package schemas

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// NormalizationError means a normalized record could not be decoded into a ResumeRecord.
// Normalization only fills gaps, so this points at a mismatch between the schema and the
// record type rather than at bad input.
type NormalizationError struct {
	Message string
	Cause   error
}

func (e *NormalizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("normalization error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("normalization error: %s", e.Message)
}

func (e *NormalizationError) Unwrap() error {
	return e.Cause
}
