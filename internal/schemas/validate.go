// Package schemas normalizes raw extractor output against the resume record JSON Schema and
// validates records with it.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jonathan/resume-extract/internal/types"
	rootschemas "github.com/jonathan/resume-extract/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Validator checks JSON documents against one compiled schema
type Validator struct {
	name   string
	schema *gojsonschema.Schema
}

// NewValidator compiles schema; name labels it in errors
func NewValidator(name string, schema []byte) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	return &Validator{name: name, schema: compiled}, nil
}

// LoadValidator compiles the schema stored at path
func LoadValidator(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &SchemaLoadError{Path: path, Message: "schema file not found"}
		}
		return nil, &SchemaLoadError{Path: path, Message: "failed to read schema", Cause: err}
	}
	return NewValidator(path, data)
}

var recordValidator = sync.OnceValues(func() (*Validator, error) {
	return NewValidator(rootschemas.ResumeRecordFile, rootschemas.ResumeRecord)
})

// Validate checks a record against the embedded resume record schema
func Validate(record *types.ResumeRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return ValidateRecordJSON(data)
}

// ValidateRecordJSON checks JSON content against the embedded resume record schema
func ValidateRecordJSON(data []byte) error {
	v, err := recordValidator()
	if err != nil {
		return err
	}
	return v.Validate(data)
}

// ValidateJSON validates the JSON file at jsonPath against the schema file at schemaPath
func ValidateJSON(schemaPath, jsonPath string) error {
	v, err := LoadValidator(schemaPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("JSON file not found: %s", jsonPath)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return v.Validate(data)
}

// Validate checks data. Malformed JSON is an error; schema violations are a *ValidationError
// listing every failing field, sorted by field path.
func (v *Validator) Validate(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate against %s: %w", v.name, err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	sort.SliceStable(validationErr.Errors, func(i, j int) bool {
		return validationErr.Errors[i].Field < validationErr.Errors[j].Field
	})
	return validationErr
}
