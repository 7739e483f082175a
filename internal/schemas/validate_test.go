package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-extract/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", personSchema)

	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{name: "valid", content: `{"name": "Jane"}`},
		{name: "missing required field", content: `{"age": 30}`, wantError: true},
		{name: "wrong type", content: `{"name": 42}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := writeFile(t, dir, "doc.json", tt.content)

			err := ValidateJSON(schemaPath, jsonPath)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Greater(t, len(validationErr.Errors), 0)
		})
	}
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", personSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "Jane"}`)

	err := ValidateJSON(filepath.Join(dir, "missing_schema.json"), jsonPath)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", personSchema)
	malformed := writeFile(t, dir, "malformed.json", "{ invalid json }")

	err := ValidateJSON(schemaPath, malformed)
	require.Error(t, err)
	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidator_Validate(t *testing.T) {
	v, err := NewValidator("person", []byte(personSchema))
	require.NoError(t, err)

	assert.NoError(t, v.Validate([]byte(`{"name": "test"}`)))

	err = v.Validate([]byte(`{"name": 7, "age": 30}`))
	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidator_SortsFieldErrors(t *testing.T) {
	v, err := NewValidator("pair", []byte(`{
		"type": "object",
		"properties": {"b": {"type": "string"}, "a": {"type": "string"}}
	}`))
	require.NoError(t, err)

	err = v.Validate([]byte(`{"b": 1, "a": 2}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 2)
	assert.Equal(t, "a", validationErr.Errors[0].Field)
	assert.Equal(t, "b", validationErr.Errors[1].Field)
}

func TestNewValidator_BrokenSchema(t *testing.T) {
	_, err := NewValidator("broken", []byte(`{"type": 12}`))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "skills", Message: "must be an array"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. name")
	assert.Contains(t, errorMsg, "2. skills")
}

func TestValidate_NormalizedRecords(t *testing.T) {
	inputs := []types.RawRecord{
		{},
		{"name": "Jane Doe", "skills": "Go"},
		{"experience": []any{map[string]any{"title": "Engineer", "description": []any{"Built things"}}}},
	}

	for _, raw := range inputs {
		record, err := NormalizeRecord(raw)
		require.NoError(t, err)
		assert.NoError(t, Validate(record))
	}
}

func TestValidate_RejectsIncompleteRecord(t *testing.T) {
	// nil slices marshal to null, which is not an array
	err := Validate(&types.ResumeRecord{Name: "Jane"})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateRecordJSON(t *testing.T) {
	err := ValidateRecordJSON([]byte(`{"name": "Jane"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
