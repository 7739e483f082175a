package schemas

import (
	"errors"
	"testing"

	"github.com/jonathan/resume-extract/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scalarFields = []string{"name", "title", "email", "phone", "linkedin", "github", "address", "location", "summary"}
var arrayFields = []string{"experience", "education", "skills", "languages", "certifications", "projects", "honors", "references"}

func TestNormalize_Completeness(t *testing.T) {
	inputs := map[string]types.RawRecord{
		"empty":   {},
		"nil":     nil,
		"partial": {"name": "Jane", "skills": []any{"Go"}},
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			out := Normalize(raw)
			for _, field := range scalarFields {
				require.Contains(t, out, field)
				assert.IsType(t, "", out[field], field)
			}
			for _, field := range arrayFields {
				require.Contains(t, out, field)
				assert.IsType(t, []any{}, out[field], field)
			}
		})
	}
}

func TestNormalizeRecord_Empty(t *testing.T) {
	record, err := NormalizeRecord(types.RawRecord{})
	require.NoError(t, err)

	assert.Equal(t, "", record.Name)
	assert.Equal(t, "", record.Summary)
	assert.NotNil(t, record.Experience)
	assert.Empty(t, record.Experience)
	assert.NotNil(t, record.Skills)
	assert.Empty(t, record.Skills)
	assert.NotNil(t, record.References)
}

func TestNormalize_ExperienceSynonyms(t *testing.T) {
	tests := []struct {
		name                 string
		item                 map[string]any
		wantPosition         string
		wantTitle            string
		wantResponsibilities []string
	}{
		{
			name:                 "synonyms fill canonical fields",
			item:                 map[string]any{"title": "Engineer", "description": []any{"Built things"}},
			wantPosition:         "Engineer",
			wantTitle:            "Engineer",
			wantResponsibilities: []string{"Built things"},
		},
		{
			name:                 "canonical fields win",
			item:                 map[string]any{"position": "Lead", "title": "Engineer", "responsibilities": []any{"Led"}, "description": []any{"Built"}},
			wantPosition:         "Lead",
			wantTitle:            "Engineer",
			wantResponsibilities: []string{"Led"},
		},
		{
			name:                 "empty canonical values count as missing",
			item:                 map[string]any{"position": "", "title": "Engineer", "responsibilities": []any{}, "description": []any{"Built"}},
			wantPosition:         "Engineer",
			wantTitle:            "Engineer",
			wantResponsibilities: []string{"Built"},
		},
		{
			name:                 "neither present",
			item:                 map[string]any{"company": "Acme"},
			wantPosition:         "",
			wantTitle:            "",
			wantResponsibilities: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NormalizeRecord(types.RawRecord{"experience": []any{tt.item}})
			require.NoError(t, err)
			require.Len(t, record.Experience, 1)

			entry := record.Experience[0]
			assert.Equal(t, tt.wantPosition, entry.Position)
			assert.Equal(t, tt.wantTitle, entry.Title)
			assert.Equal(t, tt.wantResponsibilities, entry.Responsibilities)
		})
	}
}

func TestNormalize_SynonymsAreKept(t *testing.T) {
	out := Normalize(types.RawRecord{
		"experience": []any{map[string]any{"title": "Engineer", "description": []any{"Built things"}}},
	})

	entry := out["experience"].([]any)[0].(map[string]any)
	assert.Equal(t, "Engineer", entry["title"])
	assert.Equal(t, []any{"Built things"}, entry["description"])
	assert.Equal(t, []any{"Built things"}, entry["responsibilities"])
}

func TestNormalize_Coercion(t *testing.T) {
	tests := []struct {
		name  string
		raw   types.RawRecord
		check func(t *testing.T, record *types.ResumeRecord)
	}{
		{
			name: "lone string becomes one-element list",
			raw:  types.RawRecord{"skills": "Go"},
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, []string{"Go"}, record.Skills)
			},
		},
		{
			name: "empty string becomes empty list",
			raw:  types.RawRecord{"languages": ""},
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, []string{}, record.Languages)
			},
		},
		{
			name: "typed string slice",
			raw:  types.RawRecord{"certifications": []string{"CKA", "AWS SA"}},
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, []string{"CKA", "AWS SA"}, record.Certifications)
			},
		},
		{
			name: "numbers and booleans become strings",
			raw:  types.RawRecord{"phone": 5551234567.0, "summary": true, "skills": []any{"Go", 3.5, nil}},
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, "5551234567", record.Phone)
				assert.Equal(t, "true", record.Summary)
				assert.Equal(t, []string{"Go", "3.5"}, record.Skills)
			},
		},
		{
			name: "list in a scalar field is joined",
			raw:  types.RawRecord{"location": []any{"Austin", "TX"}},
			check: func(t *testing.T, record *types.ResumeRecord) {
				assert.Equal(t, "Austin, TX", record.Location)
			},
		},
		{
			name: "string item in an object list keeps its text",
			raw:  types.RawRecord{"projects": []any{"Built a compiler"}, "honors": "Dean's List"},
			check: func(t *testing.T, record *types.ResumeRecord) {
				require.Len(t, record.Projects, 1)
				assert.Equal(t, []string{"Built a compiler"}, record.Projects[0].Description)
				assert.Equal(t, "", record.Projects[0].Name)
				require.Len(t, record.Honors, 1)
				assert.Equal(t, []string{"Dean's List"}, record.Honors[0].Description)
			},
		},
		{
			name: "lone object becomes one-element list",
			raw:  types.RawRecord{"education": map[string]any{"degree": "B.S."}},
			check: func(t *testing.T, record *types.ResumeRecord) {
				require.Len(t, record.Education, 1)
				assert.Equal(t, "B.S.", record.Education[0].Degree)
				assert.Equal(t, []string{}, record.Education[0].Details)
			},
		},
		{
			name: "typed maps are accepted",
			raw:  types.RawRecord{"experience": []map[string]any{{"company": "Acme"}}, "honors": []any{map[string]string{"title": "Award"}}},
			check: func(t *testing.T, record *types.ResumeRecord) {
				require.Len(t, record.Experience, 1)
				assert.Equal(t, "Acme", record.Experience[0].Company)
				require.Len(t, record.Honors, 1)
				assert.Equal(t, "Award", record.Honors[0].Title)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NormalizeRecord(tt.raw)
			require.NoError(t, err)
			tt.check(t, record)
		})
	}
}

func TestNormalize_KeepsUnknownKeys(t *testing.T) {
	out := Normalize(types.RawRecord{
		"website":    "https://jane.dev",
		"experience": []any{map[string]any{"team": "Platform"}},
	})

	assert.Equal(t, "https://jane.dev", out["website"])
	entry := out["experience"].([]any)[0].(map[string]any)
	assert.Equal(t, "Platform", entry["team"])
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []types.RawRecord{
		{},
		{"name": "Jane Doe", "skills": "Go", "phone": 42.0},
		{
			"experience": []any{
				map[string]any{"title": "Engineer", "description": []any{"Built things"}},
				"Freelance work",
			},
			"projects":  map[string]any{"name": "cache", "link": "github.com/jane/cache"},
			"languages": []string{"English"},
			"extra":     map[string]any{"nested": true},
		},
	}

	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	item := map[string]any{"title": "Engineer"}
	raw := types.RawRecord{"experience": []any{item}}

	Normalize(raw)

	assert.NotContains(t, item, "position")
	assert.NotContains(t, raw, "skills")
}

func TestRecordRaw_RoundTrip(t *testing.T) {
	record, err := NormalizeRecord(types.RawRecord{
		"name":       "Jane Doe",
		"experience": []any{map[string]any{"title": "Engineer", "description": []any{"Built things"}}},
	})
	require.NoError(t, err)

	raw, err := record.Raw()
	require.NoError(t, err)

	again, err := NormalizeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, record, again)
}

func TestNormalizationError(t *testing.T) {
	cause := errors.New("boom")
	err := &NormalizationError{Message: "failed to decode normalized record", Cause: cause}

	assert.Contains(t, err.Error(), "failed to decode normalized record")
	assert.ErrorIs(t, err, cause)
}

func TestParseSchema_Errors(t *testing.T) {
	_, err := parseSchema([]byte("{"))
	require.Error(t, err)

	_, err = parseSchema([]byte(`{"properties": {"skills": {"$ref": "#/definitions/missing"}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved reference")
}
