package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-extract/internal/db"
	"github.com/jonathan/resume-extract/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	full := &types.ResumeRecord{
		Name:       "Jane Doe",
		Email:      "jane@x.com",
		Experience: []types.ExperienceEntry{{Position: "Engineer"}},
		Skills:     []string{"Go"},
	}
	sparse := &types.ResumeRecord{Name: "Jane Doe"}

	return []Entry{
		{Document: "jane.txt", Profile: "general", Record: full, Coverage: 90},
		{Document: "john.txt", Profile: "general", Record: sparse, Coverage: 70},
		{Document: "jane.txt", Profile: "compact", Record: sparse, Coverage: 50},
		{Document: "john.txt", Profile: "compact", Failed: true},
		{Document: "jane.txt", Profile: "student", Failed: true},
	}
}

func TestAggregate(t *testing.T) {
	r := Aggregate(sampleEntries())

	assert.Equal(t, 2, r.Documents)
	assert.Equal(t, "general", r.Best)
	require.Len(t, r.Profiles, 3)

	general := r.Profiles[0]
	assert.Equal(t, 1, general.Rank)
	assert.Equal(t, "general", general.Profile)
	assert.Equal(t, 2, general.Attempts)
	assert.Equal(t, 2, general.Successes)
	assert.Equal(t, 0, general.Failures)
	assert.InDelta(t, 80.0, general.MeanCoverage, 1e-9)
	assert.Equal(t, 70.0, general.MinCoverage)
	assert.Equal(t, 90.0, general.MaxCoverage)
	assert.Equal(t, 1.0, general.FillRates["name"])
	assert.Equal(t, 0.5, general.FillRates["email"])
	assert.Equal(t, 0.5, general.FillRates["experience"])
	assert.Equal(t, 0.0, general.FillRates["honors"])
	assert.Len(t, general.FillRates, len(FieldNames()))

	compact := r.Profiles[1]
	assert.Equal(t, "compact", compact.Profile)
	assert.Equal(t, 2, compact.Attempts)
	assert.Equal(t, 1, compact.Failures)
	assert.Equal(t, 50.0, compact.MeanCoverage)

	student := r.Profiles[2]
	assert.Equal(t, "student", student.Profile)
	assert.Equal(t, 3, student.Rank)
	assert.Equal(t, 0.0, student.MinCoverage)
	assert.Nil(t, student.FillRates)
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate(nil)
	assert.Equal(t, 0, r.Documents)
	assert.Empty(t, r.Best)
	assert.Empty(t, r.Profiles)
}

func TestAggregate_TiesBreakOnSuccessesThenName(t *testing.T) {
	r := Aggregate([]Entry{
		{Document: "a", Profile: "technical", Coverage: 60},
		{Document: "a", Profile: "compact", Coverage: 60},
		{Document: "a", Profile: "general", Coverage: 60},
		{Document: "b", Profile: "general", Coverage: 60},
	})

	var order []string
	for _, s := range r.Profiles {
		order = append(order, s.Profile)
	}
	assert.Equal(t, []string{"general", "compact", "technical"}, order)
}

func TestFromResults(t *testing.T) {
	results := []db.Result{
		{Document: "jane.txt", Profile: "general", Coverage: 80, Record: json.RawMessage(`{"name":"Jane Doe","skills":["Go"]}`)},
		{Document: "broken.pdf", Profile: "general", Error: "unreadable"},
	}

	entries, err := FromResults(results)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Jane Doe", entries[0].Record.Name)
	assert.Equal(t, []string{"Go"}, entries[0].Record.Skills)
	assert.False(t, entries[0].Failed)
	assert.True(t, entries[1].Failed)
	assert.Nil(t, entries[1].Record)

	_, err = FromResults([]db.Result{{Document: "x", Profile: "general", Record: json.RawMessage(`[1,2]`)}})
	assert.Error(t, err)
}

func TestFromSummaries(t *testing.T) {
	r := FromSummaries([]db.ProfileSummary{
		{Profile: "compact", Attempts: 3, Successes: 3, MeanCoverage: 55},
		{Profile: "general", Attempts: 3, Successes: 2, Failures: 1, MeanCoverage: 75},
	})

	require.Len(t, r.Profiles, 2)
	assert.Equal(t, "general", r.Best)
	assert.Equal(t, "compact", r.Profiles[1].Profile)
	assert.Equal(t, 2, r.Profiles[1].Rank)
}

func TestWrite(t *testing.T) {
	r := Aggregate(sampleEntries())

	tests := []struct {
		format   string
		contains []string
	}{
		{FormatJSON, []string{`"best_profile": "general"`, `"fill_rates"`, `"mean_coverage": 80`}},
		{FormatText, []string{"RANK", "general", "80.0", "Documents: 2", "Best profile: general"}},
		{FormatMarkdown, []string{"# Profile comparison", "| 1 | general | 2 | 2 | 0 | 80.0 | 70.0 | 90.0 |", "## Field fill rates", "| email | 50% |", "**general**"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, r, tt.format))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWrite_JSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Aggregate(sampleEntries()), FormatJSON))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "general", decoded.Best)
	assert.Len(t, decoded.Profiles, 3)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, &Report{}, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestWrite_MarkdownWithoutFillRates(t *testing.T) {
	var buf bytes.Buffer
	r := FromSummaries([]db.ProfileSummary{{Profile: "general", Attempts: 1, Successes: 1, MeanCoverage: 40}})
	require.NoError(t, Write(&buf, r, FormatMarkdown))
	assert.NotContains(t, buf.String(), "Field fill rates")
}
