package segment

import (
	"testing"

	"github.com/jonathan/resume-extract/internal/types"
	"github.com/stretchr/testify/assert"
)

var testTable = HeaderTable{
	types.SectionSummary:    {"summary", "profile"},
	types.SectionExperience: {"experience", "work experience"},
	types.SectionEducation:  {"education"},
	types.SectionSkills:     {"skills", "technical skills"},
	types.SectionProjects:   {"projects"},
}

func TestHeaderTable_Match(t *testing.T) {
	tests := []struct {
		line    string
		want    types.SectionKey
		wantHit bool
	}{
		{line: "experience", want: types.SectionExperience, wantHit: true},
		{line: "Experience", want: types.SectionExperience, wantHit: true},
		{line: "EXPERIENCE", want: types.SectionExperience, wantHit: true},
		{line: "Skills:", want: types.SectionSkills, wantHit: true},
		{line: "Skills: Go, Rust", want: types.SectionSkills, wantHit: true},
		{line: "Work Experience", want: types.SectionExperience, wantHit: true},
		{line: "Education and Training", want: types.SectionEducation, wantHit: true},
		{line: "Profile summary", want: types.SectionSummary, wantHit: true},
		{line: "Experienced engineer", wantHit: false},
		{line: "My projects", wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := testTable.Match(tt.line)
			assert.Equal(t, tt.wantHit, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSegment_HeadersAreNeverContent(t *testing.T) {
	lines := []string{
		"EXPERIENCE",
		"Senior Engineer at Acme",
		"Built things",
		"SKILLS",
		"Go, Rust",
	}

	sections := Segment(lines, testTable, Policy{})

	assert.Equal(t, []string{"Senior Engineer at Acme", "Built things"}, sections[types.SectionExperience])
	assert.Equal(t, []string{"Go, Rust"}, sections[types.SectionSkills])
	for _, content := range sections {
		assert.NotContains(t, content, "EXPERIENCE")
		assert.NotContains(t, content, "SKILLS")
	}
}

func TestSegment_PreHeaderContentDropped(t *testing.T) {
	lines := []string{"Jane Doe", "Engineer", "jane@x.com", "Education", "State University"}

	sections := Segment(lines, testTable, Policy{})

	assert.Len(t, sections, 1)
	assert.Equal(t, []string{"State University"}, sections[types.SectionEducation])
}

func TestSegment_NoHeaders(t *testing.T) {
	sections := Segment([]string{"Jane Doe", "Built things"}, testTable, Policy{})
	assert.Empty(t, sections)

	assert.Empty(t, Segment(nil, testTable, Policy{}))
}

func TestSegment_EmbeddedHeaderResetsSection(t *testing.T) {
	lines := []string{
		"Experience",
		"Engineer at Acme",
		"Mentored juniors on SKILLS and career growth",
		"Dangling line after reset",
		"Education",
		"State University",
	}

	t.Run("reset enabled", func(t *testing.T) {
		sections := Segment(lines, testTable, Policy{ResetOnEmbeddedHeader: true})

		assert.Equal(t, []string{"Engineer at Acme"}, sections[types.SectionExperience])
		assert.NotContains(t, sections, types.SectionSkills)
		assert.Equal(t, []string{"State University"}, sections[types.SectionEducation])
	})

	t.Run("reset disabled", func(t *testing.T) {
		sections := Segment(lines, testTable, Policy{})

		assert.Equal(t, []string{
			"Engineer at Acme",
			"Mentored juniors on SKILLS and career growth",
			"Dangling line after reset",
		}, sections[types.SectionExperience])
	})
}

func TestSegment_AllCapsTerminator(t *testing.T) {
	lines := []string{
		"Skills",
		"Go, Rust",
		"VOLUNTEER WORK AND INTERESTS",
		"Hiking",
		"Projects",
		"CLI tool",
	}

	sections := Segment(lines, testTable, Policy{AllCapsTerminatorLen: 10})

	assert.Equal(t, []string{"Go, Rust"}, sections[types.SectionSkills])
	assert.Equal(t, []string{"CLI tool"}, sections[types.SectionProjects])

	t.Run("short all-caps lines are content", func(t *testing.T) {
		sections := Segment([]string{"Skills", "AWS, GCP"}, testTable, Policy{AllCapsTerminatorLen: 10})
		assert.Equal(t, []string{"AWS, GCP"}, sections[types.SectionSkills])
	})
}

func TestSegment_MaxHeaderLength(t *testing.T) {
	lines := []string{
		"Projects",
		"Skills gained while building a distributed cache in Go",
	}

	loose := Segment(lines, testTable, Policy{})
	assert.Empty(t, loose[types.SectionProjects])

	strict := Segment(lines, testTable, Policy{MaxHeaderLength: 30})
	assert.Equal(t, []string{"Skills gained while building a distributed cache in Go"}, strict[types.SectionProjects])
}

func TestHeaderTable_Phrases(t *testing.T) {
	phrases := testTable.Phrases()
	assert.Equal(t, "summary", phrases[0])
	assert.Len(t, phrases, 8)
}

func TestSegment_BareHeadersOnly(t *testing.T) {
	table := HeaderTable{
		types.SectionSkills:    {"skills"},
		types.SectionLanguages: {"languages"},
	}
	lines := []string{"Skills", "Languages: Go, Rust", "Tools: Docker", "LANGUAGES:", "English"}

	loose := Segment(lines, table, Policy{})
	assert.Empty(t, loose[types.SectionSkills])

	bare := Segment(lines, table, Policy{BareHeadersOnly: true})
	assert.Equal(t, []string{"Languages: Go, Rust", "Tools: Docker"}, bare[types.SectionSkills])
	assert.Equal(t, []string{"English"}, bare[types.SectionLanguages])
}
