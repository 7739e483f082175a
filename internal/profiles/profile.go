// Package profiles defines the extractor profiles. A profile is one heuristic configuration for a
// family of resume layouts, expressed as data over the shared segmenter and field extractors.
package profiles

import (
	"github.com/jonathan/resume-extract/internal/extract"
	"github.com/jonathan/resume-extract/internal/ingestion"
	"github.com/jonathan/resume-extract/internal/segment"
	"github.com/jonathan/resume-extract/internal/types"
)

// Info describes a profile for listings
type Info struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Extractor turns resume text into a raw record
type Extractor interface {
	Info() Info
	// Extract returns the profile-shaped raw record for text
	Extract(text string) types.RawRecord
	// ExtractResult also reports which scalar fields were left at default
	ExtractResult(text string) extract.Result
}

// Profile is the full configuration of one extractor variant
type Profile struct {
	ID          string
	DisplayName string
	Description string

	Headers segment.HeaderTable
	Policy  segment.Policy

	// BasicInfoWindow is how many leading lines are searched for contact fields
	BasicInfoWindow int
	// StopBasicInfoAtHeader ends the contact scan at the first section header
	StopBasicInfoAtHeader bool

	Experience extract.ExperienceRules
	Education  extract.EducationRules
	Projects   extract.ProjectRules
	Honors     extract.HonorRules
	Skills     extract.SkillRules
	Languages  extract.SkillRules

	FieldNames extract.FieldNames
}

// Info returns the listing entry of the profile
func (p *Profile) Info() Info {
	return Info{ID: p.ID, DisplayName: p.DisplayName, Description: p.Description}
}

// Extract implements Extractor
func (p *Profile) Extract(text string) types.RawRecord {
	return p.ExtractResult(text).Record
}

// ExtractResult segments text with the profile's header table and runs every section
// extractor with the profile's rules.
func (p *Profile) ExtractResult(text string) extract.Result {
	lines := ingestion.Lines(text)
	sections := segment.Segment(lines, p.Headers, p.Policy)

	basicRules := extract.BasicInfoRules{Window: p.BasicInfoWindow}
	if p.StopBasicInfoAtHeader {
		basicRules.IsHeader = p.isHeader
	}

	record := extract.Record{
		Basic:          extract.ExtractBasicInfo(lines, basicRules),
		Summary:        extract.ExtractSummary(sections[types.SectionSummary]),
		Experience:     extract.ExtractExperience(sections[types.SectionExperience], p.Experience),
		Education:      extract.ExtractEducation(sections[types.SectionEducation], p.Education),
		Skills:         extract.ExtractSkills(sections[types.SectionSkills], p.Skills),
		Languages:      extract.ExtractSkills(sections[types.SectionLanguages], p.Languages),
		Certifications: extract.ExtractLines(sections[types.SectionCertifications]),
		Projects:       extract.ExtractProjects(sections[types.SectionProjects], p.Projects),
		Honors:         extract.ExtractHonors(sections[types.SectionHonors], p.Honors),
		References:     extract.ExtractLines(sections[types.SectionReferences]),
	}

	return record.Result(p.FieldNames)
}

func (p *Profile) isHeader(line string) bool {
	if p.Policy.MaxHeaderLength > 0 && len(line) > p.Policy.MaxHeaderLength {
		return false
	}
	_, ok := p.Headers.Match(line)
	return ok
}
