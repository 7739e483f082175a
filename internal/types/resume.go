// Package types provides type definitions for structured data used throughout the resume extraction system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
)

// SectionKey identifies a labeled section of a resume
type SectionKey string

// Known section keys
const (
	SectionSummary        SectionKey = "summary"
	SectionExperience     SectionKey = "experience"
	SectionEducation      SectionKey = "education"
	SectionSkills         SectionKey = "skills"
	SectionProjects       SectionKey = "projects"
	SectionCertifications SectionKey = "certifications"
	SectionLanguages      SectionKey = "languages"
	SectionHonors         SectionKey = "honors"
	SectionReferences     SectionKey = "references"
)

// SectionOrder is the fixed iteration order for section keys.
var SectionOrder = []SectionKey{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionLanguages,
	SectionHonors,
	SectionReferences,
}

// SectionMap maps section keys to the ordered lines that belong to them
type SectionMap map[SectionKey][]string

// RawRecord is the partial, profile-shaped output of an extractor before normalization.
// Field names and value shapes vary between profiles.
type RawRecord map[string]any

// ResumeRecord is the canonical, schema-normalized resume shape
type ResumeRecord struct {
	Name           string            `json:"name"`
	Title          string            `json:"title"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	LinkedIn       string            `json:"linkedin"`
	GitHub         string            `json:"github"`
	Address        string            `json:"address"`
	Location       string            `json:"location"`
	Summary        string            `json:"summary"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         []string          `json:"skills"`
	Languages      []string          `json:"languages"`
	Certifications []string          `json:"certifications"`
	Projects       []ProjectEntry    `json:"projects"`
	Honors         []HonorEntry      `json:"honors"`
	References     []string          `json:"references"`
}

// ExperienceEntry represents one job. Position and Responsibilities are canonical;
// Title and Description hold the synonyms some profiles emit.
type ExperienceEntry struct {
	Position         string   `json:"position"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Period           string   `json:"period"`
	Responsibilities []string `json:"responsibilities"`
	Description      []string `json:"description"`
}

// EducationEntry represents one degree or school attended
type EducationEntry struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Location    string   `json:"location"`
	Period      string   `json:"period"`
	Details     []string `json:"details"`
}

// ProjectEntry represents a personal or professional project
type ProjectEntry struct {
	Name        string   `json:"name"`
	Timeframe   string   `json:"timeframe"`
	Link        string   `json:"link"`
	Description []string `json:"description"`
}

// HonorEntry represents an award or honor
type HonorEntry struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description []string `json:"description"`
}

// CoverageReport summarizes how much of the source text is represented in a record
type CoverageReport struct {
	CoveragePercentage float64  `json:"coverage_percentage"`
	MissingContent     []string `json:"missing_content"`
}

// Raw converts the record back into its generic map form.
// Normalizing the result yields the same record.
func (r *ResumeRecord) Raw() (RawRecord, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume record: %w", err)
	}
	var raw RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume record: %w", err)
	}
	return raw, nil
}
