package extract

import (
	"fmt"

	"github.com/jonathan/resume-extract/internal/types"
)

// FieldNames selects the output keys a profile uses where profiles disagree
type FieldNames struct {
	// ExperienceTitle is "position" or "title"
	ExperienceTitle string
	// ExperienceText is "responsibilities" or "description"
	ExperienceText string
}

// CanonicalFieldNames are the names the normalizer treats as canonical
var CanonicalFieldNames = FieldNames{ExperienceTitle: "position", ExperienceText: "responsibilities"}

// Record is everything one extraction pass found, before it is shaped into a raw record
type Record struct {
	Basic          BasicInfo
	Summary        Field
	Experience     []Experience
	Education      []Education
	Skills         []string
	Languages      []string
	Certifications []string
	Projects       []Project
	Honors         []Honor
	References     []string
}

// Result is the raw record plus the dotted paths of the scalar fields left at default
type Result struct {
	Record    types.RawRecord
	Defaulted []string
}

// Result shapes the record into a raw record using the given field names
func (r Record) Result(names FieldNames) Result {
	if names.ExperienceTitle == "" {
		names.ExperienceTitle = CanonicalFieldNames.ExperienceTitle
	}
	if names.ExperienceText == "" {
		names.ExperienceText = CanonicalFieldNames.ExperienceText
	}

	raw := make(types.RawRecord)
	var defaulted []string
	scalar := func(path string, key string, f Field, m map[string]any) {
		f.put(m, key)
		if !f.Found {
			defaulted = append(defaulted, path)
		}
	}

	scalar("name", "name", r.Basic.Name, raw)
	scalar("title", "title", r.Basic.Title, raw)
	scalar("email", "email", r.Basic.Email, raw)
	scalar("phone", "phone", r.Basic.Phone, raw)
	scalar("linkedin", "linkedin", r.Basic.LinkedIn, raw)
	scalar("github", "github", r.Basic.GitHub, raw)
	scalar("address", "address", r.Basic.Address, raw)
	scalar("location", "location", r.Basic.Location, raw)
	scalar("summary", "summary", r.Summary, raw)

	if len(r.Experience) > 0 {
		items := make([]any, 0, len(r.Experience))
		for i, e := range r.Experience {
			item := map[string]any{names.ExperienceText: stringsToAny(e.Responsibilities)}
			prefix := fmt.Sprintf("experience[%d].", i)
			scalar(prefix+names.ExperienceTitle, names.ExperienceTitle, e.Title, item)
			scalar(prefix+"company", "company", e.Company, item)
			scalar(prefix+"location", "location", e.Location, item)
			scalar(prefix+"period", "period", e.Period, item)
			items = append(items, item)
		}
		raw["experience"] = items
	}

	if len(r.Education) > 0 {
		items := make([]any, 0, len(r.Education))
		for i, e := range r.Education {
			item := map[string]any{"details": stringsToAny(e.Details)}
			prefix := fmt.Sprintf("education[%d].", i)
			scalar(prefix+"degree", "degree", e.Degree, item)
			scalar(prefix+"institution", "institution", e.Institution, item)
			scalar(prefix+"location", "location", e.Location, item)
			scalar(prefix+"period", "period", e.Period, item)
			items = append(items, item)
		}
		raw["education"] = items
	}

	if len(r.Projects) > 0 {
		items := make([]any, 0, len(r.Projects))
		for i, p := range r.Projects {
			item := map[string]any{"description": stringsToAny(p.Description)}
			prefix := fmt.Sprintf("projects[%d].", i)
			scalar(prefix+"name", "name", p.Name, item)
			scalar(prefix+"timeframe", "timeframe", p.Timeframe, item)
			scalar(prefix+"link", "link", p.Link, item)
			items = append(items, item)
		}
		raw["projects"] = items
	}

	if len(r.Honors) > 0 {
		items := make([]any, 0, len(r.Honors))
		for i, h := range r.Honors {
			item := map[string]any{"description": stringsToAny(h.Description)}
			prefix := fmt.Sprintf("honors[%d].", i)
			scalar(prefix+"title", "title", h.Title, item)
			scalar(prefix+"date", "date", h.Date, item)
			items = append(items, item)
		}
		raw["honors"] = items
	}

	putList(raw, "skills", r.Skills)
	putList(raw, "languages", r.Languages)
	putList(raw, "certifications", r.Certifications)
	putList(raw, "references", r.References)

	return Result{Record: raw, Defaulted: defaulted}
}

func putList(m map[string]any, key string, values []string) {
	if len(values) > 0 {
		m[key] = stringsToAny(values)
	}
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
