package extract

import (
	"github.com/jonathan/resume-extract/internal/textutil"
)

// Education is one degree or school as seen by the extractor
type Education struct {
	Degree      Field
	Institution Field
	Location    Field
	Period      Field
	Details     []string
}

// EducationRules are the profile knobs for education extraction
type EducationRules struct {
	Degrees      textutil.KeywordSet
	Institutions textutil.KeywordSet
	// MaxHeadingWords bounds how long a line may be and still be read as a heading
	MaxHeadingWords int
}

// ExtractEducation turns the lines of an education section into entries
func ExtractEducation(lines []string, rules EducationRules) []Education {
	var (
		entries []Education
		current *Education
	)

	for i, line := range lines {
		if i == 0 || rules.startsEntry(current, line) {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &Education{Details: []string{}}
		}
		rules.attribute(current, line)
	}
	if current != nil {
		entries = append(entries, *current)
	}

	return entries
}

func (r EducationRules) startsEntry(current *Education, line string) bool {
	if !headingLike(line, r.MaxHeadingWords) {
		return false
	}
	if current.Period.Found && textutil.HasDateRange(line) {
		return true
	}
	if current.Degree.Found && r.Degrees.Match(line) {
		return true
	}
	return current.Institution.Found && r.Institutions.Match(line)
}

func (r EducationRules) attribute(e *Education, line string) {
	if textutil.IsBullet(line) {
		e.Details = append(e.Details, textutil.StripBullet(line))
		return
	}
	if headingLike(line, r.MaxHeadingWords) && r.attributeHeading(e, line) {
		return
	}
	e.Details = append(e.Details, line)
}

// attributeHeading fills degree, institution, location and period from a heading-like line.
// Labeled lines such as "GPA: 3.9" or "Coursework: ..." are details, never headings.
func (r EducationRules) attributeHeading(e *Education, line string) bool {
	if _, _, labeled := textutil.SplitLabel(line); labeled {
		return false
	}
	open := len(e.Details) == 0
	text := line
	consumed := false

	if m, ok := textutil.FindDate(text); ok && !e.Period.Found {
		e.Period.Set(m.Text)
		text = textutil.Residual(text, m)
		consumed = true
	}
	if !e.Location.Found {
		if loc, rest, ok := takeLocation(text); ok {
			e.Location.Set(loc)
			text = rest
			consumed = true
		}
	}
	if text == "" {
		return consumed
	}

	parts := []string{text}
	if first, second := textutil.SplitResidual(text); second != "" {
		parts = []string{first, second}
	}

	var leftover []string
	for _, part := range parts {
		if !r.assign(e, part, open) {
			leftover = append(leftover, part)
		}
	}
	switch {
	case len(leftover) == len(parts) && !consumed:
		return false
	case len(leftover) == len(parts) && len(parts) == 2 && r.assign(e, text, open):
		return true
	case len(leftover) > 0:
		e.Details = append(e.Details, leftover...)
	}
	return true
}

func (r EducationRules) assign(e *Education, value string, open bool) bool {
	switch {
	case r.Degrees.Match(value) && !e.Degree.Found:
		return e.Degree.Set(value)
	case r.Institutions.Match(value) && !e.Institution.Found:
		return e.Institution.Set(value)
	case !open || r.Degrees.Match(value) || r.Institutions.Match(value):
		return false
	case !e.Institution.Found:
		return e.Institution.Set(value)
	case !e.Degree.Found:
		return e.Degree.Set(value)
	}
	return false
}
