package extract

import (
	"github.com/jonathan/resume-extract/internal/textutil"
)

// Honor is one award as seen by the extractor
type Honor struct {
	Title       Field
	Date        Field
	Description []string
}

// HonorRules are the profile knobs for honors extraction
type HonorRules struct {
	Awards textutil.KeywordSet
	// MaxHeadingWords bounds how long a line may be and still be read as an award title
	MaxHeadingWords int
}

// heading reports whether line names an award. Bulleted lines count when they carry a
// date or an award keyword.
func (r HonorRules) heading(line string) bool {
	if !textutil.IsBullet(line) {
		return headingLike(line, r.MaxHeadingWords)
	}
	stripped := textutil.StripBullet(line)
	return headingLike(stripped, r.MaxHeadingWords) && (textutil.HasDate(stripped) || r.Awards.Match(stripped))
}

// ExtractHonors turns the lines of an honors section into entries. Every heading line
// names a new award; other bullets and prose describe the current one.
func ExtractHonors(lines []string, rules HonorRules) []Honor {
	var (
		entries []Honor
		current *Honor
	)

	for i, line := range lines {
		heading := rules.heading(line)
		if i == 0 || (heading && current.Title.Found) {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &Honor{Description: []string{}}
		}

		if !heading {
			current.Description = append(current.Description, textutil.StripBullet(line))
			continue
		}

		text := textutil.StripBullet(line)
		if m, ok := textutil.FindDate(text); ok {
			current.Date.Set(m.Text)
			text = textutil.Residual(text, m)
		}
		if !current.Title.Set(text) && text != "" {
			current.Description = append(current.Description, text)
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}

	return entries
}
