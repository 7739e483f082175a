package extract

import (
	"strings"

	"github.com/jonathan/resume-extract/internal/textutil"
)

// Project is one project as seen by the extractor
type Project struct {
	Name        Field
	Timeframe   Field
	Link        Field
	Description []string
}

// ProjectRules are the profile knobs for project extraction
type ProjectRules struct {
	// MaxHeadingWords bounds how long a line may be and still be read as a project name
	MaxHeadingWords int
	// LinkBoundary starts a new project on a link line once the current one has a link
	LinkBoundary bool
}

// ExtractProjects turns the lines of a projects section into entries. A non-bullet heading
// line after a project's description starts the next project.
func ExtractProjects(lines []string, rules ProjectRules) []Project {
	var (
		entries []Project
		current *Project
	)

	for i, line := range lines {
		if i == 0 || rules.startsEntry(current, line) {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &Project{Description: []string{}}
		}
		rules.attribute(current, line)
	}
	if current != nil {
		entries = append(entries, *current)
	}

	return entries
}

func (r ProjectRules) startsEntry(current *Project, line string) bool {
	if textutil.IsBullet(line) {
		return false
	}
	if current.Timeframe.Found && textutil.HasDateRange(line) {
		return true
	}
	if _, ok := textutil.FindURL(line); ok {
		return r.LinkBoundary && current.Link.Found && !isOnlyLink(line)
	}
	return len(current.Description) > 0 && headingLike(line, r.MaxHeadingWords) && looksLikeHeading(line)
}

func (r ProjectRules) attribute(p *Project, line string) {
	if textutil.IsBullet(line) {
		p.Description = append(p.Description, textutil.StripBullet(line))
		return
	}

	text := line
	consumed := false
	if !p.Link.Found {
		if link, ok := textutil.FindURL(text); ok {
			p.Link.Set(link)
			text = textutil.CleanResidual(strings.Replace(text, link, " ", 1))
			consumed = true
		}
	}
	if !headingLike(text, r.MaxHeadingWords) || (p.Name.Found && !consumed) {
		if text != "" {
			p.Description = append(p.Description, text)
		}
		return
	}
	if m, ok := textutil.FindDate(text); ok && !p.Timeframe.Found {
		p.Timeframe.Set(m.Text)
		text = textutil.Residual(text, m)
	}
	if text == "" {
		return
	}

	first, rest := textutil.SplitResidual(text)
	if !p.Name.Set(first) {
		p.Description = append(p.Description, text)
		return
	}
	if rest != "" {
		p.Description = append(p.Description, rest)
	}
}

func isOnlyLink(line string) bool {
	link, _ := textutil.FindURL(line)
	return textutil.CleanResidual(strings.Replace(line, link, " ", 1)) == ""
}
