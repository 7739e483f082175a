package extract

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-extract/internal/textutil"
)

// Experience is one job as seen by the extractor
type Experience struct {
	Title            Field
	Company          Field
	Location         Field
	Period           Field
	Responsibilities []string
}

// ExperienceRules are the profile knobs for experience extraction
type ExperienceRules struct {
	Roles     textutil.KeywordSet
	Companies textutil.KeywordSet
	// MaxHeadingWords bounds how long a line may be and still be read as a heading
	MaxHeadingWords int
	// TitleCaseBoundary starts a new entry on a short Title Case line once the current
	// entry already has responsibilities.
	TitleCaseBoundary bool
}

// ExtractExperience turns the lines of an experience section into entries
func ExtractExperience(lines []string, rules ExperienceRules) []Experience {
	var (
		entries []Experience
		current *Experience
	)

	for i, line := range lines {
		if i == 0 || rules.startsEntry(current, line) {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &Experience{Responsibilities: []string{}}
		}
		rules.attribute(current, line)
	}
	if current != nil {
		entries = append(entries, *current)
	}

	return entries
}

// startsEntry reports whether line opens a new job. Signals are checked in order and the
// first hit commits.
func (r ExperienceRules) startsEntry(current *Experience, line string) bool {
	if textutil.IsBullet(line) {
		return false
	}
	if current.Period.Found && textutil.HasDateRange(line) {
		return true
	}
	if !headingLike(line, r.MaxHeadingWords) {
		return false
	}
	if current.Title.Found && r.Roles.Match(line) && looksLikeHeading(line) {
		return true
	}
	hasText := len(current.Responsibilities) > 0
	if hasText && r.Companies.Match(line) && looksLikeHeading(line) {
		return true
	}
	return r.TitleCaseBoundary && hasText && textutil.IsTitleCase(line)
}

// attribute routes a line into the open entry
func (r ExperienceRules) attribute(e *Experience, line string) {
	if textutil.IsBullet(line) {
		e.Responsibilities = append(e.Responsibilities, textutil.StripBullet(line))
		return
	}
	if headingLike(line, r.MaxHeadingWords) && r.attributeHeading(e, line) {
		return
	}
	e.Responsibilities = append(e.Responsibilities, line)
}

// attributeHeading fills the entry's scalar fields from a heading-like line and reports
// whether the line was consumed. While the entry is still in its heading block (no period,
// no responsibilities) unlabeled text is taken as title or company; afterwards only lines
// carrying a date range, a location or a role/company keyword can fill a field.
func (r ExperienceRules) attributeHeading(e *Experience, line string) bool {
	open := !e.Period.Found && len(e.Responsibilities) == 0
	text := line
	consumed := false

	if m, ok := textutil.FindDate(text); ok && !e.Period.Found && (open || textutil.HasDateRange(text)) {
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
	if !consumed && !open && !r.Roles.Match(text) && !r.Companies.Match(text) {
		return false
	}

	if r.assignPair(e, text, open) || r.assignSingle(e, text, open) {
		return true
	}
	if consumed {
		e.Responsibilities = append(e.Responsibilities, text)
	}
	return consumed
}

// assignPair splits "Title at Company", "Title | Company" or "Title, Company" into both
// fields. It only applies while both fields are still missing.
func (r ExperienceRules) assignPair(e *Experience, text string, open bool) bool {
	if e.Title.Found || e.Company.Found {
		return false
	}
	first, second := textutil.SplitResidual(text)
	if second == "" {
		return false
	}
	explicit := strings.Contains(strings.ToLower(text), " at ")
	if !open && !explicit && !r.Roles.Match(text) {
		return false
	}
	if !explicit && r.looksSwapped(first, second) {
		first, second = second, first
	}
	e.Title.Set(first)
	e.Company.Set(second)
	return true
}

// assignSingle places one unlabeled value into title or company
func (r ExperienceRules) assignSingle(e *Experience, value string, open bool) bool {
	switch {
	case r.Roles.Match(value) && !e.Title.Found:
		return e.Title.Set(value)
	case r.Companies.Match(value) && !e.Company.Found:
		return e.Company.Set(value)
	case !open:
		return false
	case !e.Title.Found && !e.Company.Found:
		return e.Title.Set(value)
	case !e.Company.Found:
		return e.Company.Set(value)
	case !e.Title.Found:
		return e.Title.Set(value)
	}
	return false
}

// looksSwapped reports whether a pair was written company first
func (r ExperienceRules) looksSwapped(first, second string) bool {
	if r.Roles.Match(second) && !r.Roles.Match(first) {
		return true
	}
	return r.Companies.Match(first) && !r.Companies.Match(second)
}

func headingLike(line string, maxWords int) bool {
	if maxWords <= 0 {
		maxWords = 10
	}
	words := headingWords(line)
	if textutil.IsBullet(line) || words > maxWords {
		return false
	}
	// "B.S." or "Acme Inc." end with a period without being sentences
	return words <= 3 || !textutil.EndsSentence(line)
}

// headingWords counts the words of line, ignoring bare separators such as "|" or "-"
func headingWords(line string) int {
	n := 0
	for _, word := range strings.Fields(line) {
		if strings.IndexFunc(word, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			n++
		}
	}
	return n
}

// looksLikeHeading reports whether a line is formatted like an entry heading rather than prose
func looksLikeHeading(line string) bool {
	if textutil.IsTitleCase(line) || textutil.IsAllCaps(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, sep := range []string{" at ", " | ", " - ", " – ", " — ", ", "} {
		if strings.Contains(lower, sep) {
			return true
		}
	}
	return false
}

// takeLocation finds a location in text, checking each delimited segment first so that
// "Acme | Remote" yields "Remote". It returns the location and the text without it.
func takeLocation(text string) (loc, rest string, ok bool) {
	segments := textutil.SplitContactLine(text)
	if len(segments) > 1 {
		for _, segment := range segments {
			if loc, ok := textutil.FindLocation(segment); ok {
				return loc, removeFragment(text, segment, loc), true
			}
		}
	}
	if loc, ok := textutil.FindLocation(text); ok {
		return loc, removeFragment(text, text, loc), true
	}
	return "", text, false
}

func removeFragment(text, segment, loc string) string {
	if loc == "Remote" && !strings.Contains(segment, loc) {
		return textutil.CleanResidual(strings.Replace(text, segment, " ", 1))
	}
	return textutil.CleanResidual(strings.Replace(text, loc, " ", 1))
}
