// Package textutil provides the text primitives shared by every extractor profile:
// date-range recognition, bullet and delimiter splitting, contact patterns and keyword matching.
package textutil

import (
	"regexp"
	"strings"
)

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	// datePointPattern matches month-name + year, numeric month/year, or a bare 4-digit year.
	datePointPattern = `(?:` + monthPattern + `\s*,?\s*(?:19|20)\d{2}|(?:0?[1-9]|1[0-2])/(?:19|20)?\d{2}|(?:19|20)\d{2})`
	terminusPattern  = `(?:present|current|now)`
	rangeSepPattern  = `(?:\s*[-–—]\s*|\s+to\s+)`
)

var (
	dateRangeRe = regexp.MustCompile(`(?i)\b` + datePointPattern + rangeSepPattern + `(?:` + datePointPattern + `|` + terminusPattern + `)\b`)
	datePointRe = regexp.MustCompile(`(?i)\b` + datePointPattern + `\b`)

	residualTrimSet = " \t,;:|-–—/"
	multiSpaceRe    = regexp.MustCompile(`\s+`)
	emptyParensRe   = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	doubledSepRe    = regexp.MustCompile(`\s*([|,;])\s*(?:[|,;]\s*)+`)
)

// DateMatch is a located date or date range inside a line
type DateMatch struct {
	Text  string
	Start int
	End   int
}

// FindDateRange returns the first date range in line, e.g. "Jan 2020 - Present" or "2016 to 2020".
func FindDateRange(line string) (DateMatch, bool) {
	loc := dateRangeRe.FindStringIndex(line)
	if loc == nil {
		return DateMatch{}, false
	}
	return DateMatch{Text: line[loc[0]:loc[1]], Start: loc[0], End: loc[1]}, true
}

// FindDate returns the first date range in line, or failing that the first single date.
func FindDate(line string) (DateMatch, bool) {
	if m, ok := FindDateRange(line); ok {
		return m, true
	}
	loc := datePointRe.FindStringIndex(line)
	if loc == nil {
		return DateMatch{}, false
	}
	return DateMatch{Text: line[loc[0]:loc[1]], Start: loc[0], End: loc[1]}, true
}

// HasDateRange reports whether line contains a date range
func HasDateRange(line string) bool {
	return dateRangeRe.MatchString(line)
}

// HasDate reports whether line contains a date range or a single date
func HasDate(line string) bool {
	return dateRangeRe.MatchString(line) || datePointRe.MatchString(line)
}

// Residual removes the match from line and cleans up the separators left dangling around it.
func Residual(line string, m DateMatch) string {
	return CleanResidual(line[:m.Start] + " " + line[m.End:])
}

// CleanResidual collapses whitespace, drops empty brackets and trims separator characters.
func CleanResidual(s string) string {
	s = emptyParensRe.ReplaceAllString(s, " ")
	s = doubledSepRe.ReplaceAllStringFunc(s, func(run string) string {
		sep := strings.TrimSpace(run)[:1]
		if sep == "|" {
			return " | "
		}
		return sep + " "
	})
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.Trim(s, residualTrimSet)
}

// SplitResidual splits the text left after removing a scalar match into two fields
// using delimiters in priority order: " at " > " | " > ", ". With no delimiter the
// whole remainder is returned as the first field.
func SplitResidual(s string) (first, second string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	lower := strings.ToLower(s)
	if idx := strings.Index(lower, " at "); idx > 0 {
		return CleanResidual(s[:idx]), CleanResidual(s[idx+len(" at "):])
	}
	for _, sep := range []string{" | ", ", "} {
		if idx := strings.Index(s, sep); idx > 0 {
			return CleanResidual(s[:idx]), CleanResidual(s[idx+len(sep):])
		}
	}
	return CleanResidual(s), ""
}
