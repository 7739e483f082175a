// Package coverage scores how much of a resume's source text is represented in an extracted record.
package coverage

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-extract/internal/types"
)

const (
	// MinChunkLength is the shortest normalized chunk that is scored
	MinChunkLength = 10
	// MinWordLength is the length a word must exceed to count toward a chunk's score
	MinWordLength = 3
	// ShortChunkWords is the qualifying-word count at or below which a chunk is always captured
	ShortChunkWords = 3
	// CaptureThreshold is the fraction of qualifying words that must match
	CaptureThreshold = 0.70
)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

type options struct {
	wholeWord bool
}

// Option configures Verify
type Option func(*options)

// WithWholeWordMatching requires a word to appear as a whole word of the record text.
// By default a word matches when it is a substring of the record text.
func WithWholeWordMatching() Option {
	return func(o *options) {
		o.wholeWord = true
	}
}

// Verify splits source into blank-line separated chunks and reports the percentage of
// chunks whose words are found in the record, plus the text of the chunks that were not.
// Source text with no scorable chunks is fully covered.
func Verify(source string, record *types.ResumeRecord, opts ...Option) types.CoverageReport {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	flat := normalize(Flatten(record))
	var words map[string]bool
	if o.wholeWord {
		words = wordSet(flat)
	}
	matches := func(word string) bool {
		if o.wholeWord {
			return words[word]
		}
		return strings.Contains(flat, word)
	}

	report := types.CoverageReport{MissingContent: []string{}}
	total, captured := 0, 0
	for _, chunk := range Chunks(source) {
		normalized := normalize(chunk)
		if utf8.RuneCountInString(normalized) < MinChunkLength {
			continue
		}
		total++
		if chunkCaptured(normalized, matches) {
			captured++
			continue
		}
		report.MissingContent = append(report.MissingContent, strings.TrimSpace(chunk))
	}

	if total == 0 {
		report.CoveragePercentage = 100
		return report
	}
	report.CoveragePercentage = float64(captured) / float64(total) * 100
	return report
}

// Chunks splits text on blank lines
func Chunks(text string) []string {
	return blankLineRe.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1)
}

func chunkCaptured(chunk string, matches func(string) bool) bool {
	qualifying, matched := 0, 0
	for _, field := range strings.Fields(chunk) {
		word := trimPunct(field)
		if utf8.RuneCountInString(word) <= MinWordLength {
			continue
		}
		qualifying++
		if matches(word) {
			matched++
		}
	}
	if qualifying <= ShortChunkWords {
		return true
	}
	return float64(matched)/float64(qualifying) >= CaptureThreshold
}

// Flatten joins every scalar field and every free-text item of the record in field order
func Flatten(record *types.ResumeRecord) string {
	if record == nil {
		return ""
	}
	var parts []string
	add := func(values ...string) {
		for _, v := range values {
			if v != "" {
				parts = append(parts, v)
			}
		}
	}

	add(record.Name, record.Title, record.Email, record.Phone, record.LinkedIn, record.GitHub,
		record.Address, record.Location, record.Summary)
	for _, e := range record.Experience {
		add(e.Position, e.Title, e.Company, e.Location, e.Period)
		add(e.Responsibilities...)
		add(e.Description...)
	}
	for _, e := range record.Education {
		add(e.Degree, e.Institution, e.Location, e.Period)
		add(e.Details...)
	}
	add(record.Skills...)
	add(record.Languages...)
	add(record.Certifications...)
	for _, p := range record.Projects {
		add(p.Name, p.Timeframe, p.Link)
		add(p.Description...)
	}
	for _, h := range record.Honors {
		add(h.Title, h.Date)
		add(h.Description...)
	}
	add(record.References...)

	return strings.Join(parts, " ")
}

// normalize lower-cases text and collapses whitespace
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func trimPunct(word string) string {
	return strings.TrimFunc(word, unicode.IsPunct)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.Fields(text) {
		if word := trimPunct(field); word != "" {
			set[word] = true
		}
		// "jane@x.com" also offers "jane" and "x.com"
		for _, part := range strings.FieldsFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '+' && r != '#'
		}) {
			if word := trimPunct(part); word != "" {
				set[word] = true
			}
		}
	}
	return set
}
