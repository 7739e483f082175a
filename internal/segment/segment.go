// Package segment splits resume lines into labeled sections by matching header phrases.
package segment

import (
	"strings"

	"github.com/jonathan/resume-extract/internal/textutil"
	"github.com/jonathan/resume-extract/internal/types"
)

// HeaderTable maps each section to the header phrases that open it.
// Phrases are lower-case.
type HeaderTable map[types.SectionKey][]string

// Policy holds the per-profile knobs of the segmenter
type Policy struct {
	// ResetOnEmbeddedHeader drops a content line and closes the current section when the
	// line contains an upper-cased header phrase without being a header itself.
	ResetOnEmbeddedHeader bool
	// AllCapsTerminatorLen, when positive, makes any all-caps line longer than this many
	// characters close the current section.
	AllCapsTerminatorLen int
	// MaxHeaderLength, when positive, stops lines longer than this many characters from
	// being taken as headers.
	MaxHeaderLength int
	// BareHeadersOnly rejects prefix matches, so "Languages: Go, Rust" stays content
	// while "Languages" and "Languages:" are still headers.
	BareHeadersOnly bool
}

// Match returns the section whose header phrase matches line. Sections are tried in
// types.SectionOrder and phrases in table order; the first hit wins.
func (t HeaderTable) Match(line string) (types.SectionKey, bool) {
	return t.match(line, false)
}

func (t HeaderTable) match(line string, bare bool) (types.SectionKey, bool) {
	lower := strings.ToLower(line)
	for _, key := range types.SectionOrder {
		for _, phrase := range t[key] {
			if matchesPhrase(line, lower, phrase, bare) {
				return key, true
			}
		}
	}
	return "", false
}

// ContainsUpper reports whether line contains any header phrase written in upper case
func (t HeaderTable) ContainsUpper(line string) bool {
	for _, key := range types.SectionOrder {
		for _, phrase := range t[key] {
			if strings.Contains(line, strings.ToUpper(phrase)) {
				return true
			}
		}
	}
	return false
}

// Phrases returns every phrase of the table in section order
func (t HeaderTable) Phrases() []string {
	var phrases []string
	for _, key := range types.SectionOrder {
		phrases = append(phrases, t[key]...)
	}
	return phrases
}

func matchesPhrase(line, lower, phrase string, bare bool) bool {
	if lower == phrase || line == strings.ToUpper(phrase) {
		return true
	}
	if bare {
		return strings.TrimSpace(strings.TrimSuffix(lower, ":")) == phrase
	}
	return strings.HasPrefix(lower, phrase+":") || strings.HasPrefix(lower, phrase+" ")
}

// Segment assigns lines to sections. Header lines are consumed and never emitted as content,
// and lines before the first recognized header belong to no section.
func Segment(lines []string, table HeaderTable, policy Policy) types.SectionMap {
	sections := make(types.SectionMap)
	var current types.SectionKey

	for _, line := range lines {
		if policy.MaxHeaderLength <= 0 || len(line) <= policy.MaxHeaderLength {
			if key, ok := table.match(line, policy.BareHeadersOnly); ok {
				current = key
				continue
			}
		}

		if current == "" {
			continue
		}

		if policy.AllCapsTerminatorLen > 0 && len(line) > policy.AllCapsTerminatorLen && textutil.IsAllCaps(line) {
			current = ""
			continue
		}

		if policy.ResetOnEmbeddedHeader && table.ContainsUpper(line) {
			current = ""
			continue
		}

		sections[current] = append(sections[current], line)
	}

	return sections
}
