package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var bulletRe = regexp.MustCompile(`^\s*(?:[•·▪●◦‣∙○■□➢►▸✓✔]\s*|[-*–—]\s+|\d{1,2}[.)]\s+)`)

// IsBullet reports whether line starts with a bullet or list marker
func IsBullet(line string) bool {
	return bulletRe.MatchString(line)
}

// StripBullet removes a leading bullet or list marker
func StripBullet(line string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
}

// SplitDelimited splits a list line on commas, semicolons, pipes and inline bullets.
// Delimiters inside parentheses or brackets are ignored so "Python (Django, Flask)"
// stays a single item. Empty items are dropped.
func SplitDelimited(line string) []string {
	var (
		items   []string
		current strings.Builder
		depth   int
	)
	flush := func() {
		item := strings.TrimSpace(current.String())
		current.Reset()
		if item != "" {
			items = append(items, item)
		}
	}

	for _, r := range line {
		switch {
		case r == '(' || r == '[' || r == '{':
			depth++
			current.WriteRune(r)
		case r == ')' || r == ']' || r == '}':
			if depth > 0 {
				depth--
			}
			current.WriteRune(r)
		case depth == 0 && (r == ',' || r == ';' || r == '|' || r == '•' || r == '·' || r == '▪' || r == '●'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return items
}

// SplitLabel splits "Label: value" lines. ok is false when the line has no short label.
func SplitLabel(line string) (label, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 || idx > 40 {
		return "", line, false
	}
	label = strings.TrimSpace(line[:idx])
	if label == "" || strings.ContainsAny(label, ",;|") || strings.HasPrefix(line[idx+1:], "//") {
		return "", line, false
	}
	return label, strings.TrimSpace(line[idx+1:]), true
}

// IsAllCaps reports whether line contains letters and none of them are lower-case
func IsAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

var minorWords = map[string]bool{
	"of": true, "and": true, "the": true, "for": true, "in": true,
	"at": true, "on": true, "&": true, "to": true, "a": true, "an": true,
}

// IsTitleCase reports whether every significant word of line starts with an upper-case letter
func IsTitleCase(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	for i, word := range words {
		if i > 0 && minorWords[strings.ToLower(word)] {
			continue
		}
		first := []rune(word)[0]
		if unicode.IsLetter(first) && !unicode.IsUpper(first) {
			return false
		}
	}
	first := []rune(words[0])[0]
	return unicode.IsUpper(first)
}

// WordCount returns the number of whitespace-separated words in s
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// EndsSentence reports whether s ends with sentence punctuation
func EndsSentence(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}
