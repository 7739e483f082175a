package textutil

import (
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?(?:\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	linkedInRe = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/(?:in|pub)/[A-Za-z0-9_-]+/?`)
	gitHubRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_.-]+(?:/[A-Za-z0-9_.-]+)?/?`)
	urlRe      = regexp.MustCompile(`(?i)\b(?:https?://[^\s|,;]+|www\.[^\s|,;]+|(?:github|gitlab|bitbucket)\.(?:com|org)/[^\s|,;]+)`)

	locationRe = regexp.MustCompile(`\b[A-Z][A-Za-z.'-]+(?:\s[A-Z][A-Za-z.'-]+){0,3},\s*(?:[A-Z]{2}\b|` + countryPattern + `)`)
	remoteRe   = regexp.MustCompile(`(?i)^\(?remote\)?$`)
	addressRe  = regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:[A-Za-z0-9.']+\s+){1,5}(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct|way|place|pl|parkway|pkwy)\b\.?(?:,?\s*(?:apt|suite|unit|#)\s*[A-Za-z0-9-]+)?(?:,\s*[A-Za-z .]+)*?(?:,?\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?)?`)

	contactSplitRe = regexp.MustCompile(`\s*(?:[|•·◦▪]|\s{3,})\s*`)
)

const countryPattern = `(?:USA|United States|Canada|UK|United Kingdom|India|Germany|France|Spain|Italy|Australia|Netherlands|Ireland|Singapore|Japan|China|Brazil|Mexico|Remote)\b`

// FindEmail returns the first email address in s
func FindEmail(s string) (string, bool) {
	return find(emailRe, s)
}

// FindPhone returns the first phone-shaped digit run in s
func FindPhone(s string) (string, bool) {
	return find(phoneRe, s)
}

// FindLinkedIn returns the first LinkedIn profile URL in s
func FindLinkedIn(s string) (string, bool) {
	m, ok := find(linkedInRe, s)
	return strings.TrimSuffix(m, "/"), ok
}

// FindGitHub returns the first GitHub profile URL in s
func FindGitHub(s string) (string, bool) {
	m, ok := find(gitHubRe, s)
	return strings.TrimSuffix(m, "/"), ok
}

// FindURL returns the first web link in s
func FindURL(s string) (string, bool) {
	m, ok := find(urlRe, s)
	return strings.TrimRight(m, ".)"), ok
}

// FindLocation returns the first "City, ST" or "City, Country" fragment in s,
// or "Remote" when s is exactly that.
func FindLocation(s string) (string, bool) {
	if remoteRe.MatchString(strings.TrimSpace(s)) {
		return "Remote", true
	}
	return find(locationRe, s)
}

// FindAddress returns the first street address in s
func FindAddress(s string) (string, bool) {
	m, ok := find(addressRe, s)
	return strings.TrimSpace(m), ok
}

// LooksLikeContact reports whether line carries contact information:
// an "@", a phone-shaped digit run, or a linkedin/github reference.
func LooksLikeContact(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "@") || strings.Contains(lower, "linkedin") || strings.Contains(lower, "github") {
		return true
	}
	return phoneRe.MatchString(line)
}

// SplitContactLine splits a header line such as "jane@x.com | 555-123-4567 | Austin, TX"
// into its segments.
func SplitContactLine(line string) []string {
	parts := contactSplitRe.Split(line, -1)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func find(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindString(s)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}
