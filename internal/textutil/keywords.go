package textutil

import (
	"regexp"
	"strings"
)

// KeywordSet matches any of a list of keywords on word boundaries, case-insensitively
type KeywordSet struct {
	words []string
	re    *regexp.Regexp
}

// NewKeywordSet compiles a keyword set. Multi-word keywords are allowed.
func NewKeywordSet(words ...string) KeywordSet {
	if len(words) == 0 {
		return KeywordSet{}
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return KeywordSet{
		words: words,
		re:    regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\pL\pN])`),
	}
}

// Match reports whether s contains one of the keywords as a whole word
func (k KeywordSet) Match(s string) bool {
	if k.re == nil {
		return false
	}
	return k.re.MatchString(s)
}

// Words returns the keywords in declaration order
func (k KeywordSet) Words() []string {
	return k.words
}

// Shared keyword lists used by the profiles
var (
	RoleKeywords = NewKeywordSet(
		"engineer", "developer", "manager", "analyst", "intern", "consultant", "designer",
		"architect", "lead", "director", "scientist", "specialist", "administrator",
		"assistant", "associate", "coordinator", "technician", "officer", "programmer",
		"researcher", "head of", "vp", "president", "founder", "co-founder", "owner",
		"teacher", "instructor", "fellow",
	)

	DegreeKeywords = NewKeywordSet(
		"bachelor", "bachelors", "bachelor's", "master", "masters", "master's", "phd", "ph.d",
		"doctor", "doctorate", "associate degree", "diploma", "certificate",
		"b.s", "b.s.", "bs", "b.a", "b.a.", "ba", "m.s", "m.s.", "ms", "m.a", "m.a.",
		"mba", "b.sc", "m.sc", "bsc", "msc", "b.tech", "m.tech", "b.eng", "m.eng", "beng", "meng",
		"high school", "ged",
	)

	InstitutionKeywords = NewKeywordSet(
		"university", "college", "institute", "school", "academy", "polytechnic", "conservatory",
	)

	CompanyCueKeywords = NewKeywordSet(
		"inc", "inc.", "llc", "ltd", "ltd.", "corp", "corp.", "corporation", "company", "co.",
		"gmbh", "plc", "group", "technologies", "labs", "solutions", "systems", "partners",
		"agency", "studio", "bank",
	)

	HonorKeywords = NewKeywordSet(
		"award", "honor", "honour", "prize", "scholarship", "fellowship", "dean's list",
		"winner", "finalist", "medal", "recognition", "cum laude",
	)
)
