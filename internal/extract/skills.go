package extract

import (
	"strings"

	"github.com/jonathan/resume-extract/internal/textutil"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"c sharp":    "C#",
	"c#":         "C#",
	"cpp":        "C++",
	"c++":        "C++",

	"gcp":                   "Google Cloud",
	"google cloud platform": "Google Cloud",
	"amazon web services":   "AWS",
	"aws":                   "AWS",
}

// SkillKey returns the key two skill spellings share when they name the same skill,
// e.g. "golang" and "Go" both map to "go".
func SkillKey(skill string) string {
	lower := strings.ToLower(strings.TrimSpace(skill))
	if canonical, ok := skillNormalizations[lower]; ok {
		return strings.ToLower(canonical)
	}
	return lower
}

// SkillRules are the profile knobs for list extraction
type SkillRules struct {
	// StripCategories drops "Languages:"-style prefixes before splitting
	StripCategories bool
	// Dedupe removes repeated skills, keeping the first spelling
	Dedupe bool
}

// ExtractSkills splits skill lines into individual skills
func ExtractSkills(lines []string, rules SkillRules) []string {
	skills := []string{}
	seen := make(map[string]bool)

	for _, line := range lines {
		line = textutil.StripBullet(line)
		if rules.StripCategories {
			if _, value, ok := textutil.SplitLabel(line); ok && value != "" {
				line = value
			}
		}
		for _, item := range textutil.SplitDelimited(line) {
			item = strings.Trim(item, " .")
			if item == "" {
				continue
			}
			if rules.Dedupe {
				key := SkillKey(item)
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			skills = append(skills, item)
		}
	}

	return skills
}
