package extract

import (
	"strings"

	"github.com/jonathan/resume-extract/internal/textutil"
)

// ExtractLines returns one item per line with bullets stripped
func ExtractLines(lines []string) []string {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		if item := textutil.StripBullet(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ExtractSummary joins the summary lines into one paragraph
func ExtractSummary(lines []string) Field {
	if len(lines) == 0 {
		return Field{}
	}
	return Found(strings.Join(ExtractLines(lines), " "))
}
