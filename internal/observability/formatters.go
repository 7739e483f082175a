// Package observability provides logging, metrics and formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-extract/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintRecord outputs a human-readable summary of a normalized resume record.
func (p *Printer) PrintRecord(profile string, record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", record.Name))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", record.Title))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", record.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", record.Phone))
	sb.WriteString("\n")

	if len(record.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(record.Experience)))
		count := min(len(record.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := record.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", e.Position))
			if e.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", e.Company))
			}
			if e.Period != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", e.Period))
			}
			sb.WriteString("\n")
		}
		if len(record.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(record.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(record.Education)))
		count := min(len(record.Education), 3)
		for i := 0; i < count; i++ {
			e := record.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s", e.Degree))
			if e.Institution != "" {
				sb.WriteString(fmt.Sprintf(", %s", e.Institution))
			}
			sb.WriteString("\n")
		}
		if len(record.Education) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Education)-3))
		}
		sb.WriteString("\n")
	}

	if len(record.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", strings.Join(record.Skills, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Projects: %d   Honors: %d   Certifications: %d\n",
		len(record.Projects), len(record.Honors), len(record.Certifications)))

	p.printBox(fmt.Sprintf("EXTRACTED RECORD (%s)", profile), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDefaulted outputs the fields the extractor could not fill.
func (p *Printer) PrintDefaulted(defaulted []string) {
	if len(defaulted) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d fields left at default:\n", len(defaulted)))
	count := min(len(defaulted), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", defaulted[i]))
	}
	if len(defaulted) > count {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(defaulted)-count))
	}

	p.printBox("DEFAULTED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCoverage outputs the coverage score and the chunks that were not captured.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintCoverage(report *types.CoverageReport) {
	if report == nil {
		return
	}
	if len(report.MissingContent) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ COVERAGE %.1f%%", report.CoveragePercentage))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Coverage: %.1f%%\n", report.CoveragePercentage))
	sb.WriteString(fmt.Sprintf("Missing %d chunks:\n\n", len(report.MissingContent)))

	count := min(len(report.MissingContent), maxItemsToShow)
	for i := 0; i < count; i++ {
		chunk := strings.Join(strings.Fields(report.MissingContent[i]), " ")
		sb.WriteString(fmt.Sprintf("⚠ %s\n", truncate(chunk, 50)))
	}
	if len(report.MissingContent) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more chunks", len(report.MissingContent)-maxItemsToShow))
	}

	p.printBox("COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}
