package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Write renders the report to w in the given format
func Write(w io.Writer, r *Report, format string) error {
	switch format {
	case FormatJSON, "":
		return writeJSON(w, r)
	case FormatText:
		return writeText(w, r)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	default:
		return fmt.Errorf("unknown report format %q (valid formats: json, text, markdown)", format)
	}
}

func writeJSON(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

//nolint:errcheck // write errors surface through Flush
func writeText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPROFILE\tATTEMPTS\tOK\tFAILED\tMEAN\tMIN\tMAX")
	for _, s := range r.Profiles {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%.1f\t%.1f\t%.1f\n",
			s.Rank, s.Profile, s.Attempts, s.Successes, s.Failures, s.MeanCoverage, s.MinCoverage, s.MaxCoverage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.Documents > 0 {
		fmt.Fprintf(w, "\nDocuments: %d\n", r.Documents)
	}
	if r.Best != "" {
		fmt.Fprintf(w, "Best profile: %s\n", r.Best)
	}
	return nil
}

func writeMarkdown(w io.Writer, r *Report) error {
	var sb strings.Builder
	sb.WriteString("# Profile comparison\n\n")
	if r.Documents > 0 {
		sb.WriteString(fmt.Sprintf("Documents: %d\n\n", r.Documents))
	}

	sb.WriteString("| Rank | Profile | Attempts | Successes | Failures | Mean | Min | Max |\n")
	sb.WriteString("|---:|---|---:|---:|---:|---:|---:|---:|\n")
	for _, s := range r.Profiles {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %d | %.1f | %.1f | %.1f |\n",
			s.Rank, s.Profile, s.Attempts, s.Successes, s.Failures, s.MeanCoverage, s.MinCoverage, s.MaxCoverage))
	}

	if hasFillRates(r) {
		sb.WriteString("\n## Field fill rates\n\n| Field |")
		for _, s := range r.Profiles {
			sb.WriteString(" " + s.Profile + " |")
		}
		sb.WriteString("\n|---|")
		for range r.Profiles {
			sb.WriteString("---:|")
		}
		sb.WriteString("\n")
		for _, field := range FieldNames() {
			sb.WriteString("| " + field + " |")
			for _, s := range r.Profiles {
				sb.WriteString(fmt.Sprintf(" %.0f%% |", s.FillRates[field]*100))
			}
			sb.WriteString("\n")
		}
	}

	if r.Best != "" {
		sb.WriteString(fmt.Sprintf("\nBest profile: **%s**\n", r.Best))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func hasFillRates(r *Report) bool {
	for _, s := range r.Profiles {
		if len(s.FillRates) > 0 {
			return true
		}
	}
	return false
}
