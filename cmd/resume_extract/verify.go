package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/resume-extract/internal/config"
	"github.com/jonathan/resume-extract/internal/coverage"
	"github.com/jonathan/resume-extract/internal/ingestion"
	"github.com/jonathan/resume-extract/internal/observability"
	"github.com/jonathan/resume-extract/internal/schemas"
	"github.com/jonathan/resume-extract/internal/types"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Measure how much of a resume document a JSON record captures",
	Long: "Compare a resume record (canonical or profile-shaped JSON) with the document it was extracted from " +
		"and report the coverage percentage and the paragraphs that were not captured.",
	Args: cobra.NoArgs,
	RunE: runVerify,
}

var (
	verifyDocument  string
	verifyRecord    string
	verifyMin       float64
	verifyWholeWord bool
	verifyVerbose   bool
)

func init() {
	verifyCmd.Flags().StringVarP(&verifyDocument, "document", "d", "", "Path to the source resume document (required)")
	verifyCmd.Flags().StringVarP(&verifyRecord, "record", "r", "", "Path to the record JSON (required)")
	verifyCmd.Flags().Float64Var(&verifyMin, "min", 0, "Fail when coverage is below this percentage")
	verifyCmd.Flags().BoolVar(&verifyWholeWord, "whole-word", false, "Match words as whole words instead of substrings")
	verifyCmd.Flags().BoolVarP(&verifyVerbose, "verbose", "v", false, "Print a human-readable summary to stderr")

	_ = verifyCmd.MarkFlagRequired("document")
	_ = verifyCmd.MarkFlagRequired("record")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, _ []string) error {
	cfg, logger, err := settings(config.Config{WholeWord: verifyWholeWord})
	if err != nil {
		return err
	}
	if verifyMin < 0 || verifyMin > 100 {
		return &usageError{err: fmt.Errorf("--min must be between 0 and 100, got %g", verifyMin)}
	}

	text, _, err := ingestion.IngestFromFile(context.Background(), verifyDocument)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(verifyRecord)
	if err != nil {
		return fmt.Errorf("failed to read record file: %w", err)
	}
	var raw types.RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse record JSON: %w", err)
	}
	record, err := schemas.NormalizeRecord(raw)
	if err != nil {
		return err
	}

	var opts []coverage.Option
	if cfg.WholeWord {
		opts = append(opts, coverage.WithWholeWordMatching())
	}
	report := coverage.Verify(text, record, opts...)
	logger.Info("coverage verified",
		slog.String("document", verifyDocument),
		slog.Float64("coverage", report.CoveragePercentage),
		slog.Int("missing", len(report.MissingContent)))

	if verifyVerbose {
		observability.NewPrinter(os.Stderr).PrintCoverage(&report)
	}
	if err := writeJSON("", report); err != nil {
		return err
	}

	if report.CoveragePercentage < verifyMin {
		return fmt.Errorf("coverage %.1f%% is below the required %.1f%%", report.CoveragePercentage, verifyMin)
	}
	return nil
}
