package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/resume-extract/internal/config"
	"github.com/jonathan/resume-extract/internal/ingestion"
	"github.com/jonathan/resume-extract/internal/observability"
	"github.com/jonathan/resume-extract/internal/pipeline"
	"github.com/jonathan/resume-extract/internal/profiles"
	"github.com/jonathan/resume-extract/internal/schemas"
	"github.com/jonathan/resume-extract/internal/types"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract a resume document into a canonical JSON record",
	Long: "Extract a resume document (PDF, DOCX, HTML or text) with one profile, normalize the result to the " +
		"resume record schema and write it as JSON. With --report the coverage report and defaulted fields are included.",
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var (
	parseProfile   string
	parseOutput    string
	parseReport    bool
	parseWholeWord bool
	parseVerbose   bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseProfile, "profile", "p", profiles.DefaultID, "Extractor profile ID (see 'profiles')")
	parseCmd.Flags().StringVarP(&parseOutput, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseCmd.Flags().BoolVar(&parseReport, "report", false, "Include coverage report and defaulted fields in the output")
	parseCmd.Flags().BoolVar(&parseWholeWord, "whole-word", false, "Match coverage words as whole words instead of substrings")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a human-readable summary to stderr")

	rootCmd.AddCommand(parseCmd)
}

// parseOutputDoc is the --report output shape
type parseOutputDoc struct {
	Document  string                `json:"document"`
	Profile   string                `json:"profile"`
	Record    *types.ResumeRecord   `json:"record"`
	Coverage  *types.CoverageReport `json:"coverage"`
	Defaulted []string              `json:"defaulted"`
}

func runParse(_ *cobra.Command, args []string) error {
	cfg, logger, err := settings(config.Config{WholeWord: parseWholeWord})
	if err != nil {
		return err
	}

	extractor, err := profiles.Get(parseProfile)
	if err != nil {
		return &usageError{err: err}
	}

	path := args[0]
	text, meta, err := ingestion.IngestFromFile(context.Background(), path)
	if err != nil {
		return err
	}
	logger.Debug("document ingested",
		slog.String("path", path),
		slog.String("format", meta.Format),
		slog.Int("pages", meta.PageCount),
		slog.String("hash", meta.Hash))

	outcome := pipeline.Parse(text, extractor, cfg.WholeWord)
	if outcome.Err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, outcome.Err)
	}
	if err := schemas.Validate(outcome.Record); err != nil {
		return fmt.Errorf("extracted record does not validate against schema: %w", err)
	}
	logger.Info("document parsed",
		slog.String("path", path),
		slog.String("profile", outcome.Profile),
		slog.Float64("coverage", outcome.Coverage.CoveragePercentage),
		slog.Int("defaulted", len(outcome.Defaulted)))

	if parseVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintRecord(outcome.Profile, outcome.Record)
		printer.PrintDefaulted(outcome.Defaulted)
		printer.PrintCoverage(outcome.Coverage)
	}

	if !parseReport {
		return writeJSON(parseOutput, outcome.Record)
	}

	defaulted := outcome.Defaulted
	if defaulted == nil {
		defaulted = []string{}
	}
	return writeJSON(parseOutput, parseOutputDoc{
		Document:  path,
		Profile:   outcome.Profile,
		Record:    outcome.Record,
		Coverage:  outcome.Coverage,
		Defaulted: defaulted,
	})
}
