package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-extract/internal/config"
	"github.com/jonathan/resume-extract/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compare profiles using stored batch results",
	Long: "Print per-profile statistics of a stored batch run (default: the latest run), " +
		"or of every stored result with --all.",
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsDatabaseURL string
	statsRunID       string
	statsAll         bool
	statsFormat      string
)

func init() {
	statsCmd.Flags().StringVar(&statsDatabaseURL, "db", "", "Results database (postgres:// URL or SQLite file)")
	statsCmd.Flags().StringVar(&statsRunID, "run-id", "", "Run to report on (default: latest)")
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "Aggregate every stored result instead of one run")
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "", "Output format: json, text or markdown")

	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg, _, err := settings(config.Config{DatabaseURL: statsDatabaseURL, Format: statsFormat})
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return &usageError{err: fmt.Errorf("--db is required (or set database_url in the config)")}
	}
	if statsAll && statsRunID != "" {
		return &usageError{err: fmt.Errorf("cannot use --run-id with --all")}
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if statsAll {
		summaries, err := store.ProfileSummaries(ctx, uuid.Nil)
		if err != nil {
			return err
		}
		return report.Write(os.Stdout, report.FromSummaries(summaries), cfg.Format)
	}

	var runID uuid.UUID
	if statsRunID != "" {
		if runID, err = uuid.Parse(statsRunID); err != nil {
			return &usageError{err: fmt.Errorf("invalid run ID: %w", err)}
		}
	} else {
		latest, err := store.LatestRun(ctx)
		if err != nil {
			return err
		}
		if latest == nil {
			return fmt.Errorf("no runs stored in %s", cfg.DatabaseURL)
		}
		runID = latest.ID
	}

	results, err := store.ListResults(ctx, runID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no results stored for run %s", runID)
	}
	entries, err := report.FromResults(results)
	if err != nil {
		return err
	}
	return report.Write(os.Stdout, report.Aggregate(entries), cfg.Format)
}
