package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-extract/internal/config"
	"github.com/jonathan/resume-extract/internal/db"
	"github.com/jonathan/resume-extract/internal/ingestion"
	"github.com/jonathan/resume-extract/internal/observability"
	"github.com/jonathan/resume-extract/internal/pipeline"
	"github.com/jonathan/resume-extract/internal/profiles"
	"github.com/jonathan/resume-extract/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Parse resume documents as they appear in a directory",
	Long: "Watch a directory and parse every supported document that is created or rewritten in it, " +
		"writing one record JSON per document and profile. Stops on interrupt.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchProfiles    []string
	watchOutDir      string
	watchDatabaseURL string
	watchMetrics     string
	watchDebounce    time.Duration
	watchWholeWord   bool
)

func init() {
	watchCmd.Flags().StringSliceVarP(&watchProfiles, "profiles", "p", nil, "Profile IDs to run (default: general)")
	watchCmd.Flags().StringVarP(&watchOutDir, "out", "o", "", "Directory to write records to (default: stdout)")
	watchCmd.Flags().StringVar(&watchDatabaseURL, "db", "", "Results database (postgres:// URL or SQLite file)")
	watchCmd.Flags().StringVar(&watchMetrics, "metrics-addr", "", "Serve Prometheus metrics on this address")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", source.DefaultDebounce, "Quiet period before a changed file is parsed")
	watchCmd.Flags().BoolVar(&watchWholeWord, "whole-word", false, "Match coverage words as whole words instead of substrings")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	cfg, logger, err := settings(config.Config{
		Profiles:    watchProfiles,
		DatabaseURL: watchDatabaseURL,
		MetricsAddr: watchMetrics,
		WholeWord:   watchWholeWord,
	})
	if err != nil {
		return err
	}

	ids := cfg.Profiles
	if len(ids) == 0 {
		ids = []string{profiles.DefaultID}
	}
	extractors, err := profiles.Resolve(ids)
	if err != nil {
		return &usageError{err: err}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := args[0]
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		m, stopMetrics, err := startMetrics(ctx, cfg.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
		metrics = m
	}

	var store *db.DB
	runID := uuid.New()
	var succeeded, failed, documents atomic.Int64
	if cfg.DatabaseURL != "" {
		store, err = openStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.CreateRun(ctx, &db.Run{ID: runID, Source: dir, Profiles: ids}); err != nil {
			return err
		}
		defer func() {
			if err := store.CompleteRun(context.WithoutCancel(ctx), runID, db.RunStatusCompleted,
				int(documents.Load()), int(succeeded.Load()), int(failed.Load())); err != nil {
				logger.Error("failed to complete run", slog.Any("error", err))
			}
		}()
	}

	handle := func(ctx context.Context, path string) {
		documents.Add(1)
		text, _, readErr := ingestion.IngestFromFile(ctx, path)
		if readErr != nil {
			metrics.ObserveUnreadable()
			logger.Warn("document skipped", slog.String("path", path), slog.Any("error", readErr))
		}

		for _, extractor := range extractors {
			outcome := pipeline.Outcome{Profile: extractor.Info().ID, Err: readErr}
			if readErr == nil {
				outcome = pipeline.Parse(text, extractor, cfg.WholeWord)
			}
			outcome.Document = filepath.Base(path)
			outcome.Observe(metrics)

			if outcome.Err != nil {
				failed.Add(1)
			} else {
				succeeded.Add(1)
				if err := writeWatched(watchOutDir, &outcome); err != nil {
					logger.Error("failed to write record", slog.String("path", path), slog.Any("error", err))
				}
				logger.Info("document parsed",
					slog.String("path", path),
					slog.String("profile", outcome.Profile),
					slog.Float64("coverage", outcome.Coverage.CoveragePercentage))
			}

			if store != nil {
				if err := store.SaveResult(ctx, outcome.StoredResult(runID)); err != nil {
					logger.Error("failed to save result", slog.String("path", path), slog.Any("error", err))
				}
			}
		}
	}

	return source.Watch(ctx, dir, source.WatchOptions{Debounce: watchDebounce, Logger: logger}, handle)
}

func writeWatched(outDir string, o *pipeline.Outcome) error {
	if outDir == "" {
		return writeJSON("", o)
	}
	return writeJSON(filepath.Join(outDir, fmt.Sprintf("%s.%s.json", o.Document, o.Profile)), o.Record)
}
