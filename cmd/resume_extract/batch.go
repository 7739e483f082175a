package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-extract/internal/config"
	"github.com/jonathan/resume-extract/internal/db"
	"github.com/jonathan/resume-extract/internal/observability"
	"github.com/jonathan/resume-extract/internal/pipeline"
	"github.com/jonathan/resume-extract/internal/profiles"
	"github.com/jonathan/resume-extract/internal/report"
	"github.com/jonathan/resume-extract/internal/source"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Parse every document of a directory or S3 bucket with one or more profiles",
	Long: "Parse every supported document of a local directory or an S3 bucket with the selected profiles " +
		"(default: all), then print per-profile statistics. Unreadable documents are reported and skipped.",
	Args: cobra.NoArgs,
	RunE: runBatch,
}

var (
	batchDir         string
	batchProfiles    []string
	batchWorkers     int
	batchFormat      string
	batchOutDir      string
	batchDatabaseURL string
	batchMetrics     string
	batchWholeWord   bool
	batchS3          config.S3Config
)

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "Directory of resume documents")
	batchCmd.Flags().StringSliceVarP(&batchProfiles, "profiles", "p", nil, "Profile IDs to run (default: all)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Number of documents processed concurrently")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "Statistics format: json, text or markdown")
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "", "Directory to write one record JSON per document and profile")
	batchCmd.Flags().StringVar(&batchDatabaseURL, "db", "", "Results database (postgres:// URL or SQLite file)")
	batchCmd.Flags().StringVar(&batchMetrics, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	batchCmd.Flags().BoolVar(&batchWholeWord, "whole-word", false, "Match coverage words as whole words instead of substrings")
	batchCmd.Flags().StringVar(&batchS3.Bucket, "s3-bucket", "", "Read documents from this S3 bucket instead of --dir")
	batchCmd.Flags().StringVar(&batchS3.Prefix, "s3-prefix", "", "Key prefix within the S3 bucket")
	batchCmd.Flags().StringVar(&batchS3.Region, "s3-region", "", "AWS region of the S3 bucket")
	batchCmd.Flags().StringVar(&batchS3.Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, _ []string) error {
	cfg, logger, err := settings(config.Config{
		Profiles:    batchProfiles,
		Workers:     batchWorkers,
		Format:      batchFormat,
		DatabaseURL: batchDatabaseURL,
		MetricsAddr: batchMetrics,
		WholeWord:   batchWholeWord,
		S3:          batchS3,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, sourceName, err := openSource(ctx, batchDir, cfg)
	if err != nil {
		return err
	}

	extractors, err := profiles.Resolve(cfg.Profiles)
	if err != nil {
		return &usageError{err: err}
	}

	opts := pipeline.Options{
		Source:     src,
		SourceName: sourceName,
		Extractors: extractors,
		Workers:    cfg.Workers,
		WholeWord:  cfg.WholeWord,
		Logger:     logger,
	}

	if cfg.DatabaseURL != "" {
		store, err := openStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts.Store = store
	}

	if cfg.MetricsAddr != "" {
		metrics, stopMetrics, err := startMetrics(ctx, cfg.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
		opts.Metrics = metrics
	}

	summary, err := pipeline.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if batchOutDir != "" {
		if err := writeOutcomes(batchOutDir, summary.Outcomes); err != nil {
			return err
		}
	}

	return report.Write(os.Stdout, report.Aggregate(summary.Entries()), cfg.Format)
}

// openSource picks the local directory when given, otherwise the configured S3 bucket
func openSource(ctx context.Context, dir string, cfg config.Config) (source.Source, string, error) {
	switch {
	case dir != "":
		src, err := source.NewDir(dir, cfg.MaxFileSize)
		return src, dir, err
	case cfg.S3.Bucket != "":
		src, err := source.NewS3(ctx, source.S3Options{
			Bucket:   cfg.S3.Bucket,
			Prefix:   cfg.S3.Prefix,
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
			MaxBytes: cfg.MaxFileSize,
		})
		return src, fmt.Sprintf("s3://%s/%s", cfg.S3.Bucket, strings.TrimLeft(cfg.S3.Prefix, "/")), err
	default:
		return nil, "", &usageError{err: errors.New("either --dir or --s3-bucket is required")}
	}
}

// openStore connects to the results database and brings its schema up to date
func openStore(ctx context.Context, databaseURL string) (*db.DB, error) {
	store, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// startMetrics registers the collectors on a fresh registry and serves them until stop is called
func startMetrics(ctx context.Context, addr string, logger *slog.Logger) (*observability.Metrics, func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, nil, err
	}

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := observability.ServeMetrics(serveCtx, addr, reg); err != nil {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", addr))

	return metrics, func() {
		cancel()
		<-done
	}, nil
}

// writeOutcomes writes each successful record as <document>.<profile>.json under dir
func writeOutcomes(dir string, outcomes []pipeline.Outcome) error {
	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != nil || o.Record == nil {
			continue
		}
		name := strings.NewReplacer("/", "_", "\\", "_").Replace(o.Document)
		path := filepath.Join(dir, fmt.Sprintf("%s.%s.json", name, o.Profile))
		if err := writeJSON(path, o.Record); err != nil {
			return err
		}
	}
	return nil
}
