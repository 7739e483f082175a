package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-extract/internal/config"
	"github.com/jonathan/resume-extract/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the results database schema",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migrateDatabaseURL string

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "db", "", "Results database (postgres:// URL or SQLite file)")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, logger, err := settings(config.Config{DatabaseURL: migrateDatabaseURL})
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return &usageError{err: fmt.Errorf("--db is required (or set database_url in the config)")}
	}

	ctx := context.Background()
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	version, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	logger.Info("database migrated", slog.Int64("version", version))
	_, _ = fmt.Fprintf(os.Stdout, "Schema version: %d\n", version)
	return nil
}
