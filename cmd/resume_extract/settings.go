package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-extract/internal/config"
	"github.com/jonathan/resume-extract/internal/observability"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (default: ./resume_extract.{json,yaml})")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}

// settings resolves the effective configuration. Values set on the command line win over the
// config file and RESUME_EXTRACT_* environment variables.
func settings(flags config.Config) (config.Config, *slog.Logger, error) {
	fileCfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	flags.LogLevel = logLevel
	flags.LogFormat = logFormat
	merged := flags.MergeWithDefaults(*fileCfg)
	if err := merged.Validate(); err != nil {
		return config.Config{}, nil, &usageError{err: err}
	}

	logger, err := observability.NewLogger(os.Stderr, merged.LogLevel, merged.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return merged, logger, nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty or "-"
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
