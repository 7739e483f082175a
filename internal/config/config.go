// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-extract/internal/profiles"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read into the configuration
const EnvPrefix = "RESUME_EXTRACT"

// Config represents the CLI configuration. Values come from defaults, an optional JSON or
// YAML file and RESUME_EXTRACT_* environment variables, in increasing priority; command
// line flags are merged on top by the commands.
type Config struct {
	// Extraction
	Profiles  []string `mapstructure:"profiles" json:"profiles,omitempty" validate:"dive,required"` // Profile IDs to run; empty means all
	WholeWord bool     `mapstructure:"whole_word" json:"whole_word,omitempty"`                     // Whole-word coverage matching

	// Batch
	Workers     int   `mapstructure:"workers" json:"workers,omitempty" validate:"omitempty,gte=1,lte=256"`
	MaxFileSize int64 `mapstructure:"max_file_size" json:"max_file_size,omitempty" validate:"gte=0"` // Bytes; 0 means unlimited

	// Output
	Format    string `mapstructure:"format" json:"format,omitempty" validate:"omitempty,oneof=json text markdown"`
	LogLevel  string `mapstructure:"log_level" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" json:"log_format,omitempty" validate:"omitempty,oneof=text json"`

	// Persistence and metrics
	DatabaseURL string `mapstructure:"database_url" json:"database_url,omitempty"` // postgres:// URL or sqlite file path
	MetricsAddr string `mapstructure:"metrics_addr" json:"metrics_addr,omitempty"` // e.g. ":9090"; empty disables

	// Document source
	S3 S3Config `mapstructure:"s3" json:"s3,omitempty"`
}

// S3Config selects an S3 bucket as document source
type S3Config struct {
	Bucket   string `mapstructure:"bucket" json:"bucket,omitempty"`
	Prefix   string `mapstructure:"prefix" json:"prefix,omitempty"`
	Region   string `mapstructure:"region" json:"region,omitempty"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint,omitempty" validate:"omitempty,url"` // S3-compatible endpoint such as R2 or MinIO
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Workers:     4,
		MaxFileSize: 10 << 20,
		Format:      "json",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads configuration from path (JSON or YAML, chosen by extension) and the environment.
// An empty path searches for resume_extract.{json,yaml} in the working directory and
// $HOME/.config/resume_extract, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("resume_extract")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/resume_extract")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("profiles", []string{})
	v.SetDefault("whole_word", false)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("format", d.Format)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("database_url", "")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation (value %v)", fieldName(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	for _, id := range c.Profiles {
		if _, err := profiles.Get(id); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	return nil
}

// fieldName turns "Config.S3.Endpoint" into "s3.endpoint"
func fieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MetricsAddr == "" {
		result.MetricsAddr = defaults.MetricsAddr
	}
	if result.S3.Bucket == "" {
		result.S3 = defaults.S3
	}

	// Slice fields: use default if empty
	if len(result.Profiles) == 0 {
		result.Profiles = defaults.Profiles
	}

	// Int fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.MaxFileSize == 0 {
		result.MaxFileSize = defaults.MaxFileSize
	}

	// Bool fields: cannot distinguish unset from false, so a true default wins
	result.WholeWord = result.WholeWord || defaults.WholeWord

	return result
}
