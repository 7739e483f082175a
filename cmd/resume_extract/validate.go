package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-extract/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against the resume record schema",
	Long:  "Validate a JSON file against the embedded resume record schema, or against another JSON schema given with --schema.",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

var (
	validateJSON   string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON file to validate (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON schema (default: embedded resume record schema)")

	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	} else {
		data, readErr := os.ReadFile(validateJSON)
		if readErr != nil {
			return fmt.Errorf("failed to read JSON file: %w", readErr)
		}
		err = schemas.ValidateRecordJSON(data)
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stdout, "Validation failed")
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "Validation passed")
	return nil
}
