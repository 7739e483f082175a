package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jonathan/resume-extract/internal/profiles"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available extractor profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

var profilesJSON bool

func init() {
	profilesCmd.Flags().BoolVar(&profilesJSON, "json", false, "Print the profile list as JSON")

	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(_ *cobra.Command, _ []string) error {
	infos := profiles.List()
	if profilesJSON {
		return writeJSON("", infos)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, info := range infos {
		marker := ""
		if info.ID == profiles.DefaultID {
			marker = " (default)"
		}
		_, _ = fmt.Fprintf(tw, "%s%s\t%s\t%s\n", info.ID, marker, info.DisplayName, info.Description)
	}
	return tw.Flush()
}
