package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fygc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the fygc version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version.VersionString())
		if version.GitCommit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", version.BuildDate)
		}
		return nil
	},
}
