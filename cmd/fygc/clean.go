package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build output directory",
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	manifest, root, err := resolveManifest(cmd)
	if err != nil {
		return err
	}
	buildDir := filepath.Join(root, manifest.BuildDir())

	if _, err := os.Stat(buildDir); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s does not exist, nothing to clean\n", buildDir)
		return nil
	}
	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("fygc: removing %s: %w", buildDir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", buildDir)
	return nil
}
