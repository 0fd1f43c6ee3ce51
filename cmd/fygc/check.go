package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fygc/internal/buildpipeline"
	"fygc/internal/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Bind, collect, and unify without emitting Go source",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	manifest, root, err := resolveManifest(cmd)
	if err != nil {
		return err
	}
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")

	fp := parser.NewFileParser()
	req := buildpipeline.Request{
		Roots:     absolutize(root, manifest.SourceRoots()),
		Entry:     filepath.Join(root, manifest.Package.Entry),
		Parser:    fp,
		CheckOnly: true,
	}

	result, err := buildpipeline.Run(cmd.Context(), req)
	if err != nil {
		reportError(os.Stderr, err, fp, os.Stderr, colorFlag)
		return fmt.Errorf("check failed")
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "%d module(s) type-check cleanly\n", len(result.Modules))
	}
	return nil
}
