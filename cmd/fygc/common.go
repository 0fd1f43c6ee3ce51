package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fygc/internal/diag"
	"fygc/internal/diagfmt"
	"fygc/internal/parser"
	"fygc/internal/project"
	"fygc/internal/unify"
)

// resolveManifest walks up from the current directory to locate
// fyg.toml and loads it, the same upward search
// project.FindProjectRoot performs for every subcommand.
func resolveManifest(cmd *cobra.Command) (project.Manifest, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return project.Manifest{}, "", fmt.Errorf("fygc: resolving working directory: %w", err)
	}
	root, ok, err := project.FindProjectRoot(wd)
	if err != nil {
		return project.Manifest{}, "", err
	}
	if !ok {
		return project.Manifest{}, "", fmt.Errorf("fygc: no %s found in %s or any parent directory (run `fygc init` first)", project.ManifestName, wd)
	}
	manifestPath := filepath.Join(root, project.ManifestName)
	m, err := project.Load(manifestPath)
	if err != nil {
		return project.Manifest{}, "", err
	}
	return m, root, nil
}

// reportError prints err to out, rendering it as a source-anchored
// diagnostic via diagfmt.Pretty when it unwraps to a diag.Diagnostic,
// falling back to a plain message otherwise (e.g. file-not-found,
// unknown-import errors that never reached the diagnostic machinery).
func reportError(out io.Writer, err error, files *parser.FileParser, colorOut *os.File, colorFlag string) {
	var diagnostic diag.Diagnostic
	var unifyErr *unify.Error
	switch {
	case errors.As(err, &unifyErr):
		diagnostic = unifyErr.Diagnostic
	case errors.As(err, &diagnostic):
	default:
		fmt.Fprintf(out, "fygc: %s\n", err)
		return
	}

	if files == nil {
		fmt.Fprintf(out, "fygc: %s\n", diagnostic.Error())
		return
	}
	bag := diag.NewBag(1)
	bag.Add(diagnostic)
	diagfmt.Pretty(out, bag, files.Files, diagfmt.PrettyOpts{
		Color: diagfmt.ShouldColor(colorFlag, colorOut),
	})
}
