package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fygc/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a new Fyg project in the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	name := filepath.Base(wd)
	if len(args) == 1 {
		name = args[0]
	}

	manifestPath := filepath.Join(wd, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("fygc: %s already exists", manifestPath)
	}
	if err := project.WriteDefault(manifestPath, name); err != nil {
		return err
	}

	for _, dir := range project.DefaultSourceRoots {
		if err := os.MkdirAll(filepath.Join(wd, dir), 0o755); err != nil {
			return err
		}
	}

	entryPath := filepath.Join(wd, "src", "main.fyg")
	if _, err := os.Stat(entryPath); os.IsNotExist(err) {
		stub := fmt.Sprintf("module Main\n\nconst main = () => `hello from %s`\n", name)
		if err := os.WriteFile(entryPath, []byte(stub), 0o644); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", manifestPath)
	return nil
}
