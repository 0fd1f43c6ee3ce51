package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"fygc/internal/buildpipeline"
	"fygc/internal/buildui"
	"fygc/internal/diagfmt"
	"fygc/internal/parser"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile every module reachable from the project's entry point",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("ui", true, "show a live progress view while building")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	manifest, root, err := resolveManifest(cmd)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	useUI, _ := cmd.Flags().GetBool("ui")
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")

	fp := parser.NewFileParser()
	req := buildpipeline.Request{
		Roots:    absolutize(root, manifest.SourceRoots()),
		BuildDir: filepath.Join(root, manifest.BuildDir()),
		Entry:    filepath.Join(root, manifest.Package.Entry),
		Parser:   fp,
	}

	var result buildpipeline.Result
	if !quiet && useUI && diagfmt.IsTerminal(os.Stdout) {
		result, err = runBuildWithUI(cmd.Context(), req, manifest.Package.Name)
	} else {
		result, err = buildpipeline.Run(cmd.Context(), req)
	}
	if err != nil {
		reportError(os.Stderr, err, fp, os.Stderr, colorFlag)
		return fmt.Errorf("build failed")
	}

	receipt := buildpipeline.NewReceipt(result)
	if err := buildpipeline.WriteReceipt(req.BuildDir, receipt); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(os.Stdout, "compiled %d module(s) in %s -> %s\n", len(result.Modules), result.Elapsed.Round(0), req.BuildDir)
	}
	return nil
}

// runBuildWithUI drives buildpipeline.Run on a goroutine, feeding its
// events into a Bubble Tea program — the same shape as the teacher's
// cmd/surge/ui_runner.go (goroutine + channel + tea.Program), scoped
// to buildui.Model instead of Surge's richer multi-file view.
func runBuildWithUI(ctx context.Context, req buildpipeline.Request, title string) (buildpipeline.Result, error) {
	events := make(chan buildpipeline.Event, 64)
	req.Progress = buildpipeline.ChannelSink{Ch: events}

	var result buildpipeline.Result
	var runErr error
	done := make(chan struct{})

	go func() {
		defer close(events)
		defer close(done)
		result, runErr = buildpipeline.Run(ctx, req)
	}()

	program := tea.NewProgram(buildui.New(title, nil, events))
	if _, err := program.Run(); err != nil {
		return result, err
	}
	<-done
	return result, runErr
}

func absolutize(root string, roots []string) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		if filepath.IsAbs(r) {
			out[i] = r
			continue
		}
		out[i] = filepath.Join(root, r)
	}
	return out
}
