package buildpipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fygc/internal/buildpipeline"
	"fygc/internal/parser"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCompilesEntryAndItsImport(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "util.fyg", "module Util\n\nconst double = (n: Number) => n * 2\n")
	entry := writeSource(t, dir, "main.fyg", "module Main\n\nfrom Util import\n\nconst run = () => 1\n")

	req := buildpipeline.Request{
		Roots:    []string{dir},
		BuildDir: filepath.Join(dir, "build"),
		Entry:    entry,
		Parser:   parser.NewFileParser(),
	}

	result, err := buildpipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, result.Modules, 2)

	names := map[string]bool{}
	for _, m := range result.Modules {
		names[m.Name] = true
		assert.FileExists(t, m.GoPath)
	}
	assert.True(t, names["Main"])
	assert.True(t, names["Util"])
}

func TestRunCheckOnlySkipsEmission(t *testing.T) {
	dir := t.TempDir()
	entry := writeSource(t, dir, "main.fyg", "module Main\n\nconst run = () => 1\n")

	req := buildpipeline.Request{
		Roots:     []string{dir},
		Entry:     entry,
		Parser:    parser.NewFileParser(),
		CheckOnly: true,
	}

	result, err := buildpipeline.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, result.Modules, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "build", e.Name(), "CheckOnly must not create a build directory")
	}
}

func TestRunSurfacesTypeErrors(t *testing.T) {
	dir := t.TempDir()
	entry := writeSource(t, dir, "main.fyg", "module Main\n\nconst bad = 1 + `a`\n")

	req := buildpipeline.Request{
		Roots:     []string{dir},
		Entry:     entry,
		Parser:    parser.NewFileParser(),
		CheckOnly: true,
	}

	_, err := buildpipeline.Run(context.Background(), req)
	assert.Error(t, err)
}

func TestRunReportsUnknownImport(t *testing.T) {
	dir := t.TempDir()
	entry := writeSource(t, dir, "main.fyg", "module Main\n\nfrom Missing import\n\nconst run = () => 1\n")

	req := buildpipeline.Request{
		Roots:     []string{dir},
		Entry:     entry,
		Parser:    parser.NewFileParser(),
		CheckOnly: true,
	}

	_, err := buildpipeline.Run(context.Background(), req)
	assert.Error(t, err)
}
