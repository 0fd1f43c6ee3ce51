package modgraph_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fygc/internal/ast"
	"fygc/internal/modgraph"
	"fygc/internal/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestDiscoverRegistersEveryFygFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.fyg", "module Main\n\nconst x = 1\n")
	writeFile(t, dir, "util.fyg", "module Util\n\nconst y = 2\n")

	g := modgraph.New()
	fp := parser.NewFileParser()
	if err := g.Discover(context.Background(), []string{dir}, fp); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(g.Modules()) != 2 {
		t.Fatalf("got %d modules, want 2", len(g.Modules()))
	}
	if _, ok := g.FindByPath(filepath.Join(dir, "main.fyg")); !ok {
		t.Fatal("main.fyg was not registered")
	}
	if refs := g.FindByName("Util"); len(refs) != 1 {
		t.Fatalf("got %d modules named Util, want 1", len(refs))
	}
}

func TestProcessVisitsImportsDepthFirstAndMemoizes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.fyg", "module Main\n\nfrom Util import\n\nconst x = 1\n")
	writeFile(t, dir, "util.fyg", "module Util\n\nconst y = 2\n")

	g := modgraph.New()
	fp := parser.NewFileParser()
	if err := g.Discover(context.Background(), []string{dir}, fp); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	mainIdx, ok := g.FindByPath(filepath.Join(dir, "main.fyg"))
	if !ok {
		t.Fatal("main.fyg not found")
	}

	var order []string
	run := func(mod modgraph.Module) (ast.Program, error) {
		order = append(order, mod.ModuleName)
		return ast.Program{}, nil
	}
	if err := g.Process(mainIdx, run); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(order) != 2 || order[0] != "Util" || order[1] != "Main" {
		t.Fatalf("want [Util Main] processed in dependency order, got %v", order)
	}

	// A second Process call on the same module must be a no-op: the
	// already-processed memoization spec §9 calls for.
	if err := g.Process(mainIdx, run); err != nil {
		t.Fatalf("Process (second call): %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("expected memoized Process to skip re-running, got order %v", order)
	}
}

func TestProcessDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.fyg", "module A\n\nfrom B import\n\nconst x = 1\n")
	writeFile(t, dir, "b.fyg", "module B\n\nfrom A import\n\nconst y = 2\n")

	g := modgraph.New()
	fp := parser.NewFileParser()
	if err := g.Discover(context.Background(), []string{dir}, fp); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	aIdx, _ := g.FindByPath(filepath.Join(dir, "a.fyg"))
	run := func(mod modgraph.Module) (ast.Program, error) {
		return ast.Program{}, nil
	}
	if err := g.Process(aIdx, run); err == nil {
		t.Fatal("expected an import-cycle error")
	}
}
