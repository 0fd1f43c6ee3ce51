package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fygc/internal/ast"
	"fygc/internal/bind"
	"fygc/internal/constraints"
	"fygc/internal/emit"
	"fygc/internal/modgraph"
	"fygc/internal/scope"
	"fygc/internal/unify"
)

// ModuleParser is the external collaborator spec.md §1 calls out as
// out of scope for the core (the lexer and grammar parser): it turns
// source text into the header modgraph.Discover needs eagerly, and —
// once a module is actually reached during Process — the full
// ast.Program.
type ModuleParser interface {
	modgraph.HeaderParser
	ParseBody(path string) (ast.Program, error)
}

// Request configures one build.
type Request struct {
	Roots    []string
	BuildDir string
	Entry    string // path to the entry module's .fyg file
	Parser   ModuleParser
	Progress ProgressSink

	// CheckOnly runs bind/collect/unify but skips emission and the
	// build directory entirely — `fygc check`'s mode (the teacher's
	// diagCmd/parseCmd equivalent: surface type errors with nothing
	// written to disk).
	CheckOnly bool
}

// ModuleResult summarizes one compiled module for the build receipt.
type ModuleResult struct {
	Name    string
	Path    string
	GoPath  string
	Content [32]byte
}

// Result summarizes a completed build.
type Result struct {
	BuildDir string
	Modules  []ModuleResult
	Elapsed  time.Duration
}

// Run discovers every module under req.Roots, locates req.Entry,
// recursively processes its import graph depth-first (modgraph.Process),
// and for each module runs bind -> collect -> unify -> emit, writing
// the emitted Go source under req.BuildDir. Mirrors compiler.rs's
// Compiler::compile/process_module: one shared scope.Tree across the
// whole build (ported from the Rust source's single self.scope_tree),
// a fresh constraints.Collector per module (ported from process_module
// constructing a new ConstraintCollector each call), and the literal
// `module fygbuild` go.mod text compiler.rs writes verbatim.
func Run(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	var result Result

	buildDir := req.BuildDir
	if buildDir == "" {
		buildDir = "./build"
	}
	result.BuildDir = buildDir

	if !req.CheckOnly {
		if err := os.RemoveAll(buildDir); err != nil {
			return result, fmt.Errorf("buildpipeline: clearing build dir: %w", err)
		}
		if err := os.MkdirAll(buildDir, 0o755); err != nil {
			return result, fmt.Errorf("buildpipeline: creating build dir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(buildDir, "go.mod"), []byte("module fygbuild"), 0o644); err != nil {
			return result, fmt.Errorf("buildpipeline: writing build/go.mod: %w", err)
		}
	}

	graph := modgraph.New()
	if err := graph.Discover(ctx, req.Roots, req.Parser); err != nil {
		return result, fmt.Errorf("buildpipeline: discovering modules: %w", err)
	}

	entryIdx, ok := graph.FindByPath(req.Entry)
	if !ok {
		header, exports, imports, err := req.Parser.ParseHeader(req.Entry)
		if err != nil {
			return result, fmt.Errorf("buildpipeline: parsing entry module header: %w", err)
		}
		entryIdx = graph.AddModule(modgraph.Module{
			Path:       req.Entry,
			ModuleName: strings.Join(header, "."),
			Exports:    exports,
			Imports:    imports,
		})
	}

	tree := scope.New()
	binder := bind.New(tree, graph)

	var results []ModuleResult
	run := func(mod modgraph.Module) (ast.Program, error) {
		modStart := time.Now()
		emitEvent(req.Progress, mod.ModuleName, StageBind, StatusWorking, nil, 0)

		raw, err := req.Parser.ParseBody(mod.Path)
		if err != nil {
			return ast.Program{}, fmt.Errorf("buildpipeline: parsing %s: %w", mod.Path, err)
		}
		raw.ModuleName = strings.Split(mod.ModuleName, ".")
		raw.Exports = mod.Exports
		raw.Imports = mod.Imports

		bound := binder.BindProgram(raw)
		emitEvent(req.Progress, mod.ModuleName, StageBind, StatusDone, nil, time.Since(modStart))

		emitEvent(req.Progress, mod.ModuleName, StageConstrain, StatusWorking, nil, 0)
		collector := constraints.New(tree, graph)
		collected, err := collector.CollectProgram(bound)
		if err != nil {
			emitEvent(req.Progress, mod.ModuleName, StageConstrain, StatusError, err, time.Since(modStart))
			return ast.Program{}, fmt.Errorf("buildpipeline: collecting constraints for %s: %w", mod.ModuleName, err)
		}
		emitEvent(req.Progress, mod.ModuleName, StageConstrain, StatusDone, nil, time.Since(modStart))

		emitEvent(req.Progress, mod.ModuleName, StageUnify, StatusWorking, nil, 0)
		if err := unify.Run(collector.Constraints, tree); err != nil {
			emitEvent(req.Progress, mod.ModuleName, StageUnify, StatusError, err, time.Since(modStart))
			return ast.Program{}, fmt.Errorf("buildpipeline: unifying %s: %w", mod.ModuleName, err)
		}
		emitEvent(req.Progress, mod.ModuleName, StageUnify, StatusDone, nil, time.Since(modStart))

		if req.CheckOnly {
			return collected, nil
		}

		emitEvent(req.Progress, mod.ModuleName, StageEmit, StatusWorking, nil, 0)
		gen := emit.New(&collected, tree)
		goCode, err := gen.GenerateGo()
		if err != nil {
			emitEvent(req.Progress, mod.ModuleName, StageEmit, StatusError, err, time.Since(modStart))
			return ast.Program{}, fmt.Errorf("buildpipeline: emitting %s: %w", mod.ModuleName, err)
		}

		goPath := filepath.Join(buildDir, strings.ReplaceAll(strings.ToLower(mod.ModuleName), ".", string(filepath.Separator))+".go")
		if err := os.MkdirAll(filepath.Dir(goPath), 0o755); err != nil {
			return ast.Program{}, fmt.Errorf("buildpipeline: creating output dir for %s: %w", mod.ModuleName, err)
		}
		if err := os.WriteFile(goPath, []byte(goCode), 0o644); err != nil {
			return ast.Program{}, fmt.Errorf("buildpipeline: writing %s: %w", goPath, err)
		}
		emitEvent(req.Progress, mod.ModuleName, StageEmit, StatusDone, nil, time.Since(modStart))

		results = append(results, ModuleResult{
			Name:    mod.ModuleName,
			Path:    mod.Path,
			GoPath:  goPath,
			Content: contentHash(goCode),
		})
		return collected, nil
	}

	if err := graph.Process(entryIdx, run); err != nil {
		return result, err
	}

	result.Modules = results
	result.Elapsed = time.Since(start)
	return result, nil
}
