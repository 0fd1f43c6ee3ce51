// Package modgraph implements the Module Graph (spec §4.5): discovery
// of source files under configured roots, a dotted-name and a path
// index over them, and depth-first, memoized processing of import
// edges. Grounded directly on
// _examples/original_source/src/compiler.rs's ModuleMap/Module/
// Compiler.process_module, with the two fixes spec §9 calls out:
// processed-module memoization and import-cycle detection.
package modgraph

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fygc/internal/ast"
)

// Module is one discovered source file: its path, its dotted module
// name (from an eager header parse), its export list, and — once
// processed — its bound, collected, and unified Program.
type Module struct {
	Path       string
	ModuleName string
	Exports    []ast.MixedIdentifier
	Imports    []ast.Import
	Program    *ast.Program // nil until this module's pipeline completes
}

// Graph is the Module Graph: the discovered module list plus its two
// indices, shared between the build orchestrator and the binder (via
// FindByName) under a single RWMutex — spec §5's "conceptually shared
// state" and SPEC_FULL.md §3's Arc<RwLock<ModuleMap>> port.
type Graph struct {
	mu          sync.RWMutex
	modules     []Module
	byName      map[string][]ast.ModuleRef
	byPath      map[string]ast.ModuleRef
	processed   map[ast.ModuleRef]bool
	inProgress  map[ast.ModuleRef]bool
}

func New() *Graph {
	return &Graph{
		byName:     make(map[string][]ast.ModuleRef),
		byPath:     make(map[string]ast.ModuleRef),
		processed:  make(map[ast.ModuleRef]bool),
		inProgress: make(map[ast.ModuleRef]bool),
	}
}

// AddModule registers a discovered module and returns its index.
func (g *Graph) AddModule(m Module) ast.ModuleRef {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := ast.ModuleRef(len(g.modules))
	g.modules = append(g.modules, m)
	g.byName[m.ModuleName] = append(g.byName[m.ModuleName], idx)
	g.byPath[normalizePath(m.Path)] = idx
	return idx
}

// FindByPath returns the module index registered at path, if any.
func (g *Graph) FindByPath(path string) (ast.ModuleRef, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx, ok := g.byPath[normalizePath(path)]
	return idx, ok
}

// FindByName returns every module index declared under the given
// dotted name (spec §4.5: "the same module name may be declared across
// multiple files").
func (g *Graph) FindByName(name string) []ast.ModuleRef {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]ast.ModuleRef(nil), g.byName[name]...)
}

// Get returns a copy of the module at idx.
func (g *Graph) Get(idx ast.ModuleRef) Module {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.modules[idx]
}

// SetProgram finalizes a module's bound/collected/unified Program —
// the one mutation import resolution ever observes concurrently (spec
// §5).
func (g *Graph) SetProgram(idx ast.ModuleRef, prog ast.Program) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modules[idx].Program = &prog
}

// ResolveImportMemberType looks up a public symbol named memberName
// across every module declared under moduleName, mirroring
// scope.rs's resolve_import_member_type (spec §4.3 DotCall rule,
// ImportRef branch).
func (g *Graph) ResolveImportMemberType(moduleName, memberName string) (ast.TypeExpr, bool) {
	g.mu.RLock()
	candidates := append([]ast.ModuleRef(nil), g.byName[moduleName]...)
	g.mu.RUnlock()

	for _, idx := range candidates {
		mod := g.Get(idx)
		if mod.Program == nil {
			continue
		}
		for _, exported := range mod.Program.Exports {
			if exported.String() != memberName {
				continue
			}
			for _, stmt := range mod.Program.Statements {
				if stmt.Kind == ast.TopConstDec && stmt.ConstDec.Ident.Name == memberName {
					return stmt.ConstDec.Annotation, true
				}
			}
		}
	}
	return ast.TypeExpr{}, false
}

// Process recursively processes idx's import edges depth-first, then
// invokes run on idx itself (spec §4.5). A module already processed is
// never re-entered (the memoization the Rust source lacks); a module
// currently being processed that recurs through its own import graph
// is an import cycle, reported via the returned error rather than
// recursing forever (spec §9 Open Question 2).
func (g *Graph) Process(idx ast.ModuleRef, run func(Module) (ast.Program, error)) error {
	g.mu.Lock()
	if g.processed[idx] {
		g.mu.Unlock()
		return nil
	}
	if g.inProgress[idx] {
		g.mu.Unlock()
		return fmt.Errorf("modgraph: import cycle detected at module %d", idx)
	}
	g.inProgress[idx] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inProgress, idx)
		g.mu.Unlock()
	}()

	mod := g.Get(idx)
	for _, imp := range mod.Imports {
		joined := strings.Join(imp.PackageName, ".")
		candidates := g.FindByName(joined)
		if len(candidates) == 0 {
			return fmt.Errorf("modgraph: no module found named %s", joined)
		}
		for _, dep := range candidates {
			if err := g.Process(dep, run); err != nil {
				return err
			}
		}
	}

	prog, err := run(mod)
	if err != nil {
		return err
	}
	g.SetProgram(idx, prog)

	g.mu.Lock()
	g.processed[idx] = true
	g.mu.Unlock()
	return nil
}

// Modules returns a snapshot of every discovered module, sorted by
// path for deterministic iteration (build summaries, tests).
func (g *Graph) Modules() []Module {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := append([]Module(nil), g.modules...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
