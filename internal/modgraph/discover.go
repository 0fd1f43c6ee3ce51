package modgraph

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"fygc/internal/ast"
)

// HeaderParser is the eager, cheap header-only pass spec §4.5 calls
// for: obtain a module's dotted name and import list without parsing
// its full body. Implemented by parser.FileParser.
type HeaderParser interface {
	ParseHeader(path string) (moduleName []string, exports []ast.MixedIdentifier, imports []ast.Import, err error)
}

// Discover walks each root in roots for *.fyg files and registers a
// Module for each, using parser.ParseHeader to obtain its name/imports
// eagerly (full body parsing is deferred to Process). The directory
// walk is sequential; header parsing proceeds across files concurrently — this is the
// one place spec §5 permits parallelism, since it is pure I/O with no
// shared ScopeTree/constraint state; the per-module pipeline itself
// stays strictly depth-first.
func (g *Graph) Discover(ctx context.Context, roots []string, parser HeaderParser) error {
	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".fyg") {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if len(files) == 0 {
		return nil
	}

	modules := make([]Module, len(files))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		i, path := i, path
		grp.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			moduleName, exports, imports, err := parser.ParseHeader(path)
			if err != nil {
				return err
			}
			modules[i] = Module{
				Path:       path,
				ModuleName: strings.Join(moduleName, "."),
				Exports:    exports,
				Imports:    imports,
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	for _, m := range modules {
		g.AddModule(m)
	}
	return nil
}
