package bind

import (
	"testing"

	"fygc/internal/ast"
	"fygc/internal/constraints"
	"fygc/internal/lexer"
	"fygc/internal/modgraph"
	"fygc/internal/parser"
	"fygc/internal/scope"
	"fygc/internal/source"
	"fygc/internal/unify"
)

// parseModule lexes and parses src as a standalone module with no
// imports, the same front-end path buildpipeline.Run drives per
// module.
func parseModule(t *testing.T, src string) ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	fs := source.NewFileSet()
	id := fs.Add("test.fyg", []byte(src), 0)
	prog, err := parser.New(toks, id).Parse()
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestBindProgramAssignsScopes(t *testing.T) {
	prog := parseModule(t, "module Main\n\nconst x = 42\n")
	tree := scope.New()
	b := New(tree, modgraph.New())

	bound := b.BindProgram(prog)
	if bound.Scope == ast.NoScopeID {
		t.Fatal("program scope was not assigned")
	}
	if _, ok := tree.FindValueSymbol(bound.Scope, "x"); !ok {
		t.Fatal("expected x to be installed as a value symbol")
	}
}

func TestBindProgramInstallsFunctionParams(t *testing.T) {
	prog := parseModule(t, "module Main\n\nconst add = (a, b) => a + b\n")
	tree := scope.New()
	b := New(tree, modgraph.New())

	bound := b.BindProgram(prog)
	fn := bound.Statements[0].ConstDec.Value
	if fn.FunctionDef.Scope == ast.NoScopeID {
		t.Fatal("function literal's own scope was not assigned")
	}
	if _, ok := tree.FindValueSymbol(fn.FunctionDef.Scope, "a"); !ok {
		t.Fatal("expected parameter a to be installed in the function's scope")
	}
}

// runPipeline is the front-end sequence buildpipeline.Run drives per
// module: bind, collect constraints, unify.
func runPipeline(t *testing.T, src string) error {
	t.Helper()
	prog := parseModule(t, src)
	tree := scope.New()
	graph := modgraph.New()

	bound := New(tree, graph).BindProgram(prog)

	collector := constraints.New(tree, graph)
	collected, err := collector.CollectProgram(bound)
	if err != nil {
		return err
	}
	_ = collected
	return unify.Run(collector.Constraints, tree)
}

func TestPipelineAcceptsWellTypedProgram(t *testing.T) {
	if err := runPipeline(t, "module Main\n\nconst add = (a: Number, b: Number) => a + b\n"); err != nil {
		t.Fatalf("expected a well-typed program to pass, got: %v", err)
	}
}

func TestPipelineRejectsMismatchedIfBranches(t *testing.T) {
	err := runPipeline(t, "module Main\n\nconst x = if true { return 1 } else { return `oops` }\n")
	if err == nil {
		t.Fatal("expected a type error for mismatched if/else branches")
	}
}

func TestPipelineRejectsArithmeticOnString(t *testing.T) {
	err := runPipeline(t, "module Main\n\nconst x = 1 + `a`\n")
	if err == nil {
		t.Fatal("expected a type error for Number + String")
	}
}
