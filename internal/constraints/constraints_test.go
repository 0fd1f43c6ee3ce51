package constraints_test

import (
	"testing"

	"fygc/internal/ast"
	"fygc/internal/bind"
	"fygc/internal/constraints"
	"fygc/internal/lexer"
	"fygc/internal/modgraph"
	"fygc/internal/parser"
	"fygc/internal/scope"
	"fygc/internal/source"
)

func bindSource(t *testing.T, src string) (ast.Program, *scope.Tree, *modgraph.Graph) {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	fs := source.NewFileSet()
	id := fs.Add("test.fyg", []byte(src), 0)
	prog, err := parser.New(toks, id).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tree := scope.New()
	graph := modgraph.New()
	bound := bind.New(tree, graph).BindProgram(prog)
	return bound, tree, graph
}

func TestCollectBinaryEmitsArithmeticConstraints(t *testing.T) {
	bound, tree, graph := bindSource(t, "module Main\n\nconst x = 1 + 2\n")
	c := constraints.New(tree, graph)
	if _, err := c.CollectProgram(bound); err != nil {
		t.Fatalf("CollectProgram: %v", err)
	}
	if len(c.Constraints) == 0 {
		t.Fatal("expected at least one constraint from a binary expression")
	}
	for _, cons := range c.Constraints {
		if cons.RHS.Kind != ast.TypeNumber {
			t.Fatalf("expected every constraint to involve Number, got %+v", cons)
		}
	}
}

func TestCollectIfElseEmitsBranchEqualityConstraint(t *testing.T) {
	bound, tree, graph := bindSource(t, "module Main\n\nconst x = if true { return 1 } else { return 2 }\n")
	c := constraints.New(tree, graph)
	if _, err := c.CollectProgram(bound); err != nil {
		t.Fatalf("CollectProgram: %v", err)
	}

	var sawBranchEquality bool
	for _, cons := range c.Constraints {
		if cons.LHS.Kind == ast.TypeNumber && cons.RHS.Kind == ast.TypeNumber {
			sawBranchEquality = true
		}
	}
	if !sawBranchEquality {
		t.Fatalf("expected a Number == Number constraint tying the two branches together, got %+v", c.Constraints)
	}
}

func TestCollectFunctionDefConstrainsParamsAgainstBody(t *testing.T) {
	bound, tree, graph := bindSource(t, "module Main\n\nconst add = (a: Number, b: Number) => a + b\n")
	c := constraints.New(tree, graph)
	if _, err := c.CollectProgram(bound); err != nil {
		t.Fatalf("CollectProgram: %v", err)
	}
	if len(c.Constraints) == 0 {
		t.Fatal("expected constraints from the function body's binary expression")
	}
}

func TestCollectArrayConstrainsElementsAgainstFirst(t *testing.T) {
	bound, tree, graph := bindSource(t, "module Main\n\nconst xs = [1, 2, 3]\n")
	c := constraints.New(tree, graph)
	if _, err := c.CollectProgram(bound); err != nil {
		t.Fatalf("CollectProgram: %v", err)
	}
	// The last constraint ties xs's declared type to the array's type; the
	// three before it are the element constraints.
	if len(c.Constraints) != 4 {
		t.Fatalf("expected 3 element constraints plus the declaration's, got %+v", c.Constraints)
	}
	for _, cons := range c.Constraints[:len(c.Constraints)-1] {
		if cons.LHS.Kind != ast.TypeNumber || cons.RHS.Kind != ast.TypeNumber {
			t.Fatalf("expected every array-element constraint to be Number == Number, got %+v", cons)
		}
	}
}
