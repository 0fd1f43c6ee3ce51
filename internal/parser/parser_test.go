package parser

import (
	"testing"

	"fygc/internal/ast"
	"fygc/internal/lexer"
	"fygc/internal/source"
)

func parseProgram(t *testing.T, src string) ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	fs := source.NewFileSet()
	id := fs.Add("test.fyg", []byte(src), 0)
	p := New(toks, id)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestModuleNameSingle(t *testing.T) {
	prog := parseProgram(t, "module Main\n")
	if len(prog.ModuleName) != 1 || prog.ModuleName[0] != "Main" {
		t.Fatalf("got %v", prog.ModuleName)
	}
}

func TestMultipartModuleName(t *testing.T) {
	prog := parseProgram(t, "module Browser.Dom\n")
	want := []string{"Browser", "Dom"}
	if len(prog.ModuleName) != len(want) {
		t.Fatalf("got %v, want %v", prog.ModuleName, want)
	}
	for i := range want {
		if prog.ModuleName[i] != want[i] {
			t.Fatalf("got %v, want %v", prog.ModuleName, want)
		}
	}
}

func TestExportingClause(t *testing.T) {
	prog := parseProgram(t, "module Main exporting (foo, Bar)\n")
	if len(prog.Exports) != 2 {
		t.Fatalf("got %d exports, want 2: %+v", len(prog.Exports), prog.Exports)
	}
}

func TestImportBare(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nfrom Browser.Dom import\n")
	if len(prog.Imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(prog.Imports))
	}
	im := prog.Imports[0]
	if len(im.PackageName) != 2 || im.PackageName[1] != "Dom" {
		t.Fatalf("got %+v", im)
	}
}

func TestImportExpose(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nfrom Browser.Dom expose (fetch, header)\n")
	if len(prog.Imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(prog.Imports))
	}
	im := prog.Imports[0]
	if len(im.PackageName) != 2 || im.PackageName[1] != "Dom" {
		t.Fatalf("got %+v", im)
	}
}

func TestImportWithAlias(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nfrom Browser.Dom as Dom import\n")
	if prog.Imports[0].Alias == nil || *prog.Imports[0].Alias != "Dom" {
		t.Fatalf("got %+v", prog.Imports[0])
	}
}

func TestConstDecNumber(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = 42\n")
	stmt := prog.Statements[0]
	if stmt.Kind != ast.TopConstDec {
		t.Fatalf("got kind %v", stmt.Kind)
	}
	if stmt.ConstDec.Ident.Name != "x" {
		t.Fatalf("got %+v", stmt.ConstDec.Ident)
	}
	if stmt.ConstDec.Value.Kind != ast.ExprNumber || stmt.ConstDec.Value.Text != "42" {
		t.Fatalf("got %+v", stmt.ConstDec.Value)
	}
}

func TestConstDecFunctionGetsSyntheticIdentifier(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst add = (a, b) => a + b\n")
	fn := prog.Statements[0].ConstDec.Value
	if fn.Kind != ast.ExprFunctionDef {
		t.Fatalf("got kind %v", fn.Kind)
	}
	if fn.FunctionDef.Identifier == nil || *fn.FunctionDef.Identifier != "add" {
		t.Fatalf("got identifier %v", fn.FunctionDef.Identifier)
	}
	body := fn.FunctionDef.Body
	if body.Kind != ast.ExprBlock || len(body.Block.Statements) != 1 {
		t.Fatalf("want implicit one-statement block, got %+v", body)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = 1 + 2 * 3\n")
	top := prog.Statements[0].ConstDec.Value
	if top.Kind != ast.ExprBinary || top.Binary.Op != ast.OpAdd {
		t.Fatalf("want top-level Add, got %+v", top)
	}
	right := top.Binary.Right
	if right.Kind != ast.ExprBinary || right.Binary.Op != ast.OpMul {
		t.Fatalf("want right operand Mul, got %+v", right)
	}
}

func TestUnaryMinusDesugarsToSubtraction(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = -5\n")
	top := prog.Statements[0].ConstDec.Value
	if top.Kind != ast.ExprBinary || top.Binary.Op != ast.OpSub {
		t.Fatalf("got %+v", top)
	}
	if top.Binary.Left.Kind != ast.ExprNumber || top.Binary.Left.Text != "0" {
		t.Fatalf("want 0 - 5, got left %+v", top.Binary.Left)
	}
}

func TestIfElseExpr(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = if true { 1 } else { 2 }\n")
	top := prog.Statements[0].ConstDec.Value
	if top.Kind != ast.ExprIfElse {
		t.Fatalf("got kind %v", top.Kind)
	}
}

func TestMatchExpr(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = match n {\n  0 => 1,\n  _ => 2,\n}\n")
	top := prog.Statements[0].ConstDec.Value
	if top.Kind != ast.ExprMatch {
		t.Fatalf("got kind %v", top.Kind)
	}
	if len(top.Match.Clauses) != 2 {
		t.Fatalf("got %d clauses", len(top.Match.Clauses))
	}
	if top.Match.Clauses[1].Pattern.Kind != ast.PatternWildcard {
		t.Fatalf("want wildcard pattern, got %+v", top.Match.Clauses[1].Pattern)
	}
}

func TestRecordExpr(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = Point { x = 1, y = 2 }\n")
	top := prog.Statements[0].ConstDec.Value
	if top.Kind != ast.ExprRecord {
		t.Fatalf("got kind %v", top.Kind)
	}
	if top.Record.TypeIdent == nil || top.Record.TypeIdent.Joined() != "Point" {
		t.Fatalf("got %+v", top.Record.TypeIdent)
	}
	if len(top.Record.Members) != 2 {
		t.Fatalf("got %d members", len(top.Record.Members))
	}
}

func TestArrayExpr(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = [1, 2, 3]\n")
	top := prog.Statements[0].ConstDec.Value
	if top.Kind != ast.ExprArray || len(top.Array.Items) != 3 {
		t.Fatalf("got %+v", top)
	}
}

func TestFunctionCallAndDotCallChain(t *testing.T) {
	prog := parseProgram(t, "module Main\n\nconst x = foo(1).bar(2)\n")
	top := prog.Statements[0].ConstDec.Value
	if top.Kind != ast.ExprFunctionCall {
		t.Fatalf("got kind %v", top.Kind)
	}
	if top.FunctionCall.Callee.Kind != ast.ExprDotCall {
		t.Fatalf("want dot-call callee, got %+v", top.FunctionCall.Callee)
	}
}

func TestJumboSyntaxParses(t *testing.T) {
	src := `module Main exporting (run)

from Browser.Dom expose (fetch)

const greeting = ` + "`hi`" + `

type Point = { x: Number, y: Number }

enum Shape {
  Circle(radius: Number),
  Square(side: Number),
}

const area = (s) => match s {
  Shape.Circle(r) => r,
  Shape.Square(side) => side,
}

const run = () => {
  const p = Point { x = 1, y = 2 }
  if p.x == 1 {
    area(Shape.Circle(2))
  } else {
    0
  }
}
`
	prog := parseProgram(t, src)
	if len(prog.Statements) == 0 {
		t.Fatal("expected top-level statements")
	}
}
