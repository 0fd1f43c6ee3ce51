package scope

import (
	"testing"

	"fygc/internal/ast"
)

func ident(name string) ast.TypeIdentifier {
	return ast.TypeIdentifier{Segments: []string{name}}
}

func TestNewTreeContainsInitialScope(t *testing.T) {
	tree := New()
	if tree.Len() != 1 {
		t.Fatalf("expected 1 scope, got %d", tree.Len())
	}
	if tree.get(0).Parent != ast.NoScopeID {
		t.Fatalf("root scope should have no parent")
	}
}

func TestNewChildScopeCreatesAndLinksScopeCorrectly(t *testing.T) {
	tree := New()
	child := tree.NewChildScope(0)
	if child == 0 {
		t.Fatalf("child scope should not be the root index")
	}
	if tree.get(child).Parent != 0 {
		t.Fatalf("child scope parent should be 0, got %d", tree.get(child).Parent)
	}
	root := tree.get(0)
	if len(root.Children) != 1 || root.Children[0] != child {
		t.Fatalf("root should list child in Children, got %v", root.Children)
	}
}

func TestCreateValueSymbolAddsSymbolCorrectly(t *testing.T) {
	tree := New()
	sc := tree.NewProgramScope()
	sym := tree.CreateValueSymbol(sc, "x", ast.NumberType)
	if sym.Name != "x" || !ast.TypeExprEqual(sym.TypeExpr, ast.NumberType) {
		t.Fatalf("unexpected symbol: %+v", sym)
	}
	found, ok := tree.FindValueSymbol(sc, "x")
	if !ok || found.Name != "x" {
		t.Fatalf("expected to find value symbol x")
	}
}

func TestCreateValueSymbolPanicsOnRedeclaration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on redeclaration")
		}
	}()
	tree := New()
	sc := tree.NewProgramScope()
	tree.CreateValueSymbol(sc, "x", ast.NumberType)
	tree.CreateValueSymbol(sc, "x", ast.StringType)
}

func TestFindValueSymbolInCurrentScope(t *testing.T) {
	tree := New()
	sc := tree.NewProgramScope()
	tree.CreateValueSymbol(sc, "x", ast.NumberType)
	if found, ok := tree.FindValueSymbol(sc, "x"); !ok || found.Name != "x" {
		t.Fatalf("expected to find x in its own scope")
	}
	if _, ok := tree.FindValueSymbol(sc, "missing"); ok {
		t.Fatalf("expected missing symbol to not be found")
	}
}

func TestFindValueSymbolSearchesParentScopes(t *testing.T) {
	tree := New()
	parent := tree.NewProgramScope()
	tree.CreateValueSymbol(parent, "x", ast.NumberType)
	child := tree.NewChildScope(parent)
	found, ok := tree.FindValueSymbol(child, "x")
	if !ok || found.Name != "x" {
		t.Fatalf("expected to find x from child scope via parent")
	}
}

func TestFindTypeSymbolInCurrentScope(t *testing.T) {
	tree := New()
	sc := tree.NewProgramScope()
	tree.CreateTypeSymbol(sc, ident("Foo"), ast.NumberType)
	found, ok := tree.FindTypeSymbol(sc, ident("Foo"))
	if !ok || found.Name != "Foo" {
		t.Fatalf("expected to find type symbol Foo")
	}
}

func TestCreateTypeSymbolPanicsOnRedeclaration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on redeclaration")
		}
	}()
	tree := New()
	sc := tree.NewProgramScope()
	tree.CreateTypeSymbol(sc, ident("Foo"), ast.NumberType)
	tree.CreateTypeSymbol(sc, ident("Foo"), ast.StringType)
}

func TestFindTypeSymbolSearchesParentScopes(t *testing.T) {
	tree := New()
	parent := tree.NewProgramScope()
	tree.CreateTypeSymbol(parent, ident("Foo"), ast.NumberType)
	child := tree.NewChildScope(parent)
	found, ok := tree.FindTypeSymbol(child, ident("Foo"))
	if !ok || found.Name != "Foo" {
		t.Fatalf("expected to find Foo from child scope via parent")
	}
}

func TestResolveTypeFollowsTypeRefChain(t *testing.T) {
	tree := New()
	sc := tree.NewProgramScope()
	tree.CreateTypeSymbol(sc, ident("Foo"), ast.StringType)
	tree.CreateTypeSymbol(sc, ident("Baz"), ast.TypeExpr{Kind: ast.TypeRef, RefIdent: ident("Foo")})

	resolved := tree.ResolveType(ast.TypeExpr{Kind: ast.TypeRef, RefIdent: ident("Baz")}, sc)
	if !ast.TypeExprEqual(resolved, ast.StringType) {
		t.Fatalf("expected Baz to resolve to String, got %+v", resolved)
	}
}

func TestResolveTypeOccursCheckStopsCycle(t *testing.T) {
	tree := New()
	sc := tree.NewProgramScope()
	// A => B, B => A: a user-unreachable cycle that only a buggy
	// substitution could produce; the occurs-check must still terminate.
	tree.CreateTypeSymbol(sc, ident("A"), ast.TypeExpr{Kind: ast.TypeRef, RefIdent: ident("B")})
	tree.CreateTypeSymbol(sc, ident("B"), ast.TypeExpr{Kind: ast.TypeRef, RefIdent: ident("A")})

	resolved := tree.ResolveType(ast.TypeExpr{Kind: ast.TypeRef, RefIdent: ident("A")}, sc)
	if resolved.Kind != ast.TypeRef {
		t.Fatalf("expected occurs-check to return a TypeRef unchanged, got %+v", resolved)
	}
}

func TestApplySubstitutionsIsIdempotent(t *testing.T) {
	tree := New()
	sc := tree.NewProgramScope()
	tv := tree.CreateTypeVar(sc)
	tree.CreateValueSymbol(sc, "x", tv)
	tree.UpdateTypeSymbol(sc, *tv.Var, ast.NumberType)

	tree.ApplySubstitutions()
	first, _ := tree.FindValueSymbol(sc, "x")
	if !ast.TypeExprEqual(first.TypeExpr, ast.NumberType) {
		t.Fatalf("expected x resolved to Number, got %+v", first.TypeExpr)
	}

	tree.ApplySubstitutions()
	second, _ := tree.FindValueSymbol(sc, "x")
	if !ast.TypeExprEqual(second.TypeExpr, ast.NumberType) {
		t.Fatalf("second ApplySubstitutions changed a ground type: %+v", second.TypeExpr)
	}
}
