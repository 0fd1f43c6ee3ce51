package unify

import (
	"errors"
	"testing"

	"fygc/internal/ast"
	"fygc/internal/constraints"
	"fygc/internal/scope"
)

func TestRunSolvesGroundEquality(t *testing.T) {
	tree := scope.New()
	cs := []constraints.Constraint{
		{LHS: ast.NumberType, RHS: ast.NumberType, ScopeIndex: 0},
	}
	if err := Run(cs, tree); err != nil {
		t.Fatalf("expected Number == Number to unify, got: %v", err)
	}
}

func TestRunRejectsGroundMismatch(t *testing.T) {
	tree := scope.New()
	cs := []constraints.Constraint{
		{LHS: ast.NumberType, RHS: ast.StringType, ScopeIndex: 0},
	}
	err := Run(cs, tree)
	if err == nil {
		t.Fatal("expected Number == String to fail to unify")
	}
	var uerr *Error
	if !errors.As(err, &uerr) {
		t.Fatalf("expected a *unify.Error, got %T: %v", err, err)
	}
}

func TestRunSolvesTypeVariableAgainstGround(t *testing.T) {
	tree := scope.New()
	tv := tree.CreateTypeVar(0)

	cs := []constraints.Constraint{
		{LHS: tv, RHS: ast.NumberType, ScopeIndex: 0},
	}
	if err := Run(cs, tree); err != nil {
		t.Fatalf("expected type variable to solve against Number: %v", err)
	}
	resolved := tree.ResolveType(tv, 0)
	if resolved.Kind != ast.TypeNumber {
		t.Fatalf("expected variable to resolve to Number, got %+v", resolved)
	}
}

func TestRunDetectsOccursCheckCycle(t *testing.T) {
	tree := scope.New()
	tv := tree.CreateTypeVar(0)

	selfReferential := ast.TypeExpr{
		Kind:       ast.TypeFunctionDefinition,
		FuncIdent:  &ast.TypeIdentifier{Segments: []string{"f"}},
		FuncParams: nil,
		FuncReturn: &tv,
	}
	cs := []constraints.Constraint{
		{LHS: tv, RHS: selfReferential, ScopeIndex: 0},
	}
	if err := Run(cs, tree); err == nil {
		t.Fatal("expected an occurs-check error for a self-referential substitution")
	}
}

func TestRunRejectsFunctionArityMismatch(t *testing.T) {
	tree := scope.New()
	ret := ast.NumberType
	left := ast.TypeExpr{Kind: ast.TypeFunctionDefinition, FuncParams: []ast.TypeExpr{ast.NumberType}, FuncReturn: &ret}
	right := ast.TypeExpr{Kind: ast.TypeFunctionDefinition, FuncParams: []ast.TypeExpr{ast.NumberType, ast.NumberType}, FuncReturn: &ret}

	cs := []constraints.Constraint{{LHS: left, RHS: right, ScopeIndex: 0}}
	if err := Run(cs, tree); err == nil {
		t.Fatal("expected a function arity-mismatch error")
	}
}
