// Package unify implements the Unifier (spec §4.4): it drains a FIFO
// constraint queue, resolving both sides of each Constraint and
// applying the rules below, then calls scope.Tree.ApplySubstitutions.
// Ported directly from _examples/original_source/src/analyze.rs's
// unify/analyze_scope_tree, with the occurs-check spec §4.4's
// Termination note calls for added to the InferenceRequired rule (the
// Rust source performs none, and says so).
package unify

import (
	"fmt"

	"fygc/internal/ast"
	"fygc/internal/constraints"
	"fygc/internal/diag"
	"fygc/internal/scope"
	"fygc/internal/source"
)

// Error reports a unify failure with both resolved sides attached, the
// same shape as the Rust source's AnalyzeError.
type Error struct {
	Diagnostic diag.Diagnostic
	LHS, RHS   ast.TypeExpr
}

func (e *Error) Error() string { return e.Diagnostic.Error() }

// Run drains constraints in order and, once every one has unified
// successfully, applies the resulting substitutions to tree.
func Run(cs []constraints.Constraint, tree *scope.Tree) error {
	for _, c := range cs {
		if err := unify(c, tree); err != nil {
			return err
		}
	}
	tree.ApplySubstitutions()
	return nil
}

func unify(c constraints.Constraint, tree *scope.Tree) error {
	left := tree.ResolveType(c.LHS, c.ScopeIndex)
	right := tree.ResolveType(c.RHS, c.ScopeIndex)

	switch {
	case left.Kind == ast.TypeNumber && right.Kind == ast.TypeNumber,
		left.Kind == ast.TypeString && right.Kind == ast.TypeString,
		left.Kind == ast.TypeBoolean && right.Kind == ast.TypeBoolean,
		left.Kind == ast.TypeVoid && right.Kind == ast.TypeVoid:
		return nil

	case left.Kind == ast.TypeInferenceRequired && left.Var != nil:
		if occursIn(*left.Var, right) {
			return mismatch(diag.UnifyOccursCheck, "type variable occurs within its own solution", left, right)
		}
		tree.UpdateTypeSymbol(c.ScopeIndex, *left.Var, right)
		return nil

	case right.Kind == ast.TypeInferenceRequired && right.Var != nil:
		// inverse of the rule above: swap sides and recurse.
		return unify(constraints.Constraint{LHS: c.RHS, RHS: c.LHS, Kind: c.Kind, ScopeIndex: c.ScopeIndex}, tree)

	case left.Kind == ast.TypeFunctionDefinition && right.Kind == ast.TypeFunctionDefinition:
		if len(left.FuncParams) != len(right.FuncParams) {
			return mismatch(diag.UnifyArityMismatch, "param counts don't match", left, right)
		}
		for i := range left.FuncParams {
			if err := unify(constraints.Constraint{LHS: left.FuncParams[i], RHS: right.FuncParams[i], ScopeIndex: c.ScopeIndex}, tree); err != nil {
				return err
			}
		}
		return unify(constraints.Constraint{LHS: *left.FuncReturn, RHS: *right.FuncReturn, ScopeIndex: c.ScopeIndex}, tree)

	case left.Kind == ast.TypeFunctionCall && right.Kind == ast.TypeFunctionDefinition:
		if len(left.CallArgs) != len(right.FuncParams) {
			return mismatch(diag.UnifyArityMismatch, "wrong number of args provided", left, right)
		}
		for i := range left.CallArgs {
			if err := unify(constraints.Constraint{LHS: left.CallArgs[i], RHS: right.FuncParams[i], ScopeIndex: c.ScopeIndex}, tree); err != nil {
				return err
			}
		}
		return unify(constraints.Constraint{LHS: *left.CallReturn, RHS: *right.FuncReturn, ScopeIndex: c.ScopeIndex}, tree)

	default:
		return mismatch(diag.UnifyTypeMismatch, "types don't match", left, right)
	}
}

// occursIn reports whether var appears, transitively, inside t — the
// occurs-check spec §4.4 says the source never performs. Without it, a
// constraint like `t0 = FunctionDefinition{..., return: t0}` would
// install a self-referential substitution that ResolveType's own
// occurs-check later has to paper over; catching it here surfaces a
// real diagnostic instead.
func occursIn(v ast.TypeIdentifier, t ast.TypeExpr) bool {
	switch t.Kind {
	case ast.TypeInferenceRequired:
		return t.Var != nil && t.Var.Joined() == v.Joined()
	case ast.TypeRef:
		return t.RefIdent.Joined() == v.Joined()
	case ast.TypeFunctionDefinition:
		for _, p := range t.FuncParams {
			if occursIn(v, p) {
				return true
			}
		}
		return t.FuncReturn != nil && occursIn(v, *t.FuncReturn)
	case ast.TypeFunctionCall:
		for _, a := range t.CallArgs {
			if occursIn(v, a) {
				return true
			}
		}
		return t.CallReturn != nil && occursIn(v, *t.CallReturn)
	case ast.TypeRecord:
		for _, m := range t.RecordMembers {
			if occursIn(v, m.Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func mismatch(code diag.Code, msg string, lhs, rhs ast.TypeExpr) error {
	return &Error{
		Diagnostic: diag.NewError(code, source.Span{}, fmt.Sprintf("%s (lhs kind %d, rhs kind %d)", msg, lhs.Kind, rhs.Kind)),
		LHS:        lhs,
		RHS:        rhs,
	}
}
