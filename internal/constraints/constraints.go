// Package constraints implements the Constraint Collector (spec §4.3):
// it walks a bound Program and emits equality Constraints, one rule
// per AST form, per the table in spec §4.3. _examples/original_source/
// src/constraints.rs is an early, stubbed-out draft (it references a
// pre-rename `TopLevelExpr` type these ast.rs variants no longer
// match) and is not authoritative here — spec.md's own table is, same
// as SPEC_FULL.md records for the AST shape itself.
package constraints

import (
	"fmt"

	"fygc/internal/ast"
	"fygc/internal/diag"
	"fygc/internal/modgraph"
	"fygc/internal/scope"
)

// ConstraintKind is always Equality per spec §4.3/§4.4 — kept as a
// named type so a second kind can be added without reshaping callers.
type ConstraintKind uint8

const EqualityConstraint ConstraintKind = 0

// Constraint is one equality obligation the Unifier must later
// satisfy.
type Constraint struct {
	LHS        ast.TypeExpr
	RHS        ast.TypeExpr
	Kind       ConstraintKind
	ScopeIndex ast.ScopeID
}

// Collector walks a bound Program, emitting Constraints and recording
// the TypeExpr each sub-expression evaluates to.
type Collector struct {
	Tree        *scope.Tree
	Modules     *modgraph.Graph
	Constraints []Constraint
}

func New(tree *scope.Tree, modules *modgraph.Graph) *Collector {
	return &Collector{Tree: tree, Modules: modules}
}

func (c *Collector) emit(scopeIdx ast.ScopeID, lhs, rhs ast.TypeExpr) {
	c.Constraints = append(c.Constraints, Constraint{LHS: lhs, RHS: rhs, Kind: EqualityConstraint, ScopeIndex: scopeIdx})
}

// CollectProgram walks every top statement in program's own scope and
// returns program unchanged in structure (constraint collection does
// not rewrite the AST, unlike binding).
func (c *Collector) CollectProgram(program ast.Program) (ast.Program, error) {
	for _, stmt := range program.Statements {
		if _, err := c.collectTopStatement(program.Scope, stmt); err != nil {
			return program, err
		}
	}
	return program, nil
}

func (c *Collector) collectTopStatement(scopeIdx ast.ScopeID, stmt ast.TopStatement) (ast.TypeExpr, error) {
	switch stmt.Kind {
	case ast.TopConstDec:
		return c.collectConstDec(scopeIdx, *stmt.ConstDec)
	case ast.TopTypeDec:
		return ast.TypeExpr{}, nil
	case ast.TopEnumDec:
		sym, ok := c.Tree.FindTypeSymbol(scopeIdx, stmt.EnumDec.Ident)
		if !ok {
			return ast.TypeExpr{}, fmt.Errorf("constraints: enum %s not bound", stmt.EnumDec.Ident.Joined())
		}
		return sym.TypeExpr, nil
	case ast.TopExternDec:
		sym, ok := c.Tree.FindValueSymbol(scopeIdx, stmt.ExternDec.Name)
		if !ok {
			return ast.TypeExpr{}, fmt.Errorf("constraints: extern %s not bound", stmt.ExternDec.Name)
		}
		return sym.TypeExpr, nil
	case ast.TopExpr:
		return c.Collect(scopeIdx, stmt.Expr)
	}
	return ast.TypeExpr{}, nil
}

// collectConstDec emits declared-type = collect(value) and returns the
// declared type (spec §4.3 table).
func (c *Collector) collectConstDec(scopeIdx ast.ScopeID, dec ast.ConstDec) (ast.TypeExpr, error) {
	sym, ok := c.Tree.FindValueSymbol(scopeIdx, dec.Ident.Name)
	if !ok {
		return ast.TypeExpr{}, fmt.Errorf("constraints: %s not bound", dec.Ident.Name)
	}
	valueType, err := c.Collect(scopeIdx, dec.Value)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	c.emit(scopeIdx, sym.TypeExpr, valueType)
	return sym.TypeExpr, nil
}

// Collect walks expr, emitting constraints and returning the TypeExpr
// it has in scopeIdx, per the table in spec §4.3.
func (c *Collector) Collect(scopeIdx ast.ScopeID, expr ast.Expr) (ast.TypeExpr, error) {
	switch expr.Kind {
	case ast.ExprNumber:
		return ast.NumberType, nil
	case ast.ExprString:
		return ast.StringType, nil
	case ast.ExprBoolean:
		return ast.BooleanType, nil
	case ast.ExprVoid:
		return ast.VoidType, nil

	case ast.ExprValueRef:
		sym, ok := c.Tree.FindValueSymbol(scopeIdx, expr.ValueRef.String())
		if !ok {
			return ast.TypeExpr{}, fmt.Errorf("constraints: unbound value reference %s", expr.ValueRef)
		}
		return sym.TypeExpr, nil

	case ast.ExprBinary:
		return c.collectBinary(scopeIdx, *expr.Binary)

	case ast.ExprIfElse:
		return c.collectIfElse(scopeIdx, *expr.IfElse)

	case ast.ExprArray:
		return c.collectArray(scopeIdx, *expr.Array)

	case ast.ExprBlock:
		return c.collectBlock(*expr.Block)

	case ast.ExprFunctionDef:
		return c.collectFunctionDef(*expr.FunctionDef)

	case ast.ExprFunctionCall:
		return c.collectFunctionCall(scopeIdx, *expr.FunctionCall)

	case ast.ExprDotCall:
		return c.collectDotCall(scopeIdx, *expr.DotCall)

	case ast.ExprRecord:
		return c.collectRecord(scopeIdx, *expr.Record)

	case ast.ExprMatch:
		return c.collectMatch(scopeIdx, *expr.Match)

	default:
		return ast.TypeExpr{}, fmt.Errorf("constraints: unhandled expression kind %d", expr.Kind)
	}
}

func (c *Collector) collectBinary(scopeIdx ast.ScopeID, b ast.BinaryExpr) (ast.TypeExpr, error) {
	lt, err := c.Collect(scopeIdx, b.Left)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	rt, err := c.Collect(scopeIdx, b.Right)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	c.emit(scopeIdx, lt, rt)

	if b.Op.IsArithmetic() {
		c.emit(scopeIdx, lt, ast.NumberType)
		c.emit(scopeIdx, rt, ast.NumberType)
		return ast.NumberType, nil
	}
	if b.Op.IsRelational() {
		c.emit(scopeIdx, lt, ast.NumberType)
		c.emit(scopeIdx, rt, ast.NumberType)
		return ast.BooleanType, nil
	}
	// equality (==, !=)
	return ast.BooleanType, nil
}

func (c *Collector) collectIfElse(scopeIdx ast.ScopeID, ie ast.IfElseExpr) (ast.TypeExpr, error) {
	condType, err := c.Collect(scopeIdx, ie.Cond)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	c.emit(scopeIdx, condType, ast.BooleanType)

	thenType, err := c.Collect(scopeIdx, ie.Then)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	elseType, err := c.Collect(scopeIdx, ie.Else)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	c.emit(scopeIdx, thenType, elseType)
	return thenType, nil
}

func (c *Collector) collectArray(scopeIdx ast.ScopeID, arr ast.ArrayExpr) (ast.TypeExpr, error) {
	elemType := arr.ElementType
	if isNoAnnotation(elemType) && len(arr.Items) > 0 {
		first, err := c.Collect(scopeIdx, arr.Items[0])
		if err != nil {
			return ast.TypeExpr{}, err
		}
		elemType = first
	}
	for _, item := range arr.Items {
		itemType, err := c.Collect(scopeIdx, item)
		if err != nil {
			return ast.TypeExpr{}, err
		}
		c.emit(scopeIdx, elemType, itemType)
	}
	return elemType, nil
}

// collectBlock walks statements in the block's own scope; each
// non-last Return constrains equal to the last return's type, and the
// block's type is the last return's type, or Void if there was none
// (spec §4.3 table).
func (c *Collector) collectBlock(b ast.BlockExpr) (ast.TypeExpr, error) {
	var returnTypes []ast.TypeExpr
	for _, stmt := range b.Statements {
		switch stmt.Kind {
		case ast.BlockConstDec:
			if _, err := c.collectConstDec(b.Scope, *stmt.ConstDec); err != nil {
				return ast.TypeExpr{}, err
			}
		case ast.BlockReturn:
			rt, err := c.Collect(b.Scope, stmt.Return)
			if err != nil {
				return ast.TypeExpr{}, err
			}
			returnTypes = append(returnTypes, rt)
		case ast.BlockStmtExpr:
			if _, err := c.Collect(b.Scope, stmt.Expr); err != nil {
				return ast.TypeExpr{}, err
			}
		}
	}
	if len(returnTypes) == 0 {
		return ast.VoidType, nil
	}
	last := returnTypes[len(returnTypes)-1]
	for _, rt := range returnTypes[:len(returnTypes)-1] {
		c.emit(b.Scope, last, rt)
	}
	return last, nil
}

// collectFunctionDef collects the body in the function's own scope,
// constrains the function's return type to the body's type, and
// returns the function's FunctionDefinition type, pulled from the
// symbol table the binder installed in the *outer* scope (spec §4.3
// table: "collected in the function scope").
func (c *Collector) collectFunctionDef(fn ast.FunctionDef) (ast.TypeExpr, error) {
	bodyType, err := c.Collect(fn.Scope, fn.Body)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	c.emit(fn.Scope, fn.ReturnType, bodyType)
	name := ""
	if fn.Identifier != nil {
		name = *fn.Identifier
	}
	sym, ok := c.Tree.FindTypeSymbol(fn.Scope, ast.TypeIdentifier{Segments: []string{name}})
	if !ok {
		return ast.TypeExpr{}, fmt.Errorf("constraints: function %s type not bound", name)
	}
	return sym.TypeExpr, nil
}

// collectFunctionCall implements the function-call rule (spec §4.3):
// if the resolved callee type is already a FunctionDefinition or
// FunctionCall, emit a FunctionCall constraint directly; otherwise
// synthesize a FunctionDefinition from the call site's argument types
// and a fresh return variable, retroactively constraining an
// unannotated callee.
func (c *Collector) collectFunctionCall(scopeIdx ast.ScopeID, call ast.FunctionCallExpr) (ast.TypeExpr, error) {
	calleeType, err := c.Collect(scopeIdx, call.Callee)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	resolved := c.Tree.ResolveType(calleeType, scopeIdx)

	argTypes := make([]ast.TypeExpr, len(call.Args))
	for i, a := range call.Args {
		at, err := c.Collect(scopeIdx, a)
		if err != nil {
			return ast.TypeExpr{}, err
		}
		argTypes[i] = at
	}

	freshReturn := c.Tree.CreateTypeVar(scopeIdx)

	if resolved.Kind == ast.TypeFunctionDefinition || resolved.Kind == ast.TypeFunctionCall {
		c.emit(scopeIdx, ast.TypeExpr{
			Kind:       ast.TypeFunctionCall,
			CallArgs:   argTypes,
			CallReturn: &freshReturn,
			CallCallee: &calleeType,
		}, resolved)
		return freshReturn, nil
	}

	var ident *ast.TypeIdentifier
	switch resolved.Kind {
	case ast.TypeRef:
		id := resolved.RefIdent
		ident = &id
	case ast.TypeInferenceRequired:
		ident = resolved.Var
	default:
		return ast.TypeExpr{}, fmt.Errorf("constraints: cannot call a value of type kind %d", resolved.Kind)
	}

	synthesized := ast.TypeExpr{
		Kind:       ast.TypeFunctionDefinition,
		FuncIdent:  ident,
		FuncParams: argTypes,
		FuncReturn: &freshReturn,
	}
	c.emit(scopeIdx, resolved, synthesized)
	return freshReturn, nil
}

// collectDotCall implements the DotCall rule (spec §4.3).
func (c *Collector) collectDotCall(scopeIdx ast.ScopeID, dc ast.DotCallExpr) (ast.TypeExpr, error) {
	targetType, err := c.Collect(scopeIdx, dc.Target)
	if err != nil {
		return ast.TypeExpr{}, err
	}
	resolved := c.Tree.ResolveType(targetType, scopeIdx)

	switch resolved.Kind {
	case ast.TypeExternPackage:
		for _, m := range resolved.ExternMembers {
			if m.LocalName != dc.Identifier.Name {
				continue
			}
			if m.Type.Kind == ast.TypeFunctionDefinition {
				ident := ast.TypeIdentifier{Segments: []string{resolved.ExternName, m.LocalName}}
				return ast.TypeExpr{
					Kind:       ast.TypeFunctionDefinition,
					FuncIdent:  &ident,
					FuncParams: m.Type.FuncParams,
					FuncReturn: m.Type.FuncReturn,
				}, nil
			}
			return m.Type, nil
		}
		return ast.TypeExpr{}, diag.NewError(diag.CollectUnsupportedDot, dc.Identifier.Span,
			fmt.Sprintf("extern package %s has no member %s", resolved.ExternName, dc.Identifier.Name))

	case ast.TypeImportRef:
		if c.Modules == nil {
			return ast.TypeExpr{}, fmt.Errorf("constraints: no module graph to resolve import member %s.%s", resolved.ImportName, dc.Identifier.Name)
		}
		memberType, ok := c.Modules.ResolveImportMemberType(resolved.ImportName, dc.Identifier.Name)
		if !ok {
			return ast.TypeExpr{}, diag.NewError(diag.CollectUnsupportedDot, dc.Identifier.Span,
				fmt.Sprintf("module %s has no exported member %s", resolved.ImportName, dc.Identifier.Name))
		}
		return memberType, nil

	default:
		return ast.TypeExpr{}, diag.NewError(diag.CollectUnsupportedDot, dc.Identifier.Span,
			"unsupported dot target")
	}
}

func (c *Collector) collectRecord(scopeIdx ast.ScopeID, rec ast.RecordExpr) (ast.TypeExpr, error) {
	members := make([]ast.TypeRecordMember, len(rec.Members))
	for i, m := range rec.Members {
		t, err := c.Collect(scopeIdx, m.Value)
		if err != nil {
			return ast.TypeExpr{}, err
		}
		members[i] = ast.TypeRecordMember{Name: m.Name, Type: t}
	}
	return ast.TypeExpr{Kind: ast.TypeRecord, RecordMembers: members}, nil
}

func (c *Collector) collectMatch(scopeIdx ast.ScopeID, m ast.MatchExpr) (ast.TypeExpr, error) {
	if _, err := c.Collect(scopeIdx, m.Subject); err != nil {
		return ast.TypeExpr{}, err
	}
	var last ast.TypeExpr
	for i, clause := range m.Clauses {
		t, err := c.Collect(scopeIdx, clause.Body)
		if err != nil {
			return ast.TypeExpr{}, err
		}
		if i > 0 {
			c.emit(scopeIdx, last, t)
		}
		last = t
	}
	return last, nil
}

func isNoAnnotation(t ast.TypeExpr) bool {
	return t.Kind == ast.TypeInferenceRequired && t.Var == nil
}
