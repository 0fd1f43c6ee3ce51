// Package emit implements the Emitter (spec §4.6): it produces Go
// source from an elaborated Program and its scope.Tree. Ported
// directly from _examples/original_source/src/codegen.rs's
// CodeGenerator, generalized per SPEC_FULL.md §3 ("Go-keyword
// identifier sanitization"): the Rust source special-cases exactly
// two names; this emitter targets Go, so it sanitizes the full Go
// keyword set plus the two names the Rust source already covers.
package emit

import (
	"fmt"
	"strings"

	"fygc/internal/ast"
	"fygc/internal/scope"
)

// goKeywords collides with a Go reserved word or the two names the
// Rust source's table already covered (the table was incomplete by
// omission, not by design — spec §4.6 just says "a small fixed list").
var goKeywords = map[string]bool{
	"double": true, "bool": true,
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// Generator lowers one Program to Go source.
type Generator struct {
	Program *Program
	Tree    *scope.Tree

	packageName string
	imports     []string
	importMap   map[string]string
	topLevel    []string
	mainStmts   []string
}

// Program is an alias kept for readability at call sites; Program.Scope
// must already be bound (NoScopeID otherwise, per ast.Program's doc).
type Program = ast.Program

func New(program *Program, tree *scope.Tree) *Generator {
	return &Generator{
		Program:     program,
		Tree:        tree,
		packageName: strings.ToLower(strings.Join(program.ModuleName, "")),
		importMap:   make(map[string]string),
	}
}

// GenerateGo produces the full Go source file for this module (spec
// §4.6).
func (g *Generator) GenerateGo() (string, error) {
	if g.Program.Scope == ast.NoScopeID {
		return "", fmt.Errorf("emit: program has not been bound")
	}
	progScope := g.Program.Scope

	for _, imp := range g.Program.Imports {
		lastSeg := imp.PackageName[len(imp.PackageName)-1]
		pkgPath := append([]string{"fygbuild"}, imp.PackageName...)
		goPkgName := strings.ToLower(strings.Join(pkgPath, "/"))
		if _, exists := g.importMap[lastSeg]; exists {
			return "", fmt.Errorf("emit: %s is already added to the go package import map", lastSeg)
		}
		g.importMap[lastSeg] = strings.ToLower(pkgPath[len(pkgPath)-1])
		g.imports = append(g.imports, goPkgName)
	}

	for _, stmt := range g.Program.Statements {
		switch stmt.Kind {
		case ast.TopConstDec:
			rendered, err := g.generateConstDec(*stmt.ConstDec, progScope)
			if err != nil {
				return "", err
			}
			g.topLevel = append(g.topLevel, rendered)
		case ast.TopExpr:
			rendered, err := g.generateExpr(stmt.Expr, progScope)
			if err != nil {
				return "", err
			}
			g.mainStmts = append(g.mainStmts, rendered)
		case ast.TopExternDec:
			g.imports = append(g.imports, stmt.ExternDec.Name)
		default:
			return "", fmt.Errorf("emit: unsupported top-level statement kind %d", stmt.Kind)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", g.packageName)

	switch len(g.imports) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "import %q", g.imports[0])
	default:
		b.WriteString("import (\n")
		for _, imp := range g.imports {
			fmt.Fprintf(&b, "\t%q\n", imp)
		}
		b.WriteString(")")
	}
	b.WriteString("\n\n")
	b.WriteString(strings.Join(g.topLevel, "\n\n"))
	b.WriteString("\n\n")

	if len(g.mainStmts) > 0 {
		fmt.Fprintf(&b, "\n\nfunc main() {\n\t%s\n}\n\n", strings.Join(g.mainStmts, "\n\t"))
	}

	return b.String(), nil
}

func (g *Generator) generateConstDec(dec ast.ConstDec, scopeIdx ast.ScopeID) (string, error) {
	valueSymbol, ok := g.Tree.FindValueSymbol(scopeIdx, dec.Ident.Name)
	if !ok {
		return "", fmt.Errorf("emit: value symbol %s should exist", dec.Ident.Name)
	}

	if dec.Value.Kind == ast.ExprFunctionDef && dec.Value.FunctionDef.Scope != ast.NoScopeID {
		return g.generateFunctionDec(dec, scopeIdx)
	}

	constType, err := g.primitiveTypeConversion(valueSymbol.TypeExpr)
	if err != nil {
		return "", err
	}
	valueSrc, err := g.generateExpr(dec.Value, scopeIdx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("var %s %s = %s\n", g.sanitizeIdent(dec.Ident.Name), constType, valueSrc), nil
}

func (g *Generator) generateFunctionDec(dec ast.ConstDec, scopeIdx ast.ScopeID) (string, error) {
	fn := dec.Value.FunctionDef
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		resolved := g.Tree.ResolveType(p.Annotation, scopeIdx)
		goType, err := g.primitiveTypeConversion(resolved)
		if err != nil {
			return "", err
		}
		params[i] = fmt.Sprintf("%s %s", g.sanitizeIdent(p.Ident.Name), goType)
	}

	returnType := g.Tree.ResolveType(fn.ReturnType, scopeIdx)
	goReturnType, err := g.primitiveTypeConversion(returnType)
	if err != nil {
		return "", err
	}

	body, err := g.generateBlockBody(fn.Body, scopeIdx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("func %s(%s) %s {\n%s\n}",
		g.sanitizeIdent(dec.Ident.Name), strings.Join(params, ", "), goReturnType, body), nil
}

func (g *Generator) generateBlockBody(body ast.Expr, fallbackScope ast.ScopeID) (string, error) {
	if body.Kind != ast.ExprBlock || body.Block.Scope == ast.NoScopeID {
		indent := g.indent(fallbackScope)
		rendered, err := g.generateExpr(body, fallbackScope)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("  %sreturn %s;", indent, rendered), nil
	}

	blockScope := body.Block.Scope
	indent := g.indent(blockScope)
	lines := make([]string, len(body.Block.Statements))
	for i, stmt := range body.Block.Statements {
		var line string
		var err error
		switch stmt.Kind {
		case ast.BlockStmtExpr:
			var rendered string
			rendered, err = g.generateExpr(stmt.Expr, blockScope)
			line = indent + rendered
		case ast.BlockReturn:
			var rendered string
			rendered, err = g.generateExpr(stmt.Return, blockScope)
			line = indent + "return " + rendered
		case ast.BlockConstDec:
			var rendered string
			rendered, err = g.generateConstDec(*stmt.ConstDec, blockScope)
			line = indent + rendered
		}
		if err != nil {
			return "", err
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n"), nil
}

// primitiveTypeConversion maps a resolved ground TypeExpr onto its Go
// target type. Anything else is an emit failure (spec §4.6, §7).
func (g *Generator) primitiveTypeConversion(t ast.TypeExpr) (string, error) {
	switch t.Kind {
	case ast.TypeNumber:
		return "float64", nil
	case ast.TypeString:
		return "string", nil
	case ast.TypeBoolean:
		return "bool", nil
	case ast.TypeVoid:
		return "", nil
	default:
		return "", fmt.Errorf("emit: unhandled type kind %d reached the emitter", t.Kind)
	}
}

// sanitizeIdent prefix-renames any name colliding with a Go keyword
// (spec §4.6).
func (g *Generator) sanitizeIdent(name string) string {
	if goKeywords[name] {
		return "fyg_" + name
	}
	return name
}

func (g *Generator) generateExpr(expr ast.Expr, scopeIdx ast.ScopeID) (string, error) {
	switch expr.Kind {
	case ast.ExprNumber:
		return expr.Text, nil
	case ast.ExprString:
		return fmt.Sprintf("%q", expr.Text), nil
	case ast.ExprBoolean:
		if expr.Bool {
			return "true", nil
		}
		return "false", nil

	case ast.ExprBinary:
		lhs, err := g.generateExpr(expr.Binary.Left, scopeIdx)
		if err != nil {
			return "", err
		}
		rhs, err := g.generateExpr(expr.Binary.Right, scopeIdx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", lhs, binaryOpSymbol(expr.Binary.Op), rhs), nil

	case ast.ExprValueRef:
		return g.generateValueRef(expr.ValueRef)

	case ast.ExprFunctionCall:
		callee, err := g.generateExpr(expr.FunctionCall.Callee, scopeIdx)
		if err != nil {
			return "", err
		}
		args := make([]string, len(expr.FunctionCall.Args))
		for i, a := range expr.FunctionCall.Args {
			rendered, err := g.generateExpr(a, scopeIdx)
			if err != nil {
				return "", err
			}
			args[i] = rendered
		}
		return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", ")), nil

	case ast.ExprDotCall:
		return g.generateDotCall(*expr.DotCall, scopeIdx)

	case ast.ExprIfElse:
		cond, err := g.generateExpr(expr.IfElse.Cond, scopeIdx)
		if err != nil {
			return "", err
		}
		then, err := g.generateExpr(expr.IfElse.Then, scopeIdx)
		if err != nil {
			return "", err
		}
		els, err := g.generateExpr(expr.IfElse.Else, scopeIdx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() any { if %s { return %s }; return %s }()", cond, then, els), nil

	case ast.ExprVoid:
		return "", nil

	default:
		return "", fmt.Errorf("emit: unhandled expression kind %d", expr.Kind)
	}
}

// generateDotCall rewrites dot access against an ExternPackage value to
// the member's external name, otherwise falls back to a plain
// sanitized field access (spec §4.6).
func (g *Generator) generateDotCall(dc ast.DotCallExpr, scopeIdx ast.ScopeID) (string, error) {
	if dc.Target.Kind == ast.ExprValueRef && dc.Target.ValueRef.Kind == ast.MixedValue {
		sym, ok := g.Tree.FindValueSymbol(scopeIdx, dc.Target.ValueRef.Value.Name)
		if ok && sym.TypeExpr.Kind == ast.TypeExternPackage {
			for _, m := range sym.TypeExpr.ExternMembers {
				if m.LocalName == dc.Identifier.Name {
					lhs, err := g.generateExpr(dc.Target, scopeIdx)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%s.%s", lhs, m.ExternalName), nil
				}
			}
			return "", fmt.Errorf("emit: extern package %s has no member %s", sym.TypeExpr.ExternName, dc.Identifier.Name)
		}
	}
	lhs, err := g.generateExpr(dc.Target, scopeIdx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", lhs, g.sanitizeIdent(dc.Identifier.Name)), nil
}

func (g *Generator) generateValueRef(id ast.MixedIdentifier) (string, error) {
	if id.Kind == ast.MixedValue {
		return g.sanitizeIdent(id.Value.Name), nil
	}
	goName, ok := g.importMap[id.Type.Segments[0]]
	if !ok {
		return "", fmt.Errorf("emit: no go package name for %s", id.Type.Joined())
	}
	return goName, nil
}

// indent is 2 * (scope_depth - 1) spaces for block bodies (spec §4.6).
func (g *Generator) indent(scopeIdx ast.ScopeID) string {
	depth := g.Tree.ScopeDepth(scopeIdx)
	if depth > 0 {
		depth--
	}
	return strings.Repeat("  ", depth)
}

func binaryOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpEq:
		return "=="
	case ast.OpNotEq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLtEq:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGtEq:
		return ">="
	default:
		return "?"
	}
}
