// Package parser turns a token.Token stream into an ast.Program. Like
// internal/lexer, it is one of spec.md §1's external collaborators —
// the compiler core only consumes the ast.Program shape — but cmd/fygc
// needs a concrete implementation to run end to end.
//
// The recursive-descent structure (precedence-climbing binary
// expressions, a scan to the matching closing paren that tells a
// function literal from a parenthesized expression,
// newline-as-statement-separator handling) is
// ported from _examples/original_source/src/parser.rs's Parser. The
// Rust source's own parse_primary_expr leaves If/Match/Record/Array
// as todo!() holes; this parser fills them in directly against
// ast.go's existing Expr/TypeExpr shapes (already built against
// spec.md's full grammar in an earlier pass) rather than leaving a gap
// spec.md itself only disclaims at the interface level, not the
// existence level.
package parser

import (
	"fmt"

	"fygc/internal/ast"
	"fygc/internal/source"
	"fygc/internal/token"
)

// Parser consumes a fixed token slice by index, the same shape as
// parser.rs's Parser holding a Vec<Token> plus a cursor.
type Parser struct {
	tokens []token.Token
	pos    int
	file   source.FileID
}

// New returns a Parser over tokens, attributing spans to file.
func New(tokens []token.Token, file source.FileID) *Parser {
	return &Parser{tokens: tokens, file: file}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.check(k) {
		return token.Token{}, fmt.Errorf("parser: expected %s at %d:%d, found %s", k, p.cur().Line, p.cur().Col, p.cur().Kind)
	}
	return p.advance(), nil
}

// swallowLines consumes any run of Newline tokens, mirroring
// parser.rs's swallow_lines used between optional blank lines.
func (p *Parser) swallowLines() {
	for p.check(token.Newline) {
		p.advance()
	}
}

func (p *Parser) requireNewLine() error {
	if !p.check(token.Newline) && !p.check(token.EOF) {
		return fmt.Errorf("parser: expected newline at %d:%d, found %s", p.cur().Line, p.cur().Col, p.cur().Kind)
	}
	p.swallowLines()
	return nil
}

func (p *Parser) span(start, end token.Token) source.Span {
	return source.Span{File: p.file, Start: start.Start, End: end.End}
}

// ParseHeader parses only the module declaration, exporting clause,
// and import block — the cheap pass modgraph.Discover needs eagerly
// (spec §4.5).
func (p *Parser) ParseHeader() (moduleName []string, exports []ast.MixedIdentifier, imports []ast.Import, err error) {
	p.swallowLines()
	moduleName, exports, err = p.parseModuleDec()
	if err != nil {
		return nil, nil, nil, err
	}
	imports, err = p.parseImports()
	if err != nil {
		return nil, nil, nil, err
	}
	return moduleName, exports, imports, nil
}

// Parse parses a full program: header plus every top-level statement.
func (p *Parser) Parse() (ast.Program, error) {
	p.pos = 0
	moduleName, exports, imports, err := p.ParseHeader()
	if err != nil {
		return ast.Program{}, err
	}

	var stmts []ast.TopStatement
	for !p.check(token.EOF) {
		p.swallowLines()
		if p.check(token.EOF) {
			break
		}
		stmt, err := p.parseTopStatement()
		if err != nil {
			return ast.Program{}, err
		}
		stmts = append(stmts, stmt)
		if err := p.requireNewLine(); err != nil {
			return ast.Program{}, err
		}
	}

	return ast.Program{
		ModuleName: moduleName,
		Exports:    exports,
		Imports:    imports,
		Statements: stmts,
		Scope:      ast.NoScopeID,
	}, nil
}

// parseModuleDec parses `module <Name>[.<Name>]* [exporting (a, b, C)]`.
func (p *Parser) parseModuleDec() ([]string, []ast.MixedIdentifier, error) {
	if _, err := p.expect(token.KwModule); err != nil {
		return nil, nil, err
	}
	segs, err := p.parseDottedUpperName()
	if err != nil {
		return nil, nil, err
	}

	var exports []ast.MixedIdentifier
	if p.check(token.KwExporting) {
		p.advance()
		if _, err := p.expect(token.LParen); err != nil {
			return nil, nil, err
		}
		for !p.check(token.RParen) {
			mid, err := p.parseMixedIdentifier()
			if err != nil {
				return nil, nil, err
			}
			exports = append(exports, mid)
			if p.check(token.Comma) {
				p.advance()
				p.swallowLines()
			}
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, nil, err
		}
	}
	if err := p.requireNewLine(); err != nil {
		return nil, nil, err
	}
	return segs, exports, nil
}

func (p *Parser) parseDottedUpperName() ([]string, error) {
	first, err := p.expect(token.UpperIdent)
	if err != nil {
		return nil, err
	}
	segs := []string{first.Text}
	for p.check(token.Dot) {
		p.advance()
		seg, err := p.expect(token.UpperIdent)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg.Text)
	}
	return segs, nil
}

func (p *Parser) parseMixedIdentifier() (ast.MixedIdentifier, error) {
	if p.check(token.LowerIdent) {
		t := p.advance()
		return ast.MixedIdentifier{Kind: ast.MixedValue, Value: ast.Identifier{Name: t.Text, Span: p.span(t, t)}}, nil
	}
	if p.check(token.UpperIdent) {
		start := p.cur()
		segs, err := p.parseDottedUpperName()
		if err != nil {
			return ast.MixedIdentifier{}, err
		}
		return ast.MixedIdentifier{Kind: ast.MixedType, Type: ast.TypeIdentifier{Segments: segs, Span: p.span(start, p.peekAt(-1))}}, nil
	}
	return ast.MixedIdentifier{}, fmt.Errorf("parser: expected identifier at %d:%d, found %s", p.cur().Line, p.cur().Col, p.cur().Kind)
}

// parseImports parses zero or more `from <Module> [as <Alias>]
// [import | expose (names)]` clauses, matching spec.md's keyword set
// (which, unlike the Rust source's apparently-incomplete parse_imports,
// includes both `import` and `expose` — spec.md isn't silent here, so
// it wins over the Rust draft per the grounding rule).
func (p *Parser) parseImports() ([]ast.Import, error) {
	var imports []ast.Import
	for p.check(token.KwFrom) {
		start := p.cur()
		p.advance()
		segs, err := p.parseDottedUpperName()
		if err != nil {
			return nil, err
		}

		var alias *string
		if p.check(token.KwAs) {
			p.advance()
			a, err := p.expect(token.UpperIdent)
			if err != nil {
				return nil, err
			}
			alias = &a.Text
		}

		switch {
		case p.check(token.KwImport):
			p.advance()
		case p.check(token.KwExpose):
			p.advance()
			if p.check(token.LParen) {
				p.advance()
				for !p.check(token.RParen) {
					if _, err := p.parseMixedIdentifier(); err != nil {
						return nil, err
					}
					if p.check(token.Comma) {
						p.advance()
						p.swallowLines()
					}
				}
				if _, err := p.expect(token.RParen); err != nil {
					return nil, err
				}
			}
		}

		imports = append(imports, ast.Import{PackageName: segs, Alias: alias, Span: p.span(start, p.peekAt(-1))})
		if err := p.requireNewLine(); err != nil {
			return nil, err
		}
	}
	return imports, nil
}

// parseTopStatement parses one module-level statement. A bare Return
// is a top-level error per parser.rs (returns only make sense inside a
// function body's block).
func (p *Parser) parseTopStatement() (ast.TopStatement, error) {
	switch {
	case p.check(token.KwConst):
		dec, err := p.parseConstDec()
		if err != nil {
			return ast.TopStatement{}, err
		}
		return ast.TopStatement{Kind: ast.TopConstDec, ConstDec: dec}, nil
	case p.check(token.KwExtern):
		dec, err := p.parseExternDec()
		if err != nil {
			return ast.TopStatement{}, err
		}
		return ast.TopStatement{Kind: ast.TopExternDec, ExternDec: dec}, nil
	case p.check(token.KwType):
		dec, err := p.parseTypeDec()
		if err != nil {
			return ast.TopStatement{}, err
		}
		return ast.TopStatement{Kind: ast.TopTypeDec, TypeDec: dec}, nil
	case p.check(token.KwEnum):
		dec, err := p.parseEnumDec()
		if err != nil {
			return ast.TopStatement{}, err
		}
		return ast.TopStatement{Kind: ast.TopEnumDec, EnumDec: dec}, nil
	case p.check(token.KwReturn):
		return ast.TopStatement{}, fmt.Errorf("parser: top-level return at %d:%d", p.cur().Line, p.cur().Col)
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return ast.TopStatement{}, err
		}
		return ast.TopStatement{Kind: ast.TopExpr, Expr: expr}, nil
	}
}

// parseConstDec parses `const name[: Type] = expr`.
func (p *Parser) parseConstDec() (*ast.ConstDec, error) {
	start := p.cur()
	p.advance()
	name, err := p.expect(token.LowerIdent)
	if err != nil {
		return nil, err
	}

	var annotation ast.TypeExpr
	hasAnnotation := false
	if p.check(token.Colon) {
		p.advance()
		te, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		annotation = te
		hasAnnotation = true
	}

	if _, err := p.expect(token.Equal); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if value.Kind == ast.ExprFunctionDef {
		name := name.Text
		value.FunctionDef.Identifier = &name
	}

	if !hasAnnotation {
		annotation = ast.NewInferenceRequired(nil)
	}
	dec := &ast.ConstDec{
		Ident:      ast.Identifier{Name: name.Text, Span: p.span(name, name)},
		Annotation: annotation,
		Value:      value,
		Span:       p.span(start, p.peekAt(-1)),
	}
	return dec, nil
}

// parseExternDec parses an extern block: `extern`, a backtick string
// naming the package, then `{ local: Type, ... }` members, where a
// member may write `local: <string>: Type` to name a different
// external member.
func (p *Parser) parseExternDec() (*ast.ExternDec, error) {
	start := p.cur()
	p.advance()
	nameTok, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	p.swallowLines()

	var members []ast.ExternMember
	for !p.check(token.RBrace) {
		memberStart := p.cur()
		local, err := p.expect(token.LowerIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		extName := local.Text
		if p.check(token.String) {
			t := p.advance()
			extName = t.Text
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
		}
		typ, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		members = append(members, ast.ExternMember{
			LocalName: local.Text, ExternalName: extName, Type: typ,
			Span: p.span(memberStart, p.peekAt(-1)),
		})
		p.swallowLines()
		if p.check(token.Comma) {
			p.advance()
			p.swallowLines()
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.ExternDec{Name: nameTok.Text, Members: members, Span: p.span(start, p.peekAt(-1))}, nil
}

// parseTypeDec parses `type Name[<T, ...>] = TypeExpr`.
func (p *Parser) parseTypeDec() (*ast.TypeDec, error) {
	start := p.cur()
	p.advance()
	name, err := p.expect(token.UpperIdent)
	if err != nil {
		return nil, err
	}
	ident := ast.TypeIdentifier{Segments: []string{name.Text}, Span: p.span(name, name)}

	var typeVars []ast.TypeIdentifier
	if p.check(token.Lt) {
		p.advance()
		for !p.check(token.Gt) {
			v, err := p.expect(token.UpperIdent)
			if err != nil {
				return nil, err
			}
			typeVars = append(typeVars, ast.TypeIdentifier{Segments: []string{v.Text}, Span: p.span(v, v)})
			if p.check(token.Comma) {
				p.advance()
			}
		}
		if _, err := p.expect(token.Gt); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Equal); err != nil {
		return nil, err
	}
	typeVal, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	return &ast.TypeDec{Ident: ident, TypeVars: typeVars, TypeVal: typeVal, Span: p.span(start, p.peekAt(-1))}, nil
}

// parseEnumDec parses `enum Name[<T, ...>] { Variant[(field: Type, ...)], ... }`.
func (p *Parser) parseEnumDec() (*ast.EnumDec, error) {
	start := p.cur()
	p.advance()
	name, err := p.expect(token.UpperIdent)
	if err != nil {
		return nil, err
	}
	ident := ast.TypeIdentifier{Segments: []string{name.Text}, Span: p.span(name, name)}

	var typeVars []ast.TypeIdentifier
	if p.check(token.Lt) {
		p.advance()
		for !p.check(token.Gt) {
			v, err := p.expect(token.UpperIdent)
			if err != nil {
				return nil, err
			}
			typeVars = append(typeVars, ast.TypeIdentifier{Segments: []string{v.Text}, Span: p.span(v, v)})
			if p.check(token.Comma) {
				p.advance()
			}
		}
		if _, err := p.expect(token.Gt); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	p.swallowLines()

	var variants []ast.EnumVariant
	for !p.check(token.RBrace) {
		vStart := p.cur()
		vName, err := p.expect(token.UpperIdent)
		if err != nil {
			return nil, err
		}
		vIdent := ast.TypeIdentifier{Segments: []string{vName.Text}, Span: p.span(vName, vName)}

		var fields []ast.TypeRecordMember
		if p.check(token.LParen) {
			p.advance()
			for !p.check(token.RParen) {
				fname, err := p.expect(token.LowerIdent)
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.Colon); err != nil {
					return nil, err
				}
				ftype, err := p.parseTypeExpr()
				if err != nil {
					return nil, err
				}
				fields = append(fields, ast.TypeRecordMember{Name: fname.Text, Type: ftype})
				if p.check(token.Comma) {
					p.advance()
				}
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		}

		variants = append(variants, ast.EnumVariant{Ident: vIdent, Fields: fields, Span: p.span(vStart, p.peekAt(-1))})
		p.swallowLines()
		if p.check(token.Comma) {
			p.advance()
			p.swallowLines()
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.EnumDec{Ident: ident, TypeVars: typeVars, Variants: variants, Span: p.span(start, p.peekAt(-1))}, nil
}

// parseTypeExpr parses a type annotation: ground keywords, a (possibly
// generic) TypeRef, or a Record literal. Function types have no
// annotation syntax here.
func (p *Parser) parseTypeExpr() (ast.TypeExpr, error) {
	switch {
	case p.check(token.UpperIdent):
		segs, err := p.parseDottedUpperName()
		if err != nil {
			return ast.TypeExpr{}, err
		}
		switch segs[0] {
		case "String":
			return ast.StringType, nil
		case "Number":
			return ast.NumberType, nil
		case "Boolean":
			return ast.BooleanType, nil
		case "Void":
			return ast.VoidType, nil
		}
		ident := ast.TypeIdentifier{Segments: segs}
		if p.check(token.Lt) {
			p.advance()
			for !p.check(token.Gt) {
				if _, err := p.parseTypeExpr(); err != nil {
					return ast.TypeExpr{}, err
				}
				if p.check(token.Comma) {
					p.advance()
				}
			}
			if _, err := p.expect(token.Gt); err != nil {
				return ast.TypeExpr{}, err
			}
		}
		return ast.TypeExpr{Kind: ast.TypeRef, RefIdent: ident}, nil
	case p.check(token.LBrace):
		p.advance()
		p.swallowLines()
		var members []ast.TypeRecordMember
		for !p.check(token.RBrace) {
			fname, err := p.expect(token.LowerIdent)
			if err != nil {
				return ast.TypeExpr{}, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return ast.TypeExpr{}, err
			}
			ftype, err := p.parseTypeExpr()
			if err != nil {
				return ast.TypeExpr{}, err
			}
			members = append(members, ast.TypeRecordMember{Name: fname.Text, Type: ftype})
			p.swallowLines()
			if p.check(token.Comma) {
				p.advance()
				p.swallowLines()
			}
		}
		if _, err := p.expect(token.RBrace); err != nil {
			return ast.TypeExpr{}, err
		}
		return ast.TypeExpr{Kind: ast.TypeRecord, RecordMembers: members}, nil
	default:
		return ast.TypeExpr{}, fmt.Errorf("parser: expected a type at %d:%d, found %s", p.cur().Line, p.cur().Col, p.cur().Kind)
	}
}
