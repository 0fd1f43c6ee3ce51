package parser

import (
	"fmt"

	"fygc/internal/ast"
	"fygc/internal/token"
)

// precedence mirrors parser.rs's get_precedence: Plus/Minus bind
// loosest, then Asterix/Divide, then equality, then ordering.
func precedence(k token.Kind) int {
	switch k {
	case token.Plus, token.Minus:
		return 1
	case token.Star, token.Slash:
		return 2
	case token.EqEq, token.NotEq:
		return 3
	case token.GtEq, token.LtEq, token.Lt, token.Gt:
		return 4
	default:
		return 0
	}
}

func binOpFor(k token.Kind) ast.BinaryOp {
	switch k {
	case token.Plus:
		return ast.OpAdd
	case token.Minus:
		return ast.OpSub
	case token.Star:
		return ast.OpMul
	case token.Slash:
		return ast.OpDiv
	case token.EqEq:
		return ast.OpEq
	case token.NotEq:
		return ast.OpNotEq
	case token.Lt:
		return ast.OpLt
	case token.LtEq:
		return ast.OpLtEq
	case token.Gt:
		return ast.OpGt
	case token.GtEq:
		return ast.OpGtEq
	default:
		return ast.OpAdd
	}
}

// parseExpr parses a full expression via precedence climbing, starting
// at the loosest binding level (1), matching parser.rs's parse_expr.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnaryPrimary()
	if err != nil {
		return ast.Expr{}, err
	}

	for {
		opTok := p.peekForContinuation()
		prec := precedence(opTok.Kind)
		if prec == 0 || prec < minPrec {
			break
		}
		p.consumeContinuationOp()

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return ast.Expr{}, err
		}
		left = ast.Expr{
			Kind: ast.ExprBinary,
			Span: left.Span.Cover(right.Span),
			Binary: &ast.BinaryExpr{
				Left: left, Op: binOpFor(opTok.Kind), Right: right,
			},
		}
	}
	return left, nil
}

// peekForContinuation looks past any run of Newline tokens to see
// whether the expression continues onto the next line with a binary
// operator, mirroring parser.rs's peek_for_expr_continuation (Fyg
// permits a trailing operator to continue across a line break).
func (p *Parser) peekForContinuation() token.Token {
	if cur := p.cur(); precedence(cur.Kind) > 0 {
		return cur
	}
	if !p.check(token.Newline) {
		return p.cur()
	}
	i := 0
	for p.peekAt(i).Kind == token.Newline {
		i++
	}
	cand := p.peekAt(i)
	if precedence(cand.Kind) > 0 {
		return cand
	}
	return p.cur()
}

func (p *Parser) consumeContinuationOp() {
	p.swallowLines()
	p.advance()
}

func (p *Parser) parseUnaryPrimary() (ast.Expr, error) {
	if p.check(token.Minus) {
		start := p.cur()
		p.advance()
		operand, err := p.parseUnaryPrimary()
		if err != nil {
			return ast.Expr{}, err
		}
		zero := ast.Expr{Kind: ast.ExprNumber, Text: "0", Span: p.span(start, start)}
		return ast.Expr{
			Kind: ast.ExprBinary,
			Span: p.span(start, p.peekAt(-1)),
			Binary: &ast.BinaryExpr{Left: zero, Op: ast.OpSub, Right: operand},
		}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return ast.Expr{Kind: ast.ExprNumber, Text: tok.Text, Span: p.span(tok, tok)}, nil
	case token.String:
		p.advance()
		return ast.Expr{Kind: ast.ExprString, Text: tok.Text, Span: p.span(tok, tok)}, nil
	case token.True:
		p.advance()
		return ast.Expr{Kind: ast.ExprBoolean, Bool: true, Span: p.span(tok, tok)}, nil
	case token.False:
		p.advance()
		return ast.Expr{Kind: ast.ExprBoolean, Bool: false, Span: p.span(tok, tok)}, nil
	case token.LowerIdent:
		return p.parseIdentOrCall()
	case token.UpperIdent:
		return p.parseTypeRootedExpr()
	case token.LParen:
		return p.parseParenExprOrFuncDef()
	case token.LBrace:
		return p.parseBlockExpr()
	case token.LBracket:
		return p.parseArrayExpr()
	case token.KwIf:
		return p.parseIfElse()
	case token.KwMatch:
		return p.parseMatch()
	default:
		return ast.Expr{}, fmt.Errorf("parser: unexpected token %s at %d:%d", tok.Kind, tok.Line, tok.Col)
	}
}

// parseIdentOrCall parses a lower-identifier value reference, then any
// chain of .dotCall / (args) suffixes, matching parser.rs's
// parse_iden_or_call.
func (p *Parser) parseIdentOrCall() (ast.Expr, error) {
	start := p.cur()
	p.advance()
	expr := ast.Expr{
		Kind:     ast.ExprValueRef,
		Span:     p.span(start, start),
		ValueRef: ast.MixedIdentifier{Kind: ast.MixedValue, Value: ast.Identifier{Name: start.Text, Span: p.span(start, start)}},
	}
	return p.parsePostfix(expr)
}

func (p *Parser) parseTypeRootedExpr() (ast.Expr, error) {
	start := p.cur()
	segs, err := p.parseDottedUpperName()
	if err != nil {
		return ast.Expr{}, err
	}
	ident := ast.TypeIdentifier{Segments: segs, Span: p.span(start, p.peekAt(-1))}

	if p.check(token.LBrace) {
		return p.parseRecordExpr(&ident, start)
	}

	expr := ast.Expr{
		Kind: ast.ExprValueRef,
		Span: ident.Span,
		ValueRef: ast.MixedIdentifier{Kind: ast.MixedType, Type: ident},
	}
	return p.parsePostfix(expr)
}

func (p *Parser) parsePostfix(expr ast.Expr) (ast.Expr, error) {
	for {
		switch {
		case p.check(token.Dot):
			p.advance()
			name, err := p.expect(token.LowerIdent)
			if err != nil {
				return ast.Expr{}, err
			}
			dc := &ast.DotCallExpr{
				Target:     expr,
				Identifier: ast.Identifier{Name: name.Text, Span: p.span(name, name)},
			}
			expr = ast.Expr{Kind: ast.ExprDotCall, Span: expr.Span.Cover(p.span(name, name)), DotCall: dc}
		case p.check(token.LParen):
			args, end, err := p.parseArgList()
			if err != nil {
				return ast.Expr{}, err
			}
			fc := &ast.FunctionCallExpr{Callee: expr, Args: args}
			expr = ast.Expr{Kind: ast.ExprFunctionCall, Span: expr.Span.Cover(p.span(end, end)), FunctionCall: fc}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, token.Token, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, token.Token{}, err
	}
	var args []ast.Expr
	p.swallowLines()
	for !p.check(token.RParen) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, token.Token{}, err
		}
		args = append(args, arg)
		p.swallowLines()
		if p.check(token.Comma) {
			p.advance()
			p.swallowLines()
		}
	}
	end, err := p.expect(token.RParen)
	if err != nil {
		return nil, token.Token{}, err
	}
	return args, end, nil
}

// parseParenExprOrFuncDef disambiguates `(expr)` from a function
// literal `(params) => body` / `(params): RetType => body` by scanning
// past the matching closing paren for a FatArrow or Colon, matching
// parser.rs's peek_for_fn_defition + find_matching_closing_paren.
func (p *Parser) parseParenExprOrFuncDef() (ast.Expr, error) {
	if p.peekForFnDefinition() {
		return p.parseFunctionDef(nil)
	}

	start := p.cur()
	p.advance()
	inner, err := p.parseExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	end, err := p.expect(token.RParen)
	if err != nil {
		return ast.Expr{}, err
	}
	inner.Span = p.span(start, end)
	return p.parsePostfix(inner)
}

func (p *Parser) peekForFnDefinition() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				next := i + 1
				for next < len(p.tokens) && p.tokens[next].Kind == token.Newline {
					next++
				}
				if next < len(p.tokens) {
					k := p.tokens[next].Kind
					return k == token.FatArrow || k == token.Colon
				}
				return false
			}
		case token.EOF:
			return false
		}
	}
	return false
}

// parseFunctionDef parses `(params) [: RetType] => body`. ident, when
// non-nil, names the enclosing const dec (anonymous literals leave it
// nil; the binder synthesizes a name per spec §4.2 step 4).
func (p *Parser) parseFunctionDef(ident *string) (ast.Expr, error) {
	start := p.cur()
	if _, err := p.expect(token.LParen); err != nil {
		return ast.Expr{}, err
	}
	var params []ast.FunctionParam
	p.swallowLines()
	for !p.check(token.RParen) {
		pname, err := p.expect(token.LowerIdent)
		if err != nil {
			return ast.Expr{}, err
		}
		param := ast.FunctionParam{
			Ident:      ast.Identifier{Name: pname.Text, Span: p.span(pname, pname)},
			Annotation: ast.NewInferenceRequired(nil),
		}
		if p.check(token.Colon) {
			p.advance()
			te, err := p.parseTypeExpr()
			if err != nil {
				return ast.Expr{}, err
			}
			param.Annotation = te
		}
		params = append(params, param)
		p.swallowLines()
		if p.check(token.Comma) {
			p.advance()
			p.swallowLines()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return ast.Expr{}, err
	}

	retType := ast.NewInferenceRequired(nil)
	if p.check(token.Colon) {
		p.advance()
		te, err := p.parseTypeExpr()
		if err != nil {
			return ast.Expr{}, err
		}
		retType = te
	}

	if _, err := p.expect(token.FatArrow); err != nil {
		return ast.Expr{}, err
	}
	p.swallowLines()

	body, err := p.parseFunctionBody()
	if err != nil {
		return ast.Expr{}, err
	}

	def := &ast.FunctionDef{Params: params, ReturnType: retType, Body: body, Scope: ast.NoScopeID, Identifier: ident}
	return ast.Expr{Kind: ast.ExprFunctionDef, Span: p.span(start, p.peekAt(-1)), FunctionDef: def}, nil
}

// parseFunctionBody parses either a `{ ... }` block body or, for a
// single-expression arrow body, wraps the expression in an implicit
// one-statement block (spec §3: FunctionDef.body is always an
// ExprBlock).
func (p *Parser) parseFunctionBody() (ast.Expr, error) {
	if p.check(token.LBrace) {
		return p.parseBlockExpr()
	}
	start := p.cur()
	expr, err := p.parseExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{
		Kind: ast.ExprBlock,
		Span: p.span(start, p.peekAt(-1)),
		Block: &ast.BlockExpr{
			Statements: []ast.BlockStatement{{Kind: ast.BlockStmtExpr, Expr: expr}},
			Scope:      ast.NoScopeID,
		},
	}, nil
}

// parseBlockExpr parses `{ stmt* }`, where each stmt is a const dec,
// a return, or a bare expression (parser.rs's block statement set).
func (p *Parser) parseBlockExpr() (ast.Expr, error) {
	start := p.cur()
	if _, err := p.expect(token.LBrace); err != nil {
		return ast.Expr{}, err
	}
	p.swallowLines()

	var stmts []ast.BlockStatement
	for !p.check(token.RBrace) {
		stmt, err := p.parseBlockStatement()
		if err != nil {
			return ast.Expr{}, err
		}
		stmts = append(stmts, stmt)
		if !p.check(token.RBrace) {
			if err := p.requireNewLine(); err != nil {
				return ast.Expr{}, err
			}
		}
	}
	end, err := p.expect(token.RBrace)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{
		Kind:  ast.ExprBlock,
		Span:  p.span(start, end),
		Block: &ast.BlockExpr{Statements: stmts, Scope: ast.NoScopeID},
	}, nil
}

func (p *Parser) parseBlockStatement() (ast.BlockStatement, error) {
	switch {
	case p.check(token.KwConst):
		dec, err := p.parseConstDec()
		if err != nil {
			return ast.BlockStatement{}, err
		}
		return ast.BlockStatement{Kind: ast.BlockConstDec, ConstDec: dec}, nil
	case p.check(token.KwReturn):
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return ast.BlockStatement{}, err
		}
		return ast.BlockStatement{Kind: ast.BlockReturn, Return: expr}, nil
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return ast.BlockStatement{}, err
		}
		return ast.BlockStatement{Kind: ast.BlockStmtExpr, Expr: expr}, nil
	}
}

// parseRecordExpr parses `{ field = value, ... }`, optionally preceded
// by a TypeIdentifier naming the record's declared type.
func (p *Parser) parseRecordExpr(typeIdent *ast.TypeIdentifier, start token.Token) (ast.Expr, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return ast.Expr{}, err
	}
	p.swallowLines()

	var members []ast.RecordMember
	for !p.check(token.RBrace) {
		mStart := p.cur()
		name, err := p.expect(token.LowerIdent)
		if err != nil {
			return ast.Expr{}, err
		}
		if _, err := p.expect(token.Equal); err != nil {
			return ast.Expr{}, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return ast.Expr{}, err
		}
		members = append(members, ast.RecordMember{Name: name.Text, Value: value, Span: p.span(mStart, p.peekAt(-1))})
		p.swallowLines()
		if p.check(token.Comma) {
			p.advance()
			p.swallowLines()
		}
	}
	end, err := p.expect(token.RBrace)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{
		Kind:   ast.ExprRecord,
		Span:   p.span(start, end),
		Record: &ast.RecordExpr{TypeIdent: typeIdent, Members: members},
	}, nil
}

// parseArrayExpr parses `[item, item, ...]`.
func (p *Parser) parseArrayExpr() (ast.Expr, error) {
	start := p.cur()
	p.advance()
	p.swallowLines()
	var items []ast.Expr
	for !p.check(token.RBracket) {
		item, err := p.parseExpr()
		if err != nil {
			return ast.Expr{}, err
		}
		items = append(items, item)
		p.swallowLines()
		if p.check(token.Comma) {
			p.advance()
			p.swallowLines()
		}
	}
	end, err := p.expect(token.RBracket)
	if err != nil {
		return ast.Expr{}, err
	}
	arr := &ast.ArrayExpr{ElementType: ast.NewInferenceRequired(nil), Items: items}
	return ast.Expr{Kind: ast.ExprArray, Span: p.span(start, end), Array: arr}, nil
}

// parseIfElse parses `if cond { then } else { else }`.
func (p *Parser) parseIfElse() (ast.Expr, error) {
	start := p.cur()
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	thenBranch, err := p.parseBlockExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	p.swallowLines()
	if _, err := p.expect(token.KwElse); err != nil {
		return ast.Expr{}, err
	}
	var elseBranch ast.Expr
	if p.check(token.KwIf) {
		elseBranch, err = p.parseIfElse()
	} else {
		elseBranch, err = p.parseBlockExpr()
	}
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{
		Kind: ast.ExprIfElse,
		Span: p.span(start, p.peekAt(-1)),
		IfElse: &ast.IfElseExpr{Cond: cond, Then: thenBranch, Else: elseBranch},
	}, nil
}

// parseMatch parses `match subject { pattern => body, ... }`.
func (p *Parser) parseMatch() (ast.Expr, error) {
	start := p.cur()
	p.advance()
	subject, err := p.parseExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return ast.Expr{}, err
	}
	p.swallowLines()

	var clauses []ast.MatchClause
	for !p.check(token.RBrace) {
		cStart := p.cur()
		pattern, err := p.parseMatchPattern()
		if err != nil {
			return ast.Expr{}, err
		}
		if _, err := p.expect(token.FatArrow); err != nil {
			return ast.Expr{}, err
		}
		p.swallowLines()
		body, err := p.parseExpr()
		if err != nil {
			return ast.Expr{}, err
		}
		clauses = append(clauses, ast.MatchClause{Pattern: pattern, Body: body, Span: p.span(cStart, p.peekAt(-1))})
		p.swallowLines()
		if p.check(token.Comma) {
			p.advance()
			p.swallowLines()
		}
	}
	end, err := p.expect(token.RBrace)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{
		Kind:  ast.ExprMatch,
		Span:  p.span(start, end),
		Match: &ast.MatchExpr{Subject: subject, Clauses: clauses},
	}, nil
}

func (p *Parser) parseMatchPattern() (ast.MatchPattern, error) {
	start := p.cur()
	switch {
	case p.check(token.LowerIdent) && start.Text == "_":
		p.advance()
		return ast.MatchPattern{Kind: ast.PatternWildcard, Span: p.span(start, start)}, nil
	case p.check(token.LowerIdent):
		p.advance()
		return ast.MatchPattern{Kind: ast.PatternBind, BindName: start.Text, Span: p.span(start, start)}, nil
	case p.check(token.Number), p.check(token.String), p.check(token.True), p.check(token.False):
		lit, err := p.parsePrimary()
		if err != nil {
			return ast.MatchPattern{}, err
		}
		return ast.MatchPattern{Kind: ast.PatternLiteral, Literal: lit, Span: lit.Span}, nil
	case p.check(token.UpperIdent):
		segs, err := p.parseDottedUpperName()
		if err != nil {
			return ast.MatchPattern{}, err
		}
		ident := ast.TypeIdentifier{Segments: segs, Span: p.span(start, p.peekAt(-1))}
		var sub []ast.MatchPattern
		if p.check(token.LParen) {
			p.advance()
			for !p.check(token.RParen) {
				inner, err := p.parseMatchPattern()
				if err != nil {
					return ast.MatchPattern{}, err
				}
				sub = append(sub, inner)
				if p.check(token.Comma) {
					p.advance()
				}
			}
			if _, err := p.expect(token.RParen); err != nil {
				return ast.MatchPattern{}, err
			}
		}
		return ast.MatchPattern{Kind: ast.PatternVariant, VariantName: ident, SubPatterns: sub, Span: p.span(start, p.peekAt(-1))}, nil
	default:
		return ast.MatchPattern{}, fmt.Errorf("parser: invalid match pattern at %d:%d", start.Line, start.Col)
	}
}
