package pyparse

import (
	"pysema/internal/pytoken"
	"pysema/internal/pytree"
)

// parseParamList parses a function/lambda parameter list. allowAnnotations
// is false for lambdas, which the grammar never allows annotations or `/`
// positional-only markers on (out of scope for this reduced grammar per
// §4.8 anyway). Positional-only `/` markers are consumed and discarded: the
// source language's three-way positional/keyword split does not change how
// the resolver binds a parameter name, only how a rule-level arity checker
// would validate a call site.
func (p *Parser) parseParamList(allowAnnotations bool) []pytree.ParamID {
	var params []pytree.ParamID
	for !p.atAny(pytoken.Colon, pytoken.RParen) {
		if p.at(pytoken.Slash) {
			p.advance()
			if p.at(pytoken.Comma) {
				p.advance()
			}
			continue
		}
		params = append(params, p.parseOneParam(allowAnnotations))
		if p.at(pytoken.Comma) {
			p.advance()
			continue
		}
		break
	}
	return params
}

func (p *Parser) parseOneParam(allowAnnotations bool) pytree.ParamID {
	kind := pytree.ParamPositional
	switch p.cur.Kind {
	case pytoken.DoubleStar:
		p.advance()
		kind = pytree.ParamVarKeyword
	case pytoken.Star:
		p.advance()
		if p.atAny(pytoken.Comma, pytoken.Colon, pytoken.RParen) {
			// Bare `*` keyword-only marker: recorded as a nameless
			// ParamKeywordOnly entry; the caller's comma-skip loop advances
			// past the comma after it.
			return p.tree.NewParam(pytree.Param{Kind: pytree.ParamKeywordOnly, Name: pytree.NoNameID})
		}
		kind = pytree.ParamVarPositional
	}

	if p.at(pytoken.LParen) {
		// Tuple-structured parameter, e.g. `def f((a, b)):` — Python-2-only
		// syntax the source language's stub corpus still occasionally
		// shows in vendored code; destructured recursively into
		// ParamTuple's SubParams per §4.3.
		start := p.advance()
		var sub []pytree.ParamID
		for !p.at(pytoken.RParen) {
			sub = append(sub, p.parseOneParam(false))
			if p.at(pytoken.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(pytoken.RParen)
		_ = start
		return p.tree.NewParam(pytree.Param{Kind: pytree.ParamTuple, SubParams: sub})
	}

	nameTok := p.expect(pytoken.Ident)
	name := p.internName(nameTok)
	var annotation, def pytree.ExprID
	if allowAnnotations && p.at(pytoken.Colon) {
		p.advance()
		annotation = p.parseExpr()
	}
	if p.at(pytoken.Assign) {
		p.advance()
		// Default-value expressions are visited in the function's
		// enclosing scope, not the function's own scope (§4.3/§4.4); the
		// parser just records the expression, the resolver decides when
		// to visit it.
		def = p.parseExpr()
	}
	return p.tree.NewParam(pytree.Param{Kind: kind, Name: name, Annotation: annotation, Default: def})
}

func (p *Parser) parseFuncDef(decorators []pytree.ExprID) pytree.StmtID {
	start := p.cur
	isAsync := false
	if p.at(pytoken.KwAsync) {
		isAsync = true
		p.advance()
	}
	p.expect(pytoken.KwDef)
	nameTok := p.expect(pytoken.Ident)
	name := p.internName(nameTok)
	p.expect(pytoken.LParen)
	params := p.parseParamList(true)
	p.expect(pytoken.RParen)
	var returns pytree.ExprID
	if p.at(pytoken.Arrow) {
		p.advance()
		returns = p.parseExpr()
	}
	body := p.parseBlock()
	return p.tree.NewStmt(pytree.Stmt{
		Kind: pytree.StmtFunctionDef, Span: p.span(start), Name: name, Params: params,
		Decorators: decorators, Returns: returns, IsAsync: isAsync, Body: body,
	})
}

func (p *Parser) parseClassDef(decorators []pytree.ExprID) pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwClass)
	nameTok := p.expect(pytoken.Ident)
	name := p.internName(nameTok)
	var bases []pytree.ExprID
	var keywords []pytree.Keyword
	if p.at(pytoken.LParen) {
		p.advance()
		for !p.at(pytoken.RParen) {
			if p.at(pytoken.Ident) && p.next.Kind == pytoken.Assign {
				nameTok := p.advance()
				p.advance()
				val := p.parseExpr()
				keywords = append(keywords, pytree.Keyword{Name: p.internName(nameTok), Value: val})
			} else {
				bases = append(bases, p.parseExpr())
			}
			if p.at(pytoken.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(pytoken.RParen)
	}
	body := p.parseBlock()
	return p.tree.NewStmt(pytree.Stmt{
		Kind: pytree.StmtClassDef, Span: p.span(start), Name: name, Bases: bases,
		Keywords: keywords, Decorators: decorators, Body: body,
	})
}
