package pyparse

import (
	"pysema/internal/pytoken"
	"pysema/internal/pytree"
)

func (p *Parser) parseIf() pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwIf)
	test := p.parseExprNoAssignList()
	body := p.parseBlock()
	var orElse []pytree.StmtID
	switch {
	case p.at(pytoken.KwElif):
		orElse = []pytree.StmtID{p.parseElif()}
	case p.at(pytoken.KwElse):
		p.advance()
		orElse = p.parseBlock()
	}
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtIf, Span: p.span(start), Test: test, Body: body, OrElse: orElse})
}

// parseElif treats `elif` as a nested `if` so the tree shape is the same
// either way; the source text difference (no second `:`-block keyword) does
// not matter once lowered to pytree.
func (p *Parser) parseElif() pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwElif)
	test := p.parseExprNoAssignList()
	body := p.parseBlock()
	var orElse []pytree.StmtID
	switch {
	case p.at(pytoken.KwElif):
		orElse = []pytree.StmtID{p.parseElif()}
	case p.at(pytoken.KwElse):
		p.advance()
		orElse = p.parseBlock()
	}
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtIf, Span: p.span(start), Test: test, Body: body, OrElse: orElse})
}

func (p *Parser) parseWhile() pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwWhile)
	test := p.parseExprNoAssignList()
	body := p.parseBlock()
	var orElse []pytree.StmtID
	if p.at(pytoken.KwElse) {
		p.advance()
		orElse = p.parseBlock()
	}
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtWhile, Span: p.span(start), Test: test, Body: body, OrElse: orElse})
}

func (p *Parser) parseFor(isAsync bool) pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwFor)
	target := p.parseTargetListAsExpr()
	p.expect(pytoken.KwIn)
	iter := p.parseExprNoAssignList()
	body := p.parseBlock()
	var orElse []pytree.StmtID
	if p.at(pytoken.KwElse) {
		p.advance()
		orElse = p.parseBlock()
	}
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtFor, Span: p.span(start), Target: target, Iter: iter, Body: body, OrElse: orElse, IsAsync: isAsync})
}

// parseTargetListAsExpr parses one or more comma-separated assignment
// targets, folding >1 into a synthetic tuple expression the same way
// `for a, b in …` destructures in a plain assignment.
func (p *Parser) parseTargetListAsExpr() pytree.ExprID {
	start := p.cur
	first := p.parseBitOr()
	if !p.at(pytoken.Comma) {
		return first
	}
	elts := []pytree.ExprID{first}
	for p.at(pytoken.Comma) {
		p.advance()
		if p.at(pytoken.KwIn) {
			break
		}
		elts = append(elts, p.parseBitOr())
	}
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprTuple, Span: p.span(start), Elts: elts})
}

func (p *Parser) parseWith(isAsync bool) pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwWith)
	var items []pytree.WithItem
	items = append(items, p.parseWithItem())
	for p.at(pytoken.Comma) {
		p.advance()
		items = append(items, p.parseWithItem())
	}
	body := p.parseBlock()
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtWith, Span: p.span(start), Items: items, Body: body, IsAsync: isAsync})
}

func (p *Parser) parseWithItem() pytree.WithItem {
	ctx := p.parseOrExpr()
	var optVar pytree.ExprID
	if p.at(pytoken.KwAs) {
		p.advance()
		optVar = p.parseOrExpr()
	}
	return pytree.WithItem{ContextExpr: ctx, OptionalVar: optVar}
}

func (p *Parser) parseTry() pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwTry)
	body := p.parseBlock()
	var handlers []pytree.ExceptHandler
	for p.at(pytoken.KwExcept) {
		handlers = append(handlers, p.parseExceptHandler())
	}
	var orElse []pytree.StmtID
	if p.at(pytoken.KwElse) {
		p.advance()
		orElse = p.parseBlock()
	}
	var finallyBody []pytree.StmtID
	if p.at(pytoken.KwFinally) {
		p.advance()
		finallyBody = p.parseBlock()
	}
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtTry, Span: p.span(start), Body: body, Handlers: handlers, OrElse: orElse, Finally: finallyBody})
}

func (p *Parser) parseExceptHandler() pytree.ExceptHandler {
	start := p.cur
	p.expect(pytoken.KwExcept)
	var typ pytree.ExprID
	var name pytree.NameID
	if !p.at(pytoken.Colon) {
		typ = p.parseOrExpr()
		if p.at(pytoken.KwAs) {
			p.advance()
			name = p.internName(p.expect(pytoken.Ident))
		}
	}
	body := p.parseBlock()
	return pytree.ExceptHandler{Span: p.span(start), Type: typ, Name: name, Body: body}
}

// parseDecorated parses a run of `@expr` lines followed by a def/class.
func (p *Parser) parseDecorated() pytree.StmtID {
	var decorators []pytree.ExprID
	for p.at(pytoken.At) {
		p.advance()
		decorators = append(decorators, p.parseExpr())
		if p.at(pytoken.Newline) {
			p.advance()
		}
	}
	switch p.cur.Kind {
	case pytoken.KwClass:
		return p.parseClassDef(decorators)
	default:
		return p.parseFuncDef(decorators)
	}
}
