package pyparse

import (
	"pysema/internal/pytoken"
	"pysema/internal/pytree"
)

func (p *Parser) parseAtom() pytree.ExprID {
	start := p.cur
	switch p.cur.Kind {
	case pytoken.Ident:
		tok := p.advance()
		name := p.internName(tok)
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprName, Span: tok.Span, Name: name})
	case pytoken.Int, pytoken.Float:
		tok := p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprNumber, Span: tok.Span, Literal: p.strings.Intern(tok.Text), IsFloat: tok.Kind == pytoken.Float})
	case pytoken.String:
		tok := p.advance()
		text := tok.Text
		for p.at(pytoken.String) {
			text += p.advance().Text
		}
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprString, Span: p.span(start), Literal: p.strings.Intern(text)})
	case pytoken.Bytes:
		tok := p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprBytes, Span: tok.Span, Literal: p.strings.Intern(tok.Text)})
	case pytoken.KwTrue:
		p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprBool, Span: start.Span, BoolValue: true})
	case pytoken.KwFalse:
		p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprBool, Span: start.Span, BoolValue: false})
	case pytoken.KwNone:
		p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprNone, Span: start.Span})
	case pytoken.Ellipsis:
		p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprEllipsis, Span: start.Span})
	case pytoken.KwYield:
		return p.parseYield()
	case pytoken.LParen:
		return p.parseParenAtom()
	case pytoken.LBracket:
		return p.parseBracketAtom()
	case pytoken.LBrace:
		return p.parseBraceAtom()
	default:
		p.reportUnexpected("expression")
		panic("pyparse: unexpected token in expression")
	}
}

func (p *Parser) parseYield() pytree.ExprID {
	start := p.advance() // 'yield'
	if p.at(pytoken.KwFrom) {
		p.advance()
		val := p.parseExpr()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("yield from"), Operand: val})
	}
	if p.atAny(pytoken.Newline, pytoken.RParen, pytoken.RBracket, pytoken.RBrace, pytoken.Semicolon, pytoken.EOF) {
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("yield")})
	}
	val := p.parseExprList()
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("yield"), Operand: val})
}

func (p *Parser) parseParenAtom() pytree.ExprID {
	start := p.cur
	p.expect(pytoken.LParen)
	if p.at(pytoken.RParen) {
		p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprTuple, Span: p.span(start)})
	}
	first := p.parseExprOrStarred()
	if p.at(pytoken.KwFor) || p.at(pytoken.KwAsync) {
		gens := p.parseCompFor()
		p.expect(pytoken.RParen)
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprGeneratorExp, Span: p.span(start), Elt: first, Generators: gens})
	}
	if !p.at(pytoken.Comma) {
		p.expect(pytoken.RParen)
		return first
	}
	elts := []pytree.ExprID{first}
	for p.at(pytoken.Comma) {
		p.advance()
		if p.at(pytoken.RParen) {
			break
		}
		elts = append(elts, p.parseExprOrStarred())
	}
	p.expect(pytoken.RParen)
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprTuple, Span: p.span(start), Elts: elts})
}

func (p *Parser) parseBracketAtom() pytree.ExprID {
	start := p.cur
	p.expect(pytoken.LBracket)
	if p.at(pytoken.RBracket) {
		p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprList, Span: p.span(start)})
	}
	first := p.parseExprOrStarred()
	if p.at(pytoken.KwFor) || p.at(pytoken.KwAsync) {
		gens := p.parseCompFor()
		p.expect(pytoken.RBracket)
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprListComp, Span: p.span(start), Elt: first, Generators: gens})
	}
	elts := []pytree.ExprID{first}
	for p.at(pytoken.Comma) {
		p.advance()
		if p.at(pytoken.RBracket) {
			break
		}
		elts = append(elts, p.parseExprOrStarred())
	}
	p.expect(pytoken.RBracket)
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprList, Span: p.span(start), Elts: elts})
}

func (p *Parser) parseBraceAtom() pytree.ExprID {
	start := p.cur
	p.expect(pytoken.LBrace)
	if p.at(pytoken.RBrace) {
		p.advance()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprDict, Span: p.span(start)})
	}
	if p.at(pytoken.DoubleStar) {
		p.advance()
		val := p.parseOrExpr()
		keys := []pytree.ExprID{pytree.NoExprID}
		values := []pytree.ExprID{val}
		return p.finishDict(start, keys, values)
	}
	firstKey := p.parseExprOrStarred()
	if p.at(pytoken.Colon) {
		p.advance()
		firstVal := p.parseExpr()
		if p.at(pytoken.KwFor) || p.at(pytoken.KwAsync) {
			gens := p.parseCompFor()
			p.expect(pytoken.RBrace)
			return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprDictComp, Span: p.span(start), Keys: []pytree.ExprID{firstKey}, Values: []pytree.ExprID{firstVal}, Generators: gens})
		}
		return p.finishDict(start, []pytree.ExprID{firstKey}, []pytree.ExprID{firstVal})
	}
	if p.at(pytoken.KwFor) || p.at(pytoken.KwAsync) {
		gens := p.parseCompFor()
		p.expect(pytoken.RBrace)
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprSetComp, Span: p.span(start), Elt: firstKey, Generators: gens})
	}
	elts := []pytree.ExprID{firstKey}
	for p.at(pytoken.Comma) {
		p.advance()
		if p.at(pytoken.RBrace) {
			break
		}
		elts = append(elts, p.parseExprOrStarred())
	}
	p.expect(pytoken.RBrace)
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprSet, Span: p.span(start), Elts: elts})
}

func (p *Parser) finishDict(start pytoken.Token, keys, values []pytree.ExprID) pytree.ExprID {
	for p.at(pytoken.Comma) {
		p.advance()
		if p.at(pytoken.RBrace) {
			break
		}
		if p.at(pytoken.DoubleStar) {
			p.advance()
			val := p.parseOrExpr()
			keys = append(keys, pytree.NoExprID)
			values = append(values, val)
			continue
		}
		k := p.parseExpr()
		p.expect(pytoken.Colon)
		v := p.parseExpr()
		keys = append(keys, k)
		values = append(values, v)
	}
	p.expect(pytoken.RBrace)
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprDict, Span: p.span(start), Keys: keys, Values: values})
}

// parseCompFor parses the `for ... in ... [if ...]` clauses of a
// comprehension, one or more, the outermost's Iter expression visited by C4
// in the enclosing scope per §4.3/§4.4 and every subsequent clause in the
// comprehension's own scope.
func (p *Parser) parseCompFor() []pytree.Comprehension {
	var gens []pytree.Comprehension
	for p.at(pytoken.KwFor) || p.at(pytoken.KwAsync) {
		isAsync := false
		if p.at(pytoken.KwAsync) {
			isAsync = true
			p.advance()
		}
		p.expect(pytoken.KwFor)
		target := p.parseTargetListAsExpr()
		p.expect(pytoken.KwIn)
		iter := p.parseOrExpr()
		var ifs []pytree.ExprID
		for p.at(pytoken.KwIf) {
			p.advance()
			ifs = append(ifs, p.parseOrExpr())
		}
		gens = append(gens, pytree.Comprehension{Target: target, Iter: iter, Ifs: ifs, IsAsync: isAsync})
	}
	return gens
}
