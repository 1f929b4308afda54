package pyparse

import (
	"pysema/internal/pytoken"
	"pysema/internal/pytree"
)

// parseExpr is the general single-expression entry point: lambda, ternary,
// boolean/comparison/arithmetic chains, and — when the current token is an
// identifier immediately followed by ':=' — a walrus assignment expression.
func (p *Parser) parseExpr() pytree.ExprID {
	if p.at(pytoken.Ident) && p.next.Kind == pytoken.Walrus {
		nameTok := p.advance()
		p.advance()
		val := p.parseExpr()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprNamedExpr, Span: p.span(nameTok), Name: p.internName(nameTok), Value: val})
	}
	return p.parseTernary()
}

// parseExprList parses one or more comma-separated expressions, folding
// more than one (or a single trailing comma) into a tuple literal the same
// way chained-assignment and for-loop targets do.
func (p *Parser) parseExprList() pytree.ExprID {
	start := p.cur
	first := p.parseExprOrStarred()
	if !p.at(pytoken.Comma) {
		return first
	}
	elts := []pytree.ExprID{first}
	for p.at(pytoken.Comma) {
		p.advance()
		if p.atAny(pytoken.Newline, pytoken.Semicolon, pytoken.EOF, pytoken.Assign) {
			break
		}
		elts = append(elts, p.parseExprOrStarred())
	}
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprTuple, Span: p.span(start), Elts: elts})
}

// parseExprNoAssignList is used for if/while conditions and for-loop
// iterables, where the grammar is identical to parseExprList but the name
// documents intent at call sites.
func (p *Parser) parseExprNoAssignList() pytree.ExprID { return p.parseExprList() }

func (p *Parser) parseExprOrStarred() pytree.ExprID {
	if p.at(pytoken.Star) {
		start := p.advance()
		val := p.parseOrExpr()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprStarred, Span: p.span(start), Value: val})
	}
	return p.parseExpr()
}

func (p *Parser) parseTernary() pytree.ExprID {
	if p.at(pytoken.KwLambda) {
		return p.parseLambda()
	}
	start := p.cur
	left := p.parseOrExpr()
	if p.at(pytoken.KwIf) {
		p.advance()
		test := p.parseOrExpr()
		p.expect(pytoken.KwElse)
		orElse := p.parseExpr()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprIfExp, Span: p.span(start), Body: left, Test: test, OrElse: orElse})
	}
	return left
}

func (p *Parser) parseLambda() pytree.ExprID {
	start := p.cur
	p.expect(pytoken.KwLambda)
	var params []pytree.ParamID
	if !p.at(pytoken.Colon) {
		params = p.parseParamList(false)
	}
	p.expect(pytoken.Colon)
	body := p.parseExpr()
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprLambda, Span: p.span(start), Params: params, Body: body})
}

func (p *Parser) parseOrExpr() pytree.ExprID {
	start := p.cur
	left := p.parseAndExpr()
	if !p.at(pytoken.KwOr) {
		return left
	}
	elts := []pytree.ExprID{left}
	for p.at(pytoken.KwOr) {
		p.advance()
		elts = append(elts, p.parseAndExpr())
	}
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprBoolOp, Span: p.span(start), Op: p.strings.Intern("or"), Elts: elts})
}

func (p *Parser) parseAndExpr() pytree.ExprID {
	start := p.cur
	left := p.parseNotExpr()
	if !p.at(pytoken.KwAnd) {
		return left
	}
	elts := []pytree.ExprID{left}
	for p.at(pytoken.KwAnd) {
		p.advance()
		elts = append(elts, p.parseNotExpr())
	}
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprBoolOp, Span: p.span(start), Op: p.strings.Intern("and"), Elts: elts})
}

func (p *Parser) parseNotExpr() pytree.ExprID {
	if p.at(pytoken.KwNot) {
		start := p.advance()
		operand := p.parseNotExpr()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("not"), Operand: operand})
	}
	return p.parseComparison()
}

// comparisonOp returns the source-text operator for a comparison token, and
// consumes a following `not` for `is not`/`not in`.
func (p *Parser) comparisonOp() (string, bool) {
	switch p.cur.Kind {
	case pytoken.Lt:
		p.advance()
		return "<", true
	case pytoken.Gt:
		p.advance()
		return ">", true
	case pytoken.LtEq:
		p.advance()
		return "<=", true
	case pytoken.GtEq:
		p.advance()
		return ">=", true
	case pytoken.EqEq:
		p.advance()
		return "==", true
	case pytoken.NotEq:
		p.advance()
		return "!=", true
	case pytoken.KwIn:
		p.advance()
		return "in", true
	case pytoken.KwIs:
		p.advance()
		if p.at(pytoken.KwNot) {
			p.advance()
			return "is not", true
		}
		return "is", true
	case pytoken.KwNot:
		if p.next.Kind == pytoken.KwIn {
			p.advance()
			p.advance()
			return "not in", true
		}
		return "", false
	default:
		return "", false
	}
}

func (p *Parser) parseComparison() pytree.ExprID {
	start := p.cur
	left := p.parseBitOr()
	op, ok := p.comparisonOp()
	if !ok {
		return left
	}
	right := p.parseBitOr()
	var ops []string
	var rights []pytree.ExprID
	for {
		op2, ok2 := p.comparisonOp()
		if !ok2 {
			break
		}
		ops = append(ops, op2)
		rights = append(rights, p.parseBitOr())
	}
	e := pytree.Expr{Kind: pytree.ExprCompare, Span: p.span(start), Left: left, Op: p.strings.Intern(op), Right: right}
	for i, o := range ops {
		e.CompareOps = append(e.CompareOps, p.strings.Intern(o))
		e.CompareRights = append(e.CompareRights, rights[i])
	}
	return p.tree.NewExpr(e)
}

func (p *Parser) binOpChain(next func() pytree.ExprID, ops map[pytoken.Kind]string) func() pytree.ExprID {
	return func() pytree.ExprID {
		start := p.cur
		left := next()
		for {
			text, ok := ops[p.cur.Kind]
			if !ok {
				return left
			}
			p.advance()
			right := next()
			left = p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprBinOp, Span: p.span(start), Left: left, Op: p.strings.Intern(text), Right: right})
		}
	}
}

func (p *Parser) parseBitOr() pytree.ExprID {
	return p.binOpChain(p.parseBitXor, map[pytoken.Kind]string{pytoken.Pipe: "|"})()
}

func (p *Parser) parseBitXor() pytree.ExprID {
	return p.binOpChain(p.parseBitAnd, map[pytoken.Kind]string{pytoken.Caret: "^"})()
}

func (p *Parser) parseBitAnd() pytree.ExprID {
	return p.binOpChain(p.parseShift, map[pytoken.Kind]string{pytoken.Amp: "&"})()
}

func (p *Parser) parseShift() pytree.ExprID {
	return p.binOpChain(p.parseArith, map[pytoken.Kind]string{pytoken.Shl: "<<", pytoken.Shr: ">>"})()
}

func (p *Parser) parseArith() pytree.ExprID {
	return p.binOpChain(p.parseTerm, map[pytoken.Kind]string{pytoken.Plus: "+", pytoken.Minus: "-"})()
}

func (p *Parser) parseTerm() pytree.ExprID {
	return p.binOpChain(p.parseFactor, map[pytoken.Kind]string{
		pytoken.Star: "*", pytoken.Slash: "/", pytoken.DoubleSlash: "//",
		pytoken.Percent: "%", pytoken.At: "@",
	})()
}

func (p *Parser) parseFactor() pytree.ExprID {
	switch p.cur.Kind {
	case pytoken.Plus:
		start := p.advance()
		operand := p.parseFactor()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("+"), Operand: operand})
	case pytoken.Minus:
		start := p.advance()
		operand := p.parseFactor()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("-"), Operand: operand})
	case pytoken.Tilde:
		start := p.advance()
		operand := p.parseFactor()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("~"), Operand: operand})
	default:
		return p.parsePower()
	}
}

func (p *Parser) parsePower() pytree.ExprID {
	start := p.cur
	base := p.parseAwaitOrPostfix()
	if p.at(pytoken.DoubleStar) {
		p.advance()
		right := p.parseFactor()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprBinOp, Span: p.span(start), Left: base, Op: p.strings.Intern("**"), Right: right})
	}
	return base
}

func (p *Parser) parseAwaitOrPostfix() pytree.ExprID {
	if p.at(pytoken.KwAwait) {
		start := p.advance()
		operand := p.parsePostfix()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprUnaryOp, Span: p.span(start), Op: p.strings.Intern("await"), Operand: operand})
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() pytree.ExprID {
	start := p.cur
	expr := p.parseAtom()
	for {
		switch p.cur.Kind {
		case pytoken.Dot:
			p.advance()
			attr := p.internName(p.expect(pytoken.Ident))
			expr = p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprAttribute, Span: p.span(start), Value: expr, Attr: attr})
		case pytoken.LParen:
			args, kwargs := p.parseCallArgs()
			expr = p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprCall, Span: p.span(start), Func: expr, Args: args, Keywords: kwargs})
		case pytoken.LBracket:
			p.advance()
			slice := p.parseSubscript()
			p.expect(pytoken.RBracket)
			expr = p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprSubscript, Span: p.span(start), Value: expr, Slice: slice})
		default:
			return expr
		}
	}
}

// parseSubscript parses a slice/index expression. Full slice syntax
// (`a:b:c`) is lowered to a tuple expression of its present parts so
// downstream resolution only ever needs to walk Elts — the resolver has no
// notion of slice semantics, only of which names appear inside `[...]`.
func (p *Parser) parseSubscript() pytree.ExprID {
	start := p.cur
	var parts []pytree.ExprID
	if !p.at(pytoken.Colon) {
		parts = append(parts, p.parseExpr())
	}
	isSlice := false
	for p.at(pytoken.Colon) {
		isSlice = true
		p.advance()
		if p.atAny(pytoken.Colon, pytoken.RBracket, pytoken.Comma) {
			continue
		}
		parts = append(parts, p.parseExpr())
	}
	if !isSlice && len(parts) == 1 {
		return parts[0]
	}
	return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprTuple, Span: p.span(start), Elts: parts})
}

func (p *Parser) parseCallArgs() ([]pytree.ExprID, []pytree.Keyword) {
	p.expect(pytoken.LParen)
	var args []pytree.ExprID
	var kwargs []pytree.Keyword
	for !p.at(pytoken.RParen) {
		switch {
		case p.at(pytoken.DoubleStar):
			p.advance()
			val := p.parseExpr()
			kwargs = append(kwargs, pytree.Keyword{Name: pytree.NoNameID, Value: val})
		case p.at(pytoken.Star):
			start := p.advance()
			val := p.parseExpr()
			args = append(args, p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprStarred, Span: p.span(start), Value: val}))
		case p.at(pytoken.Ident) && p.next.Kind == pytoken.Assign:
			nameTok := p.advance()
			p.advance()
			val := p.parseExpr()
			kwargs = append(kwargs, pytree.Keyword{Name: p.internName(nameTok), Value: val})
		default:
			args = append(args, p.parseExprGeneratorOrExpr())
		}
		if p.at(pytoken.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(pytoken.RParen)
	return args, kwargs
}

// parseExprGeneratorOrExpr handles the single-argument bare generator
// expression shorthand `f(x for x in xs)` (no extra parens needed when it is
// the call's only argument).
func (p *Parser) parseExprGeneratorOrExpr() pytree.ExprID {
	start := p.cur
	e := p.parseExpr()
	if p.at(pytoken.KwFor) || p.at(pytoken.KwAsync) {
		gens := p.parseCompFor()
		return p.tree.NewExpr(pytree.Expr{Kind: pytree.ExprGeneratorExp, Span: p.span(start), Elt: e, Generators: gens})
	}
	return e
}
