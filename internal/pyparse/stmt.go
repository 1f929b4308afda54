package pyparse

import (
	"pysema/internal/pytoken"
	"pysema/internal/pytree"
)

// parseStatements reads statements until the current token is stop (EOF at
// module level, DEDENT at the end of a nested block).
func (p *Parser) parseStatements(stop pytoken.Kind) []pytree.StmtID {
	var body []pytree.StmtID
	p.skipNewlines()
	for !p.at(stop) && !p.at(pytoken.EOF) {
		body = append(body, p.parseStatement()...)
		p.skipNewlines()
	}
	return body
}

// parseBlock parses the suite after a trailing ':' — either an indented
// block or a same-line simple-statement list.
func (p *Parser) parseBlock() []pytree.StmtID {
	p.expect(pytoken.Colon)
	if p.at(pytoken.Newline) {
		p.advance()
		p.expect(pytoken.Indent)
		body := p.parseStatements(pytoken.Dedent)
		p.expect(pytoken.Dedent)
		return body
	}
	return p.parseSimpleStmtLine()
}

// parseStatement returns one or more statements: most constructs yield
// exactly one, but a simple-statement line can hold several separated by
// ';'.
func (p *Parser) parseStatement() []pytree.StmtID {
	switch p.cur.Kind {
	case pytoken.KwDef:
		return []pytree.StmtID{p.parseFuncDef(nil)}
	case pytoken.KwAsync:
		return []pytree.StmtID{p.parseAsyncStatement()}
	case pytoken.KwClass:
		return []pytree.StmtID{p.parseClassDef(nil)}
	case pytoken.At:
		return []pytree.StmtID{p.parseDecorated()}
	case pytoken.KwIf:
		return []pytree.StmtID{p.parseIf()}
	case pytoken.KwWhile:
		return []pytree.StmtID{p.parseWhile()}
	case pytoken.KwFor:
		return []pytree.StmtID{p.parseFor(false)}
	case pytoken.KwTry:
		return []pytree.StmtID{p.parseTry()}
	case pytoken.KwWith:
		return []pytree.StmtID{p.parseWith(false)}
	default:
		return p.parseSimpleStmtLine()
	}
}

// parseSimpleStmtLine parses `simple_stmt (';' simple_stmt)* NEWLINE`.
func (p *Parser) parseSimpleStmtLine() []pytree.StmtID {
	var out []pytree.StmtID
	out = append(out, p.parseSimpleStmt())
	for p.at(pytoken.Semicolon) {
		p.advance()
		if p.at(pytoken.Newline) || p.at(pytoken.EOF) {
			break
		}
		out = append(out, p.parseSimpleStmt())
	}
	if p.at(pytoken.Newline) {
		p.advance()
	}
	return out
}

func (p *Parser) parseSimpleStmt() pytree.StmtID {
	start := p.cur
	switch p.cur.Kind {
	case pytoken.KwPass:
		p.advance()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtPass, Span: p.span(start)})
	case pytoken.KwBreak:
		p.advance()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtBreak, Span: p.span(start)})
	case pytoken.KwContinue:
		p.advance()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtContinue, Span: p.span(start)})
	case pytoken.KwReturn:
		p.advance()
		var val pytree.ExprID
		if !p.atAny(pytoken.Newline, pytoken.Semicolon, pytoken.EOF) {
			val = p.parseExprList()
		}
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtReturn, Span: p.span(start), Value: val})
	case pytoken.KwRaise:
		p.advance()
		var val, cause pytree.ExprID
		if !p.atAny(pytoken.Newline, pytoken.Semicolon, pytoken.EOF) {
			val = p.parseExpr()
			if p.at(pytoken.KwFrom) {
				p.advance()
				cause = p.parseExpr()
			}
		}
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtRaise, Span: p.span(start), Value: val, Cause: cause})
	case pytoken.KwDel:
		p.advance()
		targets := p.parseTargetList()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtDelete, Span: p.span(start), Targets: targets})
	case pytoken.KwGlobal:
		p.advance()
		names := p.parseNameList()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtGlobal, Span: p.span(start), Names: names})
	case pytoken.KwNonlocal:
		p.advance()
		names := p.parseNameList()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtNonlocal, Span: p.span(start), Names: names})
	case pytoken.KwImport:
		return p.parseImport()
	case pytoken.KwFrom:
		return p.parseFromImport()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseAsyncStatement dispatches the three constructs `async` can prefix:
// `async def`, `async for`, `async with`.
func (p *Parser) parseAsyncStatement() pytree.StmtID {
	switch p.next.Kind {
	case pytoken.KwFor:
		p.advance()
		return p.parseFor(true)
	case pytoken.KwWith:
		p.advance()
		return p.parseWith(true)
	default:
		return p.parseFuncDef(nil)
	}
}

func (p *Parser) parseNameList() []pytree.NameID {
	var out []pytree.NameID
	out = append(out, p.internName(p.expect(pytoken.Ident)))
	for p.at(pytoken.Comma) {
		p.advance()
		out = append(out, p.internName(p.expect(pytoken.Ident)))
	}
	return out
}

func (p *Parser) parseTargetList() []pytree.ExprID {
	var out []pytree.ExprID
	out = append(out, p.parseExpr())
	for p.at(pytoken.Comma) {
		p.advance()
		if p.atAny(pytoken.Newline, pytoken.Semicolon, pytoken.EOF) {
			break
		}
		out = append(out, p.parseExpr())
	}
	return out
}

// parseExprOrAssignStmt handles plain expression statements and every
// assignment form: simple (`a = b`), chained (`a = b = c`), augmented
// (`a += b`), annotated (`a: T` / `a: T = b`), and a bare walrus/expr.
func (p *Parser) parseExprOrAssignStmt() pytree.StmtID {
	start := p.cur
	first := p.parseExprList()

	if p.at(pytoken.Colon) {
		p.advance()
		ann := p.parseExpr()
		var val pytree.ExprID
		if p.at(pytoken.Assign) {
			p.advance()
			val = p.parseExprList()
		}
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtAnnAssign, Span: p.span(start), Target: first, Annotation: ann, Value: val})
	}

	if augOp, ok := augAssignOp(p.cur.Kind); ok {
		p.advance()
		val := p.parseExprList()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtAugAssign, Span: p.span(start), Target: first, Op: p.strings.Intern(augOp), Value: val})
	}

	if p.at(pytoken.Assign) {
		targets := []pytree.ExprID{first}
		var val pytree.ExprID
		for p.at(pytoken.Assign) {
			p.advance()
			val = p.parseExprList()
			targets = append(targets, val)
		}
		// The last parsed expression is the value; everything before it
		// (including `first`) is a target of the chained assignment.
		value := targets[len(targets)-1]
		targets = targets[:len(targets)-1]
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtAssign, Span: p.span(start), Targets: targets, Value: value})
	}

	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtExpr, Span: p.span(start), Value: first})
}

func augAssignOp(k pytoken.Kind) (string, bool) {
	switch k {
	case pytoken.PlusAssign:
		return "+=", true
	case pytoken.MinusAssign:
		return "-=", true
	case pytoken.StarAssign:
		return "*=", true
	case pytoken.SlashAssign:
		return "/=", true
	case pytoken.DoubleSlashAssign:
		return "//=", true
	case pytoken.PercentAssign:
		return "%=", true
	case pytoken.DoubleStarAssign:
		return "**=", true
	case pytoken.AmpAssign:
		return "&=", true
	case pytoken.PipeAssign:
		return "|=", true
	case pytoken.CaretAssign:
		return "^=", true
	case pytoken.ShlAssign:
		return "<<=", true
	case pytoken.ShrAssign:
		return ">>=", true
	case pytoken.AtAssign:
		return "@=", true
	default:
		return "", false
	}
}
