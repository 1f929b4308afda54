package pyparse

import (
	"pysema/internal/pytoken"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// parseImport parses `import a.b.c [as d], e [as f]`.
func (p *Parser) parseImport() pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwImport)
	var aliases []pytree.ImportAlias
	aliases = append(aliases, p.parseDottedAsName())
	for p.at(pytoken.Comma) {
		p.advance()
		aliases = append(aliases, p.parseDottedAsName())
	}
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtImport, Span: p.span(start), Aliases: aliases})
}

func (p *Parser) parseDottedAsName() pytree.ImportAlias {
	path, firstSpan := p.parseDottedPath()
	bound := p.tree.NewName(path[0], firstSpan)
	var asName pytree.NameID
	if p.at(pytoken.KwAs) {
		p.advance()
		asTok := p.expect(pytoken.Ident)
		asName = p.internName(asTok)
	}
	return pytree.ImportAlias{Path: path, Name: bound, AsName: asName}
}

// parseDottedPath parses `a.b.c` and returns the interned StringID of each
// component plus the span of the first component (the one that becomes the
// bound local name for plain `import a.b.c`).
func (p *Parser) parseDottedPath() ([]source.StringID, source.Span) {
	var path []source.StringID
	tok := p.expect(pytoken.Ident)
	firstSpan := tok.Span
	path = append(path, p.strings.Intern(tok.Text))
	for p.at(pytoken.Dot) {
		p.advance()
		tok = p.expect(pytoken.Ident)
		path = append(path, p.strings.Intern(tok.Text))
	}
	return path, firstSpan
}

// parseFromImport parses `from [dots][module] import (names)` including the
// wildcard and relative forms.
func (p *Parser) parseFromImport() pytree.StmtID {
	start := p.cur
	p.expect(pytoken.KwFrom)

	dots := 0
	for p.at(pytoken.Dot) || p.at(pytoken.Ellipsis) {
		if p.at(pytoken.Ellipsis) {
			dots += 3
			p.advance()
			continue
		}
		dots++
		p.advance()
	}
	var module []source.StringID
	if p.at(pytoken.Ident) {
		module, _ = p.parseDottedPath()
	}
	p.expect(pytoken.KwImport)

	if p.at(pytoken.Star) {
		p.advance()
		return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtImportFrom, Span: p.span(start), Module: module, Dots: dots, IsWildcard: true})
	}

	paren := false
	if p.at(pytoken.LParen) {
		paren = true
		p.advance()
	}
	var aliases []pytree.ImportAlias
	aliases = append(aliases, p.parseImportAsName())
	for p.at(pytoken.Comma) {
		p.advance()
		if paren && p.at(pytoken.RParen) {
			break
		}
		aliases = append(aliases, p.parseImportAsName())
	}
	if paren {
		p.expect(pytoken.RParen)
	}
	return p.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtImportFrom, Span: p.span(start), Module: module, Dots: dots, Aliases: aliases})
}

func (p *Parser) parseImportAsName() pytree.ImportAlias {
	nameTok := p.expect(pytoken.Ident)
	name := p.internName(nameTok)
	var asName pytree.NameID
	if p.at(pytoken.KwAs) {
		p.advance()
		asTok := p.expect(pytoken.Ident)
		asName = p.internName(asTok)
	}
	return pytree.ImportAlias{Name: name, AsName: asName}
}
