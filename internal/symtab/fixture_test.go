package symtab

import (
	"testing"

	"pysema/internal/diag"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// fixture bundles the pieces a test needs to hand-build a small pytree and
// run the resolver over it, bypassing a lexer/parser entirely — exactly
// what pytree.Builder's own doc comment describes as its test-construction
// use case.
type fixture struct {
	t       *testing.T
	tree    *pytree.Builder
	strings *source.Interner
	file    source.FileID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		t:       t,
		tree:    pytree.NewBuilder(pytree.Hints{}),
		strings: source.NewInterner(),
		file:    source.FileID(1),
	}
}

func (f *fixture) span() source.Span { return source.Span{File: f.file} }

func (f *fixture) name(text string) pytree.NameID {
	return f.tree.NewName(f.strings.Intern(text), f.span())
}

func (f *fixture) nameExpr(text string) pytree.ExprID {
	return f.tree.NewExpr(pytree.Expr{Kind: pytree.ExprName, Name: f.name(text)})
}

func (f *fixture) numberExpr(text string) pytree.ExprID {
	return f.tree.NewExpr(pytree.Expr{Kind: pytree.ExprNumber, Literal: f.strings.Intern(text)})
}

func (f *fixture) floatExpr(text string) pytree.ExprID {
	return f.tree.NewExpr(pytree.Expr{Kind: pytree.ExprNumber, Literal: f.strings.Intern(text), IsFloat: true})
}

func (f *fixture) assign(target, value pytree.ExprID) pytree.StmtID {
	return f.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtAssign, Targets: []pytree.ExprID{target}, Value: value})
}

func (f *fixture) attr(value pytree.ExprID, attrName string) pytree.ExprID {
	return f.tree.NewExpr(pytree.Expr{Kind: pytree.ExprAttribute, Value: value, Attr: f.name(attrName)})
}

func (f *fixture) param(name string) pytree.ParamID {
	return f.tree.NewParam(pytree.Param{Kind: pytree.ParamPositional, Name: f.name(name)})
}

func (f *fixture) funcDef(name string, params []pytree.ParamID, body []pytree.StmtID) pytree.StmtID {
	return f.tree.NewStmt(pytree.Stmt{
		Kind: pytree.StmtFunctionDef, Name: f.name(name), Params: params, Body: body,
	})
}

func (f *fixture) classDef(name string, bases []pytree.ExprID, body []pytree.StmtID) pytree.StmtID {
	return f.tree.NewStmt(pytree.Stmt{
		Kind: pytree.StmtClassDef, Name: f.name(name), Bases: bases, Body: body,
	})
}

func (f *fixture) build(body []pytree.StmtID, moduleFQN string) (*Builder, *Table) {
	f.t.Helper()
	b := NewBuilder(f.tree, Hints{}, f.strings, moduleFQN, NopProvider{}, NopProvider{}, diag.NopReporter{})
	root := &pytree.File{Path: f.file, Body: body}
	table := b.Build(f.file, root, false)
	return b, table
}

func (f *fixture) symbolFor(table *Table, id pytree.NameID) *Symbol {
	f.t.Helper()
	n := f.tree.Names.Get(id)
	if n == nil || n.Symbol == 0 {
		return nil
	}
	return table.Symbols.Get(SymbolIDFromUint32(n.Symbol))
}

func (f *fixture) findLocal(table *Table, scope ScopeID, text string) SymbolID {
	f.t.Helper()
	sc := table.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID
	}
	id, _ := sc.nameIndex[f.strings.Intern(text)]
	return id
}
