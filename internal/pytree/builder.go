package pytree

import "pysema/internal/source"

// Hints sizes the arenas' initial capacity; zero fields fall back to each
// arena's own default.
type Hints struct{ Files, Names, Params, Stmts, Exprs uint32 }

// Builder aggregates the arenas that make up one or more files' worth of
// tree. A lexer/parser pipeline is the typical caller; tests construct trees
// directly through it too, without going through internal/pylex or
// internal/pyparse at all.
type Builder struct {
	Files  *Files
	Names  *Names
	Params *Params
	Stmts  *Stmts
	Exprs  *Exprs
}

func NewBuilder(h Hints) *Builder {
	return &Builder{
		Files:  NewFiles(h.Files),
		Names:  NewNames(h.Names),
		Params: NewParams(h.Params),
		Stmts:  NewStmts(h.Stmts),
		Exprs:  NewExprs(h.Exprs),
	}
}

// NewName allocates an unresolved name occurrence for already-interned text.
func (b *Builder) NewName(text source.StringID, sp source.Span) NameID {
	return b.Names.New(NameNode{Text: text, Span: sp})
}

// SetSymbol is the resolver's one mutation point into an otherwise read-only
// tree: it writes the resolved symbol ID back onto a name occurrence.
func (b *Builder) SetSymbol(id NameID, sym uint32) {
	if n := b.Names.Get(id); n != nil {
		n.SetSymbol(sym)
	}
}

func (b *Builder) NewParam(p Param) ParamID { return b.Params.New(p) }

func (b *Builder) NewExpr(e Expr) ExprID { return b.Exprs.New(e) }

func (b *Builder) NewStmt(s Stmt) StmtID { return b.Stmts.New(s) }

func (b *Builder) NewFile(path source.FileID, body []StmtID) FileID {
	return b.Files.New(File{Path: path, Body: body})
}
