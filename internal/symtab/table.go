package symtab

import (
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// WildcardImport records one `from M import *` statement's resolution
// status, per §4.3's soft-failure handling: downstream rules consult
// Resolved to decide whether to suppress unresolved-name complaints that
// might really be hiding in the wildcard.
type WildcardImport struct {
	Stmt     *pytree.Stmt
	Module   string
	Resolved bool
}

// Hints sizes the scope/symbol arenas' initial capacity.
type Hints struct{ Scopes, Symbols uint32 }

// Table aggregates the scope and symbol arenas produced for one file. It is
// the read side of a Builder: once Build has run, a Table is safe to read
// from multiple goroutines (nothing in it is mutated further, §3 Lifecycle).
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	FileScope ScopeID

	// ModuleFQN is "<package>.<moduleName>" per §4.2's FQN rules.
	ModuleFQN string

	WildcardImports []WildcardImport

	// ExprTypes holds the InferredType computed by C6 for every expression
	// visited; absent entries are treated as Any.
	ExprTypes map[pytree.ExprID]InferredType

	// LocalsByStmt / LocalsByExpr are C5's "surfaced back onto the tree
	// anchor" publication (§4.5): a function-def/class-def's own locals, and
	// a lambda/comprehension's own locals, in insertion order. pytree nodes
	// themselves carry no such field (the only mutation point pytree exposes
	// is a name's Symbol slot), so the anchor is the Stmt/Expr ID rather
	// than a field on the node.
	LocalsByStmt map[pytree.StmtID][]SymbolID
	LocalsByExpr map[pytree.ExprID][]SymbolID
}

func newTable(h Hints, strings *source.Interner, moduleFQN string) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:    newScopes(h.Scopes),
		Symbols:   newSymbols(h.Symbols),
		Strings:   strings,
		ModuleFQN:    moduleFQN,
		ExprTypes:    make(map[pytree.ExprID]InferredType),
		LocalsByStmt: make(map[pytree.StmtID][]SymbolID),
		LocalsByExpr: make(map[pytree.ExprID][]SymbolID),
	}
}

// GlobalVariables returns the file-input scope's locals — the symbols
// spec.md's §6 "Produced" section calls globalVariables().
func (t *Table) GlobalVariables() []SymbolID {
	if scope := t.Scopes.Get(t.FileScope); scope != nil {
		return scope.Locals()
	}
	return nil
}
