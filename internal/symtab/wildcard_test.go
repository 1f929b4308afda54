package symtab

import (
	"testing"

	"pysema/internal/diag"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// fakeModuleProvider answers SymbolsForModule for exactly one FQN, standing
// in for internal/stubs in tests that don't want to construct a real one.
type fakeModuleProvider struct {
	fqn     string
	exports []ExportedSymbol
}

func (p fakeModuleProvider) BuiltinSymbols() []ExportedSymbol { return nil }

func (p fakeModuleProvider) SymbolsForModule(fqn string) ([]ExportedSymbol, bool) {
	if fqn != p.fqn {
		return nil, false
	}
	return p.exports, true
}

// S5: `from pkg import *` against a provider that resolves pkg binds every
// exported name into the importing scope, each carrying the FQN the
// provider gives it (e.g. pkg.helper).
func TestWildcardImportBindsProviderExports(t *testing.T) {
	f := newFixture(t)
	importFrom := f.tree.NewStmt(pytree.Stmt{
		Kind:       pytree.StmtImportFrom,
		Module:     []source.StringID{f.strings.Intern("pkg")},
		IsWildcard: true,
	})

	provider := fakeModuleProvider{
		fqn: "pkg",
		exports: []ExportedSymbol{
			{Name: "helper", FQN: "pkg.helper", Kind: SymFunction},
			{Name: "Widget", FQN: "pkg.Widget", Kind: SymClass},
		},
	}

	b := NewBuilder(f.tree, Hints{}, f.strings, "mymod", provider, provider, diag.NopReporter{})
	root := &pytree.File{Path: f.file, Body: []pytree.StmtID{importFrom}}
	table := b.Build(f.file, root, false)

	helperID := f.findLocal(table, table.FileScope, "helper")
	if !helperID.IsValid() {
		t.Fatalf("expected helper bound via wildcard import")
	}
	helper := table.Symbols.Get(helperID)
	if helper.FullyQualifiedName != "pkg.helper" {
		t.Fatalf("expected FQN pkg.helper, got %q", helper.FullyQualifiedName)
	}

	widgetID := f.findLocal(table, table.FileScope, "Widget")
	if !widgetID.IsValid() {
		t.Fatalf("expected Widget bound via wildcard import")
	}

	if len(table.WildcardImports) != 1 {
		t.Fatalf("expected one recorded wildcard import, got %d", len(table.WildcardImports))
	}
	if !table.WildcardImports[0].Resolved {
		t.Fatalf("expected the wildcard import to be marked resolved")
	}
}

// Invariant 8 (idempotence): building the same tree twice from scratch
// produces equal-shaped results — same symbol count, same module-scope
// names — rather than accumulating duplicate usages across runs.
func TestBuildIsIdempotentAcrossFreshBuilders(t *testing.T) {
	f := newFixture(t)
	funcDef := f.funcDef("f", []pytree.ParamID{f.param("a")}, nil)
	assign := f.assign(f.nameExpr("x"), f.numberExpr("1"))
	body := []pytree.StmtID{funcDef, assign}

	b1 := NewBuilder(f.tree, Hints{}, f.strings, "pkg.mod", NopProvider{}, NopProvider{}, diag.NopReporter{})
	root := &pytree.File{Path: f.file, Body: body}
	table1 := b1.Build(f.file, root, false)

	b2 := NewBuilder(f.tree, Hints{}, f.strings, "pkg.mod", NopProvider{}, NopProvider{}, diag.NopReporter{})
	table2 := b2.Build(f.file, root, false)

	fID := f.findLocal(table1, table1.FileScope, "f")
	fID2 := f.findLocal(table2, table2.FileScope, "f")
	if !fID.IsValid() || !fID2.IsValid() {
		t.Fatalf("expected f bound in both builds")
	}
	sym1 := table1.Symbols.Get(fID)
	sym2 := table2.Symbols.Get(fID2)
	if len(sym1.Usages) != len(sym2.Usages) {
		t.Fatalf("expected equal usage counts across independent builds, got %d vs %d", len(sym1.Usages), len(sym2.Usages))
	}

	xID := f.findLocal(table1, table1.FileScope, "x")
	xID2 := f.findLocal(table2, table2.FileScope, "x")
	xSym1 := table1.Symbols.Get(xID)
	xSym2 := table2.Symbols.Get(xID2)
	if len(xSym1.Usages) != 1 || len(xSym2.Usages) != 1 {
		t.Fatalf("expected exactly one usage on x per build, got %d and %d", len(xSym1.Usages), len(xSym2.Usages))
	}
}
