package symtab

import (
	"testing"

	"pysema/internal/diag"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// buildWithBag runs a fixture's tree through a real Bag/BagReporter instead
// of fixture.build's NopReporter, so a test can assert on the §7 advisory
// diagnostics a Builder emits.
func (f *fixture) buildWithBag(body []pytree.StmtID, moduleFQN string) (*Table, []diag.Diagnostic) {
	f.t.Helper()
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	b := NewBuilder(f.tree, Hints{}, f.strings, moduleFQN, NopProvider{}, NopProvider{}, reporter)
	root := &pytree.File{Path: f.file, Body: body}
	table := b.Build(f.file, root, false)
	return table, bag.Items()
}

func hasCode(items []diag.Diagnostic, code diag.Code) bool {
	for _, d := range items {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Two `def f(...)` at module level produce an Ambiguous symbol (S1/S6) and
// must also raise SemaDuplicateSymbol (§7).
func TestTwoFunctionDeclarationsReportDuplicateSymbol(t *testing.T) {
	f := newFixture(t)
	first := f.funcDef("f", nil, nil)
	second := f.funcDef("f", []pytree.ParamID{f.param("a")}, nil)

	_, diags := f.buildWithBag([]pytree.StmtID{first, second}, "pkg.mod")

	if !hasCode(diags, diag.SemaDuplicateSymbol) {
		t.Fatalf("expected a SemaDuplicateSymbol diagnostic, got %+v", diags)
	}
}

// A plain module-level name reassigned twice without ever becoming a
// declaration stays Other but must raise SemaShadowSymbol (§7).
func TestReassignedVariableReportsShadowSymbol(t *testing.T) {
	f := newFixture(t)
	first := f.assign(f.nameExpr("x"), f.numberExpr("1"))
	second := f.assign(f.nameExpr("x"), f.numberExpr("2"))

	_, diags := f.buildWithBag([]pytree.StmtID{first, second}, "pkg.mod")

	if !hasCode(diags, diag.SemaShadowSymbol) {
		t.Fatalf("expected a SemaShadowSymbol diagnostic, got %+v", diags)
	}
}

// A wildcard import of a module the provider cannot resolve must raise
// SemaUnresolvedWildcard (§7) in addition to leaving Resolved=false.
func TestUnresolvedWildcardImportReportsDiagnostic(t *testing.T) {
	f := newFixture(t)
	importFrom := f.tree.NewStmt(pytree.Stmt{
		Kind:       pytree.StmtImportFrom,
		Module:     []source.StringID{f.strings.Intern("missing")},
		IsWildcard: true,
	})

	_, diags := f.buildWithBag([]pytree.StmtID{importFrom}, "pkg.mod")

	if !hasCode(diags, diag.SemaUnresolvedWildcard) {
		t.Fatalf("expected a SemaUnresolvedWildcard diagnostic, got %+v", diags)
	}
}

// A class whose base expression never resolves to a known class must raise
// SemaUnresolvedBaseClass (§7) in addition to setting HasUnresolvedHierarchy.
func TestUnresolvedBaseClassReportsDiagnostic(t *testing.T) {
	f := newFixture(t)
	classDef := f.classDef("C", []pytree.ExprID{f.nameExpr("Missing")}, nil)

	_, diags := f.buildWithBag([]pytree.StmtID{classDef}, "pkg.mod")

	if !hasCode(diags, diag.SemaUnresolvedBaseClass) {
		t.Fatalf("expected a SemaUnresolvedBaseClass diagnostic, got %+v", diags)
	}
}
