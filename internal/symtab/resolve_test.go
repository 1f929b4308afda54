package symtab

import (
	"testing"

	"pysema/internal/pytree"
	"pysema/internal/source"
)

// S1: def f(): pass  followed by  f = 3  produces one ambiguous top-level
// symbol with Function/Other alternatives.
func TestRebindingProducesAmbiguousSymbol(t *testing.T) {
	f := newFixture(t)
	funcDef := f.funcDef("f", nil, nil)
	target := f.nameExpr("f")
	assign := f.assign(target, f.numberExpr("3"))

	_, table := f.build([]pytree.StmtID{funcDef, assign}, "pkg.mod")

	fdef := f.tree.Stmts.Get(funcDef)
	sym := f.symbolFor(table, fdef.Name)
	if sym == nil {
		t.Fatalf("expected f to resolve to a symbol")
	}
	if sym.Kind != SymAmbiguous {
		t.Fatalf("expected Ambiguous, got %v", sym.Kind)
	}
	if len(sym.Ambiguous.Alternatives) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(sym.Ambiguous.Alternatives))
	}
	var sawFunction, sawOther bool
	for _, altID := range sym.Ambiguous.Alternatives {
		alt := table.Symbols.Get(altID)
		switch alt.Kind {
		case SymFunction:
			sawFunction = true
		case SymOther:
			sawOther = true
		}
	}
	if !sawFunction || !sawOther {
		t.Fatalf("expected one Function and one Other alternative, got %+v", sym.Ambiguous.Alternatives)
	}
}

// S2: class C: def __init__(self): self.x = 1 — C.members == {__init__, x}
// and x's usages include the self.x assignment.
func TestMethodInstanceAttributeBecomesClassMember(t *testing.T) {
	f := newFixture(t)
	selfParam := f.param("self")
	selfAttr := f.attr(f.nameExpr("self"), "x")
	assignX := f.assign(selfAttr, f.numberExpr("1"))
	initDef := f.funcDef("__init__", []pytree.ParamID{selfParam}, []pytree.StmtID{assignX})
	classDef := f.classDef("C", nil, []pytree.StmtID{initDef})

	_, table := f.build([]pytree.StmtID{classDef}, "pkg.mod")

	cdef := f.tree.Stmts.Get(classDef)
	classSym := f.symbolFor(table, cdef.Name)
	if classSym == nil || classSym.Kind != SymClass {
		t.Fatalf("expected C to resolve to a class symbol, got %+v", classSym)
	}
	if _, ok := classSym.Class.Members[f.strings.Intern("__init__")]; !ok {
		t.Fatalf("expected __init__ in members")
	}
	xID, ok := classSym.Class.Members[f.strings.Intern("x")]
	if !ok {
		t.Fatalf("expected x in members")
	}
	xSym := table.Symbols.Get(xID)
	if xSym == nil {
		t.Fatalf("expected x symbol to exist")
	}
	var sawAssignLHS bool
	for _, u := range xSym.Usages {
		if u.Kind == UsageAssignmentLHS {
			sawAssignLHS = true
		}
	}
	if !sawAssignLHS {
		t.Fatalf("expected x's usages to include the self.x assignment, got %+v", xSym.Usages)
	}
}

// S3: x = 1 at module scope; def f(): global x; x = 2 — one module-scope
// symbol x with two ASSIGNMENT_LHS usages, and f's own scope never binds x.
func TestGlobalRedirectsToModuleScope(t *testing.T) {
	f := newFixture(t)
	moduleAssign := f.assign(f.nameExpr("x"), f.numberExpr("1"))
	globalStmt := f.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtGlobal, Names: []pytree.NameID{f.name("x")}})
	innerAssign := f.assign(f.nameExpr("x"), f.numberExpr("2"))
	funcDef := f.funcDef("f", nil, []pytree.StmtID{globalStmt, innerAssign})

	b, table := f.build([]pytree.StmtID{moduleAssign, funcDef}, "pkg.mod")

	xID := f.findLocal(table, table.FileScope, "x")
	if !xID.IsValid() {
		t.Fatalf("expected x bound in module scope")
	}
	sym := table.Symbols.Get(xID)
	count := 0
	for _, u := range sym.Usages {
		if u.Kind == UsageAssignmentLHS {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 assignment usages on module x, got %d", count)
	}

	fScope := b.stmtScopes[funcDef]
	if fScope.IsValid() {
		if id := f.findLocal(table, fScope, "x"); id.IsValid() {
			t.Fatalf("expected f's own scope to have no local x binding")
		}
	}
}

// S4: file pkg/sub/mod.py with `from ..other import q` binds q with FQN
// "pkg.other.q".
func TestRelativeImportResolvesFQN(t *testing.T) {
	f := newFixture(t)
	importFrom := f.tree.NewStmt(pytree.Stmt{
		Kind:   pytree.StmtImportFrom,
		Dots:   2,
		Module: []source.StringID{f.strings.Intern("other")},
		Aliases: []pytree.ImportAlias{
			{Name: f.name("q")},
		},
	})

	_, table := f.build([]pytree.StmtID{importFrom}, "pkg.sub.mod")

	qID := f.findLocal(table, table.FileScope, "q")
	if !qID.IsValid() {
		t.Fatalf("expected q bound in module scope")
	}
	sym := table.Symbols.Get(qID)
	if sym.FullyQualifiedName != "pkg.other.q" {
		t.Fatalf("expected FQN pkg.other.q, got %q", sym.FullyQualifiedName)
	}
}

// S6: two `def f(...)` at module level produce one ambiguous f with two
// function alternatives, each reflecting its own parameter list.
func TestTwoFunctionDeclarationsProduceAmbiguousAlternatives(t *testing.T) {
	f := newFixture(t)
	firstDef := f.funcDef("f", []pytree.ParamID{f.param("a")}, nil)
	secondDef := f.funcDef("f", []pytree.ParamID{f.param("a"), f.param("b")}, nil)

	_, table := f.build([]pytree.StmtID{firstDef, secondDef}, "pkg.mod")

	firstStmt := f.tree.Stmts.Get(firstDef)
	sym := f.symbolFor(table, firstStmt.Name)
	if sym == nil || sym.Kind != SymAmbiguous {
		t.Fatalf("expected Ambiguous, got %+v", sym)
	}
	if len(sym.Ambiguous.Alternatives) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(sym.Ambiguous.Alternatives))
	}
	var sawOneParam, sawTwoParams bool
	for _, altID := range sym.Ambiguous.Alternatives {
		alt := table.Symbols.Get(altID)
		if alt.Kind != SymFunction {
			t.Fatalf("expected both alternatives to be Function, got %v", alt.Kind)
		}
		switch len(alt.Function.Params) {
		case 1:
			sawOneParam = true
		case 2:
			sawTwoParams = true
		}
	}
	if !sawOneParam || !sawTwoParams {
		t.Fatalf("expected one 1-param and one 2-param alternative")
	}
}

// Default-value scoping: a name read in a parameter default resolves in the
// function's enclosing scope, never its own.
func TestParamDefaultResolvesInEnclosingScope(t *testing.T) {
	f := newFixture(t)
	moduleAssign := f.assign(f.nameExpr("n"), f.numberExpr("10"))
	defaultParam := f.tree.NewParam(pytree.Param{Kind: pytree.ParamPositional, Name: f.name("count"), Default: f.nameExpr("n")})
	funcDef := f.funcDef("f", []pytree.ParamID{defaultParam}, nil)

	_, table := f.build([]pytree.StmtID{moduleAssign, funcDef}, "pkg.mod")

	nID := f.findLocal(table, table.FileScope, "n")
	if !nID.IsValid() {
		t.Fatalf("expected n bound in module scope")
	}
	sym := table.Symbols.Get(nID)
	var sawRead bool
	for _, u := range sym.Usages {
		if u.Kind == UsageOther {
			sawRead = true
		}
	}
	if !sawRead {
		t.Fatalf("expected the default value's read of n to resolve against module n")
	}
}

// A cyclic base hierarchy (class A(B): pass / class B(A): pass) must not
// send ResolveMember into infinite recursion; an absent member resolves to
// "unknown" (§9 Design Notes: "Cyclic ownership").
func TestResolveMemberTerminatesOnCyclicBases(t *testing.T) {
	f := newFixture(t)
	classA := f.classDef("A", []pytree.ExprID{f.nameExpr("B")}, nil)
	classB := f.classDef("B", []pytree.ExprID{f.nameExpr("A")}, nil)

	_, table := f.build([]pytree.StmtID{classA, classB}, "pkg.mod")

	aDef := f.tree.Stmts.Get(classA)
	aSym := f.symbolFor(table, aDef.Name)
	if aSym == nil || aSym.Kind != SymClass {
		t.Fatalf("expected A to resolve to a class symbol, got %+v", aSym)
	}

	id, known := aSym.Class.ResolveMember(table.Symbols, f.strings.Intern("nope"))
	if id.IsValid() {
		t.Fatalf("expected no symbol for an absent member, got %v", id)
	}
	if known {
		t.Fatalf("expected a cyclic hierarchy to report unknown, not known-absent")
	}
}

// Comprehension scoping: the outermost iterable resolves in the enclosing
// scope, not the comprehension's own.
func TestComprehensionOutermostIterableResolvesOutside(t *testing.T) {
	f := newFixture(t)
	moduleAssign := f.assign(f.nameExpr("items"), f.numberExpr("0"))
	comp := f.tree.NewExpr(pytree.Expr{
		Kind: pytree.ExprListComp,
		Elt:  f.nameExpr("x"),
		Generators: []pytree.Comprehension{
			{Target: f.nameExpr("x"), Iter: f.nameExpr("items")},
		},
	})
	exprStmt := f.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtExpr, Value: comp})

	_, table := f.build([]pytree.StmtID{moduleAssign, exprStmt}, "pkg.mod")

	itemsID := f.findLocal(table, table.FileScope, "items")
	if !itemsID.IsValid() {
		t.Fatalf("expected items bound in module scope")
	}
	sym := table.Symbols.Get(itemsID)
	var sawRead bool
	for _, u := range sym.Usages {
		if u.Kind == UsageOther {
			sawRead = true
		}
	}
	if !sawRead {
		t.Fatalf("expected the comprehension's outer iterable read to resolve against module items")
	}
}
