package symtab

import (
	"testing"

	"pysema/internal/pytree"
)

// x = 1 must infer TagInt (§4.6's literal-kind rule).
func TestIntLiteralInfersTagInt(t *testing.T) {
	f := newFixture(t)
	value := f.numberExpr("1")
	assign := f.assign(f.nameExpr("x"), value)

	_, table := f.build([]pytree.StmtID{assign}, "pkg.mod")

	got := table.ExprTypes[value]
	if !got.CanOnlyBe(TagInt) {
		t.Fatalf("expected TagInt, got %+v", got)
	}
}

// x = 3.14 must infer TagFloat, not TagInt: the parser preserves the
// pytoken.Float/pytoken.Int distinction pylex's scanner already makes.
func TestFloatLiteralInfersTagFloat(t *testing.T) {
	f := newFixture(t)
	value := f.floatExpr("3.14")
	assign := f.assign(f.nameExpr("x"), value)

	_, table := f.build([]pytree.StmtID{assign}, "pkg.mod")

	got := table.ExprTypes[value]
	if !got.CanOnlyBe(TagFloat) {
		t.Fatalf("expected TagFloat, got %+v", got)
	}
	if got.CanOnlyBe(TagInt) {
		t.Fatalf("float literal must not also be reported as TagInt")
	}
}

// y: float = 1.5 's annotation must resolve to TagFloat via the
// builtinAnnotationTag table, and the target takes the declared type.
func TestFloatAnnotationInfersTagFloat(t *testing.T) {
	f := newFixture(t)
	target := f.nameExpr("y")
	annotation := f.nameExpr("float")
	annAssign := f.tree.NewStmt(pytree.Stmt{
		Kind: pytree.StmtAnnAssign, Target: target, Annotation: annotation, Value: f.floatExpr("1.5"),
	})

	_, table := f.build([]pytree.StmtID{annAssign}, "pkg.mod")

	got := table.ExprTypes[target]
	if !got.CanOnlyBe(TagFloat) {
		t.Fatalf("expected TagFloat from annotation, got %+v", got)
	}
}

// A bare `def f(): pass` reference resolves to a callable type, per
// symbolType's Function case.
func TestFunctionNameInfersCallable(t *testing.T) {
	f := newFixture(t)
	def := f.funcDef("f", nil, nil)
	ref := f.nameExpr("f")
	use := f.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtExpr, Value: ref})

	_, table := f.build([]pytree.StmtID{def, use}, "pkg.mod")

	got := table.ExprTypes[ref]
	if !got.CanOnlyBe(TagCallable) {
		t.Fatalf("expected TagCallable, got %+v", got)
	}
}

// Calling a class constructs an instance of it (callType's class case).
func TestClassCallInfersInstance(t *testing.T) {
	f := newFixture(t)
	classDef := f.classDef("C", nil, nil)
	call := f.tree.NewExpr(pytree.Expr{Kind: pytree.ExprCall, Func: f.nameExpr("C")})
	use := f.tree.NewStmt(pytree.Stmt{Kind: pytree.StmtExpr, Value: call})

	_, table := f.build([]pytree.StmtID{classDef, use}, "pkg.mod")

	got := table.ExprTypes[call]
	if !got.known || got.Tag != TagInstance {
		t.Fatalf("expected a known TagInstance, got %+v", got)
	}
}
