package pyparse

import (
	"testing"

	"pysema/internal/diag"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

func parseSource(t *testing.T, src string) (*pytree.Builder, *pytree.File) {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.py", []byte(src))
	f := fs.Get(fid)

	tree := pytree.NewBuilder(pytree.Hints{})
	strings := source.NewInterner()
	p := New(f, tree, strings, diag.NopReporter{})
	result := p.ParseFile()
	if !result.Complete {
		t.Fatalf("parse did not complete for %q", src)
	}
	return tree, tree.Files.Get(result.File)
}

func TestParseSimpleAssign(t *testing.T) {
	tree, file := parseSource(t, "x = 1\n")
	if len(file.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(file.Body))
	}
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtAssign {
		t.Fatalf("expected StmtAssign, got %v", stmt.Kind)
	}
	if len(stmt.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(stmt.Targets))
	}
}

func TestParseChainedAssign(t *testing.T) {
	tree, file := parseSource(t, "a = b = 1\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtAssign {
		t.Fatalf("expected StmtAssign, got %v", stmt.Kind)
	}
	if len(stmt.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(stmt.Targets))
	}
}

func TestParseFuncDef(t *testing.T) {
	tree, file := parseSource(t, "def f(x, y=1, *args, **kw):\n    return x\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtFunctionDef {
		t.Fatalf("expected StmtFunctionDef, got %v", stmt.Kind)
	}
	if len(stmt.Params) != 4 {
		t.Fatalf("expected 4 params, got %d", len(stmt.Params))
	}
	if len(stmt.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(stmt.Body))
	}
}

func TestParseClassDefWithBases(t *testing.T) {
	tree, file := parseSource(t, "class C(Base1, Base2):\n    x = 1\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtClassDef {
		t.Fatalf("expected StmtClassDef, got %v", stmt.Kind)
	}
	if len(stmt.Bases) != 2 {
		t.Fatalf("expected 2 bases, got %d", len(stmt.Bases))
	}
}

func TestParseImportForms(t *testing.T) {
	tree, file := parseSource(t, "import a.b as c\nfrom . import x\nfrom pkg import *\n")
	if len(file.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(file.Body))
	}

	imp := tree.Stmts.Get(file.Body[0])
	if imp.Kind != pytree.StmtImport || len(imp.Aliases) != 1 {
		t.Fatalf("expected 1-alias StmtImport, got %+v", imp)
	}
	if len(imp.Aliases[0].Path) != 2 {
		t.Fatalf("expected dotted path of length 2, got %v", imp.Aliases[0].Path)
	}

	rel := tree.Stmts.Get(file.Body[1])
	if rel.Kind != pytree.StmtImportFrom || rel.Dots != 1 {
		t.Fatalf("expected relative from-import with 1 dot, got %+v", rel)
	}

	wild := tree.Stmts.Get(file.Body[2])
	if wild.Kind != pytree.StmtImportFrom || !wild.IsWildcard {
		t.Fatalf("expected wildcard from-import, got %+v", wild)
	}
}

func TestParseIfElifElse(t *testing.T) {
	tree, file := parseSource(t, "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtIf {
		t.Fatalf("expected StmtIf, got %v", stmt.Kind)
	}
	if len(stmt.Body) != 1 || len(stmt.OrElse) != 1 {
		t.Fatalf("expected 1 body/1 orelse statement, got %d/%d", len(stmt.Body), len(stmt.OrElse))
	}
	elif := tree.Stmts.Get(stmt.OrElse[0])
	if elif.Kind != pytree.StmtIf {
		t.Fatalf("expected elif to desugar to nested StmtIf, got %v", elif.Kind)
	}
}

func TestParseForWithElse(t *testing.T) {
	tree, file := parseSource(t, "for x in xs:\n    pass\nelse:\n    pass\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtFor {
		t.Fatalf("expected StmtFor, got %v", stmt.Kind)
	}
	if len(stmt.OrElse) != 1 {
		t.Fatalf("expected 1 orelse statement, got %d", len(stmt.OrElse))
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	tree, file := parseSource(t, "try:\n    f()\nexcept Exception as e:\n    pass\nfinally:\n    g()\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtTry {
		t.Fatalf("expected StmtTry, got %v", stmt.Kind)
	}
	if len(stmt.Handlers) != 1 {
		t.Fatalf("expected 1 handler, got %d", len(stmt.Handlers))
	}
	if !stmt.Handlers[0].Name.IsValid() {
		t.Fatalf("expected handler to bind a name")
	}
	if len(stmt.Finally) != 1 {
		t.Fatalf("expected 1 finally statement, got %d", len(stmt.Finally))
	}
}

func TestParseWithMultipleItems(t *testing.T) {
	tree, file := parseSource(t, "with a() as x, b() as y:\n    pass\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if stmt.Kind != pytree.StmtWith {
		t.Fatalf("expected StmtWith, got %v", stmt.Kind)
	}
	if len(stmt.Items) != 2 {
		t.Fatalf("expected 2 with-items, got %d", len(stmt.Items))
	}
}

func TestParseListComprehension(t *testing.T) {
	tree, file := parseSource(t, "y = [x for x in xs if x]\n")
	stmt := tree.Stmts.Get(file.Body[0])
	value := tree.Exprs.Get(stmt.Value)
	if value.Kind != pytree.ExprListComp {
		t.Fatalf("expected ExprListComp, got %v", value.Kind)
	}
	if len(value.Generators) != 1 || len(value.Generators[0].Ifs) != 1 {
		t.Fatalf("expected 1 generator with 1 if-clause, got %+v", value.Generators)
	}
}

func TestParseLambdaAndTernary(t *testing.T) {
	tree, file := parseSource(t, "f = lambda x, y=1: x if y else 0\n")
	stmt := tree.Stmts.Get(file.Body[0])
	value := tree.Exprs.Get(stmt.Value)
	if value.Kind != pytree.ExprLambda {
		t.Fatalf("expected ExprLambda, got %v", value.Kind)
	}
	if len(value.Params) != 2 {
		t.Fatalf("expected 2 lambda params, got %d", len(value.Params))
	}
	body := tree.Exprs.Get(value.Body)
	if body.Kind != pytree.ExprIfExp {
		t.Fatalf("expected lambda body to be a ternary, got %v", body.Kind)
	}
}

func TestParseGlobalNonlocal(t *testing.T) {
	_, file := parseSource(t, "global a, b\nnonlocal c\n")
	if len(file.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Body))
	}
}

func TestParseAugAssignAndAnnAssign(t *testing.T) {
	tree, file := parseSource(t, "x += 1\ny: int = 2\n")
	aug := tree.Stmts.Get(file.Body[0])
	if aug.Kind != pytree.StmtAugAssign {
		t.Fatalf("expected StmtAugAssign, got %v", aug.Kind)
	}
	ann := tree.Stmts.Get(file.Body[1])
	if ann.Kind != pytree.StmtAnnAssign || !ann.Annotation.IsValid() || !ann.Value.IsValid() {
		t.Fatalf("expected StmtAnnAssign with annotation and value, got %+v", ann)
	}
}

func TestParseTupleParamDestructuring(t *testing.T) {
	tree, file := parseSource(t, "def f(a, (b, c)):\n    pass\n")
	stmt := tree.Stmts.Get(file.Body[0])
	if len(stmt.Params) != 2 {
		t.Fatalf("expected 2 top-level params, got %d", len(stmt.Params))
	}
	tupleParam := tree.Params.Get(stmt.Params[1])
	if tupleParam.Kind != pytree.ParamTuple || len(tupleParam.SubParams) != 2 {
		t.Fatalf("expected a 2-element tuple param, got %+v", tupleParam)
	}
}

func TestParseAsyncForAndWith(t *testing.T) {
	tree, file := parseSource(t, "async def f():\n    async for x in xs:\n        pass\n    async with a() as y:\n        pass\n")
	def := tree.Stmts.Get(file.Body[0])
	if !def.IsAsync {
		t.Fatalf("expected IsAsync on def, got %+v", def)
	}
	forStmt := tree.Stmts.Get(def.Body[0])
	if forStmt.Kind != pytree.StmtFor {
		t.Fatalf("expected nested StmtFor, got %v", forStmt.Kind)
	}
	withStmt := tree.Stmts.Get(def.Body[1])
	if withStmt.Kind != pytree.StmtWith {
		t.Fatalf("expected nested StmtWith, got %v", withStmt.Kind)
	}
}
