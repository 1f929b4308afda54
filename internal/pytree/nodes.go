package pytree

import "pysema/internal/source"

// NameNode is every identifier occurrence in the tree: a binding target
// (`x = 1`, `def f():`, a parameter, an import alias) or a read (`x`, `f()`).
// Symbol is the mutable slot the resolver fills in during its passes; it
// holds a symtab.SymbolID encoded as a plain uint32 so this package does not
// need to import symtab. Zero means "not yet resolved."
type NameNode struct {
	Text   source.StringID
	Span   source.Span
	Symbol uint32
}

// SetSymbol is the single mutation point a resolver is allowed to perform on
// an otherwise read-only tree.
func (n *NameNode) SetSymbol(id uint32) { n.Symbol = id }

// Keyword is a `name=value` call argument, or a `**value` / bare `value` when
// Name is not valid.
type Keyword struct {
	Name  NameID
	Value ExprID
}

// Comprehension is one `for target in iter [if cond]*` clause of a list/set/
// dict/generator comprehension.
type Comprehension struct {
	Target  ExprID
	Iter    ExprID
	Ifs     []ExprID
	IsAsync bool
}

// WithItem is one `expr [as target]` clause of a `with` statement.
type WithItem struct {
	ContextExpr ExprID
	OptionalVar ExprID // NoExprID if there is no `as` clause
}

// ExceptHandler is one `except [type] [as name]:` clause.
type ExceptHandler struct {
	Span   source.Span
	Type   ExprID // NoExprID for a bare `except:`
	Name   NameID // NoNameID when there is no `as name`
	Body   []StmtID
}

// ImportAlias is one `module [as asname]` or `name [as asname]` clause of an
// import statement.
type ImportAlias struct {
	// Path holds the dotted module path, e.g. ["pkg", "sub"] for `pkg.sub`.
	// For `from . import x` entries Path is empty and Dots/Name carry the
	// reference instead.
	Path  []source.StringID
	Name  NameID // for `import x`: the bound name; for `from m import x`: x
	AsName NameID // NoNameID when there is no `as` clause
}

// Param is one parameter of a function or lambda signature.
type Param struct {
	Kind       ParamKind
	Name       NameID
	Annotation ExprID // NoExprID if absent
	Default    ExprID // NoExprID if absent
	// SubParams holds the nested parameters for ParamTuple, e.g. (a, (b, c)).
	SubParams []ParamID
}

// Expr is a single expression node. Only the fields relevant to Kind are
// populated; the rest are zero value.
type Expr struct {
	Kind ExprKind
	Span source.Span

	// ExprName
	Name NameID

	// ExprNumber / ExprString / ExprBytes: the literal text as written,
	// interned (no numeric/string-escape evaluation is performed).
	Literal source.StringID

	// ExprNumber: true when the token was scanned as pytoken.Float (a
	// decimal point, exponent, or imaginary suffix present in the source
	// text), false for pytoken.Int.
	IsFloat bool

	// ExprBool: true/false. ExprNone/ExprEllipsis carry no payload.
	BoolValue bool

	// ExprList / ExprSet / ExprTuple: element list.
	// ExprBoolOp: operand list (`a and b and c`).
	Elts []ExprID

	// ExprDict: Keys[i] may be NoExprID for a `**value` spread, in which
	// case Values[i] is the spread expression.
	Keys   []ExprID
	Values []ExprID

	// ExprAttribute: Value.Attr
	Value ExprID
	Attr  NameID

	// ExprSubscript: Value[Slice]
	Slice ExprID

	// ExprCall: Func(Args, Keywords...)
	Func     ExprID
	Args     []ExprID
	Keywords []Keyword

	// ExprBinOp / ExprCompare
	Left  ExprID
	Op    source.StringID
	Right ExprID
	// ExprCompare: chained comparisons `a < b < c` store extra (op, right)
	// pairs here beyond the first, which uses Op/Right above.
	CompareOps    []source.StringID
	CompareRights []ExprID

	// ExprUnaryOp
	Operand ExprID

	// ExprLambda
	Params []ParamID
	Body   ExprID

	// ExprIfExp: Body if Test else OrElse
	Test   ExprID
	OrElse ExprID

	// ExprListComp / ExprSetComp / ExprGeneratorExp: Elt over Generators.
	// ExprDictComp: Keys[0]/Values[0] over Generators.
	Elt        ExprID
	Generators []Comprehension

	// ExprStarred: *Value
	// ExprNamedExpr: Name := Value
}

// Stmt is a single statement node. Only the fields relevant to Kind are
// populated.
type Stmt struct {
	Kind StmtKind
	Span source.Span

	// StmtExpr
	Value ExprID

	// StmtAssign: Targets = Value (Targets has >1 entry for chained
	// assignment `a = b = value`; each target may itself be a tuple/list
	// expression for destructuring).
	Targets []ExprID

	// StmtAugAssign: Target Op= Value
	// StmtAnnAssign: Target: Annotation [= Value]
	Target     ExprID
	Op         source.StringID
	Annotation ExprID

	// StmtFunctionDef / StmtClassDef
	Name       NameID
	Params     []ParamID
	Bases      []ExprID // StmtClassDef only
	Keywords   []Keyword
	Decorators []ExprID
	Returns    ExprID // StmtFunctionDef only, annotation
	IsAsync    bool
	Body       []StmtID

	// StmtImport: one alias per `import a.b, c as d`.
	// StmtImportFrom: Module is the `from` target; Dots counts leading
	// dots for relative imports (`from . import x` => Dots=1, Module
	// empty); IsWildcard is set for `from m import *`.
	Aliases    []ImportAlias
	Module     []source.StringID
	Dots       int
	IsWildcard bool

	// StmtFor: Target in Iter: Body else: OrElse
	Iter   ExprID
	OrElse []StmtID

	// StmtWhile / StmtIf: Test: Body else: OrElse
	Test ExprID

	// StmtWith
	Items []WithItem

	// StmtTry
	Handlers []ExceptHandler
	Finally  []StmtID

	// StmtGlobal / StmtNonlocal
	Names []NameID

	// StmtReturn: Value (NoExprID for bare `return`)
	// StmtDelete: Targets
	// StmtRaise: Value [from Cause]
	Cause ExprID
}

// File is the root of one source file's tree.
type File struct {
	Path source.FileID
	Body []StmtID
}
