package symtab

import "pysema/internal/pytree"

// exprChildren returns e's immediate child expressions, skipping the
// scope-introducing kinds' bodies (ExprLambda's Body, and every
// comprehension's Elt/Generators) — those are handled specially by both
// passes because they need a scope push/pop around them, never by generic
// recursion. Keywords' values and comparison chains are included since they
// carry ordinary reads.
func exprChildren(e *pytree.Expr) []pytree.ExprID {
	var out []pytree.ExprID
	add := func(id pytree.ExprID) {
		if id.IsValid() {
			out = append(out, id)
		}
	}
	switch e.Kind {
	case pytree.ExprList, pytree.ExprSet, pytree.ExprTuple:
		out = append(out, e.Elts...)
	case pytree.ExprBoolOp:
		out = append(out, e.Elts...)
	case pytree.ExprDict:
		out = append(out, e.Keys...)
		out = append(out, e.Values...)
	case pytree.ExprAttribute:
		add(e.Value)
	case pytree.ExprSubscript:
		add(e.Value)
		add(e.Slice)
	case pytree.ExprCall:
		add(e.Func)
		out = append(out, e.Args...)
		for _, kw := range e.Keywords {
			add(kw.Value)
		}
	case pytree.ExprBinOp:
		add(e.Left)
		add(e.Right)
	case pytree.ExprCompare:
		add(e.Left)
		add(e.Right)
		out = append(out, e.CompareRights...)
	case pytree.ExprUnaryOp:
		add(e.Operand)
	case pytree.ExprIfExp:
		add(e.Test)
		add(e.Body)
		add(e.OrElse)
	case pytree.ExprStarred:
		add(e.Value)
	case pytree.ExprNamedExpr:
		add(e.Value)
	// ExprLambda, ExprListComp, ExprSetComp, ExprDictComp, ExprGeneratorExp
	// are handled by their own scope-aware walkers, not here.
	default:
	}
	return out
}
