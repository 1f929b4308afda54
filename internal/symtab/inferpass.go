package symtab

import "pysema/internal/pytree"

// inferStmts implements C6 (§4.6): a third traversal that computes an
// InferredType for every expression and, as a closing step, finalizes every
// function symbol's parameter list with the types pulled from annotations.
func (b *Builder) inferStmts(ids []pytree.StmtID) {
	for _, id := range ids {
		b.inferStmt(id)
	}
	b.finalizeParamTypes()
}

func (b *Builder) inferStmt(id pytree.StmtID) {
	st := b.tree.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case pytree.StmtFunctionDef:
		for _, d := range st.Decorators {
			b.inferExpr(d)
		}
		b.inferExpr(st.Returns)
		for _, pid := range st.Params {
			b.inferParamExprs(pid)
		}
		b.inferStmts(st.Body)
	case pytree.StmtClassDef:
		for _, d := range st.Decorators {
			b.inferExpr(d)
		}
		for _, base := range st.Bases {
			b.inferExpr(base)
		}
		for _, kw := range st.Keywords {
			b.inferExpr(kw.Value)
		}
		b.inferStmts(st.Body)
	case pytree.StmtAssign:
		b.inferExpr(st.Value)
		for _, t := range st.Targets {
			b.inferExpr(t)
		}
	case pytree.StmtAugAssign:
		b.inferExpr(st.Value)
		b.inferExpr(st.Target)
	case pytree.StmtAnnAssign:
		declared := b.inferAnnotation(st.Annotation)
		b.table.ExprTypes[st.Annotation] = declared
		if st.Target.IsValid() {
			b.table.ExprTypes[st.Target] = declared
		}
		b.inferExpr(st.Value)
	case pytree.StmtFor:
		b.inferExpr(st.Iter)
		b.inferExpr(st.Target)
		b.inferStmts(st.Body)
		b.inferStmts(st.OrElse)
	case pytree.StmtWhile:
		b.inferExpr(st.Test)
		b.inferStmts(st.Body)
		b.inferStmts(st.OrElse)
	case pytree.StmtIf:
		b.inferExpr(st.Test)
		b.inferStmts(st.Body)
		b.inferStmts(st.OrElse)
	case pytree.StmtWith:
		for _, item := range st.Items {
			b.inferExpr(item.ContextExpr)
			if item.OptionalVar.IsValid() {
				b.inferExpr(item.OptionalVar)
			}
		}
		b.inferStmts(st.Body)
	case pytree.StmtTry:
		b.inferStmts(st.Body)
		for i := range st.Handlers {
			h := &st.Handlers[i]
			b.inferExpr(h.Type)
			b.inferStmts(h.Body)
		}
		b.inferStmts(st.OrElse)
		b.inferStmts(st.Finally)
	case pytree.StmtExpr:
		b.inferExpr(st.Value)
	case pytree.StmtReturn:
		b.inferExpr(st.Value)
	case pytree.StmtDelete:
		for _, t := range st.Targets {
			b.inferExpr(t)
		}
	case pytree.StmtRaise:
		b.inferExpr(st.Value)
		b.inferExpr(st.Cause)
	default:
	}
}

func (b *Builder) inferParamExprs(id pytree.ParamID) {
	p := b.tree.Params.Get(id)
	if p == nil {
		return
	}
	b.inferExpr(p.Annotation)
	b.inferExpr(p.Default)
	for _, sub := range p.SubParams {
		b.inferParamExprs(sub)
	}
}

// inferExpr computes and records id's InferredType, recursing into every
// reachable subexpression (including Lambda bodies and comprehension
// clauses — inference needs no scope context, unlike C3/C4, so there is no
// push/pop to thread here).
func (b *Builder) inferExpr(id pytree.ExprID) InferredType {
	if !id.IsValid() {
		return Any
	}
	e := b.tree.Exprs.Get(id)
	if e == nil {
		return Any
	}
	t := b.computeExprType(id, e)
	b.table.ExprTypes[id] = t

	switch e.Kind {
	case pytree.ExprLambda:
		for _, pid := range e.Params {
			b.inferParamExprs(pid)
		}
		b.inferExpr(e.Body)
	case pytree.ExprListComp, pytree.ExprSetComp, pytree.ExprDictComp, pytree.ExprGeneratorExp:
		for i := range e.Generators {
			g := &e.Generators[i]
			b.inferExpr(g.Iter)
			for _, ifExpr := range g.Ifs {
				b.inferExpr(ifExpr)
			}
		}
		b.inferExpr(e.Elt)
		for _, k := range e.Keys {
			b.inferExpr(k)
		}
		for _, v := range e.Values {
			b.inferExpr(v)
		}
	default:
		for _, child := range exprChildren(e) {
			b.inferExpr(child)
		}
	}
	return t
}

// computeExprType derives id's own type, per §4.6: literal kind, the kind of
// symbol a name resolves to, or Any when uncertain. It does not recurse.
func (b *Builder) computeExprType(id pytree.ExprID, e *pytree.Expr) InferredType {
	if tag, ok := literalTag(e.Kind, e); ok {
		return known(tag)
	}
	switch e.Kind {
	case pytree.ExprName:
		return b.symbolType(e.Name)
	case pytree.ExprCall:
		return b.callType(e.Func)
	default:
		return Any
	}
}

// symbolType derives an InferredType from the kind of symbol a name
// resolved to: a class symbol names an instance of itself when referenced
// bare (its more common use, construction, is handled by callType); a
// function symbol is callable.
func (b *Builder) symbolType(name pytree.NameID) InferredType {
	n := b.tree.Names.Get(name)
	if n == nil || n.Symbol == 0 {
		return Any
	}
	sym := b.table.Symbols.Get(SymbolIDFromUint32(n.Symbol))
	if sym == nil {
		return Any
	}
	switch sym.Kind {
	case SymFunction:
		return callable()
	case SymClass:
		return instanceOf(SymbolIDFromUint32(n.Symbol))
	default:
		return Any
	}
}

// callType derives the type of a call expression: calling a known class
// symbol constructs an instance of it; anything else is uncertain.
func (b *Builder) callType(funcExpr pytree.ExprID) InferredType {
	fe := b.tree.Exprs.Get(funcExpr)
	if fe == nil || fe.Kind != pytree.ExprName {
		return Any
	}
	n := b.tree.Names.Get(fe.Name)
	if n == nil || n.Symbol == 0 {
		return Any
	}
	symID := SymbolIDFromUint32(n.Symbol)
	sym := b.table.Symbols.Get(symID)
	if sym == nil || sym.Kind != SymClass {
		return Any
	}
	return instanceOf(symID)
}

// inferAnnotation parses an annotation expression into a nominal tag (§4.6):
// a bare Name naming one of the handful of builtin type names resolves
// directly; a bare Name resolving to a class symbol produces instanceOf that
// class; anything else is Any.
func (b *Builder) inferAnnotation(id pytree.ExprID) InferredType {
	if !id.IsValid() {
		return Any
	}
	e := b.tree.Exprs.Get(id)
	if e == nil || e.Kind != pytree.ExprName {
		return Any
	}
	text, ok := b.table.Strings.Lookup(b.nameText(e.Name))
	if ok {
		if tag, ok := builtinAnnotationTag(text); ok {
			return known(tag)
		}
	}
	n := b.tree.Names.Get(e.Name)
	if n == nil || n.Symbol == 0 {
		return Any
	}
	symID := SymbolIDFromUint32(n.Symbol)
	sym := b.table.Symbols.Get(symID)
	if sym == nil || sym.Kind != SymClass {
		return Any
	}
	return instanceOf(symID)
}

func builtinAnnotationTag(name string) (BuiltinTag, bool) {
	switch name {
	case "int":
		return TagInt, true
	case "float":
		return TagFloat, true
	case "str":
		return TagStr, true
	case "bytes":
		return TagBytes, true
	case "bool":
		return TagBool, true
	case "None", "NoneType":
		return TagNone, true
	case "list", "List":
		return TagList, true
	case "set", "Set":
		return TagSet, true
	case "dict", "Dict":
		return TagDict, true
	case "tuple", "Tuple":
		return TagTuple, true
	default:
		return TagUnknown, false
	}
}

// finalizeParamTypes walks every Function symbol (and every Function
// alternative of an Ambiguous symbol) and resolves each parameter's
// annotationExpr into DeclaredType.
func (b *Builder) finalizeParamTypes() {
	for i := 1; i <= b.table.Symbols.Len(); i++ {
		sym := b.table.Symbols.Get(SymbolID(i))
		if sym == nil {
			continue
		}
		switch sym.Kind {
		case SymFunction:
			b.finalizeOneFunction(&sym.Function)
		case SymAmbiguous:
			for _, altID := range sym.Ambiguous.Alternatives {
				if alt := b.table.Symbols.Get(altID); alt != nil && alt.Kind == SymFunction {
					b.finalizeOneFunction(&alt.Function)
				}
			}
		}
	}
}

func (b *Builder) finalizeOneFunction(fn *FunctionInfo) {
	for i := range fn.Params {
		p := &fn.Params[i]
		p.DeclaredType = b.inferAnnotation(p.annotationExpr)
	}
}
