package symtab

import (
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// referenceStmts is C4's entry point: a second traversal over the same
// statement list C3 walked, this time resolving every read and re-entering
// (never recreating) the scopes C3 built. fileScope is pushed directly since
// Build already left the scope stack empty after C3's leaveScope.
func (b *Builder) referenceStmts(ids []pytree.StmtID, fileScope ScopeID) {
	b.stack = append(b.stack, fileScope)
	b.walkStmts(ids)
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *Builder) walkStmts(ids []pytree.StmtID) {
	for _, id := range ids {
		b.walkStmt(id)
	}
}

func (b *Builder) walkStmt(id pytree.StmtID) {
	st := b.tree.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case pytree.StmtFunctionDef:
		b.referenceFunctionDef(id, st)
	case pytree.StmtClassDef:
		b.referenceClassDef(id, st)
	case pytree.StmtImport, pytree.StmtImportFrom:
		// Module paths are raw dotted names, not expressions; nothing to
		// resolve here.
	case pytree.StmtAssign:
		b.referenceExpr(st.Value)
		for _, t := range st.Targets {
			b.referenceTarget(t)
		}
	case pytree.StmtAugAssign:
		b.referenceExpr(st.Value)
		b.referenceTarget(st.Target)
	case pytree.StmtAnnAssign:
		b.referenceExpr(st.Annotation)
		b.referenceExpr(st.Value)
		b.referenceTarget(st.Target)
	case pytree.StmtFor:
		b.referenceExpr(st.Iter)
		b.referenceTarget(st.Target)
		b.walkStmts(st.Body)
		b.walkStmts(st.OrElse)
	case pytree.StmtWhile:
		b.referenceExpr(st.Test)
		b.walkStmts(st.Body)
		b.walkStmts(st.OrElse)
	case pytree.StmtIf:
		b.referenceExpr(st.Test)
		b.walkStmts(st.Body)
		b.walkStmts(st.OrElse)
	case pytree.StmtWith:
		for _, item := range st.Items {
			b.referenceExpr(item.ContextExpr)
			if item.OptionalVar.IsValid() {
				b.referenceTarget(item.OptionalVar)
			}
		}
		b.walkStmts(st.Body)
	case pytree.StmtTry:
		b.walkStmts(st.Body)
		for i := range st.Handlers {
			h := &st.Handlers[i]
			b.referenceExpr(h.Type)
			b.walkStmts(h.Body)
		}
		b.walkStmts(st.OrElse)
		b.walkStmts(st.Finally)
	case pytree.StmtGlobal, pytree.StmtNonlocal:
		// Fully handled in C3.
	case pytree.StmtExpr:
		b.referenceExpr(st.Value)
	case pytree.StmtReturn:
		b.referenceExpr(st.Value)
	case pytree.StmtDelete:
		for _, t := range st.Targets {
			b.referenceExpr(t)
		}
	case pytree.StmtRaise:
		b.referenceExpr(st.Value)
		b.referenceExpr(st.Cause)
	default:
		// Pass/Break/Continue carry no expressions.
	}
}

// referenceFunctionDef implements §4.4's function visit order: decorators,
// return annotation, and every parameter's annotation/default are resolved
// in the ENCLOSING scope (the function's own scope is not yet pushed), then
// the body is walked inside the function's existing scope.
func (b *Builder) referenceFunctionDef(id pytree.StmtID, st *pytree.Stmt) {
	for _, d := range st.Decorators {
		b.referenceExpr(d)
	}
	b.referenceExpr(st.Returns)
	for _, pid := range st.Params {
		b.referenceParamOuter(pid)
	}

	funcScope := b.stmtScopes[id]
	if !funcScope.IsValid() {
		return
	}
	isMethod := false
	if cls, ok := b.methodClassScope[funcScope]; ok && cls.IsValid() {
		isMethod = true
		b.selfClassStack = append(b.selfClassStack, cls)
		selfName := pytree.NoNameID
		if n, ok := b.selfParams[id]; ok {
			selfName = n
		}
		b.selfNameStack = append(b.selfNameStack, b.nameText(selfName))
	}

	b.stack = append(b.stack, funcScope)
	b.walkStmts(st.Body)
	b.stack = b.stack[:len(b.stack)-1]

	if isMethod {
		b.selfClassStack = b.selfClassStack[:len(b.selfClassStack)-1]
		b.selfNameStack = b.selfNameStack[:len(b.selfNameStack)-1]
	}
}

// referenceParamOuter resolves a parameter's annotation/default expression
// (and any sub-parameters of a tuple-structured parameter) in whatever scope
// is current when the owning def is visited — i.e. before that def's own
// scope is pushed, per §4.4.
func (b *Builder) referenceParamOuter(id pytree.ParamID) {
	p := b.tree.Params.Get(id)
	if p == nil {
		return
	}
	b.referenceExpr(p.Annotation)
	b.referenceExpr(p.Default)
	for _, sub := range p.SubParams {
		b.referenceParamOuter(sub)
	}
}

// referenceClassDef resolves decorators, base-class expressions and keyword
// arguments (e.g. `metaclass=`) in the enclosing scope, then walks the body
// inside the class's existing scope.
func (b *Builder) referenceClassDef(id pytree.StmtID, st *pytree.Stmt) {
	for _, d := range st.Decorators {
		b.referenceExpr(d)
	}
	bases := make([]SymbolID, 0, len(st.Bases))
	for _, base := range st.Bases {
		b.referenceExpr(base)
		bases = append(bases, b.resolvedNameSymbol(base))
	}
	b.classBases[id] = bases
	for _, kw := range st.Keywords {
		b.referenceExpr(kw.Value)
	}

	classScope := b.stmtScopes[id]
	if !classScope.IsValid() {
		return
	}
	b.stack = append(b.stack, classScope)
	b.walkStmts(st.Body)
	b.stack = b.stack[:len(b.stack)-1]
}

// referenceTarget resolves the qualifier of an assignment target that is
// itself a read (attribute/subscript targets, and recurses through
// tuple/list/starred destructuring); a bare Name target already has its
// symbol set by C3 and needs no further work here.
func (b *Builder) referenceTarget(id pytree.ExprID) {
	e := b.tree.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case pytree.ExprName:
		// Already bound in C3.
	case pytree.ExprTuple, pytree.ExprList:
		for _, elt := range e.Elts {
			b.referenceTarget(elt)
		}
	case pytree.ExprStarred:
		b.referenceTarget(e.Value)
	case pytree.ExprAttribute:
		b.referenceAttribute(id, e)
	case pytree.ExprSubscript:
		b.referenceExpr(e.Value)
		b.referenceExpr(e.Slice)
	default:
		b.referenceExpr(id)
	}
}

// referenceExpr resolves every Name read reachable from id, threading scope
// pushes/pops around Lambda and comprehension subtrees exactly as C3 did.
func (b *Builder) referenceExpr(id pytree.ExprID) {
	if !id.IsValid() {
		return
	}
	e := b.tree.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case pytree.ExprName:
		b.referenceName(e.Name)
		return
	case pytree.ExprAttribute:
		b.referenceAttribute(id, e)
		return
	case pytree.ExprNamedExpr:
		// e.Name's symbol was already assigned in C3; only the value is a
		// fresh read.
		b.referenceExpr(e.Value)
		return
	case pytree.ExprLambda:
		b.referenceLambda(id, e)
		return
	case pytree.ExprListComp, pytree.ExprSetComp, pytree.ExprDictComp, pytree.ExprGeneratorExp:
		b.referenceComprehension(id, e)
		return
	}
	for _, child := range exprChildren(e) {
		b.referenceExpr(child)
	}
}

func (b *Builder) referenceName(name pytree.NameID) {
	if !name.IsValid() {
		return
	}
	text := b.nameText(name)
	id := b.resolve(b.currentScope(), text)
	if !id.IsValid() {
		return
	}
	sym := b.table.Symbols.Get(id)
	sym.Usages = append(sym.Usages, Usage{Name: name, Kind: UsageOther})
	b.tree.SetSymbol(name, id.AsUint32())
}

// referenceAttribute resolves the qualifier as an ordinary read, then — only
// when the qualifier is the active method's self-parameter — attaches this
// attribute as a child usage on the enclosing class's instance-attribute
// table (§4.1 createSelfParameter / §4.5's instance-attribute contribution).
// General `q.n` qualifiers where q is not self resolve q but do not fabricate
// a further child symbol; spec.md only gives concrete, testable semantics for
// the self case (see DESIGN.md).
func (b *Builder) referenceAttribute(id pytree.ExprID, e *pytree.Expr) {
	b.referenceExpr(e.Value)
	if !b.isSelfQualifier(e.Value) {
		return
	}
	classScope := b.currentSelfClass()
	if !classScope.IsValid() {
		return
	}
	scope := b.table.Scopes.Get(classScope)
	if scope == nil {
		return
	}
	attrText := b.nameText(e.Attr)
	if attrText == 0 {
		return
	}
	kind := UsageOther
	if b.assignTargets[id] {
		kind = UsageAssignmentLHS
	}
	symID, exists := scope.instanceAttrs[attrText]
	if !exists {
		sym := Symbol{Name: attrText, Kind: SymOther}
		symID = b.table.Symbols.new(sym)
		if scope.instanceAttrs == nil {
			scope.instanceAttrs = make(map[source.StringID]SymbolID)
		}
		scope.instanceAttrs[attrText] = symID
		scope.instanceAttrsOrder = append(scope.instanceAttrsOrder, attrText)
	}
	sym := b.table.Symbols.Get(symID)
	sym.Usages = append(sym.Usages, Usage{Name: e.Attr, Kind: kind})
	b.tree.SetSymbol(e.Attr, symID.AsUint32())
}

func (b *Builder) isSelfQualifier(valueID pytree.ExprID) bool {
	if len(b.selfNameStack) == 0 {
		return false
	}
	if !b.currentSelfClass().IsValid() {
		return false
	}
	v := b.tree.Exprs.Get(valueID)
	if v == nil || v.Kind != pytree.ExprName {
		return false
	}
	selfName := b.selfNameStack[len(b.selfNameStack)-1]
	return selfName != 0 && b.nameText(v.Name) == selfName
}

// resolvedNameSymbol reports the SymbolID a plain-Name expression resolved
// to, or NoSymbolID for anything else (a dotted/computed base-class
// expression — left unresolved, a soft failure per §7).
func (b *Builder) resolvedNameSymbol(id pytree.ExprID) SymbolID {
	e := b.tree.Exprs.Get(id)
	if e == nil || e.Kind != pytree.ExprName {
		return NoSymbolID
	}
	n := b.tree.Names.Get(e.Name)
	if n == nil {
		return NoSymbolID
	}
	return SymbolIDFromUint32(n.Symbol)
}

func (b *Builder) currentSelfClass() ScopeID {
	if len(b.selfClassStack) == 0 {
		return NoScopeID
	}
	return b.selfClassStack[len(b.selfClassStack)-1]
}

// referenceLambda resolves defaults in the enclosing scope (§4.4), then
// walks the body inside the lambda's existing scope.
func (b *Builder) referenceLambda(id pytree.ExprID, e *pytree.Expr) {
	for _, pid := range e.Params {
		b.referenceParamOuter(pid)
	}
	scope := b.exprScopes[id]
	if !scope.IsValid() {
		b.referenceExpr(e.Body)
		return
	}
	b.stack = append(b.stack, scope)
	b.referenceExpr(e.Body)
	b.stack = b.stack[:len(b.stack)-1]
}

// referenceComprehension implements §4.4's comprehension read order: the
// outermost iterable resolves in the enclosing scope before the
// comprehension's own scope is pushed; every subsequent generator's
// iterable, every filter, and the element expression resolve inside it.
func (b *Builder) referenceComprehension(id pytree.ExprID, e *pytree.Expr) {
	if len(e.Generators) > 0 {
		b.referenceExpr(e.Generators[0].Iter)
	}
	scope := b.exprScopes[id]
	pushed := scope.IsValid()
	if pushed {
		b.stack = append(b.stack, scope)
	}
	for i := range e.Generators {
		g := &e.Generators[i]
		if i > 0 {
			b.referenceExpr(g.Iter)
		}
		for _, ifExpr := range g.Ifs {
			b.referenceExpr(ifExpr)
		}
	}
	b.referenceExpr(e.Elt)
	if e.Kind == pytree.ExprDictComp {
		if len(e.Keys) > 0 {
			b.referenceExpr(e.Keys[0])
		}
		if len(e.Values) > 0 {
			b.referenceExpr(e.Values[0])
		}
	}
	if pushed {
		b.stack = b.stack[:len(b.stack)-1]
	}
}
