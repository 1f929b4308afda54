package symtab

import (
	"pysema/internal/diag"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// bindStmts is the entry point for C3 over a statement list: a traversal
// that never reads names (§4.3).
func (b *Builder) bindStmts(ids []pytree.StmtID) {
	for _, id := range ids {
		b.bindStmt(id)
	}
}

func (b *Builder) bindStmt(id pytree.StmtID) {
	st := b.tree.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case pytree.StmtFunctionDef:
		b.bindFunctionDef(id, st)
	case pytree.StmtClassDef:
		b.bindClassDef(id, st)
	case pytree.StmtImport:
		b.bindImport(st)
	case pytree.StmtImportFrom:
		b.bindImportFrom(st)
	case pytree.StmtAssign:
		for _, t := range st.Targets {
			b.bindTargetExpr(t, UsageAssignmentLHS)
		}
		b.bindNestedScopesInExpr(st.Value)
	case pytree.StmtAugAssign:
		b.bindTargetExpr(st.Target, UsageCompoundAssignmentLHS)
		b.bindNestedScopesInExpr(st.Value)
	case pytree.StmtAnnAssign:
		b.bindTargetExpr(st.Target, UsageAssignmentLHS)
		b.bindNestedScopesInExpr(st.Annotation)
		b.bindNestedScopesInExpr(st.Value)
	case pytree.StmtFor:
		b.bindTargetExpr(st.Target, UsageLoopDeclaration)
		b.bindNestedScopesInExpr(st.Iter)
		b.bindStmts(st.Body)
		b.bindStmts(st.OrElse)
	case pytree.StmtWhile:
		b.bindNestedScopesInExpr(st.Test)
		b.bindStmts(st.Body)
		b.bindStmts(st.OrElse)
	case pytree.StmtIf:
		b.bindNestedScopesInExpr(st.Test)
		b.bindStmts(st.Body)
		b.bindStmts(st.OrElse)
	case pytree.StmtWith:
		for _, item := range st.Items {
			b.bindNestedScopesInExpr(item.ContextExpr)
			if item.OptionalVar.IsValid() {
				b.bindTargetExpr(item.OptionalVar, UsageWithInstance)
			}
		}
		b.bindStmts(st.Body)
	case pytree.StmtTry:
		b.bindStmts(st.Body)
		for i := range st.Handlers {
			h := &st.Handlers[i]
			b.bindNestedScopesInExpr(h.Type)
			if h.Name.IsValid() {
				b.addBindingUsage(h.Name, b.nameText(h.Name), UsageExceptionInstance, "")
			}
			b.bindStmts(h.Body)
		}
		b.bindStmts(st.OrElse)
		b.bindStmts(st.Finally)
	case pytree.StmtGlobal:
		for _, n := range st.Names {
			text := b.nameText(n)
			b.declareGlobal(text)
			b.addBindingUsage(n, text, UsageGlobalDeclaration, "")
		}
	case pytree.StmtNonlocal:
		for _, n := range st.Names {
			b.declareNonlocal(b.nameText(n))
		}
	case pytree.StmtExpr:
		b.bindNestedScopesInExpr(st.Value)
	case pytree.StmtReturn:
		b.bindNestedScopesInExpr(st.Value)
	case pytree.StmtDelete:
		for _, t := range st.Targets {
			b.bindNestedScopesInExpr(t)
		}
	case pytree.StmtRaise:
		b.bindNestedScopesInExpr(st.Value)
		b.bindNestedScopesInExpr(st.Cause)
	default:
		// Pass/Break/Continue bind nothing.
	}
}

func (b *Builder) nameText(id pytree.NameID) source.StringID {
	n := b.tree.Names.Get(id)
	if n == nil {
		return 0
	}
	return n.Text
}

// bindTargetExpr implements the assignment-target half of §4.3: bind each
// Name found in the target with the given usage kind, recursing through
// tuple/list/starred destructuring. Attribute and subscript targets (`o.a =
// …`, `arr[0] = …`) bind no new symbol — C4 resolves their qualifier as a
// read, and only a `self.<attr>` target inside a method gains a usage (on
// the class's instance-attribute symbol) — but are recorded in the side set
// so C4 can tell a qualified-expression read from a qualified-expression
// store.
func (b *Builder) bindTargetExpr(id pytree.ExprID, kind UsageKind) {
	e := b.tree.Exprs.Get(id)
	if e == nil {
		return
	}
	b.assignTargets[id] = true
	switch e.Kind {
	case pytree.ExprName:
		b.addBindingUsage(e.Name, b.nameText(e.Name), kind, "")
	case pytree.ExprTuple, pytree.ExprList:
		for _, elt := range e.Elts {
			b.bindTargetExpr(elt, kind)
		}
	case pytree.ExprStarred:
		b.bindTargetExpr(e.Value, kind)
	case pytree.ExprAttribute, pytree.ExprSubscript:
		// No binding here; C4 resolves the qualifier as a read and records
		// a usage only for a `self.<attr>` target inside a method.
	default:
	}
}

func (b *Builder) bindImport(st *pytree.Stmt) {
	for _, alias := range st.Aliases {
		name := alias.AsName
		if !name.IsValid() {
			name = alias.Name
		}
		fqn := joinDotted(b, alias.Path)
		b.addBindingUsage(name, b.nameText(name), UsageImport, fqn)
	}
}

func (b *Builder) bindImportFrom(st *pytree.Stmt) {
	moduleFQN := b.resolveRelativeModule(st.Dots, st.Module)
	if st.IsWildcard {
		b.bindWildcardImport(st, moduleFQN)
		return
	}
	for _, alias := range st.Aliases {
		name := alias.AsName
		if !name.IsValid() {
			name = alias.Name
		}
		fqn := moduleFQN
		if localName := b.nameText(alias.Name); localName != 0 {
			if s, ok := b.table.Strings.Lookup(localName); ok {
				fqn = joinFQN(moduleFQN, s)
			}
		}
		b.addBindingUsage(name, b.nameText(name), UsageImport, fqn)
	}
}

func (b *Builder) bindWildcardImport(st *pytree.Stmt, moduleFQN string) {
	exports, found := b.modules.SymbolsForModule(moduleFQN)
	if !found {
		exports, found = b.builtinLikeModule(moduleFQN)
	}
	scope := b.table.Scopes.Get(b.currentScope())
	resolved := found
	for _, ent := range exports {
		name := b.table.Strings.Intern(ent.Name)
		sym := Symbol{Name: name, Kind: ent.Kind, FullyQualifiedName: ent.FQN, HasFQN: ent.FQN != ""}
		id := b.table.Symbols.new(sym)
		if _, exists := scope.nameIndex[name]; !exists {
			scope.insertOrder = append(scope.insertOrder, name)
		}
		scope.nameIndex[name] = id
	}
	b.table.WildcardImports = append(b.table.WildcardImports, WildcardImport{
		Stmt: st, Module: moduleFQN, Resolved: resolved,
	})
	if !resolved {
		diag.ReportWarning(b.reporter, diag.SemaUnresolvedWildcard, st.Span,
			"pysema: wildcard import of unresolved module '"+moduleFQN+"'").Emit()
	}
}

// builtinLikeModule is the wildcard-import fallback for a module provider
// that also has a StubModule method, serving stub modules apart from
// SymbolsForModule. No provider in this repository has one (stubs.Index
// answers stub modules such as `typing` through SymbolsForModule), so for
// them this always reports not found.
func (b *Builder) builtinLikeModule(moduleFQN string) ([]ExportedSymbol, bool) {
	if p, ok := b.modules.(interface {
		StubModule(string) ([]ExportedSymbol, bool)
	}); ok {
		return p.StubModule(moduleFQN)
	}
	return nil, false
}

func joinDotted(b *Builder, path []source.StringID) string {
	out := ""
	for i, sid := range path {
		s, _ := b.table.Strings.Lookup(sid)
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

func joinFQN(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}

// resolveRelativeModule implements §4.3's relative-import resolution: when
// the statement has a dotted prefix, the last dot-count components of the
// current file's module FQN are dropped and any explicit module path is
// appended to what remains.
func (b *Builder) resolveRelativeModule(dots int, module []source.StringID) string {
	explicit := joinDotted(b, module)
	if dots == 0 {
		return explicit
	}
	parts := splitDotted(b.table.ModuleFQN)
	if dots > len(parts) {
		dots = len(parts)
	}
	base := parts[:len(parts)-dots]
	baseStr := ""
	for i, p := range base {
		if i > 0 {
			baseStr += "."
		}
		baseStr += p
	}
	return joinFQN(baseStr, explicit)
}

func splitDotted(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func (b *Builder) bindFunctionDef(id pytree.StmtID, st *pytree.Stmt) {
	text := b.nameText(st.Name)
	b.addBindingUsage(st.Name, text, UsageFuncDeclaration, "")
	b.declNameToStmt[st.Name] = id
	b.declStmtToName[id] = st.Name

	enclosingClass := b.currentClassScope()
	isMethod := enclosingClass.IsValid() && enclosingClass == b.currentScope()

	funcScope := b.enterScope(ScopeFunction, NoScopeID, ScopeOwner{Stmt: uint32(id)}, st.Span)
	if isMethod {
		b.methodClassScope[funcScope] = enclosingClass
	}
	b.scopeByStmtAnchor(id, funcScope)

	b.bindParams(id, st.Params, isMethod)
	b.bindStmts(st.Body)
	b.leaveScope()
}

func (b *Builder) bindClassDef(id pytree.StmtID, st *pytree.Stmt) {
	text := b.nameText(st.Name)
	b.addBindingUsage(st.Name, text, UsageClassDeclaration, "")
	b.declNameToStmt[st.Name] = id
	b.declStmtToName[id] = st.Name

	classScope := b.enterScope(ScopeClass, NoScopeID, ScopeOwner{Stmt: uint32(id)}, st.Span)
	b.scopeByStmtAnchor(id, classScope)

	b.bindStmts(st.Body)
	b.leaveScope()
}

// bindParams registers a function/lambda's parameter list as PARAMETER
// bindings, destructuring tuple-structured parameters recursively, and
// special-cases the first parameter of a method via createSelfParameter.
func (b *Builder) bindParams(funcDefStmt pytree.StmtID, params []pytree.ParamID, isMethod bool) {
	for i, pid := range params {
		p := b.tree.Params.Get(pid)
		if p == nil {
			continue
		}
		if i == 0 && isMethod && p.Kind == pytree.ParamPositional {
			b.createSelfParameter(funcDefStmt, p)
			continue
		}
		b.bindParam(p)
	}
}

func (b *Builder) bindParam(p *pytree.Param) {
	if p.Kind == pytree.ParamTuple {
		for _, subID := range p.SubParams {
			if sub := b.tree.Params.Get(subID); sub != nil {
				b.bindParam(sub)
			}
		}
		return
	}
	if p.Name.IsValid() {
		b.addBindingUsage(p.Name, b.nameText(p.Name), UsageParameter, "")
	}
}

// createSelfParameter implements §4.1: the method's first parameter is
// bound like any other parameter but additionally remembered so C4 can
// recognize `self.x = …` assignments in this method's body as contributing
// to the enclosing class's instanceAttributesByName.
func (b *Builder) createSelfParameter(funcDefStmt pytree.StmtID, p *pytree.Param) {
	if !p.Name.IsValid() {
		return
	}
	b.addBindingUsage(p.Name, b.nameText(p.Name), UsageParameter, "")
	b.selfParams[funcDefStmt] = p.Name
}

// scopeByStmtAnchor and scopeByExprAnchor record the scope created for a
// function-def/class-def/lambda/comprehension anchor so C4 can re-enter the
// very same Scope rather than creating a duplicate one.
func (b *Builder) scopeByStmtAnchor(id pytree.StmtID, scope ScopeID) {
	if b.stmtScopes == nil {
		b.stmtScopes = make(map[pytree.StmtID]ScopeID)
	}
	b.stmtScopes[id] = scope
}

func (b *Builder) scopeByExprAnchor(id pytree.ExprID, scope ScopeID) {
	if b.exprScopes == nil {
		b.exprScopes = make(map[pytree.ExprID]ScopeID)
	}
	b.exprScopes[id] = scope
}

// bindNestedScopesInExpr hunts through an arbitrary expression subtree for
// Lambda and comprehension expressions, which introduce their own scope and
// must have their target/parameter bindings recorded during C3 even though
// they are reached through an expression that C3 otherwise does not "read".
func (b *Builder) bindNestedScopesInExpr(id pytree.ExprID) {
	if !id.IsValid() {
		return
	}
	e := b.tree.Exprs.Get(id)
	if e == nil {
		return
	}
	switch e.Kind {
	case pytree.ExprLambda:
		b.bindLambda(id, e)
		return
	case pytree.ExprListComp, pytree.ExprSetComp, pytree.ExprDictComp, pytree.ExprGeneratorExp:
		b.bindComprehension(id, e)
		return
	case pytree.ExprNamedExpr:
		b.assignTargets[id] = true
		b.addBindingUsage(e.Name, b.nameText(e.Name), UsageAssignmentLHS, "")
		b.bindNestedScopesInExpr(e.Value)
		return
	}
	for _, child := range exprChildren(e) {
		b.bindNestedScopesInExpr(child)
	}
}

func (b *Builder) bindLambda(id pytree.ExprID, e *pytree.Expr) {
	scope := b.enterScope(ScopeLambda, NoScopeID, ScopeOwner{Expr: uint32(id)}, e.Span)
	b.scopeByExprAnchor(id, scope)
	b.bindParams(pytree.NoStmtID, e.Params, false)
	b.bindNestedScopesInExpr(e.Body)
	b.leaveScope()
}

// bindComprehension implements the comprehension scoping exception from
// §4.3/§4.4: the outermost iterable is bound in the enclosing scope; the
// comprehension's own scope exists only for the targets, filters, nested
// clauses, and element expression.
func (b *Builder) bindComprehension(id pytree.ExprID, e *pytree.Expr) {
	if len(e.Generators) > 0 {
		b.bindNestedScopesInExpr(e.Generators[0].Iter)
	}
	scope := b.enterScope(ScopeComprehension, NoScopeID, ScopeOwner{Expr: uint32(id)}, e.Span)
	b.scopeByExprAnchor(id, scope)
	for i := range e.Generators {
		g := &e.Generators[i]
		b.bindTargetExpr(g.Target, UsageCompDeclaration)
		if i > 0 {
			b.bindNestedScopesInExpr(g.Iter)
		}
		for _, ifExpr := range g.Ifs {
			b.bindNestedScopesInExpr(ifExpr)
		}
	}
	b.bindNestedScopesInExpr(e.Elt)
	if e.Kind == pytree.ExprDictComp {
		if len(e.Keys) > 0 {
			b.bindNestedScopesInExpr(e.Keys[0])
		}
		if len(e.Values) > 0 {
			b.bindNestedScopesInExpr(e.Values[0])
		}
	}
	b.leaveScope()
}
