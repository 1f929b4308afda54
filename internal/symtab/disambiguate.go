package symtab

import (
	"pysema/internal/diag"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// disambiguateAll implements C5 (§4.5): finalize every scope's placeholder
// Other symbols into their true shape, compute class membership, and
// publish each scope's locals back onto its tree anchor.
func (b *Builder) disambiguateAll() {
	for i := 1; i <= b.table.Scopes.Len(); i++ {
		scope := b.table.Scopes.Get(ScopeID(i))
		if scope == nil {
			continue
		}
		for _, name := range scope.insertOrder {
			b.finalizeSymbol(scope.nameIndex[name])
		}
	}
	// Class membership runs as its own pass afterward: a class used as
	// another class's base must already have its own Symbol finalized
	// (Kind == SymClass) before ResolveMember has anything meaningful to
	// walk, and bases are finalized in arbitrary scope-creation order.
	for i := 1; i <= b.table.Scopes.Len(); i++ {
		id := ScopeID(i)
		scope := b.table.Scopes.Get(id)
		if scope == nil || scope.Kind != ScopeClass {
			continue
		}
		b.computeClassMembers(id, scope)
	}
	b.publishLocals()
}

// finalizeSymbol decides, in place (the SymbolID must not change — every
// NameNode.Symbol slot already points at it), what shape a C3-created
// SymOther placeholder settles into:
//
//   - zero binding usages: left untouched (a builtin/wildcard-import entry
//     never itself bound by this file).
//   - exactly one binding usage that is a FUNC_DECLARATION/CLASS_DECLARATION:
//     becomes the corresponding Function/Class symbol directly — there is
//     no ambiguity with only one declaration.
//   - ≥2 binding usages including at least one FUNC_DECLARATION or
//     CLASS_DECLARATION: becomes Ambiguous, one alternative per binding
//     usage, in order (§4.5, invariant 4, scenarios S1/S6).
//   - anything else (≥2 plain binding usages, no declarations): stays Other.
func (b *Builder) finalizeSymbol(id SymbolID) {
	sym := b.table.Symbols.Get(id)
	if sym == nil || sym.Kind != SymOther {
		return
	}
	total, hasDecl := sym.CountBindingUsages()
	if total == 0 {
		return
	}
	if total == 1 && hasDecl {
		u := firstDeclUsage(sym)
		switch u.Kind {
		case UsageFuncDeclaration:
			sym.Kind = SymFunction
			sym.Function = b.buildFunctionInfo(u.Name)
		case UsageClassDeclaration:
			sym.Kind = SymClass
			sym.Class = b.buildClassInfo(u.Name)
		}
		return
	}
	if total >= 2 && hasDecl {
		usages := append([]Usage(nil), sym.Usages...)
		alts := make([]SymbolID, 0, total)
		for _, u := range usages {
			if u.Kind.IsBinding() {
				alts = append(alts, b.buildAlternativeUsage(u))
			}
		}
		sym.Kind = SymAmbiguous
		sym.Usages = usages
		sym.Ambiguous = AmbiguousInfo{Alternatives: alts}
		b.reportDuplicateSymbol(sym, usages)
		return
	}
	// ≥2 bindings, none a declaration: stays Other, but a plain name rebound
	// more than once in the same scope shadows its own earlier value (e.g.
	// S3's reassigned module-level variable) — worth flagging even though it
	// never changes Kind.
	b.reportShadowSymbol(sym, sym.Usages)
}

// reportDuplicateSymbol flags a name declared more than once in the same
// scope via at least one FUNC_DECLARATION/CLASS_DECLARATION usage (§7's
// "duplicate symbol"), noting every binding usage after the first as a
// repeat of the original.
func (b *Builder) reportDuplicateSymbol(sym *Symbol, usages []Usage) {
	bindings := bindingUsagesOf(usages)
	if len(bindings) < 2 {
		return
	}
	builder := diag.ReportWarning(b.reporter, diag.SemaDuplicateSymbol, b.nameSpan(bindings[0].Name),
		"pysema: "+b.symbolText(sym)+" is declared more than once in this scope")
	for _, u := range bindings[1:] {
		builder.WithNote(b.nameSpan(u.Name), "also declared here")
	}
	builder.Emit()
}

// reportShadowSymbol flags a plain name rebound more than once in the same
// scope without ever becoming a Function/Class declaration (§7's "shadowed
// symbol"): the later assignment shadows the earlier one's value.
func (b *Builder) reportShadowSymbol(sym *Symbol, usages []Usage) {
	bindings := bindingUsagesOf(usages)
	if len(bindings) < 2 {
		return
	}
	last := bindings[len(bindings)-1]
	builder := diag.ReportWarning(b.reporter, diag.SemaShadowSymbol, b.nameSpan(last.Name),
		"pysema: "+b.symbolText(sym)+" shadows its own earlier binding in this scope")
	builder.WithNote(b.nameSpan(bindings[0].Name), "earlier binding here")
	builder.Emit()
}

func bindingUsagesOf(usages []Usage) []Usage {
	out := make([]Usage, 0, len(usages))
	for _, u := range usages {
		if u.Kind.IsBinding() {
			out = append(out, u)
		}
	}
	return out
}

func (b *Builder) symbolText(sym *Symbol) string {
	name, _ := b.table.Strings.Lookup(sym.Name)
	if name == "" {
		name = "<name>"
	}
	return "'" + name + "'"
}

// nameSpan looks up a NameID's source span, or a zero Span when the name is
// invalid (e.g. a global/nonlocal declaration usage carries no NameNode of
// its own in every caller).
func (b *Builder) nameSpan(id pytree.NameID) source.Span {
	n := b.tree.Names.Get(id)
	if n == nil {
		return source.Span{}
	}
	return n.Span
}

func firstDeclUsage(sym *Symbol) Usage {
	for _, u := range sym.Usages {
		if u.Kind == UsageFuncDeclaration || u.Kind == UsageClassDeclaration {
			return u
		}
	}
	return Usage{}
}

// buildAlternativeUsage constructs one ambiguous-symbol alternative for a
// single binding usage, per §4.5: a fresh symbol, never sharing the
// parent's ID, carrying no usage list of its own — the parent's
// verbatim-copied list is the one readers see.
func (b *Builder) buildAlternativeUsage(u Usage) SymbolID {
	switch u.Kind {
	case UsageFuncDeclaration:
		return b.table.Symbols.new(Symbol{Name: b.nameText(u.Name), Kind: SymFunction, Function: b.buildFunctionInfo(u.Name)})
	case UsageClassDeclaration:
		return b.table.Symbols.new(Symbol{Name: b.nameText(u.Name), Kind: SymClass, Class: b.buildClassInfo(u.Name)})
	default:
		return b.table.Symbols.new(Symbol{Name: b.nameText(u.Name), Kind: SymOther})
	}
}

// buildFunctionInfo reconstructs a FunctionInfo from a FUNC_DECLARATION
// usage's name, looking the owning def back up via declNameToStmt.
func (b *Builder) buildFunctionInfo(nameOfDecl pytree.NameID) FunctionInfo {
	stmtID, ok := b.declNameToStmt[nameOfDecl]
	if !ok {
		return FunctionInfo{}
	}
	st := b.tree.Stmts.Get(stmtID)
	if st == nil {
		return FunctionInfo{}
	}
	scope := b.stmtScopes[stmtID]
	_, isMethod := b.methodClassScope[scope]
	return FunctionInfo{
		Def:      stmtID,
		Params:   b.buildParamSignatures(st.Params),
		LocalsOf: scope,
		IsMethod: isMethod,
	}
}

func (b *Builder) buildParamSignatures(params []pytree.ParamID) []ParamSignature {
	out := make([]ParamSignature, 0, len(params))
	pos := 0
	for _, pid := range params {
		p := b.tree.Params.Get(pid)
		if p == nil {
			continue
		}
		out = append(out, ParamSignature{
			Name:           b.nameText(p.Name),
			Kind:           p.Kind,
			HasDefault:     p.Default.IsValid(),
			Pos:            pos,
			annotationExpr: p.Annotation,
		})
		pos++
	}
	return out
}

// buildClassInfo reconstructs a ClassInfo from a CLASS_DECLARATION usage's
// name. Bases were already resolved by C4's referenceClassDef and are
// picked up from classBases here; HasUnresolvedHierarchy is set whenever
// any base failed to resolve to a class or an ambiguous symbol (an
// ambiguous base counts as resolved whatever its alternatives are).
func (b *Builder) buildClassInfo(nameOfDecl pytree.NameID) ClassInfo {
	stmtID, ok := b.declNameToStmt[nameOfDecl]
	if !ok {
		return ClassInfo{}
	}
	scope := b.stmtScopes[stmtID]
	bases := b.classBases[stmtID]
	unresolved := false
	for _, baseID := range bases {
		if !baseID.IsValid() {
			unresolved = true
			continue
		}
		base := b.table.Symbols.Get(baseID)
		if base == nil || (base.Kind != SymClass && base.Kind != SymAmbiguous) {
			unresolved = true
		}
	}
	if unresolved {
		diag.ReportWarning(b.reporter, diag.SemaUnresolvedBaseClass, b.nameSpan(nameOfDecl),
			"pysema: "+b.classNameText(nameOfDecl)+"'s base class hierarchy could not be fully resolved").Emit()
	}
	return ClassInfo{
		Def:                    stmtID,
		Scope:                  scope,
		Bases:                  bases,
		HasUnresolvedHierarchy: unresolved,
	}
}

func (b *Builder) classNameText(nameOfDecl pytree.NameID) string {
	text, _ := b.table.Strings.Lookup(b.nameText(nameOfDecl))
	if text == "" {
		text = "<class>"
	}
	return "'" + text + "'"
}

// computeClassMembers implements §4.5's member-union rule: class-body names
// first (in their own insertion order), then any self.x instance attribute
// not already present under that name; a name present in both keeps the
// class-body symbol but gains the instance attribute's usages merged in.
func (b *Builder) computeClassMembers(scopeID ScopeID, scope *Scope) {
	members := make(map[source.StringID]SymbolID, len(scope.insertOrder)+len(scope.instanceAttrsOrder))
	order := make([]source.StringID, 0, len(scope.insertOrder)+len(scope.instanceAttrsOrder))

	for _, name := range scope.insertOrder {
		members[name] = scope.nameIndex[name]
		order = append(order, name)
	}
	for _, name := range scope.instanceAttrsOrder {
		attrID := scope.instanceAttrs[name]
		if classBodyID, exists := members[name]; exists {
			if classBodySym := b.table.Symbols.Get(classBodyID); classBodySym != nil {
				if attrSym := b.table.Symbols.Get(attrID); attrSym != nil {
					classBodySym.Usages = append(classBodySym.Usages, attrSym.Usages...)
				}
			}
			continue
		}
		members[name] = attrID
		order = append(order, name)
	}

	nameID, ok := b.declStmtToName[b.classDefStmtFor(scopeID)]
	if !ok {
		return
	}
	n := b.tree.Names.Get(nameID)
	if n == nil {
		return
	}
	symID := SymbolIDFromUint32(n.Symbol)
	sym := b.table.Symbols.Get(symID)
	if sym == nil {
		return
	}
	attachMembers(sym, members, order)
	if sym.Kind == SymAmbiguous {
		for _, altID := range sym.Ambiguous.Alternatives {
			if alt := b.table.Symbols.Get(altID); alt != nil && alt.Kind == SymClass && alt.Class.Scope == scopeID {
				attachMembers(alt, members, order)
			}
		}
	}
}

// classDefStmtFor finds the class-def statement anchored to scopeID. Class
// scopes are anchored 1:1 to their class-def, so ScopeOwner.Stmt already
// carries this — classDefStmtFor just reads it back out.
func (b *Builder) classDefStmtFor(scopeID ScopeID) pytree.StmtID {
	scope := b.table.Scopes.Get(scopeID)
	if scope == nil {
		return pytree.NoStmtID
	}
	return pytree.StmtID(scope.Owner.Stmt)
}

func attachMembers(sym *Symbol, members map[source.StringID]SymbolID, order []source.StringID) {
	if sym.Kind != SymClass {
		return
	}
	sym.Class.Members = members
	sym.Class.MembersOrder = order
}

// publishLocals surfaces every scope root's own locals back onto its tree
// anchor (§4.5's closing step / §6 "localVariableSymbols"): file-input
// locals live on Table.GlobalVariables already; function/class-def and
// lambda/comprehension locals are published into Table.LocalsByStmt /
// LocalsByExpr, keyed by the same anchor C4 used to re-enter the scope.
func (b *Builder) publishLocals() {
	for stmtID, scopeID := range b.stmtScopes {
		if scope := b.table.Scopes.Get(scopeID); scope != nil {
			b.table.LocalsByStmt[stmtID] = scope.Locals()
		}
	}
	for exprID, scopeID := range b.exprScopes {
		if scope := b.table.Scopes.Get(scopeID); scope != nil {
			b.table.LocalsByExpr[exprID] = scope.Locals()
		}
	}
}
