package symtab

import (
	"pysema/internal/diag"
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// Builder is the single mutable owner of one file's scope/symbol arenas
// across the four passes (§9 "Mutability in passes": "a single mutable
// builder with a clear frozen-after-C6 discipline"). Not safe for
// concurrent use.
type Builder struct {
	tree    *pytree.Builder
	table   *Table
	stack   []ScopeID
	builtin BuiltinProvider
	modules ModuleProvider
	reporter diag.Reporter

	// assignTargets is the side set from §4.3: every expression ID that
	// appears as an LHS of some assignment form, consulted by C4 when
	// classifying a qualified-expression child usage as ASSIGNMENT_LHS vs
	// OTHER.
	assignTargets map[pytree.ExprID]bool

	// selfParams maps a method's function-def statement to the NameID of
	// its implicit first parameter, so C4 can recognize `self.x = …`
	// inside that method's body as contributing to the enclosing class's
	// instanceAttributesByName (§4.1 createSelfParameter).
	selfParams map[pytree.StmtID]pytree.NameID

	// methodClassScope maps each method's function-def scope to its class
	// scope — no entry if the function is not a method or is nested inside
	// another function first. Needed because nested
	// functions inside a method must NOT treat `self` specially (only the
	// method's own body does).
	methodClassScope map[ScopeID]ScopeID

	classStack []ScopeID

	// stmtScopes / exprScopes let C4 re-enter the exact Scope that C3
	// created for a function-def/class-def (keyed by Stmt) or a
	// lambda/comprehension (keyed by Expr), rather than creating a second,
	// divergent one.
	stmtScopes map[pytree.StmtID]ScopeID
	exprScopes map[pytree.ExprID]ScopeID

	// selfClassStack / selfNameStack track, per nested method currently
	// being walked by C4, the enclosing class's scope and the text of its
	// self-parameter, so referenceAttribute can recognize `self.x` without
	// re-deriving it from methodClassScope on every attribute node.
	selfClassStack []ScopeID
	selfNameStack  []source.StringID

	// declNameToStmt maps the NameID of a function-def/class-def's own name
	// occurrence back to the statement that declared it, so C5 can rebuild a
	// FunctionInfo/ClassInfo from a FUNC_DECLARATION/CLASS_DECLARATION usage.
	// declStmtToName is its inverse, used to find a class-def's own name
	// occurrence (and hence its finalized Symbol) starting from the scope
	// C5 is currently attaching members to.
	declNameToStmt map[pytree.NameID]pytree.StmtID
	declStmtToName map[pytree.StmtID]pytree.NameID

	// classBases records, per class-def statement, the SymbolID each base
	// expression resolved to (NoSymbolID when unresolved), in declaration
	// order — computed by C4's referenceClassDef since that is where the
	// base expressions are visited in their proper enclosing scope.
	classBases map[pytree.StmtID][]SymbolID
}

// NewBuilder constructs a Builder for one file. moduleFQN is
// "<package>.<moduleName>" per §4.2. builtin/modules may be NopProvider{}
// when a caller only needs scoping behavior (e.g. most unit tests).
func NewBuilder(tree *pytree.Builder, h Hints, strings *source.Interner, moduleFQN string, builtin BuiltinProvider, modules ModuleProvider, reporter diag.Reporter) *Builder {
	if builtin == nil {
		builtin = NopProvider{}
	}
	if modules == nil {
		modules = NopProvider{}
	}
	return &Builder{
		tree:             tree,
		table:            newTable(h, strings, moduleFQN),
		builtin:          builtin,
		modules:          modules,
		reporter:         reporter,
		assignTargets:    make(map[pytree.ExprID]bool),
		selfParams:       make(map[pytree.StmtID]pytree.NameID),
		methodClassScope: make(map[ScopeID]ScopeID),
		declNameToStmt:   make(map[pytree.NameID]pytree.StmtID),
		declStmtToName:   make(map[pytree.StmtID]pytree.NameID),
		classBases:       make(map[pytree.StmtID][]SymbolID),
	}
}

// Table returns the builder's output; valid to call after Build, and in
// tests also mid-construction to assert on partial state.
func (b *Builder) Table() *Table { return b.table }

// Build runs the full C3 → C4 → C5 → C6 pipeline over one file and returns
// its table. isStubModule skips built-in seeding for the base stub modules
// themselves (§4.3), avoiding self-reference.
func (b *Builder) Build(file source.FileID, root *pytree.File, isStubModule bool) *Table {
	fileScope := b.enterScope(ScopeFileInput, NoScopeID, ScopeOwner{}, source.Span{File: file})
	b.table.FileScope = fileScope
	if !isStubModule {
		b.seedBuiltins(fileScope)
	}

	b.bindStmts(root.Body)
	b.leaveScope()

	b.referenceStmts(root.Body, fileScope)
	b.disambiguateAll()
	b.inferStmts(root.Body)
	return b.table
}

func (b *Builder) seedBuiltins(fileScope ScopeID) {
	scope := b.table.Scopes.Get(fileScope)
	for _, ent := range b.builtin.BuiltinSymbols() {
		name := b.table.Strings.Intern(ent.Name)
		if _, exists := scope.nameIndex[name]; exists {
			continue
		}
		sym := Symbol{Name: name, Kind: ent.Kind, FullyQualifiedName: ent.FQN, HasFQN: ent.FQN != ""}
		id := b.table.Symbols.new(sym)
		scope.nameIndex[name] = id
		scope.insertOrder = append(scope.insertOrder, name)
	}
}

// --- scope stack -----------------------------------------------------

func (b *Builder) currentScope() ScopeID {
	if len(b.stack) == 0 {
		return NoScopeID
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) enterScope(kind ScopeKind, parent ScopeID, owner ScopeOwner, span source.Span) ScopeID {
	if parent == NoScopeID {
		parent = b.currentScope()
	}
	id := b.table.Scopes.new(kind, parent, owner, span)
	b.stack = append(b.stack, id)
	if kind == ScopeClass {
		b.classStack = append(b.classStack, id)
	}
	return id
}

func (b *Builder) leaveScope() {
	if len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if scope := b.table.Scopes.Get(top); scope != nil && scope.Kind == ScopeClass {
		if len(b.classStack) > 0 {
			b.classStack = b.classStack[:len(b.classStack)-1]
		}
	}
}

func (b *Builder) currentClassScope() ScopeID {
	if len(b.classStack) == 0 {
		return NoScopeID
	}
	return b.classStack[len(b.classStack)-1]
}

// --- binding (C3 entry points used by bind.go) ------------------------

// addBindingUsage implements §4.1: locate-or-create the local symbol
// (subject to global/nonlocal redirection), add the usage, and set the FQN
// if supplied and not already set. It never decides Function/Class vs Other
// shape — that is deferred to C5 (see DESIGN.md's note on this
// implementation choice); C3 only ever produces SymOther placeholders, each
// carrying the full, ordered usage list C5 needs to reconstruct the right
// final shape.
func (b *Builder) addBindingUsage(name pytree.NameID, text source.StringID, kind UsageKind, fqn string) SymbolID {
	scopeID := b.bindingScopeFor(text)
	scope := b.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID
	}
	id, exists := scope.nameIndex[text]
	if !exists {
		sym := Symbol{Name: text, Kind: SymOther}
		id = b.table.Symbols.new(sym)
		scope.nameIndex[text] = id
		scope.insertOrder = append(scope.insertOrder, text)
	}
	sym := b.table.Symbols.Get(id)
	sym.Usages = append(sym.Usages, Usage{Name: name, Kind: kind})
	if fqn != "" && !sym.HasFQN {
		sym.FullyQualifiedName = fqn
		sym.HasFQN = true
	}
	if name.IsValid() {
		b.tree.SetSymbol(name, id.AsUint32())
	}
	return id
}

// bindingScopeFor applies the global/nonlocal redirection rule from §4.1's
// addBindingUsage and §3's resolve(): global names redirect to file-input;
// nonlocal names redirect to the nearest enclosing non-file-input scope
// that already declares the name (falling back to walking up if none has
// bound it yet, so the eventual binding lands somewhere valid).
func (b *Builder) bindingScopeFor(name source.StringID) ScopeID {
	cur := b.currentScope()
	scope := b.table.Scopes.Get(cur)
	if scope == nil {
		return cur
	}
	if scope.isGlobal(name) {
		return b.table.FileScope
	}
	if scope.isNonlocal(name) {
		parent := scope.Parent
		for parent.IsValid() {
			ps := b.table.Scopes.Get(parent)
			if ps == nil {
				break
			}
			if ps.Kind == ScopeFileInput {
				break
			}
			if _, ok := ps.nameIndex[name]; ok {
				return parent
			}
			parent = ps.Parent
		}
		// No existing binding found up the chain; bind in the nearest
		// enclosing function-like scope so a subsequent read still finds
		// it (a soft best-effort fallback, not itself a spec.md scenario).
		parent = scope.Parent
		for parent.IsValid() {
			ps := b.table.Scopes.Get(parent)
			if ps == nil || ps.Kind == ScopeFileInput {
				break
			}
			if ps.Kind.IsFunctionLike() {
				return parent
			}
			parent = ps.Parent
		}
	}
	return cur
}

// declareGlobal / declareNonlocal implement the `global`/`nonlocal`
// statement handling of §4.3.
func (b *Builder) declareGlobal(name source.StringID) {
	if scope := b.table.Scopes.Get(b.currentScope()); scope != nil {
		scope.declareGlobal(name)
	}
}

func (b *Builder) declareNonlocal(name source.StringID) {
	if scope := b.table.Scopes.Get(b.currentScope()); scope != nil {
		scope.declareNonlocal(name)
	}
}

// --- resolution (C4 entry point used by reference.go) -----------------

// resolve implements §3/§4.1's resolve(name): walk the chain of the current
// scope applying global/nonlocal redirection and the class-scope-skip rule.
func (b *Builder) resolve(fromScope ScopeID, name source.StringID) SymbolID {
	scope := b.table.Scopes.Get(fromScope)
	if scope == nil {
		return NoSymbolID
	}
	if scope.isGlobal(name) {
		return b.lookupLocal(b.table.FileScope, name)
	}
	if scope.isNonlocal(name) {
		parent := scope.Parent
		for parent.IsValid() {
			ps := b.table.Scopes.Get(parent)
			if ps == nil || ps.Kind == ScopeFileInput {
				return NoSymbolID
			}
			if id, ok := ps.nameIndex[name]; ok {
				return id
			}
			parent = ps.Parent
		}
		return NoSymbolID
	}

	cur := fromScope
	skipClassOnce := false
	for cur.IsValid() {
		scope := b.table.Scopes.Get(cur)
		if scope == nil {
			return NoSymbolID
		}
		// Class scopes are transparent to nested-function resolution
		// (§3 invariant) but ARE searched when resolving directly from
		// that class's own body (skipClassOnce only applies once we have
		// crossed into a function-like scope above the class).
		if scope.Kind != ScopeClass || !skipClassOnce {
			if id, ok := scope.nameIndex[name]; ok {
				return id
			}
		}
		if scope.Kind.IsFunctionLike() {
			skipClassOnce = true
		}
		cur = scope.Parent
	}
	return NoSymbolID
}

func (b *Builder) lookupLocal(scopeID ScopeID, name source.StringID) SymbolID {
	scope := b.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID
	}
	return scope.nameIndex[name]
}
