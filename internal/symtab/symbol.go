package symtab

import (
	"pysema/internal/pytree"
	"pysema/internal/source"
)

// SymbolKind discriminates the four Symbol variants. Deliberately a closed
// tagged union (§9 Design Notes: "do not model variants as a base type plus
// inheritance") rather than an interface with four implementations: the
// variants do not share behavior beyond the common fields below, and every
// downstream consumer switches on Kind anyway.
type SymbolKind uint8

const (
	SymOther SymbolKind = iota
	SymFunction
	SymClass
	SymAmbiguous
)

func (k SymbolKind) String() string {
	switch k {
	case SymOther:
		return "other"
	case SymFunction:
		return "function"
	case SymClass:
		return "class"
	case SymAmbiguous:
		return "ambiguous"
	default:
		return "invalid"
	}
}

// UsageKind classifies why a name occurrence refers to a symbol. Any kind
// other than Other is a binding usage (spec.md §3).
type UsageKind uint8

const (
	UsageOther UsageKind = iota
	UsageAssignmentLHS
	UsageCompoundAssignmentLHS
	UsageCompDeclaration
	UsageLoopDeclaration
	UsageParameter
	UsageImport
	UsageFuncDeclaration
	UsageClassDeclaration
	UsageExceptionInstance
	UsageWithInstance
	UsageGlobalDeclaration
)

// IsBinding reports whether this usage kind denotes a write/declaration.
func (k UsageKind) IsBinding() bool { return k != UsageOther }

func (k UsageKind) String() string {
	switch k {
	case UsageAssignmentLHS:
		return "assignment_lhs"
	case UsageCompoundAssignmentLHS:
		return "compound_assignment_lhs"
	case UsageCompDeclaration:
		return "comp_declaration"
	case UsageLoopDeclaration:
		return "loop_declaration"
	case UsageParameter:
		return "parameter"
	case UsageImport:
		return "import"
	case UsageFuncDeclaration:
		return "func_declaration"
	case UsageClassDeclaration:
		return "class_declaration"
	case UsageExceptionInstance:
		return "exception_instance"
	case UsageWithInstance:
		return "with_instance"
	case UsageGlobalDeclaration:
		return "global_declaration"
	default:
		return "other"
	}
}

// Usage is one name occurrence that refers to a symbol.
type Usage struct {
	Name pytree.NameID
	Kind UsageKind
}

// ParamSignature is one entry of a Function symbol's parameter list.
type ParamSignature struct {
	Name         source.StringID
	Kind         pytree.ParamKind
	DeclaredType InferredType
	HasDefault   bool
	Pos          int

	// annotationExpr is the parameter's annotation expression (if any),
	// carried from C5's construction through to C6, which resolves it into
	// DeclaredType (§4.6: "After C6, each function symbol's parameter list
	// is finalized with the per-parameter inferred types pulled from
	// annotations").
	annotationExpr pytree.ExprID
}

// FunctionInfo is the Function-variant payload.
type FunctionInfo struct {
	Def        pytree.StmtID
	Params     []ParamSignature
	LocalsOf   ScopeID // the function's own scope, for locals() publication
	IsMethod   bool
}

// ClassInfo is the Class-variant payload.
type ClassInfo struct {
	Def    pytree.StmtID
	Scope  ScopeID
	// Bases holds one entry per base-class expression in declaration
	// order; NoSymbolID means the base could not be resolved (soft
	// failure, §7) rather than an error.
	Bases []SymbolID
	// HasUnresolvedHierarchy is set when any Bases entry is NoSymbolID or
	// names a symbol that is neither a class nor ambiguous at C5 time, so
	// resolveMember callers can distinguish "absent" from "unknown" per
	// §4.2. A base whose own hierarchy is unresolved does not set it here;
	// ResolveMember reaches that case through its recursion into the base.
	HasUnresolvedHierarchy bool
	// Members is computed once by C5 (§4.5): symbolsByName values union
	// self.x instance attributes not already present as a class-body name.
	Members      map[source.StringID]SymbolID
	MembersOrder []source.StringID
}

// AmbiguousInfo is the Ambiguous-variant payload.
type AmbiguousInfo struct {
	Alternatives []SymbolID
}

// Symbol is the tagged union described in spec.md §3. Exactly one of
// Function/Class/Ambiguous is meaningful, gated by Kind.
type Symbol struct {
	Name               source.StringID
	FullyQualifiedName string
	HasFQN             bool
	Kind               SymbolKind
	Usages             []Usage

	Function  FunctionInfo
	Class     ClassInfo
	Ambiguous AmbiguousInfo
}

// HasBindingUsage reports whether the symbol has at least one usage whose
// kind is a binding usage (everything but Other).
func (s *Symbol) HasBindingUsage() bool {
	for _, u := range s.Usages {
		if u.Kind.IsBinding() {
			return true
		}
	}
	return false
}

// CountBindingUsages counts usages that are binding usages, and separately
// reports whether any of them is a FUNC_DECLARATION or CLASS_DECLARATION —
// the ambiguity trigger condition from §4.5.
func (s *Symbol) CountBindingUsages() (total int, hasDeclKind bool) {
	for _, u := range s.Usages {
		if !u.Kind.IsBinding() {
			continue
		}
		total++
		if u.Kind == UsageFuncDeclaration || u.Kind == UsageClassDeclaration {
			hasDeclKind = true
		}
	}
	return total, hasDeclKind
}

// ResolveMember implements §4.2's resolveMember: local members first, then
// each base class in declaration order. Returns (id, true) for a found
// member, (NoSymbolID, true) for a known absence, and (NoSymbolID, false)
// for "unknown" when the hierarchy has an unresolved base — callers must
// distinguish the last two per §4.2.
func (c *ClassInfo) ResolveMember(symbols *Symbols, name source.StringID) (SymbolID, bool) {
	return c.resolveMember(symbols, name, make(map[SymbolID]bool))
}

// resolveMember is ResolveMember's recursion, threading a visited set of
// base SymbolIDs already expanded along the current search path. A stub of
// varying quality can describe `class A(B)` and `class B(A)` at once (§9
// "Cyclic ownership"); without this guard a base cycle would recurse forever
// instead of degrading to "unknown".
func (c *ClassInfo) resolveMember(symbols *Symbols, name source.StringID, visited map[SymbolID]bool) (SymbolID, bool) {
	if id, ok := c.Members[name]; ok {
		return id, true
	}
	for _, baseID := range c.Bases {
		if !baseID.IsValid() {
			return NoSymbolID, false
		}
		if visited[baseID] {
			return NoSymbolID, false
		}
		base := symbols.Get(baseID)
		if base == nil || base.Kind != SymClass {
			return NoSymbolID, false
		}
		visited[baseID] = true
		if id, ok := base.Class.resolveMember(symbols, name, visited); ok {
			if id.IsValid() {
				return id, true
			}
			// Known absent in this base's own hierarchy; keep searching
			// the remaining bases before concluding absence overall.
			continue
		} else {
			return NoSymbolID, false
		}
	}
	if c.HasUnresolvedHierarchy {
		return NoSymbolID, false
	}
	return NoSymbolID, true
}

// Symbols is the arena backing every Symbol created by a Builder.
type Symbols struct{ data []Symbol }

func newSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{data: make([]Symbol, 1, capacity+1)}
}

func (s *Symbols) new(sym Symbol) SymbolID {
	id := SymbolID(len(s.data))
	s.data = append(s.data, sym)
	return id
}

func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

func (s *Symbols) Len() int { return len(s.data) - 1 }

func (s *Symbols) Data() []Symbol {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}
