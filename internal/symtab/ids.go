// Package symtab builds the symbol table described in the resolver design:
// a scope graph (C1), a tagged-union symbol model (C2), and the three
// traversals that populate them — binding (C3), reference (C4), and shallow
// type inference (C6) — with a disambiguation/attachment fix-up (C5) run
// between the second and third traversal.
//
// A Builder owns every scope and symbol created for one file and is not
// safe for concurrent use; callers analyzing many files in parallel hold one
// Builder per file (see internal/driver).
package symtab

// ScopeID identifies a scope in a Builder's arena.
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

// IsValid reports whether the ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol in a Builder's arena.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol reference.
const NoSymbolID SymbolID = 0

// IsValid reports whether the ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// AsUint32 and FromUint32 convert to/from the bare uint32 slot stored on
// pytree.NameNode, which cannot reference SymbolID directly without pytree
// importing symtab.
func (id SymbolID) AsUint32() uint32 { return uint32(id) }

func SymbolIDFromUint32(v uint32) SymbolID { return SymbolID(v) }
