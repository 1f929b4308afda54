package symtab

// ExportedSymbol is the shape a stub manifest or a cross-file global-symbol
// index entry takes when it crosses into symtab. Both internal/stubs and
// internal/globalindex produce these; symtab never imports either package
// directly, consuming them only through the two interfaces below (§6
// "Consumed" interfaces).
type ExportedSymbol struct {
	Name string
	FQN  string
	// Kind mirrors SymbolKind's handful of useful values for a stub entry:
	// a stub only ever needs to say "this is a function" or "this is a
	// class" or "anything else" — it never carries a real function body or
	// class scope to attach Members to.
	Kind SymbolKind
}

// BuiltinProvider exposes the precomputed built-in namespace (§4.3
// file-input seeding). internal/stubs implements this.
type BuiltinProvider interface {
	BuiltinSymbols() []ExportedSymbol
}

// ModuleProvider exposes per-module exported symbols for import resolution
// (§4.3 import/from-import/wildcard handling). Both internal/stubs (for
// standard-library and third-party modules) and internal/globalindex (for
// same-project modules) implement this; a Builder is typically given a
// provider that checks the global index first and falls back to stubs.
type ModuleProvider interface {
	SymbolsForModule(fqn string) ([]ExportedSymbol, bool)
}

// NopProvider satisfies both interfaces with empty results, for tests that
// exercise scoping without needing a real stub/global index.
type NopProvider struct{}

func (NopProvider) BuiltinSymbols() []ExportedSymbol                        { return nil }
func (NopProvider) SymbolsForModule(string) ([]ExportedSymbol, bool) { return nil, false }
