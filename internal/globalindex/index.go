// Package globalindex accumulates, across one analysis run, the top-level
// bindings each file exports under its module FQN, so a later file's
// wildcard or aliased import of an earlier one resolves without re-parsing
// it. Grounded on the teacher's internal/driver in-memory module cache
// (ModuleCache, keyed by module path) for the map-plus-mutex shape, and on
// internal/driver/dcache.go for the on-disk persistence idiom (msgpack to a
// cache file named by a hash of the analyzed path set) reused in cache.go.
package globalindex

import (
	"sync"

	"pysema/internal/symtab"
)

// Index is the read side of §4.10's global-symbol index:
// globalSymbolsByModuleName. internal/driver's collection phase is
// parallel: its workers read the index (through wildcard/aliased imports)
// while other workers write to it, and the RWMutex serializes those reads
// against the writes. Which modules a collection-phase read sees depends on
// worker timing; the driver's second phase runs only after every write has
// finished.
type Index struct {
	mu      sync.RWMutex
	byModule map[string][]symtab.ExportedSymbol
}

// New returns an empty Index.
func New() *Index {
	return &Index{byModule: make(map[string][]symtab.ExportedSymbol)}
}

// AddModule records fqn's exported top-level symbols, overwriting any prior
// entry for the same module (a module is analyzed at most once per run).
func (idx *Index) AddModule(fqn string, exports []symtab.ExportedSymbol) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byModule[fqn] = exports
}

// SymbolsForModule implements symtab.ModuleProvider.
func (idx *Index) SymbolsForModule(fqn string) ([]symtab.ExportedSymbol, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	exp, ok := idx.byModule[fqn]
	return exp, ok
}

// Modules returns the set of module FQNs currently indexed, for cache
// persistence and diagnostics.
func (idx *Index) Modules() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.byModule))
	for fqn := range idx.byModule {
		out = append(out, fqn)
	}
	return out
}

// FallbackProvider combines two ModuleProviders, consulting Primary before
// Secondary. internal/driver uses it with the batch's global index as
// Primary and the stub index as Secondary, the composition
// symtab.ModuleProvider's doc describes; cmd/pysema also uses it to put a
// loaded cache index behind the stub index.
type FallbackProvider struct {
	Primary, Secondary symtab.ModuleProvider
}

func (f FallbackProvider) SymbolsForModule(fqn string) ([]symtab.ExportedSymbol, bool) {
	if f.Primary != nil {
		if exp, ok := f.Primary.SymbolsForModule(fqn); ok {
			return exp, ok
		}
	}
	if f.Secondary != nil {
		return f.Secondary.SymbolsForModule(fqn)
	}
	return nil, false
}
