package stubs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pysema/internal/symtab"
)

// Index is the loaded contents of a stub directory: the merged builtin
// namespace plus one exported-symbol list per module FQN. It implements
// both symtab.BuiltinProvider and symtab.ModuleProvider so a Builder can be
// constructed directly against it (or against a globalindex.FallbackProvider
// wrapping it for same-project modules).
type Index struct {
	builtins []symtab.ExportedSymbol
	modules  map[string][]symtab.ExportedSymbol
}

// BuiltinSymbols implements symtab.BuiltinProvider.
func (idx *Index) BuiltinSymbols() []symtab.ExportedSymbol { return idx.builtins }

// SymbolsForModule implements symtab.ModuleProvider.
func (idx *Index) SymbolsForModule(fqn string) ([]symtab.ExportedSymbol, bool) {
	exp, ok := idx.modules[fqn]
	return exp, ok
}

// Load reads every *.toml manifest directly under dir (non-recursive,
// matching the teacher's flat internal/project manifest layout) and merges
// them into one Index. A [[symbols]] entry from a `builtin = true` manifest
// is appended to the shared builtin namespace; every other manifest files
// its symbols under its `module` FQN.
func Load(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("stubs: reading %s: %w", dir, err)
	}

	idx := &Index{modules: make(map[string][]symtab.ExportedSymbol)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		module, builtin, exports, err := loadManifest(path)
		if err != nil {
			return nil, err
		}
		if builtin {
			idx.builtins = append(idx.builtins, exports...)
			continue
		}
		idx.modules[module] = append(idx.modules[module], exports...)
	}
	return idx, nil
}
