// Package stubs loads precomputed symbol summaries for the standard library
// and third-party modules from a directory of TOML manifests, grounded on
// the teacher's internal/project TOML-driven manifest loading
// (BurntSushi/toml). Each manifest describes one module's exported names
// well enough for symtab to seed builtins and resolve imports without ever
// parsing that module's own source.
package stubs

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"pysema/internal/symtab"
)

// ErrManifestMissingModule is returned when a manifest names no module and
// is not marked [builtin] — the loader has no FQN to file its symbols
// under.
var ErrManifestMissingModule = errors.New("stub manifest: missing module name and not marked builtin")

// tomlManifest is the on-disk shape of one *.toml stub file.
//
//	builtin = true
//
//	[[symbols]]
//	name = "print"
//	kind = "function"
//
// or, for a module manifest:
//
//	module = "typing"
//
//	[[symbols]]
//	name = "List"
//	kind = "class"
type tomlManifest struct {
	Module  string            `toml:"module"`
	Builtin bool              `toml:"builtin"`
	Symbols []tomlSymbolEntry `toml:"symbols"`
}

type tomlSymbolEntry struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
	// FQN overrides the default module.name FQN, for symbols re-exported
	// under a different home (e.g. typing.List aliasing builtins.list).
	FQN string `toml:"fqn"`
}

func parseKind(kind string) symtab.SymbolKind {
	switch kind {
	case "function":
		return symtab.SymFunction
	case "class":
		return symtab.SymClass
	default:
		return symtab.SymOther
	}
}

// loadManifest parses one stub file into exported symbols plus the module
// FQN they belong under (empty for a builtin manifest).
func loadManifest(path string) (module string, builtin bool, exports []symtab.ExportedSymbol, err error) {
	var raw tomlManifest
	if _, err = toml.DecodeFile(path, &raw); err != nil {
		return "", false, nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if raw.Module == "" && !raw.Builtin {
		return "", false, nil, fmt.Errorf("%s: %w", path, ErrManifestMissingModule)
	}
	exports = make([]symtab.ExportedSymbol, 0, len(raw.Symbols))
	for _, s := range raw.Symbols {
		fqn := s.FQN
		if fqn == "" {
			if raw.Module != "" {
				fqn = raw.Module + "." + s.Name
			} else {
				fqn = s.Name
			}
		}
		exports = append(exports, symtab.ExportedSymbol{
			Name: s.Name,
			FQN:  fqn,
			Kind: parseKind(s.Kind),
		})
	}
	return raw.Module, raw.Builtin, exports, nil
}
