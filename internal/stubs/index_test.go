package stubs

import (
	"os"
	"path/filepath"
	"testing"

	"pysema/internal/symtab"
)

func writeManifest(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write manifest fixture: %v", err)
	}
}

func TestLoadMergesBuiltinsAndModules(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "builtins.toml", `
builtin = true

[[symbols]]
name = "print"
kind = "function"

[[symbols]]
name = "list"
kind = "class"
`)
	writeManifest(t, dir, "typing.toml", `
module = "typing"

[[symbols]]
name = "List"
kind = "class"

[[symbols]]
name = "Any"
kind = "other"
`)

	idx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	builtins := idx.BuiltinSymbols()
	if len(builtins) != 2 {
		t.Fatalf("expected 2 builtin symbols, got %+v", builtins)
	}

	exports, ok := idx.SymbolsForModule("typing")
	if !ok || len(exports) != 2 {
		t.Fatalf("expected 2 typing exports, got %+v", exports)
	}
	var sawList bool
	for _, e := range exports {
		if e.Name == "List" && e.FQN == "typing.List" && e.Kind == symtab.SymClass {
			sawList = true
		}
	}
	if !sawList {
		t.Fatalf("expected typing.List to resolve with FQN typing.List, got %+v", exports)
	}

	if _, ok := idx.SymbolsForModule("unknown"); ok {
		t.Fatalf("expected unknown module to miss")
	}
}

func TestLoadHonorsExplicitFQNOverride(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "typing_extensions.toml", `
module = "typing_extensions"

[[symbols]]
name = "List"
kind = "class"
fqn = "typing.List"
`)

	idx, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	exports, ok := idx.SymbolsForModule("typing_extensions")
	if !ok || len(exports) != 1 || exports[0].FQN != "typing.List" {
		t.Fatalf("expected FQN override to take effect, got %+v", exports)
	}
}

func TestLoadRejectsManifestMissingModuleName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "bad.toml", `
[[symbols]]
name = "x"
kind = "other"
`)
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected an error for a manifest with neither module nor builtin set")
	}
}
