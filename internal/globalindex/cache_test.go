package globalindex

import (
	"testing"

	"pysema/internal/symtab"
)

func TestHashFileSetIsOrderIndependent(t *testing.T) {
	a := HashFileSet([]string{"a.py", "b.py"})
	b := HashFileSet([]string{"b.py", "a.py"})
	if a != b {
		t.Fatalf("expected order-independent hash, got %q vs %q", a, b)
	}
	if c := HashFileSet([]string{"a.py", "c.py"}); c == a {
		t.Fatalf("expected different file sets to hash differently")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx := New()
	idx.AddModule("pkg.mod", []symtab.ExportedSymbol{{Name: "f", FQN: "pkg.mod.f", Kind: symtab.SymFunction}})

	key := HashFileSet([]string{"mod.py"})
	if err := Save(idx, dir, key); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, ok := Load(dir, key)
	if !ok {
		t.Fatalf("expected Load to find the saved cache")
	}
	exports, ok := loaded.SymbolsForModule("pkg.mod")
	if !ok || len(exports) != 1 || exports[0].FQN != "pkg.mod.f" || exports[0].Kind != symtab.SymFunction {
		t.Fatalf("unexpected round-tripped exports: %+v", exports)
	}
}

func TestLoadMissesOnUnknownKey(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Load(dir, "does-not-exist"); ok {
		t.Fatalf("expected miss for an unwritten cache key")
	}
}
