package globalindex

import (
	"testing"

	"pysema/internal/symtab"
)

func TestAddModuleThenSymbolsForModule(t *testing.T) {
	idx := New()
	exports := []symtab.ExportedSymbol{{Name: "f", FQN: "pkg.mod.f", Kind: symtab.SymFunction}}
	idx.AddModule("pkg.mod", exports)

	got, ok := idx.SymbolsForModule("pkg.mod")
	if !ok {
		t.Fatalf("expected pkg.mod to be present")
	}
	if len(got) != 1 || got[0].FQN != "pkg.mod.f" {
		t.Fatalf("unexpected exports: %+v", got)
	}

	if _, ok := idx.SymbolsForModule("pkg.other"); ok {
		t.Fatalf("expected pkg.other to be absent")
	}
}

func TestFallbackProviderPrefersPrimary(t *testing.T) {
	primary := New()
	primary.AddModule("pkg.mod", []symtab.ExportedSymbol{{Name: "f", FQN: "pkg.mod.f"}})
	secondary := New()
	secondary.AddModule("pkg.mod", []symtab.ExportedSymbol{{Name: "f", FQN: "stub.f"}})
	secondary.AddModule("typing", []symtab.ExportedSymbol{{Name: "List", FQN: "typing.List"}})

	fp := FallbackProvider{Primary: primary, Secondary: secondary}

	got, ok := fp.SymbolsForModule("pkg.mod")
	if !ok || got[0].FQN != "pkg.mod.f" {
		t.Fatalf("expected primary's entry to win, got %+v", got)
	}

	got, ok = fp.SymbolsForModule("typing")
	if !ok || got[0].FQN != "typing.List" {
		t.Fatalf("expected fallback to secondary for typing, got %+v", got)
	}

	if _, ok := fp.SymbolsForModule("nope"); ok {
		t.Fatalf("expected unknown module to miss in both providers")
	}
}

func TestModulesListsEveryAddedFQN(t *testing.T) {
	idx := New()
	idx.AddModule("pkg.a", nil)
	idx.AddModule("pkg.b", nil)
	mods := idx.Modules()
	if len(mods) != 2 {
		t.Fatalf("expected 2 modules, got %v", mods)
	}
}
