package driver

import (
	"context"
	"testing"

	"pysema/internal/source"
	"pysema/internal/symtab"
)

func TestBatchResolvesCrossFileImport(t *testing.T) {
	fs := source.NewFileSet()
	provider := fs.AddVirtual("provider.py", []byte("def helper():\n    pass\n"))
	consumer := fs.AddVirtual("consumer.py", []byte("from provider import helper\nhelper()\n"))

	idx, results, err := Batch(context.Background(), fs, []source.FileID{provider, consumer}, Options{Builtin: symtab.NopProvider{}})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.ParseOK {
			t.Fatalf("expected %s to parse cleanly", r.Path)
		}
		if r.Table == nil {
			t.Fatalf("expected %s to produce a table", r.Path)
		}
	}
	if _, ok := idx.SymbolsForModule("provider"); !ok {
		t.Fatalf("expected the global index to carry provider's exports after the batch")
	}
}

// S4 through the real CLI-facing path: consumer.py's `from .other import
// helper` (one dot, an explicit sibling module) must resolve to the FQN
// "pkg.other.helper" the same way resolve_test.go's single-file
// TestRelativeImportResolvesFQN checks it in isolation, and the batch must
// still publish other.py's own exports into the shared global index.
func TestBatchResolvesRelativeImport(t *testing.T) {
	fs := source.NewFileSet()
	other := fs.AddVirtual("other.py", []byte("def helper():\n    pass\n"))
	consumer := fs.AddVirtual("consumer.py", []byte("from .other import helper\nhelper()\n"))

	idx, results, err := Batch(context.Background(), fs, []source.FileID{other, consumer}, Options{
		Package: "pkg",
		Builtin: symtab.NopProvider{},
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if _, ok := idx.SymbolsForModule("pkg.other"); !ok {
		t.Fatalf("expected the global index to carry pkg.other's exports after the batch")
	}

	var consumerTable *symtab.Table
	for _, r := range results {
		if r.Path == "consumer.py" {
			consumerTable = r.Table
		}
		if !r.ParseOK {
			t.Fatalf("expected %s to parse cleanly", r.Path)
		}
	}
	if consumerTable == nil {
		t.Fatalf("expected a table for consumer.py")
	}
	helper := findGlobal(t, consumerTable, "helper")
	if helper.FullyQualifiedName != "pkg.other.helper" {
		t.Fatalf("expected FQN pkg.other.helper, got %q", helper.FullyQualifiedName)
	}
}

// S5 through the real CLI-facing path: a wildcard import of a stub-only
// module (never part of the batch's own files, only reachable via
// Options.Stubs) must copy every exported name into the importing file's
// module scope and mark the import resolved.
func TestBatchResolvesWildcardFromStub(t *testing.T) {
	fs := source.NewFileSet()
	consumer := fs.AddVirtual("consumer.py", []byte("from typing import *\nList\n"))

	_, results, err := Batch(context.Background(), fs, []source.FileID{consumer}, Options{
		Builtin: symtab.NopProvider{},
		Stubs:   fakeStubProvider{"typing": {{Name: "List", Kind: symtab.SymOther}}},
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.ParseOK {
		t.Fatalf("expected consumer.py to parse cleanly")
	}
	if len(r.Table.WildcardImports) != 1 || !r.Table.WildcardImports[0].Resolved {
		t.Fatalf("expected one resolved wildcard import, got %+v", r.Table.WildcardImports)
	}
	findGlobal(t, r.Table, "List")
}

// fakeStubProvider is a hand-written symtab.ModuleProvider standing in for
// internal/stubs' real *stubs.Index, exactly the way S5's spec.md scenario
// describes a wildcard import copying a stub module's exports.
type fakeStubProvider map[string][]symtab.ExportedSymbol

func (p fakeStubProvider) SymbolsForModule(fqn string) ([]symtab.ExportedSymbol, bool) {
	exports, ok := p[fqn]
	return exports, ok
}

func findGlobal(t *testing.T, table *symtab.Table, name string) *symtab.Symbol {
	t.Helper()
	for _, id := range table.GlobalVariables() {
		sym := table.Symbols.Get(id)
		if sym == nil {
			continue
		}
		if text, _ := table.Strings.Lookup(sym.Name); text == name {
			return sym
		}
	}
	t.Fatalf("expected %s bound in module scope", name)
	return nil
}

func TestBatchIsEmptyForNoFiles(t *testing.T) {
	fs := source.NewFileSet()
	_, results, err := Batch(context.Background(), fs, nil, Options{})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}
