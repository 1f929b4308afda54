// Package driver fans out one independent builder per file across a bounded
// worker pool, grounded directly on the teacher's
// internal/driver/parallel_diagnose.go: the same two-phase
// parallel-then-join shape (a first pass every worker must finish before the
// second begins), the same golang.org/x/sync/errgroup fan-out, and the same
// per-worker panic/recover conversion (here into an error that fails the
// whole batch). The teacher's version
// joins on a module dependency DAG; this one joins on a single global-symbol
// barrier instead, since resolution here has exactly one cross-file
// dependency (§5: collection before inference) rather than a general module
// graph.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"pysema/internal/diag"
	"pysema/internal/globalindex"
	"pysema/internal/pyparse"
	"pysema/internal/pytree"
	"pysema/internal/report"
	"pysema/internal/source"
	"pysema/internal/symtab"
)

// FileResult is one file's finished table plus the diagnostics its passes
// raised.
type FileResult struct {
	File        source.FileID
	Path        string
	Table       *symtab.Table
	ParseOK     bool
	Diagnostics []diag.Diagnostic
}

// Options configures a Batch run.
type Options struct {
	// Package roots every file's module FQN (§4.2). It only feeds
	// moduleFQNFor: an absolute import's resolution key and FQN derive from
	// the dotted path written at the import site, never from this field; a
	// relative import's module is computed from the importing file's module
	// FQN (bind.go's resolveRelativeModule) and so does include it. Leave
	// Package empty unless every cross-file import in the
	// batch already spells out the package-qualified path; otherwise a
	// plain "from provider import helper" resolves against the bare key
	// "provider" while this batch would publish it under "<Package>.provider",
	// and the two never meet.
	Package string
	// Workers bounds concurrency; zero means runtime.NumCPU().
	Workers int
	// Builtin resolves the file-input seeding namespace (internal/stubs).
	Builtin symtab.BuiltinProvider
	// Stubs resolves non-project modules; nil is allowed (no stdlib stubs
	// loaded), in which case every external import is a soft unresolved
	// import rather than a hard failure.
	Stubs symtab.ModuleProvider
	// Events, if non-nil, receives one report.Event per finished file. The
	// caller (cmd/pysema) is responsible for draining it — typically by
	// handing it to a report.ProgressModel running under bubbletea.
	Events chan<- report.Event
}

// Batch runs C1–C6 over every file in fs, in two phases: a parallel
// collection phase that parses and fully builds each file independently and
// publishes its top-level bindings to a shared globalindex.Index, and a
// second parallel phase that parses and fully builds every file again now
// that every file's module is visible to wildcard/aliased cross-file imports
// (§5); the second phase's results replace the first's. Both phases share the same
// worker bound and the same errgroup-per-phase barrier the teacher's
// parallel_diagnose.go uses between its own build stages.
func Batch(ctx context.Context, fs *source.FileSet, files []source.FileID, opts Options) (*globalindex.Index, []FileResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	global := globalindex.New()
	var modules symtab.ModuleProvider = global
	if opts.Stubs != nil {
		modules = globalindex.FallbackProvider{Primary: global, Secondary: opts.Stubs}
	}

	results := make([]*FileResult, len(files))

	// Phase 1: collection. Each worker parses its file and runs the full
	// build, then publishes the file's global variables to the shared index.
	// A wildcard/aliased import of a batch module sees it here only if that
	// module's worker has already published — every worker only ever writes
	// to its own results[i] slot and the index's
	// own locked map, matching §5's "no shared mutable state is exposed
	// during construction" per builder.
	if err := runPhase(ctx, workers, files, func(i int, fileID source.FileID) error {
		res := analyzeFile(fs, fileID, opts, modules, false)
		results[i] = res
		if res.Table != nil {
			global.AddModule(res.Table.ModuleFQN, exportedSymbols(res.Table))
		}
		notify(opts.Events, res)
		return nil
	}); err != nil {
		return nil, nil, err
	}

	// Phase 2: inference. Re-run each file's builder now that global
	// bindings are stable, so C6 can resolve types that flow through a
	// cross-file wildcard/aliased import discovered only in phase 1.
	if err := runPhase(ctx, workers, files, func(i int, fileID source.FileID) error {
		res := analyzeFile(fs, fileID, opts, modules, true)
		results[i] = res
		return nil
	}); err != nil {
		return nil, nil, err
	}

	out := make([]FileResult, len(results))
	for i, r := range results {
		out[i] = *r
	}
	return global, out, nil
}

func runPhase(ctx context.Context, workers int, files []source.FileID, work func(i int, fileID source.FileID) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, fileID := range files {
		i, fileID := i, fileID
		g.Go(func() (err error) {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("driver: panic analyzing file %d: %v", fileID, r)
				}
			}()
			return work(i, fileID)
		})
	}
	return g.Wait()
}

// analyzeFile parses the file and runs a fresh Builder end to end (C1–C6).
// Both phases call it and it keeps nothing between calls — phase 2 reuses
// nothing from phase 1's tree, since a Table is frozen after Build and the
// core exposes no re-entry point into an existing one. Its bool argument is
// unused: both phases do the same work.
func analyzeFile(fs *source.FileSet, fileID source.FileID, opts Options, modules symtab.ModuleProvider, _ bool) *FileResult {
	f := fs.Get(fileID)
	res := &FileResult{File: fileID, Path: f.Path}
	bag := diag.NewBag(256)
	reporter := diag.BagReporter{Bag: bag}

	tree := pytree.NewBuilder(pytree.Hints{})
	strings := source.NewInterner()
	parser := pyparse.New(f, tree, strings, reporter)
	parseResult := parser.ParseFile()
	res.ParseOK = parseResult.Complete

	root := tree.Files.Get(parseResult.File)
	moduleFQN := moduleFQNFor(opts.Package, f.Path)

	b := symtab.NewBuilder(tree, symtab.Hints{}, strings, moduleFQN, opts.Builtin, modules, reporter)
	res.Table = b.Build(fileID, root, false)
	res.Diagnostics = bag.Items()
	return res
}

// moduleFQNFor derives "<package>.<moduleName>" (§4.2) from a file path: the
// base name with its extension stripped, rooted under pkg if pkg is set.
func moduleFQNFor(pkg, path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if pkg == "" {
		return base
	}
	return pkg + "." + base
}

// exportedSymbols reduces a finished Table's file-scope locals down to the
// ExportedSymbol shape internal/globalindex and internal/stubs share, so a
// later file's cross-file import sees the same symbol kinds a stub manifest
// would describe.
func exportedSymbols(t *symtab.Table) []symtab.ExportedSymbol {
	locals := t.GlobalVariables()
	out := make([]symtab.ExportedSymbol, 0, len(locals))
	for _, id := range locals {
		sym := t.Symbols.Get(id)
		if sym == nil {
			continue
		}
		name, _ := t.Strings.Lookup(sym.Name)
		fqn := sym.FullyQualifiedName
		if !sym.HasFQN {
			fqn = t.ModuleFQN + "." + name
		}
		out = append(out, symtab.ExportedSymbol{Name: name, FQN: fqn, Kind: sym.Kind})
	}
	return out
}

func notify(events chan<- report.Event, res *FileResult) {
	if events == nil {
		return
	}
	var err error
	if !res.ParseOK {
		err = fmt.Errorf("%s: parse did not complete", res.Path)
	}
	events <- report.Event{Path: res.Path, Diagnostics: len(res.Diagnostics), Err: err}
}
