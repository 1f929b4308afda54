package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"pysema/internal/config"
	"pysema/internal/diag"
	"pysema/internal/driver"
	"pysema/internal/globalindex"
	"pysema/internal/report"
	"pysema/internal/source"
	"pysema/internal/stubs"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file.py|directory>...",
	Short: "Build symbol tables for one or more files and print diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("config", "", "path to a pysema.toml config file")
	analyzeCmd.Flags().String("cache", "", "directory for the global-symbol index's msgpack cache (empty disables caching)")
	analyzeCmd.Flags().Bool("json", false, "emit diagnostics as JSON instead of text")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

// isTerminal reports whether f is attached to an interactive terminal,
// following the teacher's own color-gating check in cmd/surge/main.go.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cacheDir, err := cmd.Flags().GetString("cache")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	cfg := config.Default()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}

	paths, err := collectFiles(args, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .py files found under %v", args)
	}

	var builtin *stubs.Index
	if cfg.StubsDir != "" {
		if builtin, err = stubs.Load(cfg.StubsDir); err != nil {
			return fmt.Errorf("failed to load stub manifests: %w", err)
		}
	}

	fs := source.NewFileSet()
	files := make([]source.FileID, 0, len(paths))
	for _, p := range paths {
		fid, err := fs.Load(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, fid)
	}

	opts := driver.Options{Package: cfg.Package, Workers: jobs}
	if builtin != nil {
		opts.Builtin = builtin
		opts.Stubs = builtin
	}

	var cacheKey string
	if cacheDir != "" {
		cacheKey = globalindex.HashFileSet(paths)
		if cached, hit := globalindex.Load(cacheDir, cacheKey); hit {
			// A cache hit only ever adds another fallback tier behind the
			// batch's own fresh global index (internal/driver always
			// rebuilds every file's own table from its tree, §4.10): a
			// module not yet re-collected within this run can still
			// resolve a wildcard/aliased cross-file import against last
			// run's bindings instead of surfacing as unresolved.
			if opts.Stubs != nil {
				opts.Stubs = globalindex.FallbackProvider{Primary: opts.Stubs, Secondary: cached}
			} else {
				opts.Stubs = cached
			}
		}
	}

	var events chan report.Event
	var progDone chan struct{}
	if !quiet && !asJSON && isTerminal(os.Stdout) {
		events = make(chan report.Event, len(files))
		opts.Events = events
		progDone = runProgress(len(files), events)
	}

	idx, results, err := driver.Batch(cmd.Context(), fs, files, opts)
	if events != nil {
		close(events)
		<-progDone
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if cacheDir != "" {
		_ = globalindex.Save(idx, cacheDir, cacheKey)
	}

	var all []diag.Diagnostic
	hasErrors := false
	for _, r := range results {
		all = append(all, r.Diagnostics...)
		errs, _ := report.Summary(r.Diagnostics)
		hasErrors = hasErrors || errs > 0
	}

	format := report.FormatText
	if asJSON {
		format = report.FormatJSON
	}
	if err := report.Write(os.Stdout, fs, all, format); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}

	if hasErrors {
		cmd.SilenceUsage = true
		return fmt.Errorf("")
	}
	return nil
}

func runProgress(total int, events <-chan report.Event) chan struct{} {
	done := make(chan struct{})
	model := report.NewProgressModel("analyzing", total, events)
	go func() {
		defer close(done)
		_, _ = tea.NewProgram(model).Run()
	}()
	return done
}

// collectFiles walks every arg, taking a file argument as given and
// gathering *.py files recursively under a directory argument, skipping any
// walked path that filepath.Match reports as matching one of the exclude
// glob patterns in full (the pattern is matched against the whole path as
// the walk produces it, starting with the argument; file arguments are
// never excluded).
func collectFiles(args, exclude []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if !strings.HasSuffix(path, ".py") {
				return nil
			}
			if excluded(path, exclude) {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func excluded(path string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
	}
	return false
}
