package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pysema.toml")
	contents := `
[pysema]
package = "myapp"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Package != "myapp" {
		t.Fatalf("expected package = myapp, got %q", cfg.Package)
	}
	if cfg.StubsDir != Default().StubsDir {
		t.Fatalf("expected default stubs_dir, got %q", cfg.StubsDir)
	}
	if cfg.CacheDir != Default().CacheDir {
		t.Fatalf("expected default cache_dir, got %q", cfg.CacheDir)
	}
}

func TestLoadReadsAllFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pysema.toml")
	contents := `
[pysema]
stubs_dir = "custom_stubs"
cache_dir = "custom_cache"
package = "app"
exclude = ["vendor/*", "build/*"]
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StubsDir != "custom_stubs" || cfg.CacheDir != "custom_cache" || cfg.Package != "app" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Exclude) != 2 {
		t.Fatalf("expected 2 exclude patterns, got %v", cfg.Exclude)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for malformed TOML")
	}
}
