// Package config loads pysema's own run configuration from a TOML file,
// grounded on the teacher's internal/project TOML-decoding idiom
// (toml.DecodeFile into a private nested struct, toml.MetaData.IsDefined
// guarding optional sections) reduced to the handful of settings
// cmd/pysema's analyze subcommand needs: where stub manifests live, where
// the global-symbol cache lives, and which paths/patterns to skip.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is pysema's run configuration, loaded from a `[pysema]`-sectioned
// TOML file (conventionally `pysema.toml` at a project root).
type Config struct {
	// StubsDir points at a directory of *.toml stub manifests (internal/
	// stubs). Defaults to "stubs" when the config file does not set it. The
	// path is used as given (relative to the working directory, not to the
	// config file); an empty value loads no stubs.
	StubsDir string
	// CacheDir points at the directory internal/globalindex persists its
	// msgpack cache file under. Defaults to ".pysema-cache".
	CacheDir string
	// Exclude lists glob patterns (matched against each file's relative
	// path) to skip during a directory walk.
	Exclude []string
	// Package names the top-level package every analyzed file's FQN is
	// rooted under (§4.2's "<package>.<moduleName>").
	Package string
}

type tomlConfig struct {
	Pysema struct {
		StubsDir string   `toml:"stubs_dir"`
		CacheDir string   `toml:"cache_dir"`
		Exclude  []string `toml:"exclude"`
		Package  string   `toml:"package"`
	} `toml:"pysema"`
}

// Default returns a Config with every field at its documented default.
func Default() Config {
	return Config{StubsDir: "stubs", CacheDir: ".pysema-cache", Package: ""}
}

// Load reads and parses path, applying Default() for any field the file
// does not set.
func Load(path string) (Config, error) {
	cfg := Default()
	var raw tomlConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("pysema", "stubs_dir") {
		cfg.StubsDir = raw.Pysema.StubsDir
	}
	if meta.IsDefined("pysema", "cache_dir") {
		cfg.CacheDir = raw.Pysema.CacheDir
	}
	if meta.IsDefined("pysema", "exclude") {
		cfg.Exclude = raw.Pysema.Exclude
	}
	if meta.IsDefined("pysema", "package") {
		cfg.Package = raw.Pysema.Package
	}
	return cfg, nil
}
