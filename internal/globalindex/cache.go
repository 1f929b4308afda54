package globalindex

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"pysema/internal/symtab"
)

// diskSchemaVersion guards against decoding a cache file written by an
// incompatible build; bump it whenever diskPayload's shape changes.
const diskSchemaVersion uint16 = 1

// diskEntry is the on-disk shape of one module's exported symbols.
type diskEntry struct {
	Name string
	FQN  string
	Kind uint8
}

type diskPayload struct {
	Schema  uint16
	Modules map[string][]diskEntry
}

// HashFileSet derives a cache key from the set of file paths being
// analyzed, so an unrelated file set never hits a stale cache by accident.
// It is intentionally path-only (not content-hashed) — the cache is an
// optimization for repeated full-batch runs over an unchanged file list; a
// content-level staleness check belongs to the caller (internal/driver),
// which always rebuilds a file's own bindings from its tree regardless of
// what the cache returned for other files.
func HashFileSet(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	h := sha256.New()
	for _, p := range sorted {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// cachePath returns the msgpack cache file path for key under dir.
func cachePath(dir, key string) string {
	return filepath.Join(dir, "globalindex-"+key+".mp")
}

// Save persists idx to dir under a name derived from key (see HashFileSet).
func Save(idx *Index, dir, key string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	idx.mu.RLock()
	payload := diskPayload{Schema: diskSchemaVersion, Modules: make(map[string][]diskEntry, len(idx.byModule))}
	for fqn, exports := range idx.byModule {
		entries := make([]diskEntry, len(exports))
		for i, e := range exports {
			entries[i] = diskEntry{Name: e.Name, FQN: e.FQN, Kind: uint8(e.Kind)}
		}
		payload.Modules[fqn] = entries
	}
	idx.mu.RUnlock()

	p := cachePath(dir, key)
	f, err := os.CreateTemp(dir, "tmp-globalindex-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p)
}

// Load reads a previously Saved Index for key from dir. It returns
// (nil, false) on any miss or error — the cache is always a pure
// optimization (§4.10), so a caller just rebuilds the index from scratch
// rather than treating a miss as a hard failure.
func Load(dir, key string) (*Index, bool) {
	p := cachePath(dir, key)
	f, err := os.Open(p)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil || payload.Schema != diskSchemaVersion {
		return nil, false
	}

	idx := New()
	for fqn, entries := range payload.Modules {
		idx.byModule[fqn] = fromDiskEntries(entries)
	}
	return idx, true
}

func fromDiskEntries(entries []diskEntry) []symtab.ExportedSymbol {
	out := make([]symtab.ExportedSymbol, len(entries))
	for i, e := range entries {
		out[i] = symtab.ExportedSymbol{Name: e.Name, FQN: e.FQN, Kind: symtab.SymbolKind(e.Kind)}
	}
	return out
}
