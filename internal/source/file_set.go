package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the content of every source file under analysis and resolves
// spans back to human-readable positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet; index 0 is reserved for NoFileID.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1, 8),
		index: make(map[string]FileID),
	}
}

// Add stores content under path, normalizing nothing, and always allocates a
// fresh FileID even if the path was already present.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	norm := normalizePath(path)
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    norm,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	fs.index[norm] = id
	return id
}

// Load reads path from disk, normalizes BOM/CRLF, and adds it to the set.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path supplied by caller
	if err != nil {
		return NoFileID, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual registers in-memory content (tests, REPL snippets, stub sources).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns file metadata for id. Panics if id is out of range, matching
// the arena convention used by the rest of the analyzer.
func (fs *FileSet) Get(id FileID) *File { return &fs.files[id] }

// GetByPath returns the most recently added file at path, if any.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	id, ok := fs.index[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

// Resolve converts a span into start/end line-column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Len reports how many files have been added.
func (fs *FileSet) Len() int { return len(fs.files) - 1 }
