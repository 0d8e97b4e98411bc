package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every source file of one check and maps spans back to lines.
type FileSet struct {
	files []File
	base  string // directory that relative paths are printed against
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase prints relative paths against base instead of the
// working directory.
func NewFileSetWithBase(base string) *FileSet {
	return &FileSet{base: base}
}

// Add stores content, which must already be normalised, under path.
func (fs *FileSet) Add(path string, content []byte) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	fs.files = append(fs.files, File{
		ID:      FileID(n),
		Path:    filepath.ToSlash(filepath.Clean(path)),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
	})
	return FileID(n)
}

// Load reads path, drops a UTF-8 BOM and turns CRLF into LF.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- paths come from project discovery
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.Add(path, normalizeCRLF(removeBOM(content))), nil
}

func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// Has reports whether id names a file in this set.
func (fs *FileSet) Has(id FileID) bool {
	return int(id) < len(fs.files)
}

// Resolve converts a span into 1-based line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// RelPath is the path of f relative to the set's base (or the working
// directory). Files outside it keep their absolute path.
func (fs *FileSet) RelPath(f *File) string {
	base := fs.base
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return f.Path
		}
		base = wd
	}
	rel, err := RelativePath(f.Path, base)
	if err != nil {
		return f.Path
	}
	return rel
}

// Line returns the text of the 1-based line n without its newline; lines
// outside the file are "".
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return string(f.Content[start:end])
}
