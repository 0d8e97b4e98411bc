package source

// FileID identifies a file within its FileSet.
type FileID uint32

type File struct {
	ID      FileID
	Path    string // slash-separated, cleaned
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte // sha256 of Content, keys the disk cache
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
