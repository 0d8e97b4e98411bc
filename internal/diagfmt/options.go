package diagfmt

import (
	"path/filepath"

	"circa/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a flag value onto a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	Max       int // обрезка вывода, не Bag
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
}

// displayPath renders the path of f according to mode. Auto keeps short and
// relative paths and shortens long absolute ones to their base name.
func displayPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return fs.RelPath(f)
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return filepath.Base(f.Path)
	}
}

// limit returns how many of n items a Max setting lets through.
func limit(n, maxItems int) int {
	if maxItems > 0 && maxItems < n {
		return maxItems
	}
	return n
}
