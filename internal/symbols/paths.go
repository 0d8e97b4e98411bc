package symbols

import (
	"path"
	"strings"
)

// PathSep separates module path segments.
const PathSep = "::"

// ModulePathForFile derives a module path from a slash-separated path
// relative to the project root:
//
//	src/main.circ        → ""
//	src/hash.circ        → "hash"
//	std/hash/mod.circ    → "std::hash"
//	std/lib.circ         → "std"
func ModulePathForFile(rel string) string {
	rel = strings.TrimPrefix(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "./")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	rel = strings.TrimPrefix(rel, "src/")
	if rel == "src" {
		return ""
	}
	dir, base := path.Split(rel)
	switch base {
	case "main", "lib", "mod":
		rel = strings.TrimSuffix(dir, "/")
	}
	if rel == "" || rel == "." {
		return ""
	}
	return strings.ReplaceAll(rel, "/", PathSep)
}

// JoinPath appends name to a module path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + PathSep + name
}

// SplitPath splits a module path into its segments; the crate root has none.
func SplitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, PathSep)
}

// ParentPath returns the path of the enclosing module.
func ParentPath(p string) string {
	idx := strings.LastIndex(p, PathSep)
	if idx < 0 {
		return ""
	}
	return p[:idx]
}
