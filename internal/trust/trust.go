// Package trust decides which modules may declare low-level functions.
//
// The model is built once from the module paths discovered while building the
// module tree and is read-only afterwards; checkers query it by value.
package trust

import (
	"slices"
	"strings"
)

// DefaultRoot is the trusted root used when nothing else is configured.
const DefaultRoot = "std"

// Sep separates module path segments.
const Sep = "::"

// Model maps module paths to their trust flag.
type Model struct {
	root    string
	trusted map[string]bool
	paths   []string
}

// Build computes the trust flag for every path. The root itself and every
// path nested beneath it are trusted; everything else is not.
func Build(root string, paths []string) *Model {
	root = strings.Trim(strings.TrimSpace(root), ":")
	if root == "" {
		root = DefaultRoot
	}
	m := &Model{
		root:    root,
		trusted: make(map[string]bool, len(paths)),
		paths:   make([]string, 0, len(paths)),
	}
	for _, p := range paths {
		if _, seen := m.trusted[p]; seen {
			continue
		}
		m.trusted[p] = underRoot(root, p)
		m.paths = append(m.paths, p)
	}
	slices.Sort(m.paths)
	return m
}

func underRoot(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+Sep)
}

// Root returns the trusted root path.
func (m *Model) Root() string {
	if m == nil {
		return DefaultRoot
	}
	return m.root
}

// IsTrusted reports whether path lies in the trusted subtree. Paths that were
// not known at build time are classified by prefix as well.
func (m *Model) IsTrusted(path string) bool {
	if m == nil {
		return false
	}
	if v, ok := m.trusted[path]; ok {
		return v
	}
	return underRoot(m.root, path)
}

// Paths returns the known module paths in sorted order.
func (m *Model) Paths() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.paths)
}

// TrustedPaths returns the known trusted module paths in sorted order.
func (m *Model) TrustedPaths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.paths))
	for _, p := range m.paths {
		if m.trusted[p] {
			out = append(out, p)
		}
	}
	return out
}
