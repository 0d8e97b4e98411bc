package driver

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"circa/internal/symbols"
)

// SourceExt is the extension of circa source files.
const SourceExt = ".circ"

// sourceFile is a discovered file: where it lives on disk and the slash path
// its module path is derived from.
type sourceFile struct {
	abs string
	rel string
}

// listSources returns the .circ files under dir, sorted by rel. Hidden
// directories are skipped; excludes match slash paths relative to dir, and a
// matching directory prunes its whole subtree. prefix is prepended to every
// rel path.
func listSources(dir, prefix string, excludes []glob.Glob) ([]sourceFile, error) {
	var files []sourceFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || excluded(rel, excludes)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != SourceExt || excluded(rel, excludes) {
			return nil
		}
		if prefix != "" {
			rel = prefix + "/" + rel
		}
		files = append(files, sourceFile{abs: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })
	return files, nil
}

func excluded(rel string, excludes []glob.Glob) bool {
	for _, g := range excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// stdlibPrefix maps the trusted root module onto a directory prefix:
// `std` → "std", `lib::core` → "lib/core".
func stdlibPrefix(root string) string {
	return strings.Join(symbols.SplitPath(root), "/")
}

// Project is the set of files a CheckDir run would see.
type Project struct {
	Root     string
	Manifest *Manifest
	Files    []string // rel paths, in module path order

	files    []sourceFile
	cfg      config
	excludes []glob.Glob
	stdlib   string
}

// Discover locates the project containing dir and lists its sources plus the
// configured stdlib. An empty project is not an error here.
func Discover(dir string, opts Options) (*Project, error) {
	manifest, _, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	root := dir
	if manifest != nil {
		root = manifest.Root
	} else if root, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	cfg := effectiveConfig(manifest, opts)
	excludes, err := compileExcludes(cfg.exclude)
	if err != nil {
		return nil, err
	}
	files, err := listSources(root, "", excludes)
	if err != nil {
		return nil, fmt.Errorf("list sources in %s: %w", root, err)
	}
	std, err := cfg.stdlibSources()
	if err != nil {
		return nil, err
	}
	files = append(files, std...)
	sortByModule(files)

	stdlib := cfg.stdlibDir
	if stdlib != "" {
		if stdlib, err = filepath.Abs(stdlib); err != nil {
			return nil, err
		}
	}
	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = f.rel
	}
	return &Project{
		Root:     root,
		Manifest: manifest,
		Files:    rels,
		files:    files,
		cfg:      cfg,
		excludes: excludes,
		stdlib:   stdlib,
	}, nil
}

// WatchDirs lists the directories whose changes can affect a check: the
// project tree and the stdlib tree, minus hidden and excluded directories.
func (p *Project) WatchDirs() ([]string, error) {
	var dirs []string
	walk := func(base string, excludes []glob.Glob) error {
		return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || excluded(rel, excludes)) {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		})
	}
	if err := walk(p.Root, p.excludes); err != nil {
		return nil, err
	}
	if p.stdlib != "" {
		if err := walk(p.stdlib, nil); err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

// Relevant reports whether a change to path should trigger a re-check:
// the manifest itself or a non-excluded source file.
func (p *Project) Relevant(path string) bool {
	if filepath.Base(path) == ManifestName {
		return true
	}
	if filepath.Ext(path) != SourceExt {
		return false
	}
	if p.stdlib != "" {
		if rel, err := filepath.Rel(p.stdlib, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return !excluded(filepath.ToSlash(rel), p.excludes)
}
