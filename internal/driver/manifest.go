package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"circa/internal/trust"
)

// ManifestName is the project manifest looked up from the checked directory
// upwards.
const ManifestName = "circa.toml"

// Manifest is a loaded circa.toml.
type Manifest struct {
	Path   string // путь к circa.toml
	Root   string // каталог проекта
	Config ProjectConfig
}

type ProjectConfig struct {
	Package PackageConfig `toml:"package"`
	Stdlib  StdlibConfig  `toml:"stdlib"`
	Check   CheckConfig   `toml:"check"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// StdlibConfig names the trusted root module and, optionally, a directory
// outside the project holding its sources.
type StdlibConfig struct {
	Root string `toml:"root"`
	Path string `toml:"path"`
}

type CheckConfig struct {
	Exclude []string `toml:"exclude"`
	Jobs    int      `toml:"jobs"`
}

// FindManifest walks from startDir up to the filesystem root looking for
// circa.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadManifest finds and decodes the manifest governing startDir. A missing
// manifest is not an error: ok is false and m is nil.
func LoadManifest(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadProjectConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadProjectConfig decodes and validates one circa.toml.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	var cfg ProjectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ProjectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ProjectConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return ProjectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Check.Jobs < 0 {
		return ProjectConfig{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if _, err := compileExcludes(cfg.Check.Exclude); err != nil {
		return ProjectConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// TrustedRoot is the configured root module, or the default.
func (c ProjectConfig) TrustedRoot() string {
	if r := strings.TrimSpace(c.Stdlib.Root); r != "" {
		return r
	}
	return trust.DefaultRoot
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}
