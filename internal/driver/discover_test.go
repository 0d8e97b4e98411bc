package driver

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestDiscoverProject(t *testing.T) {
	root := writeTree(t, map[string]string{
		"circa.toml":      "[package]\nname = \"demo\"\n\n[check]\nexclude = [\"gen/**\"]\n",
		"src/main.circ":   bitsMain,
		"src/notes.txt":   "x",
		"gen/out.circ":    "fn (",
		".git/hooks.circ": "fn (",
		"src/deep/a.circ": "fn a() {}\n",
		"gen/sub/b.circ":  "fn (",
	})
	proj, err := Discover(filepath.Join(root, "src"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if proj.Root != root {
		t.Fatalf("root = %q, want %q", proj.Root, root)
	}
	if want := []string{"src/main.circ", "src/deep/a.circ"}; !slices.Equal(proj.Files, want) {
		t.Fatalf("files = %v, want %v", proj.Files, want)
	}

	dirs, err := proj.WatchDirs()
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range dirs {
		switch filepath.Base(d) {
		case "sub", ".git":
			t.Fatalf("excluded directory watched: %s", d)
		}
	}
	if !slices.Contains(dirs, filepath.Join(root, "src", "deep")) {
		t.Fatalf("nested dir not watched: %v", dirs)
	}
}

func TestProjectRelevant(t *testing.T) {
	root := writeTree(t, map[string]string{
		"circa.toml":    "[package]\nname = \"demo\"\n\n[check]\nexclude = [\"gen/**\"]\n",
		"src/main.circ": bitsMain,
	})
	stdlib := writeTree(t, map[string]string{"lib.circ": nativeDecl})
	proj, err := Discover(root, Options{Stdlib: stdlib})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "circa.toml"), true},
		{filepath.Join(root, "src", "new.circ"), true},
		{filepath.Join(root, "src", "notes.txt"), false},
		{filepath.Join(root, "gen", "out.circ"), false},
		{filepath.Join(stdlib, "lib.circ"), true},
		{filepath.Join(filepath.Dir(root), "elsewhere.circ"), false},
	}
	for _, tt := range tests {
		if got := proj.Relevant(tt.path); got != tt.want {
			t.Errorf("Relevant(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
