package driver

import (
	"os"
	"path/filepath"
	"testing"

	"circa/internal/diag"
)

// writeTree creates files (slash paths relative to root) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func short(res *Result) string {
	return diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, false)
}

func codes(res *Result) []diag.Code {
	items := res.Bag.Items()
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

const (
	nativeDecl = "#[builtin(to_le_bits)] pub fn f<let N: u32>(x: Field) -> [u1; N] {}\n"
	bitsMain   = "fn main(x: Field) { let bits: [u1; 100] = f(x); }\n"
)
