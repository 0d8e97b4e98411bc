package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

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

// run executes the CLI with colour and the progress view off.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	c := newCLI()
	var out, errOut bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetErr(&errOut)
	err = c.execute(append([]string{"--color", "off"}, args...))
	return out.String(), errOut.String(), err
}

func TestCheckReportsAndAborts(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.circ": "fn main() { missing(); }\n",
	})
	out, _, err := run(t, "check", "--format", "short", "--ui", "off", root)
	var aborted *abortError
	if !errors.As(err, &aborted) || aborted.count != 1 {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "error SEM3005 src/main.circ:1:13") {
		t.Fatalf("missing diagnostic:\n%s", out)
	}
	if !strings.HasSuffix(out, "Aborting due to 1 previous error\n") {
		t.Fatalf("missing abort line:\n%s", out)
	}
}

func TestCheckCleanProject(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.circ": "fn main(x: Field) -> Field { x }\n",
	})
	out, _, err := run(t, "check", "--ui", "off", root)
	if err != nil {
		t.Fatalf("err = %v\n%s", err, out)
	}
	if out != "" {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCheckJSON(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.circ": "fn main() { a(); b(); }\n",
	})
	out, _, err := run(t, "check", "--format", "json", root)
	var aborted *abortError
	if !errors.As(err, &aborted) || aborted.count != 2 {
		t.Fatalf("err = %v", err)
	}
	var payload struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if payload.Count != 2 || len(payload.Diagnostics) != 2 || payload.Diagnostics[0].Code != "SEM3005" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestCheckMaxDiagnostics(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.circ": "fn main() { a(); b(); c(); }\n",
	})
	out, _, err := run(t, "--max-diagnostics", "1", "check", "--format", "short", "--ui", "off", root)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(out, "... and 2 more diagnostics") || !strings.Contains(out, "Aborting due to 3 previous errors") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestCheckSingleFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/main.circ":  "fn main() {}\n",
		"src/other.circ": "fn broken() { nope(); }\n",
	})
	out, _, err := run(t, "check", "--format", "short", filepath.Join(root, "src", "main.circ"))
	if err != nil {
		t.Fatalf("sibling files must not be checked: %v\n%s", err, out)
	}
}

func TestCheckFlagErrors(t *testing.T) {
	root := writeTree(t, map[string]string{"src/main.circ": "fn main() {}\n"})
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"check", "--format", "xml", "--ui", "off", root}, "unknown format"},
		{"ui", []string{"check", "--ui", "maybe", root}, "invalid --ui value"},
		{"path mode", []string{"check", "--path-mode", "weird", root}, "invalid --path-mode value"},
		{"jobs", []string{"check", "--jobs", "-1", root}, "--jobs must not be negative"},
		{"missing", []string{"check", filepath.Join(root, "nope")}, "failed to stat"},
		{"trace level", []string{"--trace-level", "loud", "check", root}, "trace level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParsePrintsOutline(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.circ": "use std::f;\nfn main(x: Field) -> Field { x }\n",
	})
	out, errOut, err := run(t, "parse", filepath.Join(root, "main.circ"))
	if err != nil {
		t.Fatalf("err = %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "use std::f;") || !strings.Contains(out, "fn main(x: Field) -> Field") {
		t.Fatalf("outline:\n%s", out)
	}
}

func TestParseSyntaxErrorGoesToStderr(t *testing.T) {
	root := writeTree(t, map[string]string{"main.circ": "fn main( {}\n"})
	_, errOut, err := run(t, "parse", filepath.Join(root, "main.circ"))
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut, "error[SYN") || !strings.Contains(errOut, "Aborting due to") {
		t.Fatalf("stderr:\n%s", errOut)
	}
}

func TestTokenizeJSON(t *testing.T) {
	root := writeTree(t, map[string]string{"main.circ": "fn main() {}\n"})
	out, _, err := run(t, "tokenize", "--format", "json", filepath.Join(root, "main.circ"))
	if err != nil {
		t.Fatal(err)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if len(toks) == 0 {
		t.Fatal("no tokens")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "circa ") {
		t.Fatalf("version output = %q", out)
	}
}

func TestRingTraceDumpedOnFailure(t *testing.T) {
	root := writeTree(t, map[string]string{"src/main.circ": "fn main() { missing(); }\n"})
	_, errOut, err := run(t, "--trace-level", "phase", "--trace-mode", "ring", "check", "--ui", "off", root)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut, "resolve") {
		t.Fatalf("ring trace not dumped:\n%s", errOut)
	}

	clean := writeTree(t, map[string]string{"src/main.circ": "fn main() {}\n"})
	_, errOut, err = run(t, "--trace-level", "phase", "--trace-mode", "ring", "check", "--ui", "off", clean)
	if err != nil {
		t.Fatal(err)
	}
	if errOut != "" {
		t.Fatalf("ring trace dumped on success:\n%s", errOut)
	}
}

func TestProfilingFlags(t *testing.T) {
	root := writeTree(t, map[string]string{"src/main.circ": "fn main() {}\n"})
	out := t.TempDir()
	cpu := filepath.Join(out, "cpu.pprof")
	mem := filepath.Join(out, "mem.pprof")
	if _, _, err := run(t, "--cpu-profile", cpu, "--mem-profile", mem, "check", "--ui", "off", root); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{cpu, mem} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("profile not written: %v", err)
		}
	}
}
