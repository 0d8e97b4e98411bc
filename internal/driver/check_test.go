package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"circa/internal/diag"
	"circa/internal/observ"
)

func TestCheckSourcesTrustBoundary(t *testing.T) {
	res, err := CheckSources(context.Background(), map[string]string{
		"src/main.circ": "#[builtin(to_le_bits)] fn f<let N: u32>(x: Field) -> [u1; N] {}\n" + bitsMain,
	}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "error SEM3007 src/main.circ:1:3 definition of low-level function outside of standard library"
	if got := short(res); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if res.Root != "std" || res.Trust.IsTrusted("") {
		t.Fatalf("crate root must be untrusted under root %q", res.Root)
	}
	if len(res.Sema.Calls) != 1 || res.Sema.Calls[0].Bindings["N"] != "100" {
		t.Fatalf("calls = %+v", res.Sema.Calls)
	}
}

func TestCheckSourcesParseBagsFollowModuleOrder(t *testing.T) {
	res, err := CheckSources(context.Background(), map[string]string{
		"src/zeta.circ":  "fn z( {}\n",
		"src/alpha.circ": "fn a( {}\n",
		"src/main.circ":  "fn main() { missing(); }\n",
	}, Options{Jobs: 3})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(short(res), "\n")
	if len(lines) < 3 {
		t.Fatalf("diagnostics:\n%s", short(res))
	}
	first, last := lines[0], lines[len(lines)-1]
	if !strings.Contains(first, "src/alpha.circ") {
		t.Errorf("alpha parse errors must come first, got %q", first)
	}
	if !strings.Contains(last, "SEM3005") {
		t.Errorf("semantic diagnostics must follow parse diagnostics, got %q", last)
	}
	alphaLast, zetaFirst := -1, -1
	for i, l := range lines {
		if strings.Contains(l, "src/alpha.circ") {
			alphaLast = i
		}
		if zetaFirst < 0 && strings.Contains(l, "src/zeta.circ") {
			zetaFirst = i
		}
	}
	if zetaFirst < alphaLast {
		t.Errorf("per-file bags interleaved:\n%s", short(res))
	}
}

func TestCheckDirWithManifest(t *testing.T) {
	root := writeTree(t, map[string]string{
		"circa.toml": `
[package]
name = "demo"

[stdlib]
root = "core"

[check]
exclude = ["gen/**"]
jobs = 2
`,
		"core/lib.circ":     nativeDecl,
		"src/main.circ":     "use core::f;\n" + bitsMain,
		"gen/broken.circ":   "fn (",
		".hidden/odd.circ":  "fn (",
		"src/nested/x.circ": "fn helper() -> Field { 1 }\n",
	})
	res, err := CheckDir(context.Background(), filepath.Join(root, "src"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", short(res))
	}
	if res.Manifest == nil || res.Manifest.Config.Package.Name != "demo" || res.Root != "core" {
		t.Fatalf("manifest not applied: %+v root=%q", res.Manifest, res.Root)
	}
	want := []string{"src/main.circ", "core/lib.circ", "src/nested/x.circ"}
	if !slices.Equal(res.Files, want) {
		t.Fatalf("files = %v, want %v", res.Files, want)
	}
}

func TestCheckDirExternalStdlib(t *testing.T) {
	stdlib := writeTree(t, map[string]string{"lib.circ": nativeDecl})
	root := writeTree(t, map[string]string{"src/main.circ": "use std::f;\n" + bitsMain})

	res, err := CheckDir(context.Background(), root, Options{Stdlib: stdlib})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", short(res))
	}
	if !slices.Contains(res.Files, "std/lib.circ") {
		t.Fatalf("stdlib not mounted under its root: %v", res.Files)
	}
}

func TestCheckDirRootOverride(t *testing.T) {
	root := writeTree(t, map[string]string{
		"std/lib.circ":  nativeDecl,
		"src/main.circ": "use std::f;\n" + bitsMain,
	})
	res, err := CheckDir(context.Background(), root, Options{Root: "vendor"})
	if err != nil {
		t.Fatal(err)
	}
	if got := codes(res); !slices.Equal(got, []diag.Code{diag.SemaLowLevelOutsideStd}) {
		t.Fatalf("codes = %v\n%s", got, short(res))
	}
}

func TestCheckDirNoSources(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": "nothing"})
	_, err := CheckDir(context.Background(), root, Options{})
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckDirUnreadableFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root can read anything")
	}
	root := writeTree(t, map[string]string{
		"src/main.circ": "fn main() {}\n",
		"src/lock.circ": "fn lock() {}\n",
	})
	if err := os.Chmod(filepath.Join(root, "src", "lock.circ"), 0); err != nil {
		t.Fatal(err)
	}
	res, err := CheckDir(context.Background(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := codes(res); len(got) != 1 || got[0] != diag.IOLoadFileError {
		t.Fatalf("codes = %v", got)
	}
}

func TestCheckFileUsesProjectLayout(t *testing.T) {
	root := writeTree(t, map[string]string{
		"circa.toml":          "[package]\nname = \"demo\"\n[stdlib]\npath = \"vendor/std\"\n",
		"vendor/std/lib.circ": nativeDecl,
		"src/util.circ":       "use std::f;\nfn g(x: Field) -> [u1; 3] { f(x) }\n",
	})
	res, err := CheckFile(context.Background(), filepath.Join(root, "src", "util.circ"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", short(res))
	}
	if _, ok := res.Table.ModuleByPath("util"); !ok {
		t.Fatalf("module path not derived from location: %v", res.Table.ModulePaths())
	}
}

func TestCheckFileMissing(t *testing.T) {
	_, err := CheckFile(context.Background(), filepath.Join(t.TempDir(), "nope.circ"), Options{})
	if err == nil {
		t.Fatal("expected load error")
	}
}

func TestCheckRecordsPhases(t *testing.T) {
	timer := observ.NewTimer()
	var mu sync.Mutex
	final := map[string]Status{}
	var stages []Stage
	progress := func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.File == "" {
			if ev.Status == StatusWorking {
				stages = append(stages, ev.Stage)
			}
			return
		}
		final[ev.File] = ev.Status
	}
	_, err := CheckSources(context.Background(), map[string]string{
		"src/main.circ": "fn main() {}\n",
		"src/bad.circ":  "fn bad() -> Field;\n",
	}, Options{Timer: timer, Progress: progress})
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	want := []string{"parse", "resolve", "trust", "attrs", "bodies", "unify"}
	if !slices.Equal(names, want) {
		t.Fatalf("timer phases = %v", names)
	}
	if !slices.Equal(stages, []Stage{StageParse, StageResolve, StageTrust, StageAttrs, StageBodies, StageUnify}) {
		t.Fatalf("progress stages = %v", stages)
	}
	if final["src/main.circ"] != StatusDone || final["src/bad.circ"] != StatusError {
		t.Fatalf("final statuses = %v", final)
	}
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckSources(ctx, map[string]string{"src/main.circ": "fn main() {}\n"}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
