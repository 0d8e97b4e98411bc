package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"circa/internal/diag"
)

func TestPrettyPrimaryLabel(t *testing.T) {
	f := newFixture(t, "fn main() {}\nfn f(x: Field) -> [u1: N] {}\n")
	// `:` after `u1` on line 2
	f.add(diag.SynExpectRightBracket, f.span(13+21, 13+22), "expected `]` but found `:`")

	var buf bytes.Buffer
	Pretty(&buf, f.bag, f.fs, PrettyOpts{PathMode: PathModeRelative})

	want := strings.Join([]string{
		"error[SYN2201]: expected `]` but found `:`",
		"  --> src/main.circ:2:22",
		"   |",
		" 2 | fn f(x: Field) -> [u1: N] {}",
		"   | " + strings.Repeat(" ", 21) + "^",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("pretty output mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyNotesAreDashed(t *testing.T) {
	src := "fn grow<let N: u32>(a: [Field; N]) -> [Field; N] { a }\nfn main() { grow([1, 2]); }\n"
	f := newFixture(t, src)
	argStart := uint32(strings.Index(src, "[1, 2]"))
	f.add(diag.SemaTypeMismatch, f.span(argStart, argStart+6), "expected type `[Field; 3]`, found type `[Field; 2]`",
		diag.Note{Span: f.span(12, 13), Msg: "`N` was inferred as `3` from this argument"})

	var buf bytes.Buffer
	Pretty(&buf, f.bag, f.fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"  --> src/main.circ:2:18",
		" 2 | fn main() { grow([1, 2]); }",
		"   | " + strings.Repeat(" ", 17) + "^^^^^^",
		" 1 | fn grow<let N: u32>",
		"   | " + strings.Repeat(" ", 12) + "- `N` was inferred as `3` from this argument",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestPrettyNotesCollapsed(t *testing.T) {
	f := newFixture(t, "fn f() {}\n")
	f.add(diag.SemaMissingBody, f.span(3, 4), "function `f` has no body",
		diag.Note{Span: f.span(0, 2), Msg: "declared here"})

	var buf bytes.Buffer
	Pretty(&buf, f.bag, f.fs, PrettyOpts{PathMode: PathModeRelative})
	if !strings.Contains(buf.String(), "  = note: declared here") {
		t.Fatalf("expected collapsed note, got:\n%s", buf.String())
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	src := "let 名前 = 1;\n"
	f := newFixture(t, src)
	one := uint32(strings.Index(src, "1"))
	f.add(diag.SemaTypeMismatch, f.span(one, one+1), "mismatch")

	var buf bytes.Buffer
	Pretty(&buf, f.bag, f.fs, PrettyOpts{PathMode: PathModeRelative})
	// `名前` занимает четыре колонки терминала
	want := "   | " + strings.Repeat(" ", 11) + "^\n"
	if !strings.HasSuffix(buf.String(), want) {
		t.Fatalf("caret misplaced:\n%s", buf.String())
	}
}

func TestPrettyTabsExpanded(t *testing.T) {
	src := "\tx\n"
	f := newFixture(t, src)
	f.add(diag.SemaUnresolvedSymbol, f.span(1, 2), "cannot find value `x` in this scope")

	var buf bytes.Buffer
	Pretty(&buf, f.bag, f.fs, PrettyOpts{PathMode: PathModeRelative})
	out := buf.String()
	if !strings.Contains(out, " 1 |     x\n") || !strings.HasSuffix(out, "   |     ^\n") {
		t.Fatalf("tab handling:\n%s", out)
	}
}

func TestPrettyMaxDiagnostics(t *testing.T) {
	f := newFixture(t, "a b c\n")
	for i := range uint32(3) {
		f.add(diag.SynUnexpectedTopLevel, f.span(i*2, i*2+1), "unexpected item")
	}

	var buf bytes.Buffer
	Pretty(&buf, f.bag, f.fs, PrettyOpts{Max: 1})
	out := buf.String()
	if n := strings.Count(out, "error[SYN2101]"); n != 1 {
		t.Fatalf("rendered %d diagnostics, want 1:\n%s", n, out)
	}
	if !strings.HasSuffix(out, "... and 2 more diagnostics\n") {
		t.Fatalf("missing truncation line:\n%s", out)
	}
	if f.bag.Len() != 3 {
		t.Fatalf("rendering must not drop diagnostics from the bag")
	}
}

func TestPrettyPathModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"relative", PathModeRelative, "--> src/main.circ:1:1"},
		{"basename", PathModeBasename, "--> main.circ:1:1"},
		{"auto keeps short paths", PathModeAuto, "--> /p/src/main.circ:1:1"},
		{"absolute", PathModeAbsolute, "--> /p/src/main.circ:1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "x\n")
			f.add(diag.SynUnexpectedTopLevel, f.span(0, 1), "unexpected item")
			var buf bytes.Buffer
			Pretty(&buf, f.bag, f.fs, PrettyOpts{PathMode: tt.mode})
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("expected %q in:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyColor(t *testing.T) {
	f := newFixture(t, "x\n")
	f.add(diag.SynUnexpectedTopLevel, f.span(0, 1), "unexpected item")

	var plain, colored bytes.Buffer
	Pretty(&plain, f.bag, f.fs, PrettyOpts{})
	Pretty(&colored, f.bag, f.fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes:\n%q", colored.String())
	}
}

func TestParsePathMode(t *testing.T) {
	for _, s := range []string{"auto", "absolute", "relative", "basename"} {
		m, ok := ParsePathMode(s)
		if !ok || m.String() != s {
			t.Errorf("ParsePathMode(%q) = %v, %v", s, m, ok)
		}
	}
	if _, ok := ParsePathMode("nope"); ok {
		t.Errorf("unknown mode accepted")
	}
}
