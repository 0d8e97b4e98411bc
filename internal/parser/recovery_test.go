package parser

import (
	"strings"
	"testing"

	"circa/internal/ast"
	"circa/internal/diag"
)

func TestMalformedArraySeparatorRecovery(t *testing.T) {
	src := "#[builtin(to_le_bits)] fn f<let N: u32>(x: Field) -> [u1: N] {}\n" +
		"fn main(x: Field) {}\n"
	p := parseSource(t, src)

	want := strings.Join([]string{
		"error SYN2201 src/main.circ:1:57 expected `]` but found `:`",
		"error SYN2101 src/main.circ:1:57 expected an item but found `:`",
		"error SYN2101 src/main.circ:1:59 expected an item but found `N`",
		"error SYN2101 src/main.circ:1:60 expected an item but found `]`",
		"error SYN2101 src/main.circ:1:62 expected an item but found `{`",
		"error SYN2101 src/main.circ:1:63 expected an item but found `}`",
	}, "\n")
	if got := p.short(); got != want {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	if len(p.items()) != 2 {
		t.Fatalf("expected both functions to be recorded, got %d items", len(p.items()))
	}
	f := p.fn(t, 0)
	if p.builder.Name(f.Name) != "f" || f.HasBody || !f.Malformed {
		t.Fatalf("unexpected recorded signature: %+v", f)
	}
	if got := p.builder.FormatType(f.Result); got != "[u1]" {
		t.Fatalf("result type = %q, want [u1]", got)
	}
	if attr := p.builder.Items.GetAttr(f); attr == nil || attr.Kind != ast.AttrBuiltin {
		t.Fatal("attribute must be recorded on the malformed signature")
	}
	if generics := p.builder.Items.GetFnGenerics(f); len(generics) != 1 || generics[0].Kind != ast.GenericNumeric {
		t.Fatalf("generics lost: %+v", generics)
	}

	mainFn := p.fn(t, 1)
	if p.builder.Name(mainFn.Name) != "main" || !mainFn.HasBody || mainFn.Malformed {
		t.Fatalf("parser did not resume at the next item: %+v", mainFn)
	}
}

func TestSeparatorErrorReportsExactlyOnce(t *testing.T) {
	tests := []struct {
		name string
		src  string
		sep  string
	}{
		{"colon", "fn f(x: [Field: 3]) {}", ":"},
		{"comma", "fn f(x: [Field, 3]) {}", ","},
		{"ident", "fn f() -> [Field x] {}", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			count := 0
			for _, d := range p.bag.Items() {
				if d.Code == diag.SynExpectRightBracket {
					count++
					if d.Message != "expected `]` but found `"+tt.sep+"`" {
						t.Errorf("message = %q", d.Message)
					}
				}
			}
			if count != 1 {
				t.Fatalf("expected one SYN2201, got %d: %s", count, diagnosticsSummary(p.bag))
			}
		})
	}
}

func TestStrayTopLevelTokens(t *testing.T) {
	p := parseSource(t, "let x = 1;\nfn main() {}")
	items := p.bag.Items()
	if len(items) != 5 {
		t.Fatalf("expected one diagnostic per stray token, got %s", diagnosticsSummary(p.bag))
	}
	for _, d := range items {
		if d.Code != diag.SynUnexpectedTopLevel {
			t.Fatalf("unexpected code %s", d.Code.ID())
		}
	}
	if len(p.items()) != 1 {
		t.Fatalf("main must still be parsed")
	}
}

func TestRecoveryAlwaysTerminates(t *testing.T) {
	inputs := []string{
		"",
		"}}}}",
		"fn",
		"fn f<",
		"fn f<let",
		"fn f(x: [",
		"#",
		"#[",
		"#[builtin(",
		"pub pub pub",
		"mod m {",
		"mod m { fn f() -> [u1: 3] {} }",
		"use",
		"use a::",
		"fn f() { let x: [u1: 3] = [1, 2, 3]; }",
		"fn f() { g::<(N>(); }",
		"fn f() { ((((( }",
		"unconstrained # mod use fn pub",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			_ = parseSource(t, src)
		})
	}
}

func TestRecoveryInsideInlineModule(t *testing.T) {
	src := "mod m {\n  fn f() -> [u1: 3] {}\n  fn g() {}\n}\nfn main() {}\n"
	p := parseSource(t, src)

	// SYN2201 at ':', then ':' '3' ']' '{' '}' as stray tokens; the closing brace of
	// the module is not swallowed.
	items := p.bag.Items()
	if len(items) != 6 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	if len(p.items()) != 2 {
		t.Fatalf("expected mod and main at top level, got %d", len(p.items()))
	}
	mod, ok := p.builder.Items.Mod(p.items()[0])
	if !ok || !mod.Inline || len(mod.Items) != 2 {
		t.Fatalf("unexpected module: %+v", mod)
	}
}
