package parser

import (
	"strings"
	"testing"

	"circa/internal/ast"
	"circa/internal/diag"
)

func TestAttributedFunctionWithEmptyBody(t *testing.T) {
	p := parseSource(t, "#[builtin(to_le_bits)] fn f<let N: u32>(x: Field) -> [u1; N] {}")
	expectNoDiagnostics(t, p)

	f := p.fn(t, 0)
	if !f.HasBody || f.Malformed {
		t.Fatalf("`{}` is a body: %+v", f)
	}
	attr := p.builder.Items.GetAttr(f)
	if attr == nil || attr.Kind != ast.AttrBuiltin || p.builder.Name(attr.Arg) != "to_le_bits" {
		t.Fatalf("unexpected attribute: %+v", attr)
	}
	if got := p.builder.FormatType(f.Result); got != "[u1; N]" {
		t.Fatalf("result = %q", got)
	}
}

func TestBodylessDeclarations(t *testing.T) {
	p := parseSource(t, "#[foreign(poseidon)] pub fn hash<let N: u32>(input: [Field; N]) -> Field;\nfn plain(x: Field);")
	expectNoDiagnostics(t, p)
	for i := range 2 {
		f := p.fn(t, i)
		if f.HasBody || f.Malformed {
			t.Fatalf("fn %d: expected well-formed bodyless declaration: %+v", i, f)
		}
	}
	if !p.fn(t, 0).Pub {
		t.Fatal("pub modifier lost")
	}
}

func TestFormatSignatureRoundTrip(t *testing.T) {
	tests := []string{
		"fn f(x: Field) -> Field { ... }",
		"pub unconstrained fn g<T, let N: u32>(mut xs: [T; N + 1]) -> [T; N] { ... }",
		"#[builtin(to_le_bits)] fn h<let N: u32>(x: Field) -> [u1; N];",
		"fn k(a: [[u8; 4]; 2]);",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			input := src
			if n := len(input); input[n-1] == '}' {
				input = input[:n-len("{ ... }")] + "{}"
			}
			p := parseSource(t, input)
			expectNoDiagnostics(t, p)
			if got := p.builder.FormatFnSignature(p.fn(t, 0)); got != src {
				t.Fatalf("signature = %q, want %q", got, src)
			}
		})
	}
}

func TestNumericGenericDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing type", "fn f<let N>(x: [Field; N]) {}", diag.SynGenericMissingType},
		{"signed", "fn f<let N: i32>(x: [Field; N]) {}", diag.SynGenericForbiddenType},
		{"64 bit", "fn f<let N: u64>(x: [Field; N]) {}", diag.SynGenericForbiddenType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			items := p.bag.Items()
			if len(items) != 1 || items[0].Code != tt.code {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
			}
			f := p.fn(t, 0)
			if !f.HasBody || f.Malformed {
				t.Fatalf("generic diagnostics must not abandon the item: %+v", f)
			}
		})
	}
}

func TestMissingNumericGenericTypeDefaultsToU32(t *testing.T) {
	p := parseSource(t, "fn f<let N>() {}")
	g := p.builder.Items.GetFnGenerics(p.fn(t, 0))
	if len(g) != 1 || g[0].Underlying.IsValid() {
		t.Fatalf("unexpected generic: %+v", g)
	}
	if got := p.builder.FormatFnSignature(p.fn(t, 0)); got != "fn f<let N: u32>() { ... }" {
		t.Fatalf("signature = %q", got)
	}
}

func TestUnknownAttributeIsReportedAndIgnored(t *testing.T) {
	p := parseSource(t, "#[inline(always)] fn f() {}")
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnknownAttribute || items[0].Message != "unknown attribute `inline`" {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	if p.builder.Items.GetAttr(p.fn(t, 0)) != nil {
		t.Fatal("unknown attribute must not be recorded")
	}
}

func TestAttributeSpans(t *testing.T) {
	p := parseSource(t, "#[foreign(sha256)] fn f();")
	attr := p.builder.Items.GetAttr(p.fn(t, 0))
	if attr == nil {
		t.Fatal("missing attribute")
	}
	if attr.NameSpan.Start != 2 || attr.NameSpan.End != 9 {
		t.Fatalf("name span = %v", attr.NameSpan)
	}
	if attr.Span.Start != 0 || attr.Span.End != 18 {
		t.Fatalf("attr span = %v", attr.Span)
	}
}

func TestModulesAndImports(t *testing.T) {
	p := parseSource(t, "use std::hash::poseidon;\nuse std::field as f;\nmod bits;\npub mod inner { fn a() {} mod deeper { fn b() {} } }")
	expectNoDiagnostics(t, p)
	items := p.items()
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	use, ok := p.builder.Items.Use(items[0])
	if !ok || len(use.Path) != 3 {
		t.Fatalf("unexpected use: %+v", use)
	}
	if name, _ := use.BindingName(); p.builder.Name(name) != "poseidon" {
		t.Fatalf("binding name = %q", p.builder.Name(name))
	}
	aliased, _ := p.builder.Items.Use(items[1])
	if name, _ := aliased.BindingName(); p.builder.Name(name) != "f" {
		t.Fatalf("alias = %q", p.builder.Name(name))
	}
	decl, _ := p.builder.Items.Mod(items[2])
	if decl.Inline {
		t.Fatal("`mod bits;` is not inline")
	}
	inner, _ := p.builder.Items.Mod(items[3])
	if !inner.Inline || !inner.Pub || len(inner.Items) != 2 {
		t.Fatalf("unexpected inline module: %+v", inner)
	}
}

func TestAttributeOnModuleIsRejected(t *testing.T) {
	p := parseSource(t, "#[builtin(x)] mod m {}")
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynAttrExpectFn {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
}

func TestDanglingAttributeAtEOF(t *testing.T) {
	p := parseSource(t, "#[builtin(x)]")
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynAttrExpectFn {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
}

func TestModifiersWithoutItemAreReported(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"unconstrained pub {}", strings.Join([]string{
			"error SYN2017 src/main.circ:1:19 expected `fn` but found `{`",
			"error SYN2101 src/main.circ:1:19 expected an item but found `{`",
			"error SYN2101 src/main.circ:1:20 expected an item but found `}`",
		}, "\n")},
		{"pub let x = 1;\nfn main() {}", strings.Join([]string{
			"error SYN2017 src/main.circ:1:5 expected `fn` but found `let`",
			"error SYN2101 src/main.circ:1:5 expected an item but found `let`",
			"error SYN2101 src/main.circ:1:9 expected an item but found `x`",
			"error SYN2101 src/main.circ:1:11 expected an item but found `=`",
			"error SYN2101 src/main.circ:1:13 expected an item but found `1`",
			"error SYN2101 src/main.circ:1:14 expected an item but found `;`",
		}, "\n")},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := parseSource(t, tt.src)
			if got := p.short(); got != tt.want {
				t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", tt.want, got)
			}
		})
	}
}
