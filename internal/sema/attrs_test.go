package sema

import (
	"testing"

	"circa/internal/diag"
)

func TestNativeFunctionsInStdAreAccepted(t *testing.T) {
	c := checkFiles(t, map[string]string{
		"std/lib.circ":      "#[foreign(sha256)] pub fn sha256<let N: u32>(input: [u8; N]) -> [u8; 32];",
		"std/hash/mod.circ": "#[builtin(to_le_bits)] pub fn bits(x: Field) -> [u1; 254];\nmod inner { #[foreign(p)] fn p(); }",
		"src/main.circ":     "fn main() {}",
	})
	c.expectClean(t)
}

func TestNativeFunctionOutsideStdReportedPerDeclaration(t *testing.T) {
	src := "#[foreign(a)] fn a();\nfn ok() {}\n#[builtin(b)] fn b(x: Field) -> Field;\nmod m { #[foreign(c)] pub fn c() {} }"
	c := checkSource(t, src)
	items := c.expectCodes(t, diag.SemaLowLevelOutsideStd, diag.SemaLowLevelOutsideStd, diag.SemaLowLevelOutsideStd)

	want := []string{"1:3", "3:3", "4:11"}
	for i, d := range items {
		if got := c.position(d.Primary); got != want[i] {
			t.Errorf("diagnostic %d at %s, want %s", i, got, want[i])
		}
		if d.Primary.End-d.Primary.Start != uint32(len("foreign")) && d.Primary.End-d.Primary.Start != uint32(len("builtin")) {
			t.Errorf("diagnostic %d must cover the attribute name, got %v", i, d.Primary)
		}
	}
}

func TestModuleNamedLikeStdElsewhereIsUntrusted(t *testing.T) {
	c := checkFiles(t, map[string]string{
		"src/app/std.circ": "#[foreign(x)] fn x();",
		"src/main.circ":    "fn main() {}",
	})
	c.expectCodes(t, diag.SemaLowLevelOutsideStd)
}
