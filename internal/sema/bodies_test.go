package sema

import (
	"testing"

	"circa/internal/diag"
)

func TestMissingBody(t *testing.T) {
	c := checkFiles(t, map[string]string{
		"src/main.circ": "fn main() {}\nfn decl(x: Field) -> Field;\nfn empty() {}",
		"std/lib.circ":  "#[builtin(x)] pub fn x();\npub fn plain();",
	})
	items := c.expectCodes(t, diag.SemaMissingBody, diag.SemaMissingBody)
	if items[0].Message != "function `decl` has no body" || items[1].Message != "function `plain` has no body" {
		t.Fatalf("unexpected messages: %s", c.summary())
	}
}

func TestMalformedSignatureIsNotBlamedForMissingBody(t *testing.T) {
	c := checkSource(t, "fn g(a: [u1: 3]) {}\nfn main() {}")
	for _, d := range c.all() {
		if d.Code == diag.SemaMissingBody || d.Code == diag.SemaTypeMismatch {
			t.Fatalf("unexpected diagnostic: %s", c.summary())
		}
	}
	if c.sema.Len() != 0 {
		t.Fatalf("expected only parser diagnostics, got %s", c.summary())
	}
}
