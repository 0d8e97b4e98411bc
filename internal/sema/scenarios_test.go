package sema

import (
	"strings"
	"testing"
)

const scenarioMain = "fn main(x: Field) { let bits: [u1; 100] = f(x); }\n"

func TestScenarioWellFormedNativeOutsideStd(t *testing.T) {
	c := checkSource(t, "#[builtin(to_le_bits)] fn f<let N: u32>(x: Field) -> [u1; N] {}\n"+scenarioMain)

	want := "error SEM3007 src/main.circ:1:3 definition of low-level function outside of standard library"
	if got := c.short(); got != want {
		t.Fatalf("unexpected diagnostics:\nwant: %s\ngot:  %s", want, got)
	}
	info := c.call(t, "f", 0)
	if info.Bindings["N"] != "100" {
		t.Fatalf("N = %q, want 100", info.Bindings["N"])
	}
	if info.Result.String() != "[u1; 100]" {
		t.Fatalf("call result = %s", info.Result)
	}
}

func TestScenarioMalformedReturnType(t *testing.T) {
	c := checkSource(t, "#[builtin(to_le_bits)] fn f<let N: u32>(x: Field) -> [u1: N] {}\n"+scenarioMain)

	want := strings.Join([]string{
		"error SYN2201 src/main.circ:1:57 expected `]` but found `:`",
		"error SYN2101 src/main.circ:1:57 expected an item but found `:`",
		"error SYN2101 src/main.circ:1:59 expected an item but found `N`",
		"error SYN2101 src/main.circ:1:60 expected an item but found `]`",
		"error SYN2101 src/main.circ:1:62 expected an item but found `{`",
		"error SYN2101 src/main.circ:1:63 expected an item but found `}`",
		"error SEM3007 src/main.circ:1:3 definition of low-level function outside of standard library",
		"error SEM3010 src/main.circ:2:43 expected type `[u1; 100]`, found type `[u1]`",
	}, "\n")
	if got := c.short(); got != want {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestScenarioInsideStdIsClean(t *testing.T) {
	c := checkFiles(t, map[string]string{
		"std/lib.circ":  "#[builtin(to_le_bits)] pub fn f<let N: u32>(x: Field) -> [u1; N] {}\n",
		"src/main.circ": "use std::f;\n" + scenarioMain,
	})
	c.expectClean(t)
	if got := c.call(t, "f", 0).Bindings["N"]; got != "100" {
		t.Fatalf("N = %q", got)
	}
}
