package symbols

import (
	"slices"
	"testing"

	"circa/internal/diag"
	"circa/internal/trust"
)

func TestModulePathForFile(t *testing.T) {
	tests := map[string]string{
		"src/main.circ":          "",
		"main.circ":              "",
		"src/lib.circ":           "",
		"src/hash.circ":          "hash",
		"src/hash/mod.circ":      "hash",
		"std/lib.circ":           "std",
		"std/hash/poseidon.circ": "std::hash::poseidon",
		"./std/field.circ":       "std::field",
	}
	for in, want := range tests {
		if got := ModulePathForFile(in); got != want {
			t.Errorf("ModulePathForFile(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildModuleTree(t *testing.T) {
	f := buildTable(t, map[string]string{
		"src/main.circ":     "mod util;\nfn main() {}\nmod inner { fn a() {} mod deeper { fn b() {} } }",
		"src/util.circ":     "pub fn helper() {}",
		"std/hash/mod.circ": "#[foreign(poseidon)] pub fn poseidon(x: Field) -> Field;",
	})
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", summary(f.bag))
	}
	want := []string{"", "inner", "inner::deeper", "std", "std::hash", "util"}
	if got := f.table.ModulePaths(); !slices.Equal(got, want) {
		t.Fatalf("ModulePaths = %v, want %v", got, want)
	}

	var order []string
	for _, id := range f.table.Functions() {
		order = append(order, f.fnPath(id))
	}
	wantOrder := []string{"main", "inner::a", "inner::deeper::b", "util::helper", "std::hash::poseidon"}
	if !slices.Equal(order, wantOrder) {
		t.Fatalf("function order = %v, want %v", order, wantOrder)
	}

	if f.table.Module(f.module(t, "std")).Unit != nil {
		t.Fatal("`std` only exists as an ancestor and has no unit")
	}
	sym := f.table.Symbol(f.table.Module(f.module(t, "std::hash")).Functions[0])
	if sym.Flags&SymbolFlagLowLevel == 0 || sym.Flags&SymbolFlagPublic == 0 {
		t.Fatalf("flags = %v", sym.Flags.Strings())
	}
}

func TestApplyTrust(t *testing.T) {
	f := buildTable(t, map[string]string{
		"src/main.circ":     "fn main() {}",
		"std/lib.circ":      "pub fn id(x: Field) -> Field { x }",
		"std/hash/mod.circ": "pub fn h() {}",
		"stdx/lib.circ":     "fn x() {}",
	})
	model := trust.Build(trust.DefaultRoot, f.table.ModulePaths())
	f.table.ApplyTrust(model)

	for path, want := range map[string]bool{"": false, "std": true, "std::hash": true, "stdx": false} {
		if got := f.table.Module(f.module(t, path)).IsStdlibRoot; got != want {
			t.Errorf("IsStdlibRoot(%q) = %v, want %v", path, got, want)
		}
	}
	if f.table.Prelude() != f.module(t, "std") {
		t.Fatal("prelude must be the trusted root module")
	}
	if !f.table.Frozen() {
		t.Fatal("table must be frozen after ApplyTrust")
	}
}

func TestLookupOrder(t *testing.T) {
	f := buildTable(t, map[string]string{
		"src/main.circ": `use std::hash::poseidon;
use util::helper as h;
fn main() {}
fn shadow() {}
mod inner { fn shadow() {} fn local() {} }`,
		"src/util.circ":     "pub fn helper() {}",
		"std/lib.circ":      "pub fn shadow() {} pub fn only_std() {}",
		"std/hash/mod.circ": "pub fn poseidon() {}",
	})
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", summary(f.bag))
	}
	f.table.ApplyTrust(trust.Build("std", f.table.ModulePaths()))

	root := f.module(t, "")
	inner := f.module(t, "inner")
	tests := []struct {
		name string
		from ModuleID
		path []string
		want string
	}{
		{"current module wins", inner, []string{"shadow"}, "inner::shadow"},
		{"ancestor", inner, []string{"main"}, "main"},
		{"import", root, []string{"poseidon"}, "std::hash::poseidon"},
		{"aliased import", inner, []string{"h"}, "util::helper"},
		{"prelude", inner, []string{"only_std"}, "std::only_std"},
		{"absolute path", inner, []string{"std", "hash", "poseidon"}, "std::hash::poseidon"},
		{"relative path", root, []string{"inner", "local"}, "inner::local"},
		{"super", inner, []string{"super", "shadow"}, "shadow"},
		{"crate", inner, []string{"crate", "util", "helper"}, "util::helper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found := f.table.LookupFunction(tt.from, f.path(tt.path...))
			if !found {
				t.Fatal("not found")
			}
			if got := f.fnPath(id); got != tt.want {
				t.Fatalf("resolved to %s, want %s", got, tt.want)
			}
		})
	}

	if _, found := f.table.LookupFunction(root, f.path("missing")); found {
		t.Fatal("missing name must not be found")
	}
}

func TestDuplicateNames(t *testing.T) {
	f := buildTable(t, map[string]string{
		"src/main.circ": "fn a() {}\nfn a(x: Field) {}\nmod a {}",
	})
	items := f.bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %s", summary(f.bag))
	}
	for _, d := range items {
		if d.Code != diag.SemaDuplicateSymbol || len(d.Notes) != 1 {
			t.Fatalf("unexpected diagnostic: %+v", d)
		}
	}
	if n := len(f.table.Functions()); n != 2 {
		t.Fatalf("duplicate functions must still be listed, got %d", n)
	}
}

func TestUnresolvedImports(t *testing.T) {
	f := buildTable(t, map[string]string{
		"src/main.circ": "use std::nope;\nuse missing::thing;\nmod gone;\nfn main() {}",
		"std/lib.circ":  "pub fn yes() {}",
	})
	items := f.bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics, got %s", summary(f.bag))
	}
	want := []string{"file not found for module `gone`", "unresolved import `std::nope`", "unresolved import `missing::thing`"}
	for i, d := range items {
		if d.Code != diag.SemaUnresolvedImport || d.Message != want[i] {
			t.Errorf("diagnostic %d = [%s] %s, want %s", i, d.Code.ID(), d.Message, want[i])
		}
	}

	root := f.module(t, "")
	id, found := f.table.LookupFunction(root, f.path("nope"))
	if !found || id.IsValid() {
		t.Fatal("broken import must be found but lead nowhere")
	}
}

func TestImportCycleTerminates(t *testing.T) {
	f := buildTable(t, map[string]string{
		"src/main.circ": "use b::x;\nmod b { use super::x; }",
	})
	if f.bag.Len() == 0 {
		t.Fatal("cyclic imports must be reported")
	}
	for _, d := range f.bag.Items() {
		if d.Code != diag.SemaUnresolvedImport {
			t.Fatalf("unexpected diagnostic: [%s] %s", d.Code.ID(), d.Message)
		}
	}
}
