package testkit

import (
	"testing"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/parser"
	"circa/internal/source"
)

func parse(t *testing.T, src string) (*source.FileSet, *source.File, parser.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	sf := fs.Get(fs.Add("main.circ", []byte(src)))
	bag := diag.NewBag()
	res := parser.ParseFile(sf, ast.NewBuilder(ast.Hints{}, nil), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return fs, sf, res, bag
}

func TestSpanInvariantsHold(t *testing.T) {
	tests := []string{
		"",
		"fn main() {}\n",
		"mod inner {\n    pub fn f<let N: u32>(x: Field) -> [u1; N] {}\n    mod deeper { use std::f; }\n}\n",
		"fn broken( {}\nfn ok() {}\n",
		"#[builtin(to_le_bits)] fn f(",
	}
	for _, src := range tests {
		fs, sf, res, bag := parse(t, src)
		if err := CheckSpanInvariants(res.Builder, res.File, sf); err != nil {
			t.Errorf("%q: %v", src, err)
		}
		if err := CheckDiagnosticSpans(bag, fs); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestSpanInvariantsCatchStrayItem(t *testing.T) {
	_, sf, res, _ := parse(t, "fn main() {}\n")
	f := res.Builder.Files.Get(res.File)
	item := res.Builder.Items.Get(f.Items[0])
	item.Span.End = f.Span.End + 10
	if err := CheckSpanInvariants(res.Builder, res.File, sf); err == nil {
		t.Fatal("item outside the file span went unnoticed")
	}
}

func TestDiagnosticSpansCatchOverflow(t *testing.T) {
	fs, sf, _, _ := parse(t, "fn main() {}\n")
	bag := diag.NewBag()
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaUnresolvedSymbol,
		Primary:  source.Span{File: sf.ID, Start: 2, End: 999},
	})
	if err := CheckDiagnosticSpans(bag, fs); err == nil {
		t.Fatal("span past end of file went unnoticed")
	}
}
