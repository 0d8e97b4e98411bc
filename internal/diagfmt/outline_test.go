package diagfmt

import (
	"bytes"
	"testing"

	"circa/internal/ast"
	"circa/internal/lexer"
	"circa/internal/parser"
	"circa/internal/source"
)

func TestFormatOutline(t *testing.T) {
	src := `use std::hash::poseidon as hash;
mod util;
pub mod inner {
    fn helper<let N: u32>(xs: [Field; N]) -> Field { xs[0] }
}
#[builtin(to_bits)]
fn to_bits<let N: u32>(x: Field) -> [u1; N] {}
fn main() {}
`
	fs := source.NewFileSet()
	id := fs.Add("/p/src/main.circ", []byte(src))
	res := parser.ParseFile(fs.Get(id), ast.NewBuilder(ast.Hints{}, nil), parser.Options{})

	var buf bytes.Buffer
	if err := FormatOutline(&buf, res.Builder, res.File); err != nil {
		t.Fatalf("FormatOutline: %v", err)
	}
	want := `use std::hash::poseidon as hash;
mod util;
pub mod inner {
    fn helper<let N: u32>(xs: [Field; N]) -> Field { ... }
}
#[builtin(to_bits)] fn to_bits<let N: u32>(x: Field) -> [u1; N] { ... }
fn main() { ... }
`
	if buf.String() != want {
		t.Fatalf("outline mismatch\n got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("/p/src/main.circ", []byte("fn f"))
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{})

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	if got := bytes.Count(buf.Bytes(), []byte("\n")); got != len(toks) {
		t.Fatalf("printed %d lines for %d tokens:\n%s", got, len(toks), buf.String())
	}
}
