package parser

import (
	"testing"

	"circa/internal/ast"
	"circa/internal/diag"
)

func TestBodyStatements(t *testing.T) {
	src := `fn main(x: Field) -> [u1; 100] {
    let bits: [u1; 100] = f::<100>(x);
    let mut y = [x, 1, 2];
    let z = [0; N + 1];
    g(y[0] + x * 2);
    bits
}`
	p := parseSource(t, src)
	expectNoDiagnostics(t, p)

	fn := p.fn(t, 0)
	block := p.builder.Stmts.Block(fn.Body)
	if block == nil || len(block.Stmts) != 4 || !block.Tail.IsValid() {
		t.Fatalf("unexpected block: %+v", block)
	}

	let := p.builder.Stmts.Let(block.Stmts[0])
	if let == nil || p.builder.FormatType(let.Type) != "[u1; 100]" {
		t.Fatalf("unexpected let: %+v", let)
	}
	call := p.builder.Exprs.Call(let.Value)
	if call == nil || len(call.Turbofish) != 1 || call.Turbofish[0].Kind != ast.GenericArgLength || len(call.Args) != 1 {
		t.Fatalf("unexpected call: %+v", call)
	}
	if got := p.builder.FormatLength(call.Turbofish[0].Len); got != "100" {
		t.Fatalf("turbofish length = %q", got)
	}

	if !p.builder.Stmts.Let(block.Stmts[1]).Mut {
		t.Fatal("mut lost")
	}
	rep := p.builder.Exprs.Repeat(p.builder.Stmts.Let(block.Stmts[2]).Value)
	if rep == nil || p.builder.FormatLength(rep.Len) != "N + 1" {
		t.Fatalf("unexpected repeat: %+v", rep)
	}

	exprStmt := p.builder.Stmts.Expr(block.Stmts[3])
	outer := p.builder.Exprs.Call(exprStmt.Expr)
	if outer == nil || len(outer.Args) != 1 {
		t.Fatal("expected call statement")
	}
	sum := p.builder.Exprs.Binary(outer.Args[0])
	if sum == nil || sum.Op != ast.ExprAdd || p.builder.Exprs.Binary(sum.R) == nil {
		t.Fatal("`*` must bind tighter than `+`")
	}
	if p.builder.Exprs.Index(sum.L) == nil {
		t.Fatal("expected index expression")
	}
}

func TestTurbofishArguments(t *testing.T) {
	p := parseSource(t, "fn main() { std::f::<Field, N, N * 2, (3)>(); }")
	expectNoDiagnostics(t, p)
	block := p.builder.Stmts.Block(p.fn(t, 0).Body)
	call := p.builder.Exprs.Call(p.builder.Stmts.Expr(block.Stmts[0]).Expr)
	want := []ast.GenericArgKind{ast.GenericArgType, ast.GenericArgType, ast.GenericArgLength, ast.GenericArgLength}
	if len(call.Turbofish) != len(want) {
		t.Fatalf("got %d generic args", len(call.Turbofish))
	}
	for i, k := range want {
		if call.Turbofish[i].Kind != k {
			t.Errorf("arg %d kind = %v, want %v", i, call.Turbofish[i].Kind, k)
		}
	}
	path := p.builder.Exprs.Path(call.Callee)
	if path == nil || len(path.Segments) != 2 {
		t.Fatalf("unexpected callee %+v", path)
	}
}

func TestStatementLevelRecovery(t *testing.T) {
	p := parseSource(t, "fn main() {\n  let a = ;\n  let b = 1;\n}\nfn other() {}")
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynExpectExpression {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	main := p.fn(t, 0)
	if !main.HasBody {
		t.Fatal("body must survive a statement error")
	}
	if block := p.builder.Stmts.Block(main.Body); len(block.Stmts) != 1 {
		t.Fatalf("expected the valid let to be kept, got %d stmts", len(block.Stmts))
	}
	if len(p.items()) != 2 {
		t.Fatal("next item lost")
	}
}

func TestUnclosedBodyStopsAtNextItem(t *testing.T) {
	p := parseSource(t, "fn main() {\n  let a = 1;\nfn other() {}")
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnclosedBrace {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	if len(p.items()) != 2 {
		t.Fatalf("expected two functions, got %d", len(p.items()))
	}
}

func TestMalformedLetTypeAbandonsItem(t *testing.T) {
	p := parseSource(t, "fn main() { let a: [u1: 3] = x; }")
	items := p.bag.Items()
	if len(items) == 0 || items[0].Code != diag.SynExpectRightBracket {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	main := p.fn(t, 0)
	if main.HasBody || !main.Malformed {
		t.Fatalf("abandoned function must be recorded without body: %+v", main)
	}
	// ':' '3' ']' '=' 'x' ';' '}'
	if len(items) != 8 {
		t.Fatalf("expected 1 + 7 diagnostics, got %s", diagnosticsSummary(p.bag))
	}
}
