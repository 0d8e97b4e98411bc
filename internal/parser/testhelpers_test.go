package parser

import (
	"fmt"
	"strings"
	"testing"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
)

type parsed struct {
	fs      *source.FileSet
	builder *ast.Builder
	file    ast.FileID
	bag     *diag.Bag
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSetWithBase("/p")
	id := fs.Add("/p/src/main.circ", []byte(src))
	bag := diag.NewBag()
	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(fs.Get(id), builder, Options{Reporter: diag.BagReporter{Bag: bag}})
	return parsed{fs: fs, builder: res.Builder, file: res.File, bag: bag}
}

func (p parsed) short() string {
	return diag.FormatShortDiagnostics(p.bag.Items(), p.fs, false)
}

func (p parsed) items() []ast.ItemID {
	return p.builder.Files.Get(p.file).Items
}

func (p parsed) fn(t *testing.T, idx int) *ast.FnItem {
	t.Helper()
	items := p.items()
	if idx >= len(items) {
		t.Fatalf("expected at least %d items, got %d", idx+1, len(items))
	}
	fn, ok := p.builder.Items.Fn(items[idx])
	if !ok {
		t.Fatalf("item %d is not a function", idx)
	}
	return fn
}

func diagnosticsSummary(bag *diag.Bag) string {
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func expectNoDiagnostics(t *testing.T, p parsed) {
	t.Helper()
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
}
