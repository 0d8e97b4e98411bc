package sema

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/parser"
	"circa/internal/source"
	"circa/internal/symbols"
	"circa/internal/trust"
)

type checked struct {
	fs     *source.FileSet
	parse  *diag.Bag
	sema   *diag.Bag
	table  *symbols.Table
	result *Result
}

// checkFiles parses every file (path relative to the project root), builds
// the symbol table with `std` as the trusted root and runs all passes.
func checkFiles(t *testing.T, files map[string]string) checked {
	t.Helper()
	fs := source.NewFileSetWithBase("/p")
	strs := source.NewInterner()
	parseBag := diag.NewBag()
	semaBag := diag.NewBag()

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	units := make([]symbols.Unit, 0, len(paths))
	for _, rel := range paths {
		id := fs.Add("/p/"+rel, []byte(files[rel]))
		builder := ast.NewBuilder(ast.Hints{}, strs)
		res := parser.ParseFile(fs.Get(id), builder, parser.Options{Reporter: diag.BagReporter{Bag: parseBag}})
		units = append(units, symbols.Unit{Path: symbols.ModulePathForFile(rel), File: id, Builder: res.Builder, AST: res.File})
	}
	table := symbols.Build(units, strs, symbols.Options{Reporter: diag.BagReporter{Bag: semaBag}})
	table.ApplyTrust(trust.Build(trust.DefaultRoot, table.ModulePaths()))
	result := Check(table, Options{Reporter: diag.BagReporter{Bag: semaBag}})
	return checked{fs: fs, parse: parseBag, sema: semaBag, table: table, result: result}
}

func checkSource(t *testing.T, src string) checked {
	t.Helper()
	return checkFiles(t, map[string]string{"src/main.circ": src})
}

// short renders every diagnostic in record order: parser first, then sema.
func (c checked) short() string {
	all := append(c.parse.Items(), c.sema.Items()...)
	return diag.FormatShortDiagnostics(all, c.fs, false)
}

func (c checked) all() []diag.Diagnostic {
	return append(c.parse.Items(), c.sema.Items()...)
}

func (c checked) summary() string {
	items := c.all()
	if len(items) == 0 {
		return "<none>"
	}
	lines := make([]string, len(items))
	for i, d := range items {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func (c checked) expectClean(t *testing.T) {
	t.Helper()
	if items := c.all(); len(items) != 0 {
		t.Fatalf("unexpected diagnostics: %s", c.summary())
	}
}

// expectCodes checks the exact sequence of diagnostic codes.
func (c checked) expectCodes(t *testing.T, codes ...diag.Code) []diag.Diagnostic {
	t.Helper()
	items := c.all()
	if len(items) != len(codes) {
		t.Fatalf("expected %d diagnostics, got %d: %s", len(codes), len(items), c.summary())
	}
	for i, code := range codes {
		if items[i].Code != code {
			t.Fatalf("diagnostic %d: expected %s, got %s", i, code.ID(), c.summary())
		}
	}
	return items
}

// call returns the resolution of the n-th checked call of callee.
func (c checked) call(t *testing.T, callee string, n int) CallInfo {
	t.Helper()
	seen := 0
	for _, info := range c.result.Calls {
		if sig := c.result.Signatures[info.Callee]; sig != nil && sig.Name == callee {
			if seen == n {
				return info
			}
			seen++
		}
	}
	t.Fatalf("call %d of %s not recorded", n, callee)
	return CallInfo{}
}

func (c checked) position(span source.Span) string {
	start, _ := c.fs.Resolve(span)
	return fmt.Sprintf("%d:%d", start.Line, start.Col)
}
