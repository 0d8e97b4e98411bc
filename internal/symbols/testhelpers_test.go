package symbols

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/parser"
	"circa/internal/source"
)

type fixture struct {
	fs      *source.FileSet
	strings *source.Interner
	table   *Table
	bag     *diag.Bag
}

// buildTable parses every file (relative path → source) and builds the table.
func buildTable(t *testing.T, files map[string]string) fixture {
	t.Helper()
	fs := source.NewFileSetWithBase("/p")
	strs := source.NewInterner()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	units := make([]Unit, 0, len(paths))
	for _, rel := range paths {
		id := fs.Add("/p/"+rel, []byte(files[rel]))
		builder := ast.NewBuilder(ast.Hints{}, strs)
		res := parser.ParseFile(fs.Get(id), builder, parser.Options{Reporter: reporter})
		units = append(units, Unit{Path: ModulePathForFile(rel), File: id, Builder: res.Builder, AST: res.File})
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %s", summary(bag))
	}
	table := Build(units, strs, Options{Reporter: reporter})
	return fixture{fs: fs, strings: strs, table: table, bag: bag}
}

func summary(bag *diag.Bag) string {
	items := bag.Items()
	if len(items) == 0 {
		return "<none>"
	}
	lines := make([]string, len(items))
	for i, d := range items {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func (f fixture) path(segs ...string) []source.StringID {
	out := make([]source.StringID, len(segs))
	for i, s := range segs {
		out[i] = f.strings.Intern(s)
	}
	return out
}

func (f fixture) module(t *testing.T, path string) ModuleID {
	t.Helper()
	id, ok := f.table.ModuleByPath(path)
	if !ok {
		t.Fatalf("module %q not found; have %v", path, f.table.ModulePaths())
	}
	return id
}

// fnPath renders the resolved function as module::name.
func (f fixture) fnPath(id SymbolID) string {
	sym := f.table.Symbol(id)
	if sym == nil {
		return "<none>"
	}
	return JoinPath(f.table.Module(sym.Module).Path, f.table.Name(sym.Name))
}
