package symbols

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"circa/internal/ast"
	"circa/internal/source"
	"circa/internal/trust"
)

// Table aggregates the module tree and every declared symbol.
type Table struct {
	Strings *source.Interner

	modules []Module // index 0 reserved for NoModuleID
	symbols []Symbol // index 0 reserved for NoSymbolID
	byPath  map[string]ModuleID
	// fnOrder lists functions in declaration order: units in the order they
	// were given, items in source order, inline modules in place.
	fnOrder []SymbolID
	prelude ModuleID
	frozen  bool
}

// NewTable builds an empty table. If strings is nil, a fresh interner is allocated.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Strings: strings,
		modules: make([]Module, 1, 16),
		symbols: make([]Symbol, 1, 64),
		byPath:  make(map[string]ModuleID),
	}
}

func (t *Table) newModule(m Module) ModuleID {
	value, err := safecast.Conv[uint32](len(t.modules))
	if err != nil {
		panic(fmt.Errorf("modules arena overflow: %w", err))
	}
	id := ModuleID(value)
	if m.Children == nil {
		m.Children = make(map[source.StringID]ModuleID)
	}
	if m.Names == nil {
		m.Names = make(map[source.StringID]SymbolID)
	}
	t.modules = append(t.modules, m)
	t.byPath[m.Path] = id
	return id
}

func (t *Table) newSymbol(sym Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(t.symbols))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	t.symbols = append(t.symbols, sym)
	return SymbolID(value)
}

// Module returns the module pointer or nil if ID is invalid.
func (t *Table) Module(id ModuleID) *Module {
	if !id.IsValid() || int(id) >= len(t.modules) {
		return nil
	}
	return &t.modules[id]
}

// Symbol returns the symbol pointer or nil if ID is invalid.
func (t *Table) Symbol(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.symbols) {
		return nil
	}
	return &t.symbols[id]
}

// ModuleByPath looks a module up by its full path.
func (t *Table) ModuleByPath(path string) (ModuleID, bool) {
	id, ok := t.byPath[path]
	return id, ok
}

// ModuleCount reports the number of modules excluding the sentinel.
func (t *Table) ModuleCount() int { return len(t.modules) - 1 }

// ModulePaths returns every module path in sorted order.
func (t *Table) ModulePaths() []string {
	out := make([]string, 0, len(t.byPath))
	for p := range t.byPath {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Functions returns all function symbols in declaration order.
func (t *Table) Functions() []SymbolID {
	return slices.Clone(t.fnOrder)
}

// FunctionItem returns the AST of a function symbol together with the builder
// it lives in.
func (t *Table) FunctionItem(id SymbolID) (*ast.FnItem, *ast.Builder) {
	sym := t.Symbol(id)
	if sym == nil || sym.Kind != SymbolFunction {
		return nil, nil
	}
	b := t.Module(sym.Module).Builder()
	if b == nil {
		return nil, nil
	}
	fn, ok := b.Items.Fn(sym.Decl.Item)
	if !ok {
		return nil, nil
	}
	return fn, b
}

// ApplyTrust copies the trust flag onto every module and fixes the prelude
// (the trusted root module). The table is read-only afterwards.
func (t *Table) ApplyTrust(model *trust.Model) {
	if t.frozen {
		panic("symbols: ApplyTrust called twice")
	}
	for i := 1; i < len(t.modules); i++ {
		t.modules[i].IsStdlibRoot = model.IsTrusted(t.modules[i].Path)
	}
	if id, ok := t.byPath[model.Root()]; ok {
		t.prelude = id
	}
	t.frozen = true
}

// Frozen reports whether trust has been applied.
func (t *Table) Frozen() bool { return t.frozen }

// Prelude returns the trusted root module, if it exists.
func (t *Table) Prelude() ModuleID { return t.prelude }

// Name returns the text of an interned identifier.
func (t *Table) Name(id source.StringID) string {
	if s, ok := t.Strings.Lookup(id); ok {
		return s
	}
	return ""
}
