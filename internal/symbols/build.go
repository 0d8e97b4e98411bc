package symbols

import (
	"fmt"
	"slices"
	"strings"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
)

// Options configures table construction.
type Options struct {
	Reporter diag.Reporter
}

type importState uint8

const (
	importPending importState = iota
	importResolving
	importDone
)

type tableBuilder struct {
	table    *Table
	reporter diag.Reporter
	imports  map[SymbolID]importState
}

// Build constructs the module tree from parsed units, declares every item and
// resolves `use` imports. Units are processed in the order given; callers that
// need deterministic output pass them sorted by module path.
//
// Trust is not applied here: the driver builds the trust model from
// Table.ModulePaths and then calls Table.ApplyTrust.
func Build(units []Unit, strings *source.Interner, opts Options) *Table {
	b := &tableBuilder{
		table:    NewTable(strings),
		reporter: opts.Reporter,
		imports:  make(map[SymbolID]importState),
	}
	if b.reporter == nil {
		b.reporter = diag.NopReporter{}
	}
	b.ensureModule("", source.Span{})

	owned := slices.Clone(units)
	fileModules := make([]ModuleID, len(owned))
	for i := range owned {
		fileModules[i] = b.fileModule(&owned[i])
	}
	for i := range owned {
		if !fileModules[i].IsValid() {
			continue
		}
		unit := &owned[i]
		if file := unit.Builder.Files.Get(unit.AST); file != nil {
			b.declareItems(fileModules[i], unit, file.Items)
		}
	}

	for i := 1; i < len(b.table.modules); i++ {
		for _, imp := range b.table.modules[i].Imports {
			b.resolveImport(imp)
		}
	}
	return b.table
}

// ensureModule returns the module at path, creating it and its ancestors.
func (b *tableBuilder) ensureModule(path string, span source.Span) ModuleID {
	if id, ok := b.table.byPath[path]; ok {
		return id
	}
	m := Module{Path: path, Span: span}
	if path != "" {
		segs := SplitPath(path)
		m.Name = b.table.Strings.Intern(segs[len(segs)-1])
		m.Parent = b.ensureModule(ParentPath(path), source.Span{})
	}
	id := b.table.newModule(m)
	if parent := b.table.Module(m.Parent); parent != nil {
		parent.Children[m.Name] = id
		// implicit module symbol; an explicit `mod` or any other item
		// declared under the same name replaces it
		if _, taken := parent.Names[m.Name]; !taken {
			parent.Names[m.Name] = b.table.newSymbol(Symbol{
				Name:   m.Name,
				Kind:   SymbolModule,
				Module: m.Parent,
				Flags:  SymbolFlagPublic,
				Target: id,
			})
		}
	}
	return id
}

func (t *Table) isImplicitModule(id SymbolID) bool {
	sym := t.Symbol(id)
	return sym != nil && sym.Kind == SymbolModule && !sym.Decl.Item.IsValid()
}

func (b *tableBuilder) fileModule(unit *Unit) ModuleID {
	fileSpan := source.Span{File: unit.File}
	if id, ok := b.table.byPath[unit.Path]; ok {
		existing := b.table.Module(id)
		if existing.Unit != nil {
			diag.ReportError(b.reporter, diag.SemaDuplicateSymbol, fileSpan,
				fmt.Sprintf("module `%s` is defined by more than one file", displayPath(unit.Path))).
				WithNote(existing.Span, "first defined here").
				Emit()
			return NoModuleID
		}
		existing.Unit = unit
		existing.Span = fileSpan
		return id
	}
	id := b.ensureModule(unit.Path, fileSpan)
	b.table.Module(id).Unit = unit
	return id
}

func (b *tableBuilder) declareItems(modID ModuleID, unit *Unit, items []ast.ItemID) {
	builder := unit.Builder
	for _, itemID := range items {
		decl := SymbolDecl{SourceFile: unit.File, ASTFile: unit.AST, Item: itemID}
		if fn, ok := builder.Items.Fn(itemID); ok {
			b.declareFn(modID, fn, decl)
			continue
		}
		if mod, ok := builder.Items.Mod(itemID); ok {
			b.declareMod(modID, unit, mod, decl)
			continue
		}
		if use, ok := builder.Items.Use(itemID); ok {
			b.declareUse(modID, use, decl)
		}
	}
}

func (b *tableBuilder) declareFn(modID ModuleID, fn *ast.FnItem, decl SymbolDecl) {
	sym := Symbol{
		Name:   fn.Name,
		Kind:   SymbolFunction,
		Module: modID,
		Span:   fn.NameSpan,
		Decl:   decl,
	}
	if fn.Pub {
		sym.Flags |= SymbolFlagPublic
	}
	if fn.Attr.IsValid() {
		sym.Flags |= SymbolFlagLowLevel
	}
	id := b.table.newSymbol(sym)
	// duplicates stay in the function list so later passes still check them
	b.declare(modID, id)
	b.table.fnOrder = append(b.table.fnOrder, id)
	m := b.table.Module(modID)
	m.Functions = append(m.Functions, id)
}

func (b *tableBuilder) declareMod(modID ModuleID, unit *Unit, mod *ast.ModItem, decl SymbolDecl) {
	parent := b.table.Module(modID)
	path := JoinPath(parent.Path, b.table.Name(mod.Name))
	sym := Symbol{
		Name:   mod.Name,
		Kind:   SymbolModule,
		Module: modID,
		Span:   mod.NameSpan,
		Decl:   decl,
	}
	if mod.Pub {
		sym.Flags |= SymbolFlagPublic
	}

	if !mod.Inline {
		target, ok := b.table.byPath[path]
		if !ok || b.table.Module(target).Unit == nil {
			diag.ReportError(b.reporter, diag.SemaUnresolvedImport, mod.NameSpan,
				fmt.Sprintf("file not found for module `%s`", b.table.Name(mod.Name))).
				Emit()
		}
		sym.Target = target
		b.declare(modID, b.table.newSymbol(sym))
		return
	}

	if existing, ok := b.table.byPath[path]; ok && b.table.Module(existing).Unit != nil {
		diag.ReportError(b.reporter, diag.SemaDuplicateSymbol, mod.NameSpan,
			fmt.Sprintf("module `%s` is defined multiple times", displayPath(path))).
			WithNote(b.table.Module(existing).Span, "previous definition here").
			Emit()
		return
	}
	child := b.ensureModule(path, mod.Span)
	cm := b.table.Module(child)
	cm.Unit = unit
	cm.Span = mod.Span
	sym.Target = child
	b.declare(modID, b.table.newSymbol(sym))
	b.declareItems(child, unit, mod.Items)
}

func (b *tableBuilder) declareUse(modID ModuleID, use *ast.UseItem, decl SymbolDecl) {
	name, span := use.BindingName()
	if name == source.NoStringID {
		return
	}
	id := b.table.newSymbol(Symbol{
		Name:       name,
		Kind:       SymbolImport,
		Module:     modID,
		Span:       span,
		Flags:      SymbolFlagImported,
		Decl:       decl,
		ImportPath: use.Path,
	})
	if b.declare(modID, id) {
		m := b.table.Module(modID)
		m.Imports = append(m.Imports, id)
	}
}

// declare binds a symbol's name in its module and reports a clash.
func (b *tableBuilder) declare(modID ModuleID, id SymbolID) bool {
	m := b.table.Module(modID)
	sym := b.table.Symbol(id)
	if prev, exists := m.Names[sym.Name]; exists && !b.table.isImplicitModule(prev) {
		prevSym := b.table.Symbol(prev)
		name := b.table.Name(sym.Name)
		diag.ReportError(b.reporter, diag.SemaDuplicateSymbol, sym.Span,
			fmt.Sprintf("the name `%s` is defined multiple times", name)).
			WithNote(prevSym.Span, fmt.Sprintf("previous definition of the %s `%s` here", prevSym.Kind, name)).
			Emit()
		return false
	}
	m.Names[sym.Name] = id
	return true
}

func (b *tableBuilder) resolveImport(id SymbolID) {
	switch b.imports[id] {
	case importDone:
		return
	case importResolving:
		// цикл импортов: оставляем неразрешённым, сообщит внешний вызов
		return
	}
	b.imports[id] = importResolving
	sym := b.table.Symbol(id)

	target, _ := b.table.lookupPath(sym.Module, sym.ImportPath, b.resolveImport)
	if target == id {
		target = NoSymbolID
	}
	if t := b.table.Symbol(target); t != nil && t.Kind == SymbolImport {
		target = t.Resolved
	}
	sym = b.table.Symbol(id)
	sym.Resolved = target
	b.imports[id] = importDone

	if !target.IsValid() {
		diag.ReportError(b.reporter, diag.SemaUnresolvedImport, b.importSpan(id),
			fmt.Sprintf("unresolved import `%s`", b.table.joinNames(sym.ImportPath))).
			Emit()
	}
}

func (b *tableBuilder) importSpan(id SymbolID) source.Span {
	sym := b.table.Symbol(id)
	m := b.table.Module(sym.Module)
	if builder := m.Builder(); builder != nil {
		if use, ok := builder.Items.Use(sym.Decl.Item); ok && len(use.PathSpans) > 0 {
			return use.PathSpans[0].Cover(use.PathSpans[len(use.PathSpans)-1])
		}
	}
	return sym.Span
}

func (t *Table) joinNames(ids []source.StringID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = t.Name(id)
	}
	return strings.Join(parts, PathSep)
}

func displayPath(p string) string {
	if p == "" {
		return "crate"
	}
	return p
}
