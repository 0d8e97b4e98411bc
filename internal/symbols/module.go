package symbols

import (
	"circa/internal/ast"
	"circa/internal/source"
)

// Unit is one parsed source file together with the module path it defines.
type Unit struct {
	Path    string
	File    source.FileID
	Builder *ast.Builder
	AST     ast.FileID
}

// Module is a node of the module tree. File modules carry the unit they were
// parsed from; inline modules share the unit of their parent; modules that
// only exist as ancestors of other paths have no unit at all.
type Module struct {
	Path   string
	Name   source.StringID
	Parent ModuleID
	Unit   *Unit
	Span   source.Span
	// IsStdlibRoot is set from the trust model and never changes afterwards.
	IsStdlibRoot bool

	Children  map[source.StringID]ModuleID
	Names     map[source.StringID]SymbolID
	Functions []SymbolID
	Imports   []SymbolID
}

// Builder returns the AST builder the module's items live in.
func (m *Module) Builder() *ast.Builder {
	if m == nil || m.Unit == nil {
		return nil
	}
	return m.Unit.Builder
}
