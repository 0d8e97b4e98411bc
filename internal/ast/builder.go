package ast

import (
	"circa/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs, Types uint }

// Builder owns the arenas of a single parsed source file.
type Builder struct {
	Files   *Files
	Items   *Items
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *TypeExprs
	Strings *source.Interner
}

// NewBuilder creates a Builder. strings may be shared between builders; nil
// allocates a private interner.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Types:   NewTypeExprs(hints.Types),
		Strings: strings,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// Name resolves an interned identifier; NoStringID yields "".
func (b *Builder) Name(id source.StringID) string {
	if id == source.NoStringID {
		return ""
	}
	s, _ := b.Strings.Lookup(id)
	return s
}
