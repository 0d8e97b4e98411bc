package symbols

import (
	"circa/internal/ast"
	"circa/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolModule
	SymbolImport
	SymbolFunction
)

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagPublic SymbolFlags = 1 << iota
	SymbolFlagImported
	// SymbolFlagLowLevel — функция с #[foreign]/#[builtin].
	SymbolFlagLowLevel
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolImport:
		return "import"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&SymbolFlagPublic != 0 {
		labels = append(labels, "public")
	}
	if f&SymbolFlagImported != 0 {
		labels = append(labels, "imported")
	}
	if f&SymbolFlagLowLevel != 0 {
		labels = append(labels, "low-level")
	}
	return labels
}

// SymbolDecl focuses on the AST origin for diagnostics.
type SymbolDecl struct {
	SourceFile source.FileID
	ASTFile    ast.FileID
	Item       ast.ItemID
}

// Symbol describes a named entity declared in a module.
type Symbol struct {
	Name   source.StringID
	Kind   SymbolKind
	Module ModuleID // declaring module
	Span   source.Span
	Flags  SymbolFlags
	Decl   SymbolDecl

	// Target is the module a SymbolModule refers to.
	Target ModuleID
	// ImportPath is the path written in `use`; Resolved is filled once the
	// import is resolved and never points at another import.
	ImportPath []source.StringID
	Resolved   SymbolID
}
