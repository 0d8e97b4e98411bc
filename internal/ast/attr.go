package ast

import "circa/internal/source"

type AttrKind uint8

const (
	AttrNone AttrKind = iota
	// AttrForeign — `#[foreign(name)]`, реализация вне языка.
	AttrForeign
	// AttrBuiltin — `#[builtin(name)]`, интринсик компилятора.
	AttrBuiltin
)

func (k AttrKind) String() string {
	switch k {
	case AttrForeign:
		return "foreign"
	case AttrBuiltin:
		return "builtin"
	default:
		return "none"
	}
}

// LookupAttr maps an attribute name to its kind.
func LookupAttr(name string) (AttrKind, bool) {
	switch name {
	case "foreign":
		return AttrForeign, true
	case "builtin":
		return AttrBuiltin, true
	}
	return AttrNone, false
}

// Attr is a low-level function attribute as written: `#[builtin(to_le_bits)]`.
type Attr struct {
	Kind     AttrKind
	NameSpan source.Span     // span of `builtin` / `foreign`
	Arg      source.StringID // intrinsic name; NoStringID when missing
	ArgSpan  source.Span
	Span     source.Span // from '#' to ']'
}
