package ast

import "circa/internal/source"

// ModItem is `mod name { items }` or the file-module declaration `mod name;`.
type ModItem struct {
	Name     source.StringID
	NameSpan source.Span
	Pub      bool
	Inline   bool
	Items    []ItemID
	Span     source.Span
}

// UseItem is `use a::b::c;` or `use a::b::c as d;`.
type UseItem struct {
	Path      []source.StringID
	PathSpans []source.Span
	Alias     source.StringID
	AliasSpan source.Span
	Span      source.Span
}

func (i *Items) NewMod(mod ModItem) ItemID {
	payload := PayloadID(i.Mods.Allocate(mod))
	return i.New(ItemMod, mod.Span, payload)
}

func (i *Items) NewUse(use UseItem) ItemID {
	payload := PayloadID(i.Uses.Allocate(use))
	return i.New(ItemUse, use.Span, payload)
}

// BindingName is the name the import introduces: the alias or the last segment.
func (u *UseItem) BindingName() (source.StringID, source.Span) {
	if u.Alias != source.NoStringID {
		return u.Alias, u.AliasSpan
	}
	if len(u.Path) == 0 {
		return source.NoStringID, u.Span
	}
	return u.Path[len(u.Path)-1], u.PathSpans[len(u.PathSpans)-1]
}
