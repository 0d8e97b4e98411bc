package ast

import (
	"fmt"

	"fortio.org/safecast"

	"circa/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemMod
	ItemUse
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type Items struct {
	Arena    *Arena[Item]
	Fns      *Arena[FnItem]
	FnParams *Arena[FnParam]
	Generics *Arena[GenericParam]
	Attrs    *Arena[Attr]
	Mods     *Arena[ModItem]
	Uses     *Arena[UseItem]
}

// NewItems creates per-kind arenas with initial capacity capHint (1<<6 when zero).
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:    NewArena[Item](capHint),
		Fns:      NewArena[FnItem](capHint),
		FnParams: NewArena[FnParam](capHint),
		Generics: NewArena[GenericParam](capHint),
		Attrs:    NewArena[Attr](capHint),
		Mods:     NewArena[ModItem](capHint),
		Uses:     NewArena[UseItem](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payloadID PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payloadID,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn || !item.Payload.IsValid() {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) Mod(id ItemID) (*ModItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemMod || !item.Payload.IsValid() {
		return nil, false
	}
	return i.Mods.Get(uint32(item.Payload)), true
}

func (i *Items) Use(id ItemID) (*UseItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemUse || !item.Payload.IsValid() {
		return nil, false
	}
	return i.Uses.Get(uint32(item.Payload)), true
}

func countOf[T any](xs []T, what string) uint32 {
	n, err := safecast.Conv[uint32](len(xs))
	if err != nil {
		panic(fmt.Errorf("%s count overflow: %w", what, err))
	}
	return n
}
