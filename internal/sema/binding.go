package sema

import (
	"circa/internal/ast"
	"circa/internal/source"
	"circa/internal/types"
)

// bindingSource says which evidence bound a generic.
type bindingSource uint8

const (
	fromTurbofish bindingSource = iota
	fromArgument
	fromExpected
)

type boundLength struct {
	value  types.Length
	span   source.Span
	source bindingSource
}

type boundType struct {
	value  types.Type
	span   source.Span
	source bindingSource
}

// Binding is the short-lived map from a callee's generics to their values at
// one call site. Generics of the instantiated signature carry owner as their
// owner; once bound, a generic is never overwritten.
type Binding struct {
	owner string
	lens  map[string]boundLength
	types map[string]boundType
	// numeric holds the declared type of each numeric generic; shared by clones
	numeric map[string]types.Type
}

func newBinding(owner string) *Binding {
	return &Binding{
		owner: owner,
		lens:  make(map[string]boundLength),
		types: make(map[string]boundType),
	}
}

func (b *Binding) clone() *Binding {
	out := newBinding(b.owner)
	out.numeric = b.numeric
	for k, v := range b.lens {
		out.lens[k] = v
	}
	for k, v := range b.types {
		out.types[k] = v
	}
	return out
}

func (b *Binding) bindLength(name string, v types.Length, span source.Span, src bindingSource) {
	if _, ok := b.lens[name]; ok {
		return
	}
	b.lens[name] = boundLength{value: v.Simplify(), span: span, source: src}
}

func (b *Binding) bindType(name string, v types.Type, span source.Span, src bindingSource) {
	if _, ok := b.types[name]; ok {
		return
	}
	b.types[name] = boundType{value: v.Simplify(), span: span, source: src}
}

// declare records the declared types of sig's numeric generics.
func (b *Binding) declare(sig *Signature) {
	b.numeric = make(map[string]types.Type, len(sig.Generics))
	for _, g := range sig.Generics {
		if g.Kind == ast.GenericNumeric {
			b.numeric[g.Name] = g.Numeric
		}
	}
}

// limit is the largest value the numeric generic name may take.
func (b *Binding) limit(name string) uint64 {
	return genericLimit(b.numeric[name])
}

// genericLimit caps a numeric generic at both its type and the array length
// range; an undeclared type falls back to u32.
func genericLimit(t types.Type) uint64 {
	if t.Kind != types.KindInt {
		return types.MaxLength
	}
	return min(t.MaxValue(), types.MaxLength)
}

// Length returns the value bound to a numeric generic.
func (b *Binding) Length(name string) (types.Length, bool) {
	v, ok := b.lens[name]
	return v.value, ok
}

// Type returns the type bound to a type generic.
func (b *Binding) Type(name string) (types.Type, bool) {
	v, ok := b.types[name]
	return v.value, ok
}

func (b *Binding) bound(name string) bool {
	_, okL := b.lens[name]
	_, okT := b.types[name]
	return okL || okT
}

// apply substitutes every bound generic of the call site in t.
func (b *Binding) apply(t types.Type) types.Type {
	return t.Subst(
		func(name, owner string) (types.Type, bool) {
			if owner != b.owner {
				return types.Type{}, false
			}
			v, ok := b.types[name]
			return v.value, ok
		},
		func(name, owner string) (types.Length, bool) {
			if owner != b.owner {
				return types.Length{}, false
			}
			v, ok := b.lens[name]
			return v.value, ok
		},
	).Simplify()
}

// erase replaces the free generics of the call site with Unresolved types
// and Unknown lengths, leaving a type usable as a hint outside the site.
func (b *Binding) erase(t types.Type) types.Type {
	return t.Subst(
		func(_, owner string) (types.Type, bool) {
			return types.Unresolved(), owner == b.owner
		},
		func(_, owner string) (types.Length, bool) {
			return types.Unknown(), owner == b.owner
		},
	)
}

// unbound lists the generics of the call site still free in t, in order of
// first occurrence.
func (b *Binding) unbound(t types.Type) []string {
	var out []string
	seen := map[string]bool{}
	visit := func(name, owner string) {
		if owner != b.owner || seen[name] || b.bound(name) {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	t.Walk(visit, visit)
	return out
}

// snapshot renders the bindings for CallInfo.
func (b *Binding) snapshot() map[string]string {
	out := make(map[string]string, len(b.lens)+len(b.types))
	for name, v := range b.lens {
		if v.value.Kind == types.LenUnknown {
			continue
		}
		out[name] = v.value.String()
	}
	for name, v := range b.types {
		out[name] = v.value.String()
	}
	return out
}
