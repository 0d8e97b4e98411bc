// Package types holds the semantic form of circa types: the value-typed trees
// that type expressions are lowered to and that the unifier compares.
package types

import (
	"fmt"
	"math"
	"strings"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	// KindUnresolved is the error sentinel: a type that already caused a
	// diagnostic. Nothing compared against it is ever reported again.
	KindUnresolved Kind = iota
	KindUnit
	KindField
	KindInt
	KindBool
	KindArray
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindUnresolved:
		return "unresolved"
	case KindUnit:
		return "unit"
	case KindField:
		return "field"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindGeneric:
		return "generic"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is an immutable semantic type. Arrays own their element by pointer;
// nothing mutates a Type after construction.
type Type struct {
	Kind   Kind
	Width  uint8 // KindInt
	Signed bool  // KindInt
	Elem   *Type // KindArray
	Len    Length
	// KindGeneric: the parameter name and the instantiation it belongs to.
	Name  string
	Owner string
}

func Unresolved() Type { return Type{Kind: KindUnresolved} }
func Unit() Type       { return Type{Kind: KindUnit} }
func Field() Type      { return Type{Kind: KindField} }
func Bool() Type       { return Type{Kind: KindBool} }

func Int(width uint8, signed bool) Type {
	return Type{Kind: KindInt, Width: width, Signed: signed}
}

func Array(elem Type, length Length) Type {
	e := elem
	return Type{Kind: KindArray, Elem: &e, Len: length}
}

func Generic(name, owner string) Type {
	return Type{Kind: KindGeneric, Name: name, Owner: owner}
}

var builtins = map[string]Type{
	"Field": Field(),
	"bool":  Bool(),
	"u1":    Int(1, false),
	"u8":    Int(8, false),
	"u16":   Int(16, false),
	"u32":   Int(32, false),
	"u64":   Int(64, false),
	"u128":  Int(128, false),
	"i8":    Int(8, true),
	"i16":   Int(16, true),
	"i32":   Int(32, true),
	"i64":   Int(64, true),
}

// LookupBuiltin resolves a built-in scalar type name.
func LookupBuiltin(name string) (Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

// IsForbiddenNumeric reports whether t may not back a numeric generic:
// signed integers and integers of 64 bits or more.
func IsForbiddenNumeric(t Type) bool {
	return t.Kind == KindInt && (t.Signed || t.Width >= 64)
}

func (t Type) IsUnresolved() bool { return t.Kind == KindUnresolved }

// MaxValue is the largest value of an integer type; 0 for anything else.
func (t Type) MaxValue() uint64 {
	switch {
	case t.Kind != KindInt || t.Width == 0:
		return 0
	case t.Signed:
		return 1<<(min(t.Width, 64)-1) - 1
	case t.Width >= 64:
		return math.MaxUint64
	default:
		return 1<<t.Width - 1
	}
}

func (t Type) IsNumeric() bool {
	return t.Kind == KindField || t.Kind == KindInt
}

// HasUnresolved reports whether t or any element type is Unresolved.
func (t Type) HasUnresolved() bool {
	switch t.Kind {
	case KindUnresolved:
		return true
	case KindArray:
		return t.Elem.HasUnresolved()
	default:
		return false
	}
}

// HasUnknownLength reports whether any array length in t is Unknown.
func (t Type) HasUnknownLength() bool {
	if t.Kind != KindArray {
		return false
	}
	return t.Len.HasUnknown() || t.Elem.HasUnknownLength()
}

func (t Type) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t Type) write(sb *strings.Builder) {
	switch t.Kind {
	case KindUnresolved:
		sb.WriteByte('_')
	case KindUnit:
		sb.WriteString("()")
	case KindField:
		sb.WriteString("Field")
	case KindBool:
		sb.WriteString("bool")
	case KindInt:
		if t.Signed {
			sb.WriteByte('i')
		} else {
			sb.WriteByte('u')
		}
		fmt.Fprintf(sb, "%d", t.Width)
	case KindGeneric:
		sb.WriteString(t.Name)
	case KindArray:
		sb.WriteByte('[')
		t.Elem.write(sb)
		if t.Len.Kind != LenUnknown {
			sb.WriteString("; ")
			t.Len.write(sb, false)
		}
		sb.WriteByte(']')
	}
}

// Equal compares two types structurally. Lengths are compared after
// normalisation, so `N + 1` equals `1 + N`. Unknown lengths are never equal
// to anything, not even to each other.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Width == b.Width && a.Signed == b.Signed
	case KindGeneric:
		return a.Name == b.Name && a.Owner == b.Owner
	case KindArray:
		return Equal(*a.Elem, *b.Elem) && LengthEqual(a.Len, b.Len)
	default:
		return true
	}
}

// Subst rewrites generic names in t. typeF replaces type generics, lenF
// replaces named lengths; either returns false to keep the original.
func (t Type) Subst(typeF func(name, owner string) (Type, bool), lenF func(name, owner string) (Length, bool)) Type {
	switch t.Kind {
	case KindGeneric:
		if typeF != nil {
			if r, ok := typeF(t.Name, t.Owner); ok {
				return r
			}
		}
		return t
	case KindArray:
		return Array(t.Elem.Subst(typeF, lenF), t.Len.Subst(lenF))
	default:
		return t
	}
}

// Walk visits every type generic and every named length in t.
func (t Type) Walk(typeF func(name, owner string), lenF func(name, owner string)) {
	switch t.Kind {
	case KindGeneric:
		if typeF != nil {
			typeF(t.Name, t.Owner)
		}
	case KindArray:
		t.Elem.Walk(typeF, lenF)
		t.Len.Walk(lenF)
	}
}

// Simplify normalises every array length in t.
func (t Type) Simplify() Type {
	if t.Kind != KindArray {
		return t
	}
	return Array(t.Elem.Simplify(), t.Len.Simplify())
}

// IsConcrete reports whether t contains no Unresolved part, no Unknown length
// and no generic belonging to owner.
func (t Type) IsConcrete(owner string) bool {
	if t.HasUnresolved() || t.HasUnknownLength() {
		return false
	}
	concrete := true
	t.Walk(func(_, o string) {
		if o == owner {
			concrete = false
		}
	}, func(_, o string) {
		if o == owner {
			concrete = false
		}
	})
	return concrete
}

// OutOfRangeLength finds the first array length of t, outermost first, that
// evaluates below zero or above MaxLength. Symbolic lengths are skipped.
func (t Type) OutOfRangeLength() (Length, LengthRange, int64, bool) {
	if t.Kind != KindArray {
		return Length{}, RangeOK, 0, false
	}
	if rng, v := t.Len.CheckRange(MaxLength); rng == RangeNegative || rng == RangeOverflow {
		return t.Len, rng, v, true
	}
	return t.Elem.OutOfRangeLength()
}
