package types

import (
	"math"
	"strconv"
	"strings"
)

// MaxLength is the largest array length; lengths are u32.
const MaxLength = math.MaxUint32

type LengthKind uint8

const (
	// LenUnknown — длина не разобрана или не выведена.
	LenUnknown LengthKind = iota
	LenLiteral
	LenNamed
	LenBinary
)

type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	default:
		return "*"
	}
}

// Length is an array length: a literal, a numeric generic, an arithmetic
// combination of those, or Unknown.
type Length struct {
	Kind  LengthKind
	Value uint64 // LenLiteral
	Name  string // LenNamed
	Owner string // LenNamed: which declaration or call site the generic belongs to
	Op    Op
	L, R  *Length
}

func Unknown() Length     { return Length{Kind: LenUnknown} }
func Lit(v uint64) Length { return Length{Kind: LenLiteral, Value: v} }
func Named(name, owner string) Length {
	return Length{Kind: LenNamed, Name: name, Owner: owner}
}

func Binary(op Op, l, r Length) Length {
	lc, rc := l, r
	return Length{Kind: LenBinary, Op: op, L: &lc, R: &rc}
}

// HasUnknown reports whether any part of l is Unknown.
func (l Length) HasUnknown() bool {
	switch l.Kind {
	case LenUnknown:
		return true
	case LenBinary:
		return l.L.HasUnknown() || l.R.HasUnknown()
	default:
		return false
	}
}

func (l Length) String() string {
	var sb strings.Builder
	l.write(&sb, false)
	return sb.String()
}

func (l Length) write(sb *strings.Builder, nested bool) {
	switch l.Kind {
	case LenLiteral:
		sb.WriteString(strconv.FormatUint(l.Value, 10))
	case LenNamed:
		sb.WriteString(l.Name)
	case LenBinary:
		if nested {
			sb.WriteByte('(')
		}
		l.L.write(sb, true)
		sb.WriteString(" " + l.Op.String() + " ")
		l.R.write(sb, true)
		if nested {
			sb.WriteByte(')')
		}
	default:
		sb.WriteByte('_')
	}
}

// Subst replaces named lengths for which f returns true.
func (l Length) Subst(f func(name, owner string) (Length, bool)) Length {
	switch l.Kind {
	case LenNamed:
		if f != nil {
			if r, ok := f(l.Name, l.Owner); ok {
				return r
			}
		}
		return l
	case LenBinary:
		return Binary(l.Op, l.L.Subst(f), l.R.Subst(f))
	default:
		return l
	}
}

// Walk visits every named length.
func (l Length) Walk(f func(name, owner string)) {
	switch l.Kind {
	case LenNamed:
		if f != nil {
			f(l.Name, l.Owner)
		}
	case LenBinary:
		l.L.Walk(f)
		l.R.Walk(f)
	}
}

// Eval returns the value of a fully concrete length. It fails on Unknown,
// on remaining names, on overflow and on negative intermediate results.
func (l Length) Eval() (uint64, bool) {
	p, ok := l.Poly()
	if !ok {
		return 0, false
	}
	v, ok := p.Const()
	if !ok || v < 0 {
		return 0, false
	}
	return uint64(v), true
}

// Simplify folds constants and merges like terms: `(N + 2) - 1` becomes `N + 1`.
// Lengths that cannot be normalised are returned unchanged.
func (l Length) Simplify() Length {
	p, ok := l.Poly()
	if !ok {
		return l
	}
	return p.Length()
}

// LengthEqual compares lengths after normalisation.
func LengthEqual(a, b Length) bool {
	pa, ok := a.Poly()
	if !ok {
		return false
	}
	pb, ok := b.Poly()
	if !ok {
		return false
	}
	return pa.Equal(pb)
}

// LengthRange classifies the value of a length against an upper bound.
type LengthRange uint8

const (
	RangeOK LengthRange = iota
	// RangeSymbolic — длина ещё содержит generic или Unknown.
	RangeSymbolic
	RangeNegative
	RangeOverflow
)

// CheckRange evaluates a length that mentions no generics and classifies it
// against [0, maxValue]. The value is meaningless for RangeSymbolic and is 0
// when the length overflows even the normal form.
func (l Length) CheckRange(maxValue uint64) (LengthRange, int64) {
	if l.HasUnknown() {
		return RangeSymbolic, 0
	}
	named := false
	l.Walk(func(string, string) { named = true })
	if named {
		return RangeSymbolic, 0
	}
	p, ok := l.Poly()
	if !ok {
		return RangeOverflow, 0
	}
	v, _ := p.Const()
	switch {
	case v < 0:
		return RangeNegative, v
	case uint64(v) > maxValue:
		return RangeOverflow, v
	default:
		return RangeOK, v
	}
}
