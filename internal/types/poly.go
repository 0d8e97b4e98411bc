package types

import (
	"math"
	"sort"
	"strings"
)

// Poly is the normal form of a Length: a sum of integer-weighted monomials.
// A monomial key is the sorted product of variables ("" is the constant term);
// a variable is owner + "\x1f" + name. Zero coefficients are never stored.
type Poly map[string]int64

const (
	varSep    = "\x1f"
	factorSep = "*"
	// bound keeps every intermediate product far from int64 overflow
	polyBound = int64(1) << 62
)

// VarKey is the monomial key of a single generic.
func VarKey(name, owner string) string {
	return owner + varSep + name
}

// SplitVarKey is the inverse of VarKey.
func SplitVarKey(key string) (name, owner string) {
	if i := strings.LastIndex(key, varSep); i >= 0 {
		return key[i+len(varSep):], key[:i]
	}
	return key, ""
}

// Poly normalises l. It fails on Unknown and on coefficient overflow.
func (l Length) Poly() (Poly, bool) {
	switch l.Kind {
	case LenLiteral:
		if l.Value > uint64(polyBound) {
			return nil, false
		}
		p := Poly{}
		p.add("", int64(l.Value))
		return p, true
	case LenNamed:
		return Poly{VarKey(l.Name, l.Owner): 1}, true
	case LenBinary:
		lp, ok := l.L.Poly()
		if !ok {
			return nil, false
		}
		rp, ok := l.R.Poly()
		if !ok {
			return nil, false
		}
		switch l.Op {
		case OpAdd:
			return lp.plus(rp, 1)
		case OpSub:
			return lp.plus(rp, -1)
		default:
			return lp.times(rp)
		}
	default:
		return nil, false
	}
}

func (p Poly) add(key string, k int64) {
	if k == 0 {
		return
	}
	if v := p[key] + k; v != 0 {
		p[key] = v
	} else {
		delete(p, key)
	}
}

func (p Poly) clone() Poly {
	out := make(Poly, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func inBound(v int64) bool { return v > -polyBound && v < polyBound }

func (p Poly) plus(q Poly, sign int64) (Poly, bool) {
	out := p.clone()
	for k, v := range q {
		out.add(k, sign*v)
		if !inBound(out[k]) {
			return nil, false
		}
	}
	return out, true
}

func (p Poly) times(q Poly) (Poly, bool) {
	out := Poly{}
	for ka, va := range p {
		for kb, vb := range q {
			if va != 0 && (absInt(vb) > math.MaxInt64/absInt(va)) {
				return nil, false
			}
			out.add(mulKeys(ka, kb), va*vb)
			if !inBound(out[mulKeys(ka, kb)]) {
				return nil, false
			}
		}
	}
	return out, true
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func mulKeys(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	factors := append(strings.Split(a, factorSep), strings.Split(b, factorSep)...)
	sort.Strings(factors)
	return strings.Join(factors, factorSep)
}

// Const returns the value of a polynomial without variables.
func (p Poly) Const() (int64, bool) {
	for k := range p {
		if k != "" {
			return 0, false
		}
	}
	return p[""], true
}

func (p Poly) Equal(q Poly) bool {
	if len(p) != len(q) {
		return false
	}
	for k, v := range p {
		if q[k] != v {
			return false
		}
	}
	return true
}

// Linear splits p around variable v: p = k*v + rest. ok is false when v
// occurs inside a product with another variable or with itself.
func (p Poly) Linear(v string) (k int64, rest Poly, ok bool) {
	rest = Poly{}
	for key, c := range p {
		if key == v {
			k = c
			continue
		}
		for _, f := range strings.Split(key, factorSep) {
			if f == v {
				return 0, nil, false
			}
		}
		rest[key] = c
	}
	return k, rest, true
}

// Vars lists the distinct variables of p in sorted order.
func (p Poly) Vars() []string {
	seen := map[string]struct{}{}
	for key := range p {
		if key == "" {
			continue
		}
		for _, f := range strings.Split(key, factorSep) {
			seen[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) (Poly, bool) { return p.plus(q, -1) }

// DivExact divides every coefficient by k; ok is false unless all divide evenly.
func (p Poly) DivExact(k int64) (Poly, bool) {
	if k == 0 {
		return nil, false
	}
	out := Poly{}
	for key, c := range p {
		if c%k != 0 {
			return nil, false
		}
		out.add(key, c/k)
	}
	return out, true
}

// Length rebuilds a canonical Length: variable terms in key order, the
// constant after them, subtracted terms last.
func (p Poly) Length() Length {
	keys := make([]string, 0, len(p))
	for k := range p {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := p[""]; ok {
		keys = append(keys, "")
	}

	var acc *Length
	var negs []Length
	for _, key := range keys {
		c := p[key]
		term := termLength(key, absInt(c))
		if c < 0 {
			negs = append(negs, term)
			continue
		}
		if acc == nil {
			t := term
			acc = &t
			continue
		}
		sum := Binary(OpAdd, *acc, term)
		acc = &sum
	}
	if acc == nil {
		zero := Lit(0)
		acc = &zero
		if len(negs) == 0 {
			return zero
		}
	}
	for _, n := range negs {
		diff := Binary(OpSub, *acc, n)
		acc = &diff
	}
	return *acc
}

func termLength(key string, k int64) Length {
	if key == "" {
		return Lit(uint64(k))
	}
	var out *Length
	for _, f := range strings.Split(key, factorSep) {
		name, owner := SplitVarKey(f)
		n := Named(name, owner)
		if out == nil {
			out = &n
			continue
		}
		prod := Binary(OpMul, *out, n)
		out = &prod
	}
	if k != 1 {
		prod := Binary(OpMul, *out, Lit(uint64(k)))
		out = &prod
	}
	return *out
}
