package sema

import (
	"circa/internal/types"
)

// unifyLength matches a pattern length against an actual one.
//
//	literal vs literal          must be equal
//	free generic                binds to the actual length
//	bound generic               already substituted; must agree
//	N ± c, N * c, c ± N, c * N  solved for N when the solution is an integer
//	                            and, if constant, within N's declared type
func (u *unifier) unifyLength(pattern, actual types.Length) bool {
	p := pattern.Subst(func(name, owner string) (types.Length, bool) {
		if owner != u.b.owner {
			return types.Length{}, false
		}
		v, ok := u.b.lens[name]
		return v.value, ok
	})

	switch {
	case p.HasUnknown():
		if u.patternExpected {
			return true
		}
		return actual.HasUnknown()
	case actual.HasUnknown():
		if !u.patternExpected {
			// ожидаемая длина неизвестна: сведений нет
			return true
		}
		free := u.freeVars(p)
		if len(free) == 0 {
			return false
		}
		// неизвестная длина аргумента уже была сообщена; связываем молча
		for _, name := range free {
			u.b.bindLength(name, types.Unknown(), u.span, u.source)
		}
		return true
	}

	pp, ok := p.Poly()
	if !ok {
		return true
	}
	ap, ok := actual.Poly()
	if !ok {
		return true
	}

	var siteVars []string
	for _, v := range pp.Vars() {
		if _, owner := types.SplitVarKey(v); owner == u.b.owner {
			siteVars = append(siteVars, v)
		}
	}
	switch len(siteVars) {
	case 0:
		return pp.Equal(ap)
	case 1:
		return u.solve(siteVars[0], pp, ap, pattern, actual)
	default:
		u.postpone(pattern, actual)
		return true
	}
}

// solve finds v from k*v + rest = actual.
func (u *unifier) solve(v string, pp, ap types.Poly, pattern, actual types.Length) bool {
	k, rest, ok := pp.Linear(v)
	if !ok || k == 0 {
		u.postpone(pattern, actual)
		return true
	}
	diff, ok := ap.Sub(rest)
	if !ok {
		return true
	}
	sol, ok := diff.DivExact(k)
	if !ok {
		return false
	}
	name, _ := types.SplitVarKey(v)
	if c, isConst := sol.Const(); isConst {
		if c < 0 {
			return false
		}
		if uint64(c) > u.b.limit(name) {
			u.violation = &rangeViolation{name: name, value: c, span: u.span}
			return false
		}
	}
	u.b.bindLength(name, sol.Length(), u.span, u.source)
	return true
}

func (u *unifier) postpone(pattern, actual types.Length) {
	u.pending = append(u.pending, pendingLength{
		pattern:         pattern,
		actual:          actual,
		span:            u.span,
		source:          u.source,
		patternExpected: u.patternExpected,
		tag:             u.tag,
	})
}

func (u *unifier) freeVars(l types.Length) []string {
	var out []string
	seen := map[string]bool{}
	l.Walk(func(name, owner string) {
		if owner != u.b.owner || seen[name] {
			return
		}
		if _, bound := u.b.lens[name]; bound {
			return
		}
		seen[name] = true
		out = append(out, name)
	})
	return out
}
