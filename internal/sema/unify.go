package sema

import (
	"circa/internal/source"
	"circa/internal/types"
)

// pendingLength is a length constraint with more than one free generic; it
// is retried once other evidence has bound some of them.
type pendingLength struct {
	pattern, actual types.Length
	span            source.Span
	source          bindingSource
	patternExpected bool
	tag             int
}

// unifier matches signature-side types (patterns, which may mention the free
// generics of one call site) against concrete types and records what it
// learns in the call site's Binding.
//
// patternExpected tells on which side of "expected … found" the pattern is:
// parameters are expected, a return type compared with the expected type of
// its context is found. An Unknown length on the expected side matches
// anything; on the found side it is a mismatch against a known length.
type unifier struct {
	b       *Binding
	pending []pendingLength
	// violation is set when a match failed because a generic would leave
	// its declared range
	violation *rangeViolation

	span            source.Span
	source          bindingSource
	patternExpected bool
	tag             int
}

// rangeViolation is a solution for a numeric generic that does not fit it.
type rangeViolation struct {
	name  string
	value int64
	span  source.Span
}

func newUnifier(b *Binding) *unifier {
	return &unifier{b: b}
}

// match unifies pattern with actual. tag is reported back by settle when a
// deferred constraint fails.
func (u *unifier) match(pattern, actual types.Type, span source.Span, src bindingSource, patternExpected bool, tag int) bool {
	u.span, u.source, u.patternExpected, u.tag = span, src, patternExpected, tag
	return u.unify(pattern, actual)
}

func (u *unifier) unify(pattern, actual types.Type) bool {
	p := u.b.apply(pattern)
	if p.HasUnresolved() || actual.HasUnresolved() {
		return true
	}
	if p.Kind == types.KindGeneric && p.Owner == u.b.owner {
		u.b.bindType(p.Name, actual, u.span, u.source)
		return true
	}
	switch p.Kind {
	case types.KindArray:
		if actual.Kind != types.KindArray {
			return false
		}
		if !u.unify(*p.Elem, *actual.Elem) {
			return false
		}
		return u.unifyLength(p.Len, actual.Len)
	default:
		return types.Equal(p, actual)
	}
}

// settle retries deferred constraints until no more progress is made. A
// constraint that still cannot be solved is dropped: it is neither proven
// nor refuted by the evidence at hand.
func (u *unifier) settle() (bool, int) {
	for len(u.pending) > 0 {
		work := u.pending
		u.pending = nil
		progress := false
		for _, pl := range work {
			before := len(u.pending)
			u.span, u.source, u.patternExpected, u.tag = pl.span, pl.source, pl.patternExpected, pl.tag
			if !u.unifyLength(pl.pattern, pl.actual) {
				return false, pl.tag
			}
			if len(u.pending) == before {
				progress = true
			}
		}
		if !progress {
			u.pending = nil
		}
	}
	return true, 0
}
