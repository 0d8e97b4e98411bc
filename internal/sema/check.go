package sema

import (
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/symbols"
	"circa/internal/types"
)

// Options configure a semantic pass.
type Options struct {
	Reporter diag.Reporter
}

func (o Options) reporter() diag.Reporter {
	if o.Reporter == nil {
		return diag.NopReporter{}
	}
	return o.Reporter
}

// CallInfo records how one call site was resolved.
type CallInfo struct {
	Caller symbols.SymbolID
	Callee symbols.SymbolID
	Span   source.Span
	// Bindings maps each generic of the callee to its inferred value, rendered
	// as source text. Generics that stayed unbound are absent.
	Bindings map[string]string
	Result   types.Type
}

// Result stores semantic artefacts produced by the unifier.
type Result struct {
	Signatures map[symbols.SymbolID]*Signature
	// Calls lists resolved call sites in the order they were checked.
	Calls []CallInfo
}

// Check runs attrs, bodies and unify in order with a single reporter.
func Check(table *symbols.Table, opts Options) *Result {
	CheckAttributes(table, opts)
	CheckBodies(table, opts)
	return Unify(table, opts)
}
