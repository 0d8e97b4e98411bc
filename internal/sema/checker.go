package sema

import (
	"fmt"

	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/symbols"
)

// checker is shared by every function checked in one Unify run.
type checker struct {
	table    *symbols.Table
	reporter diag.Reporter
	result   *Result
	sites    int
}

// Unify lowers every signature, then type-checks every function body and
// infers the generics of each call site. Low-level functions are opaque:
// only their signatures are used.
func Unify(table *symbols.Table, opts Options) *Result {
	c := &checker{
		table:    table,
		reporter: opts.reporter(),
		result:   &Result{Signatures: make(map[symbols.SymbolID]*Signature)},
	}
	if table == nil {
		return c.result
	}
	fns := table.Functions()
	for _, id := range fns {
		c.lowerSignature(id)
	}
	for _, id := range fns {
		c.checkFunction(id)
	}
	return c.result
}

func (c *checker) report(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportError(c.reporter, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (c *checker) newSite(sig *Signature) string {
	c.sites++
	return fmt.Sprintf("%s@%d", sig.Owner, c.sites)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
