package sema

import (
	"circa/internal/diag"
	"circa/internal/symbols"
)

// CheckAttributes reports every low-level function declared in a module that
// is not under the trusted root. The diagnostic is anchored at the attribute
// name; functions are visited in declaration order.
func CheckAttributes(table *symbols.Table, opts Options) {
	if table == nil {
		return
	}
	reporter := opts.reporter()
	for _, id := range table.Functions() {
		sym := table.Symbol(id)
		if sym.Flags&symbols.SymbolFlagLowLevel == 0 {
			continue
		}
		if table.Module(sym.Module).IsStdlibRoot {
			continue
		}
		fn, builder := table.FunctionItem(id)
		attr := builder.Items.GetAttr(fn)
		if attr == nil {
			continue
		}
		diag.ReportError(reporter, diag.SemaLowLevelOutsideStd, attr.NameSpan,
			"definition of low-level function outside of standard library").
			Emit()
	}
}
