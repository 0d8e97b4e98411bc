package sema

import (
	"fmt"

	"circa/internal/diag"
	"circa/internal/symbols"
)

// CheckBodies reports ordinary functions declared without a body. Low-level
// functions may omit it, and signatures cut short by a syntax error have
// already been reported by the parser.
func CheckBodies(table *symbols.Table, opts Options) {
	if table == nil {
		return
	}
	reporter := opts.reporter()
	for _, id := range table.Functions() {
		fn, builder := table.FunctionItem(id)
		if fn == nil || fn.HasBody || fn.Malformed || fn.Attr.IsValid() {
			continue
		}
		diag.ReportError(reporter, diag.SemaMissingBody, fn.NameSpan,
			fmt.Sprintf("function `%s` has no body", builder.Name(fn.Name))).
			Emit()
	}
}
