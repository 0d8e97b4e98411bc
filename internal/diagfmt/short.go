package diagfmt

import (
	"fmt"
	"io"

	"circa/internal/diag"
	"circa/internal/source"
)

// Short prints one line per diagnostic: `error CODE path:line:col message`.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, maxItems int, withNotes bool) {
	items := bag.Items()
	n := limit(len(items), maxItems)
	if out := diag.FormatShortDiagnostics(items[:n], fs, withNotes); out != "" {
		fmt.Fprintln(w, out)
	}
	if rest := len(items) - n; rest > 0 {
		fmt.Fprintf(w, "... and %d more %s\n", rest, pluralize(rest, "diagnostic", "diagnostics"))
	}
}
