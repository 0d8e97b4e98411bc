package fuzztests

import (
	"context"
	"testing"

	"circa/internal/driver"
	"circa/internal/testkit"
)

// FuzzCheckSources runs the whole checker over one untrusted file next to a
// fixed stdlib.
func FuzzCheckSources(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		res, err := driver.CheckSources(context.Background(), map[string]string{
			"std/lib.circ":  nativeDecl,
			"src/main.circ": string(input),
		}, driver.Options{Jobs: 2})
		if err != nil {
			t.Fatal(err)
		}
		if err := testkit.CheckDiagnosticSpans(res.Bag, res.FileSet); err != nil {
			t.Fatal(err)
		}
	})
}
