package fuzztests

import (
	"testing"

	"circa/internal/diag"
	"circa/internal/lexer"
	"circa/internal/source"
	"circa/internal/testkit"
	"circa/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.Add("fuzz.circ", input))

		bag := diag.NewBag()
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF")
		}
		var prev uint32
		for _, tok := range toks {
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %v has span %v after offset %d", tok.Kind, tok.Span, prev)
			}
			prev = tok.Span.End
		}
		if err := testkit.CheckDiagnosticSpans(bag, fs); err != nil {
			t.Fatal(err)
		}
	})
}
