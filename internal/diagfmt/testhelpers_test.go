package diagfmt

import (
	"testing"

	"circa/internal/diag"
	"circa/internal/source"
)

type fixture struct {
	fs   *source.FileSet
	file source.FileID
	bag  *diag.Bag
}

func newFixture(t *testing.T, src string) fixture {
	t.Helper()
	fs := source.NewFileSetWithBase("/p")
	id := fs.Add("/p/src/main.circ", []byte(src))
	return fixture{fs: fs, file: id, bag: diag.NewBag()}
}

func (f fixture) span(start, end uint32) source.Span {
	return source.Span{File: f.file, Start: start, End: end}
}

func (f fixture) add(code diag.Code, sp source.Span, msg string, notes ...diag.Note) {
	f.bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg, Primary: sp, Notes: notes})
}
