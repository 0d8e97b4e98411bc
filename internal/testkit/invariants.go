// Package testkit holds structural checks shared by parser tests and the
// fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
)

// CheckSpanInvariants runs the span invariants of a parsed file:
// 1) file.Span points at sf and ends within its content
// 2) every item span, nested module items included, lies inside its parent
// 3) no item span is inverted
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}
	return checkItems(b, f.Items, f.Span, sf.ID)
}

func checkItems(b *ast.Builder, items []ast.ItemID, parent source.Span, file source.FileID) error {
	for _, it := range items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.End < sp.Start {
			return fmt.Errorf("inverted item span: %v", sp)
		}
		if sp.File != file {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, file)
		}
		if !parent.Contains(sp) {
			return fmt.Errorf("item span %v is outside parent span %v", sp, parent)
		}
		if mod, ok := b.Items.Mod(it); ok {
			if err := checkItems(b, mod.Items, sp, file); err != nil {
				return fmt.Errorf("in module %s: %w", b.Name(mod.Name), err)
			}
		}
	}
	return nil
}

// CheckDiagnosticSpans verifies that every primary and note span of bag
// resolves to a loaded file and stays within its content.
func CheckDiagnosticSpans(bag *diag.Bag, fs *source.FileSet) error {
	check := func(sp source.Span, what string) error {
		if !fs.Has(sp.File) {
			return fmt.Errorf("%s span %v: unknown file", what, sp)
		}
		n, err := safecast.Conv[uint32](len(fs.Get(sp.File).Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		if sp.End < sp.Start || sp.End > n {
			return fmt.Errorf("%s span %v outside [0, %d]", what, sp, n)
		}
		return nil
	}
	for _, d := range bag.Items() {
		if err := check(d.Primary, d.Code.ID()); err != nil {
			return err
		}
		for _, note := range d.Notes {
			if err := check(note.Span, d.Code.ID()+" note"); err != nil {
				return err
			}
		}
	}
	return nil
}
