package diag

import "circa/internal/source"

// Reporter is how a phase hands over its diagnostics.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportBuilder collects the notes of one error until Emit.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// ReportError starts an error; nothing reaches r before Emit.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: Diagnostic{Severity: SevError, Code: code, Message: msg, Primary: primary}}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	b.d.Notes = append(b.d.Notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit is idempotent.
func (b *ReportBuilder) Emit() {
	if b.sent || b.to == nil {
		return
	}
	b.sent = true
	b.to.Report(b.d.Code, b.d.Severity, b.d.Primary, b.d.Message, b.d.Notes)
}

// BagReporter appends to Bag; a nil Bag drops everything.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}

type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}
