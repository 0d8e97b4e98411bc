package diag

import "sync"

// Bag collects diagnostics in record order. It never drops an entry; display
// limits belong to renderers. Add is safe for concurrent use.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.mu.Lock()
	b.items = append(b.items, d)
	b.mu.Unlock()
}

// HasErrors возвращает true, если есть хотя бы одна диагностика.
func (b *Bag) HasErrors() bool {
	return b.Len() > 0
}

// длина
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items возвращает копию диагностик в порядке добавления.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Merge appends every diagnostic of other after the existing ones.
func (b *Bag) Merge(other *Bag) {
	if other == nil || other == b {
		return
	}
	items := other.Items()
	b.mu.Lock()
	b.items = append(b.items, items...)
	b.mu.Unlock()
}

// Report is the frozen result of a pass.
type Report struct {
	Items []Diagnostic
	Count int
}

// Failed reports whether the pass produced any diagnostic.
func (r Report) Failed() bool { return r.Count > 0 }

// Finish snapshots the bag into a Report, preserving record order.
func (b *Bag) Finish() Report {
	items := b.Items()
	return Report{Items: items, Count: len(items)}
}
