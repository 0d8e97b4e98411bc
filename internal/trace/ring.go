package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events in memory; Dump writes them out after a
// failed run.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	head   int
	full   bool
	level  Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.head] = *ev
	t.head = (t.head + 1) % len(t.events)
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		out := make([]Event, t.head)
		copy(out, t.events[:t.head])
		return out
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the snapshot in format. Indentation follows parent links that
// are still inside the buffer.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if len(events) == 0 {
		return nil
	}
	start := events[0].Time
	depth := make(map[uint64]int)
	for i := range events {
		ev := &events[i]
		d := 0
		if pd, ok := depth[ev.ParentID]; ok && ev.ParentID != 0 {
			d = pd + 1
		}
		if ev.Kind == KindSpanBegin {
			depth[ev.SpanID] = d
		}
		if _, err := w.Write(FormatEvent(ev, format, start, d)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
