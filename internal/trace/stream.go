package trace

import (
	"io"
	"os"
	"sync"
	"time"
)

// StreamTracer writes events immediately to an io.Writer.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	start  time.Time
	depth  map[uint64]int // глубина открытых спанов для отступов
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		w:      w,
		level:  level,
		format: format,
		start:  time.Now(),
		depth:  make(map[uint64]int),
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	depth := 0
	if ev.ParentID != 0 {
		depth = t.depth[ev.ParentID] + 1
	}
	switch ev.Kind {
	case KindSpanBegin:
		t.depth[ev.SpanID] = depth
	case KindSpanEnd:
		delete(t.depth, ev.SpanID)
	}
	// ошибки записи трассы не должны ронять проверку
	_, _ = t.w.Write(FormatEvent(ev, t.format, t.start, depth)) //nolint:errcheck
}

func (t *StreamTracer) Flush() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer unless it is stdout or stderr.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
