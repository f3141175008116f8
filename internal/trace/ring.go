package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory so a crash or a hang can be
// explained after the fact (`--trace-mode ring`).
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	head   int  // next write position
	full   bool // has wrapped around
	level  Level
}

// NewRingTracer creates a ring with room for capacity events (default 4096).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{
		events: make([]Event, capacity),
		level:  level,
	}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
// Heartbeats are always kept.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events[t.head] = *ev
	t.head++
	if t.head == len(t.events) {
		t.head = 0
		t.full = true
	}
}

// Len returns the number of stored events.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full {
		return len(t.events)
	}
	return t.head
}

// Snapshot returns a copy of all stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes all stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool {
	return t.level > LevelOff
}

// FindRing returns the ring buffer behind t, looking through MultiTracer.
func FindRing(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		for _, child := range tr.tracers {
			if r := FindRing(child); r != nil {
				return r
			}
		}
	}
	return nil
}

// DumpRing writes the last events of t's ring buffer to w under a header.
// It does nothing when t keeps no ring.
func DumpRing(t Tracer, w io.Writer, reason string) error {
	r := FindRing(t)
	if r == nil || r.Len() == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "--- trace: last %d events (%s) ---\n", r.Len(), reason); err != nil {
		return err
	}
	return r.Dump(w, FormatText)
}
