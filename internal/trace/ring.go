package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the last events of a run in memory. A long check with
// --trace-mode=ring costs a fixed amount of memory and still shows how the
// run ended.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	total  uint64 // events ever stored; the next slot is total % len(events)
	level  Level
}

// NewRingTracer keeps up to capacity events; capacity <= 0 means 4096.
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
	stored := *ev
	stored.Seq = nextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.total%uint64(len(t.events))] = stored
	t.total++
}

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.events))
	if t.total <= size {
		return append([]Event(nil), t.events[:t.total]...)
	}
	head := t.total % size
	out := make([]Event, 0, size)
	out = append(out, t.events[head:]...)
	return append(out, t.events[:head]...)
}

// Dropped is the number of events overwritten by newer ones.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - min(t.total, uint64(len(t.events)))
}

// Dump writes the kept events in format. Text output starts with a line
// saying how many earlier events were dropped, if any.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if dropped := t.Dropped(); dropped > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "... %d earlier events dropped\n", dropped); err != nil {
			return err
		}
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
