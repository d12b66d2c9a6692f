package trace

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StatusFunc describes the work done so far, e.g. "files 3/10".
type StatusFunc func() string

// Heartbeat emits a driver-scope event at a fixed interval while a check
// runs. Heartbeats that keep coming without file spans ending point at a
// stuck file; the status says how far the run got.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts beating under the span carried by ctx. It returns
// nil when tracing is off or interval is not positive; Stop accepts nil.
func StartHeartbeat(ctx context.Context, interval time.Duration, status StatusFunc) *Heartbeat {
	t := FromContext(ctx)
	if !Enabled(t) || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(ctx, t, interval, status)
	return h
}

func (h *Heartbeat) run(ctx context.Context, t Tracer, interval time.Duration, status StatusFunc) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	parent := parentSpan(ctx)
	var beats uint64
	for {
		select {
		case <-ticker.C:
			beats++
			detail := fmt.Sprintf("#%d", beats)
			if status != nil {
				if s := status(); s != "" {
					detail += " " + s
				}
			}
			t.Emit(&Event{
				Time:     time.Now(),
				Kind:     KindHeartbeat,
				Scope:    ScopeDriver,
				ParentID: parent,
				GID:      getGoroutineID(),
				Name:     "heartbeat",
				Detail:   detail,
			})
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine. It is safe to call
// more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
