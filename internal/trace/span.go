package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// nextSeq orders events across goroutines; tracers stamp it on Emit.
func nextSeq() uint64 { return seqCounter.Add(1) }

// getGoroutineID parses the id out of the "goroutine N [running]:" header
// of the current stack. It returns 0 if the header looks different.
func getGoroutineID() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	header, ok := bytes.CutPrefix(header, []byte("goroutine "))
	if !ok {
		return 0
	}
	id, _, _ := bytes.Cut(header, []byte{' '})
	gid, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is one traced operation: the command, a phase, a file. The zero
// cost path is a Span over Nop, which every method accepts.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// begin emits the begin event, or returns a Nop span when t filters scope.
func begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		gid:     getGoroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
}

// End emits the end event with detail and the span's extras plus its
// duration under "dur", and returns the duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || !Enabled(s.tracer) {
		return 0
	}
	now := time.Now()
	dur := now.Sub(s.started)
	ev := s.event(KindSpanEnd, now, detail)
	ev.Extra = s.extra
	if ev.Extra == nil {
		ev.Extra = make(map[string]string, 1)
	}
	ev.Extra["dur"] = dur.Round(time.Microsecond).String()
	s.tracer.Emit(ev)
	return dur
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || !Enabled(s.tracer) {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for spans the tracer filtered out.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
