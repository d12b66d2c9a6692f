package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "3 files")
	done := tm.Track("classify")
	done("")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "load" || r.Phases[0].DurationMS != 2 || r.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected load phase %+v", r.Phases[0])
	}
	if r.TotalMS != 4 {
		t.Fatalf("total = %v, want 4", r.TotalMS)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "// 3 files") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestTimerIgnoresBadIndexAndNil(t *testing.T) {
	tm := NewTimer()
	tm.End(5, "x")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("bad index must be ignored")
	}
	var nilTimer *Timer
	nilTimer.Track("x")("")
	if nilTimer.Report().TotalMS != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
