package timer

import (
	"testing"
	"time"
)

// fakeClock lets tests advance wall-clock time manually.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newFakeTimer() (*Timer, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)}
	tm := New()
	tm.now = clock.now
	return tm, clock
}

func TestTimerStartsAtZero(t *testing.T) {
	tm, _ := newFakeTimer()
	if tm.Elapsed() != 0 {
		t.Errorf("elapsed = %v, want 0", tm.Elapsed())
	}
	if tm.Running() {
		t.Error("fresh timer must not be running")
	}
}

func TestTimerElapsedTracksWallClock(t *testing.T) {
	tm, clock := newFakeTimer()
	tm.Start()
	clock.advance(3 * time.Second)

	if got := tm.Elapsed(); got != 3*time.Second {
		t.Errorf("elapsed = %v, want 3s", got)
	}
	if !tm.Running() {
		t.Error("timer should be running")
	}
}

// TestTimerPauseResumeContinuity is the continuity property: 3s running,
// pause, resume, 2s more running yields 5s total — not a fresh 2s.
func TestTimerPauseResumeContinuity(t *testing.T) {
	tm, clock := newFakeTimer()

	tm.Start()
	clock.advance(3 * time.Second)
	tm.Pause()

	// Wall time passing while paused must not count.
	clock.advance(10 * time.Second)
	if got := tm.Elapsed(); got != 3*time.Second {
		t.Fatalf("elapsed while paused = %v, want 3s", got)
	}

	tm.Start()
	clock.advance(2 * time.Second)
	if got := tm.Elapsed(); got != 5*time.Second {
		t.Errorf("elapsed after resume = %v, want 5s", got)
	}
}

func TestTimerReset(t *testing.T) {
	tm, clock := newFakeTimer()
	tm.Start()
	clock.advance(42 * time.Second)
	tm.Reset()

	if tm.Elapsed() != 0 {
		t.Errorf("elapsed after reset = %v, want 0", tm.Elapsed())
	}
	if tm.Running() {
		t.Error("timer must stop on reset")
	}
}

func TestTimerToggle(t *testing.T) {
	tm, clock := newFakeTimer()
	tm.Toggle()
	if !tm.Running() {
		t.Error("toggle from stopped should start")
	}
	clock.advance(time.Second)
	tm.Toggle()
	if tm.Running() {
		t.Error("toggle from running should pause")
	}
	if tm.Elapsed() != time.Second {
		t.Errorf("elapsed = %v, want 1s", tm.Elapsed())
	}
}

func TestTimerStartWhileRunning(t *testing.T) {
	tm, clock := newFakeTimer()
	tm.Start()
	clock.advance(2 * time.Second)
	tm.Start() // no-op, must not reset the anchor

	if got := tm.Elapsed(); got != 2*time.Second {
		t.Errorf("elapsed = %v, want 2s", got)
	}
}

// TestTimerRestore verifies restoring a persisted elapsed time and resuming
// from it.
func TestTimerRestore(t *testing.T) {
	tm, clock := newFakeTimer()
	tm.Restore(95 * time.Second)

	if got := tm.Elapsed(); got != 95*time.Second {
		t.Fatalf("elapsed after restore = %v, want 95s", got)
	}

	tm.Start()
	clock.advance(5 * time.Second)
	if got := tm.Elapsed(); got != 100*time.Second {
		t.Errorf("elapsed after resume = %v, want 100s", got)
	}

	// Restore while running must not disturb the count.
	tm.Restore(time.Second)
	if got := tm.Elapsed(); got != 100*time.Second {
		t.Errorf("elapsed after restore-while-running = %v, want 100s", got)
	}
}

// TestTimerOnTick verifies the tick callback fires while running and stops
// after pause.
func TestTimerOnTick(t *testing.T) {
	tm := New()
	ticks := make(chan time.Duration, 8)
	tm.OnTick = func(d time.Duration) { ticks <- d }

	tm.Start()
	select {
	case <-ticks:
	case <-time.After(3 * time.Second):
		t.Fatal("no tick within 3s")
	}
	tm.Pause()
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Second, "00:01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
	}
	for _, tc := range cases {
		if got := FormatElapsed(tc.d); got != tc.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
