// Package timer provides the wall-clock-anchored elapsed counter shown next
// to an active workout. It is a session affordance, started and stopped by
// the caller in tandem with the editor's start/end.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// tickInterval is how often OnTick fires while running.
const tickInterval = time.Second

// Timer counts elapsed wall-clock time with pause/resume. Elapsed time is
// re-derived from wall-clock deltas rather than counted ticks, so it stays
// correct even when ticks are delayed or suspended.
type Timer struct {
	mu      sync.Mutex
	anchor  time.Time     // start instant, adjusted on resume
	frozen  time.Duration // elapsed at the moment of pause
	running bool
	stop    chan struct{}

	now func() time.Time

	// OnTick, if set before Start, is called roughly once per second with the
	// current elapsed time while the timer runs.
	OnTick func(time.Duration)
}

// New returns a stopped timer at zero.
func New() *Timer {
	return &Timer{now: time.Now}
}

// Start begins or resumes counting. Resuming recomputes the anchor as
// now minus the frozen elapsed time, so elapsed is continuous across
// pause/resume.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}

	t.anchor = t.now().Add(-t.frozen)
	t.frozen = 0
	t.running = true

	if t.OnTick != nil {
		t.stop = make(chan struct{})
		go t.tick(t.stop)
	}
}

// Pause freezes the elapsed time, resumable by Start.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}

	t.frozen = t.now().Sub(t.anchor)
	t.running = false
	t.stopTickLocked()
}

// Reset returns to stopped at zero and cancels any pending tick.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.anchor = time.Time{}
	t.frozen = 0
	t.running = false
	t.stopTickLocked()
}

// Restore sets the elapsed time of a stopped timer, used when resuming a
// persisted session. A no-op while running.
func (t *Timer) Restore(elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.frozen = elapsed
}

// Toggle pauses a running timer and starts a stopped one.
func (t *Timer) Toggle() {
	t.mu.Lock()
	running := t.running
	t.mu.Unlock()

	if running {
		t.Pause()
	} else {
		t.Start()
	}
}

// Elapsed returns the current elapsed time.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return t.now().Sub(t.anchor)
	}
	return t.frozen
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timer) tick(stop chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.OnTick(t.Elapsed())
		}
	}
}

// stopTickLocked cancels the tick goroutine; callers must hold t.mu.
func (t *Timer) stopTickLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// FormatElapsed renders a duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
