package scheduler

import (
	"sync"
	"time"
)

// watchdog tracks a "no new solution" window that doubles (capped at max)
// every time it fires without having seen progress, rather than staying
// fixed, so a long plateau in a hard search doesn't spin-check every few
// seconds forever.
type watchdog struct {
	mu       sync.Mutex
	initial  time.Duration
	max      time.Duration
	window   time.Duration
	lastSeen time.Time
}

func newWatchdog(initial, max time.Duration) *watchdog {
	return &watchdog{initial: initial, max: max, window: initial, lastSeen: time.Now()}
}

// Progress resets the backoff window to its initial value: a new solution
// (or minimized improvement) arrived.
func (d *watchdog) Progress() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.window = d.initial
	d.lastSeen = time.Now()
}

// Check reports whether more than the current window has elapsed since
// the last Progress call; if so, it doubles the window (capped at max)
// before returning true, so the caller's next wait is longer.
func (d *watchdog) Check(now time.Time) (fired bool, window time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if now.Sub(d.lastSeen) < d.window {
		return false, d.window
	}
	d.lastSeen = now
	window = d.window
	d.window *= 2
	if d.window > d.max {
		d.window = d.max
	}
	return true, window
}
