package backend

import (
	"context"
	"time"
)

// throttle keeps bar reloads at least interval apart. Only the watcher
// goroutine calls it, so it carries no lock.
type throttle struct {
	interval time.Duration
	last     time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval < 0 {
		interval = 0
	}
	return &throttle{interval: interval}
}

// wait blocks until the next reload may run. It reports false once ctx is
// done, in which case the reload must be abandoned.
func (t *throttle) wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if t == nil || t.interval <= 0 {
		return true
	}
	if !t.last.IsZero() {
		if remaining := t.interval - time.Since(t.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return false
			case <-timer.C:
			}
		}
	}
	t.last = time.Now()
	return true
}
