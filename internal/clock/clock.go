// Package clock provides the wall-clock countdown driving quiz sessions.
package clock

import (
	"sync"
	"time"
)

// Countdown is a cancellable once-per-second countdown. Implementations must
// guarantee a single running timer per handle: Start while running first
// stops the previous run, Stop is idempotent, and onExpire fires exactly once
// when the count reaches zero.
type Countdown interface {
	Start(initialSeconds int, onTick func(remaining int), onExpire func())
	Stop()
}

// Ticker is the production Countdown backed by a time.Ticker goroutine.
type Ticker struct {
	// Interval overrides the tick period; zero means one second. Tests use a
	// short interval to avoid real-time waits.
	Interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewTicker returns a countdown ticking once per second.
func NewTicker() *Ticker {
	return &Ticker{}
}

func (t *Ticker) Start(initialSeconds int, onTick func(remaining int), onExpire func()) {
	t.mu.Lock()
	if t.stop != nil {
		close(t.stop)
	}
	stop := make(chan struct{})
	t.stop = stop
	interval := t.Interval
	if interval <= 0 {
		interval = time.Second
	}
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		remaining := initialSeconds
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				remaining--
				if remaining > 0 {
					onTick(remaining)
					continue
				}
				onTick(0)
				t.mu.Lock()
				if t.stop == stop {
					t.stop = nil
				}
				t.mu.Unlock()
				onExpire()
				return
			}
		}
	}()
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}
