package clock

import (
	"sync"
	"testing"
	"time"
)

func TestTickerCountsDownAndExpiresOnce(t *testing.T) {
	ticker := &Ticker{Interval: 5 * time.Millisecond}

	var mu sync.Mutex
	var ticks []int
	expired := 0
	done := make(chan struct{})

	ticker.Start(3,
		func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func() {
			mu.Lock()
			expired++
			mu.Unlock()
			close(done)
		})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not expire")
	}
	// Calling Stop after expiry must be safe.
	ticker.Stop()
	ticker.Stop()

	mu.Lock()
	defer mu.Unlock()
	if expired != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expired)
	}
	want := []int{2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", ticks, want)
		}
	}
}

func TestStartReplacesRunningCountdown(t *testing.T) {
	ticker := &Ticker{Interval: 5 * time.Millisecond}

	firstExpired := make(chan struct{}, 1)
	ticker.Start(1000, func(int) {}, func() { firstExpired <- struct{}{} })

	done := make(chan struct{})
	ticker.Start(2, func(int) {}, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("replacement countdown did not expire")
	}
	select {
	case <-firstExpired:
		t.Fatal("replaced countdown should never expire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopPreventsExpiry(t *testing.T) {
	ticker := &Ticker{Interval: 5 * time.Millisecond}
	expired := make(chan struct{}, 1)
	ticker.Start(2, func(int) {}, func() { expired <- struct{}{} })
	ticker.Stop()

	select {
	case <-expired:
		t.Fatal("stopped countdown must not expire")
	case <-time.After(60 * time.Millisecond):
	}
}
