package memory

import (
	"context"
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

func TestProgressRoundTripWithinWindow(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	now := base
	store := NewProgressStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := store.Save(ctx, "u1", "quiz-1", domain.Progress{TimeRemainingSeconds: 777, SavedAt: base}); err != nil {
		t.Fatalf("save: %v", err)
	}

	now = base.Add(299 * time.Second)
	p, ok, err := store.Load(ctx, "u1", "quiz-1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if p.TimeRemainingSeconds != 777 {
		t.Fatalf("expected 777 seconds restored, got %d", p.TimeRemainingSeconds)
	}
}

func TestProgressStaleEntryClearedOnLoad(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	now := base
	store := NewProgressStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	_ = store.Save(ctx, "u1", "quiz-1", domain.Progress{TimeRemainingSeconds: 777, SavedAt: base})

	now = base.Add(301 * time.Second)
	if _, ok, _ := store.Load(ctx, "u1", "quiz-1"); ok {
		t.Fatal("expected stale entry to read as absent")
	}

	// The stale entry must have been cleared, not just hidden.
	now = base
	if _, ok, _ := store.Load(ctx, "u1", "quiz-1"); ok {
		t.Fatal("expected stale entry to be cleared as a side effect")
	}
}

func TestProgressEntriesScopedPerUser(t *testing.T) {
	store := NewProgressStore()
	ctx := context.Background()

	_ = store.Save(ctx, "u1", "quiz-1", domain.Progress{TimeRemainingSeconds: 111, SavedAt: time.Now()})
	_ = store.Save(ctx, "u2", "quiz-1", domain.Progress{TimeRemainingSeconds: 222, SavedAt: time.Now()})

	if p, ok, _ := store.Load(ctx, "u1", "quiz-1"); !ok || p.TimeRemainingSeconds != 111 {
		t.Fatalf("u1 entry: ok=%v p=%+v", ok, p)
	}

	if err := store.Clear(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if p, ok, _ := store.Load(ctx, "u2", "quiz-1"); !ok || p.TimeRemainingSeconds != 222 {
		t.Fatalf("clearing u1 must not touch u2: ok=%v p=%+v", ok, p)
	}
}

func TestProgressClear(t *testing.T) {
	store := NewProgressStore()
	ctx := context.Background()
	_ = store.Save(ctx, "u1", "quiz-1", domain.Progress{TimeRemainingSeconds: 60, SavedAt: time.Now()})
	if err := store.Clear(ctx, "u1", "quiz-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "u1", "quiz-1"); ok {
		t.Fatal("expected entry gone after clear")
	}
}
