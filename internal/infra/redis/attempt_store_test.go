package redis

import (
	"context"
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

func TestAttemptAppendAndList(t *testing.T) {
	mr, client := newClient(t)
	defer mr.Close()

	store := NewAttemptStore(client)
	ctx := context.Background()

	for _, percent := range []int{50, 70, 90} {
		id, err := store.Append(ctx, domain.AttemptRecord{
			UserID:       "u1",
			QuizID:       "quiz-1",
			PercentScore: percent,
			Timestamp:    time.Now().UTC(),
		})
		if err != nil || id == "" {
			t.Fatalf("append: id=%q err=%v", id, err)
		}
	}

	attempts, err := store.ListByUser(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 2 || attempts[0].PercentScore != 90 || attempts[1].PercentScore != 70 {
		t.Fatalf("expected newest-first [90 70], got %+v", attempts)
	}

	stats, err := store.StatsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAttempts != 3 || stats.BestPercent != 90 || stats.AveragePercent != 70 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
