package memory

import (
	"context"
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

func TestAttemptStoreListAndStats(t *testing.T) {
	store := NewAttemptStore()
	ctx := context.Background()

	for _, percent := range []int{40, 80, 90} {
		_, err := store.Append(ctx, domain.AttemptRecord{
			UserID:       "u1",
			QuizID:       "quiz-1",
			PercentScore: percent,
			Timestamp:    time.Now(),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	attempts, err := store.ListByUser(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 2 || attempts[0].PercentScore != 90 {
		t.Fatalf("expected newest-first limited list, got %+v", attempts)
	}

	stats, err := store.StatsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAttempts != 3 || stats.BestPercent != 90 || stats.AveragePercent != 70 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAttemptStatsEmptyUser(t *testing.T) {
	store := NewAttemptStore()
	stats, err := store.StatsByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAttempts != 0 || stats.AveragePercent != 0 || stats.BestPercent != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
