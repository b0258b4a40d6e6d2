package redis

import (
	"context"
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

func TestHighScoreRoundTrip(t *testing.T) {
	mr, client := newClient(t)
	defer mr.Close()

	store := NewHighScoreStore(client)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "quiz-1"); ok || err != nil {
		t.Fatalf("expected absent record, got ok=%v err=%v", ok, err)
	}

	achieved := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	err := store.Put(ctx, domain.HighScoreRecord{
		QuizID:     "quiz-1",
		Score:      650,
		HolderName: "Alice",
		AchievedAt: achieved,
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	record, ok, err := store.Get(ctx, "quiz-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if record.Score != 650 || record.HolderName != "Alice" || !record.AchievedAt.Equal(achieved) {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestLastAttemptSideRecord(t *testing.T) {
	mr, client := newClient(t)
	defer mr.Close()

	store := NewHighScoreStore(client)
	if err := store.PutLastAttempt(context.Background(), "quiz-1", 300, "Bob"); err != nil {
		t.Fatalf("put last attempt: %v", err)
	}
	if !mr.Exists("quiz:lastattempt:quiz-1") {
		t.Fatal("expected audit key to be set")
	}
}
