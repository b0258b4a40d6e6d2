package memory

import (
	"context"
	"sync"
	"time"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// ProgressStore is an in-process implementation of app.ProgressStore. It
// backs tests and the no-redis wiring; it does not survive process restart.
type ProgressStore struct {
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]domain.Progress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		clock:   time.Now,
		entries: make(map[string]domain.Progress),
	}
}

// NewProgressStoreWithClock is test-only for deterministic staleness checks.
func NewProgressStoreWithClock(clock func() time.Time) *ProgressStore {
	store := NewProgressStore()
	store.clock = clock
	return store
}

func (s *ProgressStore) Save(_ context.Context, userID, quizID string, p domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[progressKey(userID, quizID)] = p
	return nil
}

func (s *ProgressStore) Load(_ context.Context, userID, quizID string) (domain.Progress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey(userID, quizID)
	p, ok := s.entries[key]
	if !ok {
		return domain.Progress{}, false, nil
	}
	if s.clock().Sub(p.SavedAt) > app.ProgressMaxAge {
		delete(s.entries, key)
		return domain.Progress{}, false, nil
	}
	return p, true, nil
}

func (s *ProgressStore) Clear(_ context.Context, userID, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, progressKey(userID, quizID))
	return nil
}

func progressKey(userID, quizID string) string {
	return userID + "/" + quizID
}
