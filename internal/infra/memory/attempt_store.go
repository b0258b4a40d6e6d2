package memory

import (
	"context"
	"fmt"
	"sync"

	"quiz-session-service/internal/domain"
)

// AttemptStore keeps attempt records in memory, newest first per user.
type AttemptStore struct {
	mu      sync.RWMutex
	nextID  int
	byUser  map[string][]domain.AttemptRecord
	records int
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{byUser: make(map[string][]domain.AttemptRecord)}
}

func (s *AttemptStore) Append(_ context.Context, record domain.AttemptRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.records++
	s.byUser[record.UserID] = append([]domain.AttemptRecord{record}, s.byUser[record.UserID]...)
	return fmt.Sprintf("attempt-%d", s.nextID), nil
}

func (s *AttemptStore) ListByUser(_ context.Context, userID string, limit int) ([]domain.AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempts := s.byUser[userID]
	if limit > 0 && limit < len(attempts) {
		attempts = attempts[:limit]
	}
	out := make([]domain.AttemptRecord, len(attempts))
	copy(out, attempts)
	return out, nil
}

func (s *AttemptStore) StatsByUser(_ context.Context, userID string) (domain.AttemptStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempts := s.byUser[userID]
	stats := domain.AttemptStats{TotalAttempts: len(attempts)}
	if len(attempts) == 0 {
		return stats, nil
	}
	sum := 0
	for _, a := range attempts {
		sum += a.PercentScore
		if a.PercentScore > stats.BestPercent {
			stats.BestPercent = a.PercentScore
		}
	}
	stats.AveragePercent = int(float64(sum)/float64(len(attempts)) + 0.5)
	return stats, nil
}

// Len reports the total number of stored records across users.
func (s *AttemptStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}
