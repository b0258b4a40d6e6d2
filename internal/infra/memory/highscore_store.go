package memory

import (
	"context"
	"sync"
	"time"

	"quiz-session-service/internal/domain"
)

// HighScoreStore keeps per-quiz high-score records in memory.
type HighScoreStore struct {
	mu           sync.RWMutex
	records      map[string]domain.HighScoreRecord
	lastAttempts map[string]lastAttempt
}

type lastAttempt struct {
	score  int
	holder string
	at     time.Time
}

func NewHighScoreStore() *HighScoreStore {
	return &HighScoreStore{
		records:      make(map[string]domain.HighScoreRecord),
		lastAttempts: make(map[string]lastAttempt),
	}
}

func (s *HighScoreStore) Get(_ context.Context, quizID string) (domain.HighScoreRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[quizID]
	return record, ok, nil
}

func (s *HighScoreStore) Put(_ context.Context, record domain.HighScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.QuizID] = record
	return nil
}

func (s *HighScoreStore) PutLastAttempt(_ context.Context, quizID string, score int, holder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAttempts[quizID] = lastAttempt{score: score, holder: holder, at: time.Now()}
	return nil
}
