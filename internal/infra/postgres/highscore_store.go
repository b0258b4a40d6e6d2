package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-session-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// HighScoreStore persists the shared per-quiz best score. The upsert is
// last-write-wins; the surrounding compare lives in the reconciler.
type HighScoreStore struct {
	pool *pgxpool.Pool
}

func NewHighScoreStore(pool *pgxpool.Pool) *HighScoreStore {
	return &HighScoreStore{pool: pool}
}

func (s *HighScoreStore) Get(ctx context.Context, quizID string) (domain.HighScoreRecord, bool, error) {
	record := domain.HighScoreRecord{QuizID: quizID}
	err := s.pool.QueryRow(ctx,
		`SELECT score, holder_name, achieved_at FROM high_scores WHERE quiz_id=$1`, quizID).
		Scan(&record.Score, &record.HolderName, &record.AchievedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.HighScoreRecord{}, false, nil
	}
	if err != nil {
		return domain.HighScoreRecord{}, false, fmt.Errorf("get high score: %w", err)
	}
	return record, true, nil
}

func (s *HighScoreStore) Put(ctx context.Context, record domain.HighScoreRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO high_scores (quiz_id, score, holder_name, achieved_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (quiz_id) DO UPDATE
		SET score=EXCLUDED.score, holder_name=EXCLUDED.holder_name, achieved_at=EXCLUDED.achieved_at`,
		record.QuizID, record.Score, record.HolderName, record.AchievedAt)
	if err != nil {
		return fmt.Errorf("put high score: %w", err)
	}
	return nil
}

func (s *HighScoreStore) PutLastAttempt(ctx context.Context, quizID string, score int, holder string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO last_attempts (quiz_id, score, holder_name, at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (quiz_id) DO UPDATE
		SET score=EXCLUDED.score, holder_name=EXCLUDED.holder_name, at=EXCLUDED.at`,
		quizID, score, holder, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put last attempt: %w", err)
	}
	return nil
}
