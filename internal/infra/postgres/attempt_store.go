package postgres

import (
	"context"
	"fmt"

	"quiz-session-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore persists attempt records in the quiz_attempts table.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) Append(ctx context.Context, record domain.AttemptRecord) (string, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quiz_attempts
			(user_id, quiz_id, subject_id, points_score, percent_score, correct_count,
			 total_questions, time_taken_seconds, ts, quiz_title, subject_title)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id`,
		record.UserID, record.QuizID, record.SubjectID, record.PointsScore, record.PercentScore,
		record.CorrectCount, record.TotalQuestions, record.TimeTakenSeconds, record.Timestamp,
		record.QuizTitle, record.SubjectTitle,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("append attempt: %w", err)
	}
	return fmt.Sprintf("attempt-%d", id), nil
}

func (s *AttemptStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, quiz_id, subject_id, points_score, percent_score, correct_count,
		       total_questions, time_taken_seconds, ts, quiz_title, subject_title
		FROM quiz_attempts WHERE user_id=$1 ORDER BY ts DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var records []domain.AttemptRecord
	for rows.Next() {
		var r domain.AttemptRecord
		if err := rows.Scan(&r.UserID, &r.QuizID, &r.SubjectID, &r.PointsScore, &r.PercentScore,
			&r.CorrectCount, &r.TotalQuestions, &r.TimeTakenSeconds, &r.Timestamp,
			&r.QuizTitle, &r.SubjectTitle); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *AttemptStore) StatsByUser(ctx context.Context, userID string) (domain.AttemptStats, error) {
	var stats domain.AttemptStats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(ROUND(AVG(percent_score)), 0),
		       COALESCE(MAX(percent_score), 0)
		FROM quiz_attempts WHERE user_id=$1`, userID).
		Scan(&stats.TotalAttempts, &stats.AveragePercent, &stats.BestPercent)
	if err != nil {
		return domain.AttemptStats{}, fmt.Errorf("attempt stats: %w", err)
	}
	return stats, nil
}
