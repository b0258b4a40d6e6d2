package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-session-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DefinitionLoader loads quiz JSONB from Postgres.
type DefinitionLoader struct {
	pool *pgxpool.Pool
}

func NewDefinitionLoader(pool *pgxpool.Pool) *DefinitionLoader {
	return &DefinitionLoader{pool: pool}
}

func (l *DefinitionLoader) LoadDefinition(ctx context.Context, subjectID, quizID string) (domain.QuizDefinition, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx,
		`SELECT data FROM quizzes WHERE id=$1 AND subject_id=$2`, quizID, subjectID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizDefinition{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizDefinition{}, fmt.Errorf("%w: load quiz: %v", domain.ErrRepositoryUnavailable, err)
	}
	var def domain.QuizDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return domain.QuizDefinition{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	def.ID = quizID
	def.SubjectID = subjectID
	return padMissingOptions(def), nil
}

// padMissingOptions substitutes the documented placeholder set for questions
// stored without options, mirroring the loader-boundary fallback of the
// in-memory loader.
func padMissingOptions(def domain.QuizDefinition) domain.QuizDefinition {
	for i := range def.Questions {
		if len(def.Questions[i].Options) == 0 {
			def.Questions[i].Options = []string{"Option A", "Option B", "Option C", "Option D"}
			def.Questions[i].CorrectOptionIndex = 0
		}
	}
	return def
}
