package app

import (
	"context"
	"time"

	"quiz-session-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetDefinition(ctx context.Context, subjectID, quizID string) (domain.QuizDefinition, error)
}

// ProgressMaxAge is the staleness cutoff for saved progress: anything older
// is treated as absent and cleared on load.
const ProgressMaxAge = 5 * time.Minute

// ProgressStore persists in-flight session state across reloads, scoped per
// user and quiz: the store is shared, so two users on the same quiz must not
// see each other's entries. Saves are best-effort: callers log failures and
// carry on.
type ProgressStore interface {
	Save(ctx context.Context, userID, quizID string, p domain.Progress) error
	// Load returns false for missing or stale entries; stale entries are
	// cleared as a side effect.
	Load(ctx context.Context, userID, quizID string) (domain.Progress, bool, error)
	Clear(ctx context.Context, userID, quizID string) error
}

// HighScoreStore holds the shared per-quiz best score record.
type HighScoreStore interface {
	// Get returns false when no record exists for the quiz yet.
	Get(ctx context.Context, quizID string) (domain.HighScoreRecord, bool, error)
	Put(ctx context.Context, record domain.HighScoreRecord) error
	// PutLastAttempt writes an audit side record of the most recent attempt,
	// regardless of whether it beat the high score. Best effort.
	PutLastAttempt(ctx context.Context, quizID string, score int, holder string) error
}

// AttemptStore appends immutable attempt records and serves history queries.
type AttemptStore interface {
	Append(ctx context.Context, record domain.AttemptRecord) (string, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error)
	StatsByUser(ctx context.Context, userID string) (domain.AttemptStats, error)
}

// IdentityProvider resolves the signed-in user. Returns
// domain.ErrUnauthenticated when nobody is signed in.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (domain.User, error)
}
