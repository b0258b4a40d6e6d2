package app

import (
	"context"
	"fmt"
	"time"

	"quiz-session-service/internal/clock"
	"quiz-session-service/internal/domain"
)

const defaultTimeLimitMinutes = 30

// Deps bundles the collaborators a SessionService needs.
type Deps struct {
	Quizzes    QuizRepository
	Progress   ProgressStore
	HighScores HighScoreStore
	Attempts   AttemptStore
	Identity   IdentityProvider
	// NewCountdown builds the timer for each session; defaults to the
	// one-second ticker.
	NewCountdown func() clock.Countdown
	// Now is the wall clock; defaults to time.Now.
	Now func() time.Time
}

// SessionService contains the quiz-session use cases.
type SessionService struct {
	quizzes      QuizRepository
	progress     ProgressStore
	identity     IdentityProvider
	attempts     AttemptStore
	recorder     *AttemptRecorder
	highScores   *HighScoreReconciler
	newCountdown func() clock.Countdown
	now          func() time.Time
}

func NewSessionService(deps Deps) *SessionService {
	if deps.NewCountdown == nil {
		deps.NewCountdown = func() clock.Countdown { return clock.NewTicker() }
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &SessionService{
		quizzes:      deps.Quizzes,
		progress:     deps.Progress,
		identity:     deps.Identity,
		attempts:     deps.Attempts,
		recorder:     NewAttemptRecorder(deps.Attempts, deps.Now),
		highScores:   NewHighScoreReconciler(deps.HighScores, deps.Now),
		newCountdown: deps.NewCountdown,
		now:          deps.Now,
	}
}

// Start loads a quiz and begins a session for the signed-in user. A non-stale
// progress record restores the remaining time only; answers always start
// fresh on a new load.
func (s *SessionService) Start(ctx context.Context, subjectID, quizID string) (*Session, error) {
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	def, err := s.quizzes.GetDefinition(ctx, subjectID, quizID)
	if err != nil {
		return nil, err
	}
	if err := validateDefinition(def); err != nil {
		return nil, err
	}

	limit := def.TimeLimitMinutes
	if limit <= 0 {
		limit = defaultTimeLimitMinutes
	}
	timeLimitSeconds := limit * 60

	timeRemaining := timeLimitSeconds
	if saved, ok, err := s.progress.Load(ctx, user.ID, def.ID); err == nil && ok && saved.TimeRemainingSeconds > 0 {
		timeRemaining = saved.TimeRemainingSeconds
	}

	session := newSession(def, user, timeRemaining, timeLimitSeconds,
		s.newCountdown(), s.progress, s.recorder, s.highScores, s.now)
	session.start()
	session.saveProgress(ctx)
	return session, nil
}

// ListAttempts returns a user's attempt history, newest first.
func (s *SessionService) ListAttempts(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error) {
	return s.attempts.ListByUser(ctx, userID, limit)
}

// AttemptStats aggregates a user's attempt history for profile views.
func (s *SessionService) AttemptStats(ctx context.Context, userID string) (domain.AttemptStats, error) {
	return s.attempts.StatsByUser(ctx, userID)
}

// HighScore exposes the shared best score for a quiz.
func (s *SessionService) HighScore(ctx context.Context, quizID string) (domain.HighScoreRecord, bool, error) {
	return s.highScores.store.Get(ctx, quizID)
}

func validateDefinition(def domain.QuizDefinition) error {
	if len(def.Questions) == 0 {
		return fmt.Errorf("%w: quiz %s has no questions", domain.ErrInvalidDefinition, def.ID)
	}
	for i, q := range def.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", domain.ErrInvalidDefinition, i+1)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct index %d outside %d options",
				domain.ErrInvalidDefinition, i+1, q.CorrectOptionIndex, len(q.Options))
		}
	}
	return nil
}
