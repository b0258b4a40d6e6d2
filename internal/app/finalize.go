package app

import (
	"context"
	"log"
	"time"

	"quiz-session-service/internal/domain"
)

// AttemptRecorder turns a completed session into an immutable attempt record.
// Write failures are logged, never surfaced: the completion summary comes
// from in-memory state, not from this write.
type AttemptRecorder struct {
	attempts AttemptStore
	now      func() time.Time
}

func NewAttemptRecorder(attempts AttemptStore, now func() time.Time) *AttemptRecorder {
	if now == nil {
		now = time.Now
	}
	return &AttemptRecorder{attempts: attempts, now: now}
}

// Record appends the attempt. The once-only guarantee lives in the session's
// completed flag; this stays a plain write.
func (r *AttemptRecorder) Record(ctx context.Context, def domain.QuizDefinition, user domain.User, summary *domain.CompletionSummary) {
	record := domain.AttemptRecord{
		UserID:           user.ID,
		QuizID:           def.ID,
		SubjectID:        def.SubjectID,
		PointsScore:      summary.PointsScore,
		PercentScore:     summary.PercentScore,
		CorrectCount:     summary.CorrectCount,
		TotalQuestions:   summary.TotalQuestions,
		TimeTakenSeconds: summary.TimeTakenSeconds,
		Timestamp:        r.now(),
		QuizTitle:        def.Title,
		SubjectTitle:     def.SubjectTitle,
	}
	if _, err := r.attempts.Append(ctx, record); err != nil {
		log.Printf("append attempt for quiz %s user %s: %v", def.ID, user.ID, err)
	}
}

// HighScoreReconciler applies the candidate score to the shared per-quiz
// record. The read-modify-write is not atomic: two sessions racing on the
// same quiz can both read the old score and both write, with the later write
// winning even if it is lower. That is the accepted policy, matching the
// storage backends' last-write-wins semantics.
type HighScoreReconciler struct {
	store HighScoreStore
	now   func() time.Time
}

func NewHighScoreReconciler(store HighScoreStore, now func() time.Time) *HighScoreReconciler {
	if now == nil {
		now = time.Now
	}
	return &HighScoreReconciler{store: store, now: now}
}

// Reconcile returns true when the candidate strictly beats the stored score
// (absent record counts as zero) and the new record was written. A losing
// candidate leaves the record untouched but still writes a best-effort
// last-attempt audit entry.
func (r *HighScoreReconciler) Reconcile(ctx context.Context, quizID, subjectID string, candidateScore int, holderName string) (bool, error) {
	current, ok, err := r.store.Get(ctx, quizID)
	if err != nil {
		return false, err
	}
	if !ok {
		current = domain.HighScoreRecord{QuizID: quizID}
	}
	if candidateScore > current.Score {
		record := domain.HighScoreRecord{
			QuizID:     quizID,
			Score:      candidateScore,
			HolderName: holderName,
			AchievedAt: r.now(),
		}
		if err := r.store.Put(ctx, record); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := r.store.PutLastAttempt(ctx, quizID, candidateScore, holderName); err != nil {
		log.Printf("record last attempt for quiz %s (subject %s): %v", quizID, subjectID, err)
	}
	return false, nil
}
