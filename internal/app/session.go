package app

import (
	"context"
	"log"
	"sync"
	"time"

	"quiz-session-service/internal/clock"
	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/scoring"
)

// progressSaveEvery throttles tick-driven progress writes.
const progressSaveEvery = 5

// hiddenPurgeGrace is how long a hidden client may stay away before its saved
// progress is purged. Advisory cleanup only: it never touches session state.
const hiddenPurgeGrace = 5 * time.Minute

// AdvanceOutcome tells the presentation layer what Advance did.
type AdvanceOutcome int

const (
	// AdvanceMoved means navigation moved to the next question.
	AdvanceMoved AdvanceOutcome = iota
	// AdvanceCompleted means the session finished and a summary is available.
	AdvanceCompleted
	// AdvanceExited means review mode is done and the client should leave.
	AdvanceExited
)

// Session drives one user through one quiz attempt. All state lives here,
// mutated only by the session operations; the presentation layer observes it
// through snapshots.
type Session struct {
	def  domain.QuizDefinition
	user domain.User

	countdown  clock.Countdown
	progress   ProgressStore
	recorder   *AttemptRecorder
	highScores *HighScoreReconciler
	now        func() time.Time

	mu               sync.Mutex
	phase            domain.SessionPhase
	current          int
	answers          []int
	correctness      []bool
	pointsScore      int
	streak           int
	timeRemaining    int
	timeLimitSeconds int
	reviewMode       bool
	completed        bool // set synchronously before any finalization write
	summary          *domain.CompletionSummary
	hiddenPurge      *time.Timer
	subscribers      map[chan domain.SessionSnapshot]struct{}
}

func newSession(def domain.QuizDefinition, user domain.User, timeRemaining, timeLimitSeconds int,
	countdown clock.Countdown, progress ProgressStore, recorder *AttemptRecorder,
	highScores *HighScoreReconciler, now func() time.Time) *Session {
	answers := make([]int, len(def.Questions))
	for i := range answers {
		answers[i] = domain.Unanswered
	}
	return &Session{
		def:              def,
		user:             user,
		countdown:        countdown,
		progress:         progress,
		recorder:         recorder,
		highScores:       highScores,
		now:              now,
		phase:            domain.PhaseActive,
		answers:          answers,
		correctness:      make([]bool, len(def.Questions)),
		timeRemaining:    timeRemaining,
		timeLimitSeconds: timeLimitSeconds,
		subscribers:      make(map[chan domain.SessionSnapshot]struct{}),
	}
}

// User returns the identity the session was started for.
func (s *Session) User() domain.User { return s.user }

// Definition returns the immutable quiz content.
func (s *Session) Definition() domain.QuizDefinition { return s.def }

// Snapshot returns the current state view.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SelectAnswer records a write-once answer for a question. Resubmitting an
// already-answered question is a no-op, not an overwrite.
func (s *Session) SelectAnswer(ctx context.Context, questionIndex, optionIndex int) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	if s.phase != domain.PhaseActive {
		s.mu.Unlock()
		return domain.SessionSnapshot{}, domain.ErrSessionClosed
	}
	if questionIndex < 0 || questionIndex >= len(s.def.Questions) {
		s.mu.Unlock()
		return domain.SessionSnapshot{}, domain.ErrOutOfRange
	}
	question := s.def.Questions[questionIndex]
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		s.mu.Unlock()
		return domain.SessionSnapshot{}, domain.ErrOutOfRange
	}
	if s.answers[questionIndex] != domain.Unanswered {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}

	correct := optionIndex == question.CorrectOptionIndex
	points, streak := scoring.Score(correct, s.streak)
	s.answers[questionIndex] = optionIndex
	s.correctness[questionIndex] = correct
	s.pointsScore += points
	s.streak = streak
	snap := s.broadcastLocked()
	s.mu.Unlock()

	s.saveProgress(ctx)
	return snap, nil
}

// GoTo navigates to a question, clamped to the valid range. Valid while
// active or reviewing; pure navigation, no scoring side effects.
func (s *Session) GoTo(questionIndex int) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseActive && s.phase != domain.PhaseReviewing {
		return domain.SessionSnapshot{}, domain.ErrSessionClosed
	}
	s.current = clampIndex(questionIndex, len(s.def.Questions))
	return s.broadcastLocked(), nil
}

// Previous moves one question back.
func (s *Session) Previous() (domain.SessionSnapshot, error) {
	s.mu.Lock()
	target := s.current - 1
	s.mu.Unlock()
	return s.GoTo(target)
}

// Advance moves to the next question, or on the last question either
// completes the session (all answered) or reports the unanswered question
// numbers. In review mode the last question advances out of the session.
func (s *Session) Advance(ctx context.Context) (AdvanceOutcome, domain.SessionSnapshot, error) {
	s.mu.Lock()
	last := len(s.def.Questions) - 1
	switch s.phase {
	case domain.PhaseReviewing:
		if s.current >= last {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return AdvanceExited, snap, nil
		}
		s.current++
		snap := s.broadcastLocked()
		s.mu.Unlock()
		return AdvanceMoved, snap, nil
	case domain.PhaseActive:
		if s.current < last {
			s.current++
			snap := s.broadcastLocked()
			s.mu.Unlock()
			return AdvanceMoved, snap, nil
		}
		var unanswered []int
		for i, a := range s.answers {
			if a == domain.Unanswered {
				unanswered = append(unanswered, i+1)
			}
		}
		if len(unanswered) > 0 {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return AdvanceMoved, snap, &domain.IncompleteQuizError{Unanswered: unanswered}
		}
		s.mu.Unlock()
		snap := s.finalize(ctx, false)
		return AdvanceCompleted, snap, nil
	default:
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return AdvanceCompleted, snap, nil
	}
}

// Expire is the countdown's expiry callback. Unlike Advance it completes the
// session regardless of unanswered questions; they stay unanswered and count
// as incorrect. Time pressure overrides the answer-all rule.
func (s *Session) Expire(ctx context.Context) {
	s.mu.Lock()
	if s.phase != domain.PhaseActive {
		s.mu.Unlock()
		return
	}
	s.timeRemaining = 0
	// Answering closes here, before the finalization writes begin.
	s.phase = domain.PhaseExpired
	s.mu.Unlock()
	s.finalize(ctx, true)
}

// EnterReview switches a finished session into review mode: timer off, index
// back to the first question, answers frozen.
func (s *Session) EnterReview() (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseCompleted && s.phase != domain.PhaseExpired {
		return domain.SessionSnapshot{}, domain.ErrSessionClosed
	}
	s.countdown.Stop()
	s.phase = domain.PhaseReviewing
	s.reviewMode = true
	s.current = 0
	return s.broadcastLocked(), nil
}

// NotifyHidden arms the grace timer that purges saved progress if the client
// stays away too long. It does not mutate session state.
func (s *Session) NotifyHidden() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hiddenPurge != nil {
		s.hiddenPurge.Stop()
	}
	userID, quizID := s.user.ID, s.def.ID
	s.hiddenPurge = time.AfterFunc(hiddenPurgeGrace, func() {
		if err := s.progress.Clear(context.Background(), userID, quizID); err != nil {
			log.Printf("purge hidden progress for quiz %s: %v", quizID, err)
		}
	})
}

// NotifyVisible disarms the hidden-client purge timer.
func (s *Session) NotifyVisible() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hiddenPurge != nil {
		s.hiddenPurge.Stop()
		s.hiddenPurge = nil
	}
}

// Close stops the countdown and the purge timer when the client navigates
// away. Saved progress is kept so a reload can resume the timer.
func (s *Session) Close() {
	s.countdown.Stop()
	s.mu.Lock()
	if s.hiddenPurge != nil {
		s.hiddenPurge.Stop()
		s.hiddenPurge = nil
	}
	s.mu.Unlock()
}

// Subscribe returns a channel receiving state snapshots. The caller must
// invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	// Sent under the lock so no broadcast can slip in ahead of the initial
	// snapshot; the channel is fresh and buffered, the send cannot block.
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// start begins the countdown. Separate from construction so tests can drive
// the session without a running timer.
func (s *Session) start() {
	s.countdown.Start(s.timeRemaining, s.handleTick, func() {
		s.Expire(context.Background())
	})
}

func (s *Session) handleTick(remaining int) {
	s.mu.Lock()
	if s.phase != domain.PhaseActive {
		s.mu.Unlock()
		return
	}
	s.timeRemaining = remaining
	s.broadcastLocked()
	s.mu.Unlock()

	if remaining > 0 && remaining%progressSaveEvery == 0 {
		s.saveProgress(context.Background())
	}
}

// finalize completes the session exactly once: the completed flag flips
// synchronously before any remote write, so a duplicate trigger during the
// in-flight window becomes a logged no-op. The summary is built from
// in-memory state and is shown even when the writes fail.
func (s *Session) finalize(ctx context.Context, expired bool) domain.SessionSnapshot {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		log.Printf("quiz %s: duplicate completion trigger ignored", s.def.ID)
		return s.Snapshot()
	}
	s.completed = true
	if expired {
		s.phase = domain.PhaseExpired
	} else {
		s.phase = domain.PhaseCompleted
	}
	s.countdown.Stop()

	correctCount := 0
	for i, a := range s.answers {
		if a != domain.Unanswered && s.correctness[i] {
			correctCount++
		}
	}
	total := len(s.def.Questions)
	timeTaken := s.timeLimitSeconds - s.timeRemaining
	if timeTaken < 0 {
		timeTaken = 0
	}
	summary := &domain.CompletionSummary{
		PointsScore:      s.pointsScore,
		CorrectCount:     correctCount,
		TotalQuestions:   total,
		PercentScore:     percent(correctCount, total),
		TimeTakenSeconds: timeTaken,
		Expired:          expired,
	}
	s.mu.Unlock()

	if err := s.progress.Clear(ctx, s.user.ID, s.def.ID); err != nil {
		log.Printf("clear progress for quiz %s: %v", s.def.ID, err)
	}

	s.recorder.Record(ctx, s.def, s.user, summary)

	isHigh, err := s.highScores.Reconcile(ctx, s.def.ID, s.def.SubjectID, summary.PointsScore, s.user.DisplayName)
	if err != nil {
		log.Printf("reconcile high score for quiz %s: %v", s.def.ID, err)
	}
	summary.NewHighScore = isHigh

	s.mu.Lock()
	s.summary = summary
	snap := s.broadcastLocked()
	s.mu.Unlock()
	return snap
}

func (s *Session) saveProgress(ctx context.Context) {
	s.mu.Lock()
	if s.phase != domain.PhaseActive || s.timeRemaining <= 0 {
		s.mu.Unlock()
		return
	}
	p := domain.Progress{
		TimeRemainingSeconds: s.timeRemaining,
		SavedAt:              s.now(),
	}
	quizID := s.def.ID
	s.mu.Unlock()

	if err := s.progress.Save(ctx, s.user.ID, quizID, p); err != nil {
		log.Printf("save progress for quiz %s: %v", quizID, err)
	}
}

func (s *Session) broadcastLocked() domain.SessionSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest update so a slow consumer never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	answers := make([]int, len(s.answers))
	copy(answers, s.answers)
	correctness := make([]bool, len(s.correctness))
	copy(correctness, s.correctness)
	return domain.SessionSnapshot{
		QuizID:               s.def.ID,
		QuizTitle:            s.def.Title,
		Phase:                s.phase,
		CurrentIndex:         s.current,
		TotalQuestions:       len(s.def.Questions),
		Answers:              answers,
		Correctness:          correctness,
		PointsScore:          s.pointsScore,
		Streak:               s.streak,
		TimeRemainingSeconds: s.timeRemaining,
		ReviewMode:           s.reviewMode,
		Summary:              s.summary,
	}
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i >= length {
		return length - 1
	}
	return i
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(part)/float64(total)*100 + 0.5)
}
