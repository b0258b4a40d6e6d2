package domain

import "time"

// Question models an MCQ question. Options are ordered; exactly one index is correct.
type Question struct {
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
}

// QuizDefinition is the immutable content of a quiz, loaded once per session.
// Question order is significant: it defines navigation order and numbering.
type QuizDefinition struct {
	ID               string     `json:"id"`
	SubjectID        string     `json:"subjectId"`
	Title            string     `json:"title"`
	SubjectTitle     string     `json:"subjectTitle"`
	Description      string     `json:"description"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"` // defaults to 30 if zero or negative
	Questions        []Question `json:"questions"`
}

// User identifies a signed-in quiz taker.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Progress is the durable in-flight state of a session. Only the timer is
// carried across reloads; answers are intentionally not persisted.
type Progress struct {
	TimeRemainingSeconds int       `json:"timeRemainingSeconds"`
	SavedAt              time.Time `json:"savedAt"`
}

// AttemptRecord is the immutable record of one completed session.
// PointsScore (streak-weighted points) and PercentScore (fraction of correct
// answers) are distinct numbers and stay in distinct fields.
type AttemptRecord struct {
	UserID           string    `json:"userId"`
	QuizID           string    `json:"quizId"`
	SubjectID        string    `json:"subjectId"`
	PointsScore      int       `json:"pointsScore"`
	PercentScore     int       `json:"percentScore"`
	CorrectCount     int       `json:"correctCount"`
	TotalQuestions   int       `json:"totalQuestions"`
	TimeTakenSeconds int       `json:"timeTakenSeconds"`
	Timestamp        time.Time `json:"timestamp"`
	QuizTitle        string    `json:"quizTitle"`
	SubjectTitle     string    `json:"subjectTitle"`
}

// AttemptStats aggregates a user's attempt history for profile views.
type AttemptStats struct {
	TotalAttempts  int `json:"totalAttempts"`
	AveragePercent int `json:"averagePercent"`
	BestPercent    int `json:"bestPercent"`
}

// HighScoreRecord is the shared best points-score for a quiz, one record per
// quiz, last writer wins.
type HighScoreRecord struct {
	QuizID     string    `json:"quizId"`
	Score      int       `json:"score"`
	HolderName string    `json:"holderName"`
	AchievedAt time.Time `json:"achievedAt"`
}

// Unanswered marks an answer slot that has not been filled yet.
const Unanswered = -1

// SessionPhase names the lifecycle states of a quiz session.
type SessionPhase string

const (
	PhaseActive    SessionPhase = "active"
	PhaseCompleted SessionPhase = "completed"
	PhaseExpired   SessionPhase = "expired"
	PhaseReviewing SessionPhase = "reviewing"
)

// SessionSnapshot is the read-only view of session state pushed to the
// presentation layer on every change.
type SessionSnapshot struct {
	QuizID               string             `json:"quizId"`
	QuizTitle            string             `json:"quizTitle"`
	Phase                SessionPhase       `json:"phase"`
	CurrentIndex         int                `json:"currentIndex"`
	TotalQuestions       int                `json:"totalQuestions"`
	Answers              []int              `json:"answers"` // Unanswered where not yet answered
	Correctness          []bool             `json:"correctness"`
	PointsScore          int                `json:"pointsScore"`
	Streak               int                `json:"streak"`
	TimeRemainingSeconds int                `json:"timeRemainingSeconds"`
	ReviewMode           bool               `json:"reviewMode"`
	Summary              *CompletionSummary `json:"summary,omitempty"`
}

// CompletionSummary is derived from in-memory state when a session finishes;
// it is shown even when the attempt or high-score writes fail.
type CompletionSummary struct {
	PointsScore      int  `json:"pointsScore"`
	CorrectCount     int  `json:"correctCount"`
	TotalQuestions   int  `json:"totalQuestions"`
	PercentScore     int  `json:"percentScore"`
	TimeTakenSeconds int  `json:"timeTakenSeconds"`
	Expired          bool `json:"expired"`
	NewHighScore     bool `json:"newHighScore"`
}
