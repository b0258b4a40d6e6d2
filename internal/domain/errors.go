package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDefinition indicates malformed or empty quiz content; fatal to session creation.
	ErrInvalidDefinition = errors.New("invalid quiz definition")
	// ErrOutOfRange indicates a question or option index outside the valid range.
	// A correctly wired presentation layer never produces it.
	ErrOutOfRange = errors.New("index out of range")
	// ErrUnauthenticated is returned when no signed-in user is available.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrQuizNotFound indicates the quiz content could not be located.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrRepositoryUnavailable wraps remote store failures.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrSessionClosed is returned for operations on a session whose phase no
	// longer permits them.
	ErrSessionClosed = errors.New("session no longer active")
)

// IncompleteQuizError reports the 1-indexed numbers of unanswered questions
// blocking completion. The user can keep answering; no state has changed.
type IncompleteQuizError struct {
	Unanswered []int
}

func (e *IncompleteQuizError) Error() string {
	nums := make([]string, len(e.Unanswered))
	for i, n := range e.Unanswered {
		nums[i] = fmt.Sprintf("%d", n)
	}
	return "unanswered questions: " + strings.Join(nums, ", ")
}
