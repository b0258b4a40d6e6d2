package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

func TestDefinitionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		DefinitionLoader: NewStaticDefinitionLoader([]domain.QuizDefinition{sampleDefinition()}),
	}
	repo := NewDefinitionRepository(loader, time.Minute)

	if _, err := repo.GetDefinition(context.Background(), "math", "quiz-1"); err != nil {
		t.Fatalf("get definition: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetDefinition(context.Background(), "math", "quiz-1"); err != nil {
		t.Fatalf("get definition 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderNotFound(t *testing.T) {
	loader := NewStaticDefinitionLoader(nil)
	_, err := loader.LoadDefinition(context.Background(), "math", "missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestStaticLoaderPadsMissingOptions(t *testing.T) {
	def := sampleDefinition()
	def.Questions = append(def.Questions, domain.Question{Prompt: "Broken question"})
	loader := NewStaticDefinitionLoader([]domain.QuizDefinition{def})

	got, err := loader.LoadDefinition(context.Background(), "math", "quiz-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	padded := got.Questions[len(got.Questions)-1]
	if len(padded.Options) != 4 || padded.CorrectOptionIndex != 0 {
		t.Fatalf("expected 4 placeholder options, got %+v", padded)
	}
}

type countingLoader struct {
	DefinitionLoader
	calls int
}

func (l *countingLoader) LoadDefinition(ctx context.Context, subjectID, quizID string) (domain.QuizDefinition, error) {
	l.calls++
	return l.DefinitionLoader.LoadDefinition(ctx, subjectID, quizID)
}

func sampleDefinition() domain.QuizDefinition {
	return domain.QuizDefinition{
		ID:               "quiz-1",
		SubjectID:        "math",
		Title:            "Arithmetic Basics",
		SubjectTitle:     "Mathematics",
		TimeLimitMinutes: 1,
		Questions: []domain.Question{
			{
				Prompt:             "What is 2 + 2?",
				Options:            []string{"3", "4", "5"},
				CorrectOptionIndex: 1,
			},
		},
	}
}
