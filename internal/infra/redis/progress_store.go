package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ProgressStore keeps in-flight session state in Redis so it survives client
// reloads and process restarts. Keys are scoped per user and quiz; the store
// is shared across users. Entries carry their save time; Load treats anything
// older than app.ProgressMaxAge as absent and deletes it. A TTL on the key
// keeps abandoned entries from accumulating.
type ProgressStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client, clock: time.Now}
}

// NewProgressStoreWithClock is test-only for deterministic staleness checks.
func NewProgressStoreWithClock(client *redis.Client, clock func() time.Time) *ProgressStore {
	return &ProgressStore{client: client, clock: clock}
}

func (s *ProgressStore) Save(ctx context.Context, userID, quizID string, p domain.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(userID, quizID), data, 2*app.ProgressMaxAge).Err()
}

func (s *ProgressStore) Load(ctx context.Context, userID, quizID string) (domain.Progress, bool, error) {
	data, err := s.client.Get(ctx, s.key(userID, quizID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Progress{}, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, err
	}
	var p domain.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		// Unreadable entries are treated like stale ones.
		_ = s.client.Del(ctx, s.key(userID, quizID)).Err()
		return domain.Progress{}, false, nil
	}
	if s.clock().Sub(p.SavedAt) > app.ProgressMaxAge {
		_ = s.client.Del(ctx, s.key(userID, quizID)).Err()
		return domain.Progress{}, false, nil
	}
	return p, true, nil
}

func (s *ProgressStore) Clear(ctx context.Context, userID, quizID string) error {
	return s.client.Del(ctx, s.key(userID, quizID)).Err()
}

func (s *ProgressStore) key(userID, quizID string) string {
	return "quiz:progress:" + userID + ":" + quizID
}
