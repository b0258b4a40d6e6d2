package redis

import (
	"context"
	"strconv"
	"time"

	"quiz-session-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// HighScoreStore keeps the shared per-quiz best score as a Redis hash:
//
//	HSET quiz:highscore:{quizID} score {points} holder {name} achievedAt {unix}
//
// Writes are plain last-write-wins; no transaction guards the surrounding
// read-modify-write, matching the reconciler's accepted race.
type HighScoreStore struct {
	client *redis.Client
}

func NewHighScoreStore(client *redis.Client) *HighScoreStore {
	return &HighScoreStore{client: client}
}

func (s *HighScoreStore) Get(ctx context.Context, quizID string) (domain.HighScoreRecord, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key(quizID)).Result()
	if err != nil {
		return domain.HighScoreRecord{}, false, err
	}
	if len(fields) == 0 {
		return domain.HighScoreRecord{}, false, nil
	}
	record := domain.HighScoreRecord{QuizID: quizID, HolderName: fields["holder"]}
	if raw, ok := fields["score"]; ok {
		if score, err := strconv.Atoi(raw); err == nil {
			record.Score = score
		}
	}
	if raw, ok := fields["achievedAt"]; ok {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			record.AchievedAt = time.Unix(unix, 0).UTC()
		}
	}
	return record, true, nil
}

func (s *HighScoreStore) Put(ctx context.Context, record domain.HighScoreRecord) error {
	return s.client.HSet(ctx, s.key(record.QuizID),
		"score", record.Score,
		"holder", record.HolderName,
		"achievedAt", record.AchievedAt.Unix(),
	).Err()
}

func (s *HighScoreStore) PutLastAttempt(ctx context.Context, quizID string, score int, holder string) error {
	return s.client.HSet(ctx, "quiz:lastattempt:"+quizID,
		"score", score,
		"holder", holder,
		"at", time.Now().Unix(),
	).Err()
}

func (s *HighScoreStore) key(quizID string) string {
	return "quiz:highscore:" + quizID
}
