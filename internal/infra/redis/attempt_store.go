package redis

import (
	"context"
	"encoding/json"
	"strconv"

	"quiz-session-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AttemptStore keeps attempt records as per-user Redis lists, newest first:
//
//	LPUSH quiz:attempts:{userID} {record JSON}
type AttemptStore struct {
	client *redis.Client
}

func NewAttemptStore(client *redis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

func (s *AttemptStore) Append(ctx context.Context, record domain.AttemptRecord) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	seq, err := s.client.Incr(ctx, "quiz:attempts:seq").Result()
	if err != nil {
		return "", err
	}
	if err := s.client.LPush(ctx, s.key(record.UserID), data).Err(); err != nil {
		return "", err
	}
	return "attempt-" + strconv.FormatInt(seq, 10), nil
}

func (s *AttemptStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AttemptRecord, error) {
	end := int64(-1)
	if limit > 0 {
		end = int64(limit) - 1
	}
	raw, err := s.client.LRange(ctx, s.key(userID), 0, end).Result()
	if err != nil {
		return nil, err
	}
	records := make([]domain.AttemptRecord, 0, len(raw))
	for _, item := range raw {
		var record domain.AttemptRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			continue // skip unreadable entries rather than failing the whole list
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *AttemptStore) StatsByUser(ctx context.Context, userID string) (domain.AttemptStats, error) {
	records, err := s.ListByUser(ctx, userID, 0)
	if err != nil {
		return domain.AttemptStats{}, err
	}
	stats := domain.AttemptStats{TotalAttempts: len(records)}
	if len(records) == 0 {
		return stats, nil
	}
	sum := 0
	for _, r := range records {
		sum += r.PercentScore
		if r.PercentScore > stats.BestPercent {
			stats.BestPercent = r.PercentScore
		}
	}
	stats.AveragePercent = int(float64(sum)/float64(len(records)) + 0.5)
	return stats, nil
}

func (s *AttemptStore) key(userID string) string {
	return "quiz:attempts:" + userID
}
