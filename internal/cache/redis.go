package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/axpress-labs/scholard/models"
)

// entryTTL bounds storage only; the day-scoped key already makes entries
// naturally stale at midnight UTC.
const entryTTL = 48 * time.Hour

// redisStore implements Store using Redis
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed cache store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]models.Paper, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var papers []models.Paper
	if err := json.Unmarshal([]byte(val), &papers); err != nil {
		return nil, false, err
	}
	return papers, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, papers []models.Paper) error {
	data, err := json.Marshal(papers)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, entryTTL).Err()
}
